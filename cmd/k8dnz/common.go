package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/bitmap"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/recipe"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/timemap"
	"github.com/Y3LLOWVESTS/K8DNZ/pkg/errs"
	"github.com/Y3LLOWVESTS/K8DNZ/pkg/logging"
)

// logger is reassigned by rootCmd's PersistentPreRun once --log-level/
// --json-log have been parsed; this default covers tests and any code
// path that runs before cobra parses flags.
var logger = logging.NewLogger("k8dnz", "", os.Stderr, logging.JSONLogEnabled())

// fail prints "error: <kind>: <context>" to stderr and exits
// with the code pkg/errs maps the error to.
func fail(context string, err error) {
	classified := errs.Classify(err)
	fmt.Fprintf(os.Stderr, "error: %v: %s\n", classified, context)
	os.Exit(errs.ExitCode(err))
}

func parseMode(s string) (recipe.Mode, error) {
	switch s {
	case "pair", "":
		return recipe.ModePair, nil
	case "rgbpair":
		return recipe.ModeRGBPair, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want pair or rgbpair)", s)
	}
}

func parseResidualMode(s string) (timemap.ResidualMode, error) {
	switch s {
	case "xor", "":
		return timemap.ResidualXOR, nil
	case "sub":
		return timemap.ResidualSub, nil
	default:
		return 0, fmt.Errorf("unknown residual mode %q (want xor or sub)", s)
	}
}

func parseObjective(s string) (timemap.Objective, error) {
	switch s {
	case "matches", "":
		return timemap.ObjectiveMatches, nil
	case "zstd":
		return timemap.ObjectiveZstd, nil
	default:
		return 0, fmt.Errorf("unknown objective %q (want matches or zstd)", s)
	}
}

func parseLawType(s string) (timemap.LawType, error) {
	switch s {
	case "closed-form", "":
		return timemap.LawClosedForm, nil
	case "jump-walk":
		return timemap.LawJumpWalk, nil
	default:
		return 0, fmt.Errorf("unknown law type %q (want closed-form or jump-walk)", s)
	}
}

// bitMappingParams builds bitmap.Params from the shared --map/--bits-per-
// emission/--bit-mapping/--map-seed[-hex] flag group used by the timemap
// fit-xor[-chunked] and reconstruct subcommands.
func bitMappingParams(mapKind, bitMapping string, bitsPerEmission int, mapSeed uint64, mapSeedHex string, tau int32, smoothShift uint) (bitmap.Params, error) {
	if mapSeedHex != "" {
		decoded, err := hex.DecodeString(mapSeedHex)
		if err != nil {
			return bitmap.Params{}, fmt.Errorf("--map-seed-hex: %w", err)
		}
		var buf [8]byte
		copy(buf[8-len(decoded):], decoded)
		mapSeed = 0
		for i, b := range buf {
			mapSeed |= uint64(b) << uint((7-i)*8)
		}
	}

	switch mapKind {
	case "identity", "":
		return bitmap.Params{Kind: bitmap.KindIdentity}, nil
	case "splitmix64":
		return bitmap.Params{Kind: bitmap.KindSplitMix64, Seed: mapSeed}, nil
	case "text40-field":
		return bitmap.Params{Kind: bitmap.KindText40Field, FieldSeed: mapSeed}, nil
	case "bitfield":
		sub, err := parseBitfieldSubMode(bitMapping)
		if err != nil {
			return bitmap.Params{}, err
		}
		return bitmap.Params{
			Kind:            bitmap.KindBitfield,
			BitsPerEmission: bitsPerEmission,
			SubMode:         sub,
			HashSeed:        mapSeed,
			Tau:             tau,
			SmoothShift:     smoothShift,
		}, nil
	default:
		return bitmap.Params{}, fmt.Errorf("unknown --map %q", mapKind)
	}
}

func parseBitfieldSubMode(s string) (bitmap.BitfieldSubMode, error) {
	switch s {
	case "geom", "":
		return bitmap.BitfieldGeom, nil
	case "hash":
		return bitmap.BitfieldHash, nil
	case "lowpass-thresh":
		return bitmap.BitfieldLowpassThresh, nil
	default:
		return 0, fmt.Errorf("unknown --bit-mapping %q", s)
	}
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func loadRecipe(path string) (*recipe.Recipe, error) {
	blob, err := readFile(path)
	if err != nil {
		return nil, err
	}
	rec, _, err := recipe.DecodeK8R(blob)
	if err != nil {
		return nil, fmt.Errorf("decoding recipe %s: %w", path, err)
	}
	return rec, nil
}

