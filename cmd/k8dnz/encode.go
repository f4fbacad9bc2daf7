package main

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/atomicfile"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/bitmap"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/scoreboard"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/timemap"
	"github.com/Y3LLOWVESTS/K8DNZ/pkg/k8dnz"
)

var (
	encodeIn            string
	encodeOut           string
	encodeProfile       string
	encodeMaxTicks      uint64
	encodeObfuscate     bool
	encodeDumpKeystream string
)

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Fit a target file against a generated cadence recipe and write a .ark container",
		Run:   runEncode,
	}
	cmd.Flags().StringVar(&encodeIn, "in", "", "Input target file (required)")
	cmd.Flags().StringVar(&encodeOut, "out", "", "Output .ark path (required)")
	cmd.Flags().StringVar(&encodeProfile, "profile", "tuned", "Recipe profile: tuned or baseline")
	cmd.Flags().Uint64Var(&encodeMaxTicks, "max-ticks", 8_000_000, "Tick budget for the cadence engine")
	cmd.Flags().BoolVar(&encodeObfuscate, "obfuscate", false, "XOR-obfuscate the residual with xorobf before containment")
	cmd.Flags().StringVar(&encodeDumpKeystream, "dump-keystream", "", "Optional: write the matched keystream bytes to this path, for diagnostics")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}

func runEncode(cmd *cobra.Command, args []string) {
	target, err := readFile(encodeIn)
	if err != nil {
		fail(encodeIn, err)
	}

	rec, err := buildRecipe(encodeProfile, 0, encodeMaxTicks)
	if err != nil {
		fail("--profile", err)
	}

	var out bytes.Buffer
	opts := k8dnz.EncodeOptions{
		Mapping: bitmap.Params{Kind: bitmap.KindIdentity},
		Fit: timemap.FitOptions{
			ChunkSize:       4096,
			Lookahead:       1 << 16,
			SearchEmissions: encodeMaxTicks,
			Objective:       timemap.ObjectiveMatches,
		},
		ResidualMode: timemap.ResidualXOR,
		Obfuscate:    encodeObfuscate,
	}
	fitRes, keystream, err := k8dnz.Encode(rec, bytes.NewReader(target), &out, opts)
	if err != nil {
		fail(encodeIn, err)
	}

	if err := atomicfile.Write(encodeOut, out.Bytes(), 0o644); err != nil {
		fail(encodeOut, err)
	}

	if encodeDumpKeystream != "" {
		if err := atomicfile.Write(encodeDumpKeystream, keystream, 0o644); err != nil {
			fail(encodeDumpKeystream, err)
		}
		logger.Info("dumped keystream", "path", encodeDumpKeystream, "bytes", len(keystream))
	}

	var objective int64
	for _, c := range fitRes.Chunks {
		objective += c.Score
	}
	scoreboard.Print(os.Stdout, []scoreboard.Row{{
		Label:        encodeIn,
		Objective:    objective,
		Chunks:       len(fitRes.Chunks),
		ResidualSize: len(target),
		ElapsedTicks: rec.MaxTicksCap,
		Degraded:     fitRes.Degraded,
	}})
	logger.Info("encoded", "in", encodeIn, "out", encodeOut, "bytes", len(target))
}
