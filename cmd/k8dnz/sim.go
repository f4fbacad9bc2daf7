package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/cadence"
)

var (
	simEmissions int
	simMode      string
	simFmt       string
	simProfile   string
	simMaxTicks  uint64
)

func newSimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run the cadence engine standalone and dump its emission stream",
		Run:   runSim,
	}
	cmd.Flags().IntVar(&simEmissions, "emissions", 1000, "Number of emissions to produce")
	cmd.Flags().StringVar(&simMode, "mode", "pair", "Emission mode: pair or rgbpair")
	cmd.Flags().StringVar(&simFmt, "fmt", "jsonl", "Output format: jsonl or bin")
	cmd.Flags().StringVar(&simProfile, "profile", "tuned", "Recipe profile: tuned or baseline")
	cmd.Flags().Uint64Var(&simMaxTicks, "max-ticks", 8_000_000, "Tick budget for the cadence engine")
	return cmd
}

type simEmissionJSON struct {
	Tick  uint64 `json:"tick"`
	Index uint64 `json:"index"`
	A     uint8  `json:"a,omitempty"`
	B     uint8  `json:"b,omitempty"`
	RGB   []byte `json:"rgb,omitempty"`
}

func runSim(cmd *cobra.Command, args []string) {
	mode, err := parseMode(simMode)
	if err != nil {
		fail("--mode", err)
	}
	rec, err := buildRecipe(simProfile, mode, simMaxTicks)
	if err != nil {
		fail("--profile", err)
	}

	eng := cadence.NewEngine(rec, nil)
	emissions, err := eng.EmitStream(simEmissions)
	if err != nil && len(emissions) < simEmissions {
		fail("sim", err)
	}

	switch simFmt {
	case "bin", "":
		for _, em := range emissions {
			os.Stdout.Write(em.Bytes(rec.Mode))
		}
	case "jsonl":
		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()
		enc := json.NewEncoder(w)
		for _, em := range emissions {
			row := simEmissionJSON{Tick: em.Tick, Index: em.Index}
			if rec.Mode.String() == "rgbpair" {
				b := em.RGB.Bytes()
				row.RGB = b[:]
			} else {
				row.A, row.B = em.Pair.A, em.Pair.B
			}
			if err := enc.Encode(row); err != nil {
				fail("sim", err)
			}
		}
	default:
		fail("--fmt", fmt.Errorf("unknown format %q (want jsonl or bin)", simFmt))
	}
}
