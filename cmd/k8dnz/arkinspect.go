package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/container"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/recipe"
)

var (
	arkInspectIn             string
	arkInspectDumpCiphertext bool
)

func newArkInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ark-inspect",
		Short: "Print a .ark container's recipe, timemap, and residual headers without reconstructing",
		Run:   runArkInspect,
	}
	cmd.Flags().StringVar(&arkInspectIn, "in", "", "Input .ark path (required)")
	cmd.Flags().BoolVar(&arkInspectDumpCiphertext, "dump-ciphertext", false, "Also dump the raw packed residual bytes to stdout")
	cmd.MarkFlagRequired("in")
	return cmd
}

func runArkInspect(cmd *cobra.Command, args []string) {
	raw, err := readFile(arkInspectIn)
	if err != nil {
		fail(arkInspectIn, err)
	}

	ark, err := container.DecodeArk(raw)
	if err != nil {
		fail(arkInspectIn, err)
	}
	rec, _, err := recipe.DecodeK8R(ark.Recipe)
	if err != nil {
		fail(arkInspectIn, err)
	}
	p, _, err := container.DecodeK8P2(ark.Data)
	if err != nil {
		fail(arkInspectIn, err)
	}
	tm, err := container.DecodeTM1(p.Left)
	if err != nil {
		fail(arkInspectIn, err)
	}
	bf, err := container.DecodeBFn(p.Right)
	if err != nil {
		fail(arkInspectIn, err)
	}

	fmt.Printf("recipe_id:        %s\n", rec.RecipeID)
	fmt.Printf("mode:             %s\n", rec.Mode)
	fmt.Printf("max_ticks_cap:    %d\n", rec.MaxTicksCap)
	fmt.Printf("checksum:         0x%08x\n", rec.Checksum())
	fmt.Printf("timemap_indices:  %d\n", len(tm.Indices))
	fmt.Printf("timemap_max_used: %d\n", tm.MaxTicksUsed)
	fmt.Printf("residual_bits:    %d\n", bf.BitsPerEmission)
	fmt.Printf("residual_mode:    0x%02x\n", bf.ResidualMode)
	fmt.Printf("residual_bytes:   %d\n", bf.TotalSymbols)

	if arkInspectDumpCiphertext {
		os.Stdout.Write(bf.Packed)
	}
}
