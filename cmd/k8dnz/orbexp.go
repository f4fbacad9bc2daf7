package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/atomicfile"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/orbband"
)

func newOrbexpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orbexp",
		Short: "OrbBandsplit diagnostics: block-to-lane bucketing, not a reconstructible encoding",
	}
	cmd.AddCommand(newBlockscanCmd(), newBandsplitCmd())
	return cmd
}

type orbexpFlags struct {
	in          string
	recipePath  string
	outTags     string
	blockBits   int
	mod         uint64
	bucketShift uint
	bucketMod   uint64
	maxTicks    uint64
	packed      bool
	tagBits     int
}

func registerOrbexpFlags(cmd *cobra.Command, f *orbexpFlags) {
	cmd.Flags().StringVar(&f.in, "in", "", "Input file to bucket into blocks (required)")
	cmd.Flags().StringVar(&f.recipePath, "recipe", "", "Path to a K8R recipe blob (required)")
	cmd.Flags().IntVar(&f.blockBits, "block-bits", 64, "Block size in bits")
	cmd.Flags().Uint64Var(&f.mod, "mod", orbband.ModPreserveEntropy, "Phase-match modulus")
	cmd.Flags().UintVar(&f.bucketShift, "bucket-shift", 0, "Right-shift applied to the matching tick before bucketing")
	cmd.Flags().Uint64Var(&f.bucketMod, "bucket-mod", 256, "Lane count")
	cmd.Flags().Uint64Var(&f.maxTicks, "max-ticks", 4_000_000, "Tick search budget shared by all blocks (one engine runs across the whole input)")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("recipe")
}

func splitBlocks(f *orbexpFlags) ([][]byte, []orbband.Tag) {
	rec, err := loadRecipe(f.recipePath)
	if err != nil {
		fail(f.recipePath, err)
	}
	rec.MaxTicksCap = f.maxTicks

	data, err := readFile(f.in)
	if err != nil {
		fail(f.in, err)
	}

	params := orbband.Params{
		BlockBits:   f.blockBits,
		Mod:         f.mod,
		BucketShift: f.bucketShift,
		BucketMod:   f.bucketMod,
		MaxTicks:    f.maxTicks,
	}
	blocks, tags, err := orbband.Split(rec, data, params)
	if err != nil {
		fail(f.in, err)
	}
	return blocks, tags
}

// newBlockscanCmd reports each block's matching tick and lane to stdout
// without writing anything — a read-only preview of what bandsplit would
// commit.
func newBlockscanCmd() *cobra.Command {
	f := &orbexpFlags{}
	cmd := &cobra.Command{
		Use:   "blockscan",
		Short: "Print each block's matching tick and lane without committing a TG1 file",
		Run: func(cmd *cobra.Command, args []string) {
			blocks, tags := splitBlocks(f)
			for i, tag := range tags {
				fmt.Printf("block %6d  len %4d  tick %12d  lane %8d\n", i, len(blocks[i]), tag.Tick, tag.Lane)
			}
		},
	}
	registerOrbexpFlags(cmd, f)
	return cmd
}

// newBandsplitCmd commits the blocks' lane tags to a TG1 file.
func newBandsplitCmd() *cobra.Command {
	f := &orbexpFlags{}
	cmd := &cobra.Command{
		Use:   "bandsplit",
		Short: "Split an input into blocks and write their lane tags to a TG1 file",
		Run: func(cmd *cobra.Command, args []string) {
			blocks, tags := splitBlocks(f)

			var tg1 []byte
			if f.packed {
				tg1 = orbband.EncodeTG1Packed(tags, uint8(f.tagBits))
			} else {
				tg1 = orbband.EncodeTG1Bytes(tags)
			}
			if err := atomicfile.Write(f.outTags, tg1, 0o644); err != nil {
				fail(f.outTags, err)
			}
			logger.Info("bandsplit complete", "blocks", len(blocks), "tags", len(tags), "out", f.outTags)
		},
	}
	registerOrbexpFlags(cmd, f)
	cmd.Flags().StringVar(&f.outTags, "out-tags", "", "Output TG1 tag path (required)")
	cmd.Flags().BoolVar(&f.packed, "packed", false, "Bit-pack TG1 tags at --tag-bits bits/tag instead of one byte/tag")
	cmd.Flags().IntVar(&f.tagBits, "tag-bits", 8, "Bits per tag when --packed is set")
	cmd.MarkFlagRequired("out-tags")
	return cmd
}
