package main

import (
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/atomicfile"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/container"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/scoreboard"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/timemap"
	"github.com/Y3LLOWVESTS/K8DNZ/pkg/errs"
	"github.com/Y3LLOWVESTS/K8DNZ/pkg/k8dnz"
)

func newTimemapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timemap",
		Short: "Window-search / law-driven timemap fitting and reconstruction",
	}
	cmd.AddCommand(
		newFitXorCmd(false),
		newFitXorCmd(true),
		newGenLawCmd(),
		newReconstructCmd(),
		newBFLanesCmd(),
	)
	return cmd
}

// --- shared fit-xor flag group (fit-xor and fit-xor-chunked differ only
// in that fit-xor ignores --chunk-size and fits the whole target as one
// chunk) ---

type fitFlags struct {
	recipePath      string
	targetPath      string
	outTimemap      string
	outResidual     string
	mode            string
	mapKind         string
	bitsPerEmission int
	bitMapping      string
	residualMode    string
	objective       string
	chunkSize       int
	searchEmissions uint64
	maxTicks        uint64
	lookahead       uint64
	scanStep        uint64
	refineTopK      int
	transPenalty    uint64
	zstdLevel       int
	startEmission   uint64
}

func newFitXorCmd(chunked bool) *cobra.Command {
	use := "fit-xor"
	short := "Unchunked window search for a target against the cadence stream"
	if chunked {
		use = "fit-xor-chunked"
		short = "Chunked greedy window search for a target against the cadence stream"
	}

	f := &fitFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			runFitXor(f, chunked)
		},
	}
	cmd.Flags().StringVar(&f.recipePath, "recipe", "", "Path to a K8R recipe blob (required)")
	cmd.Flags().StringVar(&f.targetPath, "target", "", "Target file to fit (required)")
	cmd.Flags().StringVar(&f.outTimemap, "out-timemap", "", "Output TM1 path (required)")
	cmd.Flags().StringVar(&f.outResidual, "out-residual", "", "Output BFn residual path (required)")
	cmd.Flags().StringVar(&f.mode, "mode", "pair", "Emission mode: pair or rgbpair")
	cmd.Flags().StringVar(&f.mapKind, "map", "identity", "Bit mapping kind: identity, splitmix64, text40-field, bitfield (bitfield is byte-aligned fit/reconstruct-incompatible; see bf-lanes)")
	cmd.Flags().IntVar(&f.bitsPerEmission, "bits-per-emission", 8, "Bits per emission for the bitfield mapping")
	cmd.Flags().StringVar(&f.bitMapping, "bit-mapping", "geom", "Bitfield sub-mode: geom, hash, lowpass-thresh")
	cmd.Flags().StringVar(&f.residualMode, "residual", "xor", "Residual combine mode: xor or sub")
	cmd.Flags().StringVar(&f.objective, "objective", "matches", "Fit objective: matches or zstd")
	cmd.Flags().IntVar(&f.chunkSize, "chunk-size", 4096, "Chunk size in target bytes")
	cmd.Flags().Uint64Var(&f.searchEmissions, "search-emissions", 1<<20, "Search window width in emissions")
	cmd.Flags().Uint64Var(&f.maxTicks, "max-ticks", 8_000_000, "Tick budget for the cadence engine")
	cmd.Flags().Uint64Var(&f.lookahead, "lookahead", 1<<16, "Lookahead window for chunks after the first")
	cmd.Flags().Uint64Var(&f.scanStep, "scan-step", 1, "Candidate start stride")
	cmd.Flags().IntVar(&f.refineTopK, "refine-topk", 1, "Reserved for future top-K refinement passes")
	cmd.Flags().Uint64Var(&f.transPenalty, "trans-penalty", 0, "Transition penalty numerator (ObjectiveMatchesPenalized)")
	cmd.Flags().IntVar(&f.zstdLevel, "zstd-level", 3, "zstd encoder level for the zstd objective")
	cmd.Flags().Uint64Var(&f.startEmission, "start-emission", 0, "Lower bound of the search window")
	cmd.MarkFlagRequired("recipe")
	cmd.MarkFlagRequired("target")
	cmd.MarkFlagRequired("out-timemap")
	cmd.MarkFlagRequired("out-residual")
	return cmd
}

func runFitXor(f *fitFlags, chunked bool) {
	rec, err := loadRecipe(f.recipePath)
	if err != nil {
		fail(f.recipePath, err)
	}
	rec.MaxTicksCap = f.maxTicks

	target, err := readFile(f.targetPath)
	if err != nil {
		fail(f.targetPath, err)
	}

	mapping, err := bitMappingParams(f.mapKind, f.bitMapping, f.bitsPerEmission, 0, "", 0, 0)
	if err != nil {
		fail("--map", err)
	}
	residualMode, err := parseResidualMode(f.residualMode)
	if err != nil {
		fail("--residual", err)
	}
	objective, err := parseObjective(f.objective)
	if err != nil {
		fail("--objective", err)
	}

	chunkSize := f.chunkSize
	if !chunked {
		chunkSize = len(target)
	}
	opts := timemap.FitOptions{
		ChunkSize:       chunkSize,
		Lookahead:       f.lookahead,
		StartEmission:   f.startEmission,
		SearchEmissions: f.searchEmissions,
		ScanStep:        f.scanStep,
		RefineTopK:      f.refineTopK,
		Objective:       objective,
		TransPenaltyNum: f.transPenalty,
		TransPenaltyDen: 1,
		ZstdLevel:       f.zstdLevel,
	}

	tm, residual, fitRes, err := k8dnz.FitXor(rec, target, mapping, opts, residualMode)
	if err != nil {
		fail(f.targetPath, err)
	}

	printFitScoreboard(f.targetPath, fitRes, len(residual), tm.MaxTicksUsed)
	writeFitResult(f.outTimemap, f.outResidual, tm, residual, residualMode)
}

// printFitScoreboard surfaces a fit run's outcome on stdout, including a
// non-fatal ObjectiveDegraded best-so-far fit (the fitter found no
// stream-exhaustion-free improvement for a later chunk and fell back to
// the best chunk set found so far rather than failing the run).
func printFitScoreboard(label string, fitRes timemap.FitResult, residualSize int, elapsedTicks uint64) {
	var objective int64
	for _, c := range fitRes.Chunks {
		objective += c.Score
	}
	scoreboard.Print(os.Stdout, []scoreboard.Row{{
		Label:        label,
		Objective:    objective,
		Chunks:       len(fitRes.Chunks),
		ResidualSize: residualSize,
		ElapsedTicks: elapsedTicks,
		Degraded:     fitRes.Degraded,
	}})
}

func writeFitResult(outTimemap, outResidual string, tm container.TM1, residual []byte, residualMode timemap.ResidualMode) {
	tmBytes, err := container.EncodeTM1(tm)
	if err != nil {
		fail(outTimemap, err)
	}
	if err := atomicfile.Write(outTimemap, tmBytes, 0o644); err != nil {
		fail(outTimemap, err)
	}

	bf, err := container.EncodeBFn(container.BFn{
		BitsPerEmission: 8,
		ResidualMode:    uint8(residualMode),
		TotalSymbols:    uint32(len(residual)),
		Packed:          residual,
	})
	if err != nil {
		fail(outResidual, err)
	}
	if err := atomicfile.Write(outResidual, bf, 0o644); err != nil {
		fail(outResidual, err)
	}
	logger.Info("fit complete", "timemap", outTimemap, "residual", outResidual, "indices", len(tm.Indices))
}

// --- gen-law ---

var (
	genLawRecipePath string
	genLawOutTimemap string
	genLawType       string
	genLawCount      int
	genLawWindow     uint64
	genLawMaxTicks   uint64
)

func newGenLawCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-law",
		Short: "Derive a contiguous timemap via a deterministic law, skipping the window search",
		Run:   runGenLaw,
	}
	cmd.Flags().StringVar(&genLawRecipePath, "recipe", "", "Path to a K8R recipe blob (required)")
	cmd.Flags().StringVar(&genLawOutTimemap, "out-timemap", "", "Output TM1 path (required)")
	cmd.Flags().StringVar(&genLawType, "law-type", "closed-form", "Law type: closed-form or jump-walk")
	cmd.Flags().IntVar(&genLawCount, "count", 1024, "Number of contiguous indices to emit")
	cmd.Flags().Uint64Var(&genLawWindow, "window", 1<<20, "Window W the law's start index is drawn from")
	cmd.Flags().Uint64Var(&genLawMaxTicks, "max-ticks", 8_000_000, "Tick budget recorded in the timemap")
	cmd.MarkFlagRequired("recipe")
	cmd.MarkFlagRequired("out-timemap")
	return cmd
}

func runGenLaw(cmd *cobra.Command, args []string) {
	rec, err := loadRecipe(genLawRecipePath)
	if err != nil {
		fail(genLawRecipePath, err)
	}
	rec.MaxTicksCap = genLawMaxTicks

	lawType, err := parseLawType(genLawType)
	if err != nil {
		fail("--law-type", err)
	}

	tm := k8dnz.GenLaw(rec, lawType, genLawCount, genLawWindow)
	tmBytes, err := container.EncodeTM1(tm)
	if err != nil {
		fail(genLawOutTimemap, err)
	}
	if err := atomicfile.Write(genLawOutTimemap, tmBytes, 0o644); err != nil {
		fail(genLawOutTimemap, err)
	}
	logger.Info("law-driven timemap generated", "out", genLawOutTimemap, "count", genLawCount)
}

// --- reconstruct ---

var (
	reconRecipePath   string
	reconTimemapPath  string
	reconResidualPath string
	reconOut          string
	reconMode         string
	reconMap          string
	reconBits         int
	reconBitMapping   string
	reconResidualMode string
	reconMaxTicks     uint64
	reconBitTau       int32
	reconSmoothShift  uint
	reconMapSeed      uint64
	reconMapSeedHex   string
)

func newReconstructCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconstruct",
		Short: "Replay a recipe at a timemap's indices and apply a residual to recover the original bytes",
		Run:   runReconstruct,
	}
	cmd.Flags().StringVar(&reconRecipePath, "recipe", "", "Path to a K8R recipe blob (required)")
	cmd.Flags().StringVar(&reconTimemapPath, "timemap", "", "Path to a TM1 timemap (required)")
	cmd.Flags().StringVar(&reconResidualPath, "residual", "", "Path to a BFn residual (required)")
	cmd.Flags().StringVar(&reconOut, "out", "", "Output path (required)")
	cmd.Flags().StringVar(&reconMode, "mode", "pair", "Emission mode: pair or rgbpair")
	cmd.Flags().StringVar(&reconMap, "map", "identity", "Bit mapping kind: identity, splitmix64, text40-field, bitfield (bitfield is byte-aligned fit/reconstruct-incompatible; see bf-lanes)")
	cmd.Flags().IntVar(&reconBits, "bits-per-emission", 8, "Bits per emission for the bitfield mapping")
	cmd.Flags().StringVar(&reconBitMapping, "bit-mapping", "geom", "Bitfield sub-mode: geom, hash, lowpass-thresh")
	cmd.Flags().StringVar(&reconResidualMode, "residual-mode", "xor", "Residual combine mode: xor or sub")
	cmd.Flags().Uint64Var(&reconMaxTicks, "max-ticks", 8_000_000, "Tick budget for the cadence engine")
	cmd.Flags().Int32Var(&reconBitTau, "bit-tau", 0, "Threshold for the lowpass-thresh bitfield sub-mode")
	cmd.Flags().UintVar(&reconSmoothShift, "bit-smooth-shift", 0, "Smoothing shift for the lowpass-thresh bitfield sub-mode")
	cmd.Flags().Uint64Var(&reconMapSeed, "map-seed", 0, "Seed for splitmix64/text40-field/bitfield-hash mappings")
	cmd.Flags().StringVar(&reconMapSeedHex, "map-seed-hex", "", "Hex-encoded seed, overrides --map-seed")
	cmd.MarkFlagRequired("recipe")
	cmd.MarkFlagRequired("timemap")
	cmd.MarkFlagRequired("residual")
	cmd.MarkFlagRequired("out")
	return cmd
}

func runReconstruct(cmd *cobra.Command, args []string) {
	rec, err := loadRecipe(reconRecipePath)
	if err != nil {
		fail(reconRecipePath, err)
	}
	rec.MaxTicksCap = reconMaxTicks

	tmBytes, err := readFile(reconTimemapPath)
	if err != nil {
		fail(reconTimemapPath, err)
	}
	tm, err := container.DecodeTM1(tmBytes)
	if err != nil {
		fail(reconTimemapPath, err)
	}

	bfBytes, err := readFile(reconResidualPath)
	if err != nil {
		fail(reconResidualPath, err)
	}
	bf, err := container.DecodeBFn(bfBytes)
	if err != nil {
		fail(reconResidualPath, err)
	}

	residualMode, err := parseResidualMode(reconResidualMode)
	if err != nil {
		fail("--residual-mode", err)
	}
	if uint8(residualMode) != bf.ResidualMode {
		fail("--residual-mode", fmt.Errorf("%w: residual mode %v does not match the recorded residual's %v", errs.ErrParamMismatch, residualMode, timemap.ResidualMode(bf.ResidualMode)))
	}

	// --map/--bits-per-emission/--bit-mapping are only parsed and
	// validated here; k8dnz.Reconstruct applies no bit mapping, so only a
	// fit made with the identity mapping (the default) reconstructs
	// exactly.
	if _, err := bitMappingParams(reconMap, reconBitMapping, reconBits, reconMapSeed, reconMapSeedHex, reconBitTau, reconSmoothShift); err != nil {
		fail("--map", err)
	}

	out, err := k8dnz.Reconstruct(rec, tm, bf.Packed, residualMode)
	if err != nil {
		fail(reconTimemapPath, err)
	}

	if err := atomicfile.Write(reconOut, out, 0o644); err != nil {
		fail(reconOut, err)
	}
	logger.Info("reconstructed", "out", reconOut, "bytes", len(out))
}

// --- bf-lanes ---

var (
	bfLanesIn        string
	bfLanesZstdLevel int
)

func newBFLanesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bf-lanes",
		Short: "Report a BFn residual's size and its zstd-compressed size at a given level",
		Run:   runBFLanes,
	}
	cmd.Flags().StringVar(&bfLanesIn, "in", "", "Input BFn path (required)")
	cmd.Flags().IntVar(&bfLanesZstdLevel, "zstd-level", 3, "zstd encoder level")
	cmd.MarkFlagRequired("in")
	return cmd
}

func runBFLanes(cmd *cobra.Command, args []string) {
	raw, err := readFile(bfLanesIn)
	if err != nil {
		fail(bfLanesIn, err)
	}
	bf, err := container.DecodeBFn(raw)
	if err != nil {
		fail(bfLanesIn, err)
	}

	compressed, err := zstdCompress(bf.Packed, bfLanesZstdLevel)
	if err != nil {
		fail(bfLanesIn, err)
	}

	fmt.Printf("bits_per_emission: %d\n", bf.BitsPerEmission)
	fmt.Printf("raw_bytes:         %d\n", len(bf.Packed))
	fmt.Printf("zstd_bytes:        %d\n", len(compressed))
}

func zstdCompress(data []byte, level int) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}
