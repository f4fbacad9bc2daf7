package timemap

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Objective selects the fitter's scoring function.
type Objective uint8

const (
	ObjectiveMatches Objective = iota
	ObjectiveZstd
	ObjectiveMatchesPenalized
)

// ErrStreamExhausted/ErrNoImprovement are the fitter's recoverable
// failure modes.
var (
	ErrStreamExhausted = errors.New("timemap: search_emissions + N exceeds max_ticks-producible range")
	ErrNoImprovement   = errors.New("timemap: no improvement found over best-so-far")
)

// FitOptions configures a window search.
type FitOptions struct {
	ChunkSize       int
	Lookahead       uint64
	StartEmission   uint64
	SearchEmissions uint64
	ScanStep        uint64
	RefineTopK      int
	Objective       Objective
	// TransPenaltyNum/Den express trans_penalty as an exact rational
	// (the core forbids floating point), used only by
	// ObjectiveMatchesPenalized.
	TransPenaltyNum uint64
	TransPenaltyDen uint64
	ZstdLevel       int
}

// ChunkFit is one chunk's winning start offset and score.
type ChunkFit struct {
	Start uint64
	Score int64
}

// FitResult is the outcome of a (possibly chunked) window search.
type FitResult struct {
	Chunks   []ChunkFit
	Degraded bool // ObjectiveDegraded: best-so-far was returned, not optimal
}

func zstdEncoder(level int) (*zstd.Encoder, error) {
	lvl := zstd.EncoderLevelFromZstd(level)
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(lvl))
	if err != nil {
		return nil, fmt.Errorf("timemap: zstd encoder: %w", err)
	}
	return enc, nil
}

// score evaluates a single candidate window against target, per opts.Objective.
func score(target, candidate []byte, opts FitOptions) (int64, error) {
	n := len(target)
	if len(candidate) < n {
		return 0, ErrStreamExhausted
	}
	candidate = candidate[:n]

	switch opts.Objective {
	case ObjectiveZstd:
		residual := make([]byte, n)
		for i := 0; i < n; i++ {
			residual[i] = target[i] ^ candidate[i]
		}
		level := opts.ZstdLevel
		if level == 0 {
			level = 3
		}
		enc, err := zstdEncoder(level)
		if err != nil {
			return 0, err
		}
		compressed := enc.EncodeAll(residual, nil)
		_ = enc.Close()
		return -int64(len(compressed)), nil

	case ObjectiveMatchesPenalized:
		matches, transitions := matchesAndTransitions(target, candidate)
		den := opts.TransPenaltyDen
		if den == 0 {
			den = 1
		}
		return int64(matches)*int64(den) - int64(opts.TransPenaltyNum)*int64(transitions), nil

	default: // ObjectiveMatches
		matches, _ := matchesAndTransitions(target, candidate)
		return int64(matches), nil
	}
}

func matchesAndTransitions(target, candidate []byte) (matches, transitions int) {
	prevEqual := false
	for i := range target {
		eq := target[i] == candidate[i]
		if eq {
			matches++
		}
		if i > 0 && eq != prevEqual {
			transitions++
		}
		prevEqual = eq
	}
	return matches, transitions
}

// FitXor performs an unchunked window search: scan candidate starts s
// from opts.StartEmission in steps of opts.ScanStep and pick the
// best-scoring window of len(target) bytes from generator. Only windows
// lying entirely inside [opts.StartEmission,
// opts.StartEmission+opts.SearchEmissions) and inside generator are
// scored, so starts in the last len(target)-1 positions of that range are
// not searched. Ties break toward the smaller s.
func FitXor(target, generator []byte, opts FitOptions) (FitResult, error) {
	step := opts.ScanStep
	if step == 0 {
		step = 1
	}
	if uint64(len(generator)) < opts.StartEmission+uint64(len(target)) {
		return FitResult{}, ErrStreamExhausted
	}

	bestStart := uint64(0)
	bestScore := int64(-1 << 62)
	found := false

	limit := opts.StartEmission + opts.SearchEmissions
	if limit > uint64(len(generator)) {
		limit = uint64(len(generator))
	}

	for s := opts.StartEmission; s+uint64(len(target)) <= limit; s += step {
		sc, err := score(target, generator[s:], opts)
		if err != nil {
			continue
		}
		if !found || sc > bestScore || (sc == bestScore && s < bestStart) {
			bestScore = sc
			bestStart = s
			found = true
		}
	}

	if !found {
		return FitResult{}, ErrStreamExhausted
	}
	return FitResult{Chunks: []ChunkFit{{Start: bestStart, Score: bestScore}}}, nil
}

// FitXorChunked performs the greedy chunked window search: chunk 0 is
// searched over the full candidate range; chunk k>0 is restricted to
// windows inside [end_{k-1}, end_{k-1}+lookahead), where end_{k-1} is
// best_{k-1} plus the previous chunk's length, so chunk windows never
// overlap and the per-byte indices stay strictly increasing.
func FitXorChunked(target, generator []byte, opts FitOptions) (FitResult, error) {
	if len(target) == 0 {
		return FitResult{Chunks: nil}, nil
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = len(target)
	}

	var chunks []ChunkFit
	degraded := false
	nextStart := opts.StartEmission

	for off := 0; off < len(target); off += chunkSize {
		end := off + chunkSize
		if end > len(target) {
			end = len(target)
		}
		chunkTarget := target[off:end]

		chunkOpts := opts
		if off == 0 {
			chunkOpts.StartEmission = opts.StartEmission
			chunkOpts.SearchEmissions = opts.SearchEmissions
		} else {
			chunkOpts.StartEmission = nextStart
			chunkOpts.SearchEmissions = opts.Lookahead
		}

		res, err := FitXor(chunkTarget, generator, chunkOpts)
		if err != nil {
			if errors.Is(err, ErrStreamExhausted) && len(chunks) > 0 {
				degraded = true
				break
			}
			return FitResult{}, err
		}
		chunks = append(chunks, res.Chunks[0])
		nextStart = res.Chunks[0].Start + uint64(len(chunkTarget))
	}

	if len(chunks) == 0 {
		return FitResult{}, ErrStreamExhausted
	}
	return FitResult{Chunks: chunks, Degraded: degraded}, nil
}
