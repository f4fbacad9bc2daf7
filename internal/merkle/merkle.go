// Package merkle implements the recursive composition driver: it packs
// two child blobs into a single K8P2 payload and runs that payload
// through the same fit/reconstruct pipeline as any other target, so a
// pack becomes, itself, a reconstructible target.
package merkle

import (
	"errors"
	"fmt"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/cadence"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/container"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/recipe"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/timemap"
)

var ErrUnpackMismatch = errors.New("merkle: reconstructed pack did not unpack to the original children")

// Pack combines two child blobs into a single self-delimiting payload.
func Pack(a, b []byte) []byte {
	return container.EncodeK8P2(a, b)
}

// Unpack splits a payload back into its two children.
func Unpack(packed []byte) (a, b []byte, err error) {
	p, _, err := container.DecodeK8P2(packed)
	if err != nil {
		return nil, nil, err
	}
	return p.Left, p.Right, nil
}

// FitPack fits a packed K8P2 payload against rec's generator stream,
// producing the TM1/residual pair that reconstructs it exactly.
func FitPack(rec *recipe.Recipe, packed []byte, opts timemap.FitOptions) (container.TM1, []byte, error) {
	searchLen := opts.StartEmission + opts.SearchEmissions
	if searchLen == 0 {
		searchLen = uint64(len(packed)) * 2
	}

	eng := cadence.NewEngine(rec, nil)
	generator, err := eng.ByteStream(int(searchLen) + len(packed))
	if err != nil && len(generator) < len(packed) {
		return container.TM1{}, nil, err
	}

	res, err := timemap.FitXorChunked(packed, generator, opts)
	if err != nil {
		return container.TM1{}, nil, err
	}

	indices := make([]uint64, 0, len(packed))
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = len(packed)
	}
	for ci, chunk := range res.Chunks {
		end := (ci + 1) * chunkSize
		if end > len(packed) {
			end = len(packed)
		}
		n := end - ci*chunkSize
		for i := 0; i < n; i++ {
			indices = append(indices, chunk.Start+uint64(i))
		}
	}

	matched := make([]byte, len(indices))
	for i, idx := range indices {
		if idx >= uint64(len(generator)) {
			return container.TM1{}, nil, fmt.Errorf("merkle: matched index %d beyond generator stream", idx)
		}
		matched[i] = generator[idx]
	}
	residual, err := timemap.ComputeByte(packed, matched, timemap.ResidualXOR)
	if err != nil {
		return container.TM1{}, nil, err
	}

	tm := container.TM1{
		Mode:            uint8(rec.Mode),
		BitsPerEmission: 8,
		MaxTicksUsed:    rec.MaxTicksCap,
		Indices:         indices,
	}
	return tm, residual, nil
}

// ReconstructPack regenerates the packed payload from (rec, tm, residual)
// and unpacks it, verifying the round trip end to end.
func ReconstructPack(rec *recipe.Recipe, tm container.TM1, residual []byte) (a, b, packed []byte, err error) {
	if tm.MaxTicksUsed > rec.MaxTicksCap {
		return nil, nil, nil, timemap.ErrReconstructShort
	}

	need := uint64(0)
	for _, idx := range tm.Indices {
		if idx+1 > need {
			need = idx + 1
		}
	}
	eng := cadence.NewEngine(rec, nil)
	generator, genErr := eng.ByteStream(int(need))
	if genErr != nil && uint64(len(generator)) < need {
		return nil, nil, nil, genErr
	}

	packed, err = timemap.ReconstructByte(generator, tm.Indices, residual, timemap.ResidualXOR)
	if err != nil {
		return nil, nil, nil, err
	}

	a, b, err = Unpack(packed)
	if err != nil {
		return nil, nil, packed, fmt.Errorf("%w: %v", ErrUnpackMismatch, err)
	}
	return a, b, packed, nil
}
