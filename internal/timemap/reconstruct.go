package timemap

import (
	"errors"
	"fmt"
)

// ErrReconstructShort is returned when reconstruct's max_ticks budget
// produced fewer mapped symbols than the timemap's indices require. The
// reconstructor never adjusts the tick budget automatically.
var ErrReconstructShort = errors.New("timemap: reconstruct max_ticks too small for recorded timemap")

// ReconstructByte reconstructs N output bytes given the mapped generator
// stream, a list of indices into it (TM1), and a byte-aligned residual.
func ReconstructByte(mapped []byte, indices []uint64, residual []byte, mode ResidualMode) ([]byte, error) {
	if len(indices) != len(residual) {
		return nil, fmt.Errorf("timemap: timemap/residual length mismatch: %d != %d", len(indices), len(residual))
	}
	out := make([]byte, len(indices))
	for i, idx := range indices {
		if idx >= uint64(len(mapped)) {
			return nil, ErrReconstructShort
		}
		xhat := mapped[idx]
		switch mode {
		case ResidualSub:
			out[i] = byte((int(residual[i]) + int(xhat)) & 0xFF)
		default:
			out[i] = xhat ^ residual[i]
		}
	}
	return out, nil
}

// ReconstructBit reconstructs a bit sequence given the mapped generator
// bitstream, a list of indices into it, and a bit-aligned residual. The
// result is returned unpacked, one bool per bit.
func ReconstructBit(mappedBits []bool, indices []uint64, residualBits []bool) ([]bool, error) {
	if len(indices) != len(residualBits) {
		return nil, fmt.Errorf("timemap: timemap/residual bit length mismatch: %d != %d", len(indices), len(residualBits))
	}
	out := make([]bool, len(indices))
	for i, idx := range indices {
		if idx >= uint64(len(mappedBits)) {
			return nil, ErrReconstructShort
		}
		out[i] = mappedBits[idx] != residualBits[i]
	}
	return out, nil
}
