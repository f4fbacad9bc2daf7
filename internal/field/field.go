// Package field implements the deterministic intensity sample used by the
// cadence engine to derive PairToken symbols, plus the quantizer that
// buckets a clamped intensity into a bin. Pure integer arithmetic only —
// no floating point anywhere in this package.
package field

import "github.com/Y3LLOWVESTS/K8DNZ/internal/fixedturn"

// splitMix64 constants, the standard SplitMix64 golden-ratio increment and
// MurmurHash3-style finalizer, used to mix the intensity sample from
// (seed, ticks).
const (
	goldenGamma = 0x9E3779B97F4A7C15
	mix1        = 0xBF58476D1CE4E5B9
	mix2        = 0x94D049BB133111EB
)

// SplitMix64 advances state by one step and returns the mixed output, the
// textbook SplitMix64 algorithm.
func SplitMix64(state uint64) (next, output uint64) {
	next = state + goldenGamma
	z := next
	z = (z ^ (z >> 30)) * mix1
	z = (z ^ (z >> 27)) * mix2
	z = z ^ (z >> 31)
	return next, z
}

// quarterSineTable holds a fixed-point sine approximation for indices in
// [0, tableSize], scaled so that a full table sweep covers one
// quarter revolution. Values fit in int32 with a 1<<14 scale factor.
const (
	tableBits  = 10 // 1024-entry quarter-wave table
	tableSize  = 1 << tableBits
	sinScale   = 1 << 14
	tableShift = 64 - 2 - tableBits // top 2 bits select quadrant
)

var quarterSineTable [tableSize + 1]int32

func init() {
	// Fixed-point quarter-wave sine via the classic Bhaskara I rational
	// approximation, computed once in pure integer arithmetic (no math.Sin
	// — floating point is forbidden in this package). Bhaskara's
	// approximation for sin(x) on [0, pi]:
	//   sin(x) ~= 16*x*(pi-x) / (5*pi^2 - 4*x*(pi-x))
	// We evaluate it at x in [0, pi/2] scaled to integer units of
	// pi/2 / tableSize, using a fixed-point pi constant scaled by 1<<20.
	const piScaled = 3294199 // pi * (1<<20), truncated
	const scaleBits = 20
	for i := 0; i <= tableSize; i++ {
		// x scaled by 1<<20, ranging over [0, pi/2]
		x := int64(i) * (piScaled / 2) / int64(tableSize)
		piMinusX := int64(piScaled) - x // using full pi keeps the
		// Bhaskara denominator well-conditioned across the quarter wave
		num := 16 * x * piMinusX
		den := 5*int64(piScaled)*int64(piScaled)>>scaleBits - 4*x*piMinusX>>scaleBits
		if den == 0 {
			den = 1
		}
		// num/den is sin(x) scaled by 1<<scaleBits; rescale to sinScale.
		v := num * sinScale / den >> scaleBits
		if v > sinScale {
			v = sinScale
		}
		if v < 0 {
			v = 0
		}
		quarterSineTable[i] = int32(v)
	}
}

// fixedSin returns an approximation of sin(t * 2*pi) scaled by sinScale,
// for a turn t, using quadrant symmetry over the quarter-wave table.
func fixedSin(t fixedturn.Turn) int32 {
	quadrant := uint64(t) >> 62
	within := (uint64(t) << 2) >> 2 // clear quadrant bits, keep fraction
	idx := within >> tableShift
	if idx > tableSize {
		idx = tableSize
	}
	switch quadrant {
	case 0:
		return quarterSineTable[idx]
	case 1:
		return quarterSineTable[tableSize-idx]
	case 2:
		return -quarterSineTable[idx]
	default:
		return -quarterSineTable[tableSize-idx]
	}
}

// Sample computes the deterministic intensity function
// I(phi_l, phi_pair, axial, ticks, seed) -> i32:
// a SplitMix64 mix of (seed, ticks) combined with a tabulated fixed-point
// sine of the phase, modulated by the axial coordinate.
func Sample(lane fixedturn.Turn, axial fixedturn.Turn, ticks uint64, seed uint64) int32 {
	_, mixed := SplitMix64(seed ^ ticks)

	sinComponent := int64(fixedSin(lane))
	axialComponent := int64(fixedSin(axial)) / 2

	noise := int64(int32(mixed)) >> 8 // low 32 bits of the mix, scaled down

	return int32(sinComponent + axialComponent + noise)
}
