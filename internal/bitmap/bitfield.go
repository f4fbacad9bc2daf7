package bitmap

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// bitfieldMapping reinterprets the generator stream as bits at
// BitsPerEmission per emission, via one of three deterministic sub-modes.
type bitfieldMapping struct {
	bitsPerEmission int
	subMode         BitfieldSubMode
	hashSeed        uint64
	tau             int32
	smoothShift     uint
}

func newBitfieldMapping(p Params) (bitfieldMapping, error) {
	if p.BitsPerEmission != 1 && p.BitsPerEmission != 2 && p.BitsPerEmission != 8 {
		return bitfieldMapping{}, fmt.Errorf("bitmap: bits_per_emission must be 1, 2, or 8, got %d", p.BitsPerEmission)
	}
	return bitfieldMapping{
		bitsPerEmission: p.BitsPerEmission,
		subMode:         p.SubMode,
		hashSeed:        p.HashSeed,
		tau:             p.Tau,
		smoothShift:     p.SmoothShift,
	}, nil
}

func (bitfieldMapping) Kind() Kind                 { return KindBitfield }
func (bitfieldMapping) MapBytes(raw []byte) []byte { return nil }

// MapBits produces BitsPerEmission bits for each entry of raw (geom,
// hash) or one bit per entry of intensities (lowpass-thresh, which is
// defined directly on the raw intensity samples rather than their
// quantized byte encoding.
func (m bitfieldMapping) MapBits(raw []byte, intensities []int32) []bool {
	switch m.subMode {
	case BitfieldGeom:
		return m.mapGeom(raw)
	case BitfieldHash:
		return m.mapHash(raw)
	case BitfieldLowpassThresh:
		return m.mapLowpass(intensities)
	default:
		return nil
	}
}

// mapGeom: bit i = (byte >> (i mod 8)) & 1, for i in [0, bitsPerEmission).
func (m bitfieldMapping) mapGeom(raw []byte) []bool {
	out := make([]bool, 0, len(raw)*m.bitsPerEmission)
	for _, b := range raw {
		for i := 0; i < m.bitsPerEmission; i++ {
			shift := uint(i % 8)
			out = append(out, (b>>shift)&1 == 1)
		}
	}
	return out
}

// mapHash: bit i = parity of splitmix64(seed, pos, i). xxhash is mixed in
// alongside the mandated splitmix64 step as a second, independent
// deterministic source so the two bit channels don't simply reproduce
// each other's zero-crossings (see DESIGN.md: internal/bitmap entry).
func (m bitfieldMapping) mapHash(raw []byte) []bool {
	out := make([]bool, 0, len(raw)*m.bitsPerEmission)
	for pos, b := range raw {
		for i := 0; i < m.bitsPerEmission; i++ {
			mixed := splitMix64Step(m.hashSeed ^ (uint64(pos) * posMixConstant) ^ uint64(i))

			var buf [9]byte
			buf[0] = b
			buf[1] = byte(pos)
			buf[2] = byte(pos >> 8)
			buf[3] = byte(i)
			buf[4] = byte(m.hashSeed)
			buf[5] = byte(m.hashSeed >> 8)
			buf[6] = byte(m.hashSeed >> 16)
			buf[7] = byte(m.hashSeed >> 24)
			buf[8] = byte(mixed)
			xh := xxhash.Sum64(buf[:])

			parity := (popcount64(mixed) + popcount64(xh)) & 1
			out = append(out, parity == 1)
		}
	}
	return out
}

func popcount64(v uint64) uint64 {
	var c uint64
	for v != 0 {
		c += v & 1
		v >>= 1
	}
	return c
}

// mapLowpass computes the moving average LP(t) = LP(t-1) +
// ((I(t)-LP(t-1)) >> smooth_shift) and emits bit 1 iff LP(t) >= tau.
// This mapping is deterministic-from-recipe and not
// conditioned on the target — it only ever consumes the generator's own
// intensity samples.
func (m bitfieldMapping) mapLowpass(intensities []int32) []bool {
	out := make([]bool, 0, len(intensities))
	var lp int64
	for _, sample := range intensities {
		lp = lp + ((int64(sample) - lp) >> m.smoothShift)
		out = append(out, lp >= int64(m.tau))
	}
	return out
}

// PackBits packs a []bool LSB-first within each byte, matching the BFn
// payload's packed-bits convention.
func PackBits(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

// UnpackBits reverses PackBits, given the exact bit count (the final byte
// may have unused high bits).
func UnpackBits(data []byte, count int) []bool {
	out := make([]bool, count)
	for i := 0; i < count; i++ {
		out[i] = (data[i/8]>>uint(i%8))&1 == 1
	}
	return out
}
