// Package orbband implements OrbBandsplit, a diagnostic block→lane
// bucketing primitive: for each fixed-size block of an input stream, find
// the first cadence tick whose phase matches an encoding of the block
// modulo a configurable modulus, then bucket that tick into a lane.
package orbband

import (
	"encoding/binary"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/cadence"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/field"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/recipe"
)

// ModPreserveEntropy and ModDegenerate document the key invariant in
// choosing the matching modulus: 2^32-1 keeps lane assignment well
// distributed; 2^32 can collapse onto a single lane for many inputs
// because the engine's phase space has a power-of-two structure that a
// power-of-two modulus interacts with degenerately. Default to
// ModPreserveEntropy.
const (
	ModPreserveEntropy uint64 = 1<<32 - 1
	ModDegenerate      uint64 = 1 << 32
)

// Params configures one OrbBandsplit run.
type Params struct {
	BlockBits   int
	Mod         uint64
	BucketShift uint
	BucketMod   uint64
	MaxTicks    uint64
}

// Tag is one block's lane assignment plus the tick at which it was found,
// kept for diagnostics even though only Lane is serialized into TG1.
type Tag struct {
	Tick uint64
	Lane uint32
}

var ErrNotFound = cadence.ErrStreamExhausted

// encodeBlock hashes a block to a uint64 via the same SplitMix64 mixer
// used elsewhere in this codebase, so blocks of any length compare
// against a single u64 phase value.
func encodeBlock(block []byte) uint64 {
	state := uint64(0x9E3779B97F4A7C15)
	for i := 0; i < len(block); i += 8 {
		var chunk uint64
		end := i + 8
		if end > len(block) {
			end = len(block)
		}
		var buf [8]byte
		copy(buf[:], block[i:end])
		chunk = binary.LittleEndian.Uint64(buf[:])
		state, _ = field.SplitMix64(state ^ chunk)
	}
	_, mixed := field.SplitMix64(state)
	return mixed
}

// tfirst finds the first tick t <= params.MaxTicks at which the engine's
// A-phase, taken modulo params.Mod, equals encodeBlock(block) modulo the
// same modulus.
func tfirst(eng *cadence.Engine, block []byte, params Params) (uint64, bool) {
	target := encodeBlock(block) % params.Mod
	for eng.State().Ticks < params.MaxTicks {
		eng.Step()
		s := eng.State()
		if uint64(s.A.Phase)%params.Mod == target {
			return s.Ticks, true
		}
	}
	return 0, false
}

// Split runs OrbBandsplit over data, splitting it into BlockBits-sized
// blocks (rounded up on the final block) and returning the blocks in
// input order alongside their lane tags.
func Split(rec *recipe.Recipe, data []byte, params Params) (blocks [][]byte, tags []Tag, err error) {
	if params.Mod == 0 {
		params.Mod = ModPreserveEntropy
	}
	if params.BucketMod == 0 {
		params.BucketMod = 1 << 8
	}
	blockBytes := params.BlockBits / 8
	if blockBytes <= 0 {
		blockBytes = 1
	}

	eng := cadence.NewEngine(rec, nil)

	for off := 0; off < len(data); off += blockBytes {
		end := off + blockBytes
		if end > len(data) {
			end = len(data)
		}
		block := data[off:end]
		blocks = append(blocks, block)

		t, found := tfirst(eng, block, params)
		if !found {
			return blocks, tags, ErrNotFound
		}
		lane := uint32((t >> params.BucketShift) % params.BucketMod)
		tags = append(tags, Tag{Tick: t, Lane: lane})
	}

	return blocks, tags, nil
}
