// Package recipe defines the immutable Recipe configuration that fully
// determines generation, plus its checksum and degeneracy validation.
package recipe

import (
	"errors"
	"hash/crc32"

	"github.com/google/uuid"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/fixedturn"
)

// Mode selects the emitted token stream shape.
type Mode uint8

const (
	ModePair Mode = iota
	ModeRGBPair
)

func (m Mode) String() string {
	if m == ModeRGBPair {
		return "rgbpair"
	}
	return "pair"
}

// OrbitState is one of the two orbiting phases (A or C).
type OrbitState struct {
	Phase fixedturn.Turn
	Omega fixedturn.Turn // per-tick delta, sign carried in the top bit
}

// Clamp bounds the raw intensity sample before quantization.
type Clamp struct {
	Lo int32
	Hi int32
}

// Quant controls bucketing of the clamped intensity into symbols.
type Quant struct {
	Bins  uint32
	Shift uint64
}

// Recipe fully determines generation. Immutable once constructed via New.
type Recipe struct {
	Version       uint8
	RecipeID      uuid.UUID
	OrbitA        OrbitState
	OrbitC        OrbitState
	Epsilon       fixedturn.Turn
	Delta         fixedturn.Turn
	AxialStep     fixedturn.Turn
	LockstepOmega fixedturn.Turn
	FieldSeed     uint64
	Clamp         Clamp
	Quant         Quant
	Mode          Mode
	MaxTicksCap   uint64
	checksum      uint32
}

var (
	ErrOpposedSpeeds   = errors.New("orbit_A.omega + orbit_C.omega must not be zero")
	ErrEpsilonTooLarge = errors.New("epsilon must be < 1/2 of a revolution")
	ErrBinsDontDivide  = errors.New("quant.bins must evenly divide the clamp range")
)

// DefaultDelta is the documented default pairing delta (0.5 turns).
var DefaultDelta = fixedturn.FromFraction(1, 2)

// halfRevolution is used for the epsilon < 1/2 invariant check.
var halfRevolution = fixedturn.FromFraction(1, 2)

// New constructs and structurally validates a Recipe, assigning a fresh
// RecipeID if one was not supplied and sealing its checksum. It does not
// run the degeneracy probe — that requires replaying the cadence engine,
// which lives in a package that depends on recipe, so callers that need
// the full construction contract should go through pkg/k8dnz.NewRecipe,
// which calls New and then runs cadence.ProbeDegeneracy before accepting
// the recipe.
func New(r Recipe) (*Recipe, error) {
	if r.Delta == 0 {
		r.Delta = DefaultDelta
	}
	if r.RecipeID == uuid.Nil {
		r.RecipeID = uuid.New()
	}
	if err := validate(r); err != nil {
		return nil, err
	}
	r.checksum = checksum(r)
	return &r, nil
}

// NewDeterministic is like New but takes an explicit RecipeID instead of
// generating a random one, for callers that need a reproducible RecipeID.
func NewDeterministic(r Recipe, id uuid.UUID) (*Recipe, error) {
	r.RecipeID = id
	return New(r)
}

func validate(r Recipe) error {
	if r.OrbitA.Omega+r.OrbitC.Omega == 0 {
		return ErrOpposedSpeeds
	}
	if fixedturn.CircularDistance(r.Epsilon, 0) >= uint64(halfRevolution) {
		return ErrEpsilonTooLarge
	}
	rng := int64(r.Clamp.Hi) - int64(r.Clamp.Lo) + 1
	if rng <= 0 || r.Quant.Bins == 0 || rng%int64(r.Quant.Bins) != 0 {
		return ErrBinsDontDivide
	}
	return nil
}

// Checksum returns the recipe's checksum, computed over all preceding
// fields.
func (r *Recipe) Checksum() uint32 {
	return r.checksum
}

// checksum computes the CRC32 (IEEE, poly 0xEDB88320 — the stdlib default
// polynomial) over a canonical little-endian encoding of every field that
// precedes the checksum in the Recipe's declared order.
func checksum(r Recipe) uint32 {
	buf := encodeChecksumFields(r)
	return crc32.ChecksumIEEE(buf)
}

func encodeChecksumFields(r Recipe) []byte {
	buf := make([]byte, 0, 128)
	putU8 := func(v uint8) { buf = append(buf, v) }
	putU64 := func(v uint64) {
		buf = append(buf,
			byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
			byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
	}
	putI32 := func(v int32) { putU64(uint64(uint32(v))) }
	putU32 := func(v uint32) { putU64(uint64(v)) }

	putU8(r.Version)
	buf = append(buf, r.RecipeID[:]...)
	putU64(uint64(r.OrbitA.Phase))
	putU64(uint64(r.OrbitA.Omega))
	putU64(uint64(r.OrbitC.Phase))
	putU64(uint64(r.OrbitC.Omega))
	putU64(uint64(r.Epsilon))
	putU64(uint64(r.Delta))
	putU64(uint64(r.AxialStep))
	putU64(uint64(r.LockstepOmega))
	putU64(r.FieldSeed)
	putI32(r.Clamp.Lo)
	putI32(r.Clamp.Hi)
	putU32(r.Quant.Bins)
	putU64(r.Quant.Shift)
	putU8(uint8(r.Mode))
	putU64(r.MaxTicksCap)
	return buf
}
