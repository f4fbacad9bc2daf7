// Package cadence implements the deterministic phase-coupled cadence
// engine: fixed-point phase evolution, lockstep detection, emission-time
// field sampling, and token quantization.
package cadence

import (
	"github.com/hashicorp/go-hclog"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/field"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/fixedturn"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/recipe"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/token"
)

// EngineState is the engine's mutable state, advanced monotonically by
// Step.
type EngineState struct {
	Ticks         uint64
	A             recipe.OrbitState
	C             recipe.OrbitState
	InLockstep    bool
	LockPhase     fixedturn.Turn
	Axial         fixedturn.Turn
	EmissionIndex uint64
}

// Emission is one paired-token output event.
type Emission struct {
	Tick  uint64
	Index uint64
	Pair  token.PairToken
	RGB   token.RGBPair
}

// Bytes returns the emission's wire bytes for the given mode.
func (e Emission) Bytes(mode recipe.Mode) []byte {
	if mode == recipe.ModeRGBPair {
		b := e.RGB.Bytes()
		return b[:]
	}
	return []byte{e.Pair.PackByte()}
}

// Engine is a pure function of (Recipe, tick): constructing it from a
// Recipe and replaying Step deterministically from tick 0 always produces
// the same sequence of emissions, with no shared mutable state.
type Engine struct {
	recipe    *recipe.Recipe
	state     EngineState
	quantizer field.Quantizer
	logger    hclog.Logger
}

// lockstepTarget is the Turn value the A+mirror(C) sum is compared
// against to detect lockstep entry: check near(A.phase + C.phase_mirror,
// target, eps). This implementation fixes target=0, which makes the
// check equivalent to near(A.phase, C.phase, eps) — lockstep being the
// transient state when A and C phases align within epsilon. See
// DESIGN.md Open Question decisions.
const lockstepTarget fixedturn.Turn = 0

// NewEngine constructs an Engine at tick 0 from rec. It does not run the
// degeneracy probe; callers that need the full construction contract
// should call ProbeDegeneracy before trusting a fresh engine's output, or
// go through pkg/k8dnz's recipe constructors which do this automatically.
func NewEngine(rec *recipe.Recipe, logger hclog.Logger) *Engine {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Engine{
		recipe: rec,
		state: EngineState{
			A: rec.OrbitA,
			C: rec.OrbitC,
		},
		quantizer: field.Quantizer{
			Lo:    rec.Clamp.Lo,
			Hi:    rec.Clamp.Hi,
			Bins:  rec.Quant.Bins,
			Shift: rec.Quant.Shift,
		},
		logger: logger,
	}
}

// State returns a copy of the engine's current state.
func (e *Engine) State() EngineState {
	return e.state
}

// Step advances the engine by exactly one tick:
//  1. Advance phases (modular addition).
//  2. If not in lockstep, check the lockstep-entry condition; on success
//     enter lockstep without emitting.
//  3. If in lockstep, advance the axial coordinate and lock_phase; when
//     the rim is reached (axial wraps past one full revolution), sample,
//     quantize, emit, and exit lockstep.
//
// Tie-break: lockstep-entry is only evaluated when the engine is not
// already in lockstep, so a tick can never simultaneously trigger both
// entry and a rim emission — the rim wins in that case, which this
// mutual exclusion trivially satisfies.
func (e *Engine) Step() *Emission {
	s := &e.state
	s.Ticks++

	s.A.Phase = fixedturn.Add(s.A.Phase, s.A.Omega)
	s.C.Phase = fixedturn.Add(s.C.Phase, s.C.Omega)

	if !s.InLockstep {
		mirror := fixedturn.Mirror(s.C.Phase)
		sum := fixedturn.Add(s.A.Phase, mirror)
		if fixedturn.Near(sum, lockstepTarget, e.recipe.Epsilon) {
			s.InLockstep = true
			s.LockPhase = s.A.Phase
			s.Axial = 0
			e.logger.Trace("lockstep entered", "tick", s.Ticks, "lock_phase", s.LockPhase)
		}
		return nil
	}

	before := s.Axial
	after := fixedturn.Add(s.Axial, e.recipe.AxialStep)
	s.Axial = after
	s.LockPhase = fixedturn.Add(s.LockPhase, e.recipe.LockstepOmega)

	reachedRim := after < before || (e.recipe.AxialStep == 0)
	if !reachedRim {
		return nil
	}

	emission := e.emit()
	s.InLockstep = false
	return emission
}

// emit samples the field at (lock_phase, lock_phase+delta, axial, ticks),
// quantizes into a PairToken or RGBPair depending on recipe.Mode,
// increments emission_index, and returns the Emission.
func (e *Engine) emit() *Emission {
	s := &e.state

	lane0 := s.LockPhase
	lane1 := fixedturn.Add(s.LockPhase, e.recipe.Delta)

	em := &Emission{Tick: s.Ticks, Index: s.EmissionIndex}

	switch e.recipe.Mode {
	case recipe.ModeRGBPair:
		em.RGB = token.RGBPair{
			A: token.RGBTriple{
				R: e.sampleByte(lane0, 0),
				G: e.sampleByte(lane0, 1),
				B: e.sampleByte(lane0, 2),
			},
			C: token.RGBTriple{
				R: e.sampleByte(lane1, 3),
				G: e.sampleByte(lane1, 4),
				B: e.sampleByte(lane1, 5),
			},
		}
	default:
		a := field.Sample(lane0, s.Axial, s.Ticks, e.recipe.FieldSeed)
		b := field.Sample(lane1, s.Axial, s.Ticks, e.recipe.FieldSeed)
		em.Pair = token.PairToken{
			A: uint8(e.quantizer.Quantize(a) % 16),
			B: uint8(e.quantizer.Quantize(b) % 16),
		}
	}

	s.EmissionIndex++
	e.logger.Trace("emission", "index", em.Index, "tick", em.Tick)
	return em
}

// sampleByte produces one RGBPair channel byte, folding channel into the
// ticks component of the field mix so each of the six channels is an
// independent deterministic sample of the same lane.
func (e *Engine) sampleByte(lane fixedturn.Turn, channel uint64) uint8 {
	v := field.Sample(lane, e.state.Axial, e.state.Ticks*8+channel, e.recipe.FieldSeed)
	q := field.Quantizer{Lo: e.recipe.Clamp.Lo, Hi: e.recipe.Clamp.Hi, Bins: 256, Shift: e.recipe.Quant.Shift}
	return uint8(q.Quantize(v))
}

// AdvanceTo steps the engine forward until state.Ticks == tickTarget,
// discarding any emissions produced along the way. It is a no-op if the
// engine has already advanced past tickTarget.
func (e *Engine) AdvanceTo(tickTarget uint64) {
	for e.state.Ticks < tickTarget {
		e.Step()
	}
}

// EmitStream runs the engine forward, collecting up to cap emissions (or
// until recipe.MaxTicksCap ticks have elapsed, whichever comes first).
// Returns ErrStreamExhausted if fewer than cap emissions were produced
// before the tick cap.
func (e *Engine) EmitStream(cap int) ([]Emission, error) {
	out := make([]Emission, 0, cap)
	for len(out) < cap {
		if e.state.Ticks >= e.recipe.MaxTicksCap {
			return out, ErrStreamExhausted
		}
		if em := e.Step(); em != nil {
			out = append(out, *em)
		}
	}
	return out, nil
}

// ByteStream runs the engine forward from its current state, emitting
// wire bytes (per recipe.Mode) until at least minLen bytes have
// accumulated or recipe.MaxTicksCap ticks have elapsed. It is the shared
// building block behind fitting, Merkle packing, and OrbBandsplit: every
// caller that needs "the generator's byte stream" gets it from here
// rather than re-deriving it from Step.
func (e *Engine) ByteStream(minLen int) ([]byte, error) {
	out := make([]byte, 0, minLen)
	for len(out) < minLen {
		if e.state.Ticks >= e.recipe.MaxTicksCap {
			return out, ErrStreamExhausted
		}
		if em := e.Step(); em != nil {
			out = append(out, em.Bytes(e.recipe.Mode)...)
		}
	}
	return out, nil
}

// Rewind reconstructs a fresh Engine from the same Recipe and replays it
// to tick. Because the engine is a pure function of (Recipe, tick), this
// reproduces state bit-for-bit. emissionIndex is checked against the
// replayed state's EmissionIndex as an integrity assertion, returning
// false if they disagree (e.g. caller passed a stale index).
func (e *Engine) Rewind(tick, emissionIndex uint64) (*Engine, bool) {
	fresh := NewEngine(e.recipe, e.logger)
	fresh.AdvanceTo(tick)
	return fresh, fresh.state.EmissionIndex == emissionIndex
}

// ProbeDegeneracy replays a fresh engine built from rec for
// max(1024, rec.MaxTicksCap/1000) ticks and reports whether the probe
// window's ticks produce zero emissions or all identical tokens.
func ProbeDegeneracy(rec *recipe.Recipe, logger hclog.Logger) bool {
	probeTicks := rec.MaxTicksCap / 1000
	if probeTicks < 1024 {
		probeTicks = 1024
	}

	eng := NewEngine(rec, logger)
	var first []byte
	sawAny := false
	allIdentical := true

	for eng.state.Ticks < probeTicks {
		em := eng.Step()
		if em == nil {
			continue
		}
		b := em.Bytes(rec.Mode)
		if !sawAny {
			first = b
			sawAny = true
			continue
		}
		if !bytesEqual(first, b) {
			allIdentical = false
		}
	}

	return !sawAny || allIdentical
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
