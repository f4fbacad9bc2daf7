// Package k8dnz is the pure top-level API: Encode, Decode, FitXor,
// GenLaw, Reconstruct, PackMerkle. Every operation takes explicit
// io.Reader/io.Writer or []byte parameters and performs no hidden I/O,
// following the teacher's thin public-API-forwarding style (pkg/api.go
// forwarded into the format package; this forwards into internal/*).
package k8dnz

import (
	"errors"
	"io"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/bitmap"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/cadence"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/container"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/merkle"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/recipe"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/timemap"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/xorobf"
)

// ErrBitAlignedMapping is returned by Encode/FitXor when asked to drive a
// bit-aligned mapping (KindBitfield). Encode, FitXor and Reconstruct only
// thread a byte-aligned generator through FitXorChunked/ComputeByte/
// ReconstructByte; the bit-aligned family (MapBits, ComputeBit, ApplyBit,
// ReconstructBit, ResidualKindBit) lives in internal/bitmap and
// internal/timemap and is not called from this package (DESIGN.md Open
// Question decision: bitfield
// mappings are a bit-stream feature of internal/timemap, not of this
// byte-oriented convenience API).
var ErrBitAlignedMapping = errors.New("k8dnz: bitfield (bit-aligned) mappings are not supported by this byte-oriented API")

// obfuscatedFlag is OR'd into BFn.ResidualMode's top bit to record that
// the packed residual was passed through xorobf before containment.
const obfuscatedFlag uint8 = 0x80

// NewRecipe validates r and probes it for degeneracy, returning
// cadence.ErrDegenerateRecipe if the probe window yields no emissions or
// only identical tokens.
func NewRecipe(r recipe.Recipe) (*recipe.Recipe, error) {
	rec, err := recipe.New(r)
	if err != nil {
		return nil, err
	}
	if cadence.ProbeDegeneracy(rec, nil) {
		return nil, cadence.ErrDegenerateRecipe
	}
	return rec, nil
}

// EncodeOptions configures one Encode call.
type EncodeOptions struct {
	Mapping      bitmap.Params
	Fit          timemap.FitOptions
	ResidualMode timemap.ResidualMode
	Obfuscate    bool // XOR-obfuscate the residual before containment
}

// Encode reads target bytes from in, fits them against rec's cadence
// stream under opts, and writes a complete .ark container to out. The
// returned FitResult's Degraded flag reports a non-fatal best-so-far fit
// (ObjectiveDegraded); callers surface it (e.g. via internal/scoreboard)
// rather than treating it as an error. The returned keystream is the
// generator bytes actually matched against target (post-mapping, the
// same bytes XORed against target to produce the residual) — diagnostic
// output for callers that want to inspect what was used (the CLI's
// `encode --dump-keystream`), not part of the container itself.
func Encode(rec *recipe.Recipe, in io.Reader, out io.Writer, opts EncodeOptions) (timemap.FitResult, []byte, error) {
	target, err := io.ReadAll(in)
	if err != nil {
		return timemap.FitResult{}, nil, err
	}

	tm, residual, keystream, fitRes, err := fitTarget(rec, target, opts.Mapping, opts.Fit, opts.ResidualMode)
	if err != nil {
		return fitRes, keystream, err
	}

	tmBytes, err := container.EncodeTM1(tm)
	if err != nil {
		return fitRes, keystream, err
	}
	residualModeByte := uint8(opts.ResidualMode)
	if opts.Obfuscate {
		residual = xorobf.Encode(rec.FieldSeed, residual)
		residualModeByte |= obfuscatedFlag
	}
	bf, err := container.EncodeBFn(container.BFn{
		BitsPerEmission: 8,
		ResidualMode:    residualModeByte,
		TotalSymbols:    uint32(len(residual)),
		Packed:          residual,
	})
	if err != nil {
		return fitRes, keystream, err
	}

	recipeBytes := recipe.EncodeK8R(rec, nil)
	payload := container.EncodeK8P2(tmBytes, bf)
	ark := container.EncodeArk(recipeBytes, payload)

	_, err = out.Write(ark)
	return fitRes, keystream, err
}

// Decode reads a .ark container from in, reconstructs the original
// target bytes, and writes them to out. maxTicks overrides the recipe
// embedded in the container's tick budget only if it is larger (callers
// wanting the embedded budget unchanged pass 0).
func Decode(in io.Reader, out io.Writer, maxTicks uint64) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	ark, err := container.DecodeArk(raw)
	if err != nil {
		return err
	}
	rec, _, err := recipe.DecodeK8R(ark.Recipe)
	if err != nil {
		return err
	}
	if maxTicks > rec.MaxTicksCap {
		rec.MaxTicksCap = maxTicks
	}

	p, _, err := container.DecodeK8P2(ark.Data)
	if err != nil {
		return err
	}
	tm, err := container.DecodeTM1(p.Left)
	if err != nil {
		return err
	}
	bf, err := container.DecodeBFn(p.Right)
	if err != nil {
		return err
	}
	residual := bf.Packed
	residualMode := bf.ResidualMode
	if residualMode&obfuscatedFlag != 0 {
		residual = xorobf.Decode(rec.FieldSeed, residual)
		residualMode &^= obfuscatedFlag
	}

	out2, err := Reconstruct(rec, tm, residual, timemap.ResidualMode(residualMode))
	if err != nil {
		return err
	}
	_, err = out.Write(out2)
	return err
}

// FitXor runs the unchunked/chunked window search directly, for callers
// (the CLI's `timemap fit-xor` subcommand) that want TM1/residual
// without going through the .ark container. The returned FitResult's
// Degraded flag reports a non-fatal best-so-far fit.
func FitXor(rec *recipe.Recipe, target []byte, mapping bitmap.Params, opts timemap.FitOptions, mode timemap.ResidualMode) (container.TM1, []byte, timemap.FitResult, error) {
	tm, residual, _, fitRes, err := fitTarget(rec, target, mapping, opts, mode)
	return tm, residual, fitRes, err
}

// fitTarget fits target against rec's cadence stream and returns the
// timemap, residual, the matched keystream bytes (the generator bytes
// actually used, post-mapping), the fit result, and any error.
func fitTarget(rec *recipe.Recipe, target []byte, mapping bitmap.Params, opts timemap.FitOptions, mode timemap.ResidualMode) (container.TM1, []byte, []byte, timemap.FitResult, error) {
	searchLen := opts.StartEmission + opts.SearchEmissions
	if searchLen == 0 {
		searchLen = uint64(len(target)) * 4
	}

	eng := cadence.NewEngine(rec, nil)
	raw, err := eng.ByteStream(int(searchLen) + len(target))
	if err != nil && len(raw) < len(target) {
		return container.TM1{}, nil, nil, timemap.FitResult{}, err
	}

	if mapping.Kind == bitmap.KindBitfield {
		return container.TM1{}, nil, nil, timemap.FitResult{}, ErrBitAlignedMapping
	}
	m, err := bitmap.New(mapping)
	if err != nil {
		return container.TM1{}, nil, nil, timemap.FitResult{}, err
	}
	generator := m.MapBytes(raw)

	res, err := timemap.FitXorChunked(target, generator, opts)
	if err != nil {
		return container.TM1{}, nil, nil, timemap.FitResult{}, err
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = len(target)
	}
	indices := make([]uint64, 0, len(target))
	for ci, chunk := range res.Chunks {
		end := (ci + 1) * chunkSize
		if end > len(target) {
			end = len(target)
		}
		n := end - ci*chunkSize
		for i := 0; i < n; i++ {
			indices = append(indices, chunk.Start+uint64(i))
		}
	}

	matched := make([]byte, len(indices))
	for i, idx := range indices {
		matched[i] = generator[idx]
	}
	residual, err := timemap.ComputeByte(target, matched, mode)
	if err != nil {
		return container.TM1{}, nil, matched, timemap.FitResult{}, err
	}

	tm := container.TM1{
		Mode:            uint8(rec.Mode),
		BitsPerEmission: 8,
		MaxTicksUsed:    rec.MaxTicksCap,
		Indices:         indices,
	}
	return tm, residual, matched, res, nil
}

// GenLaw derives a contiguous TM1 via a deterministic law, skipping the
// window search entirely.
func GenLaw(rec *recipe.Recipe, lawType timemap.LawType, count int, window uint64) container.TM1 {
	var start uint64
	switch lawType {
	case timemap.LawJumpWalk:
		start = timemap.JumpWalkStart(window)
	default:
		start = timemap.ClosedFormStart(rec.RecipeID[:], uint64(count), window)
	}
	indices := timemap.LawTimemap(start, count)
	return container.TM1{
		Mode:            uint8(rec.Mode),
		BitsPerEmission: 8,
		MaxTicksUsed:    rec.MaxTicksCap,
		Indices:         indices,
	}
}

// Reconstruct replays rec's raw cadence byte stream at tm's indices and
// applies residual. No bit mapping is applied to the replayed stream, so
// the output equals the original bytes only when the fit used the
// identity mapping.
func Reconstruct(rec *recipe.Recipe, tm container.TM1, residual []byte, mode timemap.ResidualMode) ([]byte, error) {
	if tm.MaxTicksUsed > rec.MaxTicksCap {
		return nil, timemap.ErrReconstructShort
	}

	need := uint64(0)
	for _, idx := range tm.Indices {
		if idx+1 > need {
			need = idx + 1
		}
	}
	eng := cadence.NewEngine(rec, nil)
	generator, err := eng.ByteStream(int(need))
	if err != nil && uint64(len(generator)) < need {
		return nil, err
	}

	return timemap.ReconstructByte(generator, tm.Indices, residual, mode)
}

// PackMerkle composes two artifacts with K8P2.
func PackMerkle(a, b []byte) []byte {
	return merkle.Pack(a, b)
}

// UnpackMerkle reverses PackMerkle.
func UnpackMerkle(packed []byte) (a, b []byte, err error) {
	return merkle.Unpack(packed)
}
