package k8dnz

import (
	"bytes"
	"testing"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/bitmap"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/fixedturn"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/recipe"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/timemap"
)

func testRecipe(t *testing.T) *recipe.Recipe {
	t.Helper()
	r, err := NewRecipe(recipe.Recipe{
		Version:       1,
		OrbitA:        recipe.OrbitState{Phase: 0, Omega: fixedturn.FromFraction(7, 100003)},
		OrbitC:        recipe.OrbitState{Phase: 0, Omega: fixedturn.FromFraction(11, 100003)},
		Epsilon:       fixedturn.FromFraction(1, 5000),
		AxialStep:     fixedturn.FromFraction(1, 16),
		LockstepOmega: fixedturn.FromFraction(1, 97),
		FieldSeed:     0xC0FFEE,
		Clamp:         recipe.Clamp{Lo: -128, Hi: 127},
		Quant:         recipe.Quant{Bins: 16, Shift: 0},
		Mode:          recipe.ModePair,
		MaxTicksCap:   2_000_000,
	})
	if err != nil {
		t.Fatalf("NewRecipe: %v", err)
	}
	return r
}

func fitOpts() timemap.FitOptions {
	return timemap.FitOptions{
		ChunkSize:       16,
		Lookahead:       64,
		SearchEmissions: 80_000,
		Objective:       timemap.ObjectiveMatches,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	r := testRecipe(t)
	target := []byte("the quick brown fox jumps over the lazy dog, repeatedly")

	var encoded bytes.Buffer
	fitRes, keystream, err := Encode(r, bytes.NewReader(target), &encoded, EncodeOptions{
		Mapping:      bitmap.Params{Kind: bitmap.KindIdentity},
		Fit:          fitOpts(),
		ResidualMode: timemap.ResidualXOR,
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if fitRes.Degraded {
		t.Fatal("expected a non-degraded fit for this target/recipe pair")
	}
	if len(keystream) != len(target) {
		t.Fatalf("expected keystream length %d to match target length, got %d", len(target), len(keystream))
	}

	var decoded bytes.Buffer
	if err := Decode(bytes.NewReader(encoded.Bytes()), &decoded, 0); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded.Bytes(), target) {
		t.Fatalf("round trip mismatch:\n got  %q\n want %q", decoded.Bytes(), target)
	}
}

func TestEncodeDecodeRoundTripObfuscated(t *testing.T) {
	r := testRecipe(t)
	target := []byte("obfuscated residual should still reconstruct exactly")

	var encoded bytes.Buffer
	_, _, err := Encode(r, bytes.NewReader(target), &encoded, EncodeOptions{
		Mapping:      bitmap.Params{Kind: bitmap.KindIdentity},
		Fit:          fitOpts(),
		ResidualMode: timemap.ResidualXOR,
		Obfuscate:    true,
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded bytes.Buffer
	if err := Decode(bytes.NewReader(encoded.Bytes()), &decoded, 0); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded.Bytes(), target) {
		t.Fatalf("round trip mismatch:\n got  %q\n want %q", decoded.Bytes(), target)
	}
}

func TestReconstructRejectsSmallerBudget(t *testing.T) {
	r := testRecipe(t)
	target := []byte("budget check payload")

	tm, residual, _, err := FitXor(r, target, bitmap.Params{Kind: bitmap.KindIdentity}, fitOpts(), timemap.ResidualXOR)
	if err != nil {
		t.Fatalf("FitXor: %v", err)
	}

	shrunk := *r
	shrunk.MaxTicksCap = tm.MaxTicksUsed / 2
	if _, err := Reconstruct(&shrunk, tm, residual, timemap.ResidualXOR); err != timemap.ErrReconstructShort {
		t.Fatalf("expected ErrReconstructShort, got %v", err)
	}
}

func TestGenLawProducesContiguousTimemap(t *testing.T) {
	r := testRecipe(t)
	tm := GenLaw(r, timemap.LawClosedForm, 10, 1<<20)
	if len(tm.Indices) != 10 {
		t.Fatalf("expected 10 indices, got %d", len(tm.Indices))
	}
	for i := 1; i < len(tm.Indices); i++ {
		if tm.Indices[i] != tm.Indices[i-1]+1 {
			t.Fatalf("indices not contiguous at %d", i)
		}
	}
}

func TestPackMerkleUnpackMerkleRoundTrip(t *testing.T) {
	a := []byte("left child")
	b := []byte("right child, longer")
	packed := PackMerkle(a, b)

	gotA, gotB, err := UnpackMerkle(packed)
	if err != nil {
		t.Fatalf("UnpackMerkle: %v", err)
	}
	if !bytes.Equal(gotA, a) || !bytes.Equal(gotB, b) {
		t.Fatal("PackMerkle/UnpackMerkle did not round trip")
	}
}

func TestFitXorRejectsBitAlignedMapping(t *testing.T) {
	r := testRecipe(t)
	target := []byte("bitfield kinds are bit-aligned, not byte-aligned")

	_, _, _, err := FitXor(r, target, bitmap.Params{Kind: bitmap.KindBitfield, BitsPerEmission: 1}, fitOpts(), timemap.ResidualXOR)
	if err != ErrBitAlignedMapping {
		t.Fatalf("expected ErrBitAlignedMapping, got %v", err)
	}
}

func TestNewRecipeRejectsDegenerateRecipe(t *testing.T) {
	_, err := NewRecipe(recipe.Recipe{
		Version:       1,
		OrbitA:        recipe.OrbitState{Phase: 0, Omega: 0},
		OrbitC:        recipe.OrbitState{Phase: 0, Omega: 1},
		Epsilon:       0,
		AxialStep:     0,
		LockstepOmega: 0,
		FieldSeed:     1,
		Clamp:         recipe.Clamp{Lo: -1, Hi: 0},
		Quant:         recipe.Quant{Bins: 2, Shift: 0},
		Mode:          recipe.ModePair,
		MaxTicksCap:   4096,
	})
	if err == nil {
		t.Fatal("expected degenerate recipe to be rejected")
	}
}
