package recipe

import (
	"bytes"
	"testing"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/fixedturn"
)

func sampleRecipe(t *testing.T) *Recipe {
	t.Helper()
	r, err := New(Recipe{
		Version: 1,
		OrbitA:  OrbitState{Phase: 0, Omega: fixedturn.FromFraction(1, 10007)},
		OrbitC:  OrbitState{Phase: 0, Omega: fixedturn.FromFraction(3, 10007)},
		Epsilon: fixedturn.FromFraction(1, 100000),
		Clamp:   Clamp{Lo: -128, Hi: 127},
		Quant:   Quant{Bins: 16, Shift: 3},
		Mode:    ModePair,
		MaxTicksCap: 1_000_000,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestK8RRoundTrip(t *testing.T) {
	r := sampleRecipe(t)
	blob := EncodeK8R(r, nil)

	decoded, extras, err := DecodeK8R(blob)
	if err != nil {
		t.Fatalf("DecodeK8R: %v", err)
	}
	if len(extras) != 0 {
		t.Fatalf("unexpected extras: %v", extras)
	}
	if decoded.Checksum() != r.Checksum() {
		t.Fatalf("checksum mismatch: got 0x%08x want 0x%08x", decoded.Checksum(), r.Checksum())
	}
	if decoded.RecipeID != r.RecipeID {
		t.Fatalf("recipe id mismatch")
	}
	if decoded.OrbitA != r.OrbitA || decoded.OrbitC != r.OrbitC {
		t.Fatalf("orbit state mismatch")
	}

	blob2 := EncodeK8R(decoded, extras)
	if !bytes.Equal(blob, blob2) {
		t.Fatalf("re-encoding is not byte-identical")
	}
}

func TestK8RForwardPreservesUnknownFields(t *testing.T) {
	r := sampleRecipe(t)
	blob := EncodeK8R(r, []unknownRecord{{id: 200, payload: []byte("future-field")}})

	decoded, extras, err := DecodeK8R(blob)
	if err != nil {
		t.Fatalf("DecodeK8R: %v", err)
	}
	if len(extras) != 1 || extras[0].id != 200 || string(extras[0].payload) != "future-field" {
		t.Fatalf("unknown field not preserved: %+v", extras)
	}

	reencoded := EncodeK8R(decoded, extras)
	if !bytes.Equal(blob, reencoded) {
		t.Fatalf("round trip with unknown field not byte-identical")
	}
}

func TestK8RRejectsBadMagic(t *testing.T) {
	bad := []byte("XXXX\x01\x00\x00\x00\x00")
	if _, _, err := DecodeK8R(bad); err == nil {
		t.Fatal("expected error on bad magic")
	}
}

func TestK8RRejectsChecksumMismatch(t *testing.T) {
	r := sampleRecipe(t)
	blob := EncodeK8R(r, nil)
	blob[len(blob)-1] ^= 0xFF
	if _, _, err := DecodeK8R(blob); err == nil {
		t.Fatal("expected crc mismatch error")
	}
}
