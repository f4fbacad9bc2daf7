package recipe

import (
	"strings"
	"testing"
)

func TestArk1SRoundTrip(t *testing.T) {
	r := sampleRecipe(t)
	key := EncodeArk1S(r)

	if !strings.HasPrefix(key, ark1sPrefix) {
		t.Fatalf("key missing %q prefix: %s", ark1sPrefix, key)
	}

	decoded, err := DecodeArk1S(key)
	if err != nil {
		t.Fatalf("DecodeArk1S: %v", err)
	}
	if decoded.RecipeID != r.RecipeID {
		t.Fatalf("recipe id mismatch")
	}
	if decoded.OrbitA != r.OrbitA || decoded.OrbitC != r.OrbitC {
		t.Fatalf("orbit state mismatch")
	}
	if decoded.Clamp != r.Clamp || decoded.Quant != r.Quant {
		t.Fatalf("clamp/quant mismatch")
	}
	if decoded.Mode != r.Mode || decoded.MaxTicksCap != r.MaxTicksCap {
		t.Fatalf("mode/max-ticks-cap mismatch")
	}
}

func TestArk1SIsCaseInsensitive(t *testing.T) {
	r := sampleRecipe(t)
	key := EncodeArk1S(r)

	decoded, err := DecodeArk1S(strings.ToLower(key))
	if err != nil {
		t.Fatalf("DecodeArk1S on lowercased key: %v", err)
	}
	if decoded.RecipeID != r.RecipeID {
		t.Fatalf("recipe id mismatch after lowercasing")
	}
}

func TestArk1SRejectsMissingPrefix(t *testing.T) {
	r := sampleRecipe(t)
	key := EncodeArk1S(r)
	stripped := strings.TrimPrefix(key, ark1sPrefix)

	if _, err := DecodeArk1S(stripped); err == nil {
		t.Fatal("expected error on missing ARK1S: prefix")
	}
}

func TestArk1SRejectsBadBase32Body(t *testing.T) {
	if _, err := DecodeArk1S(ark1sPrefix + "not-valid-crockford!!"); err == nil {
		t.Fatal("expected error on invalid base32 body")
	}
}

func TestArk1SRejectsWrongLength(t *testing.T) {
	r := sampleRecipe(t)
	key := EncodeArk1S(r)
	truncated := key[:len(key)-8]

	if _, err := DecodeArk1S(truncated); err == nil {
		t.Fatal("expected error on truncated body")
	}
}

func TestArk1SRejectsCRCMismatch(t *testing.T) {
	r := sampleRecipe(t)
	key := EncodeArk1S(r)

	body, err := ark1sEncoding.DecodeString(strings.TrimPrefix(key, ark1sPrefix))
	if err != nil {
		t.Fatalf("decoding test fixture: %v", err)
	}
	body[0] ^= 0xFF
	corrupted := ark1sPrefix + ark1sEncoding.EncodeToString(body)

	if _, err := DecodeArk1S(corrupted); err == nil {
		t.Fatal("expected crc mismatch error")
	}
}
