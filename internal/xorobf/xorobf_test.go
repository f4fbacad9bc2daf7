package xorobf

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data := []byte("obfuscate this residual blob")
	enc := Encode(0xC0FFEE, data)
	if bytes.Equal(enc, data) {
		t.Fatal("Encode did not change the data")
	}
	dec := Decode(0xC0FFEE, enc)
	if !bytes.Equal(dec, data) {
		t.Fatalf("round trip mismatch: got %q want %q", dec, data)
	}
}

func TestDifferentSeedsProduceDifferentKeystreams(t *testing.T) {
	a := KeyStream(1, 32)
	b := KeyStream(2, 32)
	if bytes.Equal(a, b) {
		t.Fatal("distinct seeds produced identical keystreams")
	}
}

func TestKeyStreamDeterministic(t *testing.T) {
	a := KeyStream(42, 64)
	b := KeyStream(42, 64)
	if !bytes.Equal(a, b) {
		t.Fatal("KeyStream is not deterministic")
	}
}
