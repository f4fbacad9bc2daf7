package token

import "testing"

func TestPairTokenPackUnpack(t *testing.T) {
	for a := uint8(0); a < 16; a++ {
		for b := uint8(0); b < 16; b++ {
			pt := PairToken{A: a, B: b}
			packed := pt.PackByte()
			got := UnpackPairToken(packed)
			if got != pt {
				t.Fatalf("round trip failed for (%d,%d): got %+v", a, b, got)
			}
		}
	}
}

func TestPairTokenLowNibbleIsB(t *testing.T) {
	pt := PairToken{A: 0xA, B: 0x3}
	packed := pt.PackByte()
	if packed&0x0F != 0x3 {
		t.Fatalf("low nibble should be B, got 0x%02x", packed)
	}
	if packed>>4 != 0xA {
		t.Fatalf("high nibble should be A, got 0x%02x", packed)
	}
}

func TestRGBPairRoundTrip(t *testing.T) {
	p := RGBPair{A: RGBTriple{1, 2, 3}, C: RGBTriple{4, 5, 6}}
	b := p.Bytes()
	want := [6]byte{1, 2, 3, 4, 5, 6}
	if b != want {
		t.Fatalf("Bytes() = %v, want %v", b, want)
	}
	got := UnpackRGBPair(b)
	if got != p {
		t.Fatalf("UnpackRGBPair round trip failed: %+v", got)
	}
}

func TestFlatIndex(t *testing.T) {
	if FlatIndex(0, 0) != 0 {
		t.Fatal("emission 0 lane 0 should be byte 0")
	}
	if FlatIndex(1, 0) != 6 {
		t.Fatalf("emission 1 lane 0 should be byte 6, got %d", FlatIndex(1, 0))
	}
	if FlatIndex(2, 5) != 17 {
		t.Fatalf("emission 2 lane 5 should be byte 17, got %d", FlatIndex(2, 5))
	}
}
