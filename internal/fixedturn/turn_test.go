package fixedturn

import "testing"

func TestAddSubWrap(t *testing.T) {
	var a Turn = ^Turn(0) // just under 1.0
	b := Add(a, 2)
	if b != 1 {
		t.Fatalf("Add wraparound: got %d want 1", b)
	}
	if Sub(b, 2) != a {
		t.Fatalf("Sub did not invert Add")
	}
}

func TestMirror(t *testing.T) {
	if Mirror(0) != 0 {
		t.Fatalf("Mirror(0) should be 0, got %d", Mirror(0))
	}
	a := Turn(1000)
	m := Mirror(a)
	if Add(a, m) != 0 {
		t.Fatalf("a + mirror(a) should wrap to 0")
	}
}

func TestCircularDistance(t *testing.T) {
	cases := []struct {
		a, b Turn
		want uint64
	}{
		{0, 0, 0},
		{0, 5, 5},
		{5, 0, 5},
		{0, ^Turn(0), 1}, // wraps the short way
	}
	for _, c := range cases {
		if got := CircularDistance(c.a, c.b); got != c.want {
			t.Errorf("CircularDistance(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestNear(t *testing.T) {
	if !Near(10, 12, 5) {
		t.Fatal("expected near")
	}
	if Near(10, 100, 5) {
		t.Fatal("expected not near")
	}
}

func TestFromFraction(t *testing.T) {
	half := FromFraction(1, 2)
	// Half a revolution should be close to the midpoint of the u64 range.
	dist := CircularDistance(half, Turn(1)<<63)
	if dist > 2 {
		t.Fatalf("FromFraction(1,2) = %d, too far from midpoint", half)
	}
}
