package bitmap

// text40Classes is the 40-entry printable-text class table: each emission
// maps into one of 40 printable-text classes via a seeded lookup table,
// covering the common ASCII classes a text residual target is likely to
// hit — space/punctuation, newline and tab, digits, and twenty lowercase
// letters. No uppercase letters are in the table.
var text40Classes = [40]byte{
	' ', '.', ',', '!', '?', '\'', '"', '-', '\n', '\t',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
	'a', 'e', 'i', 'o', 'u', 'b', 'c', 'd', 'f', 'g',
	'h', 'j', 'k', 'l', 'm', 'n', 'p', 'q', 'r', 's',
}

// text40Mapping maps each emission byte into one of 40 printable-text
// classes via a seeded lookup table. It is not reversible on its own —
// used only for matching.
type text40Mapping struct {
	seed uint64
}

func (text40Mapping) Kind() Kind { return KindText40Field }

func (m text40Mapping) MapBytes(raw []byte) []byte {
	out := make([]byte, len(raw))
	state := m.seed
	for i, b := range raw {
		state = splitMix64Step(state ^ uint64(b) ^ (uint64(i) * posMixConstant))
		idx := state % uint64(len(text40Classes))
		out[i] = text40Classes[idx]
	}
	return out
}

func (text40Mapping) MapBits([]byte, []int32) []bool { return nil }
