package field

// Quantizer buckets a clamped intensity sample into a symbol in
// [0, bins):
//   clamp -> bin = ((I - lo) * bins) / (hi - lo + 1)
//   sym = (bin + shift) mod bins
// quant.shift moves bin boundaries without altering cadence timing — this
// invariant is preserved by construction, since Quantize never touches
// when a token is emitted, only the symbol value it carries.
type Quantizer struct {
	Lo, Hi int32
	Bins   uint32
	Shift  uint64
}

// Clamp restricts v to [q.Lo, q.Hi].
func (q Quantizer) Clamp(v int32) int32 {
	if v < q.Lo {
		return q.Lo
	}
	if v > q.Hi {
		return q.Hi
	}
	return v
}

// Quantize clamps v and buckets it into a symbol in [0, q.Bins).
func (q Quantizer) Quantize(v int32) uint32 {
	clamped := q.Clamp(v)
	rng := int64(q.Hi) - int64(q.Lo) + 1
	bin := (int64(clamped) - int64(q.Lo)) * int64(q.Bins) / rng
	sym := (uint64(bin) + q.Shift) % uint64(q.Bins)
	return uint32(sym)
}
