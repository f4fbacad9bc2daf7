// Package token defines the byte-stream views emitted by the cadence
// engine: PairToken (1 byte/emission) and RGBPair (6 bytes/emission).
package token

// PairToken is a two-symbol emission, packed to one byte: high nibble A,
// low nibble B.
type PairToken struct {
	A uint8
	B uint8
}

// PackByte packs the token into its single-byte wire form.
func (p PairToken) PackByte() byte {
	return (p.A&0xF)<<4 | (p.B & 0xF)
}

// UnpackPairToken reverses PackByte.
func UnpackPairToken(b byte) PairToken {
	return PairToken{A: b >> 4, B: b & 0xF}
}

// RGBTriple is one lane's 3-byte color sample.
type RGBTriple struct {
	R, G, B uint8
}

// RGBPair is two RGB triples, flattened as [rA,gA,bA,rC,gC,bC].
type RGBPair struct {
	A RGBTriple
	C RGBTriple
}

// Bytes returns the 6-byte flattened form [rA,gA,bA,rC,gC,bC].
func (p RGBPair) Bytes() [6]byte {
	return [6]byte{p.A.R, p.A.G, p.A.B, p.C.R, p.C.G, p.C.B}
}

// UnpackRGBPair reverses Bytes.
func UnpackRGBPair(b [6]byte) RGBPair {
	return RGBPair{
		A: RGBTriple{R: b[0], G: b[1], B: b[2]},
		C: RGBTriple{R: b[3], G: b[4], B: b[5]},
	}
}

// Lanes per RGBPair emission, used to compute the flattened stream index
// pos = emission_index*6 + lane.
const RGBLanes = 6

// FlatIndex returns the flattened byte-stream index for a given emission
// index and lane (lane in [0, RGBLanes)).
func FlatIndex(emissionIndex uint64, lane int) uint64 {
	return emissionIndex*uint64(RGBLanes) + uint64(lane)
}
