package recipe

import (
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/fixedturn"
)

// ark1sPrefix tags a recipe string as an ARK1S key, distinguishing it
// from an arbitrary Crockford-encoded blob.
const ark1sPrefix = "ARK1S:"

// ark1sFormatVersion is the string encoding's own version, independent
// of Recipe.Version.
const ark1sFormatVersion uint8 = 1

// crockford32 is the alphabet used by ARK1S strings: digits and
// uppercase letters minus I, L, O, U, chosen (by the original format)
// to avoid characters easily confused when hand-typed or read aloud.
// Its 5-bits-per-symbol, MSB-first packing is exactly stdlib base32's
// RFC 4648 bit order, so a plain alphabet swap over encoding/base32 is
// sufficient — no third-party Crockford package exists in the example
// corpus, and hand-rolling the bit-packing loop stdlib already owns
// would just be slower, unidiomatic duplication of it.
const crockford32Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var ark1sEncoding = base32.NewEncoding(crockford32Alphabet).WithPadding(base32.NoPadding)

// EncodeArk1S renders r as a short, human-typable ARK1S key: a fixed-width
// field layout (not K8R's TLV — ARK1S carries no forward-compatibility
// contract, just a compact transport form) plus a CRC32 trailer, Crockford
// base32 encoded and prefixed with "ARK1S:".
func EncodeArk1S(r *Recipe) string {
	body := make([]byte, 0, 1+1+16+8*9+4*3+8+1+8)
	body = append(body, ark1sFormatVersion, r.Version)
	body = append(body, r.RecipeID[:]...)

	u64 := func(v uint64) {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		body = append(body, b[:]...)
	}
	i32 := func(v int32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		body = append(body, b[:]...)
	}

	u64(uint64(r.OrbitA.Phase))
	u64(uint64(r.OrbitA.Omega))
	u64(uint64(r.OrbitC.Phase))
	u64(uint64(r.OrbitC.Omega))
	u64(uint64(r.Epsilon))
	u64(uint64(r.Delta))
	u64(uint64(r.AxialStep))
	u64(uint64(r.LockstepOmega))
	u64(r.FieldSeed)
	i32(r.Clamp.Lo)
	i32(r.Clamp.Hi)
	i32(int32(r.Quant.Bins))
	u64(r.Quant.Shift)
	body = append(body, uint8(r.Mode))
	u64(r.MaxTicksCap)

	crc := crc32.ChecksumIEEE(body)
	var crcBuf [4]byte
	binary.LittleEndian.PutUint32(crcBuf[:], crc)
	body = append(body, crcBuf[:]...)

	return ark1sPrefix + ark1sEncoding.EncodeToString(body)
}

// DecodeArk1S parses an ARK1S key produced by EncodeArk1S back into a
// validated Recipe.
func DecodeArk1S(s string) (*Recipe, error) {
	upper := strings.ToUpper(s)
	body, ok := strings.CutPrefix(upper, ark1sPrefix)
	if !ok {
		return nil, fmt.Errorf("ark1s: missing %q prefix", ark1sPrefix)
	}

	raw, err := ark1sEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("ark1s: invalid base32 body: %w", err)
	}

	const fixedLen = 1 + 1 + 16 + 8*9 + 4*3 + 8 + 1 + 8 + 4
	if len(raw) != fixedLen {
		return nil, fmt.Errorf("ark1s: decoded body is %d bytes, want %d", len(raw), fixedLen)
	}

	crcOff := len(raw) - 4
	wantCRC := binary.LittleEndian.Uint32(raw[crcOff:])
	if gotCRC := crc32.ChecksumIEEE(raw[:crcOff]); gotCRC != wantCRC {
		return nil, fmt.Errorf("ark1s: crc mismatch: got 0x%08x want 0x%08x", gotCRC, wantCRC)
	}

	i := 0
	readU8 := func() uint8 {
		v := raw[i]
		i++
		return v
	}
	readU64 := func() uint64 {
		v := binary.LittleEndian.Uint64(raw[i : i+8])
		i += 8
		return v
	}
	readI32 := func() int32 {
		v := int32(binary.LittleEndian.Uint32(raw[i : i+4]))
		i += 4
		return v
	}

	_ = readU8() // string-format version, reserved for future ARK1S layouts
	var r Recipe
	r.Version = readU8()
	copy(r.RecipeID[:], raw[i:i+16])
	i += 16

	r.OrbitA.Phase = fixedturn.Turn(readU64())
	r.OrbitA.Omega = fixedturn.Turn(readU64())
	r.OrbitC.Phase = fixedturn.Turn(readU64())
	r.OrbitC.Omega = fixedturn.Turn(readU64())
	r.Epsilon = fixedturn.Turn(readU64())
	r.Delta = fixedturn.Turn(readU64())
	r.AxialStep = fixedturn.Turn(readU64())
	r.LockstepOmega = fixedturn.Turn(readU64())
	r.FieldSeed = readU64()
	r.Clamp.Lo = readI32()
	r.Clamp.Hi = readI32()
	r.Quant.Bins = uint32(readI32())
	r.Quant.Shift = readU64()
	r.Mode = Mode(readU8())
	r.MaxTicksCap = readU64()

	sealed, err := New(r)
	if err != nil {
		return nil, fmt.Errorf("ark1s: decoded recipe failed validation: %w", err)
	}
	return sealed, nil
}
