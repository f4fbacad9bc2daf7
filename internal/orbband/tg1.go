package orbband

import (
	"encoding/binary"
	"errors"
)

// tg1Magic identifies a packed-tag file: either 1 byte per tag
// (TagBits==8) or a bit-packed tag_bits-per-tag payload.
var tg1Magic = [4]byte{'T', 'G', '1', 0}

var (
	ErrTG1BadMagic = errors.New("orbband: not a TG1 file")
	ErrTG1TooShort = errors.New("orbband: TG1 data too short")
)

// EncodeTG1Bytes writes one byte per lane tag (tag_bits == 8 case).
func EncodeTG1Bytes(tags []Tag) []byte {
	body := make([]byte, 0, 4+1+4+len(tags))
	body = append(body, tg1Magic[:]...)
	body = append(body, 8)
	countBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(countBuf, uint32(len(tags)))
	body = append(body, countBuf...)
	for _, tg := range tags {
		body = append(body, byte(tg.Lane))
	}
	return body
}

// EncodeTG1Packed bit-packs lane tags at tagBits bits per tag, LSB-first
// within each byte, matching the bit-packing discipline used by
// internal/bitmap's PackBits.
func EncodeTG1Packed(tags []Tag, tagBits uint8) []byte {
	body := make([]byte, 0, 4+1+4+(len(tags)*int(tagBits)+7)/8)
	body = append(body, tg1Magic[:]...)
	body = append(body, tagBits)
	countBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(countBuf, uint32(len(tags)))
	body = append(body, countBuf...)

	nBits := len(tags) * int(tagBits)
	packed := make([]byte, (nBits+7)/8)
	bitPos := 0
	for _, tg := range tags {
		for b := 0; b < int(tagBits); b++ {
			if (tg.Lane>>uint(b))&1 != 0 {
				packed[bitPos/8] |= 1 << uint(bitPos%8)
			}
			bitPos++
		}
	}
	return append(body, packed...)
}

// DecodeTG1 parses either byte-per-tag or bit-packed tag payloads based
// on the stored tag_bits field.
func DecodeTG1(buf []byte) ([]uint32, error) {
	if len(buf) < 9 {
		return nil, ErrTG1TooShort
	}
	if [4]byte(buf[0:4]) != tg1Magic {
		return nil, ErrTG1BadMagic
	}
	tagBits := buf[4]
	count := binary.LittleEndian.Uint32(buf[5:9])
	payload := buf[9:]

	out := make([]uint32, count)
	if tagBits == 8 {
		if len(payload) < int(count) {
			return nil, ErrTG1TooShort
		}
		for i := range out {
			out[i] = uint32(payload[i])
		}
		return out, nil
	}

	bitPos := 0
	for i := range out {
		var v uint32
		for b := 0; b < int(tagBits); b++ {
			byteIdx := bitPos / 8
			if byteIdx >= len(payload) {
				return nil, ErrTG1TooShort
			}
			if (payload[byteIdx]>>uint(bitPos%8))&1 != 0 {
				v |= 1 << uint(b)
			}
			bitPos++
		}
		out[i] = v
	}
	return out, nil
}
