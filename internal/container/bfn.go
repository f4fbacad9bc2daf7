package container

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// bfnMagic identifies the packed bitfield-residual family: BF1 (1 bit/sym),
// BF2 (2 bits/sym), BF8 (8 bits/sym == byte-aligned).
var bfnMagic = [3]byte{'B', 'F'}

const (
	bfnVersion    uint8 = 1
	bfnHeaderSize       = 24 // magic(3)+bits(1)+version(1)+mode(1)+pad(2)+total(4)+reserved(12)
)

var (
	ErrBFnBadMagic    = errors.New("container: not a BFn file")
	ErrBFnTooShort    = errors.New("container: BFn data too short")
	ErrBFnChecksum    = errors.New("container: BFn CRC32 mismatch")
	ErrBFnBadBitWidth = errors.New("container: BFn bits_per_emission must be 1, 2, or 8")
)

// BFn is the parsed packed bitfield residual.
type BFn struct {
	BitsPerEmission uint8 // 1, 2, or 8
	ResidualMode    uint8 // mirrors timemap.ResidualMode
	TotalSymbols    uint32
	Packed          []byte // LSB-first packed payload
}

func bfnLetter(bits uint8) (byte, error) {
	switch bits {
	case 1:
		return '1', nil
	case 2:
		return '2', nil
	case 8:
		return '8', nil
	default:
		return 0, ErrBFnBadBitWidth
	}
}

// EncodeBFn serializes a packed bitfield residual with a fixed 24-byte
// padded header, matching the discipline of the teacher's fixed-size
// binary descriptors.
func EncodeBFn(b BFn) ([]byte, error) {
	letter, err := bfnLetter(b.BitsPerEmission)
	if err != nil {
		return nil, err
	}

	header := make([]byte, bfnHeaderSize)
	header[0] = bfnMagic[0]
	header[1] = bfnMagic[1]
	header[2] = letter
	header[3] = b.BitsPerEmission
	header[4] = bfnVersion
	header[5] = b.ResidualMode
	binary.LittleEndian.PutUint32(header[8:12], b.TotalSymbols)
	// header[12:24] reserved, left zero.

	body := append(header, b.Packed...)
	crc := make([]byte, 4)
	binary.LittleEndian.PutUint32(crc, checksum(body))
	return append(body, crc...), nil
}

// DecodeBFn parses a BFn byte stream, verifying magic, bit width, and CRC32.
func DecodeBFn(buf []byte) (BFn, error) {
	if len(buf) < bfnHeaderSize+4 {
		return BFn{}, ErrBFnTooShort
	}
	if buf[0] != bfnMagic[0] || buf[1] != bfnMagic[1] {
		return BFn{}, ErrBFnBadMagic
	}
	bits := buf[3]
	if _, err := bfnLetter(bits); err != nil {
		return BFn{}, err
	}
	wantLetter, _ := bfnLetter(bits)
	if buf[2] != wantLetter {
		return BFn{}, fmt.Errorf("container: BFn magic letter %q does not match bits_per_emission %d", buf[2], bits)
	}

	body := buf[:len(buf)-4]
	wantCRC := binary.LittleEndian.Uint32(buf[len(buf)-4:])
	if checksum(body) != wantCRC {
		return BFn{}, ErrBFnChecksum
	}

	residualMode := buf[5]
	totalSymbols := binary.LittleEndian.Uint32(buf[8:12])
	packed := buf[bfnHeaderSize : len(buf)-4]

	return BFn{
		BitsPerEmission: bits,
		ResidualMode:    residualMode,
		TotalSymbols:    totalSymbols,
		Packed:          packed,
	}, nil
}
