package container

import (
	"encoding/binary"
	"errors"
)

// arkMagic identifies a .ark container: magic, recipe_len u32LE, recipe
// bytes (K8R), data_len u64LE, data bytes, CRC32 trailer over everything
// preceding it.
var arkMagic = [4]byte{'A', 'R', 'K', '1'}

var (
	ErrArkBadMagic    = errors.New("container: not an ARK1 file")
	ErrArkTooShort    = errors.New("container: ark data too short")
	ErrArkChecksum    = errors.New("container: ark CRC32 mismatch")
	ErrArkLengthField = errors.New("container: ark length field exceeds available data")
)

// Ark is the parsed form of a .ark file.
type Ark struct {
	Recipe []byte // opaque K8R TLV blob
	Data   []byte
}

// EncodeArk serializes recipe+data into a .ark byte stream.
func EncodeArk(recipe, data []byte) []byte {
	body := make([]byte, 0, 4+4+len(recipe)+8+len(data))
	body = append(body, arkMagic[:]...)

	recipeLen := make([]byte, 4)
	binary.LittleEndian.PutUint32(recipeLen, uint32(len(recipe)))
	body = append(body, recipeLen...)
	body = append(body, recipe...)

	dataLen := make([]byte, 8)
	binary.LittleEndian.PutUint64(dataLen, uint64(len(data)))
	body = append(body, dataLen...)
	body = append(body, data...)

	crc := make([]byte, 4)
	binary.LittleEndian.PutUint32(crc, checksum(body))
	return append(body, crc...)
}

// DecodeArk parses a .ark byte stream, verifying its CRC32 trailer.
func DecodeArk(buf []byte) (Ark, error) {
	if len(buf) < 4+4+8+4 {
		return Ark{}, ErrArkTooShort
	}
	if [4]byte(buf[0:4]) != arkMagic {
		return Ark{}, ErrArkBadMagic
	}

	body := buf[:len(buf)-4]
	wantCRC := binary.LittleEndian.Uint32(buf[len(buf)-4:])
	if checksum(body) != wantCRC {
		return Ark{}, ErrArkChecksum
	}

	off := 4
	recipeLen := binary.LittleEndian.Uint32(buf[off : off+4])
	off += 4
	if uint64(off)+uint64(recipeLen) > uint64(len(body)) {
		return Ark{}, ErrArkLengthField
	}
	recipe := buf[off : off+int(recipeLen)]
	off += int(recipeLen)

	if off+8 > len(body) {
		return Ark{}, ErrArkTooShort
	}
	dataLen := binary.LittleEndian.Uint64(buf[off : off+8])
	off += 8
	if uint64(off)+dataLen > uint64(len(body)) {
		return Ark{}, ErrArkLengthField
	}
	data := buf[off : off+int(dataLen)]

	return Ark{Recipe: recipe, Data: data}, nil
}
