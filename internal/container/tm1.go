package container

import (
	"encoding/binary"
	"errors"
)

// tm1Magic identifies a TM1 timemap file.
var tm1Magic = [4]byte{'T', 'M', '1', 0}

const tm1Version uint8 = 1

var (
	ErrTM1BadMagic  = errors.New("container: not a TM1 file")
	ErrTM1TooShort  = errors.New("container: TM1 data too short")
	ErrTM1Checksum  = errors.New("container: TM1 CRC32 mismatch")
	ErrTM1BadVarint = errors.New("container: TM1 delta varint truncated")
	ErrTM1NotSorted = errors.New("container: TM1 indices not strictly increasing")
)

// TM1 is the parsed timemap. MaxTicksUsed closes the implicit max-ticks
// contract: reconstruct must refuse a smaller budget rather than
// silently emitting a short result.
type TM1 struct {
	Mode            uint8
	BitsPerEmission uint8
	MaxTicksUsed    uint64
	Indices         []uint64
}

// EncodeTM1 serializes a strictly-increasing index list as a base
// (Indices[0]) followed by varint deltas between consecutive indices.
func EncodeTM1(tm TM1) ([]byte, error) {
	if len(tm.Indices) > 0 {
		for i := 1; i < len(tm.Indices); i++ {
			if tm.Indices[i] <= tm.Indices[i-1] {
				return nil, ErrTM1NotSorted
			}
		}
	}

	body := make([]byte, 0, 4+1+1+1+4+8+8+len(tm.Indices)*2)
	body = append(body, tm1Magic[:]...)
	body = append(body, tm1Version, tm.Mode, tm.BitsPerEmission)

	countBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(countBuf, uint32(len(tm.Indices)))
	body = append(body, countBuf...)

	maxTicksBuf := make([]byte, 8)
	binary.LittleEndian.PutUint64(maxTicksBuf, tm.MaxTicksUsed)
	body = append(body, maxTicksBuf...)

	var base uint64
	if len(tm.Indices) > 0 {
		base = tm.Indices[0]
	}
	baseBuf := make([]byte, 8)
	binary.LittleEndian.PutUint64(baseBuf, base)
	body = append(body, baseBuf...)

	varintBuf := make([]byte, binary.MaxVarintLen64)
	for i := 1; i < len(tm.Indices); i++ {
		delta := tm.Indices[i] - tm.Indices[i-1]
		n := binary.PutUvarint(varintBuf, delta)
		body = append(body, varintBuf[:n]...)
	}

	crcBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(crcBuf, checksum(body))
	return append(body, crcBuf...), nil
}

// DecodeTM1 parses and validates a TM1 byte stream.
func DecodeTM1(buf []byte) (TM1, error) {
	const headerLen = 4 + 1 + 1 + 1 + 4 + 8 + 8
	if len(buf) < headerLen+4 {
		return TM1{}, ErrTM1TooShort
	}
	if [4]byte(buf[0:4]) != tm1Magic {
		return TM1{}, ErrTM1BadMagic
	}

	body := buf[:len(buf)-4]
	wantCRC := binary.LittleEndian.Uint32(buf[len(buf)-4:])
	if checksum(body) != wantCRC {
		return TM1{}, ErrTM1Checksum
	}

	mode := buf[5]
	bitsPerEmission := buf[6]
	count := binary.LittleEndian.Uint32(buf[7:11])
	maxTicksUsed := binary.LittleEndian.Uint64(buf[11:19])
	base := binary.LittleEndian.Uint64(buf[19:27])

	indices := make([]uint64, count)
	off := headerLen
	if count > 0 {
		indices[0] = base
	}
	for i := 1; i < int(count); i++ {
		delta, n := binary.Uvarint(body[off:])
		if n <= 0 {
			return TM1{}, ErrTM1BadVarint
		}
		off += n
		indices[i] = indices[i-1] + delta
	}
	for i := 1; i < len(indices); i++ {
		if indices[i] <= indices[i-1] {
			return TM1{}, ErrTM1NotSorted
		}
	}

	return TM1{
		Mode:            mode,
		BitsPerEmission: bitsPerEmission,
		MaxTicksUsed:    maxTicksUsed,
		Indices:         indices,
	}, nil
}
