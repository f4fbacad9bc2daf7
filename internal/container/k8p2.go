package container

import (
	"encoding/binary"
	"errors"
)

// k8p2Magic identifies a self-delimiting two-child pack, used recursively
// by the Merkle-style composition driver.
var k8p2Magic = [4]byte{'K', '8', 'P', '2'}

// K8P2Version is the only version this package knows how to decode.
const K8P2Version = 1

var (
	ErrK8P2BadMagic   = errors.New("container: not a K8P2 file")
	ErrK8P2TooShort   = errors.New("container: K8P2 data too short")
	ErrK8P2BadVersion = errors.New("container: unsupported K8P2 version")
)

// K8P2 is a two-child pack. Each child is an opaque byte blob: either a
// leaf container (.ark, TM1, BFn) or another nested K8P2.
type K8P2 struct {
	Left  []byte
	Right []byte
}

// EncodeK8P2 serializes two length-prefixed children, making the result
// self-delimiting: a reader never needs external framing to know where
// one pack ends and the next begins.
//
// Wire layout: "K8P2" || version:u8 || len_A:u32LE || len_B:u32LE ||
// A_bytes || B_bytes.
func EncodeK8P2(left, right []byte) []byte {
	out := make([]byte, 0, 4+1+4+4+len(left)+len(right))
	out = append(out, k8p2Magic[:]...)
	out = append(out, K8P2Version)

	leftLen := make([]byte, 4)
	binary.LittleEndian.PutUint32(leftLen, uint32(len(left)))
	out = append(out, leftLen...)

	rightLen := make([]byte, 4)
	binary.LittleEndian.PutUint32(rightLen, uint32(len(right)))
	out = append(out, rightLen...)

	out = append(out, left...)
	out = append(out, right...)
	return out
}

// DecodeK8P2 parses a K8P2 byte stream and returns its two children plus
// the number of bytes consumed, so callers can walk a concatenated
// sequence of packs without separate framing.
func DecodeK8P2(buf []byte) (K8P2, int, error) {
	const headerLen = 4 + 1 + 4 + 4
	if len(buf) < headerLen {
		return K8P2{}, 0, ErrK8P2TooShort
	}
	if [4]byte(buf[0:4]) != k8p2Magic {
		return K8P2{}, 0, ErrK8P2BadMagic
	}
	if buf[4] != K8P2Version {
		return K8P2{}, 0, ErrK8P2BadVersion
	}

	leftLen := binary.LittleEndian.Uint32(buf[5:9])
	rightLen := binary.LittleEndian.Uint32(buf[9:13])

	off := headerLen
	if uint64(off)+uint64(leftLen) > uint64(len(buf)) {
		return K8P2{}, 0, ErrK8P2TooShort
	}
	left := buf[off : off+int(leftLen)]
	off += int(leftLen)

	if uint64(off)+uint64(rightLen) > uint64(len(buf)) {
		return K8P2{}, 0, ErrK8P2TooShort
	}
	right := buf[off : off+int(rightLen)]
	off += int(rightLen)

	return K8P2{Left: left, Right: right}, off, nil
}
