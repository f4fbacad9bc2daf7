package recipe

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/fixedturn"
)

// K8R is the recipe serialization blob: magic "K8R1", version, TLV
// records for each recipe field, CRC32 trailer. Field IDs are stable;
// unknown records are forward-preserved on read and re-emitted verbatim
// on write, grounded on the teacher's packed-descriptor
// discipline (pkg/psp/format_2025/slots.go) adapted from fixed-width to
// TLV.
const k8rMagic = "K8R1"

// Field IDs. Stable across versions; never renumber an existing ID.
const (
	fieldVersion uint8 = iota + 1
	fieldRecipeID
	fieldOrbitAPhase
	fieldOrbitAOmega
	fieldOrbitCPhase
	fieldOrbitCOmega
	fieldEpsilon
	fieldDelta
	fieldAxialStep
	fieldLockstepOmega
	fieldFieldSeed
	fieldClampLo
	fieldClampHi
	fieldQuantBins
	fieldQuantShift
	fieldMode
	fieldMaxTicksCap
)

// unknownRecord preserves a TLV record this build doesn't recognize so it
// can be round-tripped unchanged on the next write.
type unknownRecord struct {
	id      uint8
	payload []byte
}

// EncodeK8R serializes r into a K8R blob. extra carries any unknown
// records that were read from a prior blob and should be forward
// preserved.
func EncodeK8R(r *Recipe, extra []unknownRecord) []byte {
	var body bytes.Buffer

	writeTLV := func(id uint8, payload []byte) {
		body.WriteByte(id)
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
		body.Write(lenBuf[:])
		body.Write(payload)
	}
	u64 := func(v uint64) []byte {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		return b[:]
	}
	i32 := func(v int32) []byte {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		return b[:]
	}

	writeTLV(fieldVersion, []byte{r.Version})
	writeTLV(fieldRecipeID, r.RecipeID[:])
	writeTLV(fieldOrbitAPhase, u64(uint64(r.OrbitA.Phase)))
	writeTLV(fieldOrbitAOmega, u64(uint64(r.OrbitA.Omega)))
	writeTLV(fieldOrbitCPhase, u64(uint64(r.OrbitC.Phase)))
	writeTLV(fieldOrbitCOmega, u64(uint64(r.OrbitC.Omega)))
	writeTLV(fieldEpsilon, u64(uint64(r.Epsilon)))
	writeTLV(fieldDelta, u64(uint64(r.Delta)))
	writeTLV(fieldAxialStep, u64(uint64(r.AxialStep)))
	writeTLV(fieldLockstepOmega, u64(uint64(r.LockstepOmega)))
	writeTLV(fieldFieldSeed, u64(r.FieldSeed))
	writeTLV(fieldClampLo, i32(r.Clamp.Lo))
	writeTLV(fieldClampHi, i32(r.Clamp.Hi))
	writeTLV(fieldQuantBins, i32(int32(r.Quant.Bins)))
	writeTLV(fieldQuantShift, u64(r.Quant.Shift))
	writeTLV(fieldMode, []byte{uint8(r.Mode)})
	writeTLV(fieldMaxTicksCap, u64(r.MaxTicksCap))

	for _, rec := range extra {
		writeTLV(rec.id, rec.payload)
	}

	out := make([]byte, 0, 4+1+body.Len()+4)
	out = append(out, k8rMagic...)
	out = append(out, r.Version)
	out = append(out, body.Bytes()...)

	trailer := crc32.ChecksumIEEE(out)
	var crcBuf [4]byte
	binary.LittleEndian.PutUint32(crcBuf[:], trailer)
	return append(out, crcBuf[:]...)
}

// DecodeK8R parses a K8R blob back into a Recipe, preserving any unknown
// TLV records so they can be re-emitted by a subsequent EncodeK8R call.
func DecodeK8R(data []byte) (*Recipe, []unknownRecord, error) {
	if len(data) < 4+1+4 {
		return nil, nil, fmt.Errorf("k8r: truncated blob (%d bytes)", len(data))
	}
	if string(data[:4]) != k8rMagic {
		return nil, nil, fmt.Errorf("k8r: bad magic %q", data[:4])
	}
	payload := data[:len(data)-4]
	wantCRC := binary.LittleEndian.Uint32(data[len(data)-4:])
	if gotCRC := crc32.ChecksumIEEE(payload); gotCRC != wantCRC {
		return nil, nil, fmt.Errorf("k8r: crc mismatch: got 0x%08x want 0x%08x", gotCRC, wantCRC)
	}

	version := payload[4]
	body := payload[5:]

	var r Recipe
	r.Version = version
	var extras []unknownRecord

	for i := 0; i < len(body); {
		if i+5 > len(body) {
			return nil, nil, fmt.Errorf("k8r: truncated TLV header at offset %d", i)
		}
		id := body[i]
		length := binary.LittleEndian.Uint32(body[i+1 : i+5])
		start := i + 5
		end := start + int(length)
		if end > len(body) {
			return nil, nil, fmt.Errorf("k8r: truncated TLV payload at offset %d", i)
		}
		value := body[start:end]
		i = end

		switch id {
		case fieldVersion:
			r.Version = value[0]
		case fieldRecipeID:
			copy(r.RecipeID[:], value)
		case fieldOrbitAPhase:
			r.OrbitA.Phase = turn64(value)
		case fieldOrbitAOmega:
			r.OrbitA.Omega = turn64(value)
		case fieldOrbitCPhase:
			r.OrbitC.Phase = turn64(value)
		case fieldOrbitCOmega:
			r.OrbitC.Omega = turn64(value)
		case fieldEpsilon:
			r.Epsilon = turn64(value)
		case fieldDelta:
			r.Delta = turn64(value)
		case fieldAxialStep:
			r.AxialStep = turn64(value)
		case fieldLockstepOmega:
			r.LockstepOmega = turn64(value)
		case fieldFieldSeed:
			r.FieldSeed = binary.LittleEndian.Uint64(value)
		case fieldClampLo:
			r.Clamp.Lo = int32(binary.LittleEndian.Uint32(value))
		case fieldClampHi:
			r.Clamp.Hi = int32(binary.LittleEndian.Uint32(value))
		case fieldQuantBins:
			r.Quant.Bins = binary.LittleEndian.Uint32(value)
		case fieldQuantShift:
			r.Quant.Shift = binary.LittleEndian.Uint64(value)
		case fieldMode:
			r.Mode = Mode(value[0])
		case fieldMaxTicksCap:
			r.MaxTicksCap = binary.LittleEndian.Uint64(value)
		default:
			buf := make([]byte, len(value))
			copy(buf, value)
			extras = append(extras, unknownRecord{id: id, payload: buf})
		}
	}

	sealed, err := New(r)
	if err != nil {
		return nil, nil, fmt.Errorf("k8r: decoded recipe failed validation: %w", err)
	}
	return sealed, extras, nil
}

func turn64(b []byte) fixedturn.Turn {
	return fixedturn.Turn(binary.LittleEndian.Uint64(b))
}
