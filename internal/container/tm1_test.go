package container

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTM1RoundTrip(t *testing.T) {
	tm := TM1{
		Mode:            0,
		BitsPerEmission: 8,
		MaxTicksUsed:    80_000_000,
		Indices:         []uint64{100, 101, 102, 200, 500, 501},
	}
	buf, err := EncodeTM1(tm)
	require.NoError(t, err)

	got, err := DecodeTM1(buf)
	require.NoError(t, err)
	require.Equal(t, tm.Mode, got.Mode)
	require.Equal(t, tm.BitsPerEmission, got.BitsPerEmission)
	require.Equal(t, tm.MaxTicksUsed, got.MaxTicksUsed)
	require.Equal(t, tm.Indices, got.Indices)
}

func TestTM1EmptyIndices(t *testing.T) {
	tm := TM1{Mode: 1, BitsPerEmission: 8, Indices: nil}
	buf, err := EncodeTM1(tm)
	require.NoError(t, err)

	got, err := DecodeTM1(buf)
	require.NoError(t, err)
	require.Empty(t, got.Indices)
}

func TestTM1SingleIndex(t *testing.T) {
	tm := TM1{Mode: 0, BitsPerEmission: 8, Indices: []uint64{42}}
	buf, err := EncodeTM1(tm)
	require.NoError(t, err)

	got, err := DecodeTM1(buf)
	require.NoError(t, err)
	require.Equal(t, []uint64{42}, got.Indices)
}

func TestTM1EncodeRejectsNonIncreasing(t *testing.T) {
	tm := TM1{Indices: []uint64{5, 5}}
	_, err := EncodeTM1(tm)
	require.ErrorIs(t, err, ErrTM1NotSorted)
}

func TestTM1DecodeRejectsCorruptedChecksum(t *testing.T) {
	tm := TM1{Mode: 0, BitsPerEmission: 8, Indices: []uint64{1, 2, 3}}
	buf, err := EncodeTM1(tm)
	require.NoError(t, err)
	buf[len(buf)-1] ^= 0xFF
	_, err = DecodeTM1(buf)
	require.ErrorIs(t, err, ErrTM1Checksum)
}

func TestTM1DecodeRejectsBadMagic(t *testing.T) {
	tm := TM1{Indices: []uint64{1, 2}}
	buf, err := EncodeTM1(tm)
	require.NoError(t, err)
	buf[0] = 'X'
	_, err = DecodeTM1(buf)
	require.ErrorIs(t, err, ErrTM1BadMagic)
}
