package container

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBFnRoundTripEachBitWidth(t *testing.T) {
	for _, bits := range []uint8{1, 2, 8} {
		b := BFn{
			BitsPerEmission: bits,
			ResidualMode:    1,
			TotalSymbols:    17,
			Packed:          []byte{0xAB, 0xCD, 0xEF},
		}
		buf, err := EncodeBFn(b)
		require.NoError(t, err)

		got, err := DecodeBFn(buf)
		require.NoError(t, err)
		require.Equal(t, b.BitsPerEmission, got.BitsPerEmission)
		require.Equal(t, b.ResidualMode, got.ResidualMode)
		require.Equal(t, b.TotalSymbols, got.TotalSymbols)
		require.Equal(t, b.Packed, got.Packed)
	}
}

func TestBFnRejectsBadBitWidth(t *testing.T) {
	_, err := EncodeBFn(BFn{BitsPerEmission: 3})
	require.ErrorIs(t, err, ErrBFnBadBitWidth)
}

func TestBFnDecodeRejectsCorruptedChecksum(t *testing.T) {
	buf, err := EncodeBFn(BFn{BitsPerEmission: 8, Packed: []byte{1, 2, 3}})
	require.NoError(t, err)
	buf[len(buf)-1] ^= 0xFF
	_, err = DecodeBFn(buf)
	require.ErrorIs(t, err, ErrBFnChecksum)
}

func TestBFnDecodeRejectsBadMagic(t *testing.T) {
	buf, err := EncodeBFn(BFn{BitsPerEmission: 1, Packed: []byte{1}})
	require.NoError(t, err)
	buf[0] = 'X'
	_, err = DecodeBFn(buf)
	require.ErrorIs(t, err, ErrBFnBadMagic)
}
