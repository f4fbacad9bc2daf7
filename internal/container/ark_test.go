package container

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArkRoundTrip(t *testing.T) {
	recipe := []byte("a fake K8R blob")
	data := []byte("payload bytes that would normally be an .ark data section")

	buf := EncodeArk(recipe, data)
	got, err := DecodeArk(buf)
	require.NoError(t, err)
	require.Equal(t, recipe, got.Recipe)
	require.Equal(t, data, got.Data)
}

func TestArkEmptyPayload(t *testing.T) {
	buf := EncodeArk(nil, nil)
	got, err := DecodeArk(buf)
	require.NoError(t, err)
	require.Empty(t, got.Recipe)
	require.Empty(t, got.Data)
}

func TestArkRejectsBadMagic(t *testing.T) {
	buf := EncodeArk([]byte("r"), []byte("d"))
	buf[0] = 'X'
	_, err := DecodeArk(buf)
	require.ErrorIs(t, err, ErrArkBadMagic)
}

func TestArkRejectsCorruptedChecksum(t *testing.T) {
	buf := EncodeArk([]byte("r"), []byte("d"))
	buf[len(buf)-1] ^= 0xFF
	_, err := DecodeArk(buf)
	require.ErrorIs(t, err, ErrArkChecksum)
}

func TestArkRejectsTruncated(t *testing.T) {
	buf := EncodeArk([]byte("recipe"), []byte("data"))
	_, err := DecodeArk(buf[:6])
	require.ErrorIs(t, err, ErrArkTooShort)
}
