package container

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestK8P2RoundTrip(t *testing.T) {
	left := []byte("left child payload")
	right := []byte("right child payload, different length")

	buf := EncodeK8P2(left, right)
	got, consumed, err := DecodeK8P2(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), consumed)
	require.Equal(t, left, got.Left)
	require.Equal(t, right, got.Right)
}

func TestK8P2SelfDelimitingConcatenation(t *testing.T) {
	first := EncodeK8P2([]byte("a"), []byte("b"))
	second := EncodeK8P2([]byte("ccc"), []byte("dddd"))
	combined := append(append([]byte{}, first...), second...)

	got1, n1, err := DecodeK8P2(combined)
	require.NoError(t, err)
	require.Equal(t, []byte("a"), got1.Left)
	require.Equal(t, len(first), n1)

	got2, n2, err := DecodeK8P2(combined[n1:])
	require.NoError(t, err)
	require.Equal(t, []byte("ccc"), got2.Left)
	require.Equal(t, len(second), n2)
}

func TestK8P2NestedChild(t *testing.T) {
	inner := EncodeK8P2([]byte("leaf-a"), []byte("leaf-b"))
	outer := EncodeK8P2(inner, []byte("leaf-c"))

	got, _, err := DecodeK8P2(outer)
	require.NoError(t, err)

	nested, _, err := DecodeK8P2(got.Left)
	require.NoError(t, err)
	require.Equal(t, []byte("leaf-a"), nested.Left)
}

func TestK8P2RejectsBadMagic(t *testing.T) {
	buf := EncodeK8P2([]byte("x"), []byte("y"))
	buf[0] ^= 0xFF
	_, _, err := DecodeK8P2(buf)
	require.ErrorIs(t, err, ErrK8P2BadMagic)
}

func TestK8P2RejectsBadVersion(t *testing.T) {
	buf := EncodeK8P2([]byte("x"), []byte("y"))
	buf[4] = K8P2Version + 1
	_, _, err := DecodeK8P2(buf)
	require.ErrorIs(t, err, ErrK8P2BadVersion)
}

func TestK8P2WireLayoutMatchesSpec(t *testing.T) {
	left := []byte("ab")
	right := []byte("cde")
	buf := EncodeK8P2(left, right)

	require.Equal(t, []byte("K8P2"), buf[0:4])
	require.Equal(t, byte(K8P2Version), buf[4])
	require.Equal(t, []byte{2, 0, 0, 0}, buf[5:9])
	require.Equal(t, []byte{3, 0, 0, 0}, buf[9:13])
	require.Equal(t, left, buf[13:15])
	require.Equal(t, right, buf[15:18])
	require.Len(t, buf, 18)
}

func TestK8P2RejectsTruncated(t *testing.T) {
	buf := EncodeK8P2([]byte("longer left"), []byte("longer right"))
	_, _, err := DecodeK8P2(buf[:10])
	require.ErrorIs(t, err, ErrK8P2TooShort)
}
