// Package xorobf provides the non-cryptographic XOR obfuscation layer
// applied to the residual side-channel before it hits a container.
// Adapted from a fixed-key XOR keystream pattern into one keyed by a
// recipe's field seed so that two recipes never share a keystream.
package xorobf

import "github.com/Y3LLOWVESTS/K8DNZ/internal/field"

// KeyStream derives n keystream bytes deterministically from seed using
// the same SplitMix64 mixer the cadence engine uses for field sampling
// (internal/field.SplitMix64), rather than a fixed constant key.
func KeyStream(seed uint64, n int) []byte {
	out := make([]byte, n)
	state := seed
	for i := 0; i < n; i += 8 {
		var mixed uint64
		state, mixed = field.SplitMix64(state)
		for j := 0; j < 8 && i+j < n; j++ {
			out[i+j] = byte(mixed >> (8 * j))
		}
	}
	return out
}

// Encode XORs data with a keystream derived from seed. Decode is the same
// operation: XOR is its own inverse.
func Encode(seed uint64, data []byte) []byte {
	key := KeyStream(seed, len(data))
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ key[i]
	}
	return out
}

// Decode reverses Encode.
func Decode(seed uint64, data []byte) []byte {
	return Encode(seed, data)
}
