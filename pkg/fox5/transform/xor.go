package transform

import "fmt"

// XORCipher applies the 16-byte container seed as a repeating XOR key.
// It covers containers produced by in-house tooling; retail containers use a
// proprietary cipher that has to be supplied by the caller.
type XORCipher struct{}

// Decrypt XORs the file-resident prefix of buf with the seed
func (XORCipher) Decrypt(buf []byte, compressedLen, totalLen int, seed [16]byte) error {
	if compressedLen < 0 || compressedLen > len(buf) {
		return fmt.Errorf("xor: stored length %d outside buffer of %d bytes", compressedLen, len(buf))
	}
	if totalLen < compressedLen {
		return fmt.Errorf("xor: total length %d below stored length %d", totalLen, compressedLen)
	}
	XOR(buf[:compressedLen], seed[:])
	return nil
}

// XOR encodes data in place with a repeating key. XOR is its own inverse.
func XOR(data []byte, key []byte) {
	if len(key) == 0 {
		return
	}
	for i := range data {
		data[i] ^= key[i%len(key)]
	}
}
