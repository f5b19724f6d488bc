package hash

import (
	"crypto/sha256"
)

// Sha256 hashes the given data with SHA-256.
func Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// DoubleSha256 hashes the given data twice with SHA-256.
func DoubleSha256(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// Checksum returns the message checksum: the first four bytes
// of the double SHA-256 of data.
func Checksum(data []byte) [4]byte {
	var sum [4]byte
	h := DoubleSha256(data)
	copy(sum[:], h[:4])
	return sum
}
