package easyhd

import (
	"crypto/sha256"
	"hash"

	"golang.org/x/crypto/ripemd160"
)

// Hash256 does two rounds of SHA256 hashing.
func Hash256(data []byte) []byte {
	h := sha256.Sum256(data)
	h1 := sha256.Sum256(h[:])
	return h1[:]
}

// Calculate the hash of hasher over buf.
func calcHash(buf []byte, hasher hash.Hash) []byte {
	hasher.Write(buf)
	return hasher.Sum(nil)
}

// Hash160 calculates the hash ripemd160(sha256(b)).
func Hash160(buf []byte) []byte {
	return calcHash(calcHash(buf, sha256.New()), ripemd160.New())
}

// fingerprint returns the first four bytes of Hash160 over a serialized
// public key. It identifies a key's parent in extended key metadata; it is a
// hint, not a cryptographic binding.
func fingerprint(serializedPubKey []byte) [4]byte {
	var fp [4]byte
	copy(fp[:], Hash160(serializedPubKey)[:4])
	return fp
}
