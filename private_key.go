package easyhd

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	PBKDF2_ITER = 16384
	PBKDF2_SIZE = 32
)

// PrivateKey pairs a raw private key value with the curve backend that
// performs arithmetic on it. The backend is borrowed, never owned; it must
// outlive every key referencing it.
type PrivateKey struct {
	key     Scalar
	backend CurveBackend
}

// NewPrivateKeyFromBytes creates a private key from 32 raw big-endian bytes.
// ErrInvalidKey is returned if the bytes are zero or not less than the group
// order.
func NewPrivateKeyFromBytes(backend CurveBackend, b [32]byte) (*PrivateKey, error) {
	key, err := backend.ScalarFromBytes(b)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key: key, backend: backend}, nil
}

// NewRandomPrivateKey creates a new random private key.
func NewRandomPrivateKey(backend CurveBackend) (*PrivateKey, error) {
	// Rejection sampling; a draw outside the group order is astronomically
	// rare.
	for {
		var b [32]byte
		if _, err := rand.Read(b[:]); err != nil {
			return nil, fmt.Errorf("failed to generate private key: %v", err)
		}
		key, err := backend.ScalarFromBytes(b)
		if err == nil {
			return &PrivateKey{key: key, backend: backend}, nil
		}
	}
}

// NewPrivateKeyFromPassword creates a private key from password using the
// PBKDF2 algorithm.
// See https://en.wikipedia.org/wiki/PBKDF2.
func NewPrivateKeyFromPassword(backend CurveBackend, password, salt []byte) (*PrivateKey, error) {
	secret := pbkdf2.Key(password, salt, PBKDF2_ITER, PBKDF2_SIZE, sha256.New)
	var b [32]byte
	copy(b[:], secret)
	return NewPrivateKeyFromBytes(backend, b)
}

// PublicKey returns the public key derived from this private key.
func (pk *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{key: pk.backend.ScalarToPoint(pk.key), backend: pk.backend}
}

// Serialize returns the private key as a 32-byte big-endian integer.
func (pk *PrivateKey) Serialize() [32]byte {
	return pk.key.Serialize()
}

// Equal returns true if this key is equal to the other key.
func (pk *PrivateKey) Equal(other *PrivateKey) bool {
	if other == nil {
		return false
	}
	return pk.key.Serialize() == other.key.Serialize()
}
