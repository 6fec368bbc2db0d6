package easyhd

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
)

// ErrInvalidKey is returned when key material is zero, is not less than the
// group order, or names the point at infinity.
var ErrInvalidKey = fmt.Errorf("invalid key")

// Scalar is a validated private key value on the backend's curve.
type Scalar interface {
	// Serialize returns the scalar as a 32-byte big-endian integer.
	Serialize() [32]byte
}

// Point is a validated public key point on the backend's curve.
type Point interface {
	// SerializeCompressed returns the point in 33-byte SEC compressed form.
	SerializeCompressed() []byte
}

// CurveBackend supplies the elliptic curve group arithmetic used by key
// derivation. A backend must be safe for concurrent read-only use; every key
// borrows a shared handle and never mutates it.
type CurveBackend interface {
	// ScalarFromBytes validates b and returns it as a scalar. It returns
	// ErrInvalidKey if b is zero or not less than the group order.
	ScalarFromBytes(b [32]byte) (Scalar, error)

	// ScalarToPoint returns the public point s*G.
	ScalarToPoint(s Scalar) Point

	// TweakAddScalar returns (s + tweak) mod N. It returns ErrInvalidKey if
	// the tweak is not less than the group order, or if the result is zero.
	TweakAddScalar(s Scalar, tweak [32]byte) (Scalar, error)

	// TweakAddPoint returns tweak*G + p. It returns ErrInvalidKey if the
	// tweak is not less than the group order, or if the result is the point
	// at infinity.
	TweakAddPoint(p Point, tweak [32]byte) (Point, error)

	// ParsePoint deserializes a point from its compressed form.
	ParsePoint(b []byte) (Point, error)
}

// Secp256k1 returns the secp256k1 curve backend. The backend is stateless
// and may be shared by any number of keys and goroutines.
func Secp256k1() CurveBackend {
	return secp256k1Backend{}
}

type secp256k1Scalar struct {
	key btcec.ModNScalar
}

func (s *secp256k1Scalar) Serialize() [32]byte {
	return s.key.Bytes()
}

type secp256k1Point struct {
	pub *btcec.PublicKey
}

func (p *secp256k1Point) SerializeCompressed() []byte {
	return p.pub.SerializeCompressed()
}

type secp256k1Backend struct{}

func (secp256k1Backend) ScalarFromBytes(b [32]byte) (Scalar, error) {
	var s secp256k1Scalar
	overflow := s.key.SetBytes(&b)
	if overflow != 0 || s.key.IsZero() {
		return nil, ErrInvalidKey
	}
	return &s, nil
}

func (secp256k1Backend) ScalarToPoint(s Scalar) Point {
	priv := btcec.PrivateKey{Key: s.(*secp256k1Scalar).key}
	return &secp256k1Point{pub: priv.PubKey()}
}

func (secp256k1Backend) TweakAddScalar(s Scalar, tweak [32]byte) (Scalar, error) {
	var t btcec.ModNScalar
	if t.SetBytes(&tweak) != 0 {
		return nil, ErrInvalidKey
	}
	var sum secp256k1Scalar
	sum.key.Set(&s.(*secp256k1Scalar).key)
	sum.key.Add(&t)
	if sum.key.IsZero() {
		return nil, ErrInvalidKey
	}
	return &sum, nil
}

func (secp256k1Backend) TweakAddPoint(p Point, tweak [32]byte) (Point, error) {
	var t btcec.ModNScalar
	if t.SetBytes(&tweak) != 0 {
		return nil, ErrInvalidKey
	}

	// childPoint = tweak*G + parentPoint
	var tweakJ, parentJ, childJ btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(&t, &tweakJ)
	p.(*secp256k1Point).pub.AsJacobian(&parentJ)
	btcec.AddNonConst(&tweakJ, &parentJ, &childJ)
	if (childJ.X.IsZero() && childJ.Y.IsZero()) || childJ.Z.IsZero() {
		return nil, ErrInvalidKey
	}
	childJ.ToAffine()
	return &secp256k1Point{pub: btcec.NewPublicKey(&childJ.X, &childJ.Y)}, nil
}

func (secp256k1Backend) ParsePoint(b []byte) (Point, error) {
	pub, err := btcec.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %v", err)
	}
	return &secp256k1Point{pub: pub}, nil
}
