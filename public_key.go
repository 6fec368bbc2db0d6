package easyhd

import (
	"bytes"

	"github.com/btcsuite/btcutil/base58"
	"github.com/ethereum/go-ethereum/crypto"
)

// PublicKey pairs a public key point with the curve backend that performs
// arithmetic on it.
type PublicKey struct {
	key     Point
	backend CurveBackend
}

// NewPublicKeyFromCompressedBytes creates a public key from its 33-byte SEC
// compressed serialization.
func NewPublicKeyFromCompressedBytes(backend CurveBackend, b []byte) (*PublicKey, error) {
	point, err := backend.ParsePoint(b)
	if err != nil {
		return nil, err
	}
	return &PublicKey{key: point, backend: backend}, nil
}

// SerializeCompressed returns the public key serialized in SEC compressed
// format. The result is 33 bytes long.
func (pbk *PublicKey) SerializeCompressed() []byte {
	return pbk.key.SerializeCompressed()
}

// Fingerprint returns the first four bytes of Hash160 over the compressed
// public key.
func (pbk *PublicKey) Fingerprint() [4]byte {
	return fingerprint(pbk.SerializeCompressed())
}

// BitcoinAddress returns the P2PKH Bitcoin address for this public key.
func (pbk *PublicKey) BitcoinAddress() string {
	prefix := []byte{0x00}
	s := pbk.SerializeCompressed()
	hash := Hash160(s)
	s1 := bytes.Join([][]byte{prefix, hash}, nil)
	checkSum := Hash256(s1)[0:4]
	addr := bytes.Join([][]byte{s1, checkSum}, nil)
	return base58.Encode(addr)
}

// EthereumAddress returns an Ethereum address for this public key.
func (pbk *PublicKey) EthereumAddress() (string, error) {
	pub, err := crypto.DecompressPubkey(pbk.SerializeCompressed())
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

// Equal returns true if this key is equal to the other key.
func (pbk *PublicKey) Equal(other *PublicKey) bool {
	if other == nil {
		return false
	}
	return bytes.Equal(pbk.SerializeCompressed(), other.SerializeCompressed())
}

// EqualSerializedCompressed returns true if this key is equal to the other,
// given as serialized compressed representation.
func (pbk *PublicKey) EqualSerializedCompressed(other []byte) bool {
	return bytes.Equal(pbk.SerializeCompressed(), other)
}
