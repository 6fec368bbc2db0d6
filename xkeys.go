package easyhd

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"

	"github.com/tyler-smith/go-bip39"
)

var ErrSeedTooShort = fmt.Errorf("seed must be at least 16 bytes")
var ErrHardenedDerivationUnsupported = fmt.Errorf("cannot derive a hardened child from a public key")
var ErrDeriveBeyondMaxDepth = fmt.Errorf("cannot derive a key deeper than 255 levels")

// HardenedOffset is the index at which hardened derivation begins. An index
// with this bit set selects the hardened branch, which requires the private
// key.
const HardenedOffset uint32 = 0x80000000

// MinSeedBytes is the shortest seed MasterNode accepts (128 bits).
const MinSeedBytes = 16

// Extended key depth is stored in a single byte.
const maxKeyDepth = 255

// MasterHMACKey is the BIP32-standard HMAC key for master node construction.
var MasterHMACKey = []byte("Bitcoin seed")

// Hint suggests how keys below this node are meant to be encoded and
// addressed. It selects the serialization version bytes and nothing else.
type Hint int

const (
	// SegWit (BIP84, zprv/zpub) is the default.
	SegWit Hint = iota
	// Compatibility is SegWit wrapped in P2SH (BIP49, yprv/ypub).
	Compatibility
	// Legacy is P2PKH (BIP44, xprv/xpub).
	Legacy
)

// String returns the hint name as a string.
func (h Hint) String() string {
	switch h {
	case SegWit:
		return "SegWit"
	case Compatibility:
		return "Compatibility"
	case Legacy:
		return "Legacy"
	}
	return "Invalid"
}

// XKeyInfo is the metadata that makes a key an extended key: its position in
// the tree and the chain code produced alongside it.
type XKeyInfo struct {
	// Depth is the number of ancestors, 0 for a master node.
	Depth byte
	// ParentFingerprint identifies the immediate parent, all-zero for a
	// master node. It is a hint, not a cryptographic binding.
	ParentFingerprint [4]byte
	// Index is the child index used to reach this key, hardened bit
	// included.
	Index uint32
	// ChainCode is the 32 bytes of entropy produced together with the key.
	ChainCode [32]byte
	// Hint is the address type hint.
	Hint Hint
}

// ExtendedPrivateKey is a private key together with its HD metadata. It is
// an immutable value object; derivation always produces a new instance.
type ExtendedPrivateKey struct {
	info XKeyInfo
	key  *PrivateKey
}

// ExtendedPublicKey is a public key together with its HD metadata. It is an
// immutable value object; derivation always produces a new instance.
type ExtendedPublicKey struct {
	info XKeyInfo
	key  *PublicKey
}

// hmacAndSplit runs one HMAC-SHA512 round and splits the 64-byte output
// into the candidate key material and the chain code.
func hmacAndSplit(key, data []byte) (keyBytes [32]byte, chainCode [32]byte) {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	sum := mac.Sum(nil)
	copy(keyBytes[:], sum[:32])
	copy(chainCode[:], sum[32:])
	return
}

// CustomMasterNode creates a master node from seed using a caller-supplied
// HMAC key, for non-standard derivation schemes. The seed must be at least
// 16 bytes (128 bits) long; use more.
func CustomMasterNode(hmacKey, seed []byte, hint Hint, backend CurveBackend) (*ExtendedPrivateKey, error) {
	if len(seed) < MinSeedBytes {
		return nil, ErrSeedTooShort
	}
	keyBytes, chainCode := hmacAndSplit(hmacKey, seed)
	key, err := backend.ScalarFromBytes(keyBytes)
	if err != nil {
		return nil, err
	}
	return &ExtendedPrivateKey{
		info: XKeyInfo{
			Depth:     0,
			Index:     0,
			ChainCode: chainCode,
			Hint:      hint,
		},
		key: &PrivateKey{key: key, backend: backend},
	}, nil
}

// MasterNode creates a master node from seed using the BIP32-standard HMAC
// key. The seed must be at least 16 bytes (128 bits) long; use more.
func MasterNode(seed []byte, hint Hint, backend CurveBackend) (*ExtendedPrivateKey, error) {
	return CustomMasterNode(MasterHMACKey, seed, hint, backend)
}

// MasterNodeFromMnemonic creates a master node from a BIP39 mnemonic phrase
// and passphrase (use "" for none).
func MasterNodeFromMnemonic(mnemonic, passphrase string, hint Hint, backend CurveBackend) (*ExtendedPrivateKey, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	return MasterNode(seed, hint, backend)
}

// Info returns a copy of the extended key metadata.
func (x *ExtendedPrivateKey) Info() XKeyInfo {
	return x.info
}

// PrivateKey returns the wrapped private key.
func (x *ExtendedPrivateKey) PrivateKey() *PrivateKey {
	return x.key
}

// PublicKey returns the public key derived from the wrapped private key.
func (x *ExtendedPrivateKey) PublicKey() *PublicKey {
	return x.key.PublicKey()
}

// Fingerprint returns the fingerprint of this key, used as the parent
// fingerprint of its children.
func (x *ExtendedPrivateKey) Fingerprint() [4]byte {
	return x.PublicKey().Fingerprint()
}

// Neuter returns the extended public key corresponding to this extended
// private key, preserving all metadata. The projection is pure; calling it
// twice yields identical results.
func (x *ExtendedPrivateKey) Neuter() *ExtendedPublicKey {
	return &ExtendedPublicKey{info: x.info, key: x.PublicKey()}
}

// derivationData assembles the HMAC input for one derivation step:
// 0x00 || ser256(privKey) || ser32(index) for hardened indices,
// serP(pubKey) || ser32(index) otherwise.
func (x *ExtendedPrivateKey) derivationData(index uint32) []byte {
	data := make([]byte, 0, 37)
	if index&HardenedOffset != 0 {
		keyBytes := x.key.Serialize()
		data = append(data, 0x00)
		data = append(data, keyBytes[:]...)
	} else {
		data = append(data, x.PublicKey().SerializeCompressed()...)
	}
	var indexBytes [4]byte
	binary.BigEndian.PutUint32(indexBytes[:], index)
	return append(data, indexBytes[:]...)
}

// DeriveChild derives the child extended private key at index. It is a pure
// function of the parent key, the parent chain code and the index; it fails
// with ErrInvalidKey in the astronomically rare case the index produces an
// unusable key, which per BIP32 is reported rather than retried.
func (x *ExtendedPrivateKey) DeriveChild(index uint32) (*ExtendedPrivateKey, error) {
	if x.info.Depth == maxKeyDepth {
		return nil, ErrDeriveBeyondMaxDepth
	}
	tweak, chainCode := hmacAndSplit(x.info.ChainCode[:], x.derivationData(index))
	childKey, err := x.key.backend.TweakAddScalar(x.key.key, tweak)
	if err != nil {
		return nil, err
	}
	return &ExtendedPrivateKey{
		info: XKeyInfo{
			Depth:             x.info.Depth + 1,
			ParentFingerprint: x.Fingerprint(),
			Index:             index,
			ChainCode:         chainCode,
			Hint:              x.info.Hint,
		},
		key: &PrivateKey{key: childKey, backend: x.key.backend},
	}, nil
}

// DerivePath derives the descendant at path, applying one DeriveChild step
// per index left to right. An empty path returns the key itself. The
// application is atomic: the first failing step aborts the whole derivation.
func (x *ExtendedPrivateKey) DerivePath(path DerivationPath) (*ExtendedPrivateKey, error) {
	current := x
	for _, index := range path {
		next, err := current.DeriveChild(index)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// Info returns a copy of the extended key metadata.
func (x *ExtendedPublicKey) Info() XKeyInfo {
	return x.info
}

// PublicKey returns the wrapped public key.
func (x *ExtendedPublicKey) PublicKey() *PublicKey {
	return x.key
}

// Fingerprint returns the fingerprint of this key, used as the parent
// fingerprint of its children.
func (x *ExtendedPublicKey) Fingerprint() [4]byte {
	return x.key.Fingerprint()
}

// DeriveChild derives the child extended public key at index. Hardened
// indices cannot be derived from a public key alone; they fail with
// ErrHardenedDerivationUnsupported. This is a protocol-level limitation.
func (x *ExtendedPublicKey) DeriveChild(index uint32) (*ExtendedPublicKey, error) {
	if x.info.Depth == maxKeyDepth {
		return nil, ErrDeriveBeyondMaxDepth
	}
	if index&HardenedOffset != 0 {
		return nil, ErrHardenedDerivationUnsupported
	}
	data := make([]byte, 0, 37)
	data = append(data, x.key.SerializeCompressed()...)
	var indexBytes [4]byte
	binary.BigEndian.PutUint32(indexBytes[:], index)
	data = append(data, indexBytes[:]...)

	tweak, chainCode := hmacAndSplit(x.info.ChainCode[:], data)
	childKey, err := x.key.backend.TweakAddPoint(x.key.key, tweak)
	if err != nil {
		return nil, err
	}
	return &ExtendedPublicKey{
		info: XKeyInfo{
			Depth:             x.info.Depth + 1,
			ParentFingerprint: x.Fingerprint(),
			Index:             index,
			ChainCode:         chainCode,
			Hint:              x.info.Hint,
		},
		key: &PublicKey{key: childKey, backend: x.key.backend},
	}, nil
}

// DerivePath derives the descendant at path, applying one DeriveChild step
// per index left to right. An empty path returns the key itself. The first
// hardened index fails the whole derivation with
// ErrHardenedDerivationUnsupported; no partial result is returned.
func (x *ExtendedPublicKey) DerivePath(path DerivationPath) (*ExtendedPublicKey, error) {
	current := x
	for _, index := range path {
		next, err := current.DeriveChild(index)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}
