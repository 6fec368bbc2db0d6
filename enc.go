package easyhd

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
)

var ErrInvalidSerializedKey = fmt.Errorf("invalid serialized extended key")
var ErrUnknownKeyVersion = fmt.Errorf("unknown extended key version")

// Mainnet version bytes per hint, following the BIP44/BIP49/BIP84
// conventions.
var xprvVersions = map[Hint][4]byte{
	Legacy:        {0x04, 0x88, 0xad, 0xe4}, // xprv
	Compatibility: {0x04, 0x9d, 0x78, 0x78}, // yprv
	SegWit:        {0x04, 0xb2, 0x43, 0x0c}, // zprv
}

var xpubVersions = map[Hint][4]byte{
	Legacy:        {0x04, 0x88, 0xb2, 0x1e}, // xpub
	Compatibility: {0x04, 0x9d, 0x7c, 0xb2}, // ypub
	SegWit:        {0x04, 0xb2, 0x47, 0x46}, // zpub
}

func versionForHint(versions map[Hint][4]byte, hint Hint) [4]byte {
	version, ok := versions[hint]
	if !ok {
		return versions[SegWit]
	}
	return version
}

func hintForVersion(versions map[Hint][4]byte, version [4]byte) (Hint, bool) {
	for hint, v := range versions {
		if v == version {
			return hint, true
		}
	}
	return 0, false
}

// serializeXKey renders the 78-byte BIP32 payload
// (version || depth || parent fingerprint || index || chain code || key
// data) with a 4-byte Hash256 checksum, base58-encoded.
func serializeXKey(version [4]byte, info XKeyInfo, keyData []byte) string {
	payload := make([]byte, 0, 82)
	payload = append(payload, version[:]...)
	payload = append(payload, info.Depth)
	payload = append(payload, info.ParentFingerprint[:]...)
	var indexBytes [4]byte
	binary.BigEndian.PutUint32(indexBytes[:], info.Index)
	payload = append(payload, indexBytes[:]...)
	payload = append(payload, info.ChainCode[:]...)
	payload = append(payload, keyData...)
	checkSum := Hash256(payload)[0:4]
	return base58.Encode(append(payload, checkSum...))
}

func parseXKey(s string) (version [4]byte, info XKeyInfo, keyData []byte, err error) {
	decoded := base58.Decode(s)
	if len(decoded) != 82 {
		err = ErrInvalidSerializedKey
		return
	}
	payload, checkSum := decoded[:78], decoded[78:]
	if !bytes.Equal(Hash256(payload)[0:4], checkSum) {
		err = ErrInvalidSerializedKey
		return
	}
	copy(version[:], payload[0:4])
	info.Depth = payload[4]
	copy(info.ParentFingerprint[:], payload[5:9])
	info.Index = binary.BigEndian.Uint32(payload[9:13])
	copy(info.ChainCode[:], payload[13:45])
	keyData = payload[45:78]
	return
}

// Serialize returns the base58check serialization of the extended private
// key: "xprv...", "yprv..." or "zprv..." depending on the hint.
func (x *ExtendedPrivateKey) Serialize() string {
	keyBytes := x.key.Serialize()
	keyData := make([]byte, 0, 33)
	keyData = append(keyData, 0x00)
	keyData = append(keyData, keyBytes[:]...)
	return serializeXKey(versionForHint(xprvVersions, x.info.Hint), x.info, keyData)
}

// Serialize returns the base58check serialization of the extended public
// key: "xpub...", "ypub..." or "zpub..." depending on the hint.
func (x *ExtendedPublicKey) Serialize() string {
	return serializeXKey(versionForHint(xpubVersions, x.info.Hint), x.info, x.key.SerializeCompressed())
}

// ParseExtendedPrivateKey parses a base58check-serialized extended private
// key. The hint is recovered from the version bytes.
func ParseExtendedPrivateKey(backend CurveBackend, s string) (*ExtendedPrivateKey, error) {
	version, info, keyData, err := parseXKey(s)
	if err != nil {
		return nil, err
	}
	hint, ok := hintForVersion(xprvVersions, version)
	if !ok {
		return nil, ErrUnknownKeyVersion
	}
	info.Hint = hint
	if keyData[0] != 0x00 {
		return nil, ErrInvalidSerializedKey
	}
	var b [32]byte
	copy(b[:], keyData[1:])
	key, err := backend.ScalarFromBytes(b)
	if err != nil {
		return nil, err
	}
	return &ExtendedPrivateKey{info: info, key: &PrivateKey{key: key, backend: backend}}, nil
}

// ParseExtendedPublicKey parses a base58check-serialized extended public
// key. The hint is recovered from the version bytes.
func ParseExtendedPublicKey(backend CurveBackend, s string) (*ExtendedPublicKey, error) {
	version, info, keyData, err := parseXKey(s)
	if err != nil {
		return nil, err
	}
	hint, ok := hintForVersion(xpubVersions, version)
	if !ok {
		return nil, ErrUnknownKeyVersion
	}
	info.Hint = hint
	key, err := NewPublicKeyFromCompressedBytes(backend, keyData)
	if err != nil {
		return nil, err
	}
	return &ExtendedPublicKey{info: info, key: key}, nil
}
