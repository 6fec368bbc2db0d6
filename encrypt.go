package easyhd

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-jose/go-jose/v3"
	"golang.org/x/crypto/scrypt"
)

const (
	// Key derivation parameters.
	deriveKey_N      = 16384
	deriveKey_r      = 8
	deriveKey_p      = 1
	deriveKey_keyLen = 32
)

// makeSalt creates random 32 bytes salt.
func makeSalt() ([]byte, error) {
	salt := make([]byte, 32)
	_, err := rand.Read(salt)
	if err != nil {
		return nil, err
	}
	return salt, nil
}

// deriveKey creates a symmetric encryption key (32 bytes long) from
// password and salt.
// Key derivation algorithm is described in https://www.tarsnap.com/scrypt/scrypt.pdf.
func deriveKey(password, salt []byte) ([]byte, error) {
	key, err := scrypt.Key(password, salt, deriveKey_N, deriveKey_r, deriveKey_p,
		deriveKey_keyLen)
	if err != nil {
		return nil, err
	}
	return key, nil
}

func encryptJWE(key []byte, content []byte) (string, error) {
	encrypter, err := jose.NewEncrypter(jose.A256GCM,
		jose.Recipient{Algorithm: jose.DIRECT, Key: key}, nil)
	if err != nil {
		return "", err
	}
	object, err := encrypter.Encrypt(content)
	if err != nil {
		return "", err
	}
	return object.FullSerialize(), nil
}

func decryptJWE(key []byte, content string) ([]byte, error) {
	object, err := jose.ParseEncrypted(content)
	if err != nil {
		return nil, err
	}
	decrypted, err := object.Decrypt(key)
	if err != nil {
		return nil, err
	}
	return decrypted, nil
}

func addJSONField(content string, name string, value interface{}) (string, error) {
	var i interface{}
	err := json.Unmarshal([]byte(content), &i)
	if err != nil {
		return "", err
	}
	m, ok := i.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid content")
	}
	m[name] = value
	b, err := json.Marshal(i)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func encryptWithPassphraseJWE(passphrase string, content []byte) (string, error) {
	salt, err := makeSalt()
	if err != nil {
		return "", err
	}
	key, err := deriveKey([]byte(passphrase), salt)
	if err != nil {
		return "", err
	}
	s, err := encryptJWE(key, content)
	if err != nil {
		return "", err
	}
	// The salt rides along in the serialized object.
	return addJSONField(s, "x-salt", base64urlEncode(salt))
}

func decryptWithPassphraseJWE(passphrase string, content string) ([]byte, error) {
	var i interface{}
	err := json.Unmarshal([]byte(content), &i)
	if err != nil {
		return nil, err
	}
	m, ok := i.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid content")
	}
	saltObj, ok := m["x-salt"]
	if !ok {
		return nil, fmt.Errorf("invalid content")
	}
	saltStr, ok := saltObj.(string)
	if !ok {
		return nil, fmt.Errorf("invalid content")
	}
	salt, err := base64urlDecode(saltStr)
	if err != nil {
		return nil, fmt.Errorf("invalid content")
	}
	key, err := deriveKey([]byte(passphrase), salt)
	if err != nil {
		return nil, err
	}
	return decryptJWE(key, content)
}

// Save saves the extended private key to the specified file. If passphrase
// is empty, the file contains the base58 serialization as-is. Otherwise it
// contains the serialization encrypted in JWE format.
func (x *ExtendedPrivateKey) Save(fileName string, passphrase string) error {
	content := x.Serialize()
	if passphrase != "" {
		var err error
		content, err = encryptWithPassphraseJWE(passphrase, []byte(content))
		if err != nil {
			return err
		}
	}
	return os.WriteFile(fileName, []byte(content), 0600)
}

// LoadExtendedPrivateKey loads an extended private key from fileName. If
// passphrase is given, the file is assumed to contain the key encrypted in
// JWE format.
func LoadExtendedPrivateKey(backend CurveBackend, fileName string, passphrase string) (*ExtendedPrivateKey, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %v", err)
	}
	content := data
	if passphrase != "" {
		content, err = decryptWithPassphraseJWE(passphrase, string(data))
		if err != nil {
			return nil, err
		}
	}
	return ParseExtendedPrivateKey(backend, string(content))
}
