package easyhd

import "encoding/base64"

// base64urlEncode encodes b using Base64url encoding (Base64 without
// padding), as used by JWE.
func base64urlEncode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// base64urlDecode decodes a Base64url-encoded string.
func base64urlDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
