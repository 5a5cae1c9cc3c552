// Package base64url implements the unpadded, URL-safe base64 variant used by
// every segment of a compact token.
package base64url

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidEncoding is returned when a segment is not valid unpadded
// base64url text.
var ErrInvalidEncoding = errors.New("base64url: invalid encoding")

// Encode returns the unpadded base64url form of data.
func Encode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// Decode reverses Encode. Padding is restored before decoding; anything
// outside the URL-safe alphabet, including '=' and line breaks, is rejected
// rather than skipped.
func Decode(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if !isURLSafe(s[i]) {
			return nil, ErrInvalidEncoding
		}
	}

	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}

	b, err := base64.URLEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, ErrInvalidEncoding
	}
	return b, nil
}

func isURLSafe(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}
