package validator

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auth0/go-jwt-middleware/v4/core"
	"github.com/auth0/go-jwt-middleware/v4/internal/base64url"
	"github.com/auth0/go-jwt-middleware/v4/signing"
)

func TestDecode_EndToEnd(t *testing.T) {
	exp := testNow.Unix() + 3600
	token, err := Encode(map[string]any{"sub": "u1", "exp": exp}, testSecret, signing.HS256)
	require.NoError(t, err)

	t.Run("matching key and allow-list returns the payload", func(t *testing.T) {
		claims, err := Decode(token, testSecret, []signing.Algorithm{signing.HS256}, WithClock(fixedClock))
		require.NoError(t, err)

		want := Claims{"sub": "u1", "exp": json.Number("1700003600")}
		if diff := cmp.Diff(want, claims); diff != "" {
			t.Errorf("claims mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("allow-list without the token algorithm", func(t *testing.T) {
		_, err := Decode(token, testSecret, []signing.Algorithm{signing.HS384}, WithClock(fixedClock))
		assert.ErrorIs(t, err, core.ErrDisallowedAlgorithm)
	})

	t.Run("different key", func(t *testing.T) {
		_, err := Decode(token, []byte("another-32-byte-secret-for-tests"), []signing.Algorithm{signing.HS256}, WithClock(fixedClock))
		assert.ErrorIs(t, err, core.ErrSignatureVerificationFailed)
		assert.ErrorIs(t, err, core.ErrJWTInvalid)
	})

	t.Run("validate wrapper", func(t *testing.T) {
		assert.True(t, Validate(token, testSecret, []signing.Algorithm{signing.HS256}, WithClock(fixedClock)))
		assert.False(t, Validate(token, testSecret, []signing.Algorithm{signing.HS512}, WithClock(fixedClock)))
		assert.False(t, Validate(token, nil, []signing.Algorithm{signing.HS256}, WithClock(fixedClock)))
	})
}

func TestDecode_Pipeline(t *testing.T) {
	allowed := []signing.Algorithm{signing.HS256}
	valid := rawSigned(t, `{"alg":"HS256","typ":"JWT"}`, `{"sub":"u1"}`, testSecret, signing.HS256)
	header, payload, signature, err := split(valid)
	require.NoError(t, err)

	testCases := []struct {
		name        string
		token       string
		key         any
		allowed     []signing.Algorithm
		wantErr     error
		wantSegment string
	}{
		{
			name:    "empty key is checked first",
			token:   "not-a-token",
			key:     []byte{},
			wantErr: core.ErrEmptyKey,
		},
		{
			name:    "one separator",
			token:   header + "." + payload,
			wantErr: core.ErrMalformedToken,
		},
		{
			name:    "three separators",
			token:   valid + ".",
			wantErr: core.ErrMalformedToken,
		},
		{
			name:    "no separator",
			token:   "",
			wantErr: core.ErrMalformedToken,
		},
		{
			name:    "structure is checked before decoding",
			token:   "!!!.???",
			wantErr: core.ErrMalformedToken,
		},
		{
			name:        "header is not base64url",
			token:       "e+yJ." + payload + "." + signature,
			wantErr:     core.ErrInvalidEncoding,
			wantSegment: SegmentHeader,
		},
		{
			name:        "header is not JSON",
			token:       base64url.Encode([]byte("alg")) + "." + payload + "." + signature,
			wantErr:     core.ErrInvalidEncoding,
			wantSegment: SegmentHeader,
		},
		{
			name:        "header is a JSON array",
			token:       base64url.Encode([]byte(`["HS256"]`)) + "." + payload + "." + signature,
			wantErr:     core.ErrInvalidEncoding,
			wantSegment: SegmentHeader,
		},
		{
			name:        "header has trailing data",
			token:       base64url.Encode([]byte(`{"alg":"HS256"}{}`)) + "." + payload + "." + signature,
			wantErr:     core.ErrInvalidEncoding,
			wantSegment: SegmentHeader,
		},
		{
			name:        "payload is null",
			token:       header + "." + base64url.Encode([]byte("null")) + "." + signature,
			wantErr:     core.ErrInvalidEncoding,
			wantSegment: SegmentPayload,
		},
		{
			name:        "payload is padded",
			token:       header + "." + payload + "==." + signature,
			wantErr:     core.ErrInvalidEncoding,
			wantSegment: SegmentPayload,
		},
		{
			name:        "signature is not base64url",
			token:       header + "." + payload + ".a/b",
			wantErr:     core.ErrInvalidEncoding,
			wantSegment: SegmentSignature,
		},
		{
			name:    "alg missing",
			token:   rawSigned(t, `{"typ":"JWT"}`, `{}`, testSecret, signing.HS256),
			wantErr: core.ErrUnspecifiedAlgorithm,
		},
		{
			name:    "alg empty",
			token:   rawSigned(t, `{"alg":""}`, `{}`, testSecret, signing.HS256),
			wantErr: core.ErrUnspecifiedAlgorithm,
		},
		{
			name:    "alg not a string",
			token:   rawSigned(t, `{"alg":256}`, `{}`, testSecret, signing.HS256),
			wantErr: core.ErrUnspecifiedAlgorithm,
		},
		{
			name:    "alg none is never allowed",
			token:   base64url.Encode([]byte(`{"alg":"none"}`)) + "." + payload + ".",
			wantErr: core.ErrDisallowedAlgorithm,
		},
		{
			name:    "allow-list is case sensitive",
			token:   rawSigned(t, `{"alg":"hs256"}`, `{}`, testSecret, signing.HS256),
			wantErr: core.ErrDisallowedAlgorithm,
		},
		{
			name:    "allowed but not supported",
			token:   rawSigned(t, `{"alg":"HS1024"}`, `{}`, testSecret, signing.HS256),
			allowed: []signing.Algorithm{"HS1024"},
			wantErr: core.ErrUnsupportedAlgorithm,
		},
		{
			name:    "empty allow-list falls back to HS256",
			token:   rawSigned(t, `{"alg":"HS512"}`, `{}`, testSecret, signing.HS512),
			allowed: []signing.Algorithm{},
			wantErr: core.ErrDisallowedAlgorithm,
		},
		{
			name:    "signature does not match",
			token:   header + "." + base64url.Encode([]byte(`{"sub":"admin"}`)) + "." + signature,
			wantErr: core.ErrSignatureVerificationFailed,
		},
		{
			name:    "secret used with an asymmetric algorithm",
			token:   base64url.Encode([]byte(`{"alg":"RS256"}`)) + "." + payload + "." + signature,
			allowed: []signing.Algorithm{signing.RS256},
			wantErr: core.ErrVerificationBackend,
		},
		{
			name:        "time claim of the wrong type",
			token:       rawSigned(t, `{"alg":"HS256"}`, `{"exp":"tomorrow"}`, testSecret, signing.HS256),
			wantErr:     core.ErrInvalidEncoding,
			wantSegment: SegmentPayload,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			key := tc.key
			if key == nil {
				key = testSecret
			}
			list := tc.allowed
			if list == nil {
				list = allowed
			}

			claims, err := Decode(tc.token, key, list, WithClock(fixedClock))
			assert.Nil(t, claims)
			require.ErrorIs(t, err, tc.wantErr)

			if tc.wantSegment != "" {
				var vErr *core.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tc.wantSegment, vErr.Segment)
			}
		})
	}
}

func TestDecode_AlgorithmConfusion(t *testing.T) {
	token, err := Encode(Claims{"sub": "u1"}, testSecret, signing.HS256)
	require.NoError(t, err)

	// A token signed with HS256 must not pass a verifier configured for
	// RS256 only, even though the header names a valid algorithm.
	_, err = Decode(token, testSecret, []signing.Algorithm{signing.RS256, signing.ES256})
	assert.ErrorIs(t, err, core.ErrDisallowedAlgorithm)
}

func TestDecode_TemporalClaims(t *testing.T) {
	sign := func(payload map[string]any) string {
		token, err := Encode(payload, testSecret, signing.HS256)
		require.NoError(t, err)
		return token
	}
	now := testNow.Unix()
	allowed := []signing.Algorithm{signing.HS256}

	testCases := []struct {
		name    string
		payload map[string]any
		leeway  time.Duration
		wantErr error
	}{
		{name: "expired one second ago", payload: map[string]any{"exp": now - 1}, wantErr: core.ErrExpired},
		{name: "expired within leeway", payload: map[string]any{"exp": now - 1}, leeway: time.Second},
		{name: "expires now", payload: map[string]any{"exp": now}},
		{name: "not valid for one more second", payload: map[string]any{"nbf": now + 1}, wantErr: core.ErrNotYetValid},
		{name: "not before within leeway", payload: map[string]any{"nbf": now + 1}, leeway: time.Second},
		{name: "issued in the future", payload: map[string]any{"iat": now + 5}, wantErr: core.ErrIssuedInFuture},
		{name: "issued in the future within leeway", payload: map[string]any{"iat": now + 5}, leeway: 5 * time.Second},
		{name: "fractional expiry", payload: map[string]any{"exp": float64(now) + 0.5}},
		{name: "not before at max int64", payload: map[string]any{"nbf": int64(math.MaxInt64)}, wantErr: core.ErrNotYetValid},
		{name: "issued at max int64", payload: map[string]any{"iat": int64(math.MaxInt64)}, wantErr: core.ErrIssuedInFuture},
		{name: "expiry at max int64", payload: map[string]any{"exp": int64(math.MaxInt64)}},
		{
			name:    "expiry is checked before not-before",
			payload: map[string]any{"exp": now - 10, "nbf": now + 10},
			wantErr: core.ErrExpired,
		},
		{name: "no temporal claims", payload: map[string]any{"sub": "u1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(sign(tc.payload), testSecret, allowed, WithClock(fixedClock), WithLeeway(tc.leeway))
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestDecode_TamperedInput(t *testing.T) {
	token, err := Encode(Claims{"sub": "u1", "role": "reader"}, testSecret, signing.HS256)
	require.NoError(t, err)
	allowed := []signing.Algorithm{signing.HS256}

	dot := strings.LastIndex(token, ".")
	for i := 0; i < dot; i++ {
		if token[i] == '.' {
			continue
		}
		b := []byte(token)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		assert.False(t, Validate(string(b), testSecret, allowed), "byte %d", i)
	}
}

func TestDecode_PreservesLargeIntegers(t *testing.T) {
	token := rawSigned(t, `{"alg":"HS256"}`, `{"id":9007199254740993}`, testSecret, signing.HS256)

	claims, err := Decode(token, testSecret, []signing.Algorithm{signing.HS256})
	require.NoError(t, err)
	assert.Equal(t, json.Number("9007199254740993"), claims["id"])
}

func TestDecodeInsecure(t *testing.T) {
	t.Run("returns claims without verifying", func(t *testing.T) {
		token := rawSigned(t, `{"alg":"HS256"}`, `{"iss":"https://issuer/","exp":1}`, []byte("unknown"), signing.HS256)

		claims, err := DecodeInsecure(token)
		require.NoError(t, err)
		iss, ok := claims.StringValue("iss")
		assert.True(t, ok)
		assert.Equal(t, "https://issuer/", iss)
	})

	t.Run("ignores the header", func(t *testing.T) {
		token := "!!!." + base64url.Encode([]byte(`{"sub":"u1"}`)) + ".x"

		claims, err := DecodeInsecure(token)
		require.NoError(t, err)
		sub, ok := claims.StringValue("sub")
		assert.True(t, ok)
		assert.Equal(t, "u1", sub)
	})

	t.Run("still requires three segments", func(t *testing.T) {
		_, err := DecodeInsecure("a.b")
		assert.ErrorIs(t, err, core.ErrMalformedToken)
	})

	t.Run("rejects a broken payload", func(t *testing.T) {
		_, err := DecodeInsecure(base64url.Encode([]byte(`{}`)) + ".%%%.")
		assert.ErrorIs(t, err, core.ErrInvalidEncoding)
	})
}
