package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"maps"

	"github.com/auth0/go-jwt-middleware/v4/core"
	"github.com/auth0/go-jwt-middleware/v4/internal/base64url"
	"github.com/auth0/go-jwt-middleware/v4/signing"
)

type encodeOptions struct {
	header map[string]any
}

// EncodeOption adds fields to the header written by Encode.
type EncodeOption func(*encodeOptions)

// WithHeader adds extra header fields. An "alg" entry is ignored; the
// header always names the algorithm that produced the signature.
func WithHeader(fields map[string]any) EncodeOption {
	return func(o *encodeOptions) {
		if o.header == nil {
			o.header = make(map[string]any, len(fields))
		}
		maps.Copy(o.header, fields)
	}
}

// WithKeyID sets the "kid" header field.
func WithKeyID(kid string) EncodeOption {
	return WithHeader(map[string]any{"kid": kid})
}

var errClaimsNotObject = errors.New("claims must marshal to a JSON object")

// Encode issues a signed token for claims. The header is
// {"alg":alg,"typ":"JWT"} plus any fields from the options, and the
// result is accepted by Decode given the matching key and an allow-list
// containing alg.
func Encode(claims any, key any, alg signing.Algorithm, opts ...EncodeOption) (string, error) {
	var o encodeOptions
	for _, opt := range opts {
		opt(&o)
	}

	if _, err := signing.Lookup(alg); err != nil {
		return "", err
	}
	if signing.IsEmptyKey(key) {
		return "", core.ErrEmptyKey
	}

	header, err := encodeHeader(alg, o.header)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", core.NewValidationError(core.ErrorCodeInvalidClaims, errClaimsNotObject.Error(), err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(payload), []byte("{")) {
		return "", core.NewValidationError(core.ErrorCodeInvalidClaims, errClaimsNotObject.Error(), nil)
	}

	signingInput := base64url.Encode(header) + "." + base64url.Encode(payload)
	signature, err := signing.Sign(signingInput, key, alg)
	if err != nil {
		return "", err
	}

	return signingInput + "." + base64url.Encode(signature), nil
}

func encodeHeader(alg signing.Algorithm, extra map[string]any) ([]byte, error) {
	if len(extra) == 0 {
		return []byte(`{"alg":"` + string(alg) + `","typ":"JWT"}`), nil
	}

	header := map[string]any{"typ": "JWT"}
	maps.Copy(header, extra)
	header["alg"] = string(alg)

	data, err := json.Marshal(header)
	if err != nil {
		return nil, core.NewValidationError(core.ErrorCodeConfigInvalid, "header fields must be JSON serializable", err)
	}
	return data, nil
}
