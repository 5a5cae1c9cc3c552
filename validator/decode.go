package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v4/core"
	"github.com/auth0/go-jwt-middleware/v4/internal/base64url"
	"github.com/auth0/go-jwt-middleware/v4/signing"
)

// DefaultLeeway is the clock skew tolerated by Decode when WithLeeway is
// not given.
const DefaultLeeway time.Duration = 0

// DefaultAllowedAlgorithms is used by Decode when the caller passes an
// empty allow-list. Callers should always pass their own list.
var DefaultAllowedAlgorithms = []signing.Algorithm{signing.HS256}

// Segment names reported by InvalidEncoding errors.
const (
	SegmentHeader    = "header"
	SegmentPayload   = "payload"
	SegmentSignature = "signature"
)

type decodeOptions struct {
	now    func() time.Time
	leeway time.Duration
}

// DecodeOption tunes a single Decode call.
type DecodeOption func(*decodeOptions)

// WithClock sets the time source used for exp, nbf and iat checks.
func WithClock(now func() time.Time) DecodeOption {
	return func(o *decodeOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLeeway sets the tolerated clock skew. Negative values are treated
// as zero.
func WithLeeway(leeway time.Duration) DecodeOption {
	return func(o *decodeOptions) {
		o.leeway = max(leeway, 0)
	}
}

// rawToken is a token split into its segments, with the header and
// payload decoded.
type rawToken struct {
	signingInput string
	header       map[string]any
	claims       Claims
	signature    []byte
}

// Decode verifies token and returns its claims.
//
// The token's alg header must be one of allowed; the token can never
// choose its own algorithm. An empty allowed falls back to
// DefaultAllowedAlgorithms. The checks run in a fixed order and the first
// failure is returned as a *core.ValidationError.
func Decode(token string, key any, allowed []signing.Algorithm, opts ...DecodeOption) (Claims, error) {
	o := decodeOptions{now: time.Now, leeway: DefaultLeeway}
	for _, opt := range opts {
		opt(&o)
	}

	if signing.IsEmptyKey(key) {
		return nil, core.ErrEmptyKey
	}

	raw, err := parse(token)
	if err != nil {
		return nil, err
	}

	alg, err := headerAlgorithm(raw.header)
	if err != nil {
		return nil, err
	}

	if len(allowed) == 0 {
		allowed = DefaultAllowedAlgorithms
	}
	if !slices.Contains(allowed, alg) {
		return nil, core.NewValidationError(
			core.ErrorCodeDisallowedAlgorithm,
			fmt.Sprintf("%s: %q", core.ErrDisallowedAlgorithm.Message, string(alg)),
			nil,
		)
	}

	if _, err := signing.Lookup(alg); err != nil {
		return nil, err
	}

	ok, err := signing.Verify(raw.signingInput, raw.signature, key, alg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, core.ErrSignatureVerificationFailed
	}

	if err := ValidateTemporalClaims(raw.claims, o.now(), o.leeway); err != nil {
		return nil, err
	}

	return raw.claims, nil
}

// DecodeInsecure returns the payload of token without checking its
// header, signature, algorithm or time claims. Only the segment count and
// the payload encoding are checked.
//
// The result is attacker controlled. Use it for routing or debugging, for
// example to read an issuer before choosing a key, and never to authorize.
func DecodeInsecure(token string) (Claims, error) {
	_, payload, _, err := split(token)
	if err != nil {
		return nil, err
	}
	obj, err := decodeObject(payload, SegmentPayload)
	if err != nil {
		return nil, err
	}
	return Claims(obj), nil
}

// Validate reports whether Decode accepts token.
func Validate(token string, key any, allowed []signing.Algorithm, opts ...DecodeOption) bool {
	_, err := Decode(token, key, allowed, opts...)
	return err == nil
}

func split(token string) (header, payload, signature string, err error) {
	if strings.Count(token, ".") != 2 {
		return "", "", "", core.ErrMalformedToken
	}
	header, rest, _ := strings.Cut(token, ".")
	payload, signature, _ = strings.Cut(rest, ".")
	return header, payload, signature, nil
}

func parse(token string) (*rawToken, error) {
	headerSeg, payloadSeg, signatureSeg, err := split(token)
	if err != nil {
		return nil, err
	}

	header, err := decodeObject(headerSeg, SegmentHeader)
	if err != nil {
		return nil, err
	}
	claims, err := decodeObject(payloadSeg, SegmentPayload)
	if err != nil {
		return nil, err
	}

	signature, err := base64url.Decode(signatureSeg)
	if err != nil {
		return nil, core.InvalidEncodingError(SegmentSignature, err)
	}

	return &rawToken{
		signingInput: headerSeg + "." + payloadSeg,
		header:       header,
		claims:       Claims(claims),
		signature:    signature,
	}, nil
}

var (
	errNotObject    = errors.New("segment is not a JSON object")
	errTrailingData = errors.New("unexpected data after JSON object")
)

func decodeObject(segment, name string) (map[string]any, error) {
	data, err := base64url.Decode(segment)
	if err != nil {
		return nil, core.InvalidEncodingError(name, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, core.InvalidEncodingError(name, err)
	}
	if obj == nil {
		return nil, core.InvalidEncodingError(name, errNotObject)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, core.InvalidEncodingError(name, errTrailingData)
	}
	return obj, nil
}

func headerAlgorithm(header map[string]any) (signing.Algorithm, error) {
	alg, ok := header["alg"].(string)
	if !ok || alg == "" {
		return "", core.ErrUnspecifiedAlgorithm
	}
	return signing.Algorithm(alg), nil
}
