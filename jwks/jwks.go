package jwks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/auth0/go-jwt-middleware/v4/core"
	"github.com/auth0/go-jwt-middleware/v4/signing"
)

// ErrEmptySet is returned when parsed input holds no keys.
var ErrEmptySet = errors.New("jwks: key set is empty")

// ParseKey parses a single JWK (or, with WithPEM, a PEM block) and returns
// the raw key: []byte for oct keys, *rsa.PublicKey, *ecdsa.PublicKey,
// ed25519.PublicKey or their private counterparts.
func ParseKey(data []byte, opts ...Option) (any, error) {
	o := newOptions(opts)

	key, err := jwk.ParseKey(data, jwk.WithPEM(o.pem))
	if err != nil {
		return nil, fmt.Errorf("jwks: could not parse key: %w", err)
	}
	return rawKey(key)
}

// Set is an immutable collection of verification keys.
// It implements validator.KeySelector.
type Set struct {
	set jwk.Set
}

// ParseSet parses a JWK set document. A single JWK, or PEM input with
// WithPEM, yields a set of one key.
func ParseSet(data []byte, opts ...Option) (*Set, error) {
	o := newOptions(opts)

	set, err := jwk.Parse(data, jwk.WithPEM(o.pem))
	if err != nil {
		return nil, fmt.Errorf("jwks: could not parse key set: %w", err)
	}
	if set.Len() == 0 {
		return nil, ErrEmptySet
	}
	return &Set{set: set}, nil
}

// Len returns the number of keys in the set.
func (s *Set) Len() int {
	return s.set.Len()
}

// KeyIDs returns the kid of every key that has one, in set order.
func (s *Set) KeyIDs() []string {
	ids := make([]string, 0, s.set.Len())
	for i := 0; i < s.set.Len(); i++ {
		key, _ := s.set.Key(i)
		if kid := key.KeyID(); kid != "" {
			ids = append(ids, kid)
		}
	}
	return ids
}

// KeyFunc adheres to the keyFunc signature that the Validator requires.
// It returns the set itself, which the Validator then asks for a key.
func (s *Set) KeyFunc(context.Context) (any, error) {
	return s, nil
}

// SelectKey returns the raw key for a token's kid and alg.
//
// With a kid, the key must carry that kid. Without one, the first key whose
// type suits alg is used. A key that declares its own alg must match, and
// encryption keys are never used. No match is core.ErrKeyNotFound.
func (s *Set) SelectKey(kid string, alg signing.Algorithm) (any, error) {
	if kid != "" {
		key, ok := s.set.LookupKeyID(kid)
		if !ok || !usableFor(key, alg) {
			return nil, keyNotFound(kid, alg)
		}
		return rawKey(key)
	}

	for i := 0; i < s.set.Len(); i++ {
		key, _ := s.set.Key(i)
		if usableFor(key, alg) {
			return rawKey(key)
		}
	}
	return nil, keyNotFound(kid, alg)
}

func keyNotFound(kid string, alg signing.Algorithm) error {
	return core.NewValidationError(
		core.ErrorCodeKeyNotFound,
		fmt.Sprintf("%s (kid %q, alg %s)", core.ErrKeyNotFound.Message, kid, alg),
		nil,
	)
}

func usableFor(key jwk.Key, alg signing.Algorithm) bool {
	spec, err := signing.Lookup(alg)
	if err != nil {
		return false
	}
	if use := key.KeyUsage(); use != "" && use != string(jwk.ForSignature) {
		return false
	}
	if declared := key.Algorithm().String(); declared != "" && declared != string(alg) {
		return false
	}
	return key.KeyType() == keyTypeFor(spec.Scheme)
}

func keyTypeFor(scheme signing.Scheme) jwa.KeyType {
	switch scheme {
	case signing.SchemeHMAC:
		return jwa.OctetSeq
	case signing.SchemeRSAPKCS1v15, signing.SchemeRSAPSS:
		return jwa.RSA
	case signing.SchemeECDSA:
		return jwa.EC
	case signing.SchemeEdDSA:
		return jwa.OKP
	}
	return jwa.InvalidKeyType
}

func rawKey(key jwk.Key) (any, error) {
	var raw any
	if err := key.Raw(&raw); err != nil {
		return nil, fmt.Errorf("jwks: could not materialize %s key: %w", key.KeyType(), err)
	}
	return raw, nil
}

// Export renders the public half of key as a JWK. Private keys are reduced
// to their public key first; symmetric secrets are refused.
func Export(key any, opts ...ExportOption) ([]byte, error) {
	var o exportOptions
	for _, opt := range opts {
		opt(&o)
	}

	if _, ok := key.([]byte); ok {
		return nil, errors.New("jwks: refusing to export a symmetric secret")
	}

	pub, err := jwk.PublicKeyOf(key)
	if err != nil {
		return nil, fmt.Errorf("jwks: could not convert key: %w", err)
	}

	if o.kid != "" {
		if err := pub.Set(jwk.KeyIDKey, o.kid); err != nil {
			return nil, err
		}
	}
	if o.alg != "" {
		if err := pub.Set(jwk.AlgorithmKey, jwa.SignatureAlgorithm(o.alg)); err != nil {
			return nil, err
		}
	}
	if err := pub.Set(jwk.KeyUsageKey, jwk.ForSignature); err != nil {
		return nil, err
	}

	return json.Marshal(pub)
}
