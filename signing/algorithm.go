package signing

import (
	"crypto"
	"crypto/elliptic"
	_ "crypto/sha256" // registers SHA-256 for crypto.Hash.New
	_ "crypto/sha512" // registers SHA-384 and SHA-512
	"fmt"
	"slices"

	"github.com/auth0/go-jwt-middleware/v4/core"
)

// Algorithm is a case-sensitive "alg" header identifier.
type Algorithm string

// Signature algorithms
const (
	HS256 = Algorithm("HS256") // HMAC using SHA-256
	HS384 = Algorithm("HS384") // HMAC using SHA-384
	HS512 = Algorithm("HS512") // HMAC using SHA-512
	RS256 = Algorithm("RS256") // RSASSA-PKCS-v1.5 using SHA-256
	RS384 = Algorithm("RS384") // RSASSA-PKCS-v1.5 using SHA-384
	RS512 = Algorithm("RS512") // RSASSA-PKCS-v1.5 using SHA-512
	PS256 = Algorithm("PS256") // RSASSA-PSS using SHA256 and MGF1-SHA256
	PS384 = Algorithm("PS384") // RSASSA-PSS using SHA384 and MGF1-SHA384
	PS512 = Algorithm("PS512") // RSASSA-PSS using SHA512 and MGF1-SHA512
	ES256 = Algorithm("ES256") // ECDSA using P-256 and SHA-256
	ES384 = Algorithm("ES384") // ECDSA using P-384 and SHA-384
	ES512 = Algorithm("ES512") // ECDSA using P-521 and SHA-512
	EdDSA = Algorithm("EdDSA") // Ed25519
)

// Family separates shared-secret MACs from public-key signatures.
type Family int

const (
	FamilySymmetricMAC Family = iota + 1
	FamilyAsymmetricSignature
)

func (f Family) String() string {
	switch f {
	case FamilySymmetricMAC:
		return "symmetric-mac"
	case FamilyAsymmetricSignature:
		return "asymmetric-signature"
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// Scheme is the concrete primitive behind an algorithm.
type Scheme int

const (
	SchemeHMAC Scheme = iota + 1
	SchemeRSAPKCS1v15
	SchemeRSAPSS
	SchemeECDSA
	SchemeEdDSA
)

func (s Scheme) String() string {
	switch s {
	case SchemeHMAC:
		return "hmac"
	case SchemeRSAPKCS1v15:
		return "rsa-pkcs1v15"
	case SchemeRSAPSS:
		return "rsa-pss"
	case SchemeECDSA:
		return "ecdsa"
	case SchemeEdDSA:
		return "eddsa"
	}
	return fmt.Sprintf("Scheme(%d)", int(s))
}

// Spec describes how an algorithm signs and verifies.
type Spec struct {
	Name   Algorithm
	Family Family
	Scheme Scheme

	// Hash is the digest applied to the signing input. Zero for EdDSA,
	// which hashes internally.
	Hash crypto.Hash

	// Curve and KeySize (bytes per coordinate) are set for ECDSA only.
	Curve   elliptic.Curve
	KeySize int
}

// registry is filled once at package initialisation and only read afterwards.
var registry = newRegistry()

func newRegistry() map[Algorithm]Spec {
	specs := []Spec{
		{Name: HS256, Family: FamilySymmetricMAC, Scheme: SchemeHMAC, Hash: crypto.SHA256},
		{Name: HS384, Family: FamilySymmetricMAC, Scheme: SchemeHMAC, Hash: crypto.SHA384},
		{Name: HS512, Family: FamilySymmetricMAC, Scheme: SchemeHMAC, Hash: crypto.SHA512},
		{Name: RS256, Family: FamilyAsymmetricSignature, Scheme: SchemeRSAPKCS1v15, Hash: crypto.SHA256},
		{Name: RS384, Family: FamilyAsymmetricSignature, Scheme: SchemeRSAPKCS1v15, Hash: crypto.SHA384},
		{Name: RS512, Family: FamilyAsymmetricSignature, Scheme: SchemeRSAPKCS1v15, Hash: crypto.SHA512},
		{Name: PS256, Family: FamilyAsymmetricSignature, Scheme: SchemeRSAPSS, Hash: crypto.SHA256},
		{Name: PS384, Family: FamilyAsymmetricSignature, Scheme: SchemeRSAPSS, Hash: crypto.SHA384},
		{Name: PS512, Family: FamilyAsymmetricSignature, Scheme: SchemeRSAPSS, Hash: crypto.SHA512},
		{Name: ES256, Family: FamilyAsymmetricSignature, Scheme: SchemeECDSA, Hash: crypto.SHA256, Curve: elliptic.P256(), KeySize: 32},
		{Name: ES384, Family: FamilyAsymmetricSignature, Scheme: SchemeECDSA, Hash: crypto.SHA384, Curve: elliptic.P384(), KeySize: 48},
		{Name: ES512, Family: FamilyAsymmetricSignature, Scheme: SchemeECDSA, Hash: crypto.SHA512, Curve: elliptic.P521(), KeySize: 66},
		{Name: EdDSA, Family: FamilyAsymmetricSignature, Scheme: SchemeEdDSA},
	}

	m := make(map[Algorithm]Spec, len(specs))
	for _, spec := range specs {
		m[spec.Name] = spec
	}
	return m
}

// Lookup returns the registered Spec for alg. Unknown identifiers fail with
// core.ErrUnsupportedAlgorithm; matching is exact, so "hs256" is unknown.
func Lookup(alg Algorithm) (Spec, error) {
	spec, ok := registry[alg]
	if !ok {
		return Spec{}, &core.ValidationError{
			Code:    core.ErrorCodeUnsupportedAlgorithm,
			Message: fmt.Sprintf("%s: %q", core.ErrUnsupportedAlgorithm.Message, string(alg)),
		}
	}
	return spec, nil
}

// IsSupported reports whether alg is in the registry.
func IsSupported(alg Algorithm) bool {
	_, ok := registry[alg]
	return ok
}

// Algorithms returns every registered identifier in sorted order.
func Algorithms() []Algorithm {
	algs := make([]Algorithm, 0, len(registry))
	for alg := range registry {
		algs = append(algs, alg)
	}
	slices.Sort(algs)
	return algs
}
