package signing

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"errors"

	"github.com/auth0/go-jwt-middleware/v4/core"
)

var errEmptySignature = errors.New("primitive produced an empty signature")

// Sign computes the raw signature bytes of input under key using alg.
//
// HMAC algorithms take a []byte secret. RSA algorithms take an
// *rsa.PrivateKey, ECDSA an *ecdsa.PrivateKey on the algorithm's curve and
// EdDSA an ed25519.PrivateKey. Any other key type fails with a signing
// backend error.
func Sign(input string, key any, alg Algorithm) ([]byte, error) {
	spec, err := Lookup(alg)
	if err != nil {
		return nil, err
	}
	if IsEmptyKey(key) {
		return nil, core.ErrEmptyKey
	}

	var sig []byte
	switch spec.Scheme {
	case SchemeHMAC:
		sig, err = signHMAC(spec, key, input)
	case SchemeRSAPKCS1v15, SchemeRSAPSS:
		sig, err = signRSA(spec, key, input)
	case SchemeECDSA:
		sig, err = signECDSA(spec, key, input)
	case SchemeEdDSA:
		sig, err = signEdDSA(spec, key, input)
	}
	if err != nil {
		return nil, core.SigningBackendError(err)
	}
	if len(sig) == 0 {
		return nil, core.SigningBackendError(errEmptySignature)
	}
	return sig, nil
}

func digest(spec Spec, input string) []byte {
	h := spec.Hash.New()
	h.Write([]byte(input))
	return h.Sum(nil)
}

func macOf(spec Spec, secret []byte, input string) []byte {
	mac := hmac.New(spec.Hash.New, secret)
	mac.Write([]byte(input))
	return mac.Sum(nil)
}

func signHMAC(spec Spec, key any, input string) ([]byte, error) {
	secret, ok := key.([]byte)
	if !ok {
		return nil, keyTypeError(spec.Name, key, "a []byte secret")
	}
	return macOf(spec, secret, input), nil
}

func signRSA(spec Spec, key any, input string) ([]byte, error) {
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, keyTypeError(spec.Name, key, "*rsa.PrivateKey")
	}

	sum := digest(spec, input)
	if spec.Scheme == SchemeRSAPSS {
		return rsa.SignPSS(rand.Reader, priv, spec.Hash, sum, &rsa.PSSOptions{
			SaltLength: rsa.PSSSaltLengthEqualsHash,
		})
	}
	return rsa.SignPKCS1v15(rand.Reader, priv, spec.Hash, sum)
}

// signECDSA emits r||s, each left-padded to the curve's coordinate size.
func signECDSA(spec Spec, key any, input string) ([]byte, error) {
	priv, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, keyTypeError(spec.Name, key, "*ecdsa.PrivateKey")
	}
	if err := checkCurve(spec, &priv.PublicKey); err != nil {
		return nil, err
	}

	r, s, err := ecdsa.Sign(rand.Reader, priv, digest(spec, input))
	if err != nil {
		return nil, err
	}

	out := make([]byte, 2*spec.KeySize)
	r.FillBytes(out[:spec.KeySize])
	s.FillBytes(out[spec.KeySize:])
	return out, nil
}

func signEdDSA(spec Spec, key any, input string) ([]byte, error) {
	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, keyTypeError(spec.Name, key, "ed25519.PrivateKey")
	}
	if len(priv) != ed25519.PrivateKeySize {
		return nil, keyTypeError(spec.Name, key, "a 64 byte ed25519.PrivateKey")
	}
	return ed25519.Sign(priv, []byte(input)), nil
}
