package signing

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/rsa"
	"errors"
	"math/big"

	"github.com/auth0/go-jwt-middleware/v4/core"
)

// Verify reports whether sig is a valid signature of input under key.
//
// A mismatch is (false, nil). Errors are reserved for an empty key, an
// unknown algorithm or a key the algorithm cannot use, so callers can tell
// a forged token apart from a misconfigured verifier.
//
// Asymmetric algorithms accept either the public key or its private key.
func Verify(input string, sig []byte, key any, alg Algorithm) (bool, error) {
	spec, err := Lookup(alg)
	if err != nil {
		return false, err
	}
	if IsEmptyKey(key) {
		return false, core.ErrEmptyKey
	}

	var ok bool
	switch spec.Scheme {
	case SchemeHMAC:
		ok, err = verifyHMAC(spec, key, input, sig)
	case SchemeRSAPKCS1v15, SchemeRSAPSS:
		ok, err = verifyRSA(spec, key, input, sig)
	case SchemeECDSA:
		ok, err = verifyECDSA(spec, key, input, sig)
	case SchemeEdDSA:
		ok, err = verifyEdDSA(spec, key, input, sig)
	}
	if err != nil {
		return false, core.VerificationBackendError(err)
	}
	return ok, nil
}

func verifyHMAC(spec Spec, key any, input string, sig []byte) (bool, error) {
	secret, ok := key.([]byte)
	if !ok {
		return false, keyTypeError(spec.Name, key, "a []byte secret")
	}
	return hmac.Equal(sig, macOf(spec, secret, input)), nil
}

func verifyRSA(spec Spec, key any, input string, sig []byte) (bool, error) {
	pub, err := rsaPublicKey(spec.Name, key)
	if err != nil {
		return false, err
	}

	sum := digest(spec, input)
	if spec.Scheme == SchemeRSAPSS {
		err = rsa.VerifyPSS(pub, spec.Hash, sum, sig, &rsa.PSSOptions{
			SaltLength: rsa.PSSSaltLengthAuto,
		})
	} else {
		err = rsa.VerifyPKCS1v15(pub, spec.Hash, sum, sig)
	}

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, rsa.ErrVerification), errors.Is(err, rsa.ErrDecryption):
		return false, nil
	default:
		return false, err
	}
}

func verifyECDSA(spec Spec, key any, input string, sig []byte) (bool, error) {
	pub, err := ecdsaPublicKey(spec, key)
	if err != nil {
		return false, err
	}
	if len(sig) != 2*spec.KeySize {
		return false, nil
	}

	r := new(big.Int).SetBytes(sig[:spec.KeySize])
	s := new(big.Int).SetBytes(sig[spec.KeySize:])
	return ecdsa.Verify(pub, digest(spec, input), r, s), nil
}

func verifyEdDSA(spec Spec, key any, input string, sig []byte) (bool, error) {
	pub, err := ed25519PublicKey(spec.Name, key)
	if err != nil {
		return false, err
	}
	if len(sig) != ed25519.SignatureSize {
		return false, nil
	}
	return ed25519.Verify(pub, []byte(input), sig), nil
}
