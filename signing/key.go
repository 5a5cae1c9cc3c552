package signing

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"fmt"
	"reflect"
)

// IsEmptyKey reports whether key carries no usable material: nil, a nil
// pointer, or a zero-length secret.
func IsEmptyKey(key any) bool {
	if key == nil {
		return true
	}

	switch k := key.(type) {
	case []byte:
		return len(k) == 0
	case string:
		return k == ""
	}

	v := reflect.ValueOf(key)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map:
		return v.IsNil()
	case reflect.Slice:
		return v.Len() == 0
	}
	return false
}

func keyTypeError(alg Algorithm, key any, want string) error {
	return fmt.Errorf("%s requires %s, got %T", alg, want, key)
}

func rsaPublicKey(alg Algorithm, key any) (*rsa.PublicKey, error) {
	switch k := key.(type) {
	case *rsa.PublicKey:
		return k, nil
	case *rsa.PrivateKey:
		return &k.PublicKey, nil
	}
	return nil, keyTypeError(alg, key, "*rsa.PublicKey")
}

func ecdsaPublicKey(spec Spec, key any) (*ecdsa.PublicKey, error) {
	var pub *ecdsa.PublicKey
	switch k := key.(type) {
	case *ecdsa.PublicKey:
		pub = k
	case *ecdsa.PrivateKey:
		pub = &k.PublicKey
	default:
		return nil, keyTypeError(spec.Name, key, "*ecdsa.PublicKey")
	}

	if err := checkCurve(spec, pub); err != nil {
		return nil, err
	}
	return pub, nil
}

func checkCurve(spec Spec, pub *ecdsa.PublicKey) error {
	if pub.Curve == nil || pub.Curve.Params().Name != spec.Curve.Params().Name {
		got := "<nil>"
		if pub.Curve != nil {
			got = pub.Curve.Params().Name
		}
		return fmt.Errorf("%s requires curve %s, got %s", spec.Name, spec.Curve.Params().Name, got)
	}
	return nil
}

func ed25519PublicKey(alg Algorithm, key any) (ed25519.PublicKey, error) {
	switch k := key.(type) {
	case ed25519.PublicKey:
		if len(k) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("%s: public key must be %d bytes, got %d", alg, ed25519.PublicKeySize, len(k))
		}
		return k, nil
	case ed25519.PrivateKey:
		if len(k) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("%s: private key must be %d bytes, got %d", alg, ed25519.PrivateKeySize, len(k))
		}
		return k.Public().(ed25519.PublicKey), nil
	}
	return nil, keyTypeError(alg, key, "ed25519.PublicKey")
}
