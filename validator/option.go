package validator

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v4/core"
	"github.com/auth0/go-jwt-middleware/v4/signing"
)

// Option is how options for the Validator are set up.
// Options return errors to enable validation during construction.
type Option func(*Validator) error

// WithKeyFunc sets the function that provides the key for token verification.
//
// The keyFunc is called for every token. It may return the key itself or a
// KeySelector (for example a *jwks.Set) that picks a key by kid and alg.
func WithKeyFunc(keyFunc func(context.Context) (any, error)) Option {
	return func(v *Validator) error {
		if keyFunc == nil {
			return errors.New("keyFunc cannot be nil")
		}
		v.keyFunc = keyFunc
		return nil
	}
}

// WithKey uses a fixed verification key.
func WithKey(key any) Option {
	return func(v *Validator) error {
		if signing.IsEmptyKey(key) {
			return core.ErrEmptyKey
		}
		v.keyFunc = func(context.Context) (any, error) { return key, nil }
		return nil
	}
}

// WithAllowedAlgorithms sets the algorithms tokens may be signed with.
// A token whose alg header is not listed is rejected before its signature
// is checked.
func WithAllowedAlgorithms(algorithms ...signing.Algorithm) Option {
	return func(v *Validator) error {
		if len(algorithms) == 0 {
			return errors.New("allowed algorithms cannot be empty")
		}
		for _, alg := range algorithms {
			if !signing.IsSupported(alg) {
				return fmt.Errorf("unsupported signature algorithm: %s", alg)
			}
		}
		v.algorithms = append([]signing.Algorithm(nil), algorithms...)
		return nil
	}
}

// WithAlgorithm is WithAllowedAlgorithms for a single algorithm.
func WithAlgorithm(algorithm signing.Algorithm) Option {
	return WithAllowedAlgorithms(algorithm)
}

// WithIssuer sets the expected issuer claim (iss). It may be given more
// than once; a token matching any of them is accepted.
func WithIssuer(issuerURL string) Option {
	return func(v *Validator) error {
		if issuerURL == "" {
			return errors.New("issuer cannot be empty")
		}
		if _, err := url.Parse(issuerURL); err != nil {
			return fmt.Errorf("invalid issuer URL: %w", err)
		}
		v.expectedClaims.issuers = append(v.expectedClaims.issuers, issuerURL)
		return nil
	}
}

// WithAudience sets a single expected audience claim (aud).
func WithAudience(audience string) Option {
	return func(v *Validator) error {
		if audience == "" {
			return errors.New("audience cannot be empty")
		}
		v.expectedClaims.audiences = []string{audience}
		return nil
	}
}

// WithAudiences sets multiple expected audiences. The token must contain at
// least one of them.
func WithAudiences(audiences []string) Option {
	return func(v *Validator) error {
		if len(audiences) == 0 {
			return errors.New("audiences cannot be empty")
		}
		for i, aud := range audiences {
			if aud == "" {
				return fmt.Errorf("audience at index %d cannot be empty", i)
			}
		}
		v.expectedClaims.audiences = append([]string(nil), audiences...)
		return nil
	}
}

// WithAllowedClockSkew sets the allowed clock skew for time-based claims.
//
// This allows for some tolerance when validating exp, nbf, and iat claims
// to account for clock differences between systems. If not set, the default
// is DefaultLeeway.
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(v *Validator) error {
		if skew < 0 {
			return errors.New("clock skew cannot be negative")
		}
		v.allowedClockSkew = skew
		return nil
	}
}

// WithCustomClaims sets a function that returns a CustomClaims object
// for unmarshalling and validation.
//
// The function is called for each token validation to create a new instance
// of custom claims. The Validate method on the custom claims will be called
// after standard claim validation.
func WithCustomClaims(f func() CustomClaims) Option {
	return func(v *Validator) error {
		if f == nil {
			return errors.New("custom claims function cannot be nil")
		}
		v.customClaims = f
		return nil
	}
}

// WithValidatorClock replaces time.Now for exp, nbf and iat checks.
func WithValidatorClock(now func() time.Time) Option {
	return func(v *Validator) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		v.now = now
		return nil
	}
}

// WithMaxTokenSize caps the accepted token length in bytes.
func WithMaxTokenSize(n int) Option {
	return func(v *Validator) error {
		if n <= 0 {
			return errors.New("max token size must be positive")
		}
		v.maxTokenSize = n
		return nil
	}
}

// WithLogger logs rejected tokens at debug level. Only the error code is
// logged, never the token.
func WithLogger(logger core.Logger) Option {
	return func(v *Validator) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		v.logger = logger
		return nil
	}
}
