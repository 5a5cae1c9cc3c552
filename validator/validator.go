package validator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/auth0/go-jwt-middleware/v4/core"
	"github.com/auth0/go-jwt-middleware/v4/signing"
)

// KeySelector is implemented by key sources that hold several keys and
// pick one from the token header, such as a parsed JWK set. A keyFunc may
// return a KeySelector instead of a key.
type KeySelector interface {
	SelectKey(kid string, alg signing.Algorithm) (any, error)
}

// Validator verifies tokens against a fixed algorithm allow-list and
// optional issuer, audience and custom claims expectations.
// It is safe for concurrent use once built.
type Validator struct {
	keyFunc          func(context.Context) (any, error) // Required.
	algorithms       []signing.Algorithm                // Required.
	expectedClaims   expectedClaims                     // Optional.
	customClaims     func() CustomClaims                // Optional.
	allowedClockSkew time.Duration                      // Optional.
	maxTokenSize     int                                // Optional.
	now              func() time.Time
	logger           core.Logger
}

type expectedClaims struct {
	issuers   []string
	audiences []string
}

// New sets up a new Validator. WithKeyFunc (or WithKey) and
// WithAllowedAlgorithms (or WithAlgorithm) are required.
//
// Example:
//
//	v, err := validator.New(
//	    validator.WithKey([]byte("secret")),
//	    validator.WithAlgorithm(signing.HS256),
//	    validator.WithIssuer("https://issuer.example.com/"),
//	    validator.WithAudience("my-api"),
//	)
func New(opts ...Option) (*Validator, error) {
	v := &Validator{
		maxTokenSize: DefaultMaxTokenSize,
		now:          time.Now,
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("invalid validator option: %w", err)
		}
	}

	if v.keyFunc == nil {
		return nil, errors.New("keyFunc is required but was nil (use WithKeyFunc or WithKey)")
	}
	if len(v.algorithms) == 0 {
		return nil, errors.New("at least one algorithm is required (use WithAllowedAlgorithms or WithAlgorithm)")
	}

	return v, nil
}

// ValidateToken verifies tokenString and returns a *ValidatedClaims.
// Failures are *core.ValidationError values; see core for the codes.
func (v *Validator) ValidateToken(ctx context.Context, tokenString string) (any, error) {
	claims, err := v.validate(ctx, tokenString)
	if err != nil {
		if v.logger != nil {
			v.logger.Debug("token rejected", "code", core.Code(err))
		}
		return nil, err
	}
	return claims, nil
}

func (v *Validator) validate(ctx context.Context, tokenString string) (*ValidatedClaims, error) {
	if err := checkTokenSize(tokenString, v.maxTokenSize); err != nil {
		return nil, err
	}

	key, err := v.resolveKey(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	claims, err := Decode(tokenString, key, v.algorithms,
		WithClock(v.now),
		WithLeeway(v.allowedClockSkew),
	)
	if err != nil {
		return nil, err
	}

	registered := registeredClaimsFrom(claims)
	if err := v.expectedClaims.check(registered); err != nil {
		return nil, err
	}

	customClaims, err := v.deserializeCustomClaims(ctx, claims)
	if err != nil {
		return nil, err
	}

	return &ValidatedClaims{
		RegisteredClaims: registered,
		CustomClaims:     customClaims,
		Raw:              claims,
	}, nil
}

func (v *Validator) resolveKey(ctx context.Context, tokenString string) (any, error) {
	key, err := v.keyFunc(ctx)
	if err != nil {
		return nil, core.NewValidationError(core.ErrorCodeKeyUnavailable, "error getting the keys from the key func", err)
	}

	selector, ok := key.(KeySelector)
	if !ok {
		return key, nil
	}

	// Tokens Decode is going to reject anyway are handed the selector
	// unchanged so the rejection keeps its usual order and code.
	header, err := parseHeader(tokenString)
	if err != nil {
		return selector, nil
	}
	alg, err := headerAlgorithm(header)
	if err != nil || !slices.Contains(v.algorithms, alg) {
		return selector, nil
	}
	kid, _ := header["kid"].(string)

	key, err = selector.SelectKey(kid, alg)
	if err != nil {
		var vErr *core.ValidationError
		if errors.As(err, &vErr) {
			return nil, err
		}
		return nil, core.NewValidationError(core.ErrorCodeKeyUnavailable, "error selecting a key from the key set", err)
	}
	return key, nil
}

func parseHeader(tokenString string) (map[string]any, error) {
	header, _, _, err := split(tokenString)
	if err != nil {
		return nil, err
	}
	return decodeObject(header, SegmentHeader)
}

func (e expectedClaims) check(actual RegisteredClaims) error {
	if len(e.issuers) > 0 && !slices.Contains(e.issuers, actual.Issuer) {
		return core.NewValidationError(
			core.ErrorCodeInvalidIssuer,
			fmt.Sprintf("token issuer %q is not expected", actual.Issuer),
			nil,
		)
	}

	if len(e.audiences) > 0 && !slices.ContainsFunc(actual.Audience, func(aud string) bool {
		return slices.Contains(e.audiences, aud)
	}) {
		return core.NewValidationError(core.ErrorCodeInvalidAudience, "token audience does not match any expected audience", nil)
	}

	return nil
}

func (v *Validator) customClaimsExist() bool {
	return v.customClaims != nil && v.customClaims() != nil
}

func (v *Validator) deserializeCustomClaims(ctx context.Context, claims Claims) (CustomClaims, error) {
	if !v.customClaimsExist() {
		return nil, nil
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return nil, core.NewValidationError(core.ErrorCodeInvalidClaims, "could not re-encode token claims", err)
	}

	customClaims := v.customClaims()
	if err := json.Unmarshal(payload, customClaims); err != nil {
		return nil, core.NewValidationError(core.ErrorCodeInvalidClaims, "could not decode custom claims", err)
	}

	if err := customClaims.Validate(ctx); err != nil {
		return nil, core.NewValidationError(core.ErrorCodeInvalidClaims, "custom claims not validated", err)
	}

	return customClaims, nil
}
