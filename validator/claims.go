package validator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/auth0/go-jwt-middleware/v4/core"
)

// Reserved claim names.
const (
	ClaimIssuer    = "iss"
	ClaimSubject   = "sub"
	ClaimAudience  = "aud"
	ClaimExpiry    = "exp"
	ClaimNotBefore = "nbf"
	ClaimIssuedAt  = "iat"
	ClaimID        = "jti"
)

// Claims is a decoded token payload. Numbers are held as json.Number so
// large integer claims survive decoding exactly.
type Claims map[string]any

// StringValue returns the named claim when it is a JSON string.
func (c Claims) StringValue(name string) (string, bool) {
	s, ok := c[name].(string)
	return s, ok
}

// Audience returns the aud claim, which may be a single string or an array
// of strings.
func (c Claims) Audience() []string {
	switch aud := c[ClaimAudience].(type) {
	case string:
		return []string{aud}
	case []string:
		return aud
	case []any:
		out := make([]string, 0, len(aud))
		for _, v := range aud {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// NumericDate returns the named claim as a time. ok is false when the
// claim is absent; a present claim that is not a number is an error.
// Values beyond ±2^53 seconds are clamped to that bound.
func (c Claims) NumericDate(name string) (t time.Time, ok bool, err error) {
	seconds, ok, err := c.numericDate(name)
	if !ok || err != nil {
		return time.Time{}, false, err
	}

	whole, frac := math.Modf(seconds)
	return time.Unix(int64(whole), int64(frac*1e9)), true, nil
}

// maxNumericDate bounds the seconds of a NumericDate so that adding a
// leeway or converting to time.Time cannot overflow.
const maxNumericDate = 1 << 53

func (c Claims) numericDate(name string) (float64, bool, error) {
	v, present := c[name]
	if !present || v == nil {
		return 0, false, nil
	}

	seconds, err := numericSeconds(v)
	if err != nil {
		return 0, false, fmt.Errorf("claim %q: %w", name, err)
	}
	return max(min(seconds, maxNumericDate), -maxNumericDate), true, nil
}

// unixSeconds returns the named claim in whole seconds, rounded with round.
func (c Claims) unixSeconds(name string, round func(float64) float64) (int64, bool, error) {
	seconds, ok, err := c.numericDate(name)
	if !ok || err != nil {
		return 0, false, err
	}
	return int64(round(seconds)), true, nil
}

var errNotNumeric = errors.New("not a numeric date")

func numericSeconds(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return float64(i), nil
		}
		parsed, err := strconv.ParseFloat(string(n), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, errNotNumeric
		}
		f = parsed
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	default:
		return 0, errNotNumeric
	}
	if math.IsNaN(f) {
		return 0, errNotNumeric
	}
	return f, nil
}

// ValidateTemporalClaims checks exp, nbf and iat against now, tolerating
// leeway in both directions. Absent claims pass. Comparisons are made in
// whole seconds: now and leeway are truncated, exp is rounded down and nbf
// and iat are rounded up.
//
// Checks run in order and the first failure wins: ErrExpired when
// exp + leeway < now, ErrNotYetValid when nbf > now + leeway and
// ErrIssuedInFuture when iat > now + leeway.
func ValidateTemporalClaims(claims Claims, now time.Time, leeway time.Duration) error {
	nowSec := max(min(now.Unix(), maxNumericDate), -maxNumericDate)
	skew := int64(max(leeway, 0) / time.Second)

	exp, ok, err := claims.unixSeconds(ClaimExpiry, math.Floor)
	if err != nil {
		return core.InvalidEncodingError("payload", err)
	}
	if ok && exp+skew < nowSec {
		return core.ErrExpired
	}

	nbf, ok, err := claims.unixSeconds(ClaimNotBefore, math.Ceil)
	if err != nil {
		return core.InvalidEncodingError("payload", err)
	}
	if ok && nbf > nowSec+skew {
		return core.ErrNotYetValid
	}

	iat, ok, err := claims.unixSeconds(ClaimIssuedAt, math.Ceil)
	if err != nil {
		return core.InvalidEncodingError("payload", err)
	}
	if ok && iat > nowSec+skew {
		return core.ErrIssuedInFuture
	}

	return nil
}

// ValidatedClaims is the struct that will be inserted into
// the context for the user. CustomClaims will be nil
// unless WithCustomClaims is passed to New.
type ValidatedClaims struct {
	CustomClaims     CustomClaims
	RegisteredClaims RegisteredClaims

	// Raw holds every claim of the payload.
	Raw Claims
}

// RegisteredClaims represents public claim
// values (as specified in RFC 7519).
type RegisteredClaims struct {
	Issuer    string   `json:"iss,omitempty"`
	Subject   string   `json:"sub,omitempty"`
	Audience  []string `json:"aud,omitempty"`
	Expiry    int64    `json:"exp,omitempty"`
	NotBefore int64    `json:"nbf,omitempty"`
	IssuedAt  int64    `json:"iat,omitempty"`
	ID        string   `json:"jti,omitempty"`
}

func registeredClaimsFrom(claims Claims) RegisteredClaims {
	rc := RegisteredClaims{Audience: claims.Audience()}
	rc.Issuer, _ = claims.StringValue(ClaimIssuer)
	rc.Subject, _ = claims.StringValue(ClaimSubject)
	rc.ID, _ = claims.StringValue(ClaimID)
	rc.Expiry = unixOrZero(claims, ClaimExpiry)
	rc.NotBefore = unixOrZero(claims, ClaimNotBefore)
	rc.IssuedAt = unixOrZero(claims, ClaimIssuedAt)
	return rc
}

func unixOrZero(claims Claims, name string) int64 {
	t, ok, err := claims.NumericDate(name)
	if !ok || err != nil {
		return 0
	}
	return t.Unix()
}

// CustomClaims defines any custom data / claims wanted.
// The Validator will call the Validate function which
// is where custom validation logic can be defined.
type CustomClaims interface {
	Validate(context.Context) error
}
