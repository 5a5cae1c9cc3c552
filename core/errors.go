package core

import (
	"errors"
	"strings"
)

// Sentinel errors for JWT validation.
var (
	// ErrJWTMissing is returned when no token was presented.
	ErrJWTMissing = errors.New("jwt missing")

	// ErrJWTInvalid matches every *ValidationError that rejects the token
	// itself. Backend failures (the key or primitive could not be used) do
	// not match it.
	ErrJWTInvalid = errors.New("jwt invalid")

	// ErrClaimsNotFound is returned when claims cannot be retrieved from context.
	ErrClaimsNotFound = errors.New("claims not found in context")
)

// Taxonomy sentinels. errors.Is matches any *ValidationError carrying the
// same Code, so callers can test for a failure kind without errors.As.
var (
	ErrEmptyKey                    = &ValidationError{Code: ErrorCodeEmptyKey, Message: "verification key is empty"}
	ErrMalformedToken              = &ValidationError{Code: ErrorCodeTokenMalformed, Message: "token must have exactly three segments"}
	ErrInvalidEncoding             = &ValidationError{Code: ErrorCodeInvalidEncoding, Message: "invalid segment encoding"}
	ErrUnspecifiedAlgorithm        = &ValidationError{Code: ErrorCodeUnspecifiedAlgorithm, Message: "token header does not specify an algorithm"}
	ErrDisallowedAlgorithm         = &ValidationError{Code: ErrorCodeDisallowedAlgorithm, Message: "token algorithm is not allowed"}
	ErrUnsupportedAlgorithm        = &ValidationError{Code: ErrorCodeUnsupportedAlgorithm, Message: "token algorithm is not supported"}
	ErrSignatureVerificationFailed = &ValidationError{Code: ErrorCodeInvalidSignature, Message: "signature verification failed"}
	ErrSigningBackend              = &ValidationError{Code: ErrorCodeSigningBackend, Message: "signing backend error"}
	ErrVerificationBackend         = &ValidationError{Code: ErrorCodeVerificationBackend, Message: "verification backend error"}
	ErrExpired                     = &ValidationError{Code: ErrorCodeTokenExpired, Message: "token is expired"}
	ErrNotYetValid                 = &ValidationError{Code: ErrorCodeTokenNotYetValid, Message: "token is not valid yet"}
	ErrIssuedInFuture              = &ValidationError{Code: ErrorCodeTokenIssuedInFuture, Message: "token was issued in the future"}

	// ErrKeyNotFound is returned when a key set holds no key for the
	// token's kid and alg.
	ErrKeyNotFound = &ValidationError{Code: ErrorCodeKeyNotFound, Message: "no key matches the token"}
)

// ValidationError wraps JWT validation errors with additional context.
// It provides structured error information that can be used for
// logging, metrics, and returning appropriate error responses.
type ValidationError struct {
	// Code is a machine-readable error code (e.g., "token_expired", "invalid_signature")
	Code string

	// Message is a human-readable error message
	Message string

	// Segment names the token part ("header", "payload" or "signature")
	// for invalid_encoding errors.
	Segment string

	// Details contains the underlying error
	Details error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Segment != "" {
		b.WriteString(" (")
		b.WriteString(e.Segment)
		b.WriteString(")")
	}
	if e.Details != nil {
		b.WriteString(": ")
		b.WriteString(e.Details.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ValidationError) Unwrap() error {
	return e.Details
}

// Is reports whether target is ErrJWTInvalid (for non-backend codes) or a
// *ValidationError with the same Code.
func (e *ValidationError) Is(target error) bool {
	if target == ErrJWTInvalid {
		return !e.IsBackend()
	}

	t, ok := target.(*ValidationError)
	return ok && t.Code == e.Code
}

// IsBackend reports whether the error means the token could not be checked
// at all, as opposed to the check having failed.
func (e *ValidationError) IsBackend() bool {
	switch e.Code {
	case ErrorCodeSigningBackend, ErrorCodeVerificationBackend,
		ErrorCodeConfigInvalid, ErrorCodeValidatorNotSet, ErrorCodeKeyUnavailable:
		return true
	}
	return false
}

// Common error codes
const (
	ErrorCodeTokenMissing         = "token_missing"
	ErrorCodeEmptyKey             = "empty_key"
	ErrorCodeTokenMalformed       = "token_malformed"
	ErrorCodeInvalidEncoding      = "invalid_encoding"
	ErrorCodeUnspecifiedAlgorithm = "unspecified_algorithm"
	ErrorCodeDisallowedAlgorithm  = "disallowed_algorithm"
	ErrorCodeUnsupportedAlgorithm = "unsupported_algorithm"
	ErrorCodeInvalidSignature     = "invalid_signature"
	ErrorCodeSigningBackend       = "signing_backend_error"
	ErrorCodeVerificationBackend  = "verification_backend_error"
	ErrorCodeTokenExpired         = "token_expired"
	ErrorCodeTokenNotYetValid     = "token_not_yet_valid"
	ErrorCodeTokenIssuedInFuture  = "token_issued_in_future"
	ErrorCodeInvalidIssuer        = "invalid_issuer"
	ErrorCodeInvalidAudience      = "invalid_audience"
	ErrorCodeInvalidClaims        = "invalid_claims"
	ErrorCodeKeyUnavailable       = "key_unavailable"
	ErrorCodeKeyNotFound          = "key_not_found"
	ErrorCodeConfigInvalid        = "config_invalid"
	ErrorCodeValidatorNotSet      = "validator_not_set"
	ErrorCodeClaimsNotFound       = "claims_not_found"
)

// NewValidationError creates a new ValidationError with the given code and message.
func NewValidationError(code, message string, details error) *ValidationError {
	return &ValidationError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// InvalidEncodingError reports a segment that failed base64url or JSON decoding.
func InvalidEncodingError(segment string, details error) *ValidationError {
	return &ValidationError{
		Code:    ErrorCodeInvalidEncoding,
		Message: ErrInvalidEncoding.Message,
		Segment: segment,
		Details: details,
	}
}

// SigningBackendError reports a signing primitive or key failure.
func SigningBackendError(details error) *ValidationError {
	return NewValidationError(ErrorCodeSigningBackend, ErrSigningBackend.Message, details)
}

// VerificationBackendError reports a verification primitive or key failure.
// It is distinct from ErrSignatureVerificationFailed, which means the
// signature was checked and did not match.
func VerificationBackendError(details error) *ValidationError {
	return NewValidationError(ErrorCodeVerificationBackend, ErrVerificationBackend.Message, details)
}

// Code returns the ValidationError code carried by err, or "" if err has none.
func Code(err error) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Code
	}
	return ""
}
