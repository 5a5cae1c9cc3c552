package grpc

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/auth0/go-jwt-middleware/v4/core"
)

// ErrorHandler converts validation errors to gRPC status errors.
type ErrorHandler func(error) error

// statusMappings holds the status of every validation error code that does
// not map to Unauthenticated with the error's own message.
var statusMappings = map[string]struct {
	code    codes.Code
	message string
}{
	core.ErrorCodeTokenMissing:         {codes.Unauthenticated, "missing credentials"},
	core.ErrorCodeTokenMalformed:       {codes.InvalidArgument, "malformed token"},
	core.ErrorCodeInvalidEncoding:      {codes.InvalidArgument, "malformed token"},
	core.ErrorCodeTokenExpired:         {codes.Unauthenticated, "token expired"},
	core.ErrorCodeTokenNotYetValid:     {codes.Unauthenticated, "token not yet valid"},
	core.ErrorCodeTokenIssuedInFuture:  {codes.Unauthenticated, "token issued in the future"},
	core.ErrorCodeInvalidSignature:     {codes.Unauthenticated, "invalid signature"},
	core.ErrorCodeInvalidIssuer:        {codes.PermissionDenied, "invalid issuer"},
	core.ErrorCodeInvalidAudience:      {codes.PermissionDenied, "invalid audience"},
	core.ErrorCodeKeyNotFound:          {codes.Unauthenticated, "unable to verify token"},
	core.ErrorCodeUnspecifiedAlgorithm: {codes.Unauthenticated, "missing algorithm"},
	core.ErrorCodeUnsupportedAlgorithm: {codes.Unauthenticated, "invalid algorithm"},
	core.ErrorCodeDisallowedAlgorithm:  {codes.Unauthenticated, "invalid algorithm"},
}

// DefaultErrorHandler maps JWT validation errors to gRPC status codes:
//
//   - missing or invalid token: Unauthenticated
//   - wrong issuer or audience: PermissionDenied
//   - malformed token or authorization metadata: InvalidArgument
//   - backend errors and anything unknown: Internal
func DefaultErrorHandler(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, core.ErrJWTMissing) {
		return status.Error(codes.Unauthenticated, "missing credentials")
	}

	var extractErr *extractionError
	if errors.As(err, &extractErr) {
		return status.Error(codes.InvalidArgument, extractErr.details.Error())
	}

	var validationErr *core.ValidationError
	if !errors.As(err, &validationErr) {
		if errors.Is(err, core.ErrJWTInvalid) {
			return status.Error(codes.Unauthenticated, "invalid token")
		}
		return status.Error(codes.Internal, "unable to verify token")
	}
	if validationErr.IsBackend() {
		return status.Error(codes.Internal, "unable to verify token")
	}
	if m, ok := statusMappings[validationErr.Code]; ok {
		return status.Error(m.code, m.message)
	}
	return status.Error(codes.Unauthenticated, validationErr.Message)
}

// extractionError marks a failure to read the token from the metadata.
type extractionError struct {
	details error
}

func (e *extractionError) Error() string {
	return fmt.Sprintf("error extracting token: %s", e.details)
}

func (e *extractionError) Unwrap() error {
	return e.details
}
