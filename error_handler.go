package jwtmiddleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/auth0/go-jwt-middleware/v4/core"
)

var (
	// ErrJWTMissing is returned when the JWT is missing.
	ErrJWTMissing = core.ErrJWTMissing

	// ErrJWTInvalid matches every error that rejects the token itself.
	ErrJWTInvalid = core.ErrJWTInvalid
)

// ErrorHandler is a handler which is called when an error occurs in the
// JWTMiddleware. Among some general errors, this handler also determines the
// response of the JWTMiddleware when a token is not found or is invalid. The
// err can be checked to be ErrJWTMissing or ErrJWTInvalid for specific cases.
// The default handler answers 401 for a missing or invalid token, 400 for a
// malformed request and 500 when the token could not be checked at all. If
// you implement your own ErrorHandler you MUST take into consideration the
// error types as not properly responding to them or having a poorly
// implemented handler could result in the JWTMiddleware not functioning as
// intended.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// ErrorResponse is the JSON body written by DefaultErrorHandler.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	ErrorCode        string `json:"error_code,omitempty"`
}

// RFC 6750 error values.
const (
	errorInvalidRequest    = "invalid_request"
	errorInvalidToken      = "invalid_token"
	errorInsufficientScope = "insufficient_scope"
	errorServer            = "server_error"
)

type errorMapping struct {
	status      int
	errorValue  string
	description string
}

var validationErrorMappings = map[string]errorMapping{
	core.ErrorCodeTokenMalformed:       {http.StatusBadRequest, errorInvalidRequest, "The access token is malformed"},
	core.ErrorCodeInvalidEncoding:      {http.StatusBadRequest, errorInvalidRequest, "The access token is malformed"},
	core.ErrorCodeUnspecifiedAlgorithm: {http.StatusUnauthorized, errorInvalidToken, "The access token does not name an algorithm"},
	core.ErrorCodeDisallowedAlgorithm:  {http.StatusUnauthorized, errorInvalidToken, "The access token uses an unsupported algorithm"},
	core.ErrorCodeUnsupportedAlgorithm: {http.StatusUnauthorized, errorInvalidToken, "The access token uses an unsupported algorithm"},
	core.ErrorCodeInvalidSignature:     {http.StatusUnauthorized, errorInvalidToken, "The access token signature is invalid"},
	core.ErrorCodeTokenExpired:         {http.StatusUnauthorized, errorInvalidToken, "The access token expired"},
	core.ErrorCodeTokenNotYetValid:     {http.StatusUnauthorized, errorInvalidToken, "The access token is not yet valid"},
	core.ErrorCodeTokenIssuedInFuture:  {http.StatusUnauthorized, errorInvalidToken, "The access token was issued in the future"},
	core.ErrorCodeKeyNotFound:          {http.StatusUnauthorized, errorInvalidToken, "Unable to verify the access token"},
	core.ErrorCodeInvalidIssuer:        {http.StatusForbidden, errorInsufficientScope, "The access token was issued by an untrusted issuer"},
	core.ErrorCodeInvalidAudience:      {http.StatusForbidden, errorInsufficientScope, "The access token audience does not match"},
	core.ErrorCodeInvalidClaims:        {http.StatusUnauthorized, errorInvalidToken, "The access token claims are invalid"},
}

// DefaultErrorHandler is the default error handler implementation for the
// JWTMiddleware. If an error handler is not provided via the WithErrorHandler
// option this will be used.
//
// Responses follow RFC 6750: a JSON ErrorResponse body and, for token
// problems, a WWW-Authenticate challenge.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	status, resp, challenge := mapError(err)

	w.Header().Set("Content-Type", "application/json")
	if challenge != "" {
		w.Header().Set("WWW-Authenticate", challenge)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func mapError(err error) (int, ErrorResponse, string) {
	if errors.Is(err, ErrJWTMissing) {
		// RFC 6750 section 3.1: no error code when authentication is absent.
		return http.StatusUnauthorized, ErrorResponse{Error: errorInvalidToken}, "Bearer"
	}

	var extractErr *extractionError
	if errors.As(err, &extractErr) {
		return withChallenge(http.StatusBadRequest, ErrorResponse{
			Error:            errorInvalidRequest,
			ErrorDescription: "The authorization header is malformed",
		})
	}

	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		if vErr.IsBackend() {
			return serverError()
		}

		mapping, ok := validationErrorMappings[vErr.Code]
		if !ok {
			mapping = errorMapping{http.StatusUnauthorized, errorInvalidToken, "The access token is invalid"}
		}
		return withChallenge(mapping.status, ErrorResponse{
			Error:            mapping.errorValue,
			ErrorDescription: mapping.description,
			ErrorCode:        vErr.Code,
		})
	}

	if errors.Is(err, ErrJWTInvalid) {
		return withChallenge(http.StatusUnauthorized, ErrorResponse{
			Error:            errorInvalidToken,
			ErrorDescription: "JWT is invalid",
		})
	}

	return serverError()
}

func withChallenge(status int, resp ErrorResponse) (int, ErrorResponse, string) {
	challenge := fmt.Sprintf(`Bearer error=%q, error_description=%q`, resp.Error, resp.ErrorDescription)
	return status, resp, challenge
}

func serverError() (int, ErrorResponse, string) {
	return http.StatusInternalServerError, ErrorResponse{
		Error:            errorServer,
		ErrorDescription: "An internal error occurred while processing the request",
	}, ""
}

// extractionError marks a failure to read the token from the request, as
// opposed to a token that was read and rejected.
type extractionError struct {
	details error
}

func (e *extractionError) Error() string {
	return fmt.Sprintf("error extracting token: %s", e.details)
}

func (e *extractionError) Unwrap() error {
	return e.details
}
