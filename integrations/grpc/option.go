package grpc

import (
	"errors"
	"reflect"

	"github.com/auth0/go-jwt-middleware/v4/core"
)

// Option configures the JWT interceptor.
type Option func(*JWTInterceptor) error

// Logger is the slog-style logger shared with core. *slog.Logger and the
// adapters of the jwtmiddleware package satisfy it.
type Logger = core.Logger

var (
	ErrValidatorNil      = errors.New("validator is required, use WithValidator option")
	ErrLoggerNil         = errors.New("logger cannot be nil")
	ErrTokenExtractorNil = errors.New("token extractor cannot be nil")
	ErrErrorHandlerNil   = errors.New("error handler cannot be nil")
)

// WithValidator sets the JWT validator (REQUIRED). *validator.Validator
// satisfies core.Validator.
//
// Example:
//
//	interceptor, err := jwtgrpc.New(
//	    jwtgrpc.WithValidator(v),
//	    jwtgrpc.WithLogger(slog.Default()),
//	)
func WithValidator(v core.Validator) Option {
	return func(i *JWTInterceptor) error {
		if v == nil || (reflect.ValueOf(v).Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil()) {
			return ErrValidatorNil
		}
		i.validator = v
		return nil
	}
}

// WithCredentialsOptional lets calls without a token through, with no claims
// in the context.
//
// Default: false (credentials required)
func WithCredentialsOptional(optional bool) Option {
	return func(i *JWTInterceptor) error {
		i.credentialsOptional = optional
		return nil
	}
}

// WithLogger sets an optional logger for the interceptor and core.
func WithLogger(logger Logger) Option {
	return func(i *JWTInterceptor) error {
		if logger == nil {
			return ErrLoggerNil
		}
		i.logger = logger
		return nil
	}
}

// WithTokenExtractor sets a custom token extractor function.
// Default is MetadataTokenExtractor.
func WithTokenExtractor(extractor TokenExtractor) Option {
	return func(i *JWTInterceptor) error {
		if extractor == nil {
			return ErrTokenExtractorNil
		}
		i.tokenExtractor = extractor
		return nil
	}
}

// WithErrorHandler sets a custom error handler function.
// Default is DefaultErrorHandler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(i *JWTInterceptor) error {
		if handler == nil {
			return ErrErrorHandlerNil
		}
		i.errorHandler = handler
		return nil
	}
}

// WithExcludedMethods excludes gRPC methods, given as
// "/package.Service/Method", from JWT validation.
func WithExcludedMethods(methods ...string) Option {
	return func(i *JWTInterceptor) error {
		for _, method := range methods {
			i.excludedMethods[method] = true
		}
		return nil
	}
}
