package jwtecho

import (
	"github.com/labstack/echo/v4"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v4"
)

// Option configures the Echo middleware.
type Option func(*config)

// WithErrorHandler sets the handler called when validation fails. A non-nil
// error it returns is passed on to Echo's HTTPErrorHandler.
func WithErrorHandler(handler func(echo.Context, error) error) Option {
	return func(cfg *config) {
		cfg.errorHandler = handler
	}
}

// WithClaimsKey sets the echo.Context key the claims are stored under.
func WithClaimsKey(key string) Option {
	return func(cfg *config) {
		cfg.claimsKey = key
	}
}

// WithMiddlewareOptions passes options through to jwtmiddleware.New. An
// error handler set here is replaced by the one of this package.
func WithMiddlewareOptions(opts ...jwtmiddleware.Option) Option {
	return func(cfg *config) {
		cfg.middlewareOpts = append(cfg.middlewareOpts, opts...)
	}
}
