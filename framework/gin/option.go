package jwtgin

import (
	"github.com/gin-gonic/gin"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v4"
)

// Option configures the Gin middleware.
type Option func(*config)

// WithErrorHandler sets the handler called when validation fails. The chain
// is aborted whether or not the handler calls c.Abort.
func WithErrorHandler(handler func(*gin.Context, error)) Option {
	return func(cfg *config) {
		cfg.errorHandler = handler
	}
}

// WithClaimsKey sets the gin.Context key the claims are stored under.
func WithClaimsKey(key string) Option {
	return func(cfg *config) {
		cfg.claimsKey = key
	}
}

// WithMiddlewareOptions passes options through to jwtmiddleware.New, for
// example a token extractor or credentials being optional. An error handler
// set here is replaced by the one of this package.
func WithMiddlewareOptions(opts ...jwtmiddleware.Option) Option {
	return func(cfg *config) {
		cfg.middlewareOpts = append(cfg.middlewareOpts, opts...)
	}
}
