// Package jwtgin adapts jwtmiddleware to the Gin router.
package jwtgin

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v4"
	"github.com/auth0/go-jwt-middleware/v4/validator"
)

// DefaultClaimsKey is the gin.Context key the validated claims are stored under.
const DefaultClaimsKey = "jwt"

var (
	ErrMissingClaims = errors.New("no JWT claims found in context")
	ErrInvalidClaims = errors.New("invalid JWT claims type")
)

type ginContextKey struct{}

type config struct {
	errorHandler   func(*gin.Context, error)
	claimsKey      string
	middlewareOpts []jwtmiddleware.Option
}

// New creates a Gin middleware for JWT authentication. Requests that fail
// validation are aborted after the error handler has written a response.
func New(v jwtmiddleware.TokenValidator, opts ...Option) (gin.HandlerFunc, error) {
	cfg := &config{
		errorHandler: DefaultErrorHandler,
		claimsKey:    DefaultClaimsKey,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.errorHandler == nil {
		return nil, jwtmiddleware.ErrErrorHandlerNil
	}

	middlewareOpts := append([]jwtmiddleware.Option{
		jwtmiddleware.WithValidator(v),
	}, cfg.middlewareOpts...)
	middlewareOpts = append(middlewareOpts,
		jwtmiddleware.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			c, ok := r.Context().Value(ginContextKey{}).(*gin.Context)
			if !ok {
				jwtmiddleware.DefaultErrorHandler(w, r, err)
				return
			}
			cfg.errorHandler(c, err)
		}),
	)

	middleware, err := jwtmiddleware.New(middlewareOpts...)
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		encounteredError := true
		var next http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			encounteredError = false
			c.Request = r

			if claims, err := jwtmiddleware.GetClaims[*validator.ValidatedClaims](r.Context()); err == nil {
				c.Set(cfg.claimsKey, claims)
			}

			c.Next()
		}

		r := c.Request.WithContext(context.WithValue(c.Request.Context(), ginContextKey{}, c))
		middleware.CheckJWT(next).ServeHTTP(c.Writer, r)

		if encounteredError {
			c.Abort()
		}
	}, nil
}

// DefaultErrorHandler writes the same response as
// jwtmiddleware.DefaultErrorHandler and aborts the chain.
func DefaultErrorHandler(c *gin.Context, err error) {
	jwtmiddleware.DefaultErrorHandler(c.Writer, c.Request, err)
	c.Abort()
}

// GetClaims returns the claims stored under contextKey, or under
// DefaultClaimsKey when contextKey is empty.
func GetClaims(c *gin.Context, contextKey string) (*validator.ValidatedClaims, error) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	claims, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingClaims
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	return validatedClaims, nil
}
