// Package jwtecho adapts jwtmiddleware to the Echo framework.
package jwtecho

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v4"
	"github.com/auth0/go-jwt-middleware/v4/validator"
)

// DefaultClaimsKey is the echo.Context key the validated claims are stored under.
const DefaultClaimsKey = "jwt"

type echoContextKey struct{}

type config struct {
	errorHandler   func(echo.Context, error) error
	claimsKey      string
	middlewareOpts []jwtmiddleware.Option
}

// New creates an Echo middleware for JWT authentication. The error returned
// by the error handler, or by the next handler, is returned to Echo.
func New(v jwtmiddleware.TokenValidator, opts ...Option) (echo.MiddlewareFunc, error) {
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
			state, ok := r.Context().Value(echoContextKey{}).(*requestState)
			if !ok {
				jwtmiddleware.DefaultErrorHandler(w, r, err)
				return
			}
			state.err = cfg.errorHandler(state.c, err)
		}),
	)

	middleware, err := jwtmiddleware.New(middlewareOpts...)
	if err != nil {
		return nil, err
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state := &requestState{c: c}
			var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
				c.SetRequest(r)

				if claims, err := jwtmiddleware.GetClaims[*validator.ValidatedClaims](r.Context()); err == nil {
					c.Set(cfg.claimsKey, claims)
				}

				state.err = next(c)
			}

			r := c.Request().WithContext(context.WithValue(c.Request().Context(), echoContextKey{}, state))
			middleware.CheckJWT(handler).ServeHTTP(c.Response(), r)
			return state.err
		}
	}, nil
}

// requestState carries the echo.Context into the error handler and the
// handler error back out of the net/http chain.
type requestState struct {
	c   echo.Context
	err error
}

// DefaultErrorHandler writes the same response as
// jwtmiddleware.DefaultErrorHandler.
func DefaultErrorHandler(c echo.Context, err error) error {
	jwtmiddleware.DefaultErrorHandler(c.Response(), c.Request(), err)
	return nil
}

// GetClaims returns the claims stored under contextKey, or under
// DefaultClaimsKey when contextKey is empty.
func GetClaims(c echo.Context, contextKey string) (*validator.ValidatedClaims, bool) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	validatedClaims, ok := c.Get(contextKey).(*validator.ValidatedClaims)
	return validatedClaims, ok
}
