// Package core provides framework-agnostic JWT validation logic that can be used
// across different transport layers (HTTP, gRPC, etc.).
//
// It also owns the error taxonomy shared by the signing and validator
// packages.
package core

import (
	"context"
	"time"
)

// Validator defines the interface for token validation.
// Implementations validate a compact token and return the validated claims.
type Validator interface {
	ValidateToken(ctx context.Context, token string) (any, error)
}

// Logger defines an optional logging interface for the core middleware.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Core is the framework-agnostic JWT validation engine.
type Core struct {
	validator           Validator
	credentialsOptional bool
	logger              Logger
}

// CheckToken validates a JWT token string and returns the validated claims.
//
//   - If token is empty and credentialsOptional is true, returns (nil, nil)
//   - If token is empty and credentialsOptional is false, returns ErrJWTMissing
//   - Otherwise, validates the token using the configured validator
//
// The returned claims should be type-asserted by the caller, typically to
// *validator.ValidatedClaims.
func (c *Core) CheckToken(ctx context.Context, token string) (any, error) {
	if token == "" {
		if c.credentialsOptional {
			if c.logger != nil {
				c.logger.Debug("no token provided, but credentials are optional")
			}
			return nil, nil
		}

		if c.logger != nil {
			c.logger.Warn("no token provided and credentials are required")
		}
		return nil, ErrJWTMissing
	}

	start := time.Now()
	claims, err := c.validator.ValidateToken(ctx, token)
	duration := time.Since(start)

	if err != nil {
		if c.logger != nil {
			c.logger.Error("token validation failed",
				"code", Code(err),
				"error", err,
				"duration", duration)
		}
		return nil, err
	}

	if c.logger != nil {
		c.logger.Debug("token validated successfully", "duration", duration)
	}
	return claims, nil
}
