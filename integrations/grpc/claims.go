package grpc

import (
	"context"

	"github.com/auth0/go-jwt-middleware/v4/core"
)

// GetClaims returns the claims the interceptor stored in ctx.
//
//	claims, err := jwtgrpc.GetClaims[*validator.ValidatedClaims](ctx)
//	if err != nil {
//	    return nil, status.Error(codes.Internal, "failed to get claims")
//	}
func GetClaims[T any](ctx context.Context) (T, error) {
	return core.GetClaims[T](ctx)
}

// MustGetClaims is GetClaims for handlers that only run behind the
// interceptor. It panics when the claims are missing.
func MustGetClaims[T any](ctx context.Context) T {
	claims, err := core.GetClaims[T](ctx)
	if err != nil {
		panic(err)
	}
	return claims
}

func HasClaims(ctx context.Context) bool {
	return core.HasClaims(ctx)
}
