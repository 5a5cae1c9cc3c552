package grpc

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/metadata"
)

// TokenExtractor extracts JWT tokens from gRPC metadata.
type TokenExtractor func(ctx context.Context) (string, error)

var (
	// ErrMultipleAuthHeaders indicates multiple authorization metadata entries were provided.
	ErrMultipleAuthHeaders = errors.New("multiple authorization metadata entries are not allowed")

	// ErrInvalidAuthFormat indicates the authorization metadata is not "Bearer <token>".
	ErrInvalidAuthFormat = errors.New("invalid authorization metadata format, expected: Bearer <token>")
)

// MetadataTokenExtractor reads a bearer token from the "authorization"
// metadata key. Missing metadata is not an error; the token is then empty.
func MetadataTokenExtractor(ctx context.Context) (string, error) {
	return MetadataKeyTokenExtractor("authorization")(ctx)
}

// MetadataKeyTokenExtractor reads a bearer token from the given metadata key.
// Keys are matched in lower case, as gRPC normalizes them.
func MetadataKeyTokenExtractor(key string) TokenExtractor {
	key = strings.ToLower(key)
	return func(ctx context.Context) (string, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return "", nil
		}

		values := md.Get(key)
		switch len(values) {
		case 0:
			return "", nil
		case 1:
		default:
			return "", ErrMultipleAuthHeaders
		}

		scheme, token, ok := strings.Cut(strings.TrimSpace(values[0]), " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || token == "" || strings.ContainsAny(token, " \t") {
			return "", ErrInvalidAuthFormat
		}
		return token, nil
	}
}
