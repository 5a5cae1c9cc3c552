package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/auth0/go-jwt-middleware/v4/core"
)

// JWTInterceptor authenticates gRPC calls with a bearer token read from the
// call metadata. Build one with New and register both of its interceptors
// on the server.
type JWTInterceptor struct {
	core            *core.Core
	tokenExtractor  TokenExtractor
	errorHandler    ErrorHandler
	excludedMethods map[string]bool
	logger          Logger

	validator           core.Validator
	credentialsOptional bool
}

// New builds an interceptor. WithValidator is required.
func New(opts ...Option) (*JWTInterceptor, error) {
	i := &JWTInterceptor{
		tokenExtractor:  MetadataTokenExtractor,
		errorHandler:    DefaultErrorHandler,
		excludedMethods: map[string]bool{},
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	if i.validator == nil {
		return nil, ErrValidatorNil
	}

	coreOpts := []core.Option{
		core.WithValidator(i.validator),
		core.WithCredentialsOptional(i.credentialsOptional),
	}
	if i.logger != nil {
		coreOpts = append(coreOpts, core.WithLogger(i.logger))
	}

	var err error
	if i.core, err = core.New(coreOpts...); err != nil {
		return nil, err
	}
	return i, nil
}

// UnaryServerInterceptor stores the token's claims in the handler context,
// or fails the call with the status chosen by the error handler.
func (i *JWTInterceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, err := i.authenticate(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// StreamServerInterceptor is the streaming counterpart of
// UnaryServerInterceptor. Handlers see the claims through ss.Context().
func (i *JWTInterceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, err := i.authenticate(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		return handler(srv, &claimsStream{ServerStream: ss, ctx: ctx})
	}
}

func (i *JWTInterceptor) authenticate(ctx context.Context, method string) (context.Context, error) {
	if i.excludedMethods[method] {
		i.debug("method excluded from authentication", method)
		return ctx, nil
	}

	token, err := i.tokenExtractor(ctx)
	if err != nil {
		if i.logger != nil {
			i.logger.Error("reading token from metadata", "error", err, "method", method)
		}
		return ctx, i.errorHandler(&extractionError{details: err})
	}

	claims, err := i.core.CheckToken(ctx, token)
	if err != nil {
		if i.logger != nil {
			i.logger.Warn("token rejected", "error", err, "method", method)
		}
		return ctx, i.errorHandler(err)
	}
	if claims == nil {
		i.debug("no token, continuing anonymously", method)
		return ctx, nil
	}

	i.debug("token accepted", method)
	return core.SetClaims(ctx, claims), nil
}

func (i *JWTInterceptor) debug(msg, method string) {
	if i.logger != nil {
		i.logger.Debug(msg, "method", method)
	}
}

// claimsStream overrides the context of a server stream.
type claimsStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *claimsStream) Context() context.Context { return s.ctx }
