// Package grpc provides gRPC server interceptors for JWT authentication.
//
// The interceptors read a bearer token from the "authorization" metadata,
// check it with a validator and put the claims in the handler's context.
//
//	jwtValidator, err := validator.New(
//	    validator.WithKeyFunc(set.KeyFunc),
//	    validator.WithAlgorithm(signing.ES256),
//	    validator.WithIssuer("https://issuer.example.com/"),
//	    validator.WithAudience("my-grpc-api"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	interceptor, err := jwtgrpc.New(
//	    jwtgrpc.WithValidator(jwtValidator),
//	    jwtgrpc.WithLogger(slog.Default()),
//	    jwtgrpc.WithExcludedMethods("/grpc.health.v1.Health/Check"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	server := grpc.NewServer(
//	    grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
//	    grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
//	)
//
// In a handler:
//
//	claims, err := jwtgrpc.GetClaims[*validator.ValidatedClaims](ctx)
//
// # Status Codes
//
// DefaultErrorHandler returns Unauthenticated for a missing or rejected
// token, PermissionDenied for a wrong issuer or audience, InvalidArgument for
// a malformed token or authorization entry and Internal when the token could
// not be checked at all.
package grpc
