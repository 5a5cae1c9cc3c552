/*
Package jwtmiddleware provides HTTP middleware for JWT authentication.

The middleware reads a bearer token from the request, checks it with a
validator and stores the validated claims in the request context. Failures
are answered with an RFC 6750 error response.

# Quick Start

	import (
	    "github.com/auth0/go-jwt-middleware/v4"
	    "github.com/auth0/go-jwt-middleware/v4/signing"
	    "github.com/auth0/go-jwt-middleware/v4/validator"
	)

	func main() {
	    jwtValidator, err := validator.New(
	        validator.WithKey([]byte(os.Getenv("JWT_SECRET"))),
	        validator.WithAlgorithm(signing.HS256),
	        validator.WithIssuer("https://issuer.example.com/"),
	        validator.WithAudience("my-api"),
	    )
	    if err != nil {
	        log.Fatal(err)
	    }

	    middleware, err := jwtmiddleware.New(
	        jwtmiddleware.WithValidator(jwtValidator),
	    )
	    if err != nil {
	        log.Fatal(err)
	    }

	    http.Handle("/api/", middleware.CheckJWT(apiHandler))
	    http.ListenAndServe(":8080", nil)
	}

Asymmetric keys published as a JWK Set are loaded with the jwks package and
passed through validator.WithKeyFunc.

# Accessing Claims

	func apiHandler(w http.ResponseWriter, r *http.Request) {
	    claims, err := jwtmiddleware.GetClaims[*validator.ValidatedClaims](r.Context())
	    if err != nil {
	        http.Error(w, "Unauthorized", http.StatusUnauthorized)
	        return
	    }
	    fmt.Fprintf(w, "Hello, %s!", claims.RegisteredClaims.Subject)
	}

HasClaims reports whether any claims are present. MustGetClaims panics when
they are not and is meant for handlers that only run behind the middleware.

# Token Extraction

AuthHeaderTokenExtractor is the default. CookieTokenExtractor,
ParameterTokenExtractor and MultiTokenExtractor cover the other common
places a token is sent:

	jwtmiddleware.WithTokenExtractor(jwtmiddleware.MultiTokenExtractor(
	    jwtmiddleware.AuthHeaderTokenExtractor,
	    jwtmiddleware.CookieTokenExtractor("jwt"),
	))

# Error Responses

DefaultErrorHandler maps errors as follows:

  - missing token: 401 with a bare "Bearer" challenge
  - unreadable Authorization header: 400 invalid_request
  - malformed token or bad encoding: 400 invalid_request
  - wrong issuer or audience: 403 insufficient_scope
  - any other token problem: 401 invalid_token
  - backend errors such as a key of the wrong type: 500 server_error

The body is JSON with the error, error_description and error_code fields.
Replace it with WithErrorHandler; core.Code(err) gives the error code.

# Logging, Metrics and Tracing

WithLogger accepts a *slog.Logger directly. NewZapLogger, NewZerologLogger
and NewLogrusLogger adapt the other common loggers.

WithMetrics records jwt_validations_total and
jwt_validation_duration_seconds, tagged by result:

	jwtmiddleware.WithMetrics(jwtmiddleware.NewPrometheusMetrics(prometheus.DefaultRegisterer))

WithTracer wraps each validation in a span:

	jwtmiddleware.WithTracer(jwtmiddleware.NewOpenTelemetryTracer(otel.Tracer("api")))

# Other Transports

The core package holds the transport independent flow. framework/gin,
framework/echo and integrations/grpc adapt it to those servers.
*/
package jwtmiddleware
