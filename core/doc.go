/*
Package core provides framework-agnostic JWT validation logic that can be used
across different transport layers (HTTP, gRPC, etc.).

# Architecture

	┌─────────────────────────────────────────────┐
	│         Transport Adapters                  │
	│  (net/http, gRPC, Gin, Echo)                │
	└────────────────┬────────────────────────────┘
	                 │
	                 ▼
	┌─────────────────────────────────────────────┐
	│          Core Engine (THIS PACKAGE)         │
	│  • Credentials optional logic               │
	│  • Logger integration                       │
	│  • Error taxonomy                           │
	└────────────────┬────────────────────────────┘
	                 │
	                 ▼
	┌─────────────────────────────────────────────┐
	│          validator / signing                │
	│  (decode pipeline, signature dispatch)      │
	└─────────────────────────────────────────────┘

# Basic Usage

	val, err := validator.New(
	    validator.WithKey(secret),
	    validator.WithAllowedAlgorithms(signing.HS256),
	)
	if err != nil {
	    log.Fatal(err)
	}

	c, err := core.New(core.WithValidator(val))
	if err != nil {
	    log.Fatal(err)
	}

	claims, err := c.CheckToken(ctx, tokenString)

# Error Handling

Every rejection is a *ValidationError with a machine-readable Code. Each code
has a sentinel that errors.Is matches by code:

	_, err := c.CheckToken(ctx, tokenString)
	switch {
	case errors.Is(err, core.ErrExpired):
	    // exp is in the past
	case errors.Is(err, core.ErrDisallowedAlgorithm):
	    // alg not in the configured allow-list
	case errors.Is(err, core.ErrJWTInvalid):
	    // any other rejection of the token itself
	case err != nil:
	    // backend failure: the token could not be checked
	}

Signing and verification backend errors (wrong key type, primitive faults)
do not match ErrJWTInvalid.

# Context Helpers

	ctx = core.SetClaims(ctx, claims)
	claims, err := core.GetClaims[*validator.ValidatedClaims](ctx)
	if core.HasClaims(ctx) { ... }
*/
package core
