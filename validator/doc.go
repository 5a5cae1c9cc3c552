/*
Package validator decodes, verifies and issues compact signed tokens.

A token is three base64url segments, header.payload.signature. Decode checks
them in a fixed order and stops at the first failure:

 1. the key is not empty
 2. the token has exactly three segments
 3. header and payload are base64url encoded JSON objects
 4. the signature segment is base64url
 5. the header names an algorithm
 6. that algorithm is in the caller's allow-list
 7. the algorithm is supported
 8. the signature matches header.payload
 9. exp, nbf and iat hold at the current time, give or take the leeway

The allow-list always comes from the caller. The alg header of a token is
only ever compared against it, so a token cannot switch a verifier from an
RSA public key to HMAC with that key as the secret.

# Functions

	claims, err := validator.Decode(token, secret, []signing.Algorithm{signing.HS256})

	ok := validator.Validate(token, pub, []signing.Algorithm{signing.RS256},
	    validator.WithLeeway(30*time.Second))

	token, err := validator.Encode(validator.Claims{"sub": "u1"}, secret, signing.HS256,
	    validator.WithKeyID("2024-01"))

DecodeInsecure checks only that the token has three segments and that the
payload decodes to a JSON object; the header is never read. Its result must
never be used to make an authorization decision.

# Validator

Validator wraps Decode for the middleware. It adds issuer and audience
matching, custom claims and key lookup through a key func:

	v, err := validator.New(
	    validator.WithKeyFunc(keyFunc),
	    validator.WithAllowedAlgorithms(signing.RS256, signing.ES256),
	    validator.WithIssuer("https://auth.example.com/"),
	    validator.WithAudience("my-api"),
	    validator.WithAllowedClockSkew(30*time.Second),
	)

	claims, err := v.ValidateToken(ctx, tokenString)
	validated := claims.(*validator.ValidatedClaims)

A key func may return a KeySelector, such as a set parsed by the jwks
package, and the key is then chosen by the token's kid header.

# Custom Claims

	type MyClaims struct {
	    Scope string `json:"scope"`
	}

	func (c *MyClaims) Validate(ctx context.Context) error {
	    if c.Scope == "" {
	        return errors.New("scope is required")
	    }
	    return nil
	}

	v, err := validator.New(
	    // ...
	    validator.WithCustomClaims(func() validator.CustomClaims {
	        return &MyClaims{}
	    }),
	)

# Errors

Every failure is a *core.ValidationError. Use errors.Is with the core
sentinels (core.ErrExpired, core.ErrDisallowedAlgorithm, ...) to test for a
kind. Errors for which IsBackend reports true mean the token could not be
checked at all, for example because the key has the wrong type.
*/
package validator
