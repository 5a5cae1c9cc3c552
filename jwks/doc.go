/*
Package jwks turns JSON Web Keys and PEM blocks into key material for the
signing and validator packages, and exports public keys as JWKs.

It only parses bytes the caller already holds. Fetching, caching and
rotating key sets is left to the application.

# Single keys

	key, err := jwks.ParseKey(pemBytes, jwks.WithPEM())
	claims, err := validator.Decode(token, key, []signing.Algorithm{signing.RS256})

# Key sets

A Set picks a key by the token's kid header:

	set, err := jwks.ParseSet(jwksJSON)

	v, err := validator.New(
	    validator.WithKeyFunc(set.KeyFunc),
	    validator.WithAllowedAlgorithms(signing.RS256, signing.ES256),
	)

A kid that is not in the set fails with core.ErrKeyNotFound, which
transports report as an invalid token rather than a server error.

# Publishing keys

	doc, err := jwks.Export(&privateKey.PublicKey,
	    jwks.WithKeyID("2024-01"),
	    jwks.WithAlgorithm(signing.RS256),
	)
*/
package jwks
