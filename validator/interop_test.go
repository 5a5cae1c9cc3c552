package validator

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	golangjwt "github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auth0/go-jwt-middleware/v4/signing"
)

type interopKey struct {
	alg     signing.Algorithm
	jwa     jwa.SignatureAlgorithm
	private any
	public  any
}

func interopKeys(t *testing.T) []interopKey {
	t.Helper()

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	edPub, edPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	return []interopKey{
		{alg: signing.HS512, jwa: jwa.HS512, private: testSecret, public: testSecret},
		{alg: signing.RS256, jwa: jwa.RS256, private: rsaKey, public: &rsaKey.PublicKey},
		{alg: signing.PS384, jwa: jwa.PS384, private: rsaKey, public: &rsaKey.PublicKey},
		{alg: signing.ES256, jwa: jwa.ES256, private: ecKey, public: &ecKey.PublicKey},
		{alg: signing.EdDSA, jwa: jwa.EdDSA, private: edPriv, public: edPub},
	}
}

func TestInterop_JWX(t *testing.T) {
	for _, k := range interopKeys(t) {
		t.Run(string(k.alg), func(t *testing.T) {
			t.Run("jwx token decodes", func(t *testing.T) {
				tok, err := jwt.NewBuilder().
					Subject("u1").
					Expiration(testNow.Add(time.Hour)).
					Build()
				require.NoError(t, err)

				signed, err := jwt.Sign(tok, jwt.WithKey(k.jwa, k.private))
				require.NoError(t, err)

				claims, err := Decode(string(signed), k.public, []signing.Algorithm{k.alg}, WithClock(fixedClock))
				require.NoError(t, err)
				assert.Equal(t, "u1", claims["sub"])
			})

			t.Run("encoded token verifies with jwx", func(t *testing.T) {
				token, err := Encode(Claims{"sub": "u1"}, k.private, k.alg)
				require.NoError(t, err)

				payload, err := jws.Verify([]byte(token), jws.WithKey(k.jwa, k.public))
				require.NoError(t, err)
				assert.JSONEq(t, `{"sub":"u1"}`, string(payload))
			})
		})
	}
}

func TestInterop_GolangJWT(t *testing.T) {
	t.Run("golang-jwt token decodes", func(t *testing.T) {
		tok := golangjwt.NewWithClaims(golangjwt.SigningMethodHS256, golangjwt.MapClaims{
			"sub": "u1",
			"exp": testNow.Add(time.Minute).Unix(),
		})
		signed, err := tok.SignedString(testSecret)
		require.NoError(t, err)

		claims, err := Decode(signed, testSecret, []signing.Algorithm{signing.HS256}, WithClock(fixedClock))
		require.NoError(t, err)
		assert.Equal(t, "u1", claims["sub"])
	})

	t.Run("encoded token parses with golang-jwt", func(t *testing.T) {
		token, err := Encode(Claims{"sub": "u1"}, testSecret, signing.HS256)
		require.NoError(t, err)

		parsed, err := golangjwt.Parse(token, func(*golangjwt.Token) (any, error) {
			return testSecret, nil
		}, golangjwt.WithValidMethods([]string{"HS256"}))
		require.NoError(t, err)
		assert.True(t, parsed.Valid)

		sub, err := parsed.Claims.GetSubject()
		require.NoError(t, err)
		assert.Equal(t, "u1", sub)
	})
}
