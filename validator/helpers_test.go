package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/auth0/go-jwt-middleware/v4/internal/base64url"
	"github.com/auth0/go-jwt-middleware/v4/signing"
)

var (
	testSecret = []byte("0123456789abcdef0123456789abcdef")
	testNow    = time.Unix(1_700_000_000, 0)
)

func fixedClock() time.Time { return testNow }

// rawSigned assembles a token from literal header and payload JSON, signing
// it with alg regardless of what the header says.
func rawSigned(t *testing.T, header, payload string, key any, alg signing.Algorithm) string {
	t.Helper()

	input := base64url.Encode([]byte(header)) + "." + base64url.Encode([]byte(payload))
	sig, err := signing.Sign(input, key, alg)
	require.NoError(t, err)
	return input + "." + base64url.Encode(sig)
}
