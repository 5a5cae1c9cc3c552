package jwtmiddleware

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auth0/go-jwt-middleware/v4/core"
	"github.com/auth0/go-jwt-middleware/v4/signing"
	"github.com/auth0/go-jwt-middleware/v4/validator"
)

const (
	testIssuer   = "testIssuer"
	testAudience = "testAudience"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func mustToken(t *testing.T, claims validator.Claims) string {
	t.Helper()
	token, err := validator.Encode(claims, testSecret, signing.HS256)
	require.NoError(t, err)
	return token
}

func newTestValidator(t *testing.T, key any) *validator.Validator {
	t.Helper()
	v, err := validator.New(
		validator.WithKey(key),
		validator.WithAlgorithm(signing.HS256),
		validator.WithIssuer(testIssuer),
		validator.WithAudience(testAudience),
	)
	require.NoError(t, err)
	return v
}

// claimsHandler echoes the subject of the validated claims, or "anonymous".
var claimsHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	subject := "anonymous"
	if claims, err := GetClaims[*validator.ValidatedClaims](r.Context()); err == nil {
		subject = claims.RegisteredClaims.Subject
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"subject": subject})
})

func Test_CheckJWT(t *testing.T) {
	validToken := mustToken(t, validator.Claims{"iss": testIssuer, "aud": testAudience, "sub": "user-1"})
	wrongIssuer := mustToken(t, validator.Claims{"iss": "testing", "aud": testAudience})
	expired := mustToken(t, validator.Claims{"iss": testIssuer, "aud": testAudience, "exp": time.Now().Add(-time.Hour).Unix()})

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwtValidator := newTestValidator(t, testSecret)

	testCases := []struct {
		name           string
		validator      TokenValidator
		options        []Option
		method         string
		path           string
		header         string
		wantStatusCode int
		wantBody       map[string]string
	}{
		{
			name:           "it can successfully validate a token",
			header:         "Bearer " + validToken,
			wantStatusCode: http.StatusOK,
			wantBody:       map[string]string{"subject": "user-1"},
		},
		{
			name:           "it can validate on options",
			method:         http.MethodOptions,
			header:         "Bearer " + validToken,
			wantStatusCode: http.StatusOK,
			wantBody:       map[string]string{"subject": "user-1"},
		},
		{
			name:           "it rejects a token with a bad format",
			header:         "Bearer bad",
			wantStatusCode: http.StatusBadRequest,
			wantBody: map[string]string{
				"error":             "invalid_request",
				"error_description": "The access token is malformed",
				"error_code":        core.ErrorCodeTokenMalformed,
			},
		},
		{
			name:           "it fails to validate if token is missing and credentials are not optional",
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       map[string]string{"error": "invalid_token"},
		},
		{
			name:           "it fails to validate a token from another issuer",
			header:         "Bearer " + wrongIssuer,
			wantStatusCode: http.StatusForbidden,
			wantBody: map[string]string{
				"error":             "insufficient_scope",
				"error_description": "The access token was issued by an untrusted issuer",
				"error_code":        core.ErrorCodeInvalidIssuer,
			},
		},
		{
			name:           "it fails to validate an expired token",
			header:         "Bearer " + expired,
			wantStatusCode: http.StatusUnauthorized,
			wantBody: map[string]string{
				"error":             "invalid_token",
				"error_description": "The access token expired",
				"error_code":        core.ErrorCodeTokenExpired,
			},
		},
		{
			name:           "it answers 500 when the key cannot be used",
			validator:      newTestValidator(t, &rsaKey.PublicKey),
			header:         "Bearer " + validToken,
			wantStatusCode: http.StatusInternalServerError,
			wantBody: map[string]string{
				"error":             "server_error",
				"error_description": "An internal error occurred while processing the request",
			},
		},
		{
			name: "it skips validation on OPTIONS if validateOnOptions is set to false",
			options: []Option{
				WithValidateOnOptions(false),
			},
			method:         http.MethodOptions,
			header:         "Bearer " + validToken,
			wantStatusCode: http.StatusOK,
			wantBody:       map[string]string{"subject": "anonymous"},
		},
		{
			name:           "it rejects a malformed authorization header",
			header:         "Basic dXNlcjpwYXNz",
			wantStatusCode: http.StatusBadRequest,
			wantBody: map[string]string{
				"error":             "invalid_request",
				"error_description": "The authorization header is malformed",
			},
		},
		{
			name: "it calls the custom error handler when token validation fails",
			options: []Option{
				WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusTeapot)
					_, _ = w.Write(fmt.Appendf(nil, `{"code":%q}`, core.Code(err)))
				}),
			},
			header:         "Bearer " + expired,
			wantStatusCode: http.StatusTeapot,
			wantBody:       map[string]string{"code": core.ErrorCodeTokenExpired},
		},
		{
			name:           "it passes through when credentials are optional and no token is sent",
			options:        []Option{WithCredentialsOptional(true)},
			wantStatusCode: http.StatusOK,
			wantBody:       map[string]string{"subject": "anonymous"},
		},
		{
			name:           "it still rejects a bad token when credentials are optional",
			options:        []Option{WithCredentialsOptional(true)},
			header:         "Bearer " + wrongIssuer,
			wantStatusCode: http.StatusForbidden,
			wantBody: map[string]string{
				"error":             "insufficient_scope",
				"error_description": "The access token was issued by an untrusted issuer",
				"error_code":        core.ErrorCodeInvalidIssuer,
			},
		},
		{
			name:           "it skips excluded paths",
			options:        []Option{WithExclusionUrls([]string{"/health"})},
			path:           "/health",
			wantStatusCode: http.StatusOK,
			wantBody:       map[string]string{"subject": "anonymous"},
		},
		{
			name: "it reads the token from a cookie",
			options: []Option{
				WithTokenExtractor(CookieTokenExtractor("jwt")),
			},
			header:         "cookie:" + validToken,
			wantStatusCode: http.StatusOK,
			wantBody:       map[string]string{"subject": "user-1"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			v := testCase.validator
			if v == nil {
				v = jwtValidator
			}
			opts := append([]Option{WithValidator(v)}, testCase.options...)

			middleware, err := New(opts...)
			require.NoError(t, err)

			server := httptest.NewServer(middleware.CheckJWT(claimsHandler))
			defer server.Close()

			method := testCase.method
			if method == "" {
				method = http.MethodGet
			}
			request, err := http.NewRequest(method, server.URL+testCase.path, nil)
			require.NoError(t, err)

			switch {
			case len(testCase.header) > 7 && testCase.header[:7] == "cookie:":
				request.AddCookie(&http.Cookie{Name: "jwt", Value: testCase.header[7:]})
			case testCase.header != "":
				request.Header.Set("Authorization", testCase.header)
			}

			response, err := server.Client().Do(request)
			require.NoError(t, err)
			defer response.Body.Close()

			body, err := io.ReadAll(response.Body)
			require.NoError(t, err)

			assert.Equal(t, testCase.wantStatusCode, response.StatusCode)
			assert.Equal(t, "application/json", response.Header.Get("Content-Type"))

			var got map[string]string
			require.NoError(t, json.Unmarshal(body, &got), string(body))
			if diff := cmp.Diff(testCase.wantBody, got); diff != "" {
				t.Errorf("body mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_CheckJWT_ValidateTokenFunc(t *testing.T) {
	called := false
	middleware, err := New(WithValidateToken(func(_ context.Context, token string) (any, error) {
		called = true
		if token != "opaque" {
			return nil, errors.New("unexpected token")
		}
		return "claims", nil
	}))
	require.NoError(t, err)

	var gotClaims string
	handler := middleware.CheckJWT(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = MustGetClaims[string](r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer opaque")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "claims", gotClaims)

	t.Run("plain errors are server errors", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer other")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHasClaims(t *testing.T) {
	ctx := context.Background()
	assert.False(t, HasClaims(ctx))
	assert.True(t, HasClaims(core.SetClaims(ctx, "x")))
	assert.Panics(t, func() { MustGetClaims[string](ctx) })
}
