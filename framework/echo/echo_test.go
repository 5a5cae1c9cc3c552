package jwtecho

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v4"
	"github.com/auth0/go-jwt-middleware/v4/core"
	"github.com/auth0/go-jwt-middleware/v4/signing"
	"github.com/auth0/go-jwt-middleware/v4/validator"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newServer(t *testing.T, opts ...Option) *echo.Echo {
	t.Helper()

	v, err := validator.New(
		validator.WithKey(testSecret),
		validator.WithAlgorithm(signing.HS256),
	)
	require.NoError(t, err)

	middleware, err := New(v, opts...)
	require.NoError(t, err)

	e := echo.New()
	e.Use(middleware)
	e.GET("/", func(c echo.Context) error {
		subject := "anonymous"
		if claims, ok := GetClaims(c, ""); ok {
			subject = claims.RegisteredClaims.Subject
		}
		return c.JSON(http.StatusOK, map[string]string{"subject": subject})
	})
	e.GET("/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "conflict")
	})
	return e
}

func serve(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func body(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got), rec.Body.String())
	return got
}

func TestNew(t *testing.T) {
	token, err := validator.Encode(validator.Claims{"sub": "user-1"}, testSecret, signing.HS256)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		rec := serve(newServer(t), "/", token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", body(t, rec)["subject"])
	})

	t.Run("handler errors reach echo", func(t *testing.T) {
		rec := serve(newServer(t), "/fail", token)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := serve(newServer(t), "/", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("disallowed algorithm", func(t *testing.T) {
		hs384, err := validator.Encode(validator.Claims{"sub": "user-1"}, testSecret, signing.HS384)
		require.NoError(t, err)

		rec := serve(newServer(t), "/", hs384)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, core.ErrorCodeDisallowedAlgorithm, body(t, rec)["error_code"])
	})

	t.Run("error handler returning an echo error", func(t *testing.T) {
		e := newServer(t, WithErrorHandler(func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, core.Code(err))
		}))
		rec := serve(e, "/", "a.b")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), core.ErrorCodeTokenMalformed)
	})

	t.Run("credentials optional", func(t *testing.T) {
		e := newServer(t, WithMiddlewareOptions(jwtmiddleware.WithCredentialsOptional(true)))
		rec := serve(e, "/", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "anonymous", body(t, rec)["subject"])
	})

	t.Run("nil error handler", func(t *testing.T) {
		_, err := New(jwtmiddleware.ValidateToken(nil), WithErrorHandler(nil))
		assert.ErrorIs(t, err, jwtmiddleware.ErrErrorHandlerNil)
	})
}
