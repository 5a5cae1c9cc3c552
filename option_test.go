package jwtmiddleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auth0/go-jwt-middleware/v4/validator"
)

func TestNew(t *testing.T) {
	okValidator := ValidateToken(func(context.Context, string) (any, error) { return "ok", nil })
	var nilValidator *validator.Validator

	testCases := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "no validator", wantErr: ErrValidatorNil},
		{name: "nil validator", opts: []Option{WithValidator(nil)}, wantErr: ErrValidatorNil},
		{name: "typed nil validator", opts: []Option{WithValidator(nilValidator)}, wantErr: ErrValidatorNil},
		{name: "nil validate func", opts: []Option{WithValidateToken(nil)}, wantErr: ErrValidatorNil},
		{name: "nil error handler", opts: []Option{WithValidator(okValidator), WithErrorHandler(nil)}, wantErr: ErrErrorHandlerNil},
		{name: "nil extractor", opts: []Option{WithValidator(okValidator), WithTokenExtractor(nil)}, wantErr: ErrTokenExtractorNil},
		{name: "empty exclusions", opts: []Option{WithValidator(okValidator), WithExclusionUrls(nil)}, wantErr: ErrExclusionUrlsEmpty},
		{name: "nil logger", opts: []Option{WithValidator(okValidator), WithLogger(nil)}, wantErr: ErrLoggerNil},
		{name: "nil metrics", opts: []Option{WithValidator(okValidator), WithMetrics(nil)}, wantErr: ErrMetricsNil},
		{name: "nil tracer", opts: []Option{WithValidator(okValidator), WithTracer(nil)}, wantErr: ErrTracerNil},
		{
			name: "everything set",
			opts: []Option{
				WithValidator(okValidator),
				WithCredentialsOptional(true),
				WithValidateOnOptions(false),
				WithErrorHandler(DefaultErrorHandler),
				WithTokenExtractor(ParameterTokenExtractor("token")),
				WithExclusionUrls([]string{"/public"}),
				WithLogger(slog.Default()),
				WithMetrics(NewPrometheusMetrics(prometheus.NewRegistry())),
				WithTracer(NoopTracer{}),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := New(tc.opts...)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, m.core)
		})
	}
}

func TestWithExclusionUrls(t *testing.T) {
	m := &JWTMiddleware{}
	require.NoError(t, WithExclusionUrls([]string{"/health", "http://example.com/metrics"})(m))

	for target, want := range map[string]bool{
		"/health":                    true,
		"/health/deep":               false,
		"http://example.com/metrics": true,
		"/api":                       false,
	} {
		r := httptest.NewRequest(http.MethodGet, target, nil)
		assert.Equal(t, want, m.exclusionURLHandler(r), target)
	}
}

func TestDefaults(t *testing.T) {
	m, err := New(WithValidateToken(func(context.Context, string) (any, error) { return nil, nil }))
	require.NoError(t, err)

	assert.True(t, m.validateOnOptions)
	assert.NotNil(t, m.errorHandler)
	assert.NotNil(t, m.tokenExtractor)
	assert.Equal(t, NoopMetrics{}, m.metrics)
	assert.Equal(t, NoopTracer{}, m.tracer)
}
