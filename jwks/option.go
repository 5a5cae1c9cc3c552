package jwks

import "github.com/auth0/go-jwt-middleware/v4/signing"

type options struct {
	pem bool
}

// Option configures ParseKey and ParseSet.
type Option func(*options)

// WithPEM treats the input as PEM encoded keys instead of JSON.
func WithPEM() Option {
	return func(o *options) {
		o.pem = true
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type exportOptions struct {
	kid string
	alg signing.Algorithm
}

// ExportOption configures Export.
type ExportOption func(*exportOptions)

// WithKeyID sets the kid of the exported key.
func WithKeyID(kid string) ExportOption {
	return func(o *exportOptions) {
		o.kid = kid
	}
}

// WithAlgorithm sets the alg of the exported key.
func WithAlgorithm(alg signing.Algorithm) ExportOption {
	return func(o *exportOptions) {
		o.alg = alg
	}
}
