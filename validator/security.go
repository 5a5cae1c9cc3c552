package validator

import (
	"fmt"

	"github.com/auth0/go-jwt-middleware/v4/core"
)

// DefaultMaxTokenSize is the largest token a Validator accepts unless
// WithMaxTokenSize says otherwise. Real tokens rarely exceed a few KB.
const DefaultMaxTokenSize = 1024 * 1024

// checkTokenSize rejects oversized input before any splitting or base64
// work is done on it.
func checkTokenSize(tokenString string, limit int) error {
	if len(tokenString) > limit {
		return core.NewValidationError(
			core.ErrorCodeTokenMalformed,
			fmt.Sprintf("token exceeds maximum size (%d bytes)", limit),
			nil,
		)
	}
	return nil
}
