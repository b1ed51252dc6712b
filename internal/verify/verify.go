// Package verify provides answer verifiers: a remote AI judge, a local
// normalized comparison, and a fallback chain combining the two.
package verify

import (
	"context"
	"strings"
	"unicode"
)

// Local judges answers by comparing letters only, case-insensitively.
// It never errors.
type Local struct{}

// NewLocal creates a local verifier
func NewLocal() *Local {
	return &Local{}
}

// Verify reports whether the two answers match after normalization
func (l *Local) Verify(_ context.Context, submitted, expected string) (bool, error) {
	return normalize(submitted) == normalize(expected), nil
}

// normalize lowercases and strips everything but letters and digits
func normalize(s string) string {
	var out strings.Builder
	for _, ch := range strings.ToLower(s) {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) {
			out.WriteRune(ch)
		}
	}
	return out.String()
}
