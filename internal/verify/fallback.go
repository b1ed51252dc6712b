package verify

import (
	"context"
	"log"

	"github.com/hackvoyage/voyager/internal/instance"
)

// Fallback consults the primary verifier and degrades to the secondary when
// the primary errors, so a remote outage cannot stall a round
type Fallback struct {
	primary   instance.Verifier
	secondary instance.Verifier
}

// NewFallback creates a fallback verifier chain
func NewFallback(primary, secondary instance.Verifier) *Fallback {
	return &Fallback{
		primary:   primary,
		secondary: secondary,
	}
}

// Verify delegates to the primary verifier, falling back on error
func (f *Fallback) Verify(ctx context.Context, submitted, expected string) (bool, error) {
	ok, err := f.primary.Verify(ctx, submitted, expected)
	if err == nil {
		return ok, nil
	}

	log.Printf("primary verifier failed, falling back: %v", err)
	return f.secondary.Verify(ctx, submitted, expected)
}
