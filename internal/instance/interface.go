package instance

//go:generate mockgen -package=mocks -destination=mocks/mock_generator.go github.com/hackvoyage/voyager/internal/instance Generator
//go:generate mockgen -package=mocks -destination=mocks/mock_verifier.go github.com/hackvoyage/voyager/internal/instance Verifier

import (
	"context"

	"github.com/hackvoyage/voyager/internal/models"
)

// Generator produces a fresh challenge for a game type. Implementations may
// use randomness or fetch content remotely, but must never return a
// challenge with a non-positive time limit.
type Generator interface {
	Generate(ctx context.Context, gameType models.GameType) (*models.Challenge, error)
}

// Verifier judges whether a submitted answer matches an expected answer.
// Implementations are expected to be case-insensitive and tolerant of
// punctuation; errors propagate out of evaluation untouched.
type Verifier interface {
	Verify(ctx context.Context, submitted, expected string) (bool, error)
}
