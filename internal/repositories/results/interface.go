package results

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/hackvoyage/voyager/internal/repositories/results Repository

import (
	"context"
)

// Repository defines the interface for finished-game persistence
type Repository interface {
	// SaveResult persists a finished game's result and updates the guild's
	// all-time leaderboard
	SaveResult(ctx context.Context, input *SaveResultInput) error

	// GetResult retrieves a result by ID
	GetResult(ctx context.Context, input *GetResultInput) (*GetResultOutput, error)

	// GetGuildResults retrieves a guild's most recent results
	GetGuildResults(ctx context.Context, input *GetGuildResultsInput) (*GetGuildResultsOutput, error)

	// GetLeaderboard retrieves a guild's all-time leaderboard by wins
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error)
}
