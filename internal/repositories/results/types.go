package results

import "github.com/hackvoyage/voyager/internal/models"

// SaveResultInput contains parameters for saving a finished game
type SaveResultInput struct {
	// Result is the finished game's record
	Result *models.GameResult
}

// GetResultInput contains parameters for retrieving a result by ID
type GetResultInput struct {
	// ResultID is the unique identifier of the result
	ResultID string
}

// GetResultOutput contains a retrieved result
type GetResultOutput struct {
	// Result is the retrieved record
	Result *models.GameResult
}

// GetGuildResultsInput contains parameters for retrieving a guild's results
type GetGuildResultsInput struct {
	// GuildID is the server to list results for
	GuildID string

	// Limit caps the number of results returned; 0 means no cap
	Limit int
}

// GetGuildResultsOutput contains a guild's results, newest first
type GetGuildResultsOutput struct {
	Results []*models.GameResult
}

// LeaderboardEntry is one row of a guild's all-time leaderboard
type LeaderboardEntry struct {
	// UserID is the player's user ID
	UserID string

	// Wins is the number of games the player has won
	Wins int
}

// GetLeaderboardInput contains parameters for retrieving a guild leaderboard
type GetLeaderboardInput struct {
	// GuildID is the server to rank players for
	GuildID string

	// Limit caps the number of entries returned; 0 means no cap
	Limit int
}

// GetLeaderboardOutput contains a guild's leaderboard, most wins first
type GetLeaderboardOutput struct {
	Entries []LeaderboardEntry
}
