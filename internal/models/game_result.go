package models

import (
	"time"
)

// GameResult is the durable record of a finished game
type GameResult struct {
	// ID is the unique identifier for the result record
	ID string

	// GuildID is the server the game was played in
	GuildID string

	// ChannelID is the channel the game was played in
	ChannelID string

	// Name is the display name of the game
	Name string

	// Winners contains the user IDs of every player tied at the top score
	Winners []string

	// Scores maps each user ID to their final score
	Scores map[string]int

	// RoundsPlayed is the number of rounds completed
	RoundsPlayed int

	// Duration is how long the game ran
	Duration time.Duration

	// CompletedAt is when the game ended
	CompletedAt time.Time
}
