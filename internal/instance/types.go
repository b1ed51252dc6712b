package instance

import (
	"time"

	"github.com/hackvoyage/voyager/internal/common/clock"
	"github.com/hackvoyage/voyager/internal/models"
)

// GameState represents the current state of a game instance
type GameState string

const (
	// GameStateWaiting indicates a game is waiting for players to join
	GameStateWaiting GameState = "waiting"

	// GameStateInProgress indicates a game is being played
	GameStateInProgress GameState = "in_progress"

	// GameStateCompleted indicates a game finished successfully
	GameStateCompleted GameState = "completed"

	// GameStateFailed indicates a game was aborted
	GameStateFailed GameState = "failed"
)

// GamePhase represents the informational phase within a running game
type GamePhase string

const (
	// GamePhaseIntro is the window between game start and the first round
	GamePhaseIntro GamePhase = "intro"

	// GamePhaseMainRound is the repeated challenge-and-answer cycle
	GamePhaseMainRound GamePhase = "main_round"

	// GamePhaseOutro is the wrap-up after the last round
	GamePhaseOutro GamePhase = "outro"
)

// defaultCorrectAnswerPoints is the flat score awarded per correct answer
const defaultCorrectAnswerPoints = 10

// recentTypeHistory bounds the history used to avoid repeating game types
const recentTypeHistory = 5

// Config holds the construction parameters for a game instance
type Config struct {
	// ChannelID is the channel the game is bound to
	ChannelID string

	// Name is the display name of the game
	Name string

	// Generator produces challenges; may also be set later with SetGenerator
	Generator Generator

	// Verifier judges text-match answers
	Verifier Verifier

	// Clock is the time source; defaults to the system clock
	Clock clock.Clock

	// Points is the flat score per correct answer; defaults to 10
	Points int

	// Seed seeds game-type selection for deterministic tests
	Seed int64
}

// StateSnapshot is a read-only view of an instance, safe to render any time
type StateSnapshot struct {
	// State is the current game state
	State GameState

	// Phase is the current informational phase
	Phase GamePhase

	// Round is the current round counter
	Round int

	// PlayerCount is the total roster size
	PlayerCount int

	// ActivePlayers is the number of players still in the active state
	ActivePlayers int

	// ChallengeType is the active challenge's type, empty when none
	ChallengeType models.GameType

	// TimeElapsed is the time since game start, formatted to one decimal
	TimeElapsed string
}

// RoundResults reports the outcome of evaluating one round
type RoundResults struct {
	// GameType is the evaluated challenge's type
	GameType models.GameType

	// CorrectPlayers contains the user IDs scored as correct, sorted
	CorrectPlayers []string

	// FailedPlayers contains the user IDs scored as failed, sorted
	FailedPlayers []string
}

// FinalResults reports the outcome of a finished game
type FinalResults struct {
	// Winners contains every user ID tied at the maximum score, sorted.
	// Empty when the game was aborted.
	Winners []string

	// Scores maps each user ID to their final score
	Scores map[string]int

	// RoundsPlayed is the number of rounds started
	RoundsPlayed int

	// Duration is how long the game ran
	Duration time.Duration
}

// ScoreEntry is one row of a live leaderboard
type ScoreEntry struct {
	// UserID is the player's user ID
	UserID string

	// Score is the player's current score
	Score int
}
