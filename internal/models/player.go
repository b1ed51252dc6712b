package models

// PlayerState represents the current state of a player in a game
type PlayerState string

const (
	// PlayerStateActive indicates a player is participating in the game
	PlayerStateActive PlayerState = "active"

	// PlayerStateWinner indicates a player finished the game with the top score
	PlayerStateWinner PlayerState = "winner"
)

// Player is a participant's per-game state
type Player struct {
	// UserID is the chat-platform user ID of the player
	UserID string

	// State is the current state of the player
	State PlayerState

	// Score is the player's accumulated points, never decremented
	Score int

	// CurrentAnswer is the most recent submission for the active round
	CurrentAnswer string

	// ResponseTime is the seconds elapsed between round start and submission,
	// recorded only for speed-based rounds
	ResponseTime float64

	// PreviousMessageTS is the message reference of the player's previous
	// submission, kept so the host can clean up stale reactions
	PreviousMessageTS string
}

// NewPlayer creates an active player with a zero score
func NewPlayer(userID string) *Player {
	return &Player{
		UserID: userID,
		State:  PlayerStateActive,
	}
}

// ResetRound clears the player's per-round fields at the start of a round
func (p *Player) ResetRound() {
	p.CurrentAnswer = ""
	p.ResponseTime = 0
	p.PreviousMessageTS = ""
}
