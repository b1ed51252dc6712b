package models

const (
	// shortGameRounds is the round budget for two-player games
	shortGameRounds = 10

	// defaultGameRounds is the round budget for mid-size games
	defaultGameRounds = 15

	// longGameRounds is the round budget for games with five or more players
	longGameRounds = 20

	// collaborativeMinPlayers is the roster size at which collaborative
	// challenges become eligible
	collaborativeMinPlayers = 3
)

// GameConfig holds the per-game tunable parameters, fixed once a game starts
type GameConfig struct {
	// PlayerCount is a snapshot of the roster size when the game started
	PlayerCount int

	// MainRounds is the total number of rounds to play
	MainRounds int

	// AvailableGameTypes is the pool of challenge types eligible for random
	// selection in this game
	AvailableGameTypes []GameType
}

// NewGameConfig derives a config from the roster size. Small lobbies get a
// shorter game; collaborative rounds need enough players to be meaningful.
func NewGameConfig(playerCount int) *GameConfig {
	rounds := defaultGameRounds
	switch {
	case playerCount <= 2:
		rounds = shortGameRounds
	case playerCount >= 5:
		rounds = longGameRounds
	}

	types := []GameType{
		GameTypeQuickMath,
		GameTypeTrivia,
		GameTypeSpeedChallenge,
		GameTypeRiddle,
		GameTypeMemory,
		GameTypeTextModification,
		GameTypeEmojiChallenge,
	}
	if playerCount >= collaborativeMinPlayers {
		types = append(types, GameTypeCollaborative)
	}

	return &GameConfig{
		PlayerCount:        playerCount,
		MainRounds:         rounds,
		AvailableGameTypes: types,
	}
}
