package models

// GameType identifies the kind of challenge played in a round
type GameType string

const (
	// GameTypeQuickMath is a timed arithmetic question
	GameTypeQuickMath GameType = "quick_math"

	// GameTypeTrivia is a general-knowledge question fetched from the trivia API
	GameTypeTrivia GameType = "trivia"

	// GameTypeSpeedChallenge awards the round to the fastest responder
	GameTypeSpeedChallenge GameType = "speed_challenge"

	// GameTypeRiddle is a riddle drawn from the riddle file
	GameTypeRiddle GameType = "riddle"

	// GameTypeMemory asks players to repeat a shown sequence
	GameTypeMemory GameType = "memory"

	// GameTypeTextModification asks players to transform a word
	GameTypeTextModification GameType = "text_modification"

	// GameTypeEmojiChallenge asks players to type a set of emoji in any order
	GameTypeEmojiChallenge GameType = "emoji_challenge"

	// GameTypeCollaborative requires every player to respond to pass
	GameTypeCollaborative GameType = "collaborative"

	// GameTypeCustom is reserved for host-supplied challenges
	GameTypeCustom GameType = "custom"
)

// DisplayName returns a human-readable form of the game type
func (t GameType) DisplayName() string {
	switch t {
	case GameTypeQuickMath:
		return "Quick Math"
	case GameTypeTrivia:
		return "Trivia"
	case GameTypeSpeedChallenge:
		return "Speed Challenge"
	case GameTypeRiddle:
		return "Riddle"
	case GameTypeMemory:
		return "Memory"
	case GameTypeTextModification:
		return "Text Modification"
	case GameTypeEmojiChallenge:
		return "Emoji Challenge"
	case GameTypeCollaborative:
		return "Collaborative"
	default:
		return "Custom"
	}
}
