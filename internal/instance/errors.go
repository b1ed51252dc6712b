package instance

// InstanceError is a custom error type for game-instance errors
type InstanceError string

// Error implements the error interface
func (e InstanceError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNotEnoughPlayers  InstanceError = "not enough players to start"
	ErrGameNotStarted    InstanceError = "game has not been started"
	ErrNoGenerator       InstanceError = "no challenge generator registered"
	ErrNoVerifier        InstanceError = "no answer verifier registered"
	ErrNoActiveChallenge InstanceError = "no active challenge to evaluate"
	ErrInvalidChallenge  InstanceError = "generator returned an invalid challenge"
	ErrNilConfig         InstanceError = "config cannot be nil"
	ErrMissingChannelID  InstanceError = "channel ID cannot be empty"
)
