package instance

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/hackvoyage/voyager/internal/common/clock"
	"github.com/hackvoyage/voyager/internal/models"
)

// Instance is one game's full state machine: roster, phase, round counter,
// active challenge, submissions, scoring and end conditions.
//
// An instance is not internally synchronized. The host owns it and must
// serialize all calls into it, one at a time; see the registry package.
type Instance struct {
	channelID string
	name      string

	players map[string]*models.Player
	state   GameState
	phase   GamePhase
	config  *models.GameConfig

	currentRound     int
	currentChallenge *models.Challenge
	roundStart       time.Time
	recentTypes      []models.GameType
	previousLeader   string

	startTime time.Time
	endTime   time.Time

	generator Generator
	verifier  Verifier
	clock     clock.Clock
	points    int
	random    *rand.Rand
}

// New creates a game instance in the waiting state
func New(cfg *Config) (*Instance, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.ChannelID == "" {
		return nil, ErrMissingChannelID
	}

	clk := cfg.Clock
	if clk == nil {
		clk = &clock.DefaultClock{}
	}

	points := cfg.Points
	if points <= 0 {
		points = defaultCorrectAnswerPoints
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Instance{
		channelID: cfg.ChannelID,
		name:      cfg.Name,
		players:   make(map[string]*models.Player),
		state:     GameStateWaiting,
		phase:     GamePhaseIntro,
		generator: cfg.Generator,
		verifier:  cfg.Verifier,
		clock:     clk,
		points:    points,
		random:    rand.New(rand.NewSource(seed)),
	}, nil
}

// SetGenerator registers the challenge generator. Must be called before any
// round starts when no generator was supplied at construction.
func (i *Instance) SetGenerator(g Generator) {
	i.generator = g
}

// ChannelID returns the channel the game is bound to
func (i *Instance) ChannelID() string {
	return i.channelID
}

// Name returns the display name of the game
func (i *Instance) Name() string {
	return i.name
}

// State returns the current game state
func (i *Instance) State() GameState {
	return i.state
}

// Config returns the game config, nil until the game starts
func (i *Instance) Config() *models.GameConfig {
	return i.config
}

// CurrentRound returns the current round counter
func (i *Instance) CurrentRound() int {
	return i.currentRound
}

// CurrentChallenge returns the active challenge, nil when none
func (i *Instance) CurrentChallenge() *models.Challenge {
	return i.currentChallenge
}

// HasPlayer reports whether the user is on the roster
func (i *Instance) HasPlayer(userID string) bool {
	_, ok := i.players[userID]
	return ok
}

// PlayerCount returns the roster size
func (i *Instance) PlayerCount() int {
	return len(i.players)
}

// AddPlayer inserts a player onto the roster. Adding a user who is already
// present is a no-op.
func (i *Instance) AddPlayer(userID string) {
	if _, ok := i.players[userID]; !ok {
		i.players[userID] = models.NewPlayer(userID)
	}
}

// RemovePlayer deletes a player from the roster. Removing an unknown user
// is a no-op.
func (i *Instance) RemovePlayer(userID string) {
	delete(i.players, userID)
}

// StartGame moves the instance into progress. When cfg is nil and no config
// was previously set, a default is derived from the current roster size.
func (i *Instance) StartGame(cfg *models.GameConfig) (*StateSnapshot, error) {
	if len(i.players) < 1 {
		return nil, ErrNotEnoughPlayers
	}

	if cfg != nil {
		i.config = cfg
	} else if i.config == nil {
		i.config = models.NewGameConfig(len(i.players))
	}

	i.state = GameStateInProgress
	i.phase = GamePhaseIntro
	i.startTime = i.clock.Now()

	return i.GameState(), nil
}

// StartMainRound advances to the next round and generates its challenge.
// When gameType is empty, one is picked at random from the configured pool,
// avoiding the two most recently played types. The caller is responsible for
// displaying the challenge and scheduling evaluation at its time limit.
func (i *Instance) StartMainRound(ctx context.Context, gameType models.GameType) (*models.Challenge, error) {
	if i.config == nil {
		return nil, ErrGameNotStarted
	}

	if i.generator == nil {
		return nil, ErrNoGenerator
	}

	i.phase = GamePhaseMainRound
	i.currentRound++

	if gameType == "" {
		gameType = i.pickGameType()
	}

	i.recentTypes = append(i.recentTypes, gameType)
	if len(i.recentTypes) > recentTypeHistory {
		i.recentTypes = i.recentTypes[len(i.recentTypes)-recentTypeHistory:]
	}

	challenge, err := i.generator.Generate(ctx, gameType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s challenge: %w", gameType, err)
	}

	if challenge == nil || challenge.TimeLimit <= 0 {
		return nil, ErrInvalidChallenge
	}

	i.currentChallenge = challenge
	i.roundStart = i.clock.Now()

	for _, p := range i.players {
		p.ResetRound()
	}

	return challenge, nil
}

// pickGameType selects a random type from the pool, excluding the last two
// played. When exclusion empties the pool, the full pool is used.
func (i *Instance) pickGameType() models.GameType {
	exclude := make(map[models.GameType]bool)
	if n := len(i.recentTypes); n > 0 {
		for _, t := range i.recentTypes[max(0, n-2):] {
			exclude[t] = true
		}
	}

	pool := make([]models.GameType, 0, len(i.config.AvailableGameTypes))
	for _, t := range i.config.AvailableGameTypes {
		if !exclude[t] {
			pool = append(pool, t)
		}
	}
	if len(pool) == 0 {
		pool = i.config.AvailableGameTypes
	}

	return pool[i.random.Intn(len(pool))]
}

// SubmitAnswer records a player's submission for the active round,
// overwriting any earlier one. It returns the message reference of the
// player's previous submission so the host can clean up its reactions, and
// false when the user is not on the roster.
//
// Late submissions are accepted here; enforcing the round deadline is the
// host's job.
func (i *Instance) SubmitAnswer(userID, answer, messageTS string) (string, bool) {
	player, ok := i.players[userID]
	if !ok {
		return "", false
	}

	previousTS := player.PreviousMessageTS
	player.CurrentAnswer = answer
	player.PreviousMessageTS = messageTS

	if i.currentChallenge != nil && !i.roundStart.IsZero() {
		if _, speed := i.currentChallenge.Rule.(models.FirstResponder); speed {
			player.ResponseTime = i.clock.Now().Sub(i.roundStart).Seconds()
		}
	}

	return previousTS, true
}

// RoundElapsed returns the time since the current round started, or zero
// when no round is in flight
func (i *Instance) RoundElapsed() time.Duration {
	if i.roundStart.IsZero() {
		return 0
	}
	return i.clock.Now().Sub(i.roundStart)
}

// EvaluateChallenge scores the active round. It does not clear the current
// challenge; the host decides whether to advance or end the game and may
// still want the challenge for display.
func (i *Instance) EvaluateChallenge(ctx context.Context) (*RoundResults, error) {
	if i.currentChallenge == nil {
		return nil, ErrNoActiveChallenge
	}

	eligible := make([]*models.Player, 0, len(i.players))
	for _, p := range i.players {
		if p.State == models.PlayerStateActive {
			eligible = append(eligible, p)
		}
	}
	sort.Slice(eligible, func(a, b int) bool {
		return eligible[a].UserID < eligible[b].UserID
	})

	var correct, failed []string
	var err error

	switch rule := i.currentChallenge.Rule.(type) {
	case models.FirstResponder:
		correct, failed = evaluateSpeed(eligible)
	case models.TokenSet:
		correct, failed = evaluateTokenSet(eligible, rule.Tokens)
	case models.TextMatch:
		correct, failed, err = i.evaluateTextMatch(ctx, eligible, rule.Answers)
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidChallenge
	}

	for _, userID := range correct {
		i.players[userID].Score += i.points
	}

	return &RoundResults{
		GameType:       i.currentChallenge.Type,
		CorrectPlayers: correct,
		FailedPlayers:  failed,
	}, nil
}

// evaluateSpeed marks the earliest responder correct and everyone else,
// answered or not, failed
func evaluateSpeed(eligible []*models.Player) (correct, failed []string) {
	responders := make([]*models.Player, 0, len(eligible))
	for _, p := range eligible {
		if p.CurrentAnswer != "" && p.ResponseTime > 0 {
			responders = append(responders, p)
		}
	}
	sort.SliceStable(responders, func(a, b int) bool {
		return responders[a].ResponseTime < responders[b].ResponseTime
	})

	winner := ""
	if len(responders) > 0 {
		winner = responders[0].UserID
		correct = []string{winner}
	}
	for _, p := range eligible {
		if p.UserID != winner {
			failed = append(failed, p.UserID)
		}
	}
	return correct, failed
}

// evaluateTokenSet marks a submission correct when its whitespace-split
// tokens cover all expected tokens, order-independent
func evaluateTokenSet(eligible []*models.Player, expected []string) (correct, failed []string) {
	for _, p := range eligible {
		submitted := make(map[string]bool)
		for _, token := range strings.Fields(p.CurrentAnswer) {
			submitted[token] = true
		}

		covered := p.CurrentAnswer != ""
		for _, token := range expected {
			if !submitted[token] {
				covered = false
				break
			}
		}

		if covered {
			correct = append(correct, p.UserID)
		} else {
			failed = append(failed, p.UserID)
		}
	}
	return correct, failed
}

// evaluateTextMatch marks a submission correct when the verifier accepts it
// against any acceptable answer. No submission means failed, regardless of
// the verifier. Verifier errors propagate untouched.
func (i *Instance) evaluateTextMatch(ctx context.Context, eligible []*models.Player, answers []string) (correct, failed []string, err error) {
	if i.verifier == nil {
		return nil, nil, ErrNoVerifier
	}

	for _, p := range eligible {
		if p.CurrentAnswer == "" {
			failed = append(failed, p.UserID)
			continue
		}

		matched := false
		for _, expected := range answers {
			ok, verr := i.verifier.Verify(ctx, p.CurrentAnswer, expected)
			if verr != nil {
				return nil, nil, fmt.Errorf("failed to verify answer for %s: %w", p.UserID, verr)
			}
			if ok {
				matched = true
				break
			}
		}

		if matched {
			correct = append(correct, p.UserID)
		} else {
			failed = append(failed, p.UserID)
		}
	}
	return correct, failed, nil
}

// CheckLeaderChange reports the new score leader when the lead has changed
// hands since the last check. The very first leader is recorded silently,
// and ties break to the lexicographically smallest user ID. Returns the
// empty string when there is no change, no leader, or no scores yet.
func (i *Instance) CheckLeaderChange() string {
	leader := ""
	best := 0
	for _, userID := range i.sortedUserIDs() {
		if score := i.players[userID].Score; score > best {
			best = score
			leader = userID
		}
	}

	if leader == "" || leader == i.previousLeader {
		return ""
	}

	hadLeader := i.previousLeader != ""
	i.previousLeader = leader
	if !hadLeader {
		return ""
	}
	return leader
}

// EndGame moves the instance to a terminal state. On success every player
// tied at the maximum score is marked a winner; ties produce multiple
// winners.
func (i *Instance) EndGame(success bool) *FinalResults {
	if success {
		i.state = GameStateCompleted
	} else {
		i.state = GameStateFailed
	}
	i.phase = GamePhaseOutro
	i.endTime = i.clock.Now()

	scores := make(map[string]int, len(i.players))
	best := 0
	for userID, p := range i.players {
		scores[userID] = p.Score
		if p.Score > best {
			best = p.Score
		}
	}

	var winners []string
	if success {
		for _, userID := range i.sortedUserIDs() {
			if i.players[userID].Score == best {
				i.players[userID].State = models.PlayerStateWinner
				winners = append(winners, userID)
			}
		}
	}

	var duration time.Duration
	if !i.startTime.IsZero() {
		duration = i.endTime.Sub(i.startTime)
	}

	return &FinalResults{
		Winners:      winners,
		Scores:       scores,
		RoundsPlayed: i.currentRound,
		Duration:     duration,
	}
}

// GameState returns a read-only snapshot, safe to call at any time
func (i *Instance) GameState() *StateSnapshot {
	active := 0
	for _, p := range i.players {
		if p.State == models.PlayerStateActive {
			active++
		}
	}

	elapsed := "0s"
	if !i.startTime.IsZero() {
		end := i.clock.Now()
		if !i.endTime.IsZero() {
			end = i.endTime
		}
		elapsed = fmt.Sprintf("%.1fs", end.Sub(i.startTime).Seconds())
	}

	var challengeType models.GameType
	if i.currentChallenge != nil {
		challengeType = i.currentChallenge.Type
	}

	return &StateSnapshot{
		State:         i.state,
		Phase:         i.phase,
		Round:         i.currentRound,
		PlayerCount:   len(i.players),
		ActivePlayers: active,
		ChallengeType: challengeType,
		TimeElapsed:   elapsed,
	}
}

// ActivePlayerCount returns the number of players still active
func (i *Instance) ActivePlayerCount() int {
	active := 0
	for _, p := range i.players {
		if p.State == models.PlayerStateActive {
			active++
		}
	}
	return active
}

// Scoreboard returns the roster sorted by score descending, ties broken by
// user ID, for leaderboard rendering
func (i *Instance) Scoreboard() []ScoreEntry {
	entries := make([]ScoreEntry, 0, len(i.players))
	for _, userID := range i.sortedUserIDs() {
		entries = append(entries, ScoreEntry{
			UserID: userID,
			Score:  i.players[userID].Score,
		})
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Score > entries[b].Score
	})
	return entries
}

// sortedUserIDs returns the roster's user IDs in lexicographic order
func (i *Instance) sortedUserIDs() []string {
	ids := make([]string, 0, len(i.players))
	for userID := range i.players {
		ids = append(ids, userID)
	}
	sort.Strings(ids)
	return ids
}
