package instance

import (
	"context"
	"errors"
	"testing"
	"time"

	clockMocks "github.com/hackvoyage/voyager/internal/common/clock/mocks"
	"github.com/hackvoyage/voyager/internal/instance/mocks"
	"github.com/hackvoyage/voyager/internal/models"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type InstanceTestSuite struct {
	suite.Suite
	mockCtrl      *gomock.Controller
	mockClock     *clockMocks.MockClock
	mockGenerator *mocks.MockGenerator
	mockVerifier  *mocks.MockVerifier
	ctx           context.Context

	now time.Time

	testChannelID string
	testName      string

	inst *Instance
}

func (s *InstanceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockGenerator = mocks.NewMockGenerator(s.mockCtrl)
	s.mockVerifier = mocks.NewMockVerifier(s.mockCtrl)
	s.ctx = context.Background()

	s.now = time.Date(2025, 8, 1, 18, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time {
		return s.now
	}).AnyTimes()

	s.testChannelID = "test-channel-id"
	s.testName = "Epic Quest"

	inst, err := New(&Config{
		ChannelID: s.testChannelID,
		Name:      s.testName,
		Generator: s.mockGenerator,
		Verifier:  s.mockVerifier,
		Clock:     s.mockClock,
		Seed:      1,
	})
	s.Require().NoError(err)
	s.inst = inst
}

func (s *InstanceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestInstanceTestSuite(t *testing.T) {
	suite.Run(t, new(InstanceTestSuite))
}

// advance moves the mocked clock forward
func (s *InstanceTestSuite) advance(d time.Duration) {
	s.now = s.now.Add(d)
}

// startGame adds the given players and starts the game
func (s *InstanceTestSuite) startGame(userIDs ...string) {
	for _, userID := range userIDs {
		s.inst.AddPlayer(userID)
	}
	_, err := s.inst.StartGame(nil)
	s.Require().NoError(err)
}

// textChallenge is a fixed text-match challenge for round tests
func textChallenge(answers ...string) *models.Challenge {
	return &models.Challenge{
		Type:      models.GameTypeTrivia,
		Question:  "What is the capital of France?",
		Rule:      models.TextMatch{Answers: answers},
		TimeLimit: 10,
	}
}

func (s *InstanceTestSuite) TestNew_Validation() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.ErrorIs(err, ErrMissingChannelID)
}

func (s *InstanceTestSuite) TestAddPlayer_Idempotent() {
	s.inst.AddPlayer("user-a")
	s.inst.AddPlayer("user-a")

	s.Equal(1, s.inst.PlayerCount())
	s.Equal(0, s.inst.players["user-a"].Score)
	s.Equal(models.PlayerStateActive, s.inst.players["user-a"].State)
}

func (s *InstanceTestSuite) TestRemovePlayer_NonMember() {
	s.inst.AddPlayer("user-a")
	s.inst.RemovePlayer("user-b")

	s.Equal(1, s.inst.PlayerCount())
}

func (s *InstanceTestSuite) TestStartGame_NoPlayers() {
	_, err := s.inst.StartGame(nil)
	s.ErrorIs(err, ErrNotEnoughPlayers)
	s.Equal(GameStateWaiting, s.inst.State())
}

func (s *InstanceTestSuite) TestStartGame_DefaultConfig() {
	s.startGame("user-a", "user-b")

	s.Equal(GameStateInProgress, s.inst.State())
	s.Require().NotNil(s.inst.Config())
	s.Equal(2, s.inst.Config().PlayerCount)
	s.NotContains(s.inst.Config().AvailableGameTypes, models.GameTypeCollaborative)
}

func (s *InstanceTestSuite) TestStartGame_SuppliedConfig() {
	s.inst.AddPlayer("user-a")
	cfg := &models.GameConfig{
		PlayerCount:        1,
		MainRounds:         3,
		AvailableGameTypes: []models.GameType{models.GameTypeTrivia},
	}

	snapshot, err := s.inst.StartGame(cfg)
	s.Require().NoError(err)
	s.Equal(GameStateInProgress, snapshot.State)
	s.Equal(3, s.inst.Config().MainRounds)
}

func (s *InstanceTestSuite) TestStartMainRound_BeforeStart() {
	s.inst.AddPlayer("user-a")

	_, err := s.inst.StartMainRound(s.ctx, models.GameTypeTrivia)
	s.ErrorIs(err, ErrGameNotStarted)
}

func (s *InstanceTestSuite) TestStartMainRound_NoGenerator() {
	inst, err := New(&Config{
		ChannelID: s.testChannelID,
		Clock:     s.mockClock,
	})
	s.Require().NoError(err)

	inst.AddPlayer("user-a")
	_, err = inst.StartGame(nil)
	s.Require().NoError(err)

	_, err = inst.StartMainRound(s.ctx, models.GameTypeTrivia)
	s.ErrorIs(err, ErrNoGenerator)
}

func (s *InstanceTestSuite) TestStartMainRound_CounterNotSelfLimited() {
	s.startGame("user-a", "user-b")
	rounds := s.inst.Config().MainRounds

	s.mockGenerator.EXPECT().
		Generate(gomock.Any(), models.GameTypeTrivia).
		Return(textChallenge("Paris"), nil).
		Times(rounds + 1)

	for want := 1; want <= rounds; want++ {
		_, err := s.inst.StartMainRound(s.ctx, models.GameTypeTrivia)
		s.Require().NoError(err)
		s.Equal(want, s.inst.CurrentRound())
	}

	// the core does not enforce the round budget; that is the host's job
	_, err := s.inst.StartMainRound(s.ctx, models.GameTypeTrivia)
	s.Require().NoError(err)
	s.Equal(rounds+1, s.inst.CurrentRound())
}

func (s *InstanceTestSuite) TestStartMainRound_ResetsRoundFields() {
	s.startGame("user-a")

	s.mockGenerator.EXPECT().
		Generate(gomock.Any(), models.GameTypeTrivia).
		Return(textChallenge("Paris"), nil).
		Times(2)

	_, err := s.inst.StartMainRound(s.ctx, models.GameTypeTrivia)
	s.Require().NoError(err)
	s.inst.SubmitAnswer("user-a", "Lyon", "ts-1")

	_, err = s.inst.StartMainRound(s.ctx, models.GameTypeTrivia)
	s.Require().NoError(err)

	player := s.inst.players["user-a"]
	s.Empty(player.CurrentAnswer)
	s.Empty(player.PreviousMessageTS)
	s.Zero(player.ResponseTime)
}

func (s *InstanceTestSuite) TestStartMainRound_AvoidsRecentTypes() {
	s.inst.AddPlayer("user-a")
	_, err := s.inst.StartGame(&models.GameConfig{
		PlayerCount: 1,
		MainRounds:  5,
		AvailableGameTypes: []models.GameType{
			models.GameTypeQuickMath,
			models.GameTypeTrivia,
			models.GameTypeRiddle,
		},
	})
	s.Require().NoError(err)

	s.mockGenerator.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return(textChallenge("Paris"), nil).
		Times(3)

	_, err = s.inst.StartMainRound(s.ctx, models.GameTypeQuickMath)
	s.Require().NoError(err)
	_, err = s.inst.StartMainRound(s.ctx, models.GameTypeTrivia)
	s.Require().NoError(err)

	// the last two types are excluded, leaving exactly one candidate
	_, err = s.inst.StartMainRound(s.ctx, "")
	s.Require().NoError(err)
	s.Equal(models.GameTypeRiddle, s.inst.recentTypes[len(s.inst.recentTypes)-1])
}

func (s *InstanceTestSuite) TestStartMainRound_ExclusionFallsBackToFullPool() {
	s.inst.AddPlayer("user-a")
	_, err := s.inst.StartGame(&models.GameConfig{
		PlayerCount:        1,
		MainRounds:         5,
		AvailableGameTypes: []models.GameType{models.GameTypeTrivia},
	})
	s.Require().NoError(err)

	s.mockGenerator.EXPECT().
		Generate(gomock.Any(), models.GameTypeTrivia).
		Return(textChallenge("Paris"), nil).
		Times(3)

	_, err = s.inst.StartMainRound(s.ctx, models.GameTypeTrivia)
	s.Require().NoError(err)
	_, err = s.inst.StartMainRound(s.ctx, models.GameTypeTrivia)
	s.Require().NoError(err)

	// every pool entry was played recently; selection falls back to the pool
	_, err = s.inst.StartMainRound(s.ctx, "")
	s.Require().NoError(err)
}

func (s *InstanceTestSuite) TestStartMainRound_GeneratorErrorPropagates() {
	s.startGame("user-a")

	expectedErr := errors.New("trivia API unreachable")
	s.mockGenerator.EXPECT().
		Generate(gomock.Any(), models.GameTypeTrivia).
		Return(nil, expectedErr)

	_, err := s.inst.StartMainRound(s.ctx, models.GameTypeTrivia)
	s.ErrorIs(err, expectedErr)
}

func (s *InstanceTestSuite) TestStartMainRound_InvalidChallenge() {
	s.startGame("user-a")

	s.mockGenerator.EXPECT().
		Generate(gomock.Any(), models.GameTypeTrivia).
		Return(&models.Challenge{Type: models.GameTypeTrivia}, nil)

	_, err := s.inst.StartMainRound(s.ctx, models.GameTypeTrivia)
	s.ErrorIs(err, ErrInvalidChallenge)
}

func (s *InstanceTestSuite) TestSubmitAnswer_Overwrite() {
	s.startGame("user-a")

	s.mockGenerator.EXPECT().
		Generate(gomock.Any(), models.GameTypeTrivia).
		Return(textChallenge("Paris"), nil)

	_, err := s.inst.StartMainRound(s.ctx, models.GameTypeTrivia)
	s.Require().NoError(err)

	prev, ok := s.inst.SubmitAnswer("user-a", "Lyon", "ts-1")
	s.True(ok)
	s.Empty(prev)

	prev, ok = s.inst.SubmitAnswer("user-a", "Paris", "ts-2")
	s.True(ok)
	s.Equal("ts-1", prev)
	s.Equal("Paris", s.inst.players["user-a"].CurrentAnswer)
}

func (s *InstanceTestSuite) TestSubmitAnswer_UnknownUser() {
	s.startGame("user-a")

	prev, ok := s.inst.SubmitAnswer("stranger", "Paris", "ts-1")
	s.False(ok)
	s.Empty(prev)
	s.Equal(1, s.inst.PlayerCount())
}

func (s *InstanceTestSuite) TestEvaluate_NoActiveChallenge() {
	s.startGame("user-a")

	_, err := s.inst.EvaluateChallenge(s.ctx)
	s.ErrorIs(err, ErrNoActiveChallenge)
}

func (s *InstanceTestSuite) TestEvaluate_SpeedChallenge() {
	s.startGame("user-a", "user-b", "user-c")

	s.mockGenerator.EXPECT().
		Generate(gomock.Any(), models.GameTypeSpeedChallenge).
		Return(&models.Challenge{
			Type:      models.GameTypeSpeedChallenge,
			Question:  "Type: ZOOM",
			Rule:      models.FirstResponder{},
			TimeLimit: 6,
		}, nil)

	_, err := s.inst.StartMainRound(s.ctx, models.GameTypeSpeedChallenge)
	s.Require().NoError(err)

	s.advance(800 * time.Millisecond)
	s.inst.SubmitAnswer("user-b", "zoom", "ts-b")
	s.advance(400 * time.Millisecond)
	s.inst.SubmitAnswer("user-a", "zoom", "ts-a")
	// user-c never answers

	results, err := s.inst.EvaluateChallenge(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"user-b"}, results.CorrectPlayers)
	s.Equal([]string{"user-a", "user-c"}, results.FailedPlayers)
	s.Equal(10, s.inst.players["user-b"].Score)
	s.Equal(0, s.inst.players["user-a"].Score)
}

func (s *InstanceTestSuite) TestEvaluate_EmojiSuperset() {
	s.startGame("user-a", "user-b")

	s.mockGenerator.EXPECT().
		Generate(gomock.Any(), models.GameTypeEmojiChallenge).
		Return(&models.Challenge{
			Type:      models.GameTypeEmojiChallenge,
			Question:  "Type ALL of the following emojis in ANY order: 🍎 🐝",
			Rule:      models.TokenSet{Tokens: []string{"🍎", "🐝"}},
			TimeLimit: 25,
		}, nil)

	_, err := s.inst.StartMainRound(s.ctx, models.GameTypeEmojiChallenge)
	s.Require().NoError(err)

	s.inst.SubmitAnswer("user-a", "🍎 🐝 😀", "ts-a")
	s.inst.SubmitAnswer("user-b", "🍎", "ts-b")

	results, err := s.inst.EvaluateChallenge(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"user-a"}, results.CorrectPlayers)
	s.Equal([]string{"user-b"}, results.FailedPlayers)
}

func (s *InstanceTestSuite) TestEvaluate_TextMatch() {
	s.startGame("user-a", "user-b")

	s.mockGenerator.EXPECT().
		Generate(gomock.Any(), models.GameTypeTrivia).
		Return(textChallenge("Paris"), nil)

	_, err := s.inst.StartMainRound(s.ctx, models.GameTypeTrivia)
	s.Require().NoError(err)

	s.inst.SubmitAnswer("user-a", "paris", "ts-a")
	// user-b submits nothing; the verifier is never consulted for them

	s.mockVerifier.EXPECT().
		Verify(gomock.Any(), "paris", "Paris").
		Return(true, nil)

	results, err := s.inst.EvaluateChallenge(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"user-a"}, results.CorrectPlayers)
	s.Equal([]string{"user-b"}, results.FailedPlayers)
	s.Equal(10, s.inst.players["user-a"].Score)
	s.Equal(0, s.inst.players["user-b"].Score)
}

func (s *InstanceTestSuite) TestEvaluate_AnyAcceptableAnswerMatches() {
	s.startGame("user-a")

	s.mockGenerator.EXPECT().
		Generate(gomock.Any(), models.GameTypeTrivia).
		Return(textChallenge("Rome", "Roma"), nil)

	_, err := s.inst.StartMainRound(s.ctx, models.GameTypeTrivia)
	s.Require().NoError(err)

	s.inst.SubmitAnswer("user-a", "roma", "ts-a")

	s.mockVerifier.EXPECT().Verify(gomock.Any(), "roma", "Rome").Return(false, nil)
	s.mockVerifier.EXPECT().Verify(gomock.Any(), "roma", "Roma").Return(true, nil)

	results, err := s.inst.EvaluateChallenge(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"user-a"}, results.CorrectPlayers)
}

func (s *InstanceTestSuite) TestEvaluate_VerifierErrorPropagates() {
	s.startGame("user-a")

	s.mockGenerator.EXPECT().
		Generate(gomock.Any(), models.GameTypeTrivia).
		Return(textChallenge("Paris"), nil)

	_, err := s.inst.StartMainRound(s.ctx, models.GameTypeTrivia)
	s.Require().NoError(err)

	s.inst.SubmitAnswer("user-a", "Paris", "ts-a")

	expectedErr := errors.New("verifier timeout")
	s.mockVerifier.EXPECT().
		Verify(gomock.Any(), "Paris", "Paris").
		Return(false, expectedErr)

	_, err = s.inst.EvaluateChallenge(s.ctx)
	s.ErrorIs(err, expectedErr)
}

func (s *InstanceTestSuite) TestEvaluate_KeepsCurrentChallenge() {
	s.startGame("user-a")

	challenge := textChallenge("Paris")
	s.mockGenerator.EXPECT().
		Generate(gomock.Any(), models.GameTypeTrivia).
		Return(challenge, nil)

	_, err := s.inst.StartMainRound(s.ctx, models.GameTypeTrivia)
	s.Require().NoError(err)

	_, err = s.inst.EvaluateChallenge(s.ctx)
	s.Require().NoError(err)

	// the host may still render the answer after evaluation
	s.Same(challenge, s.inst.CurrentChallenge())
}

func (s *InstanceTestSuite) TestCheckLeaderChange_SuppressesFirstLeader() {
	s.startGame("user-a", "user-b")

	s.Empty(s.inst.CheckLeaderChange())

	s.inst.players["user-a"].Score = 10
	s.Empty(s.inst.CheckLeaderChange())

	s.inst.players["user-b"].Score = 20
	s.Equal("user-b", s.inst.CheckLeaderChange())
	s.Empty(s.inst.CheckLeaderChange())
}

func (s *InstanceTestSuite) TestCheckLeaderChange_TieBreaksToSmallestID() {
	s.startGame("user-a", "user-b", "user-c")

	s.inst.players["user-c"].Score = 10
	s.Empty(s.inst.CheckLeaderChange())

	s.inst.players["user-b"].Score = 10
	// tie at the top breaks to the lexicographically smallest user ID
	s.Equal("user-b", s.inst.CheckLeaderChange())
}

func (s *InstanceTestSuite) TestEndGame_TiedWinners() {
	s.startGame("user-a", "user-b", "user-c")

	s.inst.players["user-a"].Score = 30
	s.inst.players["user-b"].Score = 30
	s.inst.players["user-c"].Score = 10

	s.advance(90 * time.Second)
	results := s.inst.EndGame(true)

	s.Equal([]string{"user-a", "user-b"}, results.Winners)
	s.Equal(models.PlayerStateWinner, s.inst.players["user-a"].State)
	s.Equal(models.PlayerStateWinner, s.inst.players["user-b"].State)
	s.Equal(models.PlayerStateActive, s.inst.players["user-c"].State)
	s.Equal(90*time.Second, results.Duration)
	s.Equal(GameStateCompleted, s.inst.State())
}

func (s *InstanceTestSuite) TestEndGame_Aborted() {
	s.startGame("user-a")
	s.inst.players["user-a"].Score = 10

	results := s.inst.EndGame(false)

	s.Empty(results.Winners)
	s.Equal(GameStateFailed, s.inst.State())
	s.Equal(models.PlayerStateActive, s.inst.players["user-a"].State)
}

func (s *InstanceTestSuite) TestGameState_Snapshot() {
	s.inst.AddPlayer("user-a")

	snapshot := s.inst.GameState()
	s.Equal(GameStateWaiting, snapshot.State)
	s.Equal("0s", snapshot.TimeElapsed)

	s.startGame("user-b")
	s.advance(5 * time.Second)

	snapshot = s.inst.GameState()
	s.Equal(GameStateInProgress, snapshot.State)
	s.Equal(2, snapshot.PlayerCount)
	s.Equal(2, snapshot.ActivePlayers)
	s.Equal("5.0s", snapshot.TimeElapsed)
	s.Empty(snapshot.ChallengeType)
}

func (s *InstanceTestSuite) TestFullTwoPlayerRound() {
	s.startGame("user-a", "user-b")

	s.mockGenerator.EXPECT().
		Generate(gomock.Any(), models.GameTypeTrivia).
		Return(textChallenge("Paris"), nil)

	challenge, err := s.inst.StartMainRound(s.ctx, models.GameTypeTrivia)
	s.Require().NoError(err)
	s.Equal(10, challenge.TimeLimit)

	s.inst.SubmitAnswer("user-a", "Paris", "ts-a")

	s.mockVerifier.EXPECT().
		Verify(gomock.Any(), "Paris", "Paris").
		Return(true, nil)

	results, err := s.inst.EvaluateChallenge(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"user-a"}, results.CorrectPlayers)
	s.Equal([]string{"user-b"}, results.FailedPlayers)
	s.Equal(10, s.inst.players["user-a"].Score)
	s.Equal(0, s.inst.players["user-b"].Score)

	scoreboard := s.inst.Scoreboard()
	s.Equal("user-a", scoreboard[0].UserID)
}
