package discord

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hackvoyage/voyager/internal/common/clock"
	"github.com/hackvoyage/voyager/internal/common/uuid"
	"github.com/hackvoyage/voyager/internal/instance"
	"github.com/hackvoyage/voyager/internal/registry"
	"github.com/hackvoyage/voyager/internal/repositories/results"
)

// Response-time thresholds for answer reactions, in seconds
const (
	fastResponseSeconds   = 3
	mediumResponseSeconds = 8
)

const (
	reactionFast   = "⚡"
	reactionMedium = "👍"
	reactionSlow   = "🐌"
)

// waitlistInterval is how often the waitlist is drained into new games
const waitlistInterval = 5 * time.Second

// Bot represents the Discord bot instance
type Bot struct {
	session    *discordgo.Session
	commands   map[string]CommandHandler
	commandIDs map[string]string // Maps command name to command ID
	config     *Config

	registry  *registry.Registry
	generator instance.Generator
	verifier  instance.Verifier
	results   results.Repository
	clock     clock.Clock
	uuider    uuid.UUID

	mu       sync.Mutex
	rng      *rand.Rand
	waitlist []waitlistEntry
	games    map[string]*activeGame // channelID -> running game
	stopCh   chan struct{}
	stopOnce sync.Once
}

// waitlistEntry is one user queued for a game
type waitlistEntry struct {
	GuildID string
	UserID  string
}

// activeGame tracks the host-side state of one game channel
type activeGame struct {
	GuildID   string
	ChannelID string
	Name      string
	timer     *time.Timer
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Registry of live game instances
	Registry *registry.Registry

	// Generator produces challenges for new instances
	Generator instance.Generator

	// Verifier judges text-match answers for new instances
	Verifier instance.Verifier

	// Results stores finished games
	Results results.Repository

	// Clock is the time source; defaults to the system clock
	Clock clock.Clock

	// UUIDGenerator mints result IDs; defaults to random UUIDs
	UUIDGenerator uuid.UUID

	// LobbyChannelName is where /waitlist is accepted
	LobbyChannelName string

	// MaxGameChannels caps concurrent games per guild
	MaxGameChannels int

	// Points is the flat score per correct answer
	Points int
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.Registry == nil {
		return nil, errors.New("registry cannot be nil")
	}

	if cfg.Generator == nil {
		return nil, errors.New("generator cannot be nil")
	}

	if cfg.Verifier == nil {
		return nil, errors.New("verifier cannot be nil")
	}

	if cfg.Results == nil {
		return nil, errors.New("results repository cannot be nil")
	}

	// Create a new Discord session
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	botClock := cfg.Clock
	if botClock == nil {
		botClock = &clock.DefaultClock{}
	}

	uuider := cfg.UUIDGenerator
	if uuider == nil {
		uuider = uuid.New()
	}

	if cfg.MaxGameChannels <= 0 {
		cfg.MaxGameChannels = 3
	}

	bot := &Bot{
		session:    session,
		commands:   make(map[string]CommandHandler),
		commandIDs: make(map[string]string),
		config:     cfg,
		registry:   cfg.Registry,
		generator:  cfg.Generator,
		verifier:   cfg.Verifier,
		results:    cfg.Results,
		clock:      botClock,
		uuider:     uuider,
		rng:        rand.New(rand.NewSource(botClock.Now().UnixNano())),
		games:      make(map[string]*activeGame),
		stopCh:     make(chan struct{}),
	}

	session.AddHandler(bot.handleInteraction)
	session.AddHandler(bot.handleMessage)

	return bot, nil
}

// Start initializes the Discord connection and registers commands
func (b *Bot) Start() error {
	// Open the websocket connection to Discord
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	for _, cmd := range []CommandHandler{
		NewWaitlistCommand(b),
		NewStateCommand(b),
		NewStartCommand(b),
		NewNextRoundCommand(b),
		NewCancelCommand(b),
	} {
		if err := b.RegisterCommand(cmd); err != nil {
			return fmt.Errorf("failed to register %s command: %w", cmd.GetName(), err)
		}
	}

	go b.runWaitlistProcessor()

	log.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully shuts down the Discord connection
func (b *Bot) Stop() error {
	b.stopOnce.Do(func() { close(b.stopCh) })

	b.mu.Lock()
	for _, game := range b.games {
		if game.timer != nil {
			game.timer.Stop()
		}
	}
	b.mu.Unlock()

	// Remove all commands
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			log.Printf("Failed to delete command %s (ID: %s): %v", cmdName, cmdID, err)
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		// Fall back to session user ID if application ID is not provided
		appID = b.session.State.User.ID
	}

	// If guild ID is provided, register command for that specific guild.
	// Otherwise, register it globally.
	guildID := b.config.GuildID
	if guildID != "" {
		log.Printf("Registering command %s for guild %s", cmd.GetName(), guildID)
	} else {
		log.Printf("Registering command %s globally", cmd.GetName())
	}

	createdCmd, err := b.session.ApplicationCommandCreate(appID, guildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID

	return nil
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	if h, ok := b.commands[i.ApplicationCommandData().Name]; ok {
		if err := h.Handle(s, i); err != nil {
			log.Printf("Error handling command %s: %v", i.ApplicationCommandData().Name, err)
		}
	}
}

// handleMessage treats messages in a game channel as answer submissions
// while a round is in flight
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	var previousTS string
	var accepted bool
	var elapsed time.Duration
	var invited []string

	err := b.registry.With(m.ChannelID, func(inst *instance.Instance) error {
		switch {
		case inst.State() == instance.GameStateWaiting:
			// Pinging someone in a waiting game channel invites them
			for _, user := range m.Mentions {
				if user.Bot || inst.HasPlayer(user.ID) {
					continue
				}
				inst.AddPlayer(user.ID)
				invited = append(invited, user.ID)
			}
		case inst.State() == instance.GameStateInProgress && inst.CurrentChallenge() != nil:
			previousTS, accepted = inst.SubmitAnswer(m.Author.ID, m.Content, m.ID)
			elapsed = inst.RoundElapsed()
		}
		return nil
	})
	if err != nil {
		return
	}

	for _, userID := range invited {
		content := fmt.Sprintf("✅ <@%s> has joined the game!", userID)
		if _, err := s.ChannelMessageSend(m.ChannelID, content); err != nil {
			log.Printf("Failed to announce invite in channel %s: %v", m.ChannelID, err)
		}
	}

	if !accepted {
		return
	}

	b.manageAnswerReactions(s, m, previousTS, elapsed)
}

// manageAnswerReactions clears the reactions on a player's superseded
// submission and marks the new one by response time
func (b *Bot) manageAnswerReactions(s *discordgo.Session, m *discordgo.MessageCreate, previousTS string, elapsed time.Duration) {
	if previousTS != "" {
		for _, emoji := range []string{reactionFast, reactionMedium, reactionSlow} {
			if err := s.MessageReactionRemove(m.ChannelID, previousTS, emoji, "@me"); err != nil {
				// message probably already unreacted
				continue
			}
		}
	}

	if err := s.MessageReactionAdd(m.ChannelID, m.ID, reactionForResponseTime(elapsed)); err != nil {
		log.Printf("Failed to add answer reaction: %v", err)
	}
}

// reactionForResponseTime picks the reaction emoji for a submission
func reactionForResponseTime(elapsed time.Duration) string {
	switch {
	case elapsed.Seconds() <= fastResponseSeconds:
		return reactionFast
	case elapsed.Seconds() <= mediumResponseSeconds:
		return reactionMedium
	default:
		return reactionSlow
	}
}
