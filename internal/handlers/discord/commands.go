package discord

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/hackvoyage/voyager/internal/instance"
	"github.com/hackvoyage/voyager/internal/models"
)

// WaitlistCommand handles the /waitlist command
type WaitlistCommand struct {
	BaseCommand
	bot *Bot
}

// NewWaitlistCommand creates a new waitlist command handler
func NewWaitlistCommand(bot *Bot) *WaitlistCommand {
	return &WaitlistCommand{
		BaseCommand: BaseCommand{
			Name:        "waitlist",
			Description: "Join the queue for the next game",
		},
		bot: bot,
	}
}

// Handle processes a Discord interaction for the waitlist command
func (c *WaitlistCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	channel, err := s.Channel(i.ChannelID)
	if err != nil {
		return RespondWithError(s, i, "Could not resolve this channel.")
	}

	if channel.Name != c.bot.config.LobbyChannelName {
		return RespondWithEphemeralMessage(s, i,
			fmt.Sprintf("Use `/waitlist` in the #%s channel.", c.bot.config.LobbyChannelName))
	}

	position, err := c.bot.joinWaitlist(i.GuildID, i.Member.User.ID)
	switch {
	case errors.Is(err, ErrAlreadyWaiting):
		return RespondWithEphemeralMessage(s, i,
			fmt.Sprintf("You're already on the waitlist at position %d.", position))
	case errors.Is(err, ErrAlreadyPlaying):
		return RespondWithEphemeralMessage(s, i, "You're already in a game. Finish it first!")
	case err != nil:
		return RespondWithError(s, i, fmt.Sprintf("Failed to join the waitlist: %v", err))
	}

	return RespondWithEphemeralMessage(s, i,
		fmt.Sprintf("You're on the waitlist at position %d. A game channel will be assigned shortly.", position))
}

// StateCommand handles the /state command
type StateCommand struct {
	BaseCommand
	bot *Bot
}

// NewStateCommand creates a new state command handler
func NewStateCommand(bot *Bot) *StateCommand {
	return &StateCommand{
		BaseCommand: BaseCommand{
			Name:        "state",
			Description: "Show the state of the game in this channel",
		},
		bot: bot,
	}
}

// Handle processes a Discord interaction for the state command
func (c *StateCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	var snapshot *instance.StateSnapshot
	var scoreboard []instance.ScoreEntry
	var gameName string

	err := c.bot.registry.With(i.ChannelID, func(inst *instance.Instance) error {
		snapshot = inst.GameState()
		scoreboard = inst.Scoreboard()
		gameName = inst.Name()
		return nil
	})
	if err != nil {
		return RespondWithEphemeralMessage(s, i, "No game in this channel. Join one with `/waitlist` in the lobby.")
	}

	embed := createStateEmbed(gameName, snapshot, scoreboard)
	return RespondWithEmbed(s, i, embed)
}

// createStateEmbed renders a game's snapshot
func createStateEmbed(gameName string, snapshot *instance.StateSnapshot, scoreboard []instance.ScoreEntry) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "State", Value: string(snapshot.State), Inline: true},
		{Name: "Phase", Value: string(snapshot.Phase), Inline: true},
		{Name: "Round", Value: fmt.Sprintf("%d", snapshot.Round), Inline: true},
		{Name: "Players", Value: fmt.Sprintf("%d (%d active)", snapshot.PlayerCount, snapshot.ActivePlayers), Inline: true},
		{Name: "Time Elapsed", Value: snapshot.TimeElapsed, Inline: true},
	}

	if snapshot.ChallengeType != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Current Challenge",
			Value:  snapshot.ChallengeType.DisplayName(),
			Inline: true,
		})
	}

	if len(scoreboard) > 0 {
		rows := make([]string, 0, len(scoreboard))
		for _, entry := range scoreboard {
			rows = append(rows, fmt.Sprintf("<@%s>: **%d** pts", entry.UserID, entry.Score))
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Scores",
			Value:  strings.Join(rows, "\n"),
			Inline: false,
		})
	}

	return &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("Game `%s`", gameName),
		Color:  0x3498db, // Blue color
		Fields: fields,
	}
}

// StartCommand handles the /start command
type StartCommand struct {
	BaseCommand
	bot *Bot
}

// NewStartCommand creates a new start command handler
func NewStartCommand(bot *Bot) *StartCommand {
	return &StartCommand{
		BaseCommand: BaseCommand{
			Name:        "start",
			Description: "Start the game in this channel",
		},
		bot: bot,
	}
}

// Handle processes a Discord interaction for the start command
func (c *StartCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	userID := i.Member.User.ID

	err := c.bot.registry.With(i.ChannelID, func(inst *instance.Instance) error {
		if inst.State() != instance.GameStateWaiting {
			return errors.New("the game has already started")
		}

		inst.AddPlayer(userID)
		_, err := inst.StartGame(models.NewGameConfig(inst.PlayerCount()))
		return err
	})
	if err != nil {
		if errors.Is(err, instance.ErrNotEnoughPlayers) {
			return RespondWithError(s, i, "Not enough players to start.")
		}
		return RespondWithError(s, i, fmt.Sprintf("Could not start the game: %v", err))
	}

	if err := RespondWithMessage(s, i, fmt.Sprintf("<@%s> started the game!", userID)); err != nil {
		log.Printf("Failed to respond to start command: %v", err)
	}

	channelID := i.ChannelID
	go func() {
		c.bot.sendHostLine(channelID, "intro")
		c.bot.startRound(channelID)
	}()

	return nil
}

// NextRoundCommand handles the /next-round command
type NextRoundCommand struct {
	BaseCommand
	bot *Bot
}

// NewNextRoundCommand creates a new next-round command handler
func NewNextRoundCommand(bot *Bot) *NextRoundCommand {
	return &NextRoundCommand{
		BaseCommand: BaseCommand{
			Name:        "next-round",
			Description: "Skip ahead to the next round",
		},
		bot: bot,
	}
}

// Handle processes a Discord interaction for the next-round command
func (c *NextRoundCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	inProgress := false
	err := c.bot.registry.With(i.ChannelID, func(inst *instance.Instance) error {
		inProgress = inst.State() == instance.GameStateInProgress
		return nil
	})
	if err != nil || !inProgress {
		return RespondWithEphemeralMessage(s, i, "No game in progress in this channel.")
	}

	if err := RespondWithMessage(s, i, "Starting the next round..."); err != nil {
		log.Printf("Failed to respond to next-round command: %v", err)
	}

	channelID := i.ChannelID
	go func() {
		c.bot.sendHostLine(channelID, "main_round")
		c.bot.startRound(channelID)
	}()

	return nil
}

// CancelCommand handles the /cancel command
type CancelCommand struct {
	BaseCommand
	bot *Bot
}

// NewCancelCommand creates a new cancel command handler
func NewCancelCommand(bot *Bot) *CancelCommand {
	return &CancelCommand{
		BaseCommand: BaseCommand{
			Name:        "cancel",
			Description: "Cancel the game in this channel",
		},
		bot: bot,
	}
}

// Handle processes a Discord interaction for the cancel command
func (c *CancelCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	err := c.bot.registry.With(i.ChannelID, func(inst *instance.Instance) error {
		inst.EndGame(false)
		return nil
	})
	if err != nil {
		return RespondWithEphemeralMessage(s, i, "No game in this channel.")
	}

	c.bot.teardownGame(i.ChannelID)

	return RespondWithMessage(s, i, "Game cancelled.")
}
