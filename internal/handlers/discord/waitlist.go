package discord

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hackvoyage/voyager/internal/instance"
)

// WaitlistError represents waitlist-specific errors
type WaitlistError string

func (e WaitlistError) Error() string {
	return string(e)
}

const (
	// ErrAlreadyWaiting indicates the user is already queued
	ErrAlreadyWaiting = WaitlistError("already on the waitlist")

	// ErrAlreadyPlaying indicates the user is already in a game
	ErrAlreadyPlaying = WaitlistError("already in a game")

	// ErrNoChannelAvailable indicates the guild's game channels are all in use
	ErrNoChannelAvailable = WaitlistError("no game channel available")
)

// gameChannelPrefix names the pooled game channels: game-1, game-2, ...
const gameChannelPrefix = "game-"

// joinWaitlist queues a user for the next available game. It returns the
// user's 1-based queue position.
func (b *Bot) joinWaitlist(guildID, userID string) (int, error) {
	if b.isPlaying(userID) {
		return 0, ErrAlreadyPlaying
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for pos, entry := range b.waitlist {
		if entry.GuildID == guildID && entry.UserID == userID {
			return pos + 1, ErrAlreadyWaiting
		}
	}

	b.waitlist = append(b.waitlist, waitlistEntry{GuildID: guildID, UserID: userID})
	return len(b.waitlist), nil
}

// isPlaying reports whether a user is on any live instance's roster
func (b *Bot) isPlaying(userID string) bool {
	for _, channelID := range b.registry.ChannelIDs() {
		playing := false
		err := b.registry.With(channelID, func(inst *instance.Instance) error {
			playing = inst.HasPlayer(userID)
			return nil
		})
		if err == nil && playing {
			return true
		}
	}
	return false
}

// runWaitlistProcessor drains the waitlist on a fixed interval until the
// bot stops
func (b *Bot) runWaitlistProcessor() {
	ticker := time.NewTicker(waitlistInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopCh:
			return
		case <-ticker.C:
			b.processWaitlist()
		}
	}
}

// processWaitlist pops the head of the queue and seeds a fresh game for it.
// One game per tick keeps channel allocation simple; queued players behind
// the head wait for the next tick.
func (b *Bot) processWaitlist() {
	b.mu.Lock()
	if len(b.waitlist) == 0 {
		b.mu.Unlock()
		return
	}
	entry := b.waitlist[0]
	b.waitlist = b.waitlist[1:]
	gameName := generateGameName(b.rng)
	b.mu.Unlock()

	channel, err := b.allocateGameChannel(entry.GuildID, gameName)
	if err != nil {
		log.Printf("Failed to allocate game channel for %q in guild %s: %v", gameName, entry.GuildID, err)
		b.requeue(entry)
		return
	}

	err = b.registry.Create(&instance.Config{
		ChannelID: channel.ID,
		Name:      gameName,
		Generator: b.generator,
		Verifier:  b.verifier,
		Clock:     b.clock,
		Points:    b.config.Points,
	})
	if err != nil {
		log.Printf("Failed to create instance for %q: %v", gameName, err)
		b.releaseGameChannel(channel.ID)
		b.requeue(entry)
		return
	}

	if err := b.registry.With(channel.ID, func(inst *instance.Instance) error {
		inst.AddPlayer(entry.UserID)
		return nil
	}); err != nil {
		log.Printf("Failed to seed player %s into %q: %v", entry.UserID, gameName, err)
	}

	b.mu.Lock()
	b.games[channel.ID] = &activeGame{
		GuildID:   entry.GuildID,
		ChannelID: channel.ID,
		Name:      gameName,
	}
	b.mu.Unlock()

	welcome := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Welcome to `%s`!", gameName),
		Description: "Ready to play! Invite more people or start the game with `/start`.",
		Color:       0x3498db, // Blue color
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Current Players",
				Value:  fmt.Sprintf("<@%s>", entry.UserID),
				Inline: false,
			},
		},
	}
	if _, err := b.session.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s>", entry.UserID),
		Embed:   welcome,
	}); err != nil {
		log.Printf("Failed to send welcome message for %q: %v", gameName, err)
	}
}

// requeue puts an entry back at the head of the waitlist
func (b *Bot) requeue(entry waitlistEntry) {
	b.mu.Lock()
	b.waitlist = append([]waitlistEntry{entry}, b.waitlist...)
	b.mu.Unlock()
}

// allocateGameChannel finds or creates an unused pooled channel and marks
// it with the game's name
func (b *Bot) allocateGameChannel(guildID, gameName string) (*discordgo.Channel, error) {
	channels, err := b.session.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild channels: %w", err)
	}

	pooled := 0
	for _, channel := range channels {
		if channel.Type != discordgo.ChannelTypeGuildText || !strings.HasPrefix(channel.Name, gameChannelPrefix) {
			continue
		}
		pooled++
		if b.registry.Has(channel.ID) {
			continue
		}
		if _, err := b.session.ChannelEdit(channel.ID, &discordgo.ChannelEdit{
			Topic: fmt.Sprintf("Game: %s - Active game in progress", gameName),
		}); err != nil {
			log.Printf("Failed to set topic on #%s: %v", channel.Name, err)
		}
		return channel, nil
	}

	if pooled >= b.config.MaxGameChannels {
		return nil, ErrNoChannelAvailable
	}

	channel, err := b.session.GuildChannelCreate(guildID,
		fmt.Sprintf("%s%d", gameChannelPrefix, pooled+1), discordgo.ChannelTypeGuildText)
	if err != nil {
		return nil, fmt.Errorf("failed to create game channel: %w", err)
	}

	return channel, nil
}

// releaseGameChannel returns a channel to the pool
func (b *Bot) releaseGameChannel(channelID string) {
	b.mu.Lock()
	if game, ok := b.games[channelID]; ok {
		if game.timer != nil {
			game.timer.Stop()
		}
		delete(b.games, channelID)
	}
	b.mu.Unlock()

	if _, err := b.session.ChannelEdit(channelID, &discordgo.ChannelEdit{
		Topic: "Waiting for the next game",
	}); err != nil {
		log.Printf("Failed to clear topic on channel %s: %v", channelID, err)
	}
}
