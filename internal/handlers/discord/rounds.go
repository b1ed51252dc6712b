package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hackvoyage/voyager/internal/instance"
	"github.com/hackvoyage/voyager/internal/models"
	"github.com/hackvoyage/voyager/internal/repositories/results"
)

// nextRoundDelay is the pause between a round's results and the next round
const nextRoundDelay = 3 * time.Second

// hostDialogue holds the host's canned lines, one picked at random per cue
var hostDialogue = map[string][]string{
	"intro": {
		"Alright, let's do this!",
		"Time to see what you've got...",
		"Who's gonna win this one?",
	},
	"main_round": {
		"Next round!",
		"Here we go again...",
		"I'm ready for the next answers - are you?",
	},
	"final_results": {
		"Final scores coming up...",
		"And the winner is...",
		"Here's how everyone did:",
	},
	"outro": {
		"Good game everyone!",
		"GGs",
		"That was fun!",
	},
}

// hostDialogueTiming is the dramatic pause after each cue
var hostDialogueTiming = map[string]time.Duration{
	"intro":         2500 * time.Millisecond,
	"main_round":    1500 * time.Millisecond,
	"final_results": 3 * time.Second,
	"outro":         2 * time.Second,
}

// sendHostLine posts a random line for the cue and waits out its pause
func (b *Bot) sendHostLine(channelID, cue string) {
	lines := hostDialogue[cue]
	if len(lines) == 0 {
		return
	}

	b.mu.Lock()
	line := lines[b.rng.Intn(len(lines))]
	b.mu.Unlock()

	if _, err := b.session.ChannelMessageSend(channelID, line); err != nil {
		log.Printf("Failed to send host line in channel %s: %v", channelID, err)
	}

	if pause, ok := hostDialogueTiming[cue]; ok {
		time.Sleep(pause)
	}
}

// createProgressBar renders the round position as a bar like
// [▓▓░░░░░░░░] Round 2/10
func createProgressBar(currentRound, totalRounds int) string {
	if currentRound > totalRounds {
		currentRound = totalRounds
	}
	filled := strings.Repeat("▓", currentRound)
	empty := strings.Repeat("░", totalRounds-currentRound)
	return fmt.Sprintf("[%s%s] Round %d/%d", filled, empty, currentRound, totalRounds)
}

// createRoundEmbed renders one round's challenge
func createRoundEmbed(round, totalRounds int, gameName string, challenge *models.Challenge) *discordgo.MessageEmbed {
	progressBar := createProgressBar(round, totalRounds)
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Round %d", round),
		Description: fmt.Sprintf("`%s`\n\n%s", progressBar, challenge.Question),
		Color:       0x3498db, // Blue color
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Type",
				Value:  challenge.Type.DisplayName(),
				Inline: true,
			},
			{
				Name:   "Time Limit",
				Value:  fmt.Sprintf("%d seconds", challenge.TimeLimit),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: gameName,
		},
	}
}

// startRound begins the next round in a channel and schedules its evaluation
func (b *Bot) startRound(channelID string) {
	var challenge *models.Challenge
	var round, totalRounds int
	var gameName string

	err := b.registry.With(channelID, func(inst *instance.Instance) error {
		c, err := inst.StartMainRound(context.Background(), "")
		if err != nil {
			return err
		}
		challenge = c
		round = inst.CurrentRound()
		totalRounds = inst.Config().MainRounds
		gameName = inst.Name()
		return nil
	})
	if err != nil {
		log.Printf("Failed to start round in channel %s: %v", channelID, err)
		return
	}

	embed := createRoundEmbed(round, totalRounds, gameName, challenge)
	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Printf("Failed to post round embed in channel %s: %v", channelID, err)
	}

	b.scheduleEvaluation(channelID, time.Duration(challenge.TimeLimit)*time.Second)
}

// scheduleEvaluation arms the round timer; any previous timer is replaced
func (b *Bot) scheduleEvaluation(channelID string, delay time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	game, ok := b.games[channelID]
	if !ok {
		return
	}
	if game.timer != nil {
		game.timer.Stop()
	}
	game.timer = time.AfterFunc(delay, func() {
		b.evaluateRound(channelID)
	})
}

// evaluateRound scores the round that just timed out, reports it, and
// either advances to the next round or ends the game
func (b *Bot) evaluateRound(channelID string) {
	var roundResults *instance.RoundResults
	var newLeader string
	var scoreboard []instance.ScoreEntry
	var answerText []string
	var round, totalRounds, active int

	err := b.registry.With(channelID, func(inst *instance.Instance) error {
		challenge := inst.CurrentChallenge()
		if challenge == nil {
			return instance.ErrNoActiveChallenge
		}

		r, err := inst.EvaluateChallenge(context.Background())
		if err != nil {
			return err
		}
		roundResults = r
		newLeader = inst.CheckLeaderChange()
		scoreboard = inst.Scoreboard()
		answerText = challenge.AnswerText()
		round = inst.CurrentRound()
		totalRounds = inst.Config().MainRounds
		active = inst.ActivePlayerCount()
		return nil
	})
	if err != nil {
		log.Printf("Failed to evaluate round in channel %s: %v", channelID, err)
		return
	}

	if newLeader != "" {
		leaderEmbed := &discordgo.MessageEmbed{
			Title:       "🚨 NEW LEADER! 🚨",
			Description: fmt.Sprintf("<@%s> has taken the lead!", newLeader),
			Color:       0xf1c40f, // Gold color
		}
		if _, err := b.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Content: fmt.Sprintf("<@%s>", newLeader),
			Embed:   leaderEmbed,
		}); err != nil {
			log.Printf("Failed to announce leader change in channel %s: %v", channelID, err)
		}
	}

	embed := createResultsEmbed(roundResults, answerText, scoreboard)
	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Printf("Failed to post round results in channel %s: %v", channelID, err)
	}

	if round >= totalRounds || active <= 1 {
		b.finishGame(channelID)
		return
	}

	b.scheduleNextRound(channelID)
}

// createResultsEmbed renders one round's outcome and the live leaderboard
func createResultsEmbed(roundResults *instance.RoundResults, answerText []string, scoreboard []instance.ScoreEntry) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Round Results",
		Color: 0x3498db, // Blue color
	}

	if len(answerText) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Correct Answer",
			Value:  fmt.Sprintf("`%s`", strings.Join(answerText, " / ")),
			Inline: false,
		})
	}

	if len(roundResults.CorrectPlayers) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "✅ Correct",
			Value:  mentionList(roundResults.CorrectPlayers),
			Inline: false,
		})
	}

	if len(roundResults.FailedPlayers) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "❌ Incorrect/No Answer",
			Value:  mentionList(roundResults.FailedPlayers),
			Inline: false,
		})
	}

	if len(scoreboard) > 0 {
		rows := make([]string, 0, len(scoreboard))
		for _, entry := range scoreboard {
			rows = append(rows, fmt.Sprintf("<@%s>: **%d** pts", entry.UserID, entry.Score))
		}
		if len(rows) > 5 {
			rows = rows[:5]
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "🏆 Live Leaderboard",
			Value:  strings.Join(rows, "\n"),
			Inline: false,
		})
	}

	return embed
}

// scheduleNextRound pauses briefly, cues the host, and starts the next round
func (b *Bot) scheduleNextRound(channelID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	game, ok := b.games[channelID]
	if !ok {
		return
	}
	if game.timer != nil {
		game.timer.Stop()
	}
	game.timer = time.AfterFunc(nextRoundDelay, func() {
		if !b.registry.Has(channelID) {
			return
		}
		b.sendHostLine(channelID, "main_round")
		b.startRound(channelID)
	})
}

// finishGame ends a game, reports the winners, persists the result, and
// returns the channel to the pool
func (b *Bot) finishGame(channelID string) {
	b.sendHostLine(channelID, "final_results")

	var final *instance.FinalResults
	var gameName string

	err := b.registry.With(channelID, func(inst *instance.Instance) error {
		final = inst.EndGame(true)
		gameName = inst.Name()
		return nil
	})
	if err != nil {
		log.Printf("Failed to end game in channel %s: %v", channelID, err)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "Game Complete!",
		Color: 0x2ecc71, // Green color
	}
	if len(final.Winners) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Winners",
			Value:  mentionList(final.Winners),
			Inline: false,
		})
	}

	scoreRows := make([]string, 0, len(final.Scores))
	for _, winner := range final.Winners {
		scoreRows = append(scoreRows, fmt.Sprintf("<@%s>: %d", winner, final.Scores[winner]))
	}
	for userID, score := range final.Scores {
		if !contains(final.Winners, userID) {
			scoreRows = append(scoreRows, fmt.Sprintf("<@%s>: %d", userID, score))
		}
	}
	if len(scoreRows) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Final Scores",
			Value:  strings.Join(scoreRows, "\n"),
			Inline: false,
		})
	}

	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Printf("Failed to post final results in channel %s: %v", channelID, err)
	}

	b.sendHostLine(channelID, "outro")
	b.saveResult(channelID, gameName, final)
	b.teardownGame(channelID)
}

// saveResult persists a finished game's record
func (b *Bot) saveResult(channelID, gameName string, final *instance.FinalResults) {
	b.mu.Lock()
	guildID := ""
	if game, ok := b.games[channelID]; ok {
		guildID = game.GuildID
	}
	b.mu.Unlock()

	result := &models.GameResult{
		ID:           b.uuider.NewUUID(),
		GuildID:      guildID,
		ChannelID:    channelID,
		Name:         gameName,
		Winners:      final.Winners,
		Scores:       final.Scores,
		RoundsPlayed: final.RoundsPlayed,
		Duration:     final.Duration,
		CompletedAt:  b.clock.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.results.SaveResult(ctx, &results.SaveResultInput{Result: result}); err != nil {
		log.Printf("Failed to save result for game %q: %v", gameName, err)
	}
}

// teardownGame drops a channel's instance and returns the channel to the pool
func (b *Bot) teardownGame(channelID string) {
	b.registry.Remove(channelID)
	b.releaseGameChannel(channelID)
}

func mentionList(userIDs []string) string {
	mentions := make([]string, 0, len(userIDs))
	for _, userID := range userIDs {
		mentions = append(mentions, fmt.Sprintf("<@%s>", userID))
	}
	return strings.Join(mentions, ", ")
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
