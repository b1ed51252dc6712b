package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the bot's runtime configuration, loaded from the environment
type Config struct {
	// Discord credentials
	DiscordToken  string `env:"DISCORD_TOKEN,required,notEmpty"`
	ApplicationID string `env:"APPLICATION_ID"`
	GuildID       string `env:"GUILD_ID"`

	// Redis connection
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Channel management
	LobbyChannelName string `env:"LOBBY_CHANNEL_NAME" envDefault:"game-lobby"`
	MaxGameChannels  int    `env:"MAX_GAME_CHANNELS" envDefault:"3"`

	// Challenge content
	AIEndpoint  string `env:"AI_ENDPOINT"`
	RiddlesPath string `env:"RIDDLES_PATH" envDefault:"riddles.csv"`

	// Scoring
	CorrectAnswerPoints int `env:"CORRECT_ANSWER_POINTS" envDefault:"10"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

// Load parses the configuration from environment variables
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
