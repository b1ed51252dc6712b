package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hackvoyage/voyager/internal/challenge"
	"github.com/hackvoyage/voyager/internal/config"
	"github.com/hackvoyage/voyager/internal/handlers/discord"
	"github.com/hackvoyage/voyager/internal/registry"
	"github.com/hackvoyage/voyager/internal/repositories/results"
	"github.com/hackvoyage/voyager/internal/verify"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	resultsRepo, err := results.NewRedis(&results.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create results repository: %v", err)
	}

	// Initialize challenge generator
	generator := challenge.New(&challenge.Config{
		Riddles: challenge.NewRiddleSource(cfg.RiddlesPath),
	})

	// Exact matching is the fallback when the AI judge is unreachable
	verifier := verify.NewFallback(
		verify.NewAI(&verify.AIConfig{Endpoint: cfg.AIEndpoint}),
		verify.NewLocal(),
	)

	// Initialize Discord bot
	bot, err := discord.New(&discord.Config{
		Token:            cfg.DiscordToken,
		ApplicationID:    cfg.ApplicationID,
		GuildID:          cfg.GuildID,
		Registry:         registry.New(),
		Generator:        generator,
		Verifier:         verifier,
		Results:          resultsRepo,
		LobbyChannelName: cfg.LobbyChannelName,
		MaxGameChannels:  cfg.MaxGameChannels,
		Points:           cfg.CorrectAnswerPoints,
	})
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}

	// Start the bot
	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start Discord bot: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Shutdown the bot
	if err := bot.Stop(); err != nil {
		log.Printf("Error stopping bot: %v", err)
	}

	log.Println("Bot has been shut down")
}
