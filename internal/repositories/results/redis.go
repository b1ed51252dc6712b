package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hackvoyage/voyager/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	resultKeyPrefix    = "result:"
	guildResultsPrefix = "guild:results:"
	leaderboardPrefix  = "guild:leaderboard:"
)

// ErrResultNotFound is returned when a result is not found
var ErrResultNotFound = errors.New("result not found")

// Config holds configuration for the Redis results repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed results repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SaveResult persists a result and credits each winner on the guild's
// leaderboard, in one transaction
func (r *redisRepository) SaveResult(ctx context.Context, input *SaveResultInput) error {
	if input == nil || input.Result == nil {
		return errors.New("input and result cannot be nil")
	}
	if input.Result.ID == "" {
		return errors.New("result ID cannot be empty")
	}

	resultJSON, err := json.Marshal(input.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	pipe := r.client.Pipeline()

	resultKey := fmt.Sprintf("%s%s", resultKeyPrefix, input.Result.ID)
	pipe.Set(ctx, resultKey, resultJSON, 0)

	if input.Result.GuildID != "" {
		guildKey := fmt.Sprintf("%s%s", guildResultsPrefix, input.Result.GuildID)
		pipe.LPush(ctx, guildKey, input.Result.ID)

		leaderboardKey := fmt.Sprintf("%s%s", leaderboardPrefix, input.Result.GuildID)
		for _, winner := range input.Result.Winners {
			pipe.ZIncrBy(ctx, leaderboardKey, 1, winner)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

// GetResult retrieves a result by ID
func (r *redisRepository) GetResult(ctx context.Context, input *GetResultInput) (*GetResultOutput, error) {
	if input == nil || input.ResultID == "" {
		return nil, errors.New("input and result ID cannot be empty")
	}

	resultKey := fmt.Sprintf("%s%s", resultKeyPrefix, input.ResultID)
	resultJSON, err := r.client.Get(ctx, resultKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var result models.GameResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &GetResultOutput{Result: &result}, nil
}

// GetGuildResults retrieves a guild's results, newest first
func (r *redisRepository) GetGuildResults(ctx context.Context, input *GetGuildResultsInput) (*GetGuildResultsOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit) - 1
	}

	guildKey := fmt.Sprintf("%s%s", guildResultsPrefix, input.GuildID)
	resultIDs, err := r.client.LRange(ctx, guildKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list guild results: %w", err)
	}

	output := &GetGuildResultsOutput{
		Results: make([]*models.GameResult, 0, len(resultIDs)),
	}
	for _, resultID := range resultIDs {
		result, err := r.GetResult(ctx, &GetResultInput{ResultID: resultID})
		if err != nil {
			if errors.Is(err, ErrResultNotFound) {
				continue
			}
			return nil, err
		}
		output.Results = append(output.Results, result.Result)
	}

	return output, nil
}

// GetLeaderboard retrieves a guild's leaderboard, most wins first
func (r *redisRepository) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit) - 1
	}

	leaderboardKey := fmt.Sprintf("%s%s", leaderboardPrefix, input.GuildID)
	ranked, err := r.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	output := &GetLeaderboardOutput{
		Entries: make([]LeaderboardEntry, 0, len(ranked)),
	}
	for _, z := range ranked {
		userID, ok := z.Member.(string)
		if !ok {
			continue
		}
		output.Entries = append(output.Entries, LeaderboardEntry{
			UserID: userID,
			Wins:   int(z.Score),
		})
	}

	return output, nil
}
