package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// DefaultAIEndpoint is the chat-completions endpoint used to judge answers
const DefaultAIEndpoint = "https://ai.hackclub.com/chat/completions"

// ErrAmbiguousResponse is returned when the model answers both yes and no
var ErrAmbiguousResponse = errors.New("AI response is ambiguous")

// AI judges answers by asking a chat-completions endpoint for a yes/no
// verdict. It tolerates typos and phrasing differences a literal comparison
// would reject.
type AI struct {
	httpClient *http.Client
	endpoint   string
}

// AIConfig holds configuration for the AI verifier
type AIConfig struct {
	// Endpoint overrides the chat-completions endpoint
	Endpoint string

	// HTTPClient overrides the HTTP client; the default carries a timeout so
	// a slow model cannot stall round evaluation indefinitely
	HTTPClient *http.Client
}

// NewAI creates an AI verifier
func NewAI(cfg *AIConfig) *AI {
	endpoint := DefaultAIEndpoint
	httpClient := &http.Client{Timeout: 15 * time.Second}

	if cfg != nil {
		if cfg.Endpoint != "" {
			endpoint = cfg.Endpoint
		}
		if cfg.HTTPClient != nil {
			httpClient = cfg.HTTPClient
		}
	}

	return &AI{
		httpClient: httpClient,
		endpoint:   endpoint,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Verify asks the model whether the submitted answer is correct
func (a *AI) Verify(ctx context.Context, submitted, expected string) (bool, error) {
	prompt := fmt.Sprintf(
		"Is ```%s``` correct, if the correct answer is ```%s```? Respond with only `yes` or `no`.",
		submitted, expected,
	)

	payload, err := json.Marshal(chatRequest{
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return false, fmt.Errorf("failed to encode verification request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("failed to build verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to reach AI endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("AI endpoint returned status %d", resp.StatusCode)
	}

	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("failed to decode AI response: %w", err)
	}

	if len(body.Choices) == 0 {
		return false, errors.New("AI response has no choices")
	}

	answer := strings.ToLower(body.Choices[0].Message.Content)
	if len(answer) > 3 {
		log.Printf("AI response too long: %s", answer)
	}
	if strings.Contains(answer, "yes") && strings.Contains(answer, "no") {
		return false, fmt.Errorf("%w: %q", ErrAmbiguousResponse, answer)
	}

	return strings.Contains(answer, "yes"), nil
}
