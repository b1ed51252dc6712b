package challenge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"math/rand"
	"net/http"
	"time"
)

// DefaultTriviaBaseURL is the Open Trivia Database endpoint
const DefaultTriviaBaseURL = "https://opentdb.com/api.php"

// triviaCategories are the Open Trivia Database category IDs the bot draws from
var triviaCategories = []int{
	9,  // General Knowledge
	10, // Entertainment: Books
	11, // Entertainment: Film
	12, // Entertainment: Music
	13, // Entertainment: Musicals & Theatres
	14, // Entertainment: Television
	15, // Entertainment: Video Games
	16, // Entertainment: Board Games
	17, // Science & Nature
	18, // Science: Computers
	19, // Science: Mathematics
	20, // Mythology
	21, // Sports
	22, // Geography
	23, // History
	24, // Politics
	25, // Art
	26, // Celebrities
	27, // Animals
	28, // Vehicles
	29, // Entertainment: Comics
	30, // Science: Gadgets
	31, // Entertainment: Japanese Anime & Manga
	32, // Entertainment: Cartoon & Animations
}

// TriviaClient fetches single trivia questions from the Open Trivia Database
type TriviaClient struct {
	httpClient *http.Client
	baseURL    string
}

// TriviaConfig holds configuration for the trivia client
type TriviaConfig struct {
	// BaseURL overrides the API endpoint, used in tests
	BaseURL string

	// HTTPClient overrides the HTTP client
	HTTPClient *http.Client
}

// NewTriviaClient creates a trivia client
func NewTriviaClient(cfg *TriviaConfig) *TriviaClient {
	baseURL := DefaultTriviaBaseURL
	httpClient := &http.Client{Timeout: 10 * time.Second}

	if cfg != nil {
		if cfg.BaseURL != "" {
			baseURL = cfg.BaseURL
		}
		if cfg.HTTPClient != nil {
			httpClient = cfg.HTTPClient
		}
	}

	return &TriviaClient{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

type triviaResponse struct {
	Results []struct {
		Question      string `json:"question"`
		CorrectAnswer string `json:"correct_answer"`
	} `json:"results"`
}

// GetQuestion fetches one question from a random category. The question and
// answer come back HTML-entity encoded and are unescaped here.
func (c *TriviaClient) GetQuestion(ctx context.Context, random *rand.Rand) (string, []string, error) {
	category := triviaCategories[random.Intn(len(triviaCategories))]
	url := fmt.Sprintf("%s?amount=1&category=%d", c.baseURL, category)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build trivia request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch trivia question: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("trivia API returned status %d", resp.StatusCode)
	}

	var body triviaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", nil, fmt.Errorf("failed to decode trivia response: %w", err)
	}

	if len(body.Results) == 0 {
		return "", nil, errors.New("trivia API returned no results")
	}

	question := html.UnescapeString(body.Results[0].Question)
	answer := html.UnescapeString(body.Results[0].CorrectAnswer)
	return question, []string{answer}, nil
}
