package challenge

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/hackvoyage/voyager/internal/models"
)

// speedPrompts are the fixed speed-challenge prompts
var speedPrompts = []string{
	"Type: SPEED",
	"Type: SECOND",
	"Type: DASH",
	"Type: ZOOM",
	"Type 'I LOSE' to win this round!",
	"Type: SAHIL THE GOAT",
}

// textModificationWords are the words players are asked to transform
var textModificationWords = []string{
	"hello",
	"voyager",
	"discord",
	"gaming",
	"python",
	"challenge",
	"quizzer",
}

// emojisByLetter maps a letter to emoji whose names contain it
var emojisByLetter = map[string][]string{
	"a": {"🍎", "🐜", "🅰️"},
	"b": {"🐝", "🍌", "🅱️"},
	"c": {"🐱", "🌜", "🌶️"},
	"d": {"🐶", "🎯", "💃"},
	"e": {"🦅", "🥚", "🐘"},
	"f": {"🔥", "🐸", "🦊"},
	"g": {"🍇", "👻", "🦒"},
	"s": {"⭐", "🐍", "☀️"},
	"t": {"🐯", "🌮", "🌲"},
}

// paddingEmojis top up a letter's pool when it is too small to sample from
var paddingEmojis = []string{"😀", "😎", "😉"}

// Generator produces challenges for every supported game type
type Generator struct {
	random  *rand.Rand
	trivia  *TriviaClient
	riddles *RiddleSource
}

// Config holds configuration for the challenge generator
type Config struct {
	// Seed seeds the generator's randomness, used in tests
	Seed int64

	// Trivia overrides the trivia client
	Trivia *TriviaClient

	// Riddles overrides the riddle source
	Riddles *RiddleSource
}

// New creates a challenge generator
func New(cfg *Config) *Generator {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	trivia := NewTriviaClient(nil)
	riddles := NewRiddleSource("")
	if cfg != nil {
		if cfg.Trivia != nil {
			trivia = cfg.Trivia
		}
		if cfg.Riddles != nil {
			riddles = cfg.Riddles
		}
	}

	return &Generator{
		random:  rand.New(rand.NewSource(seed)),
		trivia:  trivia,
		riddles: riddles,
	}
}

// Generate produces a fresh challenge of the given type
func (g *Generator) Generate(ctx context.Context, gameType models.GameType) (*models.Challenge, error) {
	switch gameType {
	case models.GameTypeQuickMath:
		return g.quickMath(), nil
	case models.GameTypeSpeedChallenge:
		return g.speedChallenge(), nil
	case models.GameTypeTextModification:
		return g.textModification(), nil
	case models.GameTypeMemory:
		return g.memory(), nil
	case models.GameTypeEmojiChallenge:
		return g.emojiChallenge(), nil
	case models.GameTypeTrivia:
		return g.triviaChallenge(ctx), nil
	case models.GameTypeRiddle:
		return g.riddle(), nil
	case models.GameTypeCollaborative:
		return g.collaborative(), nil
	default:
		return fallbackTrivia(), nil
	}
}

func (g *Generator) quickMath() *models.Challenge {
	ops := []string{"+", "-", "×", "÷"}
	op := ops[g.random.Intn(len(ops))]

	var a, b, answer int
	switch op {
	case "÷":
		// fix the quotient first so the division is always exact
		quotient := g.random.Intn(11) + 2
		divisor := g.random.Intn(19) + 2
		a, b, answer = quotient*divisor, divisor, quotient
	case "×":
		a, b = g.random.Intn(14)+2, g.random.Intn(14)+2
		answer = a * b
	case "+":
		a, b = g.random.Intn(90)+10, g.random.Intn(90)+10
		answer = a + b
	default:
		a, b = g.random.Intn(90)+10, g.random.Intn(90)+10
		answer = a - b
	}

	timeLimit := 8
	if op == "×" || op == "÷" {
		timeLimit = 12
	}

	return &models.Challenge{
		Type:      models.GameTypeQuickMath,
		Question:  fmt.Sprintf("What's %d %s %d?", a, op, b),
		Rule:      models.TextMatch{Answers: []string{fmt.Sprintf("%d", answer)}},
		TimeLimit: timeLimit,
	}
}

func (g *Generator) speedChallenge() *models.Challenge {
	prompt := speedPrompts[g.random.Intn(len(speedPrompts))]

	return &models.Challenge{
		Type:      models.GameTypeSpeedChallenge,
		Question:  prompt,
		Rule:      models.FirstResponder{},
		TimeLimit: 6,
	}
}

func (g *Generator) textModification() *models.Challenge {
	word := textModificationWords[g.random.Intn(len(textModificationWords))]

	var question, answer string
	if g.random.Intn(2) == 0 {
		question = fmt.Sprintf("Type '%s' backwards", word)
		answer = reverse(word)
	} else {
		question = fmt.Sprintf("Type '%s' with alternating UPPER/lower case (start with UPPER)", word)
		answer = alternateCase(word)
	}

	return &models.Challenge{
		Type:      models.GameTypeTextModification,
		Question:  question,
		Rule:      models.TextMatch{Answers: []string{answer}},
		TimeLimit: 15,
	}
}

func (g *Generator) memory() *models.Challenge {
	length := g.random.Intn(4) + 3
	digits := make([]string, length)
	for i := range digits {
		digits[i] = fmt.Sprintf("%d", g.random.Intn(9)+1)
	}
	sequence := strings.Join(digits, " ")

	return &models.Challenge{
		Type:      models.GameTypeMemory,
		Question:  fmt.Sprintf("Remember this sequence: %s", sequence),
		Rule:      models.TextMatch{Answers: []string{sequence}},
		TimeLimit: length*3 + 4,
	}
}

func (g *Generator) emojiChallenge() *models.Challenge {
	letter := string(rune('a' + g.random.Intn(26)))

	pool := emojisByLetter[letter]
	if len(pool) < 3 {
		pool = append(append([]string{}, pool...), paddingEmojis...)
	}

	selected := g.sample(pool, 5)
	question := fmt.Sprintf(
		"Type ALL of the following emojis in ANY order: %s\n(They each contain the letter '%s' in their name)",
		strings.Join(selected, " "), letter,
	)

	return &models.Challenge{
		Type:      models.GameTypeEmojiChallenge,
		Question:  question,
		Rule:      models.TokenSet{Tokens: selected},
		TimeLimit: 25,
	}
}

func (g *Generator) triviaChallenge(ctx context.Context) *models.Challenge {
	question, answers, err := g.trivia.GetQuestion(ctx, g.random)
	if err != nil {
		return fallbackTrivia()
	}

	return &models.Challenge{
		Type:      models.GameTypeTrivia,
		Question:  question,
		Rule:      models.TextMatch{Answers: answers},
		TimeLimit: 20,
	}
}

func (g *Generator) riddle() *models.Challenge {
	question, answer := g.riddles.Random(g.random)

	return &models.Challenge{
		Type:      models.GameTypeRiddle,
		Question:  question,
		Rule:      models.TextMatch{Answers: []string{answer}},
		TimeLimit: 30,
	}
}

func (g *Generator) collaborative() *models.Challenge {
	return &models.Challenge{
		Type:      models.GameTypeCollaborative,
		Question:  "Work together! Everyone must respond with 'ready' to continue!",
		Rule:      models.TextMatch{Answers: []string{"ready"}},
		TimeLimit: 30,
	}
}

// fallbackTrivia is served for unknown types and trivia API failures
func fallbackTrivia() *models.Challenge {
	return &models.Challenge{
		Type:      models.GameTypeTrivia,
		Question:  "What is the capital of France?",
		Rule:      models.TextMatch{Answers: []string{"Paris"}},
		TimeLimit: 20,
	}
}

// sample returns up to k distinct elements of pool in random order
func (g *Generator) sample(pool []string, k int) []string {
	shuffled := append([]string{}, pool...)
	g.random.Shuffle(len(shuffled), func(a, b int) {
		shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
	})
	if k > len(shuffled) {
		k = len(shuffled)
	}
	return shuffled[:k]
}

func reverse(s string) string {
	runes := []rune(s)
	for a, b := 0, len(runes)-1; a < b; a, b = a+1, b-1 {
		runes[a], runes[b] = runes[b], runes[a]
	}
	return string(runes)
}

func alternateCase(s string) string {
	var out strings.Builder
	for idx, ch := range []rune(s) {
		if idx%2 == 0 {
			out.WriteString(strings.ToUpper(string(ch)))
		} else {
			out.WriteString(strings.ToLower(string(ch)))
		}
	}
	return out.String()
}
