package models

// Rule describes how a challenge is scored. Exactly one concrete rule type
// applies to a challenge; the evaluator switches over them exhaustively.
type Rule interface {
	isRule()
}

// TextMatch scores a submission as correct when it matches any of the
// acceptable answers according to the game's answer verifier
type TextMatch struct {
	// Answers are the acceptable answers, in display order
	Answers []string
}

func (TextMatch) isRule() {}

// FirstResponder awards the round to the earliest submission regardless of
// its content. There is no correct answer to match against.
type FirstResponder struct{}

func (FirstResponder) isRule() {}

// TokenSet scores a submission as correct when its whitespace-split tokens
// are a superset of the expected tokens, in any order
type TokenSet struct {
	// Tokens are the required tokens
	Tokens []string
}

func (TokenSet) isRule() {}

// Challenge is one round's question, scoring rule and time budget.
// Challenges are created fresh each round and never mutated.
type Challenge struct {
	// Type identifies the kind of challenge
	Type GameType

	// Question is the display text shown to players
	Question string

	// Rule determines how submissions are scored
	Rule Rule

	// TimeLimit is the round duration budget in seconds, always positive
	TimeLimit int
}

// AnswerText returns the acceptable answers for display after a round,
// or nil when the rule has no answer to show
func (c *Challenge) AnswerText() []string {
	switch r := c.Rule.(type) {
	case TextMatch:
		return r.Answers
	case TokenSet:
		return r.Tokens
	default:
		return nil
	}
}
