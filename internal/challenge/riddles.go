package challenge

import (
	"encoding/csv"
	"math/rand"
	"os"
)

// DefaultRiddlesPath is where the riddle CSV is expected.
// Source: https://github.com/crawsome/riddles/blob/main/riddles.csv
const DefaultRiddlesPath = "riddles.csv"

// Fallback riddles used when the CSV is missing or a row is malformed
const (
	fallbackRiddleQuestion = "What has keys but no locks, space but no room, and you can enter but not go inside?"
	fallbackRiddleAnswer   = "A keyboard"

	malformedRiddleQuestion = "What gets wetter as it dries?"
	malformedRiddleAnswer   = "A towel"
)

// RiddleSource serves random riddles from a CSV file of question,answer rows
type RiddleSource struct {
	rows [][]string
}

// NewRiddleSource loads the riddle file. A missing or unreadable file is not
// an error; the source degrades to a fixed fallback riddle.
func NewRiddleSource(path string) *RiddleSource {
	if path == "" {
		path = DefaultRiddlesPath
	}

	file, err := os.Open(path)
	if err != nil {
		return &RiddleSource{}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return &RiddleSource{}
	}

	return &RiddleSource{rows: rows}
}

// Random returns a random riddle and its answer
func (s *RiddleSource) Random(random *rand.Rand) (string, string) {
	if len(s.rows) == 0 {
		return fallbackRiddleQuestion, fallbackRiddleAnswer
	}

	row := s.rows[random.Intn(len(s.rows))]
	if len(row) < 2 {
		return malformedRiddleQuestion, malformedRiddleAnswer
	}
	return row[0], row[1]
}
