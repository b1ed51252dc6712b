package discord

import (
	"fmt"
	"math/rand"
)

var gameNameAdjectives = []string{
	"Epic",
	"Mysterious",
	"Golden",
	"Cosmic",
	"Legendary",
	"Hidden",
	"Ancient",
	"Magical",
	"Swift",
	"Brave",
	"Clever",
	"Wild",
	"Silent",
	"Bright",
	"Dark",
	"Fierce",
	"Gentle",
	"Wise",
	"Quick",
	"Strong",
	"Calm",
	"Bold",
	"Shiny",
	"Rare",
}

var gameNameNouns = []string{
	"Quest",
	"Adventure",
	"Journey",
	"Challenge",
	"Mission",
	"Voyage",
	"Expedition",
	"Trial",
	"Test",
	"Battle",
	"Race",
	"Hunt",
	"Discovery",
	"Exploration",
	"Puzzle",
	"Mystery",
	"Treasure",
	"Legend",
	"Tale",
	"Story",
	"Saga",
	"Chronicle",
	"Odyssey",
}

// generateGameName produces a display name like "Epic Quest"
func generateGameName(rng *rand.Rand) string {
	adjective := gameNameAdjectives[rng.Intn(len(gameNameAdjectives))]
	noun := gameNameNouns[rng.Intn(len(gameNameNouns))]
	return fmt.Sprintf("%s %s", adjective, noun)
}
