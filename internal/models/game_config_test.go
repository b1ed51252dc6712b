package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGameConfig_RoundTiers(t *testing.T) {
	assert.Equal(t, 10, NewGameConfig(1).MainRounds)
	assert.Equal(t, 10, NewGameConfig(2).MainRounds)
	assert.Equal(t, 15, NewGameConfig(3).MainRounds)
	assert.Equal(t, 15, NewGameConfig(4).MainRounds)
	assert.Equal(t, 20, NewGameConfig(5).MainRounds)
	assert.Equal(t, 20, NewGameConfig(8).MainRounds)
}

func TestNewGameConfig_CollaborativeThreshold(t *testing.T) {
	assert.NotContains(t, NewGameConfig(2).AvailableGameTypes, GameTypeCollaborative)
	assert.Contains(t, NewGameConfig(3).AvailableGameTypes, GameTypeCollaborative)
}
