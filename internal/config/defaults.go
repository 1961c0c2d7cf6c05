package config

import (
	_ "embed"

	"github.com/vovakirdan/boss-rush/internal/core"
)

//go:embed defaults/bosses.yaml
var defaultRosterYAML []byte

// Default returns the hardcoded configuration used when no roster file
// can be read, including the embedded one.
func Default() Config {
	return Config{
		Arena: ArenaConfig{
			MinX:        0,
			MaxX:        300,
			TickRate:    core.DefaultConfig().TickRate,
			DT:          core.DefaultDT,
			WrapEnemies: true,
		},
		Bosses: Roster{
			"goblin": {StartPos: []int{220, 50}, Health: intPtr(60)},
			"ogre":   {StartPos: []int{240, 50}, Health: intPtr(140)},
			"dragon": {StartPos: []int{260, 50}, Health: intPtr(200)},
		},
	}
}

// DefaultYAML returns the embedded default roster file.
func DefaultYAML() []byte {
	return defaultRosterYAML
}

func intPtr(v int) *int {
	return &v
}
