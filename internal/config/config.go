// Package config provides YAML-based arena and boss roster configuration,
// environment-driven server settings and hot reload of the roster file.
package config

import "github.com/vovakirdan/boss-rush/internal/core"

// Boss defaults applied when the roster omits a value.
const (
	DefaultBossHealth = 80
)

// DefaultBossPosition is where a boss spawns when start_pos is missing.
var DefaultBossPosition = core.Pt(220, 50)

// Config is the full contents of a roster file.
type Config struct {
	Arena  ArenaConfig `yaml:"arena"`
	Bosses Roster      `yaml:"bosses"`
}

// ArenaConfig holds presentation-side arena rules and clock settings.
type ArenaConfig struct {
	MinX        int     `yaml:"min_x"`
	MaxX        int     `yaml:"max_x"`
	TickRate    int     `yaml:"tick_rate"`    // steps per second for real-time front-ends
	DT          float64 `yaml:"dt"`           // simulated seconds per step
	WrapEnemies bool    `yaml:"wrap_enemies"` // re-enter bosses that drift off the left edge
}

// Runtime returns the clock settings for a fight.
func (a ArenaConfig) Runtime() core.RuntimeConfig {
	return core.RuntimeConfig{TickRate: a.TickRate, DT: a.DT}
}

// Roster maps boss ids to their spawn settings.
type Roster map[string]BossConfig

// BossConfig describes how a boss spawns.
type BossConfig struct {
	StartPos []int `yaml:"start_pos"`
	Health   *int  `yaml:"health"`
	// AttackDamage is accepted for compatibility with older rosters.
	// Each species has a fixed damage value that overrides it.
	AttackDamage int `yaml:"attack_damage,omitempty"`
}

// Position returns the spawn position, falling back to DefaultBossPosition.
func (b BossConfig) Position() core.Point {
	return core.PointFromSlice(b.StartPos, DefaultBossPosition)
}

// HP returns the starting health, falling back to DefaultBossHealth.
func (b BossConfig) HP() int {
	if b.Health == nil {
		return DefaultBossHealth
	}
	return *b.Health
}

// Lookup returns the settings for id and whether the roster has it.
func (r Roster) Lookup(id string) (BossConfig, bool) {
	b, ok := r[id]
	return b, ok
}

// normalize fills zero arena values with defaults.
func (c *Config) normalize() {
	def := Default().Arena
	// an all-zero arena block, from Config literals or a zeroing decode
	if c.Arena == (ArenaConfig{}) {
		c.Arena = def
	}
	if c.Arena.MaxX <= c.Arena.MinX {
		c.Arena.MinX = def.MinX
		c.Arena.MaxX = def.MaxX
	}
	if c.Arena.TickRate <= 0 {
		c.Arena.TickRate = def.TickRate
	}
	if c.Arena.DT <= 0 {
		c.Arena.DT = def.DT
	}
	if c.Bosses == nil {
		c.Bosses = Roster{}
	}
}
