// Package profile manages named knight profiles: validation, defaults,
// CRUD on top of storage, and conversion to and from combat knights.
package profile

import (
	"errors"
	"regexp"

	"github.com/vovakirdan/boss-rush/internal/combat"
	"github.com/vovakirdan/boss-rush/internal/core"
	"github.com/vovakirdan/boss-rush/internal/storage"
)

// Errors returned by Service, checked with errors.Is.
var (
	ErrInvalidName = errors.New("invalid name: use 3-16 letters (A-Z/a-z)")
	ErrExists      = errors.New("a knight with that name already exists")
	ErrNotFound    = errors.New("knight not found")
)

var namePattern = regexp.MustCompile(`^[A-Za-z]{3,16}$`)

// ValidName reports whether name is 3 to 16 ASCII letters.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Progress tracks bosses a knight has beaten.
type Progress struct {
	Defeated []string `json:"defeated" yaml:"defeated"`
}

// Record is the wire and display form of a knight profile.
type Record struct {
	Name     string   `json:"name" yaml:"name"`
	Health   int      `json:"health" yaml:"health"`
	Stamina  float64  `json:"stamina" yaml:"stamina"`
	Position [2]int   `json:"position" yaml:"position"`
	Gold     int      `json:"gold" yaml:"gold"`
	Skin     string   `json:"skin" yaml:"skin"`
	Progress Progress `json:"progress" yaml:"progress"`
}

// NewRecord returns a profile with default stats. Decoding JSON into it
// leaves absent fields at their defaults.
func NewRecord(name string) Record {
	return FromKnight(combat.NewKnight(name), nil)
}

// Knight rehydrates the profile into a combatant.
func (r Record) Knight() *combat.Knight {
	return combat.KnightFromState(combat.KnightState{
		Name:     r.Name,
		Health:   r.Health,
		Stamina:  r.Stamina,
		Position: core.Pt(r.Position[0], r.Position[1]),
		Gold:     r.Gold,
		Skin:     r.Skin,
	})
}

// HasDefeated reports whether bossID is in the defeated list.
func (r Record) HasDefeated(bossID string) bool {
	for _, id := range r.Progress.Defeated {
		if id == bossID {
			return true
		}
	}
	return false
}

// FromKnight builds a profile from a knight's current state.
func FromKnight(k *combat.Knight, defeated []string) Record {
	s := k.State()
	if defeated == nil {
		defeated = []string{}
	}
	return Record{
		Name:     s.Name,
		Health:   s.Health,
		Stamina:  s.Stamina,
		Position: s.Position.Pair(),
		Gold:     s.Gold,
		Skin:     s.Skin,
		Progress: Progress{Defeated: defeated},
	}
}

// Patch carries a partial update. Nil fields are left unchanged.
type Patch struct {
	Health   *int      `json:"health,omitempty"`
	Stamina  *float64  `json:"stamina,omitempty"`
	Position *[2]int   `json:"position,omitempty"`
	Gold     *int      `json:"gold,omitempty"`
	Skin     *string   `json:"skin,omitempty"`
	Progress *Progress `json:"progress,omitempty"`
}

// Apply returns r with the patch applied and values clamped to the knight's
// invariants.
func (p Patch) Apply(r Record) Record {
	if p.Health != nil {
		r.Health = *p.Health
	}
	if p.Stamina != nil {
		r.Stamina = *p.Stamina
	}
	if p.Position != nil {
		r.Position = *p.Position
	}
	if p.Gold != nil {
		r.Gold = *p.Gold
	}
	if p.Skin != nil {
		r.Skin = *p.Skin
	}
	if p.Progress != nil {
		r.Progress = *p.Progress
	}
	return FromKnight(r.Knight(), r.Progress.Defeated)
}

func toStorage(r Record) storage.KnightRecord {
	return storage.KnightRecord{
		Name:     r.Name,
		Health:   r.Health,
		Stamina:  r.Stamina,
		X:        r.Position[0],
		Y:        r.Position[1],
		Gold:     r.Gold,
		Skin:     r.Skin,
		Defeated: r.Progress.Defeated,
	}
}

func fromStorage(k storage.KnightRecord) Record {
	defeated := k.Defeated
	if defeated == nil {
		defeated = []string{}
	}
	return Record{
		Name:     k.Name,
		Health:   k.Health,
		Stamina:  k.Stamina,
		Position: [2]int{k.X, k.Y},
		Gold:     k.Gold,
		Skin:     k.Skin,
		Progress: Progress{Defeated: defeated},
	}
}
