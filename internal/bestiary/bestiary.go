// Package bestiary builds boss enemies from roster configuration.
// Species register themselves in init(), so the set of supported boss ids
// is fixed at compile time while their spawn settings come from config.
package bestiary

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/boss-rush/internal/combat"
	"github.com/vovakirdan/boss-rush/internal/config"
	"github.com/vovakirdan/boss-rush/internal/core"
)

// ErrUnknownBoss is returned when a boss id is not in the roster or has no species.
var ErrUnknownBoss = errors.New("unknown boss")

// Spawn is a species constructor. Damage is fixed by the species.
type Spawn func(health int, pos core.Point) combat.Combatant

// Species describes a registered boss kind.
type Species struct {
	ID     string
	Title  string
	Damage int
	spawn  Spawn
}

var (
	species = make(map[string]Species)
	mu      sync.RWMutex
)

// Register adds a species. Panics if the id is already registered.
func Register(id, title string, damage int, spawn Spawn) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := species[id]; exists {
		panic(fmt.Sprintf("bestiary: species %q already registered", id))
	}
	species[id] = Species{ID: id, Title: title, Damage: damage, spawn: spawn}
}

// List returns all registered species, sorted by id.
func List() []Species {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Species, 0, len(species))
	for _, s := range species {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Exists reports whether a species is registered for id.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := species[id]
	return ok
}

// CreateEnemy builds the boss for bossID using its roster entry.
// The roster supplies position and health; damage always comes from the species.
func CreateEnemy(bossID string, roster config.Roster) (combat.Combatant, error) {
	cfg, ok := roster.Lookup(bossID)
	if !ok {
		return nil, fmt.Errorf("bestiary: %w: %q", ErrUnknownBoss, bossID)
	}

	mu.RLock()
	s, ok := species[bossID]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("bestiary: %w: %q has no species", ErrUnknownBoss, bossID)
	}

	return s.spawn(cfg.HP(), cfg.Position()), nil
}

func init() {
	Register("dragon", "Dragon", combat.DragonDamage, func(hp int, pos core.Point) combat.Combatant {
		return combat.NewDragon(hp, pos)
	})
	Register("goblin", "Goblin", combat.GoblinDamage, func(hp int, pos core.Point) combat.Combatant {
		return combat.NewGoblin(hp, pos)
	})
	Register("ogre", "Ogre", combat.OgreDamage, func(hp int, pos core.Point) combat.Combatant {
		return combat.NewOgre(hp, pos)
	})
}
