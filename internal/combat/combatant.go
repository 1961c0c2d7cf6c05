// Package combat defines the actors of a boss fight: the Combatant contract,
// the player-controlled Knight and the enemy variants.
package combat

import "github.com/vovakirdan/boss-rush/internal/core"

// Combatant is the capability set every simulated actor implements.
// The engine drives combatants only through this interface.
type Combatant interface {
	// Name returns the display name of the actor.
	Name() string

	// Health returns the current health, never negative.
	Health() int

	// Position returns the actor's position in arena coordinates.
	Position() core.Point

	// Update advances internal state by dt seconds of simulated time.
	Update(dt float64)

	// Attack returns a fresh hitbox describing the current melee reach.
	// Variants may mutate cooldown or phase state while doing so.
	Attack() Hitbox

	// TakeDamage subtracts max(0, amount) from health, flooring at zero.
	TakeDamage(amount int)

	// IsAlive reports whether health is above zero.
	IsAlive() bool
}

// Hitbox is the area and damage of a single attack. It is produced fresh by
// every Attack call and never stored.
type Hitbox struct {
	X, Y   int
	W, H   int
	Damage int
}

// Rect returns the hitbox area for overlap tests.
func (h Hitbox) Rect() core.Rect {
	return core.NewRect(h.X, h.Y, h.W, h.H)
}

// applyDamage returns health after taking amount, with negative amounts
// treated as zero and the result floored at zero.
func applyDamage(health, amount int) int {
	return max(0, health-max(0, amount))
}
