package combat

import "github.com/vovakirdan/boss-rush/internal/core"

// Base melee reach shared by every enemy.
const (
	meleeOffset = 10
	meleeWidth  = 20
	meleeHeight = 10
)

// Enemy is the base boss: it stands still and pokes just behind its position.
// Variants embed it and override movement and attack patterns.
type Enemy struct {
	name         string
	health       int
	pos          core.Point
	attackDamage int
}

var _ Combatant = (*Enemy)(nil)

// NewEnemy creates a base enemy.
func NewEnemy(name string, health int, pos core.Point, attackDamage int) *Enemy {
	return &Enemy{
		name:         name,
		health:       max(0, health),
		pos:          pos,
		attackDamage: attackDamage,
	}
}

// Name returns the enemy's display name.
func (e *Enemy) Name() string { return e.name }

// Health returns current health points.
func (e *Enemy) Health() int { return e.health }

// Position returns the enemy's position.
func (e *Enemy) Position() core.Point { return e.pos }

// SetPosition places the enemy.
func (e *Enemy) SetPosition(p core.Point) { e.pos = p }

// AttackDamage returns the configured damage of the base melee box.
func (e *Enemy) AttackDamage() int { return e.attackDamage }

// Update does nothing for the base enemy.
func (e *Enemy) Update(float64) {}

// Attack returns the default melee box around the enemy.
func (e *Enemy) Attack() Hitbox {
	return Hitbox{
		X:      e.pos.X - meleeOffset,
		Y:      e.pos.Y,
		W:      meleeWidth,
		H:      meleeHeight,
		Damage: e.attackDamage,
	}
}

// TakeDamage reduces health by a non-negative amount.
func (e *Enemy) TakeDamage(amount int) {
	e.health = applyDamage(e.health, amount)
}

// IsAlive reports whether the enemy still has health.
func (e *Enemy) IsAlive() bool {
	return e.health > 0
}

func (e *Enemy) drift(dx int) {
	e.pos = e.pos.Add(-dx, 0)
}
