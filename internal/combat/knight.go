package combat

import "github.com/vovakirdan/boss-rush/internal/core"

// Knight defaults, used when a profile does not provide a value.
const (
	DefaultKnightHealth  = 100
	DefaultKnightStamina = 100.0
	DefaultSkin          = "default"

	MaxStamina         = 100.0
	StaminaRegenPerSec = 10.0

	slashOffset = 20
	slashWidth  = 20
	slashHeight = 10
	slashDamage = 10
)

// DefaultKnightPosition is where a fresh knight stands.
var DefaultKnightPosition = core.Pt(50, 50)

// KnightState is the persisted shape of a knight, used to rehydrate one from
// a profile and to read one back.
type KnightState struct {
	Name     string
	Health   int
	Stamina  float64
	Position core.Point
	Gold     int
	Skin     string
}

// DefaultKnightState returns the state of a brand new knight.
func DefaultKnightState(name string) KnightState {
	return KnightState{
		Name:     name,
		Health:   DefaultKnightHealth,
		Stamina:  DefaultKnightStamina,
		Position: DefaultKnightPosition,
		Skin:     DefaultSkin,
	}
}

// Knight is the player-controlled combatant.
type Knight struct {
	name    string
	health  int
	stamina float64
	pos     core.Point
	gold    int
	skin    string
}

var _ Combatant = (*Knight)(nil)

// NewKnight creates a knight with default stats.
func NewKnight(name string) *Knight {
	return KnightFromState(DefaultKnightState(name))
}

// KnightFromState rehydrates a knight, clamping values that would break
// its invariants.
func KnightFromState(s KnightState) *Knight {
	k := &Knight{
		name:    s.Name,
		health:  max(0, s.Health),
		stamina: core.ClampF(s.Stamina, 0, MaxStamina),
		pos:     s.Position,
		skin:    s.Skin,
	}
	if k.skin == "" {
		k.skin = DefaultSkin
	}
	k.SetGold(s.Gold)
	return k
}

// State returns a copy of the knight's persisted fields.
func (k *Knight) State() KnightState {
	return KnightState{
		Name:     k.name,
		Health:   k.health,
		Stamina:  k.stamina,
		Position: k.pos,
		Gold:     k.gold,
		Skin:     k.skin,
	}
}

// Name returns the knight's profile name.
func (k *Knight) Name() string { return k.name }

// Health returns current health points.
func (k *Knight) Health() int { return k.health }

// Stamina returns the stamina pool, always within [0, MaxStamina].
func (k *Knight) Stamina() float64 { return k.stamina }

// Position returns the knight's position.
func (k *Knight) Position() core.Point { return k.pos }

// Gold returns the knight's purse.
func (k *Knight) Gold() int { return k.gold }

// Skin returns the cosmetic skin identifier.
func (k *Knight) Skin() string { return k.skin }

// SetGold sets the purse, clamping negative values to zero.
func (k *Knight) SetGold(v int) {
	k.gold = max(0, v)
}

// SetPosition places the knight.
func (k *Knight) SetPosition(p core.Point) {
	k.pos = p
}

// Move shifts the knight horizontally by dx.
func (k *Knight) Move(dx int) {
	k.pos = k.pos.Add(dx, 0)
}

// Update regenerates stamina. Movement is driven by actions, not by Update.
func (k *Knight) Update(dt float64) {
	k.stamina = core.ClampF(k.stamina+StaminaRegenPerSec*dt, 0, MaxStamina)
}

// Attack returns the sword slash just ahead of the knight.
func (k *Knight) Attack() Hitbox {
	return Hitbox{
		X:      k.pos.X + slashOffset,
		Y:      k.pos.Y,
		W:      slashWidth,
		H:      slashHeight,
		Damage: slashDamage,
	}
}

// TakeDamage reduces health by a non-negative amount.
func (k *Knight) TakeDamage(amount int) {
	k.health = applyDamage(k.health, amount)
}

// IsAlive reports whether the knight still stands.
func (k *Knight) IsAlive() bool {
	return k.health > 0
}
