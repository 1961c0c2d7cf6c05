package combat

import (
	"math"

	"github.com/vovakirdan/boss-rush/internal/core"
)

// Goblin tuning.
const (
	GoblinDamage = 6
	goblinDrift  = 15
)

// Ogre tuning.
const (
	OgreDamage       = 12
	OgreSlamDamage   = 14
	OgreSlamCooldown = 2.5 // seconds of simulated time between slams
	ogreDrift        = 5
	slamOffsetX      = 30
	slamOffsetY      = 5
	slamWidth        = 60
	slamHeight       = 20
)

// Dragon tuning.
const (
	DragonDamage     = 8
	dragonDrift      = 20
	breathOffsetX    = 50
	breathOffsetY    = 5
	breathWidth      = 100
	breathWideHeight = 40
	breathThinHeight = 20
)

// Goblin retreats fast and pokes for small damage.
type Goblin struct {
	Enemy
}

// NewGoblin creates a goblin.
func NewGoblin(health int, pos core.Point) *Goblin {
	return &Goblin{Enemy: *NewEnemy("Goblin", health, pos, GoblinDamage)}
}

// Update shifts the goblin left every tick regardless of dt.
func (g *Goblin) Update(float64) {
	g.drift(goblinDrift)
}

// Attack uses the base melee box with goblin damage.
func (g *Goblin) Attack() Hitbox {
	hb := g.Enemy.Attack()
	hb.Damage = GoblinDamage
	return hb
}

// Ogre lumbers forward and slams a wide area when its cooldown allows.
type Ogre struct {
	Enemy
	slamCooldown float64
}

// NewOgre creates an ogre with its slam ready.
func NewOgre(health int, pos core.Point) *Ogre {
	return &Ogre{Enemy: *NewEnemy("Ogre", health, pos, OgreDamage)}
}

// SlamCooldown returns the seconds left before the next slam.
func (o *Ogre) SlamCooldown() float64 {
	return o.slamCooldown
}

// Update drifts the ogre and counts the slam cooldown down by dt.
func (o *Ogre) Update(dt float64) {
	o.drift(ogreDrift)
	o.slamCooldown = math.Max(0, o.slamCooldown-dt)
}

// Attack slams when ready and restarts the cooldown, otherwise falls back
// to the base melee box.
func (o *Ogre) Attack() Hitbox {
	if o.slamCooldown > 0 {
		return o.Enemy.Attack()
	}
	o.slamCooldown = OgreSlamCooldown
	return Hitbox{
		X:      o.pos.X - slamOffsetX,
		Y:      o.pos.Y - slamOffsetY,
		W:      slamWidth,
		H:      slamHeight,
		Damage: OgreSlamDamage,
	}
}

// Dragon drifts quickly and breathes fire whose height pulses every second.
type Dragon struct {
	Enemy
	breathPhase float64
}

// NewDragon creates a dragon.
func NewDragon(health int, pos core.Point) *Dragon {
	return &Dragon{Enemy: *NewEnemy("Dragon", health, pos, DragonDamage)}
}

// BreathPhase returns the accumulated simulated seconds driving the breath cadence.
func (d *Dragon) BreathPhase() float64 {
	return d.breathPhase
}

// Update drifts the dragon and accumulates breath phase.
func (d *Dragon) Update(dt float64) {
	d.drift(dragonDrift)
	d.breathPhase += dt
}

// Attack returns the fire breath. Even whole seconds of phase give the wide
// plume, odd ones the thin one.
func (d *Dragon) Attack() Hitbox {
	h := breathThinHeight
	if int(math.Floor(d.breathPhase))%2 == 0 {
		h = breathWideHeight
	}
	return Hitbox{
		X:      d.pos.X - breathOffsetX,
		Y:      d.pos.Y - breathOffsetY,
		W:      breathWidth,
		H:      h,
		Damage: DragonDamage,
	}
}
