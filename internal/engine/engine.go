// Package engine runs a single boss fight as a deterministic step function.
//
// The engine owns the frame counter, a bounded input buffer and the outbound
// event queue. Each Step consumes at most one buffered action, advances both
// combatants and resolves attacks. Win and loss are not modeled here; callers
// read aliveness from the Snapshot.
package engine

import (
	"reflect"

	"github.com/vovakirdan/boss-rush/internal/combat"
	"github.com/vovakirdan/boss-rush/internal/core"
)

// Step order, fixed:
//  1. frame++
//  2. apply at most one buffered action
//  3. player.Update(dt)
//  4. enemy.Update(dt), then the enemy's attack against the player

const (
	moveStep    = 10 // x units per move action
	defenderBox = 20 // side of the square hurtbox centered on a defender
)

// Engine is not safe for concurrent Step calls. EnqueueAction and the event
// queue may be used from other goroutines.
type Engine struct {
	frame  int
	input  InputBuffer
	events *EventQueue
	player *combat.Knight
	enemy  combat.Combatant
}

// New creates an engine with no active fight.
func New(player *combat.Knight) *Engine {
	if player == nil {
		player = combat.NewKnight("")
	}
	return &Engine{
		events: NewEventQueue(),
		player: player,
	}
}

// SetPlayer replaces the player. Frame and input are left untouched.
func (e *Engine) SetPlayer(k *combat.Knight) {
	if k != nil {
		e.player = k
	}
}

// Player returns the current player.
func (e *Engine) Player() *combat.Knight { return e.player }

// Enemy returns the current enemy, or nil when no fight is active.
func (e *Engine) Enemy() combat.Combatant { return e.enemy }

// Frame returns the number of steps since the fight started.
func (e *Engine) Frame() int { return e.frame }

// InFight reports whether an enemy is installed.
func (e *Engine) InFight() bool { return e.enemy != nil }

// Events returns the outbound event queue.
func (e *Engine) Events() *EventQueue { return e.events }

// PendingInput returns the buffered actions, oldest first.
func (e *Engine) PendingInput() []string { return e.input.Items() }

// EnqueueAction buffers an action for a later step. The oldest pending
// action is dropped when the buffer is full.
func (e *Engine) EnqueueAction(action string) {
	e.input.Push(action)
}

// StartBoss installs enemy as the opponent, resets the frame counter and
// discards buffered input. A nil enemy, including a typed nil pointer, is ignored.
func (e *Engine) StartBoss(enemy combat.Combatant) {
	if isNil(enemy) {
		return
	}
	e.enemy = enemy
	e.frame = 0
	e.input.Clear()
}

// Tick is Step with the default time delta.
func (e *Engine) Tick() {
	e.Step(core.DefaultDT)
}

// Step advances the simulation by dt seconds.
func (e *Engine) Step(dt float64) {
	e.frame++

	if action, ok := e.input.Pop(); ok {
		e.applyAction(core.Action(action))
	}

	e.player.Update(dt)

	if e.enemy != nil {
		e.enemy.Update(dt)
		e.resolveEnemyAttack()
	}
}

func (e *Engine) applyAction(action core.Action) {
	switch action {
	case core.ActionMoveLeft:
		e.player.Move(-moveStep)
	case core.ActionMoveRight:
		e.player.Move(moveStep)
	case core.ActionAttack:
		e.resolvePlayerAttack()
	case core.ActionJump, core.ActionDash:
		// Presentation only
	}
}

func (e *Engine) resolvePlayerAttack() {
	if e.enemy == nil {
		return
	}
	if dmg, ok := resolve(e.player, e.enemy); ok {
		e.events.Push(Event{Type: EventHit, Amount: dmg, Frame: e.frame})
	}
}

func (e *Engine) resolveEnemyAttack() {
	if dmg, ok := resolve(e.enemy, e.player); ok {
		e.events.Push(Event{Type: EventPlayerHit, Amount: dmg, Frame: e.frame})
	}
}

// resolve tests the attacker's hitbox against the defender's hurtbox and
// applies damage on overlap.
func resolve(attacker, defender combat.Combatant) (int, bool) {
	hb := attacker.Attack()
	if !hb.Rect().Intersects(Hurtbox(defender.Position())) {
		return 0, false
	}
	defender.TakeDamage(hb.Damage)
	return hb.Damage, true
}

// Hurtbox returns the box a combatant standing at p can be hit in.
func Hurtbox(p core.Point) core.Rect {
	return core.BoxAround(p, defenderBox)
}

func isNil(c combat.Combatant) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
