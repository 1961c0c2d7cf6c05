package core

import "strings"

// Action is a player intent fed into the simulation as a plain string.
// Anything outside the known set is accepted and ignored by the engine.
type Action string

const (
	ActionMoveLeft  Action = "move_left"
	ActionMoveRight Action = "move_right"
	ActionAttack    Action = "attack"
	ActionJump      Action = "jump" // visual only
	ActionDash      Action = "dash" // visual only
)

// Actions lists the recognized actions in display order.
func Actions() []Action {
	return []Action{ActionMoveLeft, ActionMoveRight, ActionAttack, ActionJump, ActionDash}
}

// Known reports whether a is part of the action vocabulary.
func (a Action) Known() bool {
	switch a {
	case ActionMoveLeft, ActionMoveRight, ActionAttack, ActionJump, ActionDash:
		return true
	}
	return false
}

// String returns the wire form of the action.
func (a Action) String() string {
	return string(a)
}

// NormalizeAction trims surrounding whitespace from raw client input.
// The engine matches actions exactly, so transports call this before enqueueing.
func NormalizeAction(raw string) Action {
	return Action(strings.TrimSpace(raw))
}
