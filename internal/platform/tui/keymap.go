package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/boss-rush/internal/core"
)

// FightKeyMap defines the key bindings during a fight.
type FightKeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Attack  key.Binding
	Jump    key.Binding
	Dash    key.Binding
	Restart key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k FightKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Attack, k.Jump, k.Dash, k.Restart, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k FightKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Attack},
		{k.Jump, k.Dash},
		{k.Restart, k.Back, k.Quit},
	}
}

// DefaultFightKeyMap returns the default fight bindings.
func DefaultFightKeyMap() FightKeyMap {
	return FightKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "right"),
		),
		Attack: key.NewBinding(
			key.WithKeys(" ", "j"),
			key.WithHelp("space/j", "attack"),
		),
		Jump: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/w", "jump"),
		),
		Dash: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "dash"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "bosses"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Action maps a key to the engine action it sends, if any.
func (k FightKeyMap) Action(msg tea.KeyMsg) (core.Action, bool) {
	switch {
	case key.Matches(msg, k.Left):
		return core.ActionMoveLeft, true
	case key.Matches(msg, k.Right):
		return core.ActionMoveRight, true
	case key.Matches(msg, k.Attack):
		return core.ActionAttack, true
	case key.Matches(msg, k.Jump):
		return core.ActionJump, true
	case key.Matches(msg, k.Dash):
		return core.ActionDash, true
	}
	return "", false
}

// PickerKeyMap defines the key bindings for the boss picker.
type PickerKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	History key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.History, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Select}, {k.History, k.Quit}}
}

// DefaultPickerKeyMap returns the default picker bindings.
func DefaultPickerKeyMap() PickerKeyMap {
	return PickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "fight"),
		),
		History: key.NewBinding(
			key.WithKeys("h", "tab"),
			key.WithHelp("h", "history"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryKeyMap defines the key bindings for the fight history table.
type HistoryKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Back, k.Quit}}
}

// DefaultHistoryKeyMap returns the default history bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
