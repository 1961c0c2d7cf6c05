package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/boss-rush/internal/arena"
	"github.com/vovakirdan/boss-rush/internal/profile"
)

type view int

const (
	viewPicker view = iota
	viewFight
	viewHistory
)

// SessionOptions configures a terminal session.
type SessionOptions struct {
	Arena    *arena.Arena
	Profiles *profile.Service
	History  FightHistory
	Knight   string
	// Boss, when set, skips the picker and starts this fight right away.
	Boss   string
	Width  int
	Height int
}

// SessionModel manages the full flow: picker -> fight -> picker, with the
// fight history one key away from the picker.
type SessionModel struct {
	opts     SessionOptions
	view     view
	picker   PickerModel
	fight    *FightModel
	history  *HistoryModel
	err      error
	quitting bool

	// tickPending is set while a TickMsg is scheduled, so re-entering a fight
	// does not start a second tick chain.
	tickPending bool
}

// NewSessionModel creates a session for opts.Knight. The knight must exist.
func NewSessionModel(opts SessionOptions) (SessionModel, error) {
	if opts.Arena == nil || opts.Profiles == nil {
		return SessionModel{}, errors.New("tui: session needs an arena and a profile service")
	}
	m := SessionModel{opts: opts}
	if err := m.openPicker(); err != nil {
		return SessionModel{}, err
	}
	if opts.Boss != "" {
		fight, err := NewFightModel(opts.Arena, opts.Knight, opts.Boss)
		if err != nil {
			return SessionModel{}, err
		}
		m.fight = &fight
		m.view = viewFight
		m.tickPending = true
	}
	return m, nil
}

// EnsureKnight loads the named profile, creating it on first use.
func EnsureKnight(profiles *profile.Service, name string) (profile.Record, error) {
	rec, err := profiles.Read(name)
	if errors.Is(err, profile.ErrNotFound) {
		return profiles.Create(name)
	}
	return rec, err
}

func (m *SessionModel) openPicker() error {
	rec, err := m.opts.Profiles.Read(m.opts.Knight)
	if err != nil {
		return fmt.Errorf("tui: load knight: %w", err)
	}
	m.picker = NewPickerModel(m.opts.Arena.Bosses(), rec.Name, rec.Progress.Defeated, m.opts.Width, m.opts.Height)
	m.view = viewPicker
	m.fight = nil
	m.history = nil
	return nil
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.view == viewFight && m.fight != nil {
		return m.fight.Init()
	}
	return m.picker.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Width = wsm.Width
		m.opts.Height = wsm.Height
	}

	switch m.view {
	case viewFight:
		return m.updateFight(msg)
	case viewHistory:
		return m.updateHistory(msg)
	default:
		return m.updatePicker(msg)
	}
}

func (m SessionModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok {
		// stale tick from a fight that was left
		m.tickPending = false
		return m, nil
	}

	next, cmd := m.picker.Update(msg)
	if picker, ok := next.(PickerModel); ok {
		m.picker = picker
	}

	if m.picker.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.picker.WantsHistory() {
		history := NewHistoryModel(m.opts.History, m.opts.Knight, m.opts.Width, m.opts.Height)
		m.history = &history
		m.view = viewHistory
		return m, m.history.Init()
	}

	if selected := m.picker.Selected(); selected != nil {
		fight, err := NewFightModel(m.opts.Arena, m.opts.Knight, selected.ID)
		if err != nil {
			m.err = err
			m.picker.selected = nil
			return m, nil
		}
		m.err = nil
		m.fight = &fight
		m.view = viewFight
		if m.tickPending {
			return m, nil
		}
		m.tickPending = true
		return m, m.fight.Init()
	}

	return m, cmd
}

func (m SessionModel) updateFight(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.fight.Update(msg)
	if fight, ok := next.(FightModel); ok {
		m.fight = &fight
	}

	if m.fight.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.fight.BackToMenu() {
		if err := m.openPicker(); err != nil {
			m.err = err
		}
		return m, nil
	}

	return m, cmd
}

func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok {
		m.tickPending = false
		return m, nil
	}

	next, cmd := m.history.Update(msg)
	if history, ok := next.(HistoryModel); ok {
		m.history = &history
	}

	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.history.IsGoingBack() {
		if err := m.openPicker(); err != nil {
			m.err = err
		}
		return m, nil
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	var out string
	switch m.view {
	case viewFight:
		out = m.fight.View()
	case viewHistory:
		out = m.history.View()
	default:
		out = m.picker.View()
	}
	if m.err != nil {
		out += "\n" + errorStyle.Render("Error: "+m.err.Error())
	}
	return out
}

// Run starts a local Bubble Tea program for the session.
func Run(opts SessionOptions) error {
	model, err := NewSessionModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
