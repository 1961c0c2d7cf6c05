package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/boss-rush/internal/arena"
)

// PickerModel is the Bubble Tea model for choosing a boss.
type PickerModel struct {
	bosses   []arena.BossInfo
	defeated map[string]bool
	knight   string
	cursor   int
	keys     PickerKeyMap
	help     help.Model
	width    int
	height   int

	quitting    bool
	selected    *arena.BossInfo
	wantHistory bool
}

// NewPickerModel lists bosses for knight, marking those already defeated.
func NewPickerModel(bosses []arena.BossInfo, knight string, defeated []string, width, height int) PickerModel {
	beaten := make(map[string]bool, len(defeated))
	for _, id := range defeated {
		beaten[id] = true
	}
	return PickerModel{
		bosses:   bosses,
		defeated: beaten,
		knight:   knight,
		keys:     DefaultPickerKeyMap(),
		help:     help.New(),
		width:    width,
		height:   height,
	}
}

// Init initializes the picker.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m PickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.bosses)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.bosses) > 0 {
			selected := m.bosses[m.cursor]
			m.selected = &selected
		}

	case key.Matches(msg, m.keys.History):
		m.wantHistory = true
	}
	return m, nil
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  B O S S   R U S H  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Sir %s, choose your foe", m.knight), m.width))
	b.WriteString("\n\n")

	if len(m.bosses) == 0 {
		b.WriteString(centerText(helpStyle.Render("No bosses in the roster."), m.width))
		b.WriteString("\n")
	}

	for i, boss := range m.bosses {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		mark := " "
		if m.defeated[boss.ID] {
			mark = "✓"
		}
		line := fmt.Sprintf("%s%s %-8s HP %3d  DMG %2d", cursor, mark, boss.Title, boss.Health, boss.Damage)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(helpStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen boss, or nil if none selected.
func (m PickerModel) Selected() *arena.BossInfo {
	return m.selected
}

// WantsHistory returns true if user asked for the fight history.
func (m PickerModel) WantsHistory() bool {
	return m.wantHistory
}

// IsQuitting returns true if user requested to quit.
func (m PickerModel) IsQuitting() bool {
	return m.quitting
}
