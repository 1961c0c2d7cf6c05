package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/boss-rush/internal/storage"
)

const maxHistory = 100

// FightHistory loads past fights. *storage.Store satisfies it.
type FightHistory interface {
	KnightFights(name string, limit int) ([]storage.FightRecord, error)
}

// HistoryModel is the Bubble Tea model for a knight's fight history.
type HistoryModel struct {
	knight    string
	fights    []storage.FightRecord
	err       error
	table     table.Model
	help      help.Model
	keys      HistoryKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewHistoryModel loads the fight history for knight. A nil source shows an empty table.
func NewHistoryModel(source FightHistory, knight string, width, height int) HistoryModel {
	m := HistoryModel{
		knight: knight,
		keys:   DefaultHistoryKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	if source != nil {
		m.fights, m.err = source.KnightFights(knight, maxHistory)
	}
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// createTable creates the table sized to the window.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 14},
		{Title: "Boss", Width: 10},
		{Title: "Outcome", Width: 9},
		{Title: "Frames", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 5)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(lipgloss.Color("238")).
		BorderBottom(true).
		Foreground(lipgloss.Color("229"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("88"))
	t.SetStyles(s)

	return t
}

func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.fights))
	for i, f := range m.fights {
		rows[i] = table.Row{
			f.CreatedAt.Format("Jan 02 15:04"),
			f.BossID,
			f.Outcome,
			fmt.Sprintf("%d", f.Frames),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history view.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history table.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("FIGHT HISTORY - %s", m.knight)))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	case len(m.fights) == 0:
		empty := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(frameStyle.Render(empty.Render("No fights recorded yet.\nPick a boss and draw your sword!")))
	default:
		b.WriteString(frameStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Fights returns the loaded records.
func (m HistoryModel) Fights() []storage.FightRecord {
	return m.fights
}

// IsGoingBack returns true if user wants to go back to the picker.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}
