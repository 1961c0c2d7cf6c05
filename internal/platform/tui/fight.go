package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/boss-rush/internal/arena"
	"github.com/vovakirdan/boss-rush/internal/core"
	"github.com/vovakirdan/boss-rush/internal/engine"
	"github.com/vovakirdan/boss-rush/internal/storage"
)

const maxLogLines = 6

// FightModel is the Bubble Tea model for a running boss fight.
type FightModel struct {
	arena    *arena.Arena
	knight   string
	bossID   string
	interval time.Duration
	keys     FightKeyMap
	help     help.Model
	screen   *core.Screen

	snap      engine.Snapshot
	log       []string
	playerMax int
	enemyMax  int
	err       error

	width      int
	height     int
	quitting   bool
	backToMenu bool
}

// NewFightModel starts a fight between knight and bossID on a.
func NewFightModel(a *arena.Arena, knight, bossID string) (FightModel, error) {
	m := FightModel{
		arena:    a,
		knight:   knight,
		bossID:   bossID,
		interval: a.Settings().Runtime().Interval(),
		keys:     DefaultFightKeyMap(),
		help:     help.New(),
		screen:   core.NewScreen(fieldWidth, fieldHeight),
	}
	if err := m.start(); err != nil {
		return FightModel{}, err
	}
	return m, nil
}

// start (re)starts the fight and resets the view state.
func (m *FightModel) start() error {
	if err := m.arena.StartBoss(m.knight, m.bossID); err != nil {
		return err
	}
	m.arena.Events().Drain()
	m.snap = m.arena.Peek()
	m.log = nil
	m.playerMax = max(m.snap.Player.Health, 100)
	m.enemyMax = 1
	if m.snap.Enemy != nil {
		m.enemyMax = max(m.snap.Enemy.Health, 1)
	}
	return nil
}

// Init starts the tick loop.
func (m FightModel) Init() tea.Cmd {
	return tickCmd(m.interval)
}

// Update handles messages.
func (m FightModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		m.arena.Tick()
		m.refresh()
		return m, tickCmd(m.interval)
	}
	return m, nil
}

// handleKey processes keyboard input. Each action key steps the fight once.
func (m FightModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.backToMenu = true
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		if err := m.start(); err != nil {
			m.err = err
		}
		return m, nil
	}

	if action, ok := m.keys.Action(msg); ok {
		m.arena.Act(action.String())
		m.refresh()
	}
	return m, nil
}

// refresh pulls the latest snapshot and combat events.
func (m *FightModel) refresh() {
	m.snap = m.arena.Peek()

	enemy := "boss"
	if m.snap.Enemy != nil {
		enemy = m.snap.Enemy.Name
	}
	for _, evt := range m.arena.Events().Drain() {
		m.log = append(m.log, eventLine(evt, enemy))
	}
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

// View renders the fight.
func (m FightModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("%s vs %s", m.snap.Player.Name, strings.ToUpper(m.bossID))
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%-8s %s %3d  ST %3.0f  Gold %d\n",
		m.snap.Player.Name,
		healthBar(m.snap.Player.Health, m.playerMax, lipgloss.Color("14")),
		m.snap.Player.Health,
		m.snap.Player.Stamina,
		m.snap.Player.Gold,
	))
	if e := m.snap.Enemy; e != nil {
		b.WriteString(fmt.Sprintf("%-8s %s %3d\n",
			e.Name,
			healthBar(e.Health, m.enemyMax, lipgloss.Color("9")),
			e.Health,
		))
	}
	b.WriteString("\n")

	drawArena(m.screen, m.snap, m.arena.Settings())
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")

	if banner := m.banner(); banner != "" {
		b.WriteString("\n")
		b.WriteString(banner)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(frameStyle.Render(m.logView()))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m FightModel) banner() string {
	switch m.arena.Outcome() {
	case storage.OutcomeVictory:
		return victoryStyle.Render("VICTORY") + "  r: fight again  esc: choose another boss"
	case storage.OutcomeDefeat:
		return defeatStyle.Render("DEFEAT") + "  r: try again  esc: choose another boss"
	}
	return ""
}

func (m FightModel) logView() string {
	lines := make([]string, maxLogLines)
	copy(lines[maxLogLines-min(len(m.log), maxLogLines):], m.log)
	for i, l := range lines {
		if l == "" {
			lines[i] = strings.Repeat(" ", 32)
		}
	}
	return strings.Join(lines, "\n")
}

// Snapshot returns the last snapshot shown.
func (m FightModel) Snapshot() engine.Snapshot {
	return m.snap
}

// Log returns the visible combat log lines.
func (m FightModel) Log() []string {
	return m.log
}

// IsQuitting returns true if user requested to quit entirely.
func (m FightModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the boss picker.
func (m FightModel) BackToMenu() bool {
	return m.backToMenu
}
