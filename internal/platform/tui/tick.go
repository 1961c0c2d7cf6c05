// Package tui provides the Bubble Tea front-end for boss fights: a boss
// picker, the fight view, fight history, and an SSH server that runs one
// session per connection.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to advance the fight by one step.
type TickMsg time.Time

// tickCmd schedules the next TickMsg after interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
