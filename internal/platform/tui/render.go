package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/boss-rush/internal/config"
	"github.com/vovakirdan/boss-rush/internal/core"
	"github.com/vovakirdan/boss-rush/internal/engine"
)

// Arena canvas layout.
const (
	fieldWidth  = 64
	fieldHeight = 7
	groundRow   = fieldHeight - 2
	fieldMargin = 20 // world units shown past each arena bound
	barWidth    = 20
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:     lipgloss.NewStyle(),
	core.ColorGray:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorRed:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorCyan:        lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	core.ColorOrange:      lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorBrightRed:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	core.ColorBrightWhite: lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	victoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")).Padding(0, 2)
	defeatStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")).Padding(0, 2)
	frameStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// enemyLook is the glyph and color of each boss on the canvas.
var enemyLook = map[string]core.Cell{
	"Goblin": {Rune: 'g', Color: core.ColorGreen},
	"Ogre":   {Rune: 'O', Color: core.ColorOrange},
	"Dragon": {Rune: 'D', Color: core.ColorBrightRed},
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells with the same color share one styled run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// column maps a world x coordinate onto the canvas, or -1 when off-field.
func column(x int, bounds config.ArenaConfig, width int) int {
	lo := bounds.MinX - fieldMargin
	hi := bounds.MaxX + fieldMargin
	if x < lo || x > hi || hi <= lo {
		return -1
	}
	inner := width - 2
	return 1 + (x-lo)*(inner-1)/(hi-lo)
}

// drawArena draws the field, its bounds, the knight and the boss.
func drawArena(s *core.Screen, snap engine.Snapshot, bounds config.ArenaConfig) {
	s.Clear()
	s.DrawBox(core.NewRect(0, 0, s.Width(), s.Height()), core.ColorGray)
	s.DrawHLine(1, groundRow, s.Width()-2, '▁', core.ColorGray)

	for _, edge := range []int{bounds.MinX, bounds.MaxX} {
		if col := column(edge, bounds, s.Width()); col >= 0 {
			s.Set(col, groundRow, '┃', core.ColorGray)
		}
	}

	if snap.Enemy != nil {
		look, ok := enemyLook[snap.Enemy.Name]
		if !ok {
			look = core.Cell{Rune: 'E', Color: core.ColorRed}
		}
		if !snap.Enemy.Alive {
			look = core.Cell{Rune: 'x', Color: core.ColorGray}
		}
		if col := column(snap.Enemy.Position[0], bounds, s.Width()); col >= 0 {
			s.Set(col, groundRow-1, look.Rune, look.Color)
		}
	}

	knight := core.Cell{Rune: 'K', Color: core.ColorCyan}
	if !snap.Player.Alive {
		knight = core.Cell{Rune: 'x', Color: core.ColorGray}
	}
	if col := column(snap.Player.Position[0], bounds, s.Width()); col >= 0 {
		s.Set(col, groundRow-1, knight.Rune, knight.Color)
	}

	s.DrawText(2, 1, fmt.Sprintf("frame %d", snap.Frame), core.ColorGray)
}

// healthBar renders a fixed-width bar for cur out of maxHP.
func healthBar(cur, maxHP int, color lipgloss.Color) string {
	if maxHP <= 0 {
		maxHP = 1
	}
	filled := core.Clamp(cur*barWidth/maxHP, 0, barWidth)
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	return "[" + bar + strings.Repeat("·", barWidth-filled) + "]"
}

// eventLine describes one combat event for the log.
func eventLine(evt engine.Event, enemy string) string {
	if evt.Type == engine.EventHit {
		return fmt.Sprintf("%5d  you hit %s for %d", evt.Frame, enemy, evt.Amount)
	}
	return fmt.Sprintf("%5d  %s hits you for %d", evt.Frame, enemy, evt.Amount)
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
