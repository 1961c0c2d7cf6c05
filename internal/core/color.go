package core

// Color is a foreground color for a screen cell.
// The platform layer maps each value to an ANSI color.
type Color uint8

// Palette used by the arena view.
const (
	ColorDefault Color = iota
	ColorGray
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorOrange
	ColorBrightRed
	ColorBrightWhite
)
