package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color represents a foreground color for a canvas cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Palette used by targets.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
)

// colorStyles maps Color to lipgloss styles.
var colorStyles = map[Color]lipgloss.Style{
	ColorDefault: lipgloss.NewStyle(),
	ColorRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	ColorGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	ColorYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	ColorBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	ColorMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	ColorCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	ColorWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	ColorOrange:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	ColorGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// Style returns the lipgloss style of a color.
func Style(c Color) lipgloss.Style {
	if s, ok := colorStyles[c]; ok {
		return s
	}
	return colorStyles[ColorDefault]
}

// Render converts a canvas to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func Render(c *Canvas) string {
	var sb strings.Builder
	sb.Grow(c.Width()*c.Height()*2 + c.Height())

	for y := range c.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < c.Width() {
			start := c.Get(x, y).Color

			var run strings.Builder
			for x < c.Width() {
				cell := c.Get(x, y)
				if cell.Color != start {
					break
				}
				if cell.Rune != 0 {
					run.WriteRune(cell.Rune)
				}
				x++
			}

			if start == ColorDefault {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(Style(start).Render(run.String()))
		}
	}
	return sb.String()
}
