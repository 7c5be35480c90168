package targets

import (
	"math"

	"github.com/vovakirdan/motion/internal/registry"
	"github.com/vovakirdan/motion/internal/render"
)

var shades = []rune(" ░▒▓█")

// Pulse shades its whole row by progress.
type Pulse struct {
	state
}

// NewPulse creates a pulse target.
func NewPulse() *Pulse {
	return &Pulse{}
}

func (p *Pulse) Kind() string { return "pulse" }
func (p *Pulse) Title() string { return "Row shading with intensity" }

// Shade returns the glyph for the current progress.
func (p *Pulse) Shade() rune {
	i := int(math.Round(unit(p.progress) * float64(len(shades)-1)))
	return shades[i]
}

// Draw fills the row with the current shade.
func (p *Pulse) Draw(dst *render.Canvas, x, y, width int) {
	if _, ok := p.Progress(); !ok {
		drawTrack(dst, x, y, width)
		return
	}
	color := render.ColorBlue
	if p.progress >= 0.5 {
		color = render.ColorMagenta
	}
	dst.DrawHLine(x, y, width, p.Shade(), color)
}

func init() {
	registry.Register("pulse", func() registry.Target { return NewPulse() })
}
