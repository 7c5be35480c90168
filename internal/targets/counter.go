package targets

import (
	"fmt"
	"math"

	"github.com/vovakirdan/motion/internal/registry"
	"github.com/vovakirdan/motion/internal/render"
)

// Counter shows progress as a percentage, overshoot included.
type Counter struct {
	state
}

// NewCounter creates a counter target.
func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) Kind() string { return "counter" }
func (c *Counter) Title() string { return "Numeric percentage readout" }

// Text returns the readout, "--" when cleared.
func (c *Counter) Text() string {
	p, ok := c.Progress()
	if !ok {
		return "--"
	}
	return fmt.Sprintf("%d%%", int(math.Round(p*100)))
}

// Draw writes the readout right-aligned in its row.
func (c *Counter) Draw(dst *render.Canvas, x, y, width int) {
	drawTrack(dst, x, y, width)
	text := c.Text()
	color := render.ColorYellow
	if _, ok := c.Progress(); !ok {
		color = render.ColorGray
	}
	dst.DrawText(x+max(width-len(text), 0), y, text, color)
}

func init() {
	registry.Register("counter", func() registry.Target { return NewCounter() })
}
