package targets

import (
	"math"

	"github.com/vovakirdan/motion/internal/registry"
	"github.com/vovakirdan/motion/internal/render"
)

// eighths are the partial block glyphs, from 1/8 to 7/8 of a cell.
var eighths = []rune("▏▎▍▌▋▊▉")

// Bar fills its row from the left in proportion to progress.
type Bar struct {
	state
}

// NewBar creates a bar target.
func NewBar() *Bar {
	return &Bar{}
}

func (b *Bar) Kind() string { return "bar" }
func (b *Bar) Title() string { return "Progress bar filled left to right" }

// Draw renders the bar with sub-cell resolution.
func (b *Bar) Draw(dst *render.Canvas, x, y, width int) {
	drawTrack(dst, x, y, width)
	p, ok := b.Progress()
	if !ok {
		return
	}

	color := render.ColorGreen
	if p < 0 || p > 1 {
		color = render.ColorOrange
	}

	cells := unit(p) * float64(width)
	full := int(math.Floor(cells))
	dst.DrawHLine(x, y, full, '█', color)
	if part := int((cells - float64(full)) * 8); part > 0 && full < width {
		dst.Set(x+full, y, eighths[part-1], color)
	}
}

func init() {
	registry.Register("bar", func() registry.Target { return NewBar() })
}
