package targets

import (
	"math"

	"github.com/vovakirdan/motion/internal/registry"
	"github.com/vovakirdan/motion/internal/render"
)

// Slide moves a marker along its row.
type Slide struct {
	state
}

// NewSlide creates a slide target.
func NewSlide() *Slide {
	return &Slide{}
}

func (s *Slide) Kind() string { return "slide" }
func (s *Slide) Title() string { return "Marker sliding along a track" }

// Position returns the marker column for a row of the given width.
func (s *Slide) Position(width int) int {
	if width <= 1 {
		return 0
	}
	return int(math.Round(unit(s.progress) * float64(width-1)))
}

// Draw renders the track and, while in effect, the marker.
func (s *Slide) Draw(dst *render.Canvas, x, y, width int) {
	if _, ok := s.Progress(); !ok {
		drawTrack(dst, x, y, width)
		return
	}
	dst.DrawHLine(x, y, width, '─', render.ColorGray)
	dst.Set(x+s.Position(width), y, '●', render.ColorCyan)
}

func init() {
	registry.Register("slide", func() registry.Target { return NewSlide() })
}
