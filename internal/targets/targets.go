// Package targets implements the built-in animation targets. Each target
// records the eased progress the timeline applies and draws it as one row
// of a render.Canvas. Importing the package registers every target.
package targets

import (
	"math"

	"github.com/vovakirdan/motion/internal/render"
)

// state is the progress bookkeeping shared by all targets.
type state struct {
	progress float64
	active   bool
	applies  int
}

func (s *state) Apply(progress float64) {
	s.progress = progress
	s.active = true
	s.applies++
}

func (s *state) Clear() {
	s.active = false
}

func (s *state) Progress() (float64, bool) {
	return s.progress, s.active
}

// Applies returns how many times progress was applied.
func (s *state) Applies() int {
	return s.applies
}

// unit clamps progress to [0, 1]. Overshooting easings still draw inside
// the row.
func unit(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}

// drawTrack draws the row of an uneffected target.
func drawTrack(dst *render.Canvas, x, y, width int) {
	dst.DrawHLine(x, y, width, '·', render.ColorGray)
}
