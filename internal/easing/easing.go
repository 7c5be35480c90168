// Package easing provides the timing functions used to shape animation
// progress: linear, cubic Bézier curves, step functions and a set of named
// tweens. Every function is an immutable value; presets compare equal to the
// result of parsing their own name.
package easing

import (
	"fmt"
	"math"
	"strconv"
)

// Func maps directed progress to eased progress.
type Func interface {
	// Eval returns the eased value for t. Inputs outside [0,1] are
	// extrapolated by curves that support it.
	Eval(t float64) float64

	// String returns the canonical textual form accepted by Parse.
	String() string
}

// Linear is the identity timing function.
type Linear struct{}

// Eval returns t unchanged.
func (Linear) Eval(t float64) float64 { return t }

func (Linear) String() string { return "linear" }

// StepPosition selects where within each interval a step jumps.
type StepPosition int

const (
	PositionEnd StepPosition = iota
	PositionMiddle
	PositionStart
)

// offset returns the fraction of a step the input is shifted by.
func (p StepPosition) offset() float64 {
	switch p {
	case PositionStart:
		return 1
	case PositionMiddle:
		return 0.5
	default:
		return 0
	}
}

func (p StepPosition) String() string {
	switch p {
	case PositionStart:
		return "start"
	case PositionMiddle:
		return "middle"
	default:
		return "end"
	}
}

// Steps divides progress into Count equal jumps.
type Steps struct {
	Count    int
	Position StepPosition
	name     string
}

// NewSteps returns a step function. Count below one is raised to one.
func NewSteps(count int, pos StepPosition) Steps {
	if count < 1 {
		count = 1
	}
	return Steps{Count: count, Position: pos}
}

// Eval returns the floor-aligned step value for t.
func (s Steps) Eval(t float64) float64 {
	if t >= 1 {
		return 1
	}
	size := 1 / float64(s.Count)
	t += s.Position.offset() * size
	return t - math.Mod(t, size)
}

func (s Steps) String() string {
	if s.name != "" {
		return s.name
	}
	if s.Position == PositionEnd {
		return fmt.Sprintf("steps(%d)", s.Count)
	}
	return fmt.Sprintf("steps(%d, %s)", s.Count, s.Position)
}

// CubicBezier is a CSS-style cubic Bézier curve through (0,0) and (1,1)
// with control points (X1,Y1) and (X2,Y2).
type CubicBezier struct {
	X1, Y1, X2, Y2 float64
	name           string
}

const (
	bezierTolerance = 0.00001
	bezierMaxSteps  = 64
)

// NewCubicBezier returns the curve for the given control points. Control
// points with an X outside [0,1] do not describe a function of time, so
// Linear is returned instead.
func NewCubicBezier(x1, y1, x2, y2 float64) Func {
	if x1 < 0 || x1 > 1 || x2 < 0 || x2 > 1 {
		return Linear{}
	}
	return CubicBezier{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Eval solves the curve for x == t by bisection and returns its y.
// Outside (0,1) the curve is extended along its endpoint tangent.
func (c CubicBezier) Eval(t float64) float64 {
	if t <= 0 {
		gradient := 0.0
		if c.X1 > 0 {
			gradient = c.Y1 / c.X1
		} else if c.Y1 == 0 && c.X2 > 0 {
			gradient = c.Y2 / c.X2
		}
		return gradient * t
	}
	if t >= 1 {
		gradient := 0.0
		if c.X2 < 1 {
			gradient = (c.Y2 - 1) / (c.X2 - 1)
		} else if c.X2 == 1 && c.X1 < 1 {
			gradient = (c.Y1 - 1) / (c.X1 - 1)
		}
		return 1 + gradient*(t-1)
	}

	lo, hi := 0.0, 1.0
	mid := 0.5
	for range bezierMaxSteps {
		mid = (lo + hi) / 2
		x := bezierComponent(c.X1, c.X2, mid)
		if math.Abs(t-x) < bezierTolerance {
			break
		}
		if x < t {
			lo = mid
		} else {
			hi = mid
		}
	}
	return bezierComponent(c.Y1, c.Y2, mid)
}

func (c CubicBezier) String() string {
	if c.name != "" {
		return c.name
	}
	return fmt.Sprintf("cubic-bezier(%s, %s, %s, %s)",
		formatFloat(c.X1), formatFloat(c.Y1), formatFloat(c.X2), formatFloat(c.Y2))
}

// bezierComponent evaluates one axis of the curve at parameter m.
func bezierComponent(p1, p2, m float64) float64 {
	return 3*p1*(1-m)*(1-m)*m + 3*p2*(1-m)*m*m + m*m*m
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Presets defined by CSS.
var (
	Ease       Func = CubicBezier{X1: 0.25, Y1: 0.1, X2: 0.25, Y2: 1, name: "ease"}
	EaseIn     Func = CubicBezier{X1: 0.42, Y1: 0, X2: 1, Y2: 1, name: "ease-in"}
	EaseOut    Func = CubicBezier{X1: 0, Y1: 0, X2: 0.58, Y2: 1, name: "ease-out"}
	EaseInOut  Func = CubicBezier{X1: 0.42, Y1: 0, X2: 0.58, Y2: 1, name: "ease-in-out"}
	StepStart  Func = Steps{Count: 1, Position: PositionStart, name: "step-start"}
	StepMiddle Func = Steps{Count: 1, Position: PositionMiddle, name: "step-middle"}
	StepEnd    Func = Steps{Count: 1, Position: PositionEnd, name: "step-end"}
)

var presets = map[string]Func{
	"linear":      Linear{},
	"ease":        Ease,
	"ease-in":     EaseIn,
	"ease-out":    EaseOut,
	"ease-in-out": EaseInOut,
	"step-start":  StepStart,
	"step-middle": StepMiddle,
	"step-end":    StepEnd,
}
