// Package timing implements the effect timing model: a normalized timing
// configuration and the pure functions that turn a local time into a phase,
// an active time and an eased iteration progress.
//
// Times are float64 milliseconds. An unresolved local time is written as
// Unresolved (NaN); nullable results are returned as (value, ok) pairs.
package timing

import "math"

// Unresolved is the local time of an effect that is not associated with a
// running animation.
var Unresolved = math.NaN()

// IsUnresolved reports whether t is the unresolved time.
func IsUnresolved(t float64) bool { return math.IsNaN(t) }

// FillMode controls whether an effect produces a value outside its active
// interval.
type FillMode int

const (
	FillNone FillMode = iota
	FillForwards
	FillBackwards
	FillBoth
)

var fillNames = map[FillMode]string{
	FillNone:      "none",
	FillForwards:  "forwards",
	FillBackwards: "backwards",
	FillBoth:      "both",
}

func (f FillMode) String() string {
	if name, ok := fillNames[f]; ok {
		return name
	}
	return "none"
}

// ParseFill converts a fill keyword to a FillMode.
func ParseFill(s string) (FillMode, bool) {
	for mode, name := range fillNames {
		if name == s {
			return mode, true
		}
	}
	return FillNone, false
}

func (f FillMode) fillsBackwards() bool { return f == FillBackwards || f == FillBoth }

func (f FillMode) fillsForwards() bool { return f == FillForwards || f == FillBoth }

// Direction selects which way successive iterations play.
type Direction int

const (
	DirectionNormal Direction = iota
	DirectionReverse
	DirectionAlternate
	DirectionAlternateReverse
)

var directionNames = map[Direction]string{
	DirectionNormal:           "normal",
	DirectionReverse:          "reverse",
	DirectionAlternate:        "alternate",
	DirectionAlternateReverse: "alternate-reverse",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "normal"
}

// ParseDirection converts a direction keyword to a Direction.
func ParseDirection(s string) (Direction, bool) {
	for dir, name := range directionNames {
		if name == s {
			return dir, true
		}
	}
	return DirectionNormal, false
}

// Phase is the coarse region of an effect's timeline a local time falls in.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseBefore
	PhaseActive
	PhaseAfter
)

func (p Phase) String() string {
	switch p {
	case PhaseBefore:
		return "before"
	case PhaseActive:
		return "active"
	case PhaseAfter:
		return "after"
	default:
		return "none"
	}
}
