package timing

import (
	"math"

	"github.com/vovakirdan/motion/internal/easing"
)

// Timing is a normalized effect timing configuration. It is a value: every
// change produces a new Timing with its derived active duration recomputed.
type Timing struct {
	delay          float64
	endDelay       float64
	fill           FillMode
	iterationStart float64
	iterations     float64
	duration       float64
	durationAuto   bool
	direction      Direction
	easing         easing.Func
	playbackRate   float64
	group          bool

	activeDuration float64
}

// Default returns the timing of a leaf effect with no input applied.
func Default() Timing {
	t := Timing{
		iterations:   1,
		easing:       easing.Linear{},
		playbackRate: 1,
	}
	return t.resolve()
}

// DefaultGroup returns the timing of a group effect with no input applied.
func DefaultGroup() Timing {
	t := Default()
	t.group = true
	t.fill = FillBoth
	t.durationAuto = true
	return t.resolve()
}

// resolve re-derives the active duration after a change.
func (t Timing) resolve() Timing {
	if t.easing == nil {
		t.easing = easing.Linear{}
	}
	if t.playbackRate == 0 {
		t.playbackRate = 1
	}
	t.activeDuration = math.Abs(repeatedDuration(t.duration, t.iterations) / t.playbackRate)
	return t
}

// repeatedDuration is duration × iterations, defined as zero when either is
// zero so that an infinite iteration count over a zero duration stays zero.
func repeatedDuration(duration, iterations float64) float64 {
	if duration == 0 || iterations == 0 {
		return 0
	}
	return duration * iterations
}

func (t Timing) Delay() float64 { return t.delay }
func (t Timing) EndDelay() float64 { return t.endDelay }
func (t Timing) Fill() FillMode { return t.fill }
func (t Timing) IterationStart() float64 { return t.iterationStart }
func (t Timing) Iterations() float64 { return t.iterations }
func (t Timing) Direction() Direction { return t.direction }
func (t Timing) IsGroup() bool { return t.group }

// Easing returns the timing function, Linear for a zero Timing.
func (t Timing) Easing() easing.Func {
	if t.easing == nil {
		return easing.Linear{}
	}
	return t.easing
}

// Duration returns the iteration duration; auto resolves to zero.
func (t Timing) Duration() float64 { return t.duration }

// DurationAuto reports whether the duration was given as "auto".
func (t Timing) DurationAuto() bool { return t.durationAuto }

// PlaybackRate is the effect-level rate scale. It is always 1 for leaf
// effects.
func (t Timing) PlaybackRate() float64 { return t.playbackRate }

// ActiveDuration is the length of the active interval.
func (t Timing) ActiveDuration() float64 { return t.activeDuration }

// TotalDuration is delay + active duration + end delay.
func (t Timing) TotalDuration() float64 {
	return t.delay + t.activeDuration + t.endDelay
}

// Phase classifies localTime against this timing.
func (t Timing) Phase(localTime float64) Phase {
	return CalculatePhase(t.activeDuration, localTime, t)
}

// ActiveTime returns the active time for localTime, or false when the fill
// mode gives the effect no value there.
func (t Timing) ActiveTime(localTime float64) (float64, bool) {
	phase := t.Phase(localTime)
	return CalculateActiveTime(t.activeDuration, t.fill, localTime, phase, t.delay)
}

// Progress returns the eased directed progress for localTime.
func (t Timing) Progress(localTime float64) (float64, bool) {
	return CalculateIterationProgress(t.activeDuration, localTime, t)
}

// Sample is every intermediate value of one progress calculation.
type Sample struct {
	LocalTime        float64
	Phase            Phase
	ActiveTime       float64
	InEffect         bool
	OverallProgress  float64
	SimpleProgress   float64
	CurrentIteration float64
	DirectedProgress float64
	Progress         float64
}

// Evaluate runs the progress calculation for localTime and keeps every
// intermediate result. Fields after ActiveTime are zero when InEffect is
// false.
func (t Timing) Evaluate(localTime float64) Sample {
	s := Sample{LocalTime: localTime}
	s.Phase = CalculatePhase(t.activeDuration, localTime, t)
	active, ok := CalculateActiveTime(t.activeDuration, t.fill, localTime, s.Phase, t.delay)
	if !ok {
		return s
	}
	s.ActiveTime = active
	s.InEffect = true
	s.OverallProgress = CalculateOverallProgress(t.duration, s.Phase, t.iterations, active, t.iterationStart)
	s.SimpleProgress = CalculateSimpleIterationProgress(s.OverallProgress, t.iterationStart, s.Phase, t.iterations, active, t.duration)
	s.CurrentIteration = CalculateCurrentIteration(s.Phase, t.iterations, s.SimpleProgress, s.OverallProgress)
	s.DirectedProgress = CalculateDirectedProgress(t.direction, s.CurrentIteration, s.SimpleProgress)
	s.Progress = t.Easing().Eval(s.DirectedProgress)
	return s
}
