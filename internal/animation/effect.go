package animation

import "github.com/vovakirdan/motion/internal/timing"

// Target receives the eased progress of an effect. Implementations must be
// comparable, as timelines group animations by target; pointers are.
type Target interface {
	// Apply presents the effect at progress.
	Apply(progress float64)
	// Clear removes whatever Apply presented.
	Clear()
}

// Effect binds a timing to the target it drives and remembers the progress
// computed by the last update.
type Effect struct {
	target   Target
	timing   timing.Timing
	progress float64
	inEffect bool
}

// NewEffect returns an effect for target driven by t.
func NewEffect(target Target, t timing.Timing) *Effect {
	return &Effect{target: target, timing: t}
}

func (e *Effect) Target() Target { return e.target }

func (e *Effect) Timing() timing.Timing { return e.timing }

// TotalDuration is delay + active duration + end delay of the timing.
func (e *Effect) TotalDuration() float64 { return e.timing.TotalDuration() }

// Progress returns the progress computed by the last update, or false when
// the effect had no value.
func (e *Effect) Progress() (float64, bool) { return e.progress, e.inEffect }

// update evaluates the timing at localTime and reports whether the effect
// is in effect there.
func (e *Effect) update(localTime float64) bool {
	e.progress, e.inEffect = e.timing.Progress(localTime)
	return e.inEffect
}

// Apply pushes the last computed progress to the target, or clears the
// target when the effect has no value.
func (e *Effect) Apply() {
	if e.target == nil {
		return
	}
	if e.inEffect {
		e.target.Apply(e.progress)
		return
	}
	e.target.Clear()
}
