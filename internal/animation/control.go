package animation

import (
	"fmt"
	"math"

	"github.com/vovakirdan/motion/internal/timing"
)

// Play starts or resumes the animation. A finished or idle animation is
// rewound first; rewinding a reversed animation of infinite duration fails
// with ErrInvalidState.
func (a *Animation) Play() error {
	a.paused = false
	if a.isFinished() || a.idle {
		if err := a.rewind(); err != nil {
			return fmt.Errorf("play: %w", err)
		}
		a.startTime = timing.Unresolved
	}
	a.finishedFlag = false
	a.idle = false
	a.ensureAlive()
	a.sched.ApplyDirtied(a)
	return nil
}

// Pause holds the current time. A running animation pauses at the next
// frame; an idle one is rewound and paused at its start.
func (a *Animation) Pause() error {
	switch {
	case !a.isFinished() && !a.paused && !a.idle:
		a.currentTimePending = true
	case a.idle:
		if err := a.rewind(); err != nil {
			return fmt.Errorf("pause: %w", err)
		}
		a.idle = false
	}
	a.startTime = timing.Unresolved
	a.paused = true
	return nil
}

// Finish seeks to the end in the direction of play, or to the start when
// playing backwards.
func (a *Animation) Finish() {
	if a.idle {
		return
	}
	end := 0.0
	if a.playbackRate > 0 {
		end = a.totalDuration()
	}
	a.SetCurrentTime(end)

	if !a.paused {
		now := a.sched.CurrentTime()
		if a.playbackRate == 0 {
			a.startTime = now
		} else {
			a.startTime = now - a.currentTime/a.playbackRate
		}
	}
	a.currentTimePending = false
	a.sched.ApplyDirtied(a)
}

// Cancel returns the animation to idle and clears its effect. Finish events
// queued before the cancel are not delivered. Cancelling an animation that
// is not in effect does nothing.
func (a *Animation) Cancel() {
	if !a.inEffect {
		return
	}
	a.inEffect = false
	a.idle = true
	a.paused = false
	a.finishedFlag = true
	a.currentTime = 0
	a.startTime = timing.Unresolved
	a.effect.update(timing.Unresolved)
	a.cancelEpoch++
	a.logger.Debug("animation cancelled", "id", a.id)
	a.sched.ApplyDirtied(a)
}

// Reverse negates the playback rate and plays.
func (a *Animation) Reverse() error {
	a.SetPlaybackRate(-a.playbackRate)
	return a.Play()
}

// SetCurrentTime seeks to t. The seek is honoured exactly even past the
// finished boundary. Seeking an idle animation leaves it paused.
func (a *Animation) SetCurrentTime(t float64) {
	if math.IsNaN(t) {
		return
	}
	a.sched.Restart()
	if !a.paused && a.hasStartTime() && a.playbackRate != 0 {
		a.startTime = a.sched.CurrentTime() - t/a.playbackRate
	}
	a.currentTimePending = false
	if a.currentTime == t {
		return
	}
	if a.idle {
		a.idle = false
		a.paused = true
	}
	a.tickCurrentTime(t, true)
	a.sched.ApplyDirtied(a)
}

// SetStartTime sets the start time and recomputes the current time from
// it. It is ignored while paused or idle.
func (a *Animation) SetStartTime(t float64) {
	if math.IsNaN(t) || a.paused || a.idle {
		return
	}
	a.startTime = t
	a.tickCurrentTime((a.sched.CurrentTime()-a.startTime)*a.playbackRate, false)
	a.sched.ApplyDirtied(a)
}

// SetPlaybackRate changes the rate while keeping the current time, so the
// animation continues from where it is at the new speed.
func (a *Animation) SetPlaybackRate(rate float64) {
	if math.IsNaN(rate) || rate == a.playbackRate {
		return
	}
	old, ok := a.CurrentTime()
	a.playbackRate = rate
	a.startTime = timing.Unresolved
	if state := a.PlayState(); state != StatePaused && state != StateIdle {
		a.finishedFlag = false
		a.idle = false
		a.ensureAlive()
		a.sched.ApplyDirtied(a)
	}
	if ok {
		a.SetCurrentTime(old)
	}
}
