// Package animation implements the playback controller: an Animation owns
// one Effect and turns timeline time into the effect's local time while
// running a play-state machine with seeking, pausing, reversal and finish
// notification.
package animation

import (
	"errors"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/motion/internal/timing"
)

// ErrInvalidState is returned when an operation has no well-defined outcome,
// such as rewinding a reversed animation of infinite duration.
var ErrInvalidState = errors.New("invalid animation state")

// PlayState is the user-visible status of an animation.
type PlayState int

const (
	StateIdle PlayState = iota
	StatePending
	StatePaused
	StateRunning
	StateFinished
)

func (s PlayState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	default:
		return "running"
	}
}

// Scheduler is the host an animation reports to. A timeline implements it.
type Scheduler interface {
	// CurrentTime is the time of the last tick.
	CurrentTime() float64
	// RegisterActive asks the scheduler to tick a again. Registering an
	// animation twice has no effect.
	RegisterActive(a *Animation)
	// ApplyDirtied re-evaluates a after a programmatic change. It does
	// nothing while the scheduler is ticking.
	ApplyDirtied(a *Animation)
	// Restart asks the scheduler to keep producing frames.
	Restart()
}

// Options configures a new Animation.
type Options struct {
	ID string
	// Sequence numbers the animation; nil uses a package-wide counter.
	Sequence *Sequence
	// Strict makes timing setters return ErrInvalidTiming instead of
	// ignoring the value.
	Strict bool
	Logger *log.Logger
}

var defaultSequence Sequence

// Animation is a playback controller. It is not safe for concurrent use;
// all calls are expected from the goroutine that ticks its scheduler.
type Animation struct {
	id     string
	seq    int64
	sched  Scheduler
	effect *Effect
	strict bool
	logger *log.Logger

	currentTime  float64
	startTime    float64 // NaN while unresolved
	playbackRate float64

	paused             bool
	idle               bool
	currentTimePending bool
	finishedFlag       bool
	inEffect           bool

	listeners    []listener
	nextListener ListenerID
	cancelEpoch  uint64
}

// New creates an idle animation of effect reporting to sched.
func New(effect *Effect, sched Scheduler, opts Options) *Animation {
	seq := opts.Sequence
	if seq == nil {
		seq = &defaultSequence
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	a := &Animation{
		id:           opts.ID,
		seq:          seq.Next(),
		sched:        sched,
		effect:       effect,
		strict:       opts.Strict,
		logger:       logger,
		startTime:    timing.Unresolved,
		playbackRate: 1,
		idle:         true,
		finishedFlag: true,
	}
	a.inEffect = effect.update(0)
	return a
}

// Launch takes a new animation out of the idle state without rewinding it,
// leaving it pending until the next frame establishes its start time.
func (a *Animation) Launch() {
	a.idle = false
}

func (a *Animation) ID() string { return a.id }

// SequenceNumber is the creation-order number of the animation.
func (a *Animation) SequenceNumber() int64 { return a.seq }

func (a *Animation) Effect() *Effect { return a.effect }

// Timing returns the timing of the animation's effect.
func (a *Animation) Timing() timing.Timing { return a.effect.timing }

// InEffect reports whether the effect produced a value at the last update.
func (a *Animation) InEffect() bool { return a.inEffect }

// CurrentTime returns the animation's local time, or false while idle or
// while a pause is pending.
func (a *Animation) CurrentTime() (float64, bool) {
	if a.idle || a.currentTimePending {
		return 0, false
	}
	return a.currentTime, true
}

// StartTime returns the timeline time at which the current time was zero,
// or false when it is not established.
func (a *Animation) StartTime() (float64, bool) {
	if timing.IsUnresolved(a.startTime) {
		return 0, false
	}
	return a.startTime, true
}

func (a *Animation) PlaybackRate() float64 { return a.playbackRate }

// PlayState derives the play state from the animation's flags.
func (a *Animation) PlayState() PlayState {
	switch {
	case a.idle:
		return StateIdle
	case (!a.hasStartTime() && !a.paused && a.playbackRate != 0) || a.currentTimePending:
		return StatePending
	case a.paused:
		return StatePaused
	case a.isFinished():
		return StateFinished
	default:
		return StateRunning
	}
}

// NeedsTick reports whether the animation still has to be ticked even when
// its effect is not in effect.
func (a *Animation) NeedsTick() bool {
	state := a.PlayState()
	return state == StatePending || state == StateRunning || !a.finishedFlag
}

func (a *Animation) hasStartTime() bool { return !timing.IsUnresolved(a.startTime) }

func (a *Animation) totalDuration() float64 { return a.effect.TotalDuration() }

func (a *Animation) isFinished() bool {
	return !a.idle && (a.playbackRate > 0 && a.currentTime >= a.totalDuration() ||
		a.playbackRate < 0 && a.currentTime <= 0)
}

// localTime is the time the effect is evaluated at.
func (a *Animation) localTime() float64 {
	t, ok := a.CurrentTime()
	if !ok {
		return timing.Unresolved
	}
	// Playing backwards onto the origin leaves the active interval.
	if a.playbackRate < 0 && t == 0 {
		return -1
	}
	return t
}

// ensureAlive re-evaluates the effect and makes sure the scheduler keeps
// ticking an animation that is in effect or owes a finish event.
func (a *Animation) ensureAlive() {
	a.inEffect = a.effect.update(a.localTime())
	if a.inEffect || !a.finishedFlag {
		a.sched.RegisterActive(a)
	}
}

func (a *Animation) tickCurrentTime(t float64, ignoreLimit bool) {
	if t == a.currentTime {
		return
	}
	a.currentTime = t
	if a.isFinished() && !ignoreLimit {
		if a.playbackRate > 0 {
			a.currentTime = a.totalDuration()
		} else {
			a.currentTime = 0
		}
	}
	a.ensureAlive()
}

func (a *Animation) rewind() error {
	switch {
	case a.playbackRate >= 0:
		a.currentTime = 0
	case a.totalDuration() < math.Inf(1):
		a.currentTime = a.totalDuration()
	default:
		return ErrInvalidState
	}
	return nil
}

// Tick advances the animation to timelineTime. Frame ticks establish a
// pending start time and evaluate the finished transition, queuing at most
// one finish event into out. Non-frame ticks only bring the current time up
// to date.
func (a *Animation) Tick(timelineTime float64, frame bool, out *Outbox) {
	// A zero rate freezes the current time.
	if !a.idle && !a.paused && a.playbackRate != 0 {
		if !a.hasStartTime() {
			if frame {
				a.SetStartTime(timelineTime - a.currentTime/a.playbackRate)
			}
		} else if !a.isFinished() {
			a.tickCurrentTime((timelineTime-a.startTime)*a.playbackRate, false)
		}
	}

	if frame {
		a.currentTimePending = false
		a.fireEvents(timelineTime, out)
	}
}

func (a *Animation) fireEvents(timelineTime float64, out *Outbox) {
	if !a.isFinished() {
		a.finishedFlag = false
		return
	}
	if a.finishedFlag {
		return
	}
	a.finishedFlag = true
	a.logger.Debug("animation finished", "id", a.id, "current", a.currentTime, "timeline", timelineTime)
	if out == nil {
		return
	}

	handlers := make([]FinishHandler, len(a.listeners))
	for i, l := range a.listeners {
		handlers[i] = l.fn
	}
	out.push(FinishEvent{
		Animation:    a,
		Target:       a.effect.target,
		CurrentTime:  a.currentTime,
		TimelineTime: timelineTime,
	}, handlers, a.cancelEpoch)
}

// AddFinishListener registers fn for finish events and returns an id for
// RemoveFinishListener.
func (a *Animation) AddFinishListener(fn FinishHandler) ListenerID {
	a.nextListener++
	a.listeners = append(a.listeners, listener{id: a.nextListener, fn: fn})
	return a.nextListener
}

// RemoveFinishListener unregisters a handler. Events already queued still
// reach it.
func (a *Animation) RemoveFinishListener(id ListenerID) {
	for i, l := range a.listeners {
		if l.id == id {
			a.listeners = append(a.listeners[:i], a.listeners[i+1:]...)
			return
		}
	}
}
