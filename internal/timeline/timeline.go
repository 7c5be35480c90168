// Package timeline is the host scheduler for animations: it keeps the set
// of live animations, ticks them once per frame, pushes progress to their
// targets after the frame and delivers finish events afterwards.
package timeline

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/motion/internal/animation"
	"github.com/vovakirdan/motion/internal/timing"
)

// Options configures a Timeline.
type Options struct {
	// Strict makes timing setters of created animations return errors
	// instead of ignoring invalid values.
	Strict bool
	// Sequence numbers created animations; nil gives the timeline its own.
	Sequence *animation.Sequence
	Logger   *log.Logger
}

// Timeline drives animations from a host clock. It is not safe for
// concurrent use; one goroutine ticks it and operates its animations.
type Timeline struct {
	strict bool
	seq    *animation.Sequence
	logger *log.Logger

	currentTime float64
	animations  []*animation.Animation
	live        map[*animation.Animation]bool
	byTarget    map[animation.Target][]*animation.Animation

	pending []*animation.Effect
	outbox  animation.Outbox
	ticking bool
	inTick  bool
}

// New creates an empty timeline at time 0.
func New(opts Options) *Timeline {
	seq := opts.Sequence
	if seq == nil {
		seq = &animation.Sequence{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Timeline{
		strict:   opts.Strict,
		seq:      seq,
		logger:   logger,
		live:     make(map[*animation.Animation]bool),
		byTarget: make(map[animation.Target][]*animation.Animation),
	}
}

// CurrentTime is the time of the last tick.
func (tl *Timeline) CurrentTime() float64 { return tl.currentTime }

// Ticking reports whether any animation wants another frame.
func (tl *Timeline) Ticking() bool { return tl.ticking }

// Restart requests further frames.
func (tl *Timeline) Restart() { tl.ticking = true }

// Animations returns the live animations in creation order.
func (tl *Timeline) Animations() []*animation.Animation {
	out := slices.Clone(tl.animations)
	sortBySequence(out)
	return out
}

// PendingEvents is the number of finish events waiting for Flush.
func (tl *Timeline) PendingEvents() int { return tl.outbox.Len() }

// Animate creates an effect for target from a raw timing input and plays
// it.
func (tl *Timeline) Animate(target animation.Target, input any) *animation.Animation {
	return tl.Play(animation.NewEffect(target, timing.Normalize(input, false)))
}

// Play starts effect in a new animation. The animation stays pending until
// the next tick establishes its start time.
func (tl *Timeline) Play(effect *animation.Effect) *animation.Animation {
	return tl.PlayWithID("", effect)
}

// PlayWithID is Play with an identifier used in logs and events.
func (tl *Timeline) PlayWithID(id string, effect *animation.Effect) *animation.Animation {
	a := tl.Create(id, effect)
	a.Launch()
	tl.RegisterActive(a)
	tl.Restart()
	tl.ApplyDirtied(a)
	return a
}

// Create makes an idle animation of effect bound to this timeline. It is
// not ticked until its first Play.
func (tl *Timeline) Create(id string, effect *animation.Effect) *animation.Animation {
	return animation.New(effect, tl, animation.Options{
		ID:       id,
		Sequence: tl.seq,
		Strict:   tl.strict,
		Logger:   tl.logger,
	})
}

// RegisterActive adds a to the set of ticked animations.
func (tl *Timeline) RegisterActive(a *animation.Animation) {
	if tl.live[a] {
		return
	}
	tl.live[a] = true
	tl.animations = append(tl.animations, a)
}

// UnregisterActive stops ticking a and forgets its target. The caller is
// expected to have cancelled it.
func (tl *Timeline) UnregisterActive(a *animation.Animation) {
	if tl.live[a] {
		delete(tl.live, a)
		tl.animations = slices.DeleteFunc(tl.animations, func(x *animation.Animation) bool { return x == a })
	}
	tl.unmarkTarget(a)
}

// Tick runs one frame at time t. Time never runs backwards: an earlier t
// is raised to the current time. Targets are updated once every animation
// has been ticked; finish events wait for Flush.
func (tl *Timeline) Tick(t float64) {
	if t < tl.currentTime {
		t = tl.currentTime
	}
	sortBySequence(tl.animations)
	active, inactive := tl.tick(t, true, tl.animations)
	tl.animations = active
	for _, a := range inactive {
		delete(tl.live, a)
	}
	tl.applyPending()
}

// Flush delivers queued finish events and returns how many were delivered.
func (tl *Timeline) Flush() int {
	n := tl.outbox.Dispatch()
	if n > 0 {
		tl.logger.Debug("delivered finish events", "count", n, "time", tl.currentTime)
	}
	return n
}

// ApplyDirtied re-evaluates every animation sharing a's target after a
// programmatic change, so the target reflects the change before the next
// frame. It does nothing during a tick.
func (tl *Timeline) ApplyDirtied(a *animation.Animation) {
	if tl.inTick {
		return
	}
	tl.markTarget(a)
	group := slices.Clone(tl.byTarget[a.Effect().Target()])
	sortBySequence(group)

	ticking := tl.ticking
	_, inactive := tl.tick(tl.currentTime, false, group)
	// A partial tick only sees the group; other animations may still need frames.
	tl.ticking = tl.ticking || ticking
	for _, dead := range inactive {
		if tl.live[dead] {
			delete(tl.live, dead)
			tl.animations = slices.DeleteFunc(tl.animations, func(x *animation.Animation) bool { return x == dead })
		}
	}
	tl.applyPending()
}

func (tl *Timeline) tick(t float64, frame bool, updating []*animation.Animation) (active, inactive []*animation.Animation) {
	tl.inTick = true
	defer func() { tl.inTick = false }()

	tl.currentTime = t
	tl.ticking = false

	var clears, effects []*animation.Effect
	for _, a := range updating {
		a.Tick(t, frame, &tl.outbox)

		if a.InEffect() {
			effects = append(effects, a.Effect())
			tl.markTarget(a)
		} else {
			clears = append(clears, a.Effect())
			tl.unmarkTarget(a)
		}

		if a.NeedsTick() {
			tl.ticking = true
		}

		if a.InEffect() || a.NeedsTick() {
			active = append(active, a)
		} else {
			inactive = append(inactive, a)
		}
	}

	// Clears go first so an effect sharing the target wins.
	tl.pending = append(tl.pending, clears...)
	tl.pending = append(tl.pending, effects...)
	return active, inactive
}

func (tl *Timeline) applyPending() {
	pending := tl.pending
	tl.pending = nil
	for _, e := range pending {
		e.Apply()
	}
}

func (tl *Timeline) markTarget(a *animation.Animation) {
	target := a.Effect().Target()
	if slices.Contains(tl.byTarget[target], a) {
		return
	}
	tl.byTarget[target] = append(tl.byTarget[target], a)
}

func (tl *Timeline) unmarkTarget(a *animation.Animation) {
	target := a.Effect().Target()
	list := slices.DeleteFunc(tl.byTarget[target], func(x *animation.Animation) bool { return x == a })
	if len(list) == 0 {
		delete(tl.byTarget, target)
		return
	}
	tl.byTarget[target] = list
}

func sortBySequence(anims []*animation.Animation) {
	slices.SortStableFunc(anims, func(x, y *animation.Animation) int {
		switch {
		case x.SequenceNumber() < y.SequenceNumber():
			return -1
		case x.SequenceNumber() > y.SequenceNumber():
			return 1
		default:
			return 0
		}
	})
}
