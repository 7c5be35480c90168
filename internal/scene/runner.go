// Package scene plays a config.Scene: it creates one target and animation
// per entry, starts each at its start_at time and runs the scripted actions
// at their exact timeline times.
package scene

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"

	"github.com/vovakirdan/motion/internal/animation"
	"github.com/vovakirdan/motion/internal/config"
	"github.com/vovakirdan/motion/internal/registry"
	"github.com/vovakirdan/motion/internal/render"
	_ "github.com/vovakirdan/motion/internal/targets" // Register built-in targets
	"github.com/vovakirdan/motion/internal/timeline"
	"github.com/vovakirdan/motion/internal/timing"
)

// Recorder persists runs and their finish events. *storage.Store
// implements it.
type Recorder interface {
	StartRun(scene, source string) (string, error)
	RecordFinish(runID, animationID string, currentTime, timelineTime float64) (int64, error)
	EndRun(runID string, duration float64) error
}

// Options configures a Runner.
type Options struct {
	// Strict rejects scenes with invalid timing instead of skipping the
	// invalid fields.
	Strict   bool
	Logger   *log.Logger
	Recorder Recorder // optional
	Source   string   // recorded with the run
	OnFinish func(Finish)
}

// Track is one animated entry of a scene.
type Track struct {
	Spec      config.AnimationSpec
	Target    registry.Target
	Animation *animation.Animation
	Finishes  int
}

// Label is the text shown next to the track.
func (tr *Track) Label() string {
	if tr.Spec.Label != "" {
		return tr.Spec.Label
	}
	return tr.Spec.ID
}

// Finish describes a delivered finish event.
type Finish struct {
	Track        *Track
	CurrentTime  float64
	TimelineTime float64
}

// Summary is the outcome of a run.
type Summary struct {
	RunID    string
	Scene    string
	Duration float64
	Finishes map[string]int
}

type event struct {
	at     float64
	track  *Track
	start  bool
	action config.Action
}

// Runner owns the timeline of one scene playback. Like the timeline it is
// driven from a single goroutine.
type Runner struct {
	scene    config.Scene
	tl       *timeline.Timeline
	tracks   []*Track
	events   []event
	next     int
	logger   *log.Logger
	rec      Recorder
	runID    string
	onFinish func(Finish)
	closed   bool
}

// New builds the targets and idle animations of s. A run is recorded when
// opts.Recorder is set.
func New(s config.Scene, opts Options) (*Runner, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r := &Runner{
		scene:    s,
		tl:       timeline.New(timeline.Options{Strict: opts.Strict, Logger: logger}),
		logger:   logger,
		rec:      opts.Recorder,
		onFinish: opts.OnFinish,
	}

	for _, spec := range s.Animations {
		target, err := registry.Create(spec.Target)
		if err != nil {
			return nil, fmt.Errorf("scene %q: animation %q: %w", s.Name, spec.ID, err)
		}
		t, err := timingOf(spec, opts.Strict, logger)
		if err != nil {
			return nil, fmt.Errorf("scene %q: animation %q: %w", s.Name, spec.ID, err)
		}

		tr := &Track{
			Spec:      spec,
			Target:    target,
			Animation: r.tl.Create(spec.ID, animation.NewEffect(target, t)),
		}
		tr.Animation.AddFinishListener(func(ev animation.FinishEvent) {
			r.finished(tr, ev)
		})
		r.tracks = append(r.tracks, tr)

		r.events = append(r.events, event{at: spec.StartAt, track: tr, start: true})
		for _, act := range spec.Actions {
			r.events = append(r.events, event{at: act.At, track: tr, action: act})
		}
	}

	sort.SliceStable(r.events, func(i, j int) bool {
		return r.events[i].at < r.events[j].at
	})

	if r.rec != nil {
		source := opts.Source
		if source == "" {
			source = "cli"
		}
		id, err := r.rec.StartRun(s.Name, source)
		if err != nil {
			return nil, err
		}
		r.runID = id
	}
	return r, nil
}

func timingOf(spec config.AnimationSpec, strict bool, logger *log.Logger) (timing.Timing, error) {
	if strict {
		return timing.Parse(spec.Timing, false)
	}
	if _, err := timing.Parse(spec.Timing, false); err != nil {
		logger.Warn("ignoring invalid timing", "animation", spec.ID, "err", err)
	}
	return timing.Normalize(spec.Timing, false), nil
}

// Scene returns the scene being played.
func (r *Runner) Scene() config.Scene { return r.scene }

// Timeline returns the runner's timeline.
func (r *Runner) Timeline() *timeline.Timeline { return r.tl }

// Tracks returns the tracks in scene order.
func (r *Runner) Tracks() []*Track { return r.tracks }

// RunID returns the recorded run ID, or empty without a recorder.
func (r *Runner) RunID() string { return r.runID }

// Time returns the current timeline time.
func (r *Runner) Time() float64 { return r.tl.CurrentTime() }

// Advance moves the scene to timeline time t. Starts and actions due by t
// run in order, each at its own time, with a frame before and after so
// the targets and finish events reflect them exactly.
func (r *Runner) Advance(t float64) {
	for r.next < len(r.events) && r.events[r.next].at <= t {
		at := r.events[r.next].at
		r.frame(at)
		for r.next < len(r.events) && r.events[r.next].at == at {
			r.apply(r.events[r.next])
			r.next++
		}
		r.frame(at)
	}
	r.frame(t)
}

func (r *Runner) frame(t float64) {
	r.tl.Tick(t)
	r.tl.Flush()
}

func (r *Runner) apply(ev event) {
	a := ev.track.Animation
	id := ev.track.Spec.ID

	if ev.start {
		if rate := ev.track.Spec.PlaybackRate; rate != 0 {
			a.SetPlaybackRate(rate)
		}
		if err := a.Play(); err != nil {
			r.logger.Warn("cannot start animation", "animation", id, "err", err)
		}
		return
	}

	var err error
	switch ev.action.Op {
	case config.OpPlay:
		err = a.Play()
	case config.OpPause:
		err = a.Pause()
	case config.OpReverse:
		err = a.Reverse()
	case config.OpFinish:
		a.Finish()
	case config.OpCancel:
		a.Cancel()
	case config.OpSeek:
		a.SetCurrentTime(ev.action.Value)
	case config.OpRate:
		a.SetPlaybackRate(ev.action.Value)
	case config.OpRemove:
		a.Cancel()
		r.tl.UnregisterActive(a)
	}
	if err != nil {
		r.logger.Warn("action failed", "animation", id, "op", ev.action.Op, "at", ev.at, "err", err)
		return
	}
	r.logger.Debug("action", "animation", id, "op", ev.action.Op, "at", ev.at, "state", a.PlayState())
}

func (r *Runner) finished(tr *Track, ev animation.FinishEvent) {
	tr.Finishes++
	r.logger.Debug("animation finished", "scene", r.scene.Name, "animation", tr.Spec.ID, "time", ev.TimelineTime)
	if r.rec != nil && r.runID != "" {
		if _, err := r.rec.RecordFinish(r.runID, tr.Spec.ID, ev.CurrentTime, ev.TimelineTime); err != nil {
			r.logger.Warn("cannot record finish", "animation", tr.Spec.ID, "err", err)
		}
	}
	if r.onFinish != nil {
		r.onFinish(Finish{Track: tr, CurrentTime: ev.CurrentTime, TimelineTime: ev.TimelineTime})
	}
}

// Done reports whether the scene is over: its duration limit is reached,
// or, without a limit, every scripted event has run and no animation wants
// another frame.
func (r *Runner) Done() bool {
	if r.scene.DurationLimit > 0 {
		return r.tl.CurrentTime() >= r.scene.DurationLimit
	}
	return r.next >= len(r.events) && !r.tl.Ticking() && r.tl.PendingEvents() == 0
}

// Summary reports the run so far.
func (r *Runner) Summary() Summary {
	s := Summary{
		RunID:    r.runID,
		Scene:    r.scene.Name,
		Duration: r.tl.CurrentTime(),
		Finishes: make(map[string]int, len(r.tracks)),
	}
	for _, tr := range r.tracks {
		s.Finishes[tr.Spec.ID] = tr.Finishes
	}
	return s
}

// Close ends the recorded run. It is safe to call more than once.
func (r *Runner) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.rec == nil || r.runID == "" {
		return nil
	}
	return r.rec.EndRun(r.runID, r.tl.CurrentTime())
}

// Run plays the scene headless in fixed steps of step ms until it is done,
// maxTime is reached (0 = no cap) or ctx is cancelled, then closes it.
func (r *Runner) Run(ctx context.Context, step, maxTime float64) (Summary, error) {
	if step <= 0 {
		return Summary{}, fmt.Errorf("scene: step must be positive, got %v", step)
	}
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			r.Close()
			return r.Summary(), err
		}
		t := float64(i) * step
		r.Advance(t)
		if r.Done() || (maxTime > 0 && t >= maxTime) {
			break
		}
	}
	return r.Summary(), r.Close()
}

// Canvas draws every track as one row of the given width: its label, then
// its target.
func (r *Runner) Canvas(width int) *render.Canvas {
	c := render.NewCanvas(width, len(r.tracks))

	labelWidth := 0
	for _, tr := range r.tracks {
		labelWidth = max(labelWidth, runewidth.StringWidth(tr.Label()))
	}
	labelWidth = min(labelWidth, width/3)

	for y, tr := range r.tracks {
		c.DrawText(0, y, render.Fit(tr.Label(), labelWidth), render.ColorWhite)
		x := labelWidth + 1
		tr.Target.Draw(c, x, y, width-x)
	}
	return c
}
