package timeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/motion/internal/animation"
	"github.com/vovakirdan/motion/internal/timing"
)

type recordingTarget struct {
	ops []string
}

func (r *recordingTarget) Apply(p float64) { r.ops = append(r.ops, fmt.Sprintf("apply %.2f", p)) }

func (r *recordingTarget) Clear() { r.ops = append(r.ops, "clear") }

func (r *recordingTarget) last() string {
	if len(r.ops) == 0 {
		return ""
	}
	return r.ops[len(r.ops)-1]
}

func TestBasicPlay(t *testing.T) {
	tl := New(Options{})
	target := &recordingTarget{}
	a := tl.Animate(target, 1000)

	finished := 0
	a.AddFinishListener(func(ev animation.FinishEvent) {
		finished++
		assert.Same(t, target, ev.Target)
	})

	assert.Equal(t, animation.StatePending, a.PlayState())
	assert.True(t, tl.Ticking())
	assert.Equal(t, "apply 0.00", target.last(), "a new animation is applied immediately")

	tl.Tick(0)
	assert.Equal(t, animation.StateRunning, a.PlayState())

	tl.Tick(500)
	assert.Equal(t, "apply 0.50", target.last())

	tl.Tick(1000)
	assert.Equal(t, animation.StateFinished, a.PlayState())
	assert.Equal(t, "clear", target.last())
	assert.Equal(t, 1, tl.PendingEvents())
	assert.Equal(t, 0, finished, "events wait for Flush")

	assert.Equal(t, 1, tl.Flush())
	assert.Equal(t, 1, finished)
	assert.Empty(t, tl.Animations(), "finished animations out of effect are dropped")
	assert.False(t, tl.Ticking())
}

func TestTickNeverRunsBackwards(t *testing.T) {
	tl := New(Options{})
	a := tl.Animate(&recordingTarget{}, 1000)

	tl.Tick(0)
	tl.Tick(500)
	tl.Tick(200)

	assert.Equal(t, 500.0, tl.CurrentTime())
	ct, ok := a.CurrentTime()
	require.True(t, ok)
	assert.Equal(t, 500.0, ct)
}

func TestClearsBeforeApplies(t *testing.T) {
	tl := New(Options{})
	target := &recordingTarget{}
	tl.Animate(target, 500)
	tl.Animate(target, 1000)

	tl.Tick(0)
	target.ops = nil
	tl.Tick(600)

	assert.Equal(t, []string{"clear", "apply 0.60"}, target.ops)
}

func TestApplyDirtiedReevaluatesSharedTarget(t *testing.T) {
	tl := New(Options{})
	shared := &recordingTarget{}
	other := &recordingTarget{}
	tl.Animate(shared, 1000)
	seek := tl.Animate(shared, 1000)
	tl.Animate(other, 1000)

	tl.Tick(0)
	tl.Tick(100)
	shared.ops = nil
	other.ops = nil

	seek.SetCurrentTime(800)

	assert.Equal(t, []string{"apply 0.10", "apply 0.80"}, shared.ops)
	assert.Empty(t, other.ops)
}

func TestCancelClearsTargetAndDropsEvent(t *testing.T) {
	tl := New(Options{})
	target := &recordingTarget{}
	a := tl.Animate(target, map[string]any{"duration": 1000, "fill": "forwards"})

	called := false
	a.AddFinishListener(func(animation.FinishEvent) { called = true })

	tl.Tick(0)
	tl.Tick(1000)
	require.Equal(t, 1, tl.PendingEvents())
	assert.Equal(t, "apply 1.00", target.last())

	a.Cancel()
	assert.Equal(t, "clear", target.last())
	assert.Empty(t, tl.Animations())

	assert.Equal(t, 0, tl.Flush())
	assert.False(t, called)
}

func TestReplayAfterFinish(t *testing.T) {
	tl := New(Options{})
	a := tl.Animate(&recordingTarget{}, 1000)

	tl.Tick(0)
	tl.Tick(1000)
	tl.Flush()
	require.Empty(t, tl.Animations())

	require.NoError(t, a.Play())
	assert.Equal(t, []*animation.Animation{a}, tl.Animations())
	assert.True(t, tl.Ticking())

	tl.Tick(2000)
	tl.Tick(2500)
	ct, ok := a.CurrentTime()
	require.True(t, ok)
	assert.Equal(t, 500.0, ct)
}

func TestFinishHandlerMayReplay(t *testing.T) {
	tl := New(Options{})
	a := tl.Animate(&recordingTarget{}, 100)

	plays := 0
	a.AddFinishListener(func(ev animation.FinishEvent) {
		plays++
		if plays < 3 {
			require.NoError(t, ev.Animation.Play())
		}
	})

	now := 0.0
	for range 20 {
		tl.Tick(now)
		tl.Flush()
		now += 50
	}

	assert.Equal(t, 3, plays)
	assert.Equal(t, animation.StateFinished, a.PlayState())
}

func TestAnimationsInCreationOrder(t *testing.T) {
	seq := &animation.Sequence{}
	tl := New(Options{Sequence: seq})

	first := tl.Animate(&recordingTarget{}, 1000)
	second := tl.Animate(&recordingTarget{}, 1000)
	third := tl.Animate(&recordingTarget{}, 1000)

	assert.Equal(t, []*animation.Animation{first, second, third}, tl.Animations())
	assert.Equal(t, int64(0), first.SequenceNumber())
	assert.Equal(t, int64(2), third.SequenceNumber())

	seq.Reset()
	again := New(Options{Sequence: seq}).Animate(&recordingTarget{}, 1000)
	assert.Equal(t, int64(0), again.SequenceNumber())
}

func TestUnregisterActive(t *testing.T) {
	tl := New(Options{})
	a := tl.Animate(&recordingTarget{}, 1000)
	tl.Tick(0)
	tl.Tick(100)

	tl.UnregisterActive(a)
	assert.Empty(t, tl.Animations())

	tl.Tick(600)
	ct, _ := a.CurrentTime()
	assert.Equal(t, 100.0, ct, "unregistered animations are not ticked")
}

func TestStrictOption(t *testing.T) {
	strict := New(Options{Strict: true}).Animate(&recordingTarget{}, 1000)
	assert.ErrorIs(t, strict.SetDuration(-1), timing.ErrInvalidTiming)

	lenient := New(Options{}).Animate(&recordingTarget{}, 1000)
	assert.NoError(t, lenient.SetDuration(-1))
	assert.Equal(t, 1000.0, lenient.Timing().Duration())
}

func TestPlayEffect(t *testing.T) {
	tl := New(Options{})
	target := &recordingTarget{}
	effect := animation.NewEffect(target, timing.Normalize(map[string]any{"duration": 400, "delay": 100, "fill": "backwards"}, false))

	a := tl.PlayWithID("fade", effect)
	assert.Equal(t, "fade", a.ID())
	assert.Same(t, effect, a.Effect())

	tl.Tick(0)
	tl.Tick(300)
	assert.Equal(t, "apply 0.50", target.last())
}
