package timing

import (
	"errors"
	"math"
	"testing"

	"github.com/vovakirdan/motion/internal/easing"
)

const eps = 1e-9

func mustNormalize(t *testing.T, in map[string]any) Timing {
	t.Helper()
	tm := Normalize(in, false)
	for k, v := range in {
		if _, err := Default().With(k, v); err != nil {
			t.Fatalf("fixture field %s=%v rejected: %v", k, v, err)
		}
	}
	return tm
}

func TestActiveDuration(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		name  string
		input any
		group bool
		want  float64
	}{
		{"single iteration", map[string]any{"duration": 1000}, false, 1000},
		{"three iterations", map[string]any{"duration": 200, "iterations": 3}, false, 600},
		{"zero duration infinite iterations", map[string]any{"duration": 0, "iterations": inf}, false, 0},
		{"zero iterations", map[string]any{"duration": 1000, "iterations": 0}, false, 0},
		{"infinite iterations", map[string]any{"duration": 100, "iterations": "infinite"}, false, inf},
		{"fractional iterations", map[string]any{"duration": 1000, "iterations": 0.5}, false, 500},
		{"group rate scale", map[string]any{"duration": 1000, "iterations": 2, "playbackRate": -2}, true, 1000},
		{"leaf ignores rate scale", map[string]any{"duration": 1000, "playbackRate": 4}, false, 1000},
		{"numeric shorthand", 750, false, 750},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := Normalize(tt.input, tt.group)
			if got := tm.ActiveDuration(); got != tt.want {
				t.Errorf("ActiveDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	leaf := Normalize(nil, false)
	if leaf.Fill() != FillNone || leaf.DurationAuto() || leaf.Iterations() != 1 {
		t.Errorf("leaf defaults = fill %v auto %v iterations %v", leaf.Fill(), leaf.DurationAuto(), leaf.Iterations())
	}
	if leaf.Easing() != (easing.Linear{}) {
		t.Errorf("leaf easing = %v, want linear", leaf.Easing())
	}

	group := Normalize(nil, true)
	if group.Fill() != FillBoth || !group.DurationAuto() || group.Duration() != 0 {
		t.Errorf("group defaults = fill %v auto %v duration %v", group.Fill(), group.DurationAuto(), group.Duration())
	}

	overridden := Normalize(map[string]any{"fill": "none", "duration": 300}, true)
	if overridden.Fill() != FillNone || overridden.DurationAuto() || overridden.Duration() != 300 {
		t.Errorf("group overrides not applied: fill %v duration %v", overridden.Fill(), overridden.Duration())
	}
}

func TestNormalizeNumeric(t *testing.T) {
	if got := Normalize(500, false).Duration(); got != 500 {
		t.Errorf("Normalize(500).Duration() = %v", got)
	}
	if got := Normalize(math.NaN(), false).Duration(); got != 0 {
		t.Errorf("Normalize(NaN).Duration() = %v, want 0", got)
	}
	if got := Normalize(-5, false).Duration(); got != 0 {
		t.Errorf("Normalize(-5).Duration() = %v, want 0", got)
	}
	if got := Normalize("500", false).Duration(); got != 0 {
		t.Errorf("strings are not durations, got %v", got)
	}
}

func TestNormalizeIgnoresInvalidFields(t *testing.T) {
	tm := Normalize(map[string]any{
		"duration":       -1,
		"fill":           "sideways",
		"direction":      "up",
		"delay":          100,
		"iterations":     "three",
		"iterationStart": -2,
		"bogus":          1,
		"easing":         "nonsense",
		"endDelay":       math.NaN(),
	}, false)

	if tm.Duration() != 0 {
		t.Errorf("duration = %v, want 0", tm.Duration())
	}
	if tm.Fill() != FillNone {
		t.Errorf("fill = %v, want none", tm.Fill())
	}
	if tm.Direction() != DirectionNormal {
		t.Errorf("direction = %v, want normal", tm.Direction())
	}
	if tm.Delay() != 100 {
		t.Errorf("delay = %v, want 100", tm.Delay())
	}
	if tm.Iterations() != 1 {
		t.Errorf("iterations = %v, want 1", tm.Iterations())
	}
	if tm.IterationStart() != 0 {
		t.Errorf("iterationStart = %v, want 0", tm.IterationStart())
	}
	if tm.EndDelay() != 0 {
		t.Errorf("endDelay = %v, want 0", tm.EndDelay())
	}
	if tm.Easing() != (easing.Linear{}) {
		t.Errorf("easing = %v, want linear", tm.Easing())
	}
}

func TestNormalizeFieldAliases(t *testing.T) {
	tm := Normalize(map[string]any{"end_delay": 50, "iteration-start": 1, "Direction": "Alternate-Reverse"}, false)
	if tm.EndDelay() != 50 || tm.IterationStart() != 1 || tm.Direction() != DirectionAlternateReverse {
		t.Errorf("aliases not applied: endDelay %v iterationStart %v direction %v",
			tm.EndDelay(), tm.IterationStart(), tm.Direction())
	}
}

func TestWith(t *testing.T) {
	base := Normalize(map[string]any{"duration": 1000, "easing": "ease-in"}, false)

	tests := []struct {
		name    string
		field   string
		value   any
		wantErr error
	}{
		{"negative iterationStart", "iterationStart", -1, ErrInvalidTiming},
		{"NaN iterations", "iterations", math.NaN(), ErrInvalidTiming},
		{"negative duration", "duration", -10, ErrInvalidTiming},
		{"string duration", "duration", "long", ErrInvalidTiming},
		{"unknown fill", "fill", "sometimes", ErrInvalidTiming},
		{"unknown direction", "direction", 3.5, ErrInvalidTiming},
		{"bad easing", "easing", "wobble", easing.ErrInvalidEasing},
		{"leaf playbackRate", "playbackRate", 2, ErrInvalidTiming},
		{"unknown field", "speed", 2, ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := base.With(tt.field, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("With(%s, %v) error = %v, want %v", tt.field, tt.value, err, tt.wantErr)
			}
			if got != base {
				t.Errorf("failed With changed the timing: %+v", got)
			}
		})
	}
}

func TestWithRederivesActiveDuration(t *testing.T) {
	tm := Normalize(map[string]any{"duration": 1000}, false)

	next, err := tm.With("iterations", 3)
	if err != nil {
		t.Fatalf("With failed: %v", err)
	}
	if next.ActiveDuration() != 3000 {
		t.Errorf("ActiveDuration() = %v, want 3000", next.ActiveDuration())
	}
	if tm.ActiveDuration() != 1000 {
		t.Errorf("original timing changed: %v", tm.ActiveDuration())
	}

	auto, err := next.With("duration", "auto")
	if err != nil {
		t.Fatalf("With(duration, auto) failed: %v", err)
	}
	if !auto.DurationAuto() || auto.ActiveDuration() != 0 {
		t.Errorf("auto duration = %v active %v", auto.DurationAuto(), auto.ActiveDuration())
	}
}

func TestWithLenientEasingFallback(t *testing.T) {
	tm := Normalize(map[string]any{"duration": 1000, "easing": "ease-in"}, false)

	got, err := tm.WithLenient("easing", "wobble")
	if !errors.Is(err, easing.ErrInvalidEasing) {
		t.Errorf("WithLenient error = %v, want ErrInvalidEasing", err)
	}
	if got.Easing() != (easing.Linear{}) {
		t.Errorf("easing = %v, want linear fallback", got.Easing())
	}

	kept, err := tm.WithLenient("duration", -1)
	if err == nil {
		t.Error("WithLenient should report the ignored value")
	}
	if kept.Duration() != 1000 {
		t.Errorf("duration = %v, want previous 1000", kept.Duration())
	}
}

func TestPhase(t *testing.T) {
	delayed := mustNormalize(t, map[string]any{"delay": 100, "duration": 1000})
	clipped := mustNormalize(t, map[string]any{"duration": 1000, "endDelay": -500})
	negDelay := mustNormalize(t, map[string]any{"delay": -200, "duration": 1000})

	tests := []struct {
		name  string
		tm    Timing
		local float64
		want  Phase
	}{
		{"unresolved", delayed, Unresolved, PhaseNone},
		{"before delay", delayed, 99, PhaseBefore},
		{"start of active", delayed, 100, PhaseActive},
		{"end of active", delayed, 1099, PhaseActive},
		{"after", delayed, 1100, PhaseAfter},
		{"negative end delay clips active", clipped, 499, PhaseActive},
		{"negative end delay after", clipped, 500, PhaseAfter},
		{"negative delay starts early", negDelay, -200, PhaseActive},
		{"negative delay before", negDelay, -201, PhaseBefore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tm.Phase(tt.local); got != tt.want {
				t.Errorf("Phase(%v) = %v, want %v", tt.local, got, tt.want)
			}
		})
	}
}

func TestPhaseMonotonic(t *testing.T) {
	timings := []Timing{
		mustNormalize(t, map[string]any{"delay": 100, "duration": 1000, "endDelay": 200}),
		mustNormalize(t, map[string]any{"delay": -300, "duration": 250, "iterations": 2}),
		mustNormalize(t, map[string]any{"duration": 1000, "endDelay": -400}),
	}

	for i, tm := range timings {
		prev := PhaseBefore
		for local := -2000.0; local <= 3000; local += 7 {
			p := tm.Phase(local)
			if p < prev {
				t.Fatalf("timing %d: phase went from %v back to %v at %v", i, prev, p, local)
			}
			prev = p
		}
		if prev != PhaseAfter {
			t.Errorf("timing %d: never reached after phase", i)
		}
	}
}

func TestActiveTime(t *testing.T) {
	tests := []struct {
		name   string
		fill   FillMode
		phase  Phase
		want   float64
		wantOK bool
	}{
		{"before none", FillNone, PhaseBefore, 0, false},
		{"before forwards", FillForwards, PhaseBefore, 0, false},
		{"before backwards", FillBackwards, PhaseBefore, 0, true},
		{"before both", FillBoth, PhaseBefore, 0, true},
		{"active", FillNone, PhaseActive, 150, true},
		{"after none", FillNone, PhaseAfter, 0, false},
		{"after backwards", FillBackwards, PhaseAfter, 0, false},
		{"after forwards", FillForwards, PhaseAfter, 1000, true},
		{"after both", FillBoth, PhaseAfter, 1000, true},
		{"none phase", FillBoth, PhaseNone, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CalculateActiveTime(1000, tt.fill, 250, tt.phase, 100)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("CalculateActiveTime = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestOverallProgress(t *testing.T) {
	if got := CalculateOverallProgress(1000, PhaseActive, 1, 250, 0.5); got != 0.75 {
		t.Errorf("overall progress = %v, want 0.75", got)
	}
	if got := CalculateOverallProgress(0, PhaseAfter, 3, 0, 0.25); got != 3.25 {
		t.Errorf("zero duration after = %v, want 3.25", got)
	}
	if got := CalculateOverallProgress(0, PhaseBefore, 3, 0, 0.25); got != 0.25 {
		t.Errorf("zero duration before = %v, want 0.25", got)
	}
}

func TestBoundaryLanding(t *testing.T) {
	// Landing exactly on the end reports the end of the last iteration.
	simple := CalculateSimpleIterationProgress(2, 0, PhaseAfter, 2, 2, 1)
	if simple != 1 {
		t.Fatalf("simple iteration progress at the end = %v, want 1", simple)
	}
	if got := CalculateCurrentIteration(PhaseAfter, 2, simple, 2); got != 1 {
		t.Errorf("current iteration at the end = %v, want 1", got)
	}

	// The same landing inside the active phase starts the next iteration.
	if got := CalculateSimpleIterationProgress(1, 0, PhaseActive, 2, 1, 1); got != 0 {
		t.Errorf("simple iteration progress mid-way = %v, want 0", got)
	}

	// A zero active time in the after phase stays at 0.
	if got := CalculateSimpleIterationProgress(0, 0, PhaseAfter, 2, 0, 1); got != 0 {
		t.Errorf("simple iteration progress with zero active time = %v, want 0", got)
	}

	tm := mustNormalize(t, map[string]any{"duration": 1, "iterations": 2, "fill": "forwards"})
	s := tm.Evaluate(2)
	if s.Phase != PhaseAfter || s.SimpleProgress != 1 || s.CurrentIteration != 1 || s.Progress != 1 {
		t.Errorf("Evaluate(2) = %+v", s)
	}

	unfilled := mustNormalize(t, map[string]any{"duration": 1, "iterations": 2, "fill": "none"})
	if _, ok := unfilled.Progress(2); ok {
		t.Error("fill none should have no progress after the end")
	}
}

func TestZeroDuration(t *testing.T) {
	tests := []struct {
		name       string
		iterations float64
		direction  string
		local      float64
		want       float64
	}{
		{"odd count forwards", 3, "normal", 0, 1},
		{"alternate odd count", 3, "alternate", 0, 1},
		{"alternate even count", 2, "alternate", 0, 0},
		{"alternate-reverse even count", 2, "alternate-reverse", 0, 1},
		{"reverse", 1, "reverse", 0, 0},
		{"before start fills backwards", 3, "normal", -1, 0},
		{"later local time", 3, "alternate", 500, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := mustNormalize(t, map[string]any{
				"duration":   0,
				"iterations": tt.iterations,
				"direction":  tt.direction,
				"fill":       "both",
			})
			if tm.ActiveDuration() != 0 {
				t.Fatalf("ActiveDuration() = %v, want 0", tm.ActiveDuration())
			}
			got, ok := tm.Progress(tt.local)
			if !ok || got != tt.want {
				t.Errorf("Progress(%v) = (%v, %v), want %v", tt.local, got, ok, tt.want)
			}
		})
	}
}

func TestInfiniteIterations(t *testing.T) {
	tm := mustNormalize(t, map[string]any{"duration": 100, "iterations": math.Inf(1), "fill": "both"})
	if !math.IsInf(tm.ActiveDuration(), 1) {
		t.Fatalf("ActiveDuration() = %v, want +Inf", tm.ActiveDuration())
	}
	for _, local := range []float64{0, 1, 1e6, 1e12} {
		if p := tm.Phase(local); p != PhaseActive {
			t.Errorf("Phase(%v) = %v, want active", local, p)
		}
	}
	if got, _ := tm.Progress(1050); math.Abs(got-0.5) > eps {
		t.Errorf("Progress(1050) = %v, want 0.5", got)
	}

	zero := mustNormalize(t, map[string]any{"duration": 0, "iterations": math.Inf(1), "direction": "alternate", "fill": "forwards"})
	s := zero.Evaluate(0)
	if !math.IsInf(s.OverallProgress, 1) || !math.IsInf(s.CurrentIteration, 1) {
		t.Errorf("Evaluate(0) = %+v, want infinite overall progress and iteration", s)
	}
	if s.SimpleProgress != 1 || s.DirectedProgress != 1 {
		t.Errorf("infinite iteration should not be reversed: %+v", s)
	}
}

func TestDirectedProgress(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		name      string
		direction Direction
		iteration float64
		want      float64
	}{
		{"normal", DirectionNormal, 1, 0.25},
		{"reverse", DirectionReverse, 0, 0.75},
		{"alternate even", DirectionAlternate, 2, 0.25},
		{"alternate odd", DirectionAlternate, 1, 0.75},
		{"alternate-reverse even", DirectionAlternateReverse, 0, 0.75},
		{"alternate-reverse odd", DirectionAlternateReverse, 1, 0.25},
		{"alternate infinite", DirectionAlternate, inf, 0.25},
		{"alternate-reverse infinite", DirectionAlternateReverse, inf, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateDirectedProgress(tt.direction, tt.iteration, 0.25); got != tt.want {
				t.Errorf("CalculateDirectedProgress = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	basic := mustNormalize(t, map[string]any{"duration": 1000})
	if got, ok := basic.Progress(500); !ok || got != 0.5 {
		t.Errorf("Progress(500) = (%v, %v), want 0.5", got, ok)
	}
	if _, ok := basic.Progress(1000); ok {
		t.Error("fill none should have no progress at the end")
	}
	if _, ok := basic.Progress(Unresolved); ok {
		t.Error("unresolved local time should have no progress")
	}

	offset := mustNormalize(t, map[string]any{"duration": 1000, "iterationStart": 0.5, "fill": "forwards"})
	if got, _ := offset.Progress(250); math.Abs(got-0.75) > eps {
		t.Errorf("Progress(250) with iteration start = %v, want 0.75", got)
	}
	if got, _ := offset.Progress(600); math.Abs(got-0.1) > eps {
		t.Errorf("Progress(600) with iteration start = %v, want 0.1", got)
	}
	if got, _ := offset.Progress(1000); math.Abs(got-0.5) > eps {
		t.Errorf("Progress(1000) with iteration start = %v, want 0.5", got)
	}

	eased := mustNormalize(t, map[string]any{"duration": 1000, "easing": "steps(4)"})
	if got, _ := eased.Progress(600); got != 0.5 {
		t.Errorf("stepped Progress(600) = %v, want 0.5", got)
	}
}

func TestProgressDeterministic(t *testing.T) {
	tm := mustNormalize(t, map[string]any{
		"duration":   333,
		"iterations": 2.5,
		"direction":  "alternate",
		"easing":     "ease-in-out",
		"fill":       "both",
		"delay":      17,
	})
	for local := -100.0; local < 1200; local += 3.3 {
		a, okA := tm.Progress(local)
		b, okB := tm.Progress(local)
		if okA != okB || math.Float64bits(a) != math.Float64bits(b) {
			t.Fatalf("Progress(%v) not deterministic: %v vs %v", local, a, b)
		}
	}
}

func TestInputRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		group bool
	}{
		{"leaf", map[string]any{
			"delay": 10, "endDelay": -5, "fill": "backwards", "iterationStart": 0.5,
			"iterations": "infinite", "duration": 250, "direction": "alternate",
			"easing": "cubic-bezier(0.1, 0.7, 1, 0.1)",
		}, false},
		{"steps", map[string]any{"duration": 100, "easing": "steps(3, middle)"}, false},
		{"group", map[string]any{"playbackRate": 2, "easing": "ease-out-bounce"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := Normalize(tt.input, tt.group)
			again := Normalize(tm.Input(), tt.group)
			if again != tm {
				t.Errorf("round trip changed timing:\n got %+v\nwant %+v", again, tm)
			}
		})
	}
}

func TestNormalizeKeepsExistingTiming(t *testing.T) {
	leaf := Normalize(map[string]any{"duration": 300, "fill": "forwards"}, false)
	if got := Normalize(leaf, true); got != leaf {
		t.Errorf("Normalize(leaf, true) = %+v, want the leaf unchanged", got)
	}
	if got := Normalize(leaf, true); got.IsGroup() || got.Fill() != FillForwards {
		t.Errorf("group defaults leaked into an existing timing: %+v", got)
	}

	group := Normalize(nil, true)
	if got, err := Parse(group, false); err != nil || got != group {
		t.Errorf("Parse(group, false) = %+v, %v", got, err)
	}
}

func TestFieldNames(t *testing.T) {
	names := FieldNames()
	if len(names) != 9 {
		t.Fatalf("FieldNames() = %v", names)
	}
	for _, name := range names {
		if _, ok := fields[canonical(name)]; !ok {
			t.Errorf("field %q not reachable by its own name", name)
		}
	}
}

func TestParseStrict(t *testing.T) {
	tm, err := Parse(map[string]any{"duration": 400, "fill": "forwards", "iteration_start": 0.5}, false)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if tm != Normalize(map[string]any{"duration": 400, "fill": "forwards", "iteration_start": 0.5}, false) {
		t.Errorf("Parse() and Normalize() disagree on valid input")
	}

	tests := []struct {
		name  string
		input any
		want  error
	}{
		{"negative duration", map[string]any{"duration": -1}, ErrInvalidTiming},
		{"bad fill", map[string]any{"fill": "sideways"}, ErrInvalidTiming},
		{"unknown key", map[string]any{"colour": "red"}, ErrUnknownField},
		{"negative number", -5, ErrInvalidTiming},
		{"string input", "fast", ErrInvalidTiming},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.input, false); !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}

	if tm, err := Parse(nil, true); err != nil || !tm.IsGroup() {
		t.Errorf("Parse(nil, true) = %+v, %v", tm, err)
	}
}
