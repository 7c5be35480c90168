package timing

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vovakirdan/motion/internal/easing"
)

var (
	// ErrInvalidTiming is returned when a field is set to a value outside
	// its domain.
	ErrInvalidTiming = errors.New("invalid timing")

	// ErrUnknownField is returned for a field name the table does not know.
	ErrUnknownField = errors.New("unknown timing field")
)

// field validates and stores one named timing property.
type field struct {
	name  string
	apply func(t *Timing, v any) error
	// fallback replaces an invalid value in lenient mode; nil keeps the
	// previous value.
	fallback func(t *Timing)
}

var fields = map[string]field{}

func init() {
	for _, f := range []field{
		{name: "delay", apply: applyDelay},
		{name: "endDelay", apply: applyEndDelay},
		{name: "fill", apply: applyFill},
		{name: "iterationStart", apply: applyIterationStart},
		{name: "iterations", apply: applyIterations},
		{name: "duration", apply: applyDuration},
		{name: "direction", apply: applyDirection},
		{name: "easing", apply: applyEasing, fallback: func(t *Timing) { t.easing = easing.Linear{} }},
		{name: "playbackRate", apply: applyPlaybackRate},
	} {
		fields[canonical(f.name)] = f
	}
}

// canonical folds endDelay, end_delay and end-delay to the same key.
func canonical(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "")
	return strings.ReplaceAll(name, "-", "")
}

// FieldNames returns the names accepted by With, sorted.
func FieldNames() []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.name)
	}
	sort.Strings(names)
	return names
}

// With returns a copy of t with the named field set to value. An invalid
// value leaves t unchanged and returns an error wrapping ErrInvalidTiming.
func (t Timing) With(name string, value any) (Timing, error) {
	f, ok := fields[canonical(name)]
	if !ok {
		return t, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	next := t
	if err := f.apply(&next, value); err != nil {
		return t, err
	}
	return next.resolve(), nil
}

// WithLenient is With for lenient callers: an invalid value is ignored, or
// replaced by the field's fallback when it has one. The returned error only
// reports what was ignored.
func (t Timing) WithLenient(name string, value any) (Timing, error) {
	f, ok := fields[canonical(name)]
	if !ok {
		return t, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	next := t
	err := f.apply(&next, value)
	if err == nil {
		return next.resolve(), nil
	}
	if f.fallback == nil {
		return t, err
	}
	next = t
	f.fallback(&next)
	return next.resolve(), err
}

// Normalize builds a Timing from raw input: nil, a number (the duration;
// NaN means 0), an existing Timing, or a map of field names to values such
// as a decoded YAML document. Unknown keys and invalid values are skipped
// one by one. Groups default to fill both and an auto duration. An existing
// Timing already carries its defaults and is returned as is, whatever
// isGroup says.
func Normalize(input any, isGroup bool) Timing {
	t, _ := build(input, isGroup, false)
	return t
}

// Parse is the strict form of Normalize: the first unknown key, invalid
// value or unsupported input is returned as an error.
func Parse(input any, isGroup bool) (Timing, error) {
	return build(input, isGroup, true)
}

func build(input any, isGroup, strict bool) (Timing, error) {
	t := Default()
	if isGroup {
		t = DefaultGroup()
	}

	switch in := input.(type) {
	case nil:
	case Timing:
		// Defaults were seeded when in was built.
		return in, nil
	case map[string]any:
		keys := make([]string, 0, len(in))
		for k := range in {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !strict {
				t, _ = t.WithLenient(k, in[k])
				continue
			}
			var err error
			if t, err = t.With(k, in[k]); err != nil {
				return t, err
			}
		}
	default:
		n, ok := toNumber(input)
		if !ok {
			if strict {
				return t, fmt.Errorf("%w: unsupported input %T", ErrInvalidTiming, input)
			}
			break
		}
		if math.IsNaN(n) {
			n = 0
		}
		if !strict {
			t, _ = t.WithLenient("duration", n)
			break
		}
		return t.With("duration", n)
	}
	return t, nil
}

// Input renders t as a raw map that Normalize accepts.
func (t Timing) Input() map[string]any {
	m := map[string]any{
		"delay":          t.delay,
		"endDelay":       t.endDelay,
		"fill":           t.fill.String(),
		"iterationStart": t.iterationStart,
		"iterations":     t.iterations,
		"direction":      t.direction.String(),
		"easing":         t.Easing().String(),
	}
	if t.durationAuto {
		m["duration"] = "auto"
	} else {
		m["duration"] = t.duration
	}
	if t.group {
		m["playbackRate"] = t.playbackRate
	}
	return m
}

func invalid(name string, v any, want string) error {
	return fmt.Errorf("%w: %s must be %s, got %v", ErrInvalidTiming, name, want, v)
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func keyword(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(s)), true
}

func applyDelay(t *Timing, v any) error {
	n, ok := toNumber(v)
	if !ok || math.IsNaN(n) {
		return invalid("delay", v, "a number")
	}
	t.delay = n
	return nil
}

func applyEndDelay(t *Timing, v any) error {
	n, ok := toNumber(v)
	if !ok || math.IsNaN(n) {
		return invalid("endDelay", v, "a number")
	}
	t.endDelay = n
	return nil
}

func applyFill(t *Timing, v any) error {
	if mode, ok := v.(FillMode); ok {
		if _, known := fillNames[mode]; known {
			t.fill = mode
			return nil
		}
	}
	if s, ok := keyword(v); ok {
		if mode, ok := ParseFill(s); ok {
			t.fill = mode
			return nil
		}
	}
	return invalid("fill", v, "one of none, forwards, backwards, both")
}

func applyIterationStart(t *Timing, v any) error {
	n, ok := toNumber(v)
	if !ok || math.IsNaN(n) || n < 0 {
		return invalid("iterationStart", v, "a non-negative number")
	}
	t.iterationStart = n
	return nil
}

func applyIterations(t *Timing, v any) error {
	if s, ok := keyword(v); ok && (s == "infinite" || s == "infinity") {
		t.iterations = math.Inf(1)
		return nil
	}
	n, ok := toNumber(v)
	if !ok || math.IsNaN(n) || n < 0 {
		return invalid("iterations", v, "a non-negative number")
	}
	t.iterations = n
	return nil
}

func applyDuration(t *Timing, v any) error {
	if s, ok := keyword(v); ok && s == "auto" {
		t.duration = 0
		t.durationAuto = true
		return nil
	}
	n, ok := toNumber(v)
	if !ok || math.IsNaN(n) || n < 0 {
		return invalid("duration", v, "non-negative or auto")
	}
	t.duration = n
	t.durationAuto = false
	return nil
}

func applyDirection(t *Timing, v any) error {
	if dir, ok := v.(Direction); ok {
		if _, known := directionNames[dir]; known {
			t.direction = dir
			return nil
		}
	}
	if s, ok := keyword(v); ok {
		if dir, ok := ParseDirection(s); ok {
			t.direction = dir
			return nil
		}
	}
	return invalid("direction", v, "one of normal, reverse, alternate, alternate-reverse")
}

func applyEasing(t *Timing, v any) error {
	switch e := v.(type) {
	case easing.Func:
		t.easing = e
		return nil
	case string:
		fn, err := easing.Parse(e)
		if err != nil {
			return fmt.Errorf("%w: easing: %w", ErrInvalidTiming, err)
		}
		t.easing = fn
		return nil
	}
	return fmt.Errorf("%w: easing: %w: %v", ErrInvalidTiming, easing.ErrInvalidEasing, v)
}

func applyPlaybackRate(t *Timing, v any) error {
	if !t.group {
		return invalid("playbackRate", v, "set on the animation for leaf effects")
	}
	n, ok := toNumber(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) || n == 0 {
		return invalid("playbackRate", v, "a finite non-zero number")
	}
	t.playbackRate = n
	return nil
}
