package easing

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidEasing is returned by Parse for descriptions it does not
// recognise.
var ErrInvalidEasing = errors.New("invalid easing")

var (
	cubicRe = regexp.MustCompile(`^cubic-bezier\((.*)\)$`)
	step1Re = regexp.MustCompile(`^steps\(\s*(\d+)\s*\)$`)
	step2Re = regexp.MustCompile(`^steps\(\s*(\d+)\s*,\s*(start|middle|end)\s*\)$`)
)

var stepPositions = map[string]StepPosition{
	"start":  PositionStart,
	"middle": PositionMiddle,
	"end":    PositionEnd,
}

// Parse converts a textual easing description into a Func.
func Parse(desc string) (Func, error) {
	s := strings.ToLower(strings.TrimSpace(desc))

	if fn, ok := presets[s]; ok {
		return fn, nil
	}
	if _, ok := tweens[s]; ok {
		return Tween{Name: s}, nil
	}

	if m := cubicRe.FindStringSubmatch(s); m != nil {
		args := strings.Split(m[1], ",")
		if len(args) != 4 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEasing, desc)
		}
		var p [4]float64
		for i, arg := range args {
			v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: %q", ErrInvalidEasing, desc)
			}
			p[i] = v
		}
		return NewCubicBezier(p[0], p[1], p[2], p[3]), nil
	}

	if m := step1Re.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEasing, desc)
		}
		return NewSteps(n, PositionEnd), nil
	}

	if m := step2Re.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEasing, desc)
		}
		return NewSteps(n, stepPositions[m[2]]), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidEasing, desc)
}

// Names returns every keyword Parse accepts, presets first.
func Names() []string {
	names := make([]string, 0, len(presets)+len(tweens))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)

	extended := make([]string, 0, len(tweens))
	for name := range tweens {
		extended = append(extended, name)
	}
	sort.Strings(extended)

	return append(names, extended...)
}

// IsPreset reports whether name is one of the CSS keyword easings.
func IsPreset(name string) bool {
	_, ok := presets[name]
	return ok
}
