package timing

import "math"

// CalculatePhase classifies localTime relative to the delay, active and end
// delay window of t.
func CalculatePhase(activeDuration, localTime float64, t Timing) Phase {
	if IsUnresolved(localTime) {
		return PhaseNone
	}
	endTime := t.delay + activeDuration + t.endDelay
	if localTime < math.Min(t.delay, endTime) {
		return PhaseBefore
	}
	if localTime >= math.Min(t.delay+activeDuration, endTime) {
		return PhaseAfter
	}
	return PhaseActive
}

// CalculateActiveTime returns the time since the start of the active
// interval. Outside the interval the fill mode decides between a boundary
// value and no value.
func CalculateActiveTime(activeDuration float64, fill FillMode, localTime float64, phase Phase, delay float64) (float64, bool) {
	switch phase {
	case PhaseBefore:
		if fill.fillsBackwards() {
			return 0, true
		}
		return 0, false
	case PhaseActive:
		return localTime - delay, true
	case PhaseAfter:
		if fill.fillsForwards() {
			return activeDuration, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// CalculateOverallProgress returns the number of iterations completed,
// offset by iterationStart.
func CalculateOverallProgress(iterationDuration float64, phase Phase, iterations, activeTime, iterationStart float64) float64 {
	overall := iterationStart
	if iterationDuration == 0 {
		if phase != PhaseBefore {
			overall += iterations
		}
	} else {
		overall += activeTime / iterationDuration
	}
	return overall
}

// CalculateSimpleIterationProgress returns the fraction of the current
// iteration. Landing exactly on an iteration boundary in the after phase
// reports 1, the end of the previous iteration.
func CalculateSimpleIterationProgress(overallProgress, iterationStart float64, phase Phase, iterations, activeTime, iterationDuration float64) float64 {
	var simple float64
	if math.IsInf(overallProgress, 1) {
		simple = math.Mod(iterationStart, 1)
	} else {
		simple = math.Mod(overallProgress, 1)
	}
	if simple == 0 && phase == PhaseAfter && iterations != 0 &&
		(activeTime != 0 || iterationDuration == 0) {
		simple = 1
	}
	return simple
}

// CalculateCurrentIteration returns the zero-based index of the iteration in
// progress.
func CalculateCurrentIteration(phase Phase, iterations, simpleProgress, overallProgress float64) float64 {
	if phase == PhaseAfter && math.IsInf(iterations, 1) {
		return math.Inf(1)
	}
	if simpleProgress == 1 {
		return math.Floor(overallProgress) - 1
	}
	return math.Floor(overallProgress)
}

// CalculateDirectedProgress applies the playback direction of the current
// iteration to simpleProgress.
func CalculateDirectedProgress(direction Direction, currentIteration, simpleProgress float64) float64 {
	reversed := direction == DirectionReverse
	if direction == DirectionAlternate || direction == DirectionAlternateReverse {
		d := currentIteration
		if direction == DirectionAlternateReverse {
			d++
		}
		reversed = !math.IsInf(d, 0) && math.Mod(d, 2) != 0
	}
	if reversed {
		return 1 - simpleProgress
	}
	return simpleProgress
}

// CalculateIterationProgress runs the full pipeline and returns the eased
// directed progress, or false when the effect has no value at localTime.
func CalculateIterationProgress(activeDuration, localTime float64, t Timing) (float64, bool) {
	phase := CalculatePhase(activeDuration, localTime, t)
	active, ok := CalculateActiveTime(activeDuration, t.fill, localTime, phase, t.delay)
	if !ok {
		return 0, false
	}

	overall := CalculateOverallProgress(t.duration, phase, t.iterations, active, t.iterationStart)
	simple := CalculateSimpleIterationProgress(overall, t.iterationStart, phase, t.iterations, active, t.duration)
	iteration := CalculateCurrentIteration(phase, t.iterations, simple, overall)
	directed := CalculateDirectedProgress(t.direction, iteration, simple)

	return t.Easing().Eval(directed), true
}
