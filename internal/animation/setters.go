package animation

// setTiming routes a timing change through the animation so the next
// evaluation sees it. In lenient mode an invalid value is logged and
// ignored; an invalid easing falls back to linear.
func (a *Animation) setTiming(name string, value any) error {
	cur := a.effect.timing
	if a.strict {
		next, err := cur.With(name, value)
		if err != nil {
			return err
		}
		a.effect.timing = next
	} else {
		next, err := cur.WithLenient(name, value)
		if err != nil {
			a.logger.Debug("ignored timing input", "id", a.id, "field", name, "value", value, "err", err)
		}
		a.effect.timing = next
	}
	a.ensureAlive()
	a.sched.ApplyDirtied(a)
	return nil
}

func (a *Animation) SetDelay(ms float64) error { return a.setTiming("delay", ms) }

func (a *Animation) SetEndDelay(ms float64) error { return a.setTiming("endDelay", ms) }

// SetFill takes one of none, forwards, backwards or both.
func (a *Animation) SetFill(fill string) error { return a.setTiming("fill", fill) }

func (a *Animation) SetIterationStart(v float64) error { return a.setTiming("iterationStart", v) }

// SetIterations accepts +Inf for an endless animation.
func (a *Animation) SetIterations(v float64) error { return a.setTiming("iterations", v) }

func (a *Animation) SetDuration(ms float64) error { return a.setTiming("duration", ms) }

// SetDurationAuto sets the duration to auto, which is zero for a single
// effect.
func (a *Animation) SetDurationAuto() error { return a.setTiming("duration", "auto") }

// SetDirection takes one of normal, reverse, alternate or
// alternate-reverse.
func (a *Animation) SetDirection(dir string) error { return a.setTiming("direction", dir) }

// SetEasing takes any description easing.Parse accepts.
func (a *Animation) SetEasing(desc string) error { return a.setTiming("easing", desc) }
