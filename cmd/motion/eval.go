package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/motion/internal/timing"
)

var (
	flagFrom  float64
	flagTo    float64
	flagEvery float64
	flagGroup bool
)

var evalCmd = &cobra.Command{
	Use:   "eval <timing>",
	Short: "Print the progress of a timing over time",
	Long: `Evaluate a timing at evenly spaced local times and print the phase,
active time, current iteration and eased progress at each one.

The timing is a duration in ms or a YAML mapping with any of the fields
delay, endDelay, fill, iterationStart, iterations, duration, playbackRate,
direction and easing.

Examples:
  motion eval 1000
  motion eval '{duration: 1000, iterations: 2, direction: alternate}'
  motion eval '{delay: 200, duration: 500, fill: both}' --from -100 --step 50`,
	Args: cobra.ExactArgs(1),
	Run:  runEval,
}

func init() {
	evalCmd.Flags().Float64Var(&flagFrom, "from", 0, "First local time in ms")
	evalCmd.Flags().Float64Var(&flagTo, "to", 0, "Last local time in ms (0 = end of the effect)")
	evalCmd.Flags().Float64Var(&flagEvery, "step", 0, "Interval in ms (0 = 20 samples)")
	evalCmd.Flags().BoolVar(&flagGroup, "group", false, "Use group defaults (fill both, auto duration)")
}

func runEval(cmd *cobra.Command, args []string) {
	t, err := parseTimingArg(args[0], flagGroup)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	times, err := sampleTimes(t, flagFrom, flagTo, flagEvery)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	header := color.New(color.Bold)
	header.Printf("duration %s  active %s  total %s  easing %s\n",
		formatMS(t.Duration()), formatMS(t.ActiveDuration()), formatMS(t.TotalDuration()), t.Easing())
	fmt.Println(formatInput(t.Input()))
	fmt.Println()
	header.Printf("%9s  %-6s  %9s  %5s  %8s  %8s\n", "local", "phase", "active", "iter", "directed", "progress")

	for _, lt := range times {
		fmt.Println(formatSample(t.Evaluate(lt)))
	}
}

// parseTimingArg reads a duration or a YAML timing mapping and validates it.
func parseTimingArg(arg string, group bool) (timing.Timing, error) {
	var input any
	if err := yaml.Unmarshal([]byte(arg), &input); err != nil {
		return timing.Timing{}, fmt.Errorf("cannot parse timing %q: %w", arg, err)
	}
	return timing.Parse(input, group)
}

// sampleTimes returns the local times to evaluate. Without an explicit end
// the samples stop at the end of the effect, or after three iterations of
// an endless one. An endless effect without a finite duration gets a
// window of endlessWindow ms after its delay.
func sampleTimes(t timing.Timing, from, to, step float64) ([]float64, error) {
	if !finite(from) {
		return nil, fmt.Errorf("--from %v is not a finite time", from)
	}
	if !finite(step) {
		return nil, fmt.Errorf("--step %v is not a finite interval", step)
	}
	if to == 0 {
		to = t.TotalDuration()
		if !finite(to) {
			if d := t.Duration(); finite(d) && d > 0 {
				to = t.Delay() + 3*d
			} else {
				to = t.Delay() + endlessWindow
			}
		}
	}
	if !finite(to) {
		return nil, fmt.Errorf("--to %v is not a finite time", to)
	}
	if to < from {
		return nil, fmt.Errorf("--to %v is before --from %v", to, from)
	}
	if step <= 0 {
		step = (to - from) / 20
		if step == 0 {
			return []float64{from}, nil
		}
	}

	var times []float64
	for i := 0; ; i++ {
		lt := from + float64(i)*step
		if lt > to+1e-9 {
			break
		}
		times = append(times, lt)
	}
	return times, nil
}

// formatInput prints a resolved timing as a flow mapping that can be passed
// back to eval or pasted into a scene file.
func formatInput(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := m[k]
		switch x := v.(type) {
		case string:
			v = strconv.Quote(x)
		case float64:
			switch {
			case math.IsInf(x, 1):
				v = ".inf"
			case math.IsInf(x, -1):
				v = "-.inf"
			}
		}
		parts = append(parts, fmt.Sprintf("%s: %v", k, v))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

var phaseColors = map[timing.Phase]*color.Color{
	timing.PhaseBefore: color.New(color.FgYellow),
	timing.PhaseActive: color.New(color.FgGreen),
	timing.PhaseAfter:  color.New(color.FgBlue),
}

// formatSample formats one row of the eval table.
func formatSample(s timing.Sample) string {
	phase := fmt.Sprintf("%-6s", s.Phase)
	if c, ok := phaseColors[s.Phase]; ok {
		phase = c.Sprint(phase)
	}
	if !s.InEffect {
		return fmt.Sprintf("%9.1f  %s  %9s  %5s  %8s  %8s", s.LocalTime, phase, "-", "-", "-", "-")
	}
	return fmt.Sprintf("%9.1f  %s  %9.1f  %5.0f  %8.4f  %8.4f  %s",
		s.LocalTime, phase, s.ActiveTime, s.CurrentIteration, s.DirectedProgress, s.Progress, bar(s.Progress, 20))
}

// bar draws progress as a row of width cells.
func bar(p float64, width int) string {
	n := int(math.Round(math.Max(0, math.Min(1, p)) * float64(width)))
	return strings.Repeat("█", n) + strings.Repeat("·", width-n)
}

func formatMS(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	return fmt.Sprintf("%gms", v)
}

const endlessWindow = 1000

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
