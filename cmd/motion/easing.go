package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/motion/internal/easing"
)

var (
	flagSamples int
	flagHeight  int
)

var easingCmd = &cobra.Command{
	Use:   "easing <easing>",
	Short: "Sample an easing function",
	Long: `Print an easing function at evenly spaced inputs and plot it.

Accepted forms: linear, ease, ease-in, ease-out, ease-in-out,
step-start, step-middle, step-end, cubic-bezier(x1, y1, x2, y2),
steps(n[, start|middle|end]) and the extended tweens listed by
'motion list'.

Examples:
  motion easing ease-in-out
  motion easing 'cubic-bezier(0.3, -0.5, 0.7, 1.5)' --samples 40
  motion easing 'steps(4, start)'`,
	Args: cobra.ExactArgs(1),
	Run:  runEasing,
}

func init() {
	easingCmd.Flags().IntVar(&flagSamples, "samples", 10, "Number of intervals between 0 and 1")
	easingCmd.Flags().IntVar(&flagHeight, "height", 10, "Plot height in rows (0 = no plot)")
}

func runEasing(cmd *cobra.Command, args []string) {
	fn, err := easing.Parse(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'motion list' to see the easing keywords.")
		os.Exit(1)
	}
	if flagSamples < 1 {
		flagSamples = 1
	}

	values := sampleEasing(fn, flagSamples)
	color.New(color.Bold).Println(fn)
	for i, v := range values {
		fmt.Printf("  %5.3f  %8.4f\n", float64(i)/float64(flagSamples), v)
	}

	if flagHeight > 0 {
		fmt.Println()
		fmt.Println(plot(values, flagHeight))
	}
}

// sampleEasing evaluates fn at n+1 evenly spaced inputs in [0, 1].
func sampleEasing(fn easing.Func, n int) []float64 {
	values := make([]float64, n+1)
	for i := range values {
		values[i] = fn.Eval(float64(i) / float64(n))
	}
	return values
}

// plot draws values as a column chart of the given height. Rows cover the
// range of the values so overshooting curves stay visible.
func plot(values []float64, height int) string {
	lo, hi := 0.0, 1.0
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	rows := make([]string, height)
	for r := range height {
		level := hi - (hi-lo)*float64(r)/float64(height)
		next := hi - (hi-lo)*float64(r+1)/float64(height)
		var b strings.Builder
		for _, v := range values {
			switch {
			case v >= level:
				b.WriteRune('█')
			case v > next:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		rows[r] = fmt.Sprintf("%6.2f │%s", level, b.String())
	}
	return strings.Join(rows, "\n")
}
