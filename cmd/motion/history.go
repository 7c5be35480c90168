package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/motion/internal/platform/tui"
	"github.com/vovakirdan/motion/internal/storage"
)

var (
	flagHistoryScene string
	flagHistoryLimit int
	flagInteractive  bool
	flagClear        bool
	flagRunID        string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded runs",
	Long: `Display recently recorded scene runs and per-scene statistics.

Examples:
  motion history
  motion history --scene showcase --limit 5
  motion history --run 1b9d6bcd
  motion history --interactive
  motion history --scene fills --clear`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&flagHistoryScene, "scene", "", "Only show runs of this scene")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Maximum number of runs")
	historyCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse the history in a terminal UI")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the runs of --scene")
	historyCmd.Flags().StringVar(&flagRunID, "run", "", "Show the finish events of one run")
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagClear:
		if flagHistoryScene == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear needs --scene")
			os.Exit(1)
		}
		if err := store.ClearRuns(flagHistoryScene); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared runs of %s\n", flagHistoryScene)

	case flagRunID != "":
		printRun(store, flagRunID)

	case flagInteractive:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunHistory(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error running history: %v\n", err)
			os.Exit(1)
		}

	default:
		printHistory(store)
	}
}

func printHistory(store *storage.Store) {
	runs, err := store.RecentRuns(flagHistoryScene, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println("Play a scene to record one!")
		return
	}

	fmt.Printf("%-8s  %-12s  %-8s  %10s  %8s  %s\n", "Run", "Scene", "Source", "Time", "Finishes", "Date")
	fmt.Printf("%-8s  %-12s  %-8s  %10s  %8s  %s\n", "---", "-----", "------", "----", "--------", "----")
	for _, r := range runs {
		duration := "running"
		if !r.EndedAt.IsZero() {
			duration = fmt.Sprintf("%.0fms", r.Duration)
		}
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Printf("%-8s  %-12s  %-8s  %10s  %8d  %s\n",
			id, r.Scene, r.Source, duration, r.Finishes, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetSceneStats()
	if err != nil || len(stats) == 0 {
		return
	}
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println()
	fmt.Println("Scenes:")
	for _, name := range names {
		st := stats[name]
		fmt.Printf("  %-12s  %3d runs  %4d finishes  avg %.0fms  last %s\n",
			name, st.Runs, st.Finishes, st.AvgDuration, st.LastPlayed.Format("Jan 02 15:04"))
	}
}

// printRun prints one run and its finish events. Unique prefixes of the
// run ID are accepted.
func printRun(store *storage.Store, id string) {
	run, err := store.RunByID(id)
	if err == nil && run == nil {
		run, err = findRunByPrefix(store, id)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving run: %v\n", err)
		os.Exit(1)
	}
	if run == nil {
		fmt.Fprintf(os.Stderr, "Error: no run %q\n", id)
		os.Exit(1)
	}

	fmt.Printf("Run %s\n", run.ID)
	fmt.Printf("  scene    %s (%s)\n", run.Scene, run.Source)
	fmt.Printf("  started  %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	if !run.EndedAt.IsZero() {
		fmt.Printf("  ended    %s after %.0fms\n", run.EndedAt.Format("2006-01-02 15:04:05"), run.Duration)
	}

	finishes, err := store.RunFinishes(run.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving finish events: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()
	if len(finishes) == 0 {
		fmt.Println("No finish events.")
		return
	}
	for _, f := range finishes {
		fmt.Printf("  %8.0fms  %-14s current time %.0fms\n", f.TimelineTime, f.AnimationID, f.CurrentTime)
	}
}

// findRunByPrefix looks for a single recent run whose ID starts with prefix.
func findRunByPrefix(store *storage.Store, prefix string) (*storage.Run, error) {
	runs, err := store.RecentRuns("", 1000)
	if err != nil {
		return nil, err
	}
	var found *storage.Run
	for i := range runs {
		if len(runs[i].ID) < len(prefix) || runs[i].ID[:len(prefix)] != prefix {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("run prefix %q is ambiguous", prefix)
		}
		found = &runs[i]
	}
	return found, nil
}
