package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/motion/internal/config"
	"github.com/vovakirdan/motion/internal/platform/tui"
	"github.com/vovakirdan/motion/internal/scene"
)

var (
	flagWatch    bool
	flagLoop     bool
	flagHeadless bool
	flagStep     float64
	flagMaxTime  float64
	flagNoRecord bool
	flagWidth    int
)

var playCmd = &cobra.Command{
	Use:   "play [scene]",
	Short: "Preview a scene",
	Long: `Play a scene in the terminal. The scene is a file path or the name of a
scene in ~/.motion/scenes, ./scenes or the built-in set. Without a scene the
interactive scene picker opens.

Controls:
  Up/Down    - Select track
  Space      - Play/pause the selected track
  R          - Reverse
  F / C      - Finish / cancel
  Left/Right - Seek -/+ 250ms
  + / -      - Double / halve the playback rate
  P          - Freeze the clock
  N          - Restart the scene
  Q/Ctrl+C   - Quit

Examples:
  motion play
  motion play showcase
  motion play ./bounce.yaml --watch
  motion play fills --headless --step 100`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the scene file when it changes")
	playCmd.Flags().BoolVar(&flagLoop, "loop", false, "Restart the scene when it ends")
	playCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run without a terminal UI and print finish events")
	playCmd.Flags().Float64Var(&flagStep, "step", 0, "Headless frame step in ms (0 = 1000/fps)")
	playCmd.Flags().Float64Var(&flagMaxTime, "max", 60000, "Headless time cap in ms (0 = no cap)")
	playCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not record the run")
	playCmd.Flags().IntVar(&flagWidth, "width", 60, "Headless frame width")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if flagNoRecord {
		cfg.Storage.Record = false
	}
	if flagLoop {
		cfg.Preview.Loop = true
	}

	if flagHeadless {
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "Error: --headless needs a scene")
			os.Exit(1)
		}
		runHeadless(cmd.Context(), cfg, args[0])
		return
	}

	logger, closeLog := previewLogger(cfg)
	defer closeLog()
	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	if len(args) == 0 {
		err := tui.RunSession(tui.SessionConfig{
			Store:    store,
			Source:   "cli",
			FPS:      cfg.Preview.FPS,
			Strict:   cfg.Engine.StrictTiming,
			Loop:     cfg.Preview.Loop,
			ShowHelp: cfg.Preview.ShowHelp,
			Logger:   logger,
			Width:    width,
			Height:   height,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running menu: %v\n", err)
			os.Exit(1)
		}
		return
	}

	s, path := mustLoadScene(args[0])

	var reload <-chan struct{}
	if flagWatch {
		if path == "" {
			fmt.Fprintf(os.Stderr, "Warning: built-in scene %q cannot be watched\n", s.Name)
		} else {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			ch, err := config.Watch(ctx, path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error watching %s: %v\n", path, err)
				os.Exit(1)
			}
			reload = ch
		}
	}

	opts := scene.Options{
		Strict: cfg.Engine.StrictTiming,
		Logger: logger,
		Source: "cli",
	}
	if store != nil {
		opts.Recorder = store
	}

	summary, err := tui.RunPreview(tui.PreviewConfig{
		Scene:    s,
		Path:     path,
		Runner:   opts,
		FPS:      cfg.Preview.FPS,
		BarWidth: cfg.Preview.BarWidth,
		ShowHelp: cfg.Preview.ShowHelp,
		Loop:     cfg.Preview.Loop,
		Reload:   reload,
		Width:    width,
		Height:   height,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running preview: %v\n", err)
		os.Exit(1)
	}
	printSummary(summary)
}

// runHeadless plays a scene in fixed steps and prints its finish events.
func runHeadless(ctx context.Context, cfg config.Config, ref string) {
	logger := newLogger(cfg)
	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}
	s, _ := mustLoadScene(ref)

	event := color.New(color.FgCyan)
	opts := scene.Options{
		Strict: cfg.Engine.StrictTiming,
		Logger: logger,
		Source: "headless",
		OnFinish: func(f scene.Finish) {
			event.Printf("%8.0fms", f.TimelineTime)
			fmt.Printf("  %-14s finished (current time %.0fms)\n", f.Track.Label(), f.CurrentTime)
		},
	}
	if store != nil {
		opts.Recorder = store
	}

	r, err := scene.New(s, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	step := flagStep
	if step <= 0 {
		step = 1000 / float64(cfg.Preview.FPS)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	summary, err := r.Run(ctx, step, flagMaxTime)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(r.Canvas(flagWidth).String())
	fmt.Println()
	printSummary(summary)
}

// mustLoadScene loads a scene or exits with a hint.
func mustLoadScene(ref string) (config.Scene, string) {
	s, path, err := config.LoadScene(ref)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'motion list' to see available scenes.")
		os.Exit(1)
	}
	return s, path
}

// previewLogger keeps log output off the terminal UI: debug logs go to
// ~/.motion/motion.log, everything else is dropped.
func previewLogger(cfg config.Config) (*log.Logger, func()) {
	if cfg.Log.Level != "debug" {
		return log.New(io.Discard), func() {}
	}
	dir := config.Dir()
	if dir == "" {
		return log.New(io.Discard), func() {}
	}
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)
	f, err := os.OpenFile(filepath.Join(dir, "motion.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	logger := log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "motion"})
	logger.SetLevel(log.DebugLevel)
	return logger, func() { f.Close() }
}

// printSummary prints the outcome of a run.
func printSummary(s scene.Summary) {
	bold := color.New(color.Bold)
	bold.Printf("Scene %s", s.Scene)
	fmt.Printf(" ran for %.0fms\n", s.Duration)
	if s.RunID != "" {
		fmt.Printf("Recorded as run %s\n", s.RunID)
	}

	ids := make([]string, 0, len(s.Finishes))
	for id := range s.Finishes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Printf("  %-14s %d finish events\n", id, s.Finishes[id])
	}
}
