// motion plays and inspects web-animations style timelines in the terminal.
//
// Usage:
//
//	motion play [scene]       - Preview a scene (menu when no scene is given)
//	motion eval <timing>      - Print the progress of a timing over time
//	motion easing <easing>    - Sample an easing function
//	motion list               - List targets, scenes and easings
//	motion history            - Show recorded runs
//	motion serve              - Serve scene previews over SSH
//
// Global flags:
//
//	--config <path>  - Config file (default: ~/.motion/config.yaml)
//	--fps <rate>     - Preview frame rate
//	--db <path>      - Run history database
//	--strict         - Reject invalid timing instead of ignoring it
//	--verbose        - Debug logging
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/motion/internal/config"
	"github.com/vovakirdan/motion/internal/storage"
)

var (
	// Global flags
	flagConfig  string
	flagFPS     int
	flagDBPath  string
	flagStrict  bool
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "motion",
	Short: "motion - animation timing in your terminal",
	Long: `motion implements the web-animations timing model: delays, fills,
iterations, directions, easings and a play/pause/seek/reverse/finish
state machine, driven by a timeline and previewed in the terminal.

Available commands:
  play     - Preview a scene, interactively or headless
  eval     - Print the progress of a timing over time
  easing   - Sample an easing function
  list     - Show targets, scenes and easings
  history  - View recorded runs
  serve    - Start SSH server for remote previews

Examples:
  motion play showcase
  motion play ./my-scene.yaml --watch
  motion eval '{duration: 1000, iterations: 2, direction: alternate}'
  motion easing ease-in-out --samples 10
  motion serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Preview frame rate (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run history database (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagStrict, "strict", false, "Reject invalid timing values")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(easingCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig loads the configuration and applies the global flag overrides.
func loadConfig() config.Config {
	cfg, source, err := config.LoadWithSource(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagFPS > 0 {
		cfg.Preview.FPS = flagFPS
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagStrict {
		cfg.Engine.StrictTiming = true
	}
	if flagVerbose {
		cfg.Log.Level = "debug"
	}
	newLogger(cfg).Debug("config loaded", "source", source)
	return cfg
}

// newLogger returns the stderr logger at the configured level.
func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "motion",
	})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// openStore opens the run history, or returns nil when recording is off or
// the database cannot be opened.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	if !cfg.Storage.Record {
		return nil
	}
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open run database", "error", err)
		return nil
	}
	return store
}
