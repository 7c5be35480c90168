package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/motion/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServeScene  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the motion SSH server",
	Long: `Start an SSH server that plays scenes for every connection.

Each SSH connection gets its own session. It opens the configured scene
(server.scene, or --scene) and returns to the scene picker on Esc.
Runs are recorded with source "ssh" in the shared history.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.motion/host_key

Examples:
  motion serve                           # Listen on the configured address
  motion serve --ssh :2222               # Listen on port 2222
  motion serve --scene control           # Open the control scene first
  motion serve --scene ""                # Start at the scene picker

Users can connect with:
  ssh localhost -p 23235`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes (0 = from config)")
	serveCmd.Flags().StringVar(&flagServeScene, "scene", "", "Scene opened for every session (default from config)")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(cfg).WithPrefix("motion-ssh")

	if flagSSHAddr != "" {
		cfg.Server.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.Server.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.Server.IdleTimeoutMinutes = flagIdleTimeout
	}
	if cmd.Flags().Changed("scene") {
		cfg.Server.Scene = flagServeScene
	}

	dbPath := cfg.Storage.DBPath
	if !cfg.Storage.Record {
		dbPath = ""
	}
	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     cfg.Server.Address,
		HostKeyPath: cfg.Server.HostKeyPath,
		DBPath:      dbPath,
		IdleTimeout: time.Duration(cfg.Server.IdleTimeoutMinutes) * time.Minute,
		Scene:       cfg.Server.Scene,
		FPS:         cfg.Preview.FPS,
		Strict:      cfg.Engine.StrictTiming,
		Loop:        cfg.Preview.Loop,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting motion SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
