package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mathrush/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mathrush SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own game engine and a mode picker menu.
Recent runs are kept per SSH user; every run is also archived in SQLite
under the user's name (see 'mathrush stats --player <name>').

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.mathrush/host_key

Examples:
  mathrush serve                           # Listen on :23234 with auto-generated key
  mathrush serve --ssh :2222               # Listen on port 2222
  mathrush serve --host-key ./my_host_key  # Use specific host key
  mathrush serve --backend redis           # Keep recent runs in Redis

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, logToStderr)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}

	backend := tui.SSHBackend{Game: a.game, KV: a.kv}
	if a.archive != nil {
		backend.Archives = a.archive
	}

	server, err := tui.NewSSHServer(cfg, backend, a.logger)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	fmt.Printf("Starting mathrush SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.ListenAndServe(ctx)
}
