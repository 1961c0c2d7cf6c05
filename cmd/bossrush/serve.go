package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/boss-rush/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagWatch       bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the boss rush SSH server",
	Long: `Start an SSH server that allows users to connect and fight.

Each SSH connection gets its own arena and boss picker. The SSH user name
is the knight name when it is 3 to 16 letters, otherwise "Knight".
Profiles and fight history are shared by everyone on the server.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.bossrush/host_key

Examples:
  bossrush serve                            # Listen on :23235 with auto-generated key
  bossrush serve --ssh :2222                # Listen on port 2222
  bossrush serve --config ./bosses.yaml --watch

Users can connect with:
  ssh lancelot@localhost -p 23235`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (env BOSSRUSH_SSH_ADDR)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (env BOSSRUSH_IDLE_TIMEOUT)")
	serveCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the roster when the --config file changes")
}

func runServe(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	sshCfg := tui.DefaultSSHServerConfig()
	sshCfg.Address = settings.SSHAddr
	sshCfg.HostKeyPath = settings.HostKeyPath
	if settings.IdleTimeout > 0 {
		sshCfg.IdleTimeout = settings.IdleTimeout
	}
	if flags.Changed("ssh") {
		sshCfg.Address = flagSSHAddr
	}
	if flags.Changed("host-key") {
		sshCfg.HostKeyPath = flagHostKey
	}
	if flags.Changed("idle-timeout") {
		sshCfg.IdleTimeout = flagIdleTimeout
	}
	if flags.Changed("watch") {
		settings.Watch = flagWatch
	}

	cfg, err := loadRoster()
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	server, err := tui.NewSSHServer(sshCfg, store, cfg, logger)
	if err != nil {
		return err
	}

	stopWatch, err := watchRoster(server.SetConfig)
	if err != nil {
		return err
	}
	defer stopWatch()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting boss rush SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(ctx)
}
