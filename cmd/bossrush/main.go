// bossrush is a terminal boss-rush arena: a knight takes on goblins, ogres
// and dragons in a fixed-step combat simulation.
//
// Usage:
//
//	bossrush bosses              - List bosses and their fight stats
//	bossrush knight <cmd>        - Create, show, update, delete or list knights
//	bossrush play [boss]         - Fight in this terminal
//	bossrush serve               - Start SSH server for remote play
//	bossrush api                 - Start the HTTP API
//	bossrush history [knight]    - Show recent fights
//
// Global flags:
//
//	--db <path>         - Knight database (default: ~/.bossrush/knights.db)
//	--config <path>     - Boss roster YAML
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/boss-rush/internal/config"
	"github.com/vovakirdan/boss-rush/internal/storage"
)

var (
	// Global flags
	flagDBPath     string
	flagConfigPath string
	flagLogLevel   string

	// settings holds env defaults merged with explicit flags.
	settings config.ServerConfig
	logger   *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bossrush",
	Short: "Boss Rush - fight bosses in your terminal",
	Long: `Boss Rush pits your knight against a roster of bosses.

Available commands:
  bosses   - Show the boss roster and fight statistics
  knight   - Manage knight profiles
  play     - Fight a boss in this terminal
  serve    - Start SSH server for remote play
  api      - Start the HTTP API
  history  - Show recent fights

Examples:
  bossrush knight create Arthur
  bossrush play goblin --knight Arthur
  bossrush serve --ssh :2222
  bossrush api --http :8080 --watch --config ./bosses.yaml`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to knight database (env BOSSRUSH_DB)")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to boss roster YAML (env BOSSRUSH_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (env BOSSRUSH_LOG_LEVEL)")

	rootCmd.AddCommand(bossesCmd)
	rootCmd.AddCommand(knightCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(historyCmd)
}

// setup reads BOSSRUSH_* settings, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = flagDBPath
	}
	if flags.Changed("config") {
		cfg.ConfigPath = flagConfigPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "bossrush",
		Level:           level,
	})
	settings = cfg
	return nil
}

func openStore() (*storage.Store, error) {
	store, err := storage.Open(settings.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open knight database: %w", err)
	}
	return store, nil
}

func loadRoster() (config.Config, error) {
	cfg, err := config.Load(settings.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load boss roster: %w", err)
	}
	return cfg, nil
}

// watchRoster hot-reloads the roster file when --watch is set.
// It returns a no-op closer when watching is off.
func watchRoster(onReload func(config.Config)) (func(), error) {
	if !settings.Watch {
		return func() {}, nil
	}
	if settings.ConfigPath == "" {
		return nil, fmt.Errorf("--watch needs --config or BOSSRUSH_CONFIG")
	}
	w, err := config.Watch(settings.ConfigPath, logger, onReload)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", settings.ConfigPath, err)
	}
	logger.Info("watching roster", "path", settings.ConfigPath)
	return func() { _ = w.Close() }, nil
}
