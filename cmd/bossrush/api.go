package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/boss-rush/internal/arena"
	"github.com/vovakirdan/boss-rush/internal/config"
	"github.com/vovakirdan/boss-rush/internal/profile"
	"github.com/vovakirdan/boss-rush/internal/server"
)

var (
	flagHTTPAddr string
	flagAPIWatch bool
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API",
	Long: `Serve the arena over HTTP with JSON endpoints and a websocket event stream.

The API drives a single shared arena: one fight at a time for all clients.

Endpoints:
  GET    /health
  POST   /api/knight              GET/PUT/DELETE /api/knight/:name
  GET    /api/knights
  POST   /api/start_boss/:boss_id POST /api/action    GET /api/state
  GET    /api/events              GET  /api/events/ws
  GET    /api/save/:name          GET  /api/load/:name
  GET    /api/bosses              GET  /api/fights

Examples:
  bossrush api
  bossrush api --http :9000 --config ./bosses.yaml --watch`,
	Args: cobra.NoArgs,
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP listen address (env BOSSRUSH_HTTP_ADDR)")
	apiCmd.Flags().BoolVar(&flagAPIWatch, "watch", false, "Reload the roster when the --config file changes")
}

func runAPI(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	addr := settings.HTTPAddr
	if flags.Changed("http") {
		addr = flagHTTPAddr
	}
	if flags.Changed("watch") {
		settings.Watch = flagAPIWatch
	}
	if logger.GetLevel() > log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
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

	profiles := profile.NewService(store)
	a := arena.New(profiles, store, cfg, logger)

	stopWatch, err := watchRoster(func(c config.Config) {
		a.SetRoster(c.Bosses)
	})
	if err != nil {
		return err
	}
	defer stopWatch()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(a, profiles, store, logger).ListenAndServe(ctx, addr)
}
