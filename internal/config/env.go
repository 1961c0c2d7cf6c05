package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerConfig holds process-level settings for the serve and api commands.
// Values come from BOSSRUSH_* environment variables; CLI flags override them.
type ServerConfig struct {
	HTTPAddr    string        `env:"BOSSRUSH_HTTP_ADDR" envDefault:":8080"`
	SSHAddr     string        `env:"BOSSRUSH_SSH_ADDR" envDefault:":23235"`
	HostKeyPath string        `env:"BOSSRUSH_HOST_KEY"`
	DBPath      string        `env:"BOSSRUSH_DB" envDefault:"~/.bossrush/knights.db"`
	ConfigPath  string        `env:"BOSSRUSH_CONFIG"`
	LogLevel    string        `env:"BOSSRUSH_LOG_LEVEL" envDefault:"info"`
	IdleTimeout time.Duration `env:"BOSSRUSH_IDLE_TIMEOUT" envDefault:"30m"`
	Watch       bool          `env:"BOSSRUSH_WATCH"`
}

// LoadServerConfig parses ServerConfig from the environment.
func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
