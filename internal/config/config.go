// Package config loads process settings from the environment and the team
// definition from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type StoreBackend string

const (
	BackendSQLite StoreBackend = "sqlite"
	BackendRedis  StoreBackend = "redis"
)

type Config struct {
	Port          string       `env:"PORT" envDefault:"8080"`
	BaseURL       string       `env:"BASE_URL"`
	DatabasePath  string       `env:"DATABASE_PATH" envDefault:"./data/courtside.db"`
	StoreBackend  StoreBackend `env:"STORE_BACKEND" envDefault:"sqlite"`
	RedisURL      string       `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisKey      string       `env:"REDIS_KEY" envDefault:"basketballGameHistory"`
	SyncURL       string       `env:"SYNC_URL"`
	SyncToken     string       `env:"SYNC_TOKEN"`
	OperatorToken string       `env:"OPERATOR_TOKEN"`
	LogLevel      logrus.Level `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string       `env:"LOG_FORMAT" envDefault:"json"`
	DevMode       bool         `env:"DEV_MODE"`
	TeamFile      string       `env:"TEAM_FILE"`
}

// Load reads an optional .env file from the working directory, then parses
// the environment. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the environment only.
func Parse() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	switch cfg.StoreBackend {
	case BackendSQLite, BackendRedis:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be sqlite or redis, got %q", cfg.StoreBackend)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.Port
	}
	return &cfg, nil
}

// NewLogger builds the process logger: text output in dev mode or when
// LOG_FORMAT=text, JSON otherwise.
func (c *Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(c.LogLevel)
	if c.DevMode || c.LogFormat == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}
