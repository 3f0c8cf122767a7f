package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string `env:"SCRIPTVAULT_HTTP_ADDR" envDefault:":8080"`
	DataDir  string `env:"SCRIPTVAULT_DATA_DIR" envDefault:"data"`
	DBPath   string `env:"SCRIPTVAULT_DB_PATH"`
	WebDir   string `env:"SCRIPTVAULT_WEB_DIR" envDefault:"web"`
	LogLevel string `env:"SCRIPTVAULT_LOG_LEVEL" envDefault:"info"`

	// ShellVersion is the cache generation tag. Bumping it at deploy time
	// is the only mechanism that invalidates the cached shell.
	ShellVersion  string `env:"SCRIPTVAULT_SHELL_VERSION" envDefault:"v1"`
	ShellManifest string `env:"SCRIPTVAULT_SHELL_MANIFEST"`

	// SeedDefaults controls first-run seeding of the stock script set.
	SeedDefaults bool `env:"SCRIPTVAULT_SEED_DEFAULTS" envDefault:"true"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "scriptvault.db")
	}
	return cfg, nil
}
