package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-entry/app"
	kernel "github.com/km-arc/go-entry/framework/app"
	"github.com/km-arc/go-entry/framework/config"
	"github.com/km-arc/go-entry/framework/logging"
)

func main() {
	configPath := flag.String("config", "", "TOML or YAML config overlaid on the .env defaults")
	envFile := flag.String("env", ".env", "dotenv file")
	statsEvery := flag.Float64("stats", 5, "seconds between frame stat summaries, 0 disables them")
	flag.Parse()

	if err := run(*configPath, *envFile, *statsEvery); err != nil {
		fmt.Fprintf(os.Stderr, "go-entry: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, envFile string, statsEvery float64) error {
	cfg, err := loadConfig(configPath, envFile)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	application, err := kernel.New(cfg, log, kernel.WithStatsInterval(statsEvery))
	if err != nil {
		return err
	}
	if err := application.Register(&app.SceneProvider{Log: log}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return application.Run(ctx)
}

func loadConfig(path, envFile string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path, envFile)
	}
	cfg := config.Load(envFile)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logging.New(loggerConfig(cfg))
}

// loggerConfig layers the config file and then ENTRY_LOG_* over the profile
// for the environment. Production always logs JSON.
func loggerConfig(cfg *config.Config) logging.Config {
	profile := logging.ProfileRuntime
	if cfg.App.Env == "testing" {
		profile = logging.ProfileTest
	}
	lc := logging.DefaultConfig(profile)
	if lvl, ok := logging.ParseLevel(cfg.Log.Level); ok {
		lc.Level = lvl
	}
	lc.JSON = cfg.Log.JSON || cfg.IsProduction()
	lc.NoColor = lc.NoColor || cfg.Log.NoColor
	logging.ApplyEnv(&lc)
	return lc
}
