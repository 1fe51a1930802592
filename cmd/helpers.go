package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ziadkadry99/pagehydrate/internal/config"
	"github.com/ziadkadry99/pagehydrate/internal/fetch"
	"github.com/ziadkadry99/pagehydrate/internal/hydrate"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `pagehydrate init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger. --verbose forces debug output.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newHydrator wires a hydrator and content source from cfg. A non-empty
// location overrides cfg.ContentSource.
func newHydrator(cfg *config.Config, location string, logger *slog.Logger) (*hydrate.Hydrator, fetch.Source) {
	if location == "" {
		location = cfg.ContentSource
	}
	return hydrate.New(cfg.HydrateOptions(), logger), fetch.NewSource(location)
}
