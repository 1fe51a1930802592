package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/natefinch/atomic"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = ".pagehydrate.yml"

// EnvPrefix prefixes environment overrides, e.g. PAGEHYDRATE_OUTPUT_DIR.
const EnvPrefix = "PAGEHYDRATE_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PAGEHYDRATE_*). A missing file is not an
// error: defaults are used.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// PAGEHYDRATE_SERVER__PORT -> server.port; a single underscore stays
	// part of the key (output_dir).
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Unmarshal merges slices element-wise into the defaults; a configured
	// list replaces the default one instead.
	if k.Exists("include") {
		cfg.Include = k.Strings("include")
	}
	if k.Exists("exclude") {
		cfg.Exclude = k.Strings("exclude")
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.SiteDir == "" {
		return fmt.Errorf("site_dir is required")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	if samePath(c.SiteDir, c.OutputDir) {
		return fmt.Errorf("output_dir must differ from site_dir: building would overwrite the authored pages")
	}

	if c.ContentSource == "" {
		return fmt.Errorf("content_source is required")
	}

	if len(c.Include) == 0 {
		return fmt.Errorf("include must list at least one pattern")
	}

	if _, ok := validLogLevels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535")
	}

	markers := map[string]string{
		"text": c.Markers.Text, "html": c.Markers.HTML, "href": c.Markers.Href,
		"style": c.Markers.Style, "image": c.Markers.Image,
		"markdown": c.Markers.Markdown, "list": c.Markers.List,
	}
	seen := make(map[string]string)
	for name, attr := range markers {
		if attr == "" {
			continue
		}
		if strings.ContainsAny(attr, " \t\"'=[]") {
			return fmt.Errorf("markers.%s: invalid attribute name %q", name, attr)
		}
		if other, dup := seen[attr]; dup {
			return fmt.Errorf("markers.%s and markers.%s both use %q", name, other, attr)
		}
		seen[attr] = name
	}

	return nil
}

// samePath reports whether a and b name the same directory.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// SlogLevel returns the slog level for LogLevel, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	if lvl, ok := validLogLevels[strings.ToLower(c.LogLevel)]; ok {
		return lvl
	}
	return slog.LevelInfo
}
