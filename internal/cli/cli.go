// Package cli implements the topolayer command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topolayer/pkg/cache"
	"github.com/matzehuels/topolayer/pkg/config"
	"github.com/matzehuels/topolayer/pkg/errors"
	"github.com/matzehuels/topolayer/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "topolayer"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Set from persistent flags.
	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the file cache unless
// --no-cache is set.
func (c *CLI) newRunner() (*pipeline.Runner, error) {
	ch, err := newCache(c.noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/topolayer/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// panelConfig loads the --config file, or returns the defaults when none is
// given.
func (c *CLI) panelConfig() (config.Config, error) {
	if c.configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("loaded panel config", "path", c.configPath, "layers", len(cfg.Layers))
	return cfg, nil
}

// pipelineOptions builds runner options for the given input files from the
// panel configuration.
func (c *CLI) pipelineOptions(inputs []string) (pipeline.Options, error) {
	cfg, err := c.panelConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.FromConfig(cfg)
	opts.Inputs = inputs
	opts.Logger = c.Logger
	opts.Refresh = c.noCache
	return opts, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// nopCloser wraps stdout so callers can close any output uniformly.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns stdout for an empty path and creates the file otherwise.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

// checkLayerFlag rejects a --layer below 1. The upper bound depends on the
// panel config and is checked by the pipeline.
func checkLayerFlag(layer int) error {
	if layer < 1 {
		return errors.New(errors.ErrCodeInvalidLayer, "--layer must be at least 1, got %d", layer)
	}
	return nil
}
