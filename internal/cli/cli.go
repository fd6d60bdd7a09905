// Package cli implements the kintree command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/kintree/internal/config"
	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/family"
	kio "github.com/matzehuels/kintree/pkg/io"
	"github.com/matzehuels/kintree/pkg/projection"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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

	out         io.Writer
	configPath  string
	metricsFile string
	verbose     bool

	cfg      config.Config
	registry *prometheus.Registry
}

// New creates a CLI that prints results to out and logs to logw.
func New(out, logw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(logw, level),
		out:    out,
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Store and Projection Factories
// =============================================================================

// storeOptions returns the configured store options.
func (c *CLI) storeOptions() family.Options {
	opts := c.cfg.StoreOptions()
	opts.Logger = c.Logger
	return opts
}

// openStore loads a records file into a new store. With allowMissing, a
// file that does not exist yet yields an empty store.
func (c *CLI) openStore(path string, allowMissing bool) (*family.Store, error) {
	s := family.NewStore(c.storeOptions())

	persons, err := kio.Import(path)
	if allowMissing && stderrors.Is(err, fs.ErrNotExist) {
		c.Logger.Debug("starting new records file", "path", path)
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.Load(persons); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	c.Logger.Debug("loaded records", "path", path, "persons", len(persons))
	return s, nil
}

// newService creates a projection service over s backed by the configured
// cache. The returned close function releases the cache.
func (c *CLI) newService(ctx context.Context, s *family.Store, noCache bool) (*projection.Service, func(), error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	var keyer cache.Keyer
	if c.cfg.Cache.Scope != "" {
		keyer = cache.NewScopedKeyer(nil, c.cfg.Cache.Scope)
	}
	svc := projection.NewService(s, projection.Options{
		Radial: c.cfg.RadialOptions(),
		Cache:  ch,
		Keyer:  keyer,
		TTL:    c.cfg.Cache.TTL.Duration,
		Logger: c.Logger,
	})
	return svc, func() { _ = ch.Close() }, nil
}

// newCache opens the configured cache backend. An unreachable Redis server
// degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: c.cfg.Cache.RedisAddr})
		if err != nil {
			c.Logger.Warn("layout cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	default:
		dir, err := c.cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/kintree/).
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return config.DefaultCacheDir()
}

// writeFile writes data to path, creating or truncating it.
func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
