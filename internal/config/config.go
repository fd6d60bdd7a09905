// Package config loads the kintree TOML configuration.
//
// A missing file is not an error: every setting has a default. A file that
// names an unknown key is rejected so typos do not silently fall back to
// defaults.
//
//	[store]
//	allow_same_gender_parents = false
//	enforce_birth_order = true
//
//	[layout]
//	base_radius = 200
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "12h"
//	scope = "tree:smith:"
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/layout"
)

// AppName names the XDG config and cache subdirectories.
const AppName = "kintree"

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the decoded configuration file.
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
}

// StoreConfig maps onto [family.Options].
type StoreConfig struct {
	AllowSameGenderParents bool `toml:"allow_same_gender_parents"`
	EnforceBirthOrder      bool `toml:"enforce_birth_order"`
	MaxAncestorDepth       int  `toml:"max_ancestor_depth"`
}

// LayoutConfig maps onto [layout.RadialOptions].
type LayoutConfig struct {
	BaseRadius float64 `toml:"base_radius"`
	RadiusStep float64 `toml:"radius_step"`
	DepthStep  float64 `toml:"depth_step"`
	Flatten    float64 `toml:"flatten"`
	Decay      float64 `toml:"decay"`
}

// CacheConfig selects and tunes the layout cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
	Scope     string   `toml:"scope"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			BaseRadius: layout.DefaultBaseRadius,
			RadiusStep: layout.DefaultRadiusStep,
			DepthStep:  layout.DefaultDepthStep,
			Flatten:    layout.DefaultFlatten,
			Decay:      layout.DefaultDecay,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     Duration{cache.DefaultTTL},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/kintree/config.toml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/kintree or ~/.cache/kintree.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads the file at path on top of [Default]. An empty path means
// [DefaultPath]. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if err := Decode(string(data), &cfg); err != nil {
		return cfg, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	return cfg, nil
}

// Decode parses TOML text into cfg, keeping the values of keys it does not
// set, and validates the result.
func Decode(data string, cfg *Config) error {
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidFormat, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend must be one of none, file, redis (got %q)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	if c.Store.MaxAncestorDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "store.max_ancestor_depth must not be negative")
	}
	if c.Layout.Flatten < 0 || c.Layout.Decay < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout.flatten and layout.decay must not be negative")
	}
	return nil
}

// StoreOptions returns the store options described by the [store] section.
func (c Config) StoreOptions() family.Options {
	return family.Options{
		AllowSameGenderParents: c.Store.AllowSameGenderParents,
		EnforceBirthOrder:      c.Store.EnforceBirthOrder,
		MaxAncestorDepth:       c.Store.MaxAncestorDepth,
	}
}

// RadialOptions returns the radial layout options of the [layout] section.
func (c Config) RadialOptions() layout.RadialOptions {
	return layout.RadialOptions{
		BaseRadius: c.Layout.BaseRadius,
		RadiusStep: c.Layout.RadiusStep,
		DepthStep:  c.Layout.DepthStep,
		Flatten:    c.Layout.Flatten,
		Decay:      c.Layout.Decay,
	}
}
