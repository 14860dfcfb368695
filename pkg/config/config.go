// Package config loads notediagram's TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/notediagram/config.toml (falling back
// to ~/.config/notediagram/config.toml) unless a path is given explicitly.
// A missing default file is not an error; every section has defaults.
//
//	[render]
//	diagram = "pyramid"
//	theme   = "brand"
//	mode    = "sketch"
//
//	[render.sketch]
//	roughness   = 1.5
//	hachure_gap = 6.0
//
//	[[themes]]
//	name   = "brand"
//	colors = ["#0f172a", "#38bdf8", "#f472b6"]
//
//	[server]
//	addr = ":8080"
//
//	[store]
//	backend = "redis"
//	[store.redis]
//	addr = "localhost:6379"
//
//	[cache]
//	backend = "file"
//
// Command-line flags override anything set here.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/notediagram/pkg/cache"
	nderrors "github.com/matzehuels/notediagram/pkg/errors"
	"github.com/matzehuels/notediagram/pkg/notes"
	"github.com/matzehuels/notediagram/pkg/pipeline"
	"github.com/matzehuels/notediagram/pkg/render/backend/sketch"
	"github.com/matzehuels/notediagram/pkg/theme"
)

// AppName names the config, cache and data directories.
const AppName = "notediagram"

// Backend names accepted by [store] and [cache].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Config is the whole configuration file.
type Config struct {
	Render RenderConfig  `toml:"render"`
	Themes []theme.Theme `toml:"themes"`
	Server ServerConfig  `toml:"server"`
	Store  StoreConfig   `toml:"store"`
	Cache  CacheConfig   `toml:"cache"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// RenderConfig holds render defaults. Empty fields keep pipeline defaults.
type RenderConfig struct {
	Diagram     string       `toml:"diagram"`
	Theme       string       `toml:"theme"`
	Mode        string       `toml:"mode"`
	SketchStyle string       `toml:"sketch_style"`
	Layout      string       `toml:"layout"`
	Formats     []string     `toml:"formats"`
	Width       float64      `toml:"width"`
	Scale       float64      `toml:"scale"`
	Background  string       `toml:"background"`
	Sketch      SketchConfig `toml:"sketch"`
}

// maxRoughness bounds [render.sketch].roughness.
const maxRoughness = 10

// SketchConfig tunes the hand-drawn backend. Unset fields keep the
// backend defaults.
type SketchConfig struct {
	Roughness    *float64 `toml:"roughness"`
	HachureGap   *float64 `toml:"hachure_gap"`
	HachureAngle *float64 `toml:"hachure_angle"` // degrees from horizontal
}

func (s SketchConfig) validate() error {
	bad := func(v *float64) bool { return v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) }
	switch {
	case bad(s.Roughness) || bad(s.HachureGap) || bad(s.HachureAngle):
		return nderrors.New(nderrors.ErrCodeConfiguration, "render.sketch: values must be finite")
	case s.Roughness != nil && (*s.Roughness < 0 || *s.Roughness > maxRoughness):
		return nderrors.New(nderrors.ErrCodeConfiguration, "render.sketch.roughness must be between 0 and %d, got %v", maxRoughness, *s.Roughness)
	case s.HachureGap != nil && *s.HachureGap < sketch.MinHachureGap:
		return nderrors.New(nderrors.ErrCodeConfiguration, "render.sketch.hachure_gap must be at least %v, got %v", sketch.MinHachureGap, *s.HachureGap)
	}
	return nil
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string        `toml:"addr"`
	ReadTimeout    time.Duration `toml:"read_timeout"`
	WriteTimeout   time.Duration `toml:"write_timeout"`
	MaxBodyBytes   int64         `toml:"max_body_bytes"`
	AllowedOrigins []string      `toml:"allowed_origins"` // CORS; empty allows any origin
}

// RedisConfig is shared by the Redis store and cache.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig configures the MongoDB store.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// StoreConfig selects the note backend.
type StoreConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// CacheConfig selects the render cache backend.
type CacheConfig struct {
	Backend    string      `toml:"backend"`
	Dir        string      `toml:"dir"`
	MaxEntries int         `toml:"max_entries"`
	Namespace  string      `toml:"namespace"` // key prefix, for deployments sharing a Redis
	Redis      RedisConfig `toml:"redis"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
		Store: StoreConfig{Backend: BackendMemory},
		Cache: CacheConfig{Backend: BackendFile},
	}
}

// DefaultPath returns the XDG config file location.
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

// Load reads the config at path. An empty path loads the default location
// and tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, nderrors.Wrap(nderrors.ErrCodeConfiguration, err, "open config")
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Decode parses TOML from r on top of the defaults. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, nderrors.Wrap(nderrors.ErrCodeConfiguration, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, nderrors.New(nderrors.ErrCodeConfiguration, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks backend names and render defaults.
func (c *Config) Validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = BackendMemory
	}
	if !slices.Contains([]string{BackendMemory, BackendFile, BackendRedis, BackendMongo}, c.Store.Backend) {
		return nderrors.New(nderrors.ErrCodeConfiguration, "unknown store backend: %q (valid: memory, file, redis, mongo)", c.Store.Backend)
	}
	if c.Store.Backend == BackendMongo && c.Store.Mongo.URI == "" {
		return nderrors.New(nderrors.ErrCodeConfiguration, "store.mongo.uri is required for the mongo backend")
	}

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendFile
	}
	if !slices.Contains([]string{BackendFile, BackendMemory, BackendRedis, BackendNone}, c.Cache.Backend) {
		return nderrors.New(nderrors.ErrCodeConfiguration, "unknown cache backend: %q (valid: file, memory, redis, none)", c.Cache.Backend)
	}

	if err := c.Render.Sketch.validate(); err != nil {
		return err
	}

	reg, err := c.Registry()
	if err != nil {
		return err
	}
	if c.Render.Theme != "" && !reg.Has(c.Render.Theme) {
		return nderrors.New(nderrors.ErrCodeConfiguration, "render.theme: unknown theme %q", c.Render.Theme)
	}
	opts := c.RenderOptions()
	return opts.ValidateAndSetDefaults()
}

// Registry builds the theme registry: built-ins plus [[themes]].
func (c *Config) Registry() (*theme.Registry, error) {
	return theme.NewRegistry(c.Themes...)
}

// RenderOptions returns pipeline options seeded from [render].
func (c *Config) RenderOptions() pipeline.Options {
	r := c.Render
	return pipeline.Options{
		Diagram:     r.Diagram,
		Theme:       r.Theme,
		Mode:        r.Mode,
		SketchStyle: r.SketchStyle,
		Layout:      r.Layout,
		Formats:     slices.Clone(r.Formats),
		Width:       r.Width,
		Scale:       r.Scale,
		Background:  r.Background,
	}
}

// SketchOptions returns the sketch backend tuning from [render.sketch].
func (c *Config) SketchOptions() []sketch.Option {
	s := c.Render.Sketch
	var opts []sketch.Option
	if s.Roughness != nil {
		opts = append(opts, sketch.WithRoughness(*s.Roughness))
	}
	if s.HachureGap != nil {
		opts = append(opts, sketch.WithHachureGap(*s.HachureGap))
	}
	if s.HachureAngle != nil {
		opts = append(opts, sketch.WithHachureAngle(*s.HachureAngle))
	}
	return opts
}

// CacheDir returns the cache directory: [cache].dir or the XDG location.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Keyer returns the cache keyer for [cache].namespace, or nil for the
// default keyer.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Namespace == "" {
		return nil
	}
	return cache.NewScopedKeyer(nil, c.Cache.Namespace+":")
}

// OpenCache builds the configured render cache. Failing to reach a remote
// cache degrades to no caching with a warning; renders still work.
func (c *Config) OpenCache(ctx context.Context, logger *log.Logger) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendMemory:
		return cache.NewMemoryCache(c.Cache.MaxEntries), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Cache.Redis.Addr,
			Password: c.Cache.Redis.Password,
			DB:       c.Cache.Redis.DB,
			Prefix:   redisPrefix(c.Cache.Redis.Prefix, "cache:"),
		})
		if err != nil {
			if logger != nil {
				logger.Warn("redis cache unavailable, caching disabled", "addr", c.Cache.Redis.Addr, "err", err)
			}
			return cache.NewNullCache(), nil
		}
		return rc, nil
	default:
		dir, err := c.CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// OpenStore builds the configured note store.
func (c *Config) OpenStore(ctx context.Context) (notes.Store, error) {
	switch c.Store.Backend {
	case BackendFile:
		return notes.NewFileStore(c.Store.Dir)
	case BackendRedis:
		return notes.NewRedisStore(ctx, notes.RedisConfig{
			Addr:     c.Store.Redis.Addr,
			Password: c.Store.Redis.Password,
			DB:       c.Store.Redis.DB,
			Prefix:   redisPrefix(c.Store.Redis.Prefix, ""),
		})
	case BackendMongo:
		return notes.NewMongoStore(ctx, notes.MongoConfig{
			URI:        c.Store.Mongo.URI,
			Database:   c.Store.Mongo.Database,
			Collection: c.Store.Mongo.Collection,
		})
	default:
		return notes.NewMemoryStore(), nil
	}
}

func redisPrefix(prefix, suffix string) string {
	if prefix == "" {
		prefix = AppName + ":"
	}
	return prefix + suffix
}
