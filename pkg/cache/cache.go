// Package cache stores rendered passes and artifacts.
//
// Only deterministic passes are cached: flat renders, and sketch renders
// with a pinned seed. Keys hash every input that affects the output,
// including the palette colors of the theme, so redefining a theme in the
// config file never serves stale colors.
//
// Backends:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [MemoryCache]: in-process map with TTLs, for a single server
//   - [RedisCache]: shared across server instances
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTLs.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Default TTLs.
const (
	// PassTTL is how long a drawn pass stays cached.
	PassTTL = 7 * 24 * time.Hour

	// ArtifactTTL is how long encoded output (SVG, PNG, ...) stays cached.
	ArtifactTTL = 24 * time.Hour
)

// Keyer derives cache keys.
type Keyer interface {
	// PassKey identifies a drawn pass.
	PassKey(opts PassKeyOpts) string

	// ArtifactKey identifies an encoded artifact of a pass.
	ArtifactKey(passHash string, opts ArtifactKeyOpts) string
}

// PassKeyOpts are the inputs of a deterministic pass.
type PassKeyOpts struct {
	Diagram     string
	Theme       string
	Palette     []string
	Mode        string
	SketchStyle string
	Seed        uint64
	Layout      string
	Points      any
	Tuning      any // backend tuning that changes drawn output
}

// ArtifactKeyOpts are the encoding options of an artifact.
type ArtifactKeyOpts struct {
	Format string
	Width  float64
	Scale  float64
}

// DefaultKeyer produces "pass:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PassKey hashes every pass input.
func (DefaultKeyer) PassKey(opts PassKeyOpts) string {
	return hashKey("pass", opts.Diagram, opts.Theme, opts.Palette, opts.Mode, opts.SketchStyle, opts.Seed, opts.Layout, opts.Points, opts.Tuning)
}

// ArtifactKey hashes the pass hash together with the encoding options.
func (DefaultKeyer) ArtifactKey(passHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", passHash, opts.Format, opts.Width, opts.Scale)
}
