package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/notediagram/pkg/cache"
	"github.com/matzehuels/notediagram/pkg/observability"
	"github.com/matzehuels/notediagram/pkg/render/pass"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, engine and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Engine *pass.Engine
	Logger *log.Logger
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If engine is nil, an engine with the built-in themes is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, engine *pass.Engine, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	if engine == nil {
		engine = pass.NewEngine(pass.WithLogger(logger))
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Engine: engine,
		Logger: logger,
	}
}

// Execute runs the complete pass → encode pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	passStart := time.Now()
	res, passKey, hit, err := r.RunPassWithCacheInfo(ctx, &opts)
	if err != nil {
		return nil, err
	}
	result.Pass = res
	result.Stats.PassTime = time.Since(passStart)
	result.Stats.Shapes = res.Scene.Len()
	result.Stats.Elements = res.Scene.Elements()
	result.CacheInfo.Cacheable = passKey != ""
	result.CacheInfo.PassHit = hit

	r.Logger.Debug("render pass",
		"diagram", res.Params.Diagram,
		"backend", res.Backend,
		"shapes", result.Stats.Shapes,
		"cached", hit,
		"duration", result.Stats.PassTime)

	encodeStart := time.Now()
	artifacts, encodeHit, err := r.EncodeWithCacheInfo(ctx, res, passKey, &opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.EncodeTime = time.Since(encodeStart)
	result.CacheInfo.EncodeHit = encodeHit

	r.Logger.Debug("encoded outputs",
		"formats", opts.Formats,
		"cached", encodeHit,
		"duration", result.Stats.EncodeTime)

	return result, nil
}

// RunPassWithCacheInfo runs the pass stage. It returns the pass cache key,
// empty when the pass is not deterministic, and whether the cache hit.
func (r *Runner) RunPassWithCacheInfo(ctx context.Context, opts *Options) (*pass.Result, string, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, "", false, err
	}
	params := opts.Params()

	if !params.Deterministic() {
		res, err := r.Engine.Render(ctx, params)
		return res, "", false, err
	}

	t, err := r.Engine.Themes().Lookup(opts.Theme)
	if err != nil {
		return nil, "", false, err
	}
	ko := opts.PassKeyOpts(t.Colors)
	if params.Mode == pass.Sketch {
		ko.Tuning = r.Engine.SketchOptions()
	}
	key := r.Keyer.PassKey(ko)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached pass.Result
			if err := json.Unmarshal(data, &cached); err == nil && cached.Scene != nil {
				observability.Cache().OnCacheHit(ctx, "pass")
				return &cached, key, true, nil
			}
			// Undecodable entry: fall through and recompute.
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "pass")
	}

	res, err := r.Engine.Render(ctx, params)
	if err != nil {
		return nil, "", false, err
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.PassTTL); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "pass", len(data))
		}
	}
	return res, key, false, nil
}

// RunPass is a convenience wrapper that discards the cache info.
func (r *Runner) RunPass(ctx context.Context, opts Options) (*pass.Result, error) {
	res, _, _, err := r.RunPassWithCacheInfo(ctx, &opts)
	return res, err
}

// EncodeWithCacheInfo encodes res in every requested format. passKey is
// the pass cache key; an empty key disables artifact caching.
func (r *Runner) EncodeWithCacheInfo(ctx context.Context, res *pass.Result, passKey string, opts *Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.formats))
	passHash := cache.Hash([]byte(passKey))
	allCached := passKey != ""

	for _, f := range opts.formats {
		format := string(f)
		if passKey != "" && !opts.Refresh {
			key := r.Keyer.ArtifactKey(passHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allCached = false

		data, err := Encode(ctx, res, f, opts)
		if err != nil {
			return nil, false, fmt.Errorf("encode %s: %w", format, err)
		}
		artifacts[format] = data

		if passKey != "" {
			key := r.Keyer.ArtifactKey(passHash, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err == nil {
				observability.Cache().OnCacheSet(ctx, "artifact", len(data))
			}
		}
	}
	return artifacts, allCached && !opts.Refresh, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
