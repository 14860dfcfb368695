// Package pipeline provides the render → encode pipeline for notediagram.
//
// This package implements the pipeline shared by the CLI and the API
// server. By centralizing it, both entry points apply the same defaults,
// the same caching rules and the same output encodings.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Pass: run a render pass (look up shapes, resolve paint, draw, fit,
//     bind content)
//  2. Encode: serialize the presented pass in each requested format
//     (svg, document, json, png, pdf)
//
// Both stages are cached when the pass is deterministic: flat mode always,
// sketch mode only with a pinned seed. An unseeded sketch is a fresh
// drawing every time and is never cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Diagram: "pyramid",
//	    Mode:    "sketch",
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/notediagram/pkg/cache"
	"github.com/matzehuels/notediagram/pkg/catalog"
	"github.com/matzehuels/notediagram/pkg/errors"
	"github.com/matzehuels/notediagram/pkg/render/backend/sketch"
	"github.com/matzehuels/notediagram/pkg/render/content"
	"github.com/matzehuels/notediagram/pkg/render/pass"
	"github.com/matzehuels/notediagram/pkg/render/sink"
	"github.com/matzehuels/notediagram/pkg/theme"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultDiagram is rendered when no diagram is named.
	DefaultDiagram = catalog.Stacked

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// MaxScale bounds the PNG scale factor.
	MaxScale = 16.0

	// DefaultWidth is the width attribute of standalone SVG output.
	DefaultWidth = sink.DefaultWidth
)

// DefaultFormats is used when no format is requested.
var DefaultFormats = []string{string(sink.FormatSVG)}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Pass options
	Diagram     string                `json:"diagram"`
	Theme       string                `json:"theme,omitempty"`
	Mode        string                `json:"mode,omitempty"`
	SketchStyle string                `json:"sketchStyle,omitempty"`
	Layout      string                `json:"layout,omitempty"`
	Points      []content.BulletPoint `json:"points,omitempty"`
	Seed        *uint64               `json:"seed,omitempty"`

	// Encode options
	Formats    []string `json:"formats,omitempty"`
	Width      float64  `json:"width,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Background string   `json:"background,omitempty"`

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	params    pass.Params
	formats   []sink.Format
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Pass is the presented render pass.
	Pass *pass.Result

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Shapes     int
	Elements   int
	PassTime   time.Duration
	EncodeTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	Cacheable bool // Whether the pass was deterministic
	PassHit   bool // Whether the pass came from cache
	EncodeHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults parses every option and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Diagram == "" {
		o.Diagram = string(DefaultDiagram)
	}
	id, err := catalog.ParseID(o.Diagram)
	if err != nil {
		return err
	}
	mode, err := pass.ParseMode(o.Mode)
	if err != nil {
		return err
	}
	style, err := sketch.ParseFillStyle(o.SketchStyle)
	if err != nil {
		return err
	}
	layout, err := content.ParseMetaLayout(o.Layout)
	if err != nil {
		return err
	}
	if o.Theme == "" {
		o.Theme = theme.DefaultName
	}

	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	o.formats = o.formats[:0]
	for _, f := range o.Formats {
		parsed, err := sink.ParseFormat(f)
		if err != nil {
			return err
		}
		o.formats = append(o.formats, parsed)
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if !finite(o.Width) || !finite(o.Scale) || o.Width < 0 || o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width and scale must be positive")
	}
	if o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale %v exceeds %v", o.Scale, MaxScale)
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}

	o.Diagram, o.Mode, o.SketchStyle, o.Layout = string(id), string(mode), string(style), string(layout)
	o.params = pass.Params{
		Diagram:     id,
		Theme:       o.Theme,
		Mode:        mode,
		SketchStyle: style,
		Points:      o.Points,
		Layout:      layout,
		Seed:        o.Seed,
	}
	o.validated = true
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Params returns the pass parameters. Call ValidateAndSetDefaults first.
func (o *Options) Params() pass.Params { return o.params }

// PassKeyOpts returns cache key options for the pass stage.
func (o *Options) PassKeyOpts(palette []string) cache.PassKeyOpts {
	var seed uint64
	if o.Seed != nil {
		seed = *o.Seed
	}
	return cache.PassKeyOpts{
		Diagram:     o.Diagram,
		Theme:       o.Theme,
		Palette:     palette,
		Mode:        o.Mode,
		SketchStyle: o.SketchStyle,
		Seed:        seed,
		Layout:      o.Layout,
		Points:      o.Points,
	}
}

// ArtifactKeyOpts returns cache key options for one encoded format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format + "|" + o.Background, Width: o.Width, Scale: o.Scale}
}
