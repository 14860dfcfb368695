package pass

import (
	"strings"

	"github.com/matzehuels/notediagram/pkg/catalog"
	"github.com/matzehuels/notediagram/pkg/errors"
	"github.com/matzehuels/notediagram/pkg/render/backend/sketch"
	"github.com/matzehuels/notediagram/pkg/render/content"
	"github.com/matzehuels/notediagram/pkg/theme"
)

// Mode selects the drawing strategy for a pass.
type Mode string

const (
	Flat   Mode = "flat"
	Sketch Mode = "sketch"
)

// ParseMode converts user input to a Mode. The empty string maps to Flat.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Flat:
		return Flat, nil
	case Sketch:
		return Sketch, nil
	}
	return "", errors.New(errors.ErrCodeConfiguration, "unknown render mode: %q (valid: flat, sketch)", s)
}

// Params are the inputs of one render pass. Changing any of them is a
// "parameters changed" event for an [Instance].
type Params struct {
	Diagram     catalog.ID            `json:"diagram"`
	Theme       string                `json:"theme,omitempty"`
	Mode        Mode                  `json:"mode,omitempty"`
	SketchStyle sketch.FillStyle      `json:"sketchStyle,omitempty"`
	Points      []content.BulletPoint `json:"points,omitempty"`
	Layout      content.MetaLayout    `json:"layout,omitempty"`
	// Seed pins the sketch jitter. Nil draws with a fresh random seed.
	Seed *uint64 `json:"seed,omitempty"`
}

// Normalize fills empty fields with their defaults.
func (p Params) Normalize() Params {
	if p.Theme == "" {
		p.Theme = theme.DefaultName
	}
	if p.Mode == "" {
		p.Mode = Flat
	}
	if p.SketchStyle == "" {
		p.SketchStyle = sketch.DefaultFillStyle
	}
	if p.Layout == "" {
		p.Layout = content.DefaultLayout
	}
	return p
}

// Validate checks every enumerated field against its closed set. It does
// not apply defaults; call Normalize first.
func (p Params) Validate(themes *theme.Registry) error {
	if !p.Diagram.Valid() {
		return errors.New(errors.ErrCodeConfiguration, "unknown diagram: %q", string(p.Diagram))
	}
	if !themes.Has(p.Theme) {
		return errors.New(errors.ErrCodeConfiguration, "unknown theme: %q", p.Theme)
	}
	if p.Mode != Flat && p.Mode != Sketch {
		return errors.New(errors.ErrCodeConfiguration, "unknown render mode: %q", string(p.Mode))
	}
	if !p.SketchStyle.Valid() {
		return errors.New(errors.ErrCodeConfiguration, "unknown sketch style: %q", string(p.SketchStyle))
	}
	if !p.Layout.Valid() {
		return errors.New(errors.ErrCodeConfiguration, "unknown meta-layout: %q", string(p.Layout))
	}
	return nil
}

// Deterministic reports whether two passes with these params produce
// identical output.
func (p Params) Deterministic() bool {
	return p.Mode == Flat || p.Seed != nil
}
