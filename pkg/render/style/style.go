// Package style turns a shape's theme-independent style into concrete paint.
//
// Resolution rules, in priority order:
//
//  1. NoRough: fill and stroke are the resolved hex color, fully opaque, and
//     the shape is marked Flat so it bypasses the sketch transform.
//  2. FillOpacity present: fill and stroke are the same rgba() value, so a
//     translucent shape never gets a solid outline.
//  3. Otherwise fill and stroke are the resolved hex color, fully opaque.
//
// Every shape is Flat when the pass is not sketching.
package style

import (
	"fmt"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/notediagram/pkg/catalog"
	"github.com/matzehuels/notediagram/pkg/theme"
)

// Paint is the resolved paint for one shape.
type Paint struct {
	Fill    string  `json:"fill"`
	Stroke  string  `json:"stroke"`
	Opacity float64 `json:"opacity"`
	// Base is the resolved hex color before any alpha is applied. Sinks that
	// cannot read rgba() use Base with Opacity instead.
	Base string `json:"base"`
	Flat bool   `json:"flat"`
}

// Resolve computes the paint for s under t.
func Resolve(s catalog.Style, t theme.Theme, sketch bool) Paint {
	base := t.Color(s.FillIndex)
	p := Paint{Fill: base, Stroke: base, Opacity: 1, Base: base, Flat: !sketch}

	switch {
	case s.NoRough:
		p.Flat = true
	case s.FillOpacity != nil:
		p.Opacity = *s.FillOpacity
		p.Fill = RGBA(base, p.Opacity)
		p.Stroke = p.Fill
	}
	return p
}

// RGBA formats a #rrggbb color with alpha as "rgba(r, g, b, a)".
// Unparseable input is treated as black.
func RGBA(hex string, alpha float64) string {
	var r, g, b uint8
	if c, err := colorful.Hex(hex); err == nil {
		r, g, b = c.RGB255()
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(alpha, 'f', -1, 64))
}
