// Package viewport fits the output view window to drawn geometry.
//
// The window is the tight bounding box of everything a backend emitted,
// grown by [Padding] on each side. It must be computed after drawing:
// sketched geometry wanders outside the nominal paths, so bounds taken from
// the catalog alone would clip jittered outlines.
package viewport

import (
	stderrors "errors"

	"github.com/matzehuels/notediagram/pkg/render/geom"
	"github.com/matzehuels/notediagram/pkg/render/scene"
)

// Padding is the margin added on every side of the drawn bounds.
const Padding = 10.0

// ErrEmpty is returned when the scene contains no drawn geometry.
var ErrEmpty = stderrors.New("viewport: scene has no geometry")

// Fit returns the padded bounds of s.
func Fit(s *scene.Scene) (geom.Rect, error) {
	return FitPadded(s, Padding)
}

// FitPadded is Fit with a caller-chosen padding.
func FitPadded(s *scene.Scene, padding float64) (geom.Rect, error) {
	if s == nil {
		return geom.Rect{}, ErrEmpty
	}
	b := s.Bounds()
	if b.IsEmpty() {
		return geom.Rect{}, ErrEmpty
	}
	return b.Expand(padding), nil
}
