// Package theme provides named color palettes addressed by index.
//
// A palette is an ordered list of hex colors. Shapes never name colors
// directly; they carry a fill index that is resolved against whichever
// theme is active for the render pass:
//
//   - 100 resolves to black (#000000)
//   - 101 resolves to white (#ffffff)
//   - any other index wraps: Colors[i mod len(Colors)]
//
// Wrapping uses a non-negative modulo, so negative indices also land
// inside the palette. Resolution never fails for an index; only an unknown
// theme name is an error.
package theme

import (
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/notediagram/pkg/errors"
)

// Sentinel indices and their fixed colors.
const (
	BlackIndex = 100
	WhiteIndex = 101

	Black = "#000000"
	White = "#ffffff"
)

// DefaultName is the theme used when a caller does not pick one.
const DefaultName = "default"

// Theme is a named palette.
type Theme struct {
	Name   string   `json:"name" toml:"name"`
	Colors []string `json:"colors" toml:"colors"`
}

// Color resolves a fill index against the palette.
func (t Theme) Color(i int) string {
	switch i {
	case BlackIndex:
		return Black
	case WhiteIndex:
		return White
	}
	n := len(t.Colors)
	if n == 0 {
		return Black
	}
	return t.Colors[((i%n)+n)%n]
}

// Len returns the palette length.
func (t Theme) Len() int { return len(t.Colors) }

var builtins = []Theme{
	{Name: "default", Colors: []string{"#4f46e5", "#0ea5e9", "#10b981", "#f59e0b", "#ef4444"}},
	{Name: "ocean", Colors: []string{"#0c4a6e", "#0369a1", "#0ea5e9", "#7dd3fc"}},
	{Name: "forest", Colors: []string{"#14532d", "#15803d", "#22c55e", "#86efac", "#a3e635", "#65a30d"}},
	{Name: "sunset", Colors: []string{"#7c2d12", "#ea580c", "#f97316", "#fbbf24", "#f43f5e"}},
	{Name: "monochrome", Colors: []string{"#111827", "#374151", "#6b7280", "#9ca3af"}},
	{Name: "pastel", Colors: []string{"#fbcfe8", "#c7d2fe", "#bbf7d0", "#fde68a", "#fecaca", "#bae6fd", "#ddd6fe"}},
	{Name: "vibrant", Colors: []string{"#e11d48", "#7c3aed", "#0891b2", "#65a30d", "#ea580c", "#facc15"}},
}

// Builtins returns copies of the built-in themes.
func Builtins() []Theme {
	out := make([]Theme, len(builtins))
	for i, t := range builtins {
		out[i] = Theme{Name: t.Name, Colors: slices.Clone(t.Colors)}
	}
	return out
}

// normalize validates every color and rewrites it as lowercase #rrggbb.
func normalize(t Theme) (Theme, error) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return Theme{}, errors.New(errors.ErrCodeConfiguration, "theme name is required")
	}
	if len(t.Colors) == 0 {
		return Theme{}, errors.New(errors.ErrCodeConfiguration, "theme %q has no colors", name)
	}
	colors := make([]string, len(t.Colors))
	for i, hex := range t.Colors {
		hex = strings.TrimSpace(hex)
		if !strings.HasPrefix(hex, "#") {
			hex = "#" + hex
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return Theme{}, errors.Wrap(errors.ErrCodeConfiguration, err, "theme %q color %d", name, i)
		}
		colors[i] = c.Hex()
	}
	return Theme{Name: name, Colors: colors}, nil
}
