package style

import (
	"testing"

	"github.com/matzehuels/notediagram/pkg/catalog"
	"github.com/matzehuels/notediagram/pkg/theme"
)

func ptr(v float64) *float64 { return &v }

func TestResolve(t *testing.T) {
	th := theme.Theme{Name: "t", Colors: []string{"#ff0000", "#00ff00", "#0000ff"}}

	tests := []struct {
		name   string
		style  catalog.Style
		sketch bool
		want   Paint
	}{
		{
			name:  "plain flat",
			style: catalog.Style{FillIndex: 1},
			want:  Paint{Fill: "#00ff00", Stroke: "#00ff00", Opacity: 1, Base: "#00ff00", Flat: true},
		},
		{
			name:   "plain sketch",
			style:  catalog.Style{FillIndex: 1},
			sketch: true,
			want:   Paint{Fill: "#00ff00", Stroke: "#00ff00", Opacity: 1, Base: "#00ff00", Flat: false},
		},
		{
			name:   "opacity uses rgba for fill and stroke",
			style:  catalog.Style{FillIndex: 0, FillOpacity: ptr(0.35)},
			sketch: true,
			want:   Paint{Fill: "rgba(255, 0, 0, 0.35)", Stroke: "rgba(255, 0, 0, 0.35)", Opacity: 0.35, Base: "#ff0000"},
		},
		{
			name:   "noRough forces flat and opaque",
			style:  catalog.Style{FillIndex: 101, NoRough: true, FillOpacity: ptr(0.5)},
			sketch: true,
			want:   Paint{Fill: "#ffffff", Stroke: "#ffffff", Opacity: 1, Base: "#ffffff", Flat: true},
		},
		{
			name:  "black shadow",
			style: catalog.Style{FillIndex: 100, FillOpacity: ptr(0.15)},
			want:  Paint{Fill: "rgba(0, 0, 0, 0.15)", Stroke: "rgba(0, 0, 0, 0.15)", Opacity: 0.15, Base: "#000000", Flat: true},
		},
		{
			name:  "index wraps",
			style: catalog.Style{FillIndex: 4},
			want:  Paint{Fill: "#00ff00", Stroke: "#00ff00", Opacity: 1, Base: "#00ff00", Flat: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.style, th, tt.sketch); got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRGBA(t *testing.T) {
	tests := []struct {
		hex   string
		alpha float64
		want  string
	}{
		{"#4f46e5", 0.25, "rgba(79, 70, 229, 0.25)"},
		{"#ffffff", 1, "rgba(255, 255, 255, 1)"},
		{"garbage", 0.5, "rgba(0, 0, 0, 0.5)"},
	}
	for _, tt := range tests {
		if got := RGBA(tt.hex, tt.alpha); got != tt.want {
			t.Errorf("RGBA(%s, %v) = %s, want %s", tt.hex, tt.alpha, got, tt.want)
		}
	}
}
