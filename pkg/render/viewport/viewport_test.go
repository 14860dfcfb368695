package viewport

import (
	"errors"
	"testing"

	"github.com/matzehuels/notediagram/pkg/render/geom"
	"github.com/matzehuels/notediagram/pkg/render/scene"
)

func el(minX, minY, maxX, maxY float64) scene.Element {
	return scene.Element{Bounds: geom.Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name  string
		scene *scene.Scene
		want  geom.Rect
	}{
		{
			name:  "single element",
			scene: &scene.Scene{Nodes: []scene.Node{{Elements: []scene.Element{el(0, 0, 100, 50)}}}},
			want:  geom.Rect{MinX: -10, MinY: -10, MaxX: 110, MaxY: 60},
		},
		{
			name: "union across nodes",
			scene: &scene.Scene{Nodes: []scene.Node{
				{Elements: []scene.Element{el(10, 20, 30, 40)}},
				{Elements: []scene.Element{el(-5, 25, 15, 90), el(0, 0, 1, 1)}},
			}},
			want: geom.Rect{MinX: -15, MinY: -10, MaxX: 40, MaxY: 100},
		},
		{
			name: "empty elements are ignored",
			scene: &scene.Scene{Nodes: []scene.Node{
				{Elements: []scene.Element{{Bounds: geom.Empty()}, el(0, 0, 10, 10)}},
			}},
			want: geom.Rect{MinX: -10, MinY: -10, MaxX: 20, MaxY: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fit(tt.scene)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Fit() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFit_Empty(t *testing.T) {
	for _, s := range []*scene.Scene{nil, {}, {Nodes: []scene.Node{{}}}} {
		if _, err := Fit(s); !errors.Is(err, ErrEmpty) {
			t.Errorf("Fit(%v) error = %v, want ErrEmpty", s, err)
		}
	}
}

func TestFitPadded(t *testing.T) {
	s := &scene.Scene{Nodes: []scene.Node{{Elements: []scene.Element{el(0, 0, 10, 10)}}}}
	got, _ := FitPadded(s, 0)
	if got != (geom.Rect{MaxX: 10, MaxY: 10}) {
		t.Errorf("FitPadded(0) = %+v", got)
	}
}
