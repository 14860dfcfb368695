package backend

import (
	"reflect"
	"testing"

	"github.com/matzehuels/notediagram/pkg/catalog"
	"github.com/matzehuels/notediagram/pkg/errors"
	"github.com/matzehuels/notediagram/pkg/render/geom"
	"github.com/matzehuels/notediagram/pkg/render/scene"
	"github.com/matzehuels/notediagram/pkg/render/style"
	"github.com/matzehuels/notediagram/pkg/theme"
)

type recordingBackend struct {
	drawn []int
}

func (b *recordingBackend) Name() string { return "recording" }

func (b *recordingBackend) Draw(r Resolved) (scene.Node, error) {
	b.drawn = append(b.drawn, r.Index)
	return scene.Node{Shape: r.Index, Sketched: true}, nil
}

func resolveAll(t *testing.T, id catalog.ID, sketch bool) []Resolved {
	t.Helper()
	shapes, err := catalog.Lookup(id)
	if err != nil {
		t.Fatal(err)
	}
	th, _ := theme.Default.Lookup(theme.DefaultName)
	out := make([]Resolved, len(shapes))
	for i, s := range shapes {
		out[i] = Resolved{Index: i, Shape: s, Paint: style.Resolve(s.Style, th, sketch)}
	}
	return out
}

func TestFlat_Verbatim(t *testing.T) {
	r := Resolved{
		Index: 2,
		Shape: catalog.Shape{Path: "M 10 10 L 30 10 L 30 30 Z"},
		Paint: style.Paint{Fill: "#ff0000", Stroke: "#ff0000", Opacity: 1, Base: "#ff0000", Flat: true},
	}
	n, err := Flat{}.Draw(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(n.Elements) != 1 || n.Elements[0].D != r.Shape.Path {
		t.Fatalf("elements = %+v, want verbatim path", n.Elements)
	}
	if n.Elements[0].Kind != scene.Filled {
		t.Errorf("kind = %v, want filled", n.Elements[0].Kind)
	}
	if n.Bounds() != (geom.Rect{MinX: 10, MinY: 10, MaxX: 30, MaxY: 30}) {
		t.Errorf("bounds = %+v", n.Bounds())
	}
	if n.Shape != 2 || n.Paint != r.Paint || n.Sketched {
		t.Errorf("node metadata = %+v", n)
	}
}

func TestFlat_Deterministic(t *testing.T) {
	shapes := resolveAll(t, catalog.Radial, false)
	a, err := DrawAll(Flat{}, shapes)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := DrawAll(Flat{}, shapes)
	if !reflect.DeepEqual(a, b) {
		t.Error("flat output differs between identical draws")
	}
}

func TestFlat_Malformed(t *testing.T) {
	_, err := Flat{}.Draw(Resolved{Shape: catalog.Shape{Path: "not a path"}})
	if !errors.Is(err, errors.ErrCodeRenderFailure) {
		t.Errorf("error = %v, want RENDER_FAILURE", err)
	}
}

func TestComposite_Routing(t *testing.T) {
	shapes := resolveAll(t, catalog.Stacked, true)
	sk := &recordingBackend{}
	s, err := DrawAll(Composite{Sketch: sk}, shapes)
	if err != nil {
		t.Fatal(err)
	}

	for i, r := range shapes {
		n := s.Nodes[i]
		if r.Shape.Style.NoRough {
			if n.Sketched {
				t.Errorf("shape %d is noRough but was sketched", i)
			}
			flat, _ := Flat{}.Draw(r)
			if !reflect.DeepEqual(n, flat) {
				t.Errorf("shape %d: noRough output differs from flat output", i)
			}
		} else if !n.Sketched {
			t.Errorf("shape %d should have been sketched", i)
		}
	}
	if len(sk.drawn) != 5 {
		t.Errorf("sketched %d shapes, want 5 (four bars and the shadow)", len(sk.drawn))
	}
}

func TestComposite_NilSketch(t *testing.T) {
	shapes := resolveAll(t, catalog.Arrow, true)
	s, err := DrawAll(Composite{}, shapes)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range s.Nodes {
		if n.Sketched {
			t.Fatal("nil sketch backend must draw flat")
		}
	}
	if (Composite{}).Name() != "flat" {
		t.Errorf("Name() = %q", Composite{}.Name())
	}
}

func TestDrawAll_StopsOnFailure(t *testing.T) {
	shapes := []Resolved{
		{Index: 0, Shape: catalog.Shape{Path: "M0 0 L1 0 L1 1 Z"}},
		{Index: 1, Shape: catalog.Shape{Path: "M0 0 X"}},
	}
	s, err := DrawAll(Flat{}, shapes)
	if err == nil || s != nil {
		t.Fatalf("DrawAll = %v, %v; want nil scene and error", s, err)
	}
}
