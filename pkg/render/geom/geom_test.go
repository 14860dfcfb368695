package geom

import (
	"math"
	"testing"

	"github.com/matzehuels/notediagram/pkg/catalog"
	"github.com/matzehuels/notediagram/pkg/errors"
)

const tol = 0.05

func near(a, b float64) bool { return math.Abs(a-b) <= tol }

func rectNear(a, b Rect) bool {
	return near(a.MinX, b.MinX) && near(a.MinY, b.MinY) && near(a.MaxX, b.MaxX) && near(a.MaxY, b.MaxY)
}

func TestParse_Bounds(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want Rect
	}{
		{"absolute square", "M 10 10 L 30 10 L 30 30 L 10 30 Z", Rect{10, 10, 30, 30}},
		{"relative square", "m 10 10 l 10 0 l 0 10 l -10 0 z", Rect{10, 10, 20, 20}},
		{"horizontal and vertical", "M0 0 H 40 V 20 H 0 Z", Rect{0, 0, 40, 20}},
		{"cubic bulge uses extrema", "M 0 50 C 0 -16.6667 100 -16.6667 100 50 Z", Rect{0, 0, 100, 50}},
		{"quadratic bulge", "M 0 0 Q 50 100 100 0 Z", Rect{0, 0, 100, 50}},
		{"two subpaths", "M 0 0 L 10 0 L 10 10 Z M 50 50 L 60 50 L 60 60 Z", Rect{0, 0, 60, 60}},
		{"implicit lineto after move", "M 0 0 20 0 20 10 Z", Rect{0, 0, 20, 10}},
		{"packed numbers", "M0,0L1.5.5-2-2e1Z", Rect{-2, -20, 1.5, 0.5}},
		{"smooth cubic", "M 0 50 C 0 0 50 0 50 50 S 100 100 100 50", Rect{0, 12.5, 100, 87.5}},
		{"smooth quadratic", "M 0 0 Q 25 50 50 0 T 100 0", Rect{0, -25, 100, 25}},
		{"half circle arc", "M 0 50 A 50 50 0 0 1 100 50 Z", Rect{0, 0, 100, 50}},
		{"compact arc flags", "M0 50a50 50 0 01100 0Z", Rect{0, 0, 100, 50}},
		{"relative after close", "M 10 10 h 10 v 10 z l 5 -20", Rect{10, -10, 20, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.d)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.d, err)
			}
			if got := p.Bounds(); !rectNear(got, tt.want) {
				t.Errorf("Bounds() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		d    string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"no leading move", "L 10 10 L 20 20"},
		{"foreign characters", "M 0 0 L 10 10 <script>"},
		{"only a move", "M 10 10"},
		{"garbage", "hello world"},
		{"missing coordinate", "M 0 0 L 10"},
		{"number after close", "M 0 0 L 10 0 L 10 10 Z 5 5"},
		{"bad arc flag", "M 0 0 A 5 5 0 2 1 10 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.d)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.d)
			}
			if !errors.Is(err, errors.ErrCodeRenderFailure) {
				t.Errorf("code = %v, want RENDER_FAILURE", errors.GetCode(err))
			}
		})
	}
}

func TestParse_OffGridPrecision(t *testing.T) {
	p, err := Parse("M0.01 0.01 L100.01 0.01 L100.01 50.003 L0.01 50.003 Z")
	if err != nil {
		t.Fatal(err)
	}
	want := Rect{0.01, 0.01, 100.01, 50.003}
	if got := p.Bounds(); math.Abs(got.MinX-want.MinX) > 1e-9 || math.Abs(got.MinY-want.MinY) > 1e-9 ||
		math.Abs(got.MaxX-want.MaxX) > 1e-9 || math.Abs(got.MaxY-want.MaxY) > 1e-9 {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
}

func TestParse_CatalogPaths(t *testing.T) {
	for _, id := range catalog.IDs() {
		shapes, _ := catalog.Lookup(id)
		for i, s := range shapes {
			p, err := Parse(s.Path)
			if err != nil {
				t.Errorf("%s[%d]: %v", id, i, err)
				continue
			}
			b := p.Bounds()
			if b.IsEmpty() || b.Width() <= 0 || b.Height() <= 0 {
				t.Errorf("%s[%d]: degenerate bounds %+v", id, i, b)
			}
			if !(Rect{0, 0, 960, 540}).Contains(b) {
				t.Errorf("%s[%d]: bounds %+v outside the 960x540 canvas", id, i, b)
			}
		}
	}
}

func TestFlatten(t *testing.T) {
	p, err := Parse("M 0 0 L 10 0 L 10 10 L 0 10 Z")
	if err != nil {
		t.Fatal(err)
	}
	polys := p.Flatten(4)
	if len(polys) != 1 {
		t.Fatalf("len(polys) = %d, want 1", len(polys))
	}
	if len(polys[0]) != 4 {
		t.Errorf("len(ring) = %d, want 4", len(polys[0]))
	}

	circle, _ := Parse("M 60 50 C 60 55.52 55.52 60 50 60 C 44.48 60 40 55.52 40 50 C 40 44.48 44.48 40 50 40 C 55.52 40 60 44.48 60 50 Z")
	ring := circle.Flatten(2)[0]
	if len(ring) < 16 {
		t.Errorf("circle flattened to only %d points", len(ring))
	}
	for _, pt := range ring {
		if r := pt.Dist(Point{50, 50}); math.Abs(r-10) > 0.2 {
			t.Fatalf("flattened point %+v off circle (r=%v)", pt, r)
		}
	}
}

func TestFlatten_DropsDegenerate(t *testing.T) {
	p, _ := Parse("M 0 0 L 10 10 M 20 20 L 30 20 L 30 30 Z")
	if polys := p.Flatten(4); len(polys) != 1 {
		t.Errorf("len(polys) = %d, want 1 (two-point subpath dropped)", len(polys))
	}
}

func TestRect(t *testing.T) {
	e := Empty()
	if !e.IsEmpty() {
		t.Error("Empty() is not empty")
	}
	r := e.Union(Rect{0, 0, 10, 10}).Union(Rect{5, -5, 20, 5})
	if r != (Rect{0, -5, 20, 10}) {
		t.Errorf("Union = %+v", r)
	}
	if got := r.Expand(10); got != (Rect{-10, -15, 30, 20}) {
		t.Errorf("Expand = %+v", got)
	}
	if got := r.Expand(10).ViewBox(); got != "-10 -15 40 35" {
		t.Errorf("ViewBox = %q", got)
	}
	if !e.Expand(10).IsEmpty() {
		t.Error("expanding an empty rect must stay empty")
	}
}

func TestPolylineData(t *testing.T) {
	got := PolylineData([]Point{{0, 0}, {10.125, 5}, {3, 4}}, true)
	if got != "M0 0 L10.13 5 L3 4 Z" {
		t.Errorf("PolylineData = %q", got)
	}
	if _, err := Parse(CurveData([]Point{{0, 0}, {10, 5}, {20, 0}, {30, 5}})); err != nil {
		t.Errorf("CurveData output does not parse: %v", err)
	}
}
