package sketch

import (
	"math"
	"testing"

	"github.com/matzehuels/notediagram/pkg/render/geom"
)

func rectPoly(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.Polygon{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func TestHatchLines_Horizontal(t *testing.T) {
	lines := hatchLines([]geom.Polygon{rectPoly(0, 0, 100, 100)}, 0, 4)
	if len(lines) != 25 {
		t.Fatalf("rows = %d, want 25", len(lines))
	}
	for i, row := range lines {
		if len(row) != 1 {
			t.Fatalf("row %d has %d pieces, want 1", i, len(row))
		}
		if math.Abs(row[0].a.X) > 1e-9 || math.Abs(row[0].b.X-100) > 1e-9 {
			t.Errorf("row %d spans %v..%v, want 0..100", i, row[0].a.X, row[0].b.X)
		}
	}
}

func TestHatchLines_EvenOddHole(t *testing.T) {
	outer := rectPoly(0, 0, 100, 100)
	hole := rectPoly(40, 40, 60, 60)
	lines := hatchLines([]geom.Polygon{outer, hole}, 0, 4)

	split := 0
	for _, row := range lines {
		y := row[0].a.Y
		if y > 40 && y < 60 {
			if len(row) != 2 {
				t.Errorf("row at y=%v has %d pieces, want 2 around the hole", y, len(row))
			}
			split++
		}
	}
	if split == 0 {
		t.Error("no scanline crossed the hole")
	}
}

func TestHatchLines_Angle(t *testing.T) {
	lines := hatchLines([]geom.Polygon{rectPoly(0, 0, 100, 100)}, -41, 4)
	if len(lines) == 0 {
		t.Fatal("no hatch lines")
	}
	want := -41 * math.Pi / 180
	for _, row := range lines {
		for _, s := range row {
			got := math.Atan2(s.b.Y-s.a.Y, s.b.X-s.a.X)
			if math.Abs(got-want) > 1e-6 {
				t.Fatalf("line angle = %v rad, want %v", got, want)
			}
			for _, p := range []geom.Point{s.a, s.b} {
				if p.X < -1e-6 || p.X > 100+1e-6 || p.Y < -1e-6 || p.Y > 100+1e-6 {
					t.Fatalf("hatch endpoint %+v escapes the polygon", p)
				}
			}
		}
	}
}

func TestHatchLines_TinyGapIsBounded(t *testing.T) {
	lines := hatchLines([]geom.Polygon{rectPoly(0, 0, 100, 100)}, 0, 1e-12)
	if want := int(100 / MinHachureGap); len(lines) != want {
		t.Errorf("rows = %d, want %d", len(lines), want)
	}
}

func TestDashes(t *testing.T) {
	got := dashes(segment{geom.Point{}, geom.Point{X: 40}}, 12, 6)
	want := [][2]float64{{0, 12}, {18, 30}, {36, 40}}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if math.Abs(got[i].a.X-w[0]) > 1e-9 || math.Abs(got[i].b.X-w[1]) > 1e-9 {
			t.Errorf("dash %d = %v..%v, want %v..%v", i, got[i].a.X, got[i].b.X, w[0], w[1])
		}
	}
}

func TestZigzagChains(t *testing.T) {
	lines := [][]segment{
		{{geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0}}},
		{{geom.Point{X: 0, Y: 4}, geom.Point{X: 10, Y: 4}}},
		{{geom.Point{X: 0, Y: 8}, geom.Point{X: 10, Y: 8}}},
	}
	chains := zigzagChains(lines, 12)
	if len(chains) != 1 {
		t.Fatalf("chains = %d, want 1", len(chains))
	}
	want := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 4}, {X: 0, Y: 4}, {X: 0, Y: 8}, {X: 10, Y: 8}}
	for i, p := range want {
		if chains[0][i] != p {
			t.Errorf("point %d = %+v, want %+v", i, chains[0][i], p)
		}
	}

	if got := zigzagChains(lines, 1); len(got) != 3 {
		t.Errorf("with a short max jump, chains = %d, want 3", len(got))
	}
}

func TestZigzagAlong(t *testing.T) {
	pts := zigzagAlong(segment{geom.Point{}, geom.Point{X: 20}}, 4, 2)
	if len(pts) != 7 {
		t.Fatalf("len = %d, want 7", len(pts))
	}
	if pts[1].Y != 2 || pts[2].Y != -2 {
		t.Errorf("teeth = %v, %v; want alternating ±2", pts[1].Y, pts[2].Y)
	}
}
