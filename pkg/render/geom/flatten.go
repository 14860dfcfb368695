package geom

import (
	"math"
	"strings"
)

// Polygon is a closed ring of points; the last point connects to the first.
type Polygon []Point

// Bounds returns the bounding box of the ring.
func (pg Polygon) Bounds() Rect {
	r := Empty()
	for _, p := range pg {
		r = r.Include(p)
	}
	return r
}

// Flatten approximates every subpath with line segments no longer than
// step. Open subpaths are closed implicitly, matching SVG fill semantics.
// Subpaths with fewer than three distinct points are dropped.
func (p *Path) Flatten(step float64) []Polygon {
	if step <= 0 {
		step = 4
	}
	var (
		out  []Polygon
		ring Polygon
		cur  Point
	)
	flush := func() {
		if len(ring) > 1 && ring[0].Dist(ring[len(ring)-1]) < 1e-6 {
			ring = ring[:len(ring)-1]
		}
		if len(ring) >= 3 {
			out = append(out, ring)
		}
		ring = nil
	}

	for _, s := range p.Segments {
		switch s.Op {
		case MoveTo:
			flush()
			cur = s.Pts[0]
			ring = Polygon{cur}
		case LineTo:
			ring = append(ring, s.Pts[0])
			cur = s.Pts[0]
		case QuadTo:
			n := steps(cur.Dist(s.Pts[0])+s.Pts[0].Dist(s.Pts[1]), step)
			for i := 1; i <= n; i++ {
				ring = append(ring, quadAt(cur, s.Pts[0], s.Pts[1], float64(i)/float64(n)))
			}
			cur = s.Pts[1]
		case CubeTo:
			n := steps(cur.Dist(s.Pts[0])+s.Pts[0].Dist(s.Pts[1])+s.Pts[1].Dist(s.Pts[2]), step)
			for i := 1; i <= n; i++ {
				ring = append(ring, cubicAt(cur, s.Pts[0], s.Pts[1], s.Pts[2], float64(i)/float64(n)))
			}
			cur = s.Pts[2]
		case Close:
			flush()
		}
	}
	flush()
	return out
}

func steps(length, step float64) int {
	return min(max(int(math.Ceil(length/step)), 1), 128)
}

// PolylineData formats points as path data: a moveto followed by linetos,
// closed with Z when closed is set.
func PolylineData(pts []Point, closed bool) string {
	var sb strings.Builder
	for i, p := range pts {
		if i == 0 {
			sb.WriteString("M")
		} else {
			sb.WriteString(" L")
		}
		sb.WriteString(Fmt(p.X))
		sb.WriteByte(' ')
		sb.WriteString(Fmt(p.Y))
	}
	if closed && len(pts) > 0 {
		sb.WriteString(" Z")
	}
	return sb.String()
}

// CurveData formats a Catmull-Rom spline through pts as cubic Bézier path
// data. Used for hand-drawn strokes that should look continuous.
func CurveData(pts []Point) string {
	if len(pts) < 3 {
		return PolylineData(pts, false)
	}
	var sb strings.Builder
	sb.WriteString("M" + Fmt(pts[0].X) + " " + Fmt(pts[0].Y))
	for i := 0; i < len(pts)-1; i++ {
		p0 := pts[max(i-1, 0)]
		p1, p2 := pts[i], pts[i+1]
		p3 := pts[min(i+2, len(pts)-1)]
		c1 := p1.Add(p2.Sub(p0).Scale(1.0 / 6))
		c2 := p2.Sub(p3.Sub(p1).Scale(1.0 / 6))
		sb.WriteString(" C" + Fmt(c1.X) + " " + Fmt(c1.Y) + " " + Fmt(c2.X) + " " + Fmt(c2.Y) + " " + Fmt(p2.X) + " " + Fmt(p2.Y))
	}
	return sb.String()
}
