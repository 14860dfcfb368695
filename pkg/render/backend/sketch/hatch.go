package sketch

import (
	"math"
	"slices"

	"github.com/matzehuels/notediagram/pkg/render/geom"
)

type segment struct {
	a, b geom.Point
}

func (s segment) length() float64 { return s.a.Dist(s.b) }

func (s segment) reversed() segment { return segment{s.b, s.a} }

// hatchLines covers polys with parallel lines angleDeg from horizontal,
// gap apart, clipped to the interior under the even-odd rule. Lines are
// returned per scanline in scan order, each scanline's pieces left to right.
func hatchLines(polys []geom.Polygon, angleDeg, gap float64) [][]segment {
	if gap <= 0 || len(polys) == 0 {
		return nil
	}
	gap = max(gap, MinHachureGap)
	bounds := geom.Empty()
	for _, pg := range polys {
		bounds = bounds.Union(pg.Bounds())
	}
	center := geom.Point{X: (bounds.MinX + bounds.MaxX) / 2, Y: (bounds.MinY + bounds.MaxY) / 2}
	rad := angleDeg * math.Pi / 180

	// Rotate the shape so hatch lines become horizontal scanlines.
	rotated := make([]geom.Polygon, len(polys))
	rb := geom.Empty()
	for i, pg := range polys {
		rotated[i] = make(geom.Polygon, len(pg))
		for j, p := range pg {
			rotated[i][j] = rotate(p, center, -rad)
			rb = rb.Include(rotated[i][j])
		}
	}

	var lines [][]segment
	var xs []float64
	for y := rb.MinY + gap/2; y < rb.MaxY; y += gap {
		xs = xs[:0]
		for _, pg := range rotated {
			n := len(pg)
			for i := range n {
				a, b := pg[i], pg[(i+1)%n]
				if (a.Y <= y && b.Y > y) || (b.Y <= y && a.Y > y) {
					xs = append(xs, a.X+(y-a.Y)*(b.X-a.X)/(b.Y-a.Y))
				}
			}
		}
		if len(xs) < 2 {
			continue
		}
		slices.Sort(xs)
		var row []segment
		for i := 0; i+1 < len(xs); i += 2 {
			if xs[i+1]-xs[i] < 0.5 {
				continue
			}
			row = append(row, segment{
				a: rotate(geom.Point{X: xs[i], Y: y}, center, rad),
				b: rotate(geom.Point{X: xs[i+1], Y: y}, center, rad),
			})
		}
		if len(row) > 0 {
			lines = append(lines, row)
		}
	}
	return lines
}

func rotate(p, c geom.Point, rad float64) geom.Point {
	sin, cos := math.Sincos(rad)
	dx, dy := p.X-c.X, p.Y-c.Y
	return geom.Point{X: c.X + dx*cos - dy*sin, Y: c.Y + dx*sin + dy*cos}
}

// zigzagChains joins consecutive hatch pieces into boustrophedon polylines.
// A chain breaks when the jump to the next piece exceeds maxJump.
func zigzagChains(lines [][]segment, maxJump float64) [][]geom.Point {
	var (
		chains [][]geom.Point
		chain  []geom.Point
		flip   bool
	)
	for _, row := range lines {
		for _, s := range row {
			if flip {
				s = s.reversed()
			}
			if len(chain) > 0 && chain[len(chain)-1].Dist(s.a) > maxJump {
				chains = append(chains, chain)
				chain = nil
			}
			chain = append(chain, s.a, s.b)
		}
		flip = !flip
	}
	if len(chain) > 0 {
		chains = append(chains, chain)
	}
	return chains
}

// zigzagAlong replaces a straight piece with a zigzag of the given
// amplitude whose teeth are spaced step apart.
func zigzagAlong(s segment, step, amplitude float64) []geom.Point {
	l := s.length()
	n := max(1, int(math.Round(l/step)))
	dir := s.b.Sub(s.a).Scale(1 / l)
	normal := geom.Point{X: -dir.Y, Y: dir.X}
	pts := make([]geom.Point, 0, n+2)
	pts = append(pts, s.a)
	for i := range n {
		t := (float64(i) + 0.5) * l / float64(n)
		side := amplitude
		if i%2 == 1 {
			side = -amplitude
		}
		pts = append(pts, s.a.Add(dir.Scale(t)).Add(normal.Scale(side)))
	}
	return append(pts, s.b)
}

// dashes splits a piece into dashes of length dash separated by gap.
func dashes(s segment, dash, gap float64) []segment {
	l := s.length()
	if l == 0 || dash <= 0 {
		return nil
	}
	var out []segment
	for t := 0.0; t < l; t += dash + gap {
		end := min(t+dash, l)
		out = append(out, segment{s.a.Lerp(s.b, t/l), s.a.Lerp(s.b, end/l)})
	}
	return out
}

// dotCenters places points every spacing along a piece, starting half a
// spacing in.
func dotCenters(s segment, spacing float64) []geom.Point {
	l := s.length()
	if l == 0 || spacing <= 0 {
		return nil
	}
	var out []geom.Point
	for t := spacing / 2; t < l; t += spacing {
		out = append(out, s.a.Lerp(s.b, t/l))
	}
	return out
}
