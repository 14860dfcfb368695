package catalog

import (
	"math"
	"strconv"
	"strings"
)

// pathBuilder emits absolute M/L/C/Z path data. Arcs are approximated with
// cubic Béziers so every consumer only needs the four basic verbs.
type pathBuilder struct {
	sb strings.Builder
}

func (p *pathBuilder) cmd(verb byte, coords ...float64) *pathBuilder {
	if p.sb.Len() > 0 {
		p.sb.WriteByte(' ')
	}
	p.sb.WriteByte(verb)
	for i, v := range coords {
		if i > 0 {
			p.sb.WriteByte(' ')
		}
		p.sb.WriteString(num(v))
	}
	return p
}

func (p *pathBuilder) move(x, y float64) *pathBuilder { return p.cmd('M', x, y) }
func (p *pathBuilder) line(x, y float64) *pathBuilder { return p.cmd('L', x, y) }
func (p *pathBuilder) close() *pathBuilder            { return p.cmd('Z') }

func (p *pathBuilder) cubic(x1, y1, x2, y2, x, y float64) *pathBuilder {
	return p.cmd('C', x1, y1, x2, y2, x, y)
}

// arc continues the path along a circle from angle a0 to a1 (radians,
// clockwise on screen for increasing angle). The current point must already
// sit at the arc start.
func (p *pathBuilder) arc(cx, cy, r, a0, a1 float64) *pathBuilder {
	n := int(math.Ceil(math.Abs(a1-a0) / (math.Pi / 2)))
	if n == 0 {
		return p
	}
	step := (a1 - a0) / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)
	for i := range n {
		s := a0 + float64(i)*step
		e := s + step
		x0, y0 := cx+r*math.Cos(s), cy+r*math.Sin(s)
		x3, y3 := cx+r*math.Cos(e), cy+r*math.Sin(e)
		p.cubic(
			x0-k*r*math.Sin(s), y0+k*r*math.Cos(s),
			x3+k*r*math.Sin(e), y3-k*r*math.Cos(e),
			x3, y3,
		)
	}
	return p
}

func (p *pathBuilder) String() string { return p.sb.String() }

func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func rect(x, y, w, h float64) string {
	var p pathBuilder
	return p.move(x, y).line(x+w, y).line(x+w, y+h).line(x, y+h).close().String()
}

func roundRect(x, y, w, h, r float64) string {
	r = min(r, w/2, h/2)
	var p pathBuilder
	p.move(x+r, y).line(x+w-r, y).arc(x+w-r, y+r, r, -math.Pi/2, 0)
	p.line(x+w, y+h-r).arc(x+w-r, y+h-r, r, 0, math.Pi/2)
	p.line(x+r, y+h).arc(x+r, y+h-r, r, math.Pi/2, math.Pi)
	p.line(x, y+r).arc(x+r, y+r, r, math.Pi, 3*math.Pi/2)
	return p.close().String()
}

func circle(cx, cy, r float64) string {
	var p pathBuilder
	return p.move(cx+r, cy).arc(cx, cy, r, 0, 2*math.Pi).close().String()
}

func ellipse(cx, cy, rx, ry float64) string {
	const k = 0.5522847498
	var p pathBuilder
	p.move(cx+rx, cy)
	p.cubic(cx+rx, cy+k*ry, cx+k*rx, cy+ry, cx, cy+ry)
	p.cubic(cx-k*rx, cy+ry, cx-rx, cy+k*ry, cx-rx, cy)
	p.cubic(cx-rx, cy-k*ry, cx-k*rx, cy-ry, cx, cy-ry)
	p.cubic(cx+k*rx, cy-ry, cx+rx, cy-k*ry, cx+rx, cy)
	return p.close().String()
}

type pt struct{ x, y float64 }

func polygon(pts ...pt) string {
	var p pathBuilder
	for i, q := range pts {
		if i == 0 {
			p.move(q.x, q.y)
		} else {
			p.line(q.x, q.y)
		}
	}
	return p.close().String()
}

// ringSector is the band between two concentric circles from a0 to a1.
func ringSector(cx, cy, inner, outer, a0, a1 float64) string {
	var p pathBuilder
	p.move(cx+outer*math.Cos(a0), cy+outer*math.Sin(a0))
	p.arc(cx, cy, outer, a0, a1)
	p.line(cx+inner*math.Cos(a1), cy+inner*math.Sin(a1))
	p.arc(cx, cy, inner, a1, a0)
	return p.close().String()
}

// blade is a curved wedge anchored at (cx, cy) pointing along angle.
func blade(cx, cy, length, width, angle float64) string {
	sin, cos := math.Sincos(angle)
	at := func(u, v float64) (float64, float64) {
		return cx + u*cos - v*sin, cy + u*sin + v*cos
	}
	var p pathBuilder
	p.move(at(0, 0))
	x1, y1 := at(length*0.25, -width)
	x2, y2 := at(length*0.85, -width*0.9)
	x3, y3 := at(length, 0)
	p.cubic(x1, y1, x2, y2, x3, y3)
	x1, y1 = at(length*0.8, width*0.35)
	x2, y2 = at(length*0.35, width*0.3)
	p.cubic(x1, y1, x2, y2, cx, cy)
	return p.close().String()
}
