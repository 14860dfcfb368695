package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/notediagram/pkg/errors"
)

// Op is a path segment verb.
type Op uint8

const (
	MoveTo Op = iota
	LineTo
	QuadTo
	CubeTo
	Close
)

// Segment is one path command in absolute coordinates. Pts holds the
// control points followed by the end point; unused entries are zero.
type Segment struct {
	Op  Op
	Pts [3]Point
}

// End returns the segment's end point. Close has none.
func (s Segment) End() Point {
	switch s.Op {
	case MoveTo, LineTo:
		return s.Pts[0]
	case QuadTo:
		return s.Pts[1]
	case CubeTo:
		return s.Pts[2]
	}
	return Point{}
}

// Path is compiled path geometry.
type Path struct {
	Segments []Segment
}

const validPathChars = "MmLlHhVvCcSsQqTtAaZz0123456789.,+-eE \t\r\n"

// Parse compiles SVG path data. Anything that is not well-formed path data
// (foreign characters, no leading moveto, bad argument counts, no drawable
// segment) is a RENDER_FAILURE. Coordinates keep full float precision.
func Parse(d string) (*Path, error) {
	trimmed := strings.TrimSpace(d)
	if trimmed == "" {
		return nil, errors.New(errors.ErrCodeRenderFailure, "empty path data")
	}
	if i := strings.IndexFunc(trimmed, func(r rune) bool { return !strings.ContainsRune(validPathChars, r) }); i >= 0 {
		return nil, errors.New(errors.ErrCodeRenderFailure, "invalid character %q at offset %d in path data", trimmed[i], i)
	}
	if trimmed[0] != 'M' && trimmed[0] != 'm' {
		return nil, errors.New(errors.ErrCodeRenderFailure, "path data must begin with a moveto, got %q", trimmed[0])
	}

	b := builder{sc: scanner{s: trimmed}}
	if err := b.run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailure, err, "compile path data")
	}
	p := &Path{Segments: b.segs}
	if !p.drawable() {
		return nil, errors.New(errors.ErrCodeRenderFailure, "path data draws nothing")
	}
	return p, nil
}

func (p *Path) drawable() bool {
	for _, s := range p.Segments {
		if s.Op == LineTo || s.Op == QuadTo || s.Op == CubeTo {
			return true
		}
	}
	return false
}

// builder turns path commands into absolute segments. A drawing command
// after a closepath reopens the subpath at the current point.
type builder struct {
	sc    scanner
	segs  []Segment
	start Point
	cur   Point
	ctrl  Point // reflected control point for S and T
	last  byte  // previous command, upper case
	open  bool
}

func (b *builder) run() error {
	var cmd byte
	for {
		b.sc.skipSpace()
		if b.sc.done() {
			return nil
		}
		if c := b.sc.peek(); isCommand(c) {
			cmd = c
			b.sc.pos++
		} else if cmd == 0 {
			return fmt.Errorf("expected command at offset %d", b.sc.pos)
		}
		if err := b.command(cmd); err != nil {
			return err
		}
		// A moveto's extra coordinate pairs are implicit linetos.
		switch cmd {
		case 'M':
			cmd = 'L'
		case 'm':
			cmd = 'l'
		case 'Z', 'z':
			cmd = 0
		}
	}
}

func isCommand(c byte) bool {
	return strings.IndexByte("MmLlHhVvCcSsQqTtAaZz", c) >= 0
}

func (b *builder) command(cmd byte) error {
	rel := cmd >= 'a'
	upper := cmd &^ 0x20
	abs := func(p Point) Point {
		if rel {
			return p.Add(b.cur)
		}
		return p
	}

	switch upper {
	case 'Z':
		b.closePath()
		b.last = 'Z'
		return nil
	case 'M':
		p, err := b.sc.point()
		if err != nil {
			return err
		}
		b.moveTo(abs(p))
	case 'L':
		p, err := b.sc.point()
		if err != nil {
			return err
		}
		b.lineTo(abs(p))
	case 'H':
		x, err := b.sc.number()
		if err != nil {
			return err
		}
		if rel {
			x += b.cur.X
		}
		b.lineTo(Point{X: x, Y: b.cur.Y})
	case 'V':
		y, err := b.sc.number()
		if err != nil {
			return err
		}
		if rel {
			y += b.cur.Y
		}
		b.lineTo(Point{X: b.cur.X, Y: y})
	case 'C', 'S':
		var c1 Point
		if upper == 'S' {
			c1 = b.cur
			if b.last == 'C' || b.last == 'S' {
				c1 = b.cur.Scale(2).Sub(b.ctrl)
			}
		} else {
			p, err := b.sc.point()
			if err != nil {
				return err
			}
			c1 = abs(p)
		}
		c2, err := b.sc.point()
		if err != nil {
			return err
		}
		end, err := b.sc.point()
		if err != nil {
			return err
		}
		c2, end = abs(c2), abs(end)
		b.cubeTo(c1, c2, end)
		b.ctrl = c2
	case 'Q', 'T':
		var c Point
		if upper == 'T' {
			c = b.cur
			if b.last == 'Q' || b.last == 'T' {
				c = b.cur.Scale(2).Sub(b.ctrl)
			}
		} else {
			p, err := b.sc.point()
			if err != nil {
				return err
			}
			c = abs(p)
		}
		end, err := b.sc.point()
		if err != nil {
			return err
		}
		end = abs(end)
		b.quadTo(c, end)
		b.ctrl = c
	case 'A':
		var v [5]float64
		for i := range v {
			var err error
			if i == 3 || i == 4 {
				v[i], err = b.sc.flag()
			} else {
				v[i], err = b.sc.number()
			}
			if err != nil {
				return err
			}
		}
		end, err := b.sc.point()
		if err != nil {
			return err
		}
		b.arcTo(v[0], v[1], v[2], v[3] != 0, v[4] != 0, abs(end))
	}
	b.last = upper
	return nil
}

func (b *builder) moveTo(p Point) {
	b.start, b.cur, b.open = p, p, true
	b.segs = append(b.segs, Segment{Op: MoveTo, Pts: [3]Point{p}})
}

func (b *builder) ensureOpen() {
	if !b.open {
		b.moveTo(b.cur)
	}
}

func (b *builder) lineTo(p Point) {
	b.ensureOpen()
	b.cur = p
	b.segs = append(b.segs, Segment{Op: LineTo, Pts: [3]Point{p}})
}

func (b *builder) quadTo(c, p Point) {
	b.ensureOpen()
	b.cur = p
	b.segs = append(b.segs, Segment{Op: QuadTo, Pts: [3]Point{c, p}})
}

func (b *builder) cubeTo(c1, c2, p Point) {
	b.ensureOpen()
	b.cur = p
	b.segs = append(b.segs, Segment{Op: CubeTo, Pts: [3]Point{c1, c2, p}})
}

func (b *builder) closePath() {
	if !b.open {
		return
	}
	b.segs = append(b.segs, Segment{Op: Close})
	b.cur = b.start
	b.open = false
}

// arcTo appends an elliptical arc as cubic Béziers of at most 90° each,
// following the endpoint-to-center conversion in SVG 1.1 appendix F.6.
func (b *builder) arcTo(rx, ry, rotDeg float64, large, sweep bool, end Point) {
	p0 := b.cur
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 || p0 == end {
		b.lineTo(end)
		return
	}
	phi := rotDeg * math.Pi / 180
	sin, cos := math.Sincos(phi)

	dx, dy := (p0.X-end.X)/2, (p0.Y-end.Y)/2
	x1 := cos*dx + sin*dy
	y1 := -sin*dx + cos*dy

	if l := x1*x1/(rx*rx) + y1*y1/(ry*ry); l > 1 {
		s := math.Sqrt(l)
		rx, ry = rx*s, ry*s
	}
	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := math.Sqrt(max(num/den, 0))
	if large == sweep {
		coef = -coef
	}
	cx1 := coef * rx * y1 / ry
	cy1 := -coef * ry * x1 / rx
	cx := cos*cx1 - sin*cy1 + (p0.X+end.X)/2
	cy := sin*cx1 + cos*cy1 + (p0.Y+end.Y)/2

	angle := func(ux, uy, vx, vy float64) float64 {
		return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
	}
	theta := angle(1, 0, (x1-cx1)/rx, (y1-cy1)/ry)
	delta := angle((x1-cx1)/rx, (y1-cy1)/ry, (-x1-cx1)/rx, (-y1-cy1)/ry)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	on := func(t float64) (Point, Point) {
		st, ct := math.Sincos(t)
		p := Point{X: cx + rx*ct*cos - ry*st*sin, Y: cy + rx*ct*sin + ry*st*cos}
		d := Point{X: -rx*st*cos - ry*ct*sin, Y: -rx*st*sin + ry*ct*cos}
		return p, d
	}
	n := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if n == 0 {
		b.lineTo(end)
		return
	}
	step := delta / float64(n)
	k := 4.0 / 3 * math.Tan(step/4)
	t := theta
	for i := range n {
		a, da := on(t)
		z, dz := on(t + step)
		if i == n-1 {
			z = end
		}
		b.cubeTo(a.Add(da.Scale(k)), z.Sub(dz.Scale(k)), z)
		t += step
	}
}

// scanner reads numbers out of path data.
type scanner struct {
	s   string
	pos int
}

func (s *scanner) done() bool { return s.pos >= len(s.s) }
func (s *scanner) peek() byte { return s.s[s.pos] }

func (s *scanner) skipSpace() {
	for !s.done() && strings.IndexByte(" \t\r\n,", s.peek()) >= 0 {
		s.pos++
	}
}

// number reads one SVG number. "1.5.5" is two numbers and "1-2" is too.
func (s *scanner) number() (float64, error) {
	s.skipSpace()
	start := s.pos
	if !s.done() && (s.peek() == '+' || s.peek() == '-') {
		s.pos++
	}
	digits := s.digits()
	if !s.done() && s.peek() == '.' {
		s.pos++
		digits += s.digits()
	}
	if digits == 0 {
		return 0, fmt.Errorf("expected number at offset %d", start)
	}
	if !s.done() && (s.peek() == 'e' || s.peek() == 'E') {
		mark := s.pos
		s.pos++
		if !s.done() && (s.peek() == '+' || s.peek() == '-') {
			s.pos++
		}
		if s.digits() == 0 {
			s.pos = mark
		}
	}
	v, err := strconv.ParseFloat(s.s[start:s.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("number at offset %d: %w", start, err)
	}
	return v, nil
}

func (s *scanner) digits() int {
	n := 0
	for !s.done() && s.peek() >= '0' && s.peek() <= '9' {
		s.pos++
		n++
	}
	return n
}

func (s *scanner) point() (Point, error) {
	x, err := s.number()
	if err != nil {
		return Point{}, err
	}
	y, err := s.number()
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

// flag reads an arc flag, which may be written without a separator.
func (s *scanner) flag() (float64, error) {
	s.skipSpace()
	if s.done() || (s.peek() != '0' && s.peek() != '1') {
		return 0, fmt.Errorf("expected arc flag at offset %d", s.pos)
	}
	v := float64(s.peek() - '0')
	s.pos++
	return v, nil
}

// Bounds returns the tight bounding box of the path, including curve
// extrema rather than control points.
func (p *Path) Bounds() Rect {
	r := Empty()
	var cur Point
	for _, s := range p.Segments {
		switch s.Op {
		case MoveTo, LineTo:
			r = r.Include(s.Pts[0])
		case QuadTo:
			r = r.Include(s.Pts[1])
			for _, t := range quadExtrema(cur, s.Pts[0], s.Pts[1]) {
				r = r.Include(quadAt(cur, s.Pts[0], s.Pts[1], t))
			}
		case CubeTo:
			r = r.Include(s.Pts[2])
			for _, t := range cubicExtrema(cur, s.Pts[0], s.Pts[1], s.Pts[2]) {
				r = r.Include(cubicAt(cur, s.Pts[0], s.Pts[1], s.Pts[2], t))
			}
		}
		if s.Op != Close {
			cur = s.End()
		}
	}
	return r
}

func quadAt(p0, p1, p2 Point, t float64) Point {
	mt := 1 - t
	return Point{
		mt*mt*p0.X + 2*mt*t*p1.X + t*t*p2.X,
		mt*mt*p0.Y + 2*mt*t*p1.Y + t*t*p2.Y,
	}
}

func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	a, b, c, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
	return Point{
		a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

func quadExtrema(p0, p1, p2 Point) []float64 {
	var ts []float64
	for _, v := range [][3]float64{{p0.X, p1.X, p2.X}, {p0.Y, p1.Y, p2.Y}} {
		den := v[0] - 2*v[1] + v[2]
		if den == 0 {
			continue
		}
		if t := (v[0] - v[1]) / den; t > 0 && t < 1 {
			ts = append(ts, t)
		}
	}
	return ts
}

// cubicExtrema returns the parameters in (0,1) where either coordinate's
// derivative vanishes.
func cubicExtrema(p0, p1, p2, p3 Point) []float64 {
	var ts []float64
	for _, v := range [][4]float64{{p0.X, p1.X, p2.X, p3.X}, {p0.Y, p1.Y, p2.Y, p3.Y}} {
		// B'(t)/3 = a t² + b t + c
		a := -v[0] + 3*v[1] - 3*v[2] + v[3]
		b := 2 * (v[0] - 2*v[1] + v[2])
		c := v[1] - v[0]
		for _, t := range solveQuadratic(a, b, c) {
			if t > 0 && t < 1 {
				ts = append(ts, t)
			}
		}
	}
	return ts
}

func solveQuadratic(a, b, c float64) []float64 {
	const eps = 1e-12
	if math.Abs(a) < eps {
		if math.Abs(b) < eps {
			return nil
		}
		return []float64{-c / b}
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}
