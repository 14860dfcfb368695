// Package sketch draws catalog shapes in a hand-drawn style.
//
// Each shape's path is flattened to polygons, its outline is traced twice
// with pseudo-random jitter, and its interior is filled according to the
// pass-wide [FillStyle]. Fills are generated by scan-line hatching clipped
// to the polygon with the even-odd rule; the styles differ only in how the
// hatch pieces are turned into marks.
//
// Output depends on the seed. A [Sketcher] built with the same seed,
// style and options draws byte-identical output for the same inputs, which
// is what makes pinned-seed renders cacheable. Unpinned passes pick a
// fresh seed, so repeated renders differ.
//
// A Sketcher consumes its random source as it draws and is not safe for
// concurrent use. Build one per render pass.
package sketch

import (
	"math"
	"math/rand/v2"
	"strings"

	"github.com/matzehuels/notediagram/pkg/errors"
	"github.com/matzehuels/notediagram/pkg/render/backend"
	"github.com/matzehuels/notediagram/pkg/render/geom"
	"github.com/matzehuels/notediagram/pkg/render/scene"
)

// MinHachureGap is the smallest accepted hatch spacing. Smaller gaps are
// raised to it so a fill stays bounded in size.
const MinHachureGap = 0.5

// Options tune the hand-drawn transform.
type Options struct {
	Roughness    float64 // outline jitter amplitude multiplier
	Bowing       float64 // edge bow multiplier
	HachureAngle float64 // degrees from horizontal
	HachureGap   float64 // distance between hatch lines
	FillWeight   float64 // hatch stroke width
	StrokeWidth  float64 // outline stroke width
	DashLength   float64
	DashGap      float64
	DotSpacing   float64
	FlattenStep  float64 // max chord length when flattening curves
}

// DefaultOptions returns the stock hand-drawn look.
func DefaultOptions() Options {
	return Options{
		Roughness:    1,
		Bowing:       1,
		HachureAngle: -41,
		HachureGap:   4,
		FillWeight:   1,
		StrokeWidth:  1,
		DashLength:   12,
		DashGap:      6,
		DotSpacing:   8,
		FlattenStep:  4,
	}
}

// Option configures a Sketcher.
type Option func(*Options)

// WithRoughness scales outline and hatch jitter. Zero draws clean lines.
func WithRoughness(r float64) Option {
	return func(o *Options) {
		if !math.IsNaN(r) {
			o.Roughness = max(r, 0)
		}
	}
}

// WithHachureGap sets the spacing between hatch lines. Non-positive gaps
// are ignored and gaps below MinHachureGap are raised to it.
func WithHachureGap(g float64) Option {
	return func(o *Options) {
		if g > 0 {
			o.HachureGap = max(g, MinHachureGap)
		}
	}
}

// WithHachureAngle sets the hatch direction in degrees.
func WithHachureAngle(deg float64) Option {
	return func(o *Options) {
		if !math.IsNaN(deg) && !math.IsInf(deg, 0) {
			o.HachureAngle = deg
		}
	}
}

// Apply returns DefaultOptions with opts applied.
func Apply(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Sketcher is the hand-drawn backend.
type Sketcher struct {
	style FillStyle
	opts  Options
	seed  uint64
	rng   *rand.Rand
}

var _ backend.Backend = (*Sketcher)(nil)

// New returns a Sketcher drawing with style, seeded with seed.
// An invalid style falls back to DefaultFillStyle.
func New(style FillStyle, seed uint64, opts ...Option) *Sketcher {
	if !style.Valid() {
		style = DefaultFillStyle
	}
	return &Sketcher{
		style: style,
		opts:  Apply(opts...),
		seed:  seed,
		rng:   rand.New(rand.NewPCG(seed, seed^0xdeadbeef)),
	}
}

func (s *Sketcher) Name() string { return "sketch:" + string(s.style) }

// Seed returns the seed the Sketcher was built with.
func (s *Sketcher) Seed() uint64 { return s.seed }

// Style returns the fill style.
func (s *Sketcher) Style() FillStyle { return s.style }

// Draw sketches one shape. Path data that cannot be parsed or that
// encloses no area is a RENDER_FAILURE.
func (s *Sketcher) Draw(r backend.Resolved) (scene.Node, error) {
	p, err := geom.Parse(r.Shape.Path)
	if err != nil {
		return scene.Node{}, errors.Wrap(errors.ErrCodeRenderFailure, err, "sketch shape %d", r.Index)
	}
	polys := p.Flatten(s.opts.FlattenStep)
	if len(polys) == 0 {
		return scene.Node{}, errors.New(errors.ErrCodeRenderFailure, "sketch shape %d: path encloses no area", r.Index)
	}

	var elems []scene.Element
	elems = append(elems, s.fill(polys)...)
	elems = append(elems, s.outline(polys)...)
	return scene.Node{Shape: r.Index, Paint: r.Paint, Sketched: true, Elements: elems}, nil
}

func (s *Sketcher) jitter(amp float64) float64 {
	return (s.rng.Float64()*2 - 1) * amp
}

func (s *Sketcher) wobble(p geom.Point, amp float64) geom.Point {
	return geom.Point{X: p.X + s.jitter(amp), Y: p.Y + s.jitter(amp)}
}

// roughRing resamples a polygon and perturbs every sample. Long edges also
// bow sideways so they read as drawn by hand rather than noisy.
func (s *Sketcher) roughRing(pg geom.Polygon, amp float64) []geom.Point {
	const sample = 20.0
	var out []geom.Point
	n := len(pg)
	for i := range n {
		a, b := pg[i], pg[(i+1)%n]
		l := a.Dist(b)
		k := max(1, int(math.Ceil(l/sample)))
		bow := s.jitter(s.opts.Bowing * s.opts.Roughness * l / 100)
		var normal geom.Point
		if l > 0 {
			normal = geom.Point{X: -(b.Y - a.Y) / l, Y: (b.X - a.X) / l}
		}
		for j := range k {
			t := float64(j) / float64(k)
			q := a.Lerp(b, t).Add(normal.Scale(bow * math.Sin(math.Pi*t)))
			out = append(out, s.wobble(q, amp))
		}
	}
	return append(out, out[0])
}

func (s *Sketcher) outline(polys []geom.Polygon) []scene.Element {
	amp := 1.2 * s.opts.Roughness
	var elems []scene.Element
	for range 2 {
		var parts []string
		for _, pg := range polys {
			parts = append(parts, geom.CurveData(s.roughRing(pg, amp)))
		}
		d := strings.Join(parts, " ")
		elems = append(elems, scene.Element{
			Kind:        scene.Stroked,
			D:           d,
			StrokeWidth: s.opts.StrokeWidth,
			Bounds:      curveBounds(d),
		})
	}
	return elems
}

func (s *Sketcher) fill(polys []geom.Polygon) []scene.Element {
	o := s.opts
	lineAmp := 0.5 * o.Roughness

	switch s.style {
	case Solid:
		var parts []string
		for _, pg := range polys {
			parts = append(parts, geom.CurveData(s.roughRing(pg, 0.8*o.Roughness))+" Z")
		}
		d := strings.Join(parts, " ")
		return []scene.Element{{Kind: scene.Solid, D: d, EvenOdd: true, Bounds: curveBounds(d)}}

	case Hachure, CrossHatch:
		acc := newPathAcc()
		angles := []float64{o.HachureAngle}
		if s.style == CrossHatch {
			angles = append(angles, o.HachureAngle+90)
		}
		for _, angle := range angles {
			for _, row := range hatchLines(polys, angle, o.HachureGap) {
				for _, seg := range row {
					acc.polyline(s.roughLine(seg, lineAmp), false)
				}
			}
		}
		return acc.elements(scene.Stroked, o.FillWeight)

	case Zigzag:
		acc := newPathAcc()
		for _, chain := range zigzagChains(hatchLines(polys, o.HachureAngle, o.HachureGap), 3*o.HachureGap) {
			for i := range chain {
				chain[i] = s.wobble(chain[i], lineAmp)
			}
			acc.polyline(chain, false)
		}
		return acc.elements(scene.Stroked, o.FillWeight)

	case ZigzagLine:
		acc := newPathAcc()
		// Wider spacing leaves room for the teeth.
		for _, row := range hatchLines(polys, o.HachureAngle, 2*o.HachureGap) {
			for _, seg := range row {
				pts := zigzagAlong(seg, o.HachureGap, o.HachureGap/2)
				for i := range pts {
					pts[i] = s.wobble(pts[i], lineAmp/2)
				}
				acc.polyline(pts, false)
			}
		}
		return acc.elements(scene.Stroked, o.FillWeight)

	case Dashed:
		acc := newPathAcc()
		for _, row := range hatchLines(polys, o.HachureAngle, o.HachureGap) {
			for _, seg := range row {
				for _, dash := range dashes(seg, o.DashLength, o.DashGap) {
					acc.polyline([]geom.Point{s.wobble(dash.a, lineAmp), s.wobble(dash.b, lineAmp)}, false)
				}
			}
		}
		return acc.elements(scene.Stroked, o.FillWeight)

	case Dots:
		acc := newPathAcc()
		r := max(o.FillWeight, 0.5)
		for _, row := range hatchLines(polys, o.HachureAngle, o.DotSpacing) {
			for _, seg := range row {
				for _, c := range dotCenters(seg, o.DotSpacing) {
					acc.polyline(dot(s.wobble(c, lineAmp), r), true)
				}
			}
		}
		return acc.elements(scene.Solid, 0)
	}
	return nil
}

// roughLine draws a hatch piece as a slightly bowed three-point stroke.
func (s *Sketcher) roughLine(seg segment, amp float64) []geom.Point {
	mid := seg.a.Lerp(seg.b, 0.5)
	return []geom.Point{
		s.wobble(seg.a, amp),
		s.wobble(mid, amp*1.5),
		s.wobble(seg.b, amp),
	}
}

func dot(c geom.Point, r float64) []geom.Point {
	pts := make([]geom.Point, 8)
	for i := range pts {
		sin, cos := math.Sincos(float64(i) * math.Pi / 4)
		pts[i] = geom.Point{X: c.X + r*cos, Y: c.Y + r*sin}
	}
	return pts
}

func curveBounds(d string) geom.Rect {
	p, err := geom.Parse(d)
	if err != nil {
		return geom.Empty()
	}
	return p.Bounds()
}

// pathAcc concatenates polylines into one path and tracks their bounds.
type pathAcc struct {
	sb     strings.Builder
	bounds geom.Rect
}

func newPathAcc() *pathAcc { return &pathAcc{bounds: geom.Empty()} }

func (a *pathAcc) polyline(pts []geom.Point, closed bool) {
	if len(pts) < 2 {
		return
	}
	if a.sb.Len() > 0 {
		a.sb.WriteByte(' ')
	}
	a.sb.WriteString(geom.PolylineData(pts, closed))
	for _, p := range pts {
		a.bounds = a.bounds.Include(p)
	}
}

func (a *pathAcc) elements(kind scene.Kind, width float64) []scene.Element {
	if a.sb.Len() == 0 {
		return nil
	}
	return []scene.Element{{Kind: kind, D: a.sb.String(), StrokeWidth: width, Bounds: a.bounds}}
}
