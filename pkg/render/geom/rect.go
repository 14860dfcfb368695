// Package geom parses SVG path data and measures the resulting geometry.
//
// Path data is parsed at full float precision into absolute M/L/Q/C/Z
// segments; every SVG path command is accepted, with arcs converted to
// cubic Béziers. On top of that the package offers tight bounds (including
// Bézier extrema) and polyline flattening for the sketch backend.
package geom

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Point is a 2D point in user units.
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }
func (p Point) Dist(q Point) float64  { return math.Hypot(p.X-q.X, p.Y-q.Y) }
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Rect is an axis-aligned rectangle. The zero Rect is a degenerate point at
// the origin; use [Empty] as the identity for [Rect.Union].
type Rect struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Empty returns a rectangle that contains nothing.
func Empty() Rect {
	return Rect{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
}

// MarshalJSON encodes an empty rectangle as null.
func (r Rect) MarshalJSON() ([]byte, error) {
	if r.IsEmpty() {
		return []byte("null"), nil
	}
	type plain Rect
	return json.Marshal(plain(r))
}

// IsEmpty reports whether r contains no points.
func (r Rect) IsEmpty() bool { return r.MinX > r.MaxX || r.MinY > r.MaxY }

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Include grows r to contain p.
func (r Rect) Include(p Point) Rect {
	return Rect{
		MinX: min(r.MinX, p.X), MinY: min(r.MinY, p.Y),
		MaxX: max(r.MaxX, p.X), MaxY: max(r.MaxY, p.Y),
	}
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	if o.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return o
	}
	return Rect{
		MinX: min(r.MinX, o.MinX), MinY: min(r.MinY, o.MinY),
		MaxX: max(r.MaxX, o.MaxX), MaxY: max(r.MaxY, o.MaxY),
	}
}

// Expand grows r by d on every side.
func (r Rect) Expand(d float64) Rect {
	if r.IsEmpty() {
		return r
	}
	return Rect{r.MinX - d, r.MinY - d, r.MaxX + d, r.MaxY + d}
}

// Contains reports whether o lies inside r.
func (r Rect) Contains(o Rect) bool {
	return o.MinX >= r.MinX && o.MinY >= r.MinY && o.MaxX <= r.MaxX && o.MaxY <= r.MaxY
}

// ViewBox formats r as an SVG viewBox attribute value.
func (r Rect) ViewBox() string {
	return fmt.Sprintf("%s %s %s %s", Fmt(r.MinX), Fmt(r.MinY), Fmt(r.Width()), Fmt(r.Height()))
}

// Fmt formats a coordinate with at most two decimals.
func Fmt(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
