// Package scene holds drawn diagram geometry.
//
// A [Scene] is what a render pass produces before the viewport is fitted:
// one [Node] per catalog shape, in paint order, each holding the path
// elements a backend emitted for it. Every element records the bounds of
// its own geometry so the viewport can be computed without re-parsing.
package scene

import (
	"fmt"

	"github.com/matzehuels/notediagram/pkg/render/geom"
	"github.com/matzehuels/notediagram/pkg/render/style"
)

// Kind says which paint channels an element uses.
type Kind uint8

const (
	// Filled paths use both fill and stroke (flat shapes).
	Filled Kind = iota
	// Stroked paths use only the stroke (sketch outlines and hatching).
	Stroked
	// Solid paths use only the fill (sketch solid fill and dots).
	Solid
)

func (k Kind) String() string {
	switch k {
	case Filled:
		return "filled"
	case Stroked:
		return "stroked"
	case Solid:
		return "solid"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "filled":
		*k = Filled
	case "stroked":
		*k = Stroked
	case "solid":
		*k = Solid
	default:
		return fmt.Errorf("unknown element kind %q", b)
	}
	return nil
}

// Element is one emitted path.
type Element struct {
	Kind        Kind      `json:"kind"`
	D           string    `json:"d"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
	EvenOdd     bool      `json:"evenOdd,omitempty"`
	Bounds      geom.Rect `json:"bounds"`
}

// Node is the drawn form of one catalog shape.
type Node struct {
	Shape    int         `json:"shape"`
	Paint    style.Paint `json:"paint"`
	Sketched bool        `json:"sketched"`
	Elements []Element   `json:"elements"`
}

// Bounds returns the union of the node's element bounds.
func (n Node) Bounds() geom.Rect {
	r := geom.Empty()
	for _, e := range n.Elements {
		r = r.Union(e.Bounds)
	}
	return r
}

// Scene is the ordered output of one drawing pass.
type Scene struct {
	Nodes []Node `json:"nodes"`
}

// Bounds returns the union of every element's bounds.
func (s *Scene) Bounds() geom.Rect {
	r := geom.Empty()
	for _, n := range s.Nodes {
		r = r.Union(n.Bounds())
	}
	return r
}

// Len returns the number of nodes.
func (s *Scene) Len() int { return len(s.Nodes) }

// Elements returns the total number of emitted elements.
func (s *Scene) Elements() int {
	total := 0
	for _, n := range s.Nodes {
		total += len(n.Elements)
	}
	return total
}
