// Package backend draws resolved catalog shapes into scene nodes.
//
// Two drawing strategies exist: [Flat] emits each path exactly as authored,
// and the sketch subpackage perturbs it into a hand-drawn rendering. A
// [Composite] picks between them per shape, honoring the NoRough override
// carried in the resolved paint.
package backend

import (
	"github.com/matzehuels/notediagram/pkg/catalog"
	"github.com/matzehuels/notediagram/pkg/errors"
	"github.com/matzehuels/notediagram/pkg/render/geom"
	"github.com/matzehuels/notediagram/pkg/render/scene"
	"github.com/matzehuels/notediagram/pkg/render/style"
)

// Resolved is a catalog shape paired with its resolved paint.
type Resolved struct {
	Index int
	Shape catalog.Shape
	Paint style.Paint
}

// Backend draws one resolved shape.
type Backend interface {
	Name() string
	Draw(r Resolved) (scene.Node, error)
}

// Flat draws paths verbatim. It is stateless and deterministic.
type Flat struct{}

func (Flat) Name() string { return "flat" }

// Draw validates the path data and emits it unchanged.
func (Flat) Draw(r Resolved) (scene.Node, error) {
	p, err := geom.Parse(r.Shape.Path)
	if err != nil {
		return scene.Node{}, errors.Wrap(errors.ErrCodeRenderFailure, err, "shape %d", r.Index)
	}
	return scene.Node{
		Shape: r.Index,
		Paint: r.Paint,
		Elements: []scene.Element{{
			Kind:   scene.Filled,
			D:      r.Shape.Path,
			Bounds: p.Bounds(),
		}},
	}, nil
}

// Composite routes each shape to Flat when its paint is marked flat and to
// Sketch otherwise. A nil Sketch draws everything flat.
type Composite struct {
	Flat   Backend
	Sketch Backend
}

func (c Composite) Name() string {
	if c.Sketch == nil {
		return c.flat().Name()
	}
	return c.Sketch.Name()
}

func (c Composite) flat() Backend {
	if c.Flat == nil {
		return Flat{}
	}
	return c.Flat
}

// Draw dispatches r to the matching backend.
func (c Composite) Draw(r Resolved) (scene.Node, error) {
	if r.Paint.Flat || c.Sketch == nil {
		return c.flat().Draw(r)
	}
	return c.Sketch.Draw(r)
}

// DrawAll draws shapes in order, stopping at the first failure.
func DrawAll(b Backend, shapes []Resolved) (*scene.Scene, error) {
	s := &scene.Scene{Nodes: make([]scene.Node, 0, len(shapes))}
	for _, r := range shapes {
		n, err := b.Draw(r)
		if err != nil {
			return nil, err
		}
		s.Nodes = append(s.Nodes, n)
	}
	return s, nil
}
