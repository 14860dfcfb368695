package catalog

import (
	"slices"
	"strings"

	"github.com/matzehuels/notediagram/pkg/errors"
)

// ID names a diagram template. The set is closed: every valid ID is one of
// the constants below and nothing else is accepted by [Lookup] or [ParseID].
type ID string

const (
	Stacked  ID = "stacked"
	Arrow    ID = "arrow"
	Diamond  ID = "diamond"
	Puzzle   ID = "puzzle"
	Radial   ID = "radial"
	Pinwheel ID = "pinwheel"
	Eight    ID = "eight"
	Pyramid  ID = "pyramid"
)

// Palette sentinels. They bypass the active theme.
const (
	Black = 100
	White = 101
)

// Style describes how a shape is painted, independent of any theme.
type Style struct {
	// FillIndex addresses the active theme's palette. Black and White are
	// fixed colors; every other value wraps modulo the palette length.
	FillIndex int `json:"fillIndex"`

	// FillOpacity makes the shape translucent. Nil means fully opaque.
	FillOpacity *float64 `json:"fillOpacity,omitempty"`

	// NoRough keeps the shape crisp: it is always drawn flat, even when the
	// rest of the diagram is sketched.
	NoRough bool `json:"noRough,omitempty"`
}

// Shape is one filled vector path of a diagram.
type Shape struct {
	Path  string `json:"path"`
	Style Style  `json:"style"`
}

// Info summarizes a diagram for listings.
type Info struct {
	ID     ID     `json:"id"`
	Title  string `json:"title"`
	Shapes int    `json:"shapes"`
}

type entry struct {
	title  string
	shapes []Shape
}

var (
	order = []ID{Stacked, Arrow, Diamond, Puzzle, Radial, Pinwheel, Eight, Pyramid}

	entries = map[ID]entry{
		Stacked:  {"Stacked Bars", stackedShapes()},
		Arrow:    {"Arrow Process", arrowShapes()},
		Diamond:  {"Diamond Grid", diamondShapes()},
		Puzzle:   {"Puzzle Pieces", puzzleShapes()},
		Radial:   {"Radial Hub", radialShapes()},
		Pinwheel: {"Pinwheel", pinwheelShapes()},
		Eight:    {"Figure Eight", eightShapes()},
		Pyramid:  {"Pyramid", pyramidShapes()},
	}
)

// Lookup returns the ordered shapes of a diagram. The slice is a copy;
// callers may modify it freely.
func Lookup(id ID) ([]Shape, error) {
	e, ok := entries[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeConfiguration, "unknown diagram: %q", string(id))
	}
	out := make([]Shape, len(e.shapes))
	for i, s := range e.shapes {
		out[i] = s
		if s.Style.FillOpacity != nil {
			v := *s.Style.FillOpacity
			out[i].Style.FillOpacity = &v
		}
	}
	return out, nil
}

// IDs returns every diagram ID in catalog order.
func IDs() []ID {
	return slices.Clone(order)
}

// List returns catalog metadata in catalog order.
func List() []Info {
	infos := make([]Info, 0, len(order))
	for _, id := range order {
		e := entries[id]
		infos = append(infos, Info{ID: id, Title: e.title, Shapes: len(e.shapes)})
	}
	return infos
}

// ParseID converts user input to an ID. Matching ignores case and
// surrounding whitespace.
func ParseID(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := entries[id]; !ok {
		return "", errors.New(errors.ErrCodeConfiguration, "unknown diagram: %q (valid: %s)", s, strings.Join(idStrings(), ", "))
	}
	return id, nil
}

// Valid reports whether id names a catalog diagram.
func (id ID) Valid() bool {
	_, ok := entries[id]
	return ok
}

func (id ID) String() string { return string(id) }

// Title returns the display name, or the raw ID if unknown.
func (id ID) Title() string {
	if e, ok := entries[id]; ok {
		return e.title
	}
	return string(id)
}

func idStrings() []string {
	s := make([]string, len(order))
	for i, id := range order {
		s[i] = string(id)
	}
	return s
}
