// Package content binds key-point text to the fixed four-slot model and
// arranges it around a fitted diagram.
//
// Binding is purely positional: the diagram itself never sees the text.
// A [Placement] says which slots go where; a [Frame] turns that into
// rectangles once the diagram's viewport is known.
package content

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/matzehuels/notediagram/pkg/errors"
)

// Slots is the number of key points every diagram presents.
const Slots = 4

// BulletPoint is one key point. Text is taken as-is.
type BulletPoint struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// MetaLayout arranges slots relative to the diagram.
type MetaLayout string

const (
	// Horizontal puts all four slots in one row above the diagram.
	Horizontal MetaLayout = "horizontal"
	// Vertical puts slots 0-1 left of the diagram and slots 2-3 right of it.
	Vertical MetaLayout = "vertical"
)

// DefaultLayout is used when none is requested.
const DefaultLayout = Vertical

// ParseMetaLayout converts user input to a MetaLayout. The empty string
// maps to DefaultLayout.
func ParseMetaLayout(s string) (MetaLayout, error) {
	switch MetaLayout(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultLayout, nil
	case Horizontal:
		return Horizontal, nil
	case Vertical:
		return Vertical, nil
	}
	return "", errors.New(errors.ErrCodeConfiguration, "unknown meta-layout: %q (valid: horizontal, vertical)", s)
}

// Valid reports whether l is a known layout.
func (l MetaLayout) Valid() bool { return l == Horizontal || l == Vertical }

// Slot is one positioned key point. Index is the global slot index and
// selects the title color.
type Slot struct {
	Index int         `json:"index"`
	Point BulletPoint `json:"point"`
}

// Empty reports whether the slot has no text.
func (s Slot) Empty() bool { return s.Point.Title == "" && s.Point.Content == "" }

// Placement is the outcome of binding points to a layout. Horizontal
// placements fill Row; vertical placements fill Before and After.
type Placement struct {
	Layout MetaLayout `json:"layout"`
	Row    []Slot     `json:"row,omitempty"`
	Before []Slot     `json:"before,omitempty"`
	After  []Slot     `json:"after,omitempty"`
}

// Slots returns every slot in index order.
func (p Placement) Slots() []Slot {
	if p.Layout == Horizontal {
		return p.Row
	}
	out := make([]Slot, 0, len(p.Before)+len(p.After))
	out = append(out, p.Before...)
	return append(out, p.After...)
}

// Bind assigns points to the four slots. Missing points leave empty
// slots; points beyond the fourth are ignored. An invalid layout is
// treated as DefaultLayout.
func Bind(points []BulletPoint, layout MetaLayout) Placement {
	if !layout.Valid() {
		layout = DefaultLayout
	}
	slots := make([]Slot, Slots)
	for i := range slots {
		slots[i].Index = i
		if i < len(points) {
			slots[i].Point = points[i]
		}
	}

	p := Placement{Layout: layout}
	if layout == Horizontal {
		p.Row = slots
	} else {
		p.Before = slots[:2:2]
		p.After = slots[2:]
	}
	return p
}

// ParseBulletPoints reads key points from JSON. It accepts the
// summarizer's {"bulletPoints": [...]} envelope or a bare array.
func ParseBulletPoints(r io.Reader) ([]BulletPoint, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode bullet points")
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var points []BulletPoint
		if err := json.Unmarshal(raw, &points); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode bullet point array")
		}
		return points, nil
	}

	var envelope struct {
		BulletPoints *[]BulletPoint `json:"bulletPoints"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode bullet point response")
	}
	if envelope.BulletPoints == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "missing bulletPoints field")
	}
	return *envelope.BulletPoints, nil
}
