package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/notediagram/pkg/errors"
	"github.com/matzehuels/notediagram/pkg/render/geom"
	"github.com/matzehuels/notediagram/pkg/render/pass"
	"github.com/matzehuels/notediagram/pkg/render/scene"
)

// DefaultWidth is the rendered width of a standalone diagram.
const DefaultWidth = 500.0

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width        float64
	idPrefix     string
	splitOpacity bool
	background   string
	xmlHeader    bool
}

// WithWidth sets the width attribute of the root element. Height follows
// the viewport's aspect ratio. Zero leaves the size to the viewer.
func WithWidth(w float64) SVGOption { return func(r *svgRenderer) { r.width = w } }

// WithIDPrefix overrides the prefix of element ids. The default is derived
// from the result ID so several diagrams can share one page.
func WithIDPrefix(p string) SVGOption { return func(r *svgRenderer) { r.idPrefix = p } }

// WithSplitOpacity writes translucent paint as a hex color plus
// fill-opacity and stroke-opacity instead of rgba(). Some rasterizers do
// not understand rgba().
func WithSplitOpacity() SVGOption { return func(r *svgRenderer) { r.splitOpacity = true } }

// WithBackground paints the viewport with color before the diagram.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithXMLHeader prepends an XML declaration, for standalone .svg files.
func WithXMLHeader() SVGOption { return func(r *svgRenderer) { r.xmlHeader = true } }

func newSVGRenderer(res *pass.Result, opts ...SVGOption) svgRenderer {
	r := svgRenderer{width: DefaultWidth}
	for _, opt := range opts {
		opt(&r)
	}
	if r.idPrefix == "" {
		r.idPrefix = "nd-" + strings.ReplaceAll(res.ID.String(), "-", "")[:12]
	}
	return r
}

func checkResult(res *pass.Result) error {
	if res == nil || res.Scene == nil {
		return errors.New(errors.ErrCodeInvalidInput, "no presented result to render")
	}
	if res.Viewport.IsEmpty() || res.Viewport.Width() <= 0 || res.Viewport.Height() <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "result has an empty viewport")
	}
	return nil
}

// RenderSVG writes the diagram alone. The viewBox is the fitted viewport.
func RenderSVG(res *pass.Result, opts ...SVGOption) ([]byte, error) {
	if err := checkResult(res); err != nil {
		return nil, err
	}
	r := newSVGRenderer(res, opts...)
	vp := res.Viewport

	var buf bytes.Buffer
	if r.xmlHeader {
		buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	}
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="` + vp.ViewBox() + `"`)
	if r.width > 0 {
		fmt.Fprintf(&buf, ` width="%s" height="%s"`, geom.Fmt(r.width), geom.Fmt(r.width*vp.Height()/vp.Width()))
	}
	buf.WriteString(` fill="none" stroke="none" stroke-linecap="square" stroke-miterlimit="10">` + "\n")

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			geom.Fmt(vp.MinX), geom.Fmt(vp.MinY), geom.Fmt(vp.Width()), geom.Fmt(vp.Height()), escapeAttr(r.background))
	}
	r.renderScene(&buf, res.Scene, "  ")
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func (r *svgRenderer) renderScene(buf *bytes.Buffer, s *scene.Scene, indent string) {
	for _, n := range s.Nodes {
		class := "shape flat"
		if n.Sketched {
			class = "shape sketch"
		}
		fmt.Fprintf(buf, `%s<g id="%s-shape-%d" class="%s">`+"\n", indent, r.idPrefix, n.Shape, class)
		for _, e := range n.Elements {
			buf.WriteString(indent + "  ")
			r.renderElement(buf, n, e)
			buf.WriteByte('\n')
		}
		buf.WriteString(indent + "</g>\n")
	}
}

func (r *svgRenderer) renderElement(buf *bytes.Buffer, n scene.Node, e scene.Element) {
	p := n.Paint
	fill, stroke := p.Fill, p.Stroke
	translucent := r.splitOpacity && p.Opacity < 1
	if translucent {
		fill, stroke = p.Base, p.Base
	}

	fmt.Fprintf(buf, `<path d="%s"`, e.D)
	switch e.Kind {
	case scene.Filled:
		fmt.Fprintf(buf, ` fill="%s" stroke="%s"`, fill, stroke)
		if translucent {
			fmt.Fprintf(buf, ` fill-opacity="%s" stroke-opacity="%s"`, geom.Fmt(p.Opacity), geom.Fmt(p.Opacity))
		}
	case scene.Stroked:
		fmt.Fprintf(buf, ` fill="none" stroke="%s" stroke-width="%s"`, stroke, geom.Fmt(max(e.StrokeWidth, 0.5)))
		if translucent {
			fmt.Fprintf(buf, ` stroke-opacity="%s"`, geom.Fmt(p.Opacity))
		}
	case scene.Solid:
		fmt.Fprintf(buf, ` fill="%s" stroke="none"`, fill)
		if translucent {
			fmt.Fprintf(buf, ` fill-opacity="%s"`, geom.Fmt(p.Opacity))
		}
	}
	if e.EvenOdd {
		buf.WriteString(` fill-rule="evenodd"`)
	}
	buf.WriteString("/>")
}
