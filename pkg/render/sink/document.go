package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/notediagram/pkg/render/content"
	"github.com/matzehuels/notediagram/pkg/render/geom"
	"github.com/matzehuels/notediagram/pkg/render/pass"
)

const (
	bodyColor  = "#6b7280"
	fontFamily = "Inter, Helvetica, Arial, sans-serif"
)

type DocumentOption func(*documentRenderer)

type documentRenderer struct {
	compose    content.ComposeOptions
	background string
	svgOpts    []SVGOption
}

// WithCompose overrides the document metrics.
func WithCompose(o content.ComposeOptions) DocumentOption {
	return func(r *documentRenderer) { r.compose = o }
}

// WithPageBackground fills the whole document with color.
func WithPageBackground(color string) DocumentOption {
	return func(r *documentRenderer) { r.background = color }
}

// WithDiagramOptions passes options through to the embedded diagram.
func WithDiagramOptions(opts ...SVGOption) DocumentOption {
	return func(r *documentRenderer) { r.svgOpts = append(r.svgOpts, opts...) }
}

// Compose returns the arrangement RenderDocument would draw.
func Compose(res *pass.Result, opts ...DocumentOption) (content.Frame, error) {
	if err := checkResult(res); err != nil {
		return content.Frame{}, err
	}
	r := newDocumentRenderer(opts...)
	return content.Compose(res.Placement, res.Viewport, r.compose), nil
}

func newDocumentRenderer(opts ...DocumentOption) documentRenderer {
	r := documentRenderer{compose: content.DefaultComposeOptions()}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderDocument writes the diagram together with its bullet points. Each
// point's title takes the palette color of its slot; the body is grey.
func RenderDocument(res *pass.Result, opts ...DocumentOption) ([]byte, error) {
	if err := checkResult(res); err != nil {
		return nil, err
	}
	r := newDocumentRenderer(opts...)
	f := content.Compose(res.Placement, res.Viewport, r.compose)
	sr := newSVGRenderer(res, r.svgOpts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		geom.Fmt(f.Width), geom.Fmt(f.Height), geom.Fmt(f.Width), geom.Fmt(f.Height))
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeAttr(r.background))
	}

	for _, b := range f.Blocks {
		renderBlock(&buf, b, res.Theme.Color(b.Slot.Index), f.Options)
	}

	d := f.Diagram
	fmt.Fprintf(&buf, `  <svg id="%s" x="%s" y="%s" width="%s" height="%s" viewBox="%s" fill="none" stroke="none" stroke-linecap="square" stroke-miterlimit="10">`+"\n",
		sr.idPrefix, geom.Fmt(d.MinX), geom.Fmt(d.MinY), geom.Fmt(d.Width()), geom.Fmt(d.Height()), res.Viewport.ViewBox())
	sr.renderScene(&buf, res.Scene, "    ")
	buf.WriteString("  </svg>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func renderBlock(buf *bytes.Buffer, b content.Block, titleColor string, o content.ComposeOptions) {
	if b.Slot.Empty() {
		return
	}
	x, anchor := b.Rect.MinX, "start"
	switch b.Align {
	case content.AlignEnd:
		x, anchor = b.Rect.MaxX, "end"
	case content.AlignCenter:
		x, anchor = (b.Rect.MinX+b.Rect.MaxX)/2, "middle"
	}

	fmt.Fprintf(buf, `  <g class="point" data-slot="%d" font-family="%s" text-anchor="%s">`+"\n", b.Slot.Index, fontFamily, anchor)
	y := b.Rect.MinY
	for _, line := range b.Title {
		y += o.TitleSize * o.LineHeight
		fmt.Fprintf(buf, `    <text x="%s" y="%s" font-size="%s" font-weight="bold" fill="%s">%s</text>`+"\n",
			geom.Fmt(x), geom.Fmt(y-o.TitleSize*(o.LineHeight-1)), geom.Fmt(o.TitleSize), titleColor, escapeXML(line))
	}
	if len(b.Body) > 0 {
		y += o.Gap / 4
	}
	for _, line := range b.Body {
		y += o.BodySize * o.LineHeight
		fmt.Fprintf(buf, `    <text x="%s" y="%s" font-size="%s" fill="%s">%s</text>`+"\n",
			geom.Fmt(x), geom.Fmt(y-o.BodySize*(o.LineHeight-1)), geom.Fmt(o.BodySize), bodyColor, escapeXML(line))
	}
	buf.WriteString("  </g>\n")
}

func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func escapeAttr(s string) string { return escapeXML(s) }
