package statechart

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/notediagram/pkg/render"
	"github.com/matzehuels/notediagram/pkg/render/pass"
)

// Options configures state chart generation.
type Options struct {
	// Current is highlighted when set. Nil highlights nothing.
	Current *pass.State

	// ShowReset draws the implicit "any state -> idle" edge that every
	// update performs.
	ShowReset bool
}

// ToDOT converts the pass state machine to Graphviz DOT source.
func ToDOT(opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph passes {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, s := range pass.States() {
		fmt.Fprintf(&buf, "  %q [%s];\n", s.String(), strings.Join(fmtAttrs(s, opts.Current), ", "))
	}

	buf.WriteString("\n")
	for _, e := range pass.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From.String(), e.To.String())
	}
	if opts.ShowReset {
		for _, s := range pass.States() {
			if s == pass.Idle || s == pass.Drawn {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=grey];\n", s.String(), pass.Idle.String())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(s pass.State, current *pass.State) []string {
	attrs := []string{fmt.Sprintf("label=%q", s.String())}
	switch {
	case current != nil && *current == s:
		attrs = append(attrs, "fillcolor=\"#4f46e5\"", "fontcolor=white")
	case s == pass.Failed:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=\"#fee2e2\"")
	case s == pass.Presented:
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// unitless one so the chart scales like the diagrams do.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPNG renders DOT source as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
