// Package render is the root of the diagram rendering engine.
//
// # Overview
//
// A render pass turns a catalog diagram into drawn geometry in stages,
// each owned by a subpackage:
//
//   - [style]: resolves a shape's fill index and opacity against a theme
//   - [backend]: draws shapes flat or, via [backend/sketch], hand-drawn
//   - [viewport]: fits a padded view window around what was drawn
//   - [content]: binds the four bullet points around the diagram
//   - [pass]: sequences the stages as an explicit state machine
//   - [sink]: serializes a presented pass as SVG, PNG, PDF or JSON
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG with the external rsvg-convert tool
// (from librsvg). The sink package also rasterizes diagrams in process for
// PNG output when the tool is not installed.
//
//	svg, _ := sink.RenderDocument(result)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [style]: github.com/matzehuels/notediagram/pkg/render/style
// [backend]: github.com/matzehuels/notediagram/pkg/render/backend
// [backend/sketch]: github.com/matzehuels/notediagram/pkg/render/backend/sketch
// [viewport]: github.com/matzehuels/notediagram/pkg/render/viewport
// [content]: github.com/matzehuels/notediagram/pkg/render/content
// [pass]: github.com/matzehuels/notediagram/pkg/render/pass
// [sink]: github.com/matzehuels/notediagram/pkg/render/sink
package render
