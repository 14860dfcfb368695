// Package sink encodes presented render passes.
//
// # Formats
//
//   - [RenderSVG]: the diagram alone, viewBox set to the fitted viewport
//   - [RenderDocument]: the diagram with its four bullet points arranged
//     horizontally or vertically around it
//   - [RenderJSON]: the full result, including drawn geometry
//   - [RenderPNG]: the diagram rasterized in process (oksvg + rasterx)
//   - [RenderPDF]: the document converted with rsvg-convert
//
// Element ids are prefixed with part of the result ID so several diagrams
// can be inlined into one HTML page without clashing.
//
// # Options
//
// Each renderer takes functional options:
//
//	svg, err := sink.RenderSVG(res, sink.WithWidth(800), sink.WithBackground("#fff"))
//	png, err := sink.RenderPNG(ctx, res, sink.WithScale(2))
package sink
