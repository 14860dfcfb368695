// Package statechart draws the render pass lifecycle as a Graphviz diagram.
//
// The chart is generated from [pass.States] and [pass.Edges], so it always
// matches the transitions an [pass.Instance] actually enforces:
//
//	dot := statechart.ToDOT(statechart.Options{ShowReset: true})
//	svg, err := statechart.RenderSVG(ctx, dot)
//
// Pass Options.Current to highlight the state a view is in, which is how
// the preview command shows progress.
package statechart
