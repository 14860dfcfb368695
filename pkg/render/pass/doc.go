// Package pass runs render passes: the lifecycle that turns a diagram
// choice, a theme and a rendering mode into a drawn, fitted scene.
//
// A pass moves through a fixed sequence of states:
//
//	Idle -> GeometryBuilt -> Drawn -> Fitted -> Presented
//	                 \-> Failed
//
// Unknown diagrams, themes or modes are configuration errors: the pass
// never leaves Idle. A malformed path makes the backend fail and the pass
// ends in Failed, which callers can tell apart from "nothing drawn yet".
//
// [Engine] runs standalone passes. [Instance] wraps an engine for one
// rendered view and applies last-writer-wins: each Update starts a new
// generation, and a pass that finds its generation stale stops with
// [ErrSuperseded] without touching the committed state.
//
// Flat passes are deterministic. Sketch passes draw with a random seed
// unless [Params.Seed] pins one; the seed used is recorded in [Result].
package pass
