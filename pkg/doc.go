// Package pkg provides the core libraries for notediagram.
//
// # Overview
//
// notediagram turns a catalog diagram, a color theme and up to four key
// points into a fitted drawing. The pkg directory is organized as:
//
//  1. [catalog], [theme] - Static inputs (diagram shapes, palettes)
//  2. [render] - The render pass (style, backends, viewport, content, sinks)
//  3. [host] - Ownership boundary for editors that embed diagram views
//  4. [pipeline] - Orchestration (pass → encode) with caching
//  5. [cache], [notes] - Storage (render cache, note documents)
//  6. [config], [server] - TOML configuration and the HTTP API
//
// # Architecture
//
// The data flow of one render:
//
//	catalog shapes + theme + params
//	         ↓
//	    [render/style] (resolve paint per shape)
//	         ↓
//	    [render/backend] (flat or sketch drawing)
//	         ↓
//	    [render/viewport] (fit to drawn bounds)
//	         ↓
//	    [render/content] (bind key points to slots)
//	         ↓
//	    [render/sink] (SVG, document, JSON, PNG, PDF)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil, nil)
//	res, _ := runner.Execute(ctx, pipeline.Options{
//	    Diagram: "pyramid",
//	    Theme:   "ocean",
//	    Mode:    "sketch",
//	})
//	svg := res.Artifacts["svg"]
//
// [catalog]: https://pkg.go.dev/github.com/matzehuels/notediagram/pkg/catalog
// [theme]: https://pkg.go.dev/github.com/matzehuels/notediagram/pkg/theme
// [render]: https://pkg.go.dev/github.com/matzehuels/notediagram/pkg/render
// [host]: https://pkg.go.dev/github.com/matzehuels/notediagram/pkg/host
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/notediagram/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/notediagram/pkg/cache
// [notes]: https://pkg.go.dev/github.com/matzehuels/notediagram/pkg/notes
// [config]: https://pkg.go.dev/github.com/matzehuels/notediagram/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/notediagram/pkg/server
//
// [render/style]: https://pkg.go.dev/github.com/matzehuels/notediagram/pkg/render/style
// [render/backend]: https://pkg.go.dev/github.com/matzehuels/notediagram/pkg/render/backend
// [render/viewport]: https://pkg.go.dev/github.com/matzehuels/notediagram/pkg/render/viewport
// [render/content]: https://pkg.go.dev/github.com/matzehuels/notediagram/pkg/render/content
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/notediagram/pkg/render/sink
package pkg
