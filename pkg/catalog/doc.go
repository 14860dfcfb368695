// Package catalog holds the fixed set of diagram templates.
//
// # Overview
//
// A diagram is an ordered list of [Shape] values. Each shape carries SVG
// path data and a theme-independent [Style]. Shapes are painted in list
// order, so later shapes sit on top of earlier ones.
//
// Geometry is authored in a 960×540 logical space. Nothing depends on that
// size at render time: the viewport is fitted to whatever was drawn.
//
// # Palette Indices
//
// Every diagram paints its four key-point segments with palette indices 0
// through 3, in slot order. Accents use the [Black] and [White] sentinels,
// translucent shadows and connectors use FillOpacity, and small precision
// marks (number badges, hub dots) set NoRough.
//
// # Usage
//
//	shapes, err := catalog.Lookup(catalog.Pyramid)
//	if err != nil {
//	    return err // CONFIGURATION_ERROR
//	}
//	for _, s := range shapes {
//	    fmt.Println(s.Style.FillIndex, s.Path)
//	}
//
// The catalog is built once at package initialization and never changes.
package catalog
