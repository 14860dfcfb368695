package catalog

import "math"

func opacity(v float64) *float64 { return &v }

func fill(i int) Style { return Style{FillIndex: i} }

func stackedShapes() []Shape {
	shapes := []Shape{
		{Path: ellipse(480, 470, 310, 18), Style: Style{FillIndex: Black, FillOpacity: opacity(0.15)}},
	}
	for i := range 4 {
		y := 90 + float64(i)*92
		shapes = append(shapes, Shape{Path: roundRect(180, y, 600, 74, 14), Style: fill(i)})
	}
	for i := range 4 {
		y := 90 + float64(i)*92 + 37
		shapes = append(shapes, Shape{Path: circle(228, y, 22), Style: Style{FillIndex: White, NoRough: true}})
	}
	return shapes
}

func arrowShapes() []Shape {
	shapes := []Shape{
		{Path: rect(60, 252, 860, 36), Style: Style{FillIndex: 0, FillOpacity: opacity(0.25)}},
	}
	for i := range 4 {
		x := 80 + float64(i)*200
		shapes = append(shapes, Shape{
			Path: polygon(
				pt{x, 190}, pt{x + 170, 190}, pt{x + 220, 270},
				pt{x + 170, 350}, pt{x, 350}, pt{x + 50, 270},
			),
			Style: fill(i),
		})
	}
	return shapes
}

func diamondShapes() []Shape {
	centers := []pt{{480, 160}, {590, 270}, {480, 380}, {370, 270}}
	shapes := make([]Shape, 0, 5)
	for i, c := range centers {
		shapes = append(shapes, Shape{
			Path:  polygon(pt{c.x, c.y - 105}, pt{c.x + 105, c.y}, pt{c.x, c.y + 105}, pt{c.x - 105, c.y}),
			Style: fill(i),
		})
	}
	return append(shapes, Shape{Path: circle(480, 270, 28), Style: Style{FillIndex: White, NoRough: true}})
}

func puzzleShapes() []Shape {
	const size = 180
	origins := []pt{{300, 90}, {480, 90}, {480, 270}, {300, 270}}
	shapes := make([]Shape, 0, 8)
	for i, o := range origins {
		shapes = append(shapes, Shape{Path: rect(o.x, o.y, size, size), Style: fill(i)})
	}
	// Each knob belongs to the piece it protrudes from.
	knobs := []pt{{480, 180}, {570, 270}, {480, 360}, {390, 270}}
	for i, k := range knobs {
		shapes = append(shapes, Shape{Path: circle(k.x, k.y, 30), Style: fill(i)})
	}
	return shapes
}

func radialShapes() []Shape {
	const cx, cy = 480.0, 270.0
	satellites := []pt{{480, 85}, {730, 270}, {480, 455}, {230, 270}}
	shapes := make([]Shape, 0, 9)
	for i, s := range satellites {
		dx, dy := s.x-cx, s.y-cy
		l := math.Hypot(dx, dy)
		nx, ny := -dy/l*12, dx/l*12
		shapes = append(shapes, Shape{
			Path:  polygon(pt{cx + nx, cy + ny}, pt{s.x + nx, s.y + ny}, pt{s.x - nx, s.y - ny}, pt{cx - nx, cy - ny}),
			Style: Style{FillIndex: i, FillOpacity: opacity(0.35)},
		})
	}
	for i, s := range satellites {
		shapes = append(shapes, Shape{Path: circle(s.x, s.y, 70), Style: fill(i)})
	}
	// Index 4 wraps around the palette, so the hub takes the fifth color
	// on long themes and the first color on four-color themes.
	return append(shapes, Shape{Path: circle(cx, cy, 90), Style: fill(4)})
}

func pinwheelShapes() []Shape {
	shapes := make([]Shape, 0, 5)
	for i := range 4 {
		angle := -math.Pi/2 + float64(i)*math.Pi/2
		shapes = append(shapes, Shape{Path: blade(480, 270, 230, 110, angle), Style: fill(i)})
	}
	return append(shapes, Shape{Path: circle(480, 270, 26), Style: Style{FillIndex: White, NoRough: true}})
}

func eightShapes() []Shape {
	const inner, outer = 62.0, 112.0
	left, right := pt{366, 270}, pt{594, 270}
	return []Shape{
		{Path: ringSector(left.x, left.y, inner, outer, math.Pi, 2*math.Pi), Style: fill(0)},
		{Path: ringSector(right.x, right.y, inner, outer, math.Pi, 2*math.Pi), Style: fill(1)},
		{Path: ringSector(right.x, right.y, inner, outer, 0, math.Pi), Style: fill(2)},
		{Path: ringSector(left.x, left.y, inner, outer, 0, math.Pi), Style: fill(3)},
		{Path: circle(left.x, left.y, 20), Style: Style{FillIndex: White, NoRough: true}},
		{Path: circle(right.x, right.y, 20), Style: Style{FillIndex: White, NoRough: true}},
	}
}

func pyramidShapes() []Shape {
	const (
		apexY  = 60.0
		baseY  = 460.0
		half   = 300.0
		layer  = (baseY - apexY) / 4
		gap    = 4.0
		center = 480.0
	)
	halfAt := func(y float64) float64 { return (y - apexY) / (baseY - apexY) * half }

	shapes := []Shape{
		{Path: ellipse(center, 482, 320, 16), Style: Style{FillIndex: Black, FillOpacity: opacity(0.2)}},
	}
	for i := range 4 {
		top := apexY + float64(i)*layer
		bottom := top + layer
		if i > 0 {
			top += gap
		}
		if i < 3 {
			bottom -= gap
		}
		var path string
		if i == 0 {
			path = polygon(pt{center, top}, pt{center + halfAt(bottom), bottom}, pt{center - halfAt(bottom), bottom})
		} else {
			path = polygon(
				pt{center - halfAt(top), top}, pt{center + halfAt(top), top},
				pt{center + halfAt(bottom), bottom}, pt{center - halfAt(bottom), bottom},
			)
		}
		shapes = append(shapes, Shape{Path: path, Style: fill(i)})
	}
	return shapes
}
