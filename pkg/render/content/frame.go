package content

import "github.com/matzehuels/notediagram/pkg/render/geom"

// Align is the horizontal text alignment inside a block.
type Align string

const (
	AlignStart  Align = "start"
	AlignEnd    Align = "end"
	AlignCenter Align = "center"
)

// ComposeOptions control the composed document's metrics.
type ComposeOptions struct {
	Padding      float64
	Gap          float64
	BlockWidth   float64
	DiagramWidth float64
	TitleSize    float64
	BodySize     float64
	LineHeight   float64 // multiple of the font size
}

// DefaultComposeOptions returns the stock document metrics.
func DefaultComposeOptions() ComposeOptions {
	return ComposeOptions{
		Padding:      16,
		Gap:          16,
		BlockWidth:   200,
		DiagramWidth: 500,
		TitleSize:    16,
		BodySize:     12,
		LineHeight:   1.3,
	}
}

// Block is one positioned, pre-wrapped key point.
type Block struct {
	Slot  Slot      `json:"slot"`
	Rect  geom.Rect `json:"rect"`
	Align Align     `json:"align"`
	Title []string  `json:"title"`
	Body  []string  `json:"body"`
}

// Frame is the full document arrangement in output units.
type Frame struct {
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
	Diagram geom.Rect      `json:"diagram"`
	Blocks  []Block        `json:"blocks"`
	Options ComposeOptions `json:"-"`
}

// Compose arranges a placement around a diagram whose fitted viewport is
// vp. The diagram keeps vp's aspect ratio at opts.DiagramWidth. Empty slots
// still take their position so the arrangement does not shift as points
// arrive.
func Compose(p Placement, vp geom.Rect, opts ComposeOptions) Frame {
	dw := opts.DiagramWidth
	dh := dw
	if vp.Width() > 0 {
		dh = dw * vp.Height() / vp.Width()
	}

	f := Frame{Options: opts}
	if p.Layout == Horizontal {
		composeRow(&f, p.Row, dw, dh)
	} else {
		composeColumns(&f, p.Before, p.After, dw, dh)
	}
	return f
}

func (f *Frame) block(s Slot, align Align) Block {
	o := f.Options
	return Block{
		Slot:  s,
		Align: align,
		Title: WrapText(s.Point.Title, o.BlockWidth, o.TitleSize),
		Body:  WrapText(s.Point.Content, o.BlockWidth, o.BodySize),
	}
}

func (f *Frame) blockHeight(b Block) float64 {
	o := f.Options
	h := float64(len(b.Title)) * o.TitleSize * o.LineHeight
	if len(b.Body) > 0 {
		h += o.Gap/4 + float64(len(b.Body))*o.BodySize*o.LineHeight
	}
	return h
}

func composeRow(f *Frame, row []Slot, dw, dh float64) {
	o := f.Options
	n := float64(len(row))
	rowW := n*o.BlockWidth + max(n-1, 0)*o.Gap
	inner := max(rowW, dw)
	f.Width = inner + 2*o.Padding

	rowH := 0.0
	x := o.Padding + (inner-rowW)/2
	for _, s := range row {
		b := f.block(s, AlignStart)
		h := f.blockHeight(b)
		rowH = max(rowH, h)
		b.Rect = geom.Rect{MinX: x, MinY: o.Padding, MaxX: x + o.BlockWidth, MaxY: o.Padding + h}
		f.Blocks = append(f.Blocks, b)
		x += o.BlockWidth + o.Gap
	}

	top := o.Padding + rowH + o.Gap
	left := o.Padding + (inner-dw)/2
	f.Diagram = geom.Rect{MinX: left, MinY: top, MaxX: left + dw, MaxY: top + dh}
	f.Height = top + dh + o.Padding
}

func composeColumns(f *Frame, before, after []Slot, dw, dh float64) {
	o := f.Options
	colGap := 2 * o.Gap

	build := func(slots []Slot, align Align) ([]Block, float64) {
		var blocks []Block
		h := 0.0
		for i, s := range slots {
			b := f.block(s, align)
			if i > 0 {
				h += colGap
			}
			h += f.blockHeight(b)
			blocks = append(blocks, b)
		}
		return blocks, h
	}
	left, leftH := build(before, AlignEnd)
	right, rightH := build(after, AlignStart)

	inner := max(leftH, rightH, dh)
	f.Height = inner + 2*o.Padding

	place := func(blocks []Block, colH, x float64) {
		y := o.Padding + (inner-colH)/2
		for i := range blocks {
			h := f.blockHeight(blocks[i])
			blocks[i].Rect = geom.Rect{MinX: x, MinY: y, MaxX: x + o.BlockWidth, MaxY: y + h}
			y += h + colGap
		}
		f.Blocks = append(f.Blocks, blocks...)
	}

	x := o.Padding
	place(left, leftH, x)
	x += o.BlockWidth + o.Gap
	top := o.Padding + (inner-dh)/2
	f.Diagram = geom.Rect{MinX: x, MinY: top, MaxX: x + dw, MaxY: top + dh}
	x += dw + colGap
	place(right, rightH, x)
	f.Width = x + o.BlockWidth + o.Padding
}
