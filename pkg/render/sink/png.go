package sink

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"

	"github.com/matzehuels/notediagram/pkg/errors"
	"github.com/matzehuels/notediagram/pkg/render"
	"github.com/matzehuels/notediagram/pkg/render/pass"
)

// maxPNGSide bounds either side of a rasterized image.
const maxPNGSide = 8192

type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background string
	document   bool
}

// WithScale multiplies the viewport size. 2 gives a high-DPI image.
func WithScale(s float64) PNGOption { return func(r *pngRenderer) { r.scale = s } }

// WithPNGBackground paints color behind the diagram. The default is
// transparent.
func WithPNGBackground(color string) PNGOption { return func(r *pngRenderer) { r.background = color } }

// WithDocumentPNG rasterizes the composed document instead of the bare
// diagram. Text needs rsvg-convert, so this fails when it is missing.
func WithDocumentPNG() PNGOption { return func(r *pngRenderer) { r.document = true } }

// RenderPNG rasterizes the diagram in process with oksvg and rasterx. Only
// the diagram is drawn: the rasterizer has no text support.
func RenderPNG(ctx context.Context, res *pass.Result, opts ...PNGOption) ([]byte, error) {
	if err := checkResult(res); err != nil {
		return nil, err
	}
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if !(r.scale > 0) || math.IsInf(r.scale, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png scale must be positive and finite, got %v", r.scale)
	}

	if r.document {
		svg, err := RenderDocument(res, WithPageBackground(r.background))
		if err != nil {
			return nil, err
		}
		return render.ToPNG(ctx, svg, r.scale)
	}

	svg, err := RenderSVG(res, WithSplitOpacity(), WithWidth(0))
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailure, err, "parse svg for rasterization")
	}

	fw := math.Ceil(res.Viewport.Width() * r.scale)
	fh := math.Ceil(res.Viewport.Height() * r.scale)
	if fw > maxPNGSide || fh > maxPNGSide {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png size %.0fx%.0f exceeds %d pixels per side", fw, fh, maxPNGSide)
	}
	w, h := max(int(fw), 1), max(int(fh), 1)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if r.background != "" {
		c, err := colorful.Hex(r.background)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "png background %q", r.background)
		}
		draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// RenderPDF converts the composed document to PDF with rsvg-convert.
func RenderPDF(ctx context.Context, res *pass.Result, opts ...DocumentOption) ([]byte, error) {
	svg, err := RenderDocument(res, opts...)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}
