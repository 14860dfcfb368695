package pipeline

import (
	"context"

	"github.com/matzehuels/notediagram/pkg/errors"
	"github.com/matzehuels/notediagram/pkg/render/pass"
	"github.com/matzehuels/notediagram/pkg/render/sink"
)

// Encode serializes res in one format using the encode options in opts.
func Encode(ctx context.Context, res *pass.Result, f sink.Format, opts *Options) ([]byte, error) {
	svgOpts := buildSVGOptions(opts)

	switch f {
	case sink.FormatSVG:
		return sink.RenderSVG(res, append(svgOpts, sink.WithXMLHeader())...)
	case sink.FormatDocument:
		return sink.RenderDocument(res, buildDocumentOptions(opts, svgOpts)...)
	case sink.FormatJSON:
		return sink.RenderJSON(res, true)
	case sink.FormatPNG:
		pngOpts := []sink.PNGOption{sink.WithScale(opts.Scale)}
		if opts.Background != "" {
			pngOpts = append(pngOpts, sink.WithPNGBackground(opts.Background))
		}
		return sink.RenderPNG(ctx, res, pngOpts...)
	case sink.FormatPDF:
		return sink.RenderPDF(ctx, res, buildDocumentOptions(opts, svgOpts)...)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", f)
}

func buildSVGOptions(opts *Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithWidth(opts.Width)}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	return svgOpts
}

func buildDocumentOptions(opts *Options, svgOpts []sink.SVGOption) []sink.DocumentOption {
	docOpts := []sink.DocumentOption{sink.WithDiagramOptions(svgOpts...)}
	if opts.Background != "" {
		docOpts = append(docOpts, sink.WithPageBackground(opts.Background))
	}
	return docOpts
}
