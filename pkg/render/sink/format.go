package sink

import (
	"context"
	"strings"

	"github.com/matzehuels/notediagram/pkg/errors"
	"github.com/matzehuels/notediagram/pkg/render/pass"
)

// Format is an output encoding of a presented pass.
type Format string

const (
	FormatSVG      Format = "svg"
	FormatDocument Format = "document"
	FormatJSON     Format = "json"
	FormatPNG      Format = "png"
	FormatPDF      Format = "pdf"
)

// Formats lists every output format.
func Formats() []Format {
	return []Format{FormatSVG, FormatDocument, FormatJSON, FormatPNG, FormatPDF}
}

// ParseFormat converts user input to a Format. The empty string is SVG.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatSVG, nil
	}
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown output format: %q (valid: svg, document, json, png, pdf)", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	}
	return "image/svg+xml"
}

// Ext returns the file extension, without the dot.
func (f Format) Ext() string {
	if f == FormatDocument {
		return "svg"
	}
	return string(f)
}

// Render encodes res in format f with default options.
func Render(ctx context.Context, res *pass.Result, f Format) ([]byte, error) {
	switch f {
	case FormatSVG:
		return RenderSVG(res)
	case FormatDocument:
		return RenderDocument(res)
	case FormatJSON:
		return RenderJSON(res, true)
	case FormatPNG:
		return RenderPNG(ctx, res, WithScale(2))
	case FormatPDF:
		return RenderPDF(ctx, res)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown output format: %q", string(f))
}
