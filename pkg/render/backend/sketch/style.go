package sketch

import (
	"strings"

	"github.com/matzehuels/notediagram/pkg/errors"
)

// FillStyle selects how a sketched shape's interior is drawn. One style
// applies to a whole render pass.
type FillStyle string

const (
	Hachure    FillStyle = "hachure"
	Solid      FillStyle = "solid"
	Zigzag     FillStyle = "zigzag"
	CrossHatch FillStyle = "cross-hatch"
	Dots       FillStyle = "dots"
	Dashed     FillStyle = "dashed"
	ZigzagLine FillStyle = "zigzag-line"
)

// DefaultFillStyle is used when no style is requested.
const DefaultFillStyle = Solid

var fillStyles = []FillStyle{Hachure, Solid, Zigzag, CrossHatch, Dots, Dashed, ZigzagLine}

// FillStyles returns every supported style.
func FillStyles() []FillStyle {
	return append([]FillStyle(nil), fillStyles...)
}

// ParseFillStyle converts user input to a FillStyle. The empty string maps
// to DefaultFillStyle.
func ParseFillStyle(s string) (FillStyle, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultFillStyle, nil
	}
	for _, fs := range fillStyles {
		if string(fs) == s {
			return fs, nil
		}
	}
	return "", errors.New(errors.ErrCodeConfiguration, "unknown sketch style: %q", s)
}

// Valid reports whether fs is a supported style.
func (fs FillStyle) Valid() bool {
	for _, v := range fillStyles {
		if v == fs {
			return true
		}
	}
	return false
}
