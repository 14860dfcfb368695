package content

import (
	"strings"
	"unicode/utf8"
)

// Average glyph advance as a fraction of the font size for a proportional
// sans-serif face.
const fontCharWidth = 0.55

// maxChars is how many characters of the given size fit in width.
func maxChars(width, fontSize float64) int {
	return max(3, int(width/(fontSize*fontCharWidth)))
}

// WrapText breaks s into lines that fit width at fontSize. Words longer
// than a line are split.
func WrapText(s string, width, fontSize float64) []string {
	limit := maxChars(width, fontSize)
	var (
		lines []string
		line  []rune
	)
	flush := func() {
		if len(line) > 0 {
			lines = append(lines, string(line))
			line = line[:0]
		}
	}
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > limit {
			flush()
			lines = append(lines, string(w[:limit]))
			w = w[limit:]
		}
		switch {
		case len(line) == 0:
			line = append(line, w...)
		case len(line)+1+len(w) <= limit:
			line = append(line, ' ')
			line = append(line, w...)
		default:
			flush()
			line = append(line, w...)
		}
	}
	flush()
	return lines
}

// TextWidth estimates the rendered width of s at fontSize.
func TextWidth(s string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(s)) * fontSize * fontCharWidth
}
