// Package draw renders plain-text status panels to ANSI terminals.
package draw

import (
	"strings"
	"unicode/utf8"
)

// Shade characters from lightest to darkest.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel returns a shade character for a value between 0.0 (empty) and 1.0 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := int(intensity * float64(len(Shades)-1))
	return Shades[idx]
}

// Bar renders frac (clamped to [0,1]) as a width-cell bar. The cell at the
// boundary is shaded partially so slow movement stays visible.
func Bar(frac float64, width int) string {
	if width <= 0 {
		return ""
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := frac * float64(width)
	var b strings.Builder
	for i := 0; i < width; i++ {
		b.WriteRune(ShadeLevel(filled - float64(i)))
	}
	return b.String()
}

// Center returns the column that centers s on a screen of the given width (1-based).
func Center(s string, width int) int {
	col := (width-utf8.RuneCountInString(s))/2 + 1
	if col < 1 {
		col = 1
	}
	return col
}
