// Package text measures label strings with a fixed bitmap face.
//
// Measurement uses [basicfont.Face7x13] scaled to the requested font size.
// Every rune gets its own advance so that labels can follow curved paths
// glyph by glyph. Shaping, kerning and bidirectional text are not handled.
package text

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/maplabel/pkg/placement"
)

// DefaultFontSize is used when a style gives no font size.
const DefaultFontSize = 10.0

// Face is the face all labels are measured with.
var Face font.Face = basicfont.Face7x13

// nativeSize is the pixel height Face was designed for.
const nativeSize = 13.0

// Measure returns the layout of s at fontSize pixels. Whitespace is kept
// and counts towards the width.
func Measure(s string, fontSize float64) placement.Layout {
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	scale := fontSize / nativeSize

	layout := placement.Layout{
		Key:      s,
		Height:   fontSize,
		Advances: make([]float64, 0, utf8.RuneCountInString(s)),
	}
	prev := rune(-1)
	for _, r := range s {
		adv, ok := Face.GlyphAdvance(r)
		if !ok {
			adv, _ = Face.GlyphAdvance('?')
		}
		if prev >= 0 {
			adv += Face.Kern(prev, r)
		}
		w := toFloat(adv) * scale
		layout.Advances = append(layout.Advances, w)
		layout.Width += w
		prev = r
	}
	return layout
}

// Width returns the advance width of s at fontSize pixels.
func Width(s string, fontSize float64) float64 {
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	return toFloat(font.MeasureString(Face, s)) * fontSize / nativeSize
}

// Alternatives measures the primary label followed by every non-blank
// alternative, in order.
func Alternatives(primary string, alternatives []string, fontSize float64) []placement.Layout {
	out := []placement.Layout{Measure(primary, fontSize)}
	for _, alt := range alternatives {
		if strings.TrimSpace(alt) == "" {
			continue
		}
		out = append(out, Measure(alt, fontSize))
	}
	return out
}

// Marker returns the layout of a rigid marker box.
func Marker(key string, width, height float64) placement.Layout {
	return placement.Layout{Key: key, Width: width, Height: height}
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
