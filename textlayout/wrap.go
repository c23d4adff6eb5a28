// Package textlayout performs manual text layout for PDF content streams:
// greedy word wrapping with optional naive hyphenation, multi-paragraph flow,
// line-count and vertical truncation with an ellipsis marker.
//
// The package never draws anything. Widths are obtained through a
// caller-supplied MeasureFunc, so the same layout can be driven by fpdf's
// core font metrics or by a fixed-width measure in tests.
package textlayout

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis is the marker appended to truncated text.
const Ellipsis = "…"

// MeasureFunc returns the rendered width of text at the given font size.
type MeasureFunc func(text string, size float64) float64

// Options controls WrapParagraph.
type Options struct {
	// HyphenateLongWords splits words wider than the line into chunks ending
	// with "-". When false such words are broken at character granularity.
	HyphenateLongWords bool

	// FirstLineIndent narrows the first line of the paragraph by this width.
	FirstLineIndent float64
}

// WrapParagraph greedily packs the whitespace-separated words of text into
// lines no wider than maxWidth. An empty word list yields no lines.
func WrapParagraph(text string, maxWidth, fontSize float64, opts Options, measure MeasureFunc) []string {
	var out []string
	limit := func() float64 {
		if len(out) == 0 && opts.FirstLineIndent > 0 {
			return maxWidth - opts.FirstLineIndent
		}
		return maxWidth
	}
	fits := func(s string) bool { return measure(s, fontSize) <= limit() }

	line := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if fits(candidate) {
			line = candidate
			continue
		}
		if line != "" {
			out = append(out, line)
			line = ""
		}
		if fits(word) {
			line = word
			continue
		}

		remaining := word
		if opts.HyphenateLongWords {
			remaining = hyphenate(remaining, fits, &out)
		}
		if !fits(remaining) {
			remaining = hardBreak(remaining, fits, &out)
		}
		line = remaining
	}
	if line != "" {
		out = append(out, line)
	}
	return out
}

// hyphenate emits the longest prefixes (down to three runes) that fit with a
// trailing hyphen and returns what is left of word.
func hyphenate(word string, fits func(string) bool, out *[]string) string {
	runes := []rune(word)
	for !fits(string(runes)) && len(runes) > 2 {
		cut := len(runes) - 1
		for cut > 2 && !fits(string(runes[:cut])+"-") {
			cut--
		}
		if cut <= 2 {
			break
		}
		*out = append(*out, string(runes[:cut])+"-")
		runes = runes[cut:]
	}
	return string(runes)
}

// hardBreak splits word at character granularity. A single rune wider than
// the line is still emitted on its own line.
func hardBreak(word string, fits func(string) bool, out *[]string) string {
	chunk := ""
	for _, r := range word {
		test := chunk + string(r)
		if fits(test) {
			chunk = test
			continue
		}
		if chunk != "" {
			*out = append(*out, chunk)
		}
		chunk = string(r)
	}
	return chunk
}

// TruncateToWidth shortens s rune by rune until s plus an ellipsis fits in
// maxWidth. Text that already fits is returned unchanged; if not even the
// ellipsis fits, the empty string is returned.
func TruncateToWidth(s string, maxWidth, fontSize float64, measure MeasureFunc) string {
	if measure(s, fontSize) <= maxWidth {
		return s
	}
	for s != "" {
		_, size := utf8.DecodeLastRuneInString(s)
		s = strings.TrimRight(s[:len(s)-size], " ")
		if measure(s+Ellipsis, fontSize) <= maxWidth {
			return s + Ellipsis
		}
	}
	if measure(Ellipsis, fontSize) <= maxWidth {
		return Ellipsis
	}
	return ""
}
