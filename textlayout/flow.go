package textlayout

import (
	"math"
	"strings"
)

// Line is one line produced by Wrap.
type Line struct {
	Text string
	// Paragraph is the zero-based index of the source paragraph.
	Paragraph int
	// First marks the first line of a paragraph, which carries the indent.
	First bool
	// Blank marks a spacing line inserted between paragraphs.
	Blank bool
}

// WrapOptions controls Wrap.
type WrapOptions struct {
	Options
	// ParagraphSpacing inserts a blank line between paragraphs.
	ParagraphSpacing bool
	// MaxParagraphs limits the number of paragraphs laid out. Zero means no limit.
	MaxParagraphs int
}

// Wrap splits text on newlines and wraps every paragraph independently.
// Empty paragraphs produce no content lines but still contribute spacing.
func Wrap(text string, maxWidth, fontSize float64, opts WrapOptions, measure MeasureFunc) []Line {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	paras := strings.Split(text, "\n")
	if opts.MaxParagraphs > 0 && len(paras) > opts.MaxParagraphs {
		paras = paras[:opts.MaxParagraphs]
	}

	var lines []Line
	for i, p := range paras {
		if i > 0 && opts.ParagraphSpacing {
			lines = append(lines, Line{Paragraph: i, Blank: true})
		}
		for j, s := range WrapParagraph(p, maxWidth, fontSize, opts.Options, measure) {
			lines = append(lines, Line{Text: s, Paragraph: i, First: j == 0})
		}
	}
	return lines
}

// FlowOptions constrains how many wrapped lines are kept.
type FlowOptions struct {
	// MaxLines caps the number of content lines. Zero means no cap.
	MaxLines int
	// MaxHeight and LineHeight cap the number of lines, blank ones included,
	// that fit vertically. Either being zero disables the vertical cap.
	MaxHeight  float64
	LineHeight float64
	// Ellipsis requests an ellipsis marker when lines are dropped.
	Ellipsis bool
}

// FlowResult is the outcome of Flow.
type FlowResult struct {
	Lines []Line
	// Truncated reports that at least one content line was dropped.
	Truncated bool
	// Ellipsis reports that an ellipsis marker should follow the last line.
	Ellipsis bool
}

// Flow applies the line-count and vertical caps to lines. Trailing blank lines
// are never kept after a truncation.
func Flow(lines []Line, opts FlowOptions) FlowResult {
	slots := math.MaxInt
	if opts.MaxHeight > 0 && opts.LineHeight > 0 {
		slots = int(math.Floor(opts.MaxHeight/opts.LineHeight + 1e-9))
	}

	var res FlowResult
	content := 0
	for i, l := range lines {
		if len(res.Lines) >= slots || (!l.Blank && opts.MaxLines > 0 && content >= opts.MaxLines) {
			res.Truncated = hasContent(lines[i:])
			break
		}
		res.Lines = append(res.Lines, l)
		if !l.Blank {
			content++
		}
	}

	if res.Truncated {
		for len(res.Lines) > 0 && res.Lines[len(res.Lines)-1].Blank {
			res.Lines = res.Lines[:len(res.Lines)-1]
		}
		res.Ellipsis = opts.Ellipsis
	}
	return res
}

// ContentLines counts the non-blank lines in ls.
func ContentLines(ls []Line) int {
	n := 0
	for _, l := range ls {
		if !l.Blank {
			n++
		}
	}
	return n
}

func hasContent(ls []Line) bool {
	return ContentLines(ls) > 0
}
