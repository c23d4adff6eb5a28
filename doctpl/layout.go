package doctpl

import (
	"strings"
	"unicode/utf8"

	"github.com/lvillar/signpdf/draw"
	"github.com/lvillar/signpdf/textlayout"
)

// frame is the area available to body text, in points from the top-left corner.
type frame struct {
	Left, Top, Right, Bottom float64
}

// placedLine is a body line with its resolved position. Y is the baseline.
type placedLine struct {
	Text   string
	X, Y   float64
	Width  float64
	Number int // 1-based content line number on the page
}

type placedText struct {
	Text string
	X, Y float64
}

// bodyPlan is the fully laid out body of one page.
type bodyPlan struct {
	Lines      []placedLine
	Ellipsis   *placedText
	Truncated  bool
	LineHeight float64
	TextLeft   float64
	TextRight  float64
}

// planBody wraps and flows o.Body into f. It draws nothing, so the result
// can be inspected independently of the PDF writer.
func planBody(o Options, f frame, measure textlayout.MeasureFunc) bodyPlan {
	size := o.BodySize
	plan := bodyPlan{
		LineHeight: size * o.LineHeight,
		TextLeft:   f.Left,
		TextRight:  f.Right,
	}
	if o.LineNumbers {
		if strings.EqualFold(o.LineNumberPosition, "right") {
			plan.TextRight -= lineNumberGutter
		} else {
			plan.TextLeft += lineNumberGutter
		}
	}
	width := plan.TextRight - plan.TextLeft
	if width <= 0 || f.Bottom <= f.Top {
		return plan
	}

	lines := textlayout.Wrap(o.Body, width, size, textlayout.WrapOptions{
		Options: textlayout.Options{
			HyphenateLongWords: o.HyphenateLongWords,
			FirstLineIndent:    o.FirstLineIndent,
		},
		ParagraphSpacing: o.ParagraphSpacing,
		MaxParagraphs:    o.MaxParagraphs,
	}, measure)

	flow := textlayout.Flow(lines, textlayout.FlowOptions{
		MaxLines:   o.BodyMaxLines,
		MaxHeight:  f.Bottom - f.Top,
		LineHeight: plan.LineHeight,
		Ellipsis:   o.EllipsisOverflow,
	})
	plan.Truncated = flow.Truncated

	align := draw.ParseAlign(o.BodyAlign, draw.AlignLeft)
	number := 0
	for i, l := range flow.Lines {
		if l.Blank {
			continue
		}
		number++
		left, span := plan.TextLeft, width
		if l.First && o.FirstLineIndent > 0 {
			left += o.FirstLineIndent
			span -= o.FirstLineIndent
		}
		w := measure(l.Text, size)
		plan.Lines = append(plan.Lines, placedLine{
			Text:   l.Text,
			X:      draw.AlignX(align, left, span, w),
			Y:      f.Top + float64(i)*plan.LineHeight + size,
			Width:  w,
			Number: number,
		})
	}

	if flow.Ellipsis && len(plan.Lines) > 0 {
		plan.Ellipsis = placeEllipsis(&plan.Lines[len(plan.Lines)-1], plan.TextRight, size, measure)
	}
	return plan
}

// placeEllipsis puts the ellipsis after last, shortening last when the
// marker would cross the right edge of the text column.
func placeEllipsis(last *placedLine, right, size float64, measure textlayout.MeasureFunc) *placedText {
	gap := size * 0.25
	ew := measure(textlayout.Ellipsis, size)
	for last.Text != "" && last.X+last.Width+gap+ew > right {
		_, n := utf8.DecodeLastRuneInString(last.Text)
		last.Text = strings.TrimRight(last.Text[:len(last.Text)-n], " ")
		last.Width = measure(last.Text, size)
	}
	return &placedText{
		Text: textlayout.Ellipsis,
		X:    last.X + last.Width + gap,
		Y:    last.Y,
	}
}
