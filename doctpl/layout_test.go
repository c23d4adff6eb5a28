package doctpl

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"codeberg.org/go-pdf/fpdf"

	"github.com/lvillar/signpdf/draw"
	"github.com/lvillar/signpdf/textlayout"
)

func helveticaMeasure(t *testing.T) textlayout.MeasureFunc {
	t.Helper()
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	return draw.NewPen(pdf).Measure
}

func fortyParagraphs() string {
	var paras []string
	for i := 1; i <= 40; i++ {
		paras = append(paras, fmt.Sprintf("Paragraph %d lorem ipsum dolor sit amet.", i))
	}
	return strings.Join(paras, "\n")
}

func TestPlanBodyHyphenation(t *testing.T) {
	measure := helveticaMeasure(t)
	o := Options{
		Body:               "SupercalifragilisticexpialidociousMegaWordSequenceThatShouldWrap",
		HyphenateLongWords: true,
	}.withDefaults()

	plan := planBody(o, frame{Left: 20, Top: 60, Right: 180, Bottom: 380}, measure)
	if len(plan.Lines) < 2 {
		t.Fatalf("expected the long word to wrap, got %d line(s)", len(plan.Lines))
	}
	for _, l := range plan.Lines {
		if l.Width > 160+1e-9 {
			t.Errorf("line %q is %.2fpt wide, exceeds 160pt", l.Text, l.Width)
		}
	}
	if !strings.HasSuffix(plan.Lines[0].Text, "-") {
		t.Errorf("first line should be hyphenated, got %q", plan.Lines[0].Text)
	}
}

func TestPlanBodyEllipsisTruncation(t *testing.T) {
	measure := helveticaMeasure(t)
	o := Options{
		Body:             fortyParagraphs(),
		BodyMaxLines:     3,
		EllipsisOverflow: true,
	}.withDefaults()

	plan := planBody(o, frame{Left: 72, Top: 108, Right: 540, Bottom: 720}, measure)
	if len(plan.Lines) != 3 {
		t.Fatalf("expected 3 content lines, got %d", len(plan.Lines))
	}
	if !plan.Truncated || plan.Ellipsis == nil {
		t.Fatal("expected truncation with an ellipsis")
	}
	last := plan.Lines[2]
	if plan.Ellipsis.Y != last.Y || plan.Ellipsis.X <= last.X+last.Width {
		t.Errorf("ellipsis %+v should follow the last line %+v", plan.Ellipsis, last)
	}
	if plan.Lines[0].Y != 120 {
		t.Errorf("first baseline = %v, want 120", plan.Lines[0].Y)
	}
}

func TestGenerateEllipsisTruncation(t *testing.T) {
	data, err := GenerateBytes("Truncated", Options{
		Body:               fortyParagraphs(),
		BodyMaxLines:       3,
		EllipsisOverflow:   true,
		DisableCompression: true,
	})
	if err != nil {
		t.Fatalf("GenerateBytes failed: %v", err)
	}
	// the ellipsis is written in the WinAnsi code page
	if !bytes.Contains(data, []byte("(\x85) Tj")) {
		t.Error("expected an ellipsis marker in the content stream")
	}
	if !bytes.Contains(data, []byte("(Paragraph 3 lorem")) {
		t.Error("third paragraph should be drawn")
	}
	if bytes.Contains(data, []byte("(Paragraph 4 lorem")) {
		t.Error("a fourth content line must not be drawn")
	}
}

func TestPlanBodyVerticalCap(t *testing.T) {
	measure := helveticaMeasure(t)
	o := Options{Body: "a\nb\nc\nd", EllipsisOverflow: true}.withDefaults()

	// 12pt at 1.4 gives 16.8pt lines; 40pt fits two
	plan := planBody(o, frame{Left: 0, Top: 0, Right: 200, Bottom: 40}, measure)
	if len(plan.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(plan.Lines))
	}
	if plan.Ellipsis == nil {
		t.Error("expected an ellipsis after running out of vertical space")
	}
}

func TestPlanBodyLineNumbersAndIndent(t *testing.T) {
	measure := helveticaMeasure(t)
	o := Options{
		Body:            "first paragraph\nsecond paragraph",
		LineNumbers:     true,
		FirstLineIndent: 10,
	}.withDefaults()

	plan := planBody(o, frame{Left: 72, Top: 100, Right: 540, Bottom: 700}, measure)
	if plan.TextLeft != 72+lineNumberGutter {
		t.Errorf("text left = %v, want gutter offset", plan.TextLeft)
	}
	if len(plan.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(plan.Lines))
	}
	for i, l := range plan.Lines {
		if l.Number != i+1 {
			t.Errorf("line %d numbered %d", i, l.Number)
		}
		if l.X != plan.TextLeft+10 {
			t.Errorf("line %d x = %v, want indented", i, l.X)
		}
	}
}

func TestPlanBodyCenterAlign(t *testing.T) {
	measure := helveticaMeasure(t)
	o := Options{Body: "centered", BodyAlign: "center"}.withDefaults()
	plan := planBody(o, frame{Left: 0, Top: 0, Right: 200, Bottom: 100}, measure)
	l := plan.Lines[0]
	if diff := (l.X + l.Width/2) - 100; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("line not centered: x=%v width=%v", l.X, l.Width)
	}
}
