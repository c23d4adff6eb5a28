package draw

import (
	"bytes"
	"math"
	"testing"

	"codeberg.org/go-pdf/fpdf"
)

func TestDashSegments(t *testing.T) {
	segs := DashSegments(0, 0, 25, 0, []float64{6, 4})
	// 0-6 draw, 6-10 skip, 10-16 draw, 16-20 skip, 20-25 draw (clipped)
	want := []Segment{{0, 0, 6, 0}, {10, 0, 16, 0}, {20, 0, 25, 0}}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d: %+v", len(segs), len(want), segs)
	}
	for i := range want {
		if math.Abs(segs[i].X1-want[i].X1) > 1e-9 || math.Abs(segs[i].X2-want[i].X2) > 1e-9 {
			t.Errorf("segment %d = %+v, want %+v", i, segs[i], want[i])
		}
	}
}

func TestDashSegmentsDiagonal(t *testing.T) {
	// length 45: the fifth dash starts at 40 and is clipped at 45
	segs := DashSegments(0, 0, 27, 36, nil)
	if len(segs) != 5 {
		t.Fatalf("got %d segments, want 5", len(segs))
	}
	last := segs[len(segs)-1]
	if math.Abs(last.X2-27) > 1e-9 || math.Abs(last.Y2-36) > 1e-9 {
		t.Errorf("last segment should end at the line end, got %+v", last)
	}
}

func TestDashSegmentsDegenerate(t *testing.T) {
	if segs := DashSegments(5, 5, 5, 5, nil); segs != nil {
		t.Errorf("zero-length line should have no segments, got %+v", segs)
	}
	segs := DashSegments(0, 0, 10, 0, []float64{0, 0})
	if len(segs) != 1 || segs[0] != (Segment{0, 0, 10, 0}) {
		t.Errorf("zero pattern should be solid, got %+v", segs)
	}
}

func TestAlignX(t *testing.T) {
	if got := AlignX(AlignCenter, 10, 100, 20); got != 50 {
		t.Errorf("center = %v, want 50", got)
	}
	if got := AlignX(AlignRight, 10, 100, 20); got != 90 {
		t.Errorf("right = %v, want 90", got)
	}
	if got := AlignX(ParseAlign("bogus", AlignLeft), 10, 100, 20); got != 10 {
		t.Errorf("left = %v, want 10", got)
	}
}

func TestPlace(t *testing.T) {
	x, y := Place(PositionFor(false, AlignCenter), 600, 800, 100, 10, 30)
	if x != 250 || y != 770 {
		t.Errorf("bottom center = (%v, %v)", x, y)
	}
	x, y = Place(PositionFor(true, AlignRight), 600, 800, 100, 10, 30)
	if x != 470 || y != 40 {
		t.Errorf("top right = (%v, %v)", x, y)
	}
}

func TestRGB(t *testing.T) {
	if c := RGB(0.2, 0.5, 1.5); c != (Color{51, 128, 255}) {
		t.Errorf("RGB = %+v", c)
	}
}

func TestDrawWatermark(t *testing.T) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	pen := NewPen(pdf)
	DrawWatermark(pen, Watermark{Text: "DRAFT …"}, 612, 792)
	DashedRect(pdf, 20, 20, 572, 752, nil, Black, 1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("output: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output does not start with %PDF header")
	}
}
