package draw

import (
	"math"

	"codeberg.org/go-pdf/fpdf"
)

// DefaultDash is the dash pattern used when none is given: 6 on, 4 off.
var DefaultDash = []float64{6, 4}

// Segment is a drawn piece of a dashed line.
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// DashSegments walks the unit vector from (x1,y1) to (x2,y2), alternating
// between drawing and skipping the successive lengths of pattern. The last
// segment is clipped to the remaining distance. A pattern whose lengths do
// not sum to a positive value yields a single solid segment.
func DashSegments(x1, y1, x2, y2 float64, pattern []float64) []Segment {
	if len(pattern) == 0 {
		pattern = DefaultDash
	}
	dist := math.Hypot(x2-x1, y2-y1)
	if dist == 0 {
		return nil
	}
	var sum float64
	for _, v := range pattern {
		if v > 0 {
			sum += v
		}
	}
	if sum <= 0 {
		return []Segment{{x1, y1, x2, y2}}
	}

	ux, uy := (x2-x1)/dist, (y2-y1)/dist
	var segs []Segment
	pos := 0.0
	for i := 0; pos < dist; i++ {
		step := math.Max(pattern[i%len(pattern)], 0)
		end := math.Min(pos+step, dist)
		if i%2 == 0 && end > pos {
			segs = append(segs, Segment{
				X1: x1 + ux*pos, Y1: y1 + uy*pos,
				X2: x1 + ux*end, Y2: y1 + uy*end,
			})
		}
		pos = end
	}
	return segs
}

// DashedLine strokes a dashed line as individual line segments.
func DashedLine(pdf *fpdf.Fpdf, x1, y1, x2, y2 float64, pattern []float64, c Color, lineWidth float64) {
	pdf.SetDrawColor(c.R, c.G, c.B)
	pdf.SetLineWidth(lineWidth)
	for _, s := range DashSegments(x1, y1, x2, y2, pattern) {
		pdf.Line(s.X1, s.Y1, s.X2, s.Y2)
	}
}

// DashedRect strokes the four sides of a rectangle with DashedLine.
func DashedRect(pdf *fpdf.Fpdf, x, y, w, h float64, pattern []float64, c Color, lineWidth float64) {
	DashedLine(pdf, x, y, x+w, y, pattern, c, lineWidth)
	DashedLine(pdf, x+w, y, x+w, y+h, pattern, c, lineWidth)
	DashedLine(pdf, x+w, y+h, x, y+h, pattern, c, lineWidth)
	DashedLine(pdf, x, y+h, x, y, pattern, c, lineWidth)
}
