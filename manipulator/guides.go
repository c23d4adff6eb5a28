package manipulator

import (
	"math"

	"github.com/lvillar/signpdf/geometry"
)

// GuideEpsilon is the distance under which two edges count as aligned.
const GuideEpsilon = 0.006

// Axis of a guide line.
type Axis int

const (
	Vertical   Axis = iota // constant x
	Horizontal             // constant y
)

// Guide is a full-span alignment line at a normalized coordinate.
type Guide struct {
	Axis Axis
	Pos  float64
}

// Pixels returns the guide position on a page of pageW x pageH pixels.
func (g Guide) Pixels(pageW, pageH float64) float64 {
	if g.Axis == Vertical {
		return g.Pos * pageW
	}
	return g.Pos * pageH
}

var pageLandmarks = []float64{0, 0.5, 1}

// ComputeGuides compares the left edge, midline and right edge (top, middle
// and bottom for horizontal guides) of sel with the page edges and midline
// and with the same landmarks of every other rectangle. Each match yields a
// guide at the landmark being aligned to, deduplicated to a thousandth.
func ComputeGuides(sel geometry.Rect, others []geometry.Rect) []Guide {
	var vs, hs []float64
	selX := []float64{sel.X, sel.CenterX(), sel.Right()}
	selY := []float64{sel.Y, sel.CenterY(), sel.Bottom()}

	match := func(dst []float64, ours, theirs []float64) []float64 {
		for _, a := range ours {
			for _, b := range theirs {
				if math.Abs(a-b) < GuideEpsilon {
					dst = pushUnique(dst, b)
				}
			}
		}
		return dst
	}

	vs = match(vs, selX, pageLandmarks)
	hs = match(hs, selY, pageLandmarks)
	for _, o := range others {
		vs = match(vs, selX, []float64{o.X, o.CenterX(), o.Right()})
		hs = match(hs, selY, []float64{o.Y, o.CenterY(), o.Bottom()})
	}

	guides := make([]Guide, 0, len(vs)+len(hs))
	for _, v := range vs {
		guides = append(guides, Guide{Axis: Vertical, Pos: v})
	}
	for _, h := range hs {
		guides = append(guides, Guide{Axis: Horizontal, Pos: h})
	}
	return guides
}

func pushUnique(dst []float64, v float64) []float64 {
	v = math.Round(v*1000) / 1000
	for _, x := range dst {
		if math.Abs(x-v) < 0.001 {
			return dst
		}
	}
	return append(dst, v)
}
