// Package geometry implements the normalized rectangle math shared by the
// field editor and the flattening exporter.
//
// A normalized rectangle expresses position and size as fractions of the page
// width and height, with the origin at the top-left corner of the page. Every
// value lies in [0, 1], which keeps field placement independent of the scale
// at which a page happens to be displayed.
package geometry

import "math"

// Minimum sizes enforced by the clamping helpers.
const (
	MinSize      = 0.01 // generic rectangle clamping
	FieldMinW    = 0.04 // interactive field width
	FieldMinH    = 0.02 // interactive field height
	GridStep     = 0.005
	roundingStep = 0.001
)

// Rect is a rectangle in normalized page space (top-left origin).
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// PixelRect is a rectangle in absolute units (pixels or PDF points).
type PixelRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the normalized x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the normalized y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the normalized x coordinate of the vertical midline.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the normalized y coordinate of the horizontal midline.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Translate returns r moved by dx, dy. No clamping is applied.
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Valid reports whether r satisfies the page invariant for the given minimum sizes.
// Far edges are compared with a tolerance of 1e-9.
func (r Rect) Valid(minW, minH float64) bool {
	const eps = 1e-9
	return r.X >= 0 && r.Y >= 0 && r.W >= minW && r.H >= minH &&
		r.X+r.W <= 1+eps && r.Y+r.H <= 1+eps
}

// ToPixels scales a normalized rectangle to a page of pageW x pageH units.
// The result keeps the top-left origin.
func ToPixels(r Rect, pageW, pageH float64) PixelRect {
	return PixelRect{
		X:      r.X * pageW,
		Y:      r.Y * pageH,
		Width:  r.W * pageW,
		Height: r.H * pageH,
	}
}

// FromPixels converts a top-left origin pixel rectangle back to normalized space.
// A non-positive page dimension yields the zero Rect.
func FromPixels(p PixelRect, pageW, pageH float64) Rect {
	if pageW <= 0 || pageH <= 0 {
		return Rect{}
	}
	return Rect{
		X: p.X / pageW,
		Y: p.Y / pageH,
		W: p.Width / pageW,
		H: p.Height / pageH,
	}
}

// ToPDFSpace converts a normalized rectangle to PDF user space, whose origin is
// the bottom-left corner of the page:
//
//	y = pageH - r.Y*pageH - r.H*pageH
func ToPDFSpace(r Rect, pageW, pageH float64) PixelRect {
	p := ToPixels(r, pageW, pageH)
	p.Y = pageH - p.Y - p.Height
	return p
}

// Clamp clamps r into the unit square with the generic minimum size.
func Clamp(r Rect) Rect {
	return ClampMin(r, MinSize, MinSize)
}

// ClampField clamps r with the minimum sizes of interactive fields.
func ClampField(r Rect) Rect {
	return ClampMin(r, FieldMinW, FieldMinH)
}

// ClampMin clamps the origin first and the size second, so a rectangle
// resized against the right or bottom edge shrinks instead of moving.
// The origin is kept at least minW/minH away from the far edge, which
// guarantees x+w <= 1, y+h <= 1, w >= minW and h >= minH for every input.
func ClampMin(r Rect, minW, minH float64) Rect {
	x := clampValue(r.X, 0, 1-minW)
	y := clampValue(r.Y, 0, 1-minH)
	w := clampValue(r.W, minW, 1-x)
	h := clampValue(r.H, minH, 1-y)
	return Rect{X: x, Y: y, W: w, H: h}
}

// Snap rounds every component of r to the nearest multiple of step.
func Snap(r Rect, step float64) Rect {
	return Rect{
		X: SnapValue(r.X, step),
		Y: SnapValue(r.Y, step),
		W: SnapValue(r.W, step),
		H: SnapValue(r.H, step),
	}
}

// SnapValue rounds v to the nearest multiple of step. A non-positive step
// returns v unchanged.
func SnapValue(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}

// Normalize snaps r to the editor grid, clamps it with the field minimums and
// removes floating point noise below a thousandth.
func Normalize(r Rect) Rect {
	r = ClampField(Snap(r, GridStep))
	r = Rect{
		X: SnapValue(r.X, roundingStep),
		Y: SnapValue(r.Y, roundingStep),
		W: SnapValue(r.W, roundingStep),
		H: SnapValue(r.H, roundingStep),
	}
	// rounding can push the far edge past 1 by one step
	return ClampField(r)
}

func clampValue(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if hi < lo {
		hi = lo
	}
	return math.Min(math.Max(v, lo), hi)
}
