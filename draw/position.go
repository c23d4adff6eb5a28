package draw

import "strings"

// Position specifies where to place an element on a page.
type Position int

const (
	Center Position = iota
	TopLeft
	TopCenter
	TopRight
	BottomLeft
	BottomCenter
	BottomRight
)

// Align is a horizontal alignment.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ParseAlign maps "left"/"L", "center"/"C" and "right"/"R" to an Align,
// falling back to def.
func ParseAlign(s string, def Align) Align {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return AlignLeft
	case "center", "centre", "c":
		return AlignCenter
	case "right", "r":
		return AlignRight
	default:
		return def
	}
}

// AlignX returns the left x of a run of width textW aligned inside the
// horizontal span [left, left+width].
func AlignX(a Align, left, width, textW float64) float64 {
	switch a {
	case AlignCenter:
		return left + (width-textW)/2
	case AlignRight:
		return left + width - textW
	default:
		return left
	}
}

// PositionFor combines a vertical edge (top or bottom) and an alignment.
func PositionFor(top bool, a Align) Position {
	switch {
	case top && a == AlignLeft:
		return TopLeft
	case top && a == AlignRight:
		return TopRight
	case top:
		return TopCenter
	case a == AlignLeft:
		return BottomLeft
	case a == AlignRight:
		return BottomRight
	default:
		return BottomCenter
	}
}

// Place returns the x and baseline y for text of width textW and height textH
// at pos, keeping margin points away from the page edges.
func Place(pos Position, pageW, pageH, textW, textH, margin float64) (x, y float64) {
	switch pos {
	case TopLeft:
		return margin, margin + textH
	case TopCenter:
		return (pageW - textW) / 2, margin + textH
	case TopRight:
		return pageW - textW - margin, margin + textH
	case BottomLeft:
		return margin, pageH - margin
	case BottomRight:
		return pageW - textW - margin, pageH - margin
	case Center:
		return (pageW - textW) / 2, pageH / 2
	default: // BottomCenter
		return (pageW - textW) / 2, pageH - margin
	}
}
