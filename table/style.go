// Package table renders simple ruled tables onto an fpdf page.
//
// It supports fixed and auto-width columns, header rows repeated after a
// page break, alternating row fills, colspan, and per-row and per-cell
// styles. Cell text is word-wrapped to the column width with the same
// layout engine as document body text.
package table

import "github.com/lvillar/signpdf/draw"

// FontSpec defines font properties for text rendering.
type FontSpec struct {
	Family string
	Style  string  // "", "B", "I", "BI"
	Size   float64 // in points
}

// Padding defines spacing inside a cell.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// UniformPadding creates a Padding with the same value on all sides.
func UniformPadding(v float64) Padding {
	return Padding{Top: v, Right: v, Bottom: v, Left: v}
}

// BorderStyle defines the appearance of cell borders.
type BorderStyle struct {
	Width float64
	Color draw.Color
}

// CellStyle defines the visual appearance of a cell.
type CellStyle struct {
	FillColor *draw.Color
	TextColor *draw.Color
	Font      *FontSpec
	Align     draw.Align
}

// AlternateStyle defines alternating row colors.
type AlternateStyle struct {
	Even CellStyle
	Odd  CellStyle
}

// Style defines the overall appearance of a table.
type Style struct {
	Border        *BorderStyle
	AlternateRows *AlternateStyle
	HeaderStyle   *CellStyle
	CellPadding   Padding
	CellFont      *FontSpec
	LineHeight    float64 // multiple of the font size, default 1.3
}

// merge copies non-nil fields from src to dst.
func (dst *CellStyle) merge(src *CellStyle) {
	if src == nil {
		return
	}
	if src.FillColor != nil {
		dst.FillColor = src.FillColor
	}
	if src.TextColor != nil {
		dst.TextColor = src.TextColor
	}
	if src.Font != nil {
		dst.Font = src.Font
	}
	if src.Align != "" {
		dst.Align = src.Align
	}
}
