// Package draw holds the fpdf drawing helpers shared by the document
// generator and the flattening exporter: colors, manually dashed lines,
// positioned and aligned text, and rotated translucent watermarks.
//
// All coordinates are fpdf coordinates in points with the origin at the
// top-left corner of the page.
package draw

import (
	"codeberg.org/go-pdf/fpdf"
)

// Color is an RGB color with 0-255 components.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// RGB builds a Color from 0-1 float components.
func RGB(r, g, b float64) Color {
	return Color{R: unit(r), G: unit(g), B: unit(b)}
}

func unit(v float64) int {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return int(v*255 + 0.5)
}

// Frequently used colors.
var (
	Black     = Color{0, 0, 0}
	White     = Color{255, 255, 255}
	LightGray = Color{200, 200, 200}
)

// Pen writes text through the core-font code page translator so that
// characters such as "…" or "·" render with the standard PDF fonts.
type Pen struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// NewPen returns a Pen drawing on pdf.
func NewPen(pdf *fpdf.Fpdf) *Pen {
	return &Pen{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// PDF returns the underlying document.
func (p *Pen) PDF() *fpdf.Fpdf { return p.pdf }

// Measure returns the width of s at the given font size using the current
// font family and style. The current font size is left unchanged.
func (p *Pen) Measure(s string, size float64) float64 {
	cur, _ := p.pdf.GetFontSize()
	p.pdf.SetFontSize(size)
	w := p.pdf.GetStringWidth(p.tr(s))
	p.pdf.SetFontSize(cur)
	return w
}

// Text draws s with its baseline at y.
func (p *Pen) Text(x, y float64, s string) {
	p.pdf.Text(x, y, p.tr(s))
}

// SetTextColor sets the fill color used for text.
func (p *Pen) SetTextColor(c Color) {
	p.pdf.SetTextColor(c.R, c.G, c.B)
}

// StrokeRect outlines a rectangle with the given color and line width.
func StrokeRect(pdf *fpdf.Fpdf, x, y, w, h float64, c Color, lineWidth float64) {
	pdf.SetDrawColor(c.R, c.G, c.B)
	pdf.SetLineWidth(lineWidth)
	pdf.Rect(x, y, w, h, "D")
}

// FillRect fills a rectangle with c.
func FillRect(pdf *fpdf.Fpdf, x, y, w, h float64, c Color) {
	pdf.SetFillColor(c.R, c.G, c.B)
	pdf.Rect(x, y, w, h, "F")
}

// Line strokes a solid line.
func Line(pdf *fpdf.Fpdf, x1, y1, x2, y2 float64, c Color, lineWidth float64) {
	pdf.SetDrawColor(c.R, c.G, c.B)
	pdf.SetLineWidth(lineWidth)
	pdf.Line(x1, y1, x2, y2)
}
