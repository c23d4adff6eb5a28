package table

import (
	"fmt"

	"github.com/lvillar/signpdf/draw"
)

// Cell is a single text cell in a table row.
type Cell struct {
	text    string
	colspan int
	style   *CellStyle
}

// Text returns the cell content.
func (c *Cell) Text() string { return c.text }

// SetColspan sets the number of columns this cell spans.
func (c *Cell) SetColspan(n int) *Cell {
	if n > 0 {
		c.colspan = n
	}
	return c
}

// SetStyle sets the style for this cell, overriding table and row defaults.
func (c *Cell) SetStyle(s CellStyle) *Cell {
	c.style = &s
	return c
}

// SetAlign sets the horizontal alignment for this cell.
func (c *Cell) SetAlign(a draw.Align) *Cell {
	if c.style == nil {
		c.style = &CellStyle{}
	}
	c.style.Align = a
	return c
}

// SetFillColor sets the background color for this cell.
func (c *Cell) SetFillColor(col draw.Color) *Cell {
	if c.style == nil {
		c.style = &CellStyle{}
	}
	c.style.FillColor = &col
	return c
}

// Row is a single row in a table.
type Row struct {
	cells    []*Cell
	style    *CellStyle
	isHeader bool
	minH     float64
}

// Cells returns the cells of the row.
func (r *Row) Cells() []*Cell { return r.cells }

// AddCell adds a text cell to the row and returns the cell for chaining.
func (r *Row) AddCell(text string) *Cell {
	c := &Cell{text: text, colspan: 1}
	r.cells = append(r.cells, c)
	return c
}

// AddCellf adds a formatted text cell to the row.
func (r *Row) AddCellf(format string, args ...any) *Cell {
	return r.AddCell(fmt.Sprintf(format, args...))
}

// SetStyle sets the style for all cells in this row.
func (r *Row) SetStyle(s CellStyle) *Row {
	r.style = &s
	return r
}

// SetMinHeight sets the minimum height for this row.
func (r *Row) SetMinHeight(h float64) *Row {
	r.minH = h
	return r
}
