package table

import (
	"codeberg.org/go-pdf/fpdf"

	"github.com/lvillar/signpdf/draw"
	"github.com/lvillar/signpdf/textlayout"
)

// ColumnDef defines the properties of a table column.
type ColumnDef struct {
	Width    float64    // Fixed width. 0 means auto/fill.
	MinWidth float64    // Minimum width for auto columns.
	MaxWidth float64    // Maximum width for auto columns. 0 means unlimited.
	Align    draw.Align // Default alignment for this column.
}

// Table is a table builder drawing onto an fpdf document.
type Table struct {
	pdf        *fpdf.Fpdf
	pen        *draw.Pen
	columns    []ColumnDef
	rows       []*Row
	style      Style
	x, y       float64 // starting position (0,0 means current)
	tableWidth float64 // total table width (0 means page width minus margins)
}

var defaultFont = FontSpec{Family: "Helvetica", Size: 9}

// New creates a new Table associated with the given PDF document.
func New(pdf *fpdf.Fpdf) *Table {
	return &Table{
		pdf: pdf,
		pen: draw.NewPen(pdf),
		style: Style{
			CellPadding: UniformPadding(3),
			Border:      &BorderStyle{Width: 0.5, Color: draw.LightGray},
		},
	}
}

// SetColumns sets column definitions for the table.
func (t *Table) SetColumns(cols ...ColumnDef) *Table {
	t.columns = cols
	return t
}

// SetColumnWidths is a convenience method to set column widths directly.
// A width of 0 means the column will auto-fill remaining space.
func (t *Table) SetColumnWidths(widths ...float64) *Table {
	t.columns = make([]ColumnDef, len(widths))
	for i, w := range widths {
		t.columns[i] = ColumnDef{Width: w}
	}
	return t
}

// SetStyle sets the table-wide style.
func (t *Table) SetStyle(s Style) *Table {
	t.style = s
	return t
}

// SetPosition sets the top-left corner of the table. If not called, the
// table starts at the current cursor position.
func (t *Table) SetPosition(x, y float64) *Table {
	t.x = x
	t.y = y
	return t
}

// SetWidth sets the total table width. If not called, uses page width minus margins.
func (t *Table) SetWidth(w float64) *Table {
	t.tableWidth = w
	return t
}

// AddRow adds a new data row to the table and returns it for chaining.
func (t *Table) AddRow() *Row {
	r := &Row{}
	t.rows = append(t.rows, r)
	return r
}

// AddHeaderRow adds a new header row. Header rows are drawn before data
// rows and repeated at the top of each new page.
func (t *Table) AddHeaderRow() *Row {
	r := &Row{isHeader: true}
	t.rows = append(t.rows, r)
	return r
}

// Render draws the table and leaves the cursor below its last row.
func (t *Table) Render() error {
	if t.pdf.Err() {
		return t.pdf.Error()
	}
	widths := t.widths()
	if len(widths) == 0 {
		return nil
	}

	startX := t.x
	if startX == 0 {
		startX = t.pdf.GetX()
	}
	y := t.y
	if y == 0 {
		y = t.pdf.GetY()
	}

	var header, body []*Row
	for _, r := range t.rows {
		if r.isHeader {
			header = append(header, r)
		} else {
			body = append(body, r)
		}
	}

	for _, r := range header {
		y = t.renderRow(t.layout(r, widths, -1), startX, y)
	}
	for i, r := range body {
		l := t.layout(r, widths, i)
		_, pageH := t.pdf.GetPageSize()
		_, _, _, bMargin := t.pdf.GetMargins()
		if y+l.height > pageH-bMargin && y > t.topMargin() {
			w, h := t.pdf.GetPageSize()
			t.pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
			y = t.topMargin()
			for _, hr := range header {
				y = t.renderRow(t.layout(hr, widths, -1), startX, y)
			}
		}
		y = t.renderRow(l, startX, y)
	}

	t.pdf.SetXY(startX, y)
	return t.pdf.Error()
}

func (t *Table) topMargin() float64 {
	_, top, _, _ := t.pdf.GetMargins()
	return top
}

// widths computes final column widths based on definitions and available space.
func (t *Table) widths() []float64 {
	total := t.tableWidth
	if total == 0 {
		pageW, _ := t.pdf.GetPageSize()
		left, _, right, _ := t.pdf.GetMargins()
		total = pageW - left - right
	}

	cols := t.columns
	if len(cols) == 0 {
		n := 0
		for _, r := range t.rows {
			n = max(n, len(r.cells))
		}
		cols = make([]ColumnDef, n)
	}

	widths := make([]float64, len(cols))
	fixed := 0.0
	auto := 0
	for i, c := range cols {
		if c.Width > 0 {
			widths[i] = c.Width
			fixed += c.Width
		} else {
			auto++
		}
	}
	if auto == 0 {
		return widths
	}
	each := max(total-fixed, 0) / float64(auto)
	for i, c := range cols {
		if c.Width > 0 {
			continue
		}
		w := each
		if c.MinWidth > 0 && w < c.MinWidth {
			w = c.MinWidth
		}
		if c.MaxWidth > 0 && w > c.MaxWidth {
			w = c.MaxWidth
		}
		widths[i] = w
	}
	return widths
}

type cellLayout struct {
	x, w  float64
	lines []string
	style CellStyle
	font  FontSpec
}

type rowLayout struct {
	cells  []cellLayout
	height float64
}

// layout wraps every cell of r and computes the row height.
func (t *Table) layout(r *Row, widths []float64, bodyIdx int) rowLayout {
	pad := t.style.CellPadding
	lh := t.style.LineHeight
	if lh <= 0 {
		lh = 1.3
	}

	out := rowLayout{height: max(r.minH, 5)}
	x := 0.0
	col := 0
	for _, c := range r.cells {
		if col >= len(widths) {
			break
		}
		w := 0.0
		for j := 0; j < c.colspan && col+j < len(widths); j++ {
			w += widths[col+j]
		}

		st := t.resolve(c, r, bodyIdx)
		if st.Align == "" && col < len(t.columns) {
			st.Align = t.columns[col].Align
		}
		font := defaultFont
		if st.Font != nil {
			font = *st.Font
		}
		t.pdf.SetFont(font.Family, font.Style, font.Size)
		contentW := max(w-pad.Left-pad.Right, 1)
		lines := textlayout.WrapParagraph(c.text, contentW, font.Size,
			textlayout.Options{HyphenateLongWords: true}, t.pen.Measure)

		h := float64(max(len(lines), 1))*font.Size*lh + pad.Top + pad.Bottom
		out.height = max(out.height, h)
		out.cells = append(out.cells, cellLayout{x: x, w: w, lines: lines, style: st, font: font})

		x += w
		col += c.colspan
	}
	return out
}

// renderRow draws a laid-out row with its top at y and returns the y below it.
func (t *Table) renderRow(l rowLayout, startX, y float64) float64 {
	pad := t.style.CellPadding
	lh := t.style.LineHeight
	if lh <= 0 {
		lh = 1.3
	}

	for _, c := range l.cells {
		x := startX + c.x
		if c.style.FillColor != nil {
			draw.FillRect(t.pdf, x, y, c.w, l.height, *c.style.FillColor)
		}
		if b := t.style.Border; b != nil && b.Width > 0 {
			draw.StrokeRect(t.pdf, x, y, c.w, l.height, b.Color, b.Width)
		}

		t.pdf.SetFont(c.font.Family, c.font.Style, c.font.Size)
		color := draw.Black
		if c.style.TextColor != nil {
			color = *c.style.TextColor
		}
		t.pen.SetTextColor(color)

		lineH := c.font.Size * lh
		baseline := y + pad.Top + c.font.Size*0.85
		for i, line := range c.lines {
			tw := t.pen.Measure(line, c.font.Size)
			lx := draw.AlignX(c.style.Align, x+pad.Left, c.w-pad.Left-pad.Right, tw)
			t.pen.Text(lx, baseline+float64(i)*lineH, line)
		}
	}
	t.pdf.SetTextColor(0, 0, 0)
	return y + l.height
}

// resolve merges table, header, alternate-row, row and cell styles, in
// increasing priority.
func (t *Table) resolve(c *Cell, r *Row, bodyIdx int) CellStyle {
	var st CellStyle
	st.Font = t.style.CellFont
	if r.isHeader {
		st.merge(t.style.HeaderStyle)
	}
	if !r.isHeader && t.style.AlternateRows != nil && bodyIdx >= 0 {
		if bodyIdx%2 == 0 {
			st.merge(&t.style.AlternateRows.Even)
		} else {
			st.merge(&t.style.AlternateRows.Odd)
		}
	}
	st.merge(r.style)
	st.merge(c.style)
	return st
}
