package table_test

import (
	"bytes"
	"strings"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/ledongthuc/pdf"

	"github.com/lvillar/signpdf/draw"
	"github.com/lvillar/signpdf/table"
)

func newTestPDF() *fpdf.Fpdf {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetCompression(false)
	doc.SetFont("Helvetica", "", 10)
	doc.AddPage()
	return doc
}

func output(t *testing.T, doc *fpdf.Fpdf) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("output: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
	return buf.Bytes()
}

func pageText(t *testing.T, data []byte) string {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		s, err := p.GetPlainText(nil)
		if err != nil {
			t.Fatalf("page %d text: %v", i, err)
		}
		sb.WriteString(s)
	}
	return sb.String()
}

func TestBasicTable(t *testing.T) {
	doc := newTestPDF()

	tb := table.New(doc)
	tb.SetColumnWidths(60, 160, 80, 80)

	h := tb.AddHeaderRow()
	h.AddCell("ID")
	h.AddCell("Name")
	h.AddCell("Qty")
	h.AddCell("Price")

	r := tb.AddRow()
	r.AddCell("1")
	r.AddCell("Widget")
	r.AddCell("10")
	r.AddCell("$5.00").SetAlign(draw.AlignRight)

	if err := tb.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}
	text := pageText(t, output(t, doc))
	for _, want := range []string{"Name", "Widget", "$5.00"} {
		if !strings.Contains(text, want) {
			t.Errorf("table text %q does not contain %q", text, want)
		}
	}
}

func TestCursorMovesBelowTable(t *testing.T) {
	doc := newTestPDF()
	doc.SetXY(40, 100)

	tb := table.New(doc)
	tb.SetColumnWidths(100, 100)
	for i := 0; i < 3; i++ {
		r := tb.AddRow()
		r.AddCellf("row %d", i)
		r.AddCell("x")
	}
	if err := tb.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}
	if doc.GetY() <= 100 {
		t.Errorf("cursor y = %v, want below the table start", doc.GetY())
	}
	if doc.GetX() != 40 {
		t.Errorf("cursor x = %v, want 40", doc.GetX())
	}
}

func TestWrappedCellGrowsRow(t *testing.T) {
	short := newTestPDF()
	tb := table.New(short)
	tb.SetColumnWidths(80)
	tb.AddRow().AddCell("one")
	if err := tb.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}

	long := newTestPDF()
	tb = table.New(long)
	tb.SetColumnWidths(80)
	tb.AddRow().AddCell("several words that cannot possibly fit on one line")
	if err := tb.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}

	if long.GetY() <= short.GetY() {
		t.Errorf("wrapped row ends at %v, single-line row at %v", long.GetY(), short.GetY())
	}
}

func TestAlternatingRows(t *testing.T) {
	doc := newTestPDF()

	tb := table.New(doc)
	tb.SetColumnWidths(150, 150, 150)
	tb.SetStyle(table.Style{
		AlternateRows: &table.AlternateStyle{
			Even: table.CellStyle{FillColor: &draw.Color{R: 240, G: 240, B: 240}},
			Odd:  table.CellStyle{FillColor: &draw.White},
		},
	})

	for i := 0; i < 10; i++ {
		r := tb.AddRow()
		r.AddCellf("Row %d Col 1", i)
		r.AddCellf("Row %d Col 2", i)
		r.AddCellf("Row %d Col 3", i)
	}

	if err := tb.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}
	output(t, doc)
}

func TestHeaderRepeatsOnPageBreak(t *testing.T) {
	doc := newTestPDF()

	tb := table.New(doc)
	tb.SetColumnWidths(150, 150, 150)

	h := tb.AddHeaderRow()
	h.AddCell("ID")
	h.AddCell("Name")
	h.AddCell("Value")

	for i := 0; i < 80; i++ {
		r := tb.AddRow()
		r.AddCellf("%d", i+1)
		r.AddCellf("Item %d", i+1)
		r.AddCellf("$%.2f", float64(i+1)*1.5)
	}

	if err := tb.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}
	if doc.PageNo() < 2 {
		t.Fatal("expected at least 2 pages with 80 rows")
	}
	text := pageText(t, output(t, doc))
	if n := strings.Count(text, "Name"); n < 2 {
		t.Errorf("header drawn %d times, want one per page", n)
	}
}

func TestColspan(t *testing.T) {
	doc := newTestPDF()

	tb := table.New(doc)
	tb.SetColumnWidths(100, 100, 100, 100)

	r1 := tb.AddRow()
	r1.AddCell("Spans 2 cols").SetColspan(2)
	r1.AddCell("Normal")
	r1.AddCell("Normal")

	r2 := tb.AddRow()
	r2.AddCell("A")
	r2.AddCell("B")
	r2.AddCell("C")
	r2.AddCell("D")

	if err := tb.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}
	output(t, doc)
}

func TestStyledHeader(t *testing.T) {
	doc := newTestPDF()

	tb := table.New(doc)
	tb.SetColumns(
		table.ColumnDef{Width: 150},
		table.ColumnDef{MinWidth: 80, MaxWidth: 200},
		table.ColumnDef{Width: 80, Align: draw.AlignRight},
	)
	tb.SetStyle(table.Style{
		CellPadding: table.UniformPadding(4),
		HeaderStyle: &table.CellStyle{
			FillColor: &draw.Color{R: 0, G: 51, B: 102},
			TextColor: &draw.White,
			Font:      &table.FontSpec{Family: "Helvetica", Style: "B", Size: 11},
		},
	})

	h := tb.AddHeaderRow()
	h.AddCell("Product")
	h.AddCell("Category")
	h.AddCell("Price")

	r := tb.AddRow()
	r.AddCell("Widget")
	r.AddCell("Hardware")
	r.AddCell("$5.00")

	if err := tb.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}
	output(t, doc)
}

func TestEmptyTable(t *testing.T) {
	doc := newTestPDF()

	tb := table.New(doc)
	tb.SetColumnWidths(60, 60)

	if err := tb.Render(); err != nil {
		t.Fatalf("render empty table: %v", err)
	}
	if err := table.New(doc).Render(); err != nil {
		t.Fatalf("render table without columns: %v", err)
	}
}
