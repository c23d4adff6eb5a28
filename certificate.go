package signpdf

import (
	"fmt"
	"strconv"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/barcode"
	"github.com/boombuler/barcode/qr"

	"github.com/lvillar/signpdf/draw"
	"github.com/lvillar/signpdf/table"
)

const (
	certMargin    = 48
	qrSide        = 96
	pdf417Width   = 180
	pdf417Height  = 60
	pdf417Columns = 10
	pdf417Level   = 2
)

var certHeader = draw.Color{R: 41, G: 71, B: 125}

// certificate is the audit page appended after the flattened pages.
type certificate struct {
	audit    AuditOptions
	digest   string
	at       time.Time
	appName  string
	pages    int
	fields   []Placement
	fallback bool
}

// payload returns the text encoded in the certificate's 2D code.
func (c certificate) payload() string {
	return fmt.Sprintf("sha256:%s;fields:%d;at:%s",
		c.digest, len(c.fields), c.at.UTC().Format(time.RFC3339))
}

// render adds a page of size w x h and draws the certificate on it.
func (c certificate) render(doc *fpdf.Fpdf, w, h float64) error {
	doc.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
	doc.SetMargins(certMargin, certMargin, certMargin)
	doc.SetAutoPageBreak(false, certMargin)
	pen := draw.NewPen(doc)

	codeH := c.code(doc, w)

	doc.SetFont("Helvetica", "B", 18)
	pen.SetTextColor(certHeader)
	pen.Text(certMargin, certMargin+18, "Audit Certificate")

	doc.SetFont("Helvetica", "", 10)
	pen.SetTextColor(draw.Black)
	y := certMargin + 42.0
	lines := [][2]string{
		{"Document", c.audit.DocumentName},
		{"Exported", c.at.UTC().Format(time.RFC3339)},
		{"Application", c.appName},
		{"Pages", strconv.Itoa(c.pages)},
		{"Fields", strconv.Itoa(len(c.fields))},
	}
	if c.fallback {
		lines = append(lines, [2]string{"Signature", "image unusable, placeholders drawn"})
	}
	for _, l := range lines {
		if l[1] == "" {
			continue
		}
		doc.SetFont("Helvetica", "B", 10)
		pen.Text(certMargin, y, l[0]+":")
		doc.SetFont("Helvetica", "", 10)
		pen.Text(certMargin+80, y, l[1])
		y += 15
	}

	doc.SetFont("Helvetica", "B", 10)
	pen.Text(certMargin, y, "SHA-256:")
	doc.SetFont("Courier", "", 8)
	pen.Text(certMargin+80, y, c.digest)
	y = max(y+20, certMargin+codeH+20)

	style := table.Style{
		CellPadding: table.UniformPadding(3),
		Border:      &table.BorderStyle{Width: 0.5, Color: draw.LightGray},
		HeaderStyle: &table.CellStyle{
			FillColor: &certHeader,
			TextColor: &draw.White,
			Font:      &table.FontSpec{Family: "Helvetica", Style: "B", Size: 9},
		},
		AlternateRows: &table.AlternateStyle{
			Even: table.CellStyle{FillColor: &draw.Color{R: 245, G: 245, B: 245}},
			Odd:  table.CellStyle{FillColor: &draw.White},
		},
	}

	names := make(map[string]string, len(c.audit.Signers))
	if len(c.audit.Signers) > 0 {
		counts := make(map[string]int)
		for _, f := range c.fields {
			counts[f.SignerID]++
		}
		tb := table.New(doc).SetStyle(style).SetPosition(certMargin, y)
		tb.SetColumns(table.ColumnDef{Width: 60}, table.ColumnDef{}, table.ColumnDef{Width: 60, Align: draw.AlignRight})
		hdr := tb.AddHeaderRow()
		hdr.AddCell("ID")
		hdr.AddCell("Signer")
		hdr.AddCell("Fields")
		for _, s := range c.audit.Signers {
			names[s.ID] = s.Name
			r := tb.AddRow()
			r.AddCell(s.ID)
			r.AddCell(s.Name)
			r.AddCell(strconv.Itoa(counts[s.ID]))
		}
		if err := tb.Render(); err != nil {
			return fmt.Errorf("signers table: %w", err)
		}
		y = doc.GetY() + 16
	}

	if len(c.fields) > 0 {
		tb := table.New(doc).SetStyle(style).SetPosition(certMargin, y)
		tb.SetColumns(
			table.ColumnDef{Width: 28, Align: draw.AlignRight},
			table.ColumnDef{Width: 36, Align: draw.AlignRight},
			table.ColumnDef{Width: 64},
			table.ColumnDef{},
			table.ColumnDef{Width: 150},
		)
		hdr := tb.AddHeaderRow()
		hdr.AddCell("#")
		hdr.AddCell("Page")
		hdr.AddCell("Type")
		hdr.AddCell("Signer")
		hdr.AddCell("Box (pt)")
		for i, f := range c.fields {
			signer := names[f.SignerID]
			if signer == "" {
				signer = f.SignerID
			}
			r := tb.AddRow()
			r.AddCell(strconv.Itoa(i + 1))
			r.AddCell(strconv.Itoa(f.Page))
			r.AddCell(string(f.Type))
			r.AddCell(signer)
			r.AddCellf("%.1f, %.1f  %.1f x %.1f", f.Rect.X, f.Rect.Y, f.Rect.Width, f.Rect.Height)
		}
		if err := tb.Render(); err != nil {
			return fmt.Errorf("fields table: %w", err)
		}
	}

	return doc.Error()
}

// code draws the digest symbol in the top-right corner and returns its height.
func (c certificate) code(doc *fpdf.Fpdf, pageW float64) float64 {
	var (
		key  string
		w, h float64
	)
	switch c.audit.Symbology {
	case SymbologyPDF417:
		key = barcode.RegisterPdf417(doc, c.payload(), pdf417Columns, pdf417Level)
		w, h = pdf417Width, pdf417Height
	default:
		key = barcode.RegisterQR(doc, c.payload(), qr.M, qr.Auto)
		w, h = qrSide, qrSide
	}
	if doc.Err() {
		return 0
	}
	barcode.Barcode(doc, key, pageW-certMargin-w, certMargin, w, h, false)
	return h
}
