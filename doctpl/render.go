package doctpl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lvillar/signpdf/draw"
	"github.com/lvillar/signpdf/pagesize"
)

// DefaultTitle is used when no title is given.
const DefaultTitle = "Sample Document"

// Render parses JSON options and writes the generated PDF to w.
func Render(w io.Writer, jsonOptions []byte) error {
	var opts Options
	if len(bytes.TrimSpace(jsonOptions)) > 0 {
		if err := json.Unmarshal(jsonOptions, &opts); err != nil {
			return fmt.Errorf("doctpl: parsing options: %w", err)
		}
	}
	return RenderOptions(w, opts)
}

// Generate writes a document titled title to w.
func Generate(w io.Writer, title string, opts Options) error {
	opts.Title = title
	return RenderOptions(w, opts)
}

// GenerateBytes is like Generate but returns the document bytes.
func GenerateBytes(title string, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Generate(&buf, title, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderOptions writes the document described by opts to w. Nothing is
// written when generation fails.
func RenderOptions(w io.Writer, opts Options) error {
	pdf, err := build(opts)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("doctpl: writing output: %w", err)
	}
	return nil
}

// PageSize resolves the page dimensions selected by opts.
func (o Options) PageSize() pagesize.Size {
	orientation := pagesize.ParseOrientation(o.Orientation)
	if o.CustomSize != nil {
		return pagesize.ResolveCustom(o.CustomSize[0], o.CustomSize[1], orientation)
	}
	return pagesize.Resolve(o.Size, orientation)
}

func build(opts Options) (*fpdf.Fpdf, error) {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	o := opts.withDefaults()
	size := o.PageSize()

	pdf := fpdf.New("P", "pt", "", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCompression(!o.DisableCompression)
	pdf.SetTitle(o.Title, true)
	pdf.SetCreator(o.AppName, true)
	pdf.SetCreationDate(o.Now)
	if o.Author != "" {
		pdf.SetAuthor(o.Author, true)
	}
	if o.Subject != "" {
		pdf.SetSubject(o.Subject, true)
	}
	if o.Keywords != "" {
		pdf.SetKeywords(o.Keywords, true)
	}

	footer, err := parseOptional(o.Footer != nil, footerText(o.Footer))
	if err != nil {
		return nil, err
	}
	numbers, err := parseOptional(o.PageNumbers != nil, pageNumberText(o.PageNumbers))
	if err != nil {
		return nil, err
	}

	r := &renderer{pdf: pdf, pen: draw.NewPen(pdf), o: o, w: size.Width, h: size.Height}
	for page := 1; page <= o.Pages; page++ {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: size.Width, Ht: size.Height})
		r.page(page, footer, numbers)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("doctpl: %w", pdf.Error())
	}
	return pdf, nil
}

func parseOptional(enabled bool, s string) (*Template, error) {
	if !enabled {
		return nil, nil
	}
	return ParseTemplate(s)
}

func footerText(f *Footer) string {
	if f == nil || f.Text == "" {
		return defaultFooter
	}
	return f.Text
}

func pageNumberText(p *PageNumbers) string {
	if p == nil || p.Format == "" {
		return defaultPageFormat
	}
	return p.Format
}

type renderer struct {
	pdf  *fpdf.Fpdf
	pen  *draw.Pen
	o    Options
	w, h float64
}

func (r *renderer) page(n int, footer, numbers *Template) {
	o := r.o
	m := o.Margin

	if o.Background != nil {
		draw.FillRect(r.pdf, 0, 0, r.w, r.h, *o.Background)
	}
	if o.Border != nil {
		r.border(*o.Border)
	}

	cursor := r.title(m)
	if o.Subtitle != "" {
		r.pdf.SetFont("Helvetica", "", o.SubtitleSize)
		r.pen.SetTextColor(*o.SubtitleColor)
		baseline := cursor + o.SubtitleSize
		r.pen.Text(r.titleX(o.Subtitle, o.SubtitleSize), baseline, o.Subtitle)
		cursor = baseline + o.SubtitleSize*0.5
	}
	if o.HeaderRule {
		draw.Line(r.pdf, m, cursor+4, r.w-m, cursor+4, mutedColor, 0.75)
		cursor += 12
	}

	r.body(frame{Left: m, Top: cursor, Right: r.w - m, Bottom: r.h - m})

	if o.MarginGuides {
		draw.DashedRect(r.pdf, m, m, r.w-2*m, r.h-2*m, []float64{3, 3}, guideColor, 0.5)
	}
	if o.ThirdsGrid {
		for i := 1; i <= 2; i++ {
			x := r.w * float64(i) / 3
			y := r.h * float64(i) / 3
			draw.Line(r.pdf, x, 0, x, r.h, draw.LightGray, 0.5)
			draw.Line(r.pdf, 0, y, r.w, y, draw.LightGray, 0.5)
		}
	}
	if o.Watermark != nil {
		draw.DrawWatermark(r.pen, *o.Watermark, r.w, r.h)
	}

	vars := map[string]string{
		"app":   o.AppName,
		"title": o.Title,
		"date":  o.Date,
		"page":  strconv.Itoa(n),
		"pages": strconv.Itoa(o.Pages),
		"sep":   footerSeparator,
	}
	if footer != nil && !(o.Footer.SkipFirst && n == 1) {
		r.footer(footer.Execute(vars))
	}
	if numbers != nil && !(o.PageNumbers.SkipFirst && n == 1) {
		r.pageNumber(numbers.Execute(vars))
	}
}

func (r *renderer) border(b Border) {
	inset := b.Inset
	if inset <= 0 {
		inset = defaultBorderInset
	}
	width := b.Width
	if width <= 0 {
		width = 1
	}
	c := draw.RGB(0.47, 0.47, 0.47)
	if b.Color != nil {
		c = *b.Color
	}
	x, y, w, h := inset, inset, r.w-2*inset, r.h-2*inset
	if strings.EqualFold(b.Style, "dashed") {
		draw.DashedRect(r.pdf, x, y, w, h, b.Dash, c, width)
		return
	}
	draw.StrokeRect(r.pdf, x, y, w, h, c, width)
}

// title draws the title and returns the y where following content starts.
func (r *renderer) title(top float64) float64 {
	o := r.o
	text := transform(o.Title, o.TitleTransform)
	r.pdf.SetFont("Helvetica", "", o.TitleSize)
	r.pen.SetTextColor(*o.TitleColor)

	baseline := top + o.TitleSize
	x := r.titleX(text, o.TitleSize)
	r.pen.Text(x, baseline, text)
	if o.TitleUnderline {
		w := r.pen.Measure(text, o.TitleSize)
		draw.Line(r.pdf, x, baseline+3, x+w, baseline+3, *o.TitleColor, 1)
	}
	return baseline + o.TitleSize*0.5
}

func (r *renderer) titleX(text string, size float64) float64 {
	m := r.o.Margin
	align := draw.ParseAlign(r.o.TitleAlign, draw.AlignLeft)
	if align == draw.AlignRight {
		align = draw.AlignLeft
	}
	return draw.AlignX(align, m, r.w-2*m, r.pen.Measure(text, size))
}

func (r *renderer) body(f frame) {
	o := r.o
	r.pdf.SetFont("Helvetica", "", o.BodySize)
	plan := planBody(o, f, r.pen.Measure)

	r.pen.SetTextColor(*o.BodyColor)
	for _, l := range plan.Lines {
		r.pen.Text(l.X, l.Y, l.Text)
	}
	if plan.Ellipsis != nil {
		r.pen.Text(plan.Ellipsis.X, plan.Ellipsis.Y, plan.Ellipsis.Text)
	}

	if o.LineNumbers {
		size := o.BodySize * 0.75
		r.pdf.SetFontSize(size)
		r.pen.SetTextColor(mutedColor)
		right := strings.EqualFold(o.LineNumberPosition, "right")
		for _, l := range plan.Lines {
			label := strconv.Itoa(l.Number)
			x := f.Left + lineNumberGutter - 6 - r.pen.Measure(label, size)
			if right {
				x = plan.TextRight + 6
			}
			r.pen.Text(x, l.Y, label)
		}
		r.pdf.SetFontSize(o.BodySize)
	}

	if o.DebugBoxes {
		r.pdf.SetAlpha(0.15, "Normal")
		for _, l := range plan.Lines {
			draw.FillRect(r.pdf, l.X, l.Y-o.BodySize, l.Width, plan.LineHeight, guideColor)
		}
		r.pdf.SetAlpha(1, "Normal")
	}
}

func (r *renderer) footer(text string) {
	f := r.o.Footer
	size := f.Size
	if size <= 0 {
		size = 9
	}
	c := mutedColor
	if f.Color != nil {
		c = *f.Color
	}
	r.pdf.SetFont("Helvetica", "", size)
	r.pen.SetTextColor(c)
	m := r.o.Margin
	x := draw.AlignX(draw.ParseAlign(f.Align, draw.AlignCenter), m, r.w-2*m, r.pen.Measure(text, size))
	r.pen.Text(x, r.h-footerBaseline, text)
}

func (r *renderer) pageNumber(text string) {
	p := r.o.PageNumbers
	size := p.Size
	if size <= 0 {
		size = 10
	}
	c := draw.Black
	if p.Color != nil {
		c = *p.Color
	}
	r.pdf.SetFont("Helvetica", "", size)
	r.pen.SetTextColor(c)
	pos := draw.PositionFor(strings.EqualFold(p.Position, "top"), draw.ParseAlign(p.Align, draw.AlignCenter))
	x, y := draw.Place(pos, r.w, r.h, r.pen.Measure(text, size), size, pageNumberMargin)
	r.pen.Text(x, y, text)
}

func transform(s, mode string) string {
	switch strings.ToLower(mode) {
	case "uppercase", "upper":
		return cases.Upper(language.English).String(s)
	case "lowercase", "lower":
		return cases.Lower(language.English).String(s)
	case "titlecase", "title":
		return cases.Title(language.English).String(s)
	default:
		return s
	}
}
