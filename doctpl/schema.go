// Package doctpl generates synthetic multi-page PDF documents from a
// declarative set of options. The output is used as sample content for the
// field editor and as fixture input for the flattening exporter.
//
// Options can be given as a Go struct or as JSON, which is easy for both
// humans and LLMs to produce:
//
//	{
//	  "title": "Service Agreement",
//	  "pages": 2,
//	  "size": "A4",
//	  "subtitle": "Draft for review",
//	  "body": "First paragraph.\nSecond paragraph.",
//	  "bodyMaxLines": 12,
//	  "ellipsisOverflow": true,
//	  "watermark": {"text": "DRAFT"},
//	  "pageNumbers": {"format": "Page {page} of {pages}"}
//	}
package doctpl

import (
	"time"

	"github.com/lvillar/signpdf/draw"
)

// DefaultBody is the body text used when Options.Body is empty.
const DefaultBody = "This is a sample PDF generated for testing the viewer."

// Options describes a generated document. The zero value produces a single
// Letter page with a title and the default body line.
type Options struct {
	Title       string      `json:"title,omitempty"`
	Pages       int         `json:"pages,omitempty"`       // default 1
	Size        string      `json:"size,omitempty"`        // LETTER, A4, LEGAL, TABLOID, A5
	CustomSize  *[2]float64 `json:"customSize,omitempty"`  // width, height in points; overrides Size
	Orientation string      `json:"orientation,omitempty"` // portrait, landscape
	Margin      float64     `json:"margin,omitempty"`      // points, default 72

	Background   *draw.Color `json:"background,omitempty"`
	Border       *Border     `json:"border,omitempty"`
	MarginGuides bool        `json:"marginGuides,omitempty"`
	ThirdsGrid   bool        `json:"thirdsGrid,omitempty"`

	TitleSize      float64     `json:"titleSize,omitempty"` // default 24
	TitleColor     *draw.Color `json:"titleColor,omitempty"`
	TitleTransform string      `json:"titleTransform,omitempty"` // uppercase, lowercase, titlecase
	TitleAlign     string      `json:"titleAlign,omitempty"`     // left, center
	TitleUnderline bool        `json:"titleUnderline,omitempty"`

	Subtitle      string      `json:"subtitle,omitempty"`
	SubtitleSize  float64     `json:"subtitleSize,omitempty"` // default 14
	SubtitleColor *draw.Color `json:"subtitleColor,omitempty"`
	HeaderRule    bool        `json:"headerRule,omitempty"`

	Body               string      `json:"body,omitempty"`
	BodySize           float64     `json:"bodySize,omitempty"` // default 12
	BodyColor          *draw.Color `json:"bodyColor,omitempty"`
	BodyAlign          string      `json:"bodyAlign,omitempty"`  // left, center, right
	LineHeight         float64     `json:"lineHeight,omitempty"` // multiple of BodySize, default 1.4
	BodyMaxLines       int         `json:"bodyMaxLines,omitempty"`
	MaxParagraphs      int         `json:"maxParagraphs,omitempty"`
	ParagraphSpacing   bool        `json:"paragraphSpacing,omitempty"`
	FirstLineIndent    float64     `json:"firstLineIndent,omitempty"`
	HyphenateLongWords bool        `json:"hyphenateLongWords,omitempty"`
	EllipsisOverflow   bool        `json:"ellipsisOverflow,omitempty"`
	LineNumbers        bool        `json:"lineNumbers,omitempty"`
	LineNumberPosition string      `json:"lineNumberPosition,omitempty"` // left, right
	DebugBoxes         bool        `json:"debugBoxes,omitempty"`

	Watermark   *draw.Watermark `json:"watermark,omitempty"`
	Footer      *Footer         `json:"footer,omitempty"`
	PageNumbers *PageNumbers    `json:"pageNumbers,omitempty"`

	AppName  string    `json:"appName,omitempty"` // default "SignPDF"
	Date     string    `json:"date,omitempty"`    // footer date text, default Now as 2006-01-02
	Now      time.Time `json:"-"`
	Author   string    `json:"author,omitempty"`
	Subject  string    `json:"subject,omitempty"`
	Keywords string    `json:"keywords,omitempty"`

	DisableCompression bool `json:"disableCompression,omitempty"`
}

// Border strokes a frame inset from the page edges.
type Border struct {
	Style string      `json:"style,omitempty"` // solid, dashed
	Dash  []float64   `json:"dash,omitempty"`  // dashed pattern, default [6,4]
	Width float64     `json:"width,omitempty"` // default 1
	Color *draw.Color `json:"color,omitempty"`
	Inset float64     `json:"inset,omitempty"` // default 18
}

// Footer is a token-templated line at the bottom of each page. The template
// understands {app}, {title}, {date}, {page}, {pages} and {sep}. An empty
// template renders "{app}{sep}{title}{sep}{date}".
type Footer struct {
	Text      string      `json:"text,omitempty"`
	Align     string      `json:"align,omitempty"` // default center
	SkipFirst bool        `json:"skipFirst,omitempty"`
	Size      float64     `json:"size,omitempty"` // default 9
	Color     *draw.Color `json:"color,omitempty"`
}

// PageNumbers is a page-number stamp independent of the footer.
type PageNumbers struct {
	Format    string      `json:"format,omitempty"`   // default "Page {page} of {pages}"
	Position  string      `json:"position,omitempty"` // top, bottom (default)
	Align     string      `json:"align,omitempty"`    // default center
	SkipFirst bool        `json:"skipFirst,omitempty"`
	Size      float64     `json:"size,omitempty"` // default 10
	Color     *draw.Color `json:"color,omitempty"`
}

const (
	defaultFooter      = "{app}{sep}{title}{sep}{date}"
	defaultPageFormat  = "Page {page} of {pages}"
	footerSeparator    = " · "
	lineNumberGutter   = 24.0
	footerBaseline     = 16.0
	pageNumberMargin   = 30.0
	defaultBorderInset = 18.0
)

var (
	defaultTitleColor = draw.RGB(0.2, 0.2, 0.2)
	defaultBodyColor  = draw.RGB(0.3, 0.3, 0.3)
	mutedColor        = draw.RGB(0.45, 0.45, 0.45)
	guideColor        = draw.RGB(0.4, 0.6, 1)
)

// withDefaults returns a copy of o with every zero setting filled in.
func (o Options) withDefaults() Options {
	if o.Pages < 1 {
		o.Pages = 1
	}
	if o.Margin <= 0 {
		o.Margin = 72
	}
	if o.TitleSize <= 0 {
		o.TitleSize = 24
	}
	if o.SubtitleSize <= 0 {
		o.SubtitleSize = 14
	}
	if o.Body == "" {
		o.Body = DefaultBody
	}
	if o.BodySize <= 0 {
		o.BodySize = 12
	}
	if o.LineHeight <= 0 {
		o.LineHeight = 1.4
	}
	if o.AppName == "" {
		o.AppName = "SignPDF"
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Date == "" {
		o.Date = o.Now.Format("2006-01-02")
	}
	o.TitleColor = orColor(o.TitleColor, defaultTitleColor)
	o.SubtitleColor = orColor(o.SubtitleColor, mutedColor)
	o.BodyColor = orColor(o.BodyColor, defaultBodyColor)
	return o
}

func orColor(c *draw.Color, def draw.Color) *draw.Color {
	if c != nil {
		return c
	}
	return &def
}
