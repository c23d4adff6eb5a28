package draw

// Watermark is a rotated, translucent text stamp centered on a page.
type Watermark struct {
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize,omitempty"` // default 60
	Color    Color   `json:"color,omitempty"`    // default light gray
	Opacity  float64 `json:"opacity,omitempty"`  // 0.0 to 1.0, default 0.3
	Angle    float64 `json:"angle,omitempty"`    // degrees, default 45
}

// WithDefaults fills the zero fields of wm.
func (wm Watermark) WithDefaults() Watermark {
	if wm.FontSize == 0 {
		wm.FontSize = 60
	}
	if wm.Opacity == 0 {
		wm.Opacity = 0.3
	}
	if wm.Angle == 0 {
		wm.Angle = 45
	}
	if wm.Color == (Color{}) {
		wm.Color = LightGray
	}
	return wm
}

// DrawWatermark renders wm centered on the current page. Empty text draws nothing.
func DrawWatermark(p *Pen, wm Watermark, pageW, pageH float64) {
	if wm.Text == "" {
		return
	}
	wm = wm.WithDefaults()
	pdf := p.PDF()

	pdf.SetFont("Helvetica", "B", wm.FontSize)
	p.SetTextColor(wm.Color)
	pdf.SetAlpha(wm.Opacity, "Normal")

	textW := p.Measure(wm.Text, wm.FontSize)
	cx := pageW / 2
	cy := pageH / 2

	pdf.TransformBegin()
	pdf.TransformRotate(wm.Angle, cx, cy)
	// approximate vertical centering on the rotation point
	p.Text(cx-textW/2, cy+wm.FontSize/3, wm.Text)
	pdf.TransformEnd()

	pdf.SetAlpha(1.0, "Normal")
}
