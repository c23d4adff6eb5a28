// Package signpdf flattens placed annotation fields into the pages of a PDF
// document.
//
// Fields are positioned in normalized page coordinates (see package
// geometry) and grouped by 1-based page number (see package fields).
// Flatten imports every page of the source document, draws each field's
// visual representation on top of it, and returns a new document that no
// longer depends on the field metadata:
//
//	res, err := signpdf.Flatten(ctx, src, session.Fields(),
//		signpdf.WithSignatureDataURL(dataURL),
//	)
//	if err != nil {
//		return err
//	}
//	os.WriteFile("signed.pdf", res.Data, 0o644)
//
// A signature image that cannot be decoded is not an error: signature
// fields fall back to their placeholder rendering and
// Result.SignatureFallback is set.
package signpdf

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"codeberg.org/go-pdf/fpdf"

	"github.com/lvillar/signpdf/draw"
	"github.com/lvillar/signpdf/fields"
	"github.com/lvillar/signpdf/geometry"
	"github.com/lvillar/signpdf/pageops"
	"github.com/lvillar/signpdf/sigimage"
	"github.com/lvillar/signpdf/textlayout"
)

// Field colors.
var (
	SignatureColor = draw.RGB(0.16, 0.4, 0.8)
	TextColor      = draw.RGB(0.2, 0.2, 0.2)
	CheckboxColor  = draw.RGB(0.4, 0, 0.6)
	DateColor      = draw.RGB(1, 0.5, 0)
)

const (
	signatureImageName = "signature"
	labelInset         = 4
	labelDrop          = 5
	defaultTextLabel   = "Text"
	dateLabel          = "Date"
	signLabel          = "Sign here"
)

// Placement is the rectangle a field was drawn at, in PDF user space
// (points, origin at the bottom-left corner of the page).
type Placement struct {
	Page     int                `json:"page"`
	FieldID  string             `json:"fieldId"`
	Type     fields.Type        `json:"type"`
	SignerID string             `json:"signerId,omitempty"`
	Rect     geometry.PixelRect `json:"rect"`
}

// Result is the outcome of Flatten.
type Result struct {
	Data              []byte             `json:"-"`
	Pages             []pageops.PageInfo `json:"pages"`
	Placements        []Placement        `json:"placements"`
	SignatureFallback bool               `json:"signatureFallback"`
	SourceDigest      string             `json:"sourceDigest"` // hex SHA-256 of the input
	Certificate       bool               `json:"certificate"`
}

// Flatten draws every field of fbp permanently into a copy of src.
//
// Fields are drawn in list order, so later fields appear on top. Fields
// referring to pages the document does not have are skipped. The input is
// never modified; calling Flatten repeatedly with the same input is safe.
func Flatten(ctx context.Context, src []byte, fbp fields.FieldsByPage, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := ctx.Err(); err != nil {
		return nil, newOpError("Flatten", err)
	}
	if len(src) == 0 {
		return nil, newOpError("Flatten", unreadable(errors.New("empty input")))
	}
	for page := range fbp {
		if page < 1 {
			return nil, newOpError("Flatten", fmt.Errorf("%w: page %d", ErrInvalidParam, page))
		}
	}

	info, err := pageops.Probe(src)
	if err != nil {
		if errors.Is(err, pageops.ErrNoPages) {
			return nil, newOpError("Flatten", ErrNoPages)
		}
		return nil, newOpError("Flatten", unreadable(err))
	}

	sum := sha256.Sum256(src)
	res := &Result{SourceDigest: hex.EncodeToString(sum[:])}
	sig := cfg.resolveSignature(res)

	doc := fpdf.New("P", "pt", "", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	doc.SetCompression(true)
	doc.SetProducer(cfg.appName, true)
	doc.SetCreator(cfg.appName, true)
	doc.SetCreationDate(cfg.now())
	doc.SetFont("Helvetica", "", 12)

	if sig != nil && hasSignatureField(fbp) {
		if err := checkEmbeddable(sig.PNG); err != nil {
			cfg.logger.Warn("signature image cannot be embedded, drawing placeholders", slog.Any("err", err))
			res.SignatureFallback = true
			sig = nil
		}
	}
	if sig != nil && hasSignatureField(fbp) {
		doc.RegisterImageOptionsReader(signatureImageName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(sig.PNG))
		if doc.Err() {
			return nil, newOpError("Flatten", fmt.Errorf("embedding signature: %w", doc.Error()))
		}
	}

	f := &flattener{doc: doc, pen: draw.NewPen(doc), sig: sig}
	var drawErr error
	err = pageops.Import(doc, src, info, func(p pageops.PageInfo) error {
		if err := ctx.Err(); err != nil {
			drawErr = err
			return err
		}
		res.Pages = append(res.Pages, p)
		for _, fld := range fbp[p.Number] {
			if pl, ok := f.field(fld, p); ok {
				res.Placements = append(res.Placements, pl)
			}
		}
		if cfg.watermark != nil {
			draw.DrawWatermark(f.pen, *cfg.watermark, p.Width, p.Height)
		}
		if doc.Err() {
			drawErr = doc.Error()
			return drawErr
		}
		return nil
	})
	switch {
	case drawErr != nil:
		return nil, newOpError("Flatten", drawErr)
	case err != nil:
		return nil, newOpError("Flatten", unreadable(err))
	}

	for _, page := range fbp.Pages() {
		if _, ok := info.Page(page); !ok {
			cfg.logger.Debug("skipping fields on missing page",
				slog.Int("page", page), slog.Int("pages", info.PageCount))
		}
	}

	if cfg.audit != nil {
		last := res.Pages[len(res.Pages)-1]
		cert := certificate{
			audit:    *cfg.audit,
			digest:   res.SourceDigest,
			at:       cfg.now(),
			appName:  cfg.appName,
			pages:    len(res.Pages),
			fields:   res.Placements,
			fallback: res.SignatureFallback,
		}
		if err := cert.render(doc, last.Width, last.Height); err != nil {
			return nil, newOpError("Certificate", err)
		}
		res.Certificate = true
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, newOpError("Flatten", err)
	}
	res.Data = buf.Bytes()

	cfg.logger.Debug("flattened document",
		slog.Int("pages", len(res.Pages)),
		slog.Int("fields", len(res.Placements)),
		slog.Bool("signature", sig != nil),
		slog.Bool("certificate", res.Certificate),
		slog.Int("bytes", len(res.Data)))
	return res, nil
}

// resolveSignature decodes the configured signature, if any. Decode
// failures are logged and reported through res.SignatureFallback.
func (c *exportConfig) resolveSignature(res *Result) *sigimage.Image {
	if c.signature != nil {
		return c.signature
	}
	var (
		img *sigimage.Image
		err error
	)
	switch {
	case c.signatureURL != "":
		img, err = sigimage.DecodeDataURL(c.signatureURL, c.maxImageDim)
	case len(c.signatureData) > 0:
		img, err = sigimage.Decode(c.signatureData, c.maxImageDim)
	default:
		return nil
	}
	if err != nil {
		c.logger.Warn("signature image unusable, drawing placeholders", slog.Any("err", err))
		res.SignatureFallback = true
		return nil
	}
	return img
}

func hasSignatureField(fbp fields.FieldsByPage) bool {
	for _, list := range fbp {
		for _, f := range list {
			if f.Type == fields.Signature {
				return true
			}
		}
	}
	return false
}

type flattener struct {
	doc *fpdf.Fpdf
	pen *draw.Pen
	sig *sigimage.Image
}

// field draws one field on the current page, whose size is p.
func (f *flattener) field(fld fields.Field, p pageops.PageInfo) (Placement, bool) {
	box := geometry.ToPixels(fld.Rect, p.Width, p.Height)
	x, y, w, h := box.X, box.Y, box.Width, box.Height

	switch fld.Type {
	case fields.Signature:
		if f.sig != nil {
			dw, dh, ox, oy := f.sig.Fit(w, h)
			f.doc.ImageOptions(signatureImageName, x+ox, y+oy, dw, dh, false,
				fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
			draw.StrokeRect(f.doc, x, y, w, h, SignatureColor, 0.5)
		} else {
			draw.StrokeRect(f.doc, x, y, w, h, SignatureColor, 1)
			f.label(signLabel, box, clamp(h*0.4, 8, 14), SignatureColor)
		}
	case fields.Text:
		draw.StrokeRect(f.doc, x, y, w, h, TextColor, 1)
		label := fld.Label
		if label == "" {
			label = defaultTextLabel
		}
		f.label(label, box, clamp(h*0.4, 8, 12), TextColor)
	case fields.Checkbox:
		side := min(w, h)
		draw.StrokeRect(f.doc, x, y+h-side, side, side, CheckboxColor, 1)
	case fields.Date:
		draw.StrokeRect(f.doc, x, y, w, h, DateColor, 1)
		f.label(dateLabel, box, clamp(h*0.4, 8, 12), DateColor)
	default:
		return Placement{}, false
	}

	return Placement{
		Page:     p.Number,
		FieldID:  fld.ID,
		Type:     fld.Type,
		SignerID: fld.SignerID,
		Rect:     geometry.ToPDFSpace(fld.Rect, p.Width, p.Height),
	}, true
}

// label draws text inside box, vertically centered and cut with an
// ellipsis when it is wider than the box.
func (f *flattener) label(text string, box geometry.PixelRect, size float64, c draw.Color) {
	f.doc.SetFont("Helvetica", "", size)
	text = textlayout.TruncateToWidth(text, box.Width-2*labelInset, size, f.pen.Measure)
	if text == "" {
		return
	}
	f.pen.SetTextColor(c)
	f.pen.Text(box.X+labelInset, box.Y+box.Height/2+labelDrop, text)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

// checkEmbeddable registers png in a scratch document. fpdf errors are
// sticky, so a bad image must not reach the real document.
func checkEmbeddable(png []byte) error {
	scratch := fpdf.New("P", "pt", "", "")
	scratch.RegisterImageOptionsReader(signatureImageName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	return scratch.Error()
}
