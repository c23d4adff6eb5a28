package signpdf

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lvillar/signpdf/draw"
	"github.com/lvillar/signpdf/fields"
	"github.com/lvillar/signpdf/sigimage"
)

// Option is a functional option for configuring Flatten.
type Option func(*exportConfig)

// Symbology selects the 2D code printed on the audit certificate.
type Symbology string

const (
	SymbologyQR     Symbology = "qr"
	SymbologyPDF417 Symbology = "pdf417"
)

// ParseSymbology maps "qr" and "pdf417" to a Symbology. The empty string
// selects SymbologyQR.
func ParseSymbology(s string) (Symbology, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "qr":
		return SymbologyQR, nil
	case "pdf417":
		return SymbologyPDF417, nil
	}
	return "", fmt.Errorf("%w: unknown symbology %q", ErrInvalidParam, s)
}

// AuditOptions configures the audit certificate page appended by Flatten.
type AuditOptions struct {
	// DocumentName is printed in the certificate heading. Optional.
	DocumentName string
	// Symbology of the digest code. Defaults to SymbologyQR.
	Symbology Symbology
	// Signers listed on the certificate. Fields refer to them by SignerID.
	Signers []fields.Signer
}

type exportConfig struct {
	signatureURL  string
	signatureData []byte
	signature     *sigimage.Image
	maxImageDim   int
	logger        *slog.Logger
	now           func() time.Time
	appName       string
	audit         *AuditOptions
	watermark     *draw.Watermark
}

func defaultConfig() *exportConfig {
	return &exportConfig{
		maxImageDim: sigimage.MaxDimension,
		logger:      slog.New(slog.DiscardHandler),
		now:         time.Now,
		appName:     "SignPDF",
	}
}

// WithSignatureDataURL supplies the captured signature as a data URL, as
// produced by a drawing surface.
func WithSignatureDataURL(dataURL string) Option {
	return func(c *exportConfig) {
		c.signatureURL = dataURL
	}
}

// WithSignatureImage supplies the captured signature as raw image bytes
// (PNG, JPEG, GIF, WebP, BMP or TIFF).
func WithSignatureImage(data []byte) Option {
	return func(c *exportConfig) {
		c.signatureData = data
	}
}

// WithDecodedSignature supplies an already decoded signature.
func WithDecodedSignature(img *sigimage.Image) Option {
	return func(c *exportConfig) {
		c.signature = img
	}
}

// WithMaxImageDimension caps the longest side of the embedded signature in
// pixels.
func WithMaxImageDimension(px int) Option {
	return func(c *exportConfig) {
		if px > 0 {
			c.maxImageDim = px
		}
	}
}

// WithLogger sets the logger used for warnings and export summaries.
func WithLogger(l *slog.Logger) Option {
	return func(c *exportConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides the time source used for document metadata and the
// audit certificate.
func WithClock(now func() time.Time) Option {
	return func(c *exportConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithAppName sets the producer name written into the output metadata.
func WithAppName(name string) Option {
	return func(c *exportConfig) {
		if name != "" {
			c.appName = name
		}
	}
}

// WithAuditTrail appends an audit certificate page after the last page.
func WithAuditTrail(a AuditOptions) Option {
	return func(c *exportConfig) {
		c.audit = &a
	}
}

// WithWatermark stamps a rotated translucent watermark over every
// flattened page.
func WithWatermark(wm draw.Watermark) Option {
	return func(c *exportConfig) {
		wm = wm.WithDefaults()
		c.watermark = &wm
	}
}
