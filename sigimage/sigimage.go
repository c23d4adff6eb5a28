// Package sigimage decodes captured signature images into a form the PDF
// writer can embed: an 8-bit RGBA PNG, downscaled when it is larger than
// needed.
//
// Input is either a data URL ("data:image/png;base64,...") as produced by a
// drawing surface, or raw image bytes from an uploaded file. PNG, JPEG, GIF,
// WebP, BMP and TIFF sources are accepted.
package sigimage

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/url"
	"strings"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxDimension is the default longest side kept for embedded signatures.
const MaxDimension = 1600

var (
	ErrNotDataURL = errors.New("sigimage: not a data URL")
	ErrEmpty      = errors.New("sigimage: empty image data")
)

// Image is a decoded signature ready for embedding.
type Image struct {
	PNG    []byte // re-encoded PNG data
	Width  int    // pixels
	Height int    // pixels
	Format string // source format as reported by image.Decode
}

// Aspect returns width divided by height.
func (img *Image) Aspect() float64 {
	if img.Height == 0 {
		return 0
	}
	return float64(img.Width) / float64(img.Height)
}

// Fit returns the size and offset of the image scaled uniformly to fit
// inside a box of w x h, centered in it.
func (img *Image) Fit(w, h float64) (dw, dh, ox, oy float64) {
	if img.Width <= 0 || img.Height <= 0 {
		return 0, 0, 0, 0
	}
	scale := min(w/float64(img.Width), h/float64(img.Height))
	dw = float64(img.Width) * scale
	dh = float64(img.Height) * scale
	return dw, dh, (w - dw) / 2, (h - dh) / 2
}

// DecodeDataURL decodes a data URL. Both base64 and percent-encoded payloads
// are accepted.
func DecodeDataURL(s string, maxDim int) (*Image, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return nil, ErrNotDataURL
	}
	header, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing payload", ErrNotDataURL)
	}

	var data []byte
	var err error
	if strings.HasSuffix(header, ";base64") {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
	} else {
		var text string
		text, err = url.PathUnescape(payload)
		data = []byte(text)
	}
	if err != nil {
		return nil, fmt.Errorf("sigimage: decoding payload: %w", err)
	}
	return Decode(data, maxDim)
}

// Decode decodes raw image bytes. Images whose longest side exceeds maxDim
// are downscaled with Catmull-Rom resampling; maxDim <= 0 selects
// MaxDimension.
func Decode(data []byte, maxDim int) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("sigimage: decoding image: %w", err)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmpty
	}
	if maxDim <= 0 {
		maxDim = MaxDimension
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if longest := max(b.Dx(), b.Dy()); longest > maxDim {
		scale := float64(maxDim) / float64(longest)
		w := max(1, int(float64(b.Dx())*scale+0.5))
		h := max(1, int(float64(b.Dy())*scale+0.5))
		dst = image.NewNRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	} else {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("sigimage: encoding png: %w", err)
	}
	return &Image{
		PNG:    buf.Bytes(),
		Width:  dst.Bounds().Dx(),
		Height: dst.Bounds().Dy(),
		Format: format,
	}, nil
}

// Load accepts either a data URL or raw image bytes.
func Load(data []byte, maxDim int) (*Image, error) {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("data:")) {
		return DecodeDataURL(string(data), maxDim)
	}
	return Decode(data, maxDim)
}

// DataURL encodes img as a base64 PNG data URL.
func (img *Image) DataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img.PNG)
}
