package sigimage

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func stroke(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeDataURL(t *testing.T) {
	raw := encodePNG(t, stroke(300, 100))
	url := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	img, err := DecodeDataURL(url, 0)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Width)
	assert.Equal(t, 100, img.Height)
	assert.Equal(t, "png", img.Format)
	assert.InDelta(t, 3.0, img.Aspect(), 1e-9)

	again, err := DecodeDataURL(img.DataURL(), 0)
	require.NoError(t, err)
	assert.Equal(t, img.Width, again.Width)
}

func TestDecodeDataURLErrors(t *testing.T) {
	_, err := DecodeDataURL("image/png;base64,AAAA", 0)
	assert.ErrorIs(t, err, ErrNotDataURL)

	_, err = DecodeDataURL("data:image/png;base64", 0)
	assert.ErrorIs(t, err, ErrNotDataURL)

	_, err = DecodeDataURL("data:image/png;base64,!!!notbase64", 0)
	assert.Error(t, err)

	_, err = DecodeDataURL("data:image/png;base64,"+base64.StdEncoding.EncodeToString([]byte("not an image")), 0)
	assert.Error(t, err)

	_, err = Decode(nil, 0)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestDecodeOtherFormats(t *testing.T) {
	var jpg bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, stroke(40, 20), nil))
	img, err := Load(jpg.Bytes(), 0)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", img.Format)

	var bm bytes.Buffer
	require.NoError(t, bmp.Encode(&bm, stroke(40, 20)))
	img, err = Load(bm.Bytes(), 0)
	require.NoError(t, err)
	assert.Equal(t, "bmp", img.Format)

	decoded, err := png.Decode(bytes.NewReader(img.PNG))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 20), decoded.Bounds())
}

func TestDecodeDownscales(t *testing.T) {
	img, err := Decode(encodePNG(t, stroke(1000, 250)), 200)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Width)
	assert.Equal(t, 50, img.Height)
}

func TestFit(t *testing.T) {
	img := &Image{Width: 300, Height: 100}

	w, h, ox, oy := img.Fit(150, 100)
	assert.InDelta(t, 150, w, 1e-9)
	assert.InDelta(t, 50, h, 1e-9)
	assert.InDelta(t, 0, ox, 1e-9)
	assert.InDelta(t, 25, oy, 1e-9)

	w, h, ox, oy = img.Fit(600, 100)
	assert.InDelta(t, 300, w, 1e-9)
	assert.InDelta(t, 100, h, 1e-9)
	assert.InDelta(t, 150, ox, 1e-9)
	assert.InDelta(t, 0, oy, 1e-9)
}
