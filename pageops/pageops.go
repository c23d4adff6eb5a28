// Package pageops inspects source documents and re-imports their pages into
// a new fpdf document, so that new content can be drawn over the original
// pages.
//
// Probing uses pdfcpu; page import uses the gofpdi contrib package, which
// places each source page as a template before any overlay is drawn.
package pageops

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNoPages is returned for documents without pages.
var ErrNoPages = errors.New("pageops: document has no pages")

// PageInfo is the size of one page in points.
type PageInfo struct {
	Number int     `json:"number"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Info summarizes a document.
type Info struct {
	PageCount int        `json:"pageCount"`
	Pages     []PageInfo `json:"pages"`
	Version   string     `json:"version,omitempty"`
	Encrypted bool       `json:"encrypted,omitempty"`
}

// Page returns the info of page n (1-based).
func (i *Info) Page(n int) (PageInfo, bool) {
	if n < 1 || n > len(i.Pages) {
		return PageInfo{}, false
	}
	return i.Pages[n-1], true
}

// Probe reads the page count and page sizes of a document.
func Probe(data []byte) (*Info, error) {
	return ProbeReader(bytes.NewReader(data))
}

// ProbeReader is like Probe for an io.ReadSeeker.
func ProbeReader(rs io.ReadSeeker) (*Info, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("pageops: reading document: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("pageops: counting pages: %w", err)
	}
	if ctx.PageCount < 1 {
		return nil, ErrNoPages
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("pageops: reading page sizes: %w", err)
	}

	info := &Info{
		PageCount: ctx.PageCount,
		Pages:     make([]PageInfo, 0, len(dims)),
		Version:   ctx.VersionString(),
		Encrypted: ctx.Encrypt != nil,
	}
	for i, d := range dims {
		info.Pages = append(info.Pages, PageInfo{Number: i + 1, Width: d.Width, Height: d.Height})
	}
	return info, nil
}

// Import appends every page of data to pdf, page size preserved, with the
// original content placed as a template. After each page is placed, fn is
// called so the caller can draw on top of it; returning an error stops the
// import.
//
// Panics raised by the importer on malformed input are returned as errors.
func Import(pdf *fpdf.Fpdf, data []byte, info *Info, fn func(PageInfo) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pageops: importing pages: %v", r)
		}
	}()

	imp := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(data))
	for _, p := range info.Pages {
		tpl := imp.ImportPageFromStream(pdf, &rs, p.Number, "/MediaBox")
		w, h := p.Width, p.Height
		if mw, mh, ok := mediaBox(imp, p.Number); ok {
			w, h = mw, mh
		}
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
		imp.UseImportedTemplate(pdf, tpl, 0, 0, w, h)
		if pdf.Err() {
			return fmt.Errorf("pageops: placing page %d: %w", p.Number, pdf.Error())
		}
		if fn != nil {
			if err := fn(PageInfo{Number: p.Number, Width: w, Height: h}); err != nil {
				return err
			}
		}
	}
	return nil
}

// mediaBox returns the imported size of a page.
func mediaBox(imp *gofpdi.Importer, page int) (w, h float64, ok bool) {
	sizes := imp.GetPageSizes()
	if dims, found := sizes[page]; found {
		if mb, found := dims["/MediaBox"]; found && mb["w"] > 0 && mb["h"] > 0 {
			return mb["w"], mb["h"], true
		}
	}
	return 0, 0, false
}
