// Package validate checks candidate document uploads before they are handed
// to the editor: declared MIME type, declared size, and an optional sniff of
// the %PDF- magic header. An optional structural check parses the document
// with pdfcpu.
//
// Content problems are reported in a Result, never as an error.
package validate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Defaults applied when no option overrides them.
const (
	DefaultMaxSize = 25 * 1024 * 1024
	PDFMIMEType    = "application/pdf"
	Magic          = "%PDF-"
)

// Messages used in results.
const (
	msgHeaderUnreadable = "Unable to read file header for sniffing"
	msgBadHeader        = "File does not start with %PDF- magic header"
)

var ErrNilFile = errors.New("validate: nil file")

// File describes a candidate upload. Size and MIMEType are the values
// declared by the uploader. Content is only read when header sniffing or the
// structural check is enabled.
type File struct {
	Name     string
	MIMEType string
	Size     int64
	Content  io.Reader
}

// Result is the outcome of a check.
type Result struct {
	OK       bool     `json:"ok"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

type config struct {
	maxSize    int64
	allowed    []string
	sniff      bool
	structural bool
}

// Option configures a check.
type Option func(*config)

// WithMaxSize sets the largest accepted size in bytes.
func WithMaxSize(n int64) Option {
	return func(c *config) { c.maxSize = n }
}

// WithAllowedMIMETypes replaces the MIME allow-list.
func WithAllowedMIMETypes(types ...string) Option {
	return func(c *config) { c.allowed = types }
}

// WithHeaderSniff enables or disables the magic header sniff. It is enabled
// by default.
func WithHeaderSniff(on bool) Option {
	return func(c *config) { c.sniff = on }
}

// WithStructuralCheck parses the whole document with pdfcpu and reports
// structural problems as errors.
func WithStructuralCheck(on bool) Option {
	return func(c *config) { c.structural = on }
}

// Check validates f.
func Check(f *File, opts ...Option) (Result, error) {
	if f == nil {
		return Result{}, ErrNilFile
	}
	c := config{
		maxSize: DefaultMaxSize,
		allowed: []string{PDFMIMEType},
		sniff:   true,
	}
	for _, opt := range opts {
		opt(&c)
	}

	res := Result{Errors: []string{}, Warnings: []string{}}

	if !slices.Contains(c.allowed, f.MIMEType) {
		t := f.MIMEType
		if t == "" {
			t = "unknown"
		}
		res.Errors = append(res.Errors, fmt.Sprintf("Unsupported MIME type: %s", t))
	}
	if f.Size > c.maxSize {
		res.Errors = append(res.Errors, fmt.Sprintf(
			"File size (%.1f MB) exceeds maximum allowed size of %.1f MB",
			megabytes(f.Size), megabytes(c.maxSize)))
	}

	if c.sniff || c.structural {
		data, err := readContent(f.Content, c.structural)
		switch {
		case err != nil:
			res.Warnings = append(res.Warnings, msgHeaderUnreadable)
		default:
			if c.sniff && !bytes.HasPrefix(data, []byte(Magic)) {
				res.Errors = append(res.Errors, msgBadHeader)
			}
			if c.structural {
				conf := model.NewDefaultConfiguration()
				conf.ValidationMode = model.ValidationRelaxed
				if err := api.Validate(bytes.NewReader(data), conf); err != nil {
					res.Errors = append(res.Errors, fmt.Sprintf("Invalid document structure: %v", err))
				}
			}
		}
	}

	res.OK = len(res.Errors) == 0
	return res, nil
}

// CheckBytes validates an in-memory upload. The declared size is len(data).
func CheckBytes(name, mimeType string, data []byte, opts ...Option) Result {
	res, _ := Check(&File{
		Name:     name,
		MIMEType: mimeType,
		Size:     int64(len(data)),
		Content:  bytes.NewReader(data),
	}, opts...)
	return res
}

// CheckPath validates a file on disk. The MIME type is derived from the file
// extension unless mimeType is non-empty.
func CheckPath(path, mimeType string, opts ...Option) (Result, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("validate: opening %s: %w", path, err)
	}
	defer fh.Close()

	st, err := fh.Stat()
	if err != nil {
		return Result{}, fmt.Errorf("validate: stat %s: %w", path, err)
	}
	if mimeType == "" {
		mimeType = MIMETypeOf(path)
	}
	return Check(&File{Name: filepath.Base(path), MIMEType: mimeType, Size: st.Size(), Content: fh}, opts...)
}

// MIMETypeOf guesses a MIME type from the file extension, without parameters.
func MIMETypeOf(name string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

// readContent returns the header bytes, or all bytes when full is set.
func readContent(r io.Reader, full bool) ([]byte, error) {
	if r == nil {
		return nil, errors.New("no content")
	}
	if full {
		return io.ReadAll(r)
	}
	buf := make([]byte, len(Magic))
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if s, ok := r.(io.Seeker); ok {
		_, _ = s.Seek(0, io.SeekStart)
	}
	return buf[:n], nil
}

func megabytes(n int64) float64 { return float64(n) / (1024 * 1024) }
