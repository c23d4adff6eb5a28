package validate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/signpdf/doctpl"
)

const fakePDF = "%PDF-1.7\n%…\nfake-pdf-body"

func TestCheckAcceptsSmallPDF(t *testing.T) {
	res := CheckBytes("sample.pdf", PDFMIMEType, []byte(fakePDF), WithMaxSize(5*1024*1024))
	assert.True(t, res.OK)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestCheckRejectsWrongMIME(t *testing.T) {
	res := CheckBytes("not.pdf", "text/plain", []byte(fakePDF))
	assert.False(t, res.OK)
	assert.Contains(t, strings.Join(res.Errors, " "), "Unsupported MIME type: text/plain")

	res = CheckBytes("x", "", []byte(fakePDF))
	assert.Contains(t, res.Errors, "Unsupported MIME type: unknown")
}

func TestCheckRejectsOversize(t *testing.T) {
	res, err := Check(&File{
		Name:     "big.pdf",
		MIMEType: PDFMIMEType,
		Size:     30 * 1024 * 1024,
		Content:  strings.NewReader(fakePDF),
	}, WithMaxSize(10*1024*1024))
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, []string{"File size (30.0 MB) exceeds maximum allowed size of 10.0 MB"}, res.Errors)
}

func TestCheckHeaderSniff(t *testing.T) {
	res := CheckBytes("bogus.pdf", PDFMIMEType, []byte("BOGUS"+"fake-pdf-body"))
	assert.False(t, res.OK)
	assert.Equal(t, []string{msgBadHeader}, res.Errors)

	res = CheckBytes("short.pdf", PDFMIMEType, []byte("%PD"))
	assert.False(t, res.OK, "short files cannot carry the header")

	res = CheckBytes("bogus.pdf", PDFMIMEType, []byte("BOGUS"), WithHeaderSniff(false))
	assert.True(t, res.OK, "only MIME and size are checked without sniffing")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestCheckUnreadableHeaderWarns(t *testing.T) {
	res, err := Check(&File{Name: "a.pdf", MIMEType: PDFMIMEType, Size: 10, Content: failingReader{}})
	require.NoError(t, err)
	assert.True(t, res.OK, "failing to read the header is not an error")
	assert.Equal(t, []string{msgHeaderUnreadable}, res.Warnings)

	res, err = Check(&File{Name: "a.pdf", MIMEType: PDFMIMEType, Size: 10})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Len(t, res.Warnings, 1)

	_, err = Check(nil)
	assert.ErrorIs(t, err, ErrNilFile)
}

func TestCheckCustomAllowList(t *testing.T) {
	res := CheckBytes("a.pdf", "application/x-pdf", []byte(fakePDF),
		WithAllowedMIMETypes(PDFMIMEType, "application/x-pdf"))
	assert.True(t, res.OK)
}

func TestCheckStructural(t *testing.T) {
	data, err := doctpl.GenerateBytes("Structure", doctpl.Options{Pages: 2})
	require.NoError(t, err)

	res := CheckBytes("ok.pdf", PDFMIMEType, data, WithStructuralCheck(true))
	assert.True(t, res.OK, "errors: %v", res.Errors)

	res = CheckBytes("broken.pdf", PDFMIMEType, []byte(fakePDF), WithStructuralCheck(true))
	assert.False(t, res.OK)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Invalid document structure")
}

func TestCheckPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "upload.pdf")
	require.NoError(t, os.WriteFile(path, []byte(fakePDF), 0o644))

	res, err := CheckPath(path, "")
	require.NoError(t, err)
	assert.True(t, res.OK, "errors: %v", res.Errors)

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte(fakePDF), 0o644))
	res, err = CheckPath(txt, "")
	require.NoError(t, err)
	assert.False(t, res.OK)

	_, err = CheckPath(filepath.Join(dir, "missing.pdf"), "")
	assert.Error(t, err)
}

func TestMIMETypeOf(t *testing.T) {
	assert.Equal(t, PDFMIMEType, MIMETypeOf("Contract.PDF"))
	assert.True(t, strings.HasPrefix(MIMETypeOf("notes.txt"), "text/plain"))
	assert.Equal(t, "", MIMETypeOf("noext"))
}
