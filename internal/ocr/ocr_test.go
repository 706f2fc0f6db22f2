package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
)

// stubRunner dispatches on the binary name. The pdftoppm handler writes fake
// page images so the glob in pdfToOCR finds something to feed tesseract.
type stubRunner struct {
	pdftotextOut string
	pdftotextErr error

	renderPages int
	pdftoppmErr error

	tesseractOut func(imagePath string) string
	tesseractErr error

	calls []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, name)
	switch name {
	case "pdftotext":
		if s.pdftotextErr != nil {
			return nil, []byte("pdftotext stderr"), s.pdftotextErr
		}
		return []byte(s.pdftotextOut), nil, nil
	case "pdftoppm":
		if s.pdftoppmErr != nil {
			return nil, []byte("pdftoppm stderr"), s.pdftoppmErr
		}
		prefix := args[len(args)-1]
		for i := 1; i <= s.renderPages; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		if s.tesseractErr != nil {
			return nil, []byte("tesseract stderr"), s.tesseractErr
		}
		img := args[0]
		if s.tesseractOut != nil {
			return []byte(s.tesseractOut(img)), nil, nil
		}
		return []byte("OCR TEXT"), nil, nil
	}
	return nil, nil, fmt.Errorf("unexpected binary %s", name)
}

func newTestExtractor(cfg Config, r Runner) *Extractor {
	return NewExtractor(cfg, nil).WithRunner(r)
}

func TestExtract_PDFDirectText(t *testing.T) {
	direct := "INVOICE INV-1\nAcme Corp\nTotal: 500.00 USD\f" + "Page two terms and conditions text"
	stub := &stubRunner{pdftotextOut: direct}
	e := newTestExtractor(Config{}, stub)

	res := e.Extract(context.Background(), "inv.pdf")

	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, constants.PDF, res.SourceType)
	assert.Equal(t, direct, res.Text)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, []string{"pdftotext"}, stub.calls)
}

func TestExtract_PDFFallsBackToOCR(t *testing.T) {
	stub := &stubRunner{
		pdftotextOut: "short", // below the direct-text threshold
		renderPages:  2,
		tesseractOut: func(img string) string {
			if strings.HasSuffix(img, "-1.png") {
				return "FIRST PAGE TEXT\n"
			}
			return "SECOND PAGE TEXT\n"
		},
	}
	e := newTestExtractor(Config{}, stub)

	res := e.Extract(context.Background(), "scan.pdf")

	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, "Page 1:\nFIRST PAGE TEXT\n\nPage 2:\nSECOND PAGE TEXT\n\n", res.Text)
	assert.Equal(t, []string{"pdftotext", "pdftoppm", "tesseract", "tesseract"}, stub.calls)
}

func TestExtract_PDFRetainsDirectTextWhenOCRFails(t *testing.T) {
	stub := &stubRunner{
		pdftotextOut: "short text",
		pdftoppmErr:  errors.New("pdftoppm crashed"),
	}
	e := newTestExtractor(Config{}, stub)

	res := e.Extract(context.Background(), "scan.pdf")

	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, "short text", res.Text)
	assert.NotEmpty(t, res.Warnings)
}

func TestExtract_PDFMaxPagesCap(t *testing.T) {
	stub := &stubRunner{pdftotextOut: "", renderPages: 5}
	e := newTestExtractor(Config{MaxPages: 2}, stub)

	res := e.Extract(context.Background(), "big-scan.pdf")

	assert.Equal(t, 2, res.Pages)
	// pdftotext + pdftoppm + one tesseract per kept page
	assert.Equal(t, []string{"pdftotext", "pdftoppm", "tesseract", "tesseract"}, stub.calls)
}

func TestExtract_ImageOCR(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/receipt.png"
	// not a decodable image: preprocessing fails and the original is OCRed
	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0o644))

	stub := &stubRunner{tesseractOut: func(string) string { return "ACME   INVOICE\n\n\n\nTOTAL 42" }}
	e := newTestExtractor(Config{}, stub)

	res := e.Extract(context.Background(), path)

	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, constants.IMAGE, res.SourceType)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, "ACME INVOICE\n\nTOTAL 42", res.Text)
}

func TestExtract_ImageOCRFailure(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/receipt.jpg"
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o644))

	stub := &stubRunner{tesseractErr: errors.New("tesseract not found")}
	e := newTestExtractor(Config{}, stub)

	res := e.Extract(context.Background(), path)

	assert.Empty(t, res.Text)
	assert.Empty(t, res.Method)
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	stub := &stubRunner{}
	e := newTestExtractor(Config{}, stub)

	res := e.Extract(context.Background(), "notes.txt")

	assert.Empty(t, res.Text)
	assert.Empty(t, stub.calls)
}

func TestNormalize(t *testing.T) {
	in := "a\tb\r\nc   d\n\n\n\n\ne  \n"
	assert.Equal(t, "a b\nc d\n\ne", Normalize(in))
}
