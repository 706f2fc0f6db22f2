package ocr

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
)

// DirectTextThreshold is the minimum trimmed length of directly-extracted PDF
// text before the extractor falls back to rasterization + OCR. Guards against
// near-empty or garbled embedded text masking a scanned document.
const DirectTextThreshold = 50

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Language string // default "eng"
	DPI      int    // rasterization DPI for scanned PDFs, default 300
	MaxPages int    // 0 = no limit
}

type Result struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr"
	Duration   time.Duration
	Warnings   []string
}

// Extractor turns a document file into raw text, preferring cheap direct
// extraction and falling back to OCR.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner swaps the command runner. Test hook.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// Extract picks a strategy based on file extension. Extraction errors never
// propagate: they are logged and yield an empty Result, which the batch loop
// treats as "no text".
func (e *Extractor) Extract(ctx context.Context, path string) Result {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))

	var res Result
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res = e.extractPDF(ctx, path)
	case constants.IMAGE:
		res = e.extractImage(ctx, path)
	default:
		e.logger.Warn("ocr.extract.unsupported_extension", "path", path, "ext", ext)
		return Result{}
	}

	res.Duration = time.Since(start)
	e.logger.Info("ocr.extract.done",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"text_len", len(res.Text),
		"warnings", len(res.Warnings),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res
}

// extractPDF tries embedded text first, then rasterizes and OCRs each page.
// If OCR yields nothing the direct-extraction text is retained as-is.
func (e *Extractor) extractPDF(ctx context.Context, path string) Result {
	direct, pages, warns, err := e.pdfToText(ctx, path)
	if err != nil {
		e.logger.Warn("ocr.pdf.direct_text_failed", "path", path, "error", err)
		direct, pages = "", 0
	}
	if len(strings.TrimSpace(direct)) >= DirectTextThreshold {
		return Result{Text: direct, Pages: pages, SourceType: constants.PDF, Method: "pdf-text", Warnings: warns}
	}

	e.logger.Info("ocr.pdf.falling_back_to_ocr", "path", path, "direct_len", len(strings.TrimSpace(direct)))
	ocrText, ocrPages, ocrWarns, err := e.pdfToOCR(ctx, path)
	warns = append(warns, ocrWarns...)
	if err != nil {
		e.logger.Warn("ocr.pdf.ocr_failed", "path", path, "error", err)
	}
	if strings.TrimSpace(ocrText) == "" {
		// keep whatever direct extraction produced rather than discarding it
		return Result{Text: direct, Pages: pages, SourceType: constants.PDF, Method: "pdf-text", Warnings: warns}
	}
	return Result{Text: ocrText, Pages: ocrPages, SourceType: constants.PDF, Method: "pdf-ocr", Warnings: warns}
}

func (e *Extractor) extractImage(ctx context.Context, path string) Result {
	ocrPath := path
	if prepped, cleanup, err := preprocessImage(path); err != nil {
		e.logger.Warn("ocr.image.preprocess_failed", "path", path, "error", err)
	} else {
		ocrPath = prepped
		defer cleanup()
	}

	txt, warns, err := e.tesseractOCR(ctx, ocrPath)
	if err != nil {
		e.logger.Warn("ocr.image.failed", "path", path, "error", err)
		return Result{SourceType: constants.IMAGE, Warnings: warns}
	}
	return Result{
		Text:       Normalize(txt),
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Warnings:   warns,
	}
}
