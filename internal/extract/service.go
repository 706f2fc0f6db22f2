package extract

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/entity"
	"github.com/joseph-ayodele/invoice-pipeline/internal/llm"
)

// MinTextLength is the trimmed-length gate below which no backend is called:
// there is nothing worth extracting from.
const MinTextLength = 20

// backendAttempts bounds retries of a single backend on transport failure.
const backendAttempts = 2

// retryBackoff separates transport retries of the same backend.
const retryBackoff = 500 * time.Millisecond

// Service converts raw document text into a structured invoice by walking an
// ordered chain of completion backends, degrading to a placeholder record when
// the whole chain fails. It never surfaces backend errors to the caller.
type Service struct {
	backends []llm.Completer
	logger   *slog.Logger
}

func NewService(backends []llm.Completer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{backends: backends, logger: logger}
}

// Extract returns nil only when text is below MinTextLength; otherwise it
// always returns an invoice, tagged StatusExtracted or StatusOCROnly.
func (s *Service) Extract(ctx context.Context, text, filePath string) *entity.Invoice {
	if len(strings.TrimSpace(text)) < MinTextLength {
		s.logger.Warn("extract.insufficient_text", "path", filePath, "text_len", len(strings.TrimSpace(text)))
		return nil
	}

	prompt := llm.BuildExtractionPrompt(text)

	for _, backend := range s.backends {
		payload := s.tryBackend(ctx, backend, prompt, filePath)
		if payload == nil {
			continue
		}
		inv := s.toInvoice(payload, text, filePath)
		s.logger.Info("extract.ok",
			"path", filePath,
			"backend", backend.Name(),
			"line_items", len(inv.LineItems),
		)
		return inv
	}

	s.logger.Info("extract.all_backends_failed", "path", filePath, "backends", len(s.backends))
	return s.placeholderInvoice(text, filePath)
}

func (s *Service) tryBackend(ctx context.Context, backend llm.Completer, prompt, filePath string) *llm.InvoicePayload {
	var raw string
	var err error
	for attempt := 1; attempt <= backendAttempts; attempt++ {
		start := time.Now()
		raw, err = backend.Complete(ctx, prompt)
		if err == nil {
			break
		}
		s.logger.Warn("extract.backend_error",
			"path", filePath,
			"backend", backend.Name(),
			"attempt", attempt,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		if attempt < backendAttempts {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(retryBackoff):
			}
		}
	}
	if err != nil {
		return nil
	}

	payload, err := llm.ParseInvoicePayload(raw, s.logger)
	if err != nil {
		// a malformed response fails the backend as a whole; no partial data
		s.logger.Warn("extract.backend_parse_failed",
			"path", filePath,
			"backend", backend.Name(),
			"error", err,
		)
		return nil
	}
	return payload
}

func (s *Service) toInvoice(p *llm.InvoicePayload, text, filePath string) *entity.Invoice {
	currency := "USD"
	if p.Header.Currency != nil && strings.TrimSpace(*p.Header.Currency) != "" {
		currency = strings.ToUpper(strings.TrimSpace(*p.Header.Currency))
	}

	items := make([]entity.InvoiceLineItem, 0, len(p.LineItems))
	for _, it := range p.LineItems {
		items = append(items, entity.InvoiceLineItem{
			ItemDescription: it.ItemDescription,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			LineTotal:       it.LineTotal,
			ItemCode:        it.ItemCode,
		})
	}

	return &entity.Invoice{
		Header: entity.InvoiceHeader{
			InvoiceNumber:   p.Header.InvoiceNumber,
			InvoiceDate:     p.Header.InvoiceDate,
			DueDate:         p.Header.DueDate,
			VendorName:      p.Header.VendorName,
			VendorAddress:   p.Header.VendorAddress,
			VendorTaxID:     p.Header.VendorTaxID,
			CustomerName:    p.Header.CustomerName,
			CustomerAddress: p.Header.CustomerAddress,
			TotalAmount:     p.Header.TotalAmount,
			TaxAmount:       p.Header.TaxAmount,
			Subtotal:        p.Header.Subtotal,
			Currency:        currency,
		},
		LineItems: items,
		RawText:   text,
		FilePath:  filePath,
		Status:    constants.StatusExtracted,
	}
}

// placeholderInvoice carries the raw text forward for manual review when no
// backend produced usable structured data.
func (s *Service) placeholderInvoice(text, filePath string) *entity.Invoice {
	stem := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	return &entity.Invoice{
		Header: entity.InvoiceHeader{
			InvoiceNumber: entity.Str(stem),
			VendorName:    entity.Str(constants.OCROnlyVendorName),
			Currency:      "USD",
		},
		LineItems: []entity.InvoiceLineItem{
			{ItemDescription: constants.OCRTextItemPrefix + truncateRunes(text, constants.OCRTextPreviewLength) + "..."},
		},
		RawText:  text,
		FilePath: filePath,
		Status:   constants.StatusOCROnly,
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
