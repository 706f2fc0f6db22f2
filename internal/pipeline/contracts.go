package pipeline

import (
	"context"

	"github.com/joseph-ayodele/invoice-pipeline/internal/entity"
	"github.com/joseph-ayodele/invoice-pipeline/internal/export"
	"github.com/joseph-ayodele/invoice-pipeline/internal/ocr"
)

// TextExtractor is stage 1: file -> raw text. Errors never propagate; an
// empty Result means "no text".
type TextExtractor interface {
	Extract(ctx context.Context, path string) ocr.Result
}

// StructuredExtractor is stage 2: text -> structured invoice. Nil means the
// text was below the minimum length; otherwise always an invoice.
type StructuredExtractor interface {
	Extract(ctx context.Context, text, filePath string) *entity.Invoice
}

// Flattener is stage 3: invoice -> denormalized records.
type Flattener interface {
	Flatten(inv *entity.Invoice) []entity.FlatRecord
}

// Archiver is stage 4: relocate a processed source file. Errors propagate to
// the per-file boundary.
type Archiver interface {
	Archive(sourceFile, archiveRoot, inputRoot string) (string, error)
}

// ArtifactSaver persists the collected records after the loop.
type ArtifactSaver interface {
	SaveArtifacts(records []entity.FlatRecord) (export.Artifacts, error)
}
