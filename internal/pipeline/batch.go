package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-pipeline/internal/entity"
	"github.com/joseph-ayodele/invoice-pipeline/internal/ingest"
)

// Orchestrator drives each discovered file through text extraction,
// structured extraction, flattening, and archival, then hands the accumulated
// records to the artifact saver. Files are processed strictly sequentially;
// one file's failure never aborts the batch.
type Orchestrator struct {
	text       TextExtractor
	structured StructuredExtractor
	flattener  Flattener
	archiver   Archiver
	exporter   ArtifactSaver
	logger     *slog.Logger
}

func NewOrchestrator(
	text TextExtractor,
	structured StructuredExtractor,
	flattener Flattener,
	archiver Archiver,
	exporter ArtifactSaver,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		text:       text,
		structured: structured,
		flattener:  flattener,
		archiver:   archiver,
		exporter:   exporter,
		logger:     logger,
	}
}

// Run processes every supported file under inputDir and returns a summary
// message that distinguishes "no files found", "nothing succeeded", and
// "processed N with M rows" without the caller inspecting logs. Only a
// persistence failure after the loop returns an error.
func (o *Orchestrator) Run(ctx context.Context, inputDir, archiveDir string) (string, error) {
	start := time.Now()

	files := ingest.DiscoverFiles(inputDir, o.logger)
	if len(files) == 0 {
		return fmt.Sprintf("No invoice files found in %s", inputDir), nil
	}

	o.logger.Info("pipeline.batch.start", "files", len(files), "input_dir", inputDir)

	var records []entity.FlatRecord
	processed := 0

	for _, path := range files {
		o.logger.Info("pipeline.file.start", "path", path)

		res := o.text.Extract(ctx, path)
		if strings.TrimSpace(res.Text) == "" {
			o.logger.Warn("pipeline.file.no_text", "path", path)
			continue
		}

		inv := o.structured.Extract(ctx, res.Text, path)
		if inv == nil {
			o.logger.Warn("pipeline.file.insufficient_text", "path", path)
			continue
		}

		rows := o.flattener.Flatten(inv)
		records = append(records, rows...)

		if _, err := o.archiver.Archive(path, archiveDir, inputDir); err != nil {
			o.logger.Error("pipeline.file.archive_failed", "path", path, "error", err)
			continue
		}

		processed++
		o.logger.Info("pipeline.file.ok", "path", path, "rows", len(rows), "status", inv.Status)
	}

	if len(records) == 0 {
		o.logger.Warn("pipeline.batch.nothing_processed", "files", len(files))
		return fmt.Sprintf("No invoices were successfully processed from %d files", len(files)), nil
	}

	artifacts, err := o.exporter.SaveArtifacts(records)
	if err != nil {
		return "", fmt.Errorf("save artifacts: %w", err)
	}

	o.logger.Info("pipeline.batch.done",
		"processed", processed,
		"rows", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return fmt.Sprintf(
		"Successfully processed %d invoices with %d total line items. Results saved to %s. Summary: %s",
		processed, len(records), artifacts.CSVPath, artifacts.ReportPath,
	), nil
}
