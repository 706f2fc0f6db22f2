package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/invoice-pipeline/internal/entity"
	"github.com/joseph-ayodele/invoice-pipeline/internal/report"
)

// Artifacts are the per-run output files.
type Artifacts struct {
	CSVPath    string
	ReportPath string
	TablePath  string
}

// Service persists the three batch artifacts: the flat-record CSV, the
// plain-text summary report, and the summary-table XLSX. Filenames embed a
// generation timestamp from the injected clock.
type Service struct {
	outputDir string
	engine    *report.Engine
	now       func() time.Time
	logger    *slog.Logger
}

func NewService(outputDir string, engine *report.Engine, clock func() time.Time, logger *slog.Logger) *Service {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{outputDir: outputDir, engine: engine, now: clock, logger: logger}
}

// SaveArtifacts writes all outputs for one batch run. Unlike per-file stages,
// errors here propagate: by this point per-file isolation no longer applies.
func (s *Service) SaveArtifacts(records []entity.FlatRecord) (Artifacts, error) {
	start := time.Now()
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return Artifacts{}, fmt.Errorf("create output dir: %w", err)
	}

	ts := s.now().Format("20060102_150405")
	out := Artifacts{
		CSVPath:    filepath.Join(s.outputDir, fmt.Sprintf("processed_invoices_%s.csv", ts)),
		ReportPath: filepath.Join(s.outputDir, fmt.Sprintf("invoice_processing_summary_%s.txt", ts)),
		TablePath:  filepath.Join(s.outputDir, fmt.Sprintf("invoice_summary_table_%s.xlsx", ts)),
	}

	if err := s.writeCSV(out.CSVPath, records); err != nil {
		return Artifacts{}, err
	}

	stats := s.engine.Analyze(records)
	reportText := s.engine.Report(records, stats, out.CSVPath)
	if err := os.WriteFile(out.ReportPath, []byte(reportText), 0o644); err != nil {
		return Artifacts{}, fmt.Errorf("write report: %w", err)
	}

	xlsxBytes, err := SummaryTableXLSX(s.engine.SummaryTable(records))
	if err != nil {
		return Artifacts{}, err
	}
	if err := os.WriteFile(out.TablePath, xlsxBytes, 0o644); err != nil {
		return Artifacts{}, fmt.Errorf("write summary table: %w", err)
	}

	s.logger.Info("export.artifacts.ok",
		"records", len(records),
		"csv", out.CSVPath,
		"report", out.ReportPath,
		"table", out.TablePath,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (s *Service) writeCSV(path string, records []entity.FlatRecord) error {
	var buf bytes.Buffer
	buf.Write(BOM)

	w := NewCSVWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteRecords(records); err != nil {
		return fmt.Errorf("write csv records: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
