package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/entity"
	"github.com/joseph-ayodele/invoice-pipeline/internal/report"
)

func TestSaveArtifacts(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "out")
	clock := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	svc := NewService(outputDir, report.NewEngine(clock, nil), clock, nil)

	records := []entity.FlatRecord{
		{
			InvoiceNumber:       entity.Str("INV-1"),
			VendorName:          entity.Str("Acme"),
			TotalAmount:         entity.Num(150),
			Currency:            "USD",
			ItemDescription:     "Widget",
			FilePath:            "data/input/a.pdf",
			ProcessingTimestamp: "2025-06-01T12:00:00Z",
			Status:              constants.StatusExtracted,
		},
	}

	arts, err := svc.SaveArtifacts(records)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outputDir, "processed_invoices_20250601_120000.csv"), arts.CSVPath)
	assert.Equal(t, filepath.Join(outputDir, "invoice_processing_summary_20250601_120000.txt"), arts.ReportPath)
	assert.Equal(t, filepath.Join(outputDir, "invoice_summary_table_20250601_120000.xlsx"), arts.TablePath)

	csvBytes, err := os.ReadFile(arts.CSVPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(csvBytes, BOM))
	assert.Contains(t, string(csvBytes), "INV-1")

	reportBytes, err := os.ReadFile(arts.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(reportBytes), "INVOICE PROCESSING SUMMARY REPORT")
	assert.Contains(t, string(reportBytes), "Generated: 2025-06-01 12:00:00")

	xlsxInfo, err := os.Stat(arts.TablePath)
	require.NoError(t, err)
	assert.Positive(t, xlsxInfo.Size())
}

func TestSaveArtifacts_EmptyRecords(t *testing.T) {
	outputDir := t.TempDir()
	svc := NewService(outputDir, report.NewEngine(nil, nil), nil, nil)

	arts, err := svc.SaveArtifacts(nil)
	require.NoError(t, err)

	csvBytes, err := os.ReadFile(arts.CSVPath)
	require.NoError(t, err)
	assert.Contains(t, string(csvBytes), "invoice_number")
}
