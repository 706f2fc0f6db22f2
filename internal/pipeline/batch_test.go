package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/archive"
	"github.com/joseph-ayodele/invoice-pipeline/internal/entity"
	"github.com/joseph-ayodele/invoice-pipeline/internal/export"
	"github.com/joseph-ayodele/invoice-pipeline/internal/flatten"
	"github.com/joseph-ayodele/invoice-pipeline/internal/ocr"
)

type fakeText struct {
	texts map[string]string // basename -> text
}

func (f *fakeText) Extract(_ context.Context, path string) ocr.Result {
	txt := f.texts[filepath.Base(path)]
	if txt == "" {
		return ocr.Result{}
	}
	return ocr.Result{Text: txt, Pages: 1, SourceType: constants.PDF, Method: "pdf-text"}
}

type fakeStructured struct {
	failAll bool
}

func (f *fakeStructured) Extract(_ context.Context, text, filePath string) *entity.Invoice {
	if f.failAll {
		return &entity.Invoice{
			Header: entity.InvoiceHeader{
				InvoiceNumber: entity.Str("placeholder"),
				VendorName:    entity.Str(constants.OCROnlyVendorName),
				Currency:      "USD",
			},
			LineItems: []entity.InvoiceLineItem{{ItemDescription: constants.OCRTextItemPrefix + text + "..."}},
			RawText:   text,
			FilePath:  filePath,
			Status:    constants.StatusOCROnly,
		}
	}
	stem := filepath.Base(filePath)
	return &entity.Invoice{
		Header: entity.InvoiceHeader{
			InvoiceNumber: entity.Str("INV-" + stem),
			VendorName:    entity.Str("Acme"),
			TotalAmount:   entity.Num(100),
			Currency:      "USD",
		},
		LineItems: []entity.InvoiceLineItem{
			{ItemDescription: "Widget", Quantity: entity.Num(1), LineTotal: entity.Num(100)},
			{ItemDescription: "Shipping"},
		},
		RawText:  text,
		FilePath: filePath,
		Status:   constants.StatusExtracted,
	}
}

type fakeSaver struct {
	records []entity.FlatRecord
	err     error
}

func (f *fakeSaver) SaveArtifacts(records []entity.FlatRecord) (export.Artifacts, error) {
	if f.err != nil {
		return export.Artifacts{}, f.err
	}
	f.records = records
	return export.Artifacts{
		CSVPath:    "out/processed_invoices_x.csv",
		ReportPath: "out/invoice_processing_summary_x.txt",
		TablePath:  "out/invoice_summary_table_x.xlsx",
	}, nil
}

type failingArchiver struct{}

func (failingArchiver) Archive(string, string, string) (string, error) {
	return "", errors.New("disk full")
}

func writeInput(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("bytes"), 0o644))
	}
}

func newOrchestrator(text TextExtractor, structured StructuredExtractor, archiver Archiver, saver ArtifactSaver) *Orchestrator {
	clock := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return NewOrchestrator(text, structured, flatten.NewFlattener(clock), archiver, saver, nil)
}

func TestRun_NoFiles(t *testing.T) {
	input := t.TempDir()
	o := newOrchestrator(&fakeText{}, &fakeStructured{}, archive.NewArchiver(nil), &fakeSaver{})

	msg, err := o.Run(context.Background(), input, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("No invoice files found in %s", input), msg)
}

func TestRun_NothingProcessed(t *testing.T) {
	input := t.TempDir()
	writeInput(t, input, "a.pdf", "b.pdf")
	// no text for either file
	o := newOrchestrator(&fakeText{}, &fakeStructured{}, archive.NewArchiver(nil), &fakeSaver{})

	msg, err := o.Run(context.Background(), input, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "No invoices were successfully processed from 2 files", msg)
}

func TestRun_ProcessesAndArchives(t *testing.T) {
	input := t.TempDir()
	archiveDir := t.TempDir()
	writeInput(t, input, "a.pdf", filepath.Join("acme", "b.pdf"), "empty.pdf")

	text := &fakeText{texts: map[string]string{
		"a.pdf": "INVOICE text long enough to matter",
		"b.pdf": "another invoice body with details",
	}}
	saver := &fakeSaver{}
	o := newOrchestrator(text, &fakeStructured{}, archive.NewArchiver(nil), saver)

	msg, err := o.Run(context.Background(), input, archiveDir)
	require.NoError(t, err)
	assert.Equal(t,
		"Successfully processed 2 invoices with 4 total line items. "+
			"Results saved to out/processed_invoices_x.csv. Summary: out/invoice_processing_summary_x.txt",
		msg)

	require.Len(t, saver.records, 4)
	assert.Equal(t, constants.StatusExtracted, saver.records[0].Status)

	// processed files moved, mirroring the input layout; the textless one stayed
	assert.FileExists(t, filepath.Join(archiveDir, "a.pdf"))
	assert.FileExists(t, filepath.Join(archiveDir, "acme", "b.pdf"))
	assert.NoFileExists(t, filepath.Join(input, "a.pdf"))
	assert.FileExists(t, filepath.Join(input, "empty.pdf"))
}

func TestRun_PlaceholderStillCounts(t *testing.T) {
	input := t.TempDir()
	writeInput(t, input, "scan.png")
	text := &fakeText{texts: map[string]string{"scan.png": "barely legible scanned content"}}
	saver := &fakeSaver{}
	o := newOrchestrator(text, &fakeStructured{failAll: true}, archive.NewArchiver(nil), saver)

	msg, err := o.Run(context.Background(), input, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, msg, "Successfully processed 1 invoices with 1 total line items")
	require.Len(t, saver.records, 1)
	assert.Equal(t, constants.StatusOCROnly, saver.records[0].Status)
	assert.NoFileExists(t, filepath.Join(input, "scan.png"))
}

func TestRun_ArchiveFailureKeepsRowsButNotCount(t *testing.T) {
	input := t.TempDir()
	writeInput(t, input, "a.pdf")
	text := &fakeText{texts: map[string]string{"a.pdf": "invoice body text goes here"}}
	saver := &fakeSaver{}
	o := newOrchestrator(text, &fakeStructured{}, failingArchiver{}, saver)

	msg, err := o.Run(context.Background(), input, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, msg, "Successfully processed 0 invoices with 2 total line items")
	require.Len(t, saver.records, 2)
}

func TestRun_SaveFailurePropagates(t *testing.T) {
	input := t.TempDir()
	writeInput(t, input, "a.pdf")
	text := &fakeText{texts: map[string]string{"a.pdf": "invoice body text goes here"}}
	o := newOrchestrator(text, &fakeStructured{}, archive.NewArchiver(nil), &fakeSaver{err: errors.New("no space left")})

	_, err := o.Run(context.Background(), input, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save artifacts")
}
