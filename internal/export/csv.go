package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/joseph-ayodele/invoice-pipeline/internal/entity"
)

// BOM is the UTF-8 byte order mark, written ahead of CSV output for Excel
// compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// recordColumns defines the CSV header row: every FlatRecord field in stable order.
var recordColumns = []string{
	"invoice_number",
	"invoice_date",
	"due_date",
	"vendor_name",
	"vendor_address",
	"vendor_tax_id",
	"customer_name",
	"customer_address",
	"total_amount",
	"tax_amount",
	"subtotal",
	"currency",
	"item_description",
	"quantity",
	"unit_price",
	"line_total",
	"item_code",
	"file_path",
	"processing_timestamp",
	"extraction_status",
}

// CSVWriter wraps csv.Writer for exporting flat invoice records.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes CSV to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the column header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(recordColumns)
}

// WriteRecords converts a batch of flat records to CSV rows and writes them.
func (w *CSVWriter) WriteRecords(records []entity.FlatRecord) error {
	for i := range records {
		if err := w.csv.Write(recordToRow(&records[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from previous writes or the last Flush.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

func recordToRow(r *entity.FlatRecord) []string {
	return []string{
		strOrEmpty(r.InvoiceNumber),
		strOrEmpty(r.InvoiceDate),
		strOrEmpty(r.DueDate),
		strOrEmpty(r.VendorName),
		strOrEmpty(r.VendorAddress),
		strOrEmpty(r.VendorTaxID),
		strOrEmpty(r.CustomerName),
		strOrEmpty(r.CustomerAddress),
		numOrEmpty(r.TotalAmount),
		numOrEmpty(r.TaxAmount),
		numOrEmpty(r.Subtotal),
		r.Currency,
		r.ItemDescription,
		numOrEmpty(r.Quantity),
		numOrEmpty(r.UnitPrice),
		numOrEmpty(r.LineTotal),
		strOrEmpty(r.ItemCode),
		r.FilePath,
		r.ProcessingTimestamp,
		string(r.Status),
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func numOrEmpty(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
