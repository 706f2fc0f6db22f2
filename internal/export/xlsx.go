package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-pipeline/internal/report"
)

// SummaryTableXLSX renders the per-invoice summary table as an XLSX workbook
// and returns its bytes.
func SummaryTableXLSX(rows []report.SummaryRow) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Invoice Summary"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIdx, _ := f.GetSheetIndex("Sheet1"); defIdx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"File",
		"Invoice Number",
		"Date",
		"Vendor",
		"Customer",
		"Total Amount",
		"Line Items",
		"Products",
		"Processing Status",
		"Extraction Quality",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, r := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.File)
		write(2, r.InvoiceNumber)
		write(3, r.Date)
		write(4, r.Vendor)
		write(5, r.Customer)
		write(6, r.TotalAmount)
		write(7, r.LineItems)
		write(8, r.Products)
		write(9, r.ProcessingStatus)
		write(10, r.ExtractionQuality)
	}

	// Widen the text-heavy columns
	_ = f.SetColWidth(sheet, "A", "A", 36) // file
	_ = f.SetColWidth(sheet, "B", "B", 18) // invoice number
	_ = f.SetColWidth(sheet, "C", "C", 12) // date
	_ = f.SetColWidth(sheet, "D", "E", 24) // vendor/customer
	_ = f.SetColWidth(sheet, "F", "F", 14) // amount
	_ = f.SetColWidth(sheet, "H", "H", 48) // products

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
