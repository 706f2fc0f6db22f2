package report

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/entity"
)

// Stats aggregates per-file extraction outcomes for one batch run.
type Stats struct {
	TotalFiles            int
	SuccessfulExtractions int
	OCROnly               int
	FailedExtractions     int
	SuccessRate           float64 // percent
	TotalLineItems        int
}

// SummaryRow is one line of the per-invoice summary table.
type SummaryRow struct {
	File              string
	InvoiceNumber     string
	Date              string
	Vendor            string
	Customer          string
	TotalAmount       string
	LineItems         int
	Products          string
	ProcessingStatus  string
	ExtractionQuality string
}

// FinancialSummary covers only successfully extracted invoices with a
// non-zero total, one total per file.
type FinancialSummary struct {
	Count      int
	Total      float64
	Average    float64
	Min        float64
	Max        float64
	Currencies []string
	Message    string // set instead of the numeric fields when no data qualifies
}

// HasData reports whether numeric fields are populated.
func (f FinancialSummary) HasData() bool { return f.Message == "" }

// Engine renders statistics, tables, and the plain-text report. The clock is
// injectable so report output is byte-stable under test.
type Engine struct {
	now    func() time.Time
	logger *slog.Logger
}

func NewEngine(clock func() time.Time, logger *slog.Logger) *Engine {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{now: clock, logger: logger}
}

// fileGroup is all records of one source file, in row order.
type fileGroup struct {
	path    string
	records []entity.FlatRecord
}

// groupByFile groups records by source file, preserving first-seen file order.
func groupByFile(records []entity.FlatRecord) []fileGroup {
	index := map[string]int{}
	var groups []fileGroup
	for _, r := range records {
		i, ok := index[r.FilePath]
		if !ok {
			i = len(groups)
			index[r.FilePath] = i
			groups = append(groups, fileGroup{path: r.FilePath})
		}
		groups[i].records = append(groups[i].records, r)
	}
	return groups
}

// classify reads the explicit status off the group's first record. OCR-only
// takes precedence over failed for degenerate inputs.
func classify(g fileGroup) constants.ExtractionStatus {
	first := g.records[0]
	switch {
	case first.Status == constants.StatusOCROnly:
		return constants.StatusOCROnly
	case first.Status == constants.StatusFailed:
		return constants.StatusFailed
	default:
		return constants.StatusExtracted
	}
}

func statusLabel(s constants.ExtractionStatus) (status, quality string) {
	switch s {
	case constants.StatusOCROnly:
		return "OCR Only", "Poor"
	case constants.StatusFailed:
		return "Failed", "None"
	default:
		return "AI Extracted", "Good"
	}
}

// Analyze computes batch-level statistics across all records.
func (e *Engine) Analyze(records []entity.FlatRecord) Stats {
	groups := groupByFile(records)
	stats := Stats{TotalFiles: len(groups), TotalLineItems: len(records)}

	for _, g := range groups {
		switch classify(g) {
		case constants.StatusOCROnly:
			stats.OCROnly++
		case constants.StatusFailed:
			stats.FailedExtractions++
		default:
			stats.SuccessfulExtractions++
		}
	}
	if stats.TotalFiles > 0 {
		stats.SuccessRate = float64(stats.SuccessfulExtractions) / float64(stats.TotalFiles) * 100
	}
	return stats
}

// SummaryTable builds one row per source file.
func (e *Engine) SummaryTable(records []entity.FlatRecord) []SummaryRow {
	var rows []SummaryRow
	for _, g := range groupByFile(records) {
		first := g.records[0]
		status, quality := statusLabel(classify(g))

		rows = append(rows, SummaryRow{
			File:              displayPath(g.path),
			InvoiceNumber:     orNA(first.InvoiceNumber),
			Date:              orNA(first.InvoiceDate),
			Vendor:            orNA(first.VendorName),
			Customer:          orNA(first.CustomerName),
			TotalAmount:       formatAmount(first.Currency, first.TotalAmount),
			LineItems:         len(g.records),
			Products:          productPreview(g.records),
			ProcessingStatus:  status,
			ExtractionQuality: quality,
		})
	}
	return rows
}

// FinancialSummary aggregates totals across successfully extracted invoices.
// One total per file; the first record of a file wins.
func (e *Engine) FinancialSummary(records []entity.FlatRecord) FinancialSummary {
	seen := map[string]struct{}{}
	var totals []float64
	currencies := map[string]struct{}{}

	for _, g := range groupByFile(records) {
		if classify(g) != constants.StatusExtracted {
			continue
		}
		first := g.records[0]
		if first.TotalAmount == nil || *first.TotalAmount == 0 {
			continue
		}
		if _, dup := seen[g.path]; dup {
			continue
		}
		seen[g.path] = struct{}{}
		totals = append(totals, *first.TotalAmount)
		if first.Currency != "" {
			currencies[first.Currency] = struct{}{}
		}
	}

	if len(totals) == 0 {
		return FinancialSummary{Message: "No valid financial data extracted"}
	}

	out := FinancialSummary{Count: len(totals), Min: totals[0], Max: totals[0]}
	for _, t := range totals {
		out.Total += t
		if t < out.Min {
			out.Min = t
		}
		if t > out.Max {
			out.Max = t
		}
	}
	out.Average = out.Total / float64(len(totals))
	for c := range currencies {
		out.Currencies = append(out.Currencies, c)
	}
	sort.Strings(out.Currencies)
	return out
}

// Report renders the fixed-section plain-text report. Byte-stable for
// identical inputs and a fixed clock.
func (e *Engine) Report(records []entity.FlatRecord, stats Stats, sourceLabel string) string {
	table := e.SummaryTable(records)
	financial := e.FinancialSummary(records)

	lines := []string{
		strings.Repeat("=", 80),
		"INVOICE PROCESSING SUMMARY REPORT",
		strings.Repeat("=", 80),
		"Generated: " + e.now().Format("2006-01-02 15:04:05"),
		"CSV Output: " + sourceLabel,
		"",
		"PROCESSING OVERVIEW",
		strings.Repeat("-", 40),
		fmt.Sprintf("Total Files Processed: %d", stats.TotalFiles),
		fmt.Sprintf("Successfully Extracted (AI): %d", stats.SuccessfulExtractions),
		fmt.Sprintf("OCR Fallback Only: %d", stats.OCROnly),
		fmt.Sprintf("Failed Extractions: %d", stats.FailedExtractions),
		fmt.Sprintf("Overall Success Rate: %.1f%%", stats.SuccessRate),
		fmt.Sprintf("Total Line Items: %d", stats.TotalLineItems),
		"",
	}

	if financial.HasData() {
		currenciesStr := "Mixed"
		if len(financial.Currencies) > 0 {
			currenciesStr = strings.Join(financial.Currencies, ", ")
		}
		lines = append(lines,
			"FINANCIAL SUMMARY",
			strings.Repeat("-", 40),
			fmt.Sprintf("Invoices with Valid Amounts: %d", financial.Count),
			fmt.Sprintf("Total Value: %.2f (%s)", financial.Total, currenciesStr),
			fmt.Sprintf("Average Invoice Value: %.2f", financial.Average),
			fmt.Sprintf("Smallest Invoice: %.2f", financial.Min),
			fmt.Sprintf("Largest Invoice: %.2f", financial.Max),
			"",
		)
	}

	if len(table) > 0 {
		lines = append(lines,
			"DETAILED INVOICE SUMMARY",
			strings.Repeat("-", 40),
			"",
		)
		lines = append(lines, renderTable(table)...)
		lines = append(lines, "")
	}

	lines = append(lines,
		"PROCESSING STATUS BREAKDOWN",
		strings.Repeat("-", 40),
		"",
	)
	if len(table) > 0 {
		for _, sc := range countBy(table, func(r SummaryRow) string { return r.ProcessingStatus }) {
			lines = append(lines, fmt.Sprintf("%s: %d files", sc.key, sc.n))
		}
		lines = append(lines, "", "Extraction Quality:")
		for _, qc := range countBy(table, func(r SummaryRow) string { return r.ExtractionQuality }) {
			lines = append(lines, fmt.Sprintf("  %s: %d files", qc.key, qc.n))
		}
	}

	lines = append(lines,
		"",
		strings.Repeat("=", 80),
		"End of Report",
		strings.Repeat("=", 80),
	)
	return strings.Join(lines, "\n")
}
