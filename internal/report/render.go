package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/entity"
)

// inputPrefix is stripped from display paths when present, so the table shows
// paths relative to the conventional input root.
const inputPrefix = "data/input/"

const maxCellWidth = 30

var tableHeaders = []string{
	"File", "Invoice Number", "Date", "Vendor", "Customer",
	"Total Amount", "Line Items", "Products", "Processing Status", "Extraction Quality",
}

func displayPath(path string) string {
	if i := strings.Index(path, inputPrefix); i >= 0 {
		return path[i+len(inputPrefix):]
	}
	// basename fallback keeps the table readable for out-of-tree paths
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

func orNA(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "N/A"
	}
	return *s
}

func formatAmount(currency string, amount *float64) string {
	if amount == nil || *amount == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%s %.2f", currency, *amount)
}

// productPreview joins up to two distinct real product descriptions,
// appending "..." when more exist. Sentinel descriptions never appear.
func productPreview(records []entity.FlatRecord) string {
	seen := map[string]struct{}{}
	var products []string
	for _, r := range records {
		d := r.ItemDescription
		if d == "" || d == constants.NoLineItemsFound || strings.HasPrefix(d, constants.OCRTextItemPrefix) {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		products = append(products, d)
	}
	if len(products) == 0 {
		return "N/A"
	}
	preview := products
	if len(products) > 2 {
		preview = products[:2]
	}
	out := strings.Join(preview, "; ")
	if len(products) > 2 {
		out += "..."
	}
	return out
}

// renderTable lays the summary rows out in fixed-width columns. Widths are
// derived from the content so the output is stable for identical inputs.
func renderTable(rows []SummaryRow) []string {
	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, tableHeaders)
	for _, r := range rows {
		cells = append(cells, []string{
			clip(r.File), clip(r.InvoiceNumber), clip(r.Date), clip(r.Vendor), clip(r.Customer),
			clip(r.TotalAmount), fmt.Sprintf("%d", r.LineItems), clip(r.Products),
			clip(r.ProcessingStatus), clip(r.ExtractionQuality),
		})
	}

	widths := make([]int, len(tableHeaders))
	for _, row := range cells {
		for i, c := range row {
			if len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}

	lines := make([]string, 0, len(cells))
	for _, row := range cells {
		parts := make([]string, len(row))
		for i, c := range row {
			parts[i] = fmt.Sprintf("%-*s", widths[i], c)
		}
		lines = append(lines, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
	return lines
}

func clip(s string) string {
	if len(s) <= maxCellWidth {
		return s
	}
	return s[:maxCellWidth-3] + "..."
}

type keyCount struct {
	key string
	n   int
}

// countBy tallies rows by key, ordered by descending count then key for
// deterministic output.
func countBy(rows []SummaryRow, key func(SummaryRow) string) []keyCount {
	counts := map[string]int{}
	for _, r := range rows {
		counts[key(r)]++
	}
	out := make([]keyCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, keyCount{key: k, n: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].n != out[j].n {
			return out[i].n > out[j].n
		}
		return out[i].key < out[j].key
	})
	return out
}
