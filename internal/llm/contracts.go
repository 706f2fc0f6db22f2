package llm

import "context"

// Completer is one structured-extraction backend: prompt in, raw model text out.
// Backends are tried in order by the extraction service; unavailability and
// errors are treated identically by the caller.
type Completer interface {
	// Name identifies the backend in logs ("openai", "anthropic").
	Name() string
	// Complete sends the prompt and returns the raw completion text.
	Complete(ctx context.Context, prompt string) (string, error)
}

// InvoicePayload is the fixed schema every backend must produce.
type InvoicePayload struct {
	Header    HeaderPayload `json:"header"`
	LineItems []ItemPayload `json:"line_items"`
}

type HeaderPayload struct {
	InvoiceNumber   *string  `json:"invoice_number"`
	InvoiceDate     *string  `json:"invoice_date"`
	DueDate         *string  `json:"due_date"`
	VendorName      *string  `json:"vendor_name"`
	VendorAddress   *string  `json:"vendor_address"`
	VendorTaxID     *string  `json:"vendor_tax_id"`
	CustomerName    *string  `json:"customer_name"`
	CustomerAddress *string  `json:"customer_address"`
	TotalAmount     *float64 `json:"total_amount"`
	TaxAmount       *float64 `json:"tax_amount"`
	Subtotal        *float64 `json:"subtotal"`
	Currency        *string  `json:"currency"`
}

type ItemPayload struct {
	ItemDescription string   `json:"item_description"`
	Quantity        *float64 `json:"quantity"`
	UnitPrice       *float64 `json:"unit_price"`
	LineTotal       *float64 `json:"line_total"`
	ItemCode        *string  `json:"item_code"`
}
