package entity

import (
	"github.com/joseph-ayodele/invoice-pipeline/constants"
)

// InvoiceHeader is the document-level metadata of an invoice. Every field is
// best-effort: a backend may leave any of them unset.
type InvoiceHeader struct {
	InvoiceNumber   *string  `json:"invoice_number"`
	InvoiceDate     *string  `json:"invoice_date"` // YYYY-MM-DD
	DueDate         *string  `json:"due_date"`     // YYYY-MM-DD
	VendorName      *string  `json:"vendor_name"`
	VendorAddress   *string  `json:"vendor_address"`
	VendorTaxID     *string  `json:"vendor_tax_id"`
	CustomerName    *string  `json:"customer_name"`
	CustomerAddress *string  `json:"customer_address"`
	TotalAmount     *float64 `json:"total_amount"`
	TaxAmount       *float64 `json:"tax_amount"`
	Subtotal        *float64 `json:"subtotal"`
	Currency        string   `json:"currency"` // defaults to "USD"
}

// InvoiceLineItem is one billed item or service.
type InvoiceLineItem struct {
	ItemDescription string   `json:"item_description"`
	Quantity        *float64 `json:"quantity"`
	UnitPrice       *float64 `json:"unit_price"`
	LineTotal       *float64 `json:"line_total"`
	ItemCode        *string  `json:"item_code"`
}

// Invoice is one structured invoice: header plus line items in document order.
// Created once per file during a pipeline pass and never mutated afterwards.
type Invoice struct {
	Header    InvoiceHeader
	LineItems []InvoiceLineItem
	RawText   string
	FilePath  string
	Status    constants.ExtractionStatus
}

// FlatRecord is one line item joined with its parent header. All records from
// the same file carry identical header values; FilePath is the grouping key.
type FlatRecord struct {
	InvoiceNumber   *string
	InvoiceDate     *string
	DueDate         *string
	VendorName      *string
	VendorAddress   *string
	VendorTaxID     *string
	CustomerName    *string
	CustomerAddress *string
	TotalAmount     *float64
	TaxAmount       *float64
	Subtotal        *float64
	Currency        string

	ItemDescription string
	Quantity        *float64
	UnitPrice       *float64
	LineTotal       *float64
	ItemCode        *string

	FilePath            string
	ProcessingTimestamp string
	Status              constants.ExtractionStatus
}

// Str returns a pointer to s, for building headers in tests and placeholders.
func Str(s string) *string { return &s }

// Num returns a pointer to f.
func Num(f float64) *float64 { return &f }
