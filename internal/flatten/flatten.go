package flatten

import (
	"time"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/entity"
)

// Flattener projects one invoice into denormalized records, one per line item.
// Clock is injectable so flattening is deterministic under test.
type Flattener struct {
	now func() time.Time
}

func NewFlattener(clock func() time.Time) *Flattener {
	if clock == nil {
		clock = time.Now
	}
	return &Flattener{now: clock}
}

// Flatten returns max(1, len(invoice.LineItems)) records. All records share
// the header values and a single timestamp captured at call time. An invoice
// with no line items yields one record tagged StatusFailed, unless the invoice
// itself is a placeholder (OCROnly wins).
func (f *Flattener) Flatten(inv *entity.Invoice) []entity.FlatRecord {
	ts := f.now().Format(time.RFC3339)

	if len(inv.LineItems) == 0 {
		rec := f.headerRecord(inv, ts)
		rec.ItemDescription = constants.NoLineItemsFound
		if inv.Status != constants.StatusOCROnly {
			rec.Status = constants.StatusFailed
		}
		return []entity.FlatRecord{rec}
	}

	out := make([]entity.FlatRecord, 0, len(inv.LineItems))
	for _, item := range inv.LineItems {
		rec := f.headerRecord(inv, ts)
		rec.ItemDescription = item.ItemDescription
		rec.Quantity = item.Quantity
		rec.UnitPrice = item.UnitPrice
		rec.LineTotal = item.LineTotal
		rec.ItemCode = item.ItemCode
		out = append(out, rec)
	}
	return out
}

func (f *Flattener) headerRecord(inv *entity.Invoice, ts string) entity.FlatRecord {
	h := inv.Header
	return entity.FlatRecord{
		InvoiceNumber:       h.InvoiceNumber,
		InvoiceDate:         h.InvoiceDate,
		DueDate:             h.DueDate,
		VendorName:          h.VendorName,
		VendorAddress:       h.VendorAddress,
		VendorTaxID:         h.VendorTaxID,
		CustomerName:        h.CustomerName,
		CustomerAddress:     h.CustomerAddress,
		TotalAmount:         h.TotalAmount,
		TaxAmount:           h.TaxAmount,
		Subtotal:            h.Subtotal,
		Currency:            h.Currency,
		FilePath:            inv.FilePath,
		ProcessingTimestamp: ts,
		Status:              inv.Status,
	}
}
