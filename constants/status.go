package constants

// ExtractionStatus is the per-invoice outcome, assigned at creation time.
type ExtractionStatus string

// Stable values (these exact strings appear in the CSV output).
const (
	StatusExtracted ExtractionStatus = "AI_EXTRACTED" // structured backend produced the record
	StatusOCROnly   ExtractionStatus = "OCR_ONLY"     // all backends failed; placeholder record
	StatusFailed    ExtractionStatus = "FAILED"       // structured record had no line items
)

// Sentinel strings written into records for human review. Classification reads
// ExtractionStatus, never these values: real invoice data could collide with them.
const (
	OCROnlyVendorName    = "Unknown (OCR only)"
	NoLineItemsFound     = "No line items found"
	OCRTextItemPrefix    = "OCR Text (AI extraction failed): "
	OCRTextPreviewLength = 500
)
