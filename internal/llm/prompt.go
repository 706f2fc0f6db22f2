package llm

import "fmt"

// PromptVersion tags the extraction prompt so backend output can be tied to
// the contract it was produced under.
const PromptVersion = "v1"

// SystemPrompt is the fixed system message shared by all backends.
const SystemPrompt = "You are an expert at extracting structured data from invoices. Return only valid JSON."

const promptTemplate = `Extract structured invoice information from the following text. Return a JSON object with this exact structure:

{
    "header": {
        "invoice_number": "string or null",
        "invoice_date": "YYYY-MM-DD format or null",
        "due_date": "YYYY-MM-DD format or null",
        "vendor_name": "string or null",
        "vendor_address": "string or null",
        "vendor_tax_id": "string or null",
        "customer_name": "string or null",
        "customer_address": "string or null",
        "total_amount": "decimal number or null",
        "tax_amount": "decimal number or null",
        "subtotal": "decimal number or null",
        "currency": "string (USD, EUR, etc.) or null"
    },
    "line_items": [
        {
            "item_description": "string",
            "quantity": "decimal number or null",
            "unit_price": "decimal number or null",
            "line_total": "decimal number or null",
            "item_code": "string or null"
        }
    ]
}

Rules:
- Extract all line items with their descriptions, quantities, prices, and totals
- Be precise with numerical values (remove currency symbols, keep only numbers and decimals)
- Convert dates to YYYY-MM-DD format
- If information is not found, use null
- Return only valid JSON, no additional text

Invoice text:
%s`

// BuildExtractionPrompt renders the versioned prompt for one document's text.
// Every backend in the chain receives the identical prompt.
func BuildExtractionPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}
