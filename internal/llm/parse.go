package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// StripCodeFences removes a surrounding markdown code fence, which some models
// emit despite being told not to, and trims to the outermost JSON object.
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

var headerMoneyKeys = []string{"total_amount", "tax_amount", "subtotal"}
var itemMoneyKeys = []string{"quantity", "unit_price", "line_total"}

var headerKeys = map[string]struct{}{
	"invoice_number": {}, "invoice_date": {}, "due_date": {},
	"vendor_name": {}, "vendor_address": {}, "vendor_tax_id": {},
	"customer_name": {}, "customer_address": {},
	"total_amount": {}, "tax_amount": {}, "subtotal": {}, "currency": {},
}

var itemKeys = map[string]struct{}{
	"item_description": {}, "quantity": {}, "unit_price": {}, "line_total": {}, "item_code": {},
}

// NormalizeAndSanitizeJSON
// - Removes unknown keys (strict additionalProperties = false friendliness)
// - Drops explicit nulls and empty strings
// - Coerces numeric strings ("42.50", "$42.50") to numbers for money-ish fields
// It never drops a line item: a structurally bad item is left for the schema
// validator to reject, so a bad backend response fails as a whole.
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	var dropped []string

	if h, ok := m["header"].(map[string]any); ok {
		dropped = append(dropped, sanitizeObject(h, headerKeys, headerMoneyKeys, "header.")...)
	}
	if items, ok := m["line_items"].([]any); ok {
		for i := range items {
			if item, ok := items[i].(map[string]any); ok {
				dropped = append(dropped, sanitizeObject(item, itemKeys, itemMoneyKeys, fmt.Sprintf("line_items[%d].", i))...)
			}
		}
	}
	for k := range m {
		if k != "header" && k != "line_items" {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.parse.sanitized", "dropped", dropped)
	}
	return out, dropped, nil
}

func sanitizeObject(m map[string]any, allowed map[string]struct{}, moneyKeys []string, prefix string) []string {
	var dropped []string
	for k := range m {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, prefix+k+"(unknown)")
		}
	}
	for k, v := range m {
		if v == nil {
			delete(m, k)
			dropped = append(dropped, prefix+k+"(null)")
			continue
		}
		if s, ok := v.(string); ok {
			s = strings.TrimSpace(s)
			if s == "" || strings.EqualFold(s, "null") {
				delete(m, k)
				dropped = append(dropped, prefix+k+"(empty)")
				continue
			}
			m[k] = s
		}
	}
	for _, k := range moneyKeys {
		v, ok := m[k]
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			if f, err := strconv.ParseFloat(cleanNumeric(s), 64); err == nil {
				m[k] = f
			} else {
				delete(m, k)
				dropped = append(dropped, prefix+k+"(not numeric)")
			}
		}
	}
	return dropped
}

func cleanNumeric(s string) string {
	s = strings.TrimSpace(s)
	for _, sym := range []string{"$", "€", "£", "¥", "₹", ","} {
		s = strings.ReplaceAll(s, sym, "")
	}
	return strings.TrimSpace(s)
}

// ParseInvoicePayload turns raw backend output into the fixed invoice payload.
// Any failure (non-JSON text, schema violation, decode error) is total for the
// backend call: no partially populated result.
func ParseInvoicePayload(raw string, logger *slog.Logger) (*InvoicePayload, error) {
	cleaned := StripCodeFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty backend output")
	}

	sanitized, _, err := NormalizeAndSanitizeJSON([]byte(cleaned), logger)
	if err != nil {
		return nil, err
	}
	if err := ValidateJSONAgainstSchema(BuildInvoiceJSONSchema(), sanitized); err != nil {
		return nil, err
	}

	var payload InvoicePayload
	if err := json.Unmarshal(sanitized, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return &payload, nil
}
