package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. Used locally to validate backend output before decoding it.
func BuildInvoiceJSONSchema() map[string]any {
	headerProps := map[string]any{
		"invoice_number":   nullableString(),
		"invoice_date":     nullableDate(),
		"due_date":         nullableDate(),
		"vendor_name":      nullableString(),
		"vendor_address":   nullableString(),
		"vendor_tax_id":    nullableString(),
		"customer_name":    nullableString(),
		"customer_address": nullableString(),
		"total_amount":     nullableNumber(),
		"tax_amount":       nullableNumber(),
		"subtotal":         nullableNumber(),
		"currency":         nullableString(),
	}
	itemProps := map[string]any{
		"item_description": map[string]any{"type": "string", "minLength": 1},
		"quantity":         nullableNumber(),
		"unit_price":       nullableNumber(),
		"line_total":       nullableNumber(),
		"item_code":        nullableString(),
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"header", "line_items"},
		"properties": map[string]any{
			"header": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           headerProps,
			},
			"line_items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"item_description"},
					"properties":           itemProps,
				},
			},
		},
	}
}

func nullableString() map[string]any {
	return map[string]any{"type": []string{"string", "null"}}
}

func nullableNumber() map[string]any {
	return map[string]any{"type": []string{"number", "null"}}
}

func nullableDate() map[string]any {
	return map[string]any{
		"type":    []string{"string", "null"},
		"pattern": `^\d{4}-\d{2}-\d{2}$`,
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
