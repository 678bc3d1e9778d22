// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package fields

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrDisabled is returned when field extraction is not configured.
var ErrDisabled = errors.New("field extraction is disabled")

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is sent to the model as an output constraint and used
// locally to validate the response.
func BuildInvoiceJSONSchema() map[string]any {
	lineProps := map[string]any{
		"item":       map[string]any{"type": "string", "minLength": 1},
		"amount":     map[string]any{"type": []any{"number", "null"}},
		"qty":        map[string]any{"type": []any{"number", "null"}},
		"unit_price": map[string]any{"type": []any{"number", "null"}},
		"date":       map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
	}

	props := map[string]any{
		"vendor_name":    map[string]any{"type": "string", "minLength": 1},
		"invoice_number": map[string]any{"type": "string"},
		"period":         map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}$`},
		"total":          map[string]any{"type": "string", "pattern": `^-?\d+(\.\d{1,2})?$`},
		"currency_code":  map[string]any{"type": "string", "minLength": 3, "maxLength": 3},
		"invoice_lines": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           lineProps,
				"required":             []string{"item"},
			},
		},
		"summary":    map[string]any{"type": "string"},
		"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"vendor_name", "total"},
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
