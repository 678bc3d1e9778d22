// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package fields extracts structured invoice fields from raw invoice text
// using a chat-completions style model endpoint, with local JSON-Schema
// validation of the response.
package fields

import "context"

// Line is a single invoice line item.
type Line struct {
	Item      string   `json:"item"`
	Amount    *float64 `json:"amount,omitempty"`
	Qty       *float64 `json:"qty,omitempty"`
	UnitPrice *float64 `json:"unit_price,omitempty"`
	Date      string   `json:"date,omitempty"` // YYYY-MM-DD
}

// InvoiceFields is the normalized shape we want back from the model.
type InvoiceFields struct {
	VendorName      string  `json:"vendor_name"`
	InvoiceNumber   string  `json:"invoice_number,omitempty"`
	Period          string  `json:"period,omitempty"` // YYYY-MM
	Total           string  `json:"total"`            // decimal
	CurrencyCode    string  `json:"currency_code,omitempty"`
	Lines           []Line  `json:"invoice_lines,omitempty"`
	Summary         string  `json:"summary,omitempty"`
	ModelConfidence float32 `json:"confidence,omitempty"` // 0..1
}

// Request carries the extraction inputs.
type Request struct {
	Text         string
	FilenameHint string
	VendorHint   string
}

// Extractor is the interface the ingestion pipeline depends on.
type Extractor interface {
	ExtractFields(ctx context.Context, req Request) (InvoiceFields, []byte /*rawJSON*/, error)
}

// Disabled is the extractor used when field extraction is turned off.
type Disabled struct{}

// ExtractFields implements Extractor. It reports that extraction is off.
func (Disabled) ExtractFields(ctx context.Context, req Request) (InvoiceFields, []byte, error) {
	return InvoiceFields{}, nil, ErrDisabled
}
