// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ingest orchestrates one invoice ingestion: extraction, duplicate
// detection, hint extraction, vendor resolution, structured field
// extraction, and persistence.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"invoice-ingest/internal/extract"
	"invoice-ingest/internal/fields"
	"invoice-ingest/internal/fingerprint"
	"invoice-ingest/internal/hints"
	"invoice-ingest/internal/invoice"
	"invoice-ingest/internal/match"
	"invoice-ingest/internal/observability"
	"invoice-ingest/internal/vendor"
)

// Status classifies the ingestion outcome.
type Status string

const (
	// StatusCreated: a new invoice record was persisted.
	StatusCreated Status = "created"
	// StatusDuplicate: the document's fingerprint matched an existing
	// invoice; nothing was persisted.
	StatusDuplicate Status = "duplicate"
	// StatusLikelyDuplicate: invoice number and billing period matched an
	// existing invoice despite differing digests; nothing was persisted.
	StatusLikelyDuplicate Status = "likely_duplicate"
)

// Outcome is the result of one ingestion.
type Outcome struct {
	Status     Status           `json:"status"`
	Invoice    invoice.Invoice  `json:"invoice,omitempty"`
	Existing   *invoice.Invoice `json:"existing,omitempty"`
	Hints      hints.Hints      `json:"hints,omitempty"`
	Resolution match.Resolution `json:"resolution,omitempty"`
	Strategy   string           `json:"strategy,omitempty"`
	Message    string           `json:"message,omitempty"`
}

// TextExtractor is the extraction chain contract the pipeline depends on.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (extract.Result, error)
}

// Scorer resolves hints against the known vendor set.
type Scorer interface {
	Resolve(h hints.Hints, text string, vendors []vendor.Vendor) match.Resolution
}

// Pipeline wires the ingestion stages together.
type Pipeline struct {
	chain    TextExtractor
	resolver Scorer
	vendors  *vendor.Store
	invoices *invoice.Store
	fields   fields.Extractor
	observer *observability.StandardObserver

	// extractHints is swappable for call-count instrumentation in tests.
	extractHints func(string) hints.Hints
}

// New creates a pipeline. A nil fields extractor disables field extraction.
func New(chain TextExtractor, resolver Scorer, vendors *vendor.Store, invoices *invoice.Store, fieldExtractor fields.Extractor) *Pipeline {
	if fieldExtractor == nil {
		fieldExtractor = fields.Disabled{}
	}
	return &Pipeline{
		chain:        chain,
		resolver:     resolver,
		vendors:      vendors,
		invoices:     invoices,
		fields:       fieldExtractor,
		extractHints: hints.Extract,
	}
}

// SetObserver sets the observability component.
func (p *Pipeline) SetObserver(observer *observability.StandardObserver) {
	p.observer = observer
}

// Ingest processes one document. Extraction failures surface as typed
// *extract.Error values; duplicates are reported through the outcome status,
// never as errors.
func (p *Pipeline) Ingest(ctx context.Context, data []byte, filename string) (Outcome, error) {
	var finish func(bool, map[string]any)
	if p.observer != nil {
		finish = p.observer.StartTiming("ingest", "process", filename)
	}

	result, err := p.chain.Extract(ctx, data)
	if err != nil {
		if finish != nil {
			finish(false, map[string]any{"failure": string(extract.CodeOf(err))})
		}
		return Outcome{}, err
	}

	fp := fingerprint.Compute(data, result.Text)

	// Exact duplicate short-circuits before any hint extraction or scoring.
	if existing, ok := p.invoices.FindByFingerprint(fp); ok {
		if finish != nil {
			finish(true, map[string]any{"status": string(StatusDuplicate), "existing_id": existing.ID})
		}
		return Outcome{
			Status:   StatusDuplicate,
			Existing: &existing,
			Strategy: result.Strategy,
			Message:  fmt.Sprintf("document already ingested as invoice %s", existing.ID),
		}, nil
	}

	h := p.extractHints(result.Text)
	resolution := p.resolver.Resolve(h, result.Text, p.vendors.List())

	number := h.InvoiceNumber
	period := invoice.InferPeriodFromText(result.Text)

	// Near-duplicate check runs before field extraction so a likely repeat
	// never incurs a model call.
	if existing, ok := p.invoices.FindLikelyDuplicate(number, period); ok {
		if finish != nil {
			finish(true, map[string]any{"status": string(StatusLikelyDuplicate), "existing_id": existing.ID})
		}
		return Outcome{
			Status:     StatusLikelyDuplicate,
			Existing:   &existing,
			Hints:      h,
			Resolution: resolution,
			Strategy:   result.Strategy,
			Message:    fmt.Sprintf("likely duplicate of invoice %s (number %s, period %s)", existing.ID, number, period),
		}, nil
	}

	inv := invoice.Invoice{
		FileName:    filename,
		Number:      number,
		Period:      period,
		Fingerprint: fp,
		Strategy:    result.Strategy,
	}
	if resolution.AutoMatch != nil {
		inv.VendorID = resolution.AutoMatch.VendorID
		if v, ok := p.vendors.Get(resolution.AutoMatch.VendorID); ok {
			inv.VendorName = v.PrimaryName
		}
	}

	p.runFieldExtraction(ctx, &inv, result.Text, filename)

	created, err := p.invoices.Create(inv)
	if err != nil {
		if finish != nil {
			finish(false, map[string]any{"error": "persist"})
		}
		return Outcome{}, fmt.Errorf("error persisting invoice: %w", err)
	}

	if finish != nil {
		finish(true, map[string]any{
			"status":     string(StatusCreated),
			"invoice_id": created.ID,
			"strategy":   result.Strategy,
			"candidates": len(resolution.Candidates),
			"auto_match": resolution.AutoMatch != nil,
		})
	}
	return Outcome{
		Status:     StatusCreated,
		Invoice:    created,
		Hints:      h,
		Resolution: resolution,
		Strategy:   result.Strategy,
	}, nil
}

// runFieldExtraction populates inv.Fields when an extractor is configured.
// Extraction failures are logged and absorbed: structured fields are an
// enrichment, not a requirement.
func (p *Pipeline) runFieldExtraction(ctx context.Context, inv *invoice.Invoice, text, filename string) {
	req := fields.Request{Text: text, FilenameHint: filename, VendorHint: inv.VendorName}
	out, _, err := p.fields.ExtractFields(ctx, req)
	if err != nil {
		if !errors.Is(err, fields.ErrDisabled) {
			p.observer.LogOperation(observability.OperationRecord{
				Component: "ingest",
				Operation: "field_extraction",
				Document:  filename,
				Success:   false,
				Error:     err.Error(),
			})
		}
		return
	}

	inv.Fields = &out
	if inv.Number == "" {
		inv.Number = out.InvoiceNumber
	}
	if out.Period != "" {
		inv.Period = out.Period
	}
}

// ConfirmMatch records a human-confirmed vendor assignment, learning the
// extracted name as a vendor alias. This is the only vendor mutation the
// pipeline triggers.
func (p *Pipeline) ConfirmMatch(vendorID, extractedName string) error {
	if _, ok := p.vendors.Get(vendorID); !ok {
		return fmt.Errorf("vendor %s not found", vendorID)
	}
	if extractedName == "" {
		return nil
	}
	return p.vendors.LearnAlias(vendorID, extractedName)
}
