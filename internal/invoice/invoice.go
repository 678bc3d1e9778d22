// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package invoice holds ingested invoice records and the JSON-file store
// used for fingerprint lookups and near-duplicate detection.
package invoice

import (
	"time"

	"invoice-ingest/internal/fields"
	"invoice-ingest/internal/fingerprint"
)

// Invoice is a persisted ingestion record.
type Invoice struct {
	ID          string                  `json:"id"`
	VendorID    string                  `json:"vendor_id,omitempty"`
	VendorName  string                  `json:"vendor_name,omitempty"`
	FileName    string                  `json:"file_name,omitempty"`
	Number      string                  `json:"number,omitempty"`
	Period      string                  `json:"period,omitempty"` // YYYY-MM
	CreatedAt   time.Time               `json:"created_at"`
	DeletedAt   *time.Time              `json:"deleted_at,omitempty"`
	Fingerprint fingerprint.Fingerprint `json:"fingerprint"`
	Strategy    string                  `json:"strategy,omitempty"`
	Fields      *fields.InvoiceFields   `json:"fields,omitempty"`
}

// Deleted reports whether the record has been soft-deleted.
func (inv *Invoice) Deleted() bool {
	return inv.DeletedAt != nil
}
