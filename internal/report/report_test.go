// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-ingest/internal/extract"
	"invoice-ingest/internal/ingest"
	"invoice-ingest/internal/invoice"
	"invoice-ingest/internal/match"
)

func TestTextOutcomeCreated(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, "text", true)

	out := ingest.Outcome{
		Status:   ingest.StatusCreated,
		Strategy: "structured",
		Invoice: invoice.Invoice{
			ID:         "abc-123",
			Number:     "INV-42",
			Period:     "2026-08",
			VendorName: "Rumpke of Kentucky Inc",
		},
		Resolution: match.Resolution{
			AutoMatch: &match.AutoMatch{VendorID: "rumpke", Score: 1.0},
		},
	}
	require.NoError(t, f.Outcome(out))

	s := buf.String()
	assert.Contains(t, s, "Created invoice abc-123")
	assert.Contains(t, s, "INV-42")
	assert.Contains(t, s, "2026-08")
	assert.Contains(t, s, "auto-matched")
}

func TestTextOutcomeSuggestions(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, "text", true)

	out := ingest.Outcome{
		Status:  ingest.StatusCreated,
		Invoice: invoice.Invoice{ID: "abc-123"},
		Resolution: match.Resolution{
			Candidates: []match.Candidate{
				{VendorID: "acme", VendorName: "Acme Waste Services", Score: 0.72, Reasons: []string{"name"}},
			},
		},
	}
	require.NoError(t, f.Outcome(out))

	s := buf.String()
	assert.Contains(t, s, "Vendor suggestions")
	assert.Contains(t, s, "Acme Waste Services")
	assert.Contains(t, s, "0.72")
}

func TestJSONOutcomeRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, "json", true)

	existing := invoice.Invoice{ID: "prior-1"}
	out := ingest.Outcome{
		Status:   ingest.StatusDuplicate,
		Existing: &existing,
		Message:  "document already ingested as invoice prior-1",
	}
	require.NoError(t, f.Outcome(out))

	var decoded ingest.Outcome
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, ingest.StatusDuplicate, decoded.Status)
	require.NotNil(t, decoded.Existing)
	assert.Equal(t, "prior-1", decoded.Existing.ID)
}

func TestFailureRendersNextSteps(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, "text", true)

	f.Failure(extract.NewError(extract.FailureNoText, "nothing extracted", nil))

	s := buf.String()
	assert.Contains(t, s, "Error:")
	assert.Contains(t, s, "Next steps:")
	assert.Contains(t, s, "OCR")
}

func TestFailureJSONIncludesCode(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, "json", true)

	f.Failure(extract.NewError(extract.FailureFileTooLarge, "file size 20.0MB exceeds 15MB limit", nil))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, string(extract.FailureFileTooLarge), decoded["code"])
	assert.NotEmpty(t, decoded["next_steps"])
}
