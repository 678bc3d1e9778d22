// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package report renders ingestion outcomes for the CLI in text or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"invoice-ingest/internal/extract"
	"invoice-ingest/internal/ingest"
)

// Formatter renders outcomes to a writer.
type Formatter struct {
	w      io.Writer
	format string
	colors map[string]*color.Color
}

// NewFormatter creates a formatter. format is "text" or "json"; noColor
// disables ANSI sequences globally.
func NewFormatter(w io.Writer, format string, noColor bool) *Formatter {
	if noColor {
		color.NoColor = true
	}
	return &Formatter{
		w:      w,
		format: format,
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"bold":   color.New(color.Bold),
		},
	}
}

// Outcome renders a successful ingestion outcome.
func (f *Formatter) Outcome(out ingest.Outcome) error {
	if f.format == "json" {
		enc := json.NewEncoder(f.w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	switch out.Status {
	case ingest.StatusCreated:
		f.colors["green"].Fprintf(f.w, "Created invoice %s\n", out.Invoice.ID)
		fmt.Fprintf(f.w, "  Strategy: %s\n", out.Strategy)
		if out.Invoice.Number != "" {
			fmt.Fprintf(f.w, "  Number:   %s\n", out.Invoice.Number)
		}
		if out.Invoice.Period != "" {
			fmt.Fprintf(f.w, "  Period:   %s\n", out.Invoice.Period)
		}
		f.renderResolution(out)
	case ingest.StatusDuplicate:
		f.colors["yellow"].Fprintf(f.w, "Duplicate of invoice %s\n", out.Existing.ID)
		fmt.Fprintf(f.w, "  %s\n", out.Message)
	case ingest.StatusLikelyDuplicate:
		f.colors["yellow"].Fprintf(f.w, "Likely duplicate of invoice %s\n", out.Existing.ID)
		fmt.Fprintf(f.w, "  %s\n", out.Message)
	}
	return nil
}

func (f *Formatter) renderResolution(out ingest.Outcome) {
	if out.Resolution.AutoMatch != nil {
		f.colors["green"].Fprintf(f.w, "  Vendor:   %s (auto-matched, score %.2f)\n",
			out.Invoice.VendorName, out.Resolution.AutoMatch.Score)
		return
	}
	if len(out.Resolution.Candidates) == 0 {
		fmt.Fprintf(f.w, "  Vendor:   no match\n")
		return
	}

	f.colors["bold"].Fprintf(f.w, "  Vendor suggestions:\n")
	for _, c := range out.Resolution.Candidates {
		fmt.Fprintf(f.w, "    %-24s %.2f  %v\n", c.VendorName, c.Score, c.Reasons)
	}
}

// Failure renders a typed extraction failure with next-step guidance.
func (f *Formatter) Failure(err error) {
	code := extract.CodeOf(err)

	if f.format == "json" {
		enc := json.NewEncoder(f.w)
		enc.SetIndent("", "  ")
		enc.Encode(map[string]any{
			"error":      err.Error(),
			"code":       string(code),
			"next_steps": extract.NextSteps(code),
		})
		return
	}

	f.colors["red"].Fprintf(f.w, "Error: %v\n", err)
	if code != "" {
		f.colors["cyan"].Fprintf(f.w, "Next steps:\n")
		for _, step := range extract.NextSteps(code) {
			fmt.Fprintf(f.w, "  - %s\n", step)
		}
	}
}
