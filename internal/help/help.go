// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package help renders the CLI help text.
package help

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
)

// System manages help content for the application
type System struct {
	colors map[string]*color.Color
}

// NewSystem creates a new help system
func NewSystem(noColor bool) *System {
	if noColor {
		color.NoColor = true
	}

	return &System{
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"subtitle": color.New(color.FgCyan, color.Bold),
			"item":     color.New(color.FgCyan),
			"example":  color.New(color.FgMagenta),
		},
	}
}

// ShowGeneralHelp displays general help information
func (h *System) ShowGeneralHelp() {
	h.colors["title"].Println("Invoice Ingest - PDF Invoice Ingestion and Vendor Matching")
	fmt.Println()
	fmt.Println("Extracts text from PDF invoices through a fallback strategy chain,")
	fmt.Println("fingerprints the document for duplicate detection, and resolves the")
	fmt.Println("issuing vendor against the known vendor set.")
	fmt.Println()

	h.colors["subtitle"].Println("Usage:")
	fmt.Println("  invoice-ingest -file <invoice.pdf> [options]")
	fmt.Println()

	h.colors["subtitle"].Println("Extraction strategies (tried in order):")
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  structured\tPDF text objects with positional reassembly")
	fmt.Fprintln(w, "  content-stream\tliteral strings recovered from content streams")
	fmt.Fprintln(w, "  raw-scan\treadable byte runs from the raw file")
	fmt.Fprintln(w, "  ocr\tpage rasterization plus recognition (requires -enable-ocr)")
	w.Flush()
	fmt.Println()

	h.colors["subtitle"].Println("Options:")
	w = tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  -file <path>\tinput PDF file")
	fmt.Fprintln(w, "  -config <path>\tYAML configuration file")
	fmt.Fprintln(w, "  -format <fmt>\toutput format: text or json")
	fmt.Fprintln(w, "  -enable-ocr\tenable the OCR fallback for image-based PDFs")
	fmt.Fprintln(w, "  -enable-fields\tenable model-backed structured field extraction")
	fmt.Fprintln(w, "  -list-vendors\tlist known vendors and exit")
	fmt.Fprintln(w, "  -confirm <id> -name <n>\tlearn an extracted name as a vendor alias")
	fmt.Fprintln(w, "  -verbose\tshow hint extraction details")
	fmt.Fprintln(w, "  -debug\temit JSON operation records to stderr")
	fmt.Fprintln(w, "  -no-color\tdisable colored output")
	fmt.Fprintln(w, "  -version\tshow version information")
	w.Flush()
	fmt.Println()

	h.colors["subtitle"].Println("Examples:")
	h.colors["example"].Println("  invoice-ingest -file march.pdf")
	h.colors["example"].Println("  invoice-ingest -file scan.pdf -enable-ocr -format json")
	h.colors["example"].Println("  invoice-ingest -confirm rumpke -name \"Rumpke of Ohio, Inc.\"")
}
