// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// StrategyNameStructured identifies the structured-object PDF parser.
const StrategyNameStructured = "structured"

// maxStructuredPages caps per-document processing to keep very large PDFs
// from dominating the strategy budget.
const maxStructuredPages = 50

// StructuredStrategy extracts text through ledongthuc/pdf's object model,
// reconstructing reading order and word spacing from glyph positions. This
// is the highest-fidelity strategy and runs first.
type StructuredStrategy struct{}

// NewStructuredStrategy creates the structured PDF parsing strategy.
func NewStructuredStrategy() *StructuredStrategy {
	return &StructuredStrategy{}
}

// Name implements Strategy.
func (s *StructuredStrategy) Name() string { return StrategyNameStructured }

// Extract implements Strategy.
func (s *StructuredStrategy) Extract(ctx context.Context, data []byte) (text string, err error) {
	// The parser panics on some malformed PDFs; a panic is just a failed
	// strategy attempt, not a pipeline failure.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("structured parse panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	pageCount := reader.NumPage()
	if pageCount > maxStructuredPages {
		pageCount = maxStructuredPages
	}

	var buf bytes.Buffer
	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}

		pageText, err := extractPageWithSpacing(p)
		if err != nil || strings.TrimSpace(pageText) == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(pageText)
	}

	return cleanExtractedText(buf.String()), nil
}

// extractPageWithSpacing extracts one page using row-based positioning for
// better spacing, falling back to plain text extraction.
func extractPageWithSpacing(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	sortedRows := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sortedRows = append(sortedRows, row)
		}
	}

	// Top-to-bottom reading order by average Y coordinate.
	sort.Slice(sortedRows, func(i, j int) bool {
		return averageY(sortedRows[i].Content) < averageY(sortedRows[j].Content)
	})

	var buf bytes.Buffer
	for _, row := range sortedRows {
		rowText := reconstructRowText(row.Content)
		if strings.TrimSpace(rowText) != "" {
			buf.WriteString(rowText)
			buf.WriteString("\n")
		}
	}
	return buf.String(), nil
}

func averageY(elements []pdf.Text) float64 {
	if len(elements) == 0 {
		return 0
	}
	var total float64
	for _, el := range elements {
		total += el.Y
	}
	return total / float64(len(elements))
}

// reconstructRowText joins a row's glyph runs left-to-right, inserting a
// space wherever the horizontal gap between runs exceeds 20% of the font
// size.
func reconstructRowText(elements []pdf.Text) string {
	if len(elements) == 0 {
		return ""
	}

	sorted := make([]pdf.Text, len(elements))
	copy(sorted, elements)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var buf bytes.Buffer
	for i, el := range sorted {
		buf.WriteString(el.S)

		if i < len(sorted)-1 {
			gap := sorted[i+1].X - (el.X + el.W)

			fontSize := el.FontSize
			if fontSize <= 0 {
				fontSize = 12
			}
			if gap > fontSize*0.2 {
				buf.WriteString(" ")
			}
		}
	}
	return buf.String()
}

// cleanExtractedText drops empty lines and collapses intra-line whitespace
// while preserving line structure for the hint extractor.
func cleanExtractedText(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
