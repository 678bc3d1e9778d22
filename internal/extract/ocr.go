// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
)

// StrategyNameOCR identifies the OCR fallback strategy.
const StrategyNameOCR = "ocr"

// OCRStrategy rasterizes the first pages of the document and runs them
// through Tesseract. It is the most expensive strategy in the chain and is
// only attempted when every text-based strategy came up empty.
type OCRStrategy struct {
	maxPages int
}

// NewOCRStrategy creates an OCR strategy that recognizes at most maxPages
// pages per document.
func NewOCRStrategy(maxPages int) *OCRStrategy {
	if maxPages <= 0 {
		maxPages = DefaultOCRMaxPages
	}
	return &OCRStrategy{maxPages: maxPages}
}

// Name implements Strategy.
func (s *OCRStrategy) Name() string { return StrategyNameOCR }

// Extract implements Strategy.
func (s *OCRStrategy) Extract(ctx context.Context, data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("open document for rendering: %w", err)
	}
	defer doc.Close()

	client := gosseract.NewClient()
	defer client.Close()

	pages := doc.NumPage()
	if pages > s.maxPages {
		pages = s.maxPages
	}

	var parts []string
	for n := 0; n < pages; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		img, err := doc.Image(n)
		if err != nil {
			continue
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			continue
		}

		if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
			continue
		}
		text, err := client.Text()
		if err != nil {
			continue
		}
		if t := strings.TrimSpace(text); t != "" {
			parts = append(parts, t)
		}
	}

	return strings.Join(parts, "\n"), nil
}
