// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"context"
	"regexp"
	"strings"
)

// StrategyNameRawScan identifies the raw byte-pattern scan.
const StrategyNameRawScan = "raw-scan"

// Caps keep the scan bounded on pathological inputs.
const (
	rawScanMaxASCIIRuns    = 40
	rawScanMaxStreamBlocks = 10
	rawScanMaxTextObjects  = 50
)

var (
	asciiRunPattern   = regexp.MustCompile(`[A-Za-z0-9\s,.\-$#@%&*()_+=:;!?/]{10,}`)
	streamPattern     = regexp.MustCompile(`(?s)stream(.*?)endstream`)
	textObjectPattern = regexp.MustCompile(`(?s)BT(.*?)ET`)
	hasLetterPattern  = regexp.MustCompile(`[A-Za-z]`)
)

// RawScanStrategy is the last-resort non-OCR strategy: it treats the
// document as a flat byte sequence and harvests readable ASCII runs from
// the raw bytes, stream objects, and BT..ET text objects. Output quality is
// poor but frequently sufficient for hint extraction when real parsers fail.
type RawScanStrategy struct{}

// NewRawScanStrategy creates the raw byte-pattern scan strategy.
func NewRawScanStrategy() *RawScanStrategy {
	return &RawScanStrategy{}
}

// Name implements Strategy.
func (s *RawScanStrategy) Name() string { return StrategyNameRawScan }

// Extract implements Strategy.
func (s *RawScanStrategy) Extract(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	raw := string(data)
	var found []string

	// Readable runs anywhere in the file.
	for i, m := range asciiRunPattern.FindAllString(raw, rawScanMaxASCIIRuns) {
		if i >= rawScanMaxASCIIRuns {
			break
		}
		if t := strings.TrimSpace(m); len(t) > 5 && hasLetterPattern.MatchString(t) {
			found = append(found, t)
		}
	}

	// Runs inside stream objects.
	for _, m := range streamPattern.FindAllStringSubmatch(raw, rawScanMaxStreamBlocks) {
		for i, inner := range asciiRunPattern.FindAllString(m[1], 5) {
			if i >= 5 {
				break
			}
			if t := strings.TrimSpace(inner); len(t) > 3 && hasLetterPattern.MatchString(t) {
				found = append(found, t)
			}
		}
	}

	// Runs inside BT..ET text objects.
	for _, m := range textObjectPattern.FindAllStringSubmatch(raw, rawScanMaxTextObjects) {
		for i, inner := range asciiRunPattern.FindAllString(m[1], 10) {
			if i >= 10 {
				break
			}
			if t := strings.TrimSpace(inner); len(t) > 2 && hasLetterPattern.MatchString(t) {
				found = append(found, t)
			}
		}
	}

	// De-duplicate, preserve discovery order, flatten whitespace.
	seen := make(map[string]bool, len(found))
	var parts []string
	for _, f := range found {
		if !seen[f] {
			seen[f] = true
			parts = append(parts, f)
		}
	}

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " "), nil
}
