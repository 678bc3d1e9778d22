// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package hints scans extracted invoice text with pattern rules to surface
// weakly-confident candidate vendor names, account numbers, contact domains,
// and address fragments. It proposes candidates only — false positives are
// expected and acceptable because downstream scoring discounts weak signals.
package hints

import (
	"regexp"
	"strings"

	"invoice-ingest/internal/similarity"
)

// Hints holds the per-document candidates surfaced by pattern matching.
// Ephemeral: built fresh per ingestion, never persisted.
type Hints struct {
	// Names are candidate vendor names in first-seen order, de-duplicated.
	Names []string
	// Accounts are candidate account numbers, uppercased, de-duplicated.
	Accounts []string
	// Domain is the first registrable contact domain found, if any.
	Domain string
	// InvoiceNumber is a candidate invoice number used by the
	// near-duplicate check, if one was labeled in the text.
	InvoiceNumber string
	// Address fragments, extracted independently with no cross-validation.
	Cities []string
	States []string
	Zips   []string
}

var (
	// Runs of upper-case words, optionally ending in a business suffix.
	// Whitespace is restricted to spaces/tabs so candidates never span lines.
	upperRunPattern = regexp.MustCompile(`\b([A-Z]{2,}(?:[ \t]+(?:OF[ \t]+)?[A-Z]{2,})*(?:[,.]?[ \t]+(?:INC|LLC|CORP|LTD|CO|COMPANY|CORPORATION|LIMITED))?)\b`)

	// Mixed-case word sequences that end in a recognized business suffix.
	mixedCasePattern = regexp.MustCompile(`\b([A-Z][a-z]+(?:[ \t]+(?:of[ \t]+)?[A-Z][a-z]+)*[,.]?[ \t]+(?:Inc|LLC|Corp|Ltd|Co|Company|Corporation|Limited))\b`)

	// Label-anchored account numbers: account/acct/customer, optional
	// no/number/#, then an alphanumeric token.
	accountPattern = regexp.MustCompile(`(?i)\b(?:ACCT|ACCOUNT|CUSTOMER)\s*(?:NO|NUMBER|#)?\s*[:.\s\-#]+([A-Z0-9][A-Z0-9\-]{1,18}[A-Z0-9])\b`)

	// Labeled invoice numbers, for the near-duplicate heuristic.
	invoiceNumberPattern = regexp.MustCompile(`(?i)\bINVOICE\s*(?:NO|NUMBER|#)?\s*[:.\s#]+([A-Z0-9][A-Z0-9\-]{1,18})\b`)

	emailOrURLPattern = regexp.MustCompile(`(?i)(?:mailto:)?[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}|https?://[^\s]+|www\.[a-z0-9.\-]+\.[a-z]{2,}`)

	zipPattern    = regexp.MustCompile(`\b(\d{5}(?:-\d{4})?)\b`)
	statePattern  = regexp.MustCompile(`\b([A-Z]{2})\b`)
	cityStPattern = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*),?\s+[A-Z]{2}\b`)
)

// Account-number candidates outside this length range are discarded.
const (
	minAccountLen = 3
	maxAccountLen = 20
)

// Extract scans text and returns candidate hints. Name candidates come from
// two independent pattern families (upper-case runs and suffix-anchored
// mixed-case sequences) whose results are unioned in first-seen order.
func Extract(text string) Hints {
	var h Hints

	h.Names = extractNames(text)
	h.Accounts = extractAccounts(text)
	h.Domain = extractDomain(text)
	h.InvoiceNumber = extractInvoiceNumber(text)

	h.Zips = dedupe(allSubmatches(zipPattern, text))
	h.States = dedupe(allSubmatches(statePattern, text))
	for _, city := range allSubmatches(cityStPattern, text) {
		h.Cities = append(h.Cities, strings.TrimSpace(city))
	}
	h.Cities = dedupe(h.Cities)

	return h
}

func extractNames(text string) []string {
	var names []string
	names = append(names, allSubmatches(upperRunPattern, text)...)

	// Periods break the mixed-case pattern at abbreviated suffixes
	// ("Acme Waste, Inc." ends the sentence); scan a period-free copy.
	cleaned := strings.ReplaceAll(text, ".", " ")
	names = append(names, allSubmatches(mixedCasePattern, cleaned)...)

	var trimmed []string
	for _, n := range names {
		n = strings.TrimSpace(strings.Trim(n, ",."))
		if n != "" {
			trimmed = append(trimmed, n)
		}
	}
	return dedupe(trimmed)
}

func extractAccounts(text string) []string {
	var accounts []string
	for _, m := range allSubmatches(accountPattern, text) {
		acct := strings.ToUpper(strings.TrimSpace(m))
		if len(acct) >= minAccountLen && len(acct) <= maxAccountLen {
			accounts = append(accounts, acct)
		}
	}
	return dedupe(accounts)
}

func extractDomain(text string) string {
	for _, m := range emailOrURLPattern.FindAllString(text, -1) {
		if d := similarity.DomainFromEmailOrURL(m); d != "" {
			return d
		}
	}
	return ""
}

func extractInvoiceNumber(text string) string {
	if m := invoiceNumberPattern.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(strings.TrimSpace(m[1]))
	}
	return ""
}

// allSubmatches returns the first capture group of every match.
func allSubmatches(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

// dedupe removes duplicates while preserving first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
