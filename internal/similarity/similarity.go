// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package similarity implements the pure scoring functions used by vendor
// resolution: token-set (Jaccard) similarity, normalized edit-distance
// similarity, combined entity-name similarity, registrable-domain extraction,
// and weighted address similarity.
package similarity

import (
	"regexp"
	"strings"

	"github.com/agext/levenshtein"

	"invoice-ingest/internal/normalize"
)

// Address is a structured postal address used for similarity comparison.
// All fields are optional; absent fields are excluded from scoring.
type Address struct {
	Street string `json:"street,omitempty" yaml:"street,omitempty"`
	City   string `json:"city,omitempty" yaml:"city,omitempty"`
	State  string `json:"state,omitempty" yaml:"state,omitempty"`
	Zip    string `json:"zip,omitempty" yaml:"zip,omitempty"`
}

// Empty reports whether no comparable field is set.
func (a Address) Empty() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.Zip == ""
}

// Address similarity field weights. City and ZIP are exact-match signals and
// carry most of the weight; street names go through fuzzy name similarity.
const (
	addressCityWeight   = 0.4
	addressZipWeight    = 0.4
	addressStreetWeight = 0.2
)

// Jaccard returns the Jaccard coefficient of the whitespace-split token sets
// of the two strings, in [0,1]. Tolerates word reordering.
func Jaccard(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// Levenshtein returns 1 minus the normalized edit distance between the two
// strings, in [0,1]. Tolerates minor spelling and typo variance.
func Levenshtein(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.Distance(a, b, nil)
	return 1 - float64(dist)/float64(maxLen)
}

// Name returns the similarity of two entity names in [0,1]. Both names are
// normalized first (see normalize.EntityName); exact normalized equality
// short-circuits to 1.0. Otherwise the result is the maximum of Jaccard and
// Levenshtein similarity: Jaccard tolerates reordered words, Levenshtein
// tolerates typos, and taking the max avoids penalizing either failure mode.
func Name(a, b string) float64 {
	na := normalize.EntityName(a)
	nb := normalize.EntityName(b)

	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	j := Jaccard(na, nb)
	l := Levenshtein(na, nb)
	if j > l {
		return j
	}
	return l
}

var (
	emailPattern      = regexp.MustCompile(`(?i)(?:mailto:)?[^@\s]+@([^@\s]+\.[^@\s]+)`)
	bareDomainPattern = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?([a-z0-9][a-z0-9-]*(?:\.[a-z0-9][a-z0-9-]*)+)`)
)

// twoPartTLDs are second-level labels that form part of the public suffix
// (e.g. "co" in "example.co.uk"); for these we keep three trailing labels.
var twoPartTLDs = map[string]bool{
	"co": true, "com": true, "net": true, "org": true,
	"gov": true, "edu": true, "ac": true,
}

// DomainFromEmailOrURL extracts a best-effort registrable domain from an
// email address or URL-like string, lowercased with any "www." prefix
// removed. Returns "" for unparseable input.
func DomainFromEmailOrURL(value string) string {
	if value == "" {
		return ""
	}

	var host string
	if m := emailPattern.FindStringSubmatch(value); m != nil {
		host = m[1]
	} else if m := bareDomainPattern.FindStringSubmatch(value); m != nil {
		host = m[1]
	}
	if host == "" {
		return ""
	}

	host = strings.ToLower(strings.TrimSuffix(host, "."))
	host = strings.TrimPrefix(host, "www.")

	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return ""
	}

	// "example.co.uk" keeps three labels; "billing.acmewaste.com" keeps two.
	tld := parts[len(parts)-1]
	sld := parts[len(parts)-2]
	if len(parts) >= 3 && twoPartTLDs[sld] && len(tld) == 2 {
		return strings.Join(parts[len(parts)-3:], ".")
	}
	return strings.Join(parts[len(parts)-2:], ".")
}

// AddressSimilarity returns a weighted similarity of two addresses in [0,1]:
// city exact match (0.4), ZIP exact match (0.4), and street-name fuzzy match
// (0.2), normalized by the weight of fields actually present in both
// addresses. Returns 0 if either address is empty or no field is comparable.
func AddressSimilarity(a, b Address) float64 {
	if a.Empty() || b.Empty() {
		return 0
	}

	var score, total float64

	if a.City != "" && b.City != "" {
		total += addressCityWeight
		if strings.EqualFold(strings.TrimSpace(a.City), strings.TrimSpace(b.City)) {
			score += addressCityWeight
		}
	}
	if a.Zip != "" && b.Zip != "" {
		total += addressZipWeight
		if zip5(a.Zip) == zip5(b.Zip) {
			score += addressZipWeight
		}
	}
	if a.Street != "" && b.Street != "" {
		total += addressStreetWeight
		score += Name(a.Street, b.Street) * addressStreetWeight
	}

	if total == 0 {
		return 0
	}
	return score / total
}

// zip5 reduces a ZIP+4 code to its 5-digit base for comparison.
func zip5(zip string) string {
	zip = strings.TrimSpace(zip)
	if i := strings.IndexByte(zip, '-'); i > 0 {
		return zip[:i]
	}
	return zip
}

// tokenSet builds a set of lowercased whitespace-split tokens.
func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = true
	}
	return set
}
