// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package match resolves extracted invoice hints against the known vendor
// set using a weighted multi-signal score.
package match

import (
	"sort"
	"strings"

	"invoice-ingest/internal/hints"
	"invoice-ingest/internal/similarity"
	"invoice-ingest/internal/vendor"
)

// Default scoring weights and thresholds. The weights bound each signal's
// contribution to the composite score; the thresholds classify the outcome.
const (
	DefaultNameWeight         = 0.6
	DefaultDomainWeight       = 0.4
	DefaultAddressWeight      = 0.2
	DefaultContractHintWeight = 0.1
	DefaultSuggestionFloor    = 0.6
	DefaultAutoMatchThreshold = 0.85
	DefaultMaxCandidates      = 10
)

// Options configures resolver weights and thresholds. A zero weight disables
// that signal; callers wanting the standard configuration start from
// DefaultOptions and override fields.
type Options struct {
	NameWeight         float64
	DomainWeight       float64
	AddressWeight      float64
	ContractHintWeight float64
	SuggestionFloor    float64
	AutoMatchThreshold float64
	MaxCandidates      int
}

// DefaultOptions returns the standard scoring configuration.
func DefaultOptions() Options {
	return Options{
		NameWeight:         DefaultNameWeight,
		DomainWeight:       DefaultDomainWeight,
		AddressWeight:      DefaultAddressWeight,
		ContractHintWeight: DefaultContractHintWeight,
		SuggestionFloor:    DefaultSuggestionFloor,
		AutoMatchThreshold: DefaultAutoMatchThreshold,
		MaxCandidates:      DefaultMaxCandidates,
	}
}

// Breakdown reports each signal's contribution to a candidate's score.
type Breakdown struct {
	NameAlias    float64 `json:"name_alias"`
	Account      float64 `json:"account"`
	Domain       float64 `json:"domain"`
	Address      float64 `json:"address"`
	ContractHint float64 `json:"contract_hint"`
}

// Candidate is one scored vendor.
type Candidate struct {
	VendorID   string    `json:"vendor_id"`
	VendorName string    `json:"vendor_name"`
	Score      float64   `json:"score"`
	Reasons    []string  `json:"reasons"`
	Breakdown  Breakdown `json:"breakdown"`
}

// AutoMatch is the decision attached when the top candidate clears the
// auto-match threshold.
type AutoMatch struct {
	VendorID string  `json:"vendor_id"`
	Score    float64 `json:"score"`
}

// Resolution is the outcome of one resolve pass. An empty candidate list is
// a valid no-match outcome, not an error.
type Resolution struct {
	Candidates []Candidate `json:"candidates"`
	AutoMatch  *AutoMatch  `json:"auto_match,omitempty"`
}

// Resolver scores vendors against extracted hints.
type Resolver struct {
	opts Options
}

// NewResolver creates a resolver. Options are taken as given so an operator
// can zero a weight to disable that signal; only a non-positive candidate cap,
// which would make every resolution empty, falls back to the default.
func NewResolver(opts Options) *Resolver {
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = DefaultMaxCandidates
	}
	return &Resolver{opts: opts}
}

// Resolve scores every known vendor against the hints and the invoice's
// free text. Each call is a single pure pass over the vendor set.
//
// An exact account-number match is treated as ground truth: it short-circuits
// that vendor's score to exactly 1.0 with the single reason "account". Note
// this trusts a possibly stale account number over every fuzzy signal; a
// reused account after a vendor change will still match.
func (r *Resolver) Resolve(h hints.Hints, text string, vendors []vendor.Vendor) Resolution {
	candidates := make([]Candidate, 0, len(vendors))

	for _, v := range vendors {
		c := r.scoreVendor(h, text, v)
		if c.Score >= r.opts.SuggestionFloor {
			candidates = append(candidates, c)
		}
	}

	// Descending by score; ties keep original vendor order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > r.opts.MaxCandidates {
		candidates = candidates[:r.opts.MaxCandidates]
	}

	res := Resolution{Candidates: candidates}
	if len(candidates) > 0 && candidates[0].Score >= r.opts.AutoMatchThreshold {
		res.AutoMatch = &AutoMatch{VendorID: candidates[0].VendorID, Score: candidates[0].Score}
	}
	return res
}

func (r *Resolver) scoreVendor(h hints.Hints, text string, v vendor.Vendor) Candidate {
	c := Candidate{VendorID: v.ID, VendorName: v.PrimaryName}

	for _, account := range h.Accounts {
		if v.HasAccount(account) {
			c.Score = 1.0
			c.Reasons = []string{"account"}
			c.Breakdown.Account = 1.0
			return c
		}
	}

	if name := r.nameContribution(h.Names, &v); name > 0 {
		c.Breakdown.NameAlias = name
		c.Reasons = append(c.Reasons, "name")
	}
	if r.opts.DomainWeight > 0 && h.Domain != "" && v.HasDomain(h.Domain) {
		c.Breakdown.Domain = r.opts.DomainWeight
		c.Reasons = append(c.Reasons, "domain")
	}
	if r.opts.AddressWeight > 0 {
		if sim := addressSimilarity(h, &v); sim > 0 {
			c.Breakdown.Address = sim * r.opts.AddressWeight
			if sim > 0.7 {
				c.Reasons = append(c.Reasons, "address")
			} else if sim > 0.3 {
				c.Reasons = append(c.Reasons, "partial address")
			}
		}
	}
	if contract := r.contractContribution(text, &v); contract > 0 {
		c.Breakdown.ContractHint = contract
		c.Reasons = append(c.Reasons, "contract")
	}

	c.Score = c.Breakdown.NameAlias + c.Breakdown.Domain + c.Breakdown.Address + c.Breakdown.ContractHint
	if c.Score > 1.0 {
		c.Score = 1.0
	}
	return c
}

// nameContribution returns the best name similarity across all hint names
// and all vendor names, scaled by the name weight.
func (r *Resolver) nameContribution(names []string, v *vendor.Vendor) float64 {
	best := 0.0
	for _, hint := range names {
		for _, known := range v.Names() {
			if sim := similarity.Name(hint, known); sim > best {
				best = sim
			}
		}
	}
	return best * r.opts.NameWeight
}

// addressSimilarity returns the best similarity of the vendor's address to
// the extracted address fragments. Cities and ZIPs are surfaced independently
// with no cross-validation, so every pairing is tried and the best one wins.
func addressSimilarity(h hints.Hints, v *vendor.Vendor) float64 {
	if v.Address.Empty() || (len(h.Cities) == 0 && len(h.Zips) == 0) {
		return 0
	}

	cities := h.Cities
	if len(cities) == 0 {
		cities = []string{""}
	}
	zips := h.Zips
	if len(zips) == 0 {
		zips = []string{""}
	}

	best := 0.0
	for _, city := range cities {
		for _, zip := range zips {
			candidate := similarity.Address{City: city, Zip: zip}
			if sim := similarity.AddressSimilarity(candidate, v.Address); sim > best {
				best = sim
			}
		}
	}
	return best
}

// contractContribution returns the matched fraction of the vendor's contract
// terms scaled by the contract hint weight. A term found verbatim counts in
// full; a term with at least half of its meaningful words (longer than three
// characters) present counts as half.
func (r *Resolver) contractContribution(text string, v *vendor.Vendor) float64 {
	if r.opts.ContractHintWeight <= 0 || len(v.ContractTerms) == 0 || text == "" {
		return 0
	}

	lower := strings.ToLower(text)

	matched := 0.0
	terms := 0
	for _, term := range v.ContractTerms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		terms++
		if strings.Contains(lower, term) {
			matched++
			continue
		}
		words := strings.Fields(term)
		present := 0
		for _, w := range words {
			if len(w) > 3 && strings.Contains(lower, w) {
				present++
			}
		}
		if present >= (len(words)+1)/2 {
			matched += 0.5
		}
	}
	if terms == 0 {
		return 0
	}

	return matched / float64(terms) * r.opts.ContractHintWeight
}
