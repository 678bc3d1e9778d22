// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package normalize

import (
	"reflect"
	"testing"
)

func TestEntityName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"lowercase passthrough", "acme waste", "acme waste"},
		{"case folding", "ACME Waste", "acme waste"},
		{"punctuation stripped", "Acme, Waste & Hauling!", "acme waste hauling"},
		{"whitespace collapsed", "Acme   Waste\t Hauling", "acme waste hauling"},
		{"suffix llc", "Acme Waste LLC", "acme waste"},
		{"suffix inc with comma", "Rumpke of Kentucky, Inc.", "rumpke of kentucky"},
		{"suffix corporation", "Waste Management Corporation", "waste management"},
		{"stacked suffixes", "Acme Holdings Co Inc", "acme holdings"},
		{"leading the", "The Acme Company", "acme"},
		{"trailing the", "Acme The", "acme"},
		{"suffix only is preserved", "Inc", "inc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EntityName(tt.input); got != tt.expected {
				t.Errorf("EntityName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEntityName_EquivalentForms(t *testing.T) {
	pairs := [][2]string{
		{"RUMPKE OF KENTUCKY, INC", "Rumpke of Kentucky Inc"},
		{"Acme Waste Services, LLC", "ACME WASTE SERVICES"},
		{"The Waste Group", "Waste Group"},
	}
	for _, p := range pairs {
		if EntityName(p[0]) != EntityName(p[1]) {
			t.Errorf("expected %q and %q to normalize identically, got %q vs %q",
				p[0], p[1], EntityName(p[0]), EntityName(p[1]))
		}
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("Acme-Waste, Inc. #42")
	want := []string{"acme", "waste", "inc", "42"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens = %v, want %v", got, want)
	}
}

func TestForHash(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Invoice #123\n  Total: $45.00", "INVOICE 123 TOTAL 45.00"},
		{"acct no. WM-2489", "ACCT NO. WM-2489"},
		{"  a   b  ", "A B"},
	}
	for _, tt := range tests {
		if got := ForHash(tt.input); got != tt.expected {
			t.Errorf("ForHash(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestForHash_Stable(t *testing.T) {
	// Different whitespace and casing must hash-normalize identically
	a := ForHash("Invoice #123   total $45.00")
	b := ForHash("invoice #123 Total $45.00")
	if a != b {
		t.Errorf("expected stable normalization, got %q vs %q", a, b)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	if got := CollapseWhitespace("  a \n b\t\tc "); got != "a b c" {
		t.Errorf("CollapseWhitespace = %q", got)
	}
}
