// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package normalize

import (
	"strings"
	"unicode"
)

// businessSuffixes are common legal-entity suffixes stripped during entity
// name normalization so that "Acme Waste LLC" and "Acme Waste, Inc." compare
// equal. Stripping is whole-token, so abbreviations and long forms are listed
// independently.
var businessSuffixes = []string{
	"llc", "inc", "incorporated", "ltd", "limited", "co", "corp", "corporation",
	"company", "companies", "group", "groups", "services", "service", "solutions",
	"solution", "enterprises", "enterprise", "associates", "associate", "partners",
	"partner", "consulting", "consultants",
}

// suffixSet is the lookup form of businessSuffixes.
var suffixSet = func() map[string]bool {
	m := make(map[string]bool, len(businessSuffixes))
	for _, s := range businessSuffixes {
		m[s] = true
	}
	return m
}()

// EntityName canonicalizes a business entity name for comparison:
// lowercase, punctuation stripped, whitespace collapsed, leading/trailing
// "the" removed, and trailing business-entity suffixes removed. The result is
// stable under trivial formatting differences ("RUMPKE OF KENTUCKY, INC" and
// "Rumpke of Kentucky Inc" normalize identically).
func EntityName(name string) string {
	if name == "" {
		return ""
	}

	tokens := Tokens(name)
	if len(tokens) == 0 {
		return ""
	}

	// Strip leading and trailing "the"
	if tokens[0] == "the" {
		tokens = tokens[1:]
	}
	if len(tokens) > 0 && tokens[len(tokens)-1] == "the" {
		tokens = tokens[:len(tokens)-1]
	}

	// Strip trailing business suffixes, repeatedly ("Acme Holdings Co Inc")
	for len(tokens) > 1 && suffixSet[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}

	return strings.Join(tokens, " ")
}

// Tokens lowercases the input, replaces every non-alphanumeric rune with a
// space, and returns the resulting whitespace-split tokens.
func Tokens(s string) []string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

// ForHash canonicalizes extracted text before digesting so that
// re-submissions of the same logical content with trivial encoding
// differences still collide: uppercase, punctuation stripped except digits
// and "/-.", whitespace collapsed.
func ForHash(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToUpper(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '/' || r == '-' || r == '.' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// CollapseWhitespace trims the string and collapses interior whitespace runs
// to single spaces. Used by extraction strategies to clean raw PDF output.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
