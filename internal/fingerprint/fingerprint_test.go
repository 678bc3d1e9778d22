// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package fingerprint

import (
	"testing"
)

func TestCompute_Idempotent(t *testing.T) {
	raw := []byte("%PDF-1.4 fake invoice bytes")
	text := "Invoice #123 Total $45.00"

	a := Compute(raw, text)
	b := Compute(raw, text)

	if a != b {
		t.Errorf("fingerprinting must be deterministic: %+v vs %+v", a, b)
	}
	if a.FileDigest == "" || a.TextDigest == "" {
		t.Error("expected non-empty digests")
	}
	if a.FileDigest == a.TextDigest {
		t.Error("file and text digests should differ for distinct content")
	}
}

func TestCompute_TextNormalization(t *testing.T) {
	raw1 := []byte("encoding-one")
	raw2 := []byte("encoding-two")

	// Same logical content with trivial whitespace/case differences must
	// produce the same text digest even when the raw bytes differ.
	a := Compute(raw1, "Invoice #123   total $45.00")
	b := Compute(raw2, "invoice #123 Total $45.00")

	if a.FileDigest == b.FileDigest {
		t.Error("different raw bytes should produce different file digests")
	}
	if a.TextDigest != b.TextDigest {
		t.Errorf("normalized-equivalent text should collide: %s vs %s", a.TextDigest, b.TextDigest)
	}
}

func TestMatches_Disjunctive(t *testing.T) {
	base := Fingerprint{FileDigest: "aaa", TextDigest: "bbb"}

	tests := []struct {
		name     string
		other    Fingerprint
		expected bool
	}{
		{"both match", Fingerprint{FileDigest: "aaa", TextDigest: "bbb"}, true},
		{"file only", Fingerprint{FileDigest: "aaa", TextDigest: "xxx"}, true},
		{"text only", Fingerprint{FileDigest: "xxx", TextDigest: "bbb"}, true},
		{"neither", Fingerprint{FileDigest: "xxx", TextDigest: "yyy"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Matches(tt.other); got != tt.expected {
				t.Errorf("Matches = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMatches_EmptyDigestsNeverMatch(t *testing.T) {
	a := Fingerprint{}
	b := Fingerprint{}
	if a.Matches(b) {
		t.Error("empty fingerprints must not match each other")
	}
}

func TestSHA256(t *testing.T) {
	// Known vector for the empty input
	if got := SHA256(nil); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("unexpected empty-input digest: %s", got)
	}
}
