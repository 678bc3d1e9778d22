// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package fingerprint computes content digests used for duplicate detection.
// Every ingested document gets a pair of digests: one over the raw file bytes
// and one over the normalized extracted text, so that byte-identical
// re-uploads and re-encodings of the same logical content both collide.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"

	"invoice-ingest/internal/normalize"
)

// Fingerprint is the digest pair persisted alongside an ingested invoice.
// Two documents are considered the same submission when EITHER digest
// matches — equality is disjunctive, not conjunctive.
type Fingerprint struct {
	FileDigest string `json:"file_digest"`
	TextDigest string `json:"text_digest"`
}

// Matches reports whether either digest of the two fingerprints is equal.
func (f Fingerprint) Matches(other Fingerprint) bool {
	return (f.FileDigest != "" && f.FileDigest == other.FileDigest) ||
		(f.TextDigest != "" && f.TextDigest == other.TextDigest)
}

// Compute returns the fingerprint of a document: a SHA-256 digest of the raw,
// unmodified input bytes and a SHA-256 digest of the hash-normalized
// extracted text. Deterministic: identical input always yields the same pair.
func Compute(raw []byte, text string) Fingerprint {
	return Fingerprint{
		FileDigest: SHA256(raw),
		TextDigest: SHA256([]byte(normalize.ForHash(text))),
	}
}

// SHA256 returns the lowercase hex SHA-256 digest of data.
func SHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
