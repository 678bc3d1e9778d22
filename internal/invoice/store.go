// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package invoice

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"invoice-ingest/internal/fingerprint"
)

// Store is a JSON-file backed invoice store. Mutations rewrite the file
// atomically (temp file + rename).
type Store struct {
	mu       sync.RWMutex
	path     string
	invoices []Invoice
}

// NewStore opens the invoice store at path. A missing file is an empty store.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(filepath.Clean(path))
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading invoice store: %w", err)
	}

	if err := json.Unmarshal(data, &s.invoices); err != nil {
		return nil, fmt.Errorf("error parsing invoice store %s: %w", path, err)
	}
	return s, nil
}

// List returns all non-deleted invoices.
func (s *Store) List() []Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		if !inv.Deleted() {
			out = append(out, inv)
		}
	}
	return out
}

// Get returns the invoice with the given ID, or false.
func (s *Store) Get(id string) (Invoice, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, inv := range s.invoices {
		if inv.ID == id {
			return inv, true
		}
	}
	return Invoice{}, false
}

// Create assigns the invoice an ID and creation time and persists it.
func (s *Store) Create(inv Invoice) (Invoice, error) {
	inv.ID = uuid.NewString()
	inv.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.invoices = append(s.invoices, inv)
	if err := s.save(); err != nil {
		s.invoices = s.invoices[:len(s.invoices)-1]
		return Invoice{}, err
	}
	return inv, nil
}

// SoftDelete marks an invoice deleted without removing the record, so its
// fingerprint keeps participating in duplicate detection history review.
func (s *Store) SoftDelete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.invoices {
		if s.invoices[i].ID == id {
			now := time.Now().UTC()
			s.invoices[i].DeletedAt = &now
			return s.save()
		}
	}
	return fmt.Errorf("invoice %s not found", id)
}

// Restore clears the deletion mark on an invoice.
func (s *Store) Restore(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.invoices {
		if s.invoices[i].ID == id {
			s.invoices[i].DeletedAt = nil
			return s.save()
		}
	}
	return fmt.Errorf("invoice %s not found", id)
}

// FindByFingerprint returns the first non-deleted invoice whose fingerprint
// matches fp (file digest or text digest equality), or false.
func (s *Store) FindByFingerprint(fp fingerprint.Fingerprint) (Invoice, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, inv := range s.invoices {
		if inv.Deleted() {
			continue
		}
		if inv.Fingerprint.Matches(fp) {
			return inv, true
		}
	}
	return Invoice{}, false
}

// FindLikelyDuplicate returns a non-deleted invoice carrying the same
// invoice number whose billing period is within one month of period
// (YYYY-MM), or false. Digests may differ; this is a heuristic signal.
func (s *Store) FindLikelyDuplicate(number, period string) (Invoice, bool) {
	if number == "" || period == "" {
		return Invoice{}, false
	}
	target, err := time.Parse("2006-01", period)
	if err != nil {
		return Invoice{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, inv := range s.invoices {
		if inv.Deleted() || inv.Number == "" || inv.Period == "" {
			continue
		}
		if !strings.EqualFold(inv.Number, number) {
			continue
		}
		existing, err := time.Parse("2006-01", inv.Period)
		if err != nil {
			continue
		}
		diff := (target.Year()-existing.Year())*12 + int(target.Month()) - int(existing.Month())
		if diff < 0 {
			diff = -diff
		}
		if diff <= 1 {
			return inv, true
		}
	}
	return Invoice{}, false
}

// save writes the store to disk atomically. Callers must hold the write lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.invoices, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding invoice store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".invoices-*.json")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("error writing invoice store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error replacing invoice store: %w", err)
	}
	return nil
}
