/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/humaidq/nutrimark/nutrient"
)

// CatalogEntry is a nutrient catalog record held by MemoryStore.
type CatalogEntry struct {
	Name      string
	Unit      string
	NormalMin *float64
	NormalMax *float64
}

// MemoryStore is an in-memory Store. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	catalog map[string]CatalogEntry
	results map[uuid.UUID][]StoredResult
	now     func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		catalog: make(map[string]CatalogEntry),
		results: make(map[uuid.UUID][]StoredResult),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// EnsureNutrient adds a catalog record for the entry's nutrient if none
// exists. Recognized nutrients take their canonical name, unit and range.
func (s *MemoryStore) EnsureNutrient(ctx context.Context, lookup nutrient.Lookup, entry nutrient.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rec := CatalogEntry{Name: entry.Name, Unit: entry.Unit}

	if r, ok := lookup.(nutrient.Recognized); ok {
		rec = CatalogEntry{
			Name:      r.Range.Name,
			Unit:      r.Range.Unit,
			NormalMin: &r.Range.NormalMin,
			NormalMax: &r.Range.NormalMax,
		}
	}

	key := nutrient.NormalizeName(rec.Name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.catalog[key]; !exists {
		s.catalog[key] = rec
	}

	return nil
}

// SaveResult stores result under testID.
func (s *MemoryStore) SaveResult(ctx context.Context, testID uuid.UUID, position int, result nutrient.ClassifiedResult) (StoredResult, error) {
	if err := ctx.Err(); err != nil {
		return StoredResult{}, err
	}

	stored := StoredResult{
		ID:               uuid.New(),
		BloodTestID:      testID,
		Position:         position,
		ClassifiedResult: result,
		CreatedAt:        s.now(),
	}

	s.mu.Lock()
	s.results[testID] = append(s.results[testID], stored)
	s.mu.Unlock()

	return stored, nil
}

// Results returns the results stored for testID ordered by position.
func (s *MemoryStore) Results(testID uuid.UUID) []StoredResult {
	s.mu.RLock()
	out := append([]StoredResult(nil), s.results[testID]...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})

	return out
}

// Catalog returns the catalog records sorted by name.
func (s *MemoryStore) Catalog() []CatalogEntry {
	s.mu.RLock()
	out := make([]CatalogEntry, 0, len(s.catalog))
	for _, rec := range s.catalog {
		out = append(out, rec)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out
}
