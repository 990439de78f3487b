/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package analysis turns validated nutrient entries into persisted,
// classified results for a blood test.
package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/humaidq/nutrimark/nutrient"
)

// StoredResult is a classified result as written by a Store.
type StoredResult struct {
	ID          uuid.UUID `json:"id"`
	BloodTestID uuid.UUID `json:"bloodTestId"`
	Position    int       `json:"position"`
	nutrient.ClassifiedResult
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the persistence sink of the processor. Implementations are not
// required to be safe for concurrent use; the processor calls them
// sequentially.
type Store interface {
	// EnsureNutrient makes sure a catalog record exists for the entry's
	// nutrient, creating one when missing.
	EnsureNutrient(ctx context.Context, lookup nutrient.Lookup, entry nutrient.Entry) error

	// SaveResult persists a classified result for testID at position.
	SaveResult(ctx context.Context, testID uuid.UUID, position int, result nutrient.ClassifiedResult) (StoredResult, error)
}
