/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

import (
	"context"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/humaidq/nutrimark/nutrient"
)

// Processor classifies accepted entries and hands the results to a Store.
type Processor struct {
	table   *nutrient.Table
	workers int
}

// NewProcessor returns a processor that classifies against table.
func NewProcessor(table *nutrient.Table) *Processor {
	return &Processor{
		table:   table,
		workers: runtime.GOMAXPROCS(0),
	}
}

// Table returns the reference table the processor classifies against.
func (p *Processor) Table() *nutrient.Table {
	return p.table
}

type classified struct {
	lookup nutrient.Lookup
	result nutrient.ClassifiedResult
}

// ClassifyAll classifies every entry. Entries are independent, so the work
// is spread across goroutines; the output keeps the input order.
func (p *Processor) ClassifyAll(entries []nutrient.Entry) []nutrient.ClassifiedResult {
	items := p.classify(entries)

	results := make([]nutrient.ClassifiedResult, len(items))
	for i, item := range items {
		results[i] = item.result
	}

	return results
}

func (p *Processor) classify(entries []nutrient.Entry) []classified {
	out := make([]classified, len(entries))

	var g errgroup.Group
	g.SetLimit(p.workers)

	for i, entry := range entries {
		g.Go(func() error {
			lookup := p.table.Lookup(entry.Name)
			out[i] = classified{
				lookup: lookup,
				result: nutrient.ClassifiedResult{
					NutrientName:   entry.Name,
					Value:          entry.Value,
					Unit:           entry.Unit,
					Classification: nutrient.Classify(lookup, entry.Value),
				},
			}

			return nil
		})
	}

	// Classification never fails.
	_ = g.Wait()

	return out
}

// Process classifies entries and persists one result per entry for testID,
// in input order. Persistence stops at the first failure, which is returned
// as a *PersistenceError; the caller decides whether to roll back what was
// already written.
func (p *Processor) Process(ctx context.Context, store Store, testID uuid.UUID, entries []nutrient.Entry) ([]StoredResult, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	if testID == uuid.Nil {
		return nil, ErrNilBloodTestID
	}

	items := p.classify(entries)
	stored := make([]StoredResult, 0, len(items))

	for i, item := range items {
		if unrec, ok := item.lookup.(nutrient.Unrecognized); ok {
			logger.Warn("Unknown nutrient, using fallback range",
				"nutrient", unrec.Name,
				"index", i,
				"test_id", testID,
			)
		}

		if err := store.EnsureNutrient(ctx, item.lookup, entries[i]); err != nil {
			return nil, &PersistenceError{Index: i, Name: item.result.NutrientName, Err: err}
		}

		res, err := store.SaveResult(ctx, testID, i, item.result)
		if err != nil {
			return nil, &PersistenceError{Index: i, Name: item.result.NutrientName, Err: err}
		}

		stored = append(stored, res)
	}

	logger.Info("Processed blood test",
		"test_id", testID,
		"results", len(stored),
		"non_normal", len(nutrient.NonNormalNames(Results(stored))),
	)

	return stored, nil
}

// Results strips persistence metadata from stored results.
func Results(stored []StoredResult) []nutrient.ClassifiedResult {
	out := make([]nutrient.ClassifiedResult, len(stored))
	for i, s := range stored {
		out[i] = s.ClassifiedResult
	}

	return out
}
