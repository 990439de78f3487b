/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/humaidq/nutrimark/nutrient"
)

// Catalog rows are keyed by nutrient.NormalizeName, so spellings that differ
// only in case or Unicode form share one row.
const upsertNutrientQuery = `
	INSERT INTO nutrients (lookup_key, name, unit, normal_range_min, normal_range_max)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (lookup_key)
	DO UPDATE SET
		name = EXCLUDED.name,
		unit = EXCLUDED.unit,
		normal_range_min = EXCLUDED.normal_range_min,
		normal_range_max = EXCLUDED.normal_range_max,
		updated_at = now()
`

// SyncNutrientCatalog upserts every range of table into the nutrient
// catalog. The table is the source of truth; catalog rows of nutrients not
// in the table are left alone.
func SyncNutrientCatalog(ctx context.Context, table *nutrient.Table) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	ranges := table.Ranges()
	logger.Infof("Syncing %d nutrient reference ranges to database...", len(ranges))

	batch := &pgx.Batch{}
	for _, r := range ranges {
		batch.Queue(upsertNutrientQuery, nutrient.NormalizeName(r.Name), r.Name, r.Unit, r.NormalMin, r.NormalMax)
	}

	results := pool.SendBatch(ctx, batch)

	for _, r := range ranges {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to sync nutrient %s: %w", r.Name, err)
		}
	}

	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close sync batch: %w", err)
	}

	logger.Infof("Successfully synced %d nutrients", len(ranges))

	return nil
}

// ListNutrients returns the nutrient catalog ordered by name.
func ListNutrients(ctx context.Context) ([]Nutrient, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `
		SELECT id, name, unit, normal_range_min, normal_range_max
		FROM nutrients
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list nutrients: %w", err)
	}
	defer rows.Close()

	var nutrients []Nutrient

	for rows.Next() {
		var n Nutrient
		if err := rows.Scan(&n.ID, &n.Name, &n.Unit, &n.NormalRangeMin, &n.NormalRangeMax); err != nil {
			return nil, fmt.Errorf("failed to scan nutrient: %w", err)
		}

		nutrients = append(nutrients, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nutrients: %w", err)
	}

	return nutrients, nil
}

// EnsureNutrient creates the catalog row for an entry's nutrient when it is
// missing. Recognized nutrients are written with their canonical range;
// unrecognized ones get the submitted unit and no range.
func (t *Tx) EnsureNutrient(ctx context.Context, lookup nutrient.Lookup, entry nutrient.Entry) error {
	var err error

	switch l := lookup.(type) {
	case nutrient.Recognized:
		_, err = t.tx.Exec(ctx, `
			INSERT INTO nutrients (lookup_key, name, unit, normal_range_min, normal_range_max)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (lookup_key) DO NOTHING
		`, nutrient.NormalizeName(l.Range.Name), l.Range.Name, l.Range.Unit, l.Range.NormalMin, l.Range.NormalMax)
	default:
		_, err = t.tx.Exec(ctx, `
			INSERT INTO nutrients (lookup_key, name, unit)
			VALUES ($1, $2, $3)
			ON CONFLICT (lookup_key) DO NOTHING
		`, nutrient.NormalizeName(entry.Name), strings.TrimSpace(entry.Name), entry.Unit)
	}

	if err != nil {
		return fmt.Errorf("failed to ensure nutrient %s: %w", entry.Name, err)
	}

	return nil
}
