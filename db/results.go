/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/humaidq/nutrimark/analysis"
	"github.com/humaidq/nutrimark/nutrient"
)

// NutrientHistoryPoint is a stored result together with its test date.
type NutrientHistoryPoint struct {
	analysis.StoredResult
	TestDate time.Time `json:"testDate"`
}

const resultColumns = `r.id, r.blood_test_id, r.position, r.nutrient_name, r.value, r.unit,
	r.status, r.severity, r.min_range, r.max_range, r.created_at`

func scanResult(row pgx.Row, extra ...any) (analysis.StoredResult, error) {
	var (
		res      analysis.StoredResult
		status   string
		severity *string
	)

	dest := []any{
		&res.ID, &res.BloodTestID, &res.Position, &res.NutrientName, &res.Value, &res.Unit,
		&status, &severity, &res.MinRange, &res.MaxRange, &res.CreatedAt,
	}

	if err := row.Scan(append(dest, extra...)...); err != nil {
		return analysis.StoredResult{}, err
	}

	res.Status = nutrient.Status(status)
	if severity != nil {
		s := nutrient.Severity(*severity)
		res.Severity = &s
	}

	return res, nil
}

// SaveResult inserts a classified result for a blood test.
func (t *Tx) SaveResult(ctx context.Context, testID uuid.UUID, position int, result nutrient.ClassifiedResult) (analysis.StoredResult, error) {
	var severity *string
	if result.Severity != nil {
		s := string(*result.Severity)
		severity = &s
	}

	stored, err := scanResult(t.tx.QueryRow(ctx, `
		INSERT INTO blood_test_results AS r (
			blood_test_id, position, nutrient_name, value, unit,
			status, severity, min_range, max_range
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+resultColumns,
		testID, position, result.NutrientName, result.Value, result.Unit,
		string(result.Status), severity, result.MinRange, result.MaxRange,
	))
	if err != nil {
		return analysis.StoredResult{}, fmt.Errorf("failed to insert result: %w", err)
	}

	return stored, nil
}

// ListResultsByBloodTest returns a blood test's results in submission order.
func ListResultsByBloodTest(ctx context.Context, testID uuid.UUID) ([]analysis.StoredResult, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `
		SELECT `+resultColumns+`
		FROM blood_test_results r
		WHERE r.blood_test_id = $1
		ORDER BY r.position
	`, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []analysis.StoredResult

	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return results, nil
}

// ListResultsByNutrient returns every result for a nutrient across a user's
// blood tests, oldest test first. Names match case-insensitively.
func ListResultsByNutrient(ctx context.Context, userID, name string) ([]NutrientHistoryPoint, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `
		SELECT `+resultColumns+`, b.test_date
		FROM blood_test_results r
		INNER JOIN blood_tests b ON r.blood_test_id = b.id
		WHERE b.user_id = $1 AND lower(r.nutrient_name) = lower($2)
		ORDER BY b.test_date ASC, r.created_at ASC
	`, userID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list results by nutrient: %w", err)
	}
	defer rows.Close()

	var points []NutrientHistoryPoint

	for rows.Next() {
		var p NutrientHistoryPoint

		p.StoredResult, err = scanResult(rows, &p.TestDate)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return points, nil
}
