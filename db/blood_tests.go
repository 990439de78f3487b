/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const bloodTestColumns = `id, user_id, test_date, source, status, file_name, created_at, processed_at`

func scanBloodTest(row pgx.Row, extra ...any) (*BloodTest, error) {
	var bt BloodTest

	dest := []any{
		&bt.ID, &bt.UserID, &bt.TestDate, &bt.Source, &bt.Status,
		&bt.FileName, &bt.CreatedAt, &bt.ProcessedAt,
	}

	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	return &bt, nil
}

func createBloodTest(ctx context.Context, q querier, input CreateBloodTestInput) (*BloodTest, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, ErrUserIDRequired
	}

	if input.Source == "" {
		input.Source = SourceFile
	}

	if input.Status == "" {
		input.Status = StatusPending
	}

	bt, err := scanBloodTest(q.QueryRow(ctx, `
		INSERT INTO blood_tests (user_id, test_date, source, status, file_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+bloodTestColumns,
		input.UserID, input.TestDate.UTC(), input.Source, input.Status, input.FileName,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create blood test: %w", err)
	}

	return bt, nil
}

// CreateBloodTest creates a new blood test
func CreateBloodTest(ctx context.Context, input CreateBloodTestInput) (*BloodTest, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	return createBloodTest(ctx, pool, input)
}

// CreateBloodTest creates a blood test inside the transaction.
func (t *Tx) CreateBloodTest(ctx context.Context, input CreateBloodTestInput) (*BloodTest, error) {
	return createBloodTest(ctx, t.tx, input)
}

// MarkProcessed sets a blood test's status to processed and stamps
// processed_at.
func (t *Tx) MarkProcessed(ctx context.Context, id uuid.UUID) (*BloodTest, error) {
	bt, err := scanBloodTest(t.tx.QueryRow(ctx, `
		UPDATE blood_tests
		SET status = $2, processed_at = now()
		WHERE id = $1
		RETURNING `+bloodTestColumns,
		id, StatusProcessed,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBloodTestNotFound
		}

		return nil, fmt.Errorf("failed to mark blood test processed: %w", err)
	}

	return bt, nil
}

// GetBloodTest returns a blood test owned by userID. Tests owned by another
// user are reported as not found.
func GetBloodTest(ctx context.Context, userID string, id uuid.UUID) (*BloodTest, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	bt, err := scanBloodTest(pool.QueryRow(ctx, `
		SELECT `+bloodTestColumns+`
		FROM blood_tests
		WHERE id = $1 AND user_id = $2
	`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBloodTestNotFound
		}

		return nil, fmt.Errorf("failed to get blood test: %w", err)
	}

	return bt, nil
}

// GetLatestBloodTest returns the user's blood test with the most recent
// test date, or ErrBloodTestNotFound when the user has none.
func GetLatestBloodTest(ctx context.Context, userID string) (*BloodTest, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	bt, err := scanBloodTest(pool.QueryRow(ctx, `
		SELECT `+bloodTestColumns+`
		FROM blood_tests
		WHERE user_id = $1
		ORDER BY test_date DESC, created_at DESC
		LIMIT 1
	`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBloodTestNotFound
		}

		return nil, fmt.Errorf("failed to get latest blood test: %w", err)
	}

	return bt, nil
}

// ListBloodTests returns a user's blood tests, most recent test date first.
func ListBloodTests(ctx context.Context, userID string) ([]BloodTestSummary, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `
		SELECT b.id, b.user_id, b.test_date, b.source, b.status, b.file_name, b.created_at, b.processed_at,
		       COUNT(r.id) AS result_count,
		       COUNT(r.id) FILTER (WHERE r.status <> 'normal') AS non_normal_count
		FROM blood_tests b
		LEFT JOIN blood_test_results r ON r.blood_test_id = b.id
		WHERE b.user_id = $1
		GROUP BY b.id
		ORDER BY b.test_date DESC, b.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blood tests: %w", err)
	}
	defer rows.Close()

	var tests []BloodTestSummary

	for rows.Next() {
		var s BloodTestSummary

		bt, err := scanBloodTest(rows, &s.ResultCount, &s.NonNormalCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blood test: %w", err)
		}

		s.BloodTest = *bt
		tests = append(tests, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blood tests: %w", err)
	}

	return tests, nil
}
