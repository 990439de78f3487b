/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/humaidq/nutrimark/analysis"
)

// ProcessFunc writes a blood test's results through store.
type ProcessFunc func(ctx context.Context, store analysis.Store, testID uuid.UUID) ([]analysis.StoredResult, error)

// SubmitBloodTest creates a blood test, runs process against it and marks it
// processed, all in one transaction. Any failure leaves nothing behind.
func SubmitBloodTest(ctx context.Context, input CreateBloodTestInput, process ProcessFunc) (*BloodTest, []analysis.StoredResult, error) {
	var (
		test   *BloodTest
		stored []analysis.StoredResult
	)

	input.Status = StatusProcessing

	err := WithTx(ctx, func(tx *Tx) error {
		created, err := tx.CreateBloodTest(ctx, input)
		if err != nil {
			return err
		}

		stored, err = process(ctx, tx, created.ID)
		if err != nil {
			return err
		}

		test, err = tx.MarkProcessed(ctx, created.ID)

		return err
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Stored blood test", "test_id", test.ID, "user_id", test.UserID, "source", test.Source, "results", len(stored))

	return test, stored, nil
}

// Repository exposes the package functions as a value, for callers that
// take their storage as a dependency.
type Repository struct{}

// SubmitBloodTest calls the package-level SubmitBloodTest.
func (Repository) SubmitBloodTest(ctx context.Context, input CreateBloodTestInput, process ProcessFunc) (*BloodTest, []analysis.StoredResult, error) {
	return SubmitBloodTest(ctx, input, process)
}

// GetBloodTest calls the package-level GetBloodTest.
func (Repository) GetBloodTest(ctx context.Context, userID string, id uuid.UUID) (*BloodTest, error) {
	return GetBloodTest(ctx, userID, id)
}

// GetLatestBloodTest calls the package-level GetLatestBloodTest.
func (Repository) GetLatestBloodTest(ctx context.Context, userID string) (*BloodTest, error) {
	return GetLatestBloodTest(ctx, userID)
}

// ListBloodTests calls the package-level ListBloodTests.
func (Repository) ListBloodTests(ctx context.Context, userID string) ([]BloodTestSummary, error) {
	return ListBloodTests(ctx, userID)
}

// ListResultsByBloodTest calls the package-level ListResultsByBloodTest.
func (Repository) ListResultsByBloodTest(ctx context.Context, testID uuid.UUID) ([]analysis.StoredResult, error) {
	return ListResultsByBloodTest(ctx, testID)
}

// ListResultsByNutrient calls the package-level ListResultsByNutrient.
func (Repository) ListResultsByNutrient(ctx context.Context, userID, name string) ([]NutrientHistoryPoint, error) {
	return ListResultsByNutrient(ctx, userID, name)
}
