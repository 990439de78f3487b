// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/humaidq/nutrimark/analysis"
	"github.com/humaidq/nutrimark/nutrient"
)

func testContext() context.Context {
	return context.Background()
}

func processWith(entries []nutrient.Entry) ProcessFunc {
	p := analysis.NewProcessor(nutrient.DefaultTable())

	return func(ctx context.Context, store analysis.Store, testID uuid.UUID) ([]analysis.StoredResult, error) {
		return p.Process(ctx, store, testID, entries)
	}
}

func mustSubmit(t *testing.T, userID string, date time.Time, entries ...nutrient.Entry) (*BloodTest, []analysis.StoredResult) {
	t.Helper()

	bt, stored, err := SubmitBloodTest(testContext(), CreateBloodTestInput{
		UserID:   userID,
		TestDate: date,
		Source:   SourceManual,
	}, processWith(entries))
	if err != nil {
		t.Fatalf("SubmitBloodTest failed: %v", err)
	}

	return bt, stored
}
