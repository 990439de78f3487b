/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"context"

	"github.com/flamego/flamego"
	"github.com/google/uuid"

	"github.com/humaidq/nutrimark/analysis"
	"github.com/humaidq/nutrimark/db"
	"github.com/humaidq/nutrimark/nutrient"
	"github.com/humaidq/nutrimark/recommend"
)

// Store is the persistence the handlers need. db.Repository implements it.
type Store interface {
	SubmitBloodTest(ctx context.Context, input db.CreateBloodTestInput, process db.ProcessFunc) (*db.BloodTest, []analysis.StoredResult, error)
	GetBloodTest(ctx context.Context, userID string, id uuid.UUID) (*db.BloodTest, error)
	GetLatestBloodTest(ctx context.Context, userID string) (*db.BloodTest, error)
	ListBloodTests(ctx context.Context, userID string) ([]db.BloodTestSummary, error)
	ListResultsByBloodTest(ctx context.Context, testID uuid.UUID) ([]analysis.StoredResult, error)
	ListResultsByNutrient(ctx context.Context, userID, name string) ([]db.NutrientHistoryPoint, error)
}

// Services bundles the dependencies shared by every handler.
type Services struct {
	Table     *nutrient.Table
	Validator *nutrient.Validator
	Processor *analysis.Processor
	Store     Store

	// Recommender is nil when recipe generation is not configured.
	Recommender recommend.Recommender
}

// NewServices wires a validator and processor around table.
func NewServices(table *nutrient.Table, store Store, recommender recommend.Recommender) *Services {
	return &Services{
		Table:       table,
		Validator:   nutrient.NewValidator(table, nil),
		Processor:   analysis.NewProcessor(table),
		Store:       store,
		Recommender: recommender,
	}
}

// Injector makes svc available to handlers.
func Injector(svc *Services) flamego.Handler {
	return func(c flamego.Context) {
		c.Map(svc)
	}
}
