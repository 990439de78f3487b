/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/flamego/flamego"
	"github.com/google/uuid"

	"github.com/humaidq/nutrimark/analysis"
	"github.com/humaidq/nutrimark/db"
	"github.com/humaidq/nutrimark/nutrient"
	"github.com/humaidq/nutrimark/recommend"
)

const persistenceFailedMessage = "Failed to save blood test results. Please try again."

type submitResponse struct {
	TestID    uuid.UUID               `json:"testId"`
	Results   []analysis.StoredResult `json:"results"`
	NonNormal []string                `json:"nonNormal"`
}

type bloodTestResponse struct {
	BloodTest *db.BloodTest           `json:"bloodTest"`
	Results   []analysis.StoredResult `json:"results"`
	NonNormal []string                `json:"nonNormal"`
}

type deficienciesResponse struct {
	TestID  *uuid.UUID              `json:"testId"`
	Results []analysis.StoredResult `json:"results"`
}

type recommendationsResponse struct {
	Nutrients []string           `json:"nutrients"`
	Recipes   []recommend.Recipe `json:"recipes"`
}

// SubmitManualBloodTest validates a manually entered blood test, then stores
// it together with its classified results in a single transaction.
func SubmitManualBloodTest(c flamego.Context, svc *Services, userID UserID) {
	var sub nutrient.Submission
	if !decodeJSON(c, &sub) {
		return
	}

	valid, err := svc.Validator.Validate(sub)
	if err != nil {
		var verr *nutrient.ValidationError
		if errors.As(err, &verr) {
			writeValidationError(c, verr.Issues)
			return
		}

		writeJSONError(c, http.StatusBadRequest, invalidRequestMessage)

		return
	}

	ctx := c.Request().Context()

	bt, stored, err := svc.Store.SubmitBloodTest(ctx, db.CreateBloodTestInput{
		UserID:   string(userID),
		TestDate: valid.TestDate,
		Source:   db.SourceManual,
	}, func(ctx context.Context, store analysis.Store, testID uuid.UUID) ([]analysis.StoredResult, error) {
		return svc.Processor.Process(ctx, store, testID, valid.Entries)
	})
	if err != nil {
		logger.Error("Failed to store manual blood test", "user_id", userID, "error", err)
		writeJSONError(c, http.StatusInternalServerError, persistenceFailedMessage)

		return
	}

	writeJSON(c, http.StatusOK, submitResponse{
		TestID:    bt.ID,
		Results:   stored,
		NonNormal: nutrient.NonNormalNames(analysis.Results(stored)),
	})
}

// ListBloodTests returns the caller's blood tests, newest first.
func ListBloodTests(c flamego.Context, svc *Services, userID UserID) {
	tests, err := svc.Store.ListBloodTests(c.Request().Context(), string(userID))
	if err != nil {
		logger.Error("Failed to list blood tests", "user_id", userID, "error", err)
		writeJSONError(c, http.StatusInternalServerError, "Failed to load blood tests")

		return
	}

	if tests == nil {
		tests = []db.BloodTestSummary{}
	}

	writeJSON(c, http.StatusOK, map[string]any{"bloodTests": tests})
}

// loadBloodTest resolves the {id} route parameter to one of the caller's
// blood tests and its results. On failure it returns the HTTP status to
// respond with.
func loadBloodTest(c flamego.Context, svc *Services, userID UserID) (*db.BloodTest, []analysis.StoredResult, int, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return nil, nil, http.StatusBadRequest, errInvalidBloodTest
	}

	ctx := c.Request().Context()

	bt, err := svc.Store.GetBloodTest(ctx, string(userID), id)
	if err != nil {
		if errors.Is(err, db.ErrBloodTestNotFound) {
			return nil, nil, http.StatusNotFound, err
		}

		return nil, nil, http.StatusInternalServerError, err
	}

	results, err := svc.Store.ListResultsByBloodTest(ctx, bt.ID)
	if err != nil {
		return nil, nil, http.StatusInternalServerError, err
	}

	if results == nil {
		results = []analysis.StoredResult{}
	}

	return bt, results, http.StatusOK, nil
}

func bloodTestErrorMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Invalid blood test id"
	case http.StatusNotFound:
		return "Blood test not found"
	default:
		return "Failed to load blood test"
	}
}

// GetBloodTest returns one blood test with its results in input order.
func GetBloodTest(c flamego.Context, svc *Services, userID UserID) {
	bt, results, status, err := loadBloodTest(c, svc, userID)
	if err != nil {
		if status == http.StatusInternalServerError {
			logger.Error("Failed to load blood test", "user_id", userID, "error", err)
		}

		writeJSONError(c, status, bloodTestErrorMessage(status))

		return
	}

	writeJSON(c, http.StatusOK, bloodTestResponse{
		BloodTest: bt,
		Results:   results,
		NonNormal: nutrient.NonNormalNames(analysis.Results(results)),
	})
}

// loadLatestBloodTest returns the caller's most recent blood test and its
// results. A caller without tests gets a nil test and no error.
func loadLatestBloodTest(ctx context.Context, svc *Services, userID UserID) (*db.BloodTest, []analysis.StoredResult, error) {
	bt, err := svc.Store.GetLatestBloodTest(ctx, string(userID))
	if err != nil {
		if errors.Is(err, db.ErrBloodTestNotFound) {
			return nil, []analysis.StoredResult{}, nil
		}

		return nil, nil, err
	}

	results, err := svc.Store.ListResultsByBloodTest(ctx, bt.ID)
	if err != nil {
		return nil, nil, err
	}

	if results == nil {
		results = []analysis.StoredResult{}
	}

	return bt, results, nil
}

// GetLatestBloodTest returns the caller's most recent blood test with its
// results. bloodTest is null when the caller has none.
func GetLatestBloodTest(c flamego.Context, svc *Services, userID UserID) {
	bt, results, err := loadLatestBloodTest(c.Request().Context(), svc, userID)
	if err != nil {
		logger.Error("Failed to load latest blood test", "user_id", userID, "error", err)
		writeJSONError(c, http.StatusInternalServerError, "Failed to load latest blood test")

		return
	}

	writeJSON(c, http.StatusOK, bloodTestResponse{
		BloodTest: bt,
		Results:   results,
		NonNormal: nutrient.NonNormalNames(analysis.Results(results)),
	})
}

// ListDeficiencies returns the results of the caller's most recent blood
// test that fall outside the normal band.
func ListDeficiencies(c flamego.Context, svc *Services, userID UserID) {
	bt, results, err := loadLatestBloodTest(c.Request().Context(), svc, userID)
	if err != nil {
		logger.Error("Failed to load deficiencies", "user_id", userID, "error", err)
		writeJSONError(c, http.StatusInternalServerError, "Failed to load deficiencies")

		return
	}

	resp := deficienciesResponse{Results: make([]analysis.StoredResult, 0, len(results))}
	if bt != nil {
		resp.TestID = &bt.ID
	}

	for _, r := range results {
		if !r.IsNormal() {
			resp.Results = append(resp.Results, r)
		}
	}

	writeJSON(c, http.StatusOK, resp)
}

// GetRecommendations asks the recommender for recipes that address the
// non-normal results of a blood test.
func GetRecommendations(c flamego.Context, svc *Services, userID UserID) {
	if svc.Recommender == nil {
		writeJSONError(c, http.StatusServiceUnavailable, "Recipe recommendations are not configured")
		return
	}

	_, results, status, err := loadBloodTest(c, svc, userID)
	if err != nil {
		if status == http.StatusInternalServerError {
			logger.Error("Failed to load blood test", "user_id", userID, "error", err)
		}

		writeJSONError(c, status, bloodTestErrorMessage(status))

		return
	}

	names := nutrient.NonNormalNames(analysis.Results(results))
	query := c.Request().URL.Query()
	prefs := recommend.Preferences{
		Dietary:   nonEmpty(query["diet"]),
		Allergies: nonEmpty(query["allergy"]),
	}

	recipes, err := svc.Recommender.Recommend(c.Request().Context(), names, prefs)
	if err != nil {
		logger.Error("Failed to generate recommendations", "user_id", userID, "error", err)
		writeJSONError(c, http.StatusBadGateway, "Failed to generate recommendations. Please try again.")

		return
	}

	writeJSON(c, http.StatusOK, recommendationsResponse{Nutrients: names, Recipes: recipes})
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))

	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}
