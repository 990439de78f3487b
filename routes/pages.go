/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	htmltemplate "html/template"
	"net/http"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/template"

	"github.com/humaidq/nutrimark/analysis"
	"github.com/humaidq/nutrimark/nutrient"
)

// BloodTestPage shows each result of a blood test next to its normal range.
func BloodTestPage(c flamego.Context, svc *Services, userID UserID, t template.Template, data template.Data) {
	bt, results, status, err := loadBloodTest(c, svc, userID)
	if err != nil {
		if status == http.StatusInternalServerError {
			logger.Error("Failed to load blood test", "user_id", userID, "error", err)
		}

		data["Error"] = bloodTestErrorMessage(status)
		t.HTML(status, "blood_test")

		return
	}

	classified := analysis.Results(results)

	data["BloodTest"] = bt
	data["Results"] = results
	data["NonNormal"] = nutrient.NonNormalNames(classified)
	data["Counts"] = nutrient.CountByStatus(classified)
	data["RecommendationsEnabled"] = svc.Recommender != nil

	t.HTML(http.StatusOK, "blood_test")
}

// NutrientChart shows the caller's history for one nutrient.
func NutrientChart(c flamego.Context, svc *Services, userID UserID, t template.Template, data template.Data) {
	name := strings.TrimSpace(c.Param("name"))
	lookup := svc.Table.Lookup(name)

	data["Nutrient"] = name
	if rec, ok := lookup.(nutrient.Recognized); ok {
		data["Nutrient"] = rec.Range.Name
		data["Range"] = rec.Range
	}

	points, err := svc.Store.ListResultsByNutrient(c.Request().Context(), string(userID), name)
	if err != nil {
		logger.Error("Failed to load nutrient history", "user_id", userID, "nutrient", name, "error", err)
		data["Error"] = "Failed to load nutrient history"
		t.HTML(http.StatusInternalServerError, "nutrient_chart")

		return
	}

	chart, err := generateNutrientChart(name, points, lookup)
	if err != nil {
		if errors.Is(err, errNoChartData) {
			data["Error"] = "No results recorded for this nutrient yet"
			t.HTML(http.StatusNotFound, "nutrient_chart")

			return
		}

		logger.Error("Failed to render nutrient chart", "nutrient", name, "error", err)
		data["Error"] = "Failed to render chart"
		t.HTML(http.StatusInternalServerError, "nutrient_chart")

		return
	}

	data["Chart"] = htmltemplate.HTML(chart)
	data["Points"] = len(points)

	t.HTML(http.StatusOK, "nutrient_chart")
}
