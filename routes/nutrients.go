/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"strings"

	"github.com/flamego/flamego"

	"github.com/humaidq/nutrimark/nutrient"
)

type classifyRequest struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
}

type classifyResponse struct {
	NutrientName string  `json:"nutrientName"`
	Value        float64 `json:"value"`
	Unit         string  `json:"unit,omitempty"`
	Recognized   bool    `json:"recognized"`
	nutrient.Classification
}

// ClassifyValue classifies a single value without storing anything.
func ClassifyValue(c flamego.Context, svc *Services) {
	var req classifyRequest
	if !decodeJSON(c, &req) {
		return
	}

	var issues []nutrient.Issue

	name := strings.TrimSpace(req.Name)
	if name == "" {
		issues = append(issues, nutrient.Issue{Path: "name", Message: "Nutrient name is required"})
	}

	if req.Value == nil {
		issues = append(issues, nutrient.Issue{Path: "value", Message: "Value is required"})
	}

	if len(issues) > 0 {
		writeValidationError(c, issues)
		return
	}

	resp := classifyResponse{NutrientName: name, Value: *req.Value}

	lookup := svc.Table.Lookup(name)
	if rec, ok := lookup.(nutrient.Recognized); ok {
		resp.NutrientName = rec.Range.Name
		resp.Unit = rec.Range.Unit
		resp.Recognized = true
	}

	resp.Classification = nutrient.Classify(lookup, *req.Value)

	writeJSON(c, http.StatusOK, resp)
}

// ListRanges returns the active reference range table.
func ListRanges(c flamego.Context, svc *Services) {
	writeJSON(c, http.StatusOK, map[string]any{"ranges": svc.Table.Ranges()})
}
