/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/json"
	"net/http"

	"github.com/flamego/flamego"

	"github.com/humaidq/nutrimark/nutrient"
)

const invalidRequestMessage = "Invalid request data"

func writeJSON(c flamego.Context, status int, payload any) {
	c.ResponseWriter().Header().Set("Content-Type", "application/json")
	c.ResponseWriter().WriteHeader(status)

	if err := json.NewEncoder(c.ResponseWriter()).Encode(payload); err != nil {
		logger.Error("Error encoding JSON response", "error", err)
	}
}

func writeJSONError(c flamego.Context, status int, message string) {
	writeJSON(c, status, map[string]string{"error": message})
}

type validationErrorResponse struct {
	Error   string           `json:"error"`
	Details []nutrient.Issue `json:"details"`
}

func writeValidationError(c flamego.Context, issues []nutrient.Issue) {
	writeJSON(c, http.StatusBadRequest, validationErrorResponse{
		Error:   invalidRequestMessage,
		Details: issues,
	})
}

// decodeJSON reads the request body into dst, rejecting unknown fields.
func decodeJSON(c flamego.Context, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(c.ResponseWriter(), c.Request().Request.Body, 1<<20))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeValidationError(c, []nutrient.Issue{{Path: "", Message: "Request body must be valid JSON"}})
		return false
	}

	return true
}
