/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import "errors"

var (
	errUserIDMissing    = errors.New("missing X-User-ID header")
	errInvalidBloodTest = errors.New("invalid blood test id")
	errNoChartData      = errors.New("no results recorded for nutrient")
)
