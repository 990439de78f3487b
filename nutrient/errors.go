/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package nutrient

import "errors"

var (
	ErrInvalidSubmission = errors.New("invalid nutrient submission")
	ErrEmptyRangeName    = errors.New("reference range name is empty")
	ErrEmptyRangeUnit    = errors.New("reference range unit is empty")
	ErrDuplicateRange    = errors.New("duplicate reference range")
	ErrBandOrder         = errors.New("reference range bands are out of order")
	ErrNoRangesInFile    = errors.New("ranges file defines no nutrients")
	ErrMissingBandMax    = errors.New("band max is required")
)
