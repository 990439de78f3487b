/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"time"

	"github.com/google/uuid"
)

// BloodTestSource records how a blood test entered the system.
type BloodTestSource string

// BloodTestSource values.
const (
	SourceFile   BloodTestSource = "file"
	SourceManual BloodTestSource = "manual"
)

// BloodTestStatus is the processing state of a blood test.
type BloodTestStatus string

// BloodTestStatus values.
const (
	StatusPending    BloodTestStatus = "pending"
	StatusProcessing BloodTestStatus = "processing"
	StatusProcessed  BloodTestStatus = "processed"
	StatusFailed     BloodTestStatus = "failed"
)

// BloodTest is a submission of nutrient values for one test date.
type BloodTest struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	UserID      string          `db:"user_id" json:"userId"`
	TestDate    time.Time       `db:"test_date" json:"testDate"`
	Source      BloodTestSource `db:"source" json:"source"`
	Status      BloodTestStatus `db:"status" json:"status"`
	FileName    *string         `db:"file_name" json:"fileName"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	ProcessedAt *time.Time      `db:"processed_at" json:"processedAt"`
}

// BloodTestSummary is a blood test with result counts, for listings.
type BloodTestSummary struct {
	BloodTest
	ResultCount    int `db:"result_count" json:"resultCount"`
	NonNormalCount int `db:"non_normal_count" json:"nonNormalCount"`
}

// Nutrient is a nutrient catalog record.
type Nutrient struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Unit           string    `db:"unit" json:"unit"`
	NormalRangeMin *float64  `db:"normal_range_min" json:"normalRangeMin"`
	NormalRangeMax *float64  `db:"normal_range_max" json:"normalRangeMax"`
}

// CreateBloodTestInput represents input for creating a blood test
type CreateBloodTestInput struct {
	UserID   string
	TestDate time.Time
	Source   BloodTestSource
	Status   BloodTestStatus
	FileName *string
}
