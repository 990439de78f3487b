/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package nutrient classifies blood-test nutrient values against clinical
// reference ranges and validates manually entered submissions.
package nutrient

import (
	"encoding/json"
	"math"
)

// Status is the clinical band a nutrient value falls into.
type Status string

// Status values, in ascending band order.
const (
	StatusDeficient    Status = "deficient"
	StatusInsufficient Status = "insufficient"
	StatusNormal       Status = "normal"
	StatusExcess       Status = "excess"
)

// Severity sub-classifies a non-normal status.
type Severity string

// Severity values.
const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Band is a numeric interval of a reference range. Max is +Inf for the
// open-ended excess band.
type Band struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// MarshalJSON encodes an unbounded Max as null.
func (b Band) MarshalJSON() ([]byte, error) {
	out := struct {
		Min float64  `json:"min"`
		Max *float64 `json:"max"`
	}{Min: b.Min}

	if !math.IsInf(b.Max, 1) {
		out.Max = &b.Max
	}

	return json.Marshal(out)
}

// Bands holds the four clinical bands in ascending order.
type Bands struct {
	Deficient    Band `json:"deficient"`
	Insufficient Band `json:"insufficient"`
	Normal       Band `json:"normal"`
	Excess       Band `json:"excess"`
}

// NutrientRange is the reference datum for one nutrient.
type NutrientRange struct {
	Name string `json:"name"`
	Unit string `json:"unit"`

	// NormalMin and NormalMax are reported as the headline range of every
	// classification, whichever band the value landed in.
	NormalMin float64 `json:"normalMin"`
	NormalMax float64 `json:"normalMax"`

	Bands Bands `json:"bands"`
}

// PlausibleMax is the largest value accepted for manual entry.
func (r NutrientRange) PlausibleMax() float64 {
	return r.Bands.Normal.Max * PlausibilityFactor
}

// Entry is a raw (name, value, unit) triple submitted by a caller.
type Entry struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
	Unit  string  `json:"unit" yaml:"unit"`
}

// Classification is the outcome of classifying a single value.
type Classification struct {
	Status   Status    `json:"status"`
	Severity *Severity `json:"severity"` // nil exactly when Status is normal
	MinRange float64   `json:"minRange"`
	MaxRange float64   `json:"maxRange"`
}

// ClassifiedResult is a classified entry ready for persistence.
type ClassifiedResult struct {
	NutrientName string  `json:"nutrientName"`
	Value        float64 `json:"value"`
	Unit         string  `json:"unit"`
	Classification
}

// IsNormal reports whether the result is within the normal band.
func (r ClassifiedResult) IsNormal() bool {
	return r.Status == StatusNormal
}

func severityPtr(s Severity) *Severity {
	return &s
}

// openBand returns a band starting at min with no upper bound.
func openBand(minValue float64) Band {
	return Band{Min: minValue, Max: math.Inf(1)}
}
