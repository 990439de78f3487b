/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package nutrient

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Submission is a batch of manually entered nutrient values for one test.
type Submission struct {
	TestDate  string  `json:"testDate" yaml:"testDate"`
	Nutrients []Entry `json:"nutrients" yaml:"nutrients"`
}

// ValidSubmission is a submission that passed every rule. Entry names and
// units of recognized nutrients are rewritten to their canonical spelling.
type ValidSubmission struct {
	TestDate time.Time
	Entries  []Entry
}

// Issue is a single violated rule, scoped to a field path such as
// "nutrients[2].unit".
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError lists every rule a submission violated.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Path+": "+issue.Message)
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets errors.Is match ErrInvalidSubmission.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidSubmission
}

// Validator checks submissions against a reference table.
type Validator struct {
	table *Table
	now   func() time.Time
}

// NewValidator returns a validator backed by table. A nil now uses
// time.Now.
func NewValidator(table *Table, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}

	return &Validator{table: table, now: now}
}

// Validate applies every per-entry and whole-batch rule and returns either
// the normalized submission or a *ValidationError listing all violations.
func (v *Validator) Validate(sub Submission) (ValidSubmission, error) {
	var issues []Issue

	addIssue := func(path, format string, args ...any) {
		issues = append(issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	testDate, err := ParseTestDate(sub.TestDate)
	if err != nil {
		addIssue("testDate", "Invalid date format")
	} else if testDate.After(v.now()) {
		addIssue("testDate", "Test date cannot be in the future")
	}

	if len(sub.Nutrients) == 0 {
		addIssue("nutrients", "Add at least one nutrient")
	}

	entries := make([]Entry, 0, len(sub.Nutrients))
	firstSeen := make(map[string]string, len(sub.Nutrients))

	for i, raw := range sub.Nutrients {
		path := fmt.Sprintf("nutrients[%d]", i)
		entry := Entry{
			Name:  strings.TrimSpace(raw.Name),
			Value: raw.Value,
			Unit:  strings.TrimSpace(raw.Unit),
		}

		nameOK := entry.Name != ""
		if !nameOK {
			addIssue(path+".name", "Nutrient name is required")
		}

		valueOK := true

		switch {
		case math.IsNaN(entry.Value) || math.IsInf(entry.Value, 0):
			addIssue(path+".value", "Value must be a finite number")

			valueOK = false
		case entry.Value <= 0:
			addIssue(path+".value", "Value must be positive")

			valueOK = false
		}

		unitOK := entry.Unit != ""
		if !unitOK {
			addIssue(path+".unit", "Unit is required")
		}

		if nameOK {
			if rec, ok := v.table.Lookup(entry.Name).(Recognized); ok {
				r := rec.Range

				if valueOK && entry.Value > r.PlausibleMax() {
					addIssue(path+".value",
						"Value seems unusually high for %s. Please verify the units and value.", r.Name)
				}

				if unitOK {
					if UnitsEqual(entry.Unit, r.Unit) {
						entry.Unit = r.Unit
					} else {
						addIssue(path+".unit", "Expected unit %s for %s", r.Unit, r.Name)
					}
				}

				entry.Name = r.Name
			}

			key := NormalizeName(entry.Name)
			if first, dup := firstSeen[key]; dup {
				addIssue("nutrients", "Duplicate nutrients are not allowed: %s appears more than once", first)
			} else {
				firstSeen[key] = entry.Name
			}
		}

		entries = append(entries, entry)
	}

	if len(issues) > 0 {
		return ValidSubmission{}, &ValidationError{Issues: issues}
	}

	return ValidSubmission{TestDate: testDate, Entries: entries}, nil
}

// ParseTestDate parses an RFC 3339 date-time, or a bare YYYY-MM-DD date as
// midnight UTC.
func ParseTestDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid test date %q: %w", s, err)
	}

	return t, nil
}
