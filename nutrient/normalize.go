/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package nutrient

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName returns the comparison key for a nutrient name: surrounding
// and repeated whitespace removed, NFKC-normalized and case-folded.
func NormalizeName(name string) string {
	return foldKey(strings.Join(strings.Fields(name), " "))
}

// UnitsEqual compares two units ignoring case and Unicode compatibility
// differences, so the micro sign and Greek mu match.
func UnitsEqual(a, b string) bool {
	return foldKey(strings.TrimSpace(a)) == foldKey(strings.TrimSpace(b))
}

// Casers carry state, so a fresh one is built per call.
func foldKey(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}
