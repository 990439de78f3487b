/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package nutrient

// NonNormalNames returns, in result order, the names of nutrients whose
// status is not normal. This is what recommendation generators consume.
func NonNormalNames(results []ClassifiedResult) []string {
	names := make([]string, 0, len(results))

	for _, r := range results {
		if !r.IsNormal() {
			names = append(names, r.NutrientName)
		}
	}

	return names
}

// DeficientNames returns the names of nutrients classified as deficient.
func DeficientNames(results []ClassifiedResult) []string {
	var names []string

	for _, r := range results {
		if r.Status == StatusDeficient {
			names = append(names, r.NutrientName)
		}
	}

	return names
}

// CountByStatus tallies results per status.
func CountByStatus(results []ClassifiedResult) map[Status]int {
	counts := make(map[Status]int, 4)
	for _, r := range results {
		counts[r.Status]++
	}

	return counts
}
