/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package nutrient

// Headline range reported for nutrients with no reference data.
const (
	FallbackMinRange = 0
	FallbackMaxRange = 100
)

// Classify assigns a status and severity to value using the outcome of a
// table lookup. It never fails: unrecognized nutrients are classified by the
// fallback policy (normal when positive, deficient otherwise, no severity).
func Classify(lookup Lookup, value float64) Classification {
	switch l := lookup.(type) {
	case Recognized:
		return classifyInRange(l.Range, value)
	default:
		status := StatusDeficient
		if value > 0 {
			status = StatusNormal
		}

		return Classification{
			Status:   status,
			MinRange: FallbackMinRange,
			MaxRange: FallbackMaxRange,
		}
	}
}

// Classify looks name up in the table and classifies value against it.
func (t *Table) Classify(name string, value float64) Classification {
	return Classify(t.Lookup(name), value)
}

// Lower bands compare strictly below their own max, the excess band strictly
// above its own min. Anything else is normal.
func classifyInRange(r NutrientRange, value float64) Classification {
	b := r.Bands
	c := Classification{
		Status:   StatusNormal,
		MinRange: r.NormalMin,
		MaxRange: r.NormalMax,
	}

	switch {
	case value < b.Deficient.Max:
		c.Status = StatusDeficient

		switch {
		case value < b.Deficient.Max/2:
			c.Severity = severityPtr(SeveritySevere)
		case value < b.Deficient.Max*0.75:
			c.Severity = severityPtr(SeverityModerate)
		default:
			c.Severity = severityPtr(SeverityMild)
		}
	case value < b.Insufficient.Max:
		c.Status = StatusInsufficient
		c.Severity = severityPtr(SeverityMild)
	case value > b.Excess.Min:
		c.Status = StatusExcess

		switch {
		case value > b.Excess.Min*2:
			c.Severity = severityPtr(SeveritySevere)
		case value > b.Excess.Min*1.5:
			c.Severity = severityPtr(SeverityModerate)
		default:
			c.Severity = severityPtr(SeverityMild)
		}
	}

	return c
}

// ClassifyEntry classifies a single entry, keeping its original value and
// unit on the result.
func (t *Table) ClassifyEntry(e Entry) ClassifiedResult {
	return ClassifiedResult{
		NutrientName:   e.Name,
		Value:          e.Value,
		Unit:           e.Unit,
		Classification: t.Classify(e.Name, e.Value),
	}
}
