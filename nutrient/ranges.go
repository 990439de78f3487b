/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package nutrient

import (
	"fmt"
	"math"
	"sort"
)

// PlausibilityFactor bounds manual entries to this multiple of the normal
// band's maximum.
const PlausibilityFactor = 3

// BuiltinRanges returns the reference ranges shipped with the application.
// This is the authoritative source of truth for the seed nutrients.
func BuiltinRanges() []NutrientRange {
	return []NutrientRange{
		{
			Name: "Vitamin D", Unit: "ng/mL",
			NormalMin: 30, NormalMax: 100,
			Bands: Bands{
				Deficient:    Band{Min: 0, Max: 20},
				Insufficient: Band{Min: 21, Max: 29},
				Normal:       Band{Min: 30, Max: 100},
				Excess:       openBand(101),
			},
		},
		{
			Name: "Vitamin B12", Unit: "pg/mL",
			NormalMin: 200, NormalMax: 900,
			Bands: Bands{
				Deficient:    Band{Min: 0, Max: 200},
				Insufficient: Band{Min: 201, Max: 300},
				Normal:       Band{Min: 301, Max: 900},
				Excess:       openBand(901),
			},
		},
		{
			Name: "Iron", Unit: "µg/dL",
			NormalMin: 60, NormalMax: 170,
			Bands: Bands{
				Deficient:    Band{Min: 0, Max: 60},
				Insufficient: Band{Min: 61, Max: 80},
				Normal:       Band{Min: 81, Max: 170},
				Excess:       openBand(171),
			},
		},
		{
			Name: "Ferritin", Unit: "ng/mL",
			NormalMin: 20, NormalMax: 200,
			Bands: Bands{
				Deficient:    Band{Min: 0, Max: 20},
				Insufficient: Band{Min: 21, Max: 30},
				Normal:       Band{Min: 31, Max: 200},
				Excess:       openBand(201),
			},
		},
		{
			Name: "Calcium", Unit: "mg/dL",
			NormalMin: 8.5, NormalMax: 10.5,
			Bands: Bands{
				Deficient:    Band{Min: 0, Max: 8.4},
				Insufficient: Band{Min: 8.5, Max: 8.9},
				Normal:       Band{Min: 9.0, Max: 10.5},
				Excess:       openBand(10.6),
			},
		},
	}
}

// Lookup is the outcome of a table lookup: either Recognized or
// Unrecognized.
type Lookup interface {
	isLookup()
}

// Recognized carries the reference range matched by a lookup.
type Recognized struct {
	Range NutrientRange
}

// Unrecognized carries the name that had no reference range.
type Unrecognized struct {
	Name string
}

func (Recognized) isLookup()   {}
func (Unrecognized) isLookup() {}

// Table is an immutable set of reference ranges keyed by normalized name.
// It is safe for concurrent use.
type Table struct {
	byKey map[string]NutrientRange
}

var builtinTable = mustNewTable(BuiltinRanges()...)

// DefaultTable returns the table of built-in reference ranges.
func DefaultTable() *Table {
	return builtinTable
}

// NewTable builds a table, checking every range's band invariants.
func NewTable(ranges ...NutrientRange) (*Table, error) {
	t := &Table{byKey: make(map[string]NutrientRange, len(ranges))}

	for _, r := range ranges {
		if err := checkRange(r); err != nil {
			return nil, err
		}

		key := NormalizeName(r.Name)
		if _, exists := t.byKey[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRange, r.Name)
		}

		t.byKey[key] = r
	}

	return t, nil
}

func mustNewTable(ranges ...NutrientRange) *Table {
	t, err := NewTable(ranges...)
	if err != nil {
		panic(err)
	}

	return t
}

// With returns a new table containing t's ranges plus extra. An extra range
// replaces an existing one with the same normalized name and keeps that
// range's spelling of the name.
func (t *Table) With(extra ...NutrientRange) (*Table, error) {
	merged := make(map[string]NutrientRange, len(t.byKey)+len(extra))
	for key, r := range t.byKey {
		merged[key] = r
	}

	seen := make(map[string]bool, len(extra))

	for _, r := range extra {
		if err := checkRange(r); err != nil {
			return nil, err
		}

		key := NormalizeName(r.Name)
		if seen[key] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRange, r.Name)
		}

		seen[key] = true

		if existing, ok := t.byKey[key]; ok {
			r.Name = existing.Name
		}

		merged[key] = r
	}

	return &Table{byKey: merged}, nil
}

// Lookup resolves a nutrient name to its reference range.
func (t *Table) Lookup(name string) Lookup {
	if r, ok := t.byKey[NormalizeName(name)]; ok {
		return Recognized{Range: r}
	}

	return Unrecognized{Name: name}
}

// Ranges returns all ranges sorted by name.
func (t *Table) Ranges() []NutrientRange {
	out := make([]NutrientRange, 0, len(t.byKey))
	for _, r := range t.byKey {
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out
}

// Len returns the number of ranges in the table.
func (t *Table) Len() int {
	return len(t.byKey)
}

func checkRange(r NutrientRange) error {
	if NormalizeName(r.Name) == "" {
		return ErrEmptyRangeName
	}

	if NormalizeName(r.Unit) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyRangeUnit, r.Name)
	}

	b := r.Bands

	bounds := []float64{
		b.Deficient.Min, b.Deficient.Max,
		b.Insufficient.Min, b.Insufficient.Max,
		b.Normal.Min, b.Normal.Max,
		b.Excess.Min, r.NormalMin, r.NormalMax,
	}
	for _, v := range bounds {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s has a non-finite bound", ErrBandOrder, r.Name)
		}
	}

	if math.IsNaN(b.Excess.Max) || math.IsInf(b.Excess.Max, -1) {
		return fmt.Errorf("%w: %s excess max must be a number or open", ErrBandOrder, r.Name)
	}

	switch {
	case b.Deficient.Min < 0:
		return fmt.Errorf("%w: %s deficient band starts below zero", ErrBandOrder, r.Name)
	case b.Deficient.Max >= b.Insufficient.Max:
		return fmt.Errorf("%w: %s deficient max must be below insufficient max", ErrBandOrder, r.Name)
	case b.Insufficient.Max > b.Normal.Max:
		return fmt.Errorf("%w: %s insufficient max must not exceed normal max", ErrBandOrder, r.Name)
	case b.Normal.Max >= b.Excess.Min:
		return fmt.Errorf("%w: %s normal max must be below excess min", ErrBandOrder, r.Name)
	case r.NormalMin > r.NormalMax:
		return fmt.Errorf("%w: %s normal min exceeds normal max", ErrBandOrder, r.Name)
	}

	for _, band := range []Band{b.Deficient, b.Insufficient, b.Normal, b.Excess} {
		if band.Min > band.Max {
			return fmt.Errorf("%w: %s band min exceeds max", ErrBandOrder, r.Name)
		}
	}

	return nil
}
