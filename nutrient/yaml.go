/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package nutrient

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// rangesFile is the on-disk layout of additional reference ranges:
//
//	nutrients:
//	  - name: Zinc
//	    unit: µg/dL
//	    normal: {min: 60, max: 120}
//	    bands:
//	      deficient: {min: 0, max: 50}
//	      insufficient: {min: 51, max: 59}
//	      normal: {min: 60, max: 120}
//	      excess: {min: 121}
type rangesFile struct {
	Nutrients []rangeDoc `yaml:"nutrients"`
}

type rangeDoc struct {
	Name   string   `yaml:"name"`
	Unit   string   `yaml:"unit"`
	Normal *bandDoc `yaml:"normal"`
	Bands  struct {
		Deficient    bandDoc `yaml:"deficient"`
		Insufficient bandDoc `yaml:"insufficient"`
		Normal       bandDoc `yaml:"normal"`
		Excess       bandDoc `yaml:"excess"`
	} `yaml:"bands"`
}

type bandDoc struct {
	Min float64  `yaml:"min"`
	Max *float64 `yaml:"max"`
}

func (b bandDoc) band(name, label string, open bool) (Band, error) {
	if b.Max == nil {
		if open {
			return openBand(b.Min), nil
		}

		return Band{}, fmt.Errorf("%w: %s %s band", ErrMissingBandMax, name, label)
	}

	return Band{Min: b.Min, Max: *b.Max}, nil
}

// LoadRangesYAML decodes reference ranges from r. Unknown keys are rejected.
// Ranges are not checked here; NewTable and Table.With do that.
func LoadRangesYAML(r io.Reader) ([]NutrientRange, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file rangesFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRangesInFile
		}

		return nil, fmt.Errorf("failed to decode ranges: %w", err)
	}

	if len(file.Nutrients) == 0 {
		return nil, ErrNoRangesInFile
	}

	ranges := make([]NutrientRange, 0, len(file.Nutrients))

	for _, doc := range file.Nutrients {
		var (
			nr  = NutrientRange{Name: doc.Name, Unit: doc.Unit}
			err error
		)

		if nr.Bands.Deficient, err = doc.Bands.Deficient.band(doc.Name, "deficient", false); err != nil {
			return nil, err
		}
		if nr.Bands.Insufficient, err = doc.Bands.Insufficient.band(doc.Name, "insufficient", false); err != nil {
			return nil, err
		}
		if nr.Bands.Normal, err = doc.Bands.Normal.band(doc.Name, "normal", false); err != nil {
			return nil, err
		}
		if nr.Bands.Excess, err = doc.Bands.Excess.band(doc.Name, "excess", true); err != nil {
			return nil, err
		}

		// The headline range defaults to the normal band.
		nr.NormalMin, nr.NormalMax = nr.Bands.Normal.Min, nr.Bands.Normal.Max
		if doc.Normal != nil {
			nr.NormalMin = doc.Normal.Min
			if doc.Normal.Max != nil {
				nr.NormalMax = *doc.Normal.Max
			}
		}

		ranges = append(ranges, nr)
	}

	return ranges, nil
}

// LoadTable returns the built-in table extended with the ranges in path.
// An empty path returns the built-in table.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ranges file: %w", err)
	}
	defer f.Close()

	extra, err := LoadRangesYAML(f)
	if err != nil {
		return nil, err
	}

	return DefaultTable().With(extra...)
}
