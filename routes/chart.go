/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/humaidq/nutrimark/db"
	"github.com/humaidq/nutrimark/nutrient"
)

const chartDateFormat = "Jan 2, 2006"

// latestPerDay keeps one point per test date, preferring the most recently
// stored result, sorted by test date ascending.
func latestPerDay(points []db.NutrientHistoryPoint) []db.NutrientHistoryPoint {
	byDay := make(map[string]db.NutrientHistoryPoint, len(points))

	for _, p := range points {
		key := p.TestDate.UTC().Format("2006-01-02")
		existing, exists := byDay[key]
		if !exists || p.CreatedAt.After(existing.CreatedAt) {
			byDay[key] = p
		}
	}

	out := make([]db.NutrientHistoryPoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].TestDate.Before(out[j].TestDate)
	})

	return out
}

// chartYAxisBounds pads the normal range by 10% and widens it when the data
// falls outside. It returns nil bounds when no range is known.
func chartYAxisBounds(points []db.NutrientHistoryPoint, lookup nutrient.Lookup) (any, any) {
	rec, ok := lookup.(nutrient.Recognized)
	if !ok || len(points) == 0 {
		return nil, nil
	}

	dataMin, dataMax := points[0].Value, points[0].Value
	for _, p := range points[1:] {
		dataMin = min(dataMin, p.Value)
		dataMax = max(dataMax, p.Value)
	}

	padding := (rec.Range.NormalMax - rec.Range.NormalMin) * 0.1
	minVal := rec.Range.NormalMin - padding
	maxVal := rec.Range.NormalMax + padding

	if dataMin < minVal {
		minVal = dataMin - (dataMax-dataMin)*0.05
	}

	if dataMax > maxVal {
		maxVal = dataMax + (dataMax-dataMin)*0.05
	}

	return max(minVal, 0), maxVal
}

// generateNutrientChart renders a line chart of a nutrient's history. Known
// nutrients get dashed mark lines at their normal min and max.
func generateNutrientChart(name string, points []db.NutrientHistoryPoint, lookup nutrient.Lookup) (string, error) {
	if len(points) == 0 {
		return "", errNoChartData
	}

	points = latestPerDay(points)

	unitLabel := points[len(points)-1].Unit

	rec, recognized := lookup.(nutrient.Recognized)
	if recognized {
		name = rec.Range.Name
		unitLabel = rec.Range.Unit
	}

	xAxis := make([]string, 0, len(points))
	yData := make([]opts.LineData, 0, len(points))

	for _, p := range points {
		xAxis = append(xAxis, p.TestDate.Format(chartDateFormat))
		yData = append(yData, opts.LineData{Value: p.Value})
	}

	yAxisMin, yAxisMax := chartYAxisBounds(points, lookup)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: name,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: unitLabel,
			Min:  yAxisMin,
			Max:  yAxisMax,
		}),
	)

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{
			Smooth:     opts.Bool(true),
			ShowSymbol: opts.Bool(true),
		}),
		charts.WithMarkPointNameTypeItemOpts(
			opts.MarkPointNameTypeItem{Name: "Max", Type: "max"},
			opts.MarkPointNameTypeItem{Name: "Min", Type: "min"},
		),
	}

	if recognized {
		markLineItems := []interface{}{
			opts.MarkLineNameYAxisItem{Name: "Normal Min", YAxis: rec.Range.NormalMin},
			opts.MarkLineNameYAxisItem{Name: "Normal Max", YAxis: rec.Range.NormalMax},
		}

		seriesOpts = append(seriesOpts, func(s *charts.SingleSeries) {
			s.MarkLines = &opts.MarkLines{
				Data: markLineItems,
				MarkLineStyle: opts.MarkLineStyle{
					Symbol: []string{"none", "none"},
					LineStyle: &opts.LineStyle{
						Color: "rgba(128, 128, 128, 0.6)",
						Type:  "dashed",
						Width: 1.5,
					},
				},
			}
		})
	}

	line.SetXAxis(xAxis).
		AddSeries(name, yData).
		SetSeriesOptions(seriesOpts...)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}
