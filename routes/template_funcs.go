/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	htmltemplate "html/template"
	"strconv"
	"time"

	"github.com/humaidq/nutrimark/nutrient"
)

// TemplateFuncs returns the helpers used by the HTML templates.
func TemplateFuncs() htmltemplate.FuncMap {
	return htmltemplate.FuncMap{
		"formatValue": func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		},
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"statusClass": func(s nutrient.Status) string {
			return "status-" + string(s)
		},
	}
}
