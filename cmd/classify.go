/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/humaidq/nutrimark/analysis"
	"github.com/humaidq/nutrimark/nutrient"
)

var CmdClassify = newClassifyCommand()

func newClassifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "classify",
		Usage: "Validate and classify a blood test submission without a database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "submission file (JSON, or YAML with a .yaml/.yml extension)",
			},
			&cli.StringFlag{
				Name:  "now",
				Usage: "reference time for future-date checks (RFC 3339, defaults to the current time)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print results as JSON",
			},
			rangesFileFlag(),
		},
		Action: classify,
	}
}

type classifyOutput struct {
	TestDate  time.Time                   `json:"testDate"`
	Results   []nutrient.ClassifiedResult `json:"results"`
	NonNormal []string                    `json:"nonNormal"`
}

func classify(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("file")
	if path == "" {
		return errSubmissionFileMissing
	}

	now := time.Now
	if raw := cmd.String("now"); raw != "" {
		ref, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}

		now = func() time.Time { return ref }
	}

	table, err := loadTable(cmd)
	if err != nil {
		return err
	}

	sub, err := readSubmission(path)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer

	valid, err := nutrient.NewValidator(table, now).Validate(sub)
	if err != nil {
		var verr *nutrient.ValidationError
		if errors.As(err, &verr) {
			printIssues(out, verr.Issues)
			return fmt.Errorf("%w: %d issues", errInvalidSubmission, len(verr.Issues))
		}

		return err
	}

	stored, err := analysis.NewProcessor(table).Process(ctx, analysis.NewMemoryStore(), uuid.New(), valid.Entries)
	if err != nil {
		return err
	}

	results := analysis.Results(stored)

	if cmd.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return enc.Encode(classifyOutput{
			TestDate:  valid.TestDate,
			Results:   results,
			NonNormal: nutrient.NonNormalNames(results),
		})
	}

	printResults(out, results)

	return nil
}

// readSubmission decodes a submission file, choosing YAML or JSON by file
// extension. Unknown fields are rejected in both formats.
func readSubmission(path string) (nutrient.Submission, error) {
	var sub nutrient.Submission

	f, err := os.Open(path)
	if err != nil {
		return sub, fmt.Errorf("failed to open submission: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)

		if err := dec.Decode(&sub); err != nil {
			return sub, fmt.Errorf("failed to parse submission: %w", err)
		}
	default:
		dec := json.NewDecoder(f)
		dec.DisallowUnknownFields()

		if err := dec.Decode(&sub); err != nil {
			return sub, fmt.Errorf("failed to parse submission: %w", err)
		}
	}

	return sub, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func printResults(w io.Writer, results []nutrient.ClassifiedResult) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NUTRIENT", "VALUE", "NORMAL RANGE", "STATUS", "SEVERITY")

	for _, r := range results {
		severity := "-"
		if r.Severity != nil {
			severity = string(*r.Severity)
		}

		t.Row(
			r.NutrientName,
			formatFloat(r.Value)+" "+r.Unit,
			formatFloat(r.MinRange)+" - "+formatFloat(r.MaxRange),
			string(r.Status),
			severity,
		)
	}

	fmt.Fprintln(w, t.String())

	if names := nutrient.NonNormalNames(results); len(names) > 0 {
		fmt.Fprintf(w, "Outside normal range: %s\n", strings.Join(names, ", "))
	}
}

func printIssues(w io.Writer, issues []nutrient.Issue) {
	fmt.Fprintln(w, "Submission is invalid:")

	for _, issue := range issues {
		fmt.Fprintf(w, "  %s: %s\n", issue.Path, issue.Message)
	}
}
