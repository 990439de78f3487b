/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/nutrimark/nutrient"
)

var CmdRanges = newRangesCommand()

func newRangesCommand() *cli.Command {
	return &cli.Command{
		Name:  "ranges",
		Usage: "Print the active nutrient reference ranges",
		Flags: []cli.Flag{
			rangesFileFlag(),
		},
		Action: printRanges,
	}
}

func formatBand(b nutrient.Band) string {
	if math.IsInf(b.Max, 1) {
		return "> " + formatFloat(b.Min)
	}

	return formatFloat(b.Min) + " - " + formatFloat(b.Max)
}

func printRanges(_ context.Context, cmd *cli.Command) error {
	tbl, err := loadTable(cmd)
	if err != nil {
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NUTRIENT", "UNIT", "NORMAL", "DEFICIENT", "INSUFFICIENT", "EXCESS")

	for _, r := range tbl.Ranges() {
		t.Row(
			r.Name,
			r.Unit,
			formatFloat(r.NormalMin)+" - "+formatFloat(r.NormalMax),
			formatBand(r.Bands.Deficient),
			formatBand(r.Bands.Insufficient),
			formatBand(r.Bands.Excess),
		)
	}

	fmt.Fprintln(cmd.Root().Writer, t.String())

	return nil
}
