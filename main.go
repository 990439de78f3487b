/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/nutrimark/cmd"
	"github.com/humaidq/nutrimark/logging"
)

func main() {
	logging.Init()

	if err := cmd.LoadEnv(); err != nil {
		log.Fatal(err)
	}

	app := &cli.Command{
		Name:  "nutrimark",
		Usage: "Nutrimark - blood test nutrient tracking",
		Flags: []cli.Flag{
			cmd.LogLevelFlag(),
		},
		Before: cmd.ApplyLogLevel,
		Commands: []*cli.Command{
			cmd.CmdStart,
			cmd.CmdMigrate,
			cmd.CmdClassify,
			cmd.CmdRanges,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
