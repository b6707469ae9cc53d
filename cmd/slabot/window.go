// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/slabot/slabot/cmd/slabot/cli"
	"github.com/slabot/slabot/lib/window"
)

func (a *app) windowCommand() *cli.Command {
	var at string
	return &cli.Command{
		Name:    "window",
		Summary: "Print the date window and next scheduled run",
		Flags: a.flags("window", func(flags *pflag.FlagSet) {
			flags.StringVar(&at, "at", "", "compute for this RFC 3339 time instead of now")
		}),
		Examples: []cli.Example{
			{Description: "What would a report generated just after midnight cover?", Command: "slabot window --at 2026-10-18T00:05:00+07:00"},
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("window takes no arguments")
			}
			now := time.Now()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = parsed
			}

			cfg, _, err := a.setup()
			if err != nil {
				return err
			}
			current := window.Calculate(now, cfg.Location(), cfg.StartDate())
			next, err := cfg.CronSchedule().Next(now)
			if err != nil {
				return err
			}

			table := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(table, "label\t%s\n", current.Label())
			fmt.Fprintf(table, "start_date\t%s\n", current.StartDate())
			fmt.Fprintf(table, "end_date\t%s\n", current.EndDate())
			fmt.Fprintf(table, "timezone\t%s\n", cfg.Timezone)
			fmt.Fprintf(table, "next_daily\t%s\n", next.In(cfg.Location()).Format(time.RFC3339))
			return table.Flush()
		},
	}
}
