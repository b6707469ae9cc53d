// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/slabot/slabot/bot"
	"github.com/slabot/slabot/cmd/slabot/cli"
	"github.com/slabot/slabot/opsapi"
)

func (a *app) sendCommand() *cli.Command {
	const usage = "slabot send <summary|detail|all> [flags]"
	return &cli.Command{
		Name:    "send",
		Summary: "Deliver reports now and exit",
		Description: `Generate and deliver reports to the configured chat once.

"all" sends the summary and then the detail report. A failed summary is
reported in the chat; the detail report is still generated and sent.`,
		Usage: usage,
		Flags: a.flags("send", nil),
		Examples: []cli.Example{
			{Description: "Deliver the morning summary by hand", Command: "slabot send summary"},
		},
		Run: func(args []string) error {
			name, err := oneArg(args, usage)
			if err != nil {
				return err
			}
			kinds, ok := opsapi.Kinds(name)
			if !ok {
				return fmt.Errorf("unknown report %q (want summary, detail or all)", name)
			}

			ctx, stop := a.context()
			defer stop()

			cfg, logger, err := a.setup()
			if err != nil {
				return err
			}
			client, release, err := openTelegram(cfg, logger)
			if err != nil {
				return err
			}
			defer release()

			generator, err := newGenerator(cfg, logger)
			if err != nil {
				return err
			}
			shell, err := newShell(cfg, generator, client, logger)
			if err != nil {
				return err
			}

			runErr := shell.Run(ctx, bot.TriggerCLI, kinds...)
			status := shell.Status()
			for _, kind := range kinds {
				delivery := status.Last[kind]
				switch {
				case delivery.Delivered:
					fmt.Fprintf(a.stdout, "%s: delivered (%s)\n", kind, delivery.Fingerprint)
				case delivery.Error != "":
					fmt.Fprintf(a.stdout, "%s: failed: %s\n", kind, delivery.Error)
				default:
					fmt.Fprintf(a.stdout, "%s: nothing to send\n", kind)
				}
			}
			return runErr
		},
	}
}
