// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"

	"github.com/slabot/slabot/cmd/slabot/cli"
	"github.com/slabot/slabot/lib/markup"
	"github.com/slabot/slabot/report"
)

func (a *app) previewCommand() *cli.Command {
	const usage = "slabot preview <summary|detail> [flags]"
	var (
		raw   bool
		plain bool
		width int
	)
	return &cli.Command{
		Name:    "preview",
		Summary: "Render a report in the terminal without delivering it",
		Description: `Fetch the metrics and print a report as it would appear in the chat.

Nothing is sent to Telegram, so no token is needed.`,
		Usage: usage,
		Flags: a.flags("preview", func(flags *pflag.FlagSet) {
			flags.BoolVar(&raw, "html", false, "print the Telegram HTML instead of rendering it")
			flags.BoolVar(&plain, "plain", false, "render without colors or styles")
			flags.IntVar(&width, "width", 0, "wrap lines at this many columns (default: terminal width)")
		}),
		Examples: []cli.Example{
			{Description: "Check the detail report before the morning run", Command: "slabot preview detail"},
			{Description: "Dump the exact message body", Command: "slabot preview summary --html"},
		},
		Run: func(args []string) error {
			name, err := oneArg(args, usage)
			if err != nil {
				return err
			}
			var kind report.Kind
			switch name {
			case string(report.Summary), string(report.Detail):
				kind = report.Kind(name)
			default:
				return fmt.Errorf("unknown report %q (want summary or detail)", name)
			}

			ctx, stop := a.context()
			defer stop()

			cfg, logger, err := a.setup()
			if err != nil {
				return err
			}
			generator, err := newGenerator(cfg, logger)
			if err != nil {
				return err
			}
			generated, err := generator.Generate(ctx, kind)
			if err != nil {
				return err
			}

			if raw {
				fmt.Fprint(a.stdout, generated.Text)
				return nil
			}

			profile := termenv.Ascii
			if !plain && cli.IsTerminal(a.stdout) {
				profile = termenv.NewOutput(a.stdout).EnvColorProfile()
			}
			if width == 0 {
				width = cli.TerminalWidth(a.stdout)
			}
			fmt.Fprintln(a.stdout, markup.RenderTerminal(generated.Text, markup.TerminalOptions{
				Output:  a.stdout,
				Profile: profile,
				Width:   width,
			}))
			logger.Debug("report previewed",
				"report", string(kind),
				"window", generated.Window.Label(),
				"fingerprint", generated.Fingerprint,
			)
			return nil
		},
	}
}
