// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/slabot/slabot/cmd/slabot/cli"
	"github.com/slabot/slabot/lib/config"
	"github.com/slabot/slabot/lib/version"
)

// app carries the flags every command shares and the process streams.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool

	// signals overrides the shutdown context; tests cancel it directly.
	signals func() (context.Context, context.CancelFunc)
}

// Root builds the slabot command tree writing to stdout and stderr.
func Root(stdout, stderr io.Writer) *cli.Command {
	a := &app{stdout: stdout, stderr: stderr}
	return a.root()
}

func (a *app) root() *cli.Command {
	return &cli.Command{
		Name: "slabot",
		Description: `slabot: daily ticket SLA reports for Telegram.

Fetches open and closed ticket counts, ranks out-of-SLA categories by
SLA bucket, and posts a summary and a detail report to a chat every
morning and whenever someone sends /start.`,
		HelpOutput: a.stderr,
		Subcommands: []*cli.Command{
			a.serveCommand(),
			a.sendCommand(),
			a.previewCommand(),
			a.windowCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Fprintf(a.stdout, "slabot %s\n", version.Full())
					return nil
				},
			},
		},
	}
}

// flags returns a Flags func registering --config and --verbose before
// whatever extra adds.
func (a *app) flags(name string, extra func(*pflag.FlagSet)) func() *pflag.FlagSet {
	return func() *pflag.FlagSet {
		flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
		flags.StringVarP(&a.configPath, "config", "c", "", "configuration file (default $"+config.EnvConfigPath+")")
		flags.BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")
		if extra != nil {
			extra(flags)
		}
		return flags
	}
}

// setup builds the logger and loads the configuration.
func (a *app) setup() (*config.Config, *slog.Logger, error) {
	logger := cli.NewLogger(a.stderr, a.verbose)

	var cfg *config.Config
	var err error
	if a.configPath != "" {
		cfg, err = config.LoadFile(a.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("configuration loaded",
		"environment", string(cfg.Environment),
		"timezone", cfg.Timezone,
		"schedule", cfg.Schedule,
	)
	return cfg, logger, nil
}

// context returns the context commands run under: cancelled on SIGINT
// or SIGTERM.
func (a *app) context() (context.Context, context.CancelFunc) {
	if a.signals != nil {
		return a.signals()
	}
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// oneArg checks that exactly one positional argument names a choice.
func oneArg(args []string, usage string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: %s", usage)
	}
	return args[0], nil
}
