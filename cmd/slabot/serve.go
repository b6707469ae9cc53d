// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/slabot/slabot/bot"
	"github.com/slabot/slabot/cmd/slabot/cli"
	"github.com/slabot/slabot/opsapi"
	"github.com/slabot/slabot/telegram"
)

func (a *app) serveCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Summary: "Answer /start and deliver the daily summary",
		Description: `Run the bot until interrupted.

Long-polls Telegram for /start, delivers the summary on the configured
schedule, and serves the ops API when ops.listen is set.`,
		Flags: a.flags("serve", nil),
		Examples: []cli.Example{
			{Description: "Run with an explicit configuration", Command: "slabot serve --config /etc/slabot/slabot.yaml"},
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("serve takes no arguments")
			}
			ctx, stop := a.context()
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg, logger, err := a.setup()
	if err != nil {
		return err
	}

	client, release, err := openTelegram(cfg, logger)
	if err != nil {
		return err
	}
	defer release()

	me, err := client.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("telegram: verifying bot token: %w", err)
	}

	generator, err := newGenerator(cfg, logger)
	if err != nil {
		return err
	}
	shell, err := newShell(cfg, generator, client, logger)
	if err != nil {
		return err
	}

	poller, err := telegram.NewPoller(telegram.PollerConfig{
		Updater:  client,
		Timeout:  cfg.Telegram.PollTimeout,
		Username: me.Username,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	poller.Handle("start", shell.HandleCommand)

	scheduler, err := bot.NewScheduler(bot.SchedulerConfig{
		Schedule: cfg.CronSchedule(),
		Job:      shell.RunDaily,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var api *opsapi.API
	var server *opsapi.Server
	if cfg.Ops.Listen != "" {
		api, err = opsapi.New(opsapi.Config{
			Runner:     shell,
			Window:     generator.Window,
			RunContext: ctx,
			Logger:     logger,
		})
		if err != nil {
			return err
		}
		server, err = opsapi.NewServer(opsapi.ServerConfig{
			Address: cfg.Ops.Listen,
			Handler: api.Handler(),
			Logger:  logger,
		})
		if err != nil {
			return err
		}
	}

	var workers sync.WaitGroup
	failures := make(chan error, 3)
	start := func(name string, run func(context.Context) error) {
		workers.Add(1)
		go func() {
			defer workers.Done()
			if err := run(ctx); err != nil {
				failures <- fmt.Errorf("%s: %w", name, err)
			}
		}()
	}
	stopAll := func() {
		cancel()
		workers.Wait()
		if api != nil {
			api.Wait()
		}
	}

	if server != nil {
		start("ops api", server.Serve)
		select {
		case <-server.Ready():
		case err := <-failures:
			stopAll()
			return err
		case <-ctx.Done():
			stopAll()
			return nil
		}
	}
	start("poller", poller.Run)
	start("scheduler", scheduler.Run)
	if api != nil {
		api.SetReady(true)
	}

	logger.Info("slabot running",
		"bot", me.Username,
		"chat_id", cfg.Telegram.ChatID,
		"schedule", cfg.Schedule,
		"timezone", cfg.Timezone,
		"ops_listen", cfg.Ops.Listen,
	)

	var failure error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case failure = <-failures:
		logger.Error("component failed, shutting down", "error", failure)
	}
	if api != nil {
		api.SetReady(false)
	}
	stopAll()
	return failure
}
