// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"

	"github.com/slabot/slabot/bot"
	"github.com/slabot/slabot/lib/config"
	"github.com/slabot/slabot/lib/secret"
	"github.com/slabot/slabot/metrics"
	"github.com/slabot/slabot/report"
	"github.com/slabot/slabot/telegram"
)

func newGenerator(cfg *config.Config, logger *slog.Logger) (*report.Generator, error) {
	urls := make(map[metrics.Endpoint]string, len(metrics.Endpoints))
	for name, raw := range cfg.Endpoints.URLs() {
		urls[metrics.Endpoint(name)] = raw
	}
	client, err := metrics.NewClient(metrics.ClientConfig{
		URLs:    urls,
		Timeout: cfg.HTTP.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	return report.NewGenerator(report.GeneratorConfig{
		Fetcher:   client,
		Location:  cfg.Location(),
		StartDate: cfg.StartDate(),
		Table:     cfg.SLATable(),
		Excluded:  cfg.Report.ExcludedBuckets,
		TopN:      cfg.Report.TopN,
		Channel:   cfg.Report.Channel,
		Notice:    cfg.Report.Notice,
		Logger:    logger,
	})
}

// loadToken reads the bot token from the age-encrypted file, the plain
// file, or the environment, in that order of preference.
func loadToken(telegramConfig config.TelegramConfig) (*secret.Buffer, error) {
	switch {
	case telegramConfig.TokenFile != "" && telegramConfig.IdentityFile != "":
		return secret.ReadAgeFile(telegramConfig.TokenFile, telegramConfig.IdentityFile)
	case telegramConfig.TokenFile != "":
		return secret.ReadFile(telegramConfig.TokenFile)
	default:
		return secret.FromEnv(telegramConfig.TokenEnv)
	}
}

// openTelegram validates the delivery settings and returns a client.
// The returned func releases the token.
func openTelegram(cfg *config.Config, logger *slog.Logger) (*telegram.Client, func(), error) {
	if err := cfg.ValidateDelivery(); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	token, err := loadToken(cfg.Telegram)
	if err != nil {
		return nil, nil, err
	}
	client, err := telegram.NewClient(telegram.ClientConfig{
		APIURL: cfg.Telegram.APIURL,
		Token:  token,
		Logger: logger,
	})
	if err != nil {
		token.Close()
		return nil, nil, err
	}
	release := func() {
		client.CloseIdleConnections()
		if err := token.Close(); err != nil {
			logger.Warn("releasing bot token", "error", err)
		}
	}
	return client, release, nil
}

func newShell(cfg *config.Config, generator *report.Generator, sender bot.Sender, logger *slog.Logger) (*bot.Shell, error) {
	return bot.NewShell(bot.ShellConfig{
		Reporter: generator,
		Sender:   sender,
		ChatID:   cfg.Telegram.ChatID,
		Logger:   logger,
	})
}
