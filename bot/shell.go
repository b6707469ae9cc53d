// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/slabot/slabot/lib/clock"
	"github.com/slabot/slabot/report"
	"github.com/slabot/slabot/telegram"
)

// StartAcknowledgement is posted to the chat that sent /start.
const StartAcknowledgement = "Bot is running and will send the combined report."

// Reporter generates reports.
type Reporter interface {
	Generate(ctx context.Context, kind report.Kind) (report.Report, error)
}

// Sender delivers text to a chat. parseMode "" sends plain text.
type Sender interface {
	Send(ctx context.Context, chatID, text, parseMode string) error
}

// ShellConfig holds configuration for creating a Shell.
type ShellConfig struct {
	Reporter Reporter
	Sender   Sender
	// ChatID is the destination of every report.
	ChatID string
	// Clock timestamps deliveries. If nil, clock.Real() is used.
	Clock  clock.Clock
	Logger *slog.Logger
}

// Shell runs report invocations.
type Shell struct {
	reporter Reporter
	sender   Sender
	chatID   string
	clock    clock.Clock
	logger   *slog.Logger
	status   *statusTracker
}

// NewShell creates a Shell.
func NewShell(config ShellConfig) (*Shell, error) {
	if config.Reporter == nil {
		return nil, fmt.Errorf("bot: Reporter is required")
	}
	if config.Sender == nil {
		return nil, fmt.Errorf("bot: Sender is required")
	}
	if config.ChatID == "" {
		return nil, fmt.Errorf("bot: ChatID is required")
	}
	shellClock := config.Clock
	if shellClock == nil {
		shellClock = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Shell{
		reporter: config.Reporter,
		sender:   config.Sender,
		chatID:   config.ChatID,
		clock:    shellClock,
		logger:   logger,
		status:   newStatusTracker(),
	}, nil
}

// HandleStart acknowledges /start in requestChatID, then delivers the
// summary and the detail report to the destination chat.
func (s *Shell) HandleStart(ctx context.Context, requestChatID string) {
	if err := s.sender.Send(ctx, requestChatID, StartAcknowledgement, ""); err != nil {
		s.logger.Error("acknowledging start failed", "chat_id", requestChatID, "error", err)
	}
	_ = s.Run(ctx, TriggerStart, report.Summary, report.Detail)
}

// HandleCommand adapts HandleStart to telegram.CommandHandler.
func (s *Shell) HandleCommand(ctx context.Context, command telegram.Command) {
	s.HandleStart(ctx, command.ChatID)
}

// RunDaily delivers the summary.
func (s *Shell) RunDaily(ctx context.Context) {
	_ = s.Run(ctx, TriggerDaily, report.Summary)
}

// Run delivers the given reports in order, each after the previous one
// has finished. Reports fail independently: a failed summary is
// reported in chat, a failed detail report is only logged, and neither
// stops the next report. The first error is returned for callers that
// exit on failure.
func (s *Shell) Run(ctx context.Context, trigger Trigger, kinds ...report.Kind) error {
	runID := uuid.NewString()
	logger := s.logger.With("run_id", runID, "trigger", string(trigger))

	s.status.begin()
	defer s.status.end()

	var firstErr error
	for _, kind := range kinds {
		if err := s.deliver(ctx, logger, runID, trigger, kind); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Shell) deliver(ctx context.Context, logger *slog.Logger, runID string, trigger Trigger, kind report.Kind) error {
	delivery := Delivery{
		RunID:     runID,
		Trigger:   trigger,
		Kind:      kind,
		StartedAt: s.clock.Now(),
	}
	defer func() {
		delivery.FinishedAt = s.clock.Now()
		s.status.record(delivery)
	}()

	generated, err := s.reporter.Generate(ctx, kind)
	if err != nil {
		delivery.Error = err.Error()
		logger.Error("generating report failed", "kind", string(kind), "error", err)
		if kind == report.Summary {
			if sendErr := s.sender.Send(ctx, s.chatID, ErrorMessage(err), ""); sendErr != nil {
				logger.Error("sending error message failed", "chat_id", s.chatID, "error", sendErr)
			}
		}
		return fmt.Errorf("generating %s: %w", kind, err)
	}
	delivery.Fingerprint = generated.Fingerprint

	if generated.Text == "" {
		logger.Info("report is empty, nothing to send", "kind", string(kind))
		return nil
	}
	if err := s.sender.Send(ctx, s.chatID, generated.Text, telegram.ParseModeHTML); err != nil {
		delivery.Error = err.Error()
		logger.Error("sending report failed", "kind", string(kind), "chat_id", s.chatID, "error", err)
		return fmt.Errorf("sending %s: %w", kind, err)
	}

	delivery.Delivered = true
	logger.Info("report delivered",
		"kind", string(kind),
		"chat_id", s.chatID,
		"fingerprint", generated.Fingerprint,
		"end_date", generated.Window.EndDate(),
	)
	return nil
}

// ErrorMessage is the plain-text chat message for a failed summary.
func ErrorMessage(err error) string {
	return "Error fetching data: " + err.Error()
}

// Status returns recent deliveries.
func (s *Shell) Status() Status {
	return s.status.snapshot()
}
