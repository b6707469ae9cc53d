// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/slabot/slabot/lib/clock"
)

// Command is a parsed bot command.
type Command struct {
	// Name is the command without its slash or mention, e.g. "start".
	Name string
	// Args is the text after the command, trimmed.
	Args   string
	ChatID string
	From   *User
}

// CommandHandler handles one command invocation.
type CommandHandler func(ctx context.Context, command Command)

// Updater is the part of Client the Poller uses.
type Updater interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error)
}

// PollerConfig holds configuration for creating a Poller.
type PollerConfig struct {
	Updater Updater
	// Timeout is the long-poll hold time. Zero means 30s.
	Timeout time.Duration
	// Username is the bot's username. Commands addressed to another bot
	// ("/start@otherbot") are ignored. Empty accepts every mention.
	Username string
	// Clock paces retries. If nil, clock.Real() is used.
	Clock  clock.Clock
	Logger *slog.Logger
}

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Poller dispatches commands from getUpdates to handlers.
type Poller struct {
	updater  Updater
	timeout  time.Duration
	username string
	clock    clock.Clock
	logger   *slog.Logger

	mu       sync.Mutex
	handlers map[string]CommandHandler
	inflight sync.WaitGroup
}

// NewPoller creates a Poller with no handlers.
func NewPoller(config PollerConfig) (*Poller, error) {
	if config.Updater == nil {
		return nil, fmt.Errorf("telegram: Updater is required")
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pollClock := config.Clock
	if pollClock == nil {
		pollClock = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		updater:  config.Updater,
		timeout:  timeout,
		username: strings.TrimPrefix(config.Username, "@"),
		clock:    pollClock,
		logger:   logger,
		handlers: make(map[string]CommandHandler),
	}, nil
}

// Handle registers handler for the named command (without slash).
func (p *Poller) Handle(name string, handler CommandHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[strings.ToLower(name)] = handler
}

// Run polls until ctx is cancelled, then waits for running handlers to
// return. Poll errors are logged and retried with backoff.
func (p *Poller) Run(ctx context.Context) error {
	defer p.inflight.Wait()

	var offset int64
	backoff := initialBackoff
	for {
		if ctx.Err() != nil {
			return nil
		}

		updates, err := p.updater.GetUpdates(ctx, offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			wait := backoff
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
				wait = apiErr.RetryAfter
			}
			p.logger.Error("getUpdates failed, retrying", "error", err, "backoff", wait)
			if closer, ok := p.updater.(interface{ CloseIdleConnections() }); ok {
				closer.CloseIdleConnections()
			}
			select {
			case <-ctx.Done():
				return nil
			case <-p.clock.After(wait):
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = initialBackoff

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			p.dispatch(ctx, update)
		}
	}
}

func (p *Poller) dispatch(ctx context.Context, update Update) {
	message := update.Message
	if message == nil || message.Text == "" {
		return
	}
	name, mention, args, ok := ParseCommand(message.Text)
	if !ok {
		return
	}
	if mention != "" && p.username != "" && !strings.EqualFold(mention, p.username) {
		return
	}

	p.mu.Lock()
	handler, found := p.handlers[name]
	p.mu.Unlock()
	if !found {
		p.logger.Debug("ignoring unknown command", "command", name, "chat_id", message.Chat.ID)
		return
	}

	command := Command{
		Name:   name,
		Args:   args,
		ChatID: strconv.FormatInt(message.Chat.ID, 10),
		From:   message.From,
	}
	p.logger.Info("received command", "command", name, "chat_id", command.ChatID, "update_id", update.UpdateID)

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		handler(ctx, command)
	}()
}

// ParseCommand splits "/name@mention args" into its parts. The name is
// lower-cased. ok is false when text does not start with a command.
func ParseCommand(text string) (name, mention, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") || len(text) == 1 {
		return "", "", "", false
	}
	head, rest := text[1:], ""
	if index := strings.IndexFunc(head, unicode.IsSpace); index >= 0 {
		head, rest = head[:index], head[index:]
	}
	name, mention, _ = strings.Cut(head, "@")
	if name == "" {
		return "", "", "", false
	}
	return strings.ToLower(name), mention, strings.TrimSpace(rest), true
}
