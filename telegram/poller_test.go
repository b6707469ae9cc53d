// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slabot/slabot/lib/clock"
	"github.com/slabot/slabot/lib/testutil"
)

type pollResult struct {
	updates []Update
	err     error
}

// scriptedUpdater answers GetUpdates from results in order, then blocks
// until the context ends.
type scriptedUpdater struct {
	results chan pollResult
	offsets chan int64
}

func newScriptedUpdater(results ...pollResult) *scriptedUpdater {
	updater := &scriptedUpdater{
		results: make(chan pollResult, len(results)),
		offsets: make(chan int64, 16),
	}
	for _, result := range results {
		updater.results <- result
	}
	return updater
}

func (s *scriptedUpdater) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	select {
	case s.offsets <- offset:
	default:
	}
	select {
	case result := <-s.results:
		return result.updates, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func textUpdate(id int64, chatID int64, text string) Update {
	return Update{UpdateID: id, Message: &Message{MessageID: id, Chat: Chat{ID: chatID}, Text: text}}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text    string
		name    string
		mention string
		args    string
		ok      bool
	}{
		{text: "/start", name: "start", ok: true},
		{text: "  /Start  ", name: "start", ok: true},
		{text: "/start@slabot", name: "start", mention: "slabot", ok: true},
		{text: "/start now please", name: "start", args: "now please", ok: true},
		{text: "/start\nnext line", name: "start", args: "next line", ok: true},
		{text: "start", ok: false},
		{text: "/", ok: false},
		{text: "/@slabot", ok: false},
		{text: "", ok: false},
	}
	for _, test := range tests {
		name, mention, args, ok := ParseCommand(test.text)
		if ok != test.ok || name != test.name || mention != test.mention || args != test.args {
			t.Errorf("ParseCommand(%q) = (%q, %q, %q, %v), want (%q, %q, %q, %v)",
				test.text, name, mention, args, ok, test.name, test.mention, test.args, test.ok)
		}
	}
}

func TestPollerDispatchesStart(t *testing.T) {
	updater := newScriptedUpdater(pollResult{updates: []Update{
		textUpdate(10, 42, "hello"),
		textUpdate(11, 42, "/start@otherbot"),
		textUpdate(12, 42, "/help"),
		textUpdate(13, 42, "/start@SlaBot"),
		{UpdateID: 14},
	}})
	poller, err := NewPoller(PollerConfig{Updater: updater, Username: "@slabot"})
	if err != nil {
		t.Fatalf("NewPoller: %v", err)
	}
	commands := make(chan Command, 4)
	poller.Handle("start", func(ctx context.Context, command Command) {
		commands <- command
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	command := testutil.RequireReceive(t, commands, 5*time.Second, "start command")
	if command.Name != "start" || command.ChatID != "42" {
		t.Errorf("command = %+v", command)
	}
	testutil.RequireNoReceive(t, commands, 50*time.Millisecond, "only one start is addressed to this bot")

	if first := testutil.RequireReceive(t, updater.offsets, time.Second, "first poll"); first != 0 {
		t.Errorf("first offset = %d, want 0", first)
	}
	if second := testutil.RequireReceive(t, updater.offsets, time.Second, "second poll"); second != 15 {
		t.Errorf("second offset = %d, want 15", second)
	}

	cancel()
	if err := testutil.RequireReceive(t, done, 5*time.Second, "poller exit"); err != nil {
		t.Errorf("Run returned %v", err)
	}
}

func TestPollerBacksOffOnError(t *testing.T) {
	fake := clock.Fake(time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC))
	updater := newScriptedUpdater(
		pollResult{err: errors.New("connection reset")},
		pollResult{err: &APIError{Method: "getUpdates", Code: 429, RetryAfter: 7 * time.Second}},
		pollResult{updates: []Update{textUpdate(1, 5, "/start")}},
	)
	poller, err := NewPoller(PollerConfig{Updater: updater, Clock: fake})
	if err != nil {
		t.Fatalf("NewPoller: %v", err)
	}
	commands := make(chan Command, 1)
	poller.Handle("start", func(ctx context.Context, command Command) { commands <- command })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

	fake.WaitForTimers(1)
	fake.Advance(time.Second)

	fake.WaitForTimers(1)
	fake.Advance(6 * time.Second)
	testutil.RequireNoReceive(t, commands, 50*time.Millisecond, "retry_after not yet elapsed")
	fake.Advance(time.Second)

	command := testutil.RequireReceive(t, commands, 5*time.Second, "command after retries")
	if command.ChatID != "5" {
		t.Errorf("ChatID = %q, want 5", command.ChatID)
	}
}

func TestPollerWaitsForHandlers(t *testing.T) {
	updater := newScriptedUpdater(pollResult{updates: []Update{textUpdate(1, 9, "/start")}})
	poller, err := NewPoller(PollerConfig{Updater: updater})
	if err != nil {
		t.Fatalf("NewPoller: %v", err)
	}
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	poller.Handle("start", func(ctx context.Context, command Command) {
		started <- struct{}{}
		<-release
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	testutil.RequireReceive(t, started, 5*time.Second, "handler start")
	cancel()
	testutil.RequireNoReceive(t, done, 50*time.Millisecond, "Run must wait for the handler")
	close(release)
	testutil.RequireReceive(t, done, 5*time.Second, "poller exit")
}
