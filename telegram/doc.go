// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

// Package telegram is a minimal Telegram Bot API client: sending
// messages and long-polling for commands.
//
// [Client] wraps the HTTP calls. The bot token lives in a
// [secret.Buffer] and is only materialized when a request URL is
// built; transport errors are rewritten so the token never appears in
// an error string or log line. API failures (ok=false) are returned as
// [*APIError].
//
// [Client.Send] splits text longer than [MaxMessageLength] at line
// boundaries and sends the parts in order. Report lines never open a
// tag on one line and close it on another, so a line split keeps every
// part valid HTML.
//
// [Poller] long-polls getUpdates and dispatches bot commands
// ("/start", "/start@slabot") to registered handlers, each on its own
// goroutine.
package telegram
