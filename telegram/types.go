// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package telegram

import "encoding/json"

// ParseModeHTML selects Telegram's HTML formatting.
const ParseModeHTML = "HTML"

// SendMessageRequest is the body of sendMessage.
type SendMessageRequest struct {
	ChatID             string              `json:"chat_id"`
	Text               string              `json:"text"`
	ParseMode          string              `json:"parse_mode,omitempty"`
	LinkPreviewOptions *LinkPreviewOptions `json:"link_preview_options,omitempty"`
}

// LinkPreviewOptions controls link previews of a sent message.
type LinkPreviewOptions struct {
	IsDisabled bool `json:"is_disabled"`
}

// User is a Telegram user or bot.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
}

// Chat is the conversation a message belongs to.
type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title,omitempty"`
	Username string `json:"username,omitempty"`
}

// Message is an incoming or sent message.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text,omitempty"`
}

// Update is one getUpdates result. Only message updates are requested.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// response is the envelope of every Bot API reply.
type response struct {
	OK          bool               `json:"ok"`
	Result      json.RawMessage    `json:"result"`
	Description string             `json:"description"`
	ErrorCode   int                `json:"error_code"`
	Parameters  *responseParameter `json:"parameters"`
}

type responseParameter struct {
	RetryAfter int `json:"retry_after"`
}
