// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil bounds HTTP response reads for the metric endpoints
// and the Telegram Bot API.
//
// Every JSON response slabot reads is small (a count, a delayed map, a
// few hundred aging rows). The limits exist so that a misbehaving
// endpoint cannot exhaust memory or flood an error message into chat.
package netutil

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// MaxResponseSize bounds JSON response bodies: 32 MB.
const MaxResponseSize int64 = 32 << 20

// MaxErrorBodySize bounds how much of an error response is quoted back
// in an error message.
const MaxErrorBodySize = 512

// ReadResponse reads a response body up to MaxResponseSize bytes. A
// body longer than the limit is an error rather than silently
// truncated JSON.
func ReadResponse(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxResponseSize {
		return nil, fmt.Errorf("response body exceeds %d bytes", MaxResponseSize)
	}
	return data, nil
}

// DecodeResponse reads a bounded response body and JSON-decodes it
// into v.
func DecodeResponse(body io.Reader, v any) error {
	data, err := ReadResponse(body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	return json.Unmarshal(data, v)
}

// ErrorBody reads an error response for use in a diagnostic message.
// Read errors are ignored; the result is trimmed and cut to
// MaxErrorBodySize bytes on a rune boundary.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxErrorBodySize+utf8.UTFMax))
	text := strings.TrimSpace(string(data))
	if len(text) <= MaxErrorBodySize {
		return text
	}
	cut := MaxErrorBodySize
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "…"
}
