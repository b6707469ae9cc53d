// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package telegram

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLength is the Bot API limit on message text, in characters.
const MaxMessageLength = 4096

// SplitMessage cuts text into parts of at most limit characters. Cuts
// fall after a newline when one is available; a single line longer than
// limit is cut mid-line. Text within the limit is returned unchanged as
// one part. Empty text yields no parts.
func SplitMessage(text string, limit int) []string {
	if text == "" {
		return nil
	}
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	currentLength := 0

	flush := func() {
		if currentLength > 0 {
			parts = append(parts, current.String())
			current.Reset()
			currentLength = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		lineLength := utf8.RuneCountInString(line)
		if currentLength+lineLength <= limit {
			current.WriteString(line)
			currentLength += lineLength
			continue
		}
		flush()
		for lineLength > limit {
			cut := runeOffset(line, limit)
			parts = append(parts, line[:cut])
			line = line[cut:]
			lineLength -= limit
		}
		current.WriteString(line)
		currentLength = lineLength
	}
	flush()
	return parts
}

// runeOffset returns the byte offset of the n-th rune of s.
func runeOffset(s string, n int) int {
	count := 0
	for offset := range s {
		if count == n {
			return offset
		}
		count++
	}
	return len(s)
}
