// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package markup

import "strings"

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var attributeEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// Escape makes text safe to place between Telegram HTML tags.
func Escape(text string) string {
	return escaper.Replace(text)
}

// Bold wraps already-escaped HTML in <b>.
func Bold(html string) string {
	return "<b>" + html + "</b>"
}
