// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

// Package markup handles the Telegram HTML subset reports are written
// in: escaping untrusted text, converting operator-written Markdown
// into that subset, and rendering it back onto a terminal for preview.
//
// Telegram's HTML parse mode understands <b>, <i>, <s>, <u>, <code>,
// <pre> and <a href>. Everything else must be escaped, and only &lt;,
// &gt;, &amp; and &quot; are recognized entities.
package markup
