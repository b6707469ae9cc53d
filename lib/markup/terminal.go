// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package markup

import (
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

var tagPattern = regexp.MustCompile(`<(/?)(b|strong|i|em|s|u|code|pre|a)(?:\s+href="([^"]*)")?>`)

// TerminalOptions controls RenderTerminal.
type TerminalOptions struct {
	// Output is the terminal the result will be written to. Only used
	// for lipgloss background detection; nil means io.Discard.
	Output io.Writer

	// Profile is the color profile to render with. termenv.Ascii
	// strips all styling.
	Profile termenv.Profile

	// Width wraps lines longer than this many cells. Zero disables
	// wrapping.
	Width int
}

// RenderTerminal renders Telegram HTML as styled terminal text: bold,
// italic, strikethrough and underline map to the matching SGR
// attributes, code is colored, and links show their target after the
// link text. Entities are unescaped.
func RenderTerminal(input string, options TerminalOptions) string {
	output := options.Output
	if output == nil {
		output = io.Discard
	}
	renderer := lipgloss.NewRenderer(output, termenv.WithProfile(options.Profile))
	renderer.SetColorProfile(options.Profile)

	state := &terminalState{renderer: renderer}
	var result strings.Builder

	position := 0
	for _, match := range tagPattern.FindAllStringSubmatchIndex(input, -1) {
		state.writeText(&result, input[position:match[0]])
		position = match[1]

		closing := input[match[2]:match[3]] == "/"
		tag := input[match[4]:match[5]]
		href := ""
		if match[6] >= 0 {
			href = html.UnescapeString(input[match[6]:match[7]])
		}
		state.applyTag(&result, tag, closing, href)
	}
	state.writeText(&result, input[position:])

	rendered := result.String()
	if options.Width <= 0 {
		return rendered
	}
	lines := strings.Split(rendered, "\n")
	for i, line := range lines {
		lines[i] = ansi.Wrap(line, options.Width, " ,.;-")
	}
	return strings.Join(lines, "\n")
}

type terminalState struct {
	renderer  *lipgloss.Renderer
	bold      int
	italic    int
	strike    int
	underline int
	code      int
	links     []string
}

func (s *terminalState) applyTag(out *strings.Builder, tag string, closing bool, href string) {
	delta := 1
	if closing {
		delta = -1
	}
	switch tag {
	case "b", "strong":
		s.bold = max(0, s.bold+delta)
	case "i", "em":
		s.italic = max(0, s.italic+delta)
	case "s":
		s.strike = max(0, s.strike+delta)
	case "u":
		s.underline = max(0, s.underline+delta)
	case "code", "pre":
		s.code = max(0, s.code+delta)
	case "a":
		if !closing {
			s.links = append(s.links, href)
			s.underline++
			return
		}
		if len(s.links) == 0 {
			return
		}
		target := s.links[len(s.links)-1]
		s.links = s.links[:len(s.links)-1]
		s.underline = max(0, s.underline-1)
		if target != "" {
			out.WriteString(s.renderer.NewStyle().Faint(true).Render(" (" + target + ")"))
		}
	}
}

// writeText styles each line separately so that SGR sequences never
// span a newline.
func (s *terminalState) writeText(out *strings.Builder, raw string) {
	if raw == "" {
		return
	}
	text := html.UnescapeString(raw)
	style := s.renderer.NewStyle().
		Bold(s.bold > 0).
		Italic(s.italic > 0).
		Strikethrough(s.strike > 0).
		Underline(s.underline > 0)
	if s.code > 0 {
		style = style.Foreground(lipgloss.Color("6"))
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			out.WriteString(style.Render(line))
		}
		if i < len(lines)-1 {
			out.WriteString("\n")
		}
	}
}
