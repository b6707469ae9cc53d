// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package markup

import (
	"strconv"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func markdownParser() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify))
	})
	return markdownInstance
}

// MarkdownToHTML converts Markdown into the Telegram HTML subset.
// Headings and strong emphasis become <b>, list items become bullet
// lines, and raw HTML in the source is escaped rather than passed
// through. The result has no trailing newline.
func MarkdownToHTML(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := markdownParser().Parser().Parse(text.NewReader(source))

	converter := &htmlConverter{source: source}
	ast.Walk(document, converter.walk)
	return strings.TrimRight(converter.output.String(), "\n")
}

type htmlConverter struct {
	source    []byte
	output    strings.Builder
	listDepth int
	ordinals  []int
}

func (c *htmlConverter) blockBreak() {
	if c.output.Len() == 0 {
		return
	}
	current := c.output.String()
	switch {
	case strings.HasSuffix(current, "\n\n"):
	case strings.HasSuffix(current, "\n"):
		c.output.WriteString("\n")
	default:
		c.output.WriteString("\n\n")
	}
}

func (c *htmlConverter) lineBreak() {
	if c.output.Len() > 0 && !strings.HasSuffix(c.output.String(), "\n") {
		c.output.WriteString("\n")
	}
}

func (c *htmlConverter) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if entering && c.listDepth == 0 {
			c.blockBreak()
		}

	case ast.KindHeading:
		if entering {
			c.blockBreak()
			c.output.WriteString("<b>")
		} else {
			c.output.WriteString("</b>")
		}

	case ast.KindList:
		list := node.(*ast.List)
		if entering {
			if c.listDepth == 0 {
				c.blockBreak()
			}
			c.listDepth++
			c.ordinals = append(c.ordinals, list.Start)
		} else {
			c.listDepth--
			c.ordinals = c.ordinals[:len(c.ordinals)-1]
		}

	case ast.KindListItem:
		if entering {
			c.lineBreak()
			c.output.WriteString(strings.Repeat("  ", c.listDepth-1))
			list := node.Parent().(*ast.List)
			if list.IsOrdered() {
				index := len(c.ordinals) - 1
				c.output.WriteString(strconv.Itoa(c.ordinals[index]) + ". ")
				c.ordinals[index]++
			} else {
				c.output.WriteString("• ")
			}
		}

	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		if entering {
			c.blockBreak()
			c.output.WriteString("<pre>")
			lines := node.Lines()
			var code strings.Builder
			for i := 0; i < lines.Len(); i++ {
				segment := lines.At(i)
				code.Write(segment.Value(c.source))
			}
			c.output.WriteString(Escape(strings.TrimRight(code.String(), "\n")))
			c.output.WriteString("</pre>")
			return ast.WalkSkipChildren, nil
		}

	case ast.KindThematicBreak:
		if entering {
			c.blockBreak()
			c.output.WriteString("----------")
		}

	case ast.KindHTMLBlock:
		if entering {
			c.blockBreak()
			lines := node.Lines()
			var raw strings.Builder
			for i := 0; i < lines.Len(); i++ {
				segment := lines.At(i)
				raw.Write(segment.Value(c.source))
			}
			c.output.WriteString(Escape(strings.TrimRight(raw.String(), "\n")))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			c.output.WriteString(Escape(string(textNode.Segment.Value(c.source))))
			if textNode.SoftLineBreak() || textNode.HardLineBreak() {
				c.output.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			c.output.WriteString(Escape(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		tag := "i"
		if node.(*ast.Emphasis).Level >= 2 {
			tag = "b"
		}
		if entering {
			c.output.WriteString("<" + tag + ">")
		} else {
			c.output.WriteString("</" + tag + ">")
		}

	case extast.KindStrikethrough:
		if entering {
			c.output.WriteString("<s>")
		} else {
			c.output.WriteString("</s>")
		}

	case ast.KindCodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					code.Write(textNode.Segment.Value(c.source))
				}
			}
			c.output.WriteString("<code>" + Escape(code.String()) + "</code>")
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		link := node.(*ast.Link)
		if entering {
			c.output.WriteString(`<a href="` + attributeEscaper.Replace(string(link.Destination)) + `">`)
		} else {
			c.output.WriteString("</a>")
		}

	case ast.KindAutoLink:
		if entering {
			autoLink := node.(*ast.AutoLink)
			url := string(autoLink.URL(c.source))
			label := string(autoLink.Label(c.source))
			c.output.WriteString(`<a href="` + attributeEscaper.Replace(url) + `">` + Escape(label) + "</a>")
			return ast.WalkSkipChildren, nil
		}

	case ast.KindImage:
		if entering {
			image := node.(*ast.Image)
			c.output.WriteString(`<a href="` + attributeEscaper.Replace(string(image.Destination)) + `">`)
		} else {
			c.output.WriteString("</a>")
		}

	case ast.KindRawHTML:
		if entering {
			raw := node.(*ast.RawHTML)
			for i := 0; i < raw.Segments.Len(); i++ {
				segment := raw.Segments.At(i)
				c.output.WriteString(Escape(string(segment.Value(c.source))))
			}
			return ast.WalkSkipChildren, nil
		}
	}
	return ast.WalkContinue, nil
}
