package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/outliner/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. The <title> becomes the first line, h1-h6
// become sized bold lines and <hr> starts a new page.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	out := newLayout(filename)
	if title := findTitle(root); title != "" {
		out.heading(title, 1)
	}

	var walk func(n *html.Node, listDepth int)
	walk = func(n *html.Node, listDepth int) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				out.heading(textContent(n), level)
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header", "head":
				return
			case "hr":
				out.breakPage()
				return
			case "ul", "ol":
				listDepth++
			case "li":
				if t := ownText(n); t != "" {
					out.paragraph(t, listIndent*float64(listDepth))
				}
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
						walk(c, listDepth)
					}
				}
				return
			case "p", "td", "th", "blockquote", "pre":
				if t := textContent(n); t != "" {
					out.paragraph(t, 0)
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, listDepth)
		}
	}

	if body := findBody(root); body != nil {
		walk(body, 0)
	} else {
		walk(root, 0)
	}
	return out.finish(), nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

// textContent concatenates all descendant text with whitespace collapsed.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

// ownText is textContent without nested lists.
func ownText(n *html.Node) string {
	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
			continue
		}
		if t := textContent(c); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
