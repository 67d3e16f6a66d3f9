// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// droppedTags are removed together with their content.
var droppedTags = map[string]bool{
	"script": true, "style": true, "noscript": true,
	"iframe": true, "object": true, "embed": true,
	"img": true, "picture": true, "video": true, "audio": true,
	"source": true, "track": true,
	"link": true, "base": true,
}

// unwrappedTags are removed but their children are kept in place.
var unwrappedTags = map[string]bool{
	"a": true,
}

// droppedAttrs can carry a URL and are never kept.
var droppedAttrs = map[string]bool{
	"href": true, "src": true, "srcset": true, "cite": true,
	"action": true, "formaction": true, "data": true, "poster": true,
	"longdesc": true, "xlink:href": true, "xmlns": true,
}

var keptAttrs = map[string]bool{
	"class": true,
}

var (
	urlPattern        = regexp.MustCompile(`(?:https?://|www\.|mailto:)[^\s<>"']+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// SanitizeHTML removes markup with no safe typesetting equivalent: unsafe
// elements, every attribute but class, solution headings, and literal URLs.
// Whitespace runs collapse to one space.
func SanitizeHTML(markup string) (string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", fmt.Errorf("parsing fragment: %w", err)
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	sanitizeChildren(root)

	var b strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", fmt.Errorf("rendering fragment: %w", err)
		}
	}

	text := urlPattern.ReplaceAllString(b.String(), "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text), nil
}

func sanitizeChildren(parent *html.Node) {
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling

		switch {
		case c.Type == html.CommentNode:
			parent.RemoveChild(c)
		case c.Type != html.ElementNode:
		case droppedTags[c.Data] || isSolutionTitle(c):
			parent.RemoveChild(c)
		case unwrappedTags[c.Data]:
			sanitizeChildren(c)
			for gc := c.FirstChild; gc != nil; {
				gnext := gc.NextSibling
				c.RemoveChild(gc)
				parent.InsertBefore(gc, c)
				gc = gnext
			}
			parent.RemoveChild(c)
		default:
			c.Attr = filterAttrs(c)
			sanitizeChildren(c)
		}

		c = next
	}
}

func filterAttrs(n *html.Node) []html.Attribute {
	isMath := strings.HasPrefix(n.Data, "m")
	var kept []html.Attribute
	for _, a := range n.Attr {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + a.Key
		}
		if droppedAttrs[key] || strings.HasPrefix(key, "on") || strings.HasPrefix(key, "xmlns") {
			continue
		}
		if isMath && key != "class" {
			continue
		}
		if keptAttrs[key] {
			kept = append(kept, a)
		}
	}
	return kept
}

// isSolutionTitle matches the "Solution" heading of a worked example; the
// solution body is rendered on its own in the answer key.
func isSolutionTitle(n *html.Node) bool {
	if n.Data != "h1" || !hasClass(n, "title") {
		return false
	}
	return strings.Contains(strings.ToLower(textContent(n)), "solution")
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && a.Namespace == "" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
