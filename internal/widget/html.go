package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/v2v-test/integration-tests/internal/browser"
)

// snapshot parses the outer HTML of loc. The page is read once and walked
// locally so composite widgets do not pay a round trip per cell.
// A missing element yields a nil node and no error, without waiting for it
// to appear.
func snapshot(ctx context.Context, b browser.Driver, loc browser.Locator) (*html.Node, error) {
	present, err := b.Present(ctx, loc)
	if err != nil || !present {
		return nil, err
	}
	doc, err := parseOuter(ctx, b, loc)
	if errors.Is(err, browser.ErrNotFound) {
		return nil, nil
	}
	return doc, err
}

// parseOuter is snapshot for content that is still rendering: it waits for
// loc up to the driver's element timeout.
func parseOuter(ctx context.Context, b browser.Driver, loc browser.Locator) (*html.Node, error) {
	raw, err := b.HTML(ctx, loc)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", loc, err)
	}
	return doc, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeHasClass(n *html.Node, class string) bool {
	return hasClass(attr(n, "class"), class)
}

func isElement(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == tag
}

// textContent returns the whitespace-normalized text below n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			sb.WriteByte(' ')
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	walk(n)
	return normalizeSpace(sb.String())
}

// findAll returns every node below n, in document order, that satisfies pred.
func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if pred(c) {
			out = append(out, c)
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	if n != nil {
		walk(n)
	}
	return out
}

func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if all := findAll(n, pred); len(all) > 0 {
		return all[0]
	}
	return nil
}

func children(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, tag) {
			out = append(out, c)
		}
	}
	return out
}
