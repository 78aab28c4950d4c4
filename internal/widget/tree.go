package widget

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/v2v-test/integration-tests/internal/browser"
)

// Tree is a patternfly treeview inside a container with a known id.
type Tree struct {
	base
	id string
}

// Tree binds the tree whose container has the given id.
func (s Scope) Tree(id string) *Tree {
	return &Tree{base: s.base(browser.XPath(fmt.Sprintf(`.//div[@id=%s]`, q(id)))), id: id}
}

// TreeByClass binds the first tree whose container has the given class.
func (s Scope) TreeByClass(class string) *Tree {
	return &Tree{base: s.base(browser.XPath(fmt.Sprintf(`.//div[contains(@class,%s)]`, q(class)))), id: class}
}

// Node returns the locator of the tree node whose text is label.
func (t *Tree) Node(label string) browser.Locator {
	return browser.XPath(fmt.Sprintf(`.//li[contains(@class,'list-group-item') and normalize-space(.)=%s]`, q(label))).Within(t.loc)
}

func (t *Tree) expander(label string) browser.Locator {
	return browser.XPath(fmt.Sprintf(`.//li[contains(@class,'list-group-item') and normalize-space(.)=%s]/span[contains(@class,'expand-icon')]`, q(label))).Within(t.loc)
}

// ClickPath expands every intermediate node of path and clicks the last one.
func (t *Tree) ClickPath(ctx context.Context, path ...string) error {
	if len(path) == 0 {
		return fmt.Errorf("tree %s: empty path", t.id)
	}
	for i, label := range path {
		if i == len(path)-1 {
			if err := t.b.Click(ctx, t.Node(label)); err != nil {
				return fmt.Errorf("tree %s: click %q: %w", t.id, strings.Join(path[:i+1], " / "), err)
			}
			break
		}
		expanded, _, err := t.b.Attribute(ctx, t.Node(label), "aria-expanded")
		if err != nil {
			return fmt.Errorf("tree %s: node %q: %w", t.id, strings.Join(path[:i+1], " / "), err)
		}
		if expanded == "true" {
			continue
		}
		if err := t.b.Click(ctx, t.expander(label)); err != nil {
			return fmt.Errorf("tree %s: expand %q: %w", t.id, strings.Join(path[:i+1], " / "), err)
		}
	}
	return nil
}

// Nodes returns the text of every rendered node in document order.
func (t *Tree) Nodes(ctx context.Context) ([]string, error) {
	doc, err := snapshot(ctx, t.b, t.loc)
	if err != nil || doc == nil {
		return nil, err
	}
	var out []string
	for _, li := range findAll(doc, func(n *html.Node) bool {
		return isElement(n, "li") && nodeHasClass(n, "list-group-item")
	}) {
		out = append(out, textContent(li))
	}
	return out, nil
}
