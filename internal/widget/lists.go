package widget

import (
	"context"
	"fmt"

	"golang.org/x/net/html"

	"github.com/v2v-test/integration-tests/internal/browser"
)

// MultiSelectList is a list of clickable items where several may be selected.
type MultiSelectList struct {
	base
	id string
}

// MultiSelectList binds the list whose container has the given id.
func (s Scope) MultiSelectList(id string) *MultiSelectList {
	return &MultiSelectList{base: s.base(browser.XPath(fmt.Sprintf(`.//div[@id=%s]`, q(id)))), id: id}
}

// Item returns the locator of the list entry matching m.
func (w *MultiSelectList) Item(m Match) browser.Locator {
	return browser.XPath(fmt.Sprintf(`.//*[contains(@class,'list-group-item')][%s]`, m.Predicate())).Within(w.loc)
}

// Fill selects every item matching one of values that is not already selected.
// It reports whether any item was clicked.
func (w *MultiSelectList) Fill(ctx context.Context, values []Match) (bool, error) {
	changed := false
	for _, m := range values {
		item := w.Item(m)
		class, _, err := w.b.Attribute(ctx, item, "class")
		if err != nil {
			return changed, fmt.Errorf("list %s: item %s: %w", w.id, m, err)
		}
		if hasClass(class, "selected") || hasClass(class, "active") {
			continue
		}
		if err := w.b.Click(ctx, item); err != nil {
			return changed, fmt.Errorf("list %s: select %s: %w", w.id, m, err)
		}
		changed = true
	}
	return changed, nil
}

// Read returns the text of the selected items.
func (w *MultiSelectList) Read(ctx context.Context) ([]string, error) {
	doc, err := snapshot(ctx, w.b, w.loc)
	if err != nil || doc == nil {
		return nil, err
	}
	var out []string
	for _, n := range findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && nodeHasClass(n, "list-group-item") &&
			(nodeHasClass(n, "selected") || nodeHasClass(n, "active"))
	}) {
		out = append(out, textContent(n))
	}
	return out, nil
}

// PlansList is the list of migration plans on the migration dashboard.
type PlansList struct {
	base
}

// PlansList binds the plan list whose container has the given id.
func (s Scope) PlansList(id string) *PlansList {
	return &PlansList{s.base(browser.XPath(fmt.Sprintf(`.//div[@id=%s]`, q(id))))}
}

// Items returns the plan names, taken from each entry's heading.
func (w *PlansList) Items(ctx context.Context) ([]string, error) {
	doc, err := snapshot(ctx, w.b, w.loc)
	if err != nil || doc == nil {
		return nil, err
	}
	var out []string
	for _, item := range findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && nodeHasClass(n, "list-group-item")
	}) {
		heading := findFirst(item, func(n *html.Node) bool {
			return n.Type == html.ElementNode && nodeHasClass(n, "list-group-item-heading")
		})
		if heading == nil {
			heading = item
		}
		out = append(out, textContent(heading))
	}
	return out, nil
}

// Has reports whether a plan called name is listed.
func (w *PlansList) Has(ctx context.Context, name string) (bool, error) {
	items, err := w.Items(ctx)
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if it == name {
			return true, nil
		}
	}
	return false, nil
}
