package widget

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/v2v-test/integration-tests/internal/browser"
)

// NavigationMenu is the vertical main menu of the console.
type NavigationMenu struct{ base }

// NavigationMenu binds the main menu.
func (s Scope) NavigationMenu() *NavigationMenu {
	return &NavigationMenu{s.base(browser.XPath(`//div[contains(@class,'nav-pf-vertical')]`))}
}

// Entry returns the locator of the menu link reached by path.
func (m *NavigationMenu) Entry(path ...string) browser.Locator {
	var sb strings.Builder
	sb.WriteString(".")
	for i, label := range path {
		if i > 0 {
			sb.WriteString("/..")
		}
		fmt.Fprintf(&sb, "//ul/li/a[normalize-space(.)=%s]", q(label))
	}
	return browser.XPath(sb.String()).Within(m.loc)
}

// Select clicks through path, top level first.
func (m *NavigationMenu) Select(ctx context.Context, path ...string) error {
	if len(path) == 0 {
		return fmt.Errorf("menu: empty path")
	}
	for i := range path {
		if err := m.b.Click(ctx, m.Entry(path[:i+1]...)); err != nil {
			return fmt.Errorf("menu %s: %w", strings.Join(path[:i+1], " > "), err)
		}
	}
	return nil
}

// CurrentlySelected returns the labels of the active entries, outermost first.
func (m *NavigationMenu) CurrentlySelected(ctx context.Context) ([]string, error) {
	doc, err := snapshot(ctx, m.b, m.loc)
	if err != nil || doc == nil {
		return nil, err
	}
	var out []string
	for _, li := range findAll(doc, func(n *html.Node) bool {
		return isElement(n, "li") && nodeHasClass(n, "active")
	}) {
		if a := children(li, "a"); len(a) > 0 {
			out = append(out, textContent(a[0]))
		}
	}
	return out, nil
}
