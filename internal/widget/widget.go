// Package widget binds named page controls to locators. Widgets only read
// and fill; behaviour lives in the views that compose them.
package widget

import (
	"context"
	"fmt"

	"github.com/v2v-test/integration-tests/internal/browser"
)

// Widget is anything a view can check for presence.
type Widget interface {
	Locator() browser.Locator
	IsDisplayed(ctx context.Context) (bool, error)
}

// Scope is a browser plus the root locator widgets are created under.
type Scope struct {
	Browser browser.Driver
	Root    browser.Locator
}

// NewScope returns a document-level scope.
func NewScope(b browser.Driver) Scope {
	return Scope{Browser: b}
}

// Nested returns a scope rooted at loc, itself resolved under s.
func (s Scope) Nested(loc browser.Locator) Scope {
	return Scope{Browser: s.Browser, Root: s.at(loc)}
}

func (s Scope) at(loc browser.Locator) browser.Locator {
	return loc.Within(s.Root)
}

type base struct {
	b   browser.Driver
	loc browser.Locator
}

func (s Scope) base(loc browser.Locator) base {
	return base{b: s.Browser, loc: s.at(loc)}
}

// Locator returns the resolved locator.
func (w base) Locator() browser.Locator { return w.loc }

// IsDisplayed reports whether the widget is rendered.
func (w base) IsDisplayed(ctx context.Context) (bool, error) {
	return w.b.Visible(ctx, w.loc)
}

// IsPresent reports whether the widget element is in the page now.
func (w base) IsPresent(ctx context.Context) (bool, error) {
	return w.b.Present(ctx, w.loc)
}

// Attribute reads an attribute of the widget element.
func (w base) Attribute(ctx context.Context, name string) (string, bool, error) {
	return w.b.Attribute(ctx, w.loc, name)
}

// FillFunc fills one widget and reports whether anything changed.
type FillFunc func(ctx context.Context) (bool, error)

// FillAll runs fills in order and reports whether any of them changed something.
func FillAll(ctx context.Context, fills ...FillFunc) (bool, error) {
	changed := false
	for i, fill := range fills {
		if fill == nil {
			continue
		}
		c, err := fill(ctx)
		if err != nil {
			return changed, fmt.Errorf("fill field %d: %w", i, err)
		}
		changed = changed || c
	}
	return changed, nil
}

func q(s string) string { return browser.Quote(s) }
