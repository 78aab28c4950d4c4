package browser

import (
	"strings"
)

// Locator addresses an element on the page by XPath or CSS selector.
// Page objects use XPath almost exclusively so locators compose: a widget's
// relative locator (".//...") can be scoped under its view's root.
type Locator struct {
	XPath string
	CSS   string
}

// XPath returns an XPath locator.
func XPath(expr string) Locator { return Locator{XPath: expr} }

// CSS returns a CSS selector locator.
func CSS(sel string) Locator { return Locator{CSS: sel} }

// IsZero reports whether the locator addresses nothing.
func (l Locator) IsZero() bool { return l.XPath == "" && l.CSS == "" }

// String returns the selector text, used as the identity of a locator.
func (l Locator) String() string {
	if l.XPath != "" {
		return l.XPath
	}
	return l.CSS
}

// Within scopes a relative XPath locator under root. Absolute locators and
// CSS selectors are returned unchanged.
func (l Locator) Within(root Locator) Locator {
	if root.XPath == "" || l.XPath == "" {
		return l
	}
	if !strings.HasPrefix(l.XPath, ".") {
		return l
	}
	return Locator{XPath: root.XPath + strings.TrimPrefix(l.XPath, ".")}
}

// Quote renders s as an XPath string literal, falling back to concat() when
// s contains both quote characters.
func Quote(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
