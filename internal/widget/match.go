package widget

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Match selects an item by its visible text, exactly or by substring.
type Match struct {
	Text    string
	Partial bool
}

// Exact matches the whole normalized text.
func Exact(s string) Match { return Match{Text: s} }

// Partial matches any item whose text contains s.
func Partial(s string) Match { return Match{Text: s, Partial: true} }

// Exacts converts plain strings into exact matches.
func Exacts(items ...string) []Match {
	out := make([]Match, len(items))
	for i, s := range items {
		out[i] = Exact(s)
	}
	return out
}

// Matches reports whether text satisfies m.
func (m Match) Matches(text string) bool {
	text = normalizeSpace(text)
	if m.Partial {
		return strings.Contains(text, m.Text)
	}
	return text == m.Text
}

// Predicate renders m as an XPath predicate over the context node text.
func (m Match) Predicate() string {
	if m.Partial {
		return fmt.Sprintf("contains(normalize-space(.), %s)", q(m.Text))
	}
	return fmt.Sprintf("normalize-space(.)=%s", q(m.Text))
}

func (m Match) String() string {
	if m.Partial {
		return "~" + m.Text
	}
	return m.Text
}

// UnmarshalYAML accepts either a plain string or {partial: text}.
func (m *Match) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*m = Exact(n.Value)
		return nil
	case yaml.MappingNode:
		var raw struct {
			Partial string `yaml:"partial"`
			Exact   string `yaml:"exact"`
		}
		if err := n.Decode(&raw); err != nil {
			return err
		}
		if raw.Partial != "" {
			*m = Partial(raw.Partial)
		} else {
			*m = Exact(raw.Exact)
		}
		return nil
	}
	return fmt.Errorf("line %d: match must be a string or {partial: ...}", n.Line)
}

// MarshalYAML writes exact matches as plain strings.
func (m Match) MarshalYAML() (interface{}, error) {
	if m.Partial {
		return map[string]string{"partial": m.Text}, nil
	}
	return m.Text, nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
