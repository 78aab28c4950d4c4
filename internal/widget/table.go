package widget

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/v2v-test/integration-tests/internal/browser"
)

// Table is an HTML table read as a whole and addressed by column header.
type Table struct{ base }

// Table binds the table element at loc.
func (s Scope) Table(loc browser.Locator) *Table {
	return &Table{s.base(loc)}
}

// Row is one body row of a table as it was when the table was read.
type Row struct {
	t *Table
	// Index is the 1-based position among the body rows.
	Index int
	cells map[string]int
	text  []string
}

// Headers returns the column headers in order.
func (t *Table) Headers(ctx context.Context) ([]string, error) {
	doc, err := parseOuter(ctx, t.b, t.loc)
	if err != nil || doc == nil {
		return nil, err
	}
	return headers(doc), nil
}

// Rows returns all body rows.
func (t *Table) Rows(ctx context.Context) ([]Row, error) {
	doc, err := parseOuter(ctx, t.b, t.loc)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", t.loc, err)
	}

	cols := headers(doc)
	index := make(map[string]int, len(cols))
	for i, h := range cols {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	body := findFirst(doc, func(n *html.Node) bool { return isElement(n, "tbody") })
	if body == nil {
		return nil, nil
	}
	var rows []Row
	for i, tr := range children(body, "tr") {
		var text []string
		for _, td := range children(tr, "td") {
			text = append(text, textContent(td))
		}
		if text == nil {
			// header row rendered inside the body
			continue
		}
		rows = append(rows, Row{t: t, Index: i + 1, cells: index, text: text})
	}
	return rows, nil
}

// Row returns the first row whose cells equal every filter value, keyed by header.
func (t *Table) Row(ctx context.Context, filters map[string]string) (Row, error) {
	rows, err := t.Rows(ctx)
	if err != nil {
		return Row{}, err
	}
	for _, r := range rows {
		if r.matches(filters) {
			return r, nil
		}
	}
	return Row{}, fmt.Errorf("no row matching %v in %s: %w", filters, t.loc, browser.ErrNotFound)
}

func (r Row) matches(filters map[string]string) bool {
	for k, v := range filters {
		if r.Cell(k) != v {
			return false
		}
	}
	return true
}

// Cell returns the text of the named column, or "" when the column is unknown.
func (r Row) Cell(header string) string {
	i, ok := r.cells[header]
	if !ok || i >= len(r.text) {
		return ""
	}
	return r.text[i]
}

// Locator returns the row element.
func (r Row) Locator() browser.Locator {
	return browser.XPath(fmt.Sprintf("./tbody/tr[%d]", r.Index)).Within(r.t.loc)
}

// CellLocator returns the cell element of the named column.
func (r Row) CellLocator(header string) (browser.Locator, error) {
	i, ok := r.cells[header]
	if !ok {
		return browser.Locator{}, fmt.Errorf("no column %q", header)
	}
	return browser.XPath(fmt.Sprintf("./tbody/tr[%d]/td[%d]", r.Index, i+1)).Within(r.t.loc), nil
}

// Checkbox returns the checkbox inside the named column.
func (r Row) Checkbox(header string) (*Checkbox, error) {
	cell, err := r.CellLocator(header)
	if err != nil {
		return nil, err
	}
	return &Checkbox{base{b: r.t.b, loc: browser.XPath(".//input").Within(cell)}}, nil
}

// Click clicks the row.
func (r Row) Click(ctx context.Context) error {
	return r.t.b.Click(ctx, r.Locator())
}

func headers(doc *html.Node) []string {
	var ths []*html.Node
	if head := findFirst(doc, func(n *html.Node) bool { return isElement(n, "thead") }); head != nil {
		ths = findAll(head, func(n *html.Node) bool { return isElement(n, "th") })
	} else if tr := findFirst(doc, func(n *html.Node) bool { return isElement(n, "tr") }); tr != nil {
		ths = children(tr, "th")
	}
	out := make([]string, 0, len(ths))
	for _, th := range ths {
		out = append(out, strings.TrimSpace(textContent(th)))
	}
	return out
}
