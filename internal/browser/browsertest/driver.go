// Package browsertest provides an in-memory browser.Driver for exercising
// page objects without Chrome. Elements are keyed by locator text; clicks
// can be scripted to change what is displayed.
package browsertest

import (
	"context"
	"fmt"
	"sync"

	"github.com/v2v-test/integration-tests/internal/browser"
)

// Element is the fake state behind one locator.
type Element struct {
	Visible bool
	Text    string
	Value   string
	Checked bool
	// Checkable elements flip Checked when clicked.
	Checkable bool
	Attrs     map[string]string
	HTML      string
	Files     []string
	// OnClick runs after the click is recorded.
	OnClick func()
}

// Drag records one drag-and-drop.
type Drag struct {
	From, To string
}

// Driver is a scriptable browser.Driver.
type Driver struct {
	mu        sync.Mutex
	elements  map[string]*Element
	clicks    []string
	opened    []string
	refreshes int
	drags     []Drag
	misses    []string
}

var _ browser.Driver = (*Driver)(nil)

// New returns an empty page.
func New() *Driver {
	return &Driver{elements: make(map[string]*Element)}
}

// Set installs el under loc and returns it.
func (d *Driver) Set(loc browser.Locator, el *Element) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[loc.String()] = el
	return el
}

// Show installs a visible element with the given text.
func (d *Driver) Show(loc browser.Locator, text string) *Element {
	return d.Set(loc, &Element{Visible: true, Text: text})
}

// Hide marks the element under loc invisible, if present.
func (d *Driver) Hide(loc browser.Locator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.elements[loc.String()]; ok {
		el.Visible = false
	}
}

// Get returns the element under loc, or nil.
func (d *Driver) Get(loc browser.Locator) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.elements[loc.String()]
}

// OnClick installs fn as the click handler of loc, creating a visible element if needed.
func (d *Driver) OnClick(loc browser.Locator, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.elements[loc.String()]
	if !ok {
		el = &Element{Visible: true}
		d.elements[loc.String()] = el
	}
	el.OnClick = fn
}

// Clicks returns the locators clicked so far, in order.
func (d *Driver) Clicks() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.clicks...)
}

// ClickCount returns how many times loc was clicked.
func (d *Driver) ClickCount(loc browser.Locator) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.clicks {
		if c == loc.String() {
			n++
		}
	}
	return n
}

// Opened returns the URLs opened so far.
func (d *Driver) Opened() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.opened...)
}

// Refreshes returns the number of page reloads.
func (d *Driver) Refreshes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.refreshes
}

// Misses returns the locators of lookups that found nothing. A real session
// waits out its element timeout on each of these; Present and Visible are
// not counted.
func (d *Driver) Misses() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.misses...)
}

// Drags returns the recorded drag-and-drops.
func (d *Driver) Drags() []Drag {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Drag(nil), d.drags...)
}

func (d *Driver) lookup(loc browser.Locator) (*Element, error) {
	el, ok := d.elements[loc.String()]
	if !ok {
		d.misses = append(d.misses, loc.String())
		return nil, fmt.Errorf("%w: %s", browser.ErrNotFound, loc)
	}
	return el, nil
}

// Open implements browser.Driver.
func (d *Driver) Open(_ context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opened = append(d.opened, url)
	return nil
}

// Refresh implements browser.Driver.
func (d *Driver) Refresh(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refreshes++
	return nil
}

// Click implements browser.Driver. Invisible elements cannot be clicked.
func (d *Driver) Click(_ context.Context, loc browser.Locator) error {
	d.mu.Lock()
	el, err := d.lookup(loc)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	if !el.Visible {
		d.mu.Unlock()
		return fmt.Errorf("element not visible: %s", loc)
	}
	d.clicks = append(d.clicks, loc.String())
	if el.Checkable {
		el.Checked = !el.Checked
	}
	fn := el.OnClick
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
	return nil
}

// Input implements browser.Driver.
func (d *Driver) Input(_ context.Context, loc browser.Locator, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, err := d.lookup(loc)
	if err != nil {
		return err
	}
	el.Value = text
	return nil
}

// Value implements browser.Driver.
func (d *Driver) Value(_ context.Context, loc browser.Locator) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, err := d.lookup(loc)
	if err != nil {
		return "", err
	}
	return el.Value, nil
}

// Text implements browser.Driver.
func (d *Driver) Text(_ context.Context, loc browser.Locator) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, err := d.lookup(loc)
	if err != nil {
		return "", err
	}
	return el.Text, nil
}

// Present implements browser.Driver.
func (d *Driver) Present(_ context.Context, loc browser.Locator) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.elements[loc.String()]
	return ok, nil
}

// Visible implements browser.Driver.
func (d *Driver) Visible(_ context.Context, loc browser.Locator) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.elements[loc.String()]
	return ok && el.Visible, nil
}

// Checked implements browser.Driver.
func (d *Driver) Checked(_ context.Context, loc browser.Locator) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, err := d.lookup(loc)
	if err != nil {
		return false, err
	}
	return el.Checked, nil
}

// Attribute implements browser.Driver.
func (d *Driver) Attribute(_ context.Context, loc browser.Locator, name string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, err := d.lookup(loc)
	if err != nil {
		return "", false, err
	}
	v, ok := el.Attrs[name]
	return v, ok, nil
}

// HTML implements browser.Driver.
func (d *Driver) HTML(_ context.Context, loc browser.Locator) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, err := d.lookup(loc)
	if err != nil {
		return "", err
	}
	return el.HTML, nil
}

// SetFiles implements browser.Driver.
func (d *Driver) SetFiles(_ context.Context, loc browser.Locator, paths ...string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, err := d.lookup(loc)
	if err != nil {
		return err
	}
	el.Files = append([]string(nil), paths...)
	return nil
}

// DragAndDrop implements browser.Driver.
func (d *Driver) DragAndDrop(_ context.Context, from, to browser.Locator) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.lookup(from); err != nil {
		return err
	}
	if _, err := d.lookup(to); err != nil {
		return err
	}
	d.drags = append(d.drags, Drag{From: from.String(), To: to.String()})
	return nil
}
