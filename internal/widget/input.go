package widget

import (
	"context"
	"fmt"
	"strings"

	"github.com/v2v-test/integration-tests/internal/browser"
)

// TextInput is a text field or text area.
type TextInput struct{ base }

// TextInput binds a text control by its name attribute.
func (s Scope) TextInput(name string) *TextInput {
	return &TextInput{s.base(browser.XPath(fmt.Sprintf(
		`.//*[(self::input or self::textarea) and @name=%s]`, q(name))))}
}

// TextInputByID binds a text control by id.
func (s Scope) TextInputByID(id string) *TextInput {
	return &TextInput{s.base(browser.XPath(fmt.Sprintf(
		`.//*[(self::input or self::textarea) and @id=%s]`, q(id))))}
}

// Read returns the current value.
func (w *TextInput) Read(ctx context.Context) (string, error) {
	return w.b.Value(ctx, w.loc)
}

// Fill replaces the value unless it already equals v.
func (w *TextInput) Fill(ctx context.Context, v string) (bool, error) {
	cur, err := w.Read(ctx)
	if err != nil {
		return false, err
	}
	if cur == v {
		return false, nil
	}
	if err := w.b.Input(ctx, w.loc, v); err != nil {
		return false, err
	}
	return true, nil
}

// Set returns a fill for v, skipped when v is empty.
func (w *TextInput) Set(v string) FillFunc {
	if v == "" {
		return nil
	}
	return func(ctx context.Context) (bool, error) { return w.Fill(ctx, v) }
}

// Checkbox is a checkbox input.
type Checkbox struct{ base }

// Checkbox binds a checkbox by name.
func (s Scope) Checkbox(name string) *Checkbox {
	return &Checkbox{s.base(browser.XPath(fmt.Sprintf(
		`.//input[@type='checkbox' and @name=%s]`, q(name))))}
}

// CheckboxAt binds a checkbox at an explicit locator.
func (s Scope) CheckboxAt(loc browser.Locator) *Checkbox {
	return &Checkbox{s.base(loc)}
}

// Read returns whether the box is checked.
func (w *Checkbox) Read(ctx context.Context) (bool, error) {
	return w.b.Checked(ctx, w.loc)
}

// Fill clicks the box when its state differs from v.
func (w *Checkbox) Fill(ctx context.Context, v bool) (bool, error) {
	cur, err := w.Read(ctx)
	if err != nil {
		return false, err
	}
	if cur == v {
		return false, nil
	}
	if err := w.b.Click(ctx, w.loc); err != nil {
		return false, err
	}
	return true, nil
}

// Set returns a fill for v, skipped when v is nil.
func (w *Checkbox) Set(v *bool) FillFunc {
	if v == nil {
		return nil
	}
	return func(ctx context.Context) (bool, error) { return w.Fill(ctx, *v) }
}

// Button is a clickable button or button-styled link.
type Button struct{ base }

// Button binds a button by its visible text.
func (s Scope) Button(text string) *Button {
	return &Button{s.base(browser.XPath(fmt.Sprintf(
		`.//*[self::button or self::a[contains(@class,'btn')]][normalize-space(.)=%s]`, q(text))))}
}

// ButtonAt binds a button at an explicit locator.
func (s Scope) ButtonAt(loc browser.Locator) *Button {
	return &Button{s.base(loc)}
}

// Click clicks the button.
func (w *Button) Click(ctx context.Context) error {
	return w.b.Click(ctx, w.loc)
}

// IsEnabled reports whether the button lacks the disabled attribute and class.
func (w *Button) IsEnabled(ctx context.Context) (bool, error) {
	if _, disabled, err := w.b.Attribute(ctx, w.loc, "disabled"); err != nil || disabled {
		return false, err
	}
	class, _, err := w.b.Attribute(ctx, w.loc, "class")
	if err != nil {
		return false, err
	}
	return !hasClass(class, "disabled"), nil
}

// Text is read-only text.
type Text struct{ base }

// Text binds read-only text at loc.
func (s Scope) Text(loc browser.Locator) *Text {
	return &Text{s.base(loc)}
}

// Read returns the element text.
func (w *Text) Read(ctx context.Context) (string, error) {
	t, err := w.b.Text(ctx, w.loc)
	return strings.TrimSpace(t), err
}

// Click clicks the text, for links rendered as text.
func (w *Text) Click(ctx context.Context) error {
	return w.b.Click(ctx, w.loc)
}

// HiddenFileInput is a file input that may be hidden behind a styled button.
type HiddenFileInput struct{ base }

// HiddenFileInput binds a file input at loc.
func (s Scope) HiddenFileInput(loc browser.Locator) *HiddenFileInput {
	return &HiddenFileInput{s.base(loc)}
}

// Fill uploads path. Setting files always counts as a change.
func (w *HiddenFileInput) Fill(ctx context.Context, path string) (bool, error) {
	if err := w.b.SetFiles(ctx, w.loc, path); err != nil {
		return false, err
	}
	return true, nil
}

// RadioGroup is a set of labelled radio inputs under one container.
type RadioGroup struct{ base }

// RadioGroup binds the group container at loc.
func (s Scope) RadioGroup(loc browser.Locator) *RadioGroup {
	return &RadioGroup{s.base(loc)}
}

// Option returns the locator of the radio input labelled label.
func (w *RadioGroup) Option(label string) browser.Locator {
	return browser.XPath(fmt.Sprintf(`.//label[normalize-space(.)=%s]//input[@type='radio']`, q(label))).Within(w.loc)
}

// Select clicks the option labelled label.
func (w *RadioGroup) Select(ctx context.Context, label string) error {
	return w.b.Click(ctx, w.Option(label))
}

// Fill selects label unless it is already selected.
func (w *RadioGroup) Fill(ctx context.Context, label string) (bool, error) {
	checked, err := w.b.Checked(ctx, w.Option(label))
	if err != nil {
		return false, err
	}
	if checked {
		return false, nil
	}
	if err := w.Select(ctx, label); err != nil {
		return false, err
	}
	return true, nil
}

// BootstrapSelect is a patternfly bootstrap-select drop down.
type BootstrapSelect struct {
	base
	id string
}

// BootstrapSelect binds a bootstrap-select by the id of its select element.
func (s Scope) BootstrapSelect(id string) *BootstrapSelect {
	return &BootstrapSelect{
		base: s.base(browser.XPath(fmt.Sprintf(
			`.//div[contains(@class,'bootstrap-select') and .//*[@id=%s or @data-id=%s]]`, q(id), q(id)))),
		id: id,
	}
}

func (w *BootstrapSelect) toggle() browser.Locator {
	return browser.XPath(`.//button[contains(@class,'dropdown-toggle')]`).Within(w.loc)
}

func (w *BootstrapSelect) current() browser.Locator {
	return browser.XPath(`.//button[contains(@class,'dropdown-toggle')]//span[contains(@class,'filter-option')]`).Within(w.loc)
}

// Item returns the locator of the menu entry matching m.
func (w *BootstrapSelect) Item(m Match) browser.Locator {
	return browser.XPath(fmt.Sprintf(`.//ul[contains(@class,'dropdown-menu')]//li/a[%s]`, m.Predicate())).Within(w.loc)
}

// Read returns the selected option text.
func (w *BootstrapSelect) Read(ctx context.Context) (string, error) {
	t, err := w.b.Text(ctx, w.current())
	return normalizeSpace(t), err
}

// Select opens the menu and picks the item matching m.
func (w *BootstrapSelect) Select(ctx context.Context, m Match) error {
	if err := w.b.Click(ctx, w.toggle()); err != nil {
		return fmt.Errorf("open select %s: %w", w.id, err)
	}
	return w.b.Click(ctx, w.Item(m))
}

// Fill selects v unless it is already selected.
func (w *BootstrapSelect) Fill(ctx context.Context, v string) (bool, error) {
	cur, err := w.Read(ctx)
	if err != nil {
		return false, err
	}
	if cur == v {
		return false, nil
	}
	if err := w.Select(ctx, Exact(v)); err != nil {
		return false, err
	}
	return true, nil
}

// Set returns a fill for v, skipped when v is empty.
func (w *BootstrapSelect) Set(v string) FillFunc {
	if v == "" {
		return nil
	}
	return func(ctx context.Context) (bool, error) { return w.Fill(ctx, v) }
}

// Dropdown is a toggle button with a menu of actions.
type Dropdown struct{ base }

// Dropdown binds a dropdown whose toggle button shows text.
func (s Scope) Dropdown(text string) *Dropdown {
	return &Dropdown{s.base(browser.XPath(fmt.Sprintf(
		`.//div[contains(@class,'dropdown') or contains(@class,'btn-group')][./button[normalize-space(.)=%s]]`, q(text))))}
}

// DropdownByTitle binds a dropdown whose toggle button has the given title.
func (s Scope) DropdownByTitle(title string) *Dropdown {
	return &Dropdown{s.base(browser.XPath(fmt.Sprintf(
		`.//div[contains(@class,'dropdown') or contains(@class,'btn-group')][./button[@title=%s]]`, q(title))))}
}

// Item returns the locator of the menu entry labelled item.
func (w *Dropdown) Item(item string) browser.Locator {
	return browser.XPath(fmt.Sprintf(`.//ul//a[normalize-space(.)=%s]`, q(item))).Within(w.loc)
}

// ItemSelect opens the menu and clicks item.
func (w *Dropdown) ItemSelect(ctx context.Context, item string) error {
	if err := w.b.Click(ctx, browser.XPath(`./button`).Within(w.loc)); err != nil {
		return fmt.Errorf("open dropdown: %w", err)
	}
	if err := w.b.Click(ctx, w.Item(item)); err != nil {
		return fmt.Errorf("select %q: %w", item, err)
	}
	return nil
}

// DragAndDrop moves one element onto another.
type DragAndDrop struct {
	b browser.Driver
}

// DragAndDrop returns the drag-and-drop helper of the scope's browser.
func (s Scope) DragAndDrop() *DragAndDrop {
	return &DragAndDrop{b: s.Browser}
}

// Drag drags from onto to.
func (w *DragAndDrop) Drag(ctx context.Context, from, to browser.Locator) error {
	return w.b.DragAndDrop(ctx, from, to)
}

func hasClass(classAttr, class string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == class {
			return true
		}
	}
	return false
}
