package automate

import (
	"context"
	"fmt"

	"github.com/v2v-test/integration-tests/internal/browser"
	"github.com/v2v-test/integration-tests/internal/login"
	"github.com/v2v-test/integration-tests/internal/view"
	"github.com/v2v-test/integration-tests/internal/widget"
)

// Dropdown entries of the dialog editor.
const (
	ItemAddDialog  = "Add a new Dialog"
	ItemEditDialog = "Edit this Dialog"
	ItemAddTab     = "Add a new Tab to this Dialog"
	ItemAddBox     = "Add a new Box to this Tab"
	ItemAddElement = "Add a new Element to this Box"
)

var customizationPath = []string{"Automation", "Automate", "Customization"}

// CustomizationView is Automation > Automate > Customization.
type CustomizationView struct {
	*login.BaseLoggedInPage
	Title          *widget.Text
	ServiceDialogs *widget.Text
	DialogsTree    *widget.Tree
	Configuration  *widget.Dropdown
	Plus           *widget.Dropdown
}

// NewCustomizationView binds the customization explorer.
func NewCustomizationView(b browser.Driver) *CustomizationView {
	base := login.NewBaseLoggedInPage(b)
	return &CustomizationView{
		BaseLoggedInPage: base,
		Title:            base.Text(browser.CSS("#explorer_title_text")),
		ServiceDialogs:   base.Text(browser.XPath(`//div[@id='accordion']//a[normalize-space(.)='Service Dialogs']`)),
		DialogsTree:      base.Tree("dialogs_treebox"),
		Configuration:    base.DropdownByTitle("Configuration"),
		Plus:             base.DropdownByTitle("Add"),
	}
}

// InCustomization reports whether the menu selection is the customization page.
func (v *CustomizationView) InCustomization(ctx context.Context) (bool, error) {
	sel, err := v.Navigation.CurrentlySelected(ctx)
	if err != nil || len(sel) != len(customizationPath) {
		return false, err
	}
	for i := range sel {
		if sel[i] != customizationPath[i] {
			return false, nil
		}
	}
	return true, nil
}

// ServiceDialogsOpened reports whether the Service Dialogs accordion is expanded.
func (v *CustomizationView) ServiceDialogsOpened(ctx context.Context) (bool, error) {
	shown, err := v.ServiceDialogs.IsDisplayed(ctx)
	if err != nil || !shown {
		return false, err
	}
	expanded, _, err := v.ServiceDialogs.Attribute(ctx, "aria-expanded")
	return expanded == "true", err
}

// titled reports whether the explorer shows title inside the service dialogs accordion.
func (v *CustomizationView) titled(ctx context.Context, title string) (bool, error) {
	return view.All(ctx,
		view.Func(v.InCustomization),
		view.Func(v.ServiceDialogsOpened),
		view.Func(func(ctx context.Context) (bool, error) { return view.TextIs(ctx, v.Title, title) }),
	)
}

// DialogsView lists all dialogs.
type DialogsView struct{ *CustomizationView }

// IsDisplayed implements view.View.
func (v *DialogsView) IsDisplayed(ctx context.Context) (bool, error) {
	return v.titled(ctx, "All Dialogs")
}

// EditorForm is the label and description pair of the dialog, tab and box pages.
type EditorForm struct {
	*CustomizationView
	Label       *widget.TextInput
	Description *widget.TextInput
	title       string
}

// IsDisplayed implements view.View.
func (v *EditorForm) IsDisplayed(ctx context.Context) (bool, error) {
	return v.titled(ctx, v.title)
}

// Fill sets label and description.
func (v *EditorForm) Fill(ctx context.Context, label, description string) (bool, error) {
	return widget.FillAll(ctx, v.Label.Set(label), v.Description.Set(description))
}

// AddDialogView is the dialog information page of a new dialog.
type AddDialogView struct {
	*EditorForm
	SubmitButton *widget.Checkbox
	CancelButton *widget.Checkbox
}

// NewAddDialogView binds the new dialog page.
func NewAddDialogView(b browser.Driver) *AddDialogView {
	c := NewCustomizationView(b)
	return &AddDialogView{
		EditorForm: &EditorForm{
			CustomizationView: c,
			Label:             c.TextInput("label"),
			Description:       c.TextInput("description"),
			title:             "Adding a new Dialog [Dialog Information]",
		},
		SubmitButton: c.Checkbox("chkbx_submit"),
		CancelButton: c.Checkbox("chkbx_cancel"),
	}
}

// NewAddTabView binds the tab information page of a new dialog.
func NewAddTabView(b browser.Driver) *EditorForm {
	c := NewCustomizationView(b)
	return &EditorForm{
		CustomizationView: c,
		Label:             c.TextInput("tab_label"),
		Description:       c.TextInput("tab_description"),
		title:             "Adding a new Dialog [Tab Information]",
	}
}

// NewAddBoxView binds the box information page of a new dialog.
func NewAddBoxView(b browser.Driver) *EditorForm {
	c := NewCustomizationView(b)
	return &EditorForm{
		CustomizationView: c,
		Label:             c.TextInput("group_label"),
		Description:       c.TextInput("group_description"),
		title:             "Adding a new Dialog [Box Information]",
	}
}

// ElementForm is the element information and options form.
type ElementForm struct {
	*CustomizationView
	Label             *widget.TextInput
	Name              *widget.TextInput
	Description       *widget.TextInput
	ChooseType        *widget.BootstrapSelect
	DefaultTextBox    *widget.TextInput
	DefaultValue      *widget.Checkbox
	Required          *widget.Checkbox
	PastDates         *widget.Checkbox
	EntryPoint        *widget.TextInput
	ShowRefreshButton *widget.Checkbox
	EntryValue        *widget.TextInput
	EntryDescription  *widget.TextInput
	AddEntryButton    *widget.Button
	Category          *widget.BootstrapSelect
	Dynamic           *widget.Checkbox
	EntryTable        *widget.Table
	ElementTree       *widget.Tree
	DynamicTree       *widget.Tree
	Apply             *widget.Button
}

func newElementForm(b browser.Driver) *ElementForm {
	c := NewCustomizationView(b)
	return &ElementForm{
		CustomizationView: c,
		Label:             c.TextInput("field_label"),
		Name:              c.TextInput("field_name"),
		Description:       c.TextInput("field_description"),
		ChooseType:        c.BootstrapSelect("field_typ"),
		DefaultTextBox:    c.TextInput("field_default_value"),
		DefaultValue:      c.Checkbox("field_default_value"),
		Required:          c.Checkbox("field_required"),
		PastDates:         c.Checkbox("field_past_dates"),
		EntryPoint:        c.TextInput("field_entry_point"),
		ShowRefreshButton: c.Checkbox("field_show_refresh_button"),
		EntryValue:        c.TextInput("entry[value]"),
		EntryDescription:  c.TextInput("entry[description]"),
		AddEntryButton:    c.ButtonAt(browser.XPath(`.//input[@id="accept"]`)),
		Category:          c.BootstrapSelect("field_category"),
		Dynamic:           c.Checkbox("field_dynamic"),
		EntryTable:        c.Table(browser.XPath(`//div[@id="field_values_div"]/form/table`)),
		ElementTree:       c.Tree("dialog_edit_treebox"),
		DynamicTree:       c.Tree("automate_treebox"),
		Apply:             c.Button("Apply"),
	}
}

// FillInformation fills the element information part.
func (f *ElementForm) FillInformation(ctx context.Context, info ElementInformation) (bool, error) {
	return widget.FillAll(ctx,
		f.Label.Set(info.Label),
		f.Name.Set(info.Name),
		f.Description.Set(info.Description),
		f.ChooseType.Set(info.Type),
	)
}

// FillOptions fills the options part. A nil o changes nothing.
func (f *ElementForm) FillOptions(ctx context.Context, o *ElementOptions) (bool, error) {
	if o == nil {
		return false, nil
	}
	dynamic := o.Dynamic
	return widget.FillAll(ctx,
		f.DefaultTextBox.Set(o.DefaultTextBox),
		f.DefaultValue.Set(o.DefaultValue),
		f.Required.Set(o.Required),
		f.PastDates.Set(o.PastDates),
		f.EntryPoint.Set(o.EntryPoint),
		f.ShowRefreshButton.Set(o.ShowRefreshButton),
		f.Category.Set(o.Category),
		f.Dynamic.Set(&dynamic),
	)
}

var _ view.Fillable[ElementData] = (*ElementForm)(nil)

// Fill fills information then options.
func (f *ElementForm) Fill(ctx context.Context, e ElementData) (bool, error) {
	a, err := f.FillInformation(ctx, e.Information)
	if err != nil {
		return a, fmt.Errorf("element information: %w", err)
	}
	b, err := f.FillOptions(ctx, e.Options)
	if err != nil {
		return a || b, fmt.Errorf("element options: %w", err)
	}
	return a || b, nil
}

// AddElementView is the element page of a new dialog.
type AddElementView struct {
	*ElementForm
	Add *widget.Button
}

// NewAddElementView binds the new element page.
func NewAddElementView(b browser.Driver) *AddElementView {
	f := newElementForm(b)
	return &AddElementView{ElementForm: f, Add: f.Button("Add")}
}

// IsDisplayed implements view.View.
func (v *AddElementView) IsDisplayed(ctx context.Context) (bool, error) {
	return v.titled(ctx, "Adding a new Dialog [Element Information]")
}

// EditElementView is the element page of an existing dialog.
type EditElementView struct {
	*ElementForm
	Save        *widget.Button
	Reset       *widget.Button
	DragAndDrop *widget.DragAndDrop
	dialog      string
}

// NewEditElementView binds the element page of the dialog labelled dialog.
func NewEditElementView(b browser.Driver, dialog string) *EditElementView {
	f := newElementForm(b)
	return &EditElementView{
		ElementForm: f,
		Save:        f.Button("Save"),
		Reset:       f.Button("Reset"),
		DragAndDrop: f.Scope.DragAndDrop(),
		dialog:      dialog,
	}
}

// IsDisplayed implements view.View.
func (v *EditElementView) IsDisplayed(ctx context.Context) (bool, error) {
	return v.titled(ctx, fmt.Sprintf("Editing Dialog %s [Element Information]", v.dialog))
}

// ElementLocator locates the panel of the element whose heading contains label.
func ElementLocator(label string) browser.Locator {
	return browser.XPath(fmt.Sprintf(`//div[@class="panel-heading"][contains(normalize-space(.), %s)]/..`, browser.Quote(label)))
}

// DetailsDialogView shows one saved dialog.
type DetailsDialogView struct {
	*CustomizationView
	dialog string
}

// NewDetailsDialogView binds the details page of the dialog labelled dialog.
func NewDetailsDialogView(b browser.Driver, dialog string) *DetailsDialogView {
	return &DetailsDialogView{CustomizationView: NewCustomizationView(b), dialog: dialog}
}

// IsDisplayed implements view.View.
func (v *DetailsDialogView) IsDisplayed(ctx context.Context) (bool, error) {
	return v.titled(ctx, fmt.Sprintf("Dialog %q", v.dialog))
}
