package automate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/v2v-test/integration-tests/internal/browser"
	"github.com/v2v-test/integration-tests/internal/browser/browsertest"
	"github.com/v2v-test/integration-tests/internal/login"
	"github.com/v2v-test/integration-tests/internal/navigation"
	"github.com/v2v-test/integration-tests/internal/widget"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	menuIdle          = `<div class="nav-pf-vertical"><ul><li><a>Automation</a><div><ul><li><a>Automate</a><div><ul><li><a>Customization</a></li></ul></div></li></ul></div></li></ul></div>`
	menuCustomization = `<div class="nav-pf-vertical"><ul><li class="active"><a>Automation</a><div><ul><li class="active"><a>Automate</a><div><ul><li class="active"><a>Customization</a></li></ul></div></li></ul></div></li></ul></div>`
	entryTableHTML    = `<table><thead><tr><th>Value</th><th>Description</th></tr></thead><tbody><tr><td>&lt;New Entry&gt;</td><td></td></tr></tbody></table>`
)

var elementTypes = []string{TypeTextBox, TypeDropDownList, TypeRadioButton, TypeTextAreaBox, TypeCheckBox}

// editor is a fake console showing the service dialog editor.
type editor struct {
	drv   *browsertest.Driver
	graph *navigation.Graph
	cv    *CustomizationView
	title *browsertest.Element
	form  *ElementForm
	srv   *login.Server
}

func newEditor(t *testing.T) *editor {
	t.Helper()
	drv := browsertest.New()
	g := navigation.New(drv, zaptest.NewLogger(t), navigation.Options{Timeout: 100 * time.Millisecond, Delay: time.Millisecond})
	require.NoError(t, login.RegisterSteps(g))
	require.NoError(t, RegisterSteps(g))

	cv := NewCustomizationView(drv)
	e := &editor{drv: drv, graph: g, cv: cv, srv: &login.Server{BaseURL: "https://appliance"}}

	nav := drv.Set(cv.Navigation.Locator(), &browsertest.Element{Visible: true, HTML: menuIdle})
	drv.Show(cv.Navigation.Entry("Automation"), "Automation")
	drv.Show(cv.Navigation.Entry("Automation", "Automate"), "Automate")
	drv.OnClick(cv.Navigation.Entry(customizationPath...), func() { nav.HTML = menuCustomization })

	e.title = drv.Show(cv.Title.Locator(), "")
	accordion := drv.Set(cv.ServiceDialogs.Locator(), &browsertest.Element{Visible: true, Attrs: map[string]string{"aria-expanded": "false"}})
	accordion.OnClick = func() {
		accordion.Attrs["aria-expanded"] = "true"
		e.title.Text = "All Dialogs"
	}

	for _, d := range []*widget.Dropdown{cv.Configuration, cv.Plus} {
		drv.Show(browser.XPath(`./button`).Within(d.Locator()), "")
	}
	e.onItem(cv.Configuration, ItemAddDialog, "Adding a new Dialog [Dialog Information]")
	e.onItem(cv.Plus, ItemAddTab, "Adding a new Dialog [Tab Information]")
	e.onItem(cv.Plus, ItemAddBox, "Adding a new Dialog [Box Information]")

	for _, f := range []*EditorForm{NewAddDialogView(drv).EditorForm, NewAddTabView(drv), NewAddBoxView(drv)} {
		e.input(f.Label)
		e.input(f.Description)
	}
	e.form = e.elementForm()
	return e
}

func (e *editor) onItem(d *widget.Dropdown, item, title string) {
	e.drv.OnClick(d.Item(item), func() { e.title.Text = title })
}

func (e *editor) input(w *widget.TextInput) *browsertest.Element {
	return e.drv.Set(w.Locator(), &browsertest.Element{Visible: true})
}

func (e *editor) checkbox(w *widget.Checkbox) *browsertest.Element {
	return e.drv.Set(w.Locator(), &browsertest.Element{Visible: true, Checkable: true})
}

func (e *editor) button(w *widget.Button) *browsertest.Element {
	return e.drv.Set(w.Locator(), &browsertest.Element{Visible: true})
}

// elementForm installs the element form. Picking "Add a new Element" shows
// an empty form.
func (e *editor) elementForm() *ElementForm {
	f := newElementForm(e.drv)
	label := e.input(f.Label)
	name := e.input(f.Name)
	e.input(f.Description)
	e.drv.OnClick(f.Plus.Item(ItemAddElement), func() {
		e.title.Text = "Adding a new Dialog [Element Information]"
		label.Value, name.Value = "", ""
	})

	current := e.drv.Show(browser.XPath(`.//button[contains(@class,'dropdown-toggle')]//span[contains(@class,'filter-option')]`).Within(f.ChooseType.Locator()), "<Choose>")
	e.drv.Show(browser.XPath(`.//button[contains(@class,'dropdown-toggle')]`).Within(f.ChooseType.Locator()), "")
	for _, typ := range elementTypes {
		typ := typ
		e.drv.OnClick(f.ChooseType.Item(widget.Exact(typ)), func() { current.Text = typ })
	}

	for _, w := range []*widget.TextInput{f.DefaultTextBox, f.EntryPoint, f.EntryValue, f.EntryDescription} {
		e.input(w)
	}
	for _, w := range []*widget.Checkbox{f.DefaultValue, f.Required, f.PastDates, f.ShowRefreshButton, f.Dynamic} {
		e.checkbox(w)
	}
	for _, w := range []*widget.Button{f.AddEntryButton, f.Apply} {
		e.button(w)
	}
	e.drv.Set(f.EntryTable.Locator(), &browsertest.Element{Visible: true, HTML: entryTableHTML})
	e.drv.Show(browser.XPath("./tbody/tr[1]").Within(f.EntryTable.Locator()), "<New Entry>")

	e.tree(f.DynamicTree, DefaultDynamicPath...)
	return f
}

// tree installs path as already expanded nodes.
func (e *editor) tree(t *widget.Tree, path ...string) *browsertest.Element {
	var last *browsertest.Element
	for _, label := range path {
		last = e.drv.Set(t.Node(label), &browsertest.Element{Visible: true, Text: label, Attrs: map[string]string{"aria-expanded": "true"}})
	}
	return last
}

func (e *editor) box(t *testing.T) *Box {
	t.Helper()
	ctx := context.Background()
	dialogs := NewDialogCollection(e.srv, e.graph, zaptest.NewLogger(t))
	d, err := dialogs.Create(ctx, "test_dialog", "a dialog")
	require.NoError(t, err)
	tab, err := d.Tabs().Create(ctx, "tab_1", "first tab")
	require.NoError(t, err)
	box, err := tab.Boxes().Create(ctx, "box_1", "first box")
	require.NoError(t, err)
	return box
}

func element(label, typ string, o *ElementOptions) ElementData {
	return ElementData{
		Information: ElementInformation{Label: label, Name: label, Description: label + " description", Type: typ},
		Options:     o,
	}
}

func TestBuildDialog(t *testing.T) {
	e := newEditor(t)
	box := e.box(t)

	assert.Equal(t, "test_dialog", e.drv.Get(NewAddDialogView(e.drv).Label.Locator()).Value)
	assert.Equal(t, "first tab", e.drv.Get(NewAddTabView(e.drv).Description.Locator()).Value)
	assert.Equal(t, "box_1", e.drv.Get(NewAddBoxView(e.drv).Label.Locator()).Value)
	assert.Equal(t, []string{"test_dialog", "tab_1", "box_1"}, box.treePath())

	elements := []ElementData{
		element("text_1", TypeTextBox, nil),
		element("drop_static", TypeDropDownList, nil),
		element("drop_dynamic", TypeDropDownList, &ElementOptions{Dynamic: true}),
		element("area", TypeTextAreaBox, nil),
	}
	addView := NewAddElementView(e.drv)
	e.button(addView.Add)

	el, err := box.Elements().Create(context.Background(), elements)
	require.NoError(t, err)
	assert.Len(t, el.Data, 4)

	f := e.form
	assert.Equal(t, 4, e.drv.ClickCount(f.Plus.Item(ItemAddElement)), "one to open the form, one per further element")
	assert.Equal(t, "area", e.drv.Get(f.Label.Locator()).Value)
	assert.Equal(t, DefaultEntryValue, e.drv.Get(f.EntryValue.Locator()).Value)
	assert.Equal(t, DefaultEntryDescription, e.drv.Get(f.EntryDescription.Locator()).Value)
	assert.Equal(t, 1, e.drv.ClickCount(f.AddEntryButton.Locator()))
	assert.Equal(t, DefaultEntryPoint, e.drv.Get(f.EntryPoint.Locator()).Value)
	assert.Equal(t, 1, e.drv.ClickCount(f.DynamicTree.Node("InspectMe")))
	assert.Equal(t, 1, e.drv.ClickCount(f.Apply.Locator()))
	assert.True(t, e.drv.Get(f.ShowRefreshButton.Locator()).Checked)
	assert.True(t, e.drv.Get(f.Dynamic.Locator()).Checked)
	assert.Equal(t, DefaultTextAreaText, e.drv.Get(f.DefaultTextBox.Locator()).Value)
	assert.Equal(t, 1, e.drv.ClickCount(addView.Add.Locator()))
}

func TestCreateElements_FlashError(t *testing.T) {
	e := newEditor(t)
	box := e.box(t)
	addView := NewAddElementView(e.drv)
	e.button(addView.Add).OnClick = func() {
		e.drv.Set(addView.Flash.Locator(), &browsertest.Element{Visible: true,
			HTML: `<div id="flash_msg_div"><div class="alert alert-danger">Name is required</div></div>`})
	}

	_, err := box.Elements().Create(context.Background(), []ElementData{element("text_1", TypeTextBox, nil)})
	var fe *widget.FlashError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Name is required", fe.Messages[0].Text)
}

func TestCreateElements_Empty(t *testing.T) {
	e := newEditor(t)
	_, err := e.box(t).Elements().Create(context.Background(), nil)
	assert.Error(t, err)
}

// saved installs the details and edit pages of a saved dialog and returns
// the element set of box.
func (e *editor) saved(box *Box) (*Element, *EditElementView) {
	dialog := box.Collection.dialog().Label
	e.title.Text = ""
	e.drv.Get(e.cv.ServiceDialogs.Locator()).Attrs["aria-expanded"] = "false"

	e.tree(e.cv.DialogsTree, "All Dialogs")
	e.drv.OnClick(e.cv.DialogsTree.Node(dialog), func() { e.title.Text = `Dialog "` + dialog + `"` })
	e.onItem(e.cv.Configuration, ItemEditDialog, "Editing Dialog "+dialog+" [Element Information]")

	edit := NewEditElementView(e.drv, dialog)
	e.tree(edit.ElementTree, box.treePath()...)
	e.button(edit.Save).OnClick = func() { e.title.Text = `Dialog "` + dialog + `"` }

	el := &Element{Collection: box.Elements(), Data: []ElementData{element("first", TypeTextBox, nil)}}
	return el, edit
}

func TestElementAddAnother(t *testing.T) {
	e := newEditor(t)
	el, edit := e.saved(e.box(t))

	require.NoError(t, el.AddAnother(context.Background(), element("second", TypeRadioButton, nil)))
	assert.Len(t, el.Data, 2)
	assert.Equal(t, 1, e.drv.ClickCount(e.cv.Configuration.Item(ItemEditDialog)))
	assert.Equal(t, 1, e.drv.ClickCount(edit.ElementTree.Node("box_1")))
	assert.Equal(t, 1, e.drv.ClickCount(edit.Save.Locator()))
	assert.Equal(t, "second", e.drv.Get(edit.Label.Locator()).Value)
	assert.Equal(t, 1, e.drv.ClickCount(edit.AddEntryButton.Locator()), "radio buttons get a static entry")
}

func TestElementAddAnother_NotSaved(t *testing.T) {
	e := newEditor(t)
	el, edit := e.saved(e.box(t))
	e.drv.Get(edit.Save.Locator()).OnClick = nil

	err := el.AddAnother(context.Background(), element("second", TypeTextBox, nil))
	assert.ErrorContains(t, err, "dialog details")
	assert.Len(t, el.Data, 1)
}

func TestElementReorder(t *testing.T) {
	for _, add := range []bool{false, true} {
		t.Run(map[bool]string{false: "existing", true: "added"}[add], func(t *testing.T) {
			e := newEditor(t)
			el, edit := e.saved(e.box(t))
			first, second := el.Data[0], element("second", TypeTextBox, nil)
			e.drv.Show(ElementLocator("first"), "first")
			e.drv.Show(ElementLocator("second"), "second")

			require.NoError(t, el.Reorder(context.Background(), add, second, first))

			assert.Equal(t, []browsertest.Drag{{From: ElementLocator("first").String(), To: ElementLocator("second").String()}}, e.drv.Drags())
			assert.Equal(t, 1, e.drv.ClickCount(edit.Save.Locator()))
			clicks := 1
			wantData := 1
			if add {
				clicks, wantData = 2, 2
			}
			assert.Equal(t, clicks, e.drv.ClickCount(edit.ElementTree.Node("box_1")))
			assert.Len(t, el.Data, wantData)
		})
	}
}

func TestStepsChain(t *testing.T) {
	e := newEditor(t)
	d := NewDialogCollection(e.srv, e.graph, nil).Instantiate("d", "")
	box := &Box{Collection: (&Tab{Collection: d.Tabs(), Label: "t"}).Boxes(), Label: "b"}

	path, err := e.graph.Path(box.Elements(), StepAdd)
	require.NoError(t, err)
	assert.Equal(t, []navigation.Key{
		{Kind: login.Kind, Name: login.StepLoggedIn},
		{Kind: KindDialogs, Name: StepAll},
		{Kind: KindDialogs, Name: StepAdd},
		{Kind: KindTabs, Name: StepAdd},
		{Kind: KindBoxes, Name: StepAdd},
		{Kind: KindElements, Name: StepAdd},
	}, path)

	path, err = e.graph.Path(&Element{Collection: box.Elements()}, StepEdit)
	require.NoError(t, err)
	assert.Equal(t, []navigation.Key{
		{Kind: login.Kind, Name: login.StepLoggedIn},
		{Kind: KindDialogs, Name: StepAll},
		{Kind: KindDialog, Name: StepDetails},
		{Kind: KindElement, Name: StepEdit},
	}, path)
}

func TestNavigateToDialogs_OpensAccordionOnce(t *testing.T) {
	e := newEditor(t)
	dialogs := NewDialogCollection(e.srv, e.graph, nil)
	ctx := context.Background()

	_, err := navigation.To[*DialogsView](ctx, e.graph, dialogs, StepAll)
	require.NoError(t, err)
	_, err = navigation.To[*DialogsView](ctx, e.graph, dialogs, StepAll)
	require.NoError(t, err)
	assert.Equal(t, 1, e.drv.ClickCount(e.cv.ServiceDialogs.Locator()))
}

func TestNavigate_NoServer(t *testing.T) {
	e := newEditor(t)
	_, err := e.graph.Path(NewDialogCollection(nil, e.graph, nil), StepAll)
	assert.ErrorContains(t, err, "no server")
}
