package widget

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v2v-test/integration-tests/internal/browser"
	"github.com/v2v-test/integration-tests/internal/browser/browsertest"
)

const vmTable = `<table>
<thead><tr><th>Select</th><th>VM Name</th><th>Provider</th></tr></thead>
<tbody>
<tr><td><input type="checkbox"></td><td>ytale-v2v-ubuntu1</td><td>vsphere</td></tr>
<tr><td><input type="checkbox"></td><td> rhel-7 </td><td>vsphere</td></tr>
</tbody>
</table>`

func TestTable_Rows(t *testing.T) {
	ctx := context.Background()
	drv := browsertest.New()
	tbl := NewScope(drv).Table(browser.XPath(`//div[@id='vms']/table`))
	drv.Set(tbl.Locator(), &browsertest.Element{Visible: true, HTML: vmTable})

	hdr, err := tbl.Headers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Select", "VM Name", "Provider"}, hdr)

	rows, err := tbl.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	var names []string
	for _, r := range rows {
		names = append(names, r.Cell("VM Name"))
	}
	if diff := cmp.Diff([]string{"ytale-v2v-ubuntu1", "rhel-7"}, names); diff != "" {
		t.Errorf("row names mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "", rows[0].Cell("Nope"))

	row, err := tbl.Row(ctx, map[string]string{"VM Name": "rhel-7"})
	require.NoError(t, err)
	assert.Equal(t, 2, row.Index)
	assert.Equal(t, `//div[@id='vms']/table/tbody/tr[2]`, row.Locator().String())

	cb, err := row.Checkbox("Select")
	require.NoError(t, err)
	assert.Equal(t, `//div[@id='vms']/table/tbody/tr[2]/td[1]//input`, cb.Locator().String())

	_, err = tbl.Row(ctx, map[string]string{"VM Name": "absent"})
	assert.ErrorIs(t, err, browser.ErrNotFound)
}

func TestTable_HeaderRowInBody(t *testing.T) {
	ctx := context.Background()
	drv := browsertest.New()
	tbl := NewScope(drv).Table(browser.XPath(`//table`))
	drv.Set(tbl.Locator(), &browsertest.Element{Visible: true, HTML: `<table>
<tr><th>Value</th><th>Description</th></tr>
<tr><td>&lt;New Entry&gt;</td><td></td></tr>
</table>`})

	row, err := tbl.Row(ctx, map[string]string{"Value": "<New Entry>"})
	require.NoError(t, err)
	assert.Equal(t, 2, row.Index, "browser counts the header row inside tbody")
}

func TestTable_Missing(t *testing.T) {
	tbl := NewScope(browsertest.New()).Table(browser.XPath(`//table`))
	_, err := tbl.Rows(context.Background())
	assert.ErrorIs(t, err, browser.ErrNotFound)
}

func TestFlash(t *testing.T) {
	ctx := context.Background()
	drv := browsertest.New()
	f := NewScope(drv).Flash()

	require.NoError(t, f.AssertNoError(ctx), "no flash area means no errors")

	drv.Set(f.Locator(), &browsertest.Element{Visible: true, HTML: `<div id="flash_msg_div">
<div class="alert alert-success"><strong>Dialog "x" was saved</strong></div>
<div class="alert alert-danger"><strong>Label is required</strong></div>
</div>`})

	msgs, err := f.Messages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []FlashMessage{
		{Type: "success", Text: `Dialog "x" was saved`},
		{Type: "error", Text: "Label is required"},
	}, msgs)

	err = f.AssertNoError(ctx)
	var fe *FlashError
	require.ErrorAs(t, err, &fe)
	assert.Len(t, fe.Messages, 1)
	assert.Contains(t, err.Error(), "Label is required")
}

func TestDisplayedChecks_DoNotWaitForAbsentElements(t *testing.T) {
	ctx := context.Background()
	drv := browsertest.New()
	s := NewScope(drv)

	require.NoError(t, s.Flash().AssertNoError(ctx))
	sel, err := s.NavigationMenu().CurrentlySelected(ctx)
	require.NoError(t, err)
	assert.Empty(t, sel)
	items, err := s.PlansList("migration-plans-not-started").Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.Empty(t, drv.Misses())
}

func TestTable_WaitsForRenderingTable(t *testing.T) {
	drv := browsertest.New()
	tbl := NewScope(drv).Table(browser.XPath(`//table`))

	_, err := tbl.Rows(context.Background())
	assert.ErrorIs(t, err, browser.ErrNotFound)
	assert.Equal(t, []string{tbl.Locator().String()}, drv.Misses())
}

func TestNavigationMenu(t *testing.T) {
	ctx := context.Background()
	drv := browsertest.New()
	menu := NewScope(drv).NavigationMenu()

	top := menu.Entry("Compute")
	sub := menu.Entry("Compute", "Migration")
	assert.Equal(t,
		`//div[contains(@class,'nav-pf-vertical')]//ul/li/a[normalize-space(.)='Compute']/..//ul/li/a[normalize-space(.)='Migration']`,
		sub.String())
	drv.Show(top, "Compute")
	drv.Show(sub, "Migration")

	require.NoError(t, menu.Select(ctx, "Compute", "Migration"))
	assert.Equal(t, []string{top.String(), sub.String()}, drv.Clicks())

	drv.Set(menu.Locator(), &browsertest.Element{Visible: true, HTML: `<div class="nav-pf-vertical"><ul>
<li class="active"><a><span>Compute</span></a><div><ul>
  <li><a>Infrastructure</a></li>
  <li class="active"><a>Migration</a></li>
</ul></div></li>
<li><a>Automation</a></li>
</ul></div>`})
	sel, err := menu.CurrentlySelected(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Compute", "Migration"}, sel)
}

func TestTree_ClickPath(t *testing.T) {
	ctx := context.Background()
	drv := browsertest.New()
	tree := NewScope(drv).Tree("automate_treebox")

	drv.Set(tree.Node("Datastore"), &browsertest.Element{Visible: true, Attrs: map[string]string{"aria-expanded": "true"}})
	drv.Set(tree.Node("System"), &browsertest.Element{Visible: true, Attrs: map[string]string{"aria-expanded": "false"}})
	drv.Show(tree.expander("System"), "")
	drv.Show(tree.Node("InspectMe"), "")

	require.NoError(t, tree.ClickPath(ctx, "Datastore", "System", "InspectMe"))
	assert.Equal(t, []string{tree.expander("System").String(), tree.Node("InspectMe").String()}, drv.Clicks())

	assert.Error(t, tree.ClickPath(ctx))
	assert.Error(t, tree.ClickPath(ctx, "Missing", "Leaf"))
}

func TestTree_Nodes(t *testing.T) {
	drv := browsertest.New()
	tree := NewScope(drv).TreeByClass("treeview")
	drv.Set(tree.Locator(), &browsertest.Element{Visible: true, HTML: `<div class="treeview"><ul>
<li class="list-group-item">Cluster A</li><li class="list-group-item">Cluster B</li></ul></div>`})

	nodes, err := tree.Nodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Cluster A", "Cluster B"}, nodes)
}

func TestPlansList(t *testing.T) {
	ctx := context.Background()
	drv := browsertest.New()
	list := NewScope(drv).PlansList("plans-not-started-list")
	drv.Set(list.Locator(), &browsertest.Element{Visible: true, HTML: `<div id="plans-not-started-list">
<div class="list-group-item"><div class="list-group-item-heading">plan_a</div><div>1 VM</div></div>
<div class="list-group-item"><div class="list-group-item-heading">plan_b</div></div>
</div>`})

	items, err := list.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"plan_a", "plan_b"}, items)

	ok, err := list.Has(ctx, "plan_b")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHiddenFileInputAndDrag(t *testing.T) {
	ctx := context.Background()
	drv := browsertest.New()
	s := NewScope(drv)
	in := s.HiddenFileInput(browser.XPath(`.//*[contains(@accept,".csv")]`))
	drv.Set(in.Locator(), &browsertest.Element{})

	changed, err := in.Fill(ctx, "/tmp/v2v_vms.csv")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"/tmp/v2v_vms.csv"}, drv.Get(in.Locator()).Files)

	from, to := browser.XPath("//a"), browser.XPath("//b")
	drv.Show(from, "")
	drv.Show(to, "")
	require.NoError(t, s.DragAndDrop().Drag(ctx, from, to))
	assert.Equal(t, []browsertest.Drag{{From: "//a", To: "//b"}}, drv.Drags())
}
