package v2v

import (
	"context"
	"fmt"

	"github.com/v2v-test/integration-tests/internal/browser"
	"github.com/v2v-test/integration-tests/internal/login"
	"github.com/v2v-test/integration-tests/internal/view"
	"github.com/v2v-test/integration-tests/internal/widget"
)

var (
	modal      = browser.XPath(`//div[contains(@class,'modal-content')]`)
	modalTitle = browser.XPath(`.//h4[contains(@class,"modal-title")]`)
)

// MigrationDashboardView is Compute > Migration.
type MigrationDashboardView struct {
	*login.BaseLoggedInPage
	CreateInfrastructureMapping *widget.Text
	CreateMigrationPlan         *widget.Text
	PlansDropdown               *widget.Dropdown
	PlansNotStarted             *widget.PlansList
	PlansCompleted              *widget.PlansList
}

// NewMigrationDashboardView binds the migration dashboard.
func NewMigrationDashboardView(b browser.Driver) *MigrationDashboardView {
	base := login.NewBaseLoggedInPage(b)
	return &MigrationDashboardView{
		BaseLoggedInPage:            base,
		CreateInfrastructureMapping: base.Text(browser.XPath(`(//a|//button)[text()="Create Infrastructure Mapping"]`)),
		CreateMigrationPlan:         base.Text(browser.XPath(`(//a|//button)[text()="Create Migration Plan"]`)),
		PlansDropdown:               base.Dropdown("Migration Plans Not Started"),
		PlansNotStarted:             base.PlansList("plans-not-started-list"),
		PlansCompleted:              base.PlansList("plans-complete-list"),
	}
}

// IsDisplayed reports whether the menu selection is Compute > Migration.
func (v *MigrationDashboardView) IsDisplayed(ctx context.Context) (bool, error) {
	sel, err := v.Navigation.CurrentlySelected(ctx)
	if err != nil {
		return false, err
	}
	return len(sel) == 2 && sel[0] == "Compute" && sel[1] == "Migration", nil
}

// MappingPage is a wizard page pairing source items with target items.
type MappingPage struct {
	Source *widget.MultiSelectList
	Target *widget.MultiSelectList
	// ClusterSelect is nil on the cluster page itself.
	ClusterSelect  *widget.BootstrapSelect
	AddMapping     *widget.Button
	RemoveSelected *widget.Button
	RemoveAll      *widget.Button
	MappingsTree   *widget.Tree
	Back, Next     *widget.Button
	Cancel         *widget.Button
}

func newMappingPage(s widget.Scope, source, target, next string, clustered bool) *MappingPage {
	p := &MappingPage{
		Source:         s.MultiSelectList(source),
		Target:         s.MultiSelectList(target),
		AddMapping:     s.Button("Add Mapping"),
		RemoveSelected: s.Button("Remove Selected"),
		RemoveAll:      s.Button("Remove All"),
		MappingsTree:   s.TreeByClass("treeview"),
		Back:           s.Button("Back"),
		Next:           s.Button(next),
		Cancel:         s.Button("Cancel"),
	}
	if clustered {
		p.ClusterSelect = s.BootstrapSelect("cluster_select")
	}
	return p
}

// fillRules adds every rule and reports whether any source and any target
// selection changed.
func (p *MappingPage) fillRules(ctx context.Context, rules []MappingRule) (src, tgt bool, err error) {
	for i, rule := range rules {
		s, err := p.Source.Fill(ctx, rule.Sources)
		if err != nil {
			return src, tgt, fmt.Errorf("mapping %d sources: %w", i, err)
		}
		t, err := p.Target.Fill(ctx, rule.Target)
		if err != nil {
			return src, tgt, fmt.Errorf("mapping %d target: %w", i, err)
		}
		if err := p.AddMapping.Click(ctx); err != nil {
			return src, tgt, fmt.Errorf("mapping %d: add: %w", i, err)
		}
		src, tgt = src || s, tgt || t
	}
	return src, tgt, nil
}

// Fill adds the cluster page mappings. The page changed only when both a
// source and a target selection did.
func (p *MappingPage) Fill(ctx context.Context, m Mappings) (bool, error) {
	src, tgt, err := p.fillRules(ctx, m.Mappings)
	return src && tgt, err
}

// FillClusters adds the mappings of every cluster, selecting each target
// cluster first, in declared order.
func (p *MappingPage) FillClusters(ctx context.Context, clusters ClusterMappingList) (bool, error) {
	if p.ClusterSelect == nil {
		return false, fmt.Errorf("page has no cluster selector")
	}
	var src, tgt bool
	for _, c := range clusters {
		if _, err := p.ClusterSelect.Fill(ctx, c.Cluster); err != nil {
			return false, fmt.Errorf("select cluster %s: %w", c.Cluster, err)
		}
		s, t, err := p.fillRules(ctx, c.Mappings)
		if err != nil {
			return false, fmt.Errorf("cluster %s: %w", c.Cluster, err)
		}
		src, tgt = src || s, tgt || t
	}
	return src && tgt, nil
}

// GeneralPage is the name and description page.
type GeneralPage struct {
	Name        *widget.TextInput
	Description *widget.TextInput
	Back, Next  *widget.Button
	Cancel      *widget.Button
}

// Fill sets name and description, skipping empty values.
func (p *GeneralPage) Fill(ctx context.Context, g General) (bool, error) {
	return widget.FillAll(ctx, p.Name.Set(g.Name), p.Description.Set(g.Description))
}

// MappingResultsPage is shown once the mapping is created.
type MappingResultsPage struct {
	Close          *widget.Button
	ContinueToPlan *widget.Button
}

// InfraMappingWizard is the infrastructure mapping modal.
type InfraMappingWizard struct {
	Title     *widget.Text
	General   *GeneralPage
	Cluster   *MappingPage
	Datastore *MappingPage
	Network   *MappingPage
	Result    *MappingResultsPage
}

func newInfraMappingWizard(b browser.Driver) *InfraMappingWizard {
	s := widget.NewScope(b).Nested(modal)
	return &InfraMappingWizard{
		Title: s.Text(modalTitle),
		General: &GeneralPage{
			Name:        s.TextInput("name"),
			Description: s.TextInput("description"),
			Back:        s.Button("Back"),
			Next:        s.Button("Next"),
			Cancel:      s.Button("Cancel"),
		},
		Cluster:   newMappingPage(s, "source_clusters", "target_clusters", "Next", false),
		Datastore: newMappingPage(s, "source_datastores", "target_datastores", "Next", true),
		// The last page's Next is labelled Create.
		Network: newMappingPage(s, "source_networks", "target_networks", "Create", true),
		Result: &MappingResultsPage{
			Close:          s.Button("Close"),
			ContinueToPlan: s.Button("Continue to the plan wizard"),
		},
	}
}

// clusterPage fills a mapping page cluster by cluster.
type clusterPage struct{ *MappingPage }

func (p clusterPage) Fill(ctx context.Context, clusters ClusterMappingList) (bool, error) {
	return p.FillClusters(ctx, clusters)
}

var (
	_ view.Fillable[Mappings]    = (*MappingPage)(nil)
	_ view.Fillable[General]     = (*GeneralPage)(nil)
	_ view.Fillable[MappingForm] = (*InfraMappingWizard)(nil)
)

// Fill runs the wizard page by page. Each page advances only when it changed
// something; the results page is closed only when anything changed.
func (w *InfraMappingWizard) Fill(ctx context.Context, f MappingForm) (bool, error) {
	return view.Wizard{
		Pages: []view.Page{
			{
				Name:    "general",
				Fill:    view.FillWith[General](w.General, f.General),
				Advance: view.Click(w.General.Next),
			},
			{
				Name:    "cluster",
				Fill:    view.FillWith[Mappings](w.Cluster, f.Cluster),
				Advance: view.Click(w.Cluster.Next),
			},
			{
				Name:    "datastore",
				Fill:    view.FillWith[ClusterMappingList](clusterPage{w.Datastore}, f.Datastore),
				Advance: view.Click(w.Datastore.Next),
			},
			{
				Name:    "network",
				Fill:    view.FillWith[ClusterMappingList](clusterPage{w.Network}, f.Network),
				Advance: view.Click(w.Network.Next),
			},
		},
		AfterFill: view.Click(w.Result.Close),
	}.Fill(ctx)
}

// AddInfrastructureMappingView hosts the mapping wizard.
type AddInfrastructureMappingView struct {
	Form *InfraMappingWizard
}

// NewAddInfrastructureMappingView binds the mapping wizard.
func NewAddInfrastructureMappingView(b browser.Driver) *AddInfrastructureMappingView {
	return &AddInfrastructureMappingView{Form: newInfraMappingWizard(b)}
}

// IsDisplayed reports whether the wizard title is shown.
func (v *AddInfrastructureMappingView) IsDisplayed(ctx context.Context) (bool, error) {
	return view.TextIs(ctx, v.Form.Title, "Infrastructure Mapping Wizard")
}

// AddMigrationPlanView is the migration plan wizard.
type AddMigrationPlanView struct {
	Title  *widget.Text
	Back   *widget.Button
	Next   *widget.Button
	Cancel *widget.Button

	General struct {
		InfraMap    *widget.BootstrapSelect
		Name        *widget.TextInput
		Description *widget.TextInput
		SelectVM    *widget.RadioGroup
	}
	VMs struct {
		Import      *widget.Button
		ImportCSV   *widget.Button
		HiddenField *widget.HiddenFileInput
		Table       *widget.Table
	}
	Options struct {
		Create       *widget.Button
		RunMigration *widget.RadioGroup
	}
	Results struct {
		Close *widget.Button
		Msg   *widget.Text
	}
}

// Radio labels of the plan wizard.
const (
	ChoiceImportCSV      = "Import a CSV file with a list of VMs to be migrated"
	ChoiceStartMigration = "Start migration immediately"
)

// NewAddMigrationPlanView binds the plan wizard.
func NewAddMigrationPlanView(b browser.Driver) *AddMigrationPlanView {
	s := widget.NewScope(b).Nested(modal)
	v := &AddMigrationPlanView{
		Title:  s.Text(modalTitle),
		Back:   s.Button("Back"),
		Next:   s.Button("Next"),
		Cancel: s.Button("Cancel"),
	}
	v.General.InfraMap = s.BootstrapSelect("infrastructure_mapping")
	v.General.Name = s.TextInput("name")
	v.General.Description = s.TextInput("description")
	v.General.SelectVM = s.RadioGroup(browser.XPath(`.//*[contains(@id,"vm_choice_radio")]`))

	v.VMs.Import = s.Button("Import")
	v.VMs.ImportCSV = s.Button("Import CSV")
	v.VMs.HiddenField = s.HiddenFileInput(browser.XPath(`.//*[contains(@accept,".csv")]`))
	v.VMs.Table = s.Table(browser.XPath(`.//*[contains(@class, "container-fluid")]/table`))

	v.Options.Create = s.Button("Create")
	v.Options.RunMigration = s.RadioGroup(browser.XPath(`.//*[contains(@id,"migration_plan_choice_radio")]`))

	v.Results.Close = s.Button("Close")
	v.Results.Msg = s.Text(browser.XPath(`.//*[contains(@id,"migration-plan-results-message")]`))
	return v
}

// IsDisplayed reports whether the wizard title is shown.
func (v *AddMigrationPlanView) IsDisplayed(ctx context.Context) (bool, error) {
	return view.TextIs(ctx, v.Title, "Migration Plan Wizard")
}

// FillGeneral fills the first page.
func (v *AddMigrationPlanView) FillGeneral(ctx context.Context, o PlanOptions) (bool, error) {
	return widget.FillAll(ctx,
		v.General.InfraMap.Set(o.InfraMap),
		v.General.Name.Set(o.Name),
		v.General.Description.Set(o.Description),
	)
}
