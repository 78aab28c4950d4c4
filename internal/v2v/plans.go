package v2v

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/v2v-test/integration-tests/internal/login"
	"github.com/v2v-test/integration-tests/internal/navigation"
	"github.com/v2v-test/integration-tests/internal/view"
	"github.com/v2v-test/integration-tests/internal/wait"
)

// MigrationPlan is a plan created through the wizard.
type MigrationPlan struct {
	Name string
}

// PlanWaits bounds the waits inside the plan wizard.
type PlanWaits struct {
	VMs     wait.Options
	Results wait.Options
}

// DefaultPlanWaits waits a minute for the VM table and for the results.
func DefaultPlanWaits() PlanWaits {
	return PlanWaits{
		VMs:     wait.Options{Timeout: 60 * time.Second, Delay: 2 * time.Second, Message: "Wait for VMs view"},
		Results: wait.Options{Timeout: 60 * time.Second, Delay: time.Second, Message: "Wait for Results view"},
	}
}

// MigrationPlanCollection creates migration plans.
type MigrationPlanCollection struct {
	Server *login.Server
	Waits  PlanWaits
	// TempDir receives the CSV file of a CSV import; empty means os.TempDir.
	TempDir string

	nav *navigation.Graph
	log *zap.Logger
}

// NewMigrationPlanCollection returns the collection navigated through g.
func NewMigrationPlanCollection(srv *login.Server, g *navigation.Graph, logger *zap.Logger) *MigrationPlanCollection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MigrationPlanCollection{Server: srv, Waits: DefaultPlanWaits(), nav: g, log: logger}
}

// NavKind implements navigation.Destination.
func (*MigrationPlanCollection) NavKind() string { return KindPlans }

func (c *MigrationPlanCollection) server() *login.Server { return c.Server }

// Create runs the plan wizard: general page, VM selection (discovered or
// imported from CSV), options, then checks the results message.
func (c *MigrationPlanCollection) Create(ctx context.Context, o PlanOptions) (*MigrationPlan, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	log := c.log.With(zap.String("plan", o.Name), zap.Stringer("import", o.Import))

	v, err := navigation.To[*AddMigrationPlanView](ctx, c.nav, c, StepAdd)
	if err != nil {
		return nil, err
	}
	if _, err := v.FillGeneral(ctx, o); err != nil {
		return nil, fmt.Errorf("fill general page: %w", err)
	}

	if o.Import == ImportViaCSV {
		if err := v.General.SelectVM.Select(ctx, ChoiceImportCSV); err != nil {
			return nil, fmt.Errorf("choose CSV import: %w", err)
		}
		if err := v.Next.Click(ctx); err != nil {
			return nil, err
		}
		path, err := writeVMsCSV(c.TempDir, o.VMs)
		if err != nil {
			return nil, err
		}
		defer os.Remove(path)
		if _, err := v.VMs.HiddenField.Fill(ctx, path); err != nil {
			return nil, fmt.Errorf("upload %s: %w", path, err)
		}
		log.Debug("uploaded VM list", zap.String("file", path), zap.Int("vms", len(o.VMs)))
	} else if err := v.Next.Click(ctx); err != nil {
		return nil, err
	}

	if err := wait.For(ctx, v.VMs.Table.IsDisplayed, c.Waits.VMs); err != nil {
		return nil, err
	}
	if err := c.selectVMs(ctx, v, o.VMs); err != nil {
		return nil, err
	}
	if err := v.Next.Click(ctx); err != nil {
		return nil, err
	}

	if o.StartMigration {
		if err := v.Options.RunMigration.Select(ctx, ChoiceStartMigration); err != nil {
			return nil, fmt.Errorf("choose start migration: %w", err)
		}
	}
	if err := v.Options.Create.Click(ctx); err != nil {
		return nil, err
	}
	if err := wait.For(ctx, v.Results.Msg.IsDisplayed, c.Waits.Results); err != nil {
		return nil, err
	}
	if err := view.AssertText(ctx, "migration plan results message", v.Results.Msg, o.ResultMessage()); err != nil {
		return nil, err
	}
	if err := v.Results.Close.Click(ctx); err != nil {
		return nil, err
	}

	log.Info("migration plan created", zap.Bool("started", o.StartMigration))
	return &MigrationPlan{Name: o.Name}, nil
}

func (c *MigrationPlanCollection) selectVMs(ctx context.Context, v *AddMigrationPlanView, vms []VM) error {
	wanted := make(map[string]bool, len(vms))
	for _, vm := range vms {
		wanted[vm.Name] = true
	}
	rows, err := v.VMs.Table.Rows(ctx)
	if err != nil {
		return fmt.Errorf("read VM table: %w", err)
	}
	selected := 0
	for _, row := range rows {
		if !wanted[row.Cell("VM Name")] {
			continue
		}
		cb, err := row.Checkbox("Select")
		if err != nil {
			return err
		}
		if _, err := cb.Fill(ctx, true); err != nil {
			return fmt.Errorf("select VM %s: %w", row.Cell("VM Name"), err)
		}
		selected++
	}
	if selected < len(wanted) {
		c.log.Warn("not every VM was listed", zap.Int("wanted", len(wanted)), zap.Int("selected", selected))
	}
	return nil
}

// writeVMsCSV writes the Name,Provider import file and returns its path.
func writeVMsCSV(dir string, vms []VM) (string, error) {
	f, err := os.CreateTemp(dir, "v2v_vms_*.csv")
	if err != nil {
		return "", fmt.Errorf("create VM csv: %w", err)
	}
	if err := encodeVMs(f, vms); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write VM csv: %w", err)
	}
	return f.Name(), nil
}

// encodeVMs writes the rows to w and closes it. A failed close is a failed
// write: the file may be short.
func encodeVMs(w io.WriteCloser, vms []VM) error {
	records := [][]string{{"Name", "Provider"}}
	for _, vm := range vms {
		records = append(records, []string{vm.Name, vm.Provider})
	}
	if err := csv.NewWriter(w).WriteAll(records); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
