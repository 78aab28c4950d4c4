package v2v

import (
	"context"
	"fmt"

	"github.com/v2v-test/integration-tests/internal/browser"
	"github.com/v2v-test/integration-tests/internal/login"
	"github.com/v2v-test/integration-tests/internal/navigation"
	"github.com/v2v-test/integration-tests/internal/view"
)

type collection interface {
	navigation.Destination
	server() *login.Server
}

func serverOf(d navigation.Destination) (navigation.Destination, error) {
	c, ok := d.(collection)
	if !ok || c.server() == nil {
		return nil, fmt.Errorf("%T has no server", d)
	}
	return c.server(), nil
}

func dashboard(b browser.Driver, _ navigation.Destination) view.View {
	return NewMigrationDashboardView(b)
}

func dashboardOf(in navigation.Input) (*MigrationDashboardView, error) {
	d, ok := in.Prev.(*MigrationDashboardView)
	if !ok {
		return nil, fmt.Errorf("prerequisite view is %T, not the migration dashboard", in.Prev)
	}
	return d, nil
}

// RegisterSteps adds the mapping and plan steps to g.
func RegisterSteps(g *navigation.Graph) error {
	all := navigation.Step{
		Prerequisite: navigation.Attribute(login.StepLoggedIn, serverOf),
		View:         dashboard,
		Do: func(ctx context.Context, in navigation.Input) error {
			page, ok := in.Prev.(*login.BaseLoggedInPage)
			if !ok {
				return fmt.Errorf("prerequisite view is %T", in.Prev)
			}
			return page.Navigation.Select(ctx, "Compute", "Migration")
		},
		Reset: func(ctx context.Context, in navigation.Input) error {
			return in.Browser.Refresh(ctx)
		},
	}
	steps := []struct {
		kind, name string
		step       navigation.Step
	}{
		{KindMappings, StepAll, all},
		{KindPlans, StepAll, all},
		{KindMappings, StepAdd, navigation.Step{
			Prerequisite: navigation.Sibling(StepAll),
			View: func(b browser.Driver, _ navigation.Destination) view.View {
				return NewAddInfrastructureMappingView(b)
			},
			Do: func(ctx context.Context, in navigation.Input) error {
				d, err := dashboardOf(in)
				if err != nil {
					return err
				}
				return d.CreateInfrastructureMapping.Click(ctx)
			},
		}},
		{KindPlans, StepAdd, navigation.Step{
			Prerequisite: navigation.Sibling(StepAll),
			View: func(b browser.Driver, _ navigation.Destination) view.View {
				return NewAddMigrationPlanView(b)
			},
			Do: func(ctx context.Context, in navigation.Input) error {
				d, err := dashboardOf(in)
				if err != nil {
					return err
				}
				return d.CreateMigrationPlan.Click(ctx)
			},
		}},
	}
	for _, s := range steps {
		if err := g.Register(s.kind, s.name, s.step); err != nil {
			return err
		}
	}
	return nil
}
