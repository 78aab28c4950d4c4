// Package v2v drives the VM migration pages: infrastructure mappings and
// migration plans, both created through modal wizards on Compute > Migration.
package v2v

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/v2v-test/integration-tests/internal/login"
	"github.com/v2v-test/integration-tests/internal/navigation"
)

// Navigation kinds of the v2v collections.
const (
	KindMappings = "InfrastructureMappingCollection"
	KindPlans    = "MigrationPlanCollection"
)

// Step names.
const (
	StepAll = "All"
	StepAdd = "Add"
)

// InfrastructureMapping is a mapping created through the wizard.
type InfrastructureMapping struct {
	Name        string
	Description string
	FormData    MappingForm
}

// InfrastructureMappingCollection creates infrastructure mappings.
type InfrastructureMappingCollection struct {
	Server *login.Server
	nav    *navigation.Graph
	log    *zap.Logger
}

// NewInfrastructureMappingCollection returns the collection navigated through g.
func NewInfrastructureMappingCollection(srv *login.Server, g *navigation.Graph, logger *zap.Logger) *InfrastructureMappingCollection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InfrastructureMappingCollection{Server: srv, nav: g, log: logger}
}

// NavKind implements navigation.Destination.
func (*InfrastructureMappingCollection) NavKind() string { return KindMappings }

func (c *InfrastructureMappingCollection) server() *login.Server { return c.Server }

// Create opens the mapping wizard and fills it with form.
func (c *InfrastructureMappingCollection) Create(ctx context.Context, form MappingForm) (*InfrastructureMapping, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	v, err := navigation.To[*AddInfrastructureMappingView](ctx, c.nav, c, StepAdd)
	if err != nil {
		return nil, err
	}
	if _, err := v.Form.Fill(ctx, form); err != nil {
		return nil, fmt.Errorf("fill infrastructure mapping %s: %w", form.General.Name, err)
	}
	c.log.Info("infrastructure mapping created", zap.String("name", form.General.Name))
	return &InfrastructureMapping{
		Name:        form.General.Name,
		Description: form.General.Description,
		FormData:    form,
	}, nil
}
