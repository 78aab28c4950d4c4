// Package genericobject manages generic object definitions through the
// appliance REST API.
package genericobject

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/v2v-test/integration-tests/internal/rest"
)

// CollectionName is the REST collection of definitions.
const CollectionName = "generic_object_definitions"

// LedgerKind is the kind definitions are recorded under in the ledger.
const LedgerKind = "generic_object_definition"

// Recorder keeps track of definitions created on the appliance.
type Recorder interface {
	Record(ctx context.Context, kind, name, href string) error
	Forget(ctx context.Context, kind, name string) error
}

// Properties are the typed parts of a definition.
type Properties struct {
	// Attributes maps attribute name to type, e.g. "integer".
	Attributes map[string]string
	// Associations maps association name to class, e.g. "Vm".
	Associations map[string]string
	Methods      []string
}

// Definition is a generic object definition.
type Definition struct {
	Name        string
	Description string
	Properties
	// RESTResponse is the response of the last create, update or delete.
	// It is nil when update or delete found nothing to act on.
	RESTResponse *rest.Response

	c *DefinitionCollection
}

// DefinitionCollection creates and finds definitions.
type DefinitionCollection struct {
	api *rest.Client
	rec Recorder
	log *zap.Logger
}

// NewDefinitionCollection binds the collection to api. rec may be nil.
func NewDefinitionCollection(api *rest.Client, rec Recorder, logger *zap.Logger) *DefinitionCollection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefinitionCollection{api: api, rec: rec, log: logger}
}

// Instantiate returns a handle on a definition without touching the appliance.
func (c *DefinitionCollection) Instantiate(name, description string, props Properties) *Definition {
	return &Definition{Name: name, Description: description, Properties: props, c: c}
}

// Create posts a new definition. Only non-empty properties are sent.
func (c *DefinitionCollection) Create(ctx context.Context, name, description string, props Properties) (*Definition, error) {
	properties := map[string]any{}
	if len(props.Attributes) > 0 {
		properties["attributes"] = props.Attributes
	}
	if len(props.Associations) > 0 {
		properties["associations"] = props.Associations
	}
	if len(props.Methods) > 0 {
		properties["methods"] = props.Methods
	}
	body := map[string]any{
		"name":        name,
		"description": description,
		"properties":  properties,
	}

	created, resp, err := c.api.Collection(CollectionName).Create(ctx, []map[string]any{body})
	if err != nil {
		return nil, fmt.Errorf("create definition %s: %w", name, err)
	}
	if err := rest.AssertResponse(resp); err != nil {
		return nil, fmt.Errorf("create definition %s: %w", name, err)
	}

	d := c.Instantiate(name, description, props)
	d.RESTResponse = resp
	if c.rec != nil {
		href := ""
		if len(created) > 0 {
			href = created[0].Href
		}
		if err := c.rec.Record(ctx, LedgerKind, name, href); err != nil {
			c.log.Warn("failed to record definition", zap.String("name", name), zap.Error(err))
		}
	}
	c.log.Info("generic object definition created", zap.String("name", name))
	return d, nil
}

// FindByName returns the definitions called name.
func (c *DefinitionCollection) FindByName(ctx context.Context, name string) ([]*rest.Resource, error) {
	return c.api.Collection(CollectionName).FindBy(ctx, map[string]string{"name": name})
}

// Updates lists the fields to change. Nil fields are left alone.
type Updates struct {
	Name         *string
	Description  *string
	Attributes   map[string]string
	Associations map[string]string
	Methods      []string
}

func (u Updates) body() map[string]any {
	properties := map[string]any{}
	body := map[string]any{"properties": properties}
	if u.Name != nil {
		body["name"] = *u.Name
	}
	if u.Description != nil {
		body["description"] = *u.Description
	}
	if u.Attributes != nil {
		properties["attributes"] = u.Attributes
	}
	if u.Associations != nil {
		properties["associations"] = u.Associations
	}
	if u.Methods != nil {
		properties["methods"] = u.Methods
	}
	return body
}

// first finds the definition by name. A nil resource means it does not exist.
func (d *Definition) first(ctx context.Context) (*rest.Resource, error) {
	found, err := d.c.FindByName(ctx, d.Name)
	if err != nil {
		return nil, fmt.Errorf("find definition %s: %w", d.Name, err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

// Update edits the definition. A definition that no longer exists is left
// alone and its RESTResponse cleared.
func (d *Definition) Update(ctx context.Context, u Updates) error {
	res, err := d.first(ctx)
	if err != nil {
		return err
	}
	if res == nil {
		d.RESTResponse = nil
		d.c.log.Debug("update skipped, definition not found", zap.String("name", d.Name))
		return nil
	}

	resp, err := res.Edit(ctx, u.body())
	if err != nil {
		return fmt.Errorf("edit definition %s: %w", d.Name, err)
	}
	if err := rest.AssertResponse(resp); err != nil {
		return fmt.Errorf("edit definition %s: %w", d.Name, err)
	}
	d.RESTResponse = resp

	oldName := d.Name
	d.apply(u)
	if d.c.rec != nil && d.Name != oldName {
		if err := d.c.rec.Forget(ctx, LedgerKind, oldName); err != nil {
			d.c.log.Warn("failed to forget renamed definition", zap.String("name", oldName), zap.Error(err))
		}
		if err := d.c.rec.Record(ctx, LedgerKind, d.Name, res.Href); err != nil {
			d.c.log.Warn("failed to record renamed definition", zap.String("name", d.Name), zap.Error(err))
		}
	}
	return nil
}

func (d *Definition) apply(u Updates) {
	if u.Name != nil {
		d.Name = *u.Name
	}
	if u.Description != nil {
		d.Description = *u.Description
	}
	if u.Attributes != nil {
		d.Attributes = u.Attributes
	}
	if u.Associations != nil {
		d.Associations = u.Associations
	}
	if u.Methods != nil {
		d.Methods = u.Methods
	}
}

// Delete removes the definition. A definition that no longer exists is left
// alone and its RESTResponse cleared.
func (d *Definition) Delete(ctx context.Context) error {
	res, err := d.first(ctx)
	if err != nil {
		return err
	}
	if res == nil {
		d.RESTResponse = nil
		d.c.log.Debug("delete skipped, definition not found", zap.String("name", d.Name))
		return nil
	}

	resp, err := res.Delete(ctx)
	if err != nil {
		return fmt.Errorf("delete definition %s: %w", d.Name, err)
	}
	if err := rest.AssertResponse(resp); err != nil {
		return fmt.Errorf("delete definition %s: %w", d.Name, err)
	}
	d.RESTResponse = resp

	if d.c.rec != nil {
		if err := d.c.rec.Forget(ctx, LedgerKind, d.Name); err != nil {
			d.c.log.Warn("failed to forget definition", zap.String("name", d.Name), zap.Error(err))
		}
	}
	d.c.log.Info("generic object definition deleted", zap.String("name", d.Name))
	return nil
}

// Exists reports whether a definition of this name is on the appliance.
func (d *Definition) Exists(ctx context.Context) (bool, error) {
	res, err := d.first(ctx)
	return res != nil, err
}
