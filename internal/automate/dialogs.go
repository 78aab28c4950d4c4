// Package automate drives the service dialog editor under
// Automation > Automate > Customization. A dialog is built top down: the
// dialog, then a tab, then a box, then the elements, all on one unsaved
// editor page that the element Add button finally saves.
package automate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/v2v-test/integration-tests/internal/login"
	"github.com/v2v-test/integration-tests/internal/navigation"
)

// Navigation kinds of the dialog editor.
const (
	KindDialogs  = "DialogCollection"
	KindDialog   = "Dialog"
	KindTabs     = "TabCollection"
	KindBoxes    = "BoxCollection"
	KindElements = "ElementCollection"
	KindElement  = "Element"
)

// Step names.
const (
	StepAll     = "All"
	StepAdd     = "Add"
	StepDetails = "Details"
	StepEdit    = "Edit"
)

// DialogCollection is the list of service dialogs.
type DialogCollection struct {
	Server *login.Server

	nav *navigation.Graph
	log *zap.Logger
}

// NewDialogCollection returns the collection navigated through g.
func NewDialogCollection(srv *login.Server, g *navigation.Graph, logger *zap.Logger) *DialogCollection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DialogCollection{Server: srv, nav: g, log: logger}
}

// NavKind implements navigation.Destination.
func (*DialogCollection) NavKind() string { return KindDialogs }

// Instantiate returns the dialog labelled label without touching the console.
func (c *DialogCollection) Instantiate(label, description string) *Dialog {
	return &Dialog{Collection: c, Label: label, Description: description}
}

// Create opens a new dialog and fills its information. Nothing is saved
// until the first elements are added.
func (c *DialogCollection) Create(ctx context.Context, label, description string) (*Dialog, error) {
	v, err := navigation.To[*AddDialogView](ctx, c.nav, c, StepAdd)
	if err != nil {
		return nil, err
	}
	if _, err := v.Fill(ctx, label, description); err != nil {
		return nil, fmt.Errorf("fill dialog %s: %w", label, err)
	}
	c.log.Debug("dialog information filled", zap.String("dialog", label))
	return c.Instantiate(label, description), nil
}

// Dialog is one service dialog.
type Dialog struct {
	Collection  *DialogCollection
	Label       string
	Description string
}

// NavKind implements navigation.Destination.
func (*Dialog) NavKind() string { return KindDialog }

// Tabs returns the tabs of the dialog.
func (d *Dialog) Tabs() *TabCollection { return &TabCollection{Dialog: d} }

// TabCollection is the tabs of a dialog being edited.
type TabCollection struct {
	Dialog *Dialog
}

// NavKind implements navigation.Destination.
func (*TabCollection) NavKind() string { return KindTabs }

// Create adds a tab to the dialog and fills its information.
func (c *TabCollection) Create(ctx context.Context, label, description string) (*Tab, error) {
	v, err := navigation.To[*EditorForm](ctx, c.Dialog.Collection.nav, c, StepAdd)
	if err != nil {
		return nil, err
	}
	if _, err := v.Fill(ctx, label, description); err != nil {
		return nil, fmt.Errorf("fill tab %s: %w", label, err)
	}
	return &Tab{Collection: c, Label: label, Description: description}, nil
}

// Tab is one tab of a dialog.
type Tab struct {
	Collection  *TabCollection
	Label       string
	Description string
}

// Boxes returns the boxes of the tab.
func (t *Tab) Boxes() *BoxCollection { return &BoxCollection{Tab: t} }

// BoxCollection is the boxes of a tab being edited.
type BoxCollection struct {
	Tab *Tab
}

// NavKind implements navigation.Destination.
func (*BoxCollection) NavKind() string { return KindBoxes }

func (c *BoxCollection) dialog() *Dialog { return c.Tab.Collection.Dialog }

// Create adds a box to the tab and fills its information.
func (c *BoxCollection) Create(ctx context.Context, label, description string) (*Box, error) {
	v, err := navigation.To[*EditorForm](ctx, c.dialog().Collection.nav, c, StepAdd)
	if err != nil {
		return nil, err
	}
	if _, err := v.Fill(ctx, label, description); err != nil {
		return nil, fmt.Errorf("fill box %s: %w", label, err)
	}
	return &Box{Collection: c, Label: label, Description: description}, nil
}

// Box is one box of a tab.
type Box struct {
	Collection  *BoxCollection
	Label       string
	Description string
}

// Elements returns the elements of the box.
func (b *Box) Elements() *ElementCollection { return &ElementCollection{Box: b} }

// treePath is the path of the box in the dialog editor tree.
func (b *Box) treePath() []string {
	tab := b.Collection.Tab
	return []string{tab.Collection.Dialog.Label, tab.Label, b.Label}
}
