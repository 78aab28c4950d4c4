package automate

import (
	"context"
	"fmt"

	"github.com/v2v-test/integration-tests/internal/browser"
	"github.com/v2v-test/integration-tests/internal/login"
	"github.com/v2v-test/integration-tests/internal/navigation"
	"github.com/v2v-test/integration-tests/internal/view"
)

func parentOf(d navigation.Destination) (navigation.Destination, error) {
	switch d := d.(type) {
	case *DialogCollection:
		if d.Server == nil {
			return nil, fmt.Errorf("dialog collection has no server")
		}
		return d.Server, nil
	case *Dialog:
		return d.Collection, nil
	case *TabCollection:
		return d.Dialog.Collection, nil
	case *BoxCollection:
		return d.Tab.Collection, nil
	case *ElementCollection:
		return d.Box.Collection, nil
	case *Element:
		return d.dialog(), nil
	}
	return nil, fmt.Errorf("%T has no parent in the dialog editor", d)
}

// dialogLabel is the label of the dialog d belongs to.
func dialogLabel(d navigation.Destination) string {
	switch d := d.(type) {
	case *Dialog:
		return d.Label
	case *Element:
		return d.dialog().Label
	}
	return ""
}

// plus picks item from the Add dropdown of the editor.
func plus(item string) func(ctx context.Context, in navigation.Input) error {
	return func(ctx context.Context, in navigation.Input) error {
		return NewCustomizationView(in.Browser).Plus.ItemSelect(ctx, item)
	}
}

// RegisterSteps adds the dialog editor steps to g.
func RegisterSteps(g *navigation.Graph) error {
	steps := []struct {
		kind, name string
		step       navigation.Step
	}{
		{KindDialogs, StepAll, navigation.Step{
			Prerequisite: navigation.Attribute(login.StepLoggedIn, parentOf),
			View: func(b browser.Driver, _ navigation.Destination) view.View {
				return &DialogsView{NewCustomizationView(b)}
			},
			Do: func(ctx context.Context, in navigation.Input) error {
				v := NewCustomizationView(in.Browser)
				if err := v.Navigation.Select(ctx, customizationPath...); err != nil {
					return err
				}
				opened, err := v.ServiceDialogsOpened(ctx)
				if err != nil || opened {
					return err
				}
				return v.ServiceDialogs.Click(ctx)
			},
		}},
		{KindDialogs, StepAdd, navigation.Step{
			Prerequisite: navigation.Sibling(StepAll),
			View: func(b browser.Driver, _ navigation.Destination) view.View {
				return NewAddDialogView(b)
			},
			Do: func(ctx context.Context, in navigation.Input) error {
				return NewCustomizationView(in.Browser).Configuration.ItemSelect(ctx, ItemAddDialog)
			},
		}},
		{KindDialog, StepDetails, navigation.Step{
			Prerequisite: navigation.Attribute(StepAll, parentOf),
			View: func(b browser.Driver, d navigation.Destination) view.View {
				return NewDetailsDialogView(b, dialogLabel(d))
			},
			Do: func(ctx context.Context, in navigation.Input) error {
				return NewCustomizationView(in.Browser).DialogsTree.ClickPath(ctx, "All Dialogs", dialogLabel(in.Destination))
			},
		}},
		{KindTabs, StepAdd, navigation.Step{
			Prerequisite: navigation.Attribute(StepAdd, parentOf),
			View: func(b browser.Driver, _ navigation.Destination) view.View {
				return NewAddTabView(b)
			},
			Do: plus(ItemAddTab),
		}},
		{KindBoxes, StepAdd, navigation.Step{
			Prerequisite: navigation.Attribute(StepAdd, parentOf),
			View: func(b browser.Driver, _ navigation.Destination) view.View {
				return NewAddBoxView(b)
			},
			Do: plus(ItemAddBox),
		}},
		{KindElements, StepAdd, navigation.Step{
			Prerequisite: navigation.Attribute(StepAdd, parentOf),
			View: func(b browser.Driver, _ navigation.Destination) view.View {
				return NewAddElementView(b)
			},
			Do: plus(ItemAddElement),
		}},
		{KindElement, StepEdit, navigation.Step{
			Prerequisite: navigation.Attribute(StepDetails, parentOf),
			View: func(b browser.Driver, d navigation.Destination) view.View {
				return NewEditElementView(b, dialogLabel(d))
			},
			Do: func(ctx context.Context, in navigation.Input) error {
				return NewCustomizationView(in.Browser).Configuration.ItemSelect(ctx, ItemEditDialog)
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
