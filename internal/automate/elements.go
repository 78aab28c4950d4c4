package automate

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/v2v-test/integration-tests/internal/navigation"
	"github.com/v2v-test/integration-tests/internal/view"
	"github.com/v2v-test/integration-tests/internal/wait"
	"github.com/v2v-test/integration-tests/internal/widget"
)

// SaveWait bounds the wait for the details page after reordering. Saving a
// reordered dialog is slow on busy appliances.
var SaveWait = wait.Options{Timeout: 300 * time.Second, Delay: 15 * time.Second, Message: "Wait for dialog details"}

// ElementCollection is the elements of a box being edited.
type ElementCollection struct {
	Box *Box
}

// NavKind implements navigation.Destination.
func (*ElementCollection) NavKind() string { return KindElements }

func (c *ElementCollection) dialog() *Dialog { return c.Box.Collection.dialog() }

func (c *ElementCollection) nav() *navigation.Graph { return c.dialog().Collection.nav }

func (c *ElementCollection) log() *zap.Logger {
	return c.dialog().Collection.log.With(zap.String("dialog", c.dialog().Label))
}

// Create fills every element into the box and saves the dialog.
func (c *ElementCollection) Create(ctx context.Context, elements []ElementData) (*Element, error) {
	if len(elements) == 0 {
		return nil, fmt.Errorf("no elements to add")
	}
	v, err := navigation.To[*AddElementView](ctx, c.nav(), c, StepAdd)
	if err != nil {
		return nil, err
	}
	for _, e := range elements {
		// A filled label means the form holds the previous element.
		label, err := v.Label.Read(ctx)
		if err != nil {
			return nil, err
		}
		if label != "" {
			if err := v.Plus.ItemSelect(ctx, ItemAddElement); err != nil {
				return nil, err
			}
		}
		if err := fillElement(ctx, v.ElementForm, e); err != nil {
			return nil, err
		}
	}
	if err := v.Add.Click(ctx); err != nil {
		return nil, err
	}
	if err := v.Flash.AssertNoError(ctx); err != nil {
		return nil, err
	}
	c.log().Info("dialog elements added", zap.Int("count", len(elements)))
	return &Element{Collection: c, Data: elements}, nil
}

func fillElement(ctx context.Context, f *ElementForm, e ElementData) error {
	if _, err := f.Fill(ctx, e); err != nil {
		return fmt.Errorf("fill element %s: %w", e.Information.Label, err)
	}
	if err := setElementType(ctx, f, e); err != nil {
		return fmt.Errorf("element %s: %w", e.Information.Label, err)
	}
	return nil
}

// setElementType fills the sub-fields only some element types have.
func setElementType(ctx context.Context, f *ElementForm, e ElementData) error {
	switch e.Information.Type {
	case TypeDropDownList, TypeRadioButton:
		if e.dynamic() {
			if _, err := f.EntryPoint.Fill(ctx, DefaultEntryPoint); err != nil {
				return err
			}
			if err := f.DynamicTree.ClickPath(ctx, e.dynamicPath()...); err != nil {
				return err
			}
			if err := f.Apply.Click(ctx); err != nil {
				return err
			}
			_, err := f.ShowRefreshButton.Fill(ctx, true)
			return err
		}
		row, err := f.EntryTable.Row(ctx, map[string]string{"Value": "<New Entry>"})
		if err != nil {
			return err
		}
		if err := row.Click(ctx); err != nil {
			return err
		}
		if _, err := widget.FillAll(ctx,
			f.EntryValue.Set(e.entryValue()),
			f.EntryDescription.Set(e.entryDescription()),
		); err != nil {
			return err
		}
		return f.AddEntryButton.Click(ctx)
	case TypeTextAreaBox:
		_, err := f.DefaultTextBox.Fill(ctx, DefaultTextAreaText)
		return err
	}
	return nil
}

// Element is the set of elements added to one box.
type Element struct {
	Collection *ElementCollection
	Data       []ElementData
}

// NavKind implements navigation.Destination.
func (*Element) NavKind() string { return KindElement }

func (e *Element) dialog() *Dialog { return e.Collection.dialog() }

func (e *Element) edit(ctx context.Context) (*EditElementView, error) {
	v, err := navigation.To[*EditElementView](ctx, e.Collection.nav(), e, StepEdit)
	if err != nil {
		return nil, err
	}
	if err := v.ElementTree.ClickPath(ctx, e.Collection.Box.treePath()...); err != nil {
		return nil, err
	}
	return v, nil
}

func (e *Element) add(ctx context.Context, v *EditElementView, data ElementData) error {
	if err := v.Plus.ItemSelect(ctx, ItemAddElement); err != nil {
		return err
	}
	return fillElement(ctx, v.ElementForm, data)
}

// AddAnother adds one more element to the saved dialog.
func (e *Element) AddAnother(ctx context.Context, data ElementData) error {
	v, err := e.edit(ctx)
	if err != nil {
		return err
	}
	if err := e.add(ctx, v, data); err != nil {
		return err
	}
	if err := v.Save.Click(ctx); err != nil {
		return err
	}
	details := NewDetailsDialogView(e.Collection.nav().Browser(), e.dialog().Label)
	if err := view.AssertDisplayed(ctx, "dialog details", details); err != nil {
		return err
	}
	if err := details.Flash.AssertNoError(ctx); err != nil {
		return err
	}
	e.Data = append(e.Data, data)
	return nil
}

// Reorder drags first onto second and saves. With add set, second is added
// to the box before the drag.
func (e *Element) Reorder(ctx context.Context, add bool, second, first ElementData) error {
	v, err := e.edit(ctx)
	if err != nil {
		return err
	}
	if add {
		if err := e.add(ctx, v, second); err != nil {
			return err
		}
		if err := v.ElementTree.ClickPath(ctx, e.Collection.Box.treePath()...); err != nil {
			return err
		}
	}
	err = v.DragAndDrop.Drag(ctx,
		ElementLocator(first.Information.Label),
		ElementLocator(second.Information.Label),
	)
	if err != nil {
		return fmt.Errorf("drag %s onto %s: %w", first.Information.Label, second.Information.Label, err)
	}
	if err := v.Save.Click(ctx); err != nil {
		return err
	}
	details := NewDetailsDialogView(e.Collection.nav().Browser(), e.dialog().Label)
	if err := wait.For(ctx, details.IsDisplayed, SaveWait); err != nil {
		return err
	}
	if err := details.Flash.AssertNoError(ctx); err != nil {
		return err
	}
	if add {
		e.Data = append(e.Data, second)
	}
	e.Collection.log().Info("dialog elements reordered",
		zap.String("first", first.Information.Label), zap.String("second", second.Information.Label))
	return nil
}
