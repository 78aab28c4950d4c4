package view

import (
	"context"
	"fmt"

	"github.com/v2v-test/integration-tests/internal/widget"
)

// Fillable is a form filled from values of type T. Fill reports whether
// any field changed.
type Fillable[T any] interface {
	Fill(ctx context.Context, values T) (bool, error)
}

// FillWith binds values to f.
func FillWith[T any](f Fillable[T], values T) widget.FillFunc {
	return func(ctx context.Context) (bool, error) { return f.Fill(ctx, values) }
}

// Page is one page of a wizard. Fill reports whether anything changed and
// Advance moves to the next page.
type Page struct {
	Name    string
	Fill    widget.FillFunc
	Advance func(ctx context.Context) error
}

// Wizard is an ordered sequence of pages with an action run after the last
// page when anything changed.
type Wizard struct {
	Pages     []Page
	AfterFill func(ctx context.Context) error
}

// Fill folds over the pages. A page advances only when it changed something,
// and AfterFill runs only when some page did.
func (w Wizard) Fill(ctx context.Context) (bool, error) {
	changed := false
	for _, p := range w.Pages {
		if p.Fill == nil {
			continue
		}
		c, err := p.Fill(ctx)
		if err != nil {
			return changed, fmt.Errorf("fill %s page: %w", p.Name, err)
		}
		if err := AdvanceIf(ctx, c, p.Advance); err != nil {
			return changed, fmt.Errorf("advance %s page: %w", p.Name, err)
		}
		changed = changed || c
	}
	if err := AdvanceIf(ctx, changed, w.AfterFill); err != nil {
		return changed, fmt.Errorf("after fill: %w", err)
	}
	return changed, nil
}

// AdvanceIf runs next when changed is true.
func AdvanceIf(ctx context.Context, changed bool, next func(ctx context.Context) error) error {
	if !changed || next == nil {
		return nil
	}
	return next(ctx)
}

// Click adapts a button to an Advance action.
func Click(b *widget.Button) func(ctx context.Context) error {
	return b.Click
}
