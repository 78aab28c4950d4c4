// Package view holds the contract shared by every page object: a view knows
// whether it is displayed, and wizard views fill page by page.
package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/v2v-test/integration-tests/internal/browser"
	"github.com/v2v-test/integration-tests/internal/widget"
)

// View is a page object bound to the live page.
type View interface {
	IsDisplayed(ctx context.Context) (bool, error)
}

// Func adapts a predicate to a View.
type Func func(ctx context.Context) (bool, error)

// IsDisplayed calls f.
func (f Func) IsDisplayed(ctx context.Context) (bool, error) { return f(ctx) }

// AssertionError reports a page in a state other than the one expected.
type AssertionError struct {
	What     string
	Expected string
	Got      string
}

func (e *AssertionError) Error() string {
	if e.Expected == "" && e.Got == "" {
		return fmt.Sprintf("assertion failed: %s", e.What)
	}
	return fmt.Sprintf("assertion failed: %s: expected %q, got %q", e.What, e.Expected, e.Got)
}

// AssertDisplayed fails with an AssertionError unless v is displayed.
func AssertDisplayed(ctx context.Context, name string, v View) error {
	ok, err := v.IsDisplayed(ctx)
	if err != nil {
		return fmt.Errorf("check %s displayed: %w", name, err)
	}
	if !ok {
		return &AssertionError{What: name + " is displayed"}
	}
	return nil
}

// AssertText fails with an AssertionError unless t reads want.
func AssertText(ctx context.Context, what string, t *widget.Text, want string) error {
	got, err := t.Read(ctx)
	if err != nil {
		return fmt.Errorf("read %s: %w", what, err)
	}
	if got != want {
		return &AssertionError{What: what, Expected: want, Got: got}
	}
	return nil
}

// TextIs reports whether t reads want. An absent element reads as false
// immediately.
func TextIs(ctx context.Context, t *widget.Text, want string) (bool, error) {
	present, err := t.IsPresent(ctx)
	if err != nil || !present {
		return false, err
	}
	got, err := t.Read(ctx)
	if errors.Is(err, browser.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return got == want, nil
}

// All reports whether every view is displayed, stopping at the first that is not.
func All(ctx context.Context, views ...View) (bool, error) {
	for _, v := range views {
		ok, err := v.IsDisplayed(ctx)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
