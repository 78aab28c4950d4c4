package browser

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a locator matches no element in time.
var ErrNotFound = errors.New("element not found")

// Driver is the set of page operations the widgets are built on. The rod
// backed SessionManager is the production implementation.
type Driver interface {
	// Open navigates the session to url.
	Open(ctx context.Context, url string) error
	// Refresh reloads the current page.
	Refresh(ctx context.Context) error

	Click(ctx context.Context, loc Locator) error
	// Input replaces the value of a text control.
	Input(ctx context.Context, loc Locator, text string) error
	Value(ctx context.Context, loc Locator) (string, error)
	Text(ctx context.Context, loc Locator) (string, error)
	// Present reports whether loc matches right now, without waiting.
	Present(ctx context.Context, loc Locator) (bool, error)
	// Visible reports false without error when nothing matches.
	Visible(ctx context.Context, loc Locator) (bool, error)
	Checked(ctx context.Context, loc Locator) (bool, error)
	Attribute(ctx context.Context, loc Locator, name string) (string, bool, error)
	// HTML returns the outer HTML of the element.
	HTML(ctx context.Context, loc Locator) (string, error)
	SetFiles(ctx context.Context, loc Locator, paths ...string) error
	DragAndDrop(ctx context.Context, from, to Locator) error
}
