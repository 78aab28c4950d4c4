// Package login is the root of every navigation: the appliance server and
// the chrome shared by every page after login.
package login

import (
	"context"
	"fmt"

	"github.com/v2v-test/integration-tests/internal/browser"
	"github.com/v2v-test/integration-tests/internal/navigation"
	"github.com/v2v-test/integration-tests/internal/view"
	"github.com/v2v-test/integration-tests/internal/widget"
)

// Kind is the navigation kind of the server.
const Kind = "Server"

// StepLoggedIn is the root step every route starts from.
const StepLoggedIn = "LoggedIn"

// Credentials are the console user.
type Credentials struct {
	Username string
	Password string
}

// Server is the appliance web console.
type Server struct {
	BaseURL     string
	Credentials Credentials
}

// NavKind implements navigation.Destination.
func (*Server) NavKind() string { return Kind }

// BaseLoggedInPage is the frame around every page once logged in.
type BaseLoggedInPage struct {
	widget.Scope
	Navigation *widget.NavigationMenu
	Flash      *widget.Flash
	UserMenu   *widget.Text
	Logout     *widget.Text
}

// NewBaseLoggedInPage binds the logged-in page frame.
func NewBaseLoggedInPage(b browser.Driver) *BaseLoggedInPage {
	s := widget.NewScope(b)
	return &BaseLoggedInPage{
		Scope:      s,
		Navigation: s.NavigationMenu(),
		Flash:      s.Flash(),
		UserMenu:   s.Text(browser.XPath(`//nav//li[contains(@class,'dropdown')]/a[@id='dropdownMenu2' or contains(@class,'dropdown-toggle')]`)),
		Logout:     s.Text(browser.XPath(`//a[normalize-space(.)='Logout']`)),
	}
}

// IsDisplayed reports whether the main menu is rendered.
func (p *BaseLoggedInPage) IsDisplayed(ctx context.Context) (bool, error) {
	return p.Navigation.IsDisplayed(ctx)
}

// LoginPage is the login form.
type LoginPage struct {
	widget.Scope
	Username *widget.TextInput
	Password *widget.TextInput
	LogIn    *widget.Button
}

// NewLoginPage binds the login form.
func NewLoginPage(b browser.Driver) *LoginPage {
	s := widget.NewScope(b).Nested(browser.XPath(`//form[@id='login_div' or @name='login']`))
	return &LoginPage{
		Scope:    s,
		Username: s.TextInputByID("user_name"),
		Password: s.TextInputByID("user_password"),
		LogIn:    s.ButtonAt(browser.XPath(`.//*[@id='login' or normalize-space(.)='Log In']`)),
	}
}

// IsDisplayed reports whether the login form is shown.
func (p *LoginPage) IsDisplayed(ctx context.Context) (bool, error) {
	return p.Username.IsDisplayed(ctx)
}

// Login fills the form and submits it.
func (p *LoginPage) Login(ctx context.Context, c Credentials) error {
	_, err := widget.FillAll(ctx,
		func(ctx context.Context) (bool, error) { return p.Username.Fill(ctx, c.Username) },
		func(ctx context.Context) (bool, error) { return p.Password.Fill(ctx, c.Password) },
	)
	if err != nil {
		return fmt.Errorf("fill login form: %w", err)
	}
	return p.LogIn.Click(ctx)
}

// RegisterSteps adds the root step to g.
func RegisterSteps(g *navigation.Graph) error {
	return g.Register(Kind, StepLoggedIn, navigation.Step{
		View: func(b browser.Driver, _ navigation.Destination) view.View {
			return NewBaseLoggedInPage(b)
		},
		Do: func(ctx context.Context, in navigation.Input) error {
			srv, ok := in.Destination.(*Server)
			if !ok {
				return fmt.Errorf("login: destination is %T, not *Server", in.Destination)
			}
			if err := in.Browser.Open(ctx, srv.BaseURL); err != nil {
				return fmt.Errorf("open %s: %w", srv.BaseURL, err)
			}
			page := NewLoginPage(in.Browser)
			// A live session lands straight on the dashboard.
			if here, err := page.IsDisplayed(ctx); err != nil || !here {
				return err
			}
			return page.Login(ctx, srv.Credentials)
		},
	})
}

// Parent returns the server as the prerequisite destination of a top level collection.
func Parent(srv *Server) func(navigation.Destination) (navigation.Destination, error) {
	return func(navigation.Destination) (navigation.Destination, error) {
		if srv == nil {
			return nil, fmt.Errorf("no server")
		}
		return srv, nil
	}
}
