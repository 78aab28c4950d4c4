package login

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v2v-test/integration-tests/internal/browser/browsertest"
	"github.com/v2v-test/integration-tests/internal/navigation"
)

func TestLoggedIn_FillsLoginForm(t *testing.T) {
	ctx := context.Background()
	drv := browsertest.New()
	form := NewLoginPage(drv)
	frame := NewBaseLoggedInPage(drv)
	drv.Set(form.Username.Locator(), &browsertest.Element{Visible: true})
	drv.Set(form.Password.Locator(), &browsertest.Element{Visible: true})
	drv.Show(form.LogIn.Locator(), "Log In")
	drv.OnClick(form.LogIn.Locator(), func() {
		drv.Hide(form.Username.Locator())
		drv.Show(frame.Navigation.Locator(), "")
	})

	g := navigation.New(drv, nil, navigation.Options{Timeout: 50 * time.Millisecond, Delay: time.Millisecond})
	require.NoError(t, RegisterSteps(g))

	srv := &Server{BaseURL: "https://appliance", Credentials: Credentials{Username: "admin", Password: "smartvm"}}
	v, err := g.NavigateTo(ctx, srv, StepLoggedIn)
	require.NoError(t, err)
	assert.IsType(t, &BaseLoggedInPage{}, v)

	assert.Equal(t, []string{"https://appliance"}, drv.Opened())
	assert.Equal(t, "admin", drv.Get(form.Username.Locator()).Value)
	assert.Equal(t, "smartvm", drv.Get(form.Password.Locator()).Value)
	assert.Equal(t, 1, drv.ClickCount(form.LogIn.Locator()))
}

func TestLoggedIn_SkipsWhenSessionAlive(t *testing.T) {
	drv := browsertest.New()
	drv.Show(NewBaseLoggedInPage(drv).Navigation.Locator(), "")

	g := navigation.New(drv, nil, navigation.Options{Timeout: 20 * time.Millisecond, Delay: time.Millisecond})
	require.NoError(t, RegisterSteps(g))

	_, err := g.NavigateTo(context.Background(), &Server{BaseURL: "https://appliance"}, StepLoggedIn)
	require.NoError(t, err)
	assert.Empty(t, drv.Opened())
}

func TestParent(t *testing.T) {
	srv := &Server{}
	d, err := Parent(srv)(nil)
	require.NoError(t, err)
	assert.Same(t, srv, d)

	_, err = Parent(nil)(nil)
	assert.Error(t, err)
}
