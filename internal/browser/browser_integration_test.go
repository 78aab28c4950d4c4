//go:build integration

package browser_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/v2v-test/integration-tests/internal/browser"
)

const testPage = `<html><body>
<h4 class="modal-title">Infrastructure Mapping Wizard</h4>
<input name="name" value="">
<input type="checkbox" id="agree">
<button id="go" onclick="document.getElementById('out').textContent='clicked'">Next</button>
<div id="out"></div>
<div id="hidden" style="display:none">secret</div>
</body></html>`

func newSession(t *testing.T) (*browser.SessionManager, string, context.Context) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testPage)
	}))
	t.Cleanup(ts.Close)

	cfg := browser.DefaultConfig()
	cfg.NavigationTimeoutMs = 10000
	cfg.ElementTimeoutMs = 2000

	sm := browser.NewSessionManager(cfg, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	t.Cleanup(cancel)
	t.Cleanup(func() {
		if err := sm.Shutdown(context.Background()); err != nil {
			t.Logf("Shutdown error: %v", err)
		}
	})

	require.NoError(t, sm.Start(ctx), "Failed to start browser")
	return sm, ts.URL, ctx
}

func TestSessionManager_Driver_Integration(t *testing.T) {
	sm, url, ctx := newSession(t)
	require.NoError(t, sm.Open(ctx, url))

	title, err := sm.Text(ctx, browser.XPath(`.//h4[contains(@class,"modal-title")]`))
	require.NoError(t, err)
	require.Equal(t, "Infrastructure Mapping Wizard", title)

	name := browser.XPath(`.//input[@name='name']`)
	require.NoError(t, sm.Input(ctx, name, "infra_map_1"))
	v, err := sm.Value(ctx, name)
	require.NoError(t, err)
	require.Equal(t, "infra_map_1", v)

	agree := browser.CSS("#agree")
	require.NoError(t, sm.Click(ctx, agree))
	checked, err := sm.Checked(ctx, agree)
	require.NoError(t, err)
	require.True(t, checked)

	require.NoError(t, sm.Click(ctx, browser.XPath(`.//button[normalize-space(.)='Next']`)))
	out, err := sm.Text(ctx, browser.CSS("#out"))
	require.NoError(t, err)
	require.Equal(t, "clicked", out)

	visible, err := sm.Visible(ctx, browser.CSS("#hidden"))
	require.NoError(t, err)
	require.False(t, visible)

	visible, err = sm.Visible(ctx, browser.CSS("#does-not-exist"))
	require.NoError(t, err)
	require.False(t, visible)

	_, err = sm.Text(ctx, browser.CSS("#does-not-exist"))
	require.ErrorIs(t, err, browser.ErrNotFound)

	require.NoError(t, sm.Refresh(ctx))
	v, err = sm.Value(ctx, name)
	require.NoError(t, err)
	require.Empty(t, v)
}

func TestSessionManager_ShutdownAfterCancel_Integration(t *testing.T) {
	sm := browser.NewSessionManager(browser.DefaultConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, sm.Start(ctx))
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	require.NoError(t, sm.Shutdown(shutdownCtx))
	require.False(t, sm.IsConnected())
}

func TestSessionManager_PresentDoesNotWait_Integration(t *testing.T) {
	sm, url, ctx := newSession(t)
	require.NoError(t, sm.Open(ctx, url))

	start := time.Now()
	ok, err := sm.Present(ctx, browser.CSS("#does-not-exist"))
	require.NoError(t, err)
	require.False(t, ok)
	require.Less(t, time.Since(start), time.Second)

	ok, err = sm.Present(ctx, browser.CSS("#hidden"))
	require.NoError(t, err)
	require.True(t, ok, "hidden elements are present")
}
