package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/v2v-test/integration-tests/internal/config"
)

func TestConfigDefaults(t *testing.T) {
	var c Config
	assert.Equal(t, 1920, c.GetViewportWidth())
	assert.Equal(t, 1080, c.GetViewportHeight())
	assert.Equal(t, 30*time.Second, c.NavigationTimeout())
	assert.Equal(t, 10*time.Second, c.ElementTimeout())
}

func TestConfigFrom(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Browser.DebuggerURL = "ws://chrome:9222"
	cfg.Browser.NavigationTimeout = "45s"
	cfg.Appliance.VerifySSL = false

	bc := ConfigFrom(cfg)
	assert.Equal(t, "ws://chrome:9222", bc.DebuggerURL)
	assert.Equal(t, 45*time.Second, bc.NavigationTimeout())
	assert.True(t, bc.IgnoreCertErrors)
	assert.True(t, bc.Headless)
}

func TestNewSessionManager_NotConnectedUntilUsed(t *testing.T) {
	sm := NewSessionManager(DefaultConfig(), nil)
	assert.False(t, sm.IsConnected())
	assert.Empty(t, sm.ControlURL())
}
