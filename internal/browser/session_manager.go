// Package browser owns the Chrome session the page objects drive and the
// Driver abstraction the widgets are written against.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/v2v-test/integration-tests/internal/config"
)

// Config holds browser configuration.
type Config struct {
	DebuggerURL         string   `json:"debugger_url"`
	Launch              []string `json:"launch"`
	Headless            bool     `json:"headless"`
	ViewportWidth       int      `json:"viewport_width"`
	ViewportHeight      int      `json:"viewport_height"`
	NavigationTimeoutMs int      `json:"navigation_timeout_ms"`
	ElementTimeoutMs    int      `json:"element_timeout_ms"`
	IgnoreCertErrors    bool     `json:"ignore_cert_errors"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:            true,
		ViewportWidth:       1920,
		ViewportHeight:      1080,
		NavigationTimeoutMs: 30000,
		ElementTimeoutMs:    10000,
	}
}

// ConfigFrom derives the browser configuration from the run configuration.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		DebuggerURL:         cfg.Browser.DebuggerURL,
		Launch:              cfg.Browser.Launch,
		Headless:            cfg.Browser.Headless,
		ViewportWidth:       cfg.Browser.ViewportWidth,
		ViewportHeight:      cfg.Browser.ViewportHeight,
		NavigationTimeoutMs: int(cfg.GetNavigationTimeout() / time.Millisecond),
		ElementTimeoutMs:    int(cfg.GetElementTimeout() / time.Millisecond),
		IgnoreCertErrors:    !cfg.Appliance.VerifySSL,
	}
}

// GetViewportWidth returns viewport width.
func (c Config) GetViewportWidth() int {
	if c.ViewportWidth == 0 {
		return 1920
	}
	return c.ViewportWidth
}

// GetViewportHeight returns viewport height.
func (c Config) GetViewportHeight() int {
	if c.ViewportHeight == 0 {
		return 1080
	}
	return c.ViewportHeight
}

// NavigationTimeout returns the page load timeout.
func (c Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

// ElementTimeout returns how long an element lookup may wait.
func (c Config) ElementTimeout() time.Duration {
	if c.ElementTimeoutMs == 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ElementTimeoutMs) * time.Millisecond
}

// SessionManager owns the Chrome instance and the single page a test run
// drives. It connects lazily on first use.
type SessionManager struct {
	cfg        Config
	log        *zap.Logger
	mu         sync.Mutex
	browser    *rod.Browser
	page       *rod.Page
	controlURL string // WebSocket URL for DevTools
}

var _ Driver = (*SessionManager)(nil)

// NewSessionManager creates a new session manager.
func NewSessionManager(cfg Config, logger *zap.Logger) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{cfg: cfg, log: logger}
}

// Start connects to an existing Chrome or launches a new one.
func (m *SessionManager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startLocked(ctx)
}

func (m *SessionManager) startLocked(ctx context.Context) error {
	// If we already have a browser, verify it's still alive
	if m.browser != nil {
		if _, err := m.browser.Context(ctx).Version(); err == nil {
			return nil
		}
		m.log.Warn("Stale browser connection detected, reconnecting")
		_ = m.browser.Close()
		m.browser = nil
		m.page = nil
		m.controlURL = ""
	}

	controlURL := m.cfg.DebuggerURL
	if controlURL == "" && len(m.cfg.Launch) > 0 {
		bin := m.cfg.Launch[0]
		launch := launcher.New().Bin(bin).Headless(m.cfg.Headless)
		for _, rawFlag := range m.cfg.Launch[1:] {
			flagStr := strings.TrimLeft(rawFlag, "-")
			name, val, hasVal := strings.Cut(flagStr, "=")
			if hasVal {
				launch = launch.Set(flags.Flag(name), val)
			} else {
				launch = launch.Set(flags.Flag(name))
			}
		}
		url, err := launch.Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
	}

	if controlURL == "" {
		url, err := launcher.New().Headless(m.cfg.Headless).Launch()
		if err != nil {
			return fmt.Errorf("no debugger_url and failed to launch: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}
	if m.cfg.IgnoreCertErrors {
		if err := browser.IgnoreCertErrors(true); err != nil {
			m.log.Warn("failed to ignore certificate errors", zap.Error(err))
		}
	}

	m.browser = browser
	m.controlURL = controlURL
	m.log.Debug("browser connected", zap.String("control_url", controlURL))
	return nil
}

// ensurePage returns the session page, starting the browser and opening an
// incognito page on first use.
func (m *SessionManager) ensurePage(ctx context.Context) (*rod.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.page != nil {
		return m.page.Context(ctx), nil
	}
	if err := m.startLocked(ctx); err != nil {
		return nil, err
	}
	if m.browser == nil {
		return nil, errors.New("browser not connected")
	}

	incognito, err := m.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("incognito context: %w", err)
	}
	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             m.cfg.GetViewportWidth(),
		Height:            m.cfg.GetViewportHeight(),
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		m.log.Warn("failed to set viewport", zap.Error(err))
	}

	m.page = page
	return page.Context(ctx), nil
}

// ControlURL returns the WebSocket debugger URL.
func (m *SessionManager) ControlURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controlURL
}

// IsConnected returns whether the browser is connected.
func (m *SessionManager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.browser != nil
}

// Shutdown closes the page and the browser under ctx, not the context the
// session was started with, so a cancelled run can still clean up.
func (m *SessionManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.page != nil {
		_ = m.page.Context(ctx).Close()
		m.page = nil
	}

	var err error
	if m.browser != nil {
		err = m.browser.Context(ctx).Close()
		m.browser = nil
	}
	m.controlURL = ""
	return err
}

// Screenshot captures the current page.
func (m *SessionManager) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	page, err := m.ensurePage(ctx)
	if err != nil {
		return nil, err
	}
	return page.Screenshot(fullPage, nil)
}

// Open navigates to a URL and waits for the load event.
func (m *SessionManager) Open(ctx context.Context, url string) error {
	page, err := m.ensurePage(ctx)
	if err != nil {
		return err
	}
	m.log.Debug("open", zap.String("url", url))
	timed := page.Timeout(m.cfg.NavigationTimeout())
	defer timed.CancelTimeout()
	if err := timed.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return timed.WaitLoad()
}

// Refresh reloads the current page.
func (m *SessionManager) Refresh(ctx context.Context) error {
	page, err := m.ensurePage(ctx)
	if err != nil {
		return err
	}
	timed := page.Timeout(m.cfg.NavigationTimeout())
	defer timed.CancelTimeout()
	if err := timed.Reload(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return timed.WaitLoad()
}

// Click clicks an element.
func (m *SessionManager) Click(ctx context.Context, loc Locator) error {
	el, err := m.find(ctx, loc)
	if err != nil {
		return err
	}
	m.log.Debug("click", zap.String("locator", loc.String()))
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// Input clears a text control and types text into it.
func (m *SessionManager) Input(ctx context.Context, loc Locator, text string) error {
	el, err := m.find(ctx, loc)
	if err != nil {
		return err
	}
	if _, err := el.Eval(`() => { this.value = ''; this.dispatchEvent(new Event('input', {bubbles: true})) }`); err != nil {
		return fmt.Errorf("clear %s: %w", loc, err)
	}
	if text == "" {
		return nil
	}
	return el.Input(text)
}

// Value returns the value property of a form control.
func (m *SessionManager) Value(ctx context.Context, loc Locator) (string, error) {
	el, err := m.find(ctx, loc)
	if err != nil {
		return "", err
	}
	v, err := el.Property("value")
	if err != nil {
		return "", err
	}
	return v.Str(), nil
}

// Text returns the visible text of an element.
func (m *SessionManager) Text(ctx context.Context, loc Locator) (string, error) {
	el, err := m.find(ctx, loc)
	if err != nil {
		return "", err
	}
	return el.Text()
}

// Present reports whether loc matches without waiting for it.
func (m *SessionManager) Present(ctx context.Context, loc Locator) (bool, error) {
	if loc.IsZero() {
		return false, nil
	}
	_, ok, err := m.probe(ctx, loc)
	return ok, err
}

// Visible reports whether the element exists and is rendered.
func (m *SessionManager) Visible(ctx context.Context, loc Locator) (bool, error) {
	el, ok, err := m.probe(ctx, loc)
	if err != nil || !ok {
		return false, err
	}
	return el.Visible()
}

// Checked returns the checked property of a checkbox or radio input.
func (m *SessionManager) Checked(ctx context.Context, loc Locator) (bool, error) {
	el, err := m.find(ctx, loc)
	if err != nil {
		return false, err
	}
	v, err := el.Property("checked")
	if err != nil {
		return false, err
	}
	return v.Bool(), nil
}

// Attribute returns an attribute value and whether it is present.
func (m *SessionManager) Attribute(ctx context.Context, loc Locator, name string) (string, bool, error) {
	el, err := m.find(ctx, loc)
	if err != nil {
		return "", false, err
	}
	v, err := el.Attribute(name)
	if err != nil || v == nil {
		return "", false, err
	}
	return *v, true, nil
}

// HTML returns the outer HTML of an element.
func (m *SessionManager) HTML(ctx context.Context, loc Locator) (string, error) {
	el, err := m.find(ctx, loc)
	if err != nil {
		return "", err
	}
	return el.HTML()
}

// SetFiles sets the files of a file input, visible or not.
func (m *SessionManager) SetFiles(ctx context.Context, loc Locator, paths ...string) error {
	el, err := m.find(ctx, loc)
	if err != nil {
		return err
	}
	return el.SetFiles(paths)
}

// DragAndDrop drags from one element and drops onto another with the mouse.
func (m *SessionManager) DragAndDrop(ctx context.Context, from, to Locator) error {
	src, err := m.find(ctx, from)
	if err != nil {
		return err
	}
	dst, err := m.find(ctx, to)
	if err != nil {
		return err
	}
	page, err := m.ensurePage(ctx)
	if err != nil {
		return err
	}
	if err := src.Hover(); err != nil {
		return fmt.Errorf("hover %s: %w", from, err)
	}
	if err := page.Mouse.Down(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}
	if err := dst.Hover(); err != nil {
		return fmt.Errorf("hover %s: %w", to, err)
	}
	return page.Mouse.Up(proto.InputMouseButtonLeft, 1)
}

// find waits up to the element timeout for loc to match.
func (m *SessionManager) find(ctx context.Context, loc Locator) (*rod.Element, error) {
	if loc.IsZero() {
		return nil, fmt.Errorf("%w: empty locator", ErrNotFound)
	}
	page, err := m.ensurePage(ctx)
	if err != nil {
		return nil, err
	}
	timed := page.Timeout(m.cfg.ElementTimeout())
	defer timed.CancelTimeout()

	var el *rod.Element
	if loc.XPath != "" {
		el, err = timed.ElementX(loc.XPath)
	} else {
		el, err = timed.Element(loc.CSS)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, loc, err)
	}
	return el.Context(ctx), nil
}

// probe checks for loc without waiting.
func (m *SessionManager) probe(ctx context.Context, loc Locator) (*rod.Element, bool, error) {
	page, err := m.ensurePage(ctx)
	if err != nil {
		return nil, false, err
	}
	if loc.XPath != "" {
		ok, el, err := page.HasX(loc.XPath)
		return el, ok, err
	}
	ok, el, err := page.Has(loc.CSS)
	return el, ok, err
}
