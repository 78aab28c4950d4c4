package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything needed to drive one appliance.
type Config struct {
	// Appliance under test
	Appliance ApplianceConfig `yaml:"appliance"`

	// Browser session used by the page objects
	Browser BrowserConfig `yaml:"browser"`

	// REST API client
	REST RESTConfig `yaml:"rest"`

	// Polling waits
	Wait WaitConfig `yaml:"wait"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Ledger of records created on the appliance
	Ledger LedgerConfig `yaml:"ledger"`
}

// ApplianceConfig points at the web console and its credentials.
type ApplianceConfig struct {
	BaseURL   string `yaml:"base_url"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	VerifySSL bool   `yaml:"verify_ssl"`
}

// BrowserConfig configures the Chrome session.
type BrowserConfig struct {
	DebuggerURL       string   `yaml:"debugger_url"`
	Launch            []string `yaml:"launch"`
	Headless          bool     `yaml:"headless"`
	ViewportWidth     int      `yaml:"viewport_width"`
	ViewportHeight    int      `yaml:"viewport_height"`
	NavigationTimeout string   `yaml:"navigation_timeout"`
	ElementTimeout    string   `yaml:"element_timeout"`
}

// RESTConfig configures the REST API client.
type RESTConfig struct {
	Timeout string `yaml:"timeout"`
}

// WaitConfig configures the default polling wait.
type WaitConfig struct {
	Timeout string `yaml:"timeout"`
	Delay   string `yaml:"delay"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`
}

// LedgerConfig configures the created-record ledger.
type LedgerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Appliance: ApplianceConfig{
			BaseURL:  "https://localhost",
			Username: "admin",
			Password: "smartvm",
		},
		Browser: BrowserConfig{
			Headless:          true,
			ViewportWidth:     1920,
			ViewportHeight:    1080,
			NavigationTimeout: "30s",
			ElementTimeout:    "10s",
		},
		REST: RESTConfig{
			Timeout: "60s",
		},
		Wait: WaitConfig{
			Timeout: "60s",
			Delay:   "1s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Ledger: LedgerConfig{
			Enabled: true,
			Path:    ".cfme/ledger.db",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Defaults plus environment when there is no file
		data = nil
	}

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CFME_URL"); v != "" {
		c.Appliance.BaseURL = v
	}
	if v := os.Getenv("CFME_USERNAME"); v != "" {
		c.Appliance.Username = v
	}
	if v := os.Getenv("CFME_PASSWORD"); v != "" {
		c.Appliance.Password = v
	}
	if v := os.Getenv("CFME_BROWSER_DEBUGGER_URL"); v != "" {
		c.Browser.DebuggerURL = v
	}
	if v := os.Getenv("CFME_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Browser.Headless = b
		}
	}
	if v := os.Getenv("CFME_LEDGER"); v != "" {
		c.Ledger.Path = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Appliance.BaseURL == "" {
		return fmt.Errorf("appliance base_url not configured (set CFME_URL)")
	}
	u, err := url.Parse(c.Appliance.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid appliance base_url: %q", c.Appliance.BaseURL)
	}
	if c.Appliance.Username == "" {
		return fmt.Errorf("appliance username not configured (set CFME_USERNAME)")
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid logging format: %s (valid: json, console)", c.Logging.Format)
	}
	return nil
}

// APIURL returns the REST API entry point of the appliance.
func (c *Config) APIURL() string {
	return trimSlash(c.Appliance.BaseURL) + "/api"
}

// GetNavigationTimeout returns how long a navigation step may take to display its view.
func (c *Config) GetNavigationTimeout() time.Duration {
	return parseDuration(c.Browser.NavigationTimeout, 30*time.Second)
}

// GetElementTimeout returns how long a widget lookup may wait for its element.
func (c *Config) GetElementTimeout() time.Duration {
	return parseDuration(c.Browser.ElementTimeout, 10*time.Second)
}

// GetRESTTimeout returns the REST request timeout.
func (c *Config) GetRESTTimeout() time.Duration {
	return parseDuration(c.REST.Timeout, 60*time.Second)
}

// GetWaitTimeout returns the default polling wait timeout.
func (c *Config) GetWaitTimeout() time.Duration {
	return parseDuration(c.Wait.Timeout, 60*time.Second)
}

// GetWaitDelay returns the default delay between polls.
func (c *Config) GetWaitDelay() time.Duration {
	return parseDuration(c.Wait.Delay, time.Second)
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
