package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultUserAgent is a desktop Chrome UA; bare Go client UAs are rejected by many sites.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Page fetch modes.
const (
	PageFetchStatic  = "static"
	PageFetchBrowser = "browser"
	PageFetchAuto    = "auto"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	PlaceholderPath string `mapstructure:"PLACEHOLDER_PATH"`
	StaticDir       string `mapstructure:"STATIC_DIR"`

	PageFetchTimeoutSeconds  int    `mapstructure:"PAGE_FETCH_TIMEOUT_SECONDS"`
	ImageFetchTimeoutSeconds int    `mapstructure:"IMAGE_FETCH_TIMEOUT_SECONDS"`
	MaxHTMLBytes             int64  `mapstructure:"MAX_HTML_BYTES"`
	MaxSVGBytes              int64  `mapstructure:"MAX_SVG_BYTES"`
	UserAgent                string `mapstructure:"USER_AGENT"`
	OutboundProxies          string `mapstructure:"OUTBOUND_PROXIES"`

	PageFetchMode         string `mapstructure:"PAGE_FETCH_MODE"`
	BrowserTimeoutSeconds int    `mapstructure:"BROWSER_TIMEOUT_SECONDS"`
	BrowserMaxTabs        int    `mapstructure:"BROWSER_MAX_TABS"`

	AllowedHosts string `mapstructure:"ALLOWED_HOSTS"`

	PostgresURL string `mapstructure:"POSTGRES_URL"`

	RedisAddr                 string `mapstructure:"REDIS_ADDR"`
	RedisPassword             string `mapstructure:"REDIS_PASSWORD"`
	RedisDB                   int    `mapstructure:"REDIS_DB"`
	UpstreamRateLimit         int64  `mapstructure:"UPSTREAM_RATE_LIMIT"`
	UpstreamRateWindowSeconds int    `mapstructure:"UPSTREAM_RATE_WINDOW_SECONDS"`
}

var defaults = map[string]interface{}{
	"SERVER_PORT":                  "8080",
	"LOG_LEVEL":                    "info",
	"PLACEHOLDER_PATH":             "/window.svg",
	"STATIC_DIR":                   "",
	"PAGE_FETCH_TIMEOUT_SECONDS":   8,
	"IMAGE_FETCH_TIMEOUT_SECONDS":  8,
	"MAX_HTML_BYTES":               2 << 20,
	"MAX_SVG_BYTES":                1 << 20,
	"USER_AGENT":                   DefaultUserAgent,
	"OUTBOUND_PROXIES":             "",
	"PAGE_FETCH_MODE":              PageFetchStatic,
	"BROWSER_TIMEOUT_SECONDS":      20,
	"BROWSER_MAX_TABS":             2,
	"ALLOWED_HOSTS":                "*",
	"POSTGRES_URL":                 "",
	"REDIS_ADDR":                   "",
	"REDIS_PASSWORD":               "",
	"REDIS_DB":                     0,
	"UPSTREAM_RATE_LIMIT":          60,
	"UPSTREAM_RATE_WINDOW_SECONDS": 60,
}

// Load reads configuration from a config file (default ".env") and
// environment variables. A missing file is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigFile(".env")
		v.SetConfigType("env")
	}
	v.AutomaticEnv()

	// Attempt to read the config file, but don't fail if it's not present.
	// This allows configuration purely through environment variables in production.
	if err := v.ReadInConfig(); err != nil && configFile != "" {
		return nil, fmt.Errorf("read config %s: %w", configFile, err)
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	switch c.PageFetchMode {
	case PageFetchStatic, PageFetchBrowser, PageFetchAuto:
	default:
		return fmt.Errorf("invalid PAGE_FETCH_MODE %q", c.PageFetchMode)
	}
	if !strings.HasPrefix(c.PlaceholderPath, "/") {
		return fmt.Errorf("PLACEHOLDER_PATH must be an absolute path, got %q", c.PlaceholderPath)
	}
	if c.PageFetchTimeoutSeconds <= 0 || c.ImageFetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch timeouts must be positive")
	}
	if c.MaxHTMLBytes <= 0 || c.MaxSVGBytes <= 0 {
		return fmt.Errorf("body limits must be positive")
	}
	return nil
}

func (c *Config) PageFetchTimeout() time.Duration {
	return time.Duration(c.PageFetchTimeoutSeconds) * time.Second
}

func (c *Config) ImageFetchTimeout() time.Duration {
	return time.Duration(c.ImageFetchTimeoutSeconds) * time.Second
}

func (c *Config) BrowserTimeout() time.Duration {
	return time.Duration(c.BrowserTimeoutSeconds) * time.Second
}

func (c *Config) UpstreamRateWindow() time.Duration {
	return time.Duration(c.UpstreamRateWindowSeconds) * time.Second
}

// AllowedHostPatterns returns the glob patterns from ALLOWED_HOSTS.
func (c *Config) AllowedHostPatterns() []string {
	return splitList(c.AllowedHosts)
}

// OutboundProxyURLs returns the proxy URLs from OUTBOUND_PROXIES.
func (c *Config) OutboundProxyURLs() []string {
	return splitList(c.OutboundProxies)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
