package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration errors
var (
	ErrNoURLs             = errors.New("no product URLs configured")
	ErrMissingHistoryFile = errors.New("io.history_file is required")
	ErrInvalidTimeout     = errors.New("scraper.timeout must be positive")
	ErrInvalidRateLimit   = errors.New("scraper.rate_limit must be non-negative")
	ErrMissingSelector    = errors.New("extraction.price_selector and extraction.title_selector are required")
	ErrMissingCurrency    = errors.New("extraction.currency is required")
	ErrInvalidLogLevel    = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidOnCorrupt   = errors.New("history.on_corrupt must be 'reset' or 'fail'")
)

// AppConfig holds the complete application configuration
type AppConfig struct {
	Scraper    ScraperConfig    `yaml:"scraper"`
	IO         IOConfig         `yaml:"io"`
	Extraction ExtractionConfig `yaml:"extraction"`
	History    HistoryConfig    `yaml:"history"`
	Proxies    ProxyConfig      `yaml:"proxies"`
	Browser    BrowserConfig    `yaml:"browser"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ScraperConfig holds the fetch configuration
type ScraperConfig struct {
	RateLimit  time.Duration `yaml:"rate_limit"`
	Timeout    time.Duration `yaml:"timeout"`
	UserAgents []string      `yaml:"user_agents,omitempty"`
}

// IOConfig holds where URLs come from and where history goes
type IOConfig struct {
	HistoryFile string `yaml:"history_file"`
	URLsEnv     string `yaml:"urls_env"`
	InputFile   string `yaml:"input_file"`
}

// ExtractionConfig holds the page template the extractor reads
type ExtractionConfig struct {
	PriceSelector string `yaml:"price_selector"`
	TitleSelector string `yaml:"title_selector"`
	Currency      string `yaml:"currency"`
}

// HistoryConfig holds the history store policy
type HistoryConfig struct {
	OnCorrupt string `yaml:"on_corrupt"`
}

// ProxyConfig holds the proxy configuration
type ProxyConfig struct {
	Enabled bool     `yaml:"enabled"`
	Rotate  bool     `yaml:"rotate"`
	List    []string `yaml:"list"`
	Auth    struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"auth"`
}

// BrowserConfig holds the browser configuration for JavaScript rendering
type BrowserConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Headless  bool          `yaml:"headless"`
	UserAgent string        `yaml:"user_agent"`
	WaitTime  time.Duration `yaml:"wait_time"`
}

// LoggingConfig holds the log level
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load loads the configuration from a YAML file. Fields missing from the
// file keep their default values.
func Load(filename string) (*AppConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	config := CreateDefault()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if len(config.Scraper.UserAgents) == 0 {
		config.Scraper.UserAgents = DefaultUserAgents
	}

	return config, nil
}

// CreateDefault creates a default configuration
func CreateDefault() *AppConfig {
	return &AppConfig{
		Scraper: ScraperConfig{
			RateLimit:  1 * time.Second,
			Timeout:    30 * time.Second,
			UserAgents: DefaultUserAgents,
		},
		IO: IOConfig{
			HistoryFile: DefaultHistoryFile,
			URLsEnv:     DefaultURLsEnv,
		},
		Extraction: ExtractionConfig{
			PriceSelector: DefaultPriceSelector,
			TitleSelector: DefaultTitleSelector,
			Currency:      DefaultCurrency,
		},
		History: HistoryConfig{
			OnCorrupt: OnCorruptReset,
		},
		Proxies: ProxyConfig{
			Rotate: true,
			List:   []string{},
		},
		Browser: BrowserConfig{
			Headless:  true,
			UserAgent: DefaultUserAgents[0],
			WaitTime:  5 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for values the tracker cannot run with
func (c *AppConfig) Validate() error {
	if c.IO.HistoryFile == "" {
		return ErrMissingHistoryFile
	}
	if c.Scraper.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Scraper.RateLimit < 0 {
		return ErrInvalidRateLimit
	}
	if c.Extraction.PriceSelector == "" || c.Extraction.TitleSelector == "" {
		return ErrMissingSelector
	}
	if c.Extraction.Currency == "" {
		return ErrMissingCurrency
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}

	switch c.History.OnCorrupt {
	case OnCorruptReset, OnCorruptFail:
	default:
		return ErrInvalidOnCorrupt
	}

	return nil
}
