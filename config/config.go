package config

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultBaseURL is the EVDS series-market page.
const DefaultBaseURL = "https://evds2.tcmb.gov.tr/index.php?/evds/serieMarket"

// Config holds the runtime settings of the scraper. The scrape job itself
// lives in Scrape.
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	PageLoadTimeout time.Duration
	StepDelay       time.Duration
	ScrollStep      int
	MaxScrolls      int
	DedupeMaxSize   int
	Headless        bool
	ChromePath      string
	UserAgent       string
	MetricsAddr     string
	Verbose         bool
}

// DefaultConfig returns conservative defaults for the public portal.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         DefaultBaseURL,
		Timeout:         10 * time.Second,
		PageLoadTimeout: 30 * time.Second,
		StepDelay:       500 * time.Millisecond,
		ScrollStep:      100,
		MaxScrolls:      2000,
		DedupeMaxSize:   100_000,
		Headless:        true,
		ChromePath:      "",
		UserAgent:       "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		MetricsAddr:     "",
		Verbose:         false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.PageLoadTimeout <= 0 {
		return fmt.Errorf("page load timeout must be positive")
	}
	if c.StepDelay < 0 {
		return fmt.Errorf("step delay cannot be negative")
	}
	if c.ScrollStep <= 0 {
		return fmt.Errorf("scroll step must be positive")
	}
	if c.MaxScrolls <= 0 {
		return fmt.Errorf("max scrolls must be positive")
	}
	if c.DedupeMaxSize <= 0 {
		return fmt.Errorf("dedupe max size must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}
