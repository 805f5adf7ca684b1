package portal

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the portal client settings.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// DefaultConfig returns the settings for the production portal.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "https://obistest.manas.edu.kg",
		UserAgent: "Yoklama parser",
		Timeout:   30 * time.Second,
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("portal: base URL is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("portal: base URL must start with http:// or https://")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("portal: timeout must be positive")
	}
	return nil
}
