package config

import (
	"fmt"

	urlutil "github.com/law-makers/harvest/internal/utils/url"
)

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func validate(c *Config) error {
	if err := urlutil.ValidateURL(c.BaseURL); err != nil {
		return fmt.Errorf("base url: %w", err)
	}
	for _, p := range c.Proxies {
		if err := urlutil.ValidateProxyURL(p); err != nil {
			return fmt.Errorf("proxy %q: %w", p, err)
		}
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory must not be empty")
	}
	if len(c.DocumentExtensions) == 0 {
		return fmt.Errorf("at least one document extension is required")
	}
	if c.MaxListingPages <= 0 {
		return fmt.Errorf("max listing pages must be > 0")
	}
	for name, n := range map[string]int{
		"subcategory": c.SubcategoryConcurrency,
		"page":        c.PageConcurrency,
		"document":    c.DocumentConcurrency,
	} {
		if n < 0 || n > MaxConcurrency {
			return fmt.Errorf("%s concurrency must be between 0 and %d", name, MaxConcurrency)
		}
	}
	if !logLevels[c.LogLevel] {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
