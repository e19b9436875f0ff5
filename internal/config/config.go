package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/law-makers/harvest/internal/utils/headers"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string `yaml:"log_level"`
	JSONLog  bool   `yaml:"json_log"`

	// Site
	BaseURL      string `yaml:"base_url"`
	MenuSelector string `yaml:"menu_selector"`
	PortalHost   string `yaml:"portal_host"`

	// HTTP
	HTTPTimeout time.Duration     `yaml:"timeout"`
	UserAgent   string            `yaml:"user_agent"`
	Proxies     []string          `yaml:"proxies"`
	Headers     map[string]string `yaml:"headers"`

	// Output
	OutputDir          string   `yaml:"output_dir"`
	DocumentExtensions []string `yaml:"document_extensions"`
	Markdown           bool     `yaml:"markdown"`

	// Fan-out bounds; zero selects the CPU-derived default
	SubcategoryConcurrency int `yaml:"subcategory_concurrency"`
	PageConcurrency        int `yaml:"page_concurrency"`
	DocumentConcurrency    int `yaml:"document_concurrency"`

	MaxListingPages int `yaml:"max_listing_pages"`

	// Progress shows a progress bar on stderr during a run
	Progress bool `yaml:"progress"`
}

// Default returns a Config populated with default values
func Default() *Config {
	return &Config{
		LogLevel:               DefaultLogLevel,
		JSONLog:                DefaultJSONLog,
		BaseURL:                DefaultBaseURL,
		MenuSelector:           DefaultMenuSelector,
		PortalHost:             DefaultPortalHost,
		HTTPTimeout:            DefaultHTTPTimeout,
		UserAgent:              DefaultUserAgent,
		Headers:                map[string]string{},
		OutputDir:              DefaultOutputDir,
		DocumentExtensions:     DefaultDocumentExtensions(),
		Markdown:               DefaultMarkdown,
		SubcategoryConcurrency: DefaultConcurrency,
		PageConcurrency:        DefaultConcurrency,
		DocumentConcurrency:    DefaultConcurrency,
		MaxListingPages:        DefaultMaxPages,
	}
}

// Load builds a Config by combining defaults, an optional config file, environment variables, and CLI flags.
// Caller should pass the root *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := Default()

	explicit := ""
	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil {
			explicit = f.Value.String()
		}
	}
	if path := FindConfigFile(explicit); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	} else if explicit != "" {
		return nil, fmt.Errorf("%s: %w", explicit, ErrConfigNotFound)
	}

	if err := applyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}

	if cmd != nil {
		if err := applyFlags(cfg, cmd); err != nil {
			return nil, err
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	env := func(name string) string {
		return strings.TrimSpace(getenv(EnvPrefix + name))
	}

	if v := env("BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := env("OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := env("USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := env("PROXY"); v != "" {
		cfg.Proxies = splitList(v)
	}
	if v := env("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := env("TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err)
		}
		cfg.HTTPTimeout = d
	}
	if v := env("CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sCONCURRENCY: %w", EnvPrefix, err)
		}
		cfg.SubcategoryConcurrency, cfg.PageConcurrency, cfg.DocumentConcurrency = n, n, n
	}
	if v := env("MARKDOWN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sMARKDOWN: %w", EnvPrefix, err)
		}
		cfg.Markdown = b
	}
	return nil
}

// applyFlags copies every flag the user set explicitly onto cfg
func applyFlags(cfg *Config, cmd *cobra.Command) error {
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if changed("base-url") {
		cfg.BaseURL, _ = flags.GetString("base-url")
	}
	if changed("menu-selector") {
		cfg.MenuSelector, _ = flags.GetString("menu-selector")
	}
	if changed("portal-host") {
		cfg.PortalHost, _ = flags.GetString("portal-host")
	}
	if changed("output") {
		cfg.OutputDir, _ = flags.GetString("output")
	}
	if changed("user-agent") {
		cfg.UserAgent, _ = flags.GetString("user-agent")
	}
	if changed("proxy") {
		cfg.Proxies, _ = flags.GetStringArray("proxy")
	}
	if changed("timeout") {
		s, _ := flags.GetString("timeout")
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("--timeout: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if changed("header") {
		raw, _ := flags.GetStringArray("header")
		for k, v := range headers.ParseHeaders(raw) {
			cfg.Headers[k] = v
		}
	}
	if changed("ext") {
		cfg.DocumentExtensions, _ = flags.GetStringSlice("ext")
	}
	if changed("markdown") {
		cfg.Markdown, _ = flags.GetBool("markdown")
	}
	if changed("concurrency") {
		n, _ := flags.GetInt("concurrency")
		cfg.SubcategoryConcurrency, cfg.PageConcurrency, cfg.DocumentConcurrency = n, n, n
	}
	if changed("subcategory-workers") {
		cfg.SubcategoryConcurrency, _ = flags.GetInt("subcategory-workers")
	}
	if changed("page-workers") {
		cfg.PageConcurrency, _ = flags.GetInt("page-workers")
	}
	if changed("document-workers") {
		cfg.DocumentConcurrency, _ = flags.GetInt("document-workers")
	}
	if changed("max-pages") {
		cfg.MaxListingPages, _ = flags.GetInt("max-pages")
	}
	if changed("progress") {
		cfg.Progress, _ = flags.GetBool("progress")
	}
	if changed("json") {
		cfg.JSONLog, _ = flags.GetBool("json")
	}
	if v, _ := flags.GetBool("verbose"); v {
		cfg.LogLevel = "debug"
	}
	if q, _ := flags.GetBool("quiet"); q {
		cfg.LogLevel = "error"
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
