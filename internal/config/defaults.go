package config

import (
	"time"

	"github.com/law-makers/harvest/internal/listing"
	"github.com/law-makers/harvest/internal/pool"
	"github.com/law-makers/harvest/internal/taxonomy"
)

// Default constants for application configuration
const (
	DefaultLogLevel     = "info"
	DefaultJSONLog      = false
	DefaultBaseURL      = "https://www.sipri.org"
	DefaultMenuSelector = taxonomy.DefaultMenuSelector
	DefaultOutputDir    = "."
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; rv:109.0) Gecko/20100101 Firefox/118.0"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultPortalHost   = "meetings.unoda.org"
	DefaultMaxPages     = listing.DefaultMaxPages
	DefaultMarkdown     = false

	// zero selects a size derived from the CPU count
	DefaultConcurrency = 0
	MaxConcurrency     = pool.MaxSize

	// DefaultConfigFile is looked up in the working directory when --config is not given
	DefaultConfigFile = ".harvest.yaml"

	// EnvPrefix prefixes every environment override
	EnvPrefix = "HARVEST_"
)

// DefaultDocumentExtensions are the file types downloaded from detail pages
func DefaultDocumentExtensions() []string {
	return []string{"pdf"}
}
