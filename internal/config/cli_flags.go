package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	pf := cmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.BoolP("quiet", "q", false, "Suppress all output except errors")
	pf.Bool("json", false, "Write logs as JSON lines")
	pf.Bool("progress", false, "Show a progress bar (console logs drop to warnings)")
	pf.String("config", "", "Path to configuration file (default ./"+DefaultConfigFile+" if present)")

	pf.String("base-url", DefaultBaseURL, "Site to harvest")
	pf.String("menu-selector", DefaultMenuSelector, "Selector of the navigation menu holding the taxonomy")
	pf.String("portal-host", DefaultPortalHost, "Meeting portal host whose pages list further documents")
	pf.StringP("output", "o", DefaultOutputDir, "Output directory for records and documents")

	pf.StringArray("proxy", nil, "HTTP/SOCKS5 proxy, repeat to rotate (e.g., http://localhost:8080)")
	pf.String("timeout", DefaultHTTPTimeout.String(), "Per-request timeout")
	pf.String("user-agent", DefaultUserAgent, "User agent sent with every request")
	pf.StringArrayP("header", "H", nil, "Extra request header as \"Key: Value\" (repeatable)")

	pf.StringSlice("ext", DefaultDocumentExtensions(), "Document extensions to download")
	pf.Bool("markdown", DefaultMarkdown, "Also write each page's content as Markdown")

	pf.IntP("concurrency", "c", DefaultConcurrency, "Worker count for every stage (0 = auto)")
	pf.Int("subcategory-workers", DefaultConcurrency, "Concurrent listing walks (0 = auto)")
	pf.Int("page-workers", DefaultConcurrency, "Concurrent page harvests per subcategory (0 = auto)")
	pf.Int("document-workers", DefaultConcurrency, "Concurrent document downloads per page (0 = auto)")
	pf.Int("max-pages", DefaultMaxPages, "Listing page ceiling per subcategory")
}
