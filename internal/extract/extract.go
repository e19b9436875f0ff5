// Package extract finds downloadable document URLs embedded in page text.
package extract

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/harvest/internal/fetch"
)

// Getter fetches a URL and returns its full response
type Getter interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Response, error)
}

// Extractor scans raw markup for document links. URLs on the meeting portal
// host are fetched once more and scanned for the documents they list.
type Extractor struct {
	fetcher  Getter
	document *regexp.Regexp
	portal   *regexp.Regexp
}

// New builds an Extractor for the given document extensions and portal host.
// An empty portalHost disables the secondary lookup.
func New(fetcher Getter, extensions []string, portalHost string) (*Extractor, error) {
	if len(extensions) == 0 {
		return nil, fmt.Errorf("at least one document extension is required")
	}

	quoted := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(ext))
	}
	if len(quoted) == 0 {
		return nil, fmt.Errorf("document extensions are empty")
	}

	document, err := regexp.Compile(`(?i)https?://[^\s"'<>]+\.(?:` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("compile document pattern: %w", err)
	}

	e := &Extractor{fetcher: fetcher, document: document}

	if portalHost != "" {
		e.portal, err = regexp.Compile(`https?://` + regexp.QuoteMeta(portalHost) + `/[^\s"'<>]*`)
		if err != nil {
			return nil, fmt.Errorf("compile portal pattern: %w", err)
		}
	}

	return e, nil
}

// Documents returns the document URLs found directly in text
func (e *Extractor) Documents(text string) []string {
	return e.document.FindAllString(text, -1)
}

// PortalLinks returns the meeting portal URLs found in text
func (e *Extractor) PortalLinks(text string) []string {
	if e.portal == nil {
		return nil
	}
	return e.portal.FindAllString(text, -1)
}

// Extract returns the deduplicated, sorted set of document URLs for a page,
// including those listed on any referenced portal page. A portal page that
// cannot be fetched contributes nothing.
func (e *Extractor) Extract(ctx context.Context, pageText string) []string {
	found := make(map[string]struct{})
	for _, u := range e.Documents(pageText) {
		found[u] = struct{}{}
	}

	seenPortal := make(map[string]bool)
	for _, portalURL := range e.PortalLinks(pageText) {
		if seenPortal[portalURL] {
			continue
		}
		seenPortal[portalURL] = true

		resp, err := e.fetcher.Fetch(ctx, portalURL)
		if err != nil {
			log.Warn().
				Err(err).
				Str("url", portalURL).
				Str("stage", "portal").
				Msg("Portal page fetch failed")
			continue
		}

		docs := e.Documents(resp.Text())
		log.Debug().
			Str("url", portalURL).
			Int("documents", len(docs)).
			Msg("Portal page scanned")
		for _, u := range docs {
			found[u] = struct{}{}
		}
	}

	urls := make([]string, 0, len(found))
	for u := range found {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}
