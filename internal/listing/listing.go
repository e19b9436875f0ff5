// Package listing walks a subcategory's paginated index and collects detail links.
package listing

import (
	"context"
	"fmt"

	"github.com/law-makers/harvest/internal/errs"
	"github.com/law-makers/harvest/internal/fetch"
	"github.com/law-makers/harvest/internal/query"
	"github.com/law-makers/harvest/internal/reqctx"
	urlutil "github.com/law-makers/harvest/internal/utils/url"
	"github.com/law-makers/harvest/pkg/models"
)

const (
	rowSelector  = "div.views-row"
	linkSelector = "h3 a"
)

// DefaultMaxPages bounds a listing walk whose pages never come back empty
const DefaultMaxPages = 1000

// Getter fetches a URL and returns its full response
type Getter interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Response, error)
}

// Enumerator paginates listing pages until one has no rows
type Enumerator struct {
	fetcher  Getter
	baseURL  string
	maxPages int
}

// New creates an Enumerator; maxPages <= 0 selects DefaultMaxPages
func New(fetcher Getter, baseURL string, maxPages int) *Enumerator {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Enumerator{
		fetcher:  fetcher,
		baseURL:  baseURL,
		maxPages: maxPages,
	}
}

// Enumerate visits page 0, 1, 2, ... of sub and returns every row's detail
// link in row order. The walk ends at the first page without rows. When a page
// cannot be fetched, or the page ceiling is hit, the links gathered so far are
// returned together with the error.
func (e *Enumerator) Enumerate(ctx context.Context, sub models.Subcategory) (models.SubcategoryLinks, error) {
	result := models.SubcategoryLinks{Subcategory: sub, Links: []string{}}
	logger := reqctx.Logger(ctx)

	for page := 0; ; page++ {
		if page >= e.maxPages {
			logger.Warn().
				Str("subcategory", sub.Name).
				Int("pages", page).
				Msg("Listing page ceiling reached")
			return result, fmt.Errorf("%s: %w", sub.Path, errs.ErrPageCeiling)
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		pageURL := urlutil.JoinBase(e.baseURL, urlutil.WithPage(sub.Path, page))
		resp, err := e.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("url", pageURL).
				Str("subcategory", sub.Name).
				Str("stage", "listing").
				Msg("Listing page fetch failed")
			return result, err
		}
		result.Pages++

		doc, err := query.Parse(resp.Text())
		if err != nil {
			return result, errs.Extraction("parse listing", pageURL, err)
		}

		rows := doc.Find(rowSelector)
		if rows.Empty() {
			logger.Info().
				Str("subcategory", sub.Name).
				Int("page", page).
				Int("links", len(result.Links)).
				Msg("Listing exhausted")
			return result, nil
		}

		rows.Each(func(i int, row query.Node) {
			href, ok := row.Find(linkSelector).Attr("href")
			if !ok || href == "" {
				logger.Debug().
					Str("url", pageURL).
					Int("row", i).
					Msg("Listing row without link")
				return
			}
			result.Links = append(result.Links, href)
		})

		logger.Info().
			Str("subcategory", sub.Name).
			Int("page", page).
			Int("rows", rows.Len()).
			Msg("Listing page collected")
	}
}
