// Package pipeline drives a full run: taxonomy, listings, then page harvests.
package pipeline

import (
	"context"
	"time"

	"github.com/law-makers/harvest/internal/errs"
	"github.com/law-makers/harvest/internal/fetch"
	"github.com/law-makers/harvest/internal/harvest"
	"github.com/law-makers/harvest/internal/pool"
	"github.com/law-makers/harvest/internal/reqctx"
	"github.com/law-makers/harvest/internal/taxonomy"
	urlutil "github.com/law-makers/harvest/internal/utils/url"
	"github.com/law-makers/harvest/pkg/models"
)

// Getter fetches a URL and returns its full response
type Getter interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Response, error)
}

// Enumerator lists the detail links of one subcategory
type Enumerator interface {
	Enumerate(ctx context.Context, sub models.Subcategory) (models.SubcategoryLinks, error)
}

// Stage names the unit of work an Event reports on
type Stage string

const (
	StageListing Stage = "listing"
	StagePage    Stage = "page"
)

// Event reports one finished unit of work
type Event struct {
	Stage       Stage
	Subcategory string
	URL         string
	Links       int // listing only
	Err         error
}

// Observer receives events from concurrent workers and must be safe for concurrent use
type Observer func(Event)

// Options configures a Pipeline
type Options struct {
	BaseURL                string
	MenuSelector           string
	SubcategoryConcurrency int
	PageConcurrency        int
	Observer               Observer
}

// Pipeline runs the two-level fan-out over a discovered taxonomy
type Pipeline struct {
	fetcher    Getter
	enumerator Enumerator
	harvester  *harvest.Harvester
	opts       Options
}

// New creates a Pipeline
func New(fetcher Getter, enumerator Enumerator, harvester *harvest.Harvester, opts Options) *Pipeline {
	if opts.MenuSelector == "" {
		opts.MenuSelector = taxonomy.DefaultMenuSelector
	}
	return &Pipeline{
		fetcher:    fetcher,
		enumerator: enumerator,
		harvester:  harvester,
		opts:       opts,
	}
}

// Discover fetches the site root and reads the taxonomy from its menu
func (p *Pipeline) Discover(ctx context.Context) (models.Taxonomy, error) {
	rootURL := urlutil.JoinBase(p.opts.BaseURL, "/")
	resp, err := p.fetcher.Fetch(ctx, rootURL)
	if err != nil {
		return models.Taxonomy{}, errs.Taxonomy("fetch root page", rootURL, err)
	}
	return taxonomy.Discover(resp.Text(), p.opts.MenuSelector)
}

// Run performs one complete harvest. Only a taxonomy failure aborts the run;
// every other failure is logged, counted in the Summary, and skipped. A
// cancelled ctx stops scheduling new work and is returned with the partial
// Summary.
func (p *Pipeline) Run(ctx context.Context) (*models.Summary, error) {
	ctx = reqctx.WithRunContext(ctx)
	logger := reqctx.Logger(ctx)
	start := time.Now()

	tax, err := p.Discover(ctx)
	if err != nil {
		logger.Error().Err(err).Str("stage", "taxonomy").Msg("Taxonomy discovery failed")
		return nil, reqctx.NewRunError(ctx, err)
	}

	logger.Info().
		Str("category", tax.Category).
		Int("subcategories", len(tax.Subcategories)).
		Msg("Taxonomy discovered")

	summary := &models.Summary{
		Category:      tax.Category,
		Subcategories: len(tax.Subcategories),
	}

	subs := make([]models.Subcategory, 0, len(tax.Subcategories))
	for _, path := range tax.Paths() {
		subs = append(subs, tax.Subcategory(path))
	}

	listings := pool.Map(ctx, p.opts.SubcategoryConcurrency, subs, func(ctx context.Context, sub models.Subcategory) (models.SubcategoryLinks, error) {
		links, err := p.enumerator.Enumerate(ctx, sub)
		p.notify(Event{Stage: StageListing, Subcategory: sub.Name, URL: sub.Path, Links: len(links.Links), Err: err})
		return links, err
	})

	h := p.harvester.ForCategory(tax.Category)

	for i, listing := range listings {
		sub := subs[i]
		summary.ListingPages += listing.Value.Pages
		if listing.Err != nil {
			summary.EnumerationErrors++
			logger.Warn().
				Err(listing.Err).
				Str("subcategory", sub.Name).
				Int("links", len(listing.Value.Links)).
				Str("stage", "listing").
				Msg("Listing incomplete; harvesting collected links")
		}

		pages := pool.Map(ctx, p.opts.PageConcurrency, listing.Value.Links, func(ctx context.Context, link string) (*models.HarvestResult, error) {
			res, err := h.Harvest(ctx, link, sub.Name)
			p.notify(Event{Stage: StagePage, Subcategory: sub.Name, URL: link, Err: err})
			return res, err
		})

		for _, page := range pages {
			if page.Err != nil {
				summary.PagesFailed++
				continue
			}
			summary.PagesHarvested++
			summary.DocumentsSaved += len(page.Value.Documents)
			summary.DocumentsFailed += page.Value.Failed
		}
	}

	summary.Duration = time.Since(start)

	logger.Info().
		Str("category", summary.Category).
		Int("pages", summary.PagesHarvested).
		Int("pages_failed", summary.PagesFailed).
		Int("documents", summary.DocumentsSaved).
		Dur("duration", summary.Duration).
		Msg("Run finished")

	return summary, ctx.Err()
}

// HarvestOne harvests a single detail page. When category is empty the
// taxonomy is discovered first to name the top-level directory.
func (p *Pipeline) HarvestOne(ctx context.Context, detailPath, label, category string) (*models.HarvestResult, error) {
	ctx = reqctx.WithRunContext(ctx)
	if category == "" {
		tax, err := p.Discover(ctx)
		if err != nil {
			return nil, reqctx.NewRunError(ctx, err)
		}
		category = tax.Category
	}
	return p.harvester.ForCategory(category).Harvest(ctx, detailPath, label)
}

func (p *Pipeline) notify(ev Event) {
	if p.opts.Observer != nil {
		p.opts.Observer(ev)
	}
}
