// Package harvest turns one detail page into a JSON record plus its documents.
package harvest

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/law-makers/harvest/internal/downloader"
	"github.com/law-makers/harvest/internal/errs"
	"github.com/law-makers/harvest/internal/fetch"
	"github.com/law-makers/harvest/internal/query"
	"github.com/law-makers/harvest/internal/reqctx"
	"github.com/law-makers/harvest/internal/utils/output"
	"github.com/law-makers/harvest/internal/utils/pathname"
	urlutil "github.com/law-makers/harvest/internal/utils/url"
	"github.com/law-makers/harvest/pkg/models"
)

// Detail page selectors, all scoped to the content region
const (
	regionSelector     = ".content.column"
	titleSelector      = "#sipri-2016-page-title h1"
	imageSelector      = "img:first-child"
	breadcrumbSelector = "#sipri-2016-breadcrumbs nav"
	timeSelector       = "time"
	bodySelector       = ".body.field--label-hidden"
)

// TimeLayout formats crawling_time
const TimeLayout = "2006-01-02T15:04:05"

// Getter fetches a URL and returns its full response
type Getter interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Response, error)
}

// DocumentExtractor finds document URLs in raw page text
type DocumentExtractor interface {
	Extract(ctx context.Context, pageText string) []string
}

// BatchDownloader saves a set of URLs into one directory
type BatchDownloader interface {
	DownloadBatch(ctx context.Context, urls []string, outputDir string) []*downloader.DownloadResult
}

// Options configures a Harvester
type Options struct {
	BaseURL   string
	OutputDir string
	Markdown  bool
}

// Harvester fetches detail pages and persists their records
type Harvester struct {
	fetcher   Getter
	extractor DocumentExtractor
	downloads BatchDownloader
	baseURL   string
	outputDir string
	markdown  bool
	category  string
	now       func() time.Time
}

// New creates a Harvester. Call ForCategory before harvesting so records carry
// the top-level category.
func New(fetcher Getter, extractor DocumentExtractor, downloads BatchDownloader, opts Options) *Harvester {
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	return &Harvester{
		fetcher:   fetcher,
		extractor: extractor,
		downloads: downloads,
		baseURL:   opts.BaseURL,
		outputDir: outputDir,
		markdown:  opts.Markdown,
		now:       time.Now,
	}
}

// ForCategory returns a copy of h bound to the discovered top-level category
func (h *Harvester) ForCategory(category string) *Harvester {
	c := *h
	c.category = category
	return &c
}

// Category returns the top-level category records are filed under
func (h *Harvester) Category() string {
	return h.category
}

// Harvest fetches detailPath, downloads its documents and writes the record
// under {category}/{categoryLabel}. A transport failure on the page itself
// abandons it without touching the output tree.
func (h *Harvester) Harvest(ctx context.Context, detailPath, categoryLabel string) (*models.HarvestResult, error) {
	pageURL := urlutil.JoinBase(h.baseURL, detailPath)
	logger := reqctx.Logger(ctx).With().
		Str("url", pageURL).
		Str("category", h.category).
		Str("subcategory", categoryLabel).
		Logger()

	resp, err := h.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		logger.Warn().Err(err).Str("stage", "page").Msg("Detail page fetch failed")
		return nil, err
	}
	text := resp.Text()

	doc, err := query.Parse(text)
	if err != nil {
		return nil, errs.Extraction("parse detail page", pageURL, err)
	}
	region := doc.Find(regionSelector)
	if region.Empty() {
		logger.Debug().Str("stage", "extract").Msg("Content region not found")
	}

	started := h.now()
	title := region.Find(titleSelector).Text()
	domain := urlutil.Hostname(h.baseURL)

	record := &models.PageRecord{
		Link:              pageURL,
		Tag:               []string{domain, h.category},
		Domain:            domain,
		Category:          strings.ReplaceAll(region.Find(breadcrumbSelector).Text(), "\n", " "),
		Title:             title,
		CreatedDate:       optionalAttr(region.Find(timeSelector).First(), "datetime"),
		Content:           strings.ReplaceAll(region.Find(bodySelector).Text(), "\n", ""),
		CrawlingTimeEpoch: started.Unix(),
		CrawlingTime:      started.Format(TimeLayout),
		PathDataPDF:       []string{},
	}
	record.SetImage(leadImage(region, pageURL))

	categoryDir := filepath.Join(h.outputDir, pathname.Segment(h.category), pathname.Segment(categoryLabel))
	stem := pathname.Title(title)

	result := &models.HarvestResult{Record: record}

	if urls := h.extractor.Extract(ctx, text); len(urls) > 0 {
		docDir := filepath.Join(categoryDir, "pdf", stem)
		for _, dl := range h.downloads.DownloadBatch(ctx, urls, docDir) {
			if !dl.Success {
				result.Failed++
				continue
			}
			rel := h.relative(dl.FilePath)
			record.PathDataPDF = append(record.PathDataPDF, rel)
			result.Documents = append(result.Documents, models.DocumentAsset{
				URL:      dl.URL,
				Path:     rel,
				Size:     dl.Size,
				Duration: dl.Duration,
			})
		}
		// downloads finish in any order; keep the record stable across runs
		sort.Strings(record.PathDataPDF)
	}

	recordPath := filepath.Join(categoryDir, stem+".json")
	if err := output.SaveJSON(record, recordPath); err != nil {
		perr := errs.Persistence("write record", recordPath, err)
		logger.Error().Err(perr).Str("stage", "persist").Msg("Record write failed")
		return nil, perr
	}
	result.RecordPath = recordPath

	if h.markdown {
		mdPath := filepath.Join(categoryDir, stem+".md")
		if err := output.SaveMarkdown(region.HTML(), pageURL, mdPath); err != nil {
			logger.Warn().Err(err).Str("stage", "markdown").Msg("Markdown export failed")
		}
	}

	logger.Info().
		Str("title", title).
		Int("documents", len(record.PathDataPDF)).
		Int("documents_failed", result.Failed).
		Msg("Page harvested")

	return result, nil
}

// relative expresses p relative to the output root with forward slashes
func (h *Harvester) relative(p string) string {
	rel, err := filepath.Rel(h.outputDir, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

func optionalAttr(n query.Node, name string) *string {
	v, ok := n.Attr(name)
	if !ok {
		return nil
	}
	return &v
}

// leadImage reads the first image of the region; an img without src is no image
func leadImage(region query.Node, pageURL string) *models.LeadImage {
	img := region.Find(imageSelector).First()
	src, ok := img.Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return nil
	}
	src = strings.TrimSpace(src)
	desc, _ := img.Attr("title")

	name, _, _ := strings.Cut(src, "?")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	return &models.LeadImage{
		Name:        name,
		Description: desc,
		Path:        urlutil.ResolveURL(pageURL, src),
	}
}
