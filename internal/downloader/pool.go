// internal/downloader/pool.go
package downloader

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/harvest/internal/pool"
	"github.com/law-makers/harvest/internal/utils/pathname"
)

// WorkerPool downloads many documents with bounded concurrency
type WorkerPool struct {
	downloader  *Downloader
	concurrency int
}

// NewWorkerPool creates a new worker pool with specified concurrency
func NewWorkerPool(d *Downloader, concurrency int) *WorkerPool {
	return &WorkerPool{
		downloader:  d,
		concurrency: pool.Clamp(concurrency),
	}
}

// Concurrency returns the effective worker count
func (wp *WorkerPool) Concurrency() int {
	return wp.concurrency
}

type target struct {
	url  string
	name string
}

// DownloadBatch downloads every URL into outputDir. One result per URL is
// returned in input order; a failed URL never stops the others. URLs whose
// file names collide get numbered names (doc.pdf, doc_2.pdf, ...) so no two
// downloads share a file.
func (wp *WorkerPool) DownloadBatch(ctx context.Context, urls []string, outputDir string) []*DownloadResult {
	if len(urls) == 0 {
		return []*DownloadResult{}
	}

	results := pool.Map(ctx, wp.concurrency, targets(urls), func(ctx context.Context, t target) (*DownloadResult, error) {
		res := wp.downloader.DownloadAs(ctx, t.url, outputDir, t.name)
		if !res.Success {
			log.Warn().
				Err(res.Error).
				Str("url", t.url).
				Str("stage", "download").
				Msg("Document download failed")
		}
		return res, nil
	})

	all := make([]*DownloadResult, 0, len(results))
	for i, r := range results {
		if r.Value == nil {
			// never started: context ended first
			all = append(all, &DownloadResult{URL: urls[i], Error: r.Err})
			continue
		}
		all = append(all, r.Value)
	}
	return all
}

// targets assigns each URL a file name unique within the batch. Names are
// compared case-insensitively since some filesystems fold case.
func targets(urls []string) []target {
	taken := make(map[string]bool, len(urls))
	out := make([]target, len(urls))
	for i, u := range urls {
		base := pathname.Filename(u)
		name := base
		for n := 2; taken[strings.ToLower(name)]; n++ {
			name = pathname.WithSuffix(base, n)
		}
		taken[strings.ToLower(name)] = true
		out[i] = target{url: u, name: name}
	}
	return out
}
