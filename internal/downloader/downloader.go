// internal/downloader/downloader.go
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/harvest/internal/errs"
	"github.com/law-makers/harvest/internal/utils/pathname"
)

// Opener opens a streaming GET; non-2xx responses must come back as errors
type Opener interface {
	Open(ctx context.Context, rawURL string) (*http.Response, error)
}

// DownloadResult represents the result of a download operation
type DownloadResult struct {
	URL       string
	FilePath  string
	Size      int64
	Success   bool
	Error     error
	StartTime time.Time
	Duration  time.Duration
}

// Downloader writes documents to disk with streaming I/O
type Downloader struct {
	opener Opener
}

// NewDownloader creates a new Downloader instance
func NewDownloader(opener Opener) *Downloader {
	return &Downloader{opener: opener}
}

// Download fetches fileURL into outputDir under a name derived from the URL.
// Nothing is created on disk unless the server answered with a 2xx status.
func (d *Downloader) Download(ctx context.Context, fileURL, outputDir string) *DownloadResult {
	return d.DownloadAs(ctx, fileURL, outputDir, pathname.Filename(fileURL))
}

// DownloadAs fetches fileURL into outputDir/name. The body is streamed to a
// temporary file that is renamed into place once complete, so a reader never
// sees a partial document and a failed download leaves the target untouched.
func (d *Downloader) DownloadAs(ctx context.Context, fileURL, outputDir, name string) *DownloadResult {
	result := &DownloadResult{
		URL:       fileURL,
		StartTime: time.Now(),
	}
	finish := func(err error) *DownloadResult {
		result.Error = err
		result.Success = err == nil
		result.Duration = time.Since(result.StartTime)
		return result
	}

	resp, err := d.opener.Open(ctx, fileURL)
	if err != nil {
		return finish(err)
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return finish(errs.Persistence("create output directory", outputDir, err))
	}

	filePath := filepath.Join(outputDir, name)

	tmp, err := os.CreateTemp(outputDir, ".download-*")
	if err != nil {
		return finish(errs.Persistence("create temp file", outputDir, err))
	}

	bytesWritten, err := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return finish(errs.Persistence("write file", filePath, fmt.Errorf("after %d bytes: %w", bytesWritten, err)))
	}

	if err := os.Rename(tmp.Name(), filePath); err != nil {
		os.Remove(tmp.Name())
		return finish(errs.Persistence("move file into place", filePath, err))
	}

	result.FilePath = filePath
	result.Size = bytesWritten
	finish(nil)

	log.Debug().
		Str("url", fileURL).
		Str("file", filePath).
		Int64("bytes", bytesWritten).
		Dur("duration", result.Duration).
		Msg("Download completed")

	return result
}
