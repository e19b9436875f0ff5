// Package fetch performs the pipeline's HTTP GET requests.
package fetch

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"

	"github.com/law-makers/harvest/internal/errs"
	"github.com/law-makers/harvest/internal/proxy"
)

// Response is a fully read 2xx response
type Response struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

// Text decodes the body using the charset announced by Content-Type,
// falling back to the raw bytes when decoding is not possible.
func (r *Response) Text() string {
	reader, err := charset.NewReader(bytes.NewReader(r.Body), r.Header.Get("Content-Type"))
	if err != nil {
		return string(r.Body)
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return string(r.Body)
	}
	return string(decoded)
}

// Fetcher issues single-attempt GET requests with a fixed identity
type Fetcher struct {
	client    *http.Client
	userAgent string
	headers   map[string]string
}

// New creates a Fetcher around client
func New(client *http.Client, userAgent string, headers map[string]string) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		headers:   headers,
	}
}

// NewClient builds the shared HTTP client with connection reuse. Requests are
// spread over proxies in turn; with none, the environment decides.
func NewClient(timeout time.Duration, proxies []string) (*http.Client, error) {
	rotator, err := proxy.NewRotator(proxies)
	if err != nil {
		return nil, err
	}
	transport := &http.Transport{
		Proxy:               rotator.ProxyFunc(),
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}

// Client returns the underlying HTTP client
func (f *Fetcher) Client() *http.Client {
	return f.client
}

// Open performs the request and returns the live response for streaming.
// Non-2xx responses are closed and reported as transport errors.
func (f *Fetcher) Open(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errs.Transport("build request", rawURL, 0, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errs.Transport("request", rawURL, 0, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, errs.Transport("request", rawURL, resp.StatusCode, errs.ErrStatus)
	}

	return resp, nil
}

// Fetch performs the request and reads the full body
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	start := time.Now()

	log.Debug().
		Str("url", rawURL).
		Msg("Starting fetch")

	resp, err := f.Open(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Transport("read body", rawURL, resp.StatusCode, err)
	}

	result := &Response{
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Duration:   time.Since(start),
	}

	log.Debug().
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", result.Duration).
		Msg("Fetch completed")

	return result, nil
}
