// Package proxy spreads outgoing requests over a list of proxies.
package proxy

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"

	urlutil "github.com/law-makers/harvest/internal/utils/url"
)

// Rotator hands out proxies in round-robin order
type Rotator struct {
	proxies []*url.URL
	index   int
	mu      sync.Mutex
}

// NewRotator parses and validates every proxy URL
func NewRotator(proxies []string) (*Rotator, error) {
	r := &Rotator{proxies: make([]*url.URL, 0, len(proxies))}
	for _, p := range proxies {
		if err := urlutil.ValidateProxyURL(p); err != nil {
			return nil, fmt.Errorf("proxy %q: %w", p, err)
		}
		u, _ := url.Parse(p)
		r.proxies = append(r.proxies, u)
	}
	return r, nil
}

// Len returns the number of proxies in rotation
func (r *Rotator) Len() int {
	return len(r.proxies)
}

// Next returns the next proxy, or nil when the rotation is empty
func (r *Rotator) Next() *url.URL {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.proxies) == 0 {
		return nil
	}
	p := r.proxies[r.index]
	r.index = (r.index + 1) % len(r.proxies)
	return p
}

// ProxyFunc plugs the rotation into an http.Transport. With no proxies
// configured it defers to the environment.
func (r *Rotator) ProxyFunc() func(*http.Request) (*url.URL, error) {
	if r.Len() == 0 {
		return http.ProxyFromEnvironment
	}
	return func(*http.Request) (*url.URL, error) {
		return r.Next(), nil
	}
}
