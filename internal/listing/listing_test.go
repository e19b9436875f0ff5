package listing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/law-makers/harvest/internal/errs"
	"github.com/law-makers/harvest/internal/fetch"
	"github.com/law-makers/harvest/pkg/models"
)

func newTestFetcher(t *testing.T) *fetch.Fetcher {
	t.Helper()
	client, err := fetch.NewClient(5*time.Second, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return fetch.New(client, "Test/1.0", nil)
}

// listingServer serves pages[n] for ?page=n and an empty listing beyond
func listingServer(t *testing.T, pages [][]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(listingHandler(pages))
}

func listingHandler(pages [][]string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/research/topic" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		n, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, "<html><body><div class=\"view-content\">")
		if n < len(pages) {
			for _, link := range pages[n] {
				fmt.Fprintf(w, `<div class="views-row"><h3><a href="%s">item</a></h3><p>teaser</p></div>`, link)
			}
		}
		fmt.Fprint(w, "</div></body></html>")
	})
}

func TestEnumerate_ConcatenatesPagesInOrder(t *testing.T) {
	server := listingServer(t, [][]string{
		{"/research/topic/a", "/research/topic/b"},
		{"/research/topic/c"},
	})
	defer server.Close()

	e := New(newTestFetcher(t), server.URL, 0)
	got, err := e.Enumerate(context.Background(), models.Subcategory{Path: "/research/topic", Name: "Topic"})
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}

	want := []string{"/research/topic/a", "/research/topic/b", "/research/topic/c"}
	if !reflect.DeepEqual(got.Links, want) {
		t.Errorf("links = %v, want %v", got.Links, want)
	}
	if got.Pages != 3 {
		t.Errorf("expected 3 listing pages visited (2 full + 1 empty), got %d", got.Pages)
	}
	if got.Subcategory.Name != "Topic" {
		t.Errorf("unexpected subcategory %+v", got.Subcategory)
	}
}

func TestEnumerate_EmptyFirstPage(t *testing.T) {
	server := listingServer(t, nil)
	defer server.Close()

	got, err := New(newTestFetcher(t), server.URL, 0).Enumerate(context.Background(), models.Subcategory{Path: "/research/topic", Name: "Topic"})
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	if len(got.Links) != 0 || got.Links == nil {
		t.Errorf("expected an empty, non-nil link list, got %#v", got.Links)
	}
}

func TestEnumerate_PageCeiling(t *testing.T) {
	endless := make([][]string, 10)
	for i := range endless {
		endless[i] = []string{fmt.Sprintf("/research/topic/%d", i)}
	}
	server := listingServer(t, endless)
	defer server.Close()

	got, err := New(newTestFetcher(t), server.URL, 3).Enumerate(context.Background(), models.Subcategory{Path: "/research/topic", Name: "Topic"})
	if !errors.Is(err, errs.ErrPageCeiling) {
		t.Fatalf("expected ErrPageCeiling, got %v", err)
	}
	if len(got.Links) != 3 {
		t.Errorf("expected links from the 3 visited pages, got %v", got.Links)
	}
}

func TestEnumerate_FetchFailureReturnsPartial(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "0" {
			fmt.Fprint(w, `<div class="views-row"><h3><a href="/x/1">1</a></h3></div>`)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	got, err := New(newTestFetcher(t), server.URL, 0).Enumerate(context.Background(), models.Subcategory{Path: "/x", Name: "X"})
	if !errs.IsKind(err, errs.KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !reflect.DeepEqual(got.Links, []string{"/x/1"}) {
		t.Errorf("expected partial links, got %v", got.Links)
	}
}

func TestEnumerate_BaseURLWithPathPrefix(t *testing.T) {
	server := httptest.NewServer(http.StripPrefix("/mirror", listingHandler([][]string{
		{"/research/topic/a"},
	})))
	defer server.Close()

	for _, base := range []string{server.URL + "/mirror", server.URL + "/mirror/"} {
		got, err := New(newTestFetcher(t), base, 0).Enumerate(context.Background(), models.Subcategory{Path: "/research/topic", Name: "Topic"})
		if err != nil {
			t.Fatalf("Enumerate(%s) failed: %v", base, err)
		}
		if !reflect.DeepEqual(got.Links, []string{"/research/topic/a"}) {
			t.Errorf("base %s: links = %v", base, got.Links)
		}
	}
}
