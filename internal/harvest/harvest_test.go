package harvest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/law-makers/harvest/internal/downloader"
	"github.com/law-makers/harvest/internal/errs"
	"github.com/law-makers/harvest/internal/extract"
	"github.com/law-makers/harvest/internal/fetch"
	"github.com/law-makers/harvest/pkg/models"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func detailPage(serverURL, image string) string {
	return fmt.Sprintf(`<html><body>
<div class="content column">
  <div id="sipri-2016-breadcrumbs"><nav>Home
  Research</nav></div>
  <div id="sipri-2016-page-title"><h1>Example Title</h1></div>
  <div class="image">%s</div>
  <time datetime="2024-03-01T12:00:00Z">1 March 2024</time>
  <div class="body field--label-hidden"><p>Hello world</p></div>
  <a href="%s/doc.pdf">Report</a>
  <a href="%s/missing.pdf">Gone</a>
</div>
</body></html>`, image, serverURL, serverURL)
}

func newHarvester(t *testing.T, serverURL, outputDir string) *Harvester {
	t.Helper()
	client, err := fetch.NewClient(5*time.Second, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	f := fetch.New(client, "Test/1.0", nil)
	ex, err := extract.New(f, []string{"pdf"}, "meetings.unoda.org")
	if err != nil {
		t.Fatalf("extract.New failed: %v", err)
	}
	pool := downloader.NewWorkerPool(downloader.NewDownloader(f), 2)

	h := New(f, ex, pool, Options{BaseURL: serverURL, OutputDir: outputDir}).ForCategory("Research")
	h.now = func() time.Time { return fixedNow }
	return h
}

func siteServer(t *testing.T, image string) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/research/topic/article-1":
			fmt.Fprint(w, detailPage(server.URL, image))
		case "/doc.pdf":
			w.Write([]byte("PDF"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return server
}

func TestHarvest_WritesRecordAndDocuments(t *testing.T) {
	server := siteServer(t, "")
	defer server.Close()
	dir := t.TempDir()

	res, err := newHarvester(t, server.URL, dir).Harvest(context.Background(), "/research/topic/article-1", "Topic")
	if err != nil {
		t.Fatalf("Harvest failed: %v", err)
	}

	wantRecord := filepath.Join(dir, "Research", "Topic", "Example_Title.json")
	if res.RecordPath != wantRecord {
		t.Errorf("record path = %s, want %s", res.RecordPath, wantRecord)
	}

	data, err := os.ReadFile(filepath.Join(dir, "Research", "Topic", "pdf", "Example_Title", "doc.pdf"))
	if err != nil {
		t.Fatalf("document not written: %v", err)
	}
	if string(data) != "PDF" {
		t.Errorf("unexpected document content %q", data)
	}

	if _, err := os.Stat(filepath.Join(dir, "Research", "Topic", "pdf", "Example_Title", "missing.pdf")); !os.IsNotExist(err) {
		t.Error("a 404 document must not be written")
	}
	if res.Failed != 1 {
		t.Errorf("expected 1 failed document, got %d", res.Failed)
	}

	raw, err := os.ReadFile(wantRecord)
	if err != nil {
		t.Fatalf("record not written: %v", err)
	}
	var record models.PageRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatalf("record is not valid JSON: %v", err)
	}

	if record.Content != "Hello world" {
		t.Errorf("content = %q", record.Content)
	}
	if record.Title != "Example Title" {
		t.Errorf("title = %q", record.Title)
	}
	if record.Category != "Home Research" {
		t.Errorf("category = %q", record.Category)
	}
	if !reflect.DeepEqual(record.Tag, []string{"127.0.0.1", "Research"}) || record.Domain != "127.0.0.1" {
		t.Errorf("unexpected tag/domain %v %q", record.Tag, record.Domain)
	}
	if record.CreatedDate == nil || *record.CreatedDate != "2024-03-01T12:00:00Z" {
		t.Errorf("unexpected created_date %v", record.CreatedDate)
	}
	if !reflect.DeepEqual(record.PathDataPDF, []string{"Research/Topic/pdf/Example_Title/doc.pdf"}) {
		t.Errorf("path_data_pdf = %v", record.PathDataPDF)
	}
	if record.CrawlingTimeEpoch != fixedNow.Unix() || record.CrawlingTime != "2024-05-06T07:08:09" {
		t.Errorf("unexpected crawl time %d %q", record.CrawlingTimeEpoch, record.CrawlingTime)
	}
	if record.Link != server.URL+"/research/topic/article-1" {
		t.Errorf("link = %q", record.Link)
	}
}

func TestHarvest_NoImageLeavesAllImageFieldsNull(t *testing.T) {
	server := siteServer(t, "")
	defer server.Close()
	dir := t.TempDir()

	res, err := newHarvester(t, server.URL, dir).Harvest(context.Background(), "/research/topic/article-1", "Topic")
	if err != nil {
		t.Fatalf("Harvest failed: %v", err)
	}

	raw, _ := os.ReadFile(res.RecordPath)
	for _, field := range []string{"image_name", "image_description", "path_data_image"} {
		if !bytes.Contains(raw, []byte(`"`+field+`": null`)) {
			t.Errorf("expected %s to be null in %s", field, raw)
		}
	}
}

func TestHarvest_LeadImage(t *testing.T) {
	server := siteServer(t, `<img src="/files/pic.jpg?itok=abc" title="Delegates">`)
	defer server.Close()

	res, err := newHarvester(t, server.URL, t.TempDir()).Harvest(context.Background(), "/research/topic/article-1", "Topic")
	if err != nil {
		t.Fatalf("Harvest failed: %v", err)
	}

	r := res.Record
	if r.ImageName == nil || r.ImageDescription == nil || r.PathDataImage == nil {
		t.Fatalf("expected all image fields, got %+v", r)
	}
	if *r.ImageName != "pic.jpg" {
		t.Errorf("image_name = %q", *r.ImageName)
	}
	if *r.ImageDescription != "Delegates" {
		t.Errorf("image_description = %q", *r.ImageDescription)
	}
	if *r.PathDataImage != server.URL+"/files/pic.jpg?itok=abc" {
		t.Errorf("path_data_image = %q", *r.PathDataImage)
	}
}

func TestHarvest_ImageWithoutTitle(t *testing.T) {
	server := siteServer(t, `<img src="/files/pic.jpg">`)
	defer server.Close()

	res, err := newHarvester(t, server.URL, t.TempDir()).Harvest(context.Background(), "/research/topic/article-1", "Topic")
	if err != nil {
		t.Fatalf("Harvest failed: %v", err)
	}
	if res.Record.ImageDescription == nil || *res.Record.ImageDescription != "" {
		t.Errorf("expected empty description alongside the image, got %v", res.Record.ImageDescription)
	}
}

func TestHarvest_PageFailureWritesNothing(t *testing.T) {
	server := siteServer(t, "")
	defer server.Close()
	dir := t.TempDir()

	_, err := newHarvester(t, server.URL, dir).Harvest(context.Background(), "/research/topic/gone", "Topic")
	if !errs.IsKind(err, errs.KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected empty output dir, found %d entries", len(entries))
	}
}

func TestHarvest_Idempotent(t *testing.T) {
	server := siteServer(t, `<img src="/files/pic.jpg" title="x">`)
	defer server.Close()
	dir := t.TempDir()
	h := newHarvester(t, server.URL, dir)

	first, err := h.Harvest(context.Background(), "/research/topic/article-1", "Topic")
	if err != nil {
		t.Fatalf("first Harvest failed: %v", err)
	}
	before, _ := os.ReadFile(first.RecordPath)

	second, err := h.Harvest(context.Background(), "/research/topic/article-1", "Topic")
	if err != nil {
		t.Fatalf("second Harvest failed: %v", err)
	}
	after, _ := os.ReadFile(second.RecordPath)

	if !bytes.Equal(before, after) {
		t.Errorf("record changed between runs:\n%s\n%s", before, after)
	}
}

func TestHarvest_Markdown(t *testing.T) {
	server := siteServer(t, "")
	defer server.Close()
	dir := t.TempDir()

	h := newHarvester(t, server.URL, dir)
	h.markdown = true
	if _, err := h.Harvest(context.Background(), "/research/topic/article-1", "Topic"); err != nil {
		t.Fatalf("Harvest failed: %v", err)
	}

	md, err := os.ReadFile(filepath.Join(dir, "Research", "Topic", "Example_Title.md"))
	if err != nil {
		t.Fatalf("markdown not written: %v", err)
	}
	if !strings.Contains(string(md), "Hello world") {
		t.Errorf("markdown missing body text: %s", md)
	}
}
