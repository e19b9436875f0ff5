package models

import (
	"sort"
	"time"
)

// Taxonomy is the category tree discovered from the site navigation menu
type Taxonomy struct {
	Category      string            `json:"category"`
	Subcategories map[string]string `json:"subcategories"` // relative path -> display name
}

// Paths returns the subcategory paths in a stable order
func (t Taxonomy) Paths() []string {
	paths := make([]string, 0, len(t.Subcategories))
	for p := range t.Subcategories {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Subcategory resolves a path to its Subcategory value
func (t Taxonomy) Subcategory(path string) Subcategory {
	return Subcategory{Path: path, Name: t.Subcategories[path]}
}

// Subcategory is a single listing section below the top-level category
type Subcategory struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// SubcategoryLinks holds the detail links collected for one subcategory
type SubcategoryLinks struct {
	Subcategory Subcategory
	Links       []string
	Pages       int
}

// LeadImage is the first image of a detail page's content region
type LeadImage struct {
	Name        string
	Description string
	Path        string
}

// PageRecord is the persisted result of harvesting one detail page
type PageRecord struct {
	Link              string   `json:"link"`
	Tag               []string `json:"tag"`
	Domain            string   `json:"domain"`
	Category          string   `json:"category"`
	Title             string   `json:"title"`
	CreatedDate       *string  `json:"created_date"`
	ImageName         *string  `json:"image_name"`
	ImageDescription  *string  `json:"image_description"`
	PathDataImage     *string  `json:"path_data_image"`
	Content           string   `json:"content"`
	CrawlingTimeEpoch int64    `json:"crawling_time_epoch"`
	CrawlingTime      string   `json:"crawling_time"`
	PathDataPDF       []string `json:"path_data_pdf"`
}

// SetImage fills the three image fields together, or clears all of them when img is nil.
func (r *PageRecord) SetImage(img *LeadImage) {
	if img == nil {
		r.ImageName, r.ImageDescription, r.PathDataImage = nil, nil, nil
		return
	}
	name, desc, path := img.Name, img.Description, img.Path
	r.ImageName, r.ImageDescription, r.PathDataImage = &name, &desc, &path
}

// DocumentAsset is a document downloaded on behalf of a PageRecord
type DocumentAsset struct {
	URL      string
	Path     string // relative to the output root, slash separated
	Size     int64
	Duration time.Duration
}

// HarvestResult is what a successful page harvest produced
type HarvestResult struct {
	Record     *PageRecord
	RecordPath string
	Documents  []DocumentAsset
	Failed     int // documents that could not be downloaded
}

// Summary aggregates the outcome of a full run
type Summary struct {
	Category          string
	Subcategories     int
	ListingPages      int
	PagesHarvested    int
	PagesFailed       int
	DocumentsSaved    int
	DocumentsFailed   int
	EnumerationErrors int
	Duration          time.Duration
}
