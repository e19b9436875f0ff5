// Package taxonomy reads the category tree out of the site's navigation menu.
package taxonomy

import (
	"strings"

	"github.com/law-makers/harvest/internal/errs"
	"github.com/law-makers/harvest/internal/query"
	"github.com/law-makers/harvest/pkg/models"
)

// DefaultMenuSelector is the id of the menu entry holding the publication tree
const DefaultMenuSelector = "#main-menu-link-content1039af4d-1b27-4aa0-9b00-c3d6d1d69b93"

const (
	categorySelector    = "a.sf-depth-1.menuparent"
	submenuSelector     = "ul"
	subcategorySelector = "li a"
)

// Discover extracts the category name and subcategory map from the root page
// markup. It has no side effects; an empty result is a taxonomy error.
func Discover(rootMarkup, menuSelector string) (models.Taxonomy, error) {
	if menuSelector == "" {
		menuSelector = DefaultMenuSelector
	}

	doc, err := query.Parse(rootMarkup)
	if err != nil {
		return models.Taxonomy{}, errs.Taxonomy("parse root page", "", err)
	}

	menu := doc.Find(menuSelector)
	tax := models.Taxonomy{
		Category:      strings.TrimSpace(menu.Find(categorySelector).First().Text()),
		Subcategories: make(map[string]string),
	}

	menu.Find(submenuSelector).Find(subcategorySelector).Each(func(_ int, a query.Node) {
		href, ok := a.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" || href == "#" {
			return
		}
		tax.Subcategories[href] = a.Text()
	})

	if tax.Category == "" || len(tax.Subcategories) == 0 {
		return tax, errs.Taxonomy("discover taxonomy", menuSelector, errs.ErrEmptyTaxonomy)
	}

	return tax, nil
}
