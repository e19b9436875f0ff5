package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/law-makers/harvest/internal/ui"
	"github.com/law-makers/harvest/pkg/models"
)

func printSummary(w io.Writer, s *models.Summary) {
	fmt.Fprintf(w, "\n%s %s\n", ui.Heading("Harvest complete:"), ui.Bold(s.Category))

	listing := fmt.Sprintf("%d (%d listing pages)", s.Subcategories, s.ListingPages)
	if s.EnumerationErrors > 0 {
		listing += ", " + ui.Warn(fmt.Sprintf("%d incomplete", s.EnumerationErrors))
	}
	fmt.Fprintf(w, "  %-15s %s\n", "Subcategories", listing)
	fmt.Fprintf(w, "  %-15s %s\n", "Pages", counts(s.PagesHarvested, "harvested", s.PagesFailed))
	fmt.Fprintf(w, "  %-15s %s\n", "Documents", counts(s.DocumentsSaved, "saved", s.DocumentsFailed))
	fmt.Fprintf(w, "  %-15s %s\n", "Duration", s.Duration.Round(time.Millisecond))
}

func counts(ok int, verb string, failed int) string {
	line := ui.Success(fmt.Sprintf("%d %s", ok, verb))
	if failed > 0 {
		line += ", " + ui.Error(fmt.Sprintf("%d failed", failed))
	}
	return line
}

func printTaxonomy(w io.Writer, tax models.Taxonomy) {
	fmt.Fprintf(w, "%s\n", ui.Heading(tax.Category))
	for _, path := range tax.Paths() {
		fmt.Fprintf(w, "  %-30s %s\n", tax.Subcategories[path], ui.Dim(path))
	}
}
