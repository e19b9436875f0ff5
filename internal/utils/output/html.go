package output

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var keptAttributes = map[string]map[string]bool{
	"a":    {"href": true, "title": true},
	"img":  {"src": true, "alt": true, "title": true},
	"time": {"datetime": true},
}

// CleanHTML drops scripts, forms and presentational attributes from a fragment
func CleanHTML(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, link, meta, noscript, iframe, svg, form, input, button, select, textarea, canvas").Remove()

	doc.Find("*").Each(func(i int, s *goquery.Selection) {
		for _, node := range s.Nodes {
			node.Attr = filterAttrs(node)
		}
	})

	htmlStr, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(htmlStr), nil
}

func filterAttrs(node *html.Node) []html.Attribute {
	allowed := keptAttributes[node.Data]
	if allowed == nil {
		return nil
	}
	var kept []html.Attribute
	for _, attr := range node.Attr {
		if allowed[attr.Key] {
			kept = append(kept, attr)
		}
	}
	return kept
}
