package output

import (
	"fmt"
	"os"
	"path/filepath"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"

	urlutil "github.com/law-makers/harvest/internal/utils/url"
)

// ToMarkdown converts an HTML fragment to Markdown, resolving links and images against pageURL
func ToMarkdown(fragment, pageURL string) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	converter.AddRules(
		md.Rule{
			Filter: []string{"a"},
			Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
				href, exists := selec.Attr("href")
				if !exists {
					return nil
				}
				str := fmt.Sprintf("[%s](%s)", content, urlutil.ResolveURL(pageURL, href))
				return &str
			},
		},
		md.Rule{
			Filter: []string{"img"},
			Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
				src, exists := selec.Attr("src")
				if !exists {
					return nil
				}
				alt, _ := selec.Attr("alt")
				str := fmt.Sprintf("![%s](%s)", alt, urlutil.ResolveURL(pageURL, src))
				return &str
			},
		},
	)

	cleaned, err := CleanHTML(fragment)
	if err != nil {
		return "", err
	}
	return converter.ConvertString(cleaned)
}

// SaveMarkdown converts fragment and writes it to path
func SaveMarkdown(fragment, pageURL, path string) error {
	mdStr, err := ToMarkdown(fragment, pageURL)
	if err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	return os.WriteFile(path, []byte(mdStr+"\n"), 0o644)
}
