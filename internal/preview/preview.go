// Package preview rewrites the viewer page's social-preview metadata
// so link unfurlers (Twitter, Slack, Discord) see the actual image
// behind a short URL. Purely presentational; nothing here touches
// stored data.
package preview

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Rewriter holds the raw viewer template and stamps per-request URLs
// into its meta tags.
type Rewriter struct {
	template []byte
}

// NewRewriter parses templateHTML once up front so malformed templates
// fail at startup, not per request.
func NewRewriter(templateHTML []byte) (*Rewriter, error) {
	if _, err := goquery.NewDocumentFromReader(bytes.NewReader(templateHTML)); err != nil {
		return nil, fmt.Errorf("parse viewer template: %w", err)
	}
	return &Rewriter{template: templateHTML}, nil
}

// NewRewriterFromFile loads the viewer template from disk.
func NewRewriterFromFile(path string) (*Rewriter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read viewer template: %w", err)
	}
	return NewRewriter(data)
}

// Rewrite returns the viewer page with og:image, og:url and
// twitter:image pointed at the resolved URLs, and the display image
// wired to the stored asset. The template is re-parsed per call so
// concurrent requests never share a mutated document.
func (r *Rewriter) Rewrite(imageURL, pageURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.template))
	if err != nil {
		return "", fmt.Errorf("parse viewer template: %w", err)
	}

	doc.Find(`meta[property="og:image"]`).SetAttr("content", imageURL)
	doc.Find(`meta[property="og:url"]`).SetAttr("content", pageURL)
	doc.Find(`meta[name="twitter:image"]`).SetAttr("content", imageURL)
	doc.Find("#display-image").SetAttr("src", imageURL)

	html, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("render viewer page: %w", err)
	}
	// goquery serializes from the root element and loses the doctype;
	// put it back so browsers stay in standards mode.
	if !strings.HasPrefix(html, "<!DOCTYPE") {
		html = "<!DOCTYPE html>\n" + html
	}
	return html, nil
}
