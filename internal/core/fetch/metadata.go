package fetch

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageMeta is what the extractor needs from a page besides its text:
// identity fields plus any embedded structured data.
type PageMeta struct {
	Title       string
	Description string
	OgImage     string
	JSONLD      json.RawMessage
}

// ExtractMetadata pulls title, description, og:image, and JSON-LD blocks
// out of raw HTML. Relative image URLs are resolved against pageURL.
func ExtractMetadata(htmlContent, pageURL string) PageMeta {
	var meta PageMeta

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return meta
	}

	meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && meta.Title == "" {
		meta.Title = strings.TrimSpace(og)
	}

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		meta.Description = strings.TrimSpace(desc)
	}
	if meta.Description == "" {
		if og, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok {
			meta.Description = strings.TrimSpace(og)
		}
	}

	if img, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok {
		meta.OgImage = absolutizeURL(strings.TrimSpace(img), pageURL)
	}

	meta.JSONLD = extractJSONLD(doc)
	return meta
}

// extractJSONLD collects every <script type="application/ld+json"> block.
// A single valid block is passed through untouched; multiple blocks are
// wrapped in an array so downstream parsing sees one document.
func extractJSONLD(doc *goquery.Document) json.RawMessage {
	var blocks []json.RawMessage
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" || !json.Valid([]byte(raw)) {
			return
		}
		blocks = append(blocks, json.RawMessage(raw))
	})

	switch len(blocks) {
	case 0:
		return nil
	case 1:
		return blocks[0]
	default:
		combined, err := json.Marshal(blocks)
		if err != nil {
			return blocks[0]
		}
		return combined
	}
}

func absolutizeURL(raw, pageURL string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return base.ResolveReference(ref).String()
}

// LooksLikeHTML reports whether pasted content is an HTML document rather
// than plain text.
func LooksLikeHTML(content string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(trimmed, "<!doctype html") || strings.HasPrefix(trimmed, "<html") {
		return true
	}
	for _, tag := range []string{"<body", "<div", "<article", "<section", "<script", "<p>", "<h1", "<table"} {
		if strings.Contains(trimmed, tag) {
			return true
		}
	}
	return false
}
