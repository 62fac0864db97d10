package fetch

import (
	"encoding/json"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>Summer Concert | Portland Events</title>
<meta name="description" content="An outdoor concert on the waterfront.">
<meta property="og:image" content="/images/concert.jpg">
<script type="application/ld+json">{"@type": "Event", "name": "Summer Concert"}</script>
</head>
<body><h1>Summer Concert</h1></body>
</html>`

func TestExtractMetadata(t *testing.T) {
	meta := ExtractMetadata(samplePage, "https://portlandevents.example.com/concerts/summer")

	if meta.Title != "Summer Concert | Portland Events" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.Description != "An outdoor concert on the waterfront." {
		t.Errorf("description = %q", meta.Description)
	}
	if meta.OgImage != "https://portlandevents.example.com/images/concert.jpg" {
		t.Errorf("og image not absolutized: %q", meta.OgImage)
	}
	if meta.JSONLD == nil {
		t.Fatal("expected a JSON-LD block")
	}
	var node map[string]interface{}
	if err := json.Unmarshal(meta.JSONLD, &node); err != nil {
		t.Fatalf("JSON-LD should pass through valid: %v", err)
	}
	if node["name"] != "Summer Concert" {
		t.Errorf("unexpected JSON-LD content: %v", node)
	}
}

func TestExtractMetadataMultipleJSONLDBlocks(t *testing.T) {
	page := `<html><head>
<script type="application/ld+json">{"@type": "WebSite"}</script>
<script type="application/ld+json">{"@type": "Event", "name": "X"}</script>
<script type="application/ld+json">not valid json</script>
</head><body></body></html>`

	meta := ExtractMetadata(page, "https://example.com/")
	var blocks []map[string]interface{}
	if err := json.Unmarshal(meta.JSONLD, &blocks); err != nil {
		t.Fatalf("multiple blocks should combine into an array: %v", err)
	}
	if len(blocks) != 2 {
		t.Errorf("expected 2 valid blocks (invalid one skipped), got %d", len(blocks))
	}
}

func TestExtractMetadataOgTitleFallback(t *testing.T) {
	page := `<html><head>
<meta property="og:title" content="Fallback Title">
<meta property="og:description" content="Fallback description.">
</head><body></body></html>`

	meta := ExtractMetadata(page, "https://example.com/")
	if meta.Title != "Fallback Title" {
		t.Errorf("title = %q, want og:title fallback", meta.Title)
	}
	if meta.Description != "Fallback description." {
		t.Errorf("description = %q, want og:description fallback", meta.Description)
	}
	if meta.JSONLD != nil {
		t.Error("expected no JSON-LD")
	}
}

func TestLooksLikeHTML(t *testing.T) {
	htmlInputs := []string{
		"<!DOCTYPE html><html></html>",
		"  <html lang=\"en\">",
		"text with a <div class=\"x\"> inside",
		"<p>paragraph</p>",
	}
	for _, in := range htmlInputs {
		if !LooksLikeHTML(in) {
			t.Errorf("LooksLikeHTML(%q) = false, want true", in)
		}
	}

	textInputs := []string{
		"Pumpkin Days\nOctober 5-8, 2026",
		"a < b and b > c",
		"",
	}
	for _, in := range textInputs {
		if LooksLikeHTML(in) {
			t.Errorf("LooksLikeHTML(%q) = true, want false", in)
		}
	}
}
