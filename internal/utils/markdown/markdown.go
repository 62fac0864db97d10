package markdown

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// ConvertHTMLToMarkdown converts HTML to markdown suitable for feeding an
// extraction prompt: boilerplate stripped, whitespace collapsed.
func ConvertHTMLToMarkdown(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	// Prefer the page's main content area when one is declared
	var contentSelection *goquery.Selection
	mainTags := []string{"main", "[role=\"main\"]", "#content", "#main"}
	for _, tag := range mainTags {
		if doc.Find(tag).Length() > 0 {
			contentSelection = doc.Find(tag).First()
			break
		}
	}
	if contentSelection == nil {
		contentSelection = doc.Find("body")
	}

	contentSelection.Find("script, style, noscript, nav, header, aside, form, iframe, svg, button, input").Each(func(_ int, s *goquery.Selection) { s.Remove() })
	contentSelection.Find("[role=\"navigation\"], [role=\"banner\"], [role=\"contentinfo\"], [aria-label*=\"cookie\" i], [aria-modal]").Each(func(_ int, s *goquery.Selection) { s.Remove() })

	// Remove elements whose class or id contain boilerplate keywords
	keywords := []string{
		"cookie", "consent", "banner", "navbar", "nav-", "menu-", "header",
		"pagination", "share", "search-", "signup", "signin", "login",
		"ad-", "advert", "promo", "modal", "popup", "dialog",
		"breadcrumbs", "breadcrumb", "sidebar",
	}

	contentSelection.Find("[class], [id]").Each(func(_ int, sel *goquery.Selection) {
		classVal, _ := sel.Attr("class")
		idVal, _ := sel.Attr("id")
		lower := strings.ToLower(classVal + " " + idVal)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				sel.Remove()
				break
			}
		}
	})

	body, err := contentSelection.Html()
	if err != nil {
		return ""
	}

	conv := md.NewConverter("", true, nil)
	out, err := conv.ConvertString(body)
	if err != nil {
		return ""
	}

	out = StripImageOnlyLines(out)
	out = regexp.MustCompile(`\n{3,}`).ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// StripImageOnlyLines drops lines that carry nothing but a markdown image;
// they add tokens without adding extractable text.
func StripImageOnlyLines(mdText string) string {
	imgRe := regexp.MustCompile(`!\[[^\]]*\]\([^\)]+\)`)

	lines := strings.Split(mdText, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		line := strings.TrimSpace(l)
		if line == "" {
			continue
		}
		if imgRe.MatchString(line) && len(strings.TrimSpace(imgRe.ReplaceAllString(line, ""))) == 0 {
			continue
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}
