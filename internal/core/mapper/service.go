package mapper

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fairimport/internal/logger"

	"github.com/gocolly/colly"
)

// Service discovers candidate event pages on a site. Listing pages for
// fairs and festivals usually link each event from an index, so a shallow
// same-domain crawl is enough to enumerate them.
type Service struct {
	log *logger.Logger
}

func NewMapService() *Service { return &Service{log: logger.New("MapService")} }

type Request struct {
	URL               string
	Depth             int
	LinkLimit         int
	IncludeSubdomains bool
	Patterns          []string
}

type Result struct {
	Links []string `json:"links"`
}

// eventPathHints mark URLs that are likely individual event pages. They are
// used for ordering only, never for exclusion.
var eventPathHints = []string{"/event", "/events", "/fair", "/festival", "/calendar", "/show", "/p/"}

func (s *Service) MapURL(req Request) (*Result, error) {
	s.log.LogDebugf("Map start url=%s depth=%d limit=%d subdomains=%v", req.URL, req.Depth, req.LinkLimit, req.IncludeSubdomains)
	links := make(map[string]struct{})
	var mu sync.Mutex
	c := colly.NewCollector(colly.MaxDepth(maxInt(1, req.Depth)), colly.Async(true))
	cleaned := cleanURL(req.URL)
	dom := extractDomain(cleaned)

	c.OnRequest(func(r *colly.Request) {
		mu.Lock()
		reached := req.LinkLimit > 0 && len(links) >= maxInt(1, req.LinkLimit)
		mu.Unlock()
		if reached {
			r.Abort()
		}
	})

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		link := e.Request.AbsoluteURL(e.Attr("href"))
		link = normalize(link)
		if link == "" {
			return
		}
		ldom := extractDomain(link)
		if !domainsMatch(ldom, dom, req.IncludeSubdomains) {
			return
		}
		if !matchesPattern(link, req.Patterns) {
			return
		}
		mu.Lock()
		_, exists := links[link]
		if !exists {
			links[link] = struct{}{}
		}
		reached := req.LinkLimit > 0 && len(links) >= maxInt(1, req.LinkLimit)
		mu.Unlock()
		if reached {
			return
		}
		if !exists && e.Request.Depth < maxInt(1, req.Depth) {
			_ = e.Request.Visit(link)
		}
	})

	c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 10, RandomDelay: 500 * time.Millisecond})

	if err := c.Visit(cleaned); err != nil {
		return nil, fmt.Errorf("visit: %w", err)
	}
	c.Wait()

	out := make([]string, 0, len(links))
	rest := make([]string, 0, len(links))
	for l := range links {
		if looksLikeEventPage(l) {
			out = append(out, l)
		} else {
			rest = append(rest, l)
		}
	}
	out = append(out, rest...)
	s.log.LogInfof("Map ok url=%s discovered=%d", req.URL, len(out))
	return &Result{Links: out}, nil
}

func looksLikeEventPage(u string) bool {
	p, err := url.Parse(u)
	if err != nil {
		return false
	}
	path := strings.ToLower(p.Path)
	for _, hint := range eventPathHints {
		if strings.Contains(path, hint) {
			return true
		}
	}
	return false
}

func cleanURL(u string) string {
	if !strings.HasPrefix(u, "http") {
		u = "https://" + u
	}
	return u
}

func extractDomain(u string) string {
	p, _ := url.Parse(u)
	if p != nil {
		return p.Hostname()
	}
	return ""
}

func normalize(u string) string {
	p, _ := url.Parse(u)
	if p == nil {
		return u
	}
	p.Fragment = ""
	if p.Path == "/" {
		p.Path = ""
	}
	return p.String()
}

func domainsMatch(a, b string, includeSub bool) bool {
	if a == b {
		return true
	}
	a = strings.TrimPrefix(a, "www.")
	b = strings.TrimPrefix(b, "www.")
	if a == b {
		return true
	}
	if includeSub && (strings.HasSuffix(a, "."+b) || strings.HasSuffix(b, "."+a)) {
		return true
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// matchesPattern checks a URL path against glob-style patterns. No
// patterns means allow everything.
func matchesPattern(u string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}

	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}

	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, path)
		if err == nil && matched {
			return true
		}
		if strings.HasSuffix(pattern, "*") {
			prefix := strings.TrimSuffix(pattern, "*")
			if path == strings.TrimSuffix(prefix, "/") {
				return true
			}
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
	}

	return false
}
