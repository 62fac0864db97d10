package fetch

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"fairimport/internal/logger"
	"fairimport/internal/platform/api"
	rds "fairimport/internal/platform/redis"
	"fairimport/internal/utils/markdown"

	"github.com/playwright-community/playwright-go"
)

const (
	cacheTTLSeconds = 900
	maxBodyBytes    = 5 << 20
	// Below this many characters of extracted text the page is assumed to
	// render its content client side, and we retry with a real browser.
	thinContentThreshold = 200
)

type Request struct {
	URL    string `form:"url"`
	Fresh  bool   `form:"fresh"`
	Render bool   `form:"render"`
}

type Service struct {
	log    *logger.Logger
	redis  *rds.Service
	client *http.Client
}

func NewService(redis *rds.Service) *Service {
	return &Service{
		log:   logger.New("FetchService"),
		redis: redis,
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// FetchURL retrieves a page server side and returns markdown text plus page
// metadata. Plain HTTP is tried first across header strategies; pages that
// come back nearly empty are refetched with a headless browser.
func (s *Service) FetchURL(ctx context.Context, req Request) (*api.FetchResponse, error) {
	s.log.Info().Str("url", req.URL).Msg("fetch start")

	if !req.Fresh {
		if cached := s.getCached(ctx, req.URL); cached != nil {
			s.log.Info().Str("url", req.URL).Msg("cache hit")
			return cached, nil
		}
	}

	htmlContent, err := s.fetchHTML(ctx, req)
	if err != nil {
		s.log.Info().Str("url", req.URL).Str("error", err.Error()).Msg("fetch failed")
		return nil, err
	}

	res := s.buildResponse(htmlContent, req.URL)
	s.cache(ctx, req.URL, res)
	s.log.Info().Str("url", req.URL).Int("chars", len(res.Content)).Msg("fetch complete")
	return res, nil
}

// ProcessPasted turns user-pasted content into the same response shape as a
// fetch. HTML paste goes through metadata extraction and markdown
// conversion; plain text passes through untouched.
func (s *Service) ProcessPasted(content string) *api.FetchResponse {
	if LooksLikeHTML(content) {
		return s.buildResponse(content, "")
	}
	return &api.FetchResponse{Success: true, Content: strings.TrimSpace(content)}
}

func (s *Service) buildResponse(htmlContent, pageURL string) *api.FetchResponse {
	meta := ExtractMetadata(htmlContent, pageURL)
	md := markdown.StripImageOnlyLines(markdown.ConvertHTMLToMarkdown(htmlContent))

	return &api.FetchResponse{
		Success:     true,
		Content:     md,
		Title:       meta.Title,
		Description: meta.Description,
		OgImage:     meta.OgImage,
		JSONLD:      meta.JSONLD,
	}
}

func (s *Service) fetchHTML(ctx context.Context, req Request) (string, error) {
	if req.Render {
		return s.fetchWithPlaywright(req.URL, GetHeaderProfile(StrategyModernBrowser))
	}

	strategies := GetAllStrategies()
	var lastErr error
	for i, strategy := range strategies {
		htmlContent, err := s.fetchWithHTTP(ctx, req.URL, strategy)
		if err == nil {
			if visibleTextLength(htmlContent) >= thinContentThreshold {
				return htmlContent, nil
			}
			s.log.LogWarnf("Thin content from %s, retrying with browser render", req.URL)
			rendered, rerr := s.fetchWithPlaywright(req.URL, GetHeaderProfile(strategy))
			if rerr == nil {
				return rendered, nil
			}
			// The thin static HTML is still better than nothing.
			return htmlContent, nil
		}

		lastErr = err
		s.log.Info().Str("url", req.URL).Str("strategy", string(strategy)).Str("error", err.Error()).Msg("fetch attempt failed")
		if i < len(strategies)-1 {
			time.Sleep(time.Duration(500+rand.Intn(500)) * time.Millisecond)
		}
	}
	return "", fmt.Errorf("all strategies exhausted: %w", lastErr)
}

func (s *Service) fetchWithHTTP(ctx context.Context, url string, strategy HeaderStrategy) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	profile := GetHeaderProfile(strategy)
	httpReq.Header.Set("User-Agent", profile.UserAgent)
	httpReq.Header.Set("Accept", profile.Accept)
	httpReq.Header.Set("Accept-Language", profile.AcceptLanguage)
	httpReq.Header.Set("Upgrade-Insecure-Requests", "1")
	if profile.SecFetchDest != "" {
		httpReq.Header.Set("Sec-Fetch-Dest", profile.SecFetchDest)
		httpReq.Header.Set("Sec-Fetch-Mode", profile.SecFetchMode)
		httpReq.Header.Set("Sec-Fetch-Site", profile.SecFetchSite)
	}
	if profile.SecChUa != "" {
		httpReq.Header.Set("Sec-Ch-Ua", profile.SecChUa)
		httpReq.Header.Set("Sec-Ch-Ua-Mobile", profile.SecChUaMobile)
		httpReq.Header.Set("Sec-Ch-Ua-Platform", profile.SecChUaPlatform)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("status %d fetching %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

func (s *Service) fetchWithPlaywright(url string, profile HeaderProfile) (string, error) {
	pw, err := playwright.Run()
	if err != nil {
		return "", fmt.Errorf("playwright run: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-blink-features=AutomationControlled",
		},
	})
	if err != nil {
		return "", fmt.Errorf("launch: %w", err)
	}
	defer browser.Close()

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(profile.UserAgent),
		ExtraHttpHeaders: map[string]string{
			"Accept":          profile.Accept,
			"Accept-Language": profile.AcceptLanguage,
		},
	})
	if err != nil {
		return "", err
	}
	page, err := bctx.NewPage()
	if err != nil {
		return "", err
	}

	_, navErr := page.Goto(url, playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateDomcontentloaded, Timeout: playwright.Float(10000)})
	if navErr != nil {
		_, navErr = page.Goto(url, playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateLoad, Timeout: playwright.Float(20000)})
		if navErr != nil {
			return "", fmt.Errorf("goto failed: %w", navErr)
		}
	}

	// Give client-side rendering a chance to settle.
	_ = page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(7000),
	})

	return page.Content()
}

// visibleTextLength is a cheap proxy for how much readable text the static
// HTML carries.
func visibleTextLength(htmlContent string) int {
	md := markdown.ConvertHTMLToMarkdown(htmlContent)
	return len(strings.TrimSpace(md))
}

// Cache helpers

func (s *Service) getCached(ctx context.Context, url string) *api.FetchResponse {
	var res api.FetchResponse
	if err := s.redis.CacheGet(ctx, cacheKey(url), &res); err != nil {
		return nil
	}
	return &res
}

func (s *Service) cache(ctx context.Context, url string, res *api.FetchResponse) {
	_ = s.redis.CacheSet(ctx, cacheKey(url), res, cacheTTLSeconds)
}

func cacheKey(url string) string {
	safeURL := strings.NewReplacer(":", "_", "/", "_", "?", "_", "&", "_").Replace(url)
	return fmt.Sprintf("fetch:%s", safeURL)
}
