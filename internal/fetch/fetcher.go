// Package fetch retrieves listing pages over HTTP and extracts the text
// the analyzers consume. Outbound traffic is throttled per origin host.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/shopsleuth/engine/internal/logger"
)

// Status classifies the outcome of a page fetch.
type Status string

const (
	StatusOK          Status = "ok"
	StatusForbidden   Status = "forbidden"
	StatusRateLimited Status = "rate_limited"
	StatusTimeout     Status = "timeout"
	StatusUnreachable Status = "unreachable"
)

const (
	defaultUserAgent = "ShopSleuth-Analyzer/1.0"
	defaultTimeout   = 15 * time.Second
)

// Page is the extracted content of one listing page.
type Page struct {
	URL        string
	Title      string
	Text       string
	Status     Status
	HTTPStatus int
}

// Fetcher downloads pages with a shared client and per-origin throttling.
type Fetcher struct {
	client    *http.Client
	limiter   *OriginLimiter
	userAgent string
	log       logger.Logger
}

// NewFetcher builds a fetcher. A nil client gets a default with a sane
// timeout; a nil limiter disables throttling.
func NewFetcher(client *http.Client, limiter *OriginLimiter, log logger.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Fetcher{
		client:    client,
		limiter:   limiter,
		userAgent: defaultUserAgent,
		log:       log,
	}
}

// Fetch downloads the page and extracts its title and visible text. The
// returned Page always carries a Status; the error is non-nil only when no
// usable classification exists (bad URL, canceled context).
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, pageURL); err != nil {
			return nil, fmt.Errorf("waiting for rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("building page request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		page := &Page{URL: pageURL, Status: StatusUnreachable}
		if isTimeout(err) {
			page.Status = StatusTimeout
		}
		f.log.Warn("page fetch failed",
			logger.String("url", pageURL),
			logger.String("status", string(page.Status)),
			logger.Error(err))
		return page, nil
	}
	defer resp.Body.Close()

	page := &Page{URL: pageURL, HTTPStatus: resp.StatusCode, Status: classify(resp.StatusCode)}
	if page.Status != StatusOK {
		f.log.Warn("page fetch rejected",
			logger.String("url", pageURL),
			logger.Int("http_status", resp.StatusCode))
		return page, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing page html: %w", err)
	}

	page.Title = extractTitle(doc)
	page.Text = extractText(doc)
	return page, nil
}

func classify(statusCode int) Status {
	switch {
	case statusCode == http.StatusForbidden || statusCode == http.StatusUnauthorized:
		return StatusForbidden
	case statusCode == http.StatusTooManyRequests:
		return StatusRateLimited
	case statusCode >= 200 && statusCode < 300:
		return StatusOK
	default:
		return StatusUnreachable
	}
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// nonContentSelectors lists elements stripped before extracting body text.
const nonContentSelectors = "script, style, nav, header, footer, noscript"

func extractTitle(doc *goquery.Document) string {
	if title, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
		if t := strings.TrimSpace(title); t != "" {
			return t
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func extractText(doc *goquery.Document) string {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return ""
	}
	body.Find(nonContentSelectors).Remove()
	return strings.Join(strings.Fields(body.Text()), " ")
}
