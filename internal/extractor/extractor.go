// Package extractor turns a product page into a structured price/title
// result. Extraction is total: every failure mode degrades to a partial
// result with nil fields, it never returns an error.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"

	"github.com/Gitisfun/price-tracker-api/internal/domain"
	"github.com/Gitisfun/price-tracker-api/internal/fingerprint"
)

// Selectors for the target page shape. The markup renders a price as two
// separate text nodes: the integer part as the price element's own text and
// the fraction as a nested sup element.
const (
	titleSelector    = `h1 span[data-test="title"]`
	pricesSelector   = `div[data-test="prices"]`
	priceSelector    = `span.promo-price`
	fractionSelector = `sup.promo-price__fraction`
)

// Config holds extractor configuration.
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

type Extractor struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// New creates an extractor with a bounded per-fetch timeout.
func New(cfg Config, logger *slog.Logger) *Extractor {
	return &Extractor{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent: cfg.UserAgent,
		logger:    logger.With("component", "extractor"),
	}
}

// Extract fetches the page at url and derives a price/title result. ID and
// Date are populated before anything that can fail, so they are present on
// every return path.
func (e *Extractor) Extract(ctx context.Context, url string) domain.ExtractionResult {
	result := domain.ExtractionResult{
		ID:   fingerprint.Sum(url),
		URL:  url,
		Date: time.Now().UTC(),
	}

	doc, err := e.fetch(ctx, url)
	if err != nil {
		e.logger.Warn("fetch failed", "url", url, "error", err)
		return result
	}

	if title := strings.TrimSpace(doc.Find(titleSelector).First().Text()); title != "" {
		result.Title = &title
	}

	prices := doc.Find(pricesSelector).First()
	if prices.Length() == 0 {
		e.logger.Debug("no prices section", "url", url)
		return result
	}

	priceEl := prices.Find(priceSelector).First()
	if priceEl.Length() == 0 {
		e.logger.Debug("no price element", "url", url)
		return result
	}

	integer := strings.TrimSpace(ownText(priceEl))
	fraction := strings.TrimSpace(priceEl.Find(fractionSelector).First().Text())
	if integer == "" || fraction == "" {
		e.logger.Debug("incomplete price parts", "url", url, "integer", integer, "fraction", fraction)
		return result
	}

	price, err := decimal.NewFromString(integer + "." + fraction)
	if err != nil {
		e.logger.Warn("price not numeric", "url", url, "integer", integer, "fraction", fraction)
		return result
	}

	result.Price = &price
	return result
}

func (e *Extractor) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

// ownText returns the selection's direct text content, excluding text inside
// nested elements. goquery's Text() would glue the fraction digits onto the
// integer part.
func ownText(s *goquery.Selection) string {
	var sb strings.Builder
	for _, node := range s.Nodes {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
	}
	return sb.String()
}
