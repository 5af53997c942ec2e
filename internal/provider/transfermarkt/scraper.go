package transfermarkt

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/albapepper/scoracle-transfermarkt/internal/competition"
	"github.com/albapepper/scoracle-transfermarkt/internal/config"
)

// Options tunes scraper behavior.
type Options struct {
	// BaseURL roots every harvested link. Defaults to config.DefaultBaseURL.
	BaseURL string
	// SkipFailedClubs makes PlayerLinks log and skip a club whose roster
	// page cannot be fetched instead of aborting the harvest.
	SkipFailedClubs bool
	// History extracts the market value chart. Nil selects HighchartsHistory.
	History HistoryExtractor
}

// Scraper walks competition, club and player pages.
type Scraper struct {
	fetcher  Fetcher
	registry *competition.Registry
	opts     Options
	logger   *slog.Logger
}

// NewScraper creates a scraper. opts.History defaults to the Highcharts
// extractor; pass NoHistory to disable it.
func NewScraper(fetcher Fetcher, registry *competition.Registry, opts Options, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.History == nil {
		opts.History = HighchartsHistory{}
	}
	if opts.BaseURL == "" {
		opts.BaseURL = config.DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Scraper{
		fetcher:  fetcher,
		registry: registry,
		opts:     opts,
		logger:   logger,
	}
}

// Registry returns the competition registry the scraper validates against.
func (s *Scraper) Registry() *competition.Registry {
	return s.registry
}

// document fetches and parses a page.
func (s *Scraper) document(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", url, err)
	}
	return doc, nil
}

// absolute roots a site-relative href at the base URL.
func (s *Scraper) absolute(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return s.opts.BaseURL + href
}
