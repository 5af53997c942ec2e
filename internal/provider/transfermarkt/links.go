package transfermarkt

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	itemsTable = "table.items"
	// Matches both "hauptlink no-border-links" and "links no-border-links hauptlink".
	clubCell   = "td.hauptlink.no-border-links"
	playerCell = "td.hauptlink"
	matchLink  = "a.ergebnis-link"
)

// ClubLinks returns the club pages of a league season. A season page
// without a club table yields an empty list and a warning.
func (s *Scraper) ClubLinks(ctx context.Context, league, season string) ([]string, error) {
	comp, code, err := s.resolveSeason(ctx, league, season)
	if err != nil {
		return nil, err
	}

	pageURL := comp.RootURL + "/plus/?saison_id=" + url.QueryEscape(code)
	doc, err := s.document(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("club links for %s %s: %w", season, league, err)
	}

	table := doc.Find(itemsTable).First()
	if table.Length() == 0 {
		s.logger.Warn("No club links table found, returning empty list",
			"league", league, "season", season, "url", pageURL)
		return []string{}, nil
	}

	links := s.cellLinks(table.Find(clubCell))
	s.logger.Debug("Club links harvested", "league", league, "season", season, "count", len(links))
	return links, nil
}

// PlayerLinks returns the distinct player pages across every club roster
// of a league season, sorted. A failed roster fetch aborts the harvest
// unless Options.SkipFailedClubs is set.
func (s *Scraper) PlayerLinks(ctx context.Context, league, season string) ([]string, error) {
	clubs, err := s.ClubLinks(ctx, league, season)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for i, club := range clubs {
		doc, err := s.document(ctx, club)
		if err != nil {
			if s.opts.SkipFailedClubs && ctx.Err() == nil {
				s.logger.Warn("Skipping club roster", "url", club, "error", err)
				continue
			}
			return nil, fmt.Errorf("player links for %s %s: %w", season, league, err)
		}

		table := doc.Find(itemsTable).First()
		if table.Length() == 0 {
			s.logger.Debug("Club page has no roster table", "url", club)
			continue
		}
		for _, link := range s.cellLinks(table.Find(playerCell)) {
			seen[link] = struct{}{}
		}
		s.logger.Debug("Club roster harvested", "club", i+1, "of", len(clubs), "players", len(seen))
	}

	links := make([]string, 0, len(seen))
	for link := range seen {
		links = append(links, link)
	}
	slices.Sort(links)
	return links, nil
}

// MatchLinks returns the match report pages of a league season's fixtures.
func (s *Scraper) MatchLinks(ctx context.Context, league, season string) ([]string, error) {
	comp, code, err := s.resolveSeason(ctx, league, season)
	if err != nil {
		return nil, err
	}

	fixturesURL := strings.Replace(comp.RootURL, "startseite", "gesamtspielplan", 1) + "/saison_id/" + url.PathEscape(code)
	doc, err := s.document(ctx, fixturesURL)
	if err != nil {
		return nil, fmt.Errorf("match links for %s %s: %w", season, league, err)
	}

	links := []string{}
	doc.Find(matchLink).Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok && href != "" {
			links = append(links, s.absolute(href))
		}
	})
	return links, nil
}

// cellLinks returns the first anchor href of every cell, skipping cells
// without one.
func (s *Scraper) cellLinks(cells *goquery.Selection) []string {
	links := []string{}
	cells.Each(func(_ int, td *goquery.Selection) {
		href, ok := td.Find("a[href]").First().Attr("href")
		if !ok || href == "" {
			return
		}
		links = append(links, s.absolute(href))
	})
	return links
}
