package transfermarkt

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/albapepper/scoracle-transfermarkt/internal/competition"
	"github.com/albapepper/scoracle-transfermarkt/internal/provider"
)

const seasonSelector = `select[name="saison_id"]`

// Seasons returns the season selector of a competition as label → code.
func (s *Scraper) Seasons(ctx context.Context, league string) (map[string]string, error) {
	comp, err := s.registry.Resolve(league)
	if err != nil {
		return nil, err
	}
	seasons, err := s.seasonList(ctx, comp)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(seasons))
	for _, season := range seasons {
		out[season.Label] = season.Code
	}
	return out, nil
}

// SeasonList is Seasons in document order.
func (s *Scraper) SeasonList(ctx context.Context, league string) ([]provider.Season, error) {
	comp, err := s.registry.Resolve(league)
	if err != nil {
		return nil, err
	}
	return s.seasonList(ctx, comp)
}

func (s *Scraper) seasonList(ctx context.Context, comp competition.Competition) ([]provider.Season, error) {
	doc, err := s.document(ctx, comp.RootURL)
	if err != nil {
		return nil, fmt.Errorf("seasons for %s: %w", comp.Name, err)
	}
	return parseSeasons(doc, comp.RootURL)
}

func parseSeasons(doc *goquery.Document, pageURL string) ([]provider.Season, error) {
	sel := doc.Find(seasonSelector).First()
	if sel.Length() == 0 {
		return nil, &provider.ParseError{URL: pageURL, Element: seasonSelector}
	}

	var seasons []provider.Season
	sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
		label := strings.TrimSpace(opt.Text())
		code, ok := opt.Attr("value")
		if !ok {
			code = label
		}
		seasons = append(seasons, provider.Season{Label: label, Code: strings.TrimSpace(code)})
	})
	return seasons, nil
}

// resolveSeason validates league and season label, returning the
// competition and the season code.
func (s *Scraper) resolveSeason(ctx context.Context, league, season string) (competition.Competition, string, error) {
	comp, err := s.registry.Resolve(league)
	if err != nil {
		return competition.Competition{}, "", err
	}
	seasons, err := s.seasonList(ctx, comp)
	if err != nil {
		return competition.Competition{}, "", err
	}

	labels := make([]string, 0, len(seasons))
	for _, candidate := range seasons {
		if candidate.Label == season {
			return comp, candidate.Code, nil
		}
		labels = append(labels, candidate.Label)
	}
	return competition.Competition{}, "", &provider.InvalidInputError{
		Err:   provider.ErrUnknownSeason,
		Value: season,
		Valid: labels,
	}
}
