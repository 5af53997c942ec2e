package transfermarkt

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/albapepper/scoracle-transfermarkt/internal/provider"
)

const shirtNumberSelector = "span.data-header__shirt-number"

// Player fetches and parses one profile page.
//
// The returned profile is always usable: if the page cannot be fetched it
// carries only the ID, and the error says why. Field-level parse problems
// never produce an error.
func (s *Scraper) Player(ctx context.Context, profileURL string) (provider.PlayerProfile, error) {
	doc, err := s.document(ctx, profileURL)
	if err != nil {
		s.logger.Warn("Player page unavailable, returning empty profile", "url", profileURL, "error", err)
		return provider.NewProfile(profileURL), err
	}
	return ParseProfile(doc, profileURL, s.opts.History, s.logger), nil
}

// ParseProfile extracts every profile field from a parsed page. Each field
// is read independently; a missing or malformed element leaves only that
// field unset.
func ParseProfile(doc *goquery.Document, profileURL string, history HistoryExtractor, logger *slog.Logger) provider.PlayerProfile {
	if logger == nil {
		logger = slog.Default()
	}
	if history == nil {
		history = NoHistory{}
	}

	p := provider.NewProfile(profileURL)

	p.Name = parseName(doc)

	if el := doc.Find(shirtNumberSelector).First(); el.Length() > 0 {
		if n, ok := provider.ExtractShirtNumber(el.Text()); ok {
			p.ShirtNumber = &n
		}
	}

	if el := doc.Find("a.data-header__market-value-wrapper").First(); el.Length() > 0 {
		text := el.Text()
		if v, ok := provider.ExtractMarketValue(text); ok {
			p.MarketValue = &v
		}
		if v, ok := provider.ExtractMarketValueUpdated(text); ok {
			p.MarketValueUpdated = &v
		}
	}

	if el := doc.Find(`span[itemprop="birthDate"]`).First(); el.Length() > 0 {
		p.DateOfBirth, p.Age = provider.ExtractBirth(el.Text())
	}

	if el := doc.Find(`span[itemprop="height"]`).First(); el.Length() > 0 {
		if h, ok := provider.ExtractHeight(el.Text()); ok {
			p.HeightMeters = &h
		}
	}

	if el := doc.Find(`span[itemprop="nationality"]`).First(); el.Length() > 0 {
		p.Nationality = provider.StringPtr(provider.CollapseSpace(el.Text()))
	}

	doc.Find("span.info-table__content.info-table__content--bold img.flaggenrahmen").Each(func(_ int, img *goquery.Selection) {
		if title := img.AttrOr("title", ""); title != "" {
			p.Citizenships = append(p.Citizenships, title)
		}
	})

	p.Position = parsePosition(doc)
	p.OtherPositions = parseOtherPositions(doc, p.Position)

	if el := doc.Find("span.data-header__club").First(); el.Length() > 0 {
		p.CurrentTeam = provider.StringPtr(provider.CollapseSpace(el.Text()))
	}

	labels := headerLabels(doc)
	p.LastClub = labels.lookup("last club")
	p.SinceDate = labels.lookup("since")
	p.JoinedDate = labels.lookup("joined")
	p.ContractExpiration = labels.lookup("contract expires")

	p.MarketValueHistory = history.Extract(doc)
	p.TransferHistory = parseTransfers(doc, profileURL, logger)

	return p
}

// parseName reads the headline without its shirt number badge. The name is
// the last non-blank line left.
func parseName(doc *goquery.Document) *string {
	el := doc.Find("h1.data-header__headline-wrapper").First()
	if el.Length() == 0 {
		return nil
	}
	el = el.Clone()
	el.Find(shirtNumberSelector).Remove()
	lines := strings.Split(strings.TrimSpace(el.Text()), "\n")
	return provider.StringPtr(provider.CollapseSpace(lines[len(lines)-1]))
}

func parsePosition(doc *goquery.Document) *string {
	el := doc.Find("dd.detail-position__position").First()
	if el.Length() == 0 {
		doc.Find("li.data-header__label").EachWithBreak(func(_ int, li *goquery.Selection) bool {
			if strings.Contains(strings.ToLower(li.Text()), "position") {
				el = li.Find("span").First()
				return false
			}
			return true
		})
	}
	if el.Length() == 0 {
		return nil
	}
	return provider.StringPtr(provider.CollapseSpace(el.Text()))
}

// parseOtherPositions lists the detail block entries other than the main
// position. nil when there are none.
func parseOtherPositions(doc *goquery.Document, primary *string) []string {
	var others []string
	doc.Find("div.detail-position__position dd").Each(func(_ int, dd *goquery.Selection) {
		text := provider.CollapseSpace(dd.Text())
		if text == "" || (primary != nil && text == *primary) {
			return
		}
		others = append(others, text)
	})
	return others
}

type labelSet []string

// headerLabels collects the data header "Label: value" texts.
func headerLabels(doc *goquery.Document) labelSet {
	var labels labelSet
	doc.Find("span.data-header__label").Each(func(_ int, el *goquery.Selection) {
		labels = append(labels, provider.CollapseSpace(el.Text()))
	})
	return labels
}

// lookup returns the part after the last colon of the first label
// containing keyword, case-insensitively.
func (l labelSet) lookup(keyword string) *string {
	keyword = strings.ToLower(keyword)
	for _, text := range l {
		if !strings.Contains(strings.ToLower(text), keyword) {
			continue
		}
		value := text[strings.LastIndex(text, ":")+1:]
		return provider.StringPtr(strings.TrimSpace(value))
	}
	return nil
}
