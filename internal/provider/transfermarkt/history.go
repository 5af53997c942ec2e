package transfermarkt

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/albapepper/scoracle-transfermarkt/internal/provider"
)

// HistoryExtractor pulls a player's market value history out of a profile
// page. Returning nil means the history is unavailable.
type HistoryExtractor interface {
	Extract(doc *goquery.Document) []provider.MarketValuePoint
}

// NoHistory disables market value history extraction.
type NoHistory struct{}

func (NoHistory) Extract(*goquery.Document) []provider.MarketValuePoint { return nil }

const (
	highchartsMarker = "var chart = new Highcharts.Chart"
	pointValueKey    = `y":`
	pointDateKey     = `datum_mw":`
	pointDateEnd     = `,"x`
)

// HighchartsHistory reads the points serialized into the inline Highcharts
// config script. The format is not a public contract: any mismatch drops
// the whole series rather than returning part of it.
type HighchartsHistory struct{}

func (HighchartsHistory) Extract(doc *goquery.Document) []provider.MarketValuePoint {
	var script string
	doc.Find(`script[type="text/javascript"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if strings.Contains(text, highchartsMarker) {
			script = text
			return false
		}
		return true
	})
	if script == "" {
		return nil
	}

	// The first two chunks precede the data series and the last two follow it.
	chunks := strings.Split(script, pointValueKey)
	if len(chunks) < 5 {
		return nil
	}
	chunks = chunks[2 : len(chunks)-2]

	points := make([]provider.MarketValuePoint, 0, len(chunks))
	for _, chunk := range chunks {
		value, err := strconv.Atoi(strings.TrimSpace(strings.SplitN(chunk, ",", 2)[0]))
		if err != nil {
			return nil
		}

		date := chunk
		if i := strings.LastIndex(date, pointDateKey); i >= 0 {
			date = date[i+len(pointDateKey):]
		}
		date = strings.SplitN(date, pointDateEnd, 2)[0]
		date = strings.ReplaceAll(date, `\x20`, " ")
		date = strings.TrimSpace(strings.ReplaceAll(date, `"`, ""))

		points = append(points, provider.MarketValuePoint{Date: date, Value: value})
	}
	return points
}
