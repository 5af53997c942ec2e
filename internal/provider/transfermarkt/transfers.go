package transfermarkt

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/albapepper/scoracle-transfermarkt/internal/provider"
)

const (
	transferRow     = "div.grid.tm-player-transfer-history-grid:not(.tm-player-transfer-history-grid--heading)"
	transferColumns = 6
)

// parseTransfers reads the transfer history grid. Rows that do not split
// into exactly six text cells are logged and skipped; nil means no row
// could be read.
func parseTransfers(doc *goquery.Document, profileURL string, logger *slog.Logger) []provider.Transfer {
	var transfers []provider.Transfer
	doc.Find(transferRow).Each(func(i int, row *goquery.Selection) {
		cells := textLines(row)
		if len(cells) != transferColumns {
			logger.Warn("Skipping malformed transfer row",
				"url", profileURL, "row", i, "cells", len(cells), "text", strings.Join(cells, " | "))
			return
		}
		transfers = append(transfers, provider.Transfer{
			Season:      cells[0],
			Date:        cells[1],
			Left:        cells[2],
			Joined:      cells[3],
			MarketValue: cells[4],
			Fee:         cells[5],
		})
	})
	return transfers
}

// textLines returns every non-blank line of the selection's text nodes,
// trimmed, in document order.
func textLines(sel *goquery.Selection) []string {
	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			for _, line := range strings.Split(n.Data, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					lines = append(lines, line)
				}
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return lines
}
