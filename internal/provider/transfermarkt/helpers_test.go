package transfermarkt

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-transfermarkt/internal/competition"
	"github.com/albapepper/scoracle-transfermarkt/internal/provider"
)

const testBase = "https://www.transfermarkt.us"

// fakeFetcher serves canned pages and records every request.
type fakeFetcher struct {
	mu     sync.Mutex
	pages  map[string]string
	status map[string]int
	calls  []string
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages, status: map[string]int{}}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)

	if code, ok := f.status[url]; ok {
		return nil, &provider.FetchError{URL: url, StatusCode: code}
	}
	page, ok := f.pages[url]
	if !ok {
		return nil, &provider.FetchError{URL: url, StatusCode: 404}
	}
	return []byte(page), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestScraper(f Fetcher, opts Options, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = discardLogger()
	}
	opts.BaseURL = testBase
	return NewScraper(f, competition.Default(testBase), opts, logger)
}

func mustDoc(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

// --------------------------------------------------------------------------
// Fixture pages
// --------------------------------------------------------------------------

const (
	eplRoot     = testBase + "/premier-league/startseite/wettbewerb/GB1"
	eplClubs    = eplRoot + "/plus/?saison_id=2023"
	eplFixtures = testBase + "/premier-league/gesamtspielplan/wettbewerb/GB1/saison_id/2023"

	arsenalURL = testBase + "/fc-arsenal/startseite/verein/11/saison_id/2023"
	chelseaURL = testBase + "/fc-chelsea/startseite/verein/631/saison_id/2023"
)

const seasonRootPage = `<html><body>
<form>
  <select name="saison_id" class="chzn-select">
    <option value="2023">2023/24</option>
    <option value="2022">2022/23</option>
  </select>
</form>
</body></html>`

const clubListPage = `<html><body>
<table class="items">
  <tbody>
    <tr>
      <td class="zentriert no-border-rechts"><a href="/fc-arsenal/startseite/verein/11/saison_id/2023"><img alt="Arsenal"></a></td>
      <td class="hauptlink no-border-links"><a href="/fc-arsenal/startseite/verein/11/saison_id/2023">Arsenal FC</a></td>
    </tr>
    <tr>
      <td class="links no-border-links hauptlink"><a href="/fc-chelsea/startseite/verein/631/saison_id/2023">Chelsea FC</a></td>
    </tr>
    <tr>
      <td class="hauptlink no-border-links">Relegated club without link</td>
    </tr>
  </tbody>
</table>
</body></html>`

const arsenalRosterPage = `<html><body>
<table class="items">
  <tr><td class="hauptlink"><a href="/bukayo-saka/profil/spieler/433177">Bukayo Saka</a></td></tr>
  <tr><td class="hauptlink"><a href="/martin-odegaard/profil/spieler/316264">Martin Ødegaard</a></td></tr>
  <tr><td class="hauptlink">€120.00m</td></tr>
</table>
</body></html>`

const chelseaRosterPage = `<html><body>
<table class="items">
  <tr><td class="hauptlink"><a href="/cole-palmer/profil/spieler/568177">Cole Palmer</a></td></tr>
  <tr><td class="hauptlink"><a href="/bukayo-saka/profil/spieler/433177">Bukayo Saka</a></td></tr>
</table>
</body></html>`

const fixturesPage = `<html><body>
<table>
  <tr><td><a class="ergebnis-link" href="/spielbericht/index/spielbericht/4095452">2:1</a></td></tr>
  <tr><td><a class="ergebnis-link" href="/spielbericht/index/spielbericht/4095453">0:0</a></td></tr>
  <tr><td><a class="other-link" href="/spielbericht/index/spielbericht/1">x</a></td></tr>
</table>
</body></html>`

func seasonPages() map[string]string {
	return map[string]string{
		eplRoot:     seasonRootPage,
		eplClubs:    clubListPage,
		eplFixtures: fixturesPage,
		arsenalURL:  arsenalRosterPage,
		chelseaURL:  chelseaRosterPage,
	}
}
