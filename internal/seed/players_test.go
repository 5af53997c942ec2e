package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-transfermarkt/internal/provider"
)

type fakeSource struct {
	links    []string
	linkErr  error
	failing  map[string]bool
	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32

	mu    sync.Mutex
	calls []string
}

func (f *fakeSource) PlayerLinks(context.Context, string, string) ([]string, error) {
	return f.links, f.linkErr
}

func (f *fakeSource) Player(ctx context.Context, url string) (provider.PlayerProfile, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.failing[url] {
		return provider.NewProfile(url), &provider.FetchError{URL: url, StatusCode: 500}
	}
	p := provider.NewProfile(url)
	name := "Player " + p.ID
	p.Name = &name
	return p, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func playerURLs(n int) []string {
	links := make([]string, n)
	for i := range links {
		links[i] = fmt.Sprintf("https://www.transfermarkt.us/p%d/profil/spieler/%d", i, 1000+i)
	}
	return links
}

func TestScrapePlayersKeepsOrderAndDegradedRows(t *testing.T) {
	links := playerURLs(6)
	src := &fakeSource{links: links, failing: map[string]bool{links[2]: true}}

	var progress, totals []int
	opts := Options{Workers: 3, Progress: func(done, total int, _ string) {
		progress = append(progress, done)
		totals = append(totals, total)
	}}

	result, err := ScrapePlayers(context.Background(), src, "EPL", "2023/24", opts, quietLogger())
	require.NoError(t, err)
	require.Equal(t, "EPL", result.League)
	require.Equal(t, "2023/24", result.Season)
	require.Len(t, result.Outcomes, len(links))

	for i, o := range result.Outcomes {
		require.Equal(t, links[i], o.URL)
		require.Equal(t, provider.ProfileID(links[i]), o.Profile.ID)
	}
	require.Equal(t, StatusDegraded, result.Outcomes[2].Status)
	require.Nil(t, result.Outcomes[2].Profile.Name)
	require.Contains(t, result.Outcomes[2].Reason, "status 500")
	require.Equal(t, 5, result.Count(StatusOK))
	require.Len(t, result.Profiles(), len(links))
	require.Len(t, result.Errors, 1)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, progress)
	require.Equal(t, []int{6, 6, 6, 6, 6, 6}, totals)
	require.Contains(t, result.Summary(), "ok=5 degraded=1 skipped=0")
}

func TestScrapePlayersHarvestFailure(t *testing.T) {
	harvestErr := &provider.FetchError{URL: "https://www.transfermarkt.us/root", StatusCode: 503}
	src := &fakeSource{linkErr: harvestErr}

	result, err := ScrapePlayers(context.Background(), src, "EPL", "2023/24", Options{}, quietLogger())
	require.Error(t, err)
	require.True(t, errors.Is(err, provider.ErrFetch))
	require.Empty(t, result.Outcomes)
	require.Len(t, result.Errors, 1)
	require.Empty(t, src.calls)
}

func TestScrapeLinksFailureThreshold(t *testing.T) {
	links := playerURLs(10)
	failing := map[string]bool{}
	for _, l := range links {
		failing[l] = true
	}
	src := &fakeSource{failing: failing}

	result, err := ScrapeLinks(context.Background(), src, links, Options{Workers: 1, MaxFailures: 2}, quietLogger())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTooManyFailures))
	require.Equal(t, 3, result.Count(StatusDegraded))
	require.Equal(t, 7, result.Count(StatusSkipped))
	require.Len(t, result.Profiles(), 3)
	require.Len(t, src.calls, 3)
}

func TestScrapeLinksThresholdDisabled(t *testing.T) {
	links := playerURLs(4)
	src := &fakeSource{failing: map[string]bool{links[0]: true, links[1]: true, links[3]: true}}

	result, err := ScrapeLinks(context.Background(), src, links, Options{Workers: 2, MaxFailures: -1}, quietLogger())
	require.NoError(t, err)
	require.Equal(t, 3, result.Count(StatusDegraded))
	require.Equal(t, 1, result.Count(StatusOK))
}

func TestScrapePlayersZeroOptionsKeepsGoing(t *testing.T) {
	links := playerURLs(4)
	src := &fakeSource{links: links, failing: map[string]bool{links[0]: true}}

	result, err := ScrapePlayers(context.Background(), src, "EPL", "23/24", Options{}, quietLogger())
	require.NoError(t, err)
	require.Equal(t, 1, result.Count(StatusDegraded))
	require.Equal(t, 3, result.Count(StatusOK))
	require.Zero(t, result.Count(StatusSkipped))
	require.Len(t, result.Profiles(), len(links))
	require.Equal(t, provider.ProfileID(links[0]), result.Profiles()[0].ID)
}

func TestScrapeLinksRespectsWorkerLimit(t *testing.T) {
	links := playerURLs(12)
	src := &fakeSource{delay: 10 * time.Millisecond}

	result, err := ScrapeLinks(context.Background(), src, links, Options{Workers: 3}, quietLogger())
	require.NoError(t, err)
	require.Equal(t, len(links), result.Count(StatusOK))
	require.LessOrEqual(t, src.maxSeen.Load(), int32(3))
}

func TestScrapeLinksCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := ScrapeLinks(ctx, &fakeSource{}, playerURLs(3), Options{}, quietLogger())
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 3, result.Count(StatusSkipped))
}

func TestScrapeLinksDefaultProgressLogs(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	_, err := ScrapeLinks(context.Background(), &fakeSource{}, playerURLs(2), Options{}, logger)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "Player progress")
}

func TestProfileArgs(t *testing.T) {
	p := provider.NewProfile("https://www.transfermarkt.us/x/profil/spieler/42")
	name := "X"
	p.Name = &name
	p.TransferHistory = []provider.Transfer{{Season: "23/24", Fee: "free transfer"}}

	args, err := profileArgs("EPL", "2023/24", Outcome{URL: "u", Status: StatusOK, Profile: p})
	require.NoError(t, err)
	require.Len(t, args, 23)
	require.Equal(t, "42", args[0])
	require.Equal(t, &name, args[4])
	require.JSONEq(t, `[]`, string(args[12].([]byte)))
	require.Nil(t, args[14])
	require.Nil(t, args[20])

	var transfers []provider.Transfer
	require.NoError(t, json.Unmarshal(args[21].([]byte), &transfers))
	require.Equal(t, p.TransferHistory, transfers)
	require.Equal(t, "ok", args[22])
}

func TestUpsertStatementDegradedKeepsStoredData(t *testing.T) {
	url := "https://www.transfermarkt.us/x/profil/spieler/42"
	out := Outcome{URL: url, Status: StatusDegraded, Reason: "status 403", Profile: provider.NewProfile(url)}

	stmt, args, err := upsertStatement("EPL", "23/24", out)
	require.NoError(t, err)
	require.Equal(t, "upsert_player_degraded", stmt)
	require.Equal(t, []any{"42", "EPL", "23/24", url, "degraded"}, args)

	out.Status = StatusOK
	stmt, args, err = upsertStatement("EPL", "23/24", out)
	require.NoError(t, err)
	require.Equal(t, "upsert_player_profile", stmt)
	require.Len(t, args, 23)
}
