package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/albapepper/scoracle-transfermarkt/internal/provider"
)

// ErrTooManyFailures aborts a run once more profiles failed than allowed.
var ErrTooManyFailures = errors.New("too many failed players")

const progressLogEvery = 25

// ProfileSource fetches single player profiles. The profile must be usable
// even when an error is returned.
type ProfileSource interface {
	Player(ctx context.Context, url string) (provider.PlayerProfile, error)
}

// PlayerSource also harvests the player links of a league season.
type PlayerSource interface {
	ProfileSource
	PlayerLinks(ctx context.Context, league, season string) ([]string, error)
}

// Options controls a batch run.
type Options struct {
	// Workers is the number of concurrent profile extractions (min 1).
	Workers int
	// MaxFailures aborts the run once more than this many profiles failed.
	// Zero or negative disables the threshold.
	MaxFailures int
	// Progress is called after every profile. Defaults to logging.
	Progress func(done, total int, url string)
}

// ScrapePlayers harvests every player link of a league season and scrapes
// each profile. Outcomes follow the harvested link order.
//
// Harvest errors (unknown league/season, list page failures) abort the run.
// A profile whose page cannot be fetched stays in the result as a degraded
// ID-only row.
func ScrapePlayers(ctx context.Context, src PlayerSource, league, season string, opts Options, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	logger.Info("Harvesting player links", "league", league, "season", season)
	links, err := src.PlayerLinks(ctx, league, season)
	if err != nil {
		result := Result{League: league, Season: season, Duration: time.Since(start)}
		result.AddErrorf("harvest player links: %v", err)
		return result, fmt.Errorf("harvest player links: %w", err)
	}
	logger.Info("Player links harvested", "league", league, "season", season, "count", len(links))

	result, err := ScrapeLinks(ctx, src, links, opts, logger)
	result.League = league
	result.Season = season
	result.Duration = time.Since(start)

	logger.Info("Season scrape complete", "summary", result.Summary())
	return result, err
}

// ScrapeLinks scrapes the given profile links with up to opts.Workers
// concurrent extractions.
func ScrapeLinks(ctx context.Context, src ProfileSource, links []string, opts Options, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Progress == nil {
		opts.Progress = logProgress(logger)
	}

	result := Result{Outcomes: make([]Outcome, len(links))}
	for i, link := range links {
		result.Outcomes[i] = Outcome{URL: link, Status: StatusSkipped, Reason: "not attempted"}
	}

	var mu sync.Mutex
	done, failures := 0, 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, link := range links {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			profile, err := src.Player(gctx, link)

			mu.Lock()
			defer mu.Unlock()

			if err != nil && gctx.Err() != nil {
				result.Outcomes[i].Reason = "aborted"
				return nil
			}

			out := Outcome{URL: link, Status: StatusOK, Profile: profile}
			if err != nil {
				out.Status = StatusDegraded
				out.Reason = err.Error()
				failures++
				result.AddErrorf("player %s: %v", link, err)
			}
			result.Outcomes[i] = out
			done++
			opts.Progress(done, len(links), link)

			if opts.MaxFailures > 0 && failures > opts.MaxFailures {
				return fmt.Errorf("%w: %d failed after %d of %d players", ErrTooManyFailures, failures, done, len(links))
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	result.Duration = time.Since(start)
	return result, err
}

func logProgress(logger *slog.Logger) func(done, total int, url string) {
	return func(done, total int, url string) {
		logger.Debug("Player scraped", "done", done, "total", total, "url", url)
		if done%progressLogEvery == 0 || done == total {
			logger.Info("Player progress", "done", done, "total", total)
		}
	}
}
