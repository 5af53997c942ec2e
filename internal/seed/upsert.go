package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UpsertResult writes every attempted outcome of a season scrape to the
// players table in one batch. Skipped outcomes are not written; degraded
// ones leave an existing row's data untouched.
func UpsertResult(ctx context.Context, pool *pgxpool.Pool, result Result, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	batch := &pgx.Batch{}
	for _, o := range result.Outcomes {
		if o.Status == StatusSkipped {
			continue
		}
		stmt, args, err := upsertStatement(result.League, result.Season, o)
		if err != nil {
			return 0, fmt.Errorf("encode player %s: %w", o.Profile.ID, err)
		}
		batch.Queue(stmt, args...)
	}
	if batch.Len() == 0 {
		return 0, nil
	}

	br := pool.SendBatch(ctx, batch)
	defer br.Close()

	n := 0
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return n, fmt.Errorf("upsert player %d/%d: %w", i+1, batch.Len(), err)
		}
		n++
	}
	logger.Info("Players upserted", "league", result.League, "season", result.Season, "count", n)
	return n, nil
}

// upsertStatement picks the prepared statement for an outcome. Degraded
// outcomes only record their status so stored page data survives a failed
// fetch.
func upsertStatement(league, season string, o Outcome) (string, []any, error) {
	if o.Status == StatusDegraded {
		return "upsert_player_degraded", []any{o.Profile.ID, league, season, o.URL, string(o.Status)}, nil
	}
	args, err := profileArgs(league, season, o)
	return "upsert_player_profile", args, err
}

// profileArgs returns the positional arguments of upsert_player_profile.
func profileArgs(league, season string, o Outcome) ([]any, error) {
	p := o.Profile

	citizenships, err := json.Marshal(nonNilSlice(p.Citizenships))
	if err != nil {
		return nil, err
	}
	otherPositions, err := jsonOrNil(p.OtherPositions, len(p.OtherPositions))
	if err != nil {
		return nil, err
	}
	history, err := jsonOrNil(p.MarketValueHistory, len(p.MarketValueHistory))
	if err != nil {
		return nil, err
	}
	transfers, err := jsonOrNil(p.TransferHistory, len(p.TransferHistory))
	if err != nil {
		return nil, err
	}

	return []any{
		p.ID, league, season, o.URL,
		p.Name, p.ShirtNumber, p.MarketValue, p.MarketValueUpdated,
		p.DateOfBirth, p.Age, p.HeightMeters, p.Nationality,
		citizenships, p.Position, otherPositions, p.CurrentTeam,
		p.LastClub, p.SinceDate, p.JoinedDate, p.ContractExpiration,
		history, transfers, string(o.Status),
	}, nil
}

// jsonOrNil marshals v, or returns nil (SQL NULL) when it has no elements.
func jsonOrNil(v any, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	return json.Marshal(v)
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
