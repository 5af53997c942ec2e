// Package db provides a pgxpool-based connection pool with schema bootstrap
// and prepared statement registration for the scraped player table.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-transfermarkt/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool and ensures the schema.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// The table must exist before statements referencing it can be prepared.
	if err := ensureSchema(ctx, poolCfg.ConnConfig); err != nil {
		return nil, err
	}

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = Prepare

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

func ensureSchema(ctx context.Context, connCfg *pgx.ConnConfig) error {
	conn, err := pgx.ConnectConfig(ctx, connCfg.Copy())
	if err != nil {
		return fmt.Errorf("connect for schema: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "SELECT 1").Scan(&n)
}

// Schema creates the scraped player table.
const Schema = `
CREATE TABLE IF NOT EXISTS ` + config.PlayersTable + ` (
	id                   TEXT        NOT NULL,
	league               TEXT        NOT NULL,
	season               TEXT        NOT NULL,
	url                  TEXT        NOT NULL,
	name                 TEXT,
	shirt_number         INTEGER,
	market_value         TEXT,
	market_value_updated TEXT,
	date_of_birth        TEXT,
	age                  INTEGER,
	height_m             DOUBLE PRECISION,
	nationality          TEXT,
	citizenships         JSONB       NOT NULL DEFAULT '[]',
	position             TEXT,
	other_positions      JSONB,
	current_team         TEXT,
	last_club            TEXT,
	since_date           TEXT,
	joined_date          TEXT,
	contract_expiration  TEXT,
	market_value_history JSONB,
	transfer_history     JSONB,
	scrape_status        TEXT        NOT NULL,
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (id, league, season)
)`

// Prepare registers the statements used by the seed layer on conn.
func Prepare(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		"upsert_player_profile":  upsertPlayerProfileSQL,
		"upsert_player_degraded": upsertPlayerDegradedSQL,
	}
	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}

const upsertPlayerProfileSQL = `
INSERT INTO ` + config.PlayersTable + ` (
	id, league, season, url, name, shirt_number, market_value,
	market_value_updated, date_of_birth, age, height_m, nationality,
	citizenships, position, other_positions, current_team, last_club,
	since_date, joined_date, contract_expiration, market_value_history,
	transfer_history, scrape_status
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
ON CONFLICT (id, league, season) DO UPDATE SET
	url = EXCLUDED.url,
	name = COALESCE(EXCLUDED.name, ` + config.PlayersTable + `.name),
	shirt_number = EXCLUDED.shirt_number,
	market_value = COALESCE(EXCLUDED.market_value, ` + config.PlayersTable + `.market_value),
	market_value_updated = COALESCE(EXCLUDED.market_value_updated, ` + config.PlayersTable + `.market_value_updated),
	date_of_birth = COALESCE(EXCLUDED.date_of_birth, ` + config.PlayersTable + `.date_of_birth),
	age = COALESCE(EXCLUDED.age, ` + config.PlayersTable + `.age),
	height_m = COALESCE(EXCLUDED.height_m, ` + config.PlayersTable + `.height_m),
	nationality = COALESCE(EXCLUDED.nationality, ` + config.PlayersTable + `.nationality),
	citizenships = EXCLUDED.citizenships,
	position = COALESCE(EXCLUDED.position, ` + config.PlayersTable + `.position),
	other_positions = EXCLUDED.other_positions,
	current_team = EXCLUDED.current_team,
	last_club = EXCLUDED.last_club,
	since_date = EXCLUDED.since_date,
	joined_date = EXCLUDED.joined_date,
	contract_expiration = EXCLUDED.contract_expiration,
	market_value_history = COALESCE(EXCLUDED.market_value_history, ` + config.PlayersTable + `.market_value_history),
	transfer_history = COALESCE(EXCLUDED.transfer_history, ` + config.PlayersTable + `.transfer_history),
	scrape_status = EXCLUDED.scrape_status,
	updated_at = NOW()`

// A degraded scrape carries no page data, so an existing row keeps every
// field and only records the status.
const upsertPlayerDegradedSQL = `
INSERT INTO ` + config.PlayersTable + ` (id, league, season, url, scrape_status)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id, league, season) DO UPDATE SET
	scrape_status = EXCLUDED.scrape_status,
	updated_at = NOW()`
