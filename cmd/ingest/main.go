// Command ingest is the Transfermarkt scraping CLI.
//
// Usage:
//
//	tm-ingest competitions
//	tm-ingest seasons --league EPL
//	tm-ingest clubs --league EPL --season 23/24
//	tm-ingest players --league EPL --season 23/24 --format csv
//	tm-ingest matches --league EPL --season 23/24
//	tm-ingest player https://www.transfermarkt.us/bukayo-saka/profil/spieler/433177
//	tm-ingest scrape --league EPL --season 23/24 --workers 4 --db --metrics-file /var/lib/node_exporter/tm.prom
//	tm-ingest db check
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/scoracle-transfermarkt/internal/competition"
	"github.com/albapepper/scoracle-transfermarkt/internal/config"
	"github.com/albapepper/scoracle-transfermarkt/internal/db"
	"github.com/albapepper/scoracle-transfermarkt/internal/export"
	"github.com/albapepper/scoracle-transfermarkt/internal/provider/transfermarkt"
	"github.com/albapepper/scoracle-transfermarkt/internal/seed"
)

// Logs go to stderr so stdout carries only rendered output.
var (
	logLevel = new(slog.LevelVar)
	logger   = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
)

var outputFormat string

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "tm-ingest",
		Short:        "Transfermarkt competition, club, match and player scraper",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&outputFormat, "format", string(export.FormatTable),
		"Output format ("+strings.Join(export.Formats, ", ")+")")

	root.AddCommand(competitionsCmd())
	root.AddCommand(seasonsCmd())
	root.AddCommand(linksCmd("clubs", "Club", "List club pages of a league season",
		(*transfermarkt.Scraper).ClubLinks))
	root.AddCommand(linksCmd("players", "Player", "List distinct player pages of a league season",
		(*transfermarkt.Scraper).PlayerLinks))
	root.AddCommand(linksCmd("matches", "Match", "List match report pages of a league season",
		(*transfermarkt.Scraper).MatchLinks))
	root.AddCommand(playerCmd())
	root.AddCommand(scrapeCmd())
	root.AddCommand(dbCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// Registry and season commands
// --------------------------------------------------------------------------

func competitionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "competitions",
		Short: "List supported competitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(outputFormat)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return export.Competitions(cmd.OutOrStdout(), format, competition.Default(cfg.BaseURL).All())
		},
	}
}

func seasonsCmd() *cobra.Command {
	var league string
	cmd := &cobra.Command{
		Use:   "seasons",
		Short: "List the selectable seasons of a competition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, func(ctx context.Context, cfg *config.Config, s *transfermarkt.Scraper, format export.Format) error {
				seasons, err := s.SeasonList(ctx, league)
				if err != nil {
					return err
				}
				logger.Info("Seasons resolved", "league", league, "count", len(seasons))
				return export.Seasons(cmd.OutOrStdout(), format, seasons)
			})
		},
	}
	cmd.Flags().StringVar(&league, "league", "", "Competition name (see `competitions`)")
	_ = cmd.MarkFlagRequired("league")
	return cmd
}

// --------------------------------------------------------------------------
// Link harvesting commands
// --------------------------------------------------------------------------

type harvestFunc func(s *transfermarkt.Scraper, ctx context.Context, league, season string) ([]string, error)

func linksCmd(use, header, short string, harvest harvestFunc) *cobra.Command {
	var league, season string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, func(ctx context.Context, cfg *config.Config, s *transfermarkt.Scraper, format export.Format) error {
				start := time.Now()
				links, err := harvest(s, ctx, league, season)
				if err != nil {
					return err
				}
				logger.Info("Links harvested",
					"kind", use, "league", league, "season", season,
					"count", len(links), "duration", time.Since(start).Round(time.Second))
				return export.Links(cmd.OutOrStdout(), format, header, links)
			})
		},
	}
	cmd.Flags().StringVar(&league, "league", "", "Competition name (see `competitions`)")
	cmd.Flags().StringVar(&season, "season", "", "Season label, e.g. 23/24 (see `seasons`)")
	_ = cmd.MarkFlagRequired("league")
	_ = cmd.MarkFlagRequired("season")
	if use == "players" {
		cmd.Flags().Bool("skip-failed-clubs", false, "Skip clubs whose roster page cannot be fetched")
	}
	return cmd
}

// --------------------------------------------------------------------------
// Profile commands
// --------------------------------------------------------------------------

func playerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player URL...",
		Short: "Extract player profiles from profile URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, func(ctx context.Context, cfg *config.Config, s *transfermarkt.Scraper, format export.Format) error {
				result, err := seed.ScrapeLinks(ctx, s, args, seed.Options{Workers: cfg.Workers}, logger)
				if renderErr := export.Profiles(cmd.OutOrStdout(), format, result.Profiles()); renderErr != nil {
					return renderErr
				}
				if err != nil {
					return err
				}
				if n := result.Count(seed.StatusDegraded); n > 0 {
					return fmt.Errorf("%d of %d profiles degraded", n, len(args))
				}
				return nil
			})
		},
	}
	cmd.Flags().Int("workers", 1, "Concurrent profile extractions")
	cmd.Flags().Bool("no-history", false, "Skip market value history extraction")
	return cmd
}

func scrapeCmd() *cobra.Command {
	var (
		league, season string
		metricsFile    string
		toDB           bool
	)
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape every player profile of a league season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, func(ctx context.Context, cfg *config.Config, s *transfermarkt.Scraper, format export.Format) error {
				var pool *db.Pool
				if toDB {
					p, err := db.New(ctx, cfg)
					if err != nil {
						return fmt.Errorf("connect to database: %w", err)
					}
					defer p.Close()
					pool = p
				}

				opts := seed.Options{Workers: cfg.Workers, MaxFailures: cfg.MaxFailures}
				result, scrapeErr := seed.ScrapePlayers(ctx, s, league, season, opts, logger)
				for _, e := range result.Errors {
					logger.Error("scrape error", "error", e)
				}
				if metricsFile != "" {
					if err := seed.WriteMetrics(metricsFile, result); err != nil {
						logger.Error("metrics not written", "error", err)
					}
				}
				if len(result.Outcomes) == 0 && scrapeErr != nil {
					return scrapeErr
				}

				if err := export.Profiles(cmd.OutOrStdout(), format, result.Profiles()); err != nil {
					return err
				}
				if pool != nil {
					n, err := seed.UpsertResult(ctx, pool.Pool, result, logger)
					if err != nil {
						return errors.Join(scrapeErr, fmt.Errorf("upsert: %w", err))
					}
					logger.Info("Scrape stored", "rows", n, "table", config.PlayersTable)
				}
				return scrapeErr
			})
		},
	}
	cmd.Flags().StringVar(&league, "league", "", "Competition name (see `competitions`)")
	cmd.Flags().StringVar(&season, "season", "", "Season label, e.g. 23/24 (see `seasons`)")
	cmd.Flags().Int("workers", 1, "Concurrent profile extractions")
	cmd.Flags().Int("max-failures", 0, "Abort once more than this many profiles failed (0 = unlimited)")
	cmd.Flags().Bool("skip-failed-clubs", false, "Skip clubs whose roster page cannot be fetched")
	cmd.Flags().Bool("no-history", false, "Skip market value history extraction")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus textfile metrics of the run to this path")
	cmd.Flags().BoolVar(&toDB, "db", false, "Upsert profiles into Postgres (requires DATABASE_URL)")
	_ = cmd.MarkFlagRequired("league")
	_ = cmd.MarkFlagRequired("season")
	return cmd
}

// --------------------------------------------------------------------------
// db command
// --------------------------------------------------------------------------

func dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Create the players table if needed and verify connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			pool, err := db.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			if err := pool.HealthCheck(ctx); err != nil {
				return fmt.Errorf("health check: %w", err)
			}
			logger.Info("Database ready", "table", config.PlayersTable)
			return nil
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

type scrapeFunc func(ctx context.Context, cfg *config.Config, s *transfermarkt.Scraper, format export.Format) error

// runScrape handles config loading, client lifetime and context cancellation.
func runScrape(cmd *cobra.Command, fn scrapeFunc) error {
	format, err := export.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client := transfermarkt.NewClient(transfermarkt.ClientOptions{
		UserAgent:         cfg.UserAgent,
		RequestsPerMinute: cfg.RequestsPerMinute,
		Timeout:           cfg.HTTPTimeout,
	}, logger)
	defer client.Close()

	opts := transfermarkt.Options{
		BaseURL:         cfg.BaseURL,
		SkipFailedClubs: cfg.SkipFailedClubs,
	}
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		opts.History = transfermarkt.NoHistory{}
	}
	scraper := transfermarkt.NewScraper(client, competition.Default(cfg.BaseURL), opts, logger)

	return fn(ctx, cfg, scraper, format)
}

// loadConfig reads the environment, applies flags the command set
// explicitly and configures the log level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
		if cfg.Workers < 1 {
			return nil, fmt.Errorf("--workers must be at least 1, got %d", cfg.Workers)
		}
	}
	if flags.Changed("max-failures") {
		cfg.MaxFailures, _ = flags.GetInt("max-failures")
	}
	if flags.Changed("skip-failed-clubs") {
		cfg.SkipFailedClubs, _ = flags.GetBool("skip-failed-clubs")
	}

	logLevel.Set(parseLevel(cfg.LogLevel))
	if cfg.Debug {
		logLevel.Set(slog.LevelDebug)
	}
	return cfg, nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
