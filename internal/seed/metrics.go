package seed

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteMetrics writes the outcome counts of a season scrape to path in the
// Prometheus text format, for pickup by a node_exporter textfile collector.
func WriteMetrics(path string, result Result) error {
	reg := prometheus.NewRegistry()

	players := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "transfermarkt_scrape_players",
			Help: "Player links of the last season scrape by outcome",
		},
		[]string{"league", "season", "status"},
	)
	errorsTotal := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "transfermarkt_scrape_errors",
			Help: "Errors recorded by the last season scrape",
		},
		[]string{"league", "season"},
	)
	duration := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "transfermarkt_scrape_duration_seconds",
			Help: "Wall time of the last season scrape",
		},
		[]string{"league", "season"},
	)
	reg.MustRegister(players, errorsTotal, duration)

	for _, status := range []Status{StatusOK, StatusDegraded, StatusSkipped} {
		players.WithLabelValues(result.League, result.Season, string(status)).Set(float64(result.Count(status)))
	}
	errorsTotal.WithLabelValues(result.League, result.Season).Set(float64(len(result.Errors)))
	duration.WithLabelValues(result.League, result.Season).Set(result.Duration.Seconds())

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
