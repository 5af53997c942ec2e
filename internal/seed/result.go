// Package seed drives a full season scrape: player link harvesting,
// per-player profile extraction and optional upserts into Postgres.
package seed

import (
	"fmt"
	"time"

	"github.com/albapepper/scoracle-transfermarkt/internal/provider"
)

// Status tags the outcome of one player link.
type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded" // page unavailable, ID-only profile kept
	StatusSkipped  Status = "skipped"  // never attempted, run was aborted
)

// Outcome is the result of scraping one player link.
type Outcome struct {
	URL     string
	Status  Status
	Reason  string
	Profile provider.PlayerProfile
}

// Result tracks the outcomes and errors of a season scrape.
type Result struct {
	League   string
	Season   string
	Outcomes []Outcome
	Errors   []string
	Duration time.Duration
}

// Profiles returns the profile of every attempted link in link order,
// degraded ones included.
func (r *Result) Profiles() []provider.PlayerProfile {
	profiles := make([]provider.PlayerProfile, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.Status == StatusSkipped {
			continue
		}
		profiles = append(profiles, o.Profile)
	}
	return profiles
}

// Count returns the number of outcomes with the given status.
func (r *Result) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the scrape.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"league=%q season=%s players=%d ok=%d degraded=%d skipped=%d errors=%d dur=%s",
		r.League, r.Season, len(r.Outcomes),
		r.Count(StatusOK), r.Count(StatusDegraded), r.Count(StatusSkipped),
		len(r.Errors), r.Duration.Round(time.Second),
	)
}
