// Package competition holds the fixed table of supported competitions and
// their Transfermarkt root pages.
package competition

import (
	"slices"
	"strings"

	"github.com/albapepper/scoracle-transfermarkt/internal/provider"
)

// Competition is one league or cup tracked by the site.
type Competition struct {
	Name    string
	RootURL string
}

// Code returns the competition short code from the root URL ("GB1").
func (c Competition) Code() string {
	return provider.ProfileID(c.RootURL)
}

// Registry is an immutable name → competition lookup.
type Registry struct {
	byName map[string]Competition
	names  []string
}

// NewRegistry builds a registry rooted at base (no trailing slash).
// Paths are relative to the site root.
func NewRegistry(base string, paths map[string]string) *Registry {
	base = strings.TrimRight(base, "/")
	r := &Registry{byName: make(map[string]Competition, len(paths))}
	for name, path := range paths {
		r.byName[name] = Competition{Name: name, RootURL: base + path}
		r.names = append(r.names, name)
	}
	slices.Sort(r.names)
	return r
}

// Default returns the registry of all built-in competitions.
func Default(base string) *Registry {
	return NewRegistry(base, competitionPaths)
}

// Resolve returns the competition registered under name.
func (r *Registry) Resolve(name string) (Competition, error) {
	c, ok := r.byName[name]
	if !ok {
		return Competition{}, &provider.InvalidInputError{
			Err:   provider.ErrUnknownCompetition,
			Value: name,
			Valid: r.Names(),
		}
	}
	return c, nil
}

// Names returns every registered key, sorted.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// All returns every competition sorted by name.
func (r *Registry) All() []Competition {
	out := make([]Competition, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.byName[name])
	}
	return out
}

// --------------------------------------------------------------------------
// Built-in competitions
// --------------------------------------------------------------------------

var competitionPaths = map[string]string{
	"EPL":                                   "/premier-league/startseite/wettbewerb/GB1",
	"EFL Championship":                      "/championship/startseite/wettbewerb/GB2",
	"EFL1":                                  "/league-one/startseite/wettbewerb/GB3",
	"EFL2":                                  "/league-two/startseite/wettbewerb/GB4",
	"Bundesliga":                            "/bundesliga/startseite/wettbewerb/L1",
	"2.Bundesliga":                          "/2-bundesliga/startseite/wettbewerb/L2",
	"Serie A":                               "/serie-a/startseite/wettbewerb/IT1",
	"Serie B":                               "/serie-b/startseite/wettbewerb/IT2",
	"La Liga":                               "/laliga/startseite/wettbewerb/ES1",
	"La Liga 2":                             "/laliga2/startseite/wettbewerb/ES2",
	"Ligue 1":                               "/ligue-1/startseite/wettbewerb/FR1",
	"Ligue 2":                               "/ligue-2/startseite/wettbewerb/FR2",
	"Eredivisie":                            "/eredivisie/startseite/wettbewerb/NL1",
	"Scottish PL":                           "/scottish-premiership/startseite/wettbewerb/SC1",
	"Super Lig":                             "/super-lig/startseite/wettbewerb/TR1",
	"Jupiler Pro League":                    "/jupiler-pro-league/startseite/wettbewerb/BE1",
	"Liga Nos":                              "/liga-nos/startseite/wettbewerb/PO1",
	"Russian Premier League":                "/premier-liga/startseite/wettbewerb/RU1",
	"Brasileirao":                           "/campeonato-brasileiro-serie-a/startseite/wettbewerb/BRA1",
	"Argentina Liga Profesional":            "/superliga/startseite/wettbewerb/AR1N",
	"MLS":                                   "/major-league-soccer/startseite/wettbewerb/MLS1",
	"Turkish Super Lig":                     "/super-lig/startseite/wettbewerb/TR1",
	"Primavera 1":                           "/primavera-1/startseite/wettbewerb/IJ1",
	"Primavera 2 - A":                       "/primavera-2a/startseite/wettbewerb/IJ2A",
	"Primavera 2 - B":                       "/primavera-2b/startseite/wettbewerb/IJ2B",
	"Campionato U18":                        "/campionato-nazionale-under-18/startseite/wettbewerb/ITJ7",
	"Argentina Torneo Apertura":             "/torneo-apertura/startseite/wettbewerb/ARG1",
	"Colombia Liga Apertura":                "/liga-dimayor-apertura/startseite/wettbewerb/COLP",
	"Chile Liga de Primera":                 "/liga-de-primera/startseite/wettbewerb/CLPD",
	"Ecuador Liga Pro Serie A":              "/ligapro-serie-a/startseite/wettbewerb/EC1N",
	"Uruguay Liga Apertura":                 "/liga-auf-apertura/startseite/wettbewerb/URU1",
	"Peru Liga 1 Apertura":                  "/liga-1-apertura/startseite/wettbewerb/TDeA",
	"Paraguay Primera Divison Apertura":     "/primera-division-apertura/startseite/wettbewerb/PR1A",
	"Bolivia Division Profesional Apertura": "/division-profesional-apertura/startseite/wettbewerb/B1AP",
	"Venezuela Liga Apertura":               "/liga-futve-apertura/startseite/wettbewerb/VZ1A",
	"Copa Libertadores":                     "/copa-libertadores/teilnehmer/pokalwettbewerb/CLI",
}
