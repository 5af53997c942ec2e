// Package provider defines canonical data types that the scrapers normalize
// into. These structs are the contract between the HTML parsers and the
// batch runner / exporters. Parsers output these; exporters and the
// Postgres sink consume them.
//
// Every optional field is a pointer or a nil slice: nil means the page did
// not carry the value or it could not be coerced.
package provider

// Season is one selectable season of a competition.
type Season struct {
	Label string `json:"label"` // e.g. "23/24"
	Code  string `json:"code"`  // saison_id, e.g. "2023"
}

// LinkKind tags harvested URLs.
type LinkKind string

const (
	LinkClub   LinkKind = "club"
	LinkPlayer LinkKind = "player"
	LinkMatch  LinkKind = "match"
)

// MarketValuePoint is one point of a player's market value chart.
type MarketValuePoint struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
}

// Transfer is one row of a player's transfer history.
type Transfer struct {
	Season      string `json:"season"`
	Date        string `json:"date"`
	Left        string `json:"left"`
	Joined      string `json:"joined"`
	MarketValue string `json:"market_value"`
	Fee         string `json:"fee"`
}

// PlayerProfile is the canonical player record built from a profile page.
// ID is always set; it is derived from the profile URL.
type PlayerProfile struct {
	Name               *string            `json:"name,omitempty"`
	ShirtNumber        *int               `json:"shirt_number,omitempty"`
	ID                 string             `json:"id"`
	MarketValue        *string            `json:"market_value,omitempty"`
	MarketValueUpdated *string            `json:"market_value_updated,omitempty"`
	DateOfBirth        *string            `json:"date_of_birth,omitempty"`
	Age                *int               `json:"age,omitempty"`
	HeightMeters       *float64           `json:"height_m,omitempty"`
	Nationality        *string            `json:"nationality,omitempty"`
	Citizenships       []string           `json:"citizenships"`
	Position           *string            `json:"position,omitempty"`
	OtherPositions     []string           `json:"other_positions,omitempty"`
	CurrentTeam        *string            `json:"current_team,omitempty"`
	LastClub           *string            `json:"last_club,omitempty"`
	SinceDate          *string            `json:"since,omitempty"`
	JoinedDate         *string            `json:"joined,omitempty"`
	ContractExpiration *string            `json:"contract_expiration,omitempty"`
	MarketValueHistory []MarketValuePoint `json:"market_value_history,omitempty"`
	TransferHistory    []Transfer         `json:"transfer_history,omitempty"`
}
