// Package export renders scraped profiles and harvested links for the CLI.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/albapepper/scoracle-transfermarkt/internal/competition"
	"github.com/albapepper/scoracle-transfermarkt/internal/provider"
)

// Format selects an output rendering.
type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists every accepted format name.
var Formats = []string{string(FormatTable), string(FormatCSV), string(FormatMarkdown), string(FormatJSON)}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatTable, FormatCSV, FormatMarkdown, FormatJSON:
		return f, nil
	}
	return "", &provider.InvalidInputError{Err: provider.ErrInvalidInput, Value: name, Valid: Formats}
}

// ProfileColumns is the column order of a profile table.
var ProfileColumns = table.Row{
	"Name", "Shirt number", "ID", "Value", "Value last updated",
	"DOB", "Age", "Height (m)", "Nationality", "Citizenship",
	"Position", "Other positions", "Team", "Last club", "Since",
	"Joined", "Contract expiration", "Market value history", "Transfer history",
}

// Profiles writes one row per profile. Absent values render as empty cells.
func Profiles(w io.Writer, format Format, profiles []provider.PlayerProfile) error {
	if format == FormatJSON {
		if profiles == nil {
			profiles = []provider.PlayerProfile{}
		}
		return writeJSON(w, profiles)
	}

	rows := make([]table.Row, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, profileRow(p))
	}
	return render(w, format, ProfileColumns, rows)
}

// Links writes a single column of URLs under the given header.
func Links(w io.Writer, format Format, header string, links []string) error {
	if format == FormatJSON {
		if links == nil {
			links = []string{}
		}
		return writeJSON(w, links)
	}

	rows := make([]table.Row, 0, len(links))
	for _, l := range links {
		rows = append(rows, table.Row{l})
	}
	return render(w, format, table.Row{header}, rows)
}

// Seasons writes label/code pairs in selector order.
func Seasons(w io.Writer, format Format, seasons []provider.Season) error {
	if format == FormatJSON {
		if seasons == nil {
			seasons = []provider.Season{}
		}
		return writeJSON(w, seasons)
	}

	rows := make([]table.Row, 0, len(seasons))
	for _, s := range seasons {
		rows = append(rows, table.Row{s.Label, s.Code})
	}
	return render(w, format, table.Row{"Season", "Code"}, rows)
}

// Competitions writes the registry as name/code/root URL rows.
func Competitions(w io.Writer, format Format, comps []competition.Competition) error {
	if format == FormatJSON {
		type entry struct {
			Name    string `json:"name"`
			Code    string `json:"code"`
			RootURL string `json:"root_url"`
		}
		out := make([]entry, 0, len(comps))
		for _, c := range comps {
			out = append(out, entry{Name: c.Name, Code: c.Code(), RootURL: c.RootURL})
		}
		return writeJSON(w, out)
	}

	rows := make([]table.Row, 0, len(comps))
	for _, c := range comps {
		rows = append(rows, table.Row{c.Name, c.Code(), c.RootURL})
	}
	return render(w, format, table.Row{"Competition", "Code", "Root URL"}, rows)
}

func render(w io.Writer, format Format, header table.Row, rows []table.Row) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.SetStyle(table.StyleRounded)

	switch format {
	case FormatTable:
		t.Render()
	case FormatCSV:
		t.RenderCSV()
	case FormatMarkdown:
		t.RenderMarkdown()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func profileRow(p provider.PlayerProfile) table.Row {
	return table.Row{
		str(p.Name), intStr(p.ShirtNumber), p.ID, str(p.MarketValue), str(p.MarketValueUpdated),
		str(p.DateOfBirth), intStr(p.Age), floatStr(p.HeightMeters), str(p.Nationality),
		strings.Join(p.Citizenships, ", "),
		str(p.Position), strings.Join(p.OtherPositions, ", "), str(p.CurrentTeam), str(p.LastClub), str(p.SinceDate),
		str(p.JoinedDate), str(p.ContractExpiration),
		historyCell(p.MarketValueHistory), transfersCell(p.TransferHistory),
	}
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intStr(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func floatStr(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// historyCell and transfersCell keep nested lists in one cell as compact JSON.
func historyCell(points []provider.MarketValuePoint) string {
	if len(points) == 0 {
		return ""
	}
	b, err := json.Marshal(points)
	if err != nil {
		return ""
	}
	return string(b)
}

func transfersCell(transfers []provider.Transfer) string {
	if len(transfers) == 0 {
		return ""
	}
	b, err := json.Marshal(transfers)
	if err != nil {
		return ""
	}
	return string(b)
}
