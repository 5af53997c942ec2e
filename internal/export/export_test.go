package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-transfermarkt/internal/competition"
	"github.com/albapepper/scoracle-transfermarkt/internal/provider"
)

func sampleProfile() provider.PlayerProfile {
	p := provider.NewProfile("https://www.transfermarkt.us/bukayo-saka/profil/spieler/433177")
	name, value, team := "Bukayo Saka", "$140.00m", "Arsenal FC"
	shirt, age := 7, 23
	height := 1.78
	p.Name = &name
	p.MarketValue = &value
	p.CurrentTeam = &team
	p.ShirtNumber = &shirt
	p.Age = &age
	p.HeightMeters = &height
	p.Citizenships = []string{"England", "Nigeria"}
	p.MarketValueHistory = []provider.MarketValuePoint{{Date: "Dec 9, 2019", Value: 10000000}}
	return p
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"table", "CSV", " markdown ", "json"} {
		_, err := ParseFormat(name)
		assert.NoError(t, err, name)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, provider.ErrInvalidInput))

	var invalid *provider.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, Formats, invalid.Valid)
}

func TestProfileRow(t *testing.T) {
	row := profileRow(sampleProfile())
	require.Len(t, row, len(ProfileColumns))

	assert.Equal(t, "Bukayo Saka", row[0])
	assert.Equal(t, "7", row[1])
	assert.Equal(t, "433177", row[2])
	assert.Equal(t, "", row[4])
	assert.Equal(t, "1.78", row[7])
	assert.Equal(t, "England, Nigeria", row[9])
	assert.Equal(t, "", row[11])
	assert.JSONEq(t, `[{"date":"Dec 9, 2019","value":10000000}]`, row[17].(string))
	assert.Equal(t, "", row[18])
}

func TestProfilesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Profiles(&buf, FormatCSV, []provider.PlayerProfile{sampleProfile()}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, strings.ToLower(lines[0]), "contract expiration")
	assert.Contains(t, lines[1], "Bukayo Saka")
	assert.Contains(t, lines[1], "433177")
}

func TestProfilesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Profiles(&buf, FormatJSON, []provider.PlayerProfile{sampleProfile()}))

	var decoded []provider.PlayerProfile
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, sampleProfile(), decoded[0])
}

func TestProfilesJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Profiles(&buf, FormatJSON, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestLinksTableAndMarkdown(t *testing.T) {
	links := []string{"https://www.transfermarkt.us/a", "https://www.transfermarkt.us/b"}

	var tbl bytes.Buffer
	require.NoError(t, Links(&tbl, FormatTable, "Club", links))
	assert.Contains(t, tbl.String(), "https://www.transfermarkt.us/b")

	var md bytes.Buffer
	require.NoError(t, Links(&md, FormatMarkdown, "Club", links))
	assert.Contains(t, md.String(), "| https://www.transfermarkt.us/a |")
}

func TestSeasons(t *testing.T) {
	seasons := []provider.Season{{Label: "24/25", Code: "2024"}, {Label: "23/24", Code: "2023"}}

	var buf bytes.Buffer
	require.NoError(t, Seasons(&buf, FormatCSV, seasons))
	out := buf.String()
	assert.Contains(t, out, "24/25,2024")
	assert.Less(t, strings.Index(out, "24/25"), strings.Index(out, "23/24"))
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Links(&buf, Format("xml"), "Club", nil))
}

func TestCompetitionsJSON(t *testing.T) {
	comps := competition.NewRegistry("https://www.transfermarkt.us", map[string]string{
		"EPL": "/premier-league/startseite/wettbewerb/GB1",
	}).All()

	var buf bytes.Buffer
	require.NoError(t, Competitions(&buf, FormatJSON, comps))
	assert.JSONEq(t, `[{"name":"EPL","code":"GB1","root_url":"https://www.transfermarkt.us/premier-league/startseite/wettbewerb/GB1"}]`, buf.String())
}
