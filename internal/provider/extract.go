package provider

import (
	"net/url"
	"strconv"
	"strings"
)

// NewProfile returns a profile with only the identity set.
func NewProfile(profileURL string) PlayerProfile {
	return PlayerProfile{
		ID:           ProfileID(profileURL),
		Citizenships: []string{},
	}
}

// ProfileID derives the player ID from the last path segment of a profile
// URL ("/erling-haaland/profil/spieler/418560" -> "418560").
func ProfileID(profileURL string) string {
	path := profileURL
	if u, err := url.Parse(profileURL); err == nil && u.Path != "" {
		path = u.Path
	}
	path = strings.TrimRight(path, "/")
	return path[strings.LastIndex(path, "/")+1:]
}

// ExtractShirtNumber parses "#10" style text.
// Returns ok=false if the remainder is not an integer.
func ExtractShirtNumber(text string) (int, bool) {
	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(text), "#", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExtractHeight parses "1,85 m" into 1.85. "N/A" and "- m" mean unknown.
func ExtractHeight(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "N/A" || text == "- m" {
		return 0, false
	}
	text = strings.ReplaceAll(text, " m", "")
	text = strings.ReplaceAll(text, ",", ".")
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ExtractBirth splits "<month> <day> <year> (<age>)" into the date part and
// the age. The date needs at least three tokens; the age is parsed only from
// a fourth or later trailing token that is all digits once parentheses are
// removed.
func ExtractBirth(text string) (dob *string, age *int) {
	parts := strings.Fields(text)
	if len(parts) >= 3 {
		d := strings.Join(parts[:3], " ")
		dob = &d
	}
	if len(parts) <= 3 {
		return dob, nil
	}
	last := strings.NewReplacer("(", "", ")", "").Replace(parts[len(parts)-1])
	if last != "" && isDigits(last) {
		if n, err := strconv.Atoi(last); err == nil {
			age = &n
		}
	}
	return dob, age
}

// ExtractMarketValue returns the leading token of the market value box
// ("€180.00m Last update: Jun 10, 2024" -> "€180.00m").
func ExtractMarketValue(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

const lastUpdateLabel = "Last update: "

// ExtractMarketValueUpdated returns the text after the "Last update: " label.
func ExtractMarketValueUpdated(text string) (string, bool) {
	i := strings.LastIndex(text, lastUpdateLabel)
	if i < 0 {
		return "", false
	}
	v := strings.TrimSpace(text[i+len(lastUpdateLabel):])
	return v, v != ""
}

// CollapseSpace trims text and folds internal whitespace runs to one space.
func CollapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// StringPtr returns nil for empty strings.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
