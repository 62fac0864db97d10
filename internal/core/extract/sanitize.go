package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Sanitizers normalize whatever the model (or a heuristic pass) produced
// into the canonical field formats: YYYY-MM-DD dates, 24-hour HH:MM times,
// 2-letter state codes, non-negative prices, absolute URLs. Unparseable
// input becomes nil rather than an error; a missing field is a normal
// outcome here.

var monthNames = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
}

var stateAbbreviations = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"florida": "FL", "georgia": "GA", "hawaii": "HI", "idaho": "ID",
	"illinois": "IL", "indiana": "IN", "iowa": "IA", "kansas": "KS",
	"kentucky": "KY", "louisiana": "LA", "maine": "ME", "maryland": "MD",
	"massachusetts": "MA", "michigan": "MI", "minnesota": "MN", "mississippi": "MS",
	"missouri": "MO", "montana": "MT", "nebraska": "NE", "nevada": "NV",
	"new hampshire": "NH", "new jersey": "NJ", "new mexico": "NM", "new york": "NY",
	"north carolina": "NC", "north dakota": "ND", "ohio": "OH", "oklahoma": "OK",
	"oregon": "OR", "pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC",
	"south dakota": "SD", "tennessee": "TN", "texas": "TX", "utah": "UT",
	"vermont": "VT", "virginia": "VA", "washington": "WA", "west virginia": "WV",
	"wisconsin": "WI", "wyoming": "WY", "district of columbia": "DC",
}

var (
	isoDateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T.*)?$`)
	slashDateRe   = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)
	monthDayRe    = regexp.MustCompile(`(?i)^([a-z]+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})$`)
	dayMonthRe    = regexp.MustCompile(`(?i)^(\d{1,2})(?:st|nd|rd|th)?\s+([a-z]+)\.?,?\s*(\d{4})$`)
	time24Re      = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	time12Re      = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*(am|pm)$`)
	embeddedTime  = regexp.MustCompile(`T(\d{2}):(\d{2})(?::(\d{2}))?`)
	priceTokenRe  = regexp.MustCompile(`-?\d+(\.\d+)?`)
	twoLetterRe   = regexp.MustCompile(`^[A-Za-z]{2}$`)
	nativeLayouts = []string{
		"2006-01-02 15:04:05", "Jan 2 2006", "January 2 2006",
		"2 Jan 2006", "Mon, 02 Jan 2006", "Mon Jan 2 2006",
	}
)

// SanitizeDate normalizes an assortment of date spellings to YYYY-MM-DD.
// ISO input passes through unchanged, which preserves an embedded time
// component for SanitizeTime to pick up later.
func SanitizeDate(v interface{}) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if isoDateRe.MatchString(s) {
		return &s
	}

	if m := slashDateRe.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			// Two-digit years split at 50: 99 -> 1999, 49 -> 2049.
			if year >= 50 {
				year += 1900
			} else {
				year += 2000
			}
		}
		return formatDate(year, month, day)
	}

	if m := monthDayRe.FindStringSubmatch(s); m != nil {
		month := resolveMonth(m[1])
		if month > 0 {
			day, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])
			return formatDate(year, month, day)
		}
	}

	if m := dayMonthRe.FindStringSubmatch(s); m != nil {
		month := resolveMonth(m[2])
		if month > 0 {
			day, _ := strconv.Atoi(m[1])
			year, _ := strconv.Atoi(m[3])
			return formatDate(year, month, day)
		}
	}

	// Last resort: native layouts, gated to plausible years so a stray
	// number in the text cannot masquerade as a date.
	for _, layout := range nativeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() >= 2020 && t.Year() <= 2100 {
				out := t.Format("2006-01-02")
				return &out
			}
		}
	}

	return nil
}

// resolveMonth matches full month names and their common abbreviations
// ("Sept" included).
func resolveMonth(name string) int {
	name = strings.ToLower(strings.TrimSuffix(name, "."))
	if m, ok := monthNames[name]; ok {
		return m
	}
	if len(name) >= 3 {
		for full, m := range monthNames {
			if strings.HasPrefix(full, name) {
				return m
			}
		}
	}
	return 0
}

func formatDate(year, month, day int) *string {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	// Round-trip through time.Date to reject impossible dates like Feb 30.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return nil
	}
	out := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	return &out
}

// SanitizeTime normalizes to 24-hour HH:MM. An embedded ISO time of
// exactly midnight is treated as a placeholder and dropped.
func SanitizeTime(v interface{}) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if m := time24Re.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		return formatTime(hour, minute)
	}

	if m := time12Re.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 {
			return nil
		}
		if strings.EqualFold(m[3], "pm") && hour != 12 {
			hour += 12
		}
		if strings.EqualFold(m[3], "am") && hour == 12 {
			hour = 0
		}
		return formatTime(hour, minute)
	}

	if m := embeddedTime.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		second := 0
		if m[3] != "" {
			second, _ = strconv.Atoi(m[3])
		}
		if hour == 0 && minute == 0 && second == 0 {
			return nil
		}
		return formatTime(hour, minute)
	}

	return nil
}

func formatTime(hour, minute int) *string {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil
	}
	out := fmt.Sprintf("%02d:%02d", hour, minute)
	return &out
}

// SanitizeState maps full state names to their 2-letter code. Unrecognized
// input collapses to its first two uppercased letters; lossy, but matching
// long-standing import behavior.
func SanitizeState(v interface{}) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if abbr, ok := stateAbbreviations[strings.ToLower(s)]; ok {
		return &abbr
	}
	if twoLetterRe.MatchString(s) {
		out := strings.ToUpper(s)
		return &out
	}
	if len(s) >= 2 {
		out := strings.ToUpper(s[:2])
		return &out
	}
	return nil
}

// SanitizePrice reads the first numeric token out of a price value.
// "free" maps to 0 here; negative values are rejected.
func SanitizePrice(v interface{}) *float64 {
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return nil
		}
		return &t
	case int:
		if t < 0 {
			return nil
		}
		f := float64(t)
		return &f
	case string:
		s := strings.TrimSpace(strings.ToLower(t))
		if s == "" {
			return nil
		}
		if s == "free" {
			zero := 0.0
			return &zero
		}
		token := priceTokenRe.FindString(s)
		if token == "" {
			return nil
		}
		p, err := strconv.ParseFloat(token, 64)
		if err != nil || p < 0 {
			return nil
		}
		return &p
	}
	return nil
}

// SanitizeURL accepts only absolute http(s) URLs. Relative paths are
// rejected rather than guessed at.
func SanitizeURL(v interface{}) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil
	}
	if u.Host == "" {
		return nil
	}
	if u.Path == "" {
		u.Path = "/"
	}
	out := u.String()
	return &out
}

// SanitizeText trims a free-text field, dropping empty and literal "null"
// values.
func SanitizeText(v interface{}) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}
	return &s
}

// SanitizeBool tolerates the model emitting booleans as strings.
func SanitizeBool(v interface{}) *bool {
	switch t := v.(type) {
	case bool:
		return &t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes":
			b := true
			return &b
		case "false", "no":
			b := false
			return &b
		}
	}
	return nil
}
