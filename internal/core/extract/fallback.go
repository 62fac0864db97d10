package extract

import (
	"regexp"
	"strconv"
	"strings"

	"fairimport/internal/core/schemaorg"
	"fairimport/internal/platform/api"
)

// Heuristic extraction for when no model is reachable. Event announcements
// pasted as plain text tend to follow a flyer layout: name first, then a
// date line, a time line, and a venue line. Pattern-matching those lines
// recovers enough to prefill the review form.

var (
	dateRangeRe = regexp.MustCompile(`(?i)\b([a-z]{3,9})\.?\s+(\d{1,2})\s*[-\x{2013}]\s*(\d{1,2}),?\s+(\d{4})`)
	timeRangeRe = regexp.MustCompile(`(?i)\b(\d{1,2}(?::\d{2})?\s*(?:am|pm))\s*[-\x{2013}]\s*(\d{1,2}(?::\d{2})?\s*(?:am|pm))`)
	singleTime  = regexp.MustCompile(`(?i)\b(\d{1,2}(?::\d{2})?\s*(?:am|pm))\b`)
)

// ExtractFromText builds a single candidate event out of plain text.
// Returns nil when not even a name can be recovered.
func ExtractFromText(content string) *api.ExtractedEventData {
	lines := strings.Split(content, "\n")
	data := &api.ExtractedEventData{}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if data.Name == nil {
			data.Name = SanitizeText(line)
			continue
		}

		if data.StartDate == nil {
			if m := dateRangeRe.FindStringSubmatch(line); m != nil {
				month := resolveMonth(m[1])
				year, _ := strconv.Atoi(m[4])
				day1, _ := strconv.Atoi(m[2])
				day2, _ := strconv.Atoi(m[3])
				if month > 0 {
					data.StartDate = formatDate(year, month, day1)
					data.EndDate = formatDate(year, month, day2)
					continue
				}
			}
			if d := SanitizeDate(line); d != nil {
				data.StartDate = d
				continue
			}
		}

		if data.StartTime == nil {
			if m := timeRangeRe.FindStringSubmatch(line); m != nil {
				data.StartTime = SanitizeTime(m[1])
				data.EndTime = SanitizeTime(m[2])
				continue
			}
			if m := singleTime.FindStringSubmatch(line); m != nil {
				data.StartTime = SanitizeTime(m[1])
				continue
			}
		}

		if data.VenueName == nil && strings.Contains(line, ",") {
			parseVenueLine(line, data)
		}
	}

	if data.Name == nil {
		return nil
	}
	return data
}

// parseVenueLine reads "Venue Name, City State" shapes. The state may be a
// full name or an abbreviation; anything before the last comma is the
// venue name.
func parseVenueLine(line string, data *api.ExtractedEventData) {
	idx := strings.LastIndex(line, ",")
	if idx < 0 {
		return
	}
	venuePart := strings.TrimSpace(line[:idx])
	cityPart := strings.TrimSpace(line[idx+1:])

	words := strings.Fields(cityPart)
	if len(words) == 0 {
		return
	}

	// Try the longest state-name suffix first so "New York" beats "York".
	for n := min(3, len(words)); n >= 1; n-- {
		candidate := strings.Join(words[len(words)-n:], " ")
		if st := lookupState(candidate); st != nil {
			data.VenueState = st
			if city := strings.Join(words[:len(words)-n], " "); city != "" {
				data.VenueCity = SanitizeText(city)
			}
			data.VenueName = SanitizeText(venuePart)
			return
		}
	}

	// No recognizable state; treat the whole thing as venue plus city.
	data.VenueName = SanitizeText(venuePart)
	data.VenueCity = SanitizeText(cityPart)
}

// lookupState matches only known states, unlike SanitizeState's lossy
// fallback, so arbitrary words are not mistaken for a state here.
func lookupState(s string) *string {
	if abbr, ok := stateAbbreviations[strings.ToLower(strings.TrimSpace(s))]; ok {
		return &abbr
	}
	upper := strings.ToUpper(strings.TrimSpace(s))
	for _, abbr := range stateAbbreviations {
		if abbr == upper {
			return &abbr
		}
	}
	return nil
}

// EventFromMetadata constructs the last-resort candidate from page
// metadata and any structured data already parsed.
func EventFromMetadata(meta api.PageMetadata, sd *schemaorg.EventData) *api.ExtractedEventData {
	data := &api.ExtractedEventData{}

	if sd != nil {
		data.Name = sd.Name
		data.Description = sd.Description
		data.StartDate = sd.StartDate
		data.EndDate = sd.EndDate
		data.VenueName = sd.VenueName
		data.VenueAddress = sd.VenueAddress
		data.VenueCity = sd.VenueCity
		data.VenueState = sd.VenueState
		data.TicketUrl = sd.TicketURL
		data.TicketPriceMin = sd.PriceMin
		data.TicketPriceMax = sd.PriceMax
		data.ImageUrl = sd.ImageURL
	}

	if data.Name == nil {
		data.Name = SanitizeText(cleanPageTitle(meta.Title))
	}
	if data.Description == nil {
		data.Description = SanitizeText(meta.Description)
	}
	if data.ImageUrl == nil {
		data.ImageUrl = SanitizeURL(meta.OgImage)
	}

	if data.Name == nil {
		return nil
	}
	return data
}

// cleanPageTitle strips site branding from pipe- or dash-delimited titles,
// keeping the first segment.
func cleanPageTitle(title string) string {
	for _, sep := range []string{" | ", " - ", " – "} {
		if idx := strings.Index(title, sep); idx > 0 {
			return strings.TrimSpace(title[:idx])
		}
	}
	return strings.TrimSpace(title)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
