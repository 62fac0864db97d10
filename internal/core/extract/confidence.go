package extract

import (
	"strings"

	"fairimport/internal/core/schemaorg"
	"fairimport/internal/platform/api"
)

// ComputeConfidence rates every field of a candidate. A nil field is low.
// A field whose value is corroborated by structured data is high.
// Everything else is medium: the model said so, and nothing else agrees
// or disagrees.
func ComputeConfidence(event api.ExtractedEventData, sd *schemaorg.EventData) api.FieldConfidence {
	fc := api.FieldConfidence{}

	rateString := func(field string, val *string, corroborating *string) {
		switch {
		case val == nil:
			fc[field] = api.ConfidenceLow
		case corroborating != nil && stringsAgree(*val, *corroborating):
			fc[field] = api.ConfidenceHigh
		default:
			fc[field] = api.ConfidenceMedium
		}
	}
	rateNumber := func(field string, val *float64, corroborating *float64) {
		switch {
		case val == nil:
			fc[field] = api.ConfidenceLow
		case corroborating != nil && *val == *corroborating:
			fc[field] = api.ConfidenceHigh
		default:
			fc[field] = api.ConfidenceMedium
		}
	}

	var (
		sdName, sdDesc, sdStart, sdEnd        *string
		sdVenue, sdAddr, sdCity, sdState      *string
		sdTicketURL, sdImage                  *string
		sdPriceMin, sdPriceMax                *float64
	)
	if sd != nil {
		sdName, sdDesc = sd.Name, sd.Description
		sdStart, sdEnd = sd.StartDate, sd.EndDate
		sdVenue, sdAddr, sdCity, sdState = sd.VenueName, sd.VenueAddress, sd.VenueCity, sd.VenueState
		sdTicketURL, sdImage = sd.TicketURL, sd.ImageURL
		sdPriceMin, sdPriceMax = sd.PriceMin, sd.PriceMax
	}

	rateString("name", event.Name, sdName)
	rateString("description", event.Description, sdDesc)
	rateString("startDate", event.StartDate, sdStart)
	rateString("endDate", event.EndDate, sdEnd)
	rateString("startTime", event.StartTime, nil)
	rateString("endTime", event.EndTime, nil)
	rateString("hoursNotes", event.HoursNotes, nil)
	rateString("venueName", event.VenueName, sdVenue)
	rateString("venueAddress", event.VenueAddress, sdAddr)
	rateString("venueCity", event.VenueCity, sdCity)
	rateString("venueState", event.VenueState, sdState)
	rateString("ticketUrl", event.TicketUrl, sdTicketURL)
	rateString("imageUrl", event.ImageUrl, sdImage)
	rateNumber("ticketPriceMin", event.TicketPriceMin, sdPriceMin)
	rateNumber("ticketPriceMax", event.TicketPriceMax, sdPriceMax)

	if event.HoursVaryByDay == nil {
		fc["hoursVaryByDay"] = api.ConfidenceLow
	} else {
		fc["hoursVaryByDay"] = api.ConfidenceMedium
	}

	return fc
}

// stringsAgree compares loosely: case-insensitive after trimming, and for
// dates the calendar day alone decides (one side may carry a time).
func stringsAgree(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if isoDateRe.MatchString(a) && isoDateRe.MatchString(b) {
		return a[:10] == b[:10]
	}
	return strings.EqualFold(a, b)
}
