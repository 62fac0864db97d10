package schemaorg

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseStatuses(t *testing.T) {
	if r := Parse(nil); r.Status != StatusNotFound {
		t.Errorf("empty payload: status = %s, want not_found", r.Status)
	}
	if r := Parse(json.RawMessage(`{not json`)); r.Status != StatusInvalid {
		t.Errorf("malformed payload: status = %s, want invalid", r.Status)
	}
	if r := Parse(json.RawMessage(`{"@type": "Organization", "name": "Acme"}`)); r.Status != StatusInvalid {
		t.Errorf("no event node: status = %s, want invalid", r.Status)
	}
	if r := Parse(json.RawMessage(`{"@type": "Event", "name": "A Show"}`)); r.Status != StatusAvailable {
		t.Errorf("event node: status = %s, want available", r.Status)
	}
}

func TestParseFullEvent(t *testing.T) {
	raw := json.RawMessage(`{
		"@context": "https://schema.org",
		"@type": "MusicEvent",
		"name": "Harbor Concert",
		"description": "Live music on the pier.",
		"startDate": "2026-07-04T18:00:00-04:00",
		"endDate": "2026-07-04",
		"location": {
			"@type": "Place",
			"name": "Pier Six Pavilion",
			"address": {
				"@type": "PostalAddress",
				"streetAddress": "731 Eastern Ave",
				"addressLocality": "Baltimore",
				"addressRegion": "MD"
			},
			"geo": {"latitude": 39.28, "longitude": -76.60}
		},
		"offers": {
			"@type": "Offer",
			"url": "https://tickets.example.com/harbor",
			"price": "35.00"
		},
		"image": ["https://example.com/concert.jpg"]
	}`)

	r := Parse(raw)
	if r.Status != StatusAvailable {
		t.Fatalf("status = %s, want available", r.Status)
	}
	d := r.Data

	assertStr(t, "name", d.Name, "Harbor Concert")
	assertStr(t, "startDate", d.StartDate, "2026-07-04T18:00:00-04:00")
	assertStr(t, "endDate", d.EndDate, "2026-07-04")
	assertStr(t, "venueName", d.VenueName, "Pier Six Pavilion")
	assertStr(t, "venueAddress", d.VenueAddress, "731 Eastern Ave")
	assertStr(t, "venueCity", d.VenueCity, "Baltimore")
	assertStr(t, "venueState", d.VenueState, "MD")
	assertStr(t, "ticketUrl", d.TicketURL, "https://tickets.example.com/harbor")
	assertStr(t, "imageUrl", d.ImageURL, "https://example.com/concert.jpg")

	if d.Latitude == nil || *d.Latitude != 39.28 {
		t.Errorf("latitude = %v, want 39.28", d.Latitude)
	}
	if d.PriceMin == nil || *d.PriceMin != 35 {
		t.Errorf("priceMin = %v, want 35", d.PriceMin)
	}
	if d.PriceMax == nil || *d.PriceMax != 35 {
		t.Errorf("priceMax = %v, want 35", d.PriceMax)
	}
}

func TestParseGraphContainer(t *testing.T) {
	raw := json.RawMessage(`{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "WebSite", "name": "Some Site"},
			{"@type": "FoodEvent", "name": "Chili Cookoff"}
		]
	}`)
	r := Parse(raw)
	if r.Status != StatusAvailable {
		t.Fatalf("status = %s, want available", r.Status)
	}
	assertStr(t, "name", r.Data.Name, "Chili Cookoff")
}

func TestParseTopLevelArray(t *testing.T) {
	raw := json.RawMessage(`[
		{"@type": "BreadcrumbList"},
		{"@type": ["Thing", "Event"], "name": "Array Typed"}
	]`)
	r := Parse(raw)
	if r.Status != StatusAvailable {
		t.Fatalf("status = %s, want available", r.Status)
	}
	assertStr(t, "name", r.Data.Name, "Array Typed")
}

func TestParseFlatLocationString(t *testing.T) {
	raw := json.RawMessage(`{
		"@type": "Event",
		"name": "Street Fair",
		"location": "100 Main St, Springfield, IL 62701"
	}`)
	d := Parse(raw).Data
	assertStr(t, "venueAddress", d.VenueAddress, "100 Main St")
	assertStr(t, "venueCity", d.VenueCity, "Springfield")
	assertStr(t, "venueState", d.VenueState, "IL") // zip stripped
}

func TestParseVirtualLocation(t *testing.T) {
	raw := json.RawMessage(`{
		"@type": "Event",
		"name": "Webinar",
		"location": {"@type": "VirtualLocation", "url": "https://example.com/live"}
	}`)
	d := Parse(raw).Data
	assertStr(t, "venueName", d.VenueName, "Online Event")
}

func TestParseAggregateOffer(t *testing.T) {
	raw := json.RawMessage(`{
		"@type": "Event",
		"name": "Festival",
		"offers": {
			"@type": "AggregateOffer",
			"lowPrice": 10,
			"highPrice": "45.50",
			"url": "https://example.com/buy"
		}
	}`)
	d := Parse(raw).Data
	if d.PriceMin == nil || *d.PriceMin != 10 {
		t.Errorf("priceMin = %v, want 10", d.PriceMin)
	}
	if d.PriceMax == nil || *d.PriceMax != 45.50 {
		t.Errorf("priceMax = %v, want 45.50", d.PriceMax)
	}
	assertStr(t, "ticketUrl", d.TicketURL, "https://example.com/buy")
}

func TestParseOfferArrayMergesPrices(t *testing.T) {
	raw := json.RawMessage(`{
		"@type": "Event",
		"name": "Show",
		"offers": [
			{"@type": "Offer", "price": 20},
			{"@type": "Offer", "price": 12, "url": "https://example.com/ga"},
			{"@type": "Offer", "price": "free"}
		]
	}`)
	d := Parse(raw).Data
	if d.PriceMin == nil || *d.PriceMin != 12 {
		t.Errorf("priceMin = %v, want 12 (non-numeric prices ignored)", d.PriceMin)
	}
	if d.PriceMax == nil || *d.PriceMax != 20 {
		t.Errorf("priceMax = %v, want 20", d.PriceMax)
	}
	assertStr(t, "ticketUrl", d.TicketURL, "https://example.com/ga")
}

func TestParseNaturalLanguageDateRejected(t *testing.T) {
	raw := json.RawMessage(`{"@type": "Event", "name": "X", "startDate": "next Saturday"}`)
	if d := Parse(raw).Data; d.StartDate != nil {
		t.Errorf("startDate = %q, want nil for non-ISO input", *d.StartDate)
	}
}

func TestParseDescriptionTruncation(t *testing.T) {
	long := strings.Repeat("a", maxDescriptionLen+100)
	raw, _ := json.Marshal(map[string]interface{}{
		"@type": "Event", "name": "X", "description": long,
	})
	d := Parse(raw).Data
	if d.Description == nil {
		t.Fatal("expected description")
	}
	if len(*d.Description) != maxDescriptionLen+3 || !strings.HasSuffix(*d.Description, "...") {
		t.Errorf("description length = %d, want %d with ellipsis", len(*d.Description), maxDescriptionLen+3)
	}
}

func assertStr(t *testing.T, field string, got *string, want string) {
	t.Helper()
	if got == nil {
		t.Errorf("%s = nil, want %q", field, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %q, want %q", field, *got, want)
	}
}
