// Package schemaorg normalizes embedded JSON-LD event markup into a
// canonical field shape. It is deliberately strict: structured data is
// either machine-readable as written or it is ignored, and natural-language
// recovery is left to the model-backed extractor.
package schemaorg

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

type Status string

const (
	StatusNotFound  Status = "not_found"
	StatusInvalid   Status = "invalid"
	StatusAvailable Status = "available"
)

// EventData is the canonical shape parsed out of a JSON-LD Event node.
// Nil means the markup carried no usable value for that field.
type EventData struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	StartDate    *string  `json:"startDate"`
	EndDate      *string  `json:"endDate"`
	VenueName    *string  `json:"venueName"`
	VenueAddress *string  `json:"venueAddress"`
	VenueCity    *string  `json:"venueCity"`
	VenueState   *string  `json:"venueState"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	TicketURL    *string  `json:"ticketUrl"`
	PriceMin     *float64 `json:"priceMin"`
	PriceMax     *float64 `json:"priceMax"`
	ImageURL     *string  `json:"imageUrl"`
}

type ParseResult struct {
	Status Status
	Data   *EventData
}

const maxDescriptionLen = 2000

// Parse inspects a raw JSON-LD payload for an Event node. A missing
// payload yields not_found; a payload with no Event node yields invalid.
func Parse(raw json.RawMessage) ParseResult {
	if len(raw) == 0 {
		return ParseResult{Status: StatusNotFound}
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ParseResult{Status: StatusInvalid}
	}

	node := findEventNode(doc)
	if node == nil {
		return ParseResult{Status: StatusInvalid}
	}

	return ParseResult{Status: StatusAvailable, Data: parseEventNode(node)}
}

// findEventNode walks top-level arrays and @graph containers looking for
// the first node declaring an Event type.
func findEventNode(doc interface{}) map[string]interface{} {
	switch v := doc.(type) {
	case map[string]interface{}:
		if isEventType(v["@type"]) {
			return v
		}
		if graph, ok := v["@graph"].([]interface{}); ok {
			for _, item := range graph {
				if node := findEventNode(item); node != nil {
					return node
				}
			}
		}
	case []interface{}:
		for _, item := range v {
			if node := findEventNode(item); node != nil {
				return node
			}
		}
	}
	return nil
}

// isEventType accepts a direct "Event" string, an array containing one, or
// any type whose name contains "event" case-insensitively (MusicEvent,
// FoodEvent, festival subtypes and so on).
func isEventType(t interface{}) bool {
	switch v := t.(type) {
	case string:
		return strings.Contains(strings.ToLower(v), "event")
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.Contains(strings.ToLower(s), "event") {
				return true
			}
		}
	}
	return false
}

func parseEventNode(node map[string]interface{}) *EventData {
	data := &EventData{}

	data.Name = sanitizeString(stringValue(node["name"]), 0)
	data.Description = sanitizeString(stringValue(node["description"]), maxDescriptionLen)
	data.StartDate = parseISODate(stringValue(node["startDate"]))
	data.EndDate = parseISODate(stringValue(node["endDate"]))

	parseLocation(node["location"], data)
	parseOffers(node["offers"], data)
	data.ImageURL = parseImage(node["image"])

	return data
}

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// parseISODate passes through ISO 8601 strings and rejects everything
// else. Natural-language dates are not this parser's problem.
func parseISODate(s string) *string {
	s = strings.TrimSpace(s)
	if !isoDateRe.MatchString(s) {
		return nil
	}
	return &s
}

func parseLocation(loc interface{}, data *EventData) {
	switch v := loc.(type) {
	case string:
		parseFlatAddress(v, data)
	case []interface{}:
		if len(v) > 0 {
			parseLocation(v[0], data)
		}
	case map[string]interface{}:
		if t, ok := v["@type"].(string); ok && strings.EqualFold(t, "VirtualLocation") {
			online := "Online Event"
			data.VenueName = &online
			return
		}
		data.VenueName = sanitizeString(stringValue(v["name"]), 0)
		parseAddress(v["address"], data)
		parseGeo(v["geo"], data)
	}
}

func parseAddress(addr interface{}, data *EventData) {
	switch v := addr.(type) {
	case string:
		parseFlatAddress(v, data)
	case map[string]interface{}:
		data.VenueAddress = sanitizeString(stringValue(v["streetAddress"]), 0)
		data.VenueCity = sanitizeString(stringValue(v["addressLocality"]), 0)
		data.VenueState = sanitizeString(stringValue(v["addressRegion"]), 0)
	}
}

// parseFlatAddress splits a comma-separated address string, reading the
// last two segments as city and state (possibly carrying a zip).
func parseFlatAddress(addr string, data *EventData) {
	parts := strings.Split(addr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch {
	case len(parts) >= 3:
		street := strings.Join(parts[:len(parts)-2], ", ")
		data.VenueAddress = sanitizeString(street, 0)
		data.VenueCity = sanitizeString(parts[len(parts)-2], 0)
		data.VenueState = sanitizeString(stripZip(parts[len(parts)-1]), 0)
	case len(parts) == 2:
		data.VenueCity = sanitizeString(parts[0], 0)
		data.VenueState = sanitizeString(stripZip(parts[1]), 0)
	case len(parts) == 1 && parts[0] != "":
		data.VenueAddress = sanitizeString(parts[0], 0)
	}
}

var zipRe = regexp.MustCompile(`\s+\d{5}(-\d{4})?$`)

func stripZip(s string) string {
	return strings.TrimSpace(zipRe.ReplaceAllString(strings.TrimSpace(s), ""))
}

// parseGeo keeps coordinates only when both are present and numeric.
func parseGeo(geo interface{}, data *EventData) {
	m, ok := geo.(map[string]interface{})
	if !ok {
		return
	}
	lat, latOK := numberValue(m["latitude"])
	lng, lngOK := numberValue(m["longitude"])
	if latOK && lngOK {
		data.Latitude = &lat
		data.Longitude = &lng
	}
}

// parseOffers handles a single offer, an offer array, and AggregateOffer.
// The ticket URL comes from the first offer exposing one; price bounds are
// the min and max over every price seen.
func parseOffers(offers interface{}, data *EventData) {
	var list []map[string]interface{}
	switch v := offers.(type) {
	case map[string]interface{}:
		list = append(list, v)
	case []interface{}:
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				list = append(list, m)
			}
		}
	default:
		return
	}

	for _, offer := range list {
		if data.TicketURL == nil {
			if u := sanitizeString(stringValue(offer["url"]), 0); u != nil {
				data.TicketURL = u
			}
		}

		if t, ok := offer["@type"].(string); ok && strings.EqualFold(t, "AggregateOffer") {
			if low := parsePrice(offer["lowPrice"]); low != nil {
				mergePrice(data, *low)
			}
			if high := parsePrice(offer["highPrice"]); high != nil {
				mergePrice(data, *high)
			}
			continue
		}
		if p := parsePrice(offer["price"]); p != nil {
			mergePrice(data, *p)
		}
	}
}

func mergePrice(data *EventData, p float64) {
	if data.PriceMin == nil || p < *data.PriceMin {
		v := p
		data.PriceMin = &v
	}
	if data.PriceMax == nil || p > *data.PriceMax {
		v := p
		data.PriceMax = &v
	}
}

var priceTokenRe = regexp.MustCompile(`-?\d+(\.\d+)?`)

// parsePrice accepts bare numbers or strings carrying a numeric token.
// Non-numeric strings (including "free") and negative values yield nil.
func parsePrice(v interface{}) *float64 {
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return nil
		}
		return &t
	case string:
		token := priceTokenRe.FindString(t)
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

// parseImage accepts a bare string, an array of strings, or an array of
// objects carrying a url field. First resolvable entry wins.
func parseImage(img interface{}) *string {
	switch v := img.(type) {
	case string:
		return sanitizeString(v, 0)
	case []interface{}:
		for _, item := range v {
			switch iv := item.(type) {
			case string:
				if s := sanitizeString(iv, 0); s != nil {
					return s
				}
			case map[string]interface{}:
				if s := sanitizeString(stringValue(iv["url"]), 0); s != nil {
					return s
				}
			}
		}
	case map[string]interface{}:
		return sanitizeString(stringValue(v["url"]), 0)
	}
	return nil
}

// sanitizeString trims, treats empty and the literal "null" as absent, and
// truncates with an ellipsis when maxLen is positive.
func sanitizeString(s string, maxLen int) *string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}
	if maxLen > 0 && len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return &s
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

func numberValue(v interface{}) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}
