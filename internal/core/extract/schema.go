package extract

import (
	"github.com/cloudwego/eino/schema"
	"github.com/eino-contrib/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// createEventObjectSchema forces the model to emit exactly the canonical
// event field shape.
func createEventObjectSchema() *jsonschema.Schema {
	stringOrNull := func(desc string) *jsonschema.Schema {
		return &jsonschema.Schema{
			Type:        string(schema.String),
			Description: desc + " (null when absent)",
		}
	}
	numberOrNull := func(desc string) *jsonschema.Schema {
		return &jsonschema.Schema{
			Type:        string(schema.Number),
			Description: desc + " (null when absent)",
		}
	}

	return &jsonschema.Schema{
		Type:     string(schema.Object),
		Required: []string{"name"},
		Properties: orderedmap.New[string, *jsonschema.Schema](
			orderedmap.WithInitialData[string, *jsonschema.Schema](
				orderedmap.Pair[string, *jsonschema.Schema]{Key: "name", Value: stringOrNull("Event name")},
				orderedmap.Pair[string, *jsonschema.Schema]{Key: "description", Value: stringOrNull("Event description")},
				orderedmap.Pair[string, *jsonschema.Schema]{Key: "startDate", Value: stringOrNull("Start date, YYYY-MM-DD")},
				orderedmap.Pair[string, *jsonschema.Schema]{Key: "endDate", Value: stringOrNull("End date, YYYY-MM-DD")},
				orderedmap.Pair[string, *jsonschema.Schema]{Key: "startTime", Value: stringOrNull("Daily opening time, 24-hour HH:MM")},
				orderedmap.Pair[string, *jsonschema.Schema]{Key: "endTime", Value: stringOrNull("Daily closing time, 24-hour HH:MM")},
				orderedmap.Pair[string, *jsonschema.Schema]{Key: "hoursVaryByDay", Value: &jsonschema.Schema{
					Type:        string(schema.Boolean),
					Description: "True when opening hours differ per day (null when absent)",
				}},
				orderedmap.Pair[string, *jsonschema.Schema]{Key: "hoursNotes", Value: stringOrNull("Free-text schedule notes")},
				orderedmap.Pair[string, *jsonschema.Schema]{Key: "venueName", Value: stringOrNull("Venue name")},
				orderedmap.Pair[string, *jsonschema.Schema]{Key: "venueAddress", Value: stringOrNull("Venue street address")},
				orderedmap.Pair[string, *jsonschema.Schema]{Key: "venueCity", Value: stringOrNull("Venue city")},
				orderedmap.Pair[string, *jsonschema.Schema]{Key: "venueState", Value: stringOrNull("2-letter US state code")},
				orderedmap.Pair[string, *jsonschema.Schema]{Key: "ticketUrl", Value: stringOrNull("Absolute ticket URL")},
				orderedmap.Pair[string, *jsonschema.Schema]{Key: "ticketPriceMin", Value: numberOrNull("Lowest ticket price")},
				orderedmap.Pair[string, *jsonschema.Schema]{Key: "ticketPriceMax", Value: numberOrNull("Highest ticket price")},
				orderedmap.Pair[string, *jsonschema.Schema]{Key: "imageUrl", Value: stringOrNull("Absolute image URL")},
			),
		),
	}
}

// createEventListSchema wraps the object schema in an array for multi-event
// pages.
func createEventListSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        string(schema.Array),
		Description: "Every distinct event found on the page",
		Items:       createEventObjectSchema(),
	}
}
