package extract

import (
	"testing"

	"fairimport/internal/core/schemaorg"
	"fairimport/internal/platform/api"
)

func TestComputeConfidenceWithoutStructuredData(t *testing.T) {
	event := api.ExtractedEventData{
		Name:      strPtr("Some Event"),
		StartDate: strPtr("2026-05-01"),
	}

	fc := ComputeConfidence(event, nil)

	if fc["name"] != api.ConfidenceMedium {
		t.Errorf("name = %s, want medium", fc["name"])
	}
	if fc["startDate"] != api.ConfidenceMedium {
		t.Errorf("startDate = %s, want medium", fc["startDate"])
	}
	if fc["endDate"] != api.ConfidenceLow {
		t.Errorf("endDate = %s, want low for missing field", fc["endDate"])
	}
	if fc["ticketPriceMin"] != api.ConfidenceLow {
		t.Errorf("ticketPriceMin = %s, want low for missing field", fc["ticketPriceMin"])
	}
}

func TestComputeConfidenceCorroboration(t *testing.T) {
	price := 25.0
	event := api.ExtractedEventData{
		Name:           strPtr("Winter Carnival"),
		StartDate:      strPtr("2026-01-15"),
		VenueName:      strPtr("city arena"),
		TicketPriceMin: &price,
		StartTime:      strPtr("19:00"),
	}
	sd := &schemaorg.EventData{
		Name:      strPtr("Winter Carnival"),
		StartDate: strPtr("2026-01-15T19:00:00"), // same day, time attached
		VenueName: strPtr("City Arena"),          // case differs
		PriceMin:  &price,
	}

	fc := ComputeConfidence(event, sd)

	if fc["name"] != api.ConfidenceHigh {
		t.Errorf("name = %s, want high", fc["name"])
	}
	if fc["startDate"] != api.ConfidenceHigh {
		t.Errorf("startDate = %s, want high when calendar days match", fc["startDate"])
	}
	if fc["venueName"] != api.ConfidenceHigh {
		t.Errorf("venueName = %s, want high for case-insensitive match", fc["venueName"])
	}
	if fc["ticketPriceMin"] != api.ConfidenceHigh {
		t.Errorf("ticketPriceMin = %s, want high", fc["ticketPriceMin"])
	}
	// Times have no structured-data counterpart, so they cap at medium.
	if fc["startTime"] != api.ConfidenceMedium {
		t.Errorf("startTime = %s, want medium", fc["startTime"])
	}
}

func TestComputeConfidenceDisagreement(t *testing.T) {
	event := api.ExtractedEventData{Name: strPtr("Festival A")}
	sd := &schemaorg.EventData{Name: strPtr("Festival B")}

	fc := ComputeConfidence(event, sd)
	if fc["name"] != api.ConfidenceMedium {
		t.Errorf("name = %s, want medium on disagreement", fc["name"])
	}
}
