package extract

import (
	"context"
	"testing"

	"fairimport/internal/platform/api"
	"fairimport/internal/platform/llm"
)

func TestResolveCandidatesArray(t *testing.T) {
	raw := `[{"name": "Event A"}, {"name": "Event B"}]`
	events := resolveCandidates(raw)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0]["name"] != "Event A" {
		t.Errorf("unexpected first event: %v", events[0])
	}
}

func TestResolveCandidatesArrayWithChatter(t *testing.T) {
	raw := `Here are the events I found:
[{"name": "Event A"}]
Let me know if you need more.`
	events := resolveCandidates(raw)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
}

func TestResolveCandidatesSingleObject(t *testing.T) {
	events := resolveCandidates(`{"name": "Solo Event", "startDate": "2026-03-01"}`)
	if len(events) != 1 {
		t.Fatalf("expected object wrapped as one event, got %d", len(events))
	}
}

func TestResolveCandidatesTitleKeyedObject(t *testing.T) {
	events := resolveCandidates(`{"title": "Titled Event"}`)
	if len(events) != 1 {
		t.Fatalf("expected title-keyed object wrapped, got %d", len(events))
	}
}

func TestResolveCandidatesEventsProperty(t *testing.T) {
	events := resolveCandidates(`{"events": [{"name": "A"}, {"name": "B"}, {"name": "C"}]}`)
	if len(events) != 3 {
		t.Fatalf("expected 3 events from nested property, got %d", len(events))
	}
}

func TestResolveCandidatesGarbage(t *testing.T) {
	for _, raw := range []string{"", "total nonsense", `{"venue": "no event keys"}`, `[1, 2, 3]`} {
		if events := resolveCandidates(raw); len(events) != 0 {
			t.Errorf("resolveCandidates(%q) = %v, want empty", raw, events)
		}
	}
}

func TestSanitizeCandidateTimeFallback(t *testing.T) {
	// No explicit times; the date carries an embedded ISO time.
	data := sanitizeCandidate(map[string]interface{}{
		"name":      "Evening Show",
		"startDate": "2026-04-10T19:30:00",
		"endDate":   "2026-04-10T22:00:00",
	})
	if data.StartTime == nil || *data.StartTime != "19:30" {
		t.Errorf("expected start time 19:30 from embedded ISO, got %v", data.StartTime)
	}
	if data.EndTime == nil || *data.EndTime != "22:00" {
		t.Errorf("expected end time 22:00 from embedded ISO, got %v", data.EndTime)
	}
}

func TestSanitizeCandidateTitleFallback(t *testing.T) {
	data := sanitizeCandidate(map[string]interface{}{"title": "Titled Only"})
	if data.Name == nil || *data.Name != "Titled Only" {
		t.Errorf("expected name from title key, got %v", data.Name)
	}
}

func TestApplyInheritance(t *testing.T) {
	candidates := []api.ExtractedEventData{
		{},
		{Name: strPtr("Second"), ImageUrl: strPtr("https://example.com/own.jpg")},
		{Name: strPtr("Third")},
	}
	meta := api.PageMetadata{
		Title:   "Big Festival | Some Town Events",
		OgImage: "https://example.com/og.jpg",
	}

	applyInheritance(candidates, meta)

	if candidates[0].Name == nil || *candidates[0].Name != "Big Festival" {
		t.Errorf("first candidate should take cleaned page title, got %v", candidates[0].Name)
	}
	if candidates[1].ImageUrl == nil || *candidates[1].ImageUrl != "https://example.com/own.jpg" {
		t.Errorf("existing image should be kept, got %v", candidates[1].ImageUrl)
	}
	if candidates[2].ImageUrl == nil || *candidates[2].ImageUrl != "https://example.com/og.jpg" {
		t.Errorf("imageless candidate should inherit og image, got %v", candidates[2].ImageUrl)
	}
}

func TestExtractFromTextFlyer(t *testing.T) {
	content := `Pumpkin Days at the County Fair
October 5-8, 2026
10am-6pm daily
County Fairgrounds, Portland Maine`

	data := ExtractFromText(content)
	if data == nil {
		t.Fatal("expected heuristic extraction to find an event")
	}
	checkStr(t, "name", data.Name, "Pumpkin Days at the County Fair")
	checkStr(t, "startDate", data.StartDate, "2026-10-05")
	checkStr(t, "endDate", data.EndDate, "2026-10-08")
	checkStr(t, "startTime", data.StartTime, "10:00")
	checkStr(t, "endTime", data.EndTime, "18:00")
	checkStr(t, "venueName", data.VenueName, "County Fairgrounds")
	checkStr(t, "venueCity", data.VenueCity, "Portland")
	checkStr(t, "venueState", data.VenueState, "ME")
}

func TestExtractFromTextEmpty(t *testing.T) {
	if data := ExtractFromText("   \n\n  "); data != nil {
		t.Errorf("expected nil for blank content, got %+v", data)
	}
}

func TestEventFromMetadata(t *testing.T) {
	meta := api.PageMetadata{
		Title:       "Spring Gala - City Events",
		Description: "An evening of music.",
		OgImage:     "https://example.com/gala.jpg",
	}
	data := EventFromMetadata(meta, nil)
	if data == nil {
		t.Fatal("expected metadata fallback event")
	}
	checkStr(t, "name", data.Name, "Spring Gala")
	checkStr(t, "description", data.Description, "An evening of music.")
	checkStr(t, "imageUrl", data.ImageUrl, "https://example.com/gala.jpg")

	if EventFromMetadata(api.PageMetadata{}, nil) != nil {
		t.Error("expected nil when metadata has no title")
	}
}

// With no model configured, extraction should still succeed off the
// heuristic path and report a failure code only when nothing is usable.
func TestExtractWithoutModel(t *testing.T) {
	disabled, err := llm.NewService(llm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(disabled)

	resp := svc.Extract(context.Background(), api.ExtractRequest{
		Content: "Harvest Market\nNovember 2, 2026\n9am-3pm\nTown Hall, Augusta Maine",
	}, ModeMulti)
	if !resp.Success {
		t.Fatalf("expected heuristic success, got error %q", resp.Error)
	}
	if len(resp.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(resp.Events))
	}
	ev := resp.Events[0]
	if ev.ExtractID == "" || !ev.Selected {
		t.Errorf("candidate should carry an id and default to selected: %+v", ev)
	}
	if _, ok := resp.Confidence[ev.ExtractID]; !ok {
		t.Error("expected a confidence entry per candidate")
	}

	resp = svc.Extract(context.Background(), api.ExtractRequest{Content: " "}, ModeMulti)
	if resp.Success || resp.Error != "content is required" {
		t.Errorf("expected content-required error, got %+v", resp)
	}

	// Content with no recoverable fields and no metadata exhausts the chain.
	resp = svc.Extract(context.Background(), api.ExtractRequest{Content: "null\nnull"}, ModeMulti)
	if resp.Success {
		t.Fatal("expected extraction failure for unusable content")
	}
	if resp.Error != "EXTRACT_FAIL: no event data could be extracted from this page" {
		t.Errorf("unexpected failure message: %q", resp.Error)
	}
}

func checkStr(t *testing.T, field string, got *string, want string) {
	t.Helper()
	if got == nil {
		t.Errorf("%s = nil, want %q", field, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %q, want %q", field, *got, want)
	}
}

func strPtr(s string) *string { return &s }
