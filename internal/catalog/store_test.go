package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fairimport/internal/platform/api"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Pumpkin Days at the County Fair": "pumpkin-days-at-the-county-fair",
		"  Rock & Roll Night!  ":          "rock-roll-night",
		"Fête d'été":                      "f-te-d-t",
		"---":                             "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCreateEventSlugUniqueness(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &Event{Name: "Annual Gala"}
	if err := store.CreateEvent(ctx, first); err != nil {
		t.Fatal(err)
	}
	if first.Slug != "annual-gala" {
		t.Errorf("slug = %q, want annual-gala", first.Slug)
	}

	second := &Event{Name: "Annual Gala"}
	if err := store.CreateEvent(ctx, second); err != nil {
		t.Fatal(err)
	}
	if second.Slug != "annual-gala-2" {
		t.Errorf("slug = %q, want annual-gala-2", second.Slug)
	}

	third := &Event{Name: "Annual Gala"}
	if err := store.CreateEvent(ctx, third); err != nil {
		t.Fatal(err)
	}
	if third.Slug != "annual-gala-3" {
		t.Errorf("slug = %q, want annual-gala-3", third.Slug)
	}
}

func TestVenueRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	v := &Venue{Name: "State Theatre", Address: "609 Congress St", City: "Portland", State: "ME"}
	if err := store.CreateVenue(ctx, v); err != nil {
		t.Fatal(err)
	}
	if v.ID == "" {
		t.Fatal("expected a generated id")
	}

	got, err := store.GetVenue(ctx, v.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "State Theatre" || got.City != "Portland" {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if _, err := store.GetVenue(ctx, "missing"); !errors.Is(err, ErrVenueNotFound) {
		t.Errorf("expected ErrVenueNotFound, got %v", err)
	}

	list, err := store.ListVenues(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 venue, got %d", len(list))
	}
}

func TestFindEventBySourceURL(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := &Event{Name: "Imported Show", SourceURL: "https://example.com/show"}
	if err := store.CreateEvent(ctx, e); err != nil {
		t.Fatal(err)
	}

	got, err := store.FindEventBySourceURL(ctx, "https://example.com/show")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Imported Show" {
		t.Errorf("found wrong event: %+v", got)
	}

	if _, err := store.FindEventBySourceURL(ctx, "https://example.com/other"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}

func TestImportCreatesAndReusesVenue(t *testing.T) {
	store := newTestStore(t)
	handler := NewHandler(store)
	ctx := context.Background()

	promoter := &Promoter{CompanyName: "Maine Events LLC"}
	if err := store.CreatePromoter(ctx, promoter); err != nil {
		t.Fatal(err)
	}

	name := "Lobster Festival"
	req := api.ImportRequest{
		Event: api.ExtractedEvent{
			ExtractedEventData: api.ExtractedEventData{Name: &name},
			ExtractID:          "x-1",
		},
		VenueOption: api.VenueOption{Type: api.VenueNew, Name: "Harbor Park", City: "Rockland", State: "ME"},
		PromoterID:  promoter.ID,
		SourceURL:   "https://example.com/lobster",
	}

	resp, status := handler.Import(ctx, req)
	if !resp.Success {
		t.Fatalf("import failed (%d): %s", status, resp.Error)
	}
	if resp.VenueID == "" {
		t.Fatal("expected the created venue id in the response")
	}
	if resp.Event == nil || resp.Event.Slug != "lobster-festival" {
		t.Errorf("unexpected created event: %+v", resp.Event)
	}

	// A second import against the returned id must not create another venue.
	name2 := "Lobster Festival Day Two"
	req2 := api.ImportRequest{
		Event: api.ExtractedEvent{
			ExtractedEventData: api.ExtractedEventData{Name: &name2},
			ExtractID:          "x-2",
		},
		VenueOption: api.VenueOption{Type: api.VenueExisting, ID: resp.VenueID},
		PromoterID:  promoter.ID,
	}
	resp2, status := handler.Import(ctx, req2)
	if !resp2.Success {
		t.Fatalf("second import failed (%d): %s", status, resp2.Error)
	}
	if resp2.VenueID != "" {
		t.Errorf("existing-venue import must not report a created venue, got %q", resp2.VenueID)
	}

	venues, err := store.ListVenues(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(venues) != 1 {
		t.Errorf("expected exactly 1 venue, got %d", len(venues))
	}
}

func TestImportValidation(t *testing.T) {
	store := newTestStore(t)
	handler := NewHandler(store)
	ctx := context.Background()

	resp, status := handler.Import(ctx, api.ImportRequest{PromoterID: "p"})
	if resp.Success || status != 400 {
		t.Errorf("missing name should 400, got %d %+v", status, resp)
	}

	name := "X"
	resp, status = handler.Import(ctx, api.ImportRequest{
		Event: api.ExtractedEvent{ExtractedEventData: api.ExtractedEventData{Name: &name}},
	})
	if resp.Success || status != 400 {
		t.Errorf("missing promoter should 400, got %d %+v", status, resp)
	}

	resp, status = handler.Import(ctx, api.ImportRequest{
		Event:      api.ExtractedEvent{ExtractedEventData: api.ExtractedEventData{Name: &name}},
		PromoterID: "nope",
	})
	if resp.Success || status != 400 || resp.Error != "promoter not found" {
		t.Errorf("unknown promoter should 400, got %d %+v", status, resp)
	}
}
