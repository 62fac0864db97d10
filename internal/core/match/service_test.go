package match

import (
	"testing"

	"fairimport/internal/catalog"
)

func TestSimilarity(t *testing.T) {
	if got := Similarity("The State Theatre", "State Theatre, The"); got < 0.69 {
		t.Errorf("reordered tokens should still score on overlap, got %v", got)
	}
	if got := Similarity("State Theatre", "State Theatre Portland"); got < 0.9 {
		t.Errorf("full token overlap plus containment should score high, got %v", got)
	}
	if got := Similarity("State Theatre", "Aura"); got > 0.2 {
		t.Errorf("unrelated names should score low, got %v", got)
	}
	if got := Similarity("", "Anything"); got != 0 {
		t.Errorf("empty query should score 0, got %v", got)
	}
	if got := Similarity("state-theatre", "STATE_THEATRE"); got != 1 {
		t.Errorf("punctuation and case should not matter, got %v", got)
	}
}

func TestRankVenuesOrderingAndFloor(t *testing.T) {
	venues := []catalog.Venue{
		{ID: "1", Name: "State Theatre", City: "Portland"},
		{ID: "2", Name: "State Theatre Annex", City: "Portland"},
		{ID: "3", Name: "Completely Different Hall", City: "Bangor"},
	}

	got := RankVenues(venues, "State Theatre", "")
	if len(got) != 2 {
		t.Fatalf("expected the unrelated venue filtered out, got %d results", len(got))
	}
	if got[0].Venue.ID != "1" {
		t.Errorf("exact match should rank first, got %s", got[0].Venue.ID)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("results out of order at %d: %v > %v", i, got[i].Score, got[i-1].Score)
		}
	}
}

func TestRankVenuesCityBonus(t *testing.T) {
	venues := []catalog.Venue{
		{ID: "a", Name: "Grand Hall", City: "Augusta"},
		{ID: "b", Name: "Grand Hall", City: "Portland"},
	}

	got := RankVenues(venues, "Grand Hall", "portland")
	if len(got) != 2 {
		t.Fatalf("expected both venues, got %d", len(got))
	}

	venues = []catalog.Venue{
		{ID: "a", Name: "Grand Hall East", City: "Augusta"},
		{ID: "b", Name: "Grand Hall West", City: "Portland"},
	}
	got = RankVenues(venues, "Grand Hall Theatre", "Portland")
	if got[0].Venue.ID != "b" {
		t.Errorf("city match should rank first, got %s", got[0].Venue.ID)
	}
	if got[0].Score > 1 {
		t.Errorf("score must cap at 1, got %v", got[0].Score)
	}
}

func TestRankVenuesTopFive(t *testing.T) {
	var venues []catalog.Venue
	for i := 0; i < 8; i++ {
		venues = append(venues, catalog.Venue{ID: string(rune('a' + i)), Name: "River Stage"})
	}
	got := RankVenues(venues, "River Stage", "")
	if len(got) != 5 {
		t.Errorf("expected 5 suggestions max, got %d", len(got))
	}
}
