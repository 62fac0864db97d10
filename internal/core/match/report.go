package match

import (
	"context"
	"fmt"

	"fairimport/internal/platform/api"
)

// The duplicate report is an admin-facing sweep over the whole catalog:
// within each entity type, every pair of names is compared and likely
// duplicates are listed. It runs as a background job because the
// comparison is quadratic.

const duplicateThreshold = 0.8

type namedEntity struct {
	id   string
	name string
}

// BuildDuplicateReport scans events, venues, and promoters for
// near-duplicate names. Each entity list is capped at
// maxReportCandidates; a capped list is reported as truncated.
func (s *Service) BuildDuplicateReport(ctx context.Context) (*api.DuplicateReport, error) {
	report := &api.DuplicateReport{Pairs: []api.DuplicatePair{}}

	events, err := s.store.ListEventNames(ctx, maxReportCandidates+1)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	eventNames := make([]namedEntity, 0, len(events))
	for _, e := range events {
		eventNames = append(eventNames, namedEntity{id: e.ID, name: e.Name})
	}
	s.comparePairs("event", eventNames, report)

	venues, err := s.store.ListVenues(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	venueNames := make([]namedEntity, 0, len(venues))
	for _, v := range venues {
		venueNames = append(venueNames, namedEntity{id: v.ID, name: v.Name})
	}
	s.comparePairs("venue", venueNames, report)

	promoters, err := s.store.ListPromoters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list promoters: %w", err)
	}
	promoterNames := make([]namedEntity, 0, len(promoters))
	for _, p := range promoters {
		promoterNames = append(promoterNames, namedEntity{id: p.ID, name: p.CompanyName})
	}
	s.comparePairs("promoter", promoterNames, report)

	s.log.LogInfof("Duplicate report complete: %d pair(s) flagged", len(report.Pairs))
	return report, nil
}

func (s *Service) comparePairs(entity string, items []namedEntity, report *api.DuplicateReport) {
	if len(items) > maxReportCandidates {
		items = items[:maxReportCandidates]
		report.Truncated = true
	}
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			score := Similarity(items[i].name, items[j].name)
			if score < duplicateThreshold {
				continue
			}
			report.Pairs = append(report.Pairs, api.DuplicatePair{
				Entity: entity,
				AID:    items[i].id, AName: items[i].name,
				BID: items[j].id, BName: items[j].name,
				Score: score,
			})
		}
	}
}
