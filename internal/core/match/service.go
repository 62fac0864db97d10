// Package match scores candidate names against the existing catalog. It is
// advisory only: the wizard presents suggestions and a human decides.
package match

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"fairimport/internal/catalog"
	"fairimport/internal/logger"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const (
	// relevanceFloor drops noise matches before ranking.
	relevanceFloor = 0.3
	maxSuggestions = 5
	// maxReportCandidates bounds the quadratic duplicate report.
	maxReportCandidates = 500
	cityBonus           = 0.15
)

var (
	nonAlnum   = regexp.MustCompile(`[^a-z0-9]+`)
	multiSpace = regexp.MustCompile(`\s+`)
)

type Service struct {
	log   *logger.Logger
	store *catalog.Store
}

func NewService(store *catalog.Store) *Service {
	return &Service{log: logger.New("MatchService"), store: store}
}

// VenueSuggestion is one scored venue candidate.
type VenueSuggestion struct {
	Venue catalog.Venue `json:"venue"`
	Score float64       `json:"score"`
}

// MatchVenues scores every known venue against a candidate name, adding a
// bonus when the city matches case-insensitively, and returns the top five
// above the relevance floor.
func (s *Service) MatchVenues(ctx context.Context, name, city string) ([]VenueSuggestion, error) {
	venues, err := s.store.ListVenues(ctx)
	if err != nil {
		return nil, err
	}
	return RankVenues(venues, name, city), nil
}

// RankVenues is the pure scoring core, separated so it can run against any
// venue list.
func RankVenues(venues []catalog.Venue, name, city string) []VenueSuggestion {
	var out []VenueSuggestion
	for _, v := range venues {
		score := Similarity(name, v.Name)
		if city != "" && strings.EqualFold(strings.TrimSpace(city), strings.TrimSpace(v.City)) {
			score += cityBonus
		}
		if score < relevanceFloor {
			continue
		}
		out = append(out, VenueSuggestion{Venue: v, Score: math.Min(score, 1)})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// Similarity returns 0..1 for two names: token overlap blended with a
// fuzzy containment check, biased towards overlap.
func Similarity(query, candidate string) float64 {
	q := normalizeName(query)
	c := normalizeName(candidate)
	if q == "" || c == "" {
		return 0
	}
	if q == c {
		return 1
	}

	qt := strings.Fields(q)
	ctset := map[string]struct{}{}
	for _, t := range strings.Fields(c) {
		ctset[t] = struct{}{}
	}
	hit := 0
	for _, t := range qt {
		if _, ok := ctset[t]; ok {
			hit++
		}
	}
	overlap := float64(hit) / float64(len(qt))

	contains := 0.0
	if fuzzy.Match(q, c) || strings.Contains(c, q) {
		contains = 1.0
	}

	score := 0.70*overlap + 0.30*contains
	return math.Max(0, math.Min(1, score))
}

func normalizeName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = nonAlnum.ReplaceAllString(s, " ")
	return multiSpace.ReplaceAllString(strings.TrimSpace(s), " ")
}
