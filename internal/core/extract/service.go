// Package extract turns page content into candidate events. The primary
// path is a model invocation with a strict JSON contract; structured data
// and plain-text heuristics serve as fallbacks so a model outage degrades
// to manual entry instead of a dead session.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"fairimport/internal/core/schemaorg"
	"fairimport/internal/logger"
	"fairimport/internal/platform/api"
	"fairimport/internal/platform/llm"
	"fairimport/prompts"

	gemini "github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"github.com/google/uuid"
)

type Mode string

const (
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

const (
	singleTruncateLimit = 15000
	multiTruncateLimit  = 20000
	truncationMarker    = "...[TRUNCATED]"

	singleMaxTokens = 1200
	multiMaxTokens  = 4000
)

type Service struct {
	log           *logger.Logger
	llm           *llm.Service
	systemPrompts *prompts.SystemPrompts
}

func NewService(llmService *llm.Service) *Service {
	return &Service{
		log:           logger.New("ExtractService"),
		llm:           llmService,
		systemPrompts: prompts.NewSystemPrompts(),
	}
}

// Extract produces zero or more candidate events plus per-field
// confidences. It never returns an error for model failures; those
// degrade through the fallback chain.
func (s *Service) Extract(ctx context.Context, req api.ExtractRequest, mode Mode) *api.ExtractResponse {
	if strings.TrimSpace(req.Content) == "" {
		return &api.ExtractResponse{Success: false, Error: "content is required"}
	}

	var sd *schemaorg.EventData
	if parsed := schemaorg.Parse(req.Metadata.JSONLD); parsed.Status == schemaorg.StatusAvailable {
		sd = parsed.Data
	}

	var rawEvents []map[string]interface{}
	if s.llm.Available() {
		var err error
		rawEvents, err = s.invokeModel(ctx, req, sd, mode)
		if err != nil {
			s.log.LogWarnf("Model extraction failed, falling back: %v", err)
		}
	} else {
		s.log.LogWarnf("No extraction model configured, using heuristic extraction")
	}

	candidates := make([]api.ExtractedEventData, 0, len(rawEvents))
	for _, raw := range rawEvents {
		candidates = append(candidates, sanitizeCandidate(raw))
	}

	if len(candidates) == 0 {
		if heuristic := ExtractFromText(req.Content); heuristic != nil {
			candidates = append(candidates, *heuristic)
		} else if fallback := EventFromMetadata(req.Metadata, sd); fallback != nil {
			candidates = append(candidates, *fallback)
		}
	}

	if len(candidates) == 0 {
		return &api.ExtractResponse{
			Success: false,
			Error:   "EXTRACT_FAIL: no event data could be extracted from this page",
		}
	}

	applyInheritance(candidates, req.Metadata)

	events := make([]api.ExtractedEvent, 0, len(candidates))
	confidence := api.EventConfidence{}
	for _, c := range candidates {
		ev := api.ExtractedEvent{
			ExtractedEventData: c,
			ExtractID:          uuid.NewString(),
			Selected:           true,
		}
		events = append(events, ev)
		confidence[ev.ExtractID] = ComputeConfidence(c, sd)
	}

	s.log.LogInfof("Extraction produced %d candidate(s) mode=%s", len(events), mode)
	return &api.ExtractResponse{Success: true, Events: events, Confidence: confidence}
}

func (s *Service) invokeModel(ctx context.Context, req api.ExtractRequest, sd *schemaorg.EventData, mode Mode) ([]map[string]interface{}, error) {
	limit := singleTruncateLimit
	maxTokens := singleMaxTokens
	template := s.systemPrompts.SingleEvent
	responseSchema := createEventObjectSchema()
	if mode == ModeMulti {
		limit = multiTruncateLimit
		maxTokens = multiMaxTokens
		template = s.systemPrompts.MultiEvent
		responseSchema = createEventListSchema()
	}

	content := req.Content
	if len(content) > limit {
		content = content[:limit] + truncationMarker
	}

	messages, err := template.Format(ctx, map[string]any{
		"page_url":        req.URL,
		"page_title":      req.Metadata.Title,
		"structured_hint": buildStructuredHint(req.Metadata.Title, sd),
		"content":         content,
	})
	if err != nil {
		return nil, fmt.Errorf("format template: %w", err)
	}

	response, usage, err := s.llm.GenerateWithTokenUsage(ctx, messages,
		model.WithTemperature(0.1),
		model.WithMaxTokens(maxTokens),
		gemini.WithResponseJSONSchema(responseSchema),
	)
	if err != nil {
		return nil, fmt.Errorf("model invocation: %w", err)
	}
	if usage != nil {
		s.log.LogDebugf("Extraction token usage: input=%d output=%d", usage.InputTokens, usage.OutputTokens)
	}

	events := resolveCandidates(llm.CleanJSONResponse(response.Content))
	if events == nil {
		return nil, fmt.Errorf("unparsable model response")
	}
	return events, nil
}

// buildStructuredHint gives the model any structured data found on the
// page, plus a nudge when the title is pipe-delimited site branding.
func buildStructuredHint(title string, sd *schemaorg.EventData) string {
	var b strings.Builder
	if sd != nil {
		if encoded, err := json.Marshal(sd); err == nil {
			b.WriteString("**Structured Data Found on Page**:\n")
			b.Write(encoded)
			b.WriteString("\n")
		}
	}
	if strings.Contains(title, "|") {
		b.WriteString("**Note**: the page title appears pipe-delimited; the event name is likely the first segment.\n")
	}
	return b.String()
}

// resolveCandidates applies the repair ladder for malformed or partial
// model output: a top-level array, then a single event-shaped object
// wrapped as one, then an object carrying an "events" array. Nil means
// nothing usable was found and the metadata fallback should run.
func resolveCandidates(raw string) []map[string]interface{} {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if arr := tryParseArray(raw); arr != nil {
		return arr
	}
	if start := strings.Index(raw, "["); start >= 0 {
		if end := strings.LastIndex(raw, "]"); end > start {
			if arr := tryParseArray(raw[start : end+1]); arr != nil {
				return arr
			}
		}
	}

	obj := tryParseObject(raw)
	if obj == nil {
		if start := strings.Index(raw, "{"); start >= 0 {
			if end := strings.LastIndex(raw, "}"); end > start {
				obj = tryParseObject(raw[start : end+1])
			}
		}
	}
	if obj == nil {
		return nil
	}

	if _, hasName := obj["name"]; hasName {
		return []map[string]interface{}{obj}
	}
	if _, hasTitle := obj["title"]; hasTitle {
		return []map[string]interface{}{obj}
	}

	if nested, ok := obj["events"].([]interface{}); ok {
		var out []map[string]interface{}
		for _, item := range nested {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	return nil
}

func tryParseArray(raw string) []map[string]interface{} {
	var items []interface{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

func tryParseObject(raw string) map[string]interface{} {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil
	}
	return obj
}

// sanitizeCandidate normalizes one raw model object into the canonical
// shape. Time fields fall back to a time embedded in the date fields when
// no explicit time was given.
func sanitizeCandidate(raw map[string]interface{}) api.ExtractedEventData {
	data := api.ExtractedEventData{
		Name:           SanitizeText(raw["name"]),
		Description:    SanitizeText(raw["description"]),
		StartDate:      SanitizeDate(raw["startDate"]),
		EndDate:        SanitizeDate(raw["endDate"]),
		StartTime:      SanitizeTime(raw["startTime"]),
		EndTime:        SanitizeTime(raw["endTime"]),
		HoursVaryByDay: SanitizeBool(raw["hoursVaryByDay"]),
		HoursNotes:     SanitizeText(raw["hoursNotes"]),
		VenueName:      SanitizeText(raw["venueName"]),
		VenueAddress:   SanitizeText(raw["venueAddress"]),
		VenueCity:      SanitizeText(raw["venueCity"]),
		VenueState:     SanitizeState(raw["venueState"]),
		TicketUrl:      SanitizeURL(raw["ticketUrl"]),
		TicketPriceMin: SanitizePrice(raw["ticketPriceMin"]),
		TicketPriceMax: SanitizePrice(raw["ticketPriceMax"]),
		ImageUrl:       SanitizeURL(raw["imageUrl"]),
	}

	if data.Name == nil {
		data.Name = SanitizeText(raw["title"])
	}
	if data.StartTime == nil {
		data.StartTime = SanitizeTime(raw["startDate"])
	}
	if data.EndTime == nil {
		data.EndTime = SanitizeTime(raw["endDate"])
	}

	return data
}

// applyInheritance fills gaps from page metadata: the first candidate
// takes the page title as its name, and every imageless candidate shares
// the social-preview image.
func applyInheritance(candidates []api.ExtractedEventData, meta api.PageMetadata) {
	if len(candidates) == 0 {
		return
	}

	if candidates[0].Name == nil {
		candidates[0].Name = SanitizeText(cleanPageTitle(meta.Title))
	}
	if candidates[0].ImageUrl == nil {
		candidates[0].ImageUrl = SanitizeURL(meta.OgImage)
	}

	for i := range candidates {
		if candidates[i].ImageUrl == nil {
			candidates[i].ImageUrl = SanitizeURL(meta.OgImage)
		}
	}
}
