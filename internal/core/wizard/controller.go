// Package wizard drives the multi-step URL import flow: fetch, extract,
// triage, review, venue and promoter resolution, then a sequential batch
// save with retry-of-failed-only semantics. The state machine is plain
// functions over State so every transition is testable without transport.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fairimport/internal/core/extract"
	"fairimport/internal/core/fetch"
	"fairimport/internal/logger"
	"fairimport/internal/platform/api"

	"github.com/google/uuid"
)

// Fetcher retrieves page content server side.
type Fetcher interface {
	FetchURL(ctx context.Context, req fetch.Request) (*api.FetchResponse, error)
	ProcessPasted(content string) *api.FetchResponse
}

// Extractor produces candidate events from page content.
type Extractor interface {
	Extract(ctx context.Context, req api.ExtractRequest, mode extract.Mode) *api.ExtractResponse
}

// Saver persists one event. A returned error is a transport-level failure;
// a response with Success=false is a rejection with a reason.
type Saver interface {
	SaveEvent(ctx context.Context, req api.ImportRequest) (api.ImportResponse, error)
}

// DuplicateChecker reports whether a URL was already imported. Nil result
// means the check failed; that is never an obstacle to importing.
type DuplicateChecker interface {
	CheckURL(ctx context.Context, url string) *api.DuplicateCheckResponse
}

type Controller struct {
	log       *logger.Logger
	fetcher   Fetcher
	extractor Extractor
	saver     Saver
	dup       DuplicateChecker
}

func NewController(fetcher Fetcher, extractor Extractor, saver Saver, dup DuplicateChecker) *Controller {
	return &Controller{
		log:       logger.New("Wizard"),
		fetcher:   fetcher,
		extractor: extractor,
		saver:     saver,
		dup:       dup,
	}
}

// StartFetch runs the fetch-then-extract sequence for a URL. A canceled
// context is a silent no-op; a fetch failure returns to url-input with a
// message suggesting the paste fallback.
func (c *Controller) StartFetch(ctx context.Context, st *State, url string) {
	if extract.SanitizeURL(url) == nil {
		st.ErrorMessage = "Please enter a valid URL"
		return
	}

	st.Step = StepFetching
	st.ErrorMessage = ""
	st.SourceURL = url
	st.DuplicateWarning = ""

	resp, err := c.fetcher.FetchURL(ctx, fetch.Request{URL: url})
	if canceled(ctx) {
		return
	}
	if err != nil || resp == nil || !resp.Success {
		st.Step = StepURLInput
		st.ErrorMessage = "Could not fetch that page. You can paste the page content instead."
		if err != nil {
			c.log.LogWarnf("Fetch failed url=%s: %v", url, err)
		}
		return
	}

	// Advisory only; a failed check never blocks the import.
	if c.dup != nil {
		if check := c.dup.CheckURL(ctx, url); check != nil && check.IsDuplicate && check.ExistingEvent != nil {
			st.DuplicateWarning = fmt.Sprintf("An event was already imported from this URL: %s", check.ExistingEvent.Name)
		}
	}

	c.runExtract(ctx, st, resp)
}

// StartPaste runs extraction over manually pasted content.
func (c *Controller) StartPaste(ctx context.Context, st *State, content string) {
	if strings.TrimSpace(content) == "" {
		st.ErrorMessage = "Please paste some content first"
		return
	}
	st.ErrorMessage = ""
	st.SourceURL = ""
	resp := c.fetcher.ProcessPasted(content)
	c.runExtract(ctx, st, resp)
}

func (c *Controller) runExtract(ctx context.Context, st *State, resp *api.FetchResponse) {
	st.Step = StepExtracting
	st.RawContent = resp.Content
	st.Metadata = api.PageMetadata{
		Title:       resp.Title,
		Description: resp.Description,
		OgImage:     resp.OgImage,
		JSONLD:      resp.JSONLD,
	}

	res := c.extractor.Extract(ctx, api.ExtractRequest{
		Content:  resp.Content,
		URL:      st.SourceURL,
		Metadata: st.Metadata,
	}, extract.ModeMulti)
	if canceled(ctx) {
		return
	}

	if res == nil || !res.Success || len(res.Events) == 0 {
		// Extraction failure is never a dead end: land on review with an
		// empty form for manual entry.
		st.Step = StepReview
		st.Candidates = []api.ExtractedEvent{}
		st.EventsToImport = []api.ExtractedEvent{}
		st.CurrentEventIndex = 0
		st.CurrentEvent = api.ExtractedEventData{}
		st.ErrorMessage = "No events found on this page. You can fill in the details manually."
		return
	}

	st.Candidates = res.Events
	st.Confidence = res.Confidence
	st.SelectedEventIDs = map[string]bool{}
	for _, ev := range res.Events {
		st.SelectedEventIDs[ev.ExtractID] = true
	}

	if len(res.Events) == 1 {
		// Single candidate: skip triage.
		c.ConfirmSelection(st)
		return
	}
	st.Step = StepSelectEvents
}

// ToggleEvent flips one candidate's selection.
func (c *Controller) ToggleEvent(st *State, extractID string) {
	for _, ev := range st.Candidates {
		if ev.ExtractID == extractID {
			st.SelectedEventIDs[extractID] = !st.SelectedEventIDs[extractID]
			return
		}
	}
}

// ToggleSelectAll clears the selection when everything is selected, and
// selects everything otherwise.
func (c *Controller) ToggleSelectAll(st *State) {
	allSelected := len(st.Candidates) > 0
	for _, ev := range st.Candidates {
		if !st.SelectedEventIDs[ev.ExtractID] {
			allSelected = false
			break
		}
	}

	st.SelectedEventIDs = map[string]bool{}
	if !allSelected {
		for _, ev := range st.Candidates {
			st.SelectedEventIDs[ev.ExtractID] = true
		}
	}
}

// ConfirmSelection copies the selected candidates into the import list and
// opens review on the first one. Copies, not references: review edits must
// not write back into the candidate list.
func (c *Controller) ConfirmSelection(st *State) {
	var selected []api.ExtractedEvent
	for _, ev := range st.Candidates {
		if st.SelectedEventIDs[ev.ExtractID] {
			selected = append(selected, ev)
		}
	}
	if len(selected) == 0 {
		st.ErrorMessage = "Select at least one event to import"
		return
	}

	st.ErrorMessage = ""
	st.EventsToImport = selected
	st.CurrentEventIndex = 0
	st.CurrentEvent = selected[0].ExtractedEventData
	c.defaultVenueFields(st)
	st.Step = StepReview
}

// defaultVenueFields seeds the venue step from the extracted venue so it
// opens with sensible values.
func (c *Controller) defaultVenueFields(st *State) {
	if st.SelectedVenueID != "" || st.NewVenueName != "" {
		return
	}
	st.NewVenueName = deref(st.CurrentEvent.VenueName)
	st.NewVenueAddress = deref(st.CurrentEvent.VenueAddress)
	st.NewVenueCity = deref(st.CurrentEvent.VenueCity)
	st.NewVenueState = deref(st.CurrentEvent.VenueState)
}

// SetCurrentEvent replaces the editable form with the submitted values.
func (c *Controller) SetCurrentEvent(st *State, data api.ExtractedEventData, datesConfirmed bool) {
	st.CurrentEvent = data
	st.DatesConfirmed = datesConfirmed
}

// NavigateReview moves between events under review. Edits are always
// flushed before moving, so back/forward never drops them. Backing past
// the first event leaves review entirely.
func (c *Controller) NavigateReview(st *State, delta int) {
	c.flushEdits(st)

	next := st.CurrentEventIndex + delta
	if next < 0 {
		if len(st.Candidates) > 1 {
			st.Step = StepSelectEvents
		} else {
			st.Step = StepURLInput
		}
		return
	}
	if next >= len(st.EventsToImport) {
		return
	}

	st.CurrentEventIndex = next
	st.CurrentEvent = st.EventsToImport[next].ExtractedEventData
}

// flushEdits writes the editable form back into the import list.
func (c *Controller) flushEdits(st *State) {
	if st.CurrentEventIndex >= 0 && st.CurrentEventIndex < len(st.EventsToImport) {
		st.EventsToImport[st.CurrentEventIndex].ExtractedEventData = st.CurrentEvent
	}
}

// ProceedToVenue gates on a non-empty event name. Pure manual entry (no
// candidates at all) synthesizes a single event from the form.
func (c *Controller) ProceedToVenue(st *State) {
	if st.CurrentEvent.Name == nil || strings.TrimSpace(*st.CurrentEvent.Name) == "" {
		st.ErrorMessage = "Event name is required"
		return
	}
	st.ErrorMessage = ""

	if len(st.EventsToImport) == 0 {
		st.EventsToImport = []api.ExtractedEvent{{
			ExtractedEventData: st.CurrentEvent,
			ExtractID:          "manual-" + uuid.NewString(),
			Selected:           true,
		}}
		st.CurrentEventIndex = 0
	}

	c.flushEdits(st)
	c.defaultVenueFields(st)
	st.Step = StepVenue
}

// SelectExistingVenue picks a known venue and clears the new-venue form:
// exactly one variant of the venue choice is ever active.
func (c *Controller) SelectExistingVenue(st *State, venueID string) {
	st.SelectedVenueID = venueID
	st.NewVenueName = ""
	st.NewVenueAddress = ""
	st.NewVenueCity = ""
	st.NewVenueState = ""
}

// SetNewVenue fills the new-venue form and clears any existing selection.
func (c *Controller) SetNewVenue(st *State, name, address, city, state string) {
	st.SelectedVenueID = ""
	st.NewVenueName = name
	st.NewVenueAddress = address
	st.NewVenueCity = city
	st.NewVenueState = state
}

// ProceedToPromoter resolves the three-way venue choice from whichever
// input is populated, defaulting to none.
func (c *Controller) ProceedToPromoter(st *State) {
	switch {
	case st.SelectedVenueID != "":
		st.VenueOption = api.VenueOption{Type: api.VenueExisting, ID: st.SelectedVenueID}
	case strings.TrimSpace(st.NewVenueName) != "":
		st.VenueOption = api.VenueOption{
			Type:    api.VenueNew,
			Name:    strings.TrimSpace(st.NewVenueName),
			Address: strings.TrimSpace(st.NewVenueAddress),
			City:    strings.TrimSpace(st.NewVenueCity),
			State:   strings.TrimSpace(st.NewVenueState),
		}
	default:
		st.VenueOption = api.VenueOption{Type: api.VenueNone}
	}
	st.Step = StepPromoter
}

func (c *Controller) SetPromoter(st *State, promoterID string) {
	st.PromoterID = promoterID
}

// ProceedToPreview gates on a promoter selection.
func (c *Controller) ProceedToPreview(st *State) {
	if strings.TrimSpace(st.PromoterID) == "" {
		st.ErrorMessage = "Select a promoter before continuing"
		return
	}
	st.ErrorMessage = ""
	st.Step = StepPreview
}

// Save persists the whole import list sequentially and lands on success,
// reporting per-item outcomes.
func (c *Controller) Save(ctx context.Context, st *State) {
	c.flushEdits(st)
	st.Step = StepSaving
	st.CreatedEvents = []api.CreatedEvent{}
	st.BatchErrors = []BatchError{}

	c.saveEvents(ctx, st, st.EventsToImport)
	st.Step = StepSuccess
}

// Retry re-runs the save for only the events whose names appear in the
// last batch's error list, appending new successes to the existing ones.
func (c *Controller) Retry(ctx context.Context, st *State) {
	if len(st.BatchErrors) == 0 {
		return
	}

	failed := map[string]bool{}
	for _, be := range st.BatchErrors {
		failed[be.EventName] = true
	}

	var subset []api.ExtractedEvent
	for _, ev := range st.EventsToImport {
		if failed[eventName(ev.ExtractedEventData)] {
			subset = append(subset, ev)
		}
	}
	if len(subset) == 0 {
		return
	}

	st.Step = StepSaving
	st.BatchErrors = []BatchError{}
	c.saveEvents(ctx, st, subset)
	st.Step = StepSuccess
}

// saveEvents is the one save loop both Save and Retry use. It is
// sequential on purpose: once any item creates a new venue, every later
// item in the batch must reuse that venue's id instead of creating
// another row.
func (c *Controller) saveEvents(ctx context.Context, st *State, events []api.ExtractedEvent) {
	st.Progress = SaveProgress{Current: 0, Total: len(events)}

	for i, ev := range events {
		resp, err := c.saver.SaveEvent(ctx, api.ImportRequest{
			Event:          ev,
			DatesConfirmed: st.DatesConfirmed,
			VenueOption:    st.VenueOption,
			PromoterID:     st.PromoterID,
			SourceURL:      st.SourceURL,
			JSONLD:         st.Metadata.JSONLD,
		})
		st.Progress.Current = i + 1

		name := eventName(ev.ExtractedEventData)
		switch {
		case err != nil:
			c.log.LogWarnf("Save transport failure for %q: %v", name, err)
			st.BatchErrors = append(st.BatchErrors, BatchError{EventName: name, Message: "Network error"})
		case !resp.Success:
			msg := resp.Error
			if msg == "" {
				msg = "Save failed"
			}
			st.BatchErrors = append(st.BatchErrors, BatchError{EventName: name, Message: msg})
		default:
			if resp.Event != nil {
				st.CreatedEvents = append(st.CreatedEvents, *resp.Event)
			}
			if st.VenueOption.Type == api.VenueNew && resp.VenueID != "" {
				st.VenueOption = api.VenueOption{Type: api.VenueExisting, ID: resp.VenueID}
			}
		}
	}
}

func eventName(d api.ExtractedEventData) string {
	if d.Name != nil && strings.TrimSpace(*d.Name) != "" {
		return *d.Name
	}
	return "(unnamed event)"
}

func canceled(ctx context.Context) bool {
	return ctx != nil && errors.Is(ctx.Err(), context.Canceled)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
