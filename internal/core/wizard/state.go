package wizard

import (
	"fairimport/internal/catalog"
	"fairimport/internal/platform/api"
)

// Step is the wizard's current position in the import flow.
type Step string

const (
	StepURLInput     Step = "url-input"
	StepFetching     Step = "fetching"
	StepExtracting   Step = "extracting"
	StepSelectEvents Step = "select-events"
	StepReview       Step = "review"
	StepVenue        Step = "venue"
	StepPromoter     Step = "promoter"
	StepPreview      Step = "preview"
	StepSaving       Step = "saving"
	StepSuccess      Step = "success"
)

type SaveProgress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// BatchError records one failed save, keyed by event name so retry can
// scope to exactly the failed subset.
type BatchError struct {
	EventName string `json:"eventName"`
	Message   string `json:"message"`
}

// State is the single source of truth for one in-progress import. It is
// owned by one session, never shared, and never persisted; transitions are
// the only way to mutate it.
type State struct {
	Step         Step   `json:"step"`
	ErrorMessage string `json:"errorMessage,omitempty"`

	SourceURL        string           `json:"sourceUrl,omitempty"`
	RawContent       string           `json:"-"`
	Metadata         api.PageMetadata `json:"metadata"`
	DuplicateWarning string           `json:"duplicateWarning,omitempty"`

	Candidates       []api.ExtractedEvent `json:"candidates"`
	Confidence       api.EventConfidence  `json:"confidence,omitempty"`
	SelectedEventIDs map[string]bool      `json:"selectedEventIds"`

	EventsToImport    []api.ExtractedEvent   `json:"eventsToImport"`
	CurrentEventIndex int                    `json:"currentEventIndex"`
	CurrentEvent      api.ExtractedEventData `json:"currentEvent"`
	DatesConfirmed    bool                   `json:"datesConfirmed"`

	SelectedVenueID string          `json:"selectedVenueId,omitempty"`
	NewVenueName    string          `json:"newVenueName,omitempty"`
	NewVenueAddress string          `json:"newVenueAddress,omitempty"`
	NewVenueCity    string          `json:"newVenueCity,omitempty"`
	NewVenueState   string          `json:"newVenueState,omitempty"`
	VenueOption     api.VenueOption `json:"venueOption"`

	PromoterID string `json:"promoterId,omitempty"`

	Progress      SaveProgress       `json:"progress"`
	CreatedEvents []api.CreatedEvent `json:"createdEvents"`
	BatchErrors   []BatchError       `json:"batchErrors"`

	// Reference lists survive a reset so the UI does not reload them.
	Venues    []catalog.Venue    `json:"venues"`
	Promoters []catalog.Promoter `json:"promoters"`
}

// NewState returns the initial wizard state with reference data attached.
func NewState(venues []catalog.Venue, promoters []catalog.Promoter) *State {
	if venues == nil {
		venues = []catalog.Venue{}
	}
	if promoters == nil {
		promoters = []catalog.Promoter{}
	}
	return &State{
		Step:             StepURLInput,
		SelectedEventIDs: map[string]bool{},
		Candidates:       []api.ExtractedEvent{},
		EventsToImport:   []api.ExtractedEvent{},
		CreatedEvents:    []api.CreatedEvent{},
		BatchErrors:      []BatchError{},
		VenueOption:      api.VenueOption{Type: api.VenueNone},
		Venues:           venues,
		Promoters:        promoters,
	}
}

// Reset returns to the initial state while keeping the loaded reference
// lists.
func (st *State) Reset() {
	*st = *NewState(st.Venues, st.Promoters)
}
