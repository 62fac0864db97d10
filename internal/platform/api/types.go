package api

import "encoding/json"

// Wire shapes shared between handlers and the wizard. Field pointers carry
// the null/absent distinction end to end: a nil field was never extracted,
// an empty string was extracted as empty.

// ExtractedEventData is the canonical shape produced by any extraction path.
type ExtractedEventData struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	StartDate      *string  `json:"startDate"`
	EndDate        *string  `json:"endDate"`
	StartTime      *string  `json:"startTime"`
	EndTime        *string  `json:"endTime"`
	HoursVaryByDay *bool    `json:"hoursVaryByDay"`
	HoursNotes     *string  `json:"hoursNotes"`
	VenueName      *string  `json:"venueName"`
	VenueAddress   *string  `json:"venueAddress"`
	VenueCity      *string  `json:"venueCity"`
	VenueState     *string  `json:"venueState"`
	TicketUrl      *string  `json:"ticketUrl"`
	TicketPriceMin *float64 `json:"ticketPriceMin"`
	TicketPriceMax *float64 `json:"ticketPriceMax"`
	ImageUrl       *string  `json:"imageUrl"`
}

// ExtractedEvent adds the process-local triage fields. ExtractID is unique
// for the lifetime of one wizard session only and is never persisted.
type ExtractedEvent struct {
	ExtractedEventData
	ExtractID string `json:"_extractId"`
	Selected  bool   `json:"_selected"`
}

// Confidence is an advisory per-field quality rating. It drives UI
// affordances and never blocks a save.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// FieldConfidence maps an event field name to its rating.
type FieldConfidence map[string]Confidence

// EventConfidence maps an extract id to its per-field ratings.
type EventConfidence map[string]FieldConfidence

// PageMetadata is the page-level context handed to the extractor alongside
// raw content.
type PageMetadata struct {
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	OgImage     string          `json:"ogImage,omitempty"`
	JSONLD      json.RawMessage `json:"jsonLd,omitempty"`
}

// FetchResponse is the result of a server-side page fetch.
type FetchResponse struct {
	Success     bool            `json:"success"`
	Content     string          `json:"content,omitempty"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	OgImage     string          `json:"ogImage,omitempty"`
	JSONLD      json.RawMessage `json:"jsonLd,omitempty"`
	Links       []string        `json:"links,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// ExtractRequest is the POST /v1/extract body.
type ExtractRequest struct {
	Content  string       `json:"content"`
	URL      string       `json:"url,omitempty"`
	Metadata PageMetadata `json:"metadata"`
}

// ExtractResponse carries zero or more candidate events plus confidences.
type ExtractResponse struct {
	Success    bool             `json:"success"`
	Events     []ExtractedEvent `json:"events,omitempty"`
	Confidence EventConfidence  `json:"confidence,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// VenueOptionType tags the three-way venue choice.
type VenueOptionType string

const (
	VenueExisting VenueOptionType = "existing"
	VenueNew      VenueOptionType = "new"
	VenueNone     VenueOptionType = "none"
)

/// VenueOption is a tagged choice: exactly one variant is active. ID is set
// only for "existing"; the name/address fields only for "new".
type VenueOption struct {
	Type    VenueOptionType `json:"type"`
	ID      string          `json:"id,omitempty"`
	Name    string          `json:"name,omitempty"`
	Address string          `json:"address,omitempty"`
	City    string          `json:"city,omitempty"`
	State   string          `json:"state,omitempty"`
}

// Normalize enforces the one-active-variant invariant after JSON decoding.
func (v VenueOption) Normalize() VenueOption {
	switch v.Type {
	case VenueExisting:
		return VenueOption{Type: VenueExisting, ID: v.ID}
	case VenueNew:
		return VenueOption{Type: VenueNew, Name: v.Name, Address: v.Address, City: v.City, State: v.State}
	default:
		return VenueOption{Type: VenueNone}
	}
}

/// ImportRequest is the POST /v1/import body: one event plus its resolved
// venue/promoter choices.
type ImportRequest struct {
	Event          ExtractedEvent  `json:"event"`
	DatesConfirmed bool            `json:"datesConfirmed"`
	VenueOption    VenueOption     `json:"venueOption"`
	PromoterID     string          `json:"promoterId"`
	SourceURL      string          `json:"sourceUrl,omitempty"`
	JSONLD         json.RawMessage `json:"jsonLd,omitempty"`
}

// CreatedEvent identifies a persisted event.
type CreatedEvent struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

// ImportResponse reports the outcome of one import. VenueID is populated
// exactly when a new venue was created, so callers can reuse it for the
// rest of a batch.
type ImportResponse struct {
	Success bool          `json:"success"`
	Event   *CreatedEvent `json:"event,omitempty"`
	VenueID string        `json:"venueId,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// DuplicatePair is one likely duplicate found by the catalog sweep.
type DuplicatePair struct {
	Entity string  `json:"entity"`
	AID    string  `json:"aId"`
	AName  string  `json:"aName"`
	BID    string  `json:"bId"`
	BName  string  `json:"bName"`
	Score  float64 `json:"score"`
}

// DuplicateReport is the background sweep's result, stored with its job.
type DuplicateReport struct {
	Pairs     []DuplicatePair `json:"pairs"`
	Truncated bool            `json:"truncated"`
}

// DuplicateCheckResponse is the GET /v1/events/check-url result.
type DuplicateCheckResponse struct {
	IsDuplicate   bool           `json:"isDuplicate"`
	ExistingEvent *ExistingEvent `json:"existingEvent,omitempty"`
}

type ExistingEvent struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Error is the generic failure envelope.
type Error struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
