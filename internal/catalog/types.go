package catalog

import "time"

// Venue is a physical event location in the catalog.
type Venue struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Promoter is the organization responsible for an event.
type Promoter struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"companyName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Event is a persisted catalog event. String fields mirror the extracted
// shape: empty means absent, dates are YYYY-MM-DD, times 24-hour HH:MM.
type Event struct {
	ID             string    `json:"id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	StartDate      string    `json:"startDate,omitempty"`
	EndDate        string    `json:"endDate,omitempty"`
	StartTime      string    `json:"startTime,omitempty"`
	EndTime        string    `json:"endTime,omitempty"`
	HoursVaryByDay bool      `json:"hoursVaryByDay,omitempty"`
	HoursNotes     string    `json:"hoursNotes,omitempty"`
	VenueID        string    `json:"venueId,omitempty"`
	PromoterID     string    `json:"promoterId,omitempty"`
	TicketURL      string    `json:"ticketUrl,omitempty"`
	TicketPriceMin *float64  `json:"ticketPriceMin,omitempty"`
	TicketPriceMax *float64  `json:"ticketPriceMax,omitempty"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	SourceURL      string    `json:"sourceUrl,omitempty"`
	DatesConfirmed bool      `json:"datesConfirmed,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
