package catalog

import (
	"context"
	"errors"
	"strings"

	"fairimport/internal/platform/api"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) HandleListVenues(c *fiber.Ctx) error {
	venues, err := h.store.ListVenues(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Error{Error: err.Error()})
	}
	if venues == nil {
		venues = []Venue{}
	}
	return c.JSON(fiber.Map{"success": true, "venues": venues})
}

func (h *Handler) HandleListPromoters(c *fiber.Ctx) error {
	promoters, err := h.store.ListPromoters(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Error{Error: err.Error()})
	}
	if promoters == nil {
		promoters = []Promoter{}
	}
	return c.JSON(fiber.Map{"success": true, "promoters": promoters})
}

// HandleCheckURL reports whether an event was already imported from a URL.
// Errors degrade to "not a duplicate" so a storage hiccup never blocks an
// import.
func (h *Handler) HandleCheckURL(c *fiber.Ctx) error {
	url := strings.TrimSpace(c.Query("url"))
	if url == "" {
		return c.Status(fiber.StatusBadRequest).JSON(api.Error{Error: "url is required"})
	}

	existing, err := h.store.FindEventBySourceURL(c.Context(), url)
	if err != nil {
		return c.JSON(api.DuplicateCheckResponse{IsDuplicate: false})
	}
	return c.JSON(api.DuplicateCheckResponse{
		IsDuplicate:   true,
		ExistingEvent: &api.ExistingEvent{Name: existing.Name, Slug: existing.Slug},
	})
}

func (h *Handler) HandleImport(c *fiber.Ctx) error {
	var req api.ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(api.Error{Error: "invalid request body"})
	}

	resp, status := h.Import(c.Context(), req)
	return c.Status(status).JSON(resp)
}

// Import persists one extracted event, resolving its venue choice first.
// VenueID is returned only when a new venue was created here, so a batch
// caller can switch subsequent saves to "existing".
func (h *Handler) Import(ctx context.Context, req api.ImportRequest) (api.ImportResponse, int) {
	if req.Event.Name == nil || strings.TrimSpace(*req.Event.Name) == "" {
		return api.ImportResponse{Error: "event name is required"}, fiber.StatusBadRequest
	}
	if strings.TrimSpace(req.PromoterID) == "" {
		return api.ImportResponse{Error: "promoterId is required"}, fiber.StatusBadRequest
	}
	if _, err := h.store.GetPromoter(ctx, req.PromoterID); err != nil {
		if errors.Is(err, ErrPromoterNotFound) {
			return api.ImportResponse{Error: "promoter not found"}, fiber.StatusBadRequest
		}
		return api.ImportResponse{Error: err.Error()}, fiber.StatusInternalServerError
	}

	opt := req.VenueOption.Normalize()
	var venueID string
	var createdVenueID string
	switch opt.Type {
	case api.VenueExisting:
		venue, err := h.store.GetVenue(ctx, opt.ID)
		if err != nil {
			if errors.Is(err, ErrVenueNotFound) {
				return api.ImportResponse{Error: "venue not found"}, fiber.StatusBadRequest
			}
			return api.ImportResponse{Error: err.Error()}, fiber.StatusInternalServerError
		}
		venueID = venue.ID
	case api.VenueNew:
		venue := &Venue{Name: opt.Name, Address: opt.Address, City: opt.City, State: opt.State}
		if err := h.store.CreateVenue(ctx, venue); err != nil {
			return api.ImportResponse{Error: err.Error()}, fiber.StatusInternalServerError
		}
		venueID = venue.ID
		createdVenueID = venue.ID
	}

	event := eventFromExtracted(req.Event.ExtractedEventData)
	event.VenueID = venueID
	event.PromoterID = req.PromoterID
	event.SourceURL = req.SourceURL
	event.DatesConfirmed = req.DatesConfirmed

	if err := h.store.CreateEvent(ctx, event); err != nil {
		return api.ImportResponse{Error: err.Error()}, fiber.StatusInternalServerError
	}

	return api.ImportResponse{
		Success: true,
		Event:   &api.CreatedEvent{ID: event.ID, Slug: event.Slug},
		VenueID: createdVenueID,
	}, fiber.StatusOK
}

// SaveEvent adapts Import for in-process batch callers. The in-process
// path has no transport, so the error is always nil and every failure is
// carried in the response.
func (h *Handler) SaveEvent(ctx context.Context, req api.ImportRequest) (api.ImportResponse, error) {
	resp, _ := h.Import(ctx, req)
	return resp, nil
}

// CheckURL is the in-process duplicate probe. Lookup errors degrade to
// "not a duplicate", same as the HTTP endpoint.
func (h *Handler) CheckURL(ctx context.Context, url string) *api.DuplicateCheckResponse {
	existing, err := h.store.FindEventBySourceURL(ctx, url)
	if err != nil {
		return &api.DuplicateCheckResponse{IsDuplicate: false}
	}
	return &api.DuplicateCheckResponse{
		IsDuplicate:   true,
		ExistingEvent: &api.ExistingEvent{Name: existing.Name, Slug: existing.Slug},
	}
}

func eventFromExtracted(d api.ExtractedEventData) *Event {
	e := &Event{
		Name:           deref(d.Name),
		Description:    deref(d.Description),
		StartDate:      deref(d.StartDate),
		EndDate:        deref(d.EndDate),
		StartTime:      deref(d.StartTime),
		EndTime:        deref(d.EndTime),
		HoursNotes:     deref(d.HoursNotes),
		TicketURL:      deref(d.TicketUrl),
		TicketPriceMin: d.TicketPriceMin,
		TicketPriceMax: d.TicketPriceMax,
		ImageURL:       deref(d.ImageUrl),
	}
	if d.HoursVaryByDay != nil {
		e.HoursVaryByDay = *d.HoursVaryByDay
	}
	return e
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
