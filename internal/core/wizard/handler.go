package wizard

import (
	"context"

	"fairimport/internal/catalog"
	"fairimport/internal/logger"
	"fairimport/internal/platform/api"

	"github.com/gofiber/fiber/v2"
)

// ReferenceData supplies the venue and promoter lists a new session is
// seeded with.
type ReferenceData interface {
	ListVenues(ctx context.Context) ([]catalog.Venue, error)
	ListPromoters(ctx context.Context) ([]catalog.Promoter, error)
}

type Handler struct {
	log        *logger.Logger
	registry   *Registry
	controller *Controller
	refs       ReferenceData
}

func NewHandler(registry *Registry, controller *Controller, refs ReferenceData) *Handler {
	return &Handler{
		log:        logger.New("WizardHandler"),
		registry:   registry,
		controller: controller,
		refs:       refs,
	}
}

// HandleCreateSession starts a wizard session seeded with the current
// venue and promoter lists. List failures degrade to empty lists; the
// wizard still works, the dropdowns are just empty.
func (h *Handler) HandleCreateSession(c *fiber.Ctx) error {
	ctx := c.Context()

	venues, err := h.refs.ListVenues(ctx)
	if err != nil {
		h.log.LogWarnf("Listing venues for new session: %v", err)
	}
	promoters, err := h.refs.ListPromoters(ctx)
	if err != nil {
		h.log.LogWarnf("Listing promoters for new session: %v", err)
	}

	sess := h.registry.Create(NewState(venues, promoters))
	h.log.LogDebugf("Session created id=%s", sess.ID)
	return c.Status(fiber.StatusCreated).JSON(sess)
}

func (h *Handler) HandleGetSession(c *fiber.Ctx) error {
	sess, ok := h.registry.Get(c.Params("sessionId"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(api.Error{Error: "session not found"})
	}
	sess.Lock()
	defer sess.Unlock()
	return c.JSON(sess)
}

// HandleDeleteSession tears a session down, aborting any in-flight
// fetch or extraction.
func (h *Handler) HandleDeleteSession(c *fiber.Ctx) error {
	h.registry.Remove(c.Params("sessionId"))
	return c.JSON(fiber.Map{"success": true})
}

type fetchBody struct {
	URL string `json:"url"`
}

func (h *Handler) HandleFetch(c *fiber.Ctx) error {
	return h.transition(c, func(ctx context.Context, st *State) {
		var p fetchBody
		if err := c.BodyParser(&p); err != nil {
			st.ErrorMessage = "Please enter a valid URL"
			return
		}
		h.controller.StartFetch(ctx, st, p.URL)
	})
}

type pasteBody struct {
	Content string `json:"content"`
}

func (h *Handler) HandlePaste(c *fiber.Ctx) error {
	return h.transition(c, func(ctx context.Context, st *State) {
		var p pasteBody
		if err := c.BodyParser(&p); err != nil {
			st.ErrorMessage = "Please paste some content first"
			return
		}
		h.controller.StartPaste(ctx, st, p.Content)
	})
}

type selectBody struct {
	Action    string `json:"action"`
	ExtractID string `json:"extractId"`
}

func (h *Handler) HandleSelect(c *fiber.Ctx) error {
	return h.transition(c, func(_ context.Context, st *State) {
		var p selectBody
		if err := c.BodyParser(&p); err != nil {
			return
		}
		switch p.Action {
		case "toggle":
			h.controller.ToggleEvent(st, p.ExtractID)
		case "toggle-all":
			h.controller.ToggleSelectAll(st)
		case "confirm":
			h.controller.ConfirmSelection(st)
		}
	})
}

type reviewBody struct {
	Event          *api.ExtractedEventData `json:"event"`
	DatesConfirmed bool                    `json:"datesConfirmed"`
	Action         string                  `json:"action"`
}

// HandleReview applies form edits, then navigates. "next"/"back" move
// within the import list; "continue" advances to the venue step.
func (h *Handler) HandleReview(c *fiber.Ctx) error {
	return h.transition(c, func(_ context.Context, st *State) {
		var p reviewBody
		if err := c.BodyParser(&p); err != nil {
			return
		}
		if p.Event != nil {
			h.controller.SetCurrentEvent(st, *p.Event, p.DatesConfirmed)
		}
		switch p.Action {
		case "next":
			h.controller.NavigateReview(st, 1)
		case "back":
			h.controller.NavigateReview(st, -1)
		case "continue":
			h.controller.ProceedToVenue(st)
		}
	})
}

type venueBody struct {
	VenueID string `json:"venueId"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
}

func (h *Handler) HandleVenue(c *fiber.Ctx) error {
	return h.transition(c, func(_ context.Context, st *State) {
		var p venueBody
		if err := c.BodyParser(&p); err != nil {
			return
		}
		if p.VenueID != "" {
			h.controller.SelectExistingVenue(st, p.VenueID)
		} else {
			h.controller.SetNewVenue(st, p.Name, p.Address, p.City, p.State)
		}
		h.controller.ProceedToPromoter(st)
	})
}

type promoterBody struct {
	PromoterID string `json:"promoterId"`
}

func (h *Handler) HandlePromoter(c *fiber.Ctx) error {
	return h.transition(c, func(_ context.Context, st *State) {
		var p promoterBody
		if err := c.BodyParser(&p); err != nil {
			return
		}
		h.controller.SetPromoter(st, p.PromoterID)
		h.controller.ProceedToPreview(st)
	})
}

func (h *Handler) HandleSave(c *fiber.Ctx) error {
	return h.transition(c, func(ctx context.Context, st *State) {
		h.controller.Save(ctx, st)
	})
}

func (h *Handler) HandleRetry(c *fiber.Ctx) error {
	return h.transition(c, func(ctx context.Context, st *State) {
		h.controller.Retry(ctx, st)
	})
}

// HandleReset returns the session to url-input, keeping the venue and
// promoter reference lists.
func (h *Handler) HandleReset(c *fiber.Ctx) error {
	return h.transition(c, func(_ context.Context, st *State) {
		st.Reset()
	})
}

// transition is the shared skeleton: look up the session, take its op
// context (superseding any in-flight work), run the step under the state
// lock, and return the updated session.
func (h *Handler) transition(c *fiber.Ctx, fn func(ctx context.Context, st *State)) error {
	sess, ok := h.registry.Get(c.Params("sessionId"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(api.Error{Error: "session not found"})
	}

	ctx := sess.BeginOp()
	sess.Lock()
	defer sess.Unlock()
	fn(ctx, sess.State)
	return c.JSON(sess)
}
