package server

import (
	"fairimport/internal/catalog"
	"fairimport/internal/core/extract"
	"fairimport/internal/core/fetch"
	"fairimport/internal/core/job"
	"fairimport/internal/core/mapper"
	"fairimport/internal/core/match"
	"fairimport/internal/core/wizard"
	"fairimport/internal/health"
	"fairimport/internal/platform/redis"
	tasks "fairimport/internal/platform/tasks"

	"github.com/gofiber/fiber/v2"
)

type Dependencies struct {
	Job        *job.JobService
	Fetch      *fetch.Service
	Map        *mapper.Service
	Extract    *extract.Service
	Match      *match.Service
	Store      *catalog.Store
	Wizard     *wizard.Controller
	Sessions   *wizard.Registry
	Tasks      *tasks.Client
	Redis      *redis.Service
	MaxRetries int
}

func RegisterRoutes(app *fiber.App, d Dependencies) *health.HealthHandler {
	// Health endpoints
	healthHandler := health.NewHealthHandler(d.Redis, d.Store)
	app.Get("/v1/health", health.HealthLimiter(), healthHandler.HandleHealth)

	api := app.Group("/v1")

	fetchHandler := fetch.NewHandler(d.Fetch, d.Map)
	api.Get("/fetch", fetchHandler.HandleGetFetch)

	extractHandler := extract.NewHandler(d.Extract)
	api.Post("/extract", extractHandler.HandlePostExtract)

	catalogHandler := catalog.NewHandler(d.Store)
	api.Get("/venues", catalogHandler.HandleListVenues)
	api.Get("/promoters", catalogHandler.HandleListPromoters)
	api.Get("/events/check-url", catalogHandler.HandleCheckURL)
	api.Post("/import", catalogHandler.HandleImport)

	matchHandler := match.NewHandler(d.Match, d.Job, d.Tasks, d.MaxRetries)
	api.Get("/match/venues", matchHandler.HandleMatchVenues)
	api.Post("/reports/duplicates", matchHandler.HandleCreateDuplicateReport)
	api.Get("/reports/duplicates/:jobId", matchHandler.HandleGetDuplicateReport)

	wizardHandler := wizard.NewHandler(d.Sessions, d.Wizard, d.Store)
	api.Post("/wizard", wizardHandler.HandleCreateSession)
	api.Get("/wizard/:sessionId", wizardHandler.HandleGetSession)
	api.Delete("/wizard/:sessionId", wizardHandler.HandleDeleteSession)
	api.Post("/wizard/:sessionId/fetch", wizardHandler.HandleFetch)
	api.Post("/wizard/:sessionId/paste", wizardHandler.HandlePaste)
	api.Post("/wizard/:sessionId/select", wizardHandler.HandleSelect)
	api.Post("/wizard/:sessionId/review", wizardHandler.HandleReview)
	api.Post("/wizard/:sessionId/venue", wizardHandler.HandleVenue)
	api.Post("/wizard/:sessionId/promoter", wizardHandler.HandlePromoter)
	api.Post("/wizard/:sessionId/save", wizardHandler.HandleSave)
	api.Post("/wizard/:sessionId/retry", wizardHandler.HandleRetry)
	api.Post("/wizard/:sessionId/reset", wizardHandler.HandleReset)

	return healthHandler
}
