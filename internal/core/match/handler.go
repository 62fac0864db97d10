package match

import (
	"context"
	"encoding/json"
	"strings"

	"fairimport/internal/core/job"
	"fairimport/internal/logger"
	"fairimport/internal/platform/api"
	"fairimport/internal/platform/tasks"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type Handler struct {
	log     *logger.Logger
	service *Service
	jobs    *job.JobService
	tasks   *tasks.Client
	retries int
}

func NewHandler(service *Service, jobs *job.JobService, tasksClient *tasks.Client, maxRetries int) *Handler {
	return &Handler{
		log:     logger.New("MatchHandler"),
		service: service,
		jobs:    jobs,
		tasks:   tasksClient,
		retries: maxRetries,
	}
}

// HandleMatchVenues suggests existing venues for a candidate name.
func (h *Handler) HandleMatchVenues(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(api.Error{Error: "name is required"})
	}
	city := strings.TrimSpace(c.Query("city"))

	suggestions, err := h.service.MatchVenues(c.Context(), name, city)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Error{Error: err.Error()})
	}
	if suggestions == nil {
		suggestions = []VenueSuggestion{}
	}
	return c.JSON(fiber.Map{"success": true, "matches": suggestions})
}

type reportPayload struct {
	JobID string `json:"job_id"`
}

// HandleCreateDuplicateReport enqueues a background duplicate sweep and
// returns the job id for polling.
func (h *Handler) HandleCreateDuplicateReport(c *fiber.Ctx) error {
	jobID := uuid.NewString()
	payload, err := json.Marshal(reportPayload{JobID: jobID})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Error{Error: err.Error()})
	}

	if err := h.jobs.InitPending(c.Context(), jobID, job.TypeDuplicateReport); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Error{Error: err.Error()})
	}
	if err := h.tasks.Enqueue(asynq.NewTask(tasks.TaskTypeDuplicateReport, payload), "default", h.retries); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Error{Error: err.Error()})
	}

	h.log.LogInfof("Duplicate report enqueued job=%s", jobID)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"success": true, "jobId": jobID})
}

func (h *Handler) HandleGetDuplicateReport(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	j, err := h.jobs.GetJobStatus(c.Context(), jobID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(api.Error{Error: err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "job": j})
}

// ProcessDuplicateReportTask is the asynq worker entrypoint.
func (h *Handler) ProcessDuplicateReportTask(ctx context.Context, task *asynq.Task) error {
	var payload reportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	_ = h.jobs.SetProcessing(ctx, payload.JobID, job.TypeDuplicateReport)

	report, err := h.service.BuildDuplicateReport(ctx)
	if err != nil {
		h.log.LogErrorf("Duplicate report failed job=%s: %v", payload.JobID, err)
		_ = h.jobs.Fail(ctx, payload.JobID, job.TypeDuplicateReport, err.Error())
		return err
	}

	return h.jobs.CompleteReport(ctx, payload.JobID, report)
}
