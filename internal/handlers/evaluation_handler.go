package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hirelens/candidate-analyzer/internal/models"
	"hirelens/candidate-analyzer/internal/repositories"
	"hirelens/candidate-analyzer/internal/services"
)

type EvaluationHandler struct {
	evalRepo repositories.EvaluationRepository
	worker   services.Worker
}

func NewEvaluationHandler(
	evalRepo repositories.EvaluationRepository,
	worker services.Worker,
) *EvaluationHandler {
	return &EvaluationHandler{
		evalRepo: evalRepo,
		worker:   worker,
	}
}

// HandleEvaluate handles POST /evaluations: create a queued record and hand
// it to the background worker.
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	var req models.EvaluateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.JobDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description is required",
		})
	}

	if req.CandidateID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "candidate_id is required",
		})
	}

	evaluation := &models.Evaluation{
		ID:             uuid.New(),
		JobDescription: req.JobDescription,
		CandidateID:    req.CandidateID,
		Status:         models.StatusQueued,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if req.CallID != "" {
		evaluation.CallID = &req.CallID
	}

	if err := h.evalRepo.Create(evaluation); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create evaluation job",
		})
	}

	h.worker.EnqueueJob(evaluation.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.EvaluateResponse{
		ID:     evaluation.ID.String(),
		Status: string(models.StatusQueued),
	})
}

// HandleGetResult handles GET /evaluations/:id.
func (h *EvaluationHandler) HandleGetResult(c *fiber.Ctx) error {
	idParam := c.Params("id")
	evalID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid evaluation ID format",
		})
	}

	evaluation, err := h.evalRepo.FindByID(evalID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Evaluation not found",
		})
	}

	response := models.ResultResponse{
		ID:     evaluation.ID.String(),
		Status: string(evaluation.Status),
	}

	if evaluation.Status == models.StatusCompleted {
		verdict := &models.Verdict{}
		if evaluation.Summary != nil {
			verdict.Summary = *evaluation.Summary
		}
		if evaluation.Score != nil {
			verdict.Score = *evaluation.Score
		}
		if evaluation.Decision != nil {
			verdict.Decision = models.Decision(*evaluation.Decision)
		}
		if evaluation.Reasons != nil {
			verdict.Reasons = *evaluation.Reasons
		}
		if evaluation.Comment != nil {
			verdict.Comment = *evaluation.Comment
		}
		response.Verdict = verdict

		if evaluation.CallSummaries != nil {
			summaries := map[string]string{}
			if err := json.Unmarshal([]byte(*evaluation.CallSummaries), &summaries); err == nil {
				response.CallSummaries = summaries
			}
		}
	}

	if evaluation.Status == models.StatusFailed {
		response.ErrorStage = evaluation.ErrorStage
		response.ErrorMessage = evaluation.ErrorMessage
	}

	return c.JSON(response)
}
