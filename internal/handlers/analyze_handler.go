package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hirelens/candidate-analyzer/internal/models"
	"hirelens/candidate-analyzer/internal/services"
)

type AnalyzeHandler struct {
	analyzer services.AnalyzerService
}

func NewAnalyzeHandler(analyzer services.AnalyzerService) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

// HandleAnalyze handles POST /candidate-analysis/analyze. Runs the full
// pipeline synchronously and returns the outcome. Stage failures come back
// as a 500 with the tagged failure payload, mirroring the pipeline's
// error-as-data convention.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest

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

	outcome := h.analyzer.AnalyzeCandidate(c.Context(), req.JobDescription, req.CallID, req.CandidateID)
	if outcome.Failure != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(outcome)
	}

	return c.JSON(outcome)
}
