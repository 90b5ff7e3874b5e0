package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hirelens/candidate-analyzer/internal/models"
	"hirelens/candidate-analyzer/internal/services"
)

type SearchHandler struct {
	memory services.MemoryService
}

func NewSearchHandler(memory services.MemoryService) *SearchHandler {
	return &SearchHandler{memory: memory}
}

// HandleSearch handles GET /evaluations/search?q=<query>&limit=<n>.
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q is required",
		})
	}

	limit := c.QueryInt("limit", 5)
	if limit < 1 || limit > 50 {
		limit = 5
	}

	matches, err := h.memory.SearchSimilar(c.Context(), query, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if matches == nil {
		matches = []models.SearchMatch{}
	}

	return c.JSON(models.SearchResponse{
		Query:   query,
		Matches: matches,
	})
}
