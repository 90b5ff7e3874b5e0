package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hirelens/candidate-analyzer/internal/services"
)

type SalesforceHandler struct {
	crm services.CRMService
}

func NewSalesforceHandler(crm services.CRMService) *SalesforceHandler {
	return &SalesforceHandler{crm: crm}
}

// HandleQuery handles GET /salesforce/query?q=<SOQL>.
func (h *SalesforceHandler) HandleQuery(c *fiber.Ctx) error {
	soql := c.Query("q")
	if soql == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q is required",
		})
	}

	records, err := h.crm.Query(c.Context(), soql)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"records": records})
}
