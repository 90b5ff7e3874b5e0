package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"hirelens/candidate-analyzer/internal/services"
)

type GongHandler struct {
	callRecording services.CallRecordingService
}

func NewGongHandler(callRecording services.CallRecordingService) *GongHandler {
	return &GongHandler{callRecording: callRecording}
}

// HandleGetUsers handles GET /gong/users.
func (h *GongHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.callRecording.GetUsers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"users": users})
}

// HandleGetCalls handles GET /gong/calls?from=...&to=... (RFC 3339).
func (h *GongHandler) HandleGetCalls(c *fiber.Ctx) error {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "from must be an RFC 3339 timestamp",
		})
	}

	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "to must be an RFC 3339 timestamp",
		})
	}

	calls, err := h.callRecording.GetCallsByDateRange(c.Context(), from, to)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"calls": calls})
}

// HandleGetTranscript handles GET /gong/calls/:id/transcript.
func (h *GongHandler) HandleGetTranscript(c *fiber.Ctx) error {
	callID := c.Params("id")
	if callID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "call id is required",
		})
	}

	transcripts, err := h.callRecording.GetCallTranscripts(c.Context(), callID)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"callTranscripts": transcripts})
}
