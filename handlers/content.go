package handlers

import (
	"yt-ingest/errors"
	"yt-ingest/extraction"
	"yt-ingest/models"

	"github.com/gofiber/fiber/v2"
)

type ContentHandler struct {
	queue   *extraction.JobQueue
	service extraction.Service
}

func NewContentHandler(queue *extraction.JobQueue, service extraction.Service) *ContentHandler {
	return &ContentHandler{queue: queue, service: service}
}

// Extract accepts an extraction request and blocks until the queued job
// finishes or the request context expires.
func (h *ContentHandler) Extract(c *fiber.Ctx) error {
	const op = "ContentHandler.Extract"

	var req models.ExtractRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.InvalidURL(op, err, "Invalid request body")
	}
	if req.URL == "" {
		return errors.InvalidURL(op, nil, "URL is required")
	}

	results, err := h.queue.Submit(c.Context(), req)
	if err != nil {
		return &errors.AppError{
			Code:    fiber.StatusServiceUnavailable,
			Kind:    errors.KindInternal,
			Message: "Extraction queue is full, try again later",
			Op:      op,
			Err:     err,
		}
	}

	select {
	case <-c.Context().Done():
		return errors.Internal(op, c.Context().Err(), "Request cancelled")
	case res := <-results:
		if res.Err != nil {
			return res.Err
		}
		return c.JSON(res.Result)
	}
}

func (h *ContentHandler) GetContent(c *fiber.Ctx) error {
	const op = "ContentHandler.GetContent"

	id := c.Params("id")
	if id == "" {
		return errors.InvalidURL(op, nil, "ID is required")
	}

	content, err := h.service.GetContent(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(content)
}

func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
