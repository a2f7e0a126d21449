package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"masterspeak/internal/http/middleware"
	"masterspeak/internal/service"
)

type createShareRequest struct {
	ExpiresInDays     int  `json:"expires_in_days"`
	IncludeTranscript bool `json:"include_transcript"`
}

// CreateShareLink handles POST /api/v1/share/:id.
func CreateShareLink(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req createShareRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
			}
		}

		link, err := svc.CreateShareLink(c.UserContext(), middleware.UserIDFromCtx(c), id, req.ExpiresInDays, req.IncludeTranscript)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(link)
	}
}

// GetSharedAnalysis handles GET /api/v1/share/:token. The route is
// anonymous; possession of the token is the only credential.
func GetSharedAnalysis(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Params("token")
		if _, err := uuid.Parse(token); err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "analysis not found")
		}

		shared, err := svc.GetSharedAnalysis(c.UserContext(), token)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(shared)
	}
}
