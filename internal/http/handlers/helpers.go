package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ugc-marketplace/backend/internal/apperr"
	"github.com/ugc-marketplace/backend/internal/http/dto"
)

// fail maps a service error to its HTTP status. Internal errors are not
// echoed to the client.
func fail(c *fiber.Ctx, err error) error {
	status := apperr.Status(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "internal error"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg})
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(param))
}

func queryInt(c *fiber.Ctx, name string, fallback int) int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func parseQueryID(v string) (uuid.UUID, error) {
	return uuid.Parse(v)
}
