package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/http/dto"
	"github.com/ugc-marketplace/backend/internal/middleware"
	"github.com/ugc-marketplace/backend/internal/repositories"
	"github.com/ugc-marketplace/backend/internal/services"
)

type ApplicationHandler struct {
	applications *services.ApplicationService
	log          *zap.Logger
}

func NewApplicationHandler(applications *services.ApplicationService, log *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, log: log}
}

func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	campaignID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}
	var req dto.ApplyRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return badRequest(c, "invalid request")
	}

	app, err := h.applications.Submit(c.Context(), campaignID, middleware.GetUserID(c), req.PitchMessage)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: app})
}

func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	filter := repositories.ApplicationFilter{
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := c.Query("campaign_id"); v != "" {
		campaignID, err := parseQueryID(v)
		if err != nil {
			return badRequest(c, "invalid campaign_id")
		}
		filter.CampaignID = &campaignID
	} else {
		userID := middleware.GetUserID(c)
		filter.CreatorID = &userID
	}

	apps, err := h.applications.List(c.Context(), filter)
	if err != nil {
		h.log.Error("list applications failed", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: apps})
}

func (h *ApplicationHandler) Accept(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid application id")
	}
	if err := h.applications.Accept(c.Context(), id, middleware.GetUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *ApplicationHandler) Reject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid application id")
	}
	if err := h.applications.Reject(c.Context(), id, middleware.GetUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *ApplicationHandler) Withdraw(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid application id")
	}
	if err := h.applications.Withdraw(c.Context(), id, middleware.GetUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
