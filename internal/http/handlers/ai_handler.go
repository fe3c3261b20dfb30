package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/ai"
	"github.com/ugc-marketplace/backend/internal/http/dto"
	"github.com/ugc-marketplace/backend/internal/middleware"
	"github.com/ugc-marketplace/backend/internal/services"
)

type AIHandler struct {
	aiService *services.AIService
	log       *zap.Logger
}

func NewAIHandler(aiService *services.AIService, log *zap.Logger) *AIHandler {
	return &AIHandler{aiService: aiService, log: log}
}

func (h *AIHandler) AnalyzeProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid product id")
	}
	analysis, err := h.aiService.AnalyzeProduct(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: analysis})
}

func (h *AIHandler) GenerateAngles(c *fiber.Ctx) error {
	var req dto.GenerateAnglesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	productID, err := parseQueryID(req.ProductID)
	if err != nil {
		return badRequest(c, "invalid product_id")
	}

	result, err := h.aiService.GenerateAngles(c.Context(), productID, middleware.GetUserID(c),
		req.Objective, req.ContentType)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: result})
}

func (h *AIHandler) GenerateScript(c *fiber.Ctx) error {
	var req dto.GenerateScriptRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	productID, err := parseQueryID(req.ProductID)
	if err != nil {
		return badRequest(c, "invalid product_id")
	}

	script, err := h.aiService.GenerateScript(c.Context(), productID, middleware.GetUserID(c),
		ai.Angle{Title: req.AngleTitle, Hook: req.Hook, Format: req.Format},
		req.DurationSeconds, req.Platform)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: script})
}
