package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/http/dto"
	"github.com/ugc-marketplace/backend/internal/middleware"
	"github.com/ugc-marketplace/backend/internal/services"
)

type CreditHandler struct {
	credits *services.CreditService
	log     *zap.Logger
}

func NewCreditHandler(credits *services.CreditService, log *zap.Logger) *CreditHandler {
	return &CreditHandler{credits: credits, log: log}
}

func (h *CreditHandler) Balance(c *fiber.Ctx) error {
	balance, err := h.credits.Balance(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: balance})
}

func (h *CreditHandler) Packs(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: h.credits.ListPacks()})
}

func (h *CreditHandler) Purchase(c *fiber.Ctx) error {
	var req dto.PurchaseCreditsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	checkout, err := h.credits.CreatePurchase(c.Context(), middleware.GetUserID(c), req.PackID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: checkout})
}

func (h *CreditHandler) Transactions(c *fiber.Ctx) error {
	txs, err := h.credits.ListTransactions(c.Context(), middleware.GetUserID(c),
		queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		h.log.Error("list credit transactions failed", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: txs})
}
