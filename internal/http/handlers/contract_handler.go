package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/http/dto"
	"github.com/ugc-marketplace/backend/internal/middleware"
	"github.com/ugc-marketplace/backend/internal/services"
)

type ContractHandler struct {
	contracts *services.ContractService
	log       *zap.Logger
}

func NewContractHandler(contracts *services.ContractService, log *zap.Logger) *ContractHandler {
	return &ContractHandler{contracts: contracts, log: log}
}

func (h *ContractHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid contract id")
	}
	contract, err := h.contracts.Get(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: contract})
}

func (h *ContractHandler) List(c *fiber.Ctx) error {
	contracts, err := h.contracts.ListByUser(c.Context(), middleware.GetUserID(c),
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		h.log.Error("list contracts failed", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: contracts})
}

func (h *ContractHandler) Sign(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid contract id")
	}
	contract, err := h.contracts.Sign(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: contract})
}

// Verify re-hashes the stored document and reports whether it still matches
// the digest recorded at generation time.
func (h *ContractHandler) Verify(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid contract id")
	}
	valid, err := h.contracts.Verify(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.VerifyContractResponse{ContractID: id.String(), Valid: valid})
}
