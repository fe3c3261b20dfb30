package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/config"
	"github.com/ugc-marketplace/backend/internal/http/dto"
	"github.com/ugc-marketplace/backend/internal/middleware"
	"github.com/ugc-marketplace/backend/internal/repositories"
	"github.com/ugc-marketplace/backend/internal/services"
	"github.com/ugc-marketplace/backend/internal/wompi"
)

type PaymentHandler struct {
	escrows *services.EscrowService
	credits *services.CreditService
	cfg     *config.Config
	log     *zap.Logger
}

func NewPaymentHandler(escrows *services.EscrowService, credits *services.CreditService, cfg *config.Config, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{escrows: escrows, credits: credits, cfg: cfg, log: log}
}

// CreatePayment opens an escrow for one creator slot and returns the Wompi
// checkout the brand completes in the widget.
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	campaignID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}
	checkout, err := h.escrows.CreatePayment(c.Context(), campaignID, middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: checkout})
}

func (h *PaymentHandler) GetEscrow(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid escrow id")
	}
	escrow, err := h.escrows.Get(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: escrow})
}

func (h *PaymentHandler) EscrowAudit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid escrow id")
	}
	entries, err := h.escrows.AuditTrail(c.Context(), id, middleware.GetUserID(c),
		queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: entries})
}

func (h *PaymentHandler) ListEscrows(c *fiber.Ctx) error {
	filter := repositories.EscrowFilter{
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
	}
	userID := middleware.GetUserID(c)
	filter.BrandID = &userID

	escrows, err := h.escrows.List(c.Context(), filter)
	if err != nil {
		h.log.Error("list escrows failed", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: escrows})
}

func (h *PaymentHandler) OpenDispute(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid escrow id")
	}
	if err := h.escrows.OpenDispute(c.Context(), id, middleware.GetUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *PaymentHandler) ResolveDispute(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid escrow id")
	}
	var req dto.ResolveDisputeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if err := h.escrows.ResolveDispute(c.Context(), id, middleware.GetUserID(c), req.Refund); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// wompiEvent is the webhook envelope Wompi posts on transaction updates.
type wompiEvent struct {
	Event string `json:"event"`
	Data  struct {
		Transaction struct {
			ID        string `json:"id"`
			Status    string `json:"status"`
			Reference string `json:"reference"`
		} `json:"transaction"`
	} `json:"data"`
}

// Webhook is the Wompi event sink. The HMAC is verified over the raw body
// before any decoding. Events we cannot act on, including malformed
// references, are acknowledged with 200: Wompi retries on anything else and
// a bad reference will never become a good one.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	body := c.Body()
	sig := c.Get(wompi.SignatureHeader)
	if !wompi.VerifySignature(body, sig, h.cfg.WompiEventsSecret) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid signature"})
	}

	var event wompiEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.log.Warn("undecodable wompi event", zap.Error(err))
		return c.JSON(dto.SuccessResponse{OK: true})
	}
	if event.Event != "transaction.updated" {
		return c.JSON(dto.SuccessResponse{OK: true})
	}

	tx := event.Data.Transaction
	ref, err := wompi.ParseReference(tx.Reference)
	if err != nil {
		h.log.Warn("unparseable wompi reference", zap.String("reference", tx.Reference))
		return c.JSON(dto.SuccessResponse{OK: true})
	}

	switch ref.Kind {
	case wompi.RefCampaign:
		err = h.escrows.HandlePaymentUpdate(c.Context(), ref, tx.ID, tx.Status)
	case wompi.RefCredits:
		if tx.Status == "APPROVED" {
			err = h.credits.HandlePurchaseApproved(c.Context(), ref, tx.ID)
		}
	}
	if err != nil {
		h.log.Error("wompi event processing failed",
			zap.String("reference", tx.Reference), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "processing failed"})
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
