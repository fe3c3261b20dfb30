package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/http/dto"
	"github.com/ugc-marketplace/backend/internal/middleware"
	"github.com/ugc-marketplace/backend/internal/services"
)

type MessageHandler struct {
	messages *services.MessageService
	log      *zap.Logger
}

func NewMessageHandler(messages *services.MessageService, log *zap.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, log: log}
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	campaignID, err := parseQueryID(req.CampaignID)
	if err != nil {
		return badRequest(c, "invalid campaign_id")
	}
	receiverID, err := parseQueryID(req.ReceiverID)
	if err != nil {
		return badRequest(c, "invalid receiver_id")
	}

	m, err := h.messages.Send(c.Context(), campaignID, middleware.GetUserID(c), receiverID, req.Content)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: m})
}

// Thread returns the caller's conversation with the other party within a
// campaign and marks received messages as read.
func (h *MessageHandler) Thread(c *fiber.Ctx) error {
	campaignID, err := parseID(c, "campaignId")
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}
	otherID, err := parseID(c, "userId")
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	messages, err := h.messages.Thread(c.Context(), campaignID, middleware.GetUserID(c), otherID,
		queryInt(c, "limit", 100), queryInt(c, "offset", 0))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: messages})
}

func (h *MessageHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.messages.UnreadCount(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.UnreadCountResponse{Unread: n})
}
