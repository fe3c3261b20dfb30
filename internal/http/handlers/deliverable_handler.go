package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/http/dto"
	"github.com/ugc-marketplace/backend/internal/middleware"
	"github.com/ugc-marketplace/backend/internal/repositories"
	"github.com/ugc-marketplace/backend/internal/services"
	"github.com/ugc-marketplace/backend/internal/storage"
)

type DeliverableHandler struct {
	deliverables *services.DeliverableService
	log          *zap.Logger
}

func NewDeliverableHandler(deliverables *services.DeliverableService, log *zap.Logger) *DeliverableHandler {
	return &DeliverableHandler{deliverables: deliverables, log: log}
}

// Upload receives the content file as multipart form data under "file".
func (h *DeliverableHandler) Upload(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid deliverable id")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}
	if fileHeader.Size > storage.MaxUploadBytes {
		return badRequest(c, "file exceeds the 500MB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "unreadable file")
	}
	defer file.Close()

	var notes *string
	if v := c.FormValue("notes"); v != "" {
		notes = &v
	}

	d, versionNumber, err := h.deliverables.Upload(c.Context(), id, middleware.GetUserID(c),
		file, fileHeader.Header.Get("Content-Type"), fileHeader.Size, notes)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{
		"deliverable":    d,
		"version_number": versionNumber,
	}})
}

func (h *DeliverableHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid deliverable id")
	}
	d, err := h.deliverables.Get(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: d})
}

func (h *DeliverableHandler) List(c *fiber.Ctx) error {
	filter := repositories.DeliverableFilter{
		Limit:  queryInt(c, "limit", 50),
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
	if c.Query("role") == "brand" {
		userID := middleware.GetUserID(c)
		filter.BrandID = &userID
	} else {
		userID := middleware.GetUserID(c)
		filter.CreatorID = &userID
	}

	items, err := h.deliverables.List(c.Context(), filter)
	if err != nil {
		h.log.Error("list deliverables failed", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: items})
}

func (h *DeliverableHandler) StartReview(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid deliverable id")
	}
	if err := h.deliverables.StartReview(c.Context(), id, middleware.GetUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *DeliverableHandler) Approve(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid deliverable id")
	}
	var req dto.ApproveDeliverableRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return badRequest(c, "invalid request")
	}

	var rating *int
	if req.Rating != 0 {
		rating = &req.Rating
	}
	contract, err := h.deliverables.Approve(c.Context(), id, middleware.GetUserID(c), rating, req.Feedback)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: contract})
}

func (h *DeliverableHandler) RequestChanges(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid deliverable id")
	}
	var req dto.RequestChangesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if req.Feedback == "" {
		return badRequest(c, "feedback is required")
	}
	if err := h.deliverables.RequestChanges(c.Context(), id, middleware.GetUserID(c), req.Feedback); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *DeliverableHandler) Reject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid deliverable id")
	}
	var req dto.RejectDeliverableRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if req.Reason == "" {
		return badRequest(c, "reason is required")
	}
	if err := h.deliverables.Reject(c.Context(), id, middleware.GetUserID(c), req.Reason); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *DeliverableHandler) AddComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid deliverable id")
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if req.Content == "" {
		return badRequest(c, "content is required")
	}
	comment, err := h.deliverables.AddComment(c.Context(), id, middleware.GetUserID(c), req.Content, req.TimestampSeconds)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: comment})
}

func (h *DeliverableHandler) ListComments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid deliverable id")
	}
	comments, err := h.deliverables.ListComments(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: comments})
}

func (h *DeliverableHandler) ListVersions(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid deliverable id")
	}
	versions, err := h.deliverables.ListVersions(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: versions})
}
