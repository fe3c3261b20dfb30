package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/http/dto"
	"github.com/ugc-marketplace/backend/internal/middleware"
	"github.com/ugc-marketplace/backend/internal/models"
	"github.com/ugc-marketplace/backend/internal/repositories"
	"github.com/ugc-marketplace/backend/internal/services"
)

type CampaignHandler struct {
	campaigns *services.CampaignService
	log       *zap.Logger
}

func NewCampaignHandler(campaigns *services.CampaignService, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, log: log}
}

func campaignFromRequest(req *dto.CampaignRequest) (*models.Campaign, error) {
	productIDs := make([]uuid.UUID, 0, len(req.ProductIDs))
	for _, raw := range req.ProductIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		productIDs = append(productIDs, id)
	}
	return &models.Campaign{
		Title:            req.Title,
		Description:      req.Description,
		ProductIDs:       productIDs,
		Objective:        req.Objective,
		ContentType:      req.ContentType,
		PiecesPerCreator: req.PiecesPerCreator,
		MaxCreators:      req.MaxCreators,
		BudgetPerCreator: req.BudgetPerCreator,
		UsageRights:      req.UsageRights,
		DeliveryDeadline: req.DeliveryDeadline,
		Brief:            req.Brief,
		Requirements:     req.Requirements,
		PreferredNiches:  req.PreferredNiches,
	}, nil
}

func (h *CampaignHandler) Create(c *fiber.Ctx) error {
	var req dto.CampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	campaign, err := campaignFromRequest(&req)
	if err != nil {
		return badRequest(c, "invalid product id")
	}
	if err := h.campaigns.Create(c.Context(), middleware.GetUserID(c), campaign); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}
	campaign, err := h.campaigns.GetByID(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) List(c *fiber.Ctx) error {
	filter := repositories.CampaignFilter{
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := c.Query("objective"); v != "" {
		filter.Objective = &v
	}
	if v := c.Query("content_type"); v != "" {
		filter.ContentType = &v
	}
	if v := c.Query("niche"); v != "" {
		filter.Niche = &v
	}
	if c.Query("mine") == "true" {
		userID := middleware.GetUserID(c)
		filter.BrandID = &userID
	} else if filter.Status == nil {
		// The public feed only shows campaigns open to applications.
		published := models.CampaignStatusPublished
		filter.Status = &published
	}

	campaigns, err := h.campaigns.List(c.Context(), filter)
	if err != nil {
		h.log.Error("list campaigns failed", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaigns})
}

func (h *CampaignHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}
	var req dto.CampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	campaign, err := campaignFromRequest(&req)
	if err != nil {
		return badRequest(c, "invalid product id")
	}
	updated, err := h.campaigns.Update(c.Context(), id, middleware.GetUserID(c), campaign)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: updated})
}

func (h *CampaignHandler) Publish(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}
	campaign, err := h.campaigns.Publish(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}
	if err := h.campaigns.Cancel(c.Context(), id, middleware.GetUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *CampaignHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}
	if err := h.campaigns.Delete(c.Context(), id, middleware.GetUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
