package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/http/dto"
	"github.com/ugc-marketplace/backend/internal/middleware"
	"github.com/ugc-marketplace/backend/internal/models"
	"github.com/ugc-marketplace/backend/internal/services"
)

type ProfileHandler struct {
	accounts *services.AccountService
	log      *zap.Logger
}

func NewProfileHandler(accounts *services.AccountService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{accounts: accounts, log: log}
}

func (h *ProfileHandler) GetMe(c *fiber.Ctx) error {
	profile, err := h.accounts.GetProfile(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: profile})
}

func (h *ProfileHandler) UpdateMe(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	profile, err := h.accounts.UpdateProfile(c.Context(), middleware.GetUserID(c), &models.Profile{
		FullName:        req.FullName,
		AvatarURL:       req.AvatarURL,
		Phone:           req.Phone,
		City:            req.City,
		Niche:           req.Niche,
		Bio:             req.Bio,
		InstagramHandle: req.InstagramHandle,
		TikTokHandle:    req.TikTokHandle,
		CompanyName:     req.CompanyName,
		NIT:             req.NIT,
		Industry:        req.Industry,
		Website:         req.Website,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: profile})
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid profile id")
	}
	profile, err := h.accounts.GetProfile(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: profile})
}

func (h *ProfileHandler) SetPayoutDetails(c *fiber.Ctx) error {
	var req dto.PayoutDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	err := h.accounts.SetPayoutDetails(c.Context(), middleware.GetUserID(c), &models.PayoutDetails{
		FullName:       req.FullName,
		BankCode:       req.BankCode,
		AccountType:    req.AccountType,
		AccountNumber:  req.AccountNumber,
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *ProfileHandler) GetPayoutDetails(c *fiber.Ctx) error {
	details, err := h.accounts.GetPayoutDetails(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: details})
}
