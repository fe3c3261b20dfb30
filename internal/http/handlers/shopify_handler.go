package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/http/dto"
	"github.com/ugc-marketplace/backend/internal/middleware"
	"github.com/ugc-marketplace/backend/internal/services"
)

type ShopifyHandler struct {
	shopify *services.ShopifyService
	log     *zap.Logger
}

func NewShopifyHandler(shopify *services.ShopifyService, log *zap.Logger) *ShopifyHandler {
	return &ShopifyHandler{shopify: shopify, log: log}
}

// Connect returns the Shopify OAuth URL the brand's browser is sent to.
func (h *ShopifyHandler) Connect(c *fiber.Ctx) error {
	var req dto.ConnectStoreRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	url, err := h.shopify.ConnectURL(c.Context(), middleware.GetUserID(c), req.Shop)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{"auth_url": url}})
}

// Callback is hit by Shopify after the merchant approves the install. It is
// unauthenticated; the state nonce carries the identity.
func (h *ShopifyHandler) Callback(c *fiber.Ctx) error {
	shop := c.Query("shop")
	code := c.Query("code")
	state := c.Query("state")
	if shop == "" || code == "" || state == "" {
		return badRequest(c, "missing oauth parameters")
	}

	store, err := h.shopify.HandleCallback(c.Context(), shop, code, state)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: store})
}

func (h *ShopifyHandler) ListStores(c *fiber.Ctx) error {
	stores, err := h.shopify.ListStores(c.Context(), middleware.GetUserID(c))
	if err != nil {
		h.log.Error("list stores failed", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: stores})
}

func (h *ShopifyHandler) Sync(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid store id")
	}
	if err := h.shopify.Sync(c.Context(), id, middleware.GetUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *ShopifyHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.shopify.ListProducts(c.Context(), middleware.GetUserID(c),
		queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		h.log.Error("list products failed", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: products})
}

func (h *ShopifyHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid product id")
	}
	product, err := h.shopify.GetProduct(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: product})
}
