package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ugc-marketplace/backend/internal/http/dto"
	"github.com/ugc-marketplace/backend/internal/models"
)

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

type MetaOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var predefinedNiches = []MetaOption{
	{ID: "belleza", Label: "Belleza y Cuidado Personal"},
	{ID: "moda", Label: "Moda"},
	{ID: "fitness", Label: "Fitness y Bienestar"},
	{ID: "comida", Label: "Comida y Bebidas"},
	{ID: "tecnologia", Label: "Tecnología"},
	{ID: "hogar", Label: "Hogar y Decoración"},
	{ID: "mascotas", Label: "Mascotas"},
	{ID: "viajes", Label: "Viajes"},
	{ID: "maternidad", Label: "Maternidad y Bebés"},
	{ID: "gaming", Label: "Gaming"},
	{ID: "educacion", Label: "Educación"},
	{ID: "finanzas", Label: "Finanzas Personales"},
	{ID: "otro", Label: "Otro"},
}

var usageRightsTiers = []MetaOption{
	{ID: models.UsageOrganicOnly, Label: "Solo orgánico"},
	{ID: models.UsagePaidAds3M, Label: "Pauta 3 meses"},
	{ID: models.UsagePaidAds6M, Label: "Pauta 6 meses"},
	{ID: models.UsagePaidAds12M, Label: "Pauta 12 meses"},
	{ID: models.UsagePerpetual, Label: "Perpetuo"},
}

var campaignObjectives = []MetaOption{
	{ID: models.ObjectiveAds, Label: "Contenido para pauta"},
	{ID: models.ObjectiveOrganic, Label: "Contenido orgánico"},
	{ID: models.ObjectiveTestimonial, Label: "Testimonial"},
}

var contentTypes = []MetaOption{
	{ID: models.ContentVideo, Label: "Video"},
	{ID: models.ContentPhoto, Label: "Foto"},
	{ID: models.ContentVideoAndPhoto, Label: "Video y Foto"},
}

// Colombian ACH financial institution codes used for payout accounts.
var bankCodes = []MetaOption{
	{ID: "1007", Label: "Bancolombia"},
	{ID: "1001", Label: "Banco de Bogotá"},
	{ID: "1051", Label: "Davivienda"},
	{ID: "1023", Label: "Banco de Occidente"},
	{ID: "1062", Label: "Banco Falabella"},
	{ID: "1012", Label: "Banco GNB Sudameris"},
	{ID: "1060", Label: "Banco Pichincha"},
	{ID: "1002", Label: "Banco Popular"},
	{ID: "1058", Label: "Banco Procredit"},
	{ID: "1065", Label: "Banco Santander"},
	{ID: "1066", Label: "Banco Cooperativo Coopcentral"},
	{ID: "1006", Label: "Banco Corpbanca (Itaú)"},
	{ID: "1013", Label: "BBVA Colombia"},
	{ID: "1009", Label: "Citibank"},
	{ID: "1014", Label: "Itaú"},
	{ID: "1019", Label: "Scotiabank Colpatria"},
	{ID: "1040", Label: "Banco Agrario"},
	{ID: "1052", Label: "Banco AV Villas"},
	{ID: "1032", Label: "Banco Caja Social"},
	{ID: "1507", Label: "Nequi"},
	{ID: "1551", Label: "Daviplata"},
}

func (h *MetaHandler) GetNiches(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: predefinedNiches})
}

func (h *MetaHandler) GetUsageRights(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: usageRightsTiers})
}

func (h *MetaHandler) GetObjectives(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaignObjectives})
}

func (h *MetaHandler) GetContentTypes(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: contentTypes})
}

func (h *MetaHandler) GetBanks(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: bankCodes})
}

func (h *MetaHandler) GetCreditPacks(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: models.CreditPacks})
}
