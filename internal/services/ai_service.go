package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/ai"
	"github.com/ugc-marketplace/backend/internal/apperr"
	"github.com/ugc-marketplace/backend/internal/models"
	"github.com/ugc-marketplace/backend/internal/repositories"
)

type AIService struct {
	pool        *pgxpool.Pool
	productRepo *repositories.ProductRepo
	credits     *CreditService
	client      *ai.Client
	log         *zap.Logger
}

func NewAIService(
	pool *pgxpool.Pool,
	productRepo *repositories.ProductRepo,
	credits *CreditService,
	client *ai.Client,
	log *zap.Logger,
) *AIService {
	return &AIService{
		pool:        pool,
		productRepo: productRepo,
		credits:     credits,
		client:      client,
		log:         log,
	}
}

// AnalyzeProduct runs the one-shot product analysis. The result is cached on
// the product row: a product that already carries an analysis is returned for
// free without touching the model or the balance. Credits are charged up
// front and refunded if the model call or its output fails.
func (s *AIService) AnalyzeProduct(ctx context.Context, productID, brandID uuid.UUID) (*ai.ProductAnalysis, error) {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", apperr.ErrNotFound)
	}
	if p.BrandID != brandID {
		return nil, fmt.Errorf("product belongs to another brand: %w", apperr.ErrForbidden)
	}

	if p.AICategory != nil && p.AIAnalyzedAt != nil {
		return &ai.ProductAnalysis{
			Category:       *p.AICategory,
			TargetAudience: strOrEmpty(p.AITargetAudience),
			KeyBenefits:    p.AIKeyBenefits,
		}, nil
	}

	refID := productID.String()
	if _, err := s.credits.Spend(ctx, s.pool, brandID, models.CostAnalyzeProduct,
		"Análisis de producto con IA", &refID); err != nil {
		return nil, err
	}

	prompt := ai.FillPrompt(ai.AnalyzeProductPrompt, map[string]string{
		"title":       p.Title,
		"description": strOrEmpty(p.Description),
		"type":        strOrEmpty(p.ProductType),
		"price":       priceLabel(p.PriceMin, p.PriceMax),
		"tags":        strings.Join(p.Tags, ", "),
	})

	var analysis ai.ProductAnalysis
	if err := s.complete(ctx, brandID, models.CostAnalyzeProduct, prompt, &analysis); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveAIAnalysis(ctx, productID,
		analysis.Category, analysis.TargetAudience, analysis.KeyBenefits, time.Now()); err != nil {
		s.log.Warn("failed to cache product analysis",
			zap.String("product_id", productID.String()), zap.Error(err))
	}
	return &analysis, nil
}

// GenerateAngles produces creative angles for a campaign around a product.
func (s *AIService) GenerateAngles(ctx context.Context, productID, brandID uuid.UUID, objective, contentType string) (*ai.AnglesResult, error) {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", apperr.ErrNotFound)
	}
	if p.BrandID != brandID {
		return nil, fmt.Errorf("product belongs to another brand: %w", apperr.ErrForbidden)
	}

	refID := productID.String()
	if _, err := s.credits.Spend(ctx, s.pool, brandID, models.CostGenerateAngles,
		"Generación de ángulos UGC", &refID); err != nil {
		return nil, err
	}

	prompt := ai.FillPrompt(ai.GenerateAnglesPrompt, map[string]string{
		"product_title":       p.Title,
		"product_description": strOrEmpty(p.Description),
		"objective":           objective,
		"content_type":        contentType,
		"target_audience":     strOrEmpty(p.AITargetAudience),
	})

	var result ai.AnglesResult
	if err := s.complete(ctx, brandID, models.CostGenerateAngles, prompt, &result); err != nil {
		return nil, err
	}
	if len(result.Angles) == 0 {
		s.refund(ctx, brandID, models.CostGenerateAngles)
		return nil, fmt.Errorf("model returned no angles: %w", apperr.ErrUpstream)
	}
	return &result, nil
}

// GenerateScript writes a full UGC video script for a chosen angle.
func (s *AIService) GenerateScript(ctx context.Context, productID, brandID uuid.UUID, angle ai.Angle, durationSeconds int, platform string) (*ai.Script, error) {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", apperr.ErrNotFound)
	}
	if p.BrandID != brandID {
		return nil, fmt.Errorf("product belongs to another brand: %w", apperr.ErrForbidden)
	}
	if durationSeconds <= 0 {
		durationSeconds = 30
	}
	if platform == "" {
		platform = "TikTok"
	}

	refID := productID.String()
	if _, err := s.credits.Spend(ctx, s.pool, brandID, models.CostGenerateScript,
		"Generación de guión UGC", &refID); err != nil {
		return nil, err
	}

	prompt := ai.FillPrompt(ai.GenerateScriptPrompt, map[string]string{
		"product_title": p.Title,
		"angle_title":   angle.Title,
		"hook":          angle.Hook,
		"format":        angle.Format,
		"duration":      strconv.Itoa(durationSeconds),
		"platform":      platform,
	})

	var script ai.Script
	if err := s.complete(ctx, brandID, models.CostGenerateScript, prompt, &script); err != nil {
		return nil, err
	}
	return &script, nil
}

// complete calls the model and decodes its JSON, refunding the charge when
// either step fails.
func (s *AIService) complete(ctx context.Context, userID uuid.UUID, cost int, prompt string, out any) error {
	completion, err := s.client.Complete(ctx, prompt)
	if err != nil {
		s.refund(ctx, userID, cost)
		return fmt.Errorf("model call failed: %w: %v", apperr.ErrUpstream, err)
	}
	if err := ai.ParseJSON(completion, out); err != nil {
		s.refund(ctx, userID, cost)
		return fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}
	return nil
}

func (s *AIService) refund(ctx context.Context, userID uuid.UUID, cost int) {
	if err := s.credits.Refund(ctx, userID, cost, "Reembolso por fallo de IA"); err != nil {
		s.log.Error("credit refund failed",
			zap.String("user_id", userID.String()), zap.Int("credits", cost), zap.Error(err))
	}
}

func priceLabel(min, max float64) string {
	if min <= 0 && max <= 0 {
		return ""
	}
	if min == max {
		return fmt.Sprintf("$%.0f COP", min)
	}
	return fmt.Sprintf("$%.0f - $%.0f COP", min, max)
}
