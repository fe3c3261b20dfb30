package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/apperr"
	"github.com/ugc-marketplace/backend/internal/events"
	"github.com/ugc-marketplace/backend/internal/models"
	"github.com/ugc-marketplace/backend/internal/repositories"
)

type MessageService struct {
	messageRepo     *repositories.MessageRepo
	campaignRepo    *repositories.CampaignRepo
	applicationRepo *repositories.ApplicationRepo
	publisher       events.Publisher
	log             *zap.Logger
}

func NewMessageService(
	messageRepo *repositories.MessageRepo,
	campaignRepo *repositories.CampaignRepo,
	applicationRepo *repositories.ApplicationRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *MessageService {
	return &MessageService{
		messageRepo:     messageRepo,
		campaignRepo:    campaignRepo,
		applicationRepo: applicationRepo,
		publisher:       publisher,
		log:             log,
	}
}

// Send delivers a campaign-scoped message. Messaging opens once the creator
// has applied: the sender must be the campaign's brand or an applicant, and
// the receiver the opposite side.
func (s *MessageService) Send(ctx context.Context, campaignID, senderID, receiverID uuid.UUID, content string) (*models.Message, error) {
	if content == "" {
		return nil, fmt.Errorf("message is empty: %w", apperr.ErrInvalidInput)
	}
	if len(content) > 4000 {
		return nil, fmt.Errorf("message too long: %w", apperr.ErrInvalidInput)
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("cannot message yourself: %w", apperr.ErrInvalidInput)
	}

	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("campaign not found: %w", apperr.ErrNotFound)
	}

	var creatorID uuid.UUID
	switch campaign.BrandID {
	case senderID:
		creatorID = receiverID
	case receiverID:
		creatorID = senderID
	default:
		return nil, fmt.Errorf("one side of the thread must be the campaign brand: %w", apperr.ErrForbidden)
	}

	applied, err := s.applicationRepo.Exists(ctx, campaignID, creatorID)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("creator has not applied to this campaign: %w", apperr.ErrForbidden)
	}

	m := &models.Message{
		CampaignID: campaignID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.messageRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	_ = s.publisher.Publish(ctx, events.StreamMarketplace, events.Event{
		Type: events.EventMessageSent,
		Payload: map[string]any{
			"message_id":  m.ID.String(),
			"campaign_id": campaignID.String(),
			"sender_id":   senderID.String(),
			"receiver_id": receiverID.String(),
		},
	})
	return m, nil
}

// Thread returns the conversation and marks what the reader received as read.
func (s *MessageService) Thread(ctx context.Context, campaignID, readerID, otherID uuid.UUID, limit, offset int) ([]models.Message, error) {
	messages, err := s.messageRepo.ListThread(ctx, campaignID, readerID, otherID, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.messageRepo.MarkRead(ctx, campaignID, readerID); err != nil {
		s.log.Warn("mark read failed", zap.String("campaign_id", campaignID.String()), zap.Error(err))
	}
	return messages, nil
}

func (s *MessageService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.messageRepo.CountUnread(ctx, userID)
}
