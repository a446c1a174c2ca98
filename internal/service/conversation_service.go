package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Galomer310/ManisR-backend/internal/middleware"
	"github.com/Galomer310/ManisR-backend/internal/models"
	"github.com/Galomer310/ManisR-backend/internal/notifications"
	"github.com/Galomer310/ManisR-backend/internal/repository"

	"gorm.io/gorm"
)

// ConversationService provides the append-only per-meal chat log.
type ConversationService struct {
	convRepo    repository.ConversationRepository
	listingRepo repository.ListingRepository
	notifier    *notifications.Notifier
}

// NewConversationService returns a new ConversationService.
func NewConversationService(
	convRepo repository.ConversationRepository,
	listingRepo repository.ListingRepository,
	notifier *notifications.Notifier,
) *ConversationService {
	return &ConversationService{
		convRepo:    convRepo,
		listingRepo: listingRepo,
		notifier:    notifier,
	}
}

// SendMessageInput is the input for appending a chat line to a meal.
type SendMessageInput struct {
	MealID     uint   `validate:"required"`
	SenderID   uint   `validate:"required"`
	ReceiverID uint   `validate:"required"`
	Message    string `validate:"required"`
}

// Send appends a message to a meal's conversation. Every field is required;
// the meal must be live and one side of the exchange must be its giver.
func (s *ConversationService) Send(ctx context.Context, in SendMessageInput) (*models.ConversationMessage, error) {
	if err := validate.Struct(in); err != nil {
		return nil, models.NewValidationError("Meal, sender, receiver and message are all required")
	}

	listing, err := s.listingRepo.GetByID(ctx, in.MealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Meal", in.MealID)
		}
		return nil, err
	}
	// One side of a meal conversation is always the giver.
	if listing.GiverID != in.SenderID && listing.GiverID != in.ReceiverID {
		return nil, models.NewForbiddenError("Conversation is limited to the meal's participants")
	}

	msg := &models.ConversationMessage{
		MealID:     in.MealID,
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Message:    in.Message,
	}
	if err := s.convRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		err := s.notifier.PublishConversation(ctx, in.MealID, notifications.Event{
			Type:   notifications.EventNewMessage,
			MealID: in.MealID,
			Payload: notifications.NewMessagePayload{
				SenderID:  msg.SenderID,
				Message:   msg.Message,
				CreatedAt: msg.CreatedAt,
			},
		})
		if err != nil {
			logBroadcastError(ctx, "conversation broadcast failed", err)
		}
	}

	return msg, nil
}

// ListFor returns the full ordered history for a meal, oldest first.
func (s *ConversationService) ListFor(ctx context.Context, mealID uint) ([]*models.ConversationMessage, error) {
	return s.convRepo.ListByMeal(ctx, mealID)
}

// CountFor returns the number of messages for a meal. A meal with no
// messages counts 0; this is never a not-found error.
func (s *ConversationService) CountFor(ctx context.Context, mealID uint) (int64, error) {
	return s.convRepo.CountByMeal(ctx, mealID)
}

// DeleteFor removes a meal's conversation. Idempotent: deleting an empty
// conversation succeeds.
func (s *ConversationService) DeleteFor(ctx context.Context, mealID uint) (int64, error) {
	return s.convRepo.DeleteByMeal(ctx, mealID)
}

func logBroadcastError(ctx context.Context, msg string, err error) {
	middleware.Logger.WarnContext(ctx, msg, slog.String("error", err.Error()))
}
