package service

import (
	"context"
	"errors"
	"sync"

	notificationserrors "campushub/internal/notifications/errors"
	"campushub/internal/notifications/repository"
	"campushub/internal/notifications/validator"
	"campushub/pkg/config"
	apperrors "campushub/pkg/errors"
	"campushub/pkg/model"
)

type NotificationService interface {
	Create(ctx context.Context, notification *model.Notification) error
	ListByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type notificationService struct {
	repo      repository.NotificationRepository
	validator *validator.NotificationValidator
	cfg       *config.Config
}

func NewNotificationService(
	repo repository.NotificationRepository,
	validator *validator.NotificationValidator,
	cfg *config.Config,
) NotificationService {
	return &notificationService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *notificationService) Create(ctx context.Context, notification *model.Notification) error {
	if err := s.validator.Validate(notification); err != nil {
		s.cfg.Log.Warn("Notification validation failed", "error", err)
		return apperrors.Validation("Notification validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		s.cfg.Log.Error("Failed to create notification", "user_id", notification.UserID, "error", err)
		return apperrors.Internal("Failed to create notification", err)
	}

	s.cfg.Log.Info("Notification created",
		"id", notification.ID,
		"user_id", notification.UserID,
		"kind", notification.Kind,
	)
	return nil
}

func (s *notificationService) ListByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Notification, int64, error) {
	if err := s.validator.ValidateUserID(userID); err != nil {
		return nil, 0, apperrors.Validation("Invalid user ID", map[string]any{"error": err.Error()})
	}

	var count int64
	var notifications []*model.Notification
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByUser(ctx, userID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count notifications", "user_id", userID, "error", errCount)
			errCount = apperrors.Internal("Failed to count notifications", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		notifications, errFind = s.repo.FindByUser(ctx, userID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list notifications", "user_id", userID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve notifications", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return notifications, count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	if id == "" {
		return apperrors.InvalidInput("Notification ID cannot be empty")
	}

	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, notificationserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Notification", id)
		}
		if errors.Is(err, notificationserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid notification ID format")
		}
		s.cfg.Log.Error("Failed to mark notification read", "id", id, "error", err)
		return apperrors.Internal("Failed to mark notification read", err)
	}

	s.cfg.Log.Info("Notification marked read", "id", id, "user_id", userID)
	return nil
}
