package service

import (
	"context"
	"testing"

	notificationserrors "campushub/internal/notifications/errors"
	"campushub/internal/notifications/validator"
	"campushub/pkg/config"
	apperrors "campushub/pkg/errors"
	"campushub/pkg/logger"
	"campushub/pkg/model"
)

type mockNotificationRepository struct {
	createFunc      func(ctx context.Context, notification *model.Notification) error
	findByUserFunc  func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Notification, error)
	countByUserFunc func(ctx context.Context, userID string) (int64, error)
	markReadFunc    func(ctx context.Context, id, userID string) error
}

func (m *mockNotificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, notification)
	}
	return nil
}

func (m *mockNotificationRepository) FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Notification, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID, limit, offset)
	}
	return []*model.Notification{}, nil
}

func (m *mockNotificationRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	if m.countByUserFunc != nil {
		return m.countByUserFunc(ctx, userID)
	}
	return 0, nil
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, id, userID)
	}
	return nil
}

func newTestService(repo *mockNotificationRepository) NotificationService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
	return NewNotificationService(repo, validator.NewNotificationValidator(cfg.Log), cfg)
}

func TestCreate_RejectsUnknownKind(t *testing.T) {
	svc := newTestService(&mockNotificationRepository{})

	err := svc.Create(context.Background(), &model.Notification{
		UserID:  "U-0001",
		Kind:    "spam",
		Message: "hello",
	})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_PersistsValidNotification(t *testing.T) {
	var created *model.Notification
	repo := &mockNotificationRepository{
		createFunc: func(_ context.Context, notification *model.Notification) error {
			created = notification
			return nil
		},
	}
	svc := newTestService(repo)

	err := svc.Create(context.Background(), &model.Notification{
		UserID:  "U-0001",
		Kind:    model.NotificationReservationExpired,
		Message: "Your reservation of Study Room 2 expired.",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created == nil {
		t.Fatal("expected repository Create to be called")
	}
}

func TestListByUser_ReturnsFeedAndTotal(t *testing.T) {
	repo := &mockNotificationRepository{
		findByUserFunc: func(_ context.Context, userID string, _ int, _ int64) ([]*model.Notification, error) {
			return []*model.Notification{
				{UserID: userID, Kind: model.NotificationGeneral, Message: "welcome"},
			}, nil
		},
		countByUserFunc: func(_ context.Context, _ string) (int64, error) {
			return 7, nil
		},
	}
	svc := newTestService(repo)

	notifications, total, err := svc.ListByUser(context.Background(), "U-0001", 10, 0)
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(notifications) != 1 {
		t.Errorf("expected 1 notification, got %d", len(notifications))
	}
	if total != 7 {
		t.Errorf("expected total 7, got %d", total)
	}
}

func TestListByUser_RejectsMalformedUserID(t *testing.T) {
	svc := newTestService(&mockNotificationRepository{})

	_, _, err := svc.ListByUser(context.Background(), "bogus", 10, 0)
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMarkRead_UnknownNotificationReturnsNotFound(t *testing.T) {
	repo := &mockNotificationRepository{
		markReadFunc: func(_ context.Context, _, _ string) error {
			return notificationserrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	err := svc.MarkRead(context.Background(), "665f1c2ab1e4f7d9a9c3e999", "U-0001")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestMarkRead_ScopesToOwner(t *testing.T) {
	var scopedUser string
	repo := &mockNotificationRepository{
		markReadFunc: func(_ context.Context, _, userID string) error {
			scopedUser = userID
			return nil
		},
	}
	svc := newTestService(repo)

	if err := svc.MarkRead(context.Background(), "665f1c2ab1e4f7d9a9c3e111", "U-0001"); err != nil {
		t.Fatalf("MarkRead returned error: %v", err)
	}
	if scopedUser != "U-0001" {
		t.Errorf("expected owner scope U-0001, got %q", scopedUser)
	}
}
