package service

import (
	"context"
	"testing"
	"time"

	eventserrors "campushub/internal/events/errors"
	"campushub/internal/events/validator"
	"campushub/pkg/config"
	apperrors "campushub/pkg/errors"
	"campushub/pkg/logger"
	"campushub/pkg/model"
)

type mockEventRepository struct {
	createFunc      func(ctx context.Context, event *model.Event) error
	findByIDFunc    func(ctx context.Context, id string) (*model.Event, error)
	findAllFunc     func(ctx context.Context, limit int, offset int64) ([]*model.Event, error)
	addAttendeeFunc func(ctx context.Context, id, userID string) (bool, error)
	countFunc       func(ctx context.Context) (int64, error)
	deleteFunc      func(ctx context.Context, id string) error
}

func (m *mockEventRepository) Create(ctx context.Context, event *model.Event) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, event)
	}
	return nil
}

func (m *mockEventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, eventserrors.ErrNotFound
}

func (m *mockEventRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Event, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockEventRepository) AddAttendee(ctx context.Context, id, userID string) (bool, error) {
	if m.addAttendeeFunc != nil {
		return m.addAttendeeFunc(ctx, id, userID)
	}
	return true, nil
}

func (m *mockEventRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockEventRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func newTestService(repo *mockEventRepository) EventService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
	return NewEventService(repo, validator.NewEventValidator(cfg.Log), cfg)
}

func validEvent() *model.Event {
	return &model.Event{
		Title:     "Open Day",
		Date:      time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
		Location:  "Main Hall",
		Organizer: "U-0001",
	}
}

func TestCreate_ValidEvent(t *testing.T) {
	var created *model.Event
	repo := &mockEventRepository{
		createFunc: func(ctx context.Context, event *model.Event) error {
			created = event
			return nil
		},
	}
	svc := newTestService(repo)

	event := validEvent()
	event.Title = "  Open   Day  "
	if err := svc.Create(context.Background(), event); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Title != "Open Day" {
		t.Errorf("title = %q, want %q", created.Title, "Open Day")
	}
}

func TestCreate_RejectsMissingOrganizer(t *testing.T) {
	svc := newTestService(&mockEventRepository{})

	event := validEvent()
	event.Organizer = ""
	err := svc.Create(context.Background(), event)
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAttend_DuplicateReturnsConflict(t *testing.T) {
	repo := &mockEventRepository{
		addAttendeeFunc: func(ctx context.Context, id, userID string) (bool, error) {
			return false, nil
		},
	}
	svc := newTestService(repo)

	err := svc.Attend(context.Background(), "507f1f77bcf86cd799439011", "U-0001")
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestAttend_UnknownEventReturnsNotFound(t *testing.T) {
	repo := &mockEventRepository{
		addAttendeeFunc: func(ctx context.Context, id, userID string) (bool, error) {
			return false, eventserrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	err := svc.Attend(context.Background(), "507f1f77bcf86cd799439011", "U-0001")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestAttend_Succeeds(t *testing.T) {
	var gotUser string
	repo := &mockEventRepository{
		addAttendeeFunc: func(ctx context.Context, id, userID string) (bool, error) {
			gotUser = userID
			return true, nil
		},
	}
	svc := newTestService(repo)

	if err := svc.Attend(context.Background(), "507f1f77bcf86cd799439011", "U-0042"); err != nil {
		t.Fatalf("Attend returned error: %v", err)
	}
	if gotUser != "U-0042" {
		t.Errorf("user_id = %q, want %q", gotUser, "U-0042")
	}
}
