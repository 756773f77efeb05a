package service

import (
	"context"
	"errors"
	"sync"

	eventserrors "campushub/internal/events/errors"
	"campushub/internal/events/repository"
	"campushub/internal/events/validator"
	"campushub/pkg/config"
	apperrors "campushub/pkg/errors"
	"campushub/pkg/model"
	"campushub/pkg/sanitizer"
)

type EventService interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Event, int64, error)
	Attend(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id string) error
}

type eventService struct {
	repo      repository.EventRepository
	validator *validator.EventValidator
	cfg       *config.Config
}

func NewEventService(
	repo repository.EventRepository,
	validator *validator.EventValidator,
	cfg *config.Config,
) EventService {
	return &eventService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *eventService) Create(ctx context.Context, event *model.Event) error {
	event.Title = sanitizer.NormalizeTitle(event.Title)
	event.Location = sanitizer.NormalizeLocation(event.Location)

	if err := s.validator.Validate(event); err != nil {
		s.cfg.Log.Warn("Event validation failed", "error", err)
		return apperrors.Validation("Event validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to create event", "title", event.Title, "error", err)
		return apperrors.Internal("Failed to create event", err)
	}

	s.cfg.Log.Info("Event created successfully",
		"id", event.ID,
		"title", event.Title,
		"organizer", event.Organizer,
	)
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Event", id)
		}
		if errors.Is(err, eventserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid event ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve event", err)
	}

	return event, nil
}

func (s *eventService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Event, int64, error) {
	var count int64
	var events []*model.Event
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count events", "error", errCount)
			errCount = apperrors.Internal("Failed to count events", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		events, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list events", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve events", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return events, count, nil
}

func (s *eventService) Attend(ctx context.Context, id, userID string) error {
	if id == "" {
		return apperrors.InvalidInput("Event ID cannot be empty")
	}
	if userID == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	added, err := s.repo.AddAttendee(ctx, id, userID)
	if err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Event", id)
		}
		if errors.Is(err, eventserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid event ID format")
		}
		s.cfg.Log.Error("Failed to add attendee", "id", id, "user_id", userID, "error", err)
		return apperrors.Internal("Failed to register attendance", err)
	}

	if !added {
		return apperrors.Conflict("User is already attending this event")
	}

	s.cfg.Log.Info("Attendee registered", "id", id, "user_id", userID)
	return nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Event ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Event", id)
		}
		if errors.Is(err, eventserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid event ID format")
		}
		s.cfg.Log.Error("Failed to delete event", "id", id, "error", err)
		return apperrors.Internal("Failed to delete event", err)
	}

	s.cfg.Log.Info("Event deleted successfully", "id", id)
	return nil
}
