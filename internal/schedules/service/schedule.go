package service

import (
	"context"
	"errors"
	"time"

	scheduleserrors "campushub/internal/schedules/errors"
	"campushub/internal/schedules/repository"
	"campushub/internal/schedules/validator"
	"campushub/pkg/config"
	apperrors "campushub/pkg/errors"
	"campushub/pkg/model"
	"campushub/pkg/sanitizer"

	"github.com/google/uuid"
)

type ScheduleService interface {
	GetByStudent(ctx context.Context, studentID string) (*model.Schedule, error)
	AddEntry(ctx context.Context, studentID string, entry *model.ScheduleEntry) error
	UpdateEntry(ctx context.Context, studentID, entryID string, update *model.ScheduleEntryUpdate) (*model.ScheduleEntry, error)
	DeleteEntry(ctx context.Context, studentID, entryID string) error
}

type scheduleService struct {
	repo      repository.ScheduleRepository
	validator *validator.ScheduleValidator
	cfg       *config.Config
}

func NewScheduleService(
	repo repository.ScheduleRepository,
	validator *validator.ScheduleValidator,
	cfg *config.Config,
) ScheduleService {
	return &scheduleService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// GetByStudent never returns NotFound for a student without entries: the
// schedule document is created lazily, so an absent document reads as an
// empty schedule.
func (s *scheduleService) GetByStudent(ctx context.Context, studentID string) (*model.Schedule, error) {
	if err := s.validator.ValidateStudentID(studentID); err != nil {
		return nil, apperrors.Validation("Invalid student ID", map[string]any{"error": err.Error()})
	}

	schedule, err := s.repo.FindByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, scheduleserrors.ErrNotFound) {
			return &model.Schedule{StudentID: studentID, Entries: []model.ScheduleEntry{}}, nil
		}
		s.cfg.Log.Error("Failed to retrieve schedule", "student_id", studentID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve schedule", err)
	}

	return schedule, nil
}

func (s *scheduleService) AddEntry(ctx context.Context, studentID string, entry *model.ScheduleEntry) error {
	if err := s.validator.ValidateStudentID(studentID); err != nil {
		return apperrors.Validation("Invalid student ID", map[string]any{"error": err.Error()})
	}

	entry.Title = sanitizer.NormalizeTitle(entry.Title)
	entry.Location = sanitizer.NormalizeLocation(entry.Location)
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()

	if err := s.validator.ValidateEntry(entry); err != nil {
		s.cfg.Log.Warn("Schedule entry validation failed", "student_id", studentID, "error", err)
		return apperrors.Validation("Schedule entry validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.AddEntry(ctx, studentID, entry); err != nil {
		s.cfg.Log.Error("Failed to add schedule entry", "student_id", studentID, "error", err)
		return apperrors.Internal("Failed to add schedule entry", err)
	}

	s.cfg.Log.Info("Schedule entry added",
		"student_id", studentID,
		"entry_id", entry.ID,
		"type", entry.Type,
	)
	return nil
}

func (s *scheduleService) UpdateEntry(ctx context.Context, studentID, entryID string, update *model.ScheduleEntryUpdate) (*model.ScheduleEntry, error) {
	if err := s.validator.ValidateStudentID(studentID); err != nil {
		return nil, apperrors.Validation("Invalid student ID", map[string]any{"error": err.Error()})
	}
	if entryID == "" {
		return nil, apperrors.InvalidInput("Entry ID cannot be empty")
	}

	if err := s.validator.ValidateEntryUpdate(update); err != nil {
		s.cfg.Log.Warn("Schedule entry update validation failed", "student_id", studentID, "error", err)
		return nil, apperrors.Validation("Schedule entry update validation failed", map[string]any{"error": err.Error()})
	}

	schedule, err := s.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var entry *model.ScheduleEntry
	for i := range schedule.Entries {
		if schedule.Entries[i].ID == entryID {
			entry = &schedule.Entries[i]
			break
		}
	}
	if entry == nil {
		return nil, apperrors.NotFoundWithID("Schedule entry", entryID)
	}

	if update.Title != "" {
		entry.Title = sanitizer.NormalizeTitle(update.Title)
	}
	if update.Description != nil {
		entry.Description = *update.Description
	}
	if update.Date != nil {
		entry.Date = *update.Date
	}
	if update.Location != nil {
		entry.Location = sanitizer.NormalizeLocation(*update.Location)
	}
	if update.Type != "" {
		entry.Type = update.Type
	}

	if err := s.repo.UpdateEntry(ctx, studentID, entry); err != nil {
		if errors.Is(err, scheduleserrors.ErrEntryNotFound) {
			return nil, apperrors.NotFoundWithID("Schedule entry", entryID)
		}
		s.cfg.Log.Error("Failed to update schedule entry", "student_id", studentID, "entry_id", entryID, "error", err)
		return nil, apperrors.Internal("Failed to update schedule entry", err)
	}

	s.cfg.Log.Info("Schedule entry updated", "student_id", studentID, "entry_id", entryID)
	return entry, nil
}

func (s *scheduleService) DeleteEntry(ctx context.Context, studentID, entryID string) error {
	if err := s.validator.ValidateStudentID(studentID); err != nil {
		return apperrors.Validation("Invalid student ID", map[string]any{"error": err.Error()})
	}
	if entryID == "" {
		return apperrors.InvalidInput("Entry ID cannot be empty")
	}

	if err := s.repo.DeleteEntry(ctx, studentID, entryID); err != nil {
		if errors.Is(err, scheduleserrors.ErrNotFound) || errors.Is(err, scheduleserrors.ErrEntryNotFound) {
			return apperrors.NotFoundWithID("Schedule entry", entryID)
		}
		s.cfg.Log.Error("Failed to delete schedule entry", "student_id", studentID, "entry_id", entryID, "error", err)
		return apperrors.Internal("Failed to delete schedule entry", err)
	}

	s.cfg.Log.Info("Schedule entry deleted", "student_id", studentID, "entry_id", entryID)
	return nil
}
