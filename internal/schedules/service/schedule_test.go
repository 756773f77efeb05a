package service

import (
	"context"
	"testing"
	"time"

	scheduleserrors "campushub/internal/schedules/errors"
	"campushub/internal/schedules/validator"
	"campushub/pkg/config"
	apperrors "campushub/pkg/errors"
	"campushub/pkg/logger"
	"campushub/pkg/model"
)

type mockScheduleRepository struct {
	findByStudentFunc func(ctx context.Context, studentID string) (*model.Schedule, error)
	addEntryFunc      func(ctx context.Context, studentID string, entry *model.ScheduleEntry) error
	updateEntryFunc   func(ctx context.Context, studentID string, entry *model.ScheduleEntry) error
	deleteEntryFunc   func(ctx context.Context, studentID, entryID string) error
}

func (m *mockScheduleRepository) FindByStudent(ctx context.Context, studentID string) (*model.Schedule, error) {
	if m.findByStudentFunc != nil {
		return m.findByStudentFunc(ctx, studentID)
	}
	return nil, scheduleserrors.ErrNotFound
}

func (m *mockScheduleRepository) AddEntry(ctx context.Context, studentID string, entry *model.ScheduleEntry) error {
	if m.addEntryFunc != nil {
		return m.addEntryFunc(ctx, studentID, entry)
	}
	return nil
}

func (m *mockScheduleRepository) UpdateEntry(ctx context.Context, studentID string, entry *model.ScheduleEntry) error {
	if m.updateEntryFunc != nil {
		return m.updateEntryFunc(ctx, studentID, entry)
	}
	return nil
}

func (m *mockScheduleRepository) DeleteEntry(ctx context.Context, studentID, entryID string) error {
	if m.deleteEntryFunc != nil {
		return m.deleteEntryFunc(ctx, studentID, entryID)
	}
	return nil
}

func newTestService(repo *mockScheduleRepository) ScheduleService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
	return NewScheduleService(repo, validator.NewScheduleValidator(cfg.Log), cfg)
}

func validEntry() *model.ScheduleEntry {
	return &model.ScheduleEntry{
		Title: "Algorithms lecture",
		Date:  time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		Type:  model.ScheduleEntryClass,
	}
}

func TestGetByStudent_MissingDocumentReadsAsEmptySchedule(t *testing.T) {
	svc := newTestService(&mockScheduleRepository{})

	schedule, err := svc.GetByStudent(context.Background(), "U-0001")
	if err != nil {
		t.Fatalf("GetByStudent returned error: %v", err)
	}
	if schedule.StudentID != "U-0001" {
		t.Errorf("unexpected student id %q", schedule.StudentID)
	}
	if schedule.Entries == nil || len(schedule.Entries) != 0 {
		t.Errorf("expected empty entries slice, got %v", schedule.Entries)
	}
}

func TestGetByStudent_RejectsMalformedStudentID(t *testing.T) {
	svc := newTestService(&mockScheduleRepository{})

	_, err := svc.GetByStudent(context.Background(), "u-001")
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddEntry_AssignsIDAndCreatedAt(t *testing.T) {
	var saved *model.ScheduleEntry
	repo := &mockScheduleRepository{
		addEntryFunc: func(_ context.Context, _ string, entry *model.ScheduleEntry) error {
			saved = entry
			return nil
		},
	}
	svc := newTestService(repo)

	entry := validEntry()
	if err := svc.AddEntry(context.Background(), "U-0001", entry); err != nil {
		t.Fatalf("AddEntry returned error: %v", err)
	}
	if saved == nil {
		t.Fatal("expected repository AddEntry to be called")
	}
	if saved.ID == "" {
		t.Error("expected a generated entry ID")
	}
	if saved.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestAddEntry_RejectsUnknownType(t *testing.T) {
	svc := newTestService(&mockScheduleRepository{})

	entry := validEntry()
	entry.Type = "party"

	err := svc.AddEntry(context.Background(), "U-0001", entry)
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateEntry_MergesFields(t *testing.T) {
	existing := validEntry()
	existing.ID = "entry-1"
	var saved *model.ScheduleEntry
	repo := &mockScheduleRepository{
		findByStudentFunc: func(_ context.Context, studentID string) (*model.Schedule, error) {
			return &model.Schedule{
				StudentID: studentID,
				Entries:   []model.ScheduleEntry{*existing},
			}, nil
		},
		updateEntryFunc: func(_ context.Context, _ string, entry *model.ScheduleEntry) error {
			saved = entry
			return nil
		},
	}
	svc := newTestService(repo)

	newDate := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
	updated, err := svc.UpdateEntry(context.Background(), "U-0001", "entry-1", &model.ScheduleEntryUpdate{
		Title: "Algorithms exam",
		Date:  &newDate,
		Type:  model.ScheduleEntryExam,
	})
	if err != nil {
		t.Fatalf("UpdateEntry returned error: %v", err)
	}
	if saved == nil {
		t.Fatal("expected repository UpdateEntry to be called")
	}
	if updated.Title != "Algorithms exam" {
		t.Errorf("unexpected title %q", updated.Title)
	}
	if !updated.Date.Equal(newDate) {
		t.Errorf("unexpected date %v", updated.Date)
	}
	if updated.Type != model.ScheduleEntryExam {
		t.Errorf("unexpected type %q", updated.Type)
	}
	if updated.ID != "entry-1" {
		t.Errorf("entry ID should be immutable, got %q", updated.ID)
	}
}

func TestUpdateEntry_UnknownEntryReturnsNotFound(t *testing.T) {
	repo := &mockScheduleRepository{
		findByStudentFunc: func(_ context.Context, studentID string) (*model.Schedule, error) {
			return &model.Schedule{StudentID: studentID, Entries: []model.ScheduleEntry{}}, nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.UpdateEntry(context.Background(), "U-0001", "missing", &model.ScheduleEntryUpdate{Title: "x"})
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDeleteEntry_UnknownEntryReturnsNotFound(t *testing.T) {
	repo := &mockScheduleRepository{
		deleteEntryFunc: func(_ context.Context, _, _ string) error {
			return scheduleserrors.ErrEntryNotFound
		},
	}
	svc := newTestService(repo)

	err := svc.DeleteEntry(context.Background(), "U-0001", "missing")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
