package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	resourceserrors "campushub/internal/resources/errors"
	"campushub/internal/resources/repository"
	"campushub/internal/resources/validator"
	"campushub/pkg/config"
	apperrors "campushub/pkg/errors"
	"campushub/pkg/model"
	"campushub/pkg/realtime"
	"campushub/pkg/sanitizer"
)

const (
	civilDateLayout = "2006-01-02"
	civilTimeLayout = "15:04"
)

type ResourceService interface {
	Create(ctx context.Context, resource *model.Resource) error
	GetByID(ctx context.Context, id string) (*model.Resource, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, int64, error)
	ListAvailable(ctx context.Context, limit int) ([]*model.Resource, error)
	Reserve(ctx context.Context, id, holderID, date, clock string) (*model.Resource, error)
	Release(ctx context.Context, id string) (*model.Resource, error)
	Usage(ctx context.Context) (*model.Usage, error)
	Delete(ctx context.Context, id string) error
}

type resourceService struct {
	repo      repository.ResourceRepository
	validator *validator.ResourceValidator
	notifier  realtime.Notifier
	cfg       *config.Config
}

func NewResourceService(
	repo repository.ResourceRepository,
	validator *validator.ResourceValidator,
	notifier realtime.Notifier,
	cfg *config.Config,
) ResourceService {
	return &resourceService{
		repo:      repo,
		validator: validator,
		notifier:  notifier,
		cfg:       cfg,
	}
}

func (s *resourceService) Create(ctx context.Context, resource *model.Resource) error {
	s.sanitize(resource)
	if err := s.validator.Validate(resource); err != nil {
		s.cfg.Log.Warn("Resource validation failed", "error", err)
		return apperrors.Validation("Resource validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, resource); err != nil {
		if errors.Is(err, resourceserrors.ErrDuplicateName) {
			return apperrors.Conflict(fmt.Sprintf("Resource with name %q already exists", resource.Name))
		}
		s.cfg.Log.Error("Failed to create resource", "name", resource.Name, "error", err)
		return apperrors.Internal("Failed to create resource", err)
	}

	s.cfg.Log.Info("Resource created successfully",
		"id", resource.ID,
		"name", resource.Name,
		"type", resource.Type,
	)
	return nil
}

func (s *resourceService) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}

	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", id)
		}
		if errors.Is(err, resourceserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid resource ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve resource", err)
	}

	return resource, nil
}

func (s *resourceService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, int64, error) {
	var count int64
	var resources []*model.Resource
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count resources", "error", errCount)
			errCount = apperrors.Internal("Failed to count resources", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		resources, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list resources", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve resources", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return resources, count, nil
}

func (s *resourceService) ListAvailable(ctx context.Context, limit int) ([]*model.Resource, error) {
	limit = config.NormalizePaginationLimit(limit)

	resources, err := s.repo.FindAvailable(ctx, limit)
	if err != nil {
		s.cfg.Log.Error("Failed to list available resources", "error", err)
		return nil, apperrors.Internal("Failed to retrieve available resources", err)
	}

	return resources, nil
}

func (s *resourceService) Reserve(ctx context.Context, id, holderID, date, clock string) (*model.Resource, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}
	if err := s.validator.ValidateHolderID(holderID); err != nil {
		return nil, apperrors.Validation("Invalid holder ID", map[string]any{"error": err.Error()})
	}

	start, err := s.parseReservationStart(date, clock)
	if err != nil {
		return nil, err
	}
	expiry := start.Add(s.cfg.ReservationTTL)

	resource, err := s.repo.ReserveIfAvailable(ctx, id, holderID, start, expiry)
	if err != nil {
		switch {
		case errors.Is(err, resourceserrors.ErrNotApplied):
			return nil, s.classifyNotApplied(ctx, id)
		case errors.Is(err, resourceserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid resource ID format")
		default:
			s.cfg.Log.Error("Failed to reserve resource", "id", id, "holder", holderID, "error", err)
			return nil, apperrors.Internal("Failed to reserve resource", err)
		}
	}

	s.cfg.Log.Info("Resource reserved successfully",
		"id", resource.ID,
		"name", resource.Name,
		"holder", holderID,
		"start", start,
		"expiry", expiry,
	)

	s.broadcastUsage(resource.ID)
	return resource, nil
}

func (s *resourceService) Release(ctx context.Context, id string) (*model.Resource, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}

	resource, err := s.repo.Release(ctx, id)
	if err != nil {
		if errors.Is(err, resourceserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", id)
		}
		if errors.Is(err, resourceserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid resource ID format")
		}
		s.cfg.Log.Error("Failed to release resource", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to release resource", err)
	}

	s.cfg.Log.Info("Resource released successfully", "id", resource.ID, "name", resource.Name)

	s.broadcastUsage(resource.ID)
	return resource, nil
}

func (s *resourceService) Usage(ctx context.Context) (*model.Usage, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to count resources", "error", err)
		return nil, apperrors.Internal("Failed to compute resource usage", err)
	}

	reserved, err := s.repo.CountReserved(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to count reserved resources", "error", err)
		return nil, apperrors.Internal("Failed to compute resource usage", err)
	}

	byType, err := s.repo.CountReservedByType(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to aggregate reserved resources", "error", err)
		return nil, apperrors.Internal("Failed to compute resource usage", err)
	}

	utilization := "0.00%"
	if total > 0 {
		utilization = fmt.Sprintf("%.2f%%", float64(reserved)/float64(total)*100)
	}

	return &model.Usage{
		TotalResources:         total,
		TotalReservedResources: reserved,
		MostReservedResources:  byType,
		ResourceUtilization:    utilization,
	}, nil
}

func (s *resourceService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Resource ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, resourceserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Resource", id)
		}
		if errors.Is(err, resourceserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid resource ID format")
		}
		s.cfg.Log.Error("Failed to delete resource", "id", id, "error", err)
		return apperrors.Internal("Failed to delete resource", err)
	}

	s.cfg.Log.Info("Resource deleted successfully", "id", id)
	return nil
}

// --- Helpers ---

func (s *resourceService) sanitize(resource *model.Resource) {
	resource.Name = sanitizer.NormalizeName(resource.Name)
	resource.Type = strings.ToLower(strings.TrimSpace(resource.Type))

	// New resources always start available with no reservation on record,
	// whatever the request body carried.
	resource.Availability = true
	resource.ReservedBy = nil
	resource.ReservationDate = nil
	resource.ReservationExpiry = nil
}

// parseReservationStart localizes the civil date + time pair to the
// configured reference zone.
func (s *resourceService) parseReservationStart(date, clock string) (time.Time, error) {
	start, err := time.ParseInLocation(
		civilDateLayout+" "+civilTimeLayout,
		date+" "+clock,
		s.cfg.ReservationLocation,
	)
	if err != nil {
		return time.Time{}, apperrors.Validation(
			"Reservation date must be YYYY-MM-DD and time must be HH:MM",
			map[string]any{"date": date, "time": clock},
		)
	}

	if s.cfg.RejectPastReservations && start.Before(time.Now().In(s.cfg.ReservationLocation)) {
		return time.Time{}, apperrors.Validation(
			"Reservation start cannot be in the past",
			map[string]any{"start": start.Format(time.RFC3339)},
		)
	}

	return start, nil
}

// classifyNotApplied distinguishes a lost reservation race from a missing
// resource after a conditional update matched nothing.
func (s *resourceService) classifyNotApplied(ctx context.Context, id string) error {
	_, err := s.repo.FindByID(ctx, id)
	switch {
	case err == nil:
		return apperrors.Conflict("Resource is already reserved")
	case errors.Is(err, resourceserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Resource", id)
	case errors.Is(err, resourceserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid resource ID format")
	default:
		return apperrors.Internal("Failed to reserve resource", err)
	}
}

// broadcastUsage recomputes the usage snapshot and emits it without
// blocking the caller. Broadcast failures never fail the state change.
func (s *resourceService) broadcastUsage(resourceID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
		defer cancel()

		usage, err := s.Usage(ctx)
		if err != nil {
			s.cfg.Log.Warn("Failed to compute usage snapshot for broadcast", "resource_id", resourceID, "error", err)
			return
		}

		if err := s.notifier.Emit(ctx, realtime.EventResourceUpdate, resourceID, usage); err != nil {
			s.cfg.Log.Warn("Failed to broadcast usage snapshot", "resource_id", resourceID, "error", err)
		}
	}()
}
