package service

import (
	"context"
	"sync"
	"testing"
	"time"

	resourceserrors "campushub/internal/resources/errors"
	"campushub/internal/resources/validator"
	"campushub/pkg/config"
	apperrors "campushub/pkg/errors"
	"campushub/pkg/logger"
	"campushub/pkg/model"
)

type mockResourceRepository struct {
	createFunc              func(ctx context.Context, resource *model.Resource) error
	findByIDFunc            func(ctx context.Context, id string) (*model.Resource, error)
	findByNameFunc          func(ctx context.Context, name string) (*model.Resource, error)
	findAllFunc             func(ctx context.Context, limit int, offset int64) ([]*model.Resource, error)
	findAvailableFunc       func(ctx context.Context, limit int) ([]*model.Resource, error)
	findExpiredFunc         func(ctx context.Context, now time.Time) ([]*model.Resource, error)
	reserveIfAvailableFunc  func(ctx context.Context, id, holderID string, start, expiry time.Time) (*model.Resource, error)
	releaseFunc             func(ctx context.Context, id string) (*model.Resource, error)
	releaseIfExpiredFunc    func(ctx context.Context, id string, now time.Time) (bool, error)
	countFunc               func(ctx context.Context) (int64, error)
	countReservedFunc       func(ctx context.Context) (int64, error)
	countReservedByTypeFunc func(ctx context.Context) ([]model.TypeCount, error)
	deleteFunc              func(ctx context.Context, id string) error
}

func (m *mockResourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, resource)
	}
	return nil
}

func (m *mockResourceRepository) FindByID(ctx context.Context, id string) (*model.Resource, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, resourceserrors.ErrNotFound
}

func (m *mockResourceRepository) FindByName(ctx context.Context, name string) (*model.Resource, error) {
	if m.findByNameFunc != nil {
		return m.findByNameFunc(ctx, name)
	}
	return nil, resourceserrors.ErrNotFound
}

func (m *mockResourceRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockResourceRepository) FindAvailable(ctx context.Context, limit int) ([]*model.Resource, error) {
	if m.findAvailableFunc != nil {
		return m.findAvailableFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockResourceRepository) FindExpired(ctx context.Context, now time.Time) ([]*model.Resource, error) {
	if m.findExpiredFunc != nil {
		return m.findExpiredFunc(ctx, now)
	}
	return nil, nil
}

func (m *mockResourceRepository) ReserveIfAvailable(ctx context.Context, id, holderID string, start, expiry time.Time) (*model.Resource, error) {
	if m.reserveIfAvailableFunc != nil {
		return m.reserveIfAvailableFunc(ctx, id, holderID, start, expiry)
	}
	return nil, resourceserrors.ErrNotApplied
}

func (m *mockResourceRepository) Release(ctx context.Context, id string) (*model.Resource, error) {
	if m.releaseFunc != nil {
		return m.releaseFunc(ctx, id)
	}
	return nil, resourceserrors.ErrNotFound
}

func (m *mockResourceRepository) ReleaseIfExpired(ctx context.Context, id string, now time.Time) (bool, error) {
	if m.releaseIfExpiredFunc != nil {
		return m.releaseIfExpiredFunc(ctx, id, now)
	}
	return false, nil
}

func (m *mockResourceRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockResourceRepository) CountReserved(ctx context.Context) (int64, error) {
	if m.countReservedFunc != nil {
		return m.countReservedFunc(ctx)
	}
	return 0, nil
}

func (m *mockResourceRepository) CountReservedByType(ctx context.Context) ([]model.TypeCount, error) {
	if m.countReservedByTypeFunc != nil {
		return m.countReservedByTypeFunc(ctx)
	}
	return nil, nil
}

func (m *mockResourceRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockNotifier struct {
	mu      sync.Mutex
	events  []string
	emitErr error
}

func (m *mockNotifier) Emit(ctx context.Context, event string, key string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.emitErr
}

func (m *mockNotifier) eventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		RequestTimeout:      2 * time.Second,
		ReservationTTL:      24 * time.Hour,
		ReservationLocation: time.UTC,
	}
}

func newTestService(cfg *config.Config, repo *mockResourceRepository, notifier *mockNotifier) ResourceService {
	v := validator.NewResourceValidator(cfg.Log)
	return NewResourceService(repo, v, notifier, cfg)
}

func waitForEvents(t *testing.T, notifier *mockNotifier, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if notifier.eventCount() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d broadcast events, got %d", want, notifier.eventCount())
}

func TestReserve_ComputesExpiryOneDayAfterStart(t *testing.T) {
	cfg := testConfig(t)

	zone, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		t.Fatalf("loading zone: %v", err)
	}
	cfg.ReservationLocation = zone

	var gotStart, gotExpiry time.Time
	holder := "U-0001"
	repo := &mockResourceRepository{
		reserveIfAvailableFunc: func(ctx context.Context, id, holderID string, start, expiry time.Time) (*model.Resource, error) {
			gotStart, gotExpiry = start, expiry
			return &model.Resource{
				ID:                id,
				Name:              "Room A",
				Type:              model.ResourceTypeRoom,
				Availability:      false,
				ReservedBy:        &holderID,
				ReservationDate:   &start,
				ReservationExpiry: &expiry,
			}, nil
		},
	}
	notifier := &mockNotifier{}
	svc := newTestService(cfg, repo, notifier)

	resource, err := svc.Reserve(context.Background(), "507f1f77bcf86cd799439011", holder, "2025-01-10", "09:00")
	if err != nil {
		t.Fatalf("Reserve returned error: %v", err)
	}

	wantStart := time.Date(2025, 1, 10, 9, 0, 0, 0, zone)
	wantExpiry := time.Date(2025, 1, 11, 9, 0, 0, 0, zone)
	if !gotStart.Equal(wantStart) {
		t.Errorf("reservation start = %v, want %v", gotStart, wantStart)
	}
	if !gotExpiry.Equal(wantExpiry) {
		t.Errorf("reservation expiry = %v, want %v", gotExpiry, wantExpiry)
	}
	if resource.Availability {
		t.Error("reserved resource should not be available")
	}
	if resource.ReservedBy == nil || *resource.ReservedBy != holder {
		t.Errorf("reserved_by = %v, want %s", resource.ReservedBy, holder)
	}

	waitForEvents(t, notifier, 1)
}

func TestReserve_AlreadyReservedReturnsConflict(t *testing.T) {
	cfg := testConfig(t)

	holder := "U-0002"
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	expiry := start.Add(24 * time.Hour)
	existing := &model.Resource{
		ID:                "507f1f77bcf86cd799439011",
		Name:              "Room A",
		Type:              model.ResourceTypeRoom,
		Availability:      false,
		ReservedBy:        &holder,
		ReservationDate:   &start,
		ReservationExpiry: &expiry,
	}

	repo := &mockResourceRepository{
		reserveIfAvailableFunc: func(ctx context.Context, id, holderID string, start, expiry time.Time) (*model.Resource, error) {
			return nil, resourceserrors.ErrNotApplied
		},
		findByIDFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return existing, nil
		},
	}
	notifier := &mockNotifier{}
	svc := newTestService(cfg, repo, notifier)

	_, err := svc.Reserve(context.Background(), existing.ID, "U-0003", "2025-03-02", "10:00")
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}

	// The losing call must leave the standing reservation untouched.
	if *existing.ReservedBy != holder {
		t.Errorf("reserved_by changed to %s", *existing.ReservedBy)
	}
	if !existing.ReservationExpiry.Equal(expiry) {
		t.Errorf("reservation_expiry changed to %v", existing.ReservationExpiry)
	}
	if notifier.eventCount() != 0 {
		t.Errorf("failed reserve should not broadcast, got %d events", notifier.eventCount())
	}
}

func TestReserve_UnknownResourceReturnsNotFound(t *testing.T) {
	cfg := testConfig(t)

	repo := &mockResourceRepository{
		reserveIfAvailableFunc: func(ctx context.Context, id, holderID string, start, expiry time.Time) (*model.Resource, error) {
			return nil, resourceserrors.ErrNotApplied
		},
		findByIDFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return nil, resourceserrors.ErrNotFound
		},
	}
	svc := newTestService(cfg, repo, &mockNotifier{})

	_, err := svc.Reserve(context.Background(), "507f1f77bcf86cd799439011", "U-0001", "2025-03-01", "10:00")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestReserve_InputValidation(t *testing.T) {
	cfg := testConfig(t)
	svc := newTestService(cfg, &mockResourceRepository{}, &mockNotifier{})

	tests := []struct {
		name   string
		holder string
		date   string
		clock  string
	}{
		{"malformed date", "U-0001", "10-01-2025", "09:00"},
		{"malformed time", "U-0001", "2025-01-10", "9am"},
		{"empty date", "U-0001", "", "09:00"},
		{"bad holder format", "student-1", "2025-01-10", "09:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Reserve(context.Background(), "507f1f77bcf86cd799439011", tt.holder, tt.date, tt.clock)
			if !apperrors.HasCode(err, apperrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestReserve_PastStartAcceptedByDefault(t *testing.T) {
	cfg := testConfig(t)

	repo := &mockResourceRepository{
		reserveIfAvailableFunc: func(ctx context.Context, id, holderID string, start, expiry time.Time) (*model.Resource, error) {
			return &model.Resource{ID: id, Name: "Room A", ReservedBy: &holderID, ReservationDate: &start, ReservationExpiry: &expiry}, nil
		},
	}
	svc := newTestService(cfg, repo, &mockNotifier{})

	if _, err := svc.Reserve(context.Background(), "507f1f77bcf86cd799439011", "U-0001", "2001-01-01", "09:00"); err != nil {
		t.Fatalf("past start should be accepted when rejection is off, got %v", err)
	}
}

func TestReserve_PastStartRejectedWhenConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.RejectPastReservations = true

	svc := newTestService(cfg, &mockResourceRepository{}, &mockNotifier{})

	_, err := svc.Reserve(context.Background(), "507f1f77bcf86cd799439011", "U-0001", "2001-01-01", "09:00")
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error for past start, got %v", err)
	}
}

func TestReserve_BroadcastFailureDoesNotFailReservation(t *testing.T) {
	cfg := testConfig(t)

	repo := &mockResourceRepository{
		reserveIfAvailableFunc: func(ctx context.Context, id, holderID string, start, expiry time.Time) (*model.Resource, error) {
			return &model.Resource{ID: id, Name: "Room A", ReservedBy: &holderID, ReservationDate: &start, ReservationExpiry: &expiry}, nil
		},
	}
	notifier := &mockNotifier{emitErr: context.DeadlineExceeded}
	svc := newTestService(cfg, repo, notifier)

	if _, err := svc.Reserve(context.Background(), "507f1f77bcf86cd799439011", "U-0001", "2025-03-01", "10:00"); err != nil {
		t.Fatalf("broadcast failure must not fail the reservation, got %v", err)
	}

	waitForEvents(t, notifier, 1)
}

func TestReserve_ConcurrentCallsOnlyOneWins(t *testing.T) {
	cfg := testConfig(t)

	var mu sync.Mutex
	available := true
	repo := &mockResourceRepository{
		reserveIfAvailableFunc: func(ctx context.Context, id, holderID string, start, expiry time.Time) (*model.Resource, error) {
			mu.Lock()
			defer mu.Unlock()
			if !available {
				return nil, resourceserrors.ErrNotApplied
			}
			available = false
			return &model.Resource{ID: id, Name: "Room A", ReservedBy: &holderID, ReservationDate: &start, ReservationExpiry: &expiry}, nil
		},
		findByIDFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return &model.Resource{ID: id, Name: "Room A", Availability: false}, nil
		},
	}
	svc := newTestService(cfg, repo, &mockNotifier{})

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, holder := range []string{"U-0001", "U-0002"} {
		wg.Add(1)
		go func(holder string) {
			defer wg.Done()
			_, err := svc.Reserve(context.Background(), "507f1f77bcf86cd799439011", holder, "2025-03-01", "10:00")
			results <- err
		}(holder)
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case apperrors.HasCode(err, apperrors.CodeConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if wins != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one winner and one conflict, got %d wins, %d conflicts", wins, conflicts)
	}
}

func TestUsage_EmptyStoreReportsZeroUtilization(t *testing.T) {
	cfg := testConfig(t)
	svc := newTestService(cfg, &mockResourceRepository{}, &mockNotifier{})

	usage, err := svc.Usage(context.Background())
	if err != nil {
		t.Fatalf("Usage returned error: %v", err)
	}

	if usage.TotalResources != 0 || usage.TotalReservedResources != 0 {
		t.Errorf("expected zero counts, got %+v", usage)
	}
	if usage.ResourceUtilization != "0.00%" {
		t.Errorf("utilization = %q, want %q", usage.ResourceUtilization, "0.00%")
	}
}

func TestUsage_FormatsUtilizationToTwoDecimals(t *testing.T) {
	cfg := testConfig(t)

	repo := &mockResourceRepository{
		countFunc:         func(ctx context.Context) (int64, error) { return 3, nil },
		countReservedFunc: func(ctx context.Context) (int64, error) { return 1, nil },
		countReservedByTypeFunc: func(ctx context.Context) ([]model.TypeCount, error) {
			return []model.TypeCount{{Type: model.ResourceTypeRoom, Count: 1}}, nil
		},
	}
	svc := newTestService(cfg, repo, &mockNotifier{})

	usage, err := svc.Usage(context.Background())
	if err != nil {
		t.Fatalf("Usage returned error: %v", err)
	}

	if usage.ResourceUtilization != "33.33%" {
		t.Errorf("utilization = %q, want %q", usage.ResourceUtilization, "33.33%")
	}
	if len(usage.MostReservedResources) != 1 || usage.MostReservedResources[0].Type != model.ResourceTypeRoom {
		t.Errorf("unexpected type breakdown: %+v", usage.MostReservedResources)
	}
}

func TestCreate_DuplicateNameReturnsConflict(t *testing.T) {
	cfg := testConfig(t)

	repo := &mockResourceRepository{
		createFunc: func(ctx context.Context, resource *model.Resource) error {
			return resourceserrors.ErrDuplicateName
		},
	}
	svc := newTestService(cfg, repo, &mockNotifier{})

	err := svc.Create(context.Background(), &model.Resource{Name: "Room A", Type: model.ResourceTypeRoom})
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCreate_DiscardsClientSuppliedReservationState(t *testing.T) {
	cfg := testConfig(t)

	var stored *model.Resource
	repo := &mockResourceRepository{
		createFunc: func(ctx context.Context, resource *model.Resource) error {
			stored = resource
			return nil
		},
	}
	svc := newTestService(cfg, repo, &mockNotifier{})

	holder := "U-0001"
	start := time.Now().Add(time.Hour)
	expiry := start.Add(2 * time.Hour)
	err := svc.Create(context.Background(), &model.Resource{
		Name:              "Room A",
		Type:              model.ResourceTypeRoom,
		Availability:      false,
		ReservedBy:        &holder,
		ReservationDate:   &start,
		ReservationExpiry: &expiry,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil {
		t.Fatal("expected resource to be stored")
	}
	if !stored.Availability {
		t.Error("expected new resource to be available")
	}
	if stored.ReservedBy != nil || stored.ReservationDate != nil || stored.ReservationExpiry != nil {
		t.Errorf("expected reservation fields to be cleared, got holder=%v date=%v expiry=%v",
			stored.ReservedBy, stored.ReservationDate, stored.ReservationExpiry)
	}
}

func TestCreate_RejectsUnknownType(t *testing.T) {
	cfg := testConfig(t)
	svc := newTestService(cfg, &mockResourceRepository{}, &mockNotifier{})

	err := svc.Create(context.Background(), &model.Resource{Name: "Room A", Type: "auditorium"})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRelease_ClearsReservationAndBroadcasts(t *testing.T) {
	cfg := testConfig(t)

	repo := &mockResourceRepository{
		releaseFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return &model.Resource{ID: id, Name: "Room A", Availability: true}, nil
		},
	}
	notifier := &mockNotifier{}
	svc := newTestService(cfg, repo, notifier)

	resource, err := svc.Release(context.Background(), "507f1f77bcf86cd799439011")
	if err != nil {
		t.Fatalf("Release returned error: %v", err)
	}

	if !resource.Availability {
		t.Error("released resource should be available")
	}
	if resource.ReservedBy != nil || resource.ReservationDate != nil || resource.ReservationExpiry != nil {
		t.Error("released resource should carry no reservation fields")
	}

	waitForEvents(t, notifier, 1)
}

func TestRelease_UnknownResourceReturnsNotFound(t *testing.T) {
	cfg := testConfig(t)

	repo := &mockResourceRepository{
		releaseFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return nil, resourceserrors.ErrNotFound
		},
	}
	svc := newTestService(cfg, repo, &mockNotifier{})

	_, err := svc.Release(context.Background(), "507f1f77bcf86cd799439011")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
