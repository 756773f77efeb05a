package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	resourceserrors "campushub/internal/resources/errors"
	"campushub/pkg/config"
	"campushub/pkg/logger"
	"campushub/pkg/model"
	"campushub/pkg/realtime"
)

type mockSweepRepository struct {
	findExpiredFunc      func(ctx context.Context, now time.Time) ([]*model.Resource, error)
	releaseIfExpiredFunc func(ctx context.Context, id string, now time.Time) (bool, error)
}

func (m *mockSweepRepository) FindExpired(ctx context.Context, now time.Time) ([]*model.Resource, error) {
	if m.findExpiredFunc != nil {
		return m.findExpiredFunc(ctx, now)
	}
	return nil, nil
}

func (m *mockSweepRepository) ReleaseIfExpired(ctx context.Context, id string, now time.Time) (bool, error) {
	if m.releaseIfExpiredFunc != nil {
		return m.releaseIfExpiredFunc(ctx, id, now)
	}
	return false, nil
}

func (m *mockSweepRepository) Create(ctx context.Context, resource *model.Resource) error {
	return nil
}

func (m *mockSweepRepository) FindByID(ctx context.Context, id string) (*model.Resource, error) {
	return nil, resourceserrors.ErrNotFound
}

func (m *mockSweepRepository) FindByName(ctx context.Context, name string) (*model.Resource, error) {
	return nil, resourceserrors.ErrNotFound
}

func (m *mockSweepRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, error) {
	return nil, nil
}

func (m *mockSweepRepository) FindAvailable(ctx context.Context, limit int) ([]*model.Resource, error) {
	return nil, nil
}

func (m *mockSweepRepository) ReserveIfAvailable(ctx context.Context, id, holderID string, start, expiry time.Time) (*model.Resource, error) {
	return nil, resourceserrors.ErrNotApplied
}

func (m *mockSweepRepository) Release(ctx context.Context, id string) (*model.Resource, error) {
	return nil, resourceserrors.ErrNotFound
}

func (m *mockSweepRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockSweepRepository) CountReserved(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockSweepRepository) CountReservedByType(ctx context.Context) ([]model.TypeCount, error) {
	return nil, nil
}

func (m *mockSweepRepository) Delete(ctx context.Context, id string) error {
	return nil
}

type recordedEvent struct {
	event   string
	key     string
	payload any
}

type mockNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (m *mockNotifier) Emit(ctx context.Context, event string, key string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, recordedEvent{event: event, key: key, payload: payload})
	return nil
}

func (m *mockNotifier) byEvent(event string) []recordedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []recordedEvent
	for _, e := range m.events {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

func sweepConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		SweepInterval: time.Minute,
	}
}

func fixedUsage(ctx context.Context) (*model.Usage, error) {
	return &model.Usage{ResourceUtilization: "0.00%"}, nil
}

func expiredResource(id, name, holder string) *model.Resource {
	start := time.Now().Add(-25 * time.Hour)
	expiry := start.Add(24 * time.Hour)
	return &model.Resource{
		ID:                id,
		Name:              name,
		Type:              model.ResourceTypeRoom,
		Availability:      false,
		ReservedBy:        &holder,
		ReservationDate:   &start,
		ReservationExpiry: &expiry,
	}
}

func TestTick_ReleasesExpiredAndEmitsOneEventEach(t *testing.T) {
	expired := []*model.Resource{
		expiredResource("507f1f77bcf86cd799439011", "Room A", "U-0001"),
		expiredResource("507f1f77bcf86cd799439012", "Projector 3", "U-0002"),
	}

	var released []string
	repo := &mockSweepRepository{
		findExpiredFunc: func(ctx context.Context, now time.Time) ([]*model.Resource, error) {
			return expired, nil
		},
		releaseIfExpiredFunc: func(ctx context.Context, id string, now time.Time) (bool, error) {
			released = append(released, id)
			return true, nil
		},
	}
	notifier := &mockNotifier{}

	s := New(repo, fixedUsage, notifier, sweepConfig())
	s.Tick(context.Background())

	if len(released) != 2 {
		t.Fatalf("expected 2 releases, got %d", len(released))
	}

	updates := notifier.byEvent(realtime.EventResourceUpdated)
	if len(updates) != 2 {
		t.Fatalf("expected 2 resourceUpdated events, got %d", len(updates))
	}
	payload, ok := updates[0].payload.(ReleasedEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", updates[0].payload)
	}
	if payload.Status != model.ResourceStatusAvailable {
		t.Errorf("status = %q, want %q", payload.Status, model.ResourceStatusAvailable)
	}
	if payload.ReleasedFrom != "U-0001" {
		t.Errorf("released_from = %q, want %q", payload.ReleasedFrom, "U-0001")
	}

	if snapshots := notifier.byEvent(realtime.EventResourceUpdate); len(snapshots) != 1 {
		t.Fatalf("expected exactly one usage snapshot, got %d", len(snapshots))
	}
}

func TestTick_NothingExpiredEmitsNothing(t *testing.T) {
	repo := &mockSweepRepository{
		findExpiredFunc: func(ctx context.Context, now time.Time) ([]*model.Resource, error) {
			return nil, nil
		},
	}
	notifier := &mockNotifier{}

	s := New(repo, fixedUsage, notifier, sweepConfig())
	s.Tick(context.Background())
	s.Tick(context.Background())

	if len(notifier.events) != 0 {
		t.Fatalf("expected no events, got %d", len(notifier.events))
	}
}

func TestTick_SecondRunIsIdempotent(t *testing.T) {
	expired := []*model.Resource{expiredResource("507f1f77bcf86cd799439011", "Room A", "U-0001")}

	releasedOnce := false
	repo := &mockSweepRepository{
		findExpiredFunc: func(ctx context.Context, now time.Time) ([]*model.Resource, error) {
			if releasedOnce {
				return nil, nil
			}
			return expired, nil
		},
		releaseIfExpiredFunc: func(ctx context.Context, id string, now time.Time) (bool, error) {
			if releasedOnce {
				return false, nil
			}
			releasedOnce = true
			return true, nil
		},
	}
	notifier := &mockNotifier{}

	s := New(repo, fixedUsage, notifier, sweepConfig())
	s.Tick(context.Background())
	firstRun := len(notifier.events)
	s.Tick(context.Background())

	if len(notifier.events) != firstRun {
		t.Fatalf("second tick produced %d extra events", len(notifier.events)-firstRun)
	}
}

func TestTick_ConcurrentReleaseProducesNoEvent(t *testing.T) {
	// The query saw the resource as expired, but an explicit release beat
	// the sweeper to the write. The conditional update reports not applied
	// and no event may be emitted.
	expired := []*model.Resource{expiredResource("507f1f77bcf86cd799439011", "Room A", "U-0001")}

	repo := &mockSweepRepository{
		findExpiredFunc: func(ctx context.Context, now time.Time) ([]*model.Resource, error) {
			return expired, nil
		},
		releaseIfExpiredFunc: func(ctx context.Context, id string, now time.Time) (bool, error) {
			return false, nil
		},
	}
	notifier := &mockNotifier{}

	s := New(repo, fixedUsage, notifier, sweepConfig())
	s.Tick(context.Background())

	if len(notifier.events) != 0 {
		t.Fatalf("expected no events for a lost race, got %d", len(notifier.events))
	}
}

func TestTick_WriteFailureDoesNotAbortSweep(t *testing.T) {
	expired := []*model.Resource{
		expiredResource("507f1f77bcf86cd799439011", "Room A", "U-0001"),
		expiredResource("507f1f77bcf86cd799439012", "Projector 3", "U-0002"),
	}

	repo := &mockSweepRepository{
		findExpiredFunc: func(ctx context.Context, now time.Time) ([]*model.Resource, error) {
			return expired, nil
		},
		releaseIfExpiredFunc: func(ctx context.Context, id string, now time.Time) (bool, error) {
			if id == expired[0].ID {
				return false, errors.New("write failed")
			}
			return true, nil
		},
	}
	notifier := &mockNotifier{}

	s := New(repo, fixedUsage, notifier, sweepConfig())
	s.Tick(context.Background())

	updates := notifier.byEvent(realtime.EventResourceUpdated)
	if len(updates) != 1 {
		t.Fatalf("expected the surviving resource to emit one event, got %d", len(updates))
	}
	if updates[0].key != expired[1].ID {
		t.Errorf("event key = %q, want %q", updates[0].key, expired[1].ID)
	}
}

func TestTick_ReadFailureSkipsTick(t *testing.T) {
	repo := &mockSweepRepository{
		findExpiredFunc: func(ctx context.Context, now time.Time) ([]*model.Resource, error) {
			return nil, errors.New("store unreachable")
		},
	}
	notifier := &mockNotifier{}

	s := New(repo, fixedUsage, notifier, sweepConfig())
	s.Tick(context.Background())

	if len(notifier.events) != 0 {
		t.Fatalf("expected no events on read failure, got %d", len(notifier.events))
	}
}

func TestRun_InFlightTickFinishesAfterCancel(t *testing.T) {
	cfg := sweepConfig()
	cfg.SweepInterval = 10 * time.Millisecond

	expired := []*model.Resource{expiredResource("507f1f77bcf86cd799439011", "Room A", "U-0001")}

	ctx, cancel := context.WithCancel(context.Background())
	releaseErrs := make(chan error, 1)
	swept := false
	repo := &mockSweepRepository{
		findExpiredFunc: func(tickCtx context.Context, now time.Time) ([]*model.Resource, error) {
			if swept {
				return nil, nil
			}
			swept = true
			// Shutdown arrives mid-sweep. The remaining store calls of
			// this tick must still run on a live context.
			cancel()
			return expired, nil
		},
		releaseIfExpiredFunc: func(tickCtx context.Context, id string, now time.Time) (bool, error) {
			releaseErrs <- tickCtx.Err()
			return true, nil
		},
	}
	notifier := &mockNotifier{}

	s := New(repo, fixedUsage, notifier, cfg)
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}

	select {
	case err := <-releaseErrs:
		if err != nil {
			t.Fatalf("release ran on a dead context: %v", err)
		}
	default:
		t.Fatal("expected the in-flight tick to complete its release")
	}

	if len(notifier.byEvent(realtime.EventResourceUpdated)) != 1 {
		t.Fatalf("expected the in-flight tick to emit its release event")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	cfg := sweepConfig()
	cfg.SweepInterval = 10 * time.Millisecond

	repo := &mockSweepRepository{}
	s := New(repo, fixedUsage, &mockNotifier{}, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}
