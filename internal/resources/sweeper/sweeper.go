package sweeper

import (
	"context"
	"time"

	"campushub/internal/resources/repository"
	"campushub/pkg/config"
	"campushub/pkg/model"
	"campushub/pkg/realtime"
)

// UsageFunc recomputes the aggregate usage snapshot, normally the
// resource service's Usage method.
type UsageFunc func(ctx context.Context) (*model.Usage, error)

// ReleasedEvent is the payload of every resourceUpdated broadcast. The
// previous holder rides along so downstream consumers can address a
// notification without another lookup.
type ReleasedEvent struct {
	ResourceID   string `json:"resource_id"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	ReleasedFrom string `json:"released_from,omitempty"`
}

// Sweeper releases expired reservations on a fixed cadence. The release
// predicate (reserved and expired) lives in the write filter, so a sweep
// that races a concurrent release is a no-op rather than a double event.
type Sweeper struct {
	repo     repository.ResourceRepository
	usage    UsageFunc
	notifier realtime.Notifier
	cfg      *config.Config
}

func New(repo repository.ResourceRepository, usage UsageFunc, notifier realtime.Notifier, cfg *config.Config) *Sweeper {
	return &Sweeper{
		repo:     repo,
		usage:    usage,
		notifier: notifier,
		cfg:      cfg,
	}
}

func (s *Sweeper) Name() string {
	return "expiry-sweeper"
}

// Run ticks until the context is cancelled. An in-flight tick finishes
// before Run returns.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	s.cfg.Log.Info("Expiry sweeper started", "interval", s.cfg.SweepInterval)

	for {
		select {
		case <-ctx.Done():
			s.cfg.Log.Info("Expiry sweeper stopping")
			return ctx.Err()
		case <-ticker.C:
			// Cancellation stops the schedule, not the sweep: a tick
			// already in flight keeps its store calls alive until it
			// finishes, bounded by the sweep interval.
			tickCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.SweepInterval)
			s.Tick(tickCtx)
			cancel()
		}
	}
}

func (s *Sweeper) Close() error {
	return nil
}

// Tick runs one sweep: find expired reservations, release each one
// independently, broadcast one event per released resource, and one
// usage snapshot if anything changed.
func (s *Sweeper) Tick(ctx context.Context) {
	now := time.Now()

	expired, err := s.repo.FindExpired(ctx, now)
	if err != nil {
		s.cfg.Log.Error("Failed to query expired reservations, skipping this tick", "error", err)
		return
	}
	if len(expired) == 0 {
		return
	}

	released := 0
	for _, resource := range expired {
		applied, err := s.repo.ReleaseIfExpired(ctx, resource.ID, now)
		if err != nil {
			s.cfg.Log.Error("Failed to release expired reservation",
				"resource_id", resource.ID,
				"name", resource.Name,
				"error", err,
			)
			continue
		}
		if !applied {
			// Released or re-reserved since the query; nothing to announce.
			continue
		}

		released++
		s.cfg.Log.Info("Released expired reservation",
			"resource_id", resource.ID,
			"name", resource.Name,
			"holder", holderOf(resource),
		)
		s.announceRelease(ctx, resource)
	}

	if released > 0 {
		s.announceUsage(ctx)
	}
}

func (s *Sweeper) announceRelease(ctx context.Context, resource *model.Resource) {
	event := ReleasedEvent{
		ResourceID:   resource.ID,
		Name:         resource.Name,
		Status:       model.ResourceStatusAvailable,
		ReleasedFrom: holderOf(resource),
	}

	if err := s.notifier.Emit(ctx, realtime.EventResourceUpdated, resource.ID, event); err != nil {
		s.cfg.Log.Warn("Failed to broadcast release event",
			"resource_id", resource.ID,
			"error", err,
		)
	}
}

func (s *Sweeper) announceUsage(ctx context.Context) {
	usage, err := s.usage(ctx)
	if err != nil {
		s.cfg.Log.Warn("Failed to compute usage snapshot after sweep", "error", err)
		return
	}

	if err := s.notifier.Emit(ctx, realtime.EventResourceUpdate, "sweep", usage); err != nil {
		s.cfg.Log.Warn("Failed to broadcast usage snapshot after sweep", "error", err)
	}
}

func holderOf(resource *model.Resource) string {
	if resource.ReservedBy == nil {
		return ""
	}
	return *resource.ReservedBy
}
