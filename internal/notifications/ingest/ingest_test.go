package ingest

import (
	"context"
	"encoding/json"
	"testing"

	"campushub/pkg/config"
	"campushub/pkg/kafka"
	"campushub/pkg/logger"
	"campushub/pkg/model"
	"campushub/pkg/realtime"
)

type mockNotificationService struct {
	created []*model.Notification
	err     error
}

func (m *mockNotificationService) Create(_ context.Context, notification *model.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, notification)
	return nil
}

func (m *mockNotificationService) ListByUser(_ context.Context, _ string, _ int, _ int64) ([]*model.Notification, int64, error) {
	return nil, 0, nil
}

func (m *mockNotificationService) MarkRead(_ context.Context, _, _ string) error {
	return nil
}

func testIngestor() *Ingestor {
	return &Ingestor{
		cfg: &config.Config{
			Log: logger.New(logger.Config{
				Level:   "error",
				Format:  logger.JSON,
				Service: "test",
			}),
		},
	}
}

func releasedMessage(t *testing.T, event any, eventType string) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshaling payload: %v", err)
	}
	return kafka.Message{
		Value: payload,
		Headers: map[string]string{
			kafka.HeaderEventType: eventType,
		},
	}
}

func TestHandle_PersistsNotificationForPreviousHolder(t *testing.T) {
	svc := &mockNotificationService{}
	ingestor := testIngestor()

	msg := releasedMessage(t, releasedEvent{
		ResourceID:   "665f1c2ab1e4f7d9a9c3e111",
		Name:         "Study Room 2",
		Status:       "available",
		ReleasedFrom: "U-0001",
	}, realtime.EventResourceUpdated)

	if err := ingestor.handle(context.Background(), svc, msg); err != nil {
		t.Fatalf("handle returned error: %v", err)
	}
	if len(svc.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(svc.created))
	}

	notification := svc.created[0]
	if notification.UserID != "U-0001" {
		t.Errorf("unexpected user id %q", notification.UserID)
	}
	if notification.Kind != model.NotificationReservationExpired {
		t.Errorf("unexpected kind %q", notification.Kind)
	}
}

func TestHandle_SkipsUsageSnapshots(t *testing.T) {
	svc := &mockNotificationService{}
	ingestor := testIngestor()

	msg := releasedMessage(t, map[string]any{"total_resources": 3}, realtime.EventResourceUpdate)

	if err := ingestor.handle(context.Background(), svc, msg); err != nil {
		t.Fatalf("handle returned error: %v", err)
	}
	if len(svc.created) != 0 {
		t.Fatalf("expected no notifications for usage snapshots, got %d", len(svc.created))
	}
}

func TestHandle_SkipsEventsWithoutPreviousHolder(t *testing.T) {
	svc := &mockNotificationService{}
	ingestor := testIngestor()

	msg := releasedMessage(t, releasedEvent{
		ResourceID: "665f1c2ab1e4f7d9a9c3e111",
		Name:       "Study Room 2",
		Status:     "available",
	}, realtime.EventResourceUpdated)

	if err := ingestor.handle(context.Background(), svc, msg); err != nil {
		t.Fatalf("handle returned error: %v", err)
	}
	if len(svc.created) != 0 {
		t.Fatalf("expected no notifications without a previous holder, got %d", len(svc.created))
	}
}

func TestHandle_PropagatesPersistenceFailure(t *testing.T) {
	svc := &mockNotificationService{err: context.DeadlineExceeded}
	ingestor := testIngestor()

	msg := releasedMessage(t, releasedEvent{
		ResourceID:   "665f1c2ab1e4f7d9a9c3e111",
		Name:         "Study Room 2",
		ReleasedFrom: "U-0001",
	}, realtime.EventResourceUpdated)

	if err := ingestor.handle(context.Background(), svc, msg); err == nil {
		t.Fatal("expected persistence failure to propagate for retry")
	}
}
