package ingest

import (
	"context"
	"fmt"

	"campushub/internal/notifications/service"
	"campushub/pkg/config"
	"campushub/pkg/kafka"
	kafka_config "campushub/pkg/kafka/config"
	kafka_middleware "campushub/pkg/kafka/middleware"
	"campushub/pkg/model"
	"campushub/pkg/realtime"
)

const GroupID = "notifications"

// releasedEvent mirrors the payload broadcast when a reservation is
// released. Only released_from matters here; events without it carry no
// addressee and are skipped.
type releasedEvent struct {
	ResourceID   string `json:"resource_id"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	ReleasedFrom string `json:"released_from"`
}

// Ingestor tails the broadcast topic and persists resourceUpdated events
// as notifications for the previous reservation holder.
type Ingestor struct {
	consumer *kafka.Consumer
	cfg      *config.Config
}

func New(notifications service.NotificationService, cfg *config.Config) (*Ingestor, error) {
	ingestor := &Ingestor{cfg: cfg}

	handler := func(ctx context.Context, msg kafka.Message) error {
		return ingestor.handle(ctx, notifications, msg)
	}

	kafkaCfg := kafka_config.Load()
	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.RealtimeTopic, GroupID, cfg.RealtimeDLQTopic, handler)
	if err != nil {
		return nil, fmt.Errorf("creating ingest consumer: %w", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))

	ingestor.consumer = consumer
	return ingestor, nil
}

func (i *Ingestor) Name() string {
	return "notifications-ingest"
}

func (i *Ingestor) Run(ctx context.Context) error {
	i.cfg.Log.Info("Notification ingest started",
		"topic", i.cfg.RealtimeTopic,
		"group", GroupID,
	)
	return i.consumer.Start(ctx)
}

func (i *Ingestor) Close() error {
	return i.consumer.Close()
}

func (i *Ingestor) handle(ctx context.Context, notifications service.NotificationService, msg kafka.Message) error {
	if msg.GetEventType() != realtime.EventResourceUpdated {
		return nil
	}

	var event releasedEvent
	if err := msg.DecodeJSON(&event); err != nil {
		return fmt.Errorf("decoding %s event: %w", realtime.EventResourceUpdated, err)
	}

	if event.ReleasedFrom == "" {
		i.cfg.Log.Debug("Skipping event without a previous holder", "resource_id", event.ResourceID)
		return nil
	}

	notification := &model.Notification{
		UserID:  event.ReleasedFrom,
		Kind:    model.NotificationReservationExpired,
		Message: fmt.Sprintf("Your reservation of %s expired and the resource was released.", event.Name),
	}

	if err := notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("persisting notification for %s: %w", event.ReleasedFrom, err)
	}
	return nil
}
