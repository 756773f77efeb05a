package realtime

import (
	"context"
	"errors"

	"campushub/pkg/kafka"
	"campushub/pkg/logger"
)

// Event names carried in the event-type header of every broadcast.
const (
	EventResourceUpdated = "resourceUpdated" // single-resource availability flip
	EventResourceUpdate  = "resourceUpdate"  // aggregate usage snapshot
)

// ErrNotInitialized is returned when Emit is called before the notifier
// has been wired to a transport. Components must receive a constructed
// notifier at startup; emitting through the zero value is a programming
// error that has to surface immediately.
var ErrNotInitialized = errors.New("realtime notifier is not initialized")

// Notifier fans out state-change events to all connected observers.
// Delivery is best effort, at most once; callers treat failures as
// advisory and must never fail their own operation on an emit error.
type Notifier interface {
	Emit(ctx context.Context, event string, key string, payload any) error
}

// KafkaNotifier publishes broadcast events to a Kafka topic. The event
// name travels in the event-type header, the key drives partition
// ordering (resource id for resource events).
type KafkaNotifier struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

func NewKafkaNotifier(producer *kafka.Producer, source string, log *logger.Logger) (*KafkaNotifier, error) {
	if producer == nil {
		return nil, ErrNotInitialized
	}
	return &KafkaNotifier{
		producer: producer,
		source:   source,
		log:      log,
	}, nil
}

func (n *KafkaNotifier) Emit(ctx context.Context, event string, key string, payload any) error {
	if n == nil || n.producer == nil {
		return ErrNotInitialized
	}

	msg := kafka.NewMessage().
		WithKey(key).
		WithEventType(event).
		WithSource(n.source).
		WithValue(payload).
		Build()

	if err := n.producer.Publish(ctx, msg); err != nil {
		n.log.Warn("Realtime broadcast failed",
			"event", event,
			"key", key,
			"error", err,
		)
		return err
	}

	return nil
}

func (n *KafkaNotifier) Close() error {
	if n == nil || n.producer == nil {
		return nil
	}
	return n.producer.Close()
}
