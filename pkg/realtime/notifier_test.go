package realtime

import (
	"context"
	"errors"
	"testing"

	"campushub/pkg/logger"
)

func TestNewKafkaNotifier_NilProducerFailsLoudly(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})

	if _, err := NewKafkaNotifier(nil, "test", log); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestEmit_UninitializedNotifierFailsLoudly(t *testing.T) {
	var notifier *KafkaNotifier

	err := notifier.Emit(context.Background(), EventResourceUpdated, "key", nil)
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}

	zero := &KafkaNotifier{}
	if err := zero.Emit(context.Background(), EventResourceUpdated, "key", nil); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized for zero value, got %v", err)
	}
}

func TestClose_UninitializedNotifierIsNoOp(t *testing.T) {
	var notifier *KafkaNotifier
	if err := notifier.Close(); err != nil {
		t.Fatalf("Close on uninitialized notifier returned %v", err)
	}
}
