package messaging

import (
	"context"
	"log/slog"
	"sync"

	"codearena/internal/shared/events"
)

// Bus is the event-bus adapter between the challenge service, the scoring
// worker, and announcement subscribers. Current implementation is in-process
// publish/subscribe while runtime wiring is finalized for external brokers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan events.Envelope
	logger      *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[string][]chan events.Envelope),
		logger:      logger,
	}
}

func (b *Bus) Publish(ctx context.Context, topic string, event events.Envelope) error {
	b.mu.RLock()
	subs := append([]chan events.Envelope(nil), b.subscribers[topic]...)
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub <- event:
		default:
			if b.logger != nil {
				b.logger.Warn("dropping event for slow subscriber",
					"event", "bus_publish_drop",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"topic", topic,
					"event_id", event.EventID,
				)
			}
		}
	}

	if b.logger != nil {
		b.logger.Info("event published",
			"event", "bus_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
	}
	return nil
}

// Subscribe registers a buffered channel for a topic. The returned channel is
// owned by the bus; callers stop draining it when their context ends.
func (b *Bus) Subscribe(topic string) <-chan events.Envelope {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan events.Envelope, 64)
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	return ch
}
