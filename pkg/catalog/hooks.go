package catalog

import (
	"context"
	"log/slog"
)

// NoopEventSink is an event sink that does nothing
type NoopEventSink struct{}

// NewNoopEventSink creates an event sink that discards all events
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (s *NoopEventSink) ProductCreated(ctx context.Context, product *Product) error {
	return nil
}

func (s *NoopEventSink) SubscriptionCreated(ctx context.Context, sub *Subscription) error {
	return nil
}

// LogEventSink records lifecycle events on a structured logger
type LogEventSink struct {
	logger *slog.Logger
}

// NewLogEventSink creates an event sink backed by the given logger. A
// nil logger falls back to slog.Default.
func NewLogEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEventSink{logger: logger}
}

func (s *LogEventSink) ProductCreated(ctx context.Context, product *Product) error {
	s.logger.InfoContext(ctx, "product created",
		"product_id", product.ID,
		"image_key", product.ImageKey,
		"asset_keys", len(product.AssetKeys))
	return nil
}

func (s *LogEventSink) SubscriptionCreated(ctx context.Context, sub *Subscription) error {
	s.logger.InfoContext(ctx, "subscription recorded", "subscription_id", sub.ID.String())
	return nil
}
