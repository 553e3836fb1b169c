package observability

import (
	"context"
	"log/slog"
)

// SlogObserver writes events to a slog.Logger. The event type is the log
// message; Source, Timestamp, and Data keys become attributes in key order.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver writes to logger, or to slog.Default() as it stands at
// event time when logger is nil.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	level := event.Level.SlogLevel()
	if !logger.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, 0, len(event.Data)+2)
	attrs = append(attrs, slog.String("source", event.Source))
	if !event.Timestamp.IsZero() {
		attrs = append(attrs, slog.Time("ts_event", event.Timestamp))
	}
	for _, k := range event.keys() {
		attrs = append(attrs, slog.Any(k, event.Data[k]))
	}

	logger.LogAttrs(ctx, level, string(event.Type), attrs...)
}
