package plugins

import (
	"context"
	"time"

	"github.com/tailored-agentic-units/roster/mutation"
	"github.com/tailored-agentic-units/roster/observability"
	"github.com/tailored-agentic-units/roster/roster"
	"github.com/tailored-agentic-units/roster/store"
)

// EventMutation is emitted by the Logger plugin once per transition.
const EventMutation observability.EventType = "plugin.logger.mutation"

// Logger returns a diagnostic plugin that reports every transition to
// observer together with the previous and resulting state.
func Logger(observer observability.Observer) store.Plugin {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}
	return func(s *store.Store) error {
		prev := s.State()
		s.Subscribe(func(ctx context.Context, m mutation.Mutation, next roster.State) error {
			observer.OnEvent(ctx, observability.Event{
				Type:      EventMutation,
				Level:     observability.LevelInfo,
				Timestamp: time.Now(),
				Source:    "plugins.Logger",
				Data: map[string]any{
					"mutation":   string(m.Type),
					"payload":    string(m.Payload),
					"prev_state": prev,
					"next_state": next,
				},
			})
			prev = next
			return nil
		})
		return nil
	}
}
