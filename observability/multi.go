package observability

import "context"

// MultiObserver forwards each event to its observers in order.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver drops nil entries and flattens nested MultiObservers so
// each sink sees an event exactly once per fan-out.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	m := &MultiObserver{observers: make([]Observer, 0, len(observers))}
	for _, obs := range observers {
		switch o := obs.(type) {
		case nil:
		case *MultiObserver:
			if o != nil {
				m.observers = append(m.observers, o.observers...)
			}
		default:
			m.observers = append(m.observers, o)
		}
	}
	return m
}

// Len reports the number of sinks.
func (m *MultiObserver) Len() int {
	return len(m.observers)
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}
