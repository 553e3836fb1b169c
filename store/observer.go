package store

import "github.com/tailored-agentic-units/roster/observability"

// Store event types.
const (
	EventCommit          observability.EventType = "store.commit"
	EventCommitRejected  observability.EventType = "store.commit.rejected"
	EventSubscriberError observability.EventType = "store.subscriber.error"
)
