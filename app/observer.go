package app

import "github.com/tailored-agentic-units/roster/observability"

const EventStart observability.EventType = "app.start"
