package plugins

import (
	"github.com/tailored-agentic-units/roster/observability"
	"github.com/tailored-agentic-units/roster/storage"
	"github.com/tailored-agentic-units/roster/store"
)

// Defaults returns the plugin list for a build mode. Production gets only
// persistence; every other mode gets the diagnostic logger ahead of it.
func Defaults(production bool, backend storage.Store, observer observability.Observer) []store.Plugin {
	if production {
		return []store.Plugin{Persistence(backend)}
	}
	return []store.Plugin{Logger(observer), Persistence(backend)}
}
