package endpoints

import (
	"github.com/jackzampolin/mapscrape/internal/api"
)

// All lists mapscrape's endpoints in mount order. The static catch-all
// comes last.
func All() []api.Endpoint {
	return []api.Endpoint{
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},
		&CategoriesEndpoint{},
		&SearchEndpoint{},
		&ResultsEndpoint{},
		&ExportEndpoint{},
		&ListPromptsEndpoint{},
		&GetPromptEndpoint{},
		&MetricsEndpoint{},
		&StaticEndpoint{},
	}
}
