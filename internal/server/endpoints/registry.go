package endpoints

import (
	"github.com/jackzampolin/folio/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Import endpoint
		&ImportEndpoint{},

		// Manifest endpoints
		&GetManifestEndpoint{},
		&GetBookEndpoint{},
		&ListChaptersEndpoint{},
		&GetChapterEndpoint{},
	}
}
