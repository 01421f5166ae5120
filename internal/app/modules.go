package app

import (
	"time"

	"github.com/vk/genhub/internal/handlers"
	"github.com/vk/genhub/modules/http_client"
	"github.com/vk/genhub/modules/local"
	"github.com/vk/genhub/modules/s3"
)

// coreModules is the definitive list of all fetchers that are compiled
// into the genhub binary.
func coreModules() []handlers.Module {
	return []handlers.Module{
		&local.Module{},
		&http_client.Module{Timeout: 2 * time.Hour, Retries: 2},
		&s3.Module{},
	}
}
