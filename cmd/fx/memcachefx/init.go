package memcachefx

import (
	"os"
	"time"

	"go.uber.org/fx"

	mem "kairos/pkg/memcache"
)

var Module = fx.Provide(provideDestinationCache)

func provideDestinationCache() mem.DestinationCacheInterface {
	ttl := time.Duration(0)
	if raw := os.Getenv("DESTINATION_CACHE_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			ttl = parsed
		}
	}
	return mem.NewDestinationCache(ttl)
}
