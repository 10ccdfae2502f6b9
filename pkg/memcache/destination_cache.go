// pkg/memcache/destination_cache.go
package mem

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"kairos/internal/models/domain_models"
)

// DestinationCacheInterface is the idempotent get/set store keyed by
// destination name. The pipeline must be fully reconstructible from a miss
// and writes back only the final validated context.
type DestinationCacheInterface interface {
	Get(destination string) (*domain_models.DestinationContext, bool)
	Set(destination string, ctx *domain_models.DestinationContext)
	Delete(destination string)
}

type destinationCache struct {
	store *gocache.Cache
}

// NewDestinationCache builds the in-process tier. A zero ttl means entries
// never expire (destination geography does not change under us).
func NewDestinationCache(ttl time.Duration) DestinationCacheInterface {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &destinationCache{
		store: gocache.New(ttl, 30*time.Minute),
	}
}

func (c *destinationCache) Get(destination string) (*domain_models.DestinationContext, bool) {
	v, ok := c.store.Get(buildKey(destination))
	if !ok {
		return nil, false
	}
	ctx, ok := v.(*domain_models.DestinationContext)
	return ctx, ok
}

func (c *destinationCache) Set(destination string, ctx *domain_models.DestinationContext) {
	c.store.SetDefault(buildKey(destination), ctx)
}

func (c *destinationCache) Delete(destination string) {
	c.store.Delete(buildKey(destination))
}

func buildKey(destination string) string {
	return "destination:" + strings.ToLower(strings.TrimSpace(destination))
}
