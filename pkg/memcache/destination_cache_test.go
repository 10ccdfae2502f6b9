package mem

import (
	"testing"

	"kairos/internal/models/domain_models"
)

func TestCacheRoundTrip(t *testing.T) {
	cache := NewDestinationCache(0)
	dest := &domain_models.DestinationContext{Name: "Goa"}

	cache.Set("Goa", dest)

	got, ok := cache.Get("Goa")
	if !ok {
		t.Fatal("cache miss after set")
	}
	if got != dest {
		t.Error("cache returned a different context")
	}
}

func TestCacheKeyNormalization(t *testing.T) {
	cache := NewDestinationCache(0)
	cache.Set("  Goa  ", &domain_models.DestinationContext{Name: "Goa"})

	if _, ok := cache.Get("goa"); !ok {
		t.Error("lookup must be case-insensitive and trimmed")
	}
}

func TestCacheDelete(t *testing.T) {
	cache := NewDestinationCache(0)
	cache.Set("Goa", &domain_models.DestinationContext{Name: "Goa"})
	cache.Delete("Goa")

	if _, ok := cache.Get("Goa"); ok {
		t.Error("entry survived deletion")
	}
}

func TestCacheMiss(t *testing.T) {
	cache := NewDestinationCache(0)
	if _, ok := cache.Get("Nowhere"); ok {
		t.Error("unexpected hit for unknown destination")
	}
}
