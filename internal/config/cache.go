package config

import (
	"time"
)

// CacheConfig controls the response cache applied to public GET
// endpoints (hotel lists, products, reviews).  When Enabled is false or
// no Redis client is available the middleware becomes a pass-through.
type CacheConfig struct {
	Enabled      bool          // master switch
	TTL          time.Duration // lifetime of cached responses
	Prefix       string        // key namespace in Redis
	MaxBodyBytes int           // responses larger than this are not cached
}

// LoadCacheConfig reads cache settings from the environment, falling
// back to defaults suitable for the browse endpoints.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "hbp:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
