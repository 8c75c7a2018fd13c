// Package predcache provides in-memory caching for served predictions.
package predcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/wicket-predictor/internal/metrics"
	"github.com/yourusername/wicket-predictor/internal/models"
)

// CacheKey represents a unique key for caching predictions
type CacheKey struct {
	PlayerName   string
	Class        models.StatClass
	ModelVersion string
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.PlayerName, k.Class, k.ModelVersion)
}

// PredictionCache provides in-memory caching for model predictions.
// Entries are keyed by player, stat class and model version, so publishing
// a new model version naturally stops serving stale entries.
type PredictionCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewPredictionCache creates a new prediction cache
func NewPredictionCache(ttl time.Duration, maxSize int) *PredictionCache {
	return &PredictionCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached prediction
func (pc *PredictionCache) Get(ctx context.Context, key CacheKey) *models.PredictionResult {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if result, found := pc.cache.Get(key.String()); found {
		if pred, ok := result.(*models.PredictionResult); ok {
			pc.hitCount++
			metrics.RecordCacheHit()
			return pred
		}
	}

	pc.missCount++
	metrics.RecordCacheMiss()
	return nil
}

// Set stores a prediction in cache
func (pc *PredictionCache) Set(ctx context.Context, key CacheKey, prediction *models.PredictionResult) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	// Check size limit
	if pc.cache.ItemCount() >= pc.maxSize {
		// Remove expired items first
		pc.cache.DeleteExpired()
	}

	pc.cache.Set(key.String(), prediction, pc.ttl)
}

// InvalidateClass removes all cache entries for one stat class.
// Called after a retrain publishes a new model for that class.
func (pc *PredictionCache) InvalidateClass(ctx context.Context, class models.StatClass) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	// Cache key format: playerName:class:modelVersion
	suffix := string(class)
	for k := range pc.cache.Items() {
		if classFromCacheKey(k) == suffix {
			pc.cache.Delete(k)
		}
	}
}

// classFromCacheKey parses the stat class from a cache key string.
// Player names never contain colons, so the class is the second segment.
func classFromCacheKey(keyStr string) string {
	first := -1
	for i := 0; i < len(keyStr); i++ {
		if keyStr[i] == ':' {
			if first < 0 {
				first = i
				continue
			}
			return keyStr[first+1 : i]
		}
	}
	return ""
}

// Clear flushes the entire cache
func (pc *PredictionCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.cache.Flush()
	pc.hitCount = 0
	pc.missCount = 0
}

// Stats returns cache statistics
func (pc *PredictionCache) Stats() (hits, misses uint64, ratio float64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	hits = pc.hitCount
	misses = pc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (pc *PredictionCache) ItemCount() int {
	return pc.cache.ItemCount()
}
