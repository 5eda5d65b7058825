package market

import (
	"strings"
	"sync"
	"time"

	"github.com/arunisean/paperbot/pkg/types"
)

// SeriesCache memoizes resolved bar series by run parameters so repeated
// backtests within one engine instance skip regeneration. Unbounded: a
// process runs a handful of backtests, not thousands of distinct keys.
type SeriesCache struct {
	cache map[string][]types.MarketBar
	mutex sync.RWMutex
}

// NewSeriesCache creates an empty in-memory series cache
func NewSeriesCache() *SeriesCache {
	return &SeriesCache{
		cache: make(map[string][]types.MarketBar),
	}
}

// CacheKey builds the composite lookup key for a run's resolved series.
func CacheKey(symbols []string, interval time.Duration, source string) string {
	return strings.Join(symbols, ",") + "|" + interval.String() + "|" + source
}

// Get retrieves a series from cache if available. The returned slice is a
// copy; callers cannot corrupt the cached data.
func (c *SeriesCache) Get(key string) ([]types.MarketBar, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	data, exists := c.cache[key]
	if !exists {
		return nil, false
	}

	result := make([]types.MarketBar, len(data))
	copy(result, data)
	return result, true
}

// Set stores a copy of the series in cache
func (c *SeriesCache) Set(key string, data []types.MarketBar) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	cached := make([]types.MarketBar, len(data))
	copy(cached, data)
	c.cache[key] = cached
}

// Clear removes all cached series
func (c *SeriesCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string][]types.MarketBar)
}

// Size returns the number of cached series
func (c *SeriesCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}
