package pubgrub

import "fmt"

// CachedSource wraps a Source and caches GetVersions and GetDependencies calls,
// so a registry-backed Source (network I/O, disk/bolt-backed lookups) isn't
// re-queried every time the solver backtracks into territory it already
// explored. Most benefit when wrapping RegistrySource or a bolt-backed store;
// InMemorySource already answers from a map, so wrapping it just adds
// bookkeeping overhead.
//
// The cache is maintained for the lifetime of the CachedSource instance and
// assumes that version lists and dependencies are immutable during solving.
type CachedSource struct {
	source Source
	log    Logger

	// Cache for GetVersions results
	versionsCache     map[Name][]Version
	versionsCalls     int
	versionsCacheHits int

	// Cache for GetDependencies results
	depsCache     map[string][]Term
	depsCalls     int
	depsCacheHits int
}

// NewCachedSource creates a new caching wrapper around the given source.
func NewCachedSource(source Source) *CachedSource {
	return &CachedSource{
		source:        source,
		versionsCache: make(map[Name][]Version),
		depsCache:     make(map[string][]Term),
	}
}

// WithCacheLogger attaches a Logger that records cache hits and misses,
// returning the same *CachedSource for chaining.
func (c *CachedSource) WithCacheLogger(log Logger) *CachedSource {
	c.log = log
	return c
}

// GetVersions returns all available versions for a package, caching the result.
func (c *CachedSource) GetVersions(name Name) ([]Version, error) {
	c.versionsCalls++

	// Check cache first
	if versions, ok := c.versionsCache[name]; ok {
		c.versionsCacheHits++
		if c.log != nil {
			c.log.Debug("version cache hit", "package", name.Value())
		}
		return versions, nil
	}

	// Cache miss - fetch from underlying source
	versions, err := c.source.GetVersions(name)
	if err != nil {
		return nil, err
	}
	if c.log != nil {
		c.log.Debug("version cache miss", "package", name.Value(), "count", len(versions))
	}

	// Store in cache
	c.versionsCache[name] = versions
	return versions, nil
}

// GetDependencies returns dependencies for a specific package version, caching the result.
func (c *CachedSource) GetDependencies(name Name, version Version) ([]Term, error) {
	c.depsCalls++

	// Create cache key from name and version
	key := fmt.Sprintf("%s@%s", name.Value(), version)

	// Check cache first
	if deps, ok := c.depsCache[key]; ok {
		c.depsCacheHits++
		if c.log != nil {
			c.log.Debug("dependency cache hit", "key", key)
		}
		return deps, nil
	}

	// Cache miss - fetch from underlying source
	deps, err := c.source.GetDependencies(name, version)
	if err != nil {
		return nil, err
	}
	if c.log != nil {
		c.log.Debug("dependency cache miss", "key", key, "count", len(deps))
	}

	// Store in cache
	c.depsCache[key] = deps
	return deps, nil
}

// CacheStats returns statistics about cache performance.
type CacheStats struct {
	VersionsCalls     int
	VersionsCacheHits int
	VersionsHitRate   float64

	DepsCalls     int
	DepsCacheHits int
	DepsHitRate   float64

	TotalCalls     int
	TotalCacheHits int
	OverallHitRate float64
}

// GetCacheStats returns cache performance statistics.
func (c *CachedSource) GetCacheStats() CacheStats {
	stats := CacheStats{
		VersionsCalls:     c.versionsCalls,
		VersionsCacheHits: c.versionsCacheHits,
		DepsCalls:         c.depsCalls,
		DepsCacheHits:     c.depsCacheHits,
		TotalCalls:        c.versionsCalls + c.depsCalls,
		TotalCacheHits:    c.versionsCacheHits + c.depsCacheHits,
	}

	if stats.VersionsCalls > 0 {
		stats.VersionsHitRate = float64(stats.VersionsCacheHits) / float64(stats.VersionsCalls)
	}

	if stats.DepsCalls > 0 {
		stats.DepsHitRate = float64(stats.DepsCacheHits) / float64(stats.DepsCalls)
	}

	if stats.TotalCalls > 0 {
		stats.OverallHitRate = float64(stats.TotalCacheHits) / float64(stats.TotalCalls)
	}

	return stats
}

// ClearCache clears all cached data while preserving the underlying source.
func (c *CachedSource) ClearCache() {
	c.versionsCache = make(map[Name][]Version)
	c.depsCache = make(map[string][]Term)
	c.versionsCalls = 0
	c.versionsCacheHits = 0
	c.depsCalls = 0
	c.depsCacheHits = 0
}
