package sdmx

import (
	"sync/atomic"
	"time"
)

// Metrics tracks client activity using lock-free atomic operations. All
// methods are safe for concurrent use.
type Metrics struct {
	// Request counts
	requestsTotal  atomic.Uint64
	requestsFailed atomic.Uint64

	// Timing (stored as nanoseconds)
	requestTimeTotal atomic.Uint64
	requestTimeMin   atomic.Uint64
	requestTimeMax   atomic.Uint64

	// Cache metrics
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64

	// Payload volume
	bytesRead atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so first value becomes the minimum
	m.requestTimeMin.Store(^uint64(0))
	return m
}

// --- Recording Methods ---

// RecordRequest records a completed request.
func (m *Metrics) RecordRequest(duration time.Duration, failed bool) {
	m.requestsTotal.Add(1)
	if failed {
		m.requestsFailed.Add(1)
	}

	ns := uint64(duration.Nanoseconds())
	m.requestTimeTotal.Add(ns)

	// Update min (CAS loop)
	for {
		old := m.requestTimeMin.Load()
		if ns >= old {
			break
		}
		if m.requestTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (CAS loop)
	for {
		old := m.requestTimeMax.Load()
		if ns <= old {
			break
		}
		if m.requestTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordCacheHit records a response served from the cache.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordCacheMiss records a response fetched from the network.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Add(1)
}

// RecordBytes records the size of a received payload.
func (m *Metrics) RecordBytes(n int) {
	if n > 0 {
		m.bytesRead.Add(uint64(n))
	}
}

// --- Query Methods ---

// RequestsTotal returns the total number of requests performed.
func (m *Metrics) RequestsTotal() uint64 {
	return m.requestsTotal.Load()
}

// RequestsFailed returns the number of failed requests.
func (m *Metrics) RequestsFailed() uint64 {
	return m.requestsFailed.Load()
}

// AverageRequestTime returns the average request duration.
func (m *Metrics) AverageRequestTime() time.Duration {
	total := m.requestsTotal.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.requestTimeTotal.Load() / total)
}

// MinRequestTime returns the minimum request duration.
func (m *Metrics) MinRequestTime() time.Duration {
	minVal := m.requestTimeMin.Load()
	if minVal == ^uint64(0) {
		return 0
	}
	return time.Duration(minVal)
}

// MaxRequestTime returns the maximum request duration.
func (m *Metrics) MaxRequestTime() time.Duration {
	return time.Duration(m.requestTimeMax.Load())
}

// CacheHits returns the total cache hits.
func (m *Metrics) CacheHits() uint64 {
	return m.cacheHits.Load()
}

// CacheMisses returns the total cache misses.
func (m *Metrics) CacheMisses() uint64 {
	return m.cacheMisses.Load()
}

// CacheHitRate returns the cache hit rate (0.0 to 1.0).
func (m *Metrics) CacheHitRate() float64 {
	hits := m.cacheHits.Load()
	misses := m.cacheMisses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// BytesRead returns the total payload bytes received.
func (m *Metrics) BytesRead() uint64 {
	return m.bytesRead.Load()
}

// --- Export Methods ---

// Snapshot represents a point-in-time snapshot of all metrics.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	RequestsTotal  uint64 `json:"requests_total"`
	RequestsFailed uint64 `json:"requests_failed"`

	// Timing metrics (in nanoseconds for precision)
	AvgRequestTimeNs uint64 `json:"avg_request_time_ns"`
	MinRequestTimeNs uint64 `json:"min_request_time_ns"`
	MaxRequestTimeNs uint64 `json:"max_request_time_ns"`

	CacheHits    uint64  `json:"cache_hits"`
	CacheMisses  uint64  `json:"cache_misses"`
	CacheHitRate float64 `json:"cache_hit_rate"`

	BytesRead uint64 `json:"bytes_read"`
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	total := m.requestsTotal.Load()
	cacheHits := m.cacheHits.Load()
	cacheMisses := m.cacheMisses.Load()

	var avgTime uint64
	if total > 0 {
		avgTime = m.requestTimeTotal.Load() / total
	}
	var cacheHitRate float64
	if cacheTotal := cacheHits + cacheMisses; cacheTotal > 0 {
		cacheHitRate = float64(cacheHits) / float64(cacheTotal)
	}

	minTime := m.requestTimeMin.Load()
	if minTime == ^uint64(0) {
		minTime = 0
	}

	return Snapshot{
		Timestamp:        time.Now(),
		RequestsTotal:    total,
		RequestsFailed:   m.requestsFailed.Load(),
		AvgRequestTimeNs: avgTime,
		MinRequestTimeNs: minTime,
		MaxRequestTimeNs: m.requestTimeMax.Load(),
		CacheHits:        cacheHits,
		CacheMisses:      cacheMisses,
		CacheHitRate:     cacheHitRate,
		BytesRead:        m.bytesRead.Load(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.requestsTotal.Store(0)
	m.requestsFailed.Store(0)
	m.requestTimeTotal.Store(0)
	m.requestTimeMin.Store(^uint64(0))
	m.requestTimeMax.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.bytesRead.Store(0)
}
