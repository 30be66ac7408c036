package telemetry

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type Counter struct {
	val atomic.Int64
}

func (c *Counter) Inc()         { c.val.Add(1) }
func (c *Counter) Value() int64 { return c.val.Load() }

type Gauge struct {
	val atomic.Int64
}

func (g *Gauge) Inc()         { g.val.Add(1) }
func (g *Gauge) Dec()         { g.val.Add(-1) }
func (g *Gauge) Value() int64 { return g.val.Load() }

// LatencyTracker keeps the most recent samples for percentile reads.
type LatencyTracker struct {
	mu      sync.Mutex
	samples []time.Duration
	maxKeep int
}

func NewLatencyTracker(maxKeep int) *LatencyTracker {
	return &LatencyTracker{maxKeep: maxKeep}
}

func (lt *LatencyTracker) Record(d time.Duration) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	lt.samples = append(lt.samples, d)
	if len(lt.samples) > lt.maxKeep {
		lt.samples = lt.samples[len(lt.samples)-lt.maxKeep:]
	}
}

func (lt *LatencyTracker) P50() time.Duration { return lt.percentile(0.50) }
func (lt *LatencyTracker) P99() time.Duration { return lt.percentile(0.99) }

func (lt *LatencyTracker) percentile(p float64) time.Duration {
	lt.mu.Lock()
	sorted := append([]time.Duration(nil), lt.samples...)
	lt.mu.Unlock()
	if len(sorted) == 0 {
		return 0
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[int(float64(len(sorted)-1)*p)]
}

// Metrics is the process-wide registry, reported by the health endpoint.
var Metrics = struct {
	BallsApplied        Counter
	BallsRejected       Counter
	PersistErrors       Counter
	CommentaryGenerated Counter
	CommentaryFallbacks Counter
	CommentaryStale     Counter
	EventsPublished     Counter
	LiveClients         Gauge
	CommentaryLatency   *LatencyTracker
}{
	CommentaryLatency: NewLatencyTracker(500),
}

// Snapshot is a JSON-friendly copy of Metrics.
type Snapshot struct {
	BallsApplied        int64  `json:"balls_applied"`
	BallsRejected       int64  `json:"balls_rejected"`
	PersistErrors       int64  `json:"persist_errors"`
	CommentaryGenerated int64  `json:"commentary_generated"`
	CommentaryFallbacks int64  `json:"commentary_fallbacks"`
	CommentaryStale     int64  `json:"commentary_stale"`
	EventsPublished     int64  `json:"events_published"`
	LiveClients         int64  `json:"live_clients"`
	CommentaryP50       string `json:"commentary_p50"`
	CommentaryP99       string `json:"commentary_p99"`
}

func TakeSnapshot() Snapshot {
	m := &Metrics
	return Snapshot{
		BallsApplied:        m.BallsApplied.Value(),
		BallsRejected:       m.BallsRejected.Value(),
		PersistErrors:       m.PersistErrors.Value(),
		CommentaryGenerated: m.CommentaryGenerated.Value(),
		CommentaryFallbacks: m.CommentaryFallbacks.Value(),
		CommentaryStale:     m.CommentaryStale.Value(),
		EventsPublished:     m.EventsPublished.Value(),
		LiveClients:         m.LiveClients.Value(),
		CommentaryP50:       m.CommentaryLatency.P50().String(),
		CommentaryP99:       m.CommentaryLatency.P99().String(),
	}
}
