package embedding

import (
	"slices"
	"sync"
	"time"
)

// LatencySnapshot aggregates the embedding calls seen in the current window.
type LatencySnapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

type observation struct {
	at time.Time
	ms int64
}

// Stats keeps embedding call latencies for a rolling window.
type Stats struct {
	mu     sync.Mutex
	obs    []observation
	window time.Duration
	now    func() time.Time
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{
		obs:    make([]observation, 0, 256),
		window: window,
		now:    time.Now,
	}
}

// Record adds one call duration. Negative durations count as zero.
func (s *Stats) Record(ms int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.expireLocked(now)
	s.obs = append(s.obs, observation{at: now, ms: max(ms, 0)})
}

func (s *Stats) Snapshot() LatencySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked(s.now())
	if len(s.obs) == 0 {
		return LatencySnapshot{}
	}

	values := make([]int64, len(s.obs))
	var sum int64
	for i, o := range s.obs {
		values[i] = o.ms
		sum += o.ms
	}
	slices.Sort(values)

	return LatencySnapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: interpolate(values, 50),
		P95Ms: interpolate(values, 95),
		P99Ms: interpolate(values, 99),
	}
}

func (s *Stats) expireLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.obs = slices.DeleteFunc(s.obs, func(o observation) bool {
		return o.at.Before(cutoff)
	})
}

// interpolate returns the linearly interpolated pct-th percentile of sorted.
func interpolate(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	pos := float64(len(sorted)-1) * pct / 100
	lo := int(pos)
	if lo+1 >= len(sorted) {
		return float64(sorted[lo])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo]) + (float64(sorted[lo+1])-float64(sorted[lo]))*frac
}
