// stats.go - Outcome counters for coin scans
package main

import (
	"sync"
	"time"
)

// Outcome classifies what a scan learned about one coin.
type Outcome string

const (
	OutcomeOwned    Outcome = "owned"
	OutcomeForeign  Outcome = "foreign"
	OutcomeInvalid  Outcome = "invalid"
	OutcomeMismatch Outcome = "mismatch"
)

// maxSamples bounds the number of retained durations.
const maxSamples = 1000

// ScanStats collects scan outcomes and per-coin timings.
type ScanStats struct {
	mu        sync.Mutex
	started   time.Time
	counters  map[Outcome]int64
	durations []float64
}

// NewScanStats creates an empty collector
func NewScanStats() *ScanStats {
	return &ScanStats{
		started:  time.Now(),
		counters: make(map[Outcome]int64),
	}
}

// Record counts one coin and how long it took.
func (s *ScanStats) Record(outcome Outcome, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[outcome]++
	s.durations = append(s.durations, d.Seconds())
	if len(s.durations) > maxSamples {
		s.durations = s.durations[len(s.durations)-maxSamples:]
	}
}

// Count returns the number of coins recorded with outcome.
func (s *ScanStats) Count(outcome Outcome) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[outcome]
}

// Total returns the number of coins recorded.
func (s *ScanStats) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, n := range s.counters {
		total += n
	}
	return total
}

// Summary returns counters and timing aggregates keyed for logging.
func (s *ScanStats) Summary() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := make(map[string]interface{})

	for o, n := range s.counters {
		summary[string(o)] = n
	}

	if len(s.durations) > 0 {
		lo, hi, sum := s.durations[0], s.durations[0], 0.0
		for _, v := range s.durations {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
			sum += v
		}
		summary["min_seconds"] = lo
		summary["max_seconds"] = hi
		summary["avg_seconds"] = sum / float64(len(s.durations))
	}
	summary["elapsed_seconds"] = time.Since(s.started).Seconds()

	return summary
}
