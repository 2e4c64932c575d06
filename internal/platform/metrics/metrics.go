package metrics

import (
	"net/http"
	"sync/atomic"
	"time"
)

// Collector accumulates request and workforce counters. All methods are safe
// on a nil receiver so callers can leave metrics unconfigured.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	tasksCompleted uint64
	loginFailures  uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= http.StatusInternalServerError {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == http.StatusTooManyRequests {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// TaskCompleted counts tasks crossing into 100% completion.
func (c *Collector) TaskCompleted() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.tasksCompleted, 1)
}

// LoginFailure counts denied admin and employee login attempts.
func (c *Collector) LoginFailure() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.loginFailures, 1)
}

func (c *Collector) Snapshot() map[string]any {
	if c == nil {
		return map[string]any{}
	}
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":       total,
		"errorsTotal":         atomic.LoadUint64(&c.errorRequests),
		"rateLimitedTotal":    atomic.LoadUint64(&c.rateLimited),
		"tasksCompletedTotal": atomic.LoadUint64(&c.tasksCompleted),
		"loginFailuresTotal":  atomic.LoadUint64(&c.loginFailures),
		"avgDurationMs":       avg,
		"totalDurationMs":     totalMs,
	}
}
