package metrics

import (
	"sync/atomic"
	"time"
)

// Collector tracks request and domain counters with atomic counters; cheap
// enough to leave on in every environment.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64
	ledgerAppends   uint64
	faqRequests     uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordLedgerAppend counts one confirmed leave transaction.
func (c *Collector) RecordLedgerAppend() {
	atomic.AddUint64(&c.ledgerAppends, 1)
}

// RecordFAQRequest counts one model-backed FAQ answer.
func (c *Collector) RecordFAQRequest() {
	atomic.AddUint64(&c.faqRequests, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	appends := atomic.LoadUint64(&c.ledgerAppends)
	faq := atomic.LoadUint64(&c.faqRequests)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":      total,
		"errorsTotal":        errs,
		"rateLimitedTotal":   limited,
		"avgDurationMs":      avg,
		"totalDurationMs":    totalMs,
		"ledgerAppendsTotal": appends,
		"faqRequestsTotal":   faq,
	}
}
