package executor

import (
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Progress counts finished work items. It reports the first item, then at
// most once per interval, and always the last item. A nil *Progress is a no-op.
type Progress struct {
	total     int64
	done      atomic.Int64
	sometimes rate.Sometimes
	report    func(done, total int64)
}

// NewProgress creates a reporter for total items. report runs on the worker
// that crosses the interval, so it must be cheap and concurrency-safe.
func NewProgress(total int, interval time.Duration, report func(done, total int64)) *Progress {
	return &Progress{
		total:     int64(total),
		sometimes: rate.Sometimes{Interval: interval},
		report:    report,
	}
}

// Add records n finished items.
func (p *Progress) Add(n int) {
	if p == nil {
		return
	}
	done := p.done.Add(int64(n))
	if p.report == nil {
		return
	}
	if done == p.total {
		p.report(done, p.total)
		return
	}
	p.sometimes.Do(func() {
		p.report(done, p.total)
	})
}

// Done returns the number of finished items.
func (p *Progress) Done() int64 {
	if p == nil {
		return 0
	}
	return p.done.Load()
}
