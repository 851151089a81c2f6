package messages

import (
	"sync"

	"dbotcounter/internal/domain"
)

// Planner turns successive totals into counter runs. The first total is
// approached from a little below so the counter visibly moves; every later
// total continues from where the previous run stopped.
type Planner struct {
	mu       sync.Mutex
	backfill int64
	last     float64
	started  bool
}

// NewPlanner creates a planner whose first run starts backfill below the total
func NewPlanner(backfill int64) *Planner {
	if backfill < 0 {
		backfill = 0
	}
	return &Planner{backfill: backfill}
}

// Next returns the run for a newly fetched total
func (p *Planner) Next(count int64) domain.Run {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := p.last
	if !p.started {
		start = float64(count - p.backfill)
		if start < 0 {
			start = 0
		}
		p.started = true
	}
	p.last = float64(count)
	return domain.Run{Start: start, End: float64(count)}
}

// Last returns the end of the most recent run
func (p *Planner) Last() (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.started
}
