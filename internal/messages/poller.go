package messages

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"dbotcounter/internal/domain"
	"dbotcounter/internal/eventbus"
)

// CountSource provides the current message total
type CountSource interface {
	Count(ctx context.Context) (int64, error)
}

// PollerConfig holds the poller settings
type PollerConfig struct {
	Endpoint   string        // reported in FetchFailedEvent
	Interval   time.Duration // time between scheduled fetches
	MinRefresh time.Duration // minimum spacing of manual refreshes, 0 for none
	Backfill   int64
}

// Poller fetches the total on a fixed cadence and publishes counter runs
type Poller struct {
	source  CountSource
	bus     eventbus.EventBus
	planner *Planner
	cfg     PollerConfig
	limiter *rate.Limiter
	refresh chan struct{}
	log     *zap.Logger
	now     func() time.Time

	mu     sync.Mutex
	status domain.FetchStatus
}

// NewPoller creates a poller publishing to bus
func NewPoller(source CountSource, bus eventbus.EventBus, cfg PollerConfig, log *zap.Logger) *Poller {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	limit := rate.Inf
	if cfg.MinRefresh > 0 {
		limit = rate.Every(cfg.MinRefresh)
	}
	return &Poller{
		source:  source,
		bus:     bus,
		planner: NewPlanner(cfg.Backfill),
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
		refresh: make(chan struct{}, 1),
		log:     log.Named("poller"),
		now:     time.Now,
	}
}

// Run fetches immediately and then on every interval until ctx is done.
// RefreshRequested events on the bus trigger an extra fetch.
func (p *Poller) Run(ctx context.Context) {
	unsubscribe := p.bus.Subscribe(eventbus.EventRefreshRequested, func(eventbus.DomainEvent) {
		p.Refresh()
	})
	defer unsubscribe()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		case <-p.refresh:
			p.poll(ctx)
		}
	}
}

// Refresh asks for an out-of-cycle fetch. It reports false when the request
// was throttled.
func (p *Poller) Refresh() bool {
	if !p.limiter.Allow() {
		p.log.Debug("manual refresh throttled")
		return false
	}
	select {
	case p.refresh <- struct{}{}:
	default:
		// A refresh is already queued
	}
	return true
}

// Status returns a snapshot of the fetch history
func (p *Poller) Status() domain.FetchStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Poller) poll(ctx context.Context) {
	count, err := p.source.Count(ctx)
	if ctx.Err() != nil {
		return
	}
	now := p.now()

	if err != nil {
		p.log.Error("fetch failed", zap.String("endpoint", p.cfg.Endpoint), zap.Error(err))
		p.mu.Lock()
		p.status.Failures++
		p.status.LastError = err.Error()
		p.mu.Unlock()
		p.bus.Publish(eventbus.FetchFailedEvent{Endpoint: p.cfg.Endpoint, At: now, Err: err})
		return
	}

	sample := domain.CountSample{Count: count, At: now}
	run := p.planner.Next(count)
	p.log.Info("count fetched", zap.Int64("count", count), zap.Float64("from", run.Start))

	p.mu.Lock()
	p.status.Fetches++
	p.status.LastSample = sample
	p.status.LastError = ""
	p.mu.Unlock()

	p.bus.Publish(eventbus.CountFetchedEvent{Sample: sample, Run: run})
}
