package graphcache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kbukum/dagdeps/depgraph"
	"github.com/kbukum/dagdeps/errors"
	"github.com/kbukum/dagdeps/logger"
	"github.com/kbukum/dagdeps/observability"
	"github.com/kbukum/dagdeps/workflow"
)

// ErrSourceUnavailable matches, via errors.Is, every refresh failure
// returned by Cache.Get.
var ErrSourceUnavailable = &errors.AppError{Code: errors.ErrCodeSourceUnavailable}

// Snapshot is one cached build. It is never mutated after it is stored.
type Snapshot struct {
	Graph *depgraph.Graph
	// RefreshedAt is the read time that triggered the build. It is zero
	// until the first successful refresh.
	RefreshedAt time.Time

	built bool
}

// NewSnapshot returns a built snapshot of g taken at refreshedAt.
func NewSnapshot(g *depgraph.Graph, refreshedAt time.Time) *Snapshot {
	return &Snapshot{Graph: g, RefreshedAt: refreshedAt, built: true}
}

// Built reports whether the snapshot comes from a successful refresh.
func (s *Snapshot) Built() bool { return s.built }

// Cache holds the last built dependency graph and rebuilds it lazily, on
// read, once it is older than the refresh interval.
//
// At most one refresh runs at a time. Readers that find the graph stale
// while a refresh is in flight wait for it and share its outcome, graph or
// error, without pulling the source again. A failed refresh leaves the
// previous snapshot and its timestamp in place, so the next read retries.
type Cache struct {
	source      workflow.Source
	builder     *depgraph.Builder
	interval    time.Duration
	forceRescan bool
	clock       func() time.Time
	log         *logger.Logger
	metrics     *observability.Metrics

	current atomic.Pointer[Snapshot]
	flight  singleflight.Group

	statusMu sync.RWMutex
	status   Status
}

// Status describes the outcome of the latest refresh attempt.
type Status struct {
	RefreshedAt   time.Time
	LastAttemptAt time.Time
	LastError     error
	Nodes         int
	Edges         int
	Anomalies     int
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now as the source of read times.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.clock = now }
}

// WithLogger sets the logger used for refresh and anomaly reporting.
func WithLogger(l *logger.Logger) Option {
	return func(c *Cache) { c.log = l }
}

// WithMetrics records refresh operations and graph sizes.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// WithBuilderOptions sets the options of the graph builder.
func WithBuilderOptions(opts depgraph.Options) Option {
	return func(c *Cache) { c.builder = depgraph.NewBuilder(opts) }
}

// WithForceRescan controls whether the source is asked to rescan before
// each refresh. Enabled by default.
func WithForceRescan(enabled bool) Option {
	return func(c *Cache) { c.forceRescan = enabled }
}

// New creates a Cache over source. An interval of zero refreshes on every
// read; negative intervals are treated as zero.
func New(source workflow.Source, interval time.Duration, opts ...Option) *Cache {
	if interval < 0 {
		interval = 0
	}
	c := &Cache{
		source:      source,
		builder:     depgraph.NewBuilder(depgraph.DefaultOptions()),
		interval:    interval,
		forceRescan: true,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.WithComponent("graph-cache")
	}
	c.current.Store(&Snapshot{Graph: depgraph.Empty()})
	return c
}

// Interval returns the configured refresh interval.
func (c *Cache) Interval() time.Duration { return c.interval }

// Get returns the cached graph, refreshing it first if it is stale.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	return c.GetAt(ctx, c.clock())
}

// GetAt is Get with an explicit read time. The graph is stale when
// now >= RefreshedAt + interval.
//
// On a failed refresh the previous snapshot is returned together with an
// error matching ErrSourceUnavailable; check Snapshot.Built to tell whether
// a graph was ever built. The refresh is not canceled with ctx, since other
// readers may be waiting on it; a canceled reader returns ctx.Err() early.
func (c *Cache) GetAt(ctx context.Context, now time.Time) (*Snapshot, error) {
	if snap := c.current.Load(); !c.stale(snap, now) {
		return snap, nil
	}

	refreshCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(refreshKey, func() (any, error) {
		snap := c.current.Load()
		if !c.stale(snap, now) {
			return snap, nil
		}
		return c.refresh(refreshCtx, snap, now)
	})

	select {
	case res := <-ch:
		return res.Val.(*Snapshot), res.Err
	case <-ctx.Done():
		return c.current.Load(), ctx.Err()
	}
}

const refreshKey = "refresh"

// Current returns the cached snapshot without checking staleness.
func (c *Cache) Current() *Snapshot {
	return c.current.Load()
}

// Status returns the outcome of the latest refresh attempt.
func (c *Cache) Status() Status {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.status
}

func (c *Cache) stale(snap *Snapshot, now time.Time) bool {
	if !snap.Built() {
		return true
	}
	return !now.Before(snap.RefreshedAt.Add(c.interval))
}

// refresh must only run inside c.flight.
func (c *Cache) refresh(ctx context.Context, prev *Snapshot, now time.Time) (*Snapshot, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanGraphRefresh)
	defer span.End()

	start := time.Now()
	defs, err := c.pull(ctx)
	if err != nil {
		appErr := errors.SourceUnavailable(c.source.Name(), err)
		observability.SetSpanError(ctx, appErr)
		c.recordFailure(ctx, now, appErr, time.Since(start))
		return prev, appErr
	}

	g := c.builder.Build(defs)
	next := NewSnapshot(g, now)
	c.current.Store(next)

	duration := time.Since(start)
	observability.SetSpanAttribute(ctx, observability.AttrGraphNodes, g.NodeCount())
	observability.SetSpanAttribute(ctx, observability.AttrGraphEdges, g.EdgeCount())
	c.recordSuccess(ctx, next, duration)
	return next, nil
}

func (c *Cache) pull(ctx context.Context) ([]workflow.Definition, error) {
	if c.forceRescan {
		if err := workflow.ForceRescan(ctx, c.source); err != nil {
			return nil, err
		}
	}
	return c.source.ListWorkflows(ctx)
}

func (c *Cache) recordSuccess(ctx context.Context, snap *Snapshot, duration time.Duration) {
	g := snap.Graph
	anomalies := g.Anomalies()

	c.statusMu.Lock()
	c.status = Status{
		RefreshedAt:   snap.RefreshedAt,
		LastAttemptAt: snap.RefreshedAt,
		Nodes:         g.NodeCount(),
		Edges:         g.EdgeCount(),
		Anomalies:     len(anomalies),
	}
	c.statusMu.Unlock()

	for _, a := range anomalies {
		c.log.Warn("malformed definition skipped", logger.Fields(
			"workflow_id", a.Workflow,
			"task_id", a.Task,
			"reason", a.Reason,
			"code", string(errors.ErrCodeMalformedDefinition),
		))
	}

	fields := logger.DurationFields("graph.refresh", duration)
	fields["nodes"] = g.NodeCount()
	fields["edges"] = g.EdgeCount()
	fields["anomalies"] = len(anomalies)
	c.log.Info("dependency graph refreshed", fields)

	if c.metrics != nil {
		c.metrics.RecordOperation(ctx, "graphcache", "refresh", "ok", duration)
		c.metrics.RecordGraphSize(ctx, g.NodeCount(), g.EdgeCount())
	}
}

func (c *Cache) recordFailure(ctx context.Context, now time.Time, err error, duration time.Duration) {
	c.statusMu.Lock()
	c.status.LastAttemptAt = now
	c.status.LastError = err
	c.statusMu.Unlock()

	c.log.Error("dependency graph refresh failed", logger.MergeWithError(
		logger.DurationFields("graph.refresh", duration), err))

	if c.metrics != nil {
		c.metrics.RecordError(ctx, "refresh", "graphcache")
		c.metrics.RecordOperation(ctx, "graphcache", "refresh", "error", duration)
	}
}
