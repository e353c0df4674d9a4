package usecase

import (
	"context"
	"sync"
	"time"

	"VolSurf/internal/domain/models"
	drepo "VolSurf/internal/domain/repository"
	mid "VolSurf/internal/middleware"
)

// QuoteCollector reads streamed observations, accumulates them into
// per-group buffers, and evaluates every buffered group on a flush
// interval. The query coordinates come from configuration, the same
// pillars for every group.
type QuoteCollector struct {
	stream  drepo.QuoteStream
	eval    *SurfaceEvaluator
	metrics drepo.Metrics
	pipe    *mid.QuotePipeline

	flushEvery  time.Duration
	queryDeltas []float64
	queryTimes  []float64

	mu     sync.Mutex
	groups map[string]*models.SurfaceGroup
}

// NewQuoteCollector creates a new QuoteCollector instance.
func NewQuoteCollector(
	stream drepo.QuoteStream,
	eval *SurfaceEvaluator,
	metrics drepo.Metrics,
	flushEvery time.Duration,
	queryDeltas, queryTimes []float64,
) *QuoteCollector {
	if flushEvery <= 0 {
		flushEvery = 30 * time.Second
	}
	c := &QuoteCollector{
		stream:      stream,
		eval:        eval,
		metrics:     metrics,
		flushEvery:  flushEvery,
		queryDeltas: queryDeltas,
		queryTimes:  queryTimes,
		groups:      make(map[string]*models.SurfaceGroup),
	}
	return c
}

// SetPipeline injects the buffering pipeline between stream and collector.
func (c *QuoteCollector) SetPipeline(p *mid.QuotePipeline) { c.pipe = p }

// IsConnected returns true if the quote stream is connected.
func (c *QuoteCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *QuoteCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	qCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, qCh, errCh)
	go c.flushLoop(ctx)
	return nil
}

func (c *QuoteCollector) consume(ctx context.Context, qCh <-chan *models.Quote, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case q := <-qCh:
			if q == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, q)
			} else {
				_ = c.Process(ctx, q)
			}
		}
	}
}

// Process appends one quote to its group buffer. It is the pipeline's sink.
func (c *QuoteCollector) Process(ctx context.Context, q *models.Quote) error {
	t, d := q.Time, q.Delta
	c.mu.Lock()
	g, ok := c.groups[q.GroupKey()]
	if !ok {
		g = &models.SurfaceGroup{
			Asset:       q.Asset,
			AsOf:        q.AsOf,
			QueryDeltas: c.queryDeltas,
			QueryTimes:  c.queryTimes,
		}
		c.groups[q.GroupKey()] = g
	}
	g.Times = append(g.Times, &t)
	g.Deltas = append(g.Deltas, &d)
	g.Vols = append(g.Vols, q.Vol)
	c.mu.Unlock()
	return nil
}

func (c *QuoteCollector) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(c.flushEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Flush(ctx)
		}
	}
}

// Flush evaluates and clears all buffered groups. Failures stay isolated
// per group inside EvaluateBatch.
func (c *QuoteCollector) Flush(ctx context.Context) {
	c.mu.Lock()
	if len(c.groups) == 0 {
		c.mu.Unlock()
		return
	}
	pending := make([]*models.SurfaceGroup, 0, len(c.groups))
	for _, g := range c.groups {
		pending = append(pending, g)
	}
	c.groups = make(map[string]*models.SurfaceGroup)
	c.mu.Unlock()

	c.eval.EvaluateBatch(ctx, pending, false)
}

// Shutdown stops the pipeline, flushes what is buffered, and closes the
// stream.
func (c *QuoteCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	c.Flush(ctx)
	return c.stream.Close()
}
