package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"VolSurf/internal/domain/models"
	drepo "VolSurf/internal/domain/repository"
	"VolSurf/internal/service/ratelimit"
)

// QuoteSink is the minimal downstream interface the pipeline needs.
type QuoteSink interface {
	Process(ctx context.Context, q *models.Quote) error
}

// QuotePipeline sits between the quote feed and the group accumulator. It
// throttles per asset and buffers when downstream momentarily stalls.
type QuotePipeline struct {
	sink    QuoteSink
	metrics drepo.Metrics
	limiter *ratelimit.Limiter
	maxRPS  int
	bufSize int
	bufCh   chan *models.Quote
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
}

type PipelineOption func(*QuotePipeline)

// WithMaxRPS sets the max quotes per second per asset.
func WithMaxRPS(n int) PipelineOption {
	return func(p *QuotePipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the buffer size used when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *QuotePipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewQuotePipeline creates a new pipeline.
func NewQuotePipeline(sink QuoteSink, metrics drepo.Metrics, opts ...PipelineOption) *QuotePipeline {
	p := &QuotePipeline{
		sink:    sink,
		metrics: metrics,
		limiter: ratelimit.New(),
		maxRPS:  50,
		bufSize: 2000,
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.Quote, p.bufSize)
	return p
}

// Start launches background draining of buffered quotes.
func (p *QuotePipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case q := <-p.bufCh:
				if q == nil {
					continue
				}
				if err := p.sink.Process(ctx, q); err != nil {
					p.metrics.RecordError("pipeline_sink")
					select {
					case <-p.stopCh:
						return
					case <-time.After(backoff):
					}
				}
			}
		}
	}()
}

// Process validates and enqueues a quote. Quotes past the per-asset rate
// limit or a full buffer are dropped, counted, never blocked on.
func (p *QuotePipeline) Process(ctx context.Context, q *models.Quote) error {
	if q == nil || q.Asset == "" {
		return fmt.Errorf("invalid quote")
	}
	if !p.limiter.Allow(q.Asset, float64(p.maxRPS), float64(p.maxRPS)) {
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}
	select {
	case p.bufCh <- q:
		return nil
	default:
		p.metrics.RecordError("pipeline_overflow")
		return fmt.Errorf("pipeline buffer full")
	}
}

// Stop terminates the drain goroutine.
func (p *QuotePipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.started = false
	close(p.stopCh)
}
