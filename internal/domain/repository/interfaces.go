package repository

import (
	"context"
	"time"

	"VolSurf/internal/domain/models"
)

type QuoteStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Quote, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

type ResultPublisher interface {
	Publish(ctx context.Context, res *models.GroupResult) error
	Close() error
}

type ResultStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	StorePoints(ctx context.Context, points []models.SurfacePoint) error
	QueryPoints(ctx context.Context, asset, asOf string, from, to time.Time, limit int) ([]models.SurfacePoint, error)
	Health(ctx context.Context) error // ping
	Close() error
}

type Metrics interface {
	RecordGroupEvaluated(asset string)
	RecordGroupFailed(asset string)
	RecordPointsEmitted(asset string, n int)
	RecordGridSize(asset string, times, deltas int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
