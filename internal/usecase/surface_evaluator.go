package usecase

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"VolSurf/internal/domain/models"
	drepo "VolSurf/internal/domain/repository"
	"VolSurf/internal/surface"
	pkgcache "VolSurf/pkg/cache"
)

// SurfaceEvaluator builds a volatility grid per group and answers its
// queries. Persistence, publishing and caching are optional collaborators;
// the engine itself is pure and never shares state between groups.
type SurfaceEvaluator struct {
	store   drepo.ResultStore
	pub     drepo.ResultPublisher
	metrics drepo.Metrics
	cache   pkgcache.Service
	ttl     time.Duration
}

// NewSurfaceEvaluator creates a new SurfaceEvaluator instance.
func NewSurfaceEvaluator(
	store drepo.ResultStore,
	pub drepo.ResultPublisher,
	metrics drepo.Metrics,
	cache pkgcache.Service,
	ttl time.Duration,
) *SurfaceEvaluator {
	return &SurfaceEvaluator{
		store:   store,
		pub:     pub,
		metrics: metrics,
		cache:   cache,
		ttl:     ttl,
	}
}

// Evaluate processes a single group end to end: grid build, query
// evaluation, persistence, publishing. A cached result short-circuits the
// engine when useCache is set.
func (e *SurfaceEvaluator) Evaluate(ctx context.Context, g *models.SurfaceGroup, useCache bool) (*models.GroupResult, error) {
	if g == nil {
		return nil, fmt.Errorf("group is nil")
	}

	key := resultCacheKey(g)
	if useCache && e.cache != nil {
		var cached models.GroupResult
		if err := e.cache.Get(ctx, key, &cached); err == nil {
			e.metrics.RecordLatency("cache_hit", 0)
			return &cached, nil
		}
	}

	start := time.Now()

	surf, err := surface.Build(g.RawTimes(), g.RawDeltas(), g.Vols)
	if err != nil {
		e.metrics.RecordError("grid_build")
		return nil, fmt.Errorf("build grid %s: %w", g.Key(), err)
	}
	e.metrics.RecordGridSize(g.Asset, len(surf.TimeAxis), len(surf.DeltaAxis))

	if len(surf.TimeAxis) < 2 || len(surf.DeltaAxis) < 2 {
		e.metrics.RecordError("degenerate_axis")
		return nil, fmt.Errorf("group %s: axis too short: %d time levels, %d delta levels",
			g.Key(), len(surf.TimeAxis), len(surf.DeltaAxis))
	}

	points, err := surf.Evaluate(g.QueryDeltas, g.QueryTimes)
	if err != nil {
		e.metrics.RecordError("interpolate")
		return nil, fmt.Errorf("evaluate %s: %w", g.Key(), err)
	}

	res := &models.GroupResult{
		Asset:  g.Asset,
		AsOf:   g.AsOf,
		Points: make([]models.SurfacePoint, len(points)),
	}
	for i, p := range points {
		res.Points[i] = models.SurfacePoint{Asset: g.Asset, AsOf: g.AsOf, Key: p.Key, Level: p.Level}
	}

	if e.store != nil {
		if err := e.store.StorePoints(ctx, res.Points); err != nil {
			e.metrics.RecordError("store")
			return nil, fmt.Errorf("store %s: %w", g.Key(), err)
		}
	}
	if e.pub != nil {
		if err := e.pub.Publish(ctx, res); err != nil {
			e.metrics.RecordError("publish")
			return nil, fmt.Errorf("publish %s: %w", g.Key(), err)
		}
	}

	if useCache && e.cache != nil {
		_ = e.cache.Set(ctx, key, res, e.ttl)
	}

	e.metrics.RecordGroupEvaluated(g.Asset)
	e.metrics.RecordPointsEmitted(g.Asset, len(res.Points))
	e.metrics.RecordLatency("evaluate_group", time.Since(start).Seconds())

	return res, nil
}

// EvaluateBatch processes each group independently. A failing group yields
// a GroupResult carrying its error text; the remaining groups still run.
func (e *SurfaceEvaluator) EvaluateBatch(ctx context.Context, groups []*models.SurfaceGroup, useCache bool) []*models.GroupResult {
	out := make([]*models.GroupResult, 0, len(groups))
	for _, g := range groups {
		res, err := e.Evaluate(ctx, g, useCache)
		if err != nil {
			e.metrics.RecordGroupFailed(assetOf(g))
			out = append(out, &models.GroupResult{
				Asset: assetOf(g),
				AsOf:  asOfOf(g),
				Error: err.Error(),
			})
			continue
		}
		out = append(out, res)
	}
	return out
}

// Close closes underlying resources if available.
func (e *SurfaceEvaluator) Close() {
	if e.pub != nil {
		_ = e.pub.Close()
	}
	if e.store != nil {
		_ = e.store.Close()
	}
}

func assetOf(g *models.SurfaceGroup) string {
	if g == nil {
		return ""
	}
	return g.Asset
}

func asOfOf(g *models.SurfaceGroup) string {
	if g == nil {
		return ""
	}
	return g.AsOf
}

// resultCacheKey derives a cache key from the group identity and a digest
// of its inputs, so stale results never survive an input change.
func resultCacheKey(g *models.SurfaceGroup) string {
	h := fnv.New64a()
	writeFloats := func(vals []float64) {
		var buf [8]byte
		for _, v := range vals {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			_, _ = h.Write(buf[:])
		}
	}
	writeFloats(g.RawTimes())
	writeFloats(g.RawDeltas())
	writeFloats(g.Vols)
	writeFloats(g.QueryDeltas)
	writeFloats(g.QueryTimes)
	return pkgcache.GenerateKeyWithParams("volsurf:result", g.Asset, g.AsOf, fmt.Sprintf("%x", h.Sum64()))
}
