package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VolSurf/internal/domain/models"
	pkgcache "VolSurf/pkg/cache"
)

type fakeStore struct {
	stored  []models.SurfacePoint
	failure error
}

func (f *fakeStore) Init(ctx context.Context) error { return nil }

func (f *fakeStore) StorePoints(ctx context.Context, points []models.SurfacePoint) error {
	if f.failure != nil {
		return f.failure
	}
	f.stored = append(f.stored, points...)
	return nil
}

func (f *fakeStore) QueryPoints(ctx context.Context, asset, asOf string, from, to time.Time, limit int) ([]models.SurfacePoint, error) {
	return f.stored, nil
}

func (f *fakeStore) Health(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                     { return nil }

type fakePublisher struct {
	published []*models.GroupResult
}

func (f *fakePublisher) Publish(ctx context.Context, res *models.GroupResult) error {
	f.published = append(f.published, res)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeMetrics struct {
	evaluated int
	failed    int
	emitted   int
	errors    map[string]int
}

func newFakeMetrics() *fakeMetrics { return &fakeMetrics{errors: make(map[string]int)} }

func (f *fakeMetrics) RecordGroupEvaluated(asset string)               { f.evaluated++ }
func (f *fakeMetrics) RecordGroupFailed(asset string)                  { f.failed++ }
func (f *fakeMetrics) RecordPointsEmitted(asset string, n int)         { f.emitted += n }
func (f *fakeMetrics) RecordGridSize(asset string, times, deltas int)  {}
func (f *fakeMetrics) RecordError(stage string)                        { f.errors[stage]++ }
func (f *fakeMetrics) RecordLatency(operation string, seconds float64) {}

func ptr(v float64) *float64 { return &v }

func validGroup() *models.SurfaceGroup {
	return &models.SurfaceGroup{
		Asset: "SPX",
		AsOf:  "2026-08-25",
		Times: []*float64{
			ptr(1), ptr(1), ptr(2), ptr(2),
			ptr(3), ptr(3),
		},
		Deltas: []*float64{
			ptr(0.05), ptr(0.10), ptr(0.05), ptr(0.10),
			ptr(0.05), ptr(0.10),
		},
		Vols:        []float64{0.20, 0.22, 0.24, 0.26, 0.28, 0.30},
		QueryDeltas: []float64{0.075},
		QueryTimes:  []float64{1.5},
	}
}

func TestEvaluateStoresAndPublishes(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	m := newFakeMetrics()
	e := NewSurfaceEvaluator(store, pub, m, nil, time.Minute)

	res, err := e.Evaluate(context.Background(), validGroup(), false)
	require.NoError(t, err)
	require.Len(t, res.Points, 1)

	assert.Equal(t, "SPX", res.Points[0].Asset)
	assert.Equal(t, "075_00002", res.Points[0].Key)
	// Delta pass is linear over two levels (0.21 and 0.25 around the
	// query row); the time pass runs the local cubic over three knots.
	assert.InDelta(t, 0.19, res.Points[0].Level, 1e-9)

	assert.Len(t, store.stored, 1)
	assert.Len(t, pub.published, 1)
	assert.Equal(t, 1, m.evaluated)
	assert.Equal(t, 1, m.emitted)
}

func TestEvaluateNilGroup(t *testing.T) {
	e := NewSurfaceEvaluator(nil, nil, newFakeMetrics(), nil, time.Minute)

	_, err := e.Evaluate(context.Background(), nil, false)
	assert.Error(t, err)
}

func TestEvaluateDegenerateAxis(t *testing.T) {
	m := newFakeMetrics()
	e := NewSurfaceEvaluator(nil, nil, m, nil, time.Minute)

	g := validGroup()
	// Collapse everything onto a single time level.
	for i := range g.Times {
		g.Times[i] = ptr(1)
	}

	_, err := e.Evaluate(context.Background(), g, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "axis too short")
	assert.Equal(t, 1, m.errors["degenerate_axis"])
}

func TestEvaluateStoreFailure(t *testing.T) {
	store := &fakeStore{failure: errors.New("connection refused")}
	m := newFakeMetrics()
	e := NewSurfaceEvaluator(store, nil, m, nil, time.Minute)

	_, err := e.Evaluate(context.Background(), validGroup(), false)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "connection refused"))
	assert.Equal(t, 1, m.errors["store"])
}

func TestEvaluateBatchIsolatesFailures(t *testing.T) {
	m := newFakeMetrics()
	e := NewSurfaceEvaluator(&fakeStore{}, &fakePublisher{}, m, nil, time.Minute)

	bad := validGroup()
	bad.Asset = "NDX"
	bad.Vols = bad.Vols[:3] // length no longer matches times/deltas

	groups := []*models.SurfaceGroup{validGroup(), bad, validGroup()}
	results := e.EvaluateBatch(context.Background(), groups, false)

	require.Len(t, results, 3)
	assert.False(t, results[0].Failed())
	assert.True(t, results[1].Failed())
	assert.Equal(t, "NDX", results[1].Asset)
	assert.Empty(t, results[1].Points)
	assert.False(t, results[2].Failed())
	assert.Equal(t, 2, m.evaluated)
	assert.Equal(t, 1, m.failed)
}

func TestEvaluateBatchNilGroup(t *testing.T) {
	m := newFakeMetrics()
	e := NewSurfaceEvaluator(nil, nil, m, nil, time.Minute)

	results := e.EvaluateBatch(context.Background(), []*models.SurfaceGroup{nil, validGroup()}, false)

	require.Len(t, results, 2)
	assert.True(t, results[0].Failed())
	assert.False(t, results[1].Failed())
}

func TestEvaluateCacheRoundTrip(t *testing.T) {
	cache := pkgcache.NewMemoryCache()
	store := &fakeStore{}
	e := NewSurfaceEvaluator(store, nil, newFakeMetrics(), cache, time.Minute)

	first, err := e.Evaluate(context.Background(), validGroup(), true)
	require.NoError(t, err)

	second, err := e.Evaluate(context.Background(), validGroup(), true)
	require.NoError(t, err)
	assert.Equal(t, first.Points, second.Points)

	// The second call must come from cache: nothing new hit the store.
	assert.Len(t, store.stored, 1)
}

func TestResultCacheKeyChangesWithInputs(t *testing.T) {
	a := validGroup()
	b := validGroup()
	assert.Equal(t, resultCacheKey(a), resultCacheKey(b))

	b.Vols[0] = 0.99
	assert.NotEqual(t, resultCacheKey(a), resultCacheKey(b))
}
