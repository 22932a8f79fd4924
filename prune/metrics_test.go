package prune

import (
	"context"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/reugn/go-rotation/internal/assert"
	"github.com/reugn/go-rotation/logger"
	"github.com/reugn/go-rotation/rotation"
)

type staticStore []Snapshot

func (s staticStore) List(_ context.Context) ([]Snapshot, error) {
	return s, nil
}

func (s staticStore) Delete(_ context.Context, _ Snapshot) error {
	return nil
}

func TestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics, err := NewMetrics(registry)
	assert.IsNil(t, err)

	clock := rotation.FixedClock{Year: 2012, Month: 1, Day: 10}
	calendar, err := rotation.NewCalendarWithClock(clock)
	assert.IsNil(t, err)

	store := staticStore{
		{Name: "2012-01-10", Date: civil.Date{Year: 2012, Month: 1, Day: 10}, Size: 100},
		{Name: "2012-01-03", Date: civil.Date{Year: 2012, Month: 1, Day: 3}, Size: 200},
	}
	for _, dryRun := range []bool{true, false} {
		pruner, err := NewPruner(store, calendar, Options{
			DryRun:  dryRun,
			Clock:   clock,
			Logger:  logger.NoOpLogger{},
			Metrics: metrics,
		})
		assert.IsNil(t, err)
		_, err = pruner.Prune(context.Background())
		assert.IsNil(t, err)
	}

	assert.Equal(t, testutil.ToFloat64(metrics.runsTotal.WithLabelValues("ok")), 1.0)
	assert.Equal(t, testutil.ToFloat64(metrics.runsTotal.WithLabelValues("dry_run")), 1.0)
	assert.Equal(t, testutil.ToFloat64(metrics.snapshotsTotal.WithLabelValues("kept")), 2.0)
	assert.Equal(t, testutil.ToFloat64(metrics.snapshotsTotal.WithLabelValues("deleted")), 1.0)
	assert.Equal(t, testutil.ToFloat64(metrics.reclaimedBytes), 200.0)
	assert.Equal(t, testutil.CollectAndCount(metrics.duration), 1)

	// duplicate registration is rejected
	if _, err := NewMetrics(registry); err == nil {
		t.Fatal("expected a registration error")
	}

	var nilMetrics *Metrics
	nilMetrics.recordRun(&Result{}, false, 0)
}
