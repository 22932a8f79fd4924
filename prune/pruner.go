package prune

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/reugn/go-rotation/logger"
	"github.com/reugn/go-rotation/rotation"
	"golang.org/x/sync/errgroup"
)

// Options configures a [Pruner].
type Options struct {
	// DryRun reports the snapshots that would be deleted without
	// deleting them.
	DryRun bool

	// Concurrency limits the number of parallel deletions.
	// Values below 1 mean sequential deletion.
	Concurrency int

	// Clock provides the evaluation date. The system clock is used
	// when nil.
	Clock rotation.Clock

	// Logger receives the prune records. The default logger is used
	// when nil.
	Logger logger.Logger

	// Metrics records prune runs when not nil.
	Metrics *Metrics
}

// Pruner deletes the snapshots of a Store that fall outside the
// retention policy of a Calendar.
type Pruner struct {
	store    Store
	calendar *rotation.Calendar
	opts     Options
	logger   logger.Logger
}

// NewPruner returns a new Pruner.
func NewPruner(store Store, calendar *rotation.Calendar, opts Options) (*Pruner, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}
	if calendar == nil {
		return nil, errors.New("calendar is nil")
	}
	if opts.Clock == nil {
		opts.Clock = rotation.SystemClock{}
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Pruner{
		store:    store,
		calendar: calendar,
		opts:     opts,
		logger:   logger.OrDefault(opts.Logger),
	}, nil
}

// Plan is the classification of the store snapshots for a given day.
type Plan struct {
	Today    civil.Date
	Retained rotation.DateSet
	Keep     []Snapshot
	Delete   []Snapshot
}

// Result describes a prune run. In dry-run mode Deleted lists the
// snapshots that would have been deleted.
type Result struct {
	RunID     string
	DryRun    bool
	Kept      []Snapshot
	Deleted   []Snapshot
	Failed    []Snapshot
	Reclaimed int64
}

// Plan evaluates the calendar policy for today in the past direction
// and classifies every snapshot. Snapshots dated after today are kept.
func (p *Pruner) Plan(ctx context.Context) (*Plan, error) {
	today := p.opts.Clock.Today()
	policy, err := p.calendar.Policy().With(rotation.WithCurrentDate(today))
	if err != nil {
		return nil, err
	}
	retained, err := rotation.Generate(policy, rotation.Past)
	if err != nil {
		return nil, err
	}

	snapshots, err := p.store.List(ctx)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Today:    today,
		Retained: retained,
	}
	for _, snapshot := range snapshots {
		if today.Before(snapshot.Date) || retained.Contains(snapshot.Date) {
			plan.Keep = append(plan.Keep, snapshot)
		} else {
			plan.Delete = append(plan.Delete, snapshot)
		}
	}
	sortSnapshots(plan.Keep)
	sortSnapshots(plan.Delete)
	return plan, nil
}

// Prune executes the plan for today. Deletion failures do not stop the
// run; they are aggregated into the returned error and listed in
// Result.Failed.
func (p *Pruner) Prune(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{
		RunID:  uuid.NewString(),
		DryRun: p.opts.DryRun,
	}

	plan, err := p.Plan(ctx)
	if err != nil {
		p.logger.Error("Failed to plan prune run", "run_id", result.RunID, "error", err)
		p.opts.Metrics.recordRun(result, true, time.Since(start))
		return result, err
	}
	result.Kept = plan.Keep

	p.logger.Info("Prune run started", "run_id", result.RunID, "today", plan.Today,
		"keep", len(plan.Keep), "delete", len(plan.Delete), "dry_run", p.opts.DryRun)

	var errs *multierror.Error
	if p.opts.DryRun {
		for _, snapshot := range plan.Delete {
			p.logger.Info("Would delete snapshot", "run_id", result.RunID,
				"snapshot", snapshot.Name, "size", humanize.Bytes(uint64(snapshot.Size)))
			result.Deleted = append(result.Deleted, snapshot)
			result.Reclaimed += snapshot.Size
		}
	} else {
		errs = p.delete(ctx, result, plan.Delete)
	}

	err = errs.ErrorOrNil()
	p.opts.Metrics.recordRun(result, err != nil, time.Since(start))

	p.logger.Info("Prune run completed", "run_id", result.RunID,
		"kept", len(result.Kept), "deleted", len(result.Deleted),
		"failed", len(result.Failed), "reclaimed", humanize.Bytes(uint64(result.Reclaimed)),
		"duration", time.Since(start))
	return result, err
}

func (p *Pruner) delete(ctx context.Context, result *Result, snapshots []Snapshot) *multierror.Error {
	var (
		mtx  sync.Mutex
		errs *multierror.Error
		g    errgroup.Group
	)
	g.SetLimit(p.opts.Concurrency)

	for _, snapshot := range snapshots {
		snapshot := snapshot
		g.Go(func() error {
			err := p.store.Delete(ctx, snapshot)

			mtx.Lock()
			defer mtx.Unlock()
			if err != nil {
				p.logger.Warn("Failed to delete snapshot", "run_id", result.RunID,
					"snapshot", snapshot.Name, "error", err)
				result.Failed = append(result.Failed, snapshot)
				errs = multierror.Append(errs, fmt.Errorf("snapshot %s: %w", snapshot.Name, err))
				return nil
			}
			p.logger.Debug("Deleted snapshot", "run_id", result.RunID, "snapshot", snapshot.Name)
			result.Deleted = append(result.Deleted, snapshot)
			result.Reclaimed += snapshot.Size
			return nil
		})
	}
	_ = g.Wait()

	sortSnapshots(result.Deleted)
	sortSnapshots(result.Failed)
	return errs
}

func sortSnapshots(snapshots []Snapshot) {
	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].Date != snapshots[j].Date {
			return snapshots[i].Date.Before(snapshots[j].Date)
		}
		return snapshots[i].Name < snapshots[j].Name
	})
}
