package schedule

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/reugn/go-rotation/logger"
)

// Options configures a [Scheduler].
type Options struct {
	// When true, the scheduler runs jobs synchronously, waiting for each
	// execution to return before processing the next one.
	BlockingExecution bool

	// If a job is due to run within this threshold, it is run now. A job
	// whose scheduled time is older than the threshold is skipped as
	// outdated and rescheduled.
	OutdatedThreshold time.Duration

	// Logger receives the scheduler records. The default logger is used
	// when nil.
	Logger logger.Logger
}

// Scheduler executes Jobs when their associated Triggers fire.
type Scheduler struct {
	mtx       sync.Mutex
	wg        sync.WaitGroup
	queue     *jobQueue
	interrupt chan struct{}
	cancel    context.CancelFunc
	started   bool
	opts      Options
	logger    logger.Logger
}

// NewScheduler returns a new Scheduler with the default configuration.
func NewScheduler() *Scheduler {
	return NewSchedulerWithOptions(Options{
		OutdatedThreshold: 100 * time.Millisecond,
	})
}

// NewSchedulerWithOptions returns a new Scheduler configured as specified.
func NewSchedulerWithOptions(opts Options) *Scheduler {
	return &Scheduler{
		queue:     newJobQueue(),
		interrupt: make(chan struct{}, 1),
		opts:      opts,
		logger:    logger.OrDefault(opts.Logger),
	}
}

// ScheduleJob schedules a Job using the specified Trigger.
func (sched *Scheduler) ScheduleJob(ctx context.Context, job Job, trigger Trigger) error {
	if job == nil {
		return illegalArgumentError("job is nil")
	}
	if trigger == nil {
		return illegalArgumentError("trigger is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	nextRunTime, err := trigger.NextFireTime(NowNano())
	if err != nil {
		return err
	}

	sched.push(&scheduledJob{
		job:         job,
		trigger:     trigger,
		nextRunTime: nextRunTime,
	})
	sched.logger.Debug("Job scheduled", "job", job.Description(),
		"trigger", trigger.Description(), "next_run", time.Unix(0, nextRunTime))
	return nil
}

// Start starts the scheduler execution loop. The scheduler runs until
// Stop is called or the context is canceled.
func (sched *Scheduler) Start(ctx context.Context) {
	sched.mtx.Lock()
	defer sched.mtx.Unlock()

	if sched.started {
		sched.logger.Info("Scheduler is already running")
		return
	}

	ctx, sched.cancel = context.WithCancel(ctx)
	go func() { <-ctx.Done(); sched.Stop() }()

	sched.wg.Add(1)
	go sched.startExecutionLoop(ctx)

	sched.started = true
}

// IsStarted determines whether the scheduler has been started.
func (sched *Scheduler) IsStarted() bool {
	sched.mtx.Lock()
	defer sched.mtx.Unlock()

	return sched.started
}

// JobCount returns the number of scheduled jobs.
func (sched *Scheduler) JobCount() int {
	sched.mtx.Lock()
	defer sched.mtx.Unlock()

	return sched.queue.size()
}

// Wait blocks until the scheduler stops running and all jobs
// have returned, or until the given context expires.
func (sched *Scheduler) Wait(ctx context.Context) {
	sig := make(chan struct{})
	go func() { defer close(sig); sched.wg.Wait() }()
	select {
	case <-ctx.Done():
	case <-sig:
	}
}

// Stop shuts down the scheduler.
func (sched *Scheduler) Stop() {
	sched.mtx.Lock()
	defer sched.mtx.Unlock()

	if !sched.started {
		return
	}

	sched.logger.Info("Closing the scheduler")
	sched.cancel()
	sched.started = false
}

func (sched *Scheduler) startExecutionLoop(ctx context.Context) {
	defer sched.wg.Done()
	for {
		if sched.JobCount() == 0 {
			select {
			case <-sched.interrupt:
			case <-ctx.Done():
				sched.logger.Debug("Exit the empty execution loop")
				return
			}
		} else {
			t := time.NewTimer(sched.calculateNextTick())
			select {
			case <-t.C:
				sched.executeAndReschedule(ctx)

			case <-sched.interrupt:
				t.Stop()

			case <-ctx.Done():
				sched.logger.Debug("Exit the execution loop")
				t.Stop()
				return
			}
		}
	}
}

func (sched *Scheduler) calculateNextTick() time.Duration {
	sched.mtx.Lock()
	defer sched.mtx.Unlock()

	head, err := sched.queue.head()
	if err != nil {
		return sched.opts.OutdatedThreshold
	}
	return time.Duration(parkTime(head.nextRunTime))
}

func (sched *Scheduler) executeAndReschedule(ctx context.Context) {
	sched.mtx.Lock()
	scheduled, err := sched.queue.pop()
	sched.mtx.Unlock()
	if err != nil {
		if !errors.Is(err, ErrQueueEmpty) {
			sched.logger.Error("Failed to fetch a job from the queue", "error", err)
		}
		return
	}

	// the head may have changed since the timer was armed
	if scheduled.nextRunTime > NowNano()+sched.opts.OutdatedThreshold.Nanoseconds() {
		sched.push(scheduled)
		return
	}

	if sched.jobIsUpToDate(scheduled) {
		sched.logger.Debug("Job is about to be executed", "job", scheduled.job.Description())
		if sched.opts.BlockingExecution {
			sched.execute(ctx, scheduled.job)
		} else {
			sched.wg.Add(1)
			go func() {
				defer sched.wg.Done()
				sched.execute(ctx, scheduled.job)
			}()
		}
	} else {
		sched.logger.Warn("Job skipped as outdated", "job", scheduled.job.Description(),
			"scheduled", time.Unix(0, scheduled.nextRunTime))
	}

	sched.rescheduleJob(scheduled)
}

func (sched *Scheduler) execute(ctx context.Context, job Job) {
	if err := job.Execute(ctx); err != nil {
		sched.logger.Error("Job execution failed", "job", job.Description(), "error", err)
	}
}

func (sched *Scheduler) rescheduleJob(scheduled *scheduledJob) {
	nextRunTime, err := scheduled.trigger.NextFireTime(scheduled.nextRunTime)
	if err != nil {
		sched.logger.Info("Job got out of the execution loop", "job",
			scheduled.job.Description(), "reason", err)
		return
	}
	scheduled.nextRunTime = nextRunTime
	sched.push(scheduled)
}

func (sched *Scheduler) push(scheduled *scheduledJob) {
	sched.mtx.Lock()
	sched.queue.push(scheduled)
	sched.mtx.Unlock()
	sched.reset()
}

func (sched *Scheduler) jobIsUpToDate(scheduled *scheduledJob) bool {
	return scheduled.nextRunTime > NowNano()-sched.opts.OutdatedThreshold.Nanoseconds()
}

func (sched *Scheduler) reset() {
	select {
	case sched.interrupt <- struct{}{}:
	default:
	}
}

// NowNano returns the current Unix time in nanoseconds.
func NowNano() int64 {
	return time.Now().UnixNano()
}

func parkTime(ts int64) int64 {
	now := NowNano()
	if ts > now {
		return ts - now
	}
	return 0
}
