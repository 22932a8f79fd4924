package schedule

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Job represents a unit of work executed by the [Scheduler] when its
// associated [Trigger] fires.
type Job interface {
	// Execute is called by a Scheduler when the Trigger associated
	// with this job fires.
	Execute(context.Context) error

	// Description returns the description of the Job.
	Description() string
}

// Status represents a Job status.
type Status int8

const (
	// StatusNA is the initial Job status.
	StatusNA Status = iota

	// StatusOK indicates that the Job completed successfully.
	StatusOK

	// StatusFailure indicates that the Job failed.
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailure:
		return "failure"
	default:
		return "n/a"
	}
}

// Function represents an argument-less function which returns
// a generic type R and a possible error.
type Function[R any] func(context.Context) (R, error)

// FunctionJob represents a Job that invokes the passed Function and
// keeps the outcome of the last execution.
type FunctionJob[R any] struct {
	mtx      sync.RWMutex
	function Function[R]
	desc     string
	result   *R
	err      error
	status   Status
}

var _ Job = (*FunctionJob[any])(nil)

// NewFunctionJob returns a new FunctionJob with the given description.
func NewFunctionJob[R any](desc string, function Function[R]) *FunctionJob[R] {
	if desc == "" {
		desc = fmt.Sprintf("FunctionJob::%p", &function)
	}
	return &FunctionJob[R]{
		function: function,
		desc:     desc,
		status:   StatusNA,
	}
}

// Description returns the description of the FunctionJob.
func (f *FunctionJob[R]) Description() string {
	return f.desc
}

// Execute invokes the held function, storing its result and error.
func (f *FunctionJob[R]) Execute(ctx context.Context) error {
	result, err := f.function(ctx)

	f.mtx.Lock()
	defer f.mtx.Unlock()
	if err != nil {
		f.status = StatusFailure
		f.result = nil
		f.err = err
	} else {
		f.status = StatusOK
		f.result = &result
		f.err = nil
	}
	return err
}

// Result returns the result of the last successful execution, or nil.
func (f *FunctionJob[R]) Result() *R {
	f.mtx.RLock()
	defer f.mtx.RUnlock()
	return f.result
}

// Error returns the error of the last execution.
func (f *FunctionJob[R]) Error() error {
	f.mtx.RLock()
	defer f.mtx.RUnlock()
	return f.err
}

// JobStatus returns the status of the FunctionJob.
func (f *FunctionJob[R]) JobStatus() Status {
	f.mtx.RLock()
	defer f.mtx.RUnlock()
	return f.status
}

type isolatedJob struct {
	Job
	isRunning atomic.Bool
}

var _ Job = (*isolatedJob)(nil)

// Execute runs the underlying job unless a previous execution is
// still in progress.
func (j *isolatedJob) Execute(ctx context.Context) error {
	if wasRunning := j.isRunning.Swap(true); wasRunning {
		return fmt.Errorf("%w: %s", ErrJobRunning, j.Description())
	}
	defer j.isRunning.Store(false)

	return j.Job.Execute(ctx)
}

// NewIsolatedJob wraps a job object and ensures that only one
// instance of the job's Execute method can be called at a time.
func NewIsolatedJob(underlying Job) Job {
	return &isolatedJob{
		Job: underlying,
	}
}
