package queue

import (
	"context"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

// ProgressFunc reports a handler's progress (0-100) against its job.
type ProgressFunc func(pct int)

// Handler processes one job. It should report progress as it goes and
// either return a result (JSON, handler specific) or an error. Errors are
// recorded against the job and may trigger a retry per the job's options.
type Handler func(ctx context.Context, job *structs.Job, report ProgressFunc) ([]byte, error)

type Queue interface {
	// Enqueue a job onto the named queue. If opts carries a DedupKey and
	// a job with that key is already waiting or active, no new job is
	// created: the result references the existing job with Created=false.
	// Producers never block on handler execution.
	Enqueue(queue, key string, payload []byte, opts *structs.EnqueueOptions) (*structs.EnqueueResult, error)

	// Register a handler for a job key on the given queue. Must be called
	// before Run on queues this process consumes.
	Register(queue, key string, h Handler) error

	// Run the queue & process jobs (via Register funcs). Blocks until
	// Close() is called.
	Run() error

	// Jobs lists jobs on a queue in the given states (nil = all states).
	Jobs(queue string, states []structs.JobState) ([]*structs.Job, error)

	// Job returns one job by id; errors.ErrNotFound if absent.
	Job(queue, id string) (*structs.Job, error)

	// UpsertRecurring registers a recurring enqueue on a cron cadence.
	// At most one scheduler entry exists per scheduleKey; calling again
	// with the same key replaces the previous entry.
	UpsertRecurring(queue, scheduleKey, cronPattern, key string, payload []byte, opts *structs.EnqueueOptions) error

	// Close & shutdown the queue.
	Close() error
}
