package structs

import (
	"strings"
	"time"
)

// JobState is the queue-side lifecycle of one unit of background work.
type JobState string

const (
	WAITING JobState = "WAITING"
	ACTIVE  JobState = "ACTIVE"
	DELAYED JobState = "DELAYED"
	DONE    JobState = "COMPLETED"
	FAILED  JobState = "FAILED"
)

// LiveStates are the states the download aggregator projects over.
var LiveStates = []JobState{WAITING, ACTIVE, DELAYED}

func IsFinalJobState(s JobState) bool {
	switch s {
	case DONE, FAILED:
		return true
	default:
		return false
	}
}

func ToJobState(s string) JobState {
	switch strings.ToUpper(s) {
	case "WAITING":
		return WAITING
	case "ACTIVE":
		return ACTIVE
	case "DELAYED":
		return DELAYED
	case "COMPLETED":
		return DONE
	case "FAILED":
		return FAILED
	default:
		return ""
	}
}

// Job represents a single queued unit of work with its own progress and
// retry state. Jobs are ephemeral; the queue owns them.
type Job struct {
	// ID is unique within the queue. When a dedup key is given on enqueue
	// the ID is the dedup key, which is what collapses duplicates.
	ID string `json:"id"`

	// Queue is the named queue holding this job.
	Queue string `json:"queue"`

	// Key is the job's logical type, matching a registered handler.
	Key string `json:"key"`

	// Payload is the typed-per-kind job payload (see payload.go).
	Payload []byte `json:"payload"`

	// Progress is 0-100. Handlers report it; the queue doesn't enforce
	// monotonicity.
	Progress int `json:"progress"`

	AttemptsMade int `json:"attempts_made"`
	MaxAttempts  int `json:"max_attempts"`

	State JobState `json:"state"`

	// LastError is the most recent handler failure, if any.
	LastError string `json:"last_error"`

	// Result is set by the handler on success (JSON, handler specific).
	Result []byte `json:"result"`

	EnqueuedAt  int64 `json:"enqueued_at"`
	CompletedAt int64 `json:"completed_at"`
}

// EnqueueOptions control retry, dedup & retention for one enqueue call.
type EnqueueOptions struct {
	// MaxAttempts caps handler executions (1 = never retry).
	// Zero means the queue default.
	MaxAttempts int

	// DedupKey collapses duplicate enqueues: if a job with this key is
	// already waiting/active the enqueue is a no-op returning the
	// existing job.
	DedupKey string

	// Retention bounds how long a terminal job is kept before purge.
	Retention time.Duration

	// Timeout for a single handler execution. Zero means the queue default.
	Timeout time.Duration
}

// EnqueueResult reports what an enqueue actually did. A duplicate dedup key
// is not an error; Created is false and Job references the existing work.
type EnqueueResult struct {
	Job     *Job   `json:"job"`
	Created bool   `json:"created"`
	Message string `json:"message"`
}
