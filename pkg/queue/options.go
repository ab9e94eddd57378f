package queue

import (
	"crypto/tls"
	"time"
)

const (
	defConcurrency    = 4
	defMaxAttempts    = 3
	defRetryBaseDelay = 10 * time.Second
	defRetention      = 24 * time.Hour
	defTimeout        = 6 * time.Hour
)

// Options are options for the queue.
type Options struct {
	// URL encodes how we'll connect to the queue (redis).
	URL string

	// TLSConfig needed to connect to the queue (optional).
	TLSConfig *tls.Config

	// Concurrency is the number of jobs one worker process runs at once.
	Concurrency int

	// MaxAttempts is the default attempt cap where an enqueue doesn't set one.
	MaxAttempts int

	// RetryBaseDelay is the base of the exponential backoff between attempts.
	RetryBaseDelay time.Duration

	// Retention is how long terminal jobs are kept before purge.
	Retention time.Duration

	// Timeout is the default cap on a single handler execution.
	Timeout time.Duration
}

func (o *Options) SetDefaults() {
	if o.Concurrency <= 0 {
		o.Concurrency = defConcurrency
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = defMaxAttempts
	}
	if o.RetryBaseDelay <= 0 {
		o.RetryBaseDelay = defRetryBaseDelay
	}
	if o.Retention <= 0 {
		o.Retention = defRetention
	}
	if o.Timeout <= 0 {
		o.Timeout = defTimeout
	}
}
