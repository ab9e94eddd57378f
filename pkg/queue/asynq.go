package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"

	liberrors "github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/errors"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

const (
	taskTypeRune = ":"
	listPageSize = 500
)

// Asynq is a Queue implementation over redis / asynq.
//
// Dedup keys map onto asynq task IDs: enqueueing a second job with the same
// key while one is waiting, active or delayed returns the existing job rather
// than creating a duplicate. A completed or failed run holding the key is
// retained history only and is evicted so the new request creates real work.
// Retention & retry counting are delegated to asynq; per-job progress rides
// a redis hash next to the queue (see progress.go).
type Asynq struct {
	opts *Options
	conn asynq.RedisConnOpt

	// the asynq client & inspector
	ins *asynq.Inspector
	cli *asynq.Client

	// handler progress reports land here
	progress *progressStore

	// recurring entries by schedule key, so upserts replace rather than stack
	scheduler *asynq.Scheduler
	entries   map[string]string

	// if Register is called we're intended to start a server
	lock    sync.Mutex
	mux     *asynq.ServeMux
	srv     *asynq.Server
	queues  map[string]int
	started bool
}

func NewAsynqQueue(opts *Options) (*Asynq, error) {
	opts.SetDefaults()
	conn, err := redisConnOpt(opts)
	if err != nil {
		return nil, err
	}
	progress, err := newProgressStore(opts.URL, opts.TLSConfig)
	if err != nil {
		return nil, err
	}
	return &Asynq{
		opts:      opts,
		conn:      conn,
		ins:       asynq.NewInspector(conn),
		cli:       asynq.NewClient(conn),
		progress:  progress,
		scheduler: asynq.NewScheduler(conn, nil),
		entries:   map[string]string{},
		queues:    map[string]int{},
	}, nil
}

func (a *Asynq) Close() error {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.started {
		a.scheduler.Shutdown()
	}
	if a.srv != nil {
		a.srv.Stop()
		a.srv.Shutdown()
	}
	a.cli.Close()
	return a.progress.Close()
}

// Enqueue a job. A dedup conflict with a live job is not an error; the
// caller gets the existing job back with Created=false. Conflicts with a
// retained completed / failed run evict the old record and enqueue fresh:
// asynq holds the task key for the whole retention window, but only
// in-flight work should collapse repeat requests.
func (a *Asynq) Enqueue(queue, key string, payload []byte, opts *structs.EnqueueOptions) (*structs.EnqueueResult, error) {
	if opts == nil {
		opts = &structs.EnqueueOptions{}
	}
	aopts := a.buildOptions(queue, opts)
	task := asynq.NewTask(taskType(queue, key), payload)

	for evicted := false; ; evicted = true {
		info, err := a.cli.Enqueue(task, aopts...)
		if err == nil {
			if perr := a.progress.Init(queue, info.ID); perr != nil {
				log.Println("[Queue]", "failed to init progress for", queue, info.ID, perr)
			}
			return &structs.EnqueueResult{Job: a.toJob(info), Created: true, Message: "enqueued"}, nil
		}
		if !errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil, err
		}

		existing, gerr := a.Job(queue, opts.DedupKey)
		if gerr != nil {
			if errors.Is(gerr, liberrors.ErrNotFound) && !evicted {
				// purged between the conflict and the lookup; try again
				continue
			}
			return nil, gerr
		}
		if !structs.IsFinalJobState(existing.State) || evicted {
			return &structs.EnqueueResult{
				Job:     existing,
				Created: false,
				Message: fmt.Sprintf("job %s already exists", existing.ID),
			}, nil
		}

		// the key is held by a terminal run: clear it and enqueue again (once)
		if derr := a.ins.DeleteTask(queue, opts.DedupKey); derr != nil && !errors.Is(derr, asynq.ErrTaskNotFound) {
			return nil, derr
		}
	}
}

// Register a handler for (queue, key) pairs this process consumes.
func (a *Asynq) Register(queue, key string, h Handler) error {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.mux == nil {
		a.mux = asynq.NewServeMux()
	}
	a.queues[queue] = 1
	a.mux.HandleFunc(taskType(queue, key), func(ctx context.Context, t *asynq.Task) error {
		id, _ := asynq.GetTaskID(ctx)
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)

		job := &structs.Job{
			ID:           id,
			Queue:        queue,
			Key:          key,
			Payload:      t.Payload(),
			State:        structs.ACTIVE,
			AttemptsMade: retried + 1,
			MaxAttempts:  maxRetry + 1,
		}
		job.Progress, job.EnqueuedAt = a.progress.Get(queue, id)

		result, err := h(ctx, job, func(pct int) {
			if perr := a.progress.Set(queue, id, pct); perr != nil {
				log.Println("[Queue]", "progress update failed for", queue, id, perr)
			}
		})
		if err != nil {
			return err
		}

		if perr := a.progress.Set(queue, id, 100); perr != nil {
			log.Println("[Queue]", "progress update failed for", queue, id, perr)
		}
		if result != nil {
			if w := t.ResultWriter(); w != nil {
				if _, werr := w.Write(result); werr != nil {
					log.Println("[Queue]", "failed to write result for", queue, id, werr)
				}
			}
		}
		return nil
	})
	return nil
}

// Run the consumer server & scheduler. Blocks until Close.
func (a *Asynq) Run() error {
	a.lock.Lock()
	if a.mux == nil {
		a.mux = asynq.NewServeMux()
	}
	queues := map[string]int{}
	for q, priority := range a.queues {
		queues[q] = priority
	}
	if len(queues) == 0 {
		queues[structs.QueueMaintenance] = 1
	}
	a.srv = asynq.NewServer(a.conn, asynq.Config{
		Concurrency: a.opts.Concurrency,
		Queues:      queues,
		RetryDelayFunc: func(n int, err error, t *asynq.Task) time.Duration {
			return backoffDelay(a.opts.RetryBaseDelay, n)
		},
	})
	if err := a.scheduler.Start(); err != nil {
		a.lock.Unlock()
		return err
	}
	a.started = true
	srv, mux := a.srv, a.mux
	a.lock.Unlock()

	return srv.Run(mux)
}

// Jobs lists jobs on a queue in the given states (nil = all).
func (a *Asynq) Jobs(queue string, states []structs.JobState) ([]*structs.Job, error) {
	if states == nil {
		states = []structs.JobState{structs.WAITING, structs.ACTIVE, structs.DELAYED, structs.DONE, structs.FAILED}
	}

	out := []*structs.Job{}
	for _, st := range states {
		var infos []*asynq.TaskInfo
		var err error
		switch st {
		case structs.WAITING:
			infos, err = a.ins.ListPendingTasks(queue, asynq.PageSize(listPageSize))
		case structs.ACTIVE:
			infos, err = a.ins.ListActiveTasks(queue, asynq.PageSize(listPageSize))
		case structs.DELAYED:
			infos, err = a.ins.ListScheduledTasks(queue, asynq.PageSize(listPageSize))
			if err == nil {
				var retry []*asynq.TaskInfo
				retry, err = a.ins.ListRetryTasks(queue, asynq.PageSize(listPageSize))
				infos = append(infos, retry...)
			}
		case structs.DONE:
			infos, err = a.ins.ListCompletedTasks(queue, asynq.PageSize(listPageSize))
		case structs.FAILED:
			infos, err = a.ins.ListArchivedTasks(queue, asynq.PageSize(listPageSize))
		default:
			continue
		}
		if err != nil {
			if errors.Is(err, asynq.ErrQueueNotFound) {
				// nothing has been enqueued here yet
				continue
			}
			return nil, err
		}
		for _, i := range infos {
			out = append(out, a.toJob(i))
		}
	}
	return out, nil
}

// Job returns one job by id.
func (a *Asynq) Job(queue, id string) (*structs.Job, error) {
	info, err := a.ins.GetTaskInfo(queue, id)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			return nil, fmt.Errorf("%w job %s", liberrors.ErrNotFound, id)
		}
		return nil, err
	}
	return a.toJob(info), nil
}

// UpsertRecurring registers a recurring enqueue on a cron cadence,
// replacing any previous entry for the schedule key. A DedupKey in opts
// applies to every fired run, so scheduled work collapses with a manual
// enqueue of the same key already in flight (the scheduled fire is skipped).
func (a *Asynq) UpsertRecurring(queue, scheduleKey, cronPattern, key string, payload []byte, opts *structs.EnqueueOptions) error {
	if _, err := cron.ParseStandard(cronPattern); err != nil {
		return fmt.Errorf("%w bad cron pattern %q: %v", liberrors.ErrValidation, cronPattern, err)
	}
	if opts == nil {
		opts = &structs.EnqueueOptions{}
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	if prev, ok := a.entries[scheduleKey]; ok {
		if err := a.scheduler.Unregister(prev); err != nil {
			return err
		}
		delete(a.entries, scheduleKey)
	}
	entryID, err := a.scheduler.Register(cronPattern, asynq.NewTask(taskType(queue, key), payload), a.buildOptions(queue, opts)...)
	if err != nil {
		return err
	}
	a.entries[scheduleKey] = entryID
	return nil
}

// buildOptions folds queue defaults into asynq enqueue options. DedupKey
// maps to the asynq task ID here so both direct enqueues and scheduled
// task templates dedup the same way.
func (a *Asynq) buildOptions(queue string, opts *structs.EnqueueOptions) []asynq.Option {
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = a.opts.MaxAttempts
	}
	retention := opts.Retention
	if retention <= 0 {
		retention = a.opts.Retention
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = a.opts.Timeout
	}
	aopts := []asynq.Option{
		asynq.Queue(queue),
		asynq.MaxRetry(maxAttempts - 1),
		asynq.Timeout(timeout),
		asynq.Retention(retention),
	}
	if opts.DedupKey != "" {
		aopts = append(aopts, asynq.TaskID(opts.DedupKey))
	}
	return aopts
}

func (a *Asynq) toJob(info *asynq.TaskInfo) *structs.Job {
	state := toJobState(info.State)
	pct, enqueuedAt := a.progress.Get(info.Queue, info.ID)
	if state == structs.DONE {
		pct = 100
	}

	attempts := info.Retried
	if state == structs.ACTIVE || structs.IsFinalJobState(state) {
		// the in-flight / final attempt counts too
		attempts = info.Retried + 1
	}

	j := &structs.Job{
		ID:           info.ID,
		Queue:        info.Queue,
		Key:          keyFromType(info.Type),
		Payload:      info.Payload,
		Progress:     pct,
		AttemptsMade: attempts,
		MaxAttempts:  info.MaxRetry + 1,
		State:        state,
		LastError:    info.LastErr,
		Result:       info.Result,
		EnqueuedAt:   enqueuedAt,
	}
	if !info.CompletedAt.IsZero() {
		j.CompletedAt = info.CompletedAt.Unix()
	}
	return j
}

// backoffDelay is exponential in the attempt count over the base delay.
func backoffDelay(base time.Duration, attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	if attempts > 16 {
		attempts = 16
	}
	return base * time.Duration(int64(1)<<uint(attempts))
}

func toJobState(s asynq.TaskState) structs.JobState {
	switch s {
	case asynq.TaskStateActive:
		return structs.ACTIVE
	case asynq.TaskStatePending, asynq.TaskStateAggregating:
		return structs.WAITING
	case asynq.TaskStateScheduled, asynq.TaskStateRetry:
		return structs.DELAYED
	case asynq.TaskStateCompleted:
		return structs.DONE
	case asynq.TaskStateArchived:
		return structs.FAILED
	default:
		return structs.WAITING
	}
}

// taskType builds the asynq task type for a (queue, job key) pair.
func taskType(queue, key string) string {
	return fmt.Sprintf("%s%s%s", queue, taskTypeRune, key)
}

func keyFromType(taskType string) string {
	parts := strings.SplitN(taskType, taskTypeRune, 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return taskType
}

func redisConnOpt(opts *Options) (asynq.RedisConnOpt, error) {
	if strings.Contains(opts.URL, "://") {
		conn, err := asynq.ParseRedisURI(opts.URL)
		if err != nil {
			return nil, err
		}
		if rc, ok := conn.(asynq.RedisClientOpt); ok && opts.TLSConfig != nil {
			rc.TLSConfig = opts.TLSConfig
			return rc, nil
		}
		return conn, nil
	}
	return asynq.RedisClientOpt{Addr: opts.URL, TLSConfig: opts.TLSConfig}, nil
}
