package queue

import (
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

func TestTaskType(t *testing.T) {
	assert.Equal(t, "downloads:file_download", taskType(structs.QueueDownloads, structs.KeyFileDownload))
}

func TestKeyFromType(t *testing.T) {
	cases := []struct {
		Name   string
		Given  string
		Expect string
	}{
		{"QueueAndKey", "downloads:file_download", "file_download"},
		{"KeyOnly", "benchmark", "benchmark"},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, c.Expect, keyFromType(c.Given))
		})
	}
}

func TestToJobState(t *testing.T) {
	cases := []struct {
		Name   string
		Given  asynq.TaskState
		Expect structs.JobState
	}{
		{"Pending", asynq.TaskStatePending, structs.WAITING},
		{"Aggregating", asynq.TaskStateAggregating, structs.WAITING},
		{"Active", asynq.TaskStateActive, structs.ACTIVE},
		{"Scheduled", asynq.TaskStateScheduled, structs.DELAYED},
		{"Retry", asynq.TaskStateRetry, structs.DELAYED},
		{"Completed", asynq.TaskStateCompleted, structs.DONE},
		{"Archived", asynq.TaskStateArchived, structs.FAILED},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, c.Expect, toJobState(c.Given))
		})
	}
}

func TestBackoffDelay(t *testing.T) {
	base := 10 * time.Second

	assert.Equal(t, 10*time.Second, backoffDelay(base, 0))
	assert.Equal(t, 20*time.Second, backoffDelay(base, 1))
	assert.Equal(t, 40*time.Second, backoffDelay(base, 2))
	assert.Equal(t, 10*time.Second, backoffDelay(base, -1))
	// growth is capped so huge retry counts don't overflow
	assert.Equal(t, backoffDelay(base, 16), backoffDelay(base, 40))
}

func TestBuildOptionsMapsDedupKey(t *testing.T) {
	a := &Asynq{opts: &Options{}}
	a.opts.SetDefaults()

	// the dedup key must ride along as the asynq task ID on every path that
	// builds options (direct enqueues and scheduled task templates alike)
	taskID := ""
	for _, o := range a.buildOptions(structs.QueueMaintenance, &structs.EnqueueOptions{DedupKey: "update-check"}) {
		if o.Type() == asynq.TaskIDOpt {
			taskID = o.Value().(string)
		}
	}
	assert.Equal(t, "update-check", taskID)

	for _, o := range a.buildOptions(structs.QueueMaintenance, &structs.EnqueueOptions{}) {
		assert.NotEqual(t, asynq.TaskIDOpt, o.Type())
	}
}

func TestUpsertRecurringRejectsBadPattern(t *testing.T) {
	a := &Asynq{entries: map[string]string{}}

	err := a.UpsertRecurring(structs.QueueMaintenance, "nightly", "not-a-cron", structs.KeyUpdateCheck, nil, nil)

	assert.NotNil(t, err)
}
