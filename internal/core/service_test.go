package core

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/internal/mocks/pkg/database_mock"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/internal/mocks/pkg/queue_mock"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/internal/mocks/pkg/runtime_mock"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/errors"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/events"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/registry"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

func newTestService(t *testing.T) (*Service, *database_mock.MockDatabase, *queue_mock.MockQueue) {
	ctrl := gomock.NewController(t)
	db := database_mock.NewMockDatabase(ctrl)
	qu := queue_mock.NewMockQueue(ctrl)
	rt := runtime_mock.NewMockDriver(ctrl)

	me, err := NewService(db, qu, registry.New(db), rt, events.NewMemory(), OptionsClientDefault())
	assert.Nil(t, err)
	return me, db, qu
}

func TestNewServiceWorkerRegistersHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	db := database_mock.NewMockDatabase(ctrl)
	qu := queue_mock.NewMockQueue(ctrl)

	qu.EXPECT().Register(structs.QueueDownloads, structs.KeyFileDownload, gomock.Any()).Return(nil)
	qu.EXPECT().Register(structs.QueueModels, structs.KeyModelDownload, gomock.Any()).Return(nil)
	qu.EXPECT().Register(structs.QueueBenchmarks, structs.KeyBenchmark, gomock.Any()).Return(nil)
	qu.EXPECT().Register(structs.QueueMaintenance, structs.KeyUpdateCheck, gomock.Any()).Return(nil)
	qu.EXPECT().UpsertRecurring(
		structs.QueueMaintenance, scheduleUpdateCheck, defUpdateCheckCron, structs.KeyUpdateCheck,
		gomock.Any(), gomock.Any(),
	).DoAndReturn(
		func(queue, scheduleKey, cronPattern, key string, payload []byte, opts *structs.EnqueueOptions) error {
			// scheduled runs must collapse with manual checks & expire fast
			assert.Equal(t, dedupUpdateCheck, opts.DedupKey)
			assert.Equal(t, updateCheckRetention, opts.Retention)
			return nil
		})

	_, err := NewService(db, qu, registry.New(db), runtime_mock.NewMockDriver(ctrl), events.NewMemory(), OptionsServerDefault())

	assert.Nil(t, err)
}

func TestDispatchBenchmarkSingleAttempt(t *testing.T) {
	me, _, qu := newTestService(t)

	qu.EXPECT().Enqueue(structs.QueueBenchmarks, structs.KeyBenchmark, gomock.Any(), gomock.Any()).DoAndReturn(
		func(queue, key string, payload []byte, opts *structs.EnqueueOptions) (*structs.EnqueueResult, error) {
			// benchmarks never retry and dedup on their id
			assert.Equal(t, 1, opts.MaxAttempts)
			assert.Equal(t, "bench-1", opts.DedupKey)

			p := &structs.BenchmarkPayload{}
			assert.Nil(t, json.Unmarshal(payload, p))
			assert.Equal(t, "bench-1", p.BenchmarkID)
			assert.Equal(t, structs.BenchmarkFull, p.Kind)

			return &structs.EnqueueResult{Job: &structs.Job{ID: "bench-1"}, Created: true}, nil
		})

	result, err := me.DispatchBenchmark(structs.BenchmarkFull, "bench-1")

	assert.Nil(t, err)
	assert.True(t, result.Created)
}

func TestDispatchBenchmarkGeneratesID(t *testing.T) {
	me, _, qu := newTestService(t)

	qu.EXPECT().Enqueue(structs.QueueBenchmarks, structs.KeyBenchmark, gomock.Any(), gomock.Any()).DoAndReturn(
		func(queue, key string, payload []byte, opts *structs.EnqueueOptions) (*structs.EnqueueResult, error) {
			p := &structs.BenchmarkPayload{}
			assert.Nil(t, json.Unmarshal(payload, p))
			assert.NotEqual(t, "", p.BenchmarkID)
			assert.Equal(t, p.BenchmarkID, opts.DedupKey)
			return &structs.EnqueueResult{Job: &structs.Job{ID: p.BenchmarkID}, Created: true}, nil
		})

	_, err := me.DispatchBenchmark(structs.BenchmarkSystem, "")

	assert.Nil(t, err)
}

func TestDispatchBenchmarkUnknownKind(t *testing.T) {
	me, _, _ := newTestService(t)

	_, err := me.DispatchBenchmark("turbo", "bench-1")

	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestEnqueueDownloadDedupsByURL(t *testing.T) {
	me, _, qu := newTestService(t)

	qu.EXPECT().Enqueue(structs.QueueDownloads, structs.KeyFileDownload, gomock.Any(), gomock.Any()).DoAndReturn(
		func(queue, key string, payload []byte, opts *structs.EnqueueOptions) (*structs.EnqueueResult, error) {
			assert.Equal(t, "https://example.org/wiki.zim", opts.DedupKey)
			return &structs.EnqueueResult{Job: &structs.Job{ID: "j1"}, Created: true}, nil
		})

	_, err := me.EnqueueDownload(&structs.FileDownloadPayload{
		URL:      "https://example.org/wiki.zim",
		Filepath: "zim/wiki.zim",
		Filetype: "zim",
	})

	assert.Nil(t, err)
}

func TestEnqueueDownloadValidation(t *testing.T) {
	cases := []struct {
		Name  string
		Given *structs.FileDownloadPayload
	}{
		{"NoURL", &structs.FileDownloadPayload{Filepath: "a", Filetype: "zim"}},
		{"NoFilepath", &structs.FileDownloadPayload{URL: "https://x", Filetype: "zim"}},
		{"BadFiletype", &structs.FileDownloadPayload{URL: "https://x", Filepath: "a", Filetype: "iso"}},
		{"ModelFiletype", &structs.FileDownloadPayload{URL: "https://x", Filepath: "a", Filetype: "model"}},
	}

	me, _, _ := newTestService(t)
	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			_, err := me.EnqueueDownload(c.Given)
			assert.ErrorIs(t, err, errors.ErrValidation)
		})
	}
}

func TestEnqueueModelDownloadRequiresName(t *testing.T) {
	me, _, _ := newTestService(t)

	_, err := me.EnqueueModelDownload(&structs.ModelDownloadPayload{})

	assert.ErrorIs(t, err, errors.ErrValidation)
}

func liveJob(id, queue, key string, payload interface{}, progress int) *structs.Job {
	data, _ := json.Marshal(payload)
	return &structs.Job{ID: id, Queue: queue, Key: key, Payload: data, Progress: progress, State: structs.ACTIVE}
}

func TestListDownloadJobsMergesAndSorts(t *testing.T) {
	me, _, qu := newTestService(t)

	qu.EXPECT().Jobs(structs.QueueDownloads, structs.LiveStates).Return([]*structs.Job{
		liveJob("j-file", structs.QueueDownloads, structs.KeyFileDownload,
			&structs.FileDownloadPayload{URL: "https://x/wiki.zim", Filepath: "wiki.zim", Filetype: "zim"}, 40),
	}, nil)
	qu.EXPECT().Jobs(structs.QueueModels, structs.LiveStates).Return([]*structs.Job{
		liveJob("j-model", structs.QueueModels, structs.KeyModelDownload,
			&structs.ModelDownloadPayload{Model: "llama3"}, 70),
	}, nil)

	views, err := me.ListDownloadJobs("")

	assert.Nil(t, err)
	assert.Equal(t, 2, len(views))
	// most progressed first regardless of source queue
	assert.Equal(t, "j-model", views[0].JobID)
	assert.Equal(t, "j-file", views[1].JobID)
}

func TestListDownloadJobsFiletypeFilter(t *testing.T) {
	me, _, qu := newTestService(t)

	qu.EXPECT().Jobs(structs.QueueDownloads, structs.LiveStates).Return([]*structs.Job{
		liveJob("j-zim", structs.QueueDownloads, structs.KeyFileDownload,
			&structs.FileDownloadPayload{URL: "https://x/wiki.zim", Filepath: "wiki.zim", Filetype: "zim"}, 10),
		liveJob("j-map", structs.QueueDownloads, structs.KeyFileDownload,
			&structs.FileDownloadPayload{URL: "https://x/na.map", Filepath: "na.map", Filetype: "map"}, 90),
	}, nil)
	qu.EXPECT().Jobs(structs.QueueModels, structs.LiveStates).Return([]*structs.Job{}, nil)

	views, err := me.ListDownloadJobs("zim")

	assert.Nil(t, err)
	assert.Equal(t, 1, len(views))
	assert.Equal(t, "j-zim", views[0].JobID)
}

func TestCheckForUpdatesDedups(t *testing.T) {
	me, _, qu := newTestService(t)

	qu.EXPECT().Enqueue(structs.QueueMaintenance, structs.KeyUpdateCheck, gomock.Any(), gomock.Any()).DoAndReturn(
		func(queue, key string, payload []byte, opts *structs.EnqueueOptions) (*structs.EnqueueResult, error) {
			assert.Equal(t, dedupUpdateCheck, opts.DedupKey)
			assert.Equal(t, updateCheckRetention, opts.Retention)
			return &structs.EnqueueResult{Job: &structs.Job{ID: dedupUpdateCheck}, Created: false, Message: "job update-check already exists"}, nil
		})

	result, err := me.CheckForUpdates()

	assert.Nil(t, err)
	assert.False(t, result.Created)
}

func TestUpdateStatusNeverChecked(t *testing.T) {
	me, db, _ := newTestService(t)

	db.EXPECT().GetValue(keyUpdateLatest).Return("", fmt.Errorf("%w no such key", errors.ErrNotFound))

	status, err := me.UpdateStatus()

	assert.Nil(t, err)
	assert.Equal(t, defVersion, status.CurrentVersion)
	assert.False(t, status.UpdateAvailable)
	assert.Equal(t, int64(0), status.CheckedAt)
}

func TestUpdateStatus(t *testing.T) {
	me, db, _ := newTestService(t)

	db.EXPECT().GetValue(keyUpdateLatest).Return("1.4.0", nil)
	db.EXPECT().GetValue(keyUpdateAvailable).Return("true", nil)
	db.EXPECT().GetValue(keyUpdateCheckedAt).Return("1700000000", nil)

	status, err := me.UpdateStatus()

	assert.Nil(t, err)
	assert.Equal(t, "1.4.0", status.LatestVersion)
	assert.True(t, status.UpdateAvailable)
	assert.Equal(t, int64(1700000000), status.CheckedAt)
}

func TestDeleteResourceNotFound(t *testing.T) {
	me, db, _ := newTestService(t)

	db.EXPECT().Resources(structs.ResourceType("")).Return([]*structs.InstalledResource{}, nil)

	err := me.DeleteResource("ghost")

	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestDeleteResource(t *testing.T) {
	me, db, _ := newTestService(t)

	db.EXPECT().Resources(structs.ResourceType("")).Return([]*structs.InstalledResource{
		{ID: "r1", Type: structs.ResourceModel, FilePath: "llama3"},
	}, nil)
	db.EXPECT().DeleteResource("r1").Return(nil)

	err := me.DeleteResource("r1")

	assert.Nil(t, err)
}

func TestBenchmarkResult(t *testing.T) {
	me, db, _ := newTestService(t)

	stored, _ := json.Marshal(&structs.BenchmarkResult{BenchmarkID: "bench-1", Kind: structs.BenchmarkSystem})
	db.EXPECT().GetValue(benchmarkKeyPrefix + "bench-1").Return(string(stored), nil)

	result, err := me.BenchmarkResult("bench-1")

	assert.Nil(t, err)
	assert.Equal(t, "bench-1", result.BenchmarkID)
	assert.Equal(t, structs.BenchmarkSystem, result.Kind)
}

func TestRunRequiresWorker(t *testing.T) {
	me, _, _ := newTestService(t)

	err := me.Run()

	assert.ErrorIs(t, err, errors.ErrNotSupported)
}
