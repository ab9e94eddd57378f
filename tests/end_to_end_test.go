package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

const wait = 30 * time.Second

// waitForFinal polls a job until it reaches a final state.
func waitForFinal(t *testing.T, queue, id string) *structs.Job {
	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		job, err := setup.que.Job(queue, id)
		if err == nil && structs.IsFinalJobState(job.State) {
			return job
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish within %s", id, wait)
	return nil
}

// TestFileDownloadEndToEnd
//
// - serves a file from a local http server
// - enqueues a download for it
// - waits for the worker to complete the job
// - checks the file landed and the resource record exists
// - deletes the resource and checks the file is gone
func TestFileDownloadEndToEnd(t *testing.T) {
	requireSetup(t)

	content := []byte("zim zim zim")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer ts.Close()

	result, err := setup.svc.EnqueueDownload(&structs.FileDownloadPayload{
		URL:           ts.URL + "/e2e.zim",
		Filepath:      "zim/e2e.zim",
		Filetype:      "zim",
		CollectionRef: "e2e-test",
	})
	assert.Nil(t, err)
	assert.True(t, result.Created)

	job := waitForFinal(t, structs.QueueDownloads, result.Job.ID)
	assert.Equal(t, structs.DONE, job.State)
	assert.Equal(t, 100, job.Progress)

	resources, err := setup.svc.Resources(structs.ResourceZim)
	assert.Nil(t, err)

	var installed *structs.InstalledResource
	for _, r := range resources {
		if r.CollectionRef == "e2e-test" {
			installed = r
		}
	}
	if installed == nil {
		t.Fatal("no resource record for completed download")
	}
	assert.Equal(t, int64(len(content)), installed.SizeBytes)

	data, err := os.ReadFile(installed.FilePath)
	assert.Nil(t, err)
	assert.Equal(t, content, data)

	assert.Nil(t, setup.svc.DeleteResource(installed.ID))
	_, err = os.Stat(installed.FilePath)
	assert.True(t, os.IsNotExist(err))
}

// TestDuplicateDownloadCollapses
//
// - holds a download open on a slow server
// - enqueues the same URL again
// - the second enqueue returns the first job, not a new one
func TestDuplicateDownloadCollapses(t *testing.T) {
	requireSetup(t)

	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte("slow"))
	}))
	defer ts.Close()
	defer close(release)

	p := &structs.FileDownloadPayload{URL: ts.URL + "/slow.zim", Filepath: "zim/slow.zim", Filetype: "zim"}

	first, err := setup.svc.EnqueueDownload(p)
	assert.Nil(t, err)
	assert.True(t, first.Created)

	second, err := setup.svc.EnqueueDownload(p)
	assert.Nil(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Job.ID, second.Job.ID)

	// the live job appears in the unified download view
	views, err := setup.svc.ListDownloadJobs("zim")
	assert.Nil(t, err)
	found := false
	for _, v := range views {
		if v.JobID == first.Job.ID {
			found = true
		}
	}
	assert.True(t, found)
}

// TestReenqueueAfterCompletedRun
//
// - runs a download to completion (the finished job stays retained)
// - enqueues the same URL again
// - a fresh job is created & runs, rather than the retained record being
//   handed back as a no-op
func TestReenqueueAfterCompletedRun(t *testing.T) {
	requireSetup(t)

	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("again"))
	}))
	defer ts.Close()

	p := &structs.FileDownloadPayload{URL: ts.URL + "/again.zim", Filepath: "zim/again.zim", Filetype: "zim"}

	first, err := setup.svc.EnqueueDownload(p)
	assert.Nil(t, err)
	assert.True(t, first.Created)
	job := waitForFinal(t, structs.QueueDownloads, first.Job.ID)
	assert.Equal(t, structs.DONE, job.State)

	second, err := setup.svc.EnqueueDownload(p)
	assert.Nil(t, err)
	assert.True(t, second.Created)

	job = waitForFinal(t, structs.QueueDownloads, second.Job.ID)
	assert.Equal(t, structs.DONE, job.State)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

// TestFailedDownloadCanBeRerequested
//
// - a download exhausts its attempts against a broken server
// - the server comes good & the same URL is requested again
// - the repeat request creates a fresh job that succeeds, rather than being
//   blocked by the archived failure until retention expires
func TestFailedDownloadCanBeRerequested(t *testing.T) {
	requireSetup(t)

	var healthy int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&healthy) == 0 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer ts.Close()

	p := &structs.FileDownloadPayload{URL: ts.URL + "/flaky.zim", Filepath: "zim/flaky.zim", Filetype: "zim"}

	first, err := setup.svc.EnqueueDownload(p)
	assert.Nil(t, err)
	job := waitForFinal(t, structs.QueueDownloads, first.Job.ID)
	assert.Equal(t, structs.FAILED, job.State)

	atomic.StoreInt32(&healthy, 1)

	second, err := setup.svc.EnqueueDownload(p)
	assert.Nil(t, err)
	assert.True(t, second.Created)

	job = waitForFinal(t, structs.QueueDownloads, second.Job.ID)
	assert.Equal(t, structs.DONE, job.State)
}

// TestFailedDownloadLeavesNoFile
//
// - enqueues a download that always 404s
// - waits for the job to exhaust its attempts
// - checks no file was left behind
func TestFailedDownloadLeavesNoFile(t *testing.T) {
	requireSetup(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	result, err := setup.svc.EnqueueDownload(&structs.FileDownloadPayload{
		URL: ts.URL + "/missing.zim", Filepath: "zim/missing.zim", Filetype: "zim",
	})
	assert.Nil(t, err)

	job := waitForFinal(t, structs.QueueDownloads, result.Job.ID)
	assert.Equal(t, structs.FAILED, job.State)
	assert.NotEqual(t, "", job.LastError)
}

// TestCatalogSyncAndChain
//
// - syncs a small catalog with one dependency edge
// - checks dependency-only services are hidden from the default listing
func TestCatalogSyncAndChain(t *testing.T) {
	requireSetup(t)

	catalog := []byte(`services:
  - name: e2e-ollama
    image: ollama/ollama:latest
    is_dependency: true
  - name: e2e-open-webui
    image: ghcr.io/open-webui/open-webui:main
    depends_on: e2e-ollama
`)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	assert.Nil(t, os.WriteFile(path, catalog, 0600))

	assert.Nil(t, setup.svc.SyncCatalog(path))

	visible, err := setup.svc.Services(false)
	assert.Nil(t, err)
	names := map[string]bool{}
	for _, s := range visible {
		names[s.Name] = true
	}
	assert.True(t, names["e2e-open-webui"])
	assert.False(t, names["e2e-ollama"])

	all, err := setup.svc.Services(true)
	assert.Nil(t, err)
	found := map[string]bool{}
	for _, s := range all {
		found[s.Name] = true
	}
	assert.True(t, found["e2e-ollama"])
}
