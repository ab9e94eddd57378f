package core

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/internal/utils"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/database"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/errors"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/events"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/queue"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/registry"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/runtime"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

// dedup keys for singleton jobs
const (
	dedupUpdateCheck = "update-check"

	scheduleUpdateCheck = "nightly-update-check"

	// The outcome of an update check lives in settings; the job record is
	// only useful while in flight. Kept short so a retained run never holds
	// the dedup key when the nightly schedule fires.
	updateCheckRetention = time.Hour
)

// Service is the heart of the system, tying together the registry, queue,
// container runtime, durable store & event broadcaster. The API layer calls
// it; it owns all orchestration decisions.
type Service struct {
	db   database.Database
	qu   queue.Queue
	reg  *registry.Registry
	bc   events.Broadcaster
	opts *Options

	installer  *installer
	aggregator *aggregator
	handlers   *handlers
}

// NewService builds the core service. With opts.Worker set the process also
// consumes jobs: handlers are registered & the recurring update check is
// scheduled (Run must then be called).
func NewService(db database.Database, qu queue.Queue, reg *registry.Registry, rt runtime.Driver, bc events.Broadcaster, opts *Options) (*Service, error) {
	if opts == nil {
		opts = OptionsServerDefault()
	}
	opts.SetDefaults()

	h := &handlers{
		db:     db,
		bc:     bc,
		client: &http.Client{}, // job timeouts come from the queue, not here
		opts:   opts,
	}
	me := &Service{
		db:         db,
		qu:         qu,
		reg:        reg,
		bc:         bc,
		opts:       opts,
		installer:  newInstaller(db, reg, rt, bc, DefaultPreflightChecks()),
		aggregator: &aggregator{qu: qu},
		handlers:   h,
	}
	if !opts.Worker {
		return me, nil
	}

	for _, r := range []struct {
		Queue   string
		Key     string
		Handler queue.Handler
	}{
		{structs.QueueDownloads, structs.KeyFileDownload, h.FileDownload},
		{structs.QueueModels, structs.KeyModelDownload, h.ModelDownload},
		{structs.QueueBenchmarks, structs.KeyBenchmark, h.Benchmark},
		{structs.QueueMaintenance, structs.KeyUpdateCheck, h.UpdateCheck},
	} {
		if err := qu.Register(r.Queue, r.Key, r.Handler); err != nil {
			return nil, err
		}
	}

	payload, err := json.Marshal(&structs.UpdateCheckPayload{ManifestURL: opts.ManifestURL})
	if err != nil {
		return nil, err
	}
	err = qu.UpsertRecurring(
		structs.QueueMaintenance,
		scheduleUpdateCheck,
		opts.UpdateCheckCron,
		structs.KeyUpdateCheck,
		payload,
		&structs.EnqueueOptions{DedupKey: dedupUpdateCheck, Retention: updateCheckRetention},
	)
	if err != nil {
		return nil, err
	}
	return me, nil
}

// InstallService installs the named service & any uninstalled dependencies,
// deepest first. Blocks until the run completes or fails; callers wanting
// progress subscribe to install events before calling.
func (s *Service) InstallService(ctx context.Context, name string) (*structs.InstallResult, error) {
	if err := s.installer.Install(ctx, name); err != nil {
		return nil, err
	}
	return &structs.InstallResult{Success: true, Message: fmt.Sprintf("installed %s", name)}, nil
}

// Services lists registered services. Dependency-only services are hidden
// unless asked for.
func (s *Service) Services(includeDependencies bool) ([]*structs.Service, error) {
	return s.reg.Services(includeDependencies)
}

// ServicesStatus reports what the container runtime is actually running.
func (s *Service) ServicesStatus(ctx context.Context) ([]*runtime.ServiceStatus, error) {
	return s.installer.rt.ServicesStatus(ctx)
}

// EnqueueDownload queues a file download. Deduplicated by source URL: while
// a download for the same URL is live a second request returns the existing
// job rather than racing two writers over one file.
func (s *Service) EnqueueDownload(p *structs.FileDownloadPayload) (*structs.EnqueueResult, error) {
	if p.URL == "" {
		return nil, fmt.Errorf("%w url is required", errors.ErrValidation)
	}
	if p.Filepath == "" {
		return nil, fmt.Errorf("%w filepath is required", errors.ErrValidation)
	}
	if t := structs.ToResourceType(p.Filetype); t == "" || t == structs.ResourceModel {
		return nil, fmt.Errorf("%w filetype must be zim or map, got %q", errors.ErrValidation, p.Filetype)
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return s.qu.Enqueue(structs.QueueDownloads, structs.KeyFileDownload, payload, &structs.EnqueueOptions{
		DedupKey: p.URL,
	})
}

// EnqueueModelDownload queues a model pull, deduplicated by model name.
func (s *Service) EnqueueModelDownload(p *structs.ModelDownloadPayload) (*structs.EnqueueResult, error) {
	if p.Model == "" {
		return nil, fmt.Errorf("%w model name is required", errors.ErrValidation)
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return s.qu.Enqueue(structs.QueueModels, structs.KeyModelDownload, payload, &structs.EnqueueOptions{
		DedupKey: p.Model,
	})
}

// ListDownloadJobs returns the unified live download view, most progressed
// first, optionally filtered by filetype.
func (s *Service) ListDownloadJobs(filetype string) ([]*structs.DownloadJobView, error) {
	return s.aggregator.Downloads(filetype)
}

// DispatchBenchmark queues a benchmark run. A benchmark executes at most
// once; failures are terminal. An empty id gets a generated one. The second
// dispatch of a live id returns the existing job.
func (s *Service) DispatchBenchmark(kind structs.BenchmarkKind, id string) (*structs.EnqueueResult, error) {
	if structs.ToBenchmarkKind(string(kind)) == "" {
		return nil, fmt.Errorf("%w unknown benchmark kind %q", errors.ErrValidation, kind)
	}
	if id == "" {
		id = utils.NewRandomID()
	}
	payload, err := json.Marshal(&structs.BenchmarkPayload{BenchmarkID: id, Kind: kind})
	if err != nil {
		return nil, err
	}
	return s.qu.Enqueue(structs.QueueBenchmarks, structs.KeyBenchmark, payload, &structs.EnqueueOptions{
		MaxAttempts: 1,
		DedupKey:    id,
	})
}

// BenchmarkJob returns the queue-side state of a benchmark by id.
func (s *Service) BenchmarkJob(id string) (*structs.Job, error) {
	return s.qu.Job(structs.QueueBenchmarks, id)
}

// BenchmarkResult returns a persisted benchmark result, surviving the job
// itself being purged from the queue.
func (s *Service) BenchmarkResult(id string) (*structs.BenchmarkResult, error) {
	raw, err := s.db.GetValue(benchmarkKeyPrefix + id)
	if err != nil {
		return nil, err
	}
	result := &structs.BenchmarkResult{}
	if err = json.Unmarshal([]byte(raw), result); err != nil {
		return nil, err
	}
	return result, nil
}

// CheckForUpdates queues an immediate update check, collapsing onto any
// check already in flight.
func (s *Service) CheckForUpdates() (*structs.EnqueueResult, error) {
	payload, err := json.Marshal(&structs.UpdateCheckPayload{ManifestURL: s.opts.ManifestURL})
	if err != nil {
		return nil, err
	}
	return s.qu.Enqueue(structs.QueueMaintenance, structs.KeyUpdateCheck, payload, &structs.EnqueueOptions{
		DedupKey:  dedupUpdateCheck,
		Retention: updateCheckRetention,
	})
}

// UpdateStatus reads the outcome of the most recent update check. If no
// check has run yet the status is empty with CheckedAt zero.
func (s *Service) UpdateStatus() (*structs.UpdateStatus, error) {
	status := &structs.UpdateStatus{CurrentVersion: s.opts.Version}

	latest, err := s.db.GetValue(keyUpdateLatest)
	if stderrors.Is(err, errors.ErrNotFound) {
		return status, nil
	}
	if err != nil {
		return nil, err
	}
	status.LatestVersion = latest

	if v, err := s.db.GetValue(keyUpdateAvailable); err == nil {
		status.UpdateAvailable, _ = strconv.ParseBool(v)
	}
	if v, err := s.db.GetValue(keyUpdateCheckedAt); err == nil {
		status.CheckedAt, _ = strconv.ParseInt(v, 10, 64)
	}
	return status, nil
}

// Resources lists installed resources, optionally filtered by type.
func (s *Service) Resources(rtype structs.ResourceType) ([]*structs.InstalledResource, error) {
	return s.db.Resources(rtype)
}

// DeleteResource removes an installed resource record & its file on disk.
func (s *Service) DeleteResource(id string) error {
	resources, err := s.db.Resources("")
	if err != nil {
		return err
	}
	var target *structs.InstalledResource
	for _, r := range resources {
		if r.ID == id {
			target = r
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w resource %s", errors.ErrNotFound, id)
	}
	if err = s.db.DeleteResource(id); err != nil {
		return err
	}
	// models live inside the model server, there is no file of ours to remove
	if target.Type != structs.ResourceModel {
		if err = os.Remove(target.FilePath); err != nil && !os.IsNotExist(err) {
			log.Println("[Core]", "record deleted but file removal failed for", target.FilePath, err)
		}
	}
	return nil
}

// SyncCatalog upserts a catalog file into the service registry. Spec fields
// update in place; installation state on existing rows is untouched.
func (s *Service) SyncCatalog(path string) error {
	return s.reg.SyncFromConfig(path)
}

// Subscribe to a broadcast topic (install progress / download progress).
func (s *Service) Subscribe(topic string) (*events.Subscription, error) {
	return s.bc.Subscribe(topic)
}

// Run processes jobs until Close. Only meaningful with opts.Worker set.
func (s *Service) Run() error {
	if !s.opts.Worker {
		return fmt.Errorf("%w this process was not configured as a worker", errors.ErrNotSupported)
	}
	return s.qu.Run()
}

// Close shuts down the service & everything it owns.
func (s *Service) Close() error {
	if err := s.qu.Close(); err != nil {
		log.Println("[Core]", "error closing queue", err)
	}
	if err := s.bc.Close(); err != nil {
		log.Println("[Core]", "error closing broadcaster", err)
	}
	return s.db.Close()
}
