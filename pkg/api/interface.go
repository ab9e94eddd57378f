package api

import (
	"context"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/events"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/runtime"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

// API represents the functions Nomad servers should expose.
type API interface {
	// Implemented in internal/core.Service

	InstallService(ctx context.Context, name string) (*structs.InstallResult, error)
	Services(includeDependencies bool) ([]*structs.Service, error)
	ServicesStatus(ctx context.Context) ([]*runtime.ServiceStatus, error)

	EnqueueDownload(p *structs.FileDownloadPayload) (*structs.EnqueueResult, error)
	EnqueueModelDownload(p *structs.ModelDownloadPayload) (*structs.EnqueueResult, error)
	ListDownloadJobs(filetype string) ([]*structs.DownloadJobView, error)

	DispatchBenchmark(kind structs.BenchmarkKind, id string) (*structs.EnqueueResult, error)
	BenchmarkJob(id string) (*structs.Job, error)
	BenchmarkResult(id string) (*structs.BenchmarkResult, error)

	CheckForUpdates() (*structs.EnqueueResult, error)
	UpdateStatus() (*structs.UpdateStatus, error)

	Resources(rtype structs.ResourceType) ([]*structs.InstalledResource, error)
	DeleteResource(id string) error

	Subscribe(topic string) (*events.Subscription, error)

	// SyncCatalog upserts a catalog file into the service registry.
	SyncCatalog(path string) error

	// Run consumes jobs until Close (worker processes only).
	Run() error
	Close() error
}

type Server interface {
	ServeForever(api API) error
	Close() error
}
