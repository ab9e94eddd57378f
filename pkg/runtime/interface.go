package runtime

import (
	"context"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

// ServiceStatus is one running container as the runtime reports it.
type ServiceStatus struct {
	ServiceName string `json:"service_name"`
	ContainerID string `json:"container_id"`
	Status      string `json:"status"`
}

// Driver is the container runtime the installer delegates to. It exposes
// create/pull/start/status primitives only; orchestration stays out of it.
type Driver interface {
	// PullImage fetches the service's image.
	PullImage(ctx context.Context, svc *structs.Service) error

	// CreateContainer instantiates a container from the stored spec and
	// returns the container id. It does not start it.
	CreateContainer(ctx context.Context, svc *structs.Service) (string, error)

	// StartContainer starts a previously created container.
	StartContainer(ctx context.Context, id string) error

	// ServicesStatus reports the status of all managed containers.
	ServicesStatus(ctx context.Context) ([]*ServiceStatus, error)
}
