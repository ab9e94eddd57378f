package core

import (
	"context"
	"fmt"
	"net"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

// PreflightCheck inspects a service before any runtime change is made.
// A returned error aborts the install during PREFLIGHT.
type PreflightCheck func(ctx context.Context, svc *structs.Service) error

// DefaultPreflightChecks verify the spec is runnable on this host. They make
// no changes; an install that fails preflight leaves the runtime untouched.
func DefaultPreflightChecks() []PreflightCheck {
	return []PreflightCheck{
		CheckSpecComplete,
		CheckPortsFree,
	}
}

// CheckSpecComplete rejects specs missing the fields the runtime needs.
func CheckSpecComplete(_ context.Context, svc *structs.Service) error {
	if svc.Name == "" {
		return fmt.Errorf("service name is required")
	}
	if svc.Image == "" {
		return fmt.Errorf("service %s has no image", svc.Name)
	}
	for host := range svc.Ports {
		if host <= 0 || host > 65535 {
			return fmt.Errorf("service %s maps invalid host port %d", svc.Name, host)
		}
	}
	return nil
}

// CheckPortsFree verifies every host port the service wants is bindable.
func CheckPortsFree(_ context.Context, svc *structs.Service) error {
	for host := range svc.Ports {
		l, err := net.Listen("tcp", fmt.Sprintf(":%d", host))
		if err != nil {
			return fmt.Errorf("host port %d is unavailable: %v", host, err)
		}
		l.Close()
	}
	return nil
}
