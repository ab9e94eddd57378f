package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/database"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/errors"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/events"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/registry"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/runtime"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

var (
	// states an install request may claim a service from
	claimableStates = []structs.InstallStatus{
		structs.IDLE,
		structs.COMPLETED,
		structs.ERRORED,
	}

	// states a failing run may be driven to ERRORED from
	busyStates = []structs.InstallStatus{
		structs.PREFLIGHT,
		structs.PULLING,
		structs.PULLED,
		structs.CREATING,
		structs.CREATED,
		structs.STARTING,
		structs.STARTED,
	}

	timeNow = func() int64 { return time.Now().Unix() }
)

// installer drives services through the installation state machine.
//
// The concurrency guard is the conditional status update on the stored row,
// not an in-process lock: installs may be requested from multiple processes
// and exactly one may win the claim.
type installer struct {
	db     database.Database
	reg    *registry.Registry
	rt     runtime.Driver
	bc     events.Broadcaster
	checks []PreflightCheck
}

func newInstaller(db database.Database, reg *registry.Registry, rt runtime.Driver, bc events.Broadcaster, checks []PreflightCheck) *installer {
	return &installer{db: db, reg: reg, rt: rt, bc: bc, checks: checks}
}

// Install resolves the dependency chain for the named service & drives each
// link through the state machine, deepest ancestor first. Ancestors already
// COMPLETED from a prior run are skipped, not reinstalled.
func (i *installer) Install(ctx context.Context, name string) error {
	chain, err := i.reg.InstallChain(name)
	if err != nil {
		return err
	}

	// reject rather than queue twice if any link is mid-install
	for _, svc := range chain {
		if structs.IsBusyStatus(svc.InstallationStatus) {
			return fmt.Errorf("%w install of %s (dependency chain of %s) is %s",
				errors.ErrAlreadyInProgress, svc.Name, name, svc.InstallationStatus)
		}
	}

	for _, svc := range chain {
		if svc.Name != name && svc.InstallationStatus == structs.COMPLETED {
			continue
		}
		if err = i.installOne(ctx, svc); err != nil {
			return err
		}
	}
	return nil
}

// installOne runs the state machine for a single service. Every transition
// commits to the registry before the next step begins & is broadcast as it
// occurs. Any failure drives the service to ERRORED; there is no auto-retry
// and no mid-flight cancellation.
func (i *installer) installOne(ctx context.Context, svc *structs.Service) error {
	// atomically claim the service; losing the race means another install
	// run (possibly in another process) holds it
	n, err := i.db.SetServiceStatus(svc.Name, claimableStates, structs.PREFLIGHT, "")
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w install of %s", errors.ErrAlreadyInProgress, svc.Name)
	}
	i.broadcast(svc.Name, structs.EventInitializing, "")

	// preflight makes no runtime changes; failure here never reaches PULLING
	if err = i.preflight(ctx, svc); err != nil {
		return i.fail(svc.Name, err)
	}
	i.broadcast(svc.Name, structs.EventPreflight, "preflight passed")

	if err = i.transition(svc.Name, structs.PREFLIGHT, structs.PULLING, structs.EventPulling, ""); err != nil {
		return i.fail(svc.Name, err)
	}
	if err = i.rt.PullImage(ctx, svc); err != nil {
		return i.fail(svc.Name, err)
	}
	if err = i.transition(svc.Name, structs.PULLING, structs.PULLED, structs.EventPulled, ""); err != nil {
		return i.fail(svc.Name, err)
	}

	if err = i.transition(svc.Name, structs.PULLED, structs.CREATING, structs.EventCreating, ""); err != nil {
		return i.fail(svc.Name, err)
	}
	containerID, err := i.rt.CreateContainer(ctx, svc)
	if err != nil {
		return i.fail(svc.Name, err)
	}
	if err = i.transition(svc.Name, structs.CREATING, structs.CREATED, structs.EventCreated, containerID); err != nil {
		return i.fail(svc.Name, err)
	}

	if err = i.transition(svc.Name, structs.CREATED, structs.STARTING, structs.EventStarting, ""); err != nil {
		return i.fail(svc.Name, err)
	}
	if err = i.rt.StartContainer(ctx, containerID); err != nil {
		return i.fail(svc.Name, err)
	}
	if err = i.transition(svc.Name, structs.STARTING, structs.STARTED, structs.EventStarted, ""); err != nil {
		return i.fail(svc.Name, err)
	}

	if err = i.db.SetServiceInstalled(svc.Name); err != nil {
		return i.fail(svc.Name, err)
	}
	return i.transition(svc.Name, structs.STARTED, structs.COMPLETED, structs.EventCompleted, "installed")
}

func (i *installer) preflight(ctx context.Context, svc *structs.Service) error {
	for _, check := range i.checks {
		if err := check(ctx, svc); err != nil {
			return fmt.Errorf("%w %v", errors.ErrPreflight, err)
		}
	}
	return nil
}

// transition commits one step of the state machine & broadcasts it.
func (i *installer) transition(name string, from, to structs.InstallStatus, evt structs.EventType, msg string) error {
	n, err := i.db.SetServiceStatus(name, []structs.InstallStatus{from}, to, msg)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w service %s is no longer %s", errors.ErrInvalidState, name, from)
	}
	i.broadcast(name, evt, msg)
	return nil
}

// fail drives a service to ERRORED, persisting the cause & broadcasting it.
// Partially created runtime resources are left for administrative cleanup.
func (i *installer) fail(name string, cause error) error {
	if _, err := i.db.SetServiceStatus(name, busyStates, structs.ERRORED, cause.Error()); err != nil {
		log.Println("[Installer]", "failed to persist error for", name, err)
	}
	i.broadcast(name, structs.EventError, cause.Error())
	return cause
}

func (i *installer) broadcast(name string, t structs.EventType, msg string) {
	err := i.bc.Publish(structs.TopicInstall, &structs.InstallEvent{
		ServiceName: name,
		Type:        t,
		Timestamp:   timeNow(),
		Message:     msg,
	})
	if err != nil {
		// best effort; observers reconcile via the registry
		log.Println("[Installer]", "failed to publish", t, "for", name, err)
	}
}
