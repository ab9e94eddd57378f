package database

import (
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

// Database is the durable store behind the service registry, installed
// resource records and generic key/value settings.
type Database interface {
	// Services returns services by name, or all services if names is nil.
	Services(names []string) ([]*structs.Service, error)

	// UpsertServices writes catalog entries (config sync). Installation
	// state on existing rows is preserved; only spec fields are updated.
	UpsertServices(in []*structs.Service) error

	// SetServiceStatus conditionally moves a service's installation status.
	// The update only applies while the stored status is one of 'from';
	// the returned count is 0 if the condition did not hold. This is the
	// atomic check-and-set that guards against two install runs racing
	// through preflight (the installer may run across processes).
	SetServiceStatus(name string, from []structs.InstallStatus, to structs.InstallStatus, message string) (int64, error)

	// SetServiceInstalled marks a service installed (final COMPLETED commit).
	SetServiceInstalled(name string) error

	InsertResource(r *structs.InstalledResource) error

	// Resources returns installed resources, optionally filtered by type
	// ("" = all).
	Resources(rtype structs.ResourceType) ([]*structs.InstalledResource, error)

	// DeleteResource removes an installed resource record.
	// Returns errors.ErrNotFound if no such record exists.
	DeleteResource(id string) error

	// GetValue reads a settings key; errors.ErrNotFound if absent.
	GetValue(key string) (string, error)
	SetValue(key, value string) error

	Close() error
}
