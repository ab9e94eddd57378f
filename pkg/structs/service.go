package structs

// ServiceSpec are fields that come from the service catalog (config sync).
type ServiceSpec struct {
	// Name uniquely identifies the service.
	//
	// Required.
	Name string `json:"name" yaml:"name"`

	// Image is the container image to pull & run.
	//
	// Required.
	Image string `json:"image" yaml:"image"`

	// Command overrides the image entrypoint arguments (optional).
	Command []string `json:"command" yaml:"command"`

	// Env is passed to the container on creation.
	Env map[string]string `json:"env" yaml:"env"`

	// Ports maps host port -> container port.
	Ports map[int]int `json:"ports" yaml:"ports"`

	// DependsOn names another service that must be COMPLETED before
	// this one installs. Empty means no dependency.
	// The registry rejects self references and cycles at load time.
	DependsOn string `json:"depends_on" yaml:"depends_on"`

	// IsDependency hides this service from top-level listings; it only
	// exists to serve another service.
	IsDependency bool `json:"is_dependency" yaml:"is_dependency"`

	// UILocation is where a user reaches the service once installed
	// (URL, port or path).
	UILocation string `json:"ui_location" yaml:"ui_location"`

	// Metadata is opaque extra config for the service.
	Metadata map[string]string `json:"metadata" yaml:"metadata"`
}

// Service is a catalog entry describing one installable containerized
// application and its install state.
type Service struct {
	ServiceSpec `json:",inline"`

	// InstallationStatus is mutated only by the installer (via conditional
	// updates against the stored row).
	InstallationStatus InstallStatus `json:"installation_status"`

	// Installed is set once an install run reaches COMPLETED.
	Installed bool `json:"installed"`

	// StatusMessage holds the cause of the last ERRORED transition.
	StatusMessage string `json:"status_message"`

	// ETag is used for optimistic locking on updates
	ETag string `json:"etag"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}
