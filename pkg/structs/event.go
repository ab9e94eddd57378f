package structs

// Broadcast topics. Delivery is best effort: observers that reconnect must
// re-derive current state from the registry / download listing, not from
// buffered events (there is no replay).
const (
	TopicInstall   = "service.install"
	TopicDownloads = "downloads"
)

// EventType labels one installation progress event.
type EventType string

const (
	EventInitializing EventType = "initializing"
	EventPreflight    EventType = "preflight"
	EventPulling      EventType = "pulling"
	EventPulled       EventType = "pulled"
	EventCreating     EventType = "creating"
	EventCreated      EventType = "created"
	EventStarting     EventType = "starting"
	EventStarted      EventType = "started"
	EventCompleted    EventType = "completed"
	EventError        EventType = "error"
)

// InstallEvent is pushed to observers as an install run progresses.
type InstallEvent struct {
	ServiceName string    `json:"service_name"`
	Type        EventType `json:"type"`
	Timestamp   int64     `json:"timestamp"`
	Message     string    `json:"message"`
}

// DownloadEvent is pushed when a download job reports progress.
type DownloadEvent struct {
	JobID     string `json:"job_id"`
	Queue     string `json:"queue"`
	Progress  int    `json:"progress"`
	Timestamp int64  `json:"timestamp"`
}

// UpdateStatus is the persisted outcome of an update check.
type UpdateStatus struct {
	CurrentVersion  string `json:"current_version"`
	LatestVersion   string `json:"latest_version"`
	UpdateAvailable bool   `json:"update_available"`
	CheckedAt       int64  `json:"checked_at"`
}

// InstallResult is returned to the API layer from an install request.
type InstallResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
