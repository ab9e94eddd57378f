package structs

import (
	"strings"
)

// InstallStatus tracks a service through its installation state machine.
type InstallStatus string

const (
	// IDLE - nothing has been requested yet
	IDLE InstallStatus = "IDLE"

	// in-flight states, strictly sequential within one install run
	PREFLIGHT InstallStatus = "PREFLIGHT"
	PULLING   InstallStatus = "PULLING"
	PULLED    InstallStatus = "PULLED"
	CREATING  InstallStatus = "CREATING"
	CREATED   InstallStatus = "CREATED"
	STARTING  InstallStatus = "STARTING"
	STARTED   InstallStatus = "STARTED"

	// end states (for this run; a new install request restarts at PREFLIGHT)
	COMPLETED InstallStatus = "COMPLETED"
	ERRORED   InstallStatus = "ERRORED"
)

// IsTerminalStatus returns true if the status ends an install run.
func IsTerminalStatus(status InstallStatus) bool {
	switch status {
	case COMPLETED, ERRORED:
		return true
	default:
		return false
	}
}

// IsBusyStatus returns true if an install run currently holds this service.
func IsBusyStatus(status InstallStatus) bool {
	return status != IDLE && !IsTerminalStatus(status)
}

func ToInstallStatus(s string) InstallStatus {
	switch strings.ToUpper(s) {
	case "IDLE":
		return IDLE
	case "PREFLIGHT":
		return PREFLIGHT
	case "PULLING":
		return PULLING
	case "PULLED":
		return PULLED
	case "CREATING":
		return CREATING
	case "CREATED":
		return CREATED
	case "STARTING":
		return STARTING
	case "STARTED":
		return STARTED
	case "COMPLETED":
		return COMPLETED
	case "ERRORED":
		return ERRORED
	default:
		return ""
	}
}
