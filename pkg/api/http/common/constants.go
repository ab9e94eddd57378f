package common

const (
	// API_SERVICES is used to list installable services
	API_SERVICES = "/api/v1/services"

	// API_SERVICES_STATUS is used to read live container state
	API_SERVICES_STATUS = "/api/v1/services/status"

	// API_SERVICE_INSTALL is used to install one service (and its dependencies)
	API_SERVICE_INSTALL = "/api/v1/services/{name}/install"

	// API_DOWNLOADS is used to list or start file downloads
	API_DOWNLOADS = "/api/v1/downloads"

	// API_MODELS is used to start model downloads
	API_MODELS = "/api/v1/models"

	// API_RESOURCES is used to list installed resources
	API_RESOURCES = "/api/v1/resources"

	// API_RESOURCE is used to delete one installed resource
	API_RESOURCE = "/api/v1/resources/{id}"

	// API_BENCHMARKS is used to dispatch benchmarks
	API_BENCHMARKS = "/api/v1/benchmarks"

	// API_BENCHMARK is used to read one benchmark's state & result
	API_BENCHMARK = "/api/v1/benchmarks/{id}"

	// API_UPDATES is used to read the last update check outcome
	API_UPDATES = "/api/v1/updates"

	// API_UPDATES_CHECK is used to trigger an immediate update check
	API_UPDATES_CHECK = "/api/v1/updates/check"

	// API_EVENTS streams install & download progress events (SSE)
	API_EVENTS = "/api/v1/events"
)
