package core

const (
	defDataDir         = "/data/nomad"
	defModelServerURL  = "http://localhost:11434"
	defManifestURL     = "https://updates.crosstalksolutions.com/nomad/manifest.json"
	defUpdateCheckCron = "0 3 * * *"
	defVersion         = "0.0.0-dev"
)

// Options passed to the core service on creation.
type Options struct {
	// Worker registers job handlers & the recurring maintenance schedule.
	// API-only processes leave this off and merely produce / read jobs.
	Worker bool

	// Version is the running appliance version, compared by update checks.
	Version string

	// DataDir is where downloads land & benchmarks scratch.
	DataDir string

	// ModelServerURL is the local model server the model download &
	// AI benchmark handlers talk to.
	ModelServerURL string

	// ManifestURL is the remote release manifest for update checks.
	ManifestURL string

	// UpdateCheckCron is the recurring update check cadence.
	UpdateCheckCron string
}

func (o *Options) SetDefaults() {
	if o.Version == "" {
		o.Version = defVersion
	}
	if o.DataDir == "" {
		o.DataDir = defDataDir
	}
	if o.ModelServerURL == "" {
		o.ModelServerURL = defModelServerURL
	}
	if o.ManifestURL == "" {
		o.ManifestURL = defManifestURL
	}
	if o.UpdateCheckCron == "" {
		o.UpdateCheckCron = defUpdateCheckCron
	}
}

// OptionsClientDefault runs a core service that performs no background work.
// This is intended for processes that serve the API & enqueue jobs only.
func OptionsClientDefault() *Options {
	return &Options{Worker: false}
}

// OptionsServerDefault runs a core service with job handlers registered &
// the recurring maintenance schedule installed.
func OptionsServerDefault() *Options {
	return &Options{Worker: true}
}
