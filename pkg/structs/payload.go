package structs

import (
	"encoding/json"
	"strings"
)

// Job keys; each maps to one registered handler.
const (
	KeyFileDownload  = "file_download"
	KeyModelDownload = "model_download"
	KeyBenchmark     = "benchmark"
	KeyUpdateCheck   = "update_check"
)

// Queue names.
const (
	QueueDownloads   = "downloads"
	QueueModels      = "models"
	QueueBenchmarks  = "benchmarks"
	QueueMaintenance = "maintenance"
)

// FileDownloadPayload asks for a URL to be streamed to disk.
type FileDownloadPayload struct {
	URL           string `json:"url"`
	Filepath      string `json:"filepath"`
	Filetype      string `json:"filetype"` // zim | map
	CollectionRef string `json:"collection_ref"`
	Version       string `json:"version"`

	// ExpectedBytes sizes the progress percentage. Zero means unknown;
	// progress is then reported in coarse steps.
	ExpectedBytes int64 `json:"expected_bytes"`
}

// ModelDownloadPayload asks the local model server to pull a model by name.
type ModelDownloadPayload struct {
	Model string `json:"model"`
}

type BenchmarkKind string

const (
	BenchmarkFull   BenchmarkKind = "full"
	BenchmarkSystem BenchmarkKind = "system"
	BenchmarkAI     BenchmarkKind = "ai"
)

func ToBenchmarkKind(s string) BenchmarkKind {
	switch strings.ToLower(s) {
	case "full":
		return BenchmarkFull
	case "system":
		return BenchmarkSystem
	case "ai":
		return BenchmarkAI
	default:
		return ""
	}
}

// BenchmarkPayload runs one benchmark. BenchmarkID doubles as the dedup key
// so a second dispatch for the same id returns the existing job.
type BenchmarkPayload struct {
	BenchmarkID string        `json:"benchmark_id"`
	Kind        BenchmarkKind `json:"kind"`
}

// UpdateCheckPayload queries a remote manifest for a newer release.
type UpdateCheckPayload struct {
	ManifestURL string `json:"manifest_url"`
}

// DownloadView projects a file download job into the unified client view.
func (p *FileDownloadPayload) DownloadView(j *Job) *DownloadJobView {
	return &DownloadJobView{
		JobID:    j.ID,
		Source:   p.URL,
		Target:   p.Filepath,
		Filetype: p.Filetype,
		Progress: j.Progress,
	}
}

// DownloadView projects a model download job into the unified client view.
func (p *ModelDownloadPayload) DownloadView(j *Job) *DownloadJobView {
	return &DownloadJobView{
		JobID:    j.ID,
		Source:   p.Model,
		Target:   p.Model,
		Filetype: "model",
		Progress: j.Progress,
	}
}

// ViewForJob decodes a live job from one of the download queues into the
// shared view shape. Returns nil for jobs that don't project (unknown key
// or undecodable payload).
func ViewForJob(j *Job) *DownloadJobView {
	switch j.Key {
	case KeyFileDownload:
		p := &FileDownloadPayload{}
		if err := json.Unmarshal(j.Payload, p); err != nil {
			return nil
		}
		return p.DownloadView(j)
	case KeyModelDownload:
		p := &ModelDownloadPayload{}
		if err := json.Unmarshal(j.Payload, p); err != nil {
			return nil
		}
		return p.DownloadView(j)
	default:
		return nil
	}
}
