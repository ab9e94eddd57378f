package structs

// BenchmarkResult is the persisted outcome of one benchmark run.
// Sections not covered by the requested kind are left nil.
type BenchmarkResult struct {
	BenchmarkID string        `json:"benchmark_id"`
	Kind        BenchmarkKind `json:"kind"`
	StartedAt   int64         `json:"started_at"`
	FinishedAt  int64         `json:"finished_at"`

	System *SystemBenchmark `json:"system,omitempty"`
	AI     *AIBenchmark     `json:"ai,omitempty"`
}

// SystemBenchmark measures local disk & CPU throughput.
type SystemBenchmark struct {
	DiskWriteMBps float64 `json:"disk_write_mbps"`
	CPUHashOpsSec float64 `json:"cpu_hash_ops_sec"`
}

// AIBenchmark measures model server generation latency.
type AIBenchmark struct {
	Model          string  `json:"model"`
	ResponseMillis int64   `json:"response_millis"`
	TokensPerSec   float64 `json:"tokens_per_sec"`
}
