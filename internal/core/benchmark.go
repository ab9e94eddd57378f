package core

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/errors"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/queue"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

const (
	// settings key prefix benchmark results persist under
	benchmarkKeyPrefix = "benchmark."

	diskBenchBytes  = 256 * 1024 * 1024
	cpuBenchSeconds = 3

	aiBenchModel  = "llama3"
	aiBenchPrompt = "Describe the water cycle in one paragraph."
)

// Benchmark runs the requested benchmark kind & persists the result under
// the job's benchmark id. Benchmarks never retry: a second run would measure
// a machine already warmed (or degraded) by the first, so a failure stands
// as the result.
func (h *handlers) Benchmark(ctx context.Context, job *structs.Job, report queue.ProgressFunc) ([]byte, error) {
	p := &structs.BenchmarkPayload{}
	if err := json.Unmarshal(job.Payload, p); err != nil {
		return nil, fmt.Errorf("%w undecodable payload: %v", errors.ErrValidation, err)
	}
	if structs.ToBenchmarkKind(string(p.Kind)) == "" {
		return nil, fmt.Errorf("%w unknown benchmark kind %s", errors.ErrValidation, p.Kind)
	}

	result := &structs.BenchmarkResult{
		BenchmarkID: p.BenchmarkID,
		Kind:        p.Kind,
		StartedAt:   timeNow(),
	}

	if p.Kind == structs.BenchmarkFull || p.Kind == structs.BenchmarkSystem {
		sys, err := h.benchmarkSystem(ctx, report)
		if err != nil {
			return nil, err
		}
		result.System = sys
	}
	report(50)

	if p.Kind == structs.BenchmarkFull || p.Kind == structs.BenchmarkAI {
		ai, err := h.benchmarkAI(ctx)
		if err != nil {
			return nil, err
		}
		result.AI = ai
	}
	result.FinishedAt = timeNow()

	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	if err = h.db.SetValue(benchmarkKeyPrefix+p.BenchmarkID, string(data)); err != nil {
		return nil, err
	}
	report(100)
	return data, nil
}

// benchmarkSystem measures sequential disk write throughput in the data dir
// and a single-core hashing rate.
func (h *handlers) benchmarkSystem(ctx context.Context, report queue.ProgressFunc) (*structs.SystemBenchmark, error) {
	disk, err := h.benchmarkDisk(ctx)
	if err != nil {
		return nil, err
	}
	report(25)

	return &structs.SystemBenchmark{
		DiskWriteMBps: disk,
		CPUHashOpsSec: benchmarkCPU(ctx),
	}, nil
}

func (h *handlers) benchmarkDisk(ctx context.Context) (float64, error) {
	if err := os.MkdirAll(h.opts.DataDir, 0750); err != nil {
		return 0, err
	}
	scratch := filepath.Join(h.opts.DataDir, ".benchmark.scratch")
	defer os.Remove(scratch)

	f, err := os.Create(scratch)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	buf := make([]byte, 4*1024*1024)
	start := time.Now()
	var written int64
	for written < diskBenchBytes {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n, err := f.Write(buf)
		if err != nil {
			return 0, err
		}
		written += int64(n)
	}
	if err = f.Sync(); err != nil {
		return 0, err
	}
	secs := time.Since(start).Seconds()
	return float64(written) / (1024 * 1024) / secs, nil
}

// benchmarkCPU hashes a counter in a tight loop for a fixed window.
func benchmarkCPU(ctx context.Context) float64 {
	buf := make([]byte, 64)
	deadline := time.Now().Add(cpuBenchSeconds * time.Second)
	var ops uint64
	for time.Now().Before(deadline) && ctx.Err() == nil {
		binary.LittleEndian.PutUint64(buf, ops)
		sha256.Sum256(buf)
		ops++
	}
	return float64(ops) / cpuBenchSeconds
}

// benchmarkAI times a single non-streamed generation against the local
// model server.
func (h *handlers) benchmarkAI(ctx context.Context) (*structs.AIBenchmark, error) {
	body, err := json.Marshal(map[string]interface{}{
		"model":  aiBenchModel,
		"prompt": aiBenchPrompt,
		"stream": false,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.opts.ModelServerURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	rsp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model server returned status %d generating", rsp.StatusCode)
	}

	reply := &struct {
		EvalCount    int64 `json:"eval_count"`
		EvalDuration int64 `json:"eval_duration"` // nanoseconds
	}{}
	if err = json.NewDecoder(io.LimitReader(rsp.Body, 16*1024*1024)).Decode(reply); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	tps := 0.0
	if reply.EvalDuration > 0 {
		tps = float64(reply.EvalCount) / (float64(reply.EvalDuration) / float64(time.Second))
	}
	return &structs.AIBenchmark{
		Model:          aiBenchModel,
		ResponseMillis: elapsed.Milliseconds(),
		TokensPerSec:   tps,
	}, nil
}
