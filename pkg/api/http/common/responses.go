package common

import (
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

// DeleteResponse reports the outcome of a delete call.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// BenchmarkResponse bundles a benchmark's queue state with its persisted
// result (nil until the run finishes).
type BenchmarkResponse struct {
	Job    *structs.Job             `json:"job"`
	Result *structs.BenchmarkResult `json:"result,omitempty"`
}
